package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/duongtuttbn/tokenkit/config"
	"github.com/duongtuttbn/tokenkit/log"
	"github.com/duongtuttbn/tokenkit/pricefeed"
)

func main() {
	app := &cli.App{
		Name:  "ethprice",
		Usage: "print the current ETH/USD spot price",
		Action: func(c *cli.Context) error {
			config.LoadEnv()
			fetch(c.Context, config.LoadPriceFeed())
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Error("ethprice failed")
	}
}

func fetch(ctx context.Context, cfg *config.PriceFeedConfig) (float64, bool) {
	log.Init(cfg.LogLevel)
	client := pricefeed.NewClient(pricefeed.Config{
		BaseURL: cfg.APIURL,
		APIKey:  cfg.APIKey,
	})
	return pricefeed.FetchEthUsdPrice(ctx, client)
}
