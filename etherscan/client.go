package etherscan

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/duongtuttbn/tokenkit"
	"github.com/duongtuttbn/tokenkit/lerror"
	"github.com/duongtuttbn/tokenkit/log"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 5 * time.Second
)

type Config struct {
	APIURL       string
	APIKey       string
	Timeout      time.Duration
	PollInterval time.Duration
}

type Client struct {
	rest         *resty.Client
	apiURL       string
	apiKey       string
	pollInterval time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, lerror.MissingConfig.ToError("ETHERSCAN_API_KEY is not set")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = defaultPollInterval
	}
	return &Client{
		rest:         resty.New().SetTimeout(timeout),
		apiURL:       cfg.APIURL,
		apiKey:       cfg.APIKey,
		pollInterval: pollInterval,
	}, nil
}

// VerifySourceCode submits the source and returns the GUID of the queued
// verification job
func (c *Client) VerifySourceCode(ctx context.Context, req VerifyRequest) (string, error) {
	res, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("chainid", strconv.FormatInt(req.ChainID, 10)).
		SetFormData(map[string]string{
			"apikey":          c.apiKey,
			"module":          "contract",
			"action":          "verifysourcecode",
			"contractaddress": req.ContractAddress,
			"sourceCode":      string(req.SourceCode),
			"codeformat":      "solidity-standard-json-input",
			"contractname":    req.ContractName,
			"compilerversion": req.CompilerVersion,
			// the misspelling is part of the API
			"constructorArguements": req.ConstructorArguments,
		}).
		SetResult(&Response{}).
		Post(c.apiURL)
	result, ok, err := c.decode(res, err)
	if err != nil {
		return "", errors.Wrap(err, "verifysourcecode")
	}
	if !ok {
		if strings.Contains(strings.ToLower(result), strings.ToLower(resultAlreadyVerified)) {
			return "", nil
		}
		return "", lerror.VerificationFailed.ToError(result)
	}
	return result, nil
}

// CheckVerifyStatus returns the raw status text of a verification job
func (c *Client) CheckVerifyStatus(ctx context.Context, chainID int64, guid string) (string, error) {
	res, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"chainid": strconv.FormatInt(chainID, 10),
			"apikey":  c.apiKey,
			"module":  "contract",
			"action":  "checkverifystatus",
			"guid":    guid,
		}).
		SetResult(&Response{}).
		Get(c.apiURL)
	result, _, err := c.decode(res, err)
	if err != nil {
		return "", errors.Wrap(err, "checkverifystatus")
	}
	return result, nil
}

// Verify submits the source and waits until Etherscan settles the job.
// A contract that is already verified counts as success. The returned GUID is
// empty in that case.
func (c *Client) Verify(ctx context.Context, req VerifyRequest) (string, error) {
	guid, err := c.VerifySourceCode(ctx, req)
	if err != nil {
		return "", err
	}
	if guid == "" {
		log.Infof("Contract %s is already verified", req.ContractAddress)
		return "", nil
	}
	log.Debugf("Verification submitted, guid %s", guid)

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return guid, errors.Wrap(ctx.Err(), "waiting for verification")
		case <-ticker.C:
		}
		status, err := c.CheckVerifyStatus(ctx, req.ChainID, guid)
		if err != nil {
			return guid, err
		}
		switch {
		case strings.EqualFold(status, resultPending):
			log.Debugf("Verification %s pending", guid)
			continue
		case strings.EqualFold(status, resultPass), strings.EqualFold(status, resultAlreadyVerified):
			return guid, nil
		default:
			return guid, lerror.VerificationFailed.ToError(status)
		}
	}
}

func (c *Client) decode(res *resty.Response, err error) (string, bool, error) {
	if err != nil {
		return "", false, lerror.NetworkFailure.ToError(err.Error())
	}
	if res.IsError() {
		return "", false, lerror.NetworkFailure.ToError("etherscan returned " + res.Status())
	}
	body, ok := res.Result().(*Response)
	if !ok || body == nil || body.Status == "" {
		return "", false, lerror.InvalidResponse.ToError("unexpected etherscan response: " + res.String())
	}
	result, err := tokenkit.ConvertType[string](body.Result)
	if err != nil {
		return "", false, errors.Wrap(lerror.InvalidResponse.ToError(err.Error()), "etherscan result is not a string")
	}
	return result, body.Status == statusOK, nil
}
