package preflight

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/duongtuttbn/tokenkit/concurrency"
	"github.com/duongtuttbn/tokenkit/lerror"
	"github.com/duongtuttbn/tokenkit/log"
)

const maxConcurrentLookups = 4

type CodeReader interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// CheckContracts makes sure every address already holds contract code. The
// lookups run in parallel; they are read-only and happen before any
// transaction is sent.
func CheckContracts(ctx context.Context, reader CodeReader, addresses ...common.Address) error {
	if len(addresses) == 0 {
		return nil
	}
	runner := concurrency.NewGoRoutineRunner[int]().SetMaxConcurrentJobs(maxConcurrentLookups)
	for _, address := range addresses {
		address := address
		runner.AddJob(func(ctx context.Context, index int) (int, error) {
			code, err := reader.CodeAt(ctx, address, nil)
			if err != nil {
				return 0, errors.Wrap(lerror.NetworkFailure.ToError(err.Error()), "code lookup for "+address.Hex())
			}
			return len(code), nil
		})
	}

	sizes, errs, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if err := concurrency.FirstError(errs); err != nil {
		return err
	}
	for i, size := range sizes {
		if size == 0 {
			return lerror.MissingConfig.ToError("no contract code at " + addresses[i].Hex())
		}
		log.Debugf("%s has %d bytes of code", addresses[i].Hex(), size)
	}
	return nil
}
