// Package digest runs one checksum configuration over many payloads at once.
package digest

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iamNilotpal/kff/internal/core/domain"
	"github.com/iamNilotpal/kff/pkg/channels"
	"github.com/iamNilotpal/kff/pkg/checksum"
	"github.com/iamNilotpal/kff/pkg/logger"
	"github.com/iamNilotpal/kff/pkg/system"
)

// Item is one named payload of a batch.
type Item struct {
	Name    string
	Factory channels.Factory
}

// Outcome is the result of digesting one Item. Exactly one of Results and
// Err is set.
type Outcome struct {
	Name    string
	Results *checksum.Results
	Err     error
}

// Service digests batches of payloads with a shared calculator.
type Service struct {
	options    *domain.DigestOptions
	calculator *checksum.Calculator
	log        *zap.SugaredLogger
}

// New builds the service and its calculator. Nil opts use the defaults
// (SHA-1 plus CRC32, 32KB blocks, 4 payloads at a time). Extra calculator
// options, such as metrics, are applied last.
func New(opts *domain.DigestOptions, log *zap.SugaredLogger, extra ...checksum.Option) (*Service, error) {
	if opts == nil {
		opts = &domain.DigestOptions{}
	}
	opts = prepareDefaults(opts)

	if err := Validate(opts); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(opts.ChecksumOptions.Algorithms))
	for _, alg := range opts.ChecksumOptions.Algorithms {
		names = append(names, string(alg))
	}

	calcOpts := []checksum.Option{
		checksum.WithCRC(opts.ChecksumOptions.UseCRC),
		checksum.WithSsdeep(opts.ChecksumOptions.UseSsdeep),
		checksum.WithBlockSize(int(opts.ReadConfig.BlockSize)),
	}
	if opts.ChecksumOptions.Observer != nil {
		calcOpts = append(calcOpts, checksum.WithObserver(opts.ChecksumOptions.Observer))
	}

	calculator, err := checksum.New(names, append(calcOpts, extra...)...)
	if err != nil {
		return nil, err
	}

	return &Service{options: opts, calculator: calculator, log: logger.OrNop(log)}, nil
}

// Calculator returns the shared calculator, e.g. to flip its toggles.
func (s *Service) Calculator() *checksum.Calculator {
	return s.calculator
}

// DigestAll digests every item, at most ReadConfig.Concurrency at a time,
// and returns one outcome per item in input order.
//
// Without ContinueOnError the first failure cancels the rest of the batch
// and is returned; items that never ran carry the cancellation error. With
// ContinueOnError every item runs and the returned error combines all
// failures. Either way DigestAll returns only after every channel it opened
// is closed again, also when ctx is cancelled.
func (s *Service) DigestAll(ctx context.Context, items []Item) ([]Outcome, error) {
	outcomes := make([]Outcome, len(items))
	for i, item := range items {
		outcomes[i].Name = item.Name
	}

	err := system.RunWithContext(ctx, func(runCtx context.Context) error {
		group, groupCtx := errgroup.WithContext(runCtx)
		group.SetLimit(s.options.ReadConfig.Concurrency)

		for i, item := range items {
			i, item := i, item
			group.Go(func() error {
				if err := groupCtx.Err(); err != nil {
					outcomes[i].Err = err
					return nil
				}

				log := s.log.With("payload", item.Name)
				res, err := s.calculator.DigestContext(groupCtx, item.Factory, log)
				if err != nil {
					outcomes[i].Err = err
					if s.options.ContinueOnError {
						log.Warnw("Digest failed, continuing with batch", "error", err)
						return nil
					}
					return fmt.Errorf("digest %s: %w", item.Name, err)
				}

				outcomes[i].Results = res
				return nil
			})
		}

		return group.Wait()
	})

	if err != nil {
		for i := range outcomes {
			if outcomes[i].Results == nil && outcomes[i].Err == nil {
				outcomes[i].Err = err
			}
		}
		return outcomes, err
	}

	if s.options.ContinueOnError {
		for _, outcome := range outcomes {
			if outcome.Err != nil {
				err = multierr.Append(err, fmt.Errorf("digest %s: %w", outcome.Name, outcome.Err))
			}
		}
	}

	return outcomes, err
}
