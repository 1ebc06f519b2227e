package digest

import (
	"github.com/iamNilotpal/kff/internal/core/domain"
	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
)

// Validate checks the options after defaults were applied. Algorithm
// names are checked when the calculator is built.
func Validate(opts *domain.DigestOptions) error {
	if err := opts.ReadConfig.Validate(); err != nil {
		return kfferrors.New(kfferrors.ErrorInvalidArgument, "validate digest options", err)
	}
	return nil
}
