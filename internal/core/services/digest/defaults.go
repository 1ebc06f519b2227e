package digest

import (
	"github.com/iamNilotpal/kff/internal/adapters/checksum"
	"github.com/iamNilotpal/kff/internal/core/domain"
	"github.com/iamNilotpal/kff/internal/core/domain/config"
)

func prepareDefaults(opts *domain.DigestOptions) *domain.DigestOptions {
	if opts.ChecksumOptions == nil {
		opts.ChecksumOptions = checksum.DefaultOptions()
	}

	if opts.ReadConfig == nil {
		opts.ReadConfig = config.DefaultReadConfig()
	}

	if opts.ReadConfig.BlockSize == 0 {
		opts.ReadConfig.BlockSize = config.DefaultBlockSize
	}

	if opts.ReadConfig.Concurrency == 0 {
		opts.ReadConfig.Concurrency = config.DefaultConcurrency
	}

	return opts
}
