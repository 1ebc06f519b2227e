package domain

import "github.com/iamNilotpal/kff/internal/core/domain/config"

// DigestOptions configures the batch digest service.
type DigestOptions struct {
	// ChecksumOptions selects the algorithms every payload is digested with.
	ChecksumOptions *ChecksumOptions

	// ReadConfig sets the streaming block size and batch parallelism.
	ReadConfig *config.ReadConfig

	// ContinueOnError keeps digesting the remaining payloads after one
	// fails. When false the first failure cancels the batch.
	//
	// Default: false
	ContinueOnError bool
}
