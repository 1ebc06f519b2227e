package config

// Returns a ReadConfig with recommended defaults.
func DefaultReadConfig() *ReadConfig {
	return &ReadConfig{
		BlockSize:   DefaultBlockSize,
		Concurrency: DefaultConcurrency,
	}
}

// Returns config optimized for many small concurrent digests.
func DefaultSmallReadConfig() *ReadConfig {
	return &ReadConfig{
		BlockSize:   SmallBlockSize,
		Concurrency: 4 * DefaultConcurrency,
	}
}

// Returns config for few, very large inputs.
func DefaultLargeReadConfig() *ReadConfig {
	return &ReadConfig{
		BlockSize:   LargeBlockSize,
		Concurrency: DefaultConcurrency / 2,
	}
}
