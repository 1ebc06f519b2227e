package config

import (
	"testing"

	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReadConfig(t *testing.T) {
	tests := map[string]struct {
		opts []ReadConfigOption
		want ReadConfig
	}{
		"defaults":             {nil, ReadConfig{BlockSize: DefaultBlockSize, Concurrency: DefaultConcurrency}},
		"custom block size":    {[]ReadConfigOption{WithBlockSize(SmallBlockSize)}, ReadConfig{BlockSize: SmallBlockSize, Concurrency: DefaultConcurrency}},
		"block size too small": {[]ReadConfigOption{WithBlockSize(1)}, ReadConfig{BlockSize: DefaultBlockSize, Concurrency: DefaultConcurrency}},
		"block size too large": {[]ReadConfigOption{WithBlockSize(MaxBlockSize + 1)}, ReadConfig{BlockSize: DefaultBlockSize, Concurrency: DefaultConcurrency}},
		"custom concurrency":   {[]ReadConfigOption{WithConcurrency(16)}, ReadConfig{BlockSize: DefaultBlockSize, Concurrency: 16}},
		"zero concurrency":     {[]ReadConfigOption{WithConcurrency(0)}, ReadConfig{BlockSize: DefaultBlockSize, Concurrency: DefaultConcurrency}},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := NewReadConfig(test.opts...)
			assert.Equal(t, test.want, *cfg)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, cfg := range []*ReadConfig{DefaultReadConfig(), DefaultSmallReadConfig(), DefaultLargeReadConfig()} {
		assert.NoError(t, cfg.Validate())
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		cfg   ReadConfig
		field string
	}{
		"block size below minimum": {ReadConfig{BlockSize: MinBlockSize - 1, Concurrency: 1}, "block_size"},
		"block size above maximum": {ReadConfig{BlockSize: MaxBlockSize + 1, Concurrency: 1}, "block_size"},
		"no concurrency":           {ReadConfig{BlockSize: MinBlockSize, Concurrency: 0}, "concurrency"},
		"too much concurrency":     {ReadConfig{BlockSize: MinBlockSize, Concurrency: MaxConcurrency + 1}, "concurrency"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := test.cfg.Validate()
			require.Error(t, err)

			ve := kfferrors.AsValidationError(err)
			require.NotNil(t, ve)
			assert.Equal(t, test.field, ve.Field)
		})
	}
}
