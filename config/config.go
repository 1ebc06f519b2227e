package config

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/iamNilotpal/kff/internal/adapters/checksum"
	"github.com/iamNilotpal/kff/internal/adapters/compression"
	"github.com/iamNilotpal/kff/internal/core/domain"
	domaincfg "github.com/iamNilotpal/kff/internal/core/domain/config"
)

type Config struct {
	Digest        DigestConfig    `yaml:"digest"`
	Transport     TransportConfig `yaml:"transport"`
	LogLevel      string          `yaml:"log_level"`      // debug, info, warn or error
	EnableMetrics bool            `yaml:"enable_metrics"` // Enable metrics collection
}

// Holds digest engine configuration
type DigestConfig struct {
	Algorithms      []string `yaml:"algorithms"`        // Algorithm names, in result order
	CRC             bool     `yaml:"crc"`               // Compute the CRC32 checksum
	Ssdeep          bool     `yaml:"ssdeep"`            // Compute the ssdeep fuzzy hash
	BlockSize       uint32   `yaml:"block_size"`        // Streaming read size in bytes
	Concurrency     int      `yaml:"concurrency"`       // Payloads digested at once
	ContinueOnError bool     `yaml:"continue_on_error"` // Keep going after a failed payload
}

// Holds descriptor transport configuration
type TransportConfig struct {
	Compression          string `yaml:"compression"`           // none, zstd, lz4 or snappy
	CompressionLevel     uint8  `yaml:"compression_level"`     // zstd level (1-4)
	CompressionThreshold uint32 `yaml:"compression_threshold"` // Smallest payload worth compressing
}

// Returns a Config struct with reasonable default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		EnableMetrics: false,
		Digest: DigestConfig{
			Algorithms:  []string{string(checksum.SHA1)},
			CRC:         true,
			Ssdeep:      false,
			BlockSize:   domaincfg.DefaultBlockSize,   // 32KB
			Concurrency: domaincfg.DefaultConcurrency, // 4 payloads
		},
		Transport: TransportConfig{
			Compression:          domain.CodecZstd.String(),
			CompressionLevel:     compression.DefaultLevel,
			CompressionThreshold: domaincfg.CompressionThreshold, // 4KB
		},
	}
}

// Loads configuration from a YAML file. Keys missing from the file keep
// their default values.
func LoadConfig(filename string) (*Config, error) {
	// Read the config file
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// DigestOptions converts the digest section into service options.
func (c *Config) DigestOptions() (*domain.DigestOptions, error) {
	algorithms, err := checksum.Normalize(c.Digest.Algorithms)
	if err != nil {
		return nil, err
	}

	return &domain.DigestOptions{
		ChecksumOptions: &domain.ChecksumOptions{
			Algorithms: algorithms,
			UseCRC:     c.Digest.CRC,
			UseSsdeep:  c.Digest.Ssdeep,
			BlockSize:  c.Digest.BlockSize,
		},
		ReadConfig: &domaincfg.ReadConfig{
			BlockSize:   c.Digest.BlockSize,
			Concurrency: c.Digest.Concurrency,
		},
		ContinueOnError: c.Digest.ContinueOnError,
	}, nil
}

// CompressionOptions converts the transport section into codec options.
func (c *Config) CompressionOptions() (*domain.CompressionOptions, error) {
	codec, err := domain.ParseCompressionCodec(c.Transport.Compression)
	if err != nil {
		return nil, err
	}

	opts := compression.DefaultOptions()
	opts.Codec = codec
	opts.Level = c.Transport.CompressionLevel
	opts.Threshold = c.Transport.CompressionThreshold
	return opts, nil
}

func validateConfig(config *Config) error {
	if _, err := zapcore.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	if err := validateDigestConfig(&config.Digest); err != nil {
		return fmt.Errorf("invalid digest configuration: %w", err)
	}

	if err := validateTransportConfig(config); err != nil {
		return fmt.Errorf("invalid transport configuration: %w", err)
	}

	return nil
}

func validateDigestConfig(config *DigestConfig) error {
	if _, err := checksum.Normalize(config.Algorithms); err != nil {
		return fmt.Errorf("algorithms: %w", err)
	}

	read := domaincfg.ReadConfig{BlockSize: config.BlockSize, Concurrency: config.Concurrency}
	if err := read.Validate(); err != nil {
		return err
	}

	return nil
}

func validateTransportConfig(config *Config) error {
	opts, err := config.CompressionOptions()
	if err != nil {
		return fmt.Errorf("compression: %w", err)
	}

	if err := compression.Validate(opts); err != nil {
		return err
	}

	return nil
}
