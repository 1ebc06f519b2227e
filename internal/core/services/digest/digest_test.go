package digest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"github.com/iamNilotpal/kff/internal/adapters/checksum"
	"github.com/iamNilotpal/kff/internal/core/domain"
	"github.com/iamNilotpal/kff/internal/core/domain/config"
	"github.com/iamNilotpal/kff/internal/metrics"
	"github.com/iamNilotpal/kff/pkg/channels"
	pkgchecksum "github.com/iamNilotpal/kff/pkg/checksum"
	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
)

func memoryItems(t *testing.T, n int) []Item {
	t.Helper()

	items := make([]Item, n)
	for i := range items {
		f, err := channels.Memory([]byte(fmt.Sprintf("payload number %d", i)))
		require.NoError(t, err)
		items[i] = Item{Name: fmt.Sprintf("item-%d", i), Factory: f}
	}
	return items
}

func TestDefaults(t *testing.T) {
	s, err := New(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"SHA-1", "CRC32"}, s.Calculator().Algorithms())
	assert.Equal(t, config.DefaultBlockSize, s.Calculator().BlockSize())
	assert.Equal(t, config.DefaultConcurrency, s.options.ReadConfig.Concurrency)
}

func TestInvalidOptions(t *testing.T) {
	_, err := New(&domain.DigestOptions{ReadConfig: &config.ReadConfig{BlockSize: 1, Concurrency: 1}}, nil)
	assert.ErrorIs(t, err, kfferrors.ErrInvalidArgument)

	_, err = New(&domain.DigestOptions{
		ChecksumOptions: &domain.ChecksumOptions{Algorithms: []domain.ChecksumAlgorithm{"NOPE"}},
	}, nil)
	assert.ErrorIs(t, err, kfferrors.ErrUnsupportedAlgorithm)
}

func TestDigestAllKeepsInputOrder(t *testing.T) {
	s, err := New(&domain.DigestOptions{
		ChecksumOptions: &domain.ChecksumOptions{
			Algorithms: []domain.ChecksumAlgorithm{checksum.SHA256, checksum.SSDEEP},
		},
		ReadConfig: config.NewReadConfig(config.WithConcurrency(3)),
	}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	items := memoryItems(t, 25)
	outcomes, err := s.DigestAll(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, outcomes, len(items))

	for i, outcome := range outcomes {
		assert.Equal(t, items[i].Name, outcome.Name)
		require.NoError(t, outcome.Err)

		want := s.Calculator().Digest([]byte(fmt.Sprintf("payload number %d", i)))
		assert.Equal(t, want, outcome.Results)
	}
}

func missingFile(t *testing.T) channels.Factory {
	t.Helper()

	f, err := channels.FileReadOnly(filepath.Join(t.TempDir(), "missing.bin"))
	require.NoError(t, err)
	return f
}

func TestDigestAllStopsOnFirstError(t *testing.T) {
	s, err := New(&domain.DigestOptions{ReadConfig: config.NewReadConfig(config.WithConcurrency(1))}, nil)
	require.NoError(t, err)

	items := memoryItems(t, 5)
	items[1] = Item{Name: "missing", Factory: missingFile(t)}

	outcomes, err := s.DigestAll(context.Background(), items)
	require.Error(t, err)
	assert.ErrorIs(t, err, kfferrors.ErrBackingUnavailable)
	assert.Contains(t, err.Error(), "digest missing")

	assert.NotNil(t, outcomes[0].Results)
	assert.ErrorIs(t, outcomes[1].Err, kfferrors.ErrBackingUnavailable)
	for _, outcome := range outcomes[2:] {
		assert.Nil(t, outcome.Results)
		assert.ErrorIs(t, outcome.Err, context.Canceled)
	}
}

func TestDigestAllContinueOnError(t *testing.T) {
	m := metrics.New()
	s, err := New(&domain.DigestOptions{ContinueOnError: true}, nil, checksumWithMetrics(m)...)
	require.NoError(t, err)

	items := memoryItems(t, 6)
	items[2] = Item{Name: "missing-a", Factory: missingFile(t)}
	items[4] = Item{Name: "missing-b", Factory: missingFile(t)}

	outcomes, err := s.DigestAll(context.Background(), items)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)

	for i, outcome := range outcomes {
		if i == 2 || i == 4 {
			assert.ErrorIs(t, outcome.Err, kfferrors.ErrBackingUnavailable)
			assert.Nil(t, outcome.Results)
			continue
		}
		assert.NoError(t, outcome.Err)
		assert.NotNil(t, outcome.Results)
	}
}

func TestDigestAllCancelled(t *testing.T) {
	s, err := New(nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := s.DigestAll(ctx, memoryItems(t, 3))
	assert.ErrorIs(t, err, context.Canceled)
	for _, outcome := range outcomes {
		assert.ErrorIs(t, outcome.Err, context.Canceled)
	}
}

func TestDigestAllFiles(t *testing.T) {
	s, err := New(nil, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	items := make([]Item, 4)
	for i := range items {
		path := filepath.Join(dir, fmt.Sprintf("%d.bin", i))
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("file %d", i)), 0644))

		f, err := channels.FileReadOnly(path)
		require.NoError(t, err)
		items[i] = Item{Name: path, Factory: f}
	}

	outcomes, err := s.DigestAll(context.Background(), items)
	require.NoError(t, err)
	for i, outcome := range outcomes {
		want := s.Calculator().Digest([]byte(fmt.Sprintf("file %d", i)))
		assert.Equal(t, want, outcome.Results)
	}
}

func checksumWithMetrics(m *metrics.Metrics) []pkgchecksum.Option {
	return []pkgchecksum.Option{pkgchecksum.WithMetrics(m)}
}
