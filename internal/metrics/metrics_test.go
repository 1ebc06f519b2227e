package metrics

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
)

func TestObserveDigest(t *testing.T) {
	m := New()

	m.ObserveDigest("buffer", 14, time.Millisecond, nil)
	m.ObserveDigest("channel", 1000, 2*time.Millisecond, nil)
	m.ObserveDigest("channel", 10, time.Millisecond, kfferrors.New(kfferrors.ErrorChannelRead, "digest", errors.New("disk gone")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.digestsTotal.WithLabelValues("buffer", outcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.digestsTotal.WithLabelValues("channel", outcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.digestsTotal.WithLabelValues("channel", outcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failuresTotal.WithLabelValues("channel_read")))
	assert.Equal(t, 1010.0, testutil.ToFloat64(m.bytesTotal.WithLabelValues("channel")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.durationSeconds))
}

func TestUncategorizedFailure(t *testing.T) {
	m := New()
	m.ObserveDigest("buffer", 0, 0, errors.New("plain"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failuresTotal.WithLabelValues("unknown")))
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveDigest("buffer", 1, 0, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.digestsTotal.WithLabelValues("buffer", outcomeSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.digestsTotal.WithLabelValues("buffer", outcomeSuccess)))
}

func TestWriteText(t *testing.T) {
	m := New()
	m.ObserveDigest("buffer", 14, time.Millisecond, nil)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "# TYPE kff_digests_total counter")
	assert.Contains(t, out, `kff_digests_total{outcome="success",source="buffer"} 1`)
	assert.Contains(t, out, "kff_digest_duration_seconds_bucket")
	assert.True(t, strings.HasPrefix(out, "# HELP"))

	count, err := testutil.GatherAndCount(m.Registry(), "kff_digested_bytes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSummarize(t *testing.T) {
	m := New()

	empty, err := m.Summarize()
	require.NoError(t, err)
	assert.Equal(t, Summary{}, empty)

	m.ObserveDigest("buffer", 10, time.Millisecond, nil)
	m.ObserveDigest("channel", 32, time.Millisecond, nil)
	m.ObserveDigest("channel", 0, time.Millisecond, errors.New("boom"))

	summary, err := m.Summarize()
	require.NoError(t, err)
	assert.Equal(t, Summary{Succeeded: 2, Failed: 1, Bytes: 42}, summary)
}
