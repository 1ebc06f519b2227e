package channels

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
	"github.com/iamNilotpal/kff/pkg/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "payload.bin")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestFileChannel(t *testing.T) {
	f, err := FileReadOnly(writeTemp(t, []byte("Test data")))
	require.NoError(t, err)

	ch, err := f.Create()
	require.NoError(t, err)

	buf := make([]byte, 4)
	_, err = io.ReadFull(ch, buf)
	require.NoError(t, err)
	assert.Equal(t, "Test", string(buf))

	size, err := ch.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(9), size)

	require.NoError(t, ch.SetPosition(3))
	pos, err := ch.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)

	_, err = ch.Write([]byte("x"))
	assert.ErrorIs(t, err, kfferrors.ErrNonWritable)
	assert.ErrorIs(t, ch.Truncate(0), kfferrors.ErrNonWritable)

	require.NoError(t, ch.Close())
	assert.False(t, ch.IsOpen())
	_, err = ch.Size()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWritableOptionsStayImmutable(t *testing.T) {
	path := writeTemp(t, []byte("Test data"))

	f, err := File(path, fs.Read|fs.Write)
	require.NoError(t, err)

	ch, err := f.Create()
	require.NoError(t, err)
	defer ch.Close()

	_, err = ch.Write([]byte("overwrite"))
	assert.ErrorIs(t, err, kfferrors.ErrNonWritable)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Test data", string(data))
}

func TestOpenOptionSideEffectsApplyOnCreate(t *testing.T) {
	path := writeTemp(t, []byte("Test data"))

	f, err := File(path, fs.Write|fs.TruncateExisting)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Test data", string(data), "nothing happens before Create")

	ch, err := f.Create()
	require.NoError(t, err)
	require.NoError(t, ch.Close())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	exclusive, err := File(path, fs.Write|fs.CreateNew)
	require.NoError(t, err)
	_, err = exclusive.Create()
	assert.ErrorIs(t, err, kfferrors.ErrBackingUnavailable)
}

func TestFileChannelsAreIndependent(t *testing.T) {
	f, err := FileReadOnly(writeTemp(t, []byte("0123456789")))
	require.NoError(t, err)

	a, err := f.Create()
	require.NoError(t, err)
	defer a.Close()

	b, err := f.Create()
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.SetPosition(6))

	buf := make([]byte, 2)
	_, err = io.ReadFull(b, buf)
	require.NoError(t, err)
	assert.Equal(t, "01", string(buf))

	_, err = io.ReadFull(a, buf)
	require.NoError(t, err)
	assert.Equal(t, "67", string(buf))
}

func TestMissingFileIsBackingUnavailable(t *testing.T) {
	path := writeTemp(t, []byte("gone soon"))

	// Construction never touches the file system.
	f, err := FileReadOnly(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	_, err = f.Create()
	require.Error(t, err)
	assert.ErrorIs(t, err, kfferrors.ErrBackingUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var kerr *kfferrors.KFFError
	require.ErrorAs(t, err, &kerr)
	assert.True(t, kerr.IsRetryAble())
}

func TestFileRejectsUnknownOptionBits(t *testing.T) {
	_, err := File("/tmp/whatever", fs.OpenOptions(1<<15))
	assert.ErrorIs(t, err, kfferrors.ErrInvalidArgument)
}
