package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlags(t *testing.T) {
	tests := map[string]struct {
		options OpenOptions
		want    int
	}{
		"empty set is read only":      {0, os.O_RDONLY},
		"read":                        {Read, os.O_RDONLY},
		"write":                       {Write, os.O_WRONLY},
		"read write":                  {Read | Write, os.O_RDWR},
		"append implies write":        {Append, os.O_WRONLY | os.O_APPEND},
		"create":                      {Write | Create, os.O_WRONLY | os.O_CREATE},
		"create new wins over create": {Write | Create | CreateNew, os.O_WRONLY | os.O_CREATE | os.O_EXCL},
		"truncate needs write":        {Read | TruncateExisting, os.O_RDONLY},
		"truncate with write":         {Write | TruncateExisting, os.O_WRONLY | os.O_TRUNC},
		"sync":                        {Read | Sync, os.O_RDONLY | os.O_SYNC},
		"dsync maps to sync":          {Read | DSync, os.O_RDONLY | os.O_SYNC},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, test.options.Flags())
		})
	}
}

func TestParseOpenOptionsRoundTrip(t *testing.T) {
	set := Read | Write | CreateNew | DSync
	parsed, err := ParseOpenOptions(set.Names())
	require.NoError(t, err)
	assert.Equal(t, set, parsed)
	assert.Equal(t, "read|write|create_new|dsync", set.String())
	assert.True(t, parsed.Valid())
}

func TestParseOpenOptionsNormalizes(t *testing.T) {
	parsed, err := ParseOpenOptions([]string{" READ ", "Append"})
	require.NoError(t, err)
	assert.Equal(t, Read|Append, parsed)
}

func TestParseOpenOptionsRejectsUnknown(t *testing.T) {
	_, err := ParseOpenOptions([]string{"read", "delete_on_close"})
	assert.ErrorContains(t, err, "delete_on_close")
}

func TestValid(t *testing.T) {
	assert.True(t, OpenOptions(0).Valid())
	assert.False(t, OpenOptions(1<<12).Valid())
	assert.Equal(t, "none", OpenOptions(0).String())
}

func TestOpenFileAndExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload")

	exists, err := Exists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = OpenFile(path, ReadOnly)
	assert.ErrorIs(t, err, os.ErrNotExist)

	file, err := OpenFile(path, Write|CreateNew)
	require.NoError(t, err)
	_, err = file.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, file.Close())

	exists, err = Exists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = OpenFile(path, Write|CreateNew)
	assert.ErrorIs(t, err, os.ErrExist)

	exists, err = Exists(filepath.Dir(path))
	require.NoError(t, err)
	assert.False(t, exists, "directories are not payload files")
}
