package fs

import (
	"errors"
	"os"
)

// Opens the file at path with the given option set. Files created through
// Create or CreateNew get 0644 permissions.
func OpenFile(path string, options OpenOptions) (*os.File, error) {
	return os.OpenFile(path, options.Flags(), 0644)
}

// Checks if a regular file exists or not.
func Exists(filePath string) (bool, error) {
	stat, err := os.Stat(filePath)
	if err == nil {
		return stat.Mode().IsRegular(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
