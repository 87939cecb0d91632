package util

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// PathExists() is a wrapper function that simplifies checking
// if a file or directory already exists at the provided path.
func PathExists(path string) (fs.FileInfo, bool) {
	fi, err := os.Stat(path)
	return fi, !os.IsNotExist(err)
}

// SplitPathForViper() splits a path into directory, filename without
// extension and extension, the pieces spf13/viper wants. See LoadConfig()
// in internal/config.go.
func SplitPathForViper(path string) (string, string, string) {
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	return filepath.Dir(path), strings.TrimSuffix(filename, ext), strings.TrimPrefix(ext, ".")
}

// MakeOutputDirectory() creates the parent directory of an output file if
// it does not exist yet. An existing file at path is an error unless
// overwrite is set.
func MakeOutputDirectory(path string, overwrite bool) error {
	fi, exists := PathExists(path)
	if exists && fi != nil && fi.IsDir() {
		return fmt.Errorf("output path is a directory: %v", path)
	}
	if exists && !overwrite {
		return fmt.Errorf("found existing path: %v", path)
	}

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return fmt.Errorf("failed to make directory: %w", err)
	}
	return nil
}
