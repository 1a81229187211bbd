package dataset

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ListFunc returns entry names of a directory in listing order.
type ListFunc func(dir string) ([]string, error)

// ListDir returns entry names in the order the file system reports them. The
// order is not sorted, same as a plain directory read.
func ListDir(dir string) ([]string, error) {
	fd, err := os.Open(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to open directory: %s", dir)
	}
	defer fd.Close()

	names, err := fd.Readdirnames(-1)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to read directory: %s", dir)
	}

	return names, nil
}

// Glob returns regular files in dir whose name matches pattern, keeping the
// order of list. nil list means ListDir.
func Glob(dir, pattern string, list ListFunc) ([]string, error) {
	if list == nil {
		list = ListDir
	}

	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, errors.Wrapf(err, "Invalid file pattern: %s", pattern)
	}

	names, err := list(dir)
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, name := range names {
		if ok, _ := filepath.Match(pattern, name); !ok {
			continue
		}

		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "Fail to stat: %s", name)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		matched = append(matched, name)
	}

	return matched, nil
}
