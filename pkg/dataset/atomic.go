package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// WriteFileAtomic calls write with a buffered writer on a salted temp file
// next to path and renames it to path only after write succeeded. path is
// never left partially written.
func WriteFileAtomic(path string, write func(w io.Writer) error) error {
	dir, name := filepath.Split(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", name, uuid.New().String()))

	fd, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return errors.Wrapf(err, "Fail to create temp file: %s", tmpPath)
	}

	committed := false
	defer func() {
		if !committed {
			fd.Close()
			os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(fd)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrapf(err, "Fail to flush: %s", tmpPath)
	}
	if err := fd.Close(); err != nil {
		return errors.Wrapf(err, "Fail to close: %s", tmpPath)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "Fail to rename %s to %s", tmpPath, path)
	}
	committed = true

	return nil
}

// RemoveIfExists deletes path. A missing file is not an error.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "Fail to remove: %s", path)
	}
	return nil
}
