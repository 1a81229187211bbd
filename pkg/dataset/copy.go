package dataset

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Copy duplicates files matching pattern in sourceDir into distDir verbatim.
// Returns copied file names in listing order.
func Copy(sourceDir, distDir, pattern string) ([]string, error) {
	if filepath.Clean(sourceDir) == filepath.Clean(distDir) {
		return nil, errors.Errorf("Source and dist are same directory: %s", sourceDir)
	}

	names, err := Glob(sourceDir, pattern, nil)
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		logger.WithField("file", name).Info("Copy: target file")

		if err := CopyFile(filepath.Join(sourceDir, name), filepath.Join(distDir, name)); err != nil {
			return nil, err
		}

		logger.WithFields(logrus.Fields{
			"file": name,
			"dist": distDir,
		}).Info("Copy: copied")
	}

	return names, nil
}

// CopyFile streams src to dst, truncating dst if it exists.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "Fail to open: %s", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "Fail to create: %s", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "Fail to copy %s to %s", src, dst)
	}

	return out.Close()
}
