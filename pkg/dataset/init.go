package dataset

import (
	"os"

	"github.com/m-mizutani/ratingcsv/internal"
	"github.com/pkg/errors"
)

var logger = internal.Logger

// ErrArchiveNotFound means the dataset archive does not exist in source directory.
var ErrArchiveNotFound = errors.New("Archive file is required")

// Init creates source and dist directories if they are absent.
func Init(sourceDir, distDir string) error {
	for _, dir := range []string{sourceDir, distDir} {
		if _, err := os.Stat(dir); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, "Fail to stat directory: %s", dir)
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "Fail to create directory: %s", dir)
		}
		logger.WithField("dir", dir).Info("Initialize: folder created")
	}

	return nil
}
