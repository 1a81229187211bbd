package dataset

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RequireArchive checks that archive file exists in sourceDir.
func RequireArchive(sourceDir, archive string) error {
	path := filepath.Join(sourceDir, archive)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrArchiveNotFound, "`%s`", path)
		}
		return errors.Wrapf(err, "Fail to stat archive: %s", path)
	}
	if info.IsDir() {
		return errors.Wrapf(ErrArchiveNotFound, "`%s` is a directory", path)
	}

	return nil
}

// Extract unpacks zip archive in sourceDir into sourceDir itself. Permission
// of sourceDir is opened to 0777 before extraction.
func Extract(sourceDir, archive string) (int, error) {
	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return 0, errors.Wrapf(err, "Fail to resolve directory: %s", sourceDir)
	}

	if err := os.Chmod(absDir, 0777); err != nil {
		return 0, errors.Wrapf(err, "Fail to chmod: %s", absDir)
	}

	zr, err := zip.OpenReader(filepath.Join(absDir, archive))
	if err != nil {
		return 0, errors.Wrapf(err, "Fail to open archive: %s", archive)
	}
	defer zr.Close()

	count := 0
	for _, f := range zr.File {
		if err := extractFile(absDir, f); err != nil {
			return count, err
		}
		count++
	}

	logger.WithFields(logrus.Fields{
		"archive": archive,
		"dir":     sourceDir,
		"files":   count,
	}).Info("Extract: all files were extracted")

	return count, nil
}

func extractFile(baseDir string, f *zip.File) error {
	dst := filepath.Join(baseDir, f.Name)
	if dst != baseDir && !strings.HasPrefix(dst, baseDir+string(os.PathSeparator)) {
		return errors.Errorf("Illegal file path in archive: %s", f.Name)
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(dst, 0755); err != nil {
			return errors.Wrapf(err, "Fail to create directory: %s", dst)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, "Fail to create directory: %s", filepath.Dir(dst))
	}

	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "Fail to open archived file: %s", f.Name)
	}
	defer rc.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "Fail to create file: %s", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return errors.Wrapf(err, "Fail to extract: %s", f.Name)
	}

	return out.Close()
}
