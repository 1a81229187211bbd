package converter

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ratingcsv/internal"
	"github.com/m-mizutani/ratingcsv/pkg/dataset"
	"github.com/m-mizutani/ratingcsv/pkg/models"
	"github.com/sirupsen/logrus"
)

var logger = internal.Logger

// Converter converts rating log text files into CSV files.
type Converter struct {
	rules     models.SchemaRules
	newStream StreamFactory
}

// NewConverter is constructor of Converter. nil rules means
// models.DefaultSchemaRules and nil newStream means NewMemoryStream.
func NewConverter(rules models.SchemaRules, newStream StreamFactory) *Converter {
	if rules == nil {
		rules = models.DefaultSchemaRules()
	}
	if newStream == nil {
		newStream = NewMemoryStream
	}

	return &Converter{
		rules:     rules,
		newStream: newStream,
	}
}

// ConvertResult is summary of one converted file
type ConvertResult struct {
	Src    string            `json:"src"`
	Dst    string            `json:"dst"`
	Schema models.SchemaName `json:"schema"`
	Lines  int               `json:"lines"`
	Rows   int               `json:"rows"`
}

// DistFileName returns CSV file name for a source file name: text before the
// first '.' plus ".csv".
func DistFileName(srcName string) string {
	return strings.SplitN(filepath.Base(srcName), ".", 2)[0] + ".csv"
}

// ConvertDir converts every file matching pattern in srcDir into distDir.
// It stops at the first error.
func (x *Converter) ConvertDir(srcDir, distDir, pattern string) ([]*ConvertResult, error) {
	names, err := dataset.Glob(srcDir, pattern, nil)
	if err != nil {
		return nil, err
	}

	var results []*ConvertResult
	for _, name := range names {
		res, err := x.ConvertFile(filepath.Join(srcDir, name), distDir)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	return results, nil
}

// ConvertFile parses srcPath and writes CSV into distDir. Schema is selected
// from the destination file name before anything is written. An existing
// destination is removed first and the new one appears only when complete.
func (x *Converter) ConvertFile(srcPath, distDir string) (*ConvertResult, error) {
	res := &ConvertResult{
		Src: srcPath,
		Dst: filepath.Join(distDir, DistFileName(srcPath)),
	}
	logger.WithField("file", filepath.Base(srcPath)).Info("Convert: target file")

	schema, err := x.rules.Select(res.Dst)
	if err != nil {
		return nil, err
	}
	res.Schema = schema.Name

	stream, err := x.newStream()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := stream.Release(); err != nil {
			logger.WithError(err).Warn("Fail to release token stream")
		}
	}()

	if res.Lines, err = ParseFile(srcPath, stream); err != nil {
		return nil, err
	}

	logger.WithField("dst", res.Dst).Info("Convert: preparing file")
	if err := dataset.RemoveIfExists(res.Dst); err != nil {
		return nil, err
	}

	err = dataset.WriteFileAtomic(res.Dst, func(w io.Writer) error {
		n, err := WriteCSV(w, *schema, stream)
		res.Rows = n
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"dst":    res.Dst,
		"schema": res.Schema,
		"lines":  res.Lines,
		"rows":   res.Rows,
	}).Info("Convert: file created")

	return res, nil
}
