package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ratingcsv/internal"
	"github.com/m-mizutani/ratingcsv/pkg/converter"
	"github.com/m-mizutani/ratingcsv/pkg/dataset"
	"github.com/m-mizutani/ratingcsv/pkg/exporter"
	"github.com/m-mizutani/ratingcsv/pkg/handler"
	"github.com/m-mizutani/ratingcsv/pkg/merger"
	"github.com/m-mizutani/ratingcsv/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = internal.Logger

const (
	DefaultArchive = "archive.zip"
	DefaultPrefix  = "combined_data"
	DefaultTextExt = "*.txt"
	DefaultCSVExt  = "*.csv"
)

// ConvertOptions is option of Convert
type ConvertOptions struct {
	Pattern string
	Spool   bool
}

// MergeOptions is option of Merge
type MergeOptions struct {
	Prefix     string
	Ext        string
	BatchMerge bool
	UploadURL  string
}

// RunOptions is option of Run
type RunOptions struct {
	Archive     string
	Prefix      string
	BatchMerge  bool
	Spool       bool
	ParquetPath string
	UploadURL   string
}

// Report is summary of a pipeline run
type Report struct {
	Extracted   int                        `json:"extracted"`
	Converted   []*converter.ConvertResult `json:"converted"`
	Copied      []string                   `json:"copied"`
	Merged      *merger.MergeResult        `json:"merged"`
	ParquetRows int64                      `json:"parquet_rows"`
	Uploaded    []string                   `json:"uploaded"`

	Profile map[string]internal.ProfileResult `json:"profile"`
}

// Run executes whole preparation: extract archive in source directory,
// convert raw text files into dist, copy existing CSV files, merge combined
// shards and optionally export and upload the merged table. When both CSV
// and parquet are uploaded, UploadURL is used as key prefix.
func Run(args handler.Arguments, opt RunOptions) (*Report, error) {
	if opt.Archive == "" {
		opt.Archive = DefaultArchive
	}
	if opt.Prefix == "" {
		opt.Prefix = DefaultPrefix
	}

	if err := dataset.Init(args.SourceDir, args.DistDir); err != nil {
		return nil, err
	}
	if err := dataset.RequireArchive(args.SourceDir, opt.Archive); err != nil {
		return nil, err
	}

	var report Report
	prof := internal.NewProfile()

	err := prof.Measure("extract", func() (err error) {
		report.Extracted, err = dataset.Extract(args.SourceDir, opt.Archive)
		return
	})
	if err != nil {
		return nil, err
	}

	err = prof.Measure("convert", func() (err error) {
		report.Converted, err = Convert(args, ConvertOptions{Pattern: DefaultTextExt, Spool: opt.Spool})
		return
	})
	if err != nil {
		return nil, err
	}

	err = prof.Measure("copy", func() (err error) {
		report.Copied, err = dataset.Copy(args.SourceDir, args.DistDir, DefaultCSVExt)
		return
	})
	if err != nil {
		return nil, err
	}

	err = prof.Measure("merge", func() (err error) {
		report.Merged, err = Merge(args, MergeOptions{
			Prefix:     opt.Prefix,
			Ext:        DefaultCSVExt,
			BatchMerge: opt.BatchMerge,
		})
		return
	})
	if err != nil {
		return nil, err
	}
	merged := report.Merged

	if len(merged.Shards) > 0 {
		uploadTargets := []string{merged.Path}
		if opt.ParquetPath != "" {
			err = prof.Measure("export", func() (err error) {
				report.ParquetRows, err = exporter.ExportParquet(merged.Path, opt.ParquetPath)
				return
			})
			if err != nil {
				return nil, err
			}
			uploadTargets = append(uploadTargets, opt.ParquetPath)
		}

		if opt.UploadURL != "" {
			url := opt.UploadURL
			if len(uploadTargets) > 1 && !strings.HasSuffix(url, "/") {
				url += "/"
			}
			for _, path := range uploadTargets {
				var obj *models.S3Object
				err = prof.Measure("upload", func() (err error) {
					obj, err = Upload(args, path, url)
					return
				})
				if err != nil {
					return nil, err
				}
				report.Uploaded = append(report.Uploaded, obj.Path())
			}
		}
	}

	report.Profile = prof.Pack()
	logger.WithFields(logrus.Fields{
		"extracted": report.Extracted,
		"converted": len(report.Converted),
		"copied":    len(report.Copied),
		"rows":      merged.Rows,
		"profile":   report.Profile,
	}).Info("Pipeline completed")

	return &report, nil
}

// Convert converts raw text files in source directory into CSV files in dist.
func Convert(args handler.Arguments, opt ConvertOptions) ([]*converter.ConvertResult, error) {
	if opt.Pattern == "" {
		opt.Pattern = DefaultTextExt
	}

	if err := dataset.Init(args.SourceDir, args.DistDir); err != nil {
		return nil, err
	}

	conv, err := args.Converter(opt.Spool)
	if err != nil {
		return nil, err
	}

	return conv.ConvertDir(args.SourceDir, args.DistDir, opt.Pattern)
}

// Merge merges shard files in dist directory and uploads the merged file if UploadURL is set.
func Merge(args handler.Arguments, opt MergeOptions) (*merger.MergeResult, error) {
	if opt.Prefix == "" {
		opt.Prefix = DefaultPrefix
	}
	if opt.Ext == "" {
		opt.Ext = DefaultCSVExt
	}

	res, err := merger.MergeShards(args.DistDir, opt.Prefix, opt.Ext, &merger.MergeOptions{
		BatchWrite: opt.BatchMerge,
	})
	if err != nil {
		return nil, err
	}

	if opt.UploadURL != "" && len(res.Shards) > 0 {
		if _, err := Upload(args, res.Path, opt.UploadURL); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// Upload puts a local file to S3 location given as s3://bucket/key. If key is
// empty or ends with "/", base name of path is appended.
func Upload(args handler.Arguments, path, url string) (*models.S3Object, error) {
	obj, err := models.ParseS3URL(args.AwsRegion, url, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	if err := args.S3Service().UploadFileToS3(path, *obj); err != nil {
		return nil, errors.Wrapf(err, "Fail to upload %s", path)
	}

	logger.WithFields(logrus.Fields{
		"file": path,
		"dst":  obj.Path(),
	}).Info("Upload: done")

	return obj, nil
}
