package main

import (
	"github.com/m-mizutani/ratingcsv/pkg/handler"
	"github.com/m-mizutani/ratingcsv/pkg/pipeline"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func runCommand(args *handler.Arguments) *cli.Command {
	var opt pipeline.RunOptions

	return &cli.Command{
		Name:  "run",
		Usage: "Extract archive, convert raw files, copy CSV files and merge shards",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "archive",
				Aliases:     []string{"a"},
				Usage:       "Archive file name in source directory",
				Value:       pipeline.DefaultArchive,
				Destination: &opt.Archive,
			},
			&cli.StringFlag{
				Name:        "prefix",
				Usage:       "File name prefix of shards to be merged",
				Value:       pipeline.DefaultPrefix,
				Destination: &opt.Prefix,
			},
			&cli.BoolFlag{
				Name:        "batch-merge",
				Usage:       "Write merged file once instead of after every shard",
				Destination: &opt.BatchMerge,
			},
			&cli.BoolFlag{
				Name:        "spool",
				Usage:       "Buffer parsed records in temporary file instead of memory",
				Destination: &opt.Spool,
			},
			&cli.StringFlag{
				Name:        "parquet",
				Usage:       "Export merged file as parquet to the path",
				Destination: &opt.ParquetPath,
			},
			&cli.StringFlag{
				Name:        "upload",
				Usage:       "Upload merged file(s) to s3://bucket/key",
				Destination: &opt.UploadURL,
			},
		},
		Action: func(c *cli.Context) error {
			return handler.Run(*args, func(args handler.Arguments) error {
				report, err := pipeline.Run(args, opt)
				if err != nil {
					return err
				}

				logger.WithFields(logrus.Fields{
					"merged":   report.Merged.Path,
					"rows":     report.Merged.Rows,
					"uploaded": report.Uploaded,
				}).Info("Done")
				return nil
			})
		},
	}
}
