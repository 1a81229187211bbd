package main

import (
	"github.com/m-mizutani/ratingcsv/pkg/handler"
	"github.com/m-mizutani/ratingcsv/pkg/pipeline"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func mergeCommand(args *handler.Arguments) *cli.Command {
	var opt pipeline.MergeOptions

	return &cli.Command{
		Name:  "merge",
		Usage: "Merge shard CSV files in dist directory into {prefix}_merged.csv",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "prefix",
				Usage:       "File name prefix of shards",
				Value:       pipeline.DefaultPrefix,
				Destination: &opt.Prefix,
			},
			&cli.StringFlag{
				Name:        "ext",
				Usage:       "Glob suffix of shards",
				Value:       pipeline.DefaultCSVExt,
				Destination: &opt.Ext,
			},
			&cli.BoolFlag{
				Name:        "batch-merge",
				Usage:       "Write merged file once instead of after every shard",
				Destination: &opt.BatchMerge,
			},
			&cli.StringFlag{
				Name:        "upload",
				Usage:       "Upload merged file to s3://bucket/key",
				Destination: &opt.UploadURL,
			},
		},
		Action: func(c *cli.Context) error {
			return handler.Run(*args, func(args handler.Arguments) error {
				res, err := pipeline.Merge(args, opt)
				if err != nil {
					return err
				}

				logger.WithFields(logrus.Fields{
					"path":   res.Path,
					"shards": len(res.Shards),
					"rows":   res.Rows,
				}).Info("Done")
				return nil
			})
		},
	}
}
