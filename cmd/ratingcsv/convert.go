package main

import (
	"github.com/m-mizutani/ratingcsv/pkg/handler"
	"github.com/m-mizutani/ratingcsv/pkg/pipeline"
	"github.com/urfave/cli/v2"
)

func convertCommand(args *handler.Arguments) *cli.Command {
	var opt pipeline.ConvertOptions

	return &cli.Command{
		Name:  "convert",
		Usage: "Convert raw text files in source directory into CSV files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "pattern",
				Usage:       "Glob pattern of raw text files",
				Value:       pipeline.DefaultTextExt,
				Destination: &opt.Pattern,
			},
			&cli.BoolFlag{
				Name:        "spool",
				Usage:       "Buffer parsed records in temporary file instead of memory",
				Destination: &opt.Spool,
			},
		},
		Action: func(c *cli.Context) error {
			return handler.Run(*args, func(args handler.Arguments) error {
				results, err := pipeline.Convert(args, opt)
				if err != nil {
					return err
				}

				for _, res := range results {
					logger.WithField("result", res).Debug("Converted")
				}
				logger.WithField("files", len(results)).Info("Done")
				return nil
			})
		},
	}
}
