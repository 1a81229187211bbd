package main

import (
	"github.com/m-mizutani/ratingcsv/pkg/exporter"
	"github.com/m-mizutani/ratingcsv/pkg/handler"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type exportArguments struct {
	Input  string
	Output string
}

func exportCommand(args *handler.Arguments) *cli.Command {
	var exportArgs exportArguments

	return &cli.Command{
		Name:  "export",
		Usage: "Convert a CSV file into parquet format",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "CSV file path",
				Required:    true,
				Destination: &exportArgs.Input,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Parquet file path",
				Required:    true,
				Destination: &exportArgs.Output,
			},
		},
		Action: func(c *cli.Context) error {
			return handler.Run(*args, func(args handler.Arguments) error {
				rows, err := exporter.ExportParquet(exportArgs.Input, exportArgs.Output)
				if err != nil {
					return err
				}

				logger.WithFields(logrus.Fields{
					"output": exportArgs.Output,
					"rows":   rows,
				}).Info("Done")
				return nil
			})
		},
	}
}
