package main

import (
	"os"

	"github.com/m-mizutani/ratingcsv/internal/adaptor"
	"github.com/m-mizutani/ratingcsv/pkg/handler"
	"github.com/urfave/cli/v2"
)

var logger = handler.Logger

func main() {
	args := handler.Arguments{
		NewS3:      adaptor.NewS3Client,
		NewEncoder: adaptor.NewMsgpackEncoder,
		NewDecoder: adaptor.NewMsgpackDecoder,
	}

	app := &cli.App{
		Name:  "ratingcsv",
		Usage: "Convert rating dataset text files into CSV and merge shards",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "source",
				Aliases:     []string{"s"},
				Usage:       "Source directory of archive and raw files",
				Value:       "./datasets",
				EnvVars:     []string{"RATINGCSV_SOURCE"},
				Destination: &args.SourceDir,
			},
			&cli.StringFlag{
				Name:        "dist",
				Aliases:     []string{"d"},
				Usage:       "Destination directory of CSV files",
				Value:       "./dist",
				EnvVars:     []string{"RATINGCSV_DIST"},
				Destination: &args.DistDir,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Aliases:     []string{"l"},
				Usage:       "Log level [trace|debug|info|warn|error]",
				EnvVars:     []string{"LOG_LEVEL"},
				Destination: &args.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Log format [text|json]",
				Value:       "text",
				Destination: &args.LogFormat,
			},
			&cli.StringFlag{
				Name:        "schema-file",
				Usage:       "YAML file of schema rules (built-in rules if not given)",
				Destination: &args.SchemaFile,
			},
		},
		Commands: []*cli.Command{
			runCommand(&args),
			convertCommand(&args),
			mergeCommand(&args),
			exportCommand(&args),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("Abort")
	}
}
