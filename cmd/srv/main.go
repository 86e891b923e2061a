package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	server := &srv{}

	app := &cli.App{
		Name:  "settlement",
		Usage: "Settlement engine of the creator economy platform",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path of the TOML config file",
				EnvVars: []string{"SETTLEMENT_CONFIG"},
			},
		},
		Before: server.load,
		Commands: []*cli.Command{
			{
				Action:      server.startApi,
				Name:        "api",
				Usage:       "Start service api",
				Category:    "Api",
				Description: "Serve the settlement api over http.",
			},
			{
				Action:      server.startCron,
				Name:        "cron",
				Usage:       "Start the settlement sweep",
				Category:    "Worker",
				Description: "Periodically settle every auction whose due time has passed.",
			},
			{
				Action:      server.startMigrate,
				Name:        "migrate",
				Usage:       "Migrate the database to the latest version",
				Category:    "Tool",
				Description: "Run the versioned sql migrations on mysql, or auto migrate the entities on sqlite.",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}
