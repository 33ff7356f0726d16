package main

import (
	"fmt"
	"os"
	"strconv"

	"event-manager-api/core/config"
	"event-manager-api/core/database"
	"event-manager-api/core/logger"
	"event-manager-api/core/server"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "event-manager-api",
		Usage: "Event scheduling API with attendee invitations.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Optional config file (yaml, json or toml)."},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API.",
				Action: serve,
			},
			migrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("Main:Run", "error", err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	return server.Start(c.String("config"))
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply or roll back database migrations.",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations.",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					return database.MigrateUp(database.URL(cfg.Database))
				},
			},
			{
				Name:      "down",
				Usage:     "Roll back N migrations.",
				ArgsUsage: "N",
				Action: func(c *cli.Context) error {
					steps, err := strconv.Atoi(c.Args().First())
					if err != nil || steps <= 0 {
						return fmt.Errorf("migrate down needs a positive step count, got %q", c.Args().First())
					}
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					return database.MigrateDown(database.URL(cfg.Database), steps)
				},
			},
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Init(c.String("config"))
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}
