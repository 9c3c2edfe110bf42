package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rubiojr/fuelmap/internal/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "fuelmap",
		Usage: "Plot UK fuel-station CSV exports on a price map",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML configuration file",
				EnvVars: []string{"FUELMAP_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log debug output to stderr",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			listCommand(),
			checkCommand(),
			scaleCommand(),
			listNearbyCommand(),
			pushCommand(),
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(c *cli.Context) *slog.Logger {
	if !c.Bool("verbose") {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func csvArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected one CSV file argument, got %d", c.NArg())
	}
	return c.Args().First(), nil
}
