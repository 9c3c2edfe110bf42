package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/rubiojr/fuelmap/internal/forecourt"
	"github.com/rubiojr/fuelmap/internal/server"
	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the fuel price map web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides the config file)",
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Addr = addr
	}

	level := httplog.LevelByName(cfg.Log.Level)
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := httplog.NewLogger("fuelmap", httplog.Options{
		JSON:            cfg.Log.JSON,
		LogLevel:        level,
		Concise:         !cfg.Log.JSON,
		QuietDownPeriod: 10 * time.Second,
	})

	store := forecourt.NewStore(cfg.StoreOptions(), logger.Logger)
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, store, logger).Run(ctx)
}
