package main

import (
	"fmt"
	"strings"

	"github.com/rubiojr/fuelmap/internal/forecourt"
	"github.com/rubiojr/fuelmap/pkg/api"
	"github.com/urfave/cli/v2"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate a CSV export and report what would be plotted",
		ArgsUsage: "<file.csv>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail when any row is skipped",
			},
		},
		Action: checkAction,
	}
}

func checkAction(c *cli.Context) error {
	path, err := csvArg(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ds, err := forecourt.ParseFile(path)
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", path, err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Rows: %d\n", ds.Rows)
	fmt.Fprintf(w, "Stations plotted: %d\n", len(ds.Points))
	fmt.Fprintf(w, "Rows skipped: %d\n", ds.Skipped)
	fmt.Fprintf(w, "Price columns: %s\n", joinFuels(ds.Fuels))

	for _, fuel := range append([]api.FuelCode{""}, ds.Fuels...) {
		_, scale := forecourt.Colorize(ds.Points, fuel, cfg.PreferredFuels(), cfg.ScaleOptions())
		label := string(fuel)
		if label == "" {
			label = "auto"
		}
		if scale.Priced == 0 {
			fmt.Fprintf(w, "  %-5s no prices\n", label)
			continue
		}
		resp := scale.Response()
		fmt.Fprintf(w, "  %-5s %d priced, scale %s - %s\n", label, scale.Priced, resp.LowDisplay, resp.HighDisplay)
	}

	if c.Bool("strict") && ds.Skipped > 0 {
		return fmt.Errorf("%d rows without valid coordinates", ds.Skipped)
	}
	return nil
}

func joinFuels(fuels []api.FuelCode) string {
	if len(fuels) == 0 {
		return "none"
	}
	names := make([]string, len(fuels))
	for i, f := range fuels {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
