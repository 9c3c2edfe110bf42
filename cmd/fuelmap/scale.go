package main

import (
	"fmt"

	"github.com/rubiojr/fuelmap/internal/forecourt"
	"github.com/rubiojr/fuelmap/pkg/api"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

func scaleCommand() *cli.Command {
	return &cli.Command{
		Name:      "scale",
		Usage:     "Print the price color scale of a CSV export",
		ArgsUsage: "<file.csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "fuel",
				Usage: "Fuel code (E10, E5, B7, SDV); empty picks the preferred fuel per station",
			},
			&cli.IntFlag{
				Name:  "steps",
				Usage: "Number of legend entries",
				Value: 5,
			},
		},
		Action: scaleAction,
	}
}

type legendStep struct {
	Price   float64
	Display string
	Color   string
}

func scaleAction(c *cli.Context) error {
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

	_, scale := forecourt.Colorize(ds.Points, api.ParseFuelCode(c.String("fuel")), cfg.PreferredFuels(), cfg.ScaleOptions())
	if scale.Priced == 0 {
		return fmt.Errorf("no prices found in %s", path)
	}

	w := c.App.Writer
	resp := scale.Response()
	fmt.Fprintf(w, "Priced stations: %d\n", scale.Priced)
	fmt.Fprintf(w, "Low (%.0fth percentile): %s\n", cfg.Scale.LowPercentile*100, resp.LowDisplay)
	fmt.Fprintf(w, "High (%.0fth percentile): %s\n", cfg.Scale.HighPercentile*100, resp.HighDisplay)
	for _, step := range legend(scale, c.Int("steps")) {
		fmt.Fprintf(w, "  %s  %s\n", step.Color, step.Display)
	}
	fmt.Fprintf(w, "  %s  no price\n", forecourt.NoPriceColor)
	return nil
}

// legend spreads steps entries evenly between the scale bounds.
func legend(scale forecourt.Scale, steps int) []legendStep {
	if steps < 2 || scale.High <= scale.Low {
		return []legendStep{{
			Price:   scale.Low,
			Display: forecourt.FormatPounds(decimal.NewFromFloat(scale.Low)),
			Color:   scale.Color(scale.Low),
		}}
	}

	out := make([]legendStep, steps)
	for i := range out {
		price := scale.Low + (scale.High-scale.Low)*float64(i)/float64(steps-1)
		out[i] = legendStep{
			Price:   price,
			Display: forecourt.FormatPounds(decimal.NewFromFloat(price).Round(3)),
			Color:   scale.Color(price),
		}
	}
	return out
}
