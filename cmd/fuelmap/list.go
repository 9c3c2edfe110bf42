package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/rubiojr/fuelmap/internal/forecourt"
	"github.com/rubiojr/fuelmap/pkg/api"
	"github.com/urfave/cli/v2"
)

const defaultListLimit = 20

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List the stations of a CSV export, cheapest first",
		ArgsUsage: "<file.csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "fuel",
				Usage: "Fuel code (E10, E5, B7, SDV); empty picks the preferred fuel per station",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of stations to print (0 for all)",
				Value:   defaultListLimit,
			},
		},
		Action: listAction,
	}
}

func listAction(c *cli.Context) error {
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
	newLogger(c).Debug("Parsed dataset", "path", path, "rows", ds.Rows, "skipped", ds.Skipped)

	points, _ := forecourt.Colorize(ds.Points, api.ParseFuelCode(c.String("fuel")), cfg.PreferredFuels(), cfg.ScaleOptions())
	ranked := rankStations(points)

	limit := c.Int("limit")
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		printStation(c.App.Writer, i+1, &ranked[i])
	}
	fmt.Fprintf(c.App.Writer, "Listed %d of %d stations (%d rows skipped)\n", len(ranked), len(points), ds.Skipped)
	return nil
}

// rankStations sorts priced stations cheapest first, followed by stations
// without a price in their original order.
func rankStations(points []api.StationPoint) []api.StationPoint {
	ranked := slices.Clone(points)
	slices.SortStableFunc(ranked, func(a, b api.StationPoint) int {
		switch {
		case a.HasPrice && b.HasPrice:
			return cmp.Compare(a.Price, b.Price)
		case a.HasPrice:
			return -1
		case b.HasPrice:
			return 1
		}
		return 0
	})
	return ranked
}

func printStation(w io.Writer, n int, p *api.StationPoint) {
	name := p.TradingName
	if name == "" {
		name = p.ID
	}
	fmt.Fprintf(w, "%d. %s (%s)\n", n, name, p.Brand)
	fmt.Fprintf(w, "   Address: %s %s\n", p.Address, p.Postcode)
	if p.HasPrice {
		fmt.Fprintf(w, "   Price: %s (%s)\n", p.DisplayPrice, p.Fuel)
	} else {
		fmt.Fprintln(w, "   Price: N/A")
	}
	if p.UpdatedRaw != "" {
		fmt.Fprintf(w, "   Last updated: %s\n", p.UpdatedRaw)
	}
	fmt.Fprintf(w, "   Coordinates: %.5f, %.5f\n\n", p.Latitude, p.Longitude)
}
