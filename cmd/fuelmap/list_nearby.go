package main

import (
	"errors"
	"fmt"

	"github.com/rubiojr/fuelmap/internal/forecourt"
	"github.com/rubiojr/fuelmap/pkg/api"
	"github.com/urfave/cli/v2"
)

const (
	defaultRadiusKm = 5.0
	metersPerKm     = 1000.0
)

func listNearbyCommand() *cli.Command {
	return &cli.Command{
		Name:      "list-nearby",
		Usage:     "List the cheapest stations of a CSV export around a location",
		ArgsUsage: "<file.csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "location",
				Usage:    "Place name to search (geocoded with OpenStreetMap Nominatim)",
				Required: false,
			},
			&cli.Float64Flag{
				Name:  "lat",
				Usage: "Latitude of the location",
			},
			&cli.Float64Flag{
				Name:  "long",
				Usage: "Longitude of the location",
			},
			&cli.Float64Flag{
				Name:    "radius",
				Aliases: []string{"r"},
				Usage:   "Search radius in kilometers",
				Value:   defaultRadiusKm,
			},
			&cli.StringFlag{
				Name:  "fuel",
				Usage: "Fuel code (E10, E5, B7, SDV); empty picks the preferred fuel per station",
			},
			&cli.StringFlag{
				Name:  "geocode-cache",
				Usage: "File caching geocoded locations",
				Value: defaultGeocodeCachePath(),
			},
		},
		Action: listNearbyAction,
	}
}

func listNearbyAction(c *cli.Context) error {
	path, err := csvArg(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	lat := c.Float64("lat")
	lng := c.Float64("long")
	radius := c.Float64("radius")
	if radius <= 0 {
		radius = defaultRadiusKm
	}

	if loc := c.String("location"); loc != "" {
		g := newGeocoder(c.String("geocode-cache"), newLogger(c))
		p, err := g.lookup(loc)
		if err != nil {
			return err
		}
		if err := g.save(); err != nil {
			newLogger(c).Debug("Geocode cache not saved", "error", err)
		}
		fmt.Fprintln(c.App.Writer, "Location found:", p.Name)
		lat, lng = p.Lat, p.Lng
	} else if !c.IsSet("lat") || !c.IsSet("long") {
		return errors.New("location or latitude and longitude are required")
	}

	ds, err := forecourt.ParseFile(path)
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", path, err)
	}

	points, _ := forecourt.Colorize(ds.Points, api.ParseFuelCode(c.String("fuel")), cfg.PreferredFuels(), cfg.ScaleOptions())
	stations := forecourt.NearbyPoints(points, lat, lng, radius*metersPerKm)

	w := c.App.Writer
	fmt.Fprintf(w, "Filtering stations within %g km radius...\n\n", radius)
	for i, s := range stations {
		printStation(w, i+1, s.Station)
		fmt.Fprintf(w, "   Distance: %.2f km\n\n", s.Distance/metersPerKm)
	}
	fmt.Fprintf(w, "Found %d stations within %g km radius\n", len(stations), radius)
	return nil
}
