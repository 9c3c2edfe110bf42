package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rubiojr/fuelmap/pkg/api"
	"github.com/urfave/cli/v2"
)

func pushCommand() *cli.Command {
	return &cli.Command{
		Name:      "push",
		Usage:     "Upload a CSV export to a running fuelmap server",
		ArgsUsage: "<file.csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "Server base URL",
				Value:   api.DefaultBaseURL,
				EnvVars: []string{"FUELMAP_SERVER"},
			},
			&cli.StringFlag{
				Name:  "fuel",
				Usage: "Fuel code (E10, E5, B7, SDV); empty picks the preferred fuel per station",
			},
		},
		Action: pushAction,
	}
}

func pushAction(c *cli.Context) error {
	path, err := csvArg(c)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	client := api.NewClient(c.String("server"))
	ds, err := client.Upload(c.Context, filepath.Base(path), f, api.ParseFuelCode(c.String("fuel")))
	if err != nil {
		return fmt.Errorf("error uploading %s: %w", path, err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Dataset: %s\n", ds.ID)
	fmt.Fprintf(w, "Stations plotted: %d (%d rows skipped)\n", len(ds.Points), ds.Skipped)
	if ds.Scale.Priced > 0 {
		fmt.Fprintf(w, "Scale: %s - %s\n", ds.Scale.LowDisplay, ds.Scale.HighDisplay)
	}
	fmt.Fprintf(w, "Expires after: %s\n", ds.ExpiresAfter)
	fmt.Fprintf(w, "Map: %s\n", client.MapURL())
	return nil
}
