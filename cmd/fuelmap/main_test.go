package main

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/httplog/v2"
	"github.com/rubiojr/fuelmap/internal/config"
	"github.com/rubiojr/fuelmap/internal/forecourt"
	"github.com/rubiojr/fuelmap/internal/server"
	"github.com/rubiojr/fuelmap/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `site_id,trading_name,brand,address,postcode,latitude,longitude,last_updated,E10,B7
1,Asda Leeds,ASDA,Kirkstall Road,LS3 1JL,53.8008,-1.5691,2026-10-01 08:15:00,150.9,
2,Shell Headingley,SHELL,Otley Road,LS6 3AA,53.8191,-1.5765,2026-10-01 09:00:00,130.9,142.9
3,Tesco Seacroft,TESCO,York Road,LS14 6JN,53.8180,-1.4560,2026-10-01 07:30:00,140.9,
4,No Coordinates,BP,Nowhere,XX1 1XX,,,2026-10-01,128.9,
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FUELMAP_CONFIG", "")

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"fuelmap"}, args...))
	return out.String(), err
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", writeCSV(t, testCSV))
	require.NoError(t, err)

	assert.Contains(t, out, "Rows: 4\n")
	assert.Contains(t, out, "Stations plotted: 3\n")
	assert.Contains(t, out, "Rows skipped: 1\n")
	assert.Contains(t, out, "Price columns: E10, B7\n")
	assert.Contains(t, out, "auto  3 priced, scale £1.309 - £1.509")
	assert.Contains(t, out, "B7    1 priced, scale £1.429 - £1.429")

	_, err = run(t, "check", "--strict", writeCSV(t, testCSV))
	assert.ErrorContains(t, err, "1 rows without valid coordinates")
}

func TestCheckRejectsBadInput(t *testing.T) {
	_, err := run(t, "check", writeCSV(t, "hello world\n"))
	assert.ErrorIs(t, err, forecourt.ErrNotCSV)

	_, err = run(t, "check")
	assert.ErrorContains(t, err, "expected one CSV file argument")
}

func TestList(t *testing.T) {
	out, err := run(t, "list", "--limit", "2", writeCSV(t, testCSV))
	require.NoError(t, err)

	assert.Contains(t, out, "1. Shell Headingley (SHELL)")
	assert.Contains(t, out, "2. Tesco Seacroft (TESCO)")
	assert.NotContains(t, out, "Asda Leeds")
	assert.Contains(t, out, "Listed 2 of 3 stations (1 rows skipped)")
}

func TestListNearby(t *testing.T) {
	out, err := run(t, "list-nearby", "--lat", "53.8008", "--long", "-1.5691", "--radius", "1", writeCSV(t, testCSV))
	require.NoError(t, err)

	assert.Contains(t, out, "1. Asda Leeds (ASDA)")
	assert.Contains(t, out, "Found 1 stations within 1 km radius")

	_, err = run(t, "list-nearby", writeCSV(t, testCSV))
	assert.ErrorContains(t, err, "location or latitude and longitude are required")

	_, err = run(t, "list-nearby", "--lat", "53.8", writeCSV(t, testCSV))
	assert.ErrorContains(t, err, "location or latitude and longitude are required")
}

func TestListNearbyNullIsland(t *testing.T) {
	csv := "site_id,trading_name,latitude,longitude,E10\n1,Null Island,0.001,0.001,140.9\n"
	out, err := run(t, "list-nearby", "--lat", "0", "--long", "0", "--radius", "1", writeCSV(t, csv))
	require.NoError(t, err)

	assert.Contains(t, out, "1. Null Island")
	assert.Contains(t, out, "Found 1 stations within 1 km radius")
}

func TestScale(t *testing.T) {
	out, err := run(t, "scale", "--steps", "3", writeCSV(t, testCSV))
	require.NoError(t, err)

	assert.Contains(t, out, "Priced stations: 3\n")
	assert.Contains(t, out, "Low (10th percentile): £1.309\n")
	assert.Contains(t, out, "High (90th percentile): £1.509\n")
	assert.Contains(t, out, forecourt.HueColor(120)+"  £1.309")
	assert.Contains(t, out, forecourt.HueColor(60)+"  £1.409")
	assert.Contains(t, out, forecourt.HueColor(0)+"  £1.509")
	assert.Contains(t, out, forecourt.NoPriceColor+"  no price")
}

func TestRankStations(t *testing.T) {
	points := []api.StationPoint{
		{ID: "a"},
		{ID: "b", HasPrice: true, Price: 1.5},
		{ID: "c", HasPrice: true, Price: 1.3},
		{ID: "d"},
	}

	ranked := rankStations(points)
	ids := make([]string, len(ranked))
	for i, p := range ranked {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids)
	assert.Equal(t, "a", points[0].ID)
}

func TestPush(t *testing.T) {
	cfg := config.Default()
	store := forecourt.NewStore(cfg.StoreOptions(), slog.New(slog.DiscardHandler))
	t.Cleanup(store.Close)
	logger := httplog.NewLogger("fuelmap-test", httplog.Options{LogLevel: slog.LevelError, Concise: true})
	ts := httptest.NewServer(server.New(cfg, store, logger).Router())
	t.Cleanup(ts.Close)

	out, err := run(t, "push", "--server", ts.URL, writeCSV(t, testCSV))
	require.NoError(t, err)

	assert.Contains(t, out, "Stations plotted: 3 (1 rows skipped)")
	assert.Contains(t, out, "Scale: £1.309 - £1.509")
	assert.Contains(t, out, "Map: "+ts.URL+"/")
	assert.Equal(t, 1, store.Len())
}
