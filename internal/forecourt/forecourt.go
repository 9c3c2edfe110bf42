// Package forecourt turns UK fuel-station CSV exports into colored map points.
//
// The pipeline is: sniff the input, parse the CSV, normalize every row into an
// api.StationPoint (rows without usable coordinates are dropped), pick a
// representative price per station and color each point against a percentile
// based scale.
package forecourt

import (
	"errors"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rubiojr/fuelmap/pkg/api"
)

var (
	// ErrNotCSV is returned when the input does not look like delimited text.
	ErrNotCSV = errors.New("input is not a CSV file")
	// ErrMissingColumns is returned when the header has no latitude or longitude column.
	ErrMissingColumns = errors.New("missing latitude or longitude column")
	// ErrEmpty is returned when the input has no data rows.
	ErrEmpty = errors.New("no data rows")
	// ErrDatasetNotFound is returned by the Store for unknown or expired datasets.
	ErrDatasetNotFound = errors.New("dataset not found")
)

// IsBadInput reports whether err was caused by the uploaded file itself rather
// than by the server.
func IsBadInput(err error) bool {
	return errors.Is(err, ErrNotCSV) || errors.Is(err, ErrMissingColumns) || errors.Is(err, ErrEmpty)
}

// Dataset is the result of parsing one CSV export.
type Dataset struct {
	Points  []api.StationPoint
	Rows    int
	Skipped int
	// Fuels lists the price columns found in the header, in header order.
	Fuels []api.FuelCode
}

// ParseFile parses the CSV export at path.
func ParseFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// ParseLatLong parses a latitude or longitude, accepting a decimal comma.
func ParseLatLong(s string) (float64, error) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	m, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return m, nil
}

// ValidCoordinates reports whether lat and lng are finite and within range.
func ValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return math.Abs(lat) <= 90 && math.Abs(lng) <= 180
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
	"02/01/2006",
}

// parseTimestamp returns the zero time when s matches none of the known layouts.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
