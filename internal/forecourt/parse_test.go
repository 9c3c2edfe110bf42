package forecourt

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rubiojr/fuelmap/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `site_id,trading_name,brand,address,postcode,latitude,longitude,last_updated,E10,E5,B7,SDV
1,Asda Leeds,ASDA,Kirkstall Road,LS3 1JL,53.8008,-1.5691,2026-10-01 08:15:00,132.7,145.9,139.7,
2,Shell Headingley,SHELL,Otley Road,LS6 3AA,53.8191,-1.5765,2026-10-01T09:00:00Z,,149.9,144.9,159.9
3,Broken Row,BP,Nowhere,XX1 1XX,,,2026-10-01,140.0,,,
4,Bad Coords,BP,Nowhere,XX1 1XX,north,west,,140.0,,,
5,Esso Otley,ESSO,Bridge Street,LS21 1BQ,53.9050,-1.6910,garbage,,,,
`

func TestParse(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 5, ds.Rows)
	assert.Equal(t, 2, ds.Skipped)
	assert.Equal(t, []api.FuelCode{api.FuelE10, api.FuelE5, api.FuelB7, api.FuelSDV}, ds.Fuels)
	require.Len(t, ds.Points, 3)

	asda := ds.Points[0]
	assert.Equal(t, "1", asda.ID)
	assert.Equal(t, "Asda Leeds", asda.TradingName)
	assert.Equal(t, "ASDA", asda.Brand)
	assert.Equal(t, "Kirkstall Road", asda.Address)
	assert.Equal(t, "LS3 1JL", asda.Postcode)
	assert.InDelta(t, 53.8008, asda.Latitude, 1e-9)
	assert.InDelta(t, -1.5691, asda.Longitude, 1e-9)
	assert.Equal(t, time.Date(2026, 10, 1, 8, 15, 0, 0, time.UTC), asda.LastUpdated)
	assert.Equal(t, map[api.FuelCode]string{
		api.FuelE10: "132.7",
		api.FuelE5:  "145.9",
		api.FuelB7:  "139.7",
	}, asda.Prices)

	shell := ds.Points[1]
	assert.Equal(t, time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC), shell.LastUpdated.UTC())
	assert.NotContains(t, shell.Prices, api.FuelE10)

	esso := ds.Points[2]
	assert.True(t, esso.LastUpdated.IsZero())
	assert.Equal(t, "garbage", esso.UpdatedRaw)
	assert.Empty(t, esso.Prices)
}

func TestParseSkipsInvalidCoordinates(t *testing.T) {
	tests := []struct {
		name string
		lat  string
		lng  string
		keep bool
	}{
		{"valid", "51.5", "-0.12", true},
		{"decimal comma", `"51,5"`, `"-0,12"`, true},
		{"missing latitude", "", "-0.12", false},
		{"missing longitude", "51.5", "", false},
		{"not a number", "abc", "-0.12", false},
		{"nan", "NaN", "-0.12", false},
		{"infinite", "51.5", "+Inf", false},
		{"out of range", "91", "-0.12", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "latitude,longitude,E10\n" + tt.lat + "," + tt.lng + ",140\n"
			ds, err := Parse(strings.NewReader(input))
			require.NoError(t, err)
			assert.Equal(t, 1, ds.Rows)
			if tt.keep {
				assert.Len(t, ds.Points, 1)
				assert.Zero(t, ds.Skipped)
			} else {
				assert.Empty(t, ds.Points)
				assert.Equal(t, 1, ds.Skipped)
			}
		})
	}
}

func TestParseHeaderVariants(t *testing.T) {
	input := "\ufeffSite ID;Name;Lat;Lng;Price_E10;diesel_price;Post-Code\n" +
		"abc;Tesco;52.1;-1.2;135.9;141.9;CV1 1AA\n"

	ds, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ds.Points, 1)

	p := ds.Points[0]
	assert.Equal(t, "abc", p.ID)
	assert.Equal(t, "Tesco", p.TradingName)
	assert.Equal(t, "CV1 1AA", p.Postcode)
	assert.Equal(t, []api.FuelCode{api.FuelE10, "DIESEL"}, ds.Fuels)
	assert.Equal(t, "141.9", p.Prices["DIESEL"])
}

func TestParseShortRows(t *testing.T) {
	input := "latitude,longitude,trading_name,E10\n51.5,-0.1\n"
	ds, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ds.Points, 1)
	assert.Empty(t, ds.Points[0].TradingName)
	assert.Empty(t, ds.Points[0].Prices)
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrEmpty},
		{"whitespace", "  \n\n", ErrEmpty},
		{"header only", "latitude,longitude\n", ErrEmpty},
		{"binary", "PK\x03\x04\x00\x00latitude,longitude", ErrNotCSV},
		{"invalid utf8", "lat,lng\n\xff\xfe\xfd,1\n", ErrNotCSV},
		{"no delimiter", "just some prose\nwithout any separators\n", ErrNotCSV},
		{"no coordinates", "name,brand\nfoo,bar\n", ErrMissingColumns},
		{"json", `{"latitude": 1, "longitude": 2}`, ErrMissingColumns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
			assert.True(t, IsBadInput(err))
		})
	}
}

func TestParseLatLong(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		hasError bool
	}{
		{"51.5072", 51.5072, false},
		{"51,5072", 51.5072, false},
		{"-0.1276", -0.1276, false},
		{" -0,1276 ", -0.1276, false},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, test := range tests {
		result, err := ParseLatLong(test.input)

		if test.hasError {
			if err == nil {
				t.Errorf("ParseLatLong(%q) expected error but got none", test.input)
			}
		} else {
			if err != nil {
				t.Errorf("ParseLatLong(%q) unexpected error: %v", test.input, err)
			}
			if result != test.expected {
				t.Errorf("ParseLatLong(%q) = %f, expected %f", test.input, result, test.expected)
			}
		}
	}
}

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		lat, lng float64
		want     bool
	}{
		{53.8008, -1.5691, true},
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{0, -180.5, false},
		{math.NaN(), 0, false},
		{0, math.Inf(1), false},
		{math.Inf(-1), 0, false},
	}

	for _, test := range tests {
		if got := ValidCoordinates(test.lat, test.lng); got != test.want {
			t.Errorf("ValidCoordinates(%v, %v) = %v, expected %v", test.lat, test.lng, got, test.want)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("site_id,latitude,longitude,E10,E5,B7\n")
	for i := 0; i < 5000; i++ {
		sb.WriteString("1,53.8,-1.5,132.7,145.9,139.7\n")
	}
	input := sb.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(strings.NewReader(input)); err != nil {
			b.Fatalf("Parse() failed: %v", err)
		}
	}
}
