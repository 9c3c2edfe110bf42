package forecourt

import (
	"testing"

	"github.com/rubiojr/fuelmap/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPence(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"142.9", "£1.429"},
		{"142", "£1.42"},
		{"140", "£1.40"},
		{"100", "£1.00"},
		{"159.99", "£1.60"},
		{"100.05", "£1.001"},
		{"99.95", "£1.00"},
		{"8.5", "£0.085"},
		{"142,9", "£1.429"},
		{"142.9p", "£1.429"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			pence, ok := ParsePence(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, FormatPence(pence))
		})
	}
}

func TestParsePenceRejects(t *testing.T) {
	for _, raw := range []string{"", " ", "-", "0", "0.0", "-12.5", "n/a", "1.2.3"} {
		_, ok := ParsePence(raw)
		assert.False(t, ok, "ParsePence(%q)", raw)
	}
}

func TestSelectPrice(t *testing.T) {
	tests := []struct {
		name      string
		prices    map[api.FuelCode]string
		fuel      api.FuelCode
		preferred []api.FuelCode
		wantFuel  api.FuelCode
		wantOK    bool
	}{
		{
			name:     "first preferred wins",
			prices:   map[api.FuelCode]string{api.FuelE10: "132.7", api.FuelE5: "145.9", api.FuelB7: "139.7"},
			wantFuel: api.FuelE10,
			wantOK:   true,
		},
		{
			name:     "falls through missing codes",
			prices:   map[api.FuelCode]string{api.FuelB7: "139.7", api.FuelE5: "145.9"},
			wantFuel: api.FuelE5,
			wantOK:   true,
		},
		{
			name:     "falls through invalid prices",
			prices:   map[api.FuelCode]string{api.FuelE10: "0", api.FuelE5: "n/a", api.FuelB7: "139.7"},
			wantFuel: api.FuelB7,
			wantOK:   true,
		},
		{
			name:     "unknown codes in lexical order",
			prices:   map[api.FuelCode]string{"LPG": "80.9", "HVO": "170.9", "B10": "150"},
			wantFuel: "B10",
			wantOK:   true,
		},
		{
			name:     "explicit fuel only",
			prices:   map[api.FuelCode]string{api.FuelE10: "132.7"},
			fuel:     api.FuelB7,
			wantOK:   false,
		},
		{
			name:     "explicit fuel present",
			prices:   map[api.FuelCode]string{api.FuelE10: "132.7", api.FuelB7: "139.7"},
			fuel:     api.FuelB7,
			wantFuel: api.FuelB7,
			wantOK:   true,
		},
		{
			name:      "custom order",
			prices:    map[api.FuelCode]string{api.FuelE10: "132.7", api.FuelB7: "139.7"},
			preferred: []api.FuelCode{api.FuelB7, api.FuelE10},
			wantFuel:  api.FuelB7,
			wantOK:    true,
		},
		{
			name:   "no prices",
			prices: map[api.FuelCode]string{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preferred := tt.preferred
			if preferred == nil {
				preferred = api.DefaultPreferredFuels
			}
			p := &api.StationPoint{Prices: tt.prices}
			price, ok := SelectPrice(p, tt.fuel, preferred)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantFuel, price.Fuel)
		})
	}
}

func TestSelectPriceIsDeterministic(t *testing.T) {
	p := &api.StationPoint{Prices: map[api.FuelCode]string{
		"LPG": "80.9", "HVO": "170.9", "B10": "150", "ADBLUE": "90", "E85": "120",
	}}
	first, ok := SelectPrice(p, "", api.DefaultPreferredFuels)
	require.True(t, ok)
	assert.Equal(t, api.FuelCode("ADBLUE"), first.Fuel)

	for i := 0; i < 100; i++ {
		price, _ := SelectPrice(p, "", api.DefaultPreferredFuels)
		require.Equal(t, first.Fuel, price.Fuel)
	}
}

func TestSelectPriceValues(t *testing.T) {
	p := &api.StationPoint{Prices: map[api.FuelCode]string{api.FuelE10: "142.9"}}
	price, ok := SelectPrice(p, "", api.DefaultPreferredFuels)
	require.True(t, ok)
	assert.Equal(t, "£1.429", price.Display)
	assert.InDelta(t, 1.429, price.Pounds, 1e-9)
	assert.Equal(t, "142.9", price.Pence.String())
}
