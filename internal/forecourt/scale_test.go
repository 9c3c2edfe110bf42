package forecourt

import (
	"math"
	"testing"

	"github.com/rubiojr/fuelmap/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScalePercentiles(t *testing.T) {
	prices := []float64{1.9, 1.0, 1.8, 1.1, 1.7, 1.2, 1.6, 1.3, 1.5, 1.4}
	s := NewScale(prices, DefaultScaleOptions())

	assert.Equal(t, 10, s.Priced)
	assert.InDelta(t, 1.0, s.Low, 1e-9)
	assert.InDelta(t, 1.8, s.High, 1e-9)
	assert.InDelta(t, 1.9, prices[0], 1e-9, "input must not be reordered")
}

func TestScaleClampsAndInterpolates(t *testing.T) {
	s := NewScale([]float64{1.0, 1.1, 1.2, 1.3, 1.4, 1.5, 1.6, 1.7, 1.8, 1.9}, DefaultScaleOptions())

	assert.Equal(t, 0.0, s.Position(0.5))
	assert.Equal(t, 0.0, s.Position(1.0))
	assert.InDelta(t, 0.5, s.Position(1.4), 1e-9)
	assert.Equal(t, 1.0, s.Position(1.8))
	assert.Equal(t, 1.0, s.Position(2.5))

	assert.InDelta(t, 120, s.Hue(1.0), 1e-9)
	assert.InDelta(t, 60, s.Hue(1.4), 1e-9)
	assert.InDelta(t, 0, s.Hue(1.9), 1e-9)

	assert.Equal(t, HueColor(120), s.Color(0.9))
	assert.Equal(t, HueColor(0), s.Color(1.9))
}

func TestScaleUniformPrices(t *testing.T) {
	s := NewScale([]float64{1.45, 1.45, 1.45}, DefaultScaleOptions())
	assert.Equal(t, s.Low, s.High)
	assert.Equal(t, 0.0, s.Position(1.45))
	assert.Equal(t, HueColor(120), s.Color(1.45))
}

func TestScaleEmptyAndNonFinite(t *testing.T) {
	s := NewScale(nil, DefaultScaleOptions())
	assert.Zero(t, s.Priced)
	assert.Equal(t, 0.0, s.Position(1.5))

	s = NewScale([]float64{math.NaN(), math.Inf(1), 1.5}, DefaultScaleOptions())
	assert.Equal(t, 1, s.Priced)
	assert.Equal(t, 1.5, s.Low)
	assert.Equal(t, 1.5, s.High)
}

func TestScaleOptions(t *testing.T) {
	opts := ScaleOptions{LowPercentile: 0, HighPercentile: 1, CheapHue: 200, ExpensiveHue: 300}
	s := NewScale([]float64{1, 2, 3}, opts)
	assert.Equal(t, 1.0, s.Low)
	assert.Equal(t, 3.0, s.High)
	assert.InDelta(t, 250, s.Hue(2), 1e-9)

	swapped := ScaleOptions{LowPercentile: 1.5, HighPercentile: -1, CheapHue: 120}
	s = NewScale([]float64{1, 2, 3}, swapped)
	assert.Equal(t, 1.0, s.Low)
	assert.Equal(t, 3.0, s.High)
}

func TestHueColor(t *testing.T) {
	assert.Regexp(t, `^#[0-9a-f]{6}$`, HueColor(120))
	assert.NotEqual(t, HueColor(120), HueColor(0))
}

func TestColorize(t *testing.T) {
	points := []api.StationPoint{
		{ID: "cheap", Prices: map[api.FuelCode]string{api.FuelE10: "120"}},
		{ID: "mid", Prices: map[api.FuelCode]string{api.FuelE10: "140"}},
		{ID: "dear", Prices: map[api.FuelCode]string{api.FuelE10: "160"}},
		{ID: "diesel", Prices: map[api.FuelCode]string{api.FuelB7: "150"}},
		{ID: "none", Prices: map[api.FuelCode]string{}},
	}

	out, scale := Colorize(points, "", api.DefaultPreferredFuels, DefaultScaleOptions())
	require.Len(t, out, len(points))
	assert.Equal(t, 4, scale.Priced)

	assert.Equal(t, HueColor(120), out[0].Color)
	assert.Equal(t, "£1.20", out[0].DisplayPrice)
	assert.Equal(t, api.FuelE10, out[0].Fuel)
	assert.True(t, out[0].HasPrice)
	assert.Equal(t, HueColor(0), out[2].Color)
	assert.Equal(t, api.FuelB7, out[3].Fuel)

	assert.False(t, out[4].HasPrice)
	assert.Equal(t, NoPriceColor, out[4].Color)
	assert.Empty(t, out[4].DisplayPrice)

	assert.Empty(t, points[0].Color, "input points must not be modified")

	dieselOnly, scale := Colorize(points, api.FuelB7, api.DefaultPreferredFuels, DefaultScaleOptions())
	assert.Equal(t, 1, scale.Priced)
	assert.False(t, dieselOnly[0].HasPrice)
	assert.True(t, dieselOnly[3].HasPrice)
	assert.Equal(t, HueColor(120), dieselOnly[3].Color)
}

func TestScaleResponse(t *testing.T) {
	s := NewScale([]float64{1.299, 1.359, 1.429}, ScaleOptions{LowPercentile: 0, HighPercentile: 1, CheapHue: 120})
	resp := s.Response()
	assert.Equal(t, "£1.299", resp.LowDisplay)
	assert.Equal(t, "£1.429", resp.HighDisplay)
	assert.Equal(t, HueColor(120), resp.CheapColor)
	assert.Equal(t, HueColor(60), resp.MiddleColor)
	assert.Equal(t, HueColor(0), resp.PricierColor)
	assert.Equal(t, 3, resp.Priced)
}
