package forecourt

import (
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rubiojr/fuelmap/pkg/api"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

const (
	// NoPriceColor is used for stations without a usable price.
	NoPriceColor = "#9e9e9e"

	markerSaturation = 0.85
	markerLightness  = 0.45
)

// ScaleOptions configures the percentile clamp and the hue range.
type ScaleOptions struct {
	LowPercentile  float64
	HighPercentile float64
	CheapHue       float64
	ExpensiveHue   float64
}

// DefaultScaleOptions clamps to the 10th/90th percentiles and maps cheap to
// green and expensive to red.
func DefaultScaleOptions() ScaleOptions {
	return ScaleOptions{
		LowPercentile:  0.1,
		HighPercentile: 0.9,
		CheapHue:       120,
		ExpensiveHue:   0,
	}
}

func (o ScaleOptions) normalized() ScaleOptions {
	if o == (ScaleOptions{}) {
		return DefaultScaleOptions()
	}
	o.LowPercentile = min(max(o.LowPercentile, 0), 1)
	o.HighPercentile = min(max(o.HighPercentile, 0), 1)
	if o.LowPercentile > o.HighPercentile {
		o.LowPercentile, o.HighPercentile = o.HighPercentile, o.LowPercentile
	}
	return o
}

// Scale maps prices in pounds to marker colors.
type Scale struct {
	Low    float64
	High   float64
	Priced int
	opts   ScaleOptions
}

// NewScale computes the low and high bounds of prices. The input is not modified.
func NewScale(prices []float64, opts ScaleOptions) Scale {
	s := Scale{opts: opts.normalized()}

	sorted := make([]float64, 0, len(prices))
	for _, p := range prices {
		if !math.IsNaN(p) && !math.IsInf(p, 0) {
			sorted = append(sorted, p)
		}
	}
	if len(sorted) == 0 {
		return s
	}
	slices.Sort(sorted)

	s.Priced = len(sorted)
	s.Low = stat.Quantile(s.opts.LowPercentile, stat.Empirical, sorted, nil)
	s.High = stat.Quantile(s.opts.HighPercentile, stat.Empirical, sorted, nil)
	return s
}

// Position clamps price to [Low, High] and returns its relative position in
// that range, 0 being the cheapest.
func (s Scale) Position(price float64) float64 {
	if s.High <= s.Low {
		return 0
	}
	clamped := min(max(price, s.Low), s.High)
	return (clamped - s.Low) / (s.High - s.Low)
}

// Hue linearly interpolates between the cheap and expensive hues.
func (s Scale) Hue(price float64) float64 {
	t := s.Position(price)
	return s.opts.CheapHue + (s.opts.ExpensiveHue-s.opts.CheapHue)*t
}

// Color returns the marker color for price as #rrggbb.
func (s Scale) Color(price float64) string {
	return HueColor(s.Hue(price))
}

// HueColor renders a marker color for hue in degrees.
func HueColor(hue float64) string {
	return colorful.Hsl(hue, markerSaturation, markerLightness).Hex()
}

// Response describes the scale for API clients.
func (s Scale) Response() api.ScaleResponse {
	return api.ScaleResponse{
		Low:          s.Low,
		High:         s.High,
		LowDisplay:   FormatPounds(decimal.NewFromFloat(s.Low)),
		HighDisplay:  FormatPounds(decimal.NewFromFloat(s.High)),
		CheapColor:   HueColor(s.opts.CheapHue),
		MiddleColor:  HueColor((s.opts.CheapHue + s.opts.ExpensiveHue) / 2),
		PricierColor: HueColor(s.opts.ExpensiveHue),
		Priced:       s.Priced,
	}
}

// Colorize selects a price for every point and colors it against a scale built
// from the selected prices. The returned points are copies.
func Colorize(points []api.StationPoint, fuel api.FuelCode, preferred []api.FuelCode, opts ScaleOptions) ([]api.StationPoint, Scale) {
	out := make([]api.StationPoint, len(points))
	prices := make([]float64, 0, len(points))
	for i := range points {
		out[i] = points[i]
		p := &out[i]
		price, ok := SelectPrice(p, fuel, preferred)
		p.HasPrice = ok
		p.Fuel, p.DisplayPrice, p.Price = "", "", 0
		if ok {
			p.Fuel = price.Fuel
			p.DisplayPrice = price.Display
			p.Price = price.Pounds
			prices = append(prices, price.Pounds)
		}
	}

	scale := NewScale(prices, opts)
	for i := range out {
		if out[i].HasPrice {
			out[i].Color = scale.Color(out[i].Price)
		} else {
			out[i].Color = NoPriceColor
		}
	}
	return out, scale
}
