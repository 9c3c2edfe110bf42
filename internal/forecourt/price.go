package forecourt

import (
	"slices"
	"strings"

	"github.com/rubiojr/fuelmap/pkg/api"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Price is the representative price selected for a station.
type Price struct {
	Fuel    api.FuelCode
	Pence   decimal.Decimal
	Pounds  float64
	Display string
}

// ParsePence parses a raw price cell in pence. Empty, unparsable, zero and
// negative values are not prices.
func ParsePence(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(strings.Replace(raw, ",", ".", 1))
	raw = strings.TrimSuffix(raw, "p")
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// PenceToPounds divides by 100 and rounds to three decimals.
func PenceToPounds(pence decimal.Decimal) decimal.Decimal {
	return pence.Div(hundred).Round(3)
}

// FormatPence renders a pence amount in pounds with three decimals, or two
// when the third one is zero: 142.9 -> £1.429, 142 -> £1.42.
func FormatPence(pence decimal.Decimal) string {
	return FormatPounds(PenceToPounds(pence))
}

// FormatPounds renders a pounds amount the same way as FormatPence.
func FormatPounds(pounds decimal.Decimal) string {
	s := pounds.Round(3).StringFixed(3)
	s = strings.TrimSuffix(s, "0")
	return "£" + s
}

func priceFor(p *api.StationPoint, fuel api.FuelCode) (Price, bool) {
	raw, ok := p.Prices[fuel]
	if !ok {
		return Price{}, false
	}
	pence, ok := ParsePence(raw)
	if !ok {
		return Price{}, false
	}
	pounds := PenceToPounds(pence)
	return Price{
		Fuel:    fuel,
		Pence:   pence,
		Pounds:  pounds.InexactFloat64(),
		Display: FormatPounds(pounds),
	}, true
}

// SelectPrice picks the representative price of a station. A non-empty fuel
// restricts the lookup to that code. Otherwise codes are tried in preferred
// order, then any remaining codes in lexical order.
func SelectPrice(p *api.StationPoint, fuel api.FuelCode, preferred []api.FuelCode) (Price, bool) {
	if fuel != "" {
		return priceFor(p, fuel)
	}
	for _, code := range preferred {
		if price, ok := priceFor(p, code); ok {
			return price, true
		}
	}

	rest := make([]api.FuelCode, 0, len(p.Prices))
	for code := range p.Prices {
		if !slices.Contains(preferred, code) {
			rest = append(rest, code)
		}
	}
	slices.Sort(rest)
	for _, code := range rest {
		if price, ok := priceFor(p, code); ok {
			return price, true
		}
	}
	return Price{}, false
}
