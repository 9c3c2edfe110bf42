package api

import (
	"strings"
	"time"
)

// FuelCode identifies a fuel grade as used in UK retailer price feeds.
type FuelCode string

const (
	FuelE10 FuelCode = "E10"
	FuelE5  FuelCode = "E5"
	FuelB7  FuelCode = "B7"
	FuelSDV FuelCode = "SDV"
)

// DefaultPreferredFuels is the order used to pick a station's representative
// price when no fuel is requested.
var DefaultPreferredFuels = []FuelCode{FuelE10, FuelE5, FuelB7, FuelSDV}

// ParseFuelCode normalizes a user supplied fuel code. The empty string and
// "auto" mean no explicit fuel.
func ParseFuelCode(s string) FuelCode {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "AUTO" {
		return ""
	}
	return FuelCode(s)
}

// StationPoint is a single forecourt plotted on the map.
type StationPoint struct {
	ID          string              `json:"id"`
	Latitude    float64             `json:"lat"`
	Longitude   float64             `json:"lng"`
	TradingName string              `json:"name"`
	Brand       string              `json:"brand"`
	Address     string              `json:"address"`
	Postcode    string              `json:"postcode"`
	LastUpdated time.Time           `json:"lastUpdated,omitzero"`
	UpdatedRaw  string              `json:"lastUpdatedRaw,omitempty"`
	Prices      map[FuelCode]string `json:"prices"`

	// Derived from the selected fuel.
	HasPrice     bool     `json:"hasPrice"`
	Fuel         FuelCode `json:"fuel,omitempty"`
	DisplayPrice string   `json:"displayPrice,omitempty"`
	Price        float64  `json:"price,omitempty"`
	Color        string   `json:"color"`
}

// StationWithDistance associates a StationPoint with a computed distance in meters.
type StationWithDistance struct {
	Station  *StationPoint `json:"station"`
	Distance float64       `json:"distance"`
}

// ScaleResponse describes the color scale used for a dataset view.
type ScaleResponse struct {
	Low          float64 `json:"low"`
	High         float64 `json:"high"`
	LowDisplay   string  `json:"lowDisplay"`
	HighDisplay  string  `json:"highDisplay"`
	CheapColor   string  `json:"cheapColor"`
	MiddleColor  string  `json:"middleColor"`
	PricierColor string  `json:"pricierColor"`
	Priced       int     `json:"priced"`
}

// DatasetResponse is returned by the dataset endpoints.
type DatasetResponse struct {
	ID           string         `json:"id"`
	Fuel         FuelCode       `json:"fuel,omitempty"`
	Fuels        []FuelCode     `json:"fuels"`
	Rows         int            `json:"rows"`
	Skipped      int            `json:"skipped"`
	Points       []StationPoint `json:"points"`
	Scale        ScaleResponse  `json:"scale"`
	ExpiresAfter string         `json:"expiresAfter"`
}

// NearbyResponse is returned by the nearby endpoint.
type NearbyResponse struct {
	Latitude  float64               `json:"lat"`
	Longitude float64               `json:"lng"`
	RadiusKm  float64               `json:"radiusKm"`
	Stations  []StationWithDistance `json:"stations"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
