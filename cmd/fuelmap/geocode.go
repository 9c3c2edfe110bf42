package main

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/gominatim"
	"github.com/patrickmn/go-cache"
)

const (
	nominatimServer = "https://nominatim.openstreetmap.org/"
	geocodeTTL      = 7 * 24 * time.Hour
)

type place struct {
	Name string
	Lat  float64
	Lng  float64
}

func init() {
	gob.Register(place{})
}

// geocoder resolves place names with Nominatim. Results are kept in a
// go-cache that is loaded from and saved to path between runs.
type geocoder struct {
	cache *cache.Cache
	path  string
	log   *slog.Logger
}

func newGeocoder(path string, logger *slog.Logger) *geocoder {
	g := &geocoder{
		cache: cache.New(geocodeTTL, time.Hour),
		path:  path,
		log:   logger,
	}
	if path == "" {
		return g
	}
	if err := g.cache.LoadFile(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Debug("Ignoring geocode cache", "path", path, "error", err)
	}
	g.cache.DeleteExpired()
	return g
}

func defaultGeocodeCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fuelmap", "geocode.cache")
}

func (g *geocoder) lookup(location string) (place, error) {
	key := strings.ToLower(strings.TrimSpace(location))
	if cached, ok := g.cache.Get(key); ok {
		g.log.Debug("Using cached location", "location", location)
		return cached.(place), nil
	}

	gominatim.SetServer(nominatimServer)
	qry := gominatim.SearchQuery{
		Q: location,
	}
	results, err := qry.Get()
	if err != nil {
		return place{}, fmt.Errorf("geocoding error: %w", err)
	}
	if len(results) == 0 {
		return place{}, fmt.Errorf("no results found for location: %s", location)
	}

	p, err := placeFromResult(results[0])
	if err != nil {
		return place{}, err
	}
	g.cache.Set(key, p, cache.DefaultExpiration)
	return p, nil
}

func placeFromResult(result gominatim.SearchResult) (place, error) {
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return place{}, fmt.Errorf("error parsing latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return place{}, fmt.Errorf("error parsing longitude: %w", err)
	}
	return place{Name: result.DisplayName, Lat: lat, Lng: lng}, nil
}

func (g *geocoder) save() error {
	if g.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return fmt.Errorf("error creating cache directory: %w", err)
	}
	if err := g.cache.SaveFile(g.path); err != nil {
		return fmt.Errorf("error saving geocode cache: %w", err)
	}
	return nil
}
