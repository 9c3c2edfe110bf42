package forecourt

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rubiojr/fuelmap/pkg/api"
	"github.com/tkrajina/gpxgo/gpx"
)

const (
	DefaultSessionTTL    = 30 * time.Minute
	defaultCleanupFactor = 2
)

// StoreOptions configures a Store.
type StoreOptions struct {
	TTL            time.Duration
	PreferredFuels []api.FuelCode
	Scale          ScaleOptions
}

// Store keeps uploaded datasets in memory for the length of a browser session.
// Entries expire TTL after their last access; nothing is written to disk.
type Store struct {
	datasets  *cache.Cache
	views     *cache.Cache
	preferred []api.FuelCode
	scale     ScaleOptions
	log       *slog.Logger
}

// View is a dataset colored for one fuel selection.
type View struct {
	Fuel   api.FuelCode
	Points []api.StationPoint
	Scale  Scale
}

func NewStore(opts StoreOptions, logger *slog.Logger) *Store {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	preferred := opts.PreferredFuels
	if len(preferred) == 0 {
		preferred = api.DefaultPreferredFuels
	}

	return &Store{
		datasets:  cache.New(ttl, defaultCleanupFactor*ttl),
		views:     cache.New(ttl, defaultCleanupFactor*ttl),
		preferred: preferred,
		scale:     opts.Scale.normalized(),
		log:       logger,
	}
}

// PreferredFuels returns the fuel lookup order used for automatic selection.
func (s *Store) PreferredFuels() []api.FuelCode {
	return s.preferred
}

// OnEvicted registers fn to be called when a dataset expires.
func (s *Store) OnEvicted(fn func(id string)) {
	s.datasets.OnEvicted(func(id string, _ interface{}) {
		fn(id)
	})
}

// Add stores ds and returns its id.
func (s *Store) Add(ds *Dataset) string {
	id := uuid.NewString()
	s.datasets.Set(id, ds, cache.DefaultExpiration)
	s.log.Debug("Dataset stored", "id", id, "points", len(ds.Points), "skipped", ds.Skipped)
	return id
}

// Get returns the dataset with id and extends its lifetime.
func (s *Store) Get(id string) (*Dataset, error) {
	v, found := s.datasets.Get(id)
	if !found {
		return nil, ErrDatasetNotFound
	}
	ds := v.(*Dataset)
	s.datasets.Set(id, ds, cache.DefaultExpiration)
	return ds, nil
}

// Len returns the number of live datasets.
func (s *Store) Len() int {
	return s.datasets.ItemCount()
}

// View returns the dataset colored for fuel. An empty fuel selects the
// preferred fuel of every station.
func (s *Store) View(id string, fuel api.FuelCode) (*View, error) {
	ds, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s|%s", id, fuel)
	if cached, found := s.views.Get(cacheKey); found {
		s.log.Debug("Using cached data", "key", cacheKey)
		return cached.(*View), nil
	}

	points, scale := Colorize(ds.Points, fuel, s.preferred, s.scale)
	view := &View{Fuel: fuel, Points: points, Scale: scale}
	s.views.Set(cacheKey, view, cache.DefaultExpiration)
	return view, nil
}

// Nearby returns the stations of dataset id within distance meters of lat/lng,
// cheapest first. Stations without a price come last, ordered by distance.
func (s *Store) Nearby(id string, lat, lng, distance float64, fuel api.FuelCode) ([]api.StationWithDistance, error) {
	view, err := s.View(id, fuel)
	if err != nil {
		return nil, err
	}
	return NearbyPoints(view.Points, lat, lng, distance), nil
}

// NearbyPoints filters colored points by great-circle distance and sorts them
// cheapest first, then by distance.
func NearbyPoints(points []api.StationPoint, lat, lng, distance float64) []api.StationWithDistance {
	stations := make([]api.StationWithDistance, 0)
	for i := range points {
		p := &points[i]
		d := gpx.Distance2D(lat, lng, p.Latitude, p.Longitude, true)
		if d <= distance {
			stations = append(stations, api.StationWithDistance{Station: p, Distance: d})
		}
	}

	slices.SortStableFunc(stations, func(a, b api.StationWithDistance) int {
		switch {
		case a.Station.HasPrice && b.Station.HasPrice:
			if c := cmp.Compare(a.Station.Price, b.Station.Price); c != 0 {
				return c
			}
		case a.Station.HasPrice:
			return -1
		case b.Station.HasPrice:
			return 1
		}
		return cmp.Compare(a.Distance, b.Distance)
	})
	return stations
}

// Close drops every dataset.
func (s *Store) Close() {
	s.views.Flush()
	s.datasets.Flush()
}
