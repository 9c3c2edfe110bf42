package main

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/muesli/gominatim"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceFromResult(t *testing.T) {
	tests := []struct {
		name    string
		result  gominatim.SearchResult
		want    place
		wantErr string
	}{
		{
			name:   "valid",
			result: gominatim.SearchResult{DisplayName: "Leeds, West Yorkshire", Lat: "53.7974185", Lon: "-1.5437941"},
			want:   place{Name: "Leeds, West Yorkshire", Lat: 53.7974185, Lng: -1.5437941},
		},
		{
			name:    "bad latitude",
			result:  gominatim.SearchResult{DisplayName: "Nowhere", Lat: "north", Lon: "-1.5"},
			wantErr: "error parsing latitude",
		},
		{
			name:    "bad longitude",
			result:  gominatim.SearchResult{DisplayName: "Nowhere", Lat: "53.8", Lon: ""},
			wantErr: "error parsing longitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := placeFromResult(tt.result)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGeocoderCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fuelmap", "geocode.cache")
	logger := slog.New(slog.DiscardHandler)

	g := newGeocoder(path, logger)
	leeds := place{Name: "Leeds", Lat: 53.7974, Lng: -1.5438}
	g.cache.Set("leeds", leeds, cache.DefaultExpiration)
	require.NoError(t, g.save())
	assert.FileExists(t, path)

	loaded := newGeocoder(path, logger)
	assert.Equal(t, 1, loaded.cache.ItemCount())

	got, err := loaded.lookup("  Leeds ")
	require.NoError(t, err)
	assert.Equal(t, leeds, got)
}

func TestGeocoderWithoutCacheFile(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	g := newGeocoder(filepath.Join(t.TempDir(), "missing.cache"), logger)
	assert.Equal(t, 0, g.cache.ItemCount())

	memoryOnly := newGeocoder("", logger)
	assert.NoError(t, memoryOnly.save())
}
