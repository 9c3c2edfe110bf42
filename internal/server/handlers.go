package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rubiojr/fuelmap/internal/forecourt"
	"github.com/rubiojr/fuelmap/internal/metrics"
	"github.com/rubiojr/fuelmap/internal/server/templates"
	"github.com/rubiojr/fuelmap/internal/server/translations"
	"github.com/rubiojr/fuelmap/pkg/api"
)

const (
	DefaultRadius = 5.0  // km
	MaxRadius     = 50.0 // km

	badInputMessage = "file does not look like a fuel-station CSV export"
	maxFuelField    = 32
)

var errBadUpload = errors.New("malformed upload")

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	lang := translations.GetLanguageFromQuery(r.URL.Query().Get("lang"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Home(translations.GetTranslations(lang), s.mapSettings()).Render(r.Context(), w); err != nil {
		s.log.Error("Error rendering home page", "error", err)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxBytes)

	ds, fuel, err := readUpload(r)
	if err != nil {
		s.uploadError(w, err)
		return
	}

	id := s.store.Add(ds)
	metrics.UploadsTotal.WithLabelValues(metrics.ResultOK).Inc()
	metrics.RecordRows(len(ds.Points), ds.Skipped)
	metrics.DatasetsActive.Set(float64(s.store.Len()))

	view, err := s.store.View(id, fuel)
	if err != nil {
		s.log.Error("Error building dataset view", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "error building dataset view")
		return
	}

	s.log.Info("Dataset uploaded", "id", id, "rows", ds.Rows, "skipped", ds.Skipped, "fuel", fuel)
	s.writeJSON(w, http.StatusCreated, s.datasetResponse(id, ds, view))
}

// readUpload accepts either a multipart form with a "file" field and an
// optional "fuel" field, or the raw CSV as the request body with the fuel in
// the query string.
func readUpload(r *http.Request) (*forecourt.Dataset, api.FuelCode, error) {
	fuel := api.ParseFuelCode(r.URL.Query().Get("fuel"))

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		ds, err := forecourt.Parse(r.Body)
		return ds, fuel, err
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", errBadUpload, err)
	}

	var ds *forecourt.Dataset
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", errBadUpload, err)
		}

		switch part.FormName() {
		case "file":
			ds, err = forecourt.Parse(part)
			if err != nil {
				part.Close()
				return nil, "", err
			}
		case "fuel":
			v, err := io.ReadAll(io.LimitReader(part, maxFuelField))
			if err != nil {
				part.Close()
				return nil, "", fmt.Errorf("%w: %w", errBadUpload, err)
			}
			fuel = api.ParseFuelCode(string(v))
		}
		part.Close()
	}

	if ds == nil {
		return nil, "", fmt.Errorf("%w: missing file field", errBadUpload)
	}
	return ds, fuel, nil
}

func (s *Server) uploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		metrics.UploadsTotal.WithLabelValues(metrics.ResultTooLarge).Inc()
		s.log.Info("Rejected upload", "error", err)
		s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file larger than %d bytes", tooLarge.Limit))
	case forecourt.IsBadInput(err), errors.Is(err, errBadUpload):
		metrics.UploadsTotal.WithLabelValues(metrics.ResultBadInput).Inc()
		s.log.Info("Rejected upload", "error", err)
		s.writeError(w, http.StatusBadRequest, badInputMessage)
	default:
		metrics.UploadsTotal.WithLabelValues(metrics.ResultError).Inc()
		s.log.Error("Error reading upload", "error", err)
		s.writeError(w, http.StatusInternalServerError, "error reading upload")
	}
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	fuel := api.ParseFuelCode(r.URL.Query().Get("fuel"))

	ds, err := s.store.Get(id)
	if err != nil {
		s.notFound(w, err)
		return
	}
	view, err := s.store.View(id, fuel)
	if err != nil {
		s.notFound(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.datasetResponse(id, ds, view))
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid latitude value")
		return
	}
	lng, err := strconv.ParseFloat(query.Get("lng"), 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid longitude value")
		return
	}
	if !forecourt.ValidCoordinates(lat, lng) {
		s.writeError(w, http.StatusBadRequest, "coordinates out of range")
		return
	}

	radius := DefaultRadius
	if radiusStr := query.Get("radius"); radiusStr != "" {
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil || math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
			radius = DefaultRadius
		}
	}
	radius = min(radius, MaxRadius)

	stations, err := s.store.Nearby(id, lat, lng, radius*1000, api.ParseFuelCode(query.Get("fuel")))
	if err != nil {
		s.notFound(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.NearbyResponse{
		Latitude:  lat,
		Longitude: lng,
		RadiusKm:  radius,
		Stations:  stations,
	})
}

func (s *Server) notFound(w http.ResponseWriter, err error) {
	if errors.Is(err, forecourt.ErrDatasetNotFound) {
		s.writeError(w, http.StatusNotFound, "dataset not found or expired")
		return
	}
	s.log.Error("Error loading dataset", "error", err)
	s.writeError(w, http.StatusInternalServerError, "error loading dataset")
}

func (s *Server) datasetResponse(id string, ds *forecourt.Dataset, view *forecourt.View) api.DatasetResponse {
	points := view.Points
	if points == nil {
		points = []api.StationPoint{}
	}
	fuels := ds.Fuels
	if fuels == nil {
		fuels = []api.FuelCode{}
	}

	return api.DatasetResponse{
		ID:           id,
		Fuel:         view.Fuel,
		Fuels:        fuels,
		Rows:         ds.Rows,
		Skipped:      ds.Skipped,
		Points:       points,
		Scale:        view.Scale.Response(),
		ExpiresAfter: s.cfg.Session.TTL.String(),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.log.Error("Error encoding response", "error", err)
		http.Error(w, "error encoding response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.log.Debug("Error writing response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: msg})
}
