// Package api provides the types shared by the fuelmap server and its clients,
// and a small HTTP client to upload forecourt CSV exports and query the
// resulting datasets.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultBaseURL = "http://127.0.0.1:8080"
)

// ErrNotFound is returned when the server no longer holds a dataset.
var ErrNotFound = errors.New("dataset not found")

// Client talks to a running fuelmap server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Client for the server at baseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// MapURL returns the browser URL of the map page.
func (c *Client) MapURL() string {
	return c.baseURL + "/"
}

// Upload sends a CSV export to the server and returns the parsed dataset.
func (c *Client) Upload(ctx context.Context, filename string, csv io.Reader, fuel FuelCode) (*DatasetResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("error creating form file: %w", err)
	}
	if _, err := io.Copy(part, csv); err != nil {
		return nil, fmt.Errorf("error copying csv: %w", err)
	}
	if fuel != "" {
		if err := mw.WriteField("fuel", string(fuel)); err != nil {
			return nil, fmt.Errorf("error writing fuel field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("error closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/datasets", &body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var dataset DatasetResponse
	if err := c.do(req, http.StatusCreated, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

// Dataset fetches a previously uploaded dataset colored for fuel.
func (c *Client) Dataset(ctx context.Context, id string, fuel FuelCode) (*DatasetResponse, error) {
	q := url.Values{}
	if fuel != "" {
		q.Set("fuel", string(fuel))
	}
	u := fmt.Sprintf("%s/api/datasets/%s?%s", c.baseURL, url.PathEscape(id), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	var dataset DatasetResponse
	if err := c.do(req, http.StatusOK, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

// Nearby returns the stations of a dataset within radiusKm of the given coordinates.
func (c *Client) Nearby(ctx context.Context, id string, lat, lng, radiusKm float64, fuel FuelCode) (*NearbyResponse, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("radius", strconv.FormatFloat(radiusKm, 'f', -1, 64))
	if fuel != "" {
		q.Set("fuel", string(fuel))
	}
	u := fmt.Sprintf("%s/api/datasets/%s/nearby?%s", c.baseURL, url.PathEscape(id), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	var nearby NearbyResponse
	if err := c.do(req, http.StatusOK, &nearby); err != nil {
		return nil, err
	}
	return &nearby, nil
}

func (c *Client) do(req *http.Request, want int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != want {
		if resp.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		var apiErr ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error unmarshaling JSON: %w", err)
	}
	return nil
}
