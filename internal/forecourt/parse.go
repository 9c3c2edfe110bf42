package forecourt

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rubiojr/fuelmap/pkg/api"
)

const sniffSize = 4096

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type column int

const (
	colID column = iota
	colLatitude
	colLongitude
	colName
	colBrand
	colAddress
	colPostcode
	colUpdated
)

var headerAliases = map[string]column{
	"site_id":            colID,
	"id":                 colID,
	"node_id":            colID,
	"forecourt_id":       colID,
	"latitude":           colLatitude,
	"lat":                colLatitude,
	"longitude":          colLongitude,
	"lng":                colLongitude,
	"lon":                colLongitude,
	"long":               colLongitude,
	"trading_name":       colName,
	"name":               colName,
	"site_name":          colName,
	"brand":              colBrand,
	"brand_name":         colBrand,
	"address":            colAddress,
	"address_line_1":     colAddress,
	"postcode":           colPostcode,
	"post_code":          colPostcode,
	"last_updated":       colUpdated,
	"updated_at":         colUpdated,
	"price_last_updated": colUpdated,
}

type header struct {
	columns map[column]int
	prices  map[api.FuelCode]int
	fuels   []api.FuelCode
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "-", "_")
}

// priceColumn maps a normalized header name to a fuel code. Bare names must
// be a known code; price_<code> and <code>_price accept any code.
func priceColumn(name string) (api.FuelCode, bool) {
	if code, ok := strings.CutPrefix(name, "price_"); ok && code != "" {
		return api.FuelCode(strings.ToUpper(code)), true
	}
	if code, ok := strings.CutSuffix(name, "_price"); ok && code != "" {
		return api.FuelCode(strings.ToUpper(code)), true
	}
	code := api.FuelCode(strings.ToUpper(name))
	for _, known := range api.DefaultPreferredFuels {
		if code == known {
			return code, true
		}
	}
	return "", false
}

func parseHeader(rec []string) (*header, error) {
	h := &header{
		columns: make(map[column]int),
		prices:  make(map[api.FuelCode]int),
	}
	for i, raw := range rec {
		name := normalizeHeader(raw)
		if col, ok := headerAliases[name]; ok {
			if _, seen := h.columns[col]; !seen {
				h.columns[col] = i
			}
			continue
		}
		if code, ok := priceColumn(name); ok {
			if _, seen := h.prices[code]; !seen {
				h.prices[code] = i
				h.fuels = append(h.fuels, code)
			}
		}
	}

	_, hasLat := h.columns[colLatitude]
	_, hasLng := h.columns[colLongitude]
	if !hasLat || !hasLng {
		return nil, ErrMissingColumns
	}
	return h, nil
}

// sniff peeks at the beginning of the input and rejects content that cannot be
// a delimited text export. It returns the field delimiter to use.
func sniff(br *bufio.Reader) (rune, error) {
	head, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("error reading input: %w", err)
	}
	if bytes.HasPrefix(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return 0, fmt.Errorf("error reading input: %w", err)
		}
		head = head[len(utf8BOM):]
	}
	if len(bytes.TrimSpace(head)) == 0 {
		return 0, ErrEmpty
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return 0, fmt.Errorf("%w: binary content", ErrNotCSV)
	}
	if !validUTF8Prefix(head, len(head) >= sniffSize-len(utf8BOM)) {
		return 0, fmt.Errorf("%w: invalid UTF-8", ErrNotCSV)
	}

	firstLine := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		firstLine = head[:i]
	}
	delim := ','
	best := 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := bytes.Count(firstLine, []byte(string(d))); n > best {
			delim, best = d, n
		}
	}
	if best == 0 {
		return 0, fmt.Errorf("%w: no delimiter in header", ErrNotCSV)
	}
	return delim, nil
}

// validUTF8Prefix tolerates a rune cut in half at the end of a truncated peek.
func validUTF8Prefix(b []byte, truncated bool) bool {
	if utf8.Valid(b) {
		return true
	}
	if !truncated {
		return false
	}
	for i := 1; i < utf8.UTFMax && i < len(b); i++ {
		if utf8.Valid(b[:len(b)-i]) {
			return true
		}
	}
	return false
}

// Parse reads a forecourt CSV export. Rows whose coordinates are missing or
// not finite numbers are skipped and counted in Dataset.Skipped.
func Parse(r io.Reader) (*Dataset, error) {
	br := bufio.NewReaderSize(r, sniffSize)
	delim, err := sniff(br)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	rec, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("%w: %w", ErrNotCSV, err)
	}
	h, err := parseHeader(rec)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Fuels: h.fuels}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotCSV, err)
		}
		ds.Rows++

		point, ok := h.point(rec)
		if !ok {
			ds.Skipped++
			continue
		}
		ds.Points = append(ds.Points, point)
	}

	if ds.Rows == 0 {
		return nil, ErrEmpty
	}
	return ds, nil
}

func (h *header) cell(rec []string, col column) string {
	i, ok := h.columns[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (h *header) point(rec []string) (api.StationPoint, bool) {
	lat, err := ParseLatLong(h.cell(rec, colLatitude))
	if err != nil {
		return api.StationPoint{}, false
	}
	lng, err := ParseLatLong(h.cell(rec, colLongitude))
	if err != nil {
		return api.StationPoint{}, false
	}
	if !ValidCoordinates(lat, lng) {
		return api.StationPoint{}, false
	}

	updated := h.cell(rec, colUpdated)
	p := api.StationPoint{
		ID:          h.cell(rec, colID),
		Latitude:    lat,
		Longitude:   lng,
		TradingName: h.cell(rec, colName),
		Brand:       h.cell(rec, colBrand),
		Address:     h.cell(rec, colAddress),
		Postcode:    h.cell(rec, colPostcode),
		LastUpdated: parseTimestamp(updated),
		UpdatedRaw:  updated,
		Prices:      make(map[api.FuelCode]string, len(h.fuels)),
	}
	for _, code := range h.fuels {
		i := h.prices[code]
		if i >= len(rec) {
			continue
		}
		if raw := strings.TrimSpace(rec[i]); raw != "" {
			p.Prices[code] = raw
		}
	}
	return p, true
}
