// Package config loads the fuelmap server configuration from an optional YAML
// file and FUELMAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rubiojr/fuelmap/internal/forecourt"
	"github.com/rubiojr/fuelmap/pkg/api"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix     = "FUELMAP"
	configPathEnv = "FUELMAP_CONFIG"
)

type Config struct {
	Addr      string          `yaml:"addr"`
	Log       LogConfig       `yaml:"log"`
	Session   SessionConfig   `yaml:"session"`
	Upload    UploadConfig    `yaml:"upload"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Map       MapConfig       `yaml:"map"`
	Scale     ScaleConfig     `yaml:"scale"`
	Fuels     FuelsConfig     `yaml:"fuels"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
}

type MapConfig struct {
	TileURL     string  `yaml:"tile_url"`
	Attribution string  `yaml:"attribution"`
	CenterLat   float64 `yaml:"center_lat"`
	CenterLng   float64 `yaml:"center_lng"`
	Zoom        int     `yaml:"zoom"`
}

type ScaleConfig struct {
	LowPercentile  float64 `yaml:"low_percentile"`
	HighPercentile float64 `yaml:"high_percentile"`
	CheapHue       float64 `yaml:"cheap_hue"`
	ExpensiveHue   float64 `yaml:"expensive_hue"`
}

type FuelsConfig struct {
	Preferred []string `yaml:"preferred"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	scale := forecourt.DefaultScaleOptions()
	preferred := make([]string, len(api.DefaultPreferredFuels))
	for i, code := range api.DefaultPreferredFuels {
		preferred[i] = string(code)
	}

	return &Config{
		Addr:      "127.0.0.1:8080",
		Log:       LogConfig{Level: "info"},
		Session:   SessionConfig{TTL: forecourt.DefaultSessionTTL},
		Upload:    UploadConfig{MaxBytes: 20 << 20},
		RateLimit: RateLimitConfig{PerMinute: 60},
		Map: MapConfig{
			TileURL:     "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
			CenterLat:   54.5,
			CenterLng:   -3.0,
			Zoom:        6,
		},
		Scale: ScaleConfig{
			LowPercentile:  scale.LowPercentile,
			HighPercentile: scale.HighPercentile,
			CheapHue:       scale.CheapHue,
			ExpensiveHue:   scale.ExpensiveHue,
		},
		Fuels: FuelsConfig{Preferred: preferred},
	}
}

// Load builds the configuration from defaults, the YAML file at path (or
// $FUELMAP_CONFIG when path is empty) and FUELMAP_* environment variables,
// in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := populateFromEnv(reflect.ValueOf(cfg).Elem(), envPrefix); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(path string, target *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file: %w", err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("config: decode yaml: %w", err)
	}

	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("upload.max_bytes must be positive"))
	}
	if c.RateLimit.PerMinute <= 0 {
		errs = append(errs, errors.New("rate_limit.per_minute must be positive"))
	}
	if c.Scale.LowPercentile < 0 || c.Scale.LowPercentile > 1 || c.Scale.HighPercentile < 0 || c.Scale.HighPercentile > 1 {
		errs = append(errs, errors.New("scale percentiles must be within [0, 1]"))
	}
	if c.Scale.LowPercentile >= c.Scale.HighPercentile {
		errs = append(errs, errors.New("scale.low_percentile must be below scale.high_percentile"))
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 19 {
		errs = append(errs, errors.New("map.zoom must be within [0, 19]"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// ScaleOptions converts the scale section for the forecourt package.
func (c *Config) ScaleOptions() forecourt.ScaleOptions {
	return forecourt.ScaleOptions{
		LowPercentile:  c.Scale.LowPercentile,
		HighPercentile: c.Scale.HighPercentile,
		CheapHue:       c.Scale.CheapHue,
		ExpensiveHue:   c.Scale.ExpensiveHue,
	}
}

// PreferredFuels returns the configured lookup order, skipping blanks.
func (c *Config) PreferredFuels() []api.FuelCode {
	fuels := make([]api.FuelCode, 0, len(c.Fuels.Preferred))
	for _, f := range c.Fuels.Preferred {
		if code := api.ParseFuelCode(f); code != "" {
			fuels = append(fuels, code)
		}
	}
	return fuels
}

// StoreOptions returns the session store settings.
func (c *Config) StoreOptions() forecourt.StoreOptions {
	return forecourt.StoreOptions{
		TTL:            c.Session.TTL,
		PreferredFuels: c.PreferredFuels(),
		Scale:          c.ScaleOptions(),
	}
}

var durationType = reflect.TypeOf(time.Duration(0))

// populateFromEnv overrides fields from variables named after the yaml tags,
// e.g. FUELMAP_SESSION_TTL or FUELMAP_MAP_TILE_URL.
func populateFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fieldVal := v.Field(i)
		fieldType := t.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		name := strings.Split(fieldType.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = fieldType.Name
		}
		envKey := normalizeKey(prefix, name)

		if fieldVal.Kind() == reflect.Struct {
			if err := populateFromEnv(fieldVal, envKey); err != nil {
				return err
			}
			continue
		}

		if val, ok := os.LookupEnv(envKey); ok {
			if err := assign(fieldVal, val); err != nil {
				return fmt.Errorf("config: parse %s: %w", envKey, err)
			}
		}
	}
	return nil
}

func normalizeKey(prefix, key string) string {
	key = strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}

func assign(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(parsed)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(parsed)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type().String())
		}
		parts := strings.Split(value, ",")
		slice := reflect.MakeSlice(field.Type(), 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				slice = reflect.Append(slice, reflect.ValueOf(p))
			}
		}
		field.Set(slice)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type().String())
	}
	return nil
}
