package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mini-rodalies-3d/stopboard/internal/errors"
)

// Source kinds
const (
	KindTfL    = "tfl"
	KindGTFSRT = "gtfsrt"
)

// Render modes
const (
	ModeGrouped  = "grouped"
	ModeArrivals = "arrivals"
)

// Config holds all configuration for the stop board. It is loaded once and
// never modified afterwards.
type Config struct {
	Sources []Source      `yaml:"sources" validate:"required,min=1,dive"`
	API     APIConfig     `yaml:"api"`
	GTFSRT  GTFSRTConfig  `yaml:"gtfsrt"`
	Display DisplayConfig `yaml:"display"`

	// Poll cycle timing
	PollIntervalSeconds int `yaml:"poll_interval_seconds" validate:"gte=1"`
	// ErrorDisplaySeconds of 0 means "same as the poll interval"
	ErrorDisplaySeconds int `yaml:"error_display_seconds" validate:"gte=0"`
	BlinkIntervalMS     int `yaml:"blink_interval_ms" validate:"gte=10"`

	Log LogConfig `yaml:"log"`
}

// Source is one monitored stop
type Source struct {
	Kind string `yaml:"kind" validate:"required,oneof=tfl gtfsrt"`
	ID   string `yaml:"id" validate:"required"`
}

// APIConfig holds the TfL API endpoint and credentials
type APIConfig struct {
	BaseURL        string `yaml:"base_url" validate:"required,url"`
	AppKey         string `yaml:"app_key"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=1"`
}

// GTFSRTConfig holds the GTFS-Realtime feed used by gtfsrt sources
type GTFSRTConfig struct {
	TripUpdatesURL string `yaml:"trip_updates_url" validate:"omitempty,url"`
	StaticGTFSPath string `yaml:"static_gtfs_path" validate:"required_with=StaticGTFSURL"`
	// StaticGTFSURL, when set, is downloaded to StaticGTFSPath at startup
	// if the local copy is older than StaticRefreshDays
	StaticGTFSURL     string `yaml:"static_gtfs_url" validate:"omitempty,url"`
	StaticRefreshDays int    `yaml:"static_refresh_days" validate:"gte=1"`
}

// DisplayConfig describes the character display and how cells are arranged
type DisplayConfig struct {
	Rows        int      `yaml:"rows" validate:"gte=1"`
	Columns     int      `yaml:"columns" validate:"gte=1"`
	GridColumns int      `yaml:"grid_columns" validate:"gte=1"`
	ColumnWidth int      `yaml:"column_width" validate:"gte=0"`
	Mode        string   `yaml:"mode" validate:"oneof=grouped arrivals"`
	LineOrder   []string `yaml:"line_order"`
	Terminal    bool     `yaml:"terminal"`
}

// LogConfig controls log output
type LogConfig struct {
	JSON  bool   `yaml:"json"`
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the configuration of a 16x2 LCD board
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://api.tfl.gov.uk",
			UserAgent:      "stopboard/1.0",
			TimeoutSeconds: 15,
		},
		GTFSRT: GTFSRTConfig{
			StaticRefreshDays: 7,
		},
		Display: DisplayConfig{
			Rows:        2,
			Columns:     16,
			GridColumns: 2,
			Mode:        ModeGrouped,
		},
		PollIntervalSeconds: 30,
		BlinkIntervalMS:     200,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides, fills derived values, and validates the result.
func Load(path string) (*Config, error) {
	// A missing .env is normal
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "parsing config %s", path), errors.ErrInvalidConfig)
		}
	}

	applyEnv(cfg)

	// Derived values
	if cfg.Display.ColumnWidth == 0 && cfg.Display.GridColumns > 0 {
		cfg.Display.ColumnWidth = cfg.Display.Columns / cfg.Display.GridColumns
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and the rules tags cannot express
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return errors.Mark(errors.Wrap(err, "validating config"), errors.ErrInvalidConfig)
	}

	if c.Display.ColumnWidth < 1 {
		return errors.Mark(errors.Newf("column width resolves to %d", c.Display.ColumnWidth), errors.ErrInvalidConfig)
	}

	for _, s := range c.Sources {
		if s.Kind == KindGTFSRT && c.GTFSRT.TripUpdatesURL == "" {
			return errors.Mark(
				errors.Newf("source %s: gtfsrt.trip_updates_url is required for gtfsrt sources", s.ID),
				errors.ErrInvalidConfig)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.API.AppKey = getEnv("TFL_APP_KEY", cfg.API.AppKey)
	cfg.API.UserAgent = getEnv("STOPBOARD_USER_AGENT", cfg.API.UserAgent)
	cfg.PollIntervalSeconds = getEnvInt("POLL_INTERVAL", cfg.PollIntervalSeconds)
	cfg.ErrorDisplaySeconds = getEnvInt("ERROR_DISPLAY_SECONDS", cfg.ErrorDisplaySeconds)

	// STOP_IDS replaces every TfL source, keeping other kinds
	if ids := getEnv("STOP_IDS", ""); ids != "" {
		var sources []Source
		for _, s := range cfg.Sources {
			if s.Kind != KindTfL {
				sources = append(sources, s)
			}
		}
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				sources = append(sources, Source{Kind: KindTfL, ID: id})
			}
		}
		cfg.Sources = sources
	}
}

// PollInterval is the idle time between cycles
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// ErrorDisplay is how long a fetch error stays on screen
func (c *Config) ErrorDisplay() time.Duration {
	if c.ErrorDisplaySeconds == 0 {
		return c.PollInterval()
	}
	return time.Duration(c.ErrorDisplaySeconds) * time.Second
}

// BlinkInterval is the indicator toggle period while an error is shown
func (c *Config) BlinkInterval() time.Duration {
	return time.Duration(c.BlinkIntervalMS) * time.Millisecond
}

// RequestTimeout bounds a single source request
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
