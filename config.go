package visitordash

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/eringen/visitordash/aggregate"
	"github.com/eringen/visitordash/dashboard"
	"github.com/eringen/visitordash/dataset"
)

// Config holds all configuration for a visitordash server.
type Config struct {
	Addr     string   // Listen address (default ":3000")
	Env      string   // "development" logs to the console, anything else logs JSON
	SiteName string   // Page title (default "Visitor Dashboard")
	Dataset  []string // JSON, CSV or SQLite sources, concatenated in order

	SessionSecret string // Session encryption secret; random per process when empty
	CookieSecure  bool   // Set true for HTTPS

	CacheTTL       time.Duration // Summary cache TTL (default 5m, 0 disables)
	ReloadInterval time.Duration // Dataset reload period (default 0, never)
	RateLimit      int           // API requests per client per RateWindow (default 120)
	RateWindow     time.Duration // default 1m

	ApexChartsURL string // ApexCharts bundle
	DefaultStart  string // Initial selection start, YYYY-MM-DD
	DefaultEnd    string // Initial selection end, YYYY-MM-DD
	MaxRangeDays  int    // Longest selectable range in days (default 1096)
}

const defaultApexChartsURL = "https://cdn.jsdelivr.net/npm/apexcharts@3.54.0/dist/apexcharts.min.js"

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Env == "" {
		c.Env = "development"
	}
	if c.SiteName == "" {
		c.SiteName = "Visitor Dashboard"
	}
	if c.ApexChartsURL == "" {
		c.ApexChartsURL = defaultApexChartsURL
	}
	if c.DefaultStart == "" {
		c.DefaultStart = "2015-07-01"
	}
	if c.DefaultEnd == "" {
		c.DefaultEnd = "2015-07-09"
	}
	if c.RateWindow == 0 {
		c.RateWindow = time.Minute
	}
	if c.MaxRangeDays == 0 {
		c.MaxRangeDays = dashboard.DefaultMaxRangeDays
	}
}

// DefaultInterval parses the configured initial selection.
func (c Config) DefaultInterval() (aggregate.DateInterval, error) {
	iv, err := aggregate.ParseInterval(c.DefaultStart, c.DefaultEnd)
	if err != nil {
		return aggregate.DateInterval{}, fmt.Errorf("default interval: %w", err)
	}
	return iv, nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate checks the configuration for values the server cannot run with.
// requireDataset is false when records are injected with WithRecords.
func (c Config) Validate(requireDataset bool) error {
	var errs []error
	iv, err := c.DefaultInterval()
	if err != nil {
		errs = append(errs, err)
	} else if iv.Inverted() {
		errs = append(errs, fmt.Errorf("default interval: start %s is after end %s", c.DefaultStart, c.DefaultEnd))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("cache_ttl must not be negative"))
	}
	if c.ReloadInterval < 0 {
		errs = append(errs, errors.New("reload_interval must not be negative"))
	}
	if c.RateWindow < 0 {
		errs = append(errs, errors.New("rate_window must not be negative"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate_limit must not be negative"))
	}
	if c.MaxRangeDays < 0 {
		errs = append(errs, errors.New("max_range_days must not be negative"))
	}
	if requireDataset && len(c.Dataset) == 0 {
		errs = append(errs, errors.New("at least one dataset path is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("visitordash: invalid config: %w", err)
	}
	return nil
}

// LoadConfig reads configuration from VISITORDASH_* environment variables, an
// optional .env file and an optional visitordash.yaml.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("VISITORDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName("visitordash")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/visitordash")

	v.SetDefault("addr", ":3000")
	v.SetDefault("env", "development")
	v.SetDefault("site_name", "Visitor Dashboard")
	v.SetDefault("dataset", "data/bookings.json")
	v.SetDefault("session_secret", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("cache_ttl", "5m")
	v.SetDefault("reload_interval", "0")
	v.SetDefault("rate_limit", 120)
	v.SetDefault("rate_window", "1m")
	v.SetDefault("apexcharts_url", defaultApexChartsURL)
	v.SetDefault("default_start", "2015-07-01")
	v.SetDefault("default_end", "2015-07-09")
	v.SetDefault("max_range_days", dashboard.DefaultMaxRangeDays)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	durations := map[string]time.Duration{}
	for _, key := range []string{"cache_ttl", "reload_interval", "rate_window"} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		durations[key] = d
	}

	cfg := Config{
		Addr:           v.GetString("addr"),
		Env:            strings.ToLower(v.GetString("env")),
		SiteName:       v.GetString("site_name"),
		Dataset:        splitList(v.GetString("dataset")),
		SessionSecret:  v.GetString("session_secret"),
		CookieSecure:   v.GetBool("cookie_secure"),
		CacheTTL:       durations["cache_ttl"],
		ReloadInterval: durations["reload_interval"],
		RateLimit:      v.GetInt("rate_limit"),
		RateWindow:     durations["rate_window"],
		ApexChartsURL:  v.GetString("apexcharts_url"),
		DefaultStart:   v.GetString("default_start"),
		DefaultEnd:     v.GetString("default_end"),
		MaxRangeDays:   v.GetInt("max_range_days"),
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the application logger (default: NewLogger(cfg.Env, os.Stderr)).
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithRecords seeds the dataset with records instead of loading Config.Dataset.
func WithRecords(records []dataset.BookingRecord) Option {
	return func(a *App) {
		a.seed = records
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the dashboard routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir serves an additional static directory under /static.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
