package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"coursedeck/internal/eventbus"
)

// FileName is the config file name inside the user config directory
const FileName = "coursedeck.toml"

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	API     APISettings     `toml:"api"`
	Search  SearchSettings  `toml:"search"`
	Cache   CacheSettings   `toml:"cache"`
	UI      UISettings      `toml:"ui"`
	Catalog CatalogSettings `toml:"catalog"`
	Session SessionSettings `toml:"session"`
	Log     LogSettings     `toml:"log"`
	Metrics MetricsSettings `toml:"metrics"`
}

// APISettings describes the remote catalog
type APISettings struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RetryMax       int    `toml:"retry_max"`
	PageSize       int    `toml:"page_size"`
}

// Timeout returns the per-attempt request timeout
func (a APISettings) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// SearchSettings controls free-text search
type SearchSettings struct {
	DebounceMS int `toml:"debounce_ms"`
}

// Debounce returns the quiescence window for typed search text
func (s SearchSettings) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// CacheSettings bounds the client-side page cache. Size 0 disables it.
type CacheSettings struct {
	Size       int `toml:"size"`
	TTLSeconds int `toml:"ttl_seconds"`
}

// TTL returns how long a cached page stays fresh
func (c CacheSettings) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowPrices   bool   `toml:"show_prices"`
	ShowStudents bool   `toml:"show_students"`
	LinkBase     string `toml:"link_base"`
}

// CatalogSettings lists the facet options offered for free-form facets
type CatalogSettings struct {
	Categories []string `toml:"categories"`
	Languages  []string `toml:"languages"`
}

// SessionSettings is state carried between runs
type SessionSettings struct {
	Location string `toml:"location"`
}

// LogSettings configures the log file
type LogSettings struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsSettings configures the optional Prometheus endpoint. An empty Addr
// disables it.
type MetricsSettings struct {
	Addr string `toml:"addr"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service backed by the user config directory
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return NewConfigServiceAt(filepath.Join(configDir, "coursedeck", FileName))
}

// NewConfigServiceAt creates a config service backed by path
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// WithBus attaches an event bus to svc so saves are announced
func WithBus(svc ConfigService, bus eventbus.EventBus) ConfigService {
	if cs, ok := svc.(*configService); ok {
		cs.bus = bus
	}
	return svc
}

// Path returns the file a service reads and writes, if it has one
func Path(svc ConfigService) string {
	if cs, ok := svc.(*configService); ok {
		return cs.filePath
	}
	return ""
}

// Load loads the configuration from file. A missing file yields the defaults.
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APISettings{
			BaseURL:        "http://localhost:8080/api",
			TimeoutSeconds: 15,
			RetryMax:       2,
			PageSize:       12,
		},
		Search: SearchSettings{DebounceMS: 350},
		Cache:  CacheSettings{Size: 64, TTLSeconds: 60},
		UI: UISettings{
			ShowPrices:   true,
			ShowStudents: true,
		},
		Catalog: CatalogSettings{
			Categories: []string{
				"Programming", "Data Science", "Design", "Business",
				"Marketing", "Photography", "Music", "Personal Development",
			},
			Languages: []string{"English", "Spanish", "French", "German", "Portuguese", "Japanese"},
		},
		Log: LogSettings{Level: "info", File: "coursedeck.log"},
	}
}

// Validate rejects settings the client cannot start with
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.API.BaseURL)
	switch {
	case c.API.BaseURL == "":
		errs = append(errs, errors.New("api.base_url is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("api.base_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https", u.Host == "":
		errs = append(errs, fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL))
	}
	if c.API.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout_seconds must be positive, got %d", c.API.TimeoutSeconds))
	}
	if c.API.RetryMax < 0 {
		errs = append(errs, fmt.Errorf("api.retry_max must not be negative, got %d", c.API.RetryMax))
	}
	if c.API.PageSize < 1 || c.API.PageSize > 100 {
		errs = append(errs, fmt.Errorf("api.page_size must be between 1 and 100, got %d", c.API.PageSize))
	}
	if c.Search.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("search.debounce_ms must not be negative, got %d", c.Search.DebounceMS))
	}
	if c.Cache.Size < 0 || c.Cache.TTLSeconds < 0 {
		errs = append(errs, errors.New("cache.size and cache.ttl_seconds must not be negative"))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}

// LocationSaver writes the session location back to the config file. It
// satisfies location.Persister.
type LocationSaver struct {
	mu  sync.Mutex
	svc ConfigService
	cfg *Config
}

// NewLocationSaver persists locations into cfg through svc
func NewLocationSaver(svc ConfigService, cfg *Config) *LocationSaver {
	return &LocationSaver{svc: svc, cfg: cfg}
}

// SaveLocation stores raw as the session location. The file is re-read so
// that run-time overrides applied to cfg never reach disk.
func (s *LocationSaver) SaveLocation(raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Session.Location == raw {
		return nil
	}
	onDisk, err := s.svc.Load()
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	onDisk.Session.Location = raw
	if err := s.svc.Save(onDisk); err != nil {
		return fmt.Errorf("failed to save session location: %w", err)
	}
	s.cfg.Session.Location = raw
	return nil
}
