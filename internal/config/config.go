package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"userdash/internal/domain"
	"userdash/internal/eventbus"
)

// Environment overrides, applied after the config file
const (
	EnvAPIURL   = "USERDASH_API_URL"
	EnvSeed     = "USERDASH_SEED"
	EnvLogLevel = "USERDASH_LOG_LEVEL"
	EnvTheme    = "USERDASH_THEME"
)

var validate = validator.New()

// Config represents the application configuration
type Config struct {
	Version int          `toml:"version"`
	API     APIConfig    `toml:"api"`
	UI      UIConfig     `toml:"ui"`
	Auth    AuthConfig   `toml:"auth"`
	Log     LogConfig    `toml:"log"`
	Server  ServerConfig `toml:"server"`
}

// APIConfig points at the random-user service
type APIConfig struct {
	BaseURL string   `toml:"base_url" validate:"required,url"`
	Seed    string   `toml:"seed"`
	Timeout Duration `toml:"timeout"`
}

// UIConfig represents UI-related configuration
type UIConfig struct {
	Theme           string   `toml:"theme" validate:"oneof=light dark"`
	PageSize        int      `toml:"page_size" validate:"gt=0"`
	PageSizeOptions []int    `toml:"page_size_options" validate:"min=1,dive,gt=0"`
	Debounce        Duration `toml:"debounce"`
}

// AuthConfig locates the mock session
type AuthConfig struct {
	SessionFile string `toml:"session_file"`
	SigningKey  string `toml:"signing_key"`
}

// LogConfig controls the log file
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// ServerConfig controls `userdash serve`
type ServerConfig struct {
	Addr      string `toml:"addr" validate:"required"`
	RateLimit int    `toml:"rate_limit" validate:"gte=0"`
}

// Duration is a time.Duration written as "500ms" in TOML
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ThemeMode returns the configured theme, falling back to light
func (c *Config) ThemeMode() domain.ThemeMode {
	if mode, ok := domain.ParseThemeMode(c.UI.Theme); ok {
		return mode
	}
	return domain.ThemeLight
}

// Validate checks the configuration after defaults and overrides are applied
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
	SetBus(bus eventbus.EventBus)
}

// configService is the concrete implementation
type configService struct {
	mu       sync.Mutex
	bus      eventbus.EventBus
	filePath string
	env      Overrides // from the last load, kept out of saved files
}

// DefaultDir returns the userdash directory under the user's config dir
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "userdash")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

// NewConfigService creates a config service for path, or the default location when empty
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string { return cs.filePath }

// SetBus attaches a bus after loading, for callers that build the bus from the loaded config
func (cs *configService) SetBus(bus eventbus.EventBus) {
	cs.bus = bus
}

// Load reads the config file, falling back to defaults when it does not exist,
// then applies environment overrides.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = cs.finish(DefaultConfig())
	}
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save writes the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigChangedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Missing keys keep
// their defaults.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cs.finish(cfg)
}

// finish overlays the environment, then normalizes and validates. The
// overridden file values are remembered for the next save.
func (cs *configService) finish(cfg *Config) (*Config, error) {
	env := ApplyEnv(cfg)
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cs.mu.Lock()
	cs.env = env
	cs.mu.Unlock()
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return err
	}

	cs.mu.Lock()
	env := cs.env
	cs.mu.Unlock()
	config = env.Restore(config)

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

// Override is one config field replaced by an environment variable
type Override struct {
	File string // value from the file or the defaults
	Env  string // value the environment put in its place
}

// Overrides maps an environment variable to the field value it replaced
type Overrides map[string]Override

// ApplyEnv overlays environment variables, reading a .env file first if
// present, and returns what it replaced
func ApplyEnv(cfg *Config) Overrides {
	_ = godotenv.Load()

	applied := Overrides{}
	for _, key := range []string{EnvAPIURL, EnvSeed, EnvLogLevel, EnvTheme} {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		field := cfg.envField(key)
		if key == EnvLogLevel || key == EnvTheme {
			value = strings.ToLower(value)
		}
		applied[key] = Override{File: *field, Env: value}
		*field = value
	}
	return applied
}

// Restore returns a copy of cfg with every field still holding its
// environment value put back to the file value. Fields changed since the
// overlay keep their new value.
func (o Overrides) Restore(cfg *Config) *Config {
	if len(o) == 0 {
		return cfg
	}
	out := *cfg
	for key, ov := range o {
		if field := out.envField(key); *field == ov.Env {
			*field = ov.File
		}
	}
	return &out
}

func (c *Config) envField(key string) *string {
	switch key {
	case EnvAPIURL:
		return &c.API.BaseURL
	case EnvSeed:
		return &c.API.Seed
	case EnvLogLevel:
		return &c.Log.Level
	case EnvTheme:
		return &c.UI.Theme
	default:
		panic("config: no field for " + key)
	}
}

// normalize makes sure the page size is one of the offered options
func (c *Config) normalize() {
	opts := slices.Clone(c.UI.PageSizeOptions)
	slices.Sort(opts)
	c.UI.PageSizeOptions = slices.Compact(opts)
	if c.UI.PageSize > 0 && len(c.UI.PageSizeOptions) > 0 && !slices.Contains(c.UI.PageSizeOptions, c.UI.PageSize) {
		c.UI.PageSizeOptions = append(c.UI.PageSizeOptions, c.UI.PageSize)
		slices.Sort(c.UI.PageSizeOptions)
	}
	if c.UI.Debounce < 0 {
		c.UI.Debounce = 0
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dir := DefaultDir()
	return &Config{
		Version: 1,
		API: APIConfig{
			BaseURL: "https://randomuser.me/api/",
			Seed:    "user-management",
			Timeout: Duration(10 * time.Second),
		},
		UI: UIConfig{
			Theme:           string(domain.ThemeLight),
			PageSize:        10,
			PageSizeOptions: []int{5, 10, 25, 50},
			Debounce:        Duration(500 * time.Millisecond),
		},
		Auth: AuthConfig{
			SessionFile: filepath.Join(dir, "session.toml"),
			SigningKey:  "userdash-mock-signing-key",
		},
		Log: LogConfig{
			File:  filepath.Join(dir, "userdash.log"),
			Level: "info",
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8080",
			RateLimit: 100,
		},
	}
}
