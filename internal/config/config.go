package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dbobbgit/room-of-requirement/internal/models"
)

type Config struct {
	App struct {
		Port       int    `yaml:"port"`
		DataPath   string `yaml:"data_path"`
		UIPassword string `yaml:"ui_password"`
		Debug      bool   `yaml:"debug"`
	} `yaml:"app"`

	Catalog struct {
		TMDB struct {
			// Either an api_key (v3 query auth) or an api_token (v4 bearer
			// auth); the token wins when both are set.
			APIKey     string `yaml:"api_key"`
			APIToken   string `yaml:"api_token"`
			Language   string `yaml:"language"`
			PosterSize string `yaml:"poster_size"`
			// BaseURL/ImageBaseURL override the real API hosts, for tests
			// and the fake catalog tool.
			BaseURL      string `yaml:"base_url"`
			ImageBaseURL string `yaml:"image_base_url"`
		} `yaml:"tmdb"`
		RAWG struct {
			APIKey  string `yaml:"api_key"`
			BaseURL string `yaml:"base_url"`
		} `yaml:"rawg"`
	} `yaml:"catalog"`

	Search struct {
		DebounceMs         int    `yaml:"debounce_ms"`
		MinQueryLength     int    `yaml:"min_query_length"`
		SessionIdleTimeout string `yaml:"session_idle_timeout"`
	} `yaml:"search"`

	Notifications struct {
		Pushbullet struct {
			Enabled bool   `yaml:"enabled"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"pushbullet"`
	} `yaml:"notifications"`

	// Users of the shared collection. The first entry is the current user
	// unless current_user points at another id.
	Users       []models.User `yaml:"users"`
	CurrentUser string        `yaml:"current_user"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	loadFromEnv(cfg)

	if len(cfg.Users) == 0 {
		return nil, fmt.Errorf("at least one user must be configured")
	}
	if cfg.CurrentUser == "" {
		cfg.CurrentUser = cfg.Users[0].ID
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.App.Port = 8081
	cfg.App.DataPath = "./data"
	cfg.App.UIPassword = "password"
	cfg.App.Debug = false

	cfg.Catalog.TMDB.Language = "en"
	cfg.Catalog.TMDB.PosterSize = "w342"

	cfg.Search.DebounceMs = 500
	cfg.Search.MinQueryLength = 2
	cfg.Search.SessionIdleTimeout = "10m"
}

// loadFromEnv overlays credentials from the environment, reading a .env
// file first if one is present.
func loadFromEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		cfg.Catalog.TMDB.APIKey = v
	}
	if v := os.Getenv("TMDB_API_TOKEN"); v != "" {
		cfg.Catalog.TMDB.APIToken = v
	}
	if v := os.Getenv("RAWG_API_KEY"); v != "" {
		cfg.Catalog.RAWG.APIKey = v
	}
	if v := os.Getenv("PUSHBULLET_API_KEY"); v != "" {
		cfg.Notifications.Pushbullet.APIKey = v
	}
}

// Debounce returns the search debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMs) * time.Millisecond
}

// IdleTimeout returns how long a search session may sit untouched before
// the reaper closes it.
func (c *Config) IdleTimeout() time.Duration {
	d, err := time.ParseDuration(c.Search.SessionIdleTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}
