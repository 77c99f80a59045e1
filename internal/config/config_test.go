package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const minimalUsers = `
users:
  - id: u1
    name: Alice
    initial: A
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalUsers))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.App.Port)
	assert.Equal(t, "en", cfg.Catalog.TMDB.Language)
	assert.Equal(t, "w342", cfg.Catalog.TMDB.PosterSize)
	assert.Equal(t, 500, cfg.Search.DebounceMs)
	assert.Equal(t, 2, cfg.Search.MinQueryLength)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce())
	assert.Equal(t, 10*time.Minute, cfg.IdleTimeout())
	assert.Equal(t, "u1", cfg.CurrentUser, "first user is the acting user by default")
}

func TestLoadFromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
app:
  port: 9000
catalog:
  tmdb:
    api_key: file-key
  rawg:
    api_key: rawg-key
search:
  debounce_ms: 250
  session_idle_timeout: 5m
current_user: u2
users:
  - id: u1
    name: Alice
    initial: A
  - id: u2
    name: Bob
    initial: B
`))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, "file-key", cfg.Catalog.TMDB.APIKey)
	assert.Equal(t, "rawg-key", cfg.Catalog.RAWG.APIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce())
	assert.Equal(t, 5*time.Minute, cfg.IdleTimeout())
	assert.Equal(t, "u2", cfg.CurrentUser)
	assert.Len(t, cfg.Users, 2)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "env-key")
	t.Setenv("TMDB_API_TOKEN", "env-token")
	t.Setenv("RAWG_API_KEY", "env-rawg")

	cfg, err := Load(writeConfig(t, `
catalog:
  tmdb:
    api_key: file-key
`+minimalUsers))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Catalog.TMDB.APIKey)
	assert.Equal(t, "env-token", cfg.Catalog.TMDB.APIToken)
	assert.Equal(t, "env-rawg", cfg.Catalog.RAWG.APIKey)
}

func TestLoadRequiresUsers(t *testing.T) {
	_, err := Load(writeConfig(t, "app:\n  port: 9000\n"))
	assert.Error(t, err)
}

func TestBadIdleTimeoutFallsBack(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
search:
  session_idle_timeout: nonsense
`+minimalUsers))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.IdleTimeout())
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := writeConfig(t, minimalUsers)

	reloaded := make(chan *Config, 1)
	stop, err := Watch(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, nil)
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: 9999
`+minimalUsers), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 9999, cfg.App.Port)
	case <-time.After(2 * time.Second):
		t.Fatal("config change was not observed")
	}
}
