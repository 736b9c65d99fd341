package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userdash/internal/domain"
	"userdash/internal/eventbus"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIURL, EnvSeed, EnvLogLevel, EnvTheme} {
		t.Setenv(key, "")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	svc := NewConfigService(filepath.Join(t.TempDir(), "config.toml"))

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://randomuser.me/api/", cfg.API.BaseURL)
	assert.Equal(t, "user-management", cfg.API.Seed)
	assert.Equal(t, 10, cfg.UI.PageSize)
	assert.Equal(t, []int{5, 10, 25, 50}, cfg.UI.PageSizeOptions)
	assert.Equal(t, 500*time.Millisecond, cfg.UI.Debounce.Std())
	assert.Equal(t, domain.ThemeLight, cfg.ThemeMode())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigService(path)

	cfg := DefaultConfig()
	cfg.UI.Theme = "dark"
	cfg.UI.PageSize = 25
	cfg.UI.Debounce = Duration(300 * time.Millisecond)
	require.NoError(t, svc.Save(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "300ms")

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, domain.ThemeDark, loaded.ThemeMode())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\npage_size = 7\n"), 0644))

	cfg, err := NewConfigService(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.UI.PageSize)
	assert.Equal(t, []int{5, 7, 10, 25, 50}, cfg.UI.PageSizeOptions)
	assert.Equal(t, "user-management", cfg.API.Seed)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[ui\n"},
		{"bad duration", "[ui]\ndebounce = 'soon'\n"},
		{"bad theme", "[ui]\ntheme = 'sepia'\n"},
		{"bad page size", "[ui]\npage_size = 0\n"},
		{"bad url", "[api]\nbase_url = 'not a url'\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := NewConfigService(path).Load()
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://localhost:9999/api/")
	t.Setenv(EnvSeed, "fixed")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvTheme, "dark")

	cfg, err := NewConfigService(filepath.Join(t.TempDir(), "config.toml")).Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/api/", cfg.API.BaseURL)
	assert.Equal(t, "fixed", cfg.API.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, domain.ThemeDark, cfg.ThemeMode())
}

func TestSaveKeepsEnvOverridesOutOfFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, NewConfigService(path).Save(DefaultConfig()))

	t.Setenv(EnvAPIURL, "http://127.0.0.1:9/fake")
	t.Setenv(EnvSeed, "from-env")
	svc := NewConfigService(path)
	cfg, err := svc.Load()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:9/fake", cfg.API.BaseURL)

	cfg.UI.Theme = string(domain.ThemeDark)
	require.NoError(t, svc.Save(cfg))
	assert.Equal(t, "http://127.0.0.1:9/fake", cfg.API.BaseURL, "the caller's config keeps the override")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "127.0.0.1:9")
	assert.NotContains(t, string(data), "from-env")

	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvSeed, "")
	reloaded, err := NewConfigService(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "https://randomuser.me/api/", reloaded.API.BaseURL)
	assert.Equal(t, "user-management", reloaded.API.Seed)
	assert.Equal(t, domain.ThemeDark, reloaded.ThemeMode(), "the edited field is saved")
}

func TestSaveWritesOverriddenFieldOnceChanged(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, NewConfigService(path).Save(DefaultConfig()))

	t.Setenv(EnvTheme, "dark")
	svc := NewConfigService(path)
	cfg, err := svc.Load()
	require.NoError(t, err)
	require.Equal(t, domain.ThemeDark, cfg.ThemeMode())

	// Toggling away from the environment's theme is a user edit
	cfg.UI.Theme = string(domain.ThemeLight)
	cfg.UI.PageSize = 25
	require.NoError(t, svc.Save(cfg))

	t.Setenv(EnvTheme, "")
	reloaded, err := NewConfigService(path).Load()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, reloaded.ThemeMode())
	assert.Equal(t, 25, reloaded.UI.PageSize)
}

func TestLoadMissingFileValidatesEnv(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown theme", EnvTheme, "purple"},
		{"unknown log level", EnvLogLevel, "verbose"},
		{"bad api url", EnvAPIURL, "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := NewConfigService(filepath.Join(t.TempDir(), "absent.toml")).Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	_, err := NewConfigService("").LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestServicePublishesEvents(t *testing.T) {
	clearEnv(t)
	bus := eventbus.New()
	defer bus.Close()

	loaded := make(chan eventbus.DomainEvent, 1)
	changed := make(chan eventbus.DomainEvent, 1)
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) { loaded <- e })
	bus.Subscribe(eventbus.EventConfigChanged, func(e eventbus.DomainEvent) { changed <- e })

	path := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigServiceWithBus(path, bus)

	cfg, err := svc.Load()
	require.NoError(t, err)
	require.NoError(t, svc.Save(cfg))

	for _, ch := range []chan eventbus.DomainEvent{loaded, changed} {
		select {
		case e := <-ch:
			switch ev := e.(type) {
			case domain.ConfigLoadedEvent:
				assert.Equal(t, path, ev.Path)
			case domain.ConfigChangedEvent:
				assert.Equal(t, path, ev.Path)
			default:
				t.Fatalf("unexpected event %T", e)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for config event")
		}
	}
}

func TestSaveToPathDoesNotPublish(t *testing.T) {
	clearEnv(t)
	bus := eventbus.New()
	defer bus.Close()

	changed := make(chan struct{}, 1)
	bus.Subscribe(eventbus.EventConfigChanged, func(eventbus.DomainEvent) { changed <- struct{}{} })

	svc := NewConfigServiceWithBus(filepath.Join(t.TempDir(), "a.toml"), bus)
	require.NoError(t, svc.SaveToPath(DefaultConfig(), filepath.Join(t.TempDir(), "b.toml")))

	select {
	case <-changed:
		t.Fatal("SaveToPath must not publish")
	case <-time.After(50 * time.Millisecond):
	}
}
