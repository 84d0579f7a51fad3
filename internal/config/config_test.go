package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	return home
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()

	configDir := filepath.Join(home, ".lulofoto")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	t.Run("returns defaults without a config file", func(t *testing.T) {
		setHome(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Empty(t, cfg.Source)
		assert.Equal(t, 800, cfg.ThumbWidth)
		assert.Equal(t, 600, cfg.ThumbHeight)
		assert.Contains(t, cfg.ThumbPresets, "md")
	})

	t.Run("reads saved values", func(t *testing.T) {
		home := setHome(t)
		writeConfig(t, home, "source: /photos\ndestination: /backup\nstart_date: \"250118\"\n")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "/photos", cfg.Source)
		assert.Equal(t, "/backup", cfg.Destination)
		assert.Equal(t, "250118", cfg.StartDate)
	})

	t.Run("falls back to defaults on malformed yaml", func(t *testing.T) {
		home := setHome(t)
		writeConfig(t, home, "source: [unclosed\n")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Empty(t, cfg.Source)
		assert.Equal(t, 800, cfg.ThumbWidth)
		assert.Contains(t, cfg.ThumbPresets, "md")
	})

	t.Run("falls back to defaults on mistyped values", func(t *testing.T) {
		home := setHome(t)
		writeConfig(t, home, "thumb_width: not-a-number\n")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 800, cfg.ThumbWidth)
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	setHome(t)

	cfg, err := Load()
	require.NoError(t, err)

	cfg.Source, cfg.Destination, cfg.StartDate = "/photos", "/backup", "250118"
	require.NoError(t, Save(cfg))

	viper.Reset()
	loaded, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/photos", loaded.Source)
	assert.Equal(t, "/backup", loaded.Destination)
	assert.Equal(t, "250118", loaded.StartDate)
}
