package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mini-rodalies-3d/stopboard/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stopboard.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_FileWithDefaults(t *testing.T) {
	path := writeConfig(t, `
sources:
  - kind: tfl
    id: 490008660N
  - kind: tfl
    id: 490008660S
api:
  app_key: secret
display:
  line_order: ["72", "73"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "490008660S", cfg.Sources[1].ID)
	assert.Equal(t, "secret", cfg.API.AppKey)
	assert.Equal(t, "https://api.tfl.gov.uk", cfg.API.BaseURL)
	assert.Equal(t, []string{"72", "73"}, cfg.Display.LineOrder)
	assert.Equal(t, 8, cfg.Display.ColumnWidth, "derived from 16 columns / 2")
	assert.Equal(t, ModeGrouped, cfg.Display.Mode)
	assert.Equal(t, 30*time.Second, cfg.PollInterval())
	assert.Equal(t, 30*time.Second, cfg.ErrorDisplay(), "defaults to poll interval")
	assert.Equal(t, 200*time.Millisecond, cfg.BlinkInterval())
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
sources:
  - kind: tfl
    id: old
  - kind: gtfsrt
    id: stop-9
gtfsrt:
  trip_updates_url: https://example.com/tu.pb
error_display_seconds: 5
`)
	t.Setenv("TFL_APP_KEY", "from-env")
	t.Setenv("POLL_INTERVAL", "60")
	t.Setenv("STOP_IDS", "a, b,")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.API.AppKey)
	assert.Equal(t, time.Minute, cfg.PollInterval())
	assert.Equal(t, 5*time.Second, cfg.ErrorDisplay())
	assert.Equal(t, []Source{
		{Kind: KindGTFSRT, ID: "stop-9"},
		{Kind: KindTfL, ID: "a"},
		{Kind: KindTfL, ID: "b"},
	}, cfg.Sources)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no sources", `sources: []`},
		{"unknown kind", "sources:\n  - kind: ftp\n    id: x\n"},
		{"gtfsrt without feed", "sources:\n  - kind: gtfsrt\n    id: x\n"},
		{"bad mode", "sources:\n  - kind: tfl\n    id: x\ndisplay:\n  mode: scrolling\n"},
		{"zero poll", "sources:\n  - kind: tfl\n    id: x\npoll_interval_seconds: 0\n"},
		{"bad url", "sources:\n  - kind: tfl\n    id: x\napi:\n  base_url: not a url\n"},
		{"column width zero", "sources:\n  - kind: tfl\n    id: x\ndisplay:\n  columns: 1\n  grid_columns: 2\n"},
		{"static url without path", "sources:\n  - kind: tfl\n    id: x\ngtfsrt:\n  static_gtfs_url: https://example.com/gtfs.zip\n"},
		{"malformed yaml", "sources: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("STOP_IDS", "490008660N")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []Source{{Kind: KindTfL, ID: "490008660N"}}, cfg.Sources)
}

func TestGetEnvInt_IgnoresGarbage(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")
	assert.Equal(t, 30, getEnvInt("POLL_INTERVAL", 30))
}
