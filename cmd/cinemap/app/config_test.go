package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cinemap/pkg/constants"
)

// isolate points HOME at an empty directory and runs from it, so no
// user config or .env file leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	for _, key := range []string{"TMDB_API_TOKEN", "TMDB_API_KEY", "HTTP_HOST", "HTTP_PORT", "LOG_FORMAT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	home := isolate(t)

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultCatalogBaseURL, config.TMDBBaseURL)
	assert.Equal(t, constants.DefaultImageBaseURL, config.TMDBImageBaseURL)
	assert.Equal(t, constants.DefaultLanguage, config.Language)
	assert.Equal(t, "bearer", config.AuthScheme)
	assert.Equal(t, constants.SearchDebounce, config.Debounce)
	assert.Equal(t, constants.CardWidth, config.CardWidth)
	assert.Equal(t, filepath.Join(home, constants.DefaultDataDir), config.DataDir)
	assert.Equal(t, 8080, config.HTTPPort)
	assert.Equal(t, "auto", config.LogFormat)
	assert.True(t, config.BreakerEnabled)
}

func TestLoadConfigEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("TMDB_API_TOKEN", "token-123")
	t.Setenv("CINEMAP_LANGUAGE", "en-US")
	t.Setenv("CINEMAP_DEBOUNCE", "150ms")
	t.Setenv("CINEMAP_OUTPUT", "json")
	t.Setenv("CINEMAP_VERBOSE", "true")
	t.Setenv("HTTP_PORT", "9191")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "token-123", config.TMDBToken)
	assert.Equal(t, "en-US", config.Language)
	assert.Equal(t, 150*time.Millisecond, config.Debounce)
	assert.Equal(t, "json", config.Format)
	assert.True(t, config.Verbose)
	assert.Equal(t, 9191, config.HTTPPort)
}

func TestLoadConfigV3KeyUsesQueryAuth(t *testing.T) {
	isolate(t)
	t.Setenv("TMDB_API_KEY", "v3key")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "v3key", config.TMDBToken)
	assert.Equal(t, "query", config.AuthScheme)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TMDB_API_TOKEN=from-dotenv\n"), 0o600))

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", config.TMDBToken)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	yaml := "language: ja-JP\ncard_width: 180\nhttp_port: 9000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cinemap.yaml"), []byte(yaml), 0o600))

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "ja-JP", config.Language)
	assert.Equal(t, 180, config.CardWidth)
	assert.Equal(t, 9000, config.HTTPPort)
	assert.Equal(t, filepath.Join(dir, ".cinemap.yaml"), config.ConfigFile)
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}

	config.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, "warn", config.LogLevel)

	config.UpdateFromFlags(false, true, false, "json", "debug")
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestCatalogAndPageConfig(t *testing.T) {
	config := &Config{
		TMDBToken:  "tok",
		Language:   "en-US",
		AuthScheme: "query",
		RateLimit:  5,
		Debounce:   time.Second,
		CardWidth:  120,
		CardGap:    8,
	}

	cat := config.CatalogConfig()
	assert.Equal(t, "tok", cat.Token)
	assert.Equal(t, "query", cat.AuthScheme)
	assert.Equal(t, "en-US", cat.Language)
	assert.Equal(t, constants.DefaultCatalogBaseURL, cat.BaseURL)
	assert.InDelta(t, 5.0, cat.RateLimit, 0.0001)
	assert.False(t, cat.BreakerEnabled)

	pg := config.PageConfig()
	assert.Equal(t, "en-US", pg.Language)
	assert.Equal(t, time.Second, pg.Debounce)
	assert.Equal(t, 120, pg.CardWidth)
	assert.Equal(t, 8, pg.CardGap)
	assert.Equal(t, constants.NoticeTTL, pg.NoticeTTL)
}

func TestLoadConfigExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("card_gap: 4\n"), 0o600))

	config, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, config.CardGap)

	_, err = loadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
