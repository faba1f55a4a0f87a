package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cinemap/cmd/application"
	"github.com/agentstation/cinemap/pkg/logging"
	"github.com/agentstation/cinemap/pkg/movies"
)

func testApp(t *testing.T) *App {
	t.Helper()
	config := &Config{DataDir: t.TempDir(), LogFormat: "json", LogOutput: "discard"}
	catalog := &application.StaticCatalog{
		Trending: []movies.Movie{{ID: 1, Title: "One"}},
		Details:  map[int]*movies.Details{1: {Movie: movies.Movie{ID: 1, Title: "One"}}},
	}
	a, err := New("1.2.3", "abc", "today", "test",
		WithConfig(config), WithLogger(logging.NewNopLogger()), WithCatalog(catalog))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func TestFavoritesPersistAcrossShutdown(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	store, err := a.Favorites(ctx)
	require.NoError(t, err)
	again, err := a.Favorites(ctx)
	require.NoError(t, err)
	assert.Same(t, store, again)

	_, err = store.Toggle(ctx, movies.Movie{ID: 9, Title: "Nine"})
	require.NoError(t, err)
	require.NoError(t, a.Shutdown(ctx))

	// Opening does not read storage; the store's owner loads it once.
	reopened, err := a.Favorites(ctx)
	require.NoError(t, err)
	assert.Zero(t, reopened.Len())
	reopened.Load(ctx)
	assert.True(t, reopened.Contains(9))
}

func TestCatalogIsCachedAndBuiltFromConfig(t *testing.T) {
	a, err := New("dev", "", "", "",
		WithConfig(&Config{TMDBToken: "tok", LogFormat: "json", LogOutput: "discard"}),
		WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	first, err := a.Catalog()
	require.NoError(t, err)
	second, err := a.Catalog()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestExecuteVersion(t *testing.T) {
	a := testApp(t)
	root := a.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "cinemap 1.2.3\n", out.String())
}

func TestExecuteRejectsBadFormat(t *testing.T) {
	a := testApp(t)
	err := a.Execute(context.Background(), []string{"version", "--format", "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestExecuteMoviesTrending(t *testing.T) {
	a := testApp(t)
	root := a.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"movies", "trending", "-o", "json"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), `"title": "One"`)
	assert.Equal(t, "json", a.OutputFormat())
}

func TestAppImplementsApplication(t *testing.T) {
	var _ application.Application = testApp(t)
}
