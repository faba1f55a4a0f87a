package favorites

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cinemap/cmd/application"
	"github.com/agentstation/cinemap/internal/favorites"
	"github.com/agentstation/cinemap/internal/page"
	"github.com/agentstation/cinemap/internal/storage"
	"github.com/agentstation/cinemap/pkg/errors"
	"github.com/agentstation/cinemap/pkg/movies"
)

func testApp(t *testing.T, format string) (*application.Mock, *favorites.Store) {
	t.Helper()
	db, err := storage.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := favorites.New(db)

	catalog := &application.StaticCatalog{
		Details: map[int]*movies.Details{
			7: {Movie: movies.Movie{ID: 7, Title: "Seven"}},
		},
	}
	return &application.Mock{
		CatalogFunc:   func() (page.Catalog, error) { return catalog, nil },
		FavoritesFunc: func(context.Context) (*favorites.Store, error) { return store, nil },
		Format:        format,
	}, store
}

func run(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestToggleAddsThenRemoves(t *testing.T) {
	app, store := testApp(t, "json")

	out, err := run(t, app, "toggle", "7")
	require.NoError(t, err)
	assert.Contains(t, out, `"Seven" 영화를 찜했습니다!`)
	assert.True(t, store.Contains(7))

	out, err = run(t, app, "toggle", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "찜 목록에서 제거했습니다")
	assert.False(t, store.Contains(7))
}

func TestTogglePersists(t *testing.T) {
	app, store := testApp(t, "json")
	_, err := run(t, app, "toggle", "7")
	require.NoError(t, err)

	// Reloading reads back what the toggle wrote.
	reloaded := store.Load(context.Background())
	require.Len(t, reloaded, 1)
	assert.Equal(t, "Seven", reloaded[0].Title)
}

func TestToggleUnknownMovie(t *testing.T) {
	app, store := testApp(t, "json")
	_, err := run(t, app, "toggle", "404")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Zero(t, store.Len())
}

func TestToggleInvalidID(t *testing.T) {
	app, _ := testApp(t, "json")
	_, err := run(t, app, "toggle", "0")
	assert.True(t, errors.IsValidationError(err))
}

func TestListJSON(t *testing.T) {
	app, store := testApp(t, "json")
	_, err := store.Toggle(context.Background(), movies.Movie{ID: 1, Title: "One"})
	require.NoError(t, err)

	out, err := run(t, app, "list")
	require.NoError(t, err)

	var list []movies.Movie
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "One", list[0].Title)
}

func TestListReadsStoredFavorites(t *testing.T) {
	db, err := storage.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	writer := favorites.New(db)
	_, err = writer.Toggle(context.Background(), movies.Movie{ID: 4, Title: "Four"})
	require.NoError(t, err)

	fresh := favorites.New(db)
	app := &application.Mock{
		FavoritesFunc: func(context.Context) (*favorites.Store, error) { return fresh, nil },
		Format:        "json",
	}

	out, err := run(t, app, "list")
	require.NoError(t, err)
	var list []movies.Movie
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Four", list[0].Title)
}

func TestBareCommandListsTable(t *testing.T) {
	app, store := testApp(t, "table")
	_, err := store.Toggle(context.Background(), movies.Movie{ID: 1, Title: "One"})
	require.NoError(t, err)

	out, err := run(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "One")
	assert.Contains(t, out, "❤️")
}

func TestClear(t *testing.T) {
	app, store := testApp(t, "json")
	_, err := store.Toggle(context.Background(), movies.Movie{ID: 1, Title: "One"})
	require.NoError(t, err)

	out, err := run(t, app, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 favorites")
	assert.Zero(t, store.Len())
}
