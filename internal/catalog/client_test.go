package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cinemap/internal/catalog"
	"github.com/agentstation/cinemap/pkg/constants"
	"github.com/agentstation/cinemap/pkg/errors"
	"github.com/agentstation/cinemap/pkg/logging"
)

const trendingBody = `{"page":1,"results":[
	{"id":1,"title":"Dune","poster_path":"/dune.jpg","vote_average":8.1,"release_date":"2024-02-27"},
	{"id":2,"title":"Wonka","poster_path":null,"vote_average":null,"release_date":""}
],"total_pages":1,"total_results":2}`

func newClient(t *testing.T, url string, mutate ...func(*catalog.Config)) *catalog.Client {
	t.Helper()
	cfg := catalog.DefaultConfig()
	cfg.BaseURL = url
	cfg.Token = "token"
	cfg.RateLimit = 0
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := catalog.New(cfg)
	require.NoError(t, err)
	return c
}

func TestFetchTrending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trending/movie/day", r.URL.Path)
		assert.Equal(t, "ko-KR", r.URL.Query().Get("language"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(trendingBody))
	}))
	defer srv.Close()

	got := newClient(t, srv.URL).FetchTrending(context.Background())
	require.Len(t, got, 2)
	assert.Equal(t, "Dune", got[0].Title)
	assert.Nil(t, got[1].PosterPath)
	assert.Nil(t, got[1].VoteAverage)
}

func TestSearchEncodesQuery(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		seen = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	got := newClient(t, srv.URL).Search(context.Background(), "해리 포터 & 비밀의 방")
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Equal(t, "해리 포터 & 비밀의 방", seen)
}

func TestListFailuresAreSilent(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search/movie" {
			_, _ = w.Write([]byte(`not json`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, func(cfg *catalog.Config) { cfg.BreakerEnabled = false })

	assert.Empty(t, c.FetchTrending(context.Background()))
	assert.Empty(t, c.Search(context.Background(), "dune"))
	assert.True(t, tl.Contains("Catalog request failed"))
}

func TestFetchDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/550":
			assert.Equal(t, "credits,videos", r.URL.Query().Get("append_to_response"))
			_, _ = w.Write([]byte(`{"id":550,"title":"Fight Club","runtime":139,
				"credits":{"cast":[{"name":"Edward Norton"}],"crew":[{"name":"David Fincher","job":"Director"}]},
				"videos":{"results":[{"key":"abc","site":"YouTube","type":"Trailer"}]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status_message":"The resource you requested could not be found."}`))
		}
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)

	d, err := c.FetchDetails(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, "David Fincher", d.DirectorText())
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", d.TrailerURL())

	_, err = c.FetchDetails(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	logging.DisableLoggingForTest(t)

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	for i := 0; i < constants.BreakerFailures; i++ {
		_, err := c.FetchDetails(context.Background(), 9)
		require.Error(t, err)
	}

	_, err := c.FetchDetails(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, errors.IsProviderUnavailable(err))
	assert.Equal(t, int32(constants.BreakerFailures), hits.Load())
	assert.Empty(t, c.FetchTrending(context.Background()))
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	logging.DisableLoggingForTest(t)

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	for i := 0; i < constants.BreakerFailures+2; i++ {
		_, _ = c.FetchDetails(context.Background(), 404)
	}
	assert.Equal(t, int32(constants.BreakerFailures+2), hits.Load())
}

func TestImageURLs(t *testing.T) {
	c := newClient(t, "http://unused")
	poster := "/abc.jpg"

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", c.ImageURL(&poster))
	assert.Equal(t, "https://image.tmdb.org/t/p/w1280/abc.jpg", c.BackdropURL(&poster))
	assert.Equal(t, constants.PosterPlaceholder, c.ImageURL(nil))
	assert.Equal(t, constants.BackdropPlaceholder, c.BackdropURL(nil))

	empty := ""
	assert.Equal(t, constants.PosterPlaceholder, c.ImageURL(&empty))
}

func TestConfigValidation(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		_, err := catalog.New(catalog.Config{})
		require.Error(t, err)
		assert.True(t, errors.IsAPIKeyError(err))
	})

	t.Run("bad language", func(t *testing.T) {
		_, err := catalog.New(catalog.Config{Token: "t", Language: "not a tag!"})
		require.Error(t, err)
	})

	t.Run("no auth needs no token", func(t *testing.T) {
		c, err := catalog.New(catalog.Config{AuthScheme: "none", Language: "en-us"})
		require.NoError(t, err)
		assert.Equal(t, "en-US", c.Language())
	})
}
