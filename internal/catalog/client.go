// Package catalog talks to the remote movie catalog: trending, search and
// details, plus the image URL rules for posters and backdrops.
//
// Trending and Search never fail from the caller's point of view: any
// transport, status or decoding problem is logged and yields an empty
// list. FetchDetails surfaces its error so the overlay can show it.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/agentstation/cinemap/internal/transport"
	"github.com/agentstation/cinemap/pkg/constants"
	"github.com/agentstation/cinemap/pkg/errors"
	"github.com/agentstation/cinemap/pkg/logging"
	"github.com/agentstation/cinemap/pkg/movies"
)

// Client is the catalog API client. It is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *transport.Client
	breaker *gobreaker.CircuitBreaker[any]
}

// New validates cfg and creates a Client.
func New(cfg Config) (*Client, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg: cfg,
		http: transport.New(
			transport.ForScheme(cfg.AuthScheme),
			cfg.Token,
			transport.WithHTTPClient(cfg.HTTPClient),
			transport.WithRateLimit(cfg.RateLimit, cfg.Burst),
		),
	}
	if cfg.BreakerEnabled {
		c.breaker = newBreaker(constants.CatalogService)
	}
	return c, nil
}

// Language returns the normalized locale tag sent with requests.
func (c *Client) Language() string {
	return c.cfg.Language
}

// FetchTrending returns today's trending movies, or an empty list on failure.
func (c *Client) FetchTrending(ctx context.Context) []movies.Movie {
	q := url.Values{"language": {c.cfg.Language}}
	return c.list(ctx, "trending", "/trending/movie/day?"+q.Encode())
}

// Search returns movies matching query, or an empty list on failure.
// The query is sent as given.
func (c *Client) Search(ctx context.Context, query string) []movies.Movie {
	q := url.Values{"language": {c.cfg.Language}, "query": {query}}
	return c.list(ctx, "search", "/search/movie?"+q.Encode())
}

// FetchDetails returns the extended record for id with credits and videos.
func (c *Client) FetchDetails(ctx context.Context, id int) (*movies.Details, error) {
	q := url.Values{
		"language":           {c.cfg.Language},
		"append_to_response": {"credits,videos"},
	}
	path := "/movie/" + strconv.Itoa(id) + "?" + q.Encode()

	var d movies.Details
	if err := c.get(ctx, path, &d); err != nil {
		logging.Ctx(ctx).Error().Err(err).Int("movie_id", id).Msg("Failed to fetch movie details")
		return nil, errors.WrapResource("fetch", "movie", strconv.Itoa(id), err)
	}
	return &d, nil
}

// ImageURL returns the poster URL for path, or the poster placeholder.
func (c *Client) ImageURL(path *string) string {
	if path == nil || *path == "" {
		return constants.PosterPlaceholder
	}
	return fmt.Sprintf("%s/%s%s", c.cfg.ImageBaseURL, constants.PosterSize, *path)
}

// BackdropURL returns the backdrop URL for path, or the backdrop placeholder.
func (c *Client) BackdropURL(path *string) string {
	if path == nil || *path == "" {
		return constants.BackdropPlaceholder
	}
	return fmt.Sprintf("%s/%s%s", c.cfg.ImageBaseURL, constants.BackdropSize, *path)
}

func (c *Client) list(ctx context.Context, op, path string) []movies.Movie {
	var page movies.Page
	if err := c.get(ctx, path, &page); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("operation", op).Msg("Catalog request failed, returning no movies")
		return []movies.Movie{}
	}
	if page.Results == nil {
		return []movies.Movie{}
	}
	return page.Results
}

// get performs one GET through the breaker, if any, and decodes into target.
func (c *Client) get(ctx context.Context, path string, target any) error {
	call := func() (any, error) {
		start := time.Now()
		resp, err := c.http.Get(ctx, c.cfg.BaseURL+path)
		if err != nil {
			return nil, err
		}
		err = transport.DecodeResponse(resp, constants.CatalogService, target)
		logging.Ctx(ctx).Debug().
			Str("path", resp.Request.URL.Path).
			Int("status", resp.StatusCode).
			Dur("elapsed", time.Since(start)).
			Msg("Catalog request")
		return nil, err
	}

	if c.breaker == nil {
		_, err := call()
		return err
	}
	_, err := c.breaker.Execute(call)
	if isBreakerRejection(err) {
		return fmt.Errorf("%w: %v", errors.ErrProviderUnavailable, err)
	}
	return err
}
