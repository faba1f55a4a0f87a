package catalog

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/agentstation/cinemap/pkg/constants"
	"github.com/agentstation/cinemap/pkg/errors"
)

// Config holds the catalog client settings.
type Config struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string

	// ImageBaseURL is the image CDN root; size segments are appended.
	ImageBaseURL string

	// Language is a BCP 47 tag sent with every request.
	Language string

	// Token is the opaque API credential.
	Token string

	// AuthScheme is "bearer" (read access token), "query" (v3 key) or "none".
	AuthScheme string

	// RateLimit is requests per second; zero disables pacing.
	RateLimit float64
	Burst     int

	// BreakerEnabled guards calls with a circuit breaker.
	BreakerEnabled bool

	// HTTPClient overrides the default client, which has no timeout.
	HTTPClient *http.Client
}

// DefaultConfig returns the public TMDB endpoints in Korean.
func DefaultConfig() Config {
	return Config{
		BaseURL:        constants.DefaultCatalogBaseURL,
		ImageBaseURL:   constants.DefaultImageBaseURL,
		Language:       constants.DefaultLanguage,
		AuthScheme:     "bearer",
		RateLimit:      constants.DefaultRateLimit,
		Burst:          constants.BurstSize,
		BreakerEnabled: true,
	}
}

// normalize fills blanks from DefaultConfig and validates the rest.
func (c Config) normalize() (Config, error) {
	def := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.ImageBaseURL == "" {
		c.ImageBaseURL = def.ImageBaseURL
	}
	if c.Language == "" {
		c.Language = def.Language
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	c.ImageBaseURL = strings.TrimRight(c.ImageBaseURL, "/")

	tag, err := language.Parse(c.Language)
	if err != nil {
		return c, errors.NewConfigError("catalog", "invalid language "+c.Language, err)
	}
	c.Language = tag.String()

	if c.Token == "" && c.AuthScheme != "none" {
		return c, errors.NewConfigError("catalog", "API token is not set", errors.ErrAPIKeyRequired)
	}
	return c, nil
}
