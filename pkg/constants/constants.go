// Package constants holds the values shared across cinemap: catalog
// endpoints, layout metrics, timing, storage keys and permissions.
package constants

import "time"

// Catalog endpoints and media.
const (
	// DefaultCatalogBaseURL is the TMDB v3 API root.
	DefaultCatalogBaseURL = "https://api.themoviedb.org/3"

	// DefaultImageBaseURL is the TMDB image CDN root; sizes are appended.
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"

	// PosterSize and BackdropSize are the CDN size segments.
	PosterSize   = "w500"
	BackdropSize = "w1280"

	// PosterPlaceholder is used when a movie has no poster.
	PosterPlaceholder = "/placeholder.svg?height=750&width=500"

	// BackdropPlaceholder is used when a movie has no backdrop.
	BackdropPlaceholder = "/placeholder.svg?height=500&width=900"

	// DefaultLanguage is the locale sent with every catalog request.
	DefaultLanguage = "ko-KR"

	// TrailerURLPrefix is joined with a video key to build a trailer link.
	TrailerURLPrefix = "https://www.youtube.com/watch?v="

	// CatalogService names the catalog in errors and logs.
	CatalogService = "tmdb"
)

// Layout.
const (
	// CardWidth is a carousel card's width in pixels.
	CardWidth = 200

	// CardGap is the horizontal gap between cards in pixels.
	CardGap = 16

	// CastLimit is how many billed cast members the overlay lists.
	CastLimit = 5

	// MinQueryLength is the shortest typed query that triggers a search.
	MinQueryLength = 2
)

// Timing.
const (
	// SearchDebounce is the quiet period after typing before a search runs.
	SearchDebounce = 300 * time.Millisecond

	// NoticeTTL is how long a favorites notice stays visible.
	NoticeTTL = 3 * time.Second

	// NoticeCleanupInterval is how often expired notices are purged.
	NoticeCleanupInterval = time.Second

	// DefaultTimeout bounds CLI commands, not catalog requests.
	DefaultTimeout = 30 * time.Second

	// ShutdownTimeout bounds graceful server shutdown.
	ShutdownTimeout = 10 * time.Second
)

// Catalog pacing and circuit breaking.
const (
	// DefaultRateLimit is catalog requests per second.
	DefaultRateLimit = 20

	// BurstSize is the pacing token bucket burst.
	BurstSize = 10

	// BreakerFailures is how many consecutive failures open the breaker.
	BreakerFailures = 5

	// BreakerOpenTimeout is how long the breaker stays open before probing.
	BreakerOpenTimeout = 30 * time.Second

	// BreakerInterval resets the closed-state failure counts.
	BreakerInterval = time.Minute
)

// Storage.
const (
	// FavoritesKey is the storage key holding the favorites JSON array.
	FavoritesKey = "favorites"

	// DefaultDataDir is the badger directory under the user's home.
	DefaultDataDir = ".cinemap/data"

	DirPermissions  = 0755
	FilePermissions = 0644
)

// Server.
const (
	// ChannelBufferSize is the default buffer for event channels.
	ChannelBufferSize = 100
)
