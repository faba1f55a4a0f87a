// Package emoji provides the symbols cinemap prints in CLI output.
package emoji

const (
	// Success marks a completed operation.
	Success = "✓"

	// Stop marks a shutdown or a blocking error.
	Stop = "✗"

	// Launch marks a server coming up.
	Launch = "🚀"

	// Favorite marks a movie in the favorites list.
	Favorite = "❤️"

	// NotFavorite marks a movie outside the favorites list.
	NotFavorite = "🤍"

	// Movie prefixes movie listings.
	Movie = "🎬"
)
