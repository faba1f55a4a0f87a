// Package render turns movies and view state into presentation records
// and HTML. Nothing here performs I/O beyond writing to the given writer;
// image URLs come from the catalog's URL helpers.
package render

import (
	"strconv"

	"github.com/agentstation/cinemap/pkg/movies"
)

// Images resolves poster and backdrop paths to URLs.
type Images interface {
	ImageURL(path *string) string
	BackdropURL(path *string) string
}

// Variant selects the card layout.
type Variant string

// Card layouts.
const (
	MovieCard    Variant = "movie-card"
	SearchResult Variant = "search-result"
)

// Action is an interaction a card exposes.
type Action string

// Card affordances.
const (
	ToggleFavorite Action = "toggle-favorite"
	OpenDetails    Action = "open-details"
)

// Card is one rendered movie.
type Card struct {
	Variant   Variant `json:"variant"`
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	PosterURL string  `json:"poster_url"`
	PosterAlt string  `json:"poster_alt"`
	Rating    string  `json:"rating"`
	Year      string  `json:"year"`
	Favorite  bool    `json:"favorite"`
}

// NewCard renders m as a carousel or grid card.
func NewCard(m movies.Movie, favorite bool, images Images) Card {
	return newCard(MovieCard, m, favorite, images)
}

// NewListItem renders m as a search result row.
func NewListItem(m movies.Movie, favorite bool, images Images) Card {
	c := newCard(SearchResult, m, favorite, images)
	c.PosterAlt = m.Title
	return c
}

func newCard(v Variant, m movies.Movie, favorite bool, images Images) Card {
	return Card{
		Variant:   v,
		ID:        m.ID,
		Title:     m.Title,
		PosterURL: images.ImageURL(m.PosterPath),
		PosterAlt: m.Title + " 포스터",
		Rating:    m.RatingText(),
		Year:      m.YearText(),
		Favorite:  favorite,
	}
}

// Cards renders list as cards, asking isFavorite for each ID.
func Cards(list []movies.Movie, isFavorite func(id int) bool, images Images) []Card {
	out := make([]Card, len(list))
	for i, m := range list {
		out[i] = NewCard(m, isFavorite(m.ID), images)
	}
	return out
}

// FavoriteIcon is the toggle button glyph.
func (c Card) FavoriteIcon() string {
	if c.Favorite {
		return "❤️"
	}
	return "🤍"
}

// DataID is the card's id attribute value.
func (c Card) DataID() string { return strconv.Itoa(c.ID) }

// Affordances lists the card's interactions.
func (c Card) Affordances() []Action {
	return []Action{ToggleFavorite, OpenDetails}
}

// Click resolves a click on target within the card. A click on the
// favorite button toggles and stops there; anything else opens details.
func (c Card) Click(target Action) Action {
	if target == ToggleFavorite {
		return ToggleFavorite
	}
	return OpenDetails
}
