package render

import (
	"github.com/agentstation/cinemap/pkg/movies"
)

// Detail is the overlay content for one movie.
type Detail struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	PosterURL   string `json:"poster_url"`
	PosterAlt   string `json:"poster_alt"`
	BackdropURL string `json:"backdrop_url"`
	Year        string `json:"year"`
	Rating      string `json:"rating"`
	Runtime     string `json:"runtime,omitempty"`
	Genres      string `json:"genres"`
	Overview    string `json:"overview"`
	Director    string `json:"director"`
	Cast        string `json:"cast"`
	TrailerURL  string `json:"trailer_url,omitempty"`
	Favorite    bool   `json:"favorite"`
}

// NewDetail renders d for the overlay.
func NewDetail(d *movies.Details, favorite bool, images Images) Detail {
	return Detail{
		ID:          d.ID,
		Title:       d.Title,
		PosterURL:   images.ImageURL(d.PosterPath),
		PosterAlt:   d.Title + " 포스터",
		BackdropURL: images.BackdropURL(d.BackdropPath),
		Year:        d.YearText(),
		Rating:      d.RatingText(),
		Runtime:     d.RuntimeText(),
		Genres:      d.GenreText(),
		Overview:    d.OverviewText(),
		Director:    d.DirectorText(),
		Cast:        d.CastText(),
		TrailerURL:  d.TrailerURL(),
		Favorite:    favorite,
	}
}

// FavoriteIcon is the toggle button glyph.
func (d Detail) FavoriteIcon() string {
	return Card{Favorite: d.Favorite}.FavoriteIcon()
}
