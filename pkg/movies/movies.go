// Package movies defines the catalog records cinemap works with and the
// display rules derived from them (year, rating, director, cast, trailer).
//
// Field names and JSON tags follow the TMDB v3 payloads so that catalog
// responses and stored favorites decode into the same types.
package movies

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/cinemap/pkg/constants"
)

// Display placeholders.
const (
	// UnknownYear is shown when a movie has no release date.
	UnknownYear = "미정"

	// NoRating is shown when a movie has no vote average.
	NoRating = "N/A"

	// NoInfo is shown for a missing director or cast.
	NoInfo = "정보 없음"

	// NoOverview is shown when a movie has no synopsis.
	NoOverview = "줄거리 정보가 없습니다."
)

// Movie is a catalog entry as it appears in trending, search and favorites.
// ID is the identity; two movies with the same ID are the same movie.
type Movie struct {
	ID           int      `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Overview     string   `json:"overview,omitempty" yaml:"overview,omitempty"`
	PosterPath   *string  `json:"poster_path" yaml:"poster_path,omitempty"`
	BackdropPath *string  `json:"backdrop_path" yaml:"backdrop_path,omitempty"`
	VoteAverage  *float64 `json:"vote_average" yaml:"vote_average,omitempty"`
	ReleaseDate  *string  `json:"release_date" yaml:"release_date,omitempty"`
}

// Genre is a named genre tag.
type Genre struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// CastMember is a billed performer. Order is billing order.
type CastMember struct {
	ID        int    `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Character string `json:"character,omitempty" yaml:"character,omitempty"`
	Order     int    `json:"order" yaml:"order"`
}

// CrewMember is a credited crew member with a job tag such as "Director".
type CrewMember struct {
	ID         int    `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Job        string `json:"job" yaml:"job"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
}

// Credits groups cast and crew.
type Credits struct {
	Cast []CastMember `json:"cast" yaml:"cast"`
	Crew []CrewMember `json:"crew" yaml:"crew"`
}

// Video is an attached clip; Site and Key locate it on a hosting service.
type Video struct {
	Key  string `json:"key" yaml:"key"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Site string `json:"site" yaml:"site"`
	Type string `json:"type" yaml:"type"`
}

// Videos is the appended videos block of a details response.
type Videos struct {
	Results []Video `json:"results" yaml:"results"`
}

// Details is the extended record fetched for the detail overlay.
type Details struct {
	Movie   `yaml:",inline"`
	Runtime *int    `json:"runtime" yaml:"runtime,omitempty"`
	Genres  []Genre `json:"genres" yaml:"genres"`
	Credits Credits `json:"credits" yaml:"credits"`
	Videos  Videos  `json:"videos" yaml:"videos"`
}

// Page is a paged list response; only the first page is ever read.
type Page struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// YearText returns the four-digit release year, or UnknownYear.
func (m Movie) YearText() string {
	if m.ReleaseDate == nil || *m.ReleaseDate == "" {
		return UnknownYear
	}
	d := *m.ReleaseDate
	if t, err := time.Parse(time.DateOnly, d); err == nil {
		return fmt.Sprintf("%d", t.Year())
	}
	if len(d) >= 4 {
		return d[:4]
	}
	return UnknownYear
}

// RatingText returns the vote average with one decimal, or NoRating when
// the average is absent or zero.
func (m Movie) RatingText() string {
	if m.VoteAverage == nil || *m.VoteAverage == 0 {
		return NoRating
	}
	return oneDecimal(*m.VoteAverage)
}

// oneDecimal formats v with one fractional digit, rounding halves away
// from zero on the exact binary value. 7.25 gives "7.3" while 8.35, stored
// as 8.3499..., gives "8.3".
func oneDecimal(v float64) string {
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', 20, 64)
	dot := strings.IndexByte(s, '.')
	out := []byte(s[:dot+2])

	if s[dot+2] >= '5' {
		i := len(out) - 1
		for ; i >= 0; i-- {
			if out[i] == '.' {
				continue
			}
			if out[i] != '9' {
				out[i]++
				break
			}
			out[i] = '0'
		}
		if i < 0 {
			out = append([]byte{'1'}, out...)
		}
	}
	if neg {
		out = append([]byte{'-'}, out...)
	}
	return string(out)
}

// OverviewText returns the synopsis or NoOverview.
func (m Movie) OverviewText() string {
	if strings.TrimSpace(m.Overview) == "" {
		return NoOverview
	}
	return m.Overview
}

// Director returns the first crew member whose job is "Director".
func (d Details) Director() (CrewMember, bool) {
	for _, c := range d.Credits.Crew {
		if c.Job == "Director" {
			return c, true
		}
	}
	return CrewMember{}, false
}

// DirectorText returns the director's name or NoInfo.
func (d Details) DirectorText() string {
	if c, ok := d.Director(); ok && c.Name != "" {
		return c.Name
	}
	return NoInfo
}

// TopCast returns up to n names in billing order.
func (d Details) TopCast(n int) []string {
	names := make([]string, 0, n)
	for _, c := range d.Credits.Cast {
		if len(names) == n {
			break
		}
		names = append(names, c.Name)
	}
	return names
}

// CastText returns the top billed names joined by ", " or NoInfo.
func (d Details) CastText() string {
	names := d.TopCast(constants.CastLimit)
	if len(names) == 0 {
		return NoInfo
	}
	return strings.Join(names, ", ")
}

// GenreText returns genre names joined by ", ".
func (d Details) GenreText() string {
	names := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}

// RuntimeText returns the runtime as "<n>분", or "" when unknown.
func (d Details) RuntimeText() string {
	if d.Runtime == nil || *d.Runtime == 0 {
		return ""
	}
	return fmt.Sprintf("%d분", *d.Runtime)
}

// Trailer returns the first YouTube video typed "Trailer".
func (d Details) Trailer() (Video, bool) {
	for _, v := range d.Videos.Results {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			return v, true
		}
	}
	return Video{}, false
}

// TrailerURL returns the trailer's watch URL, or "" when there is none.
func (d Details) TrailerURL() string {
	v, ok := d.Trailer()
	if !ok {
		return ""
	}
	return constants.TrailerURLPrefix + v.Key
}

// IndexOf returns the position of id in list, or -1.
func IndexOf(list []Movie, id int) int {
	for i, m := range list {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the movie with id from list.
func Find(list []Movie, id int) (Movie, bool) {
	if i := IndexOf(list, id); i >= 0 {
		return list[i], true
	}
	return Movie{}, false
}
