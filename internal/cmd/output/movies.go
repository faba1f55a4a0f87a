package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/agentstation/cinemap/internal/cmd/emoji"
	"github.com/agentstation/cinemap/pkg/movies"
)

// MoviesTable lays out a movie list. Wide adds the overview.
func MoviesTable(list []movies.Movie, wide bool) Data {
	headers := []string{"ID", "Title", "Year", "Rating"}
	align := []Align{AlignRight, AlignLeft, AlignCenter, AlignRight}
	if wide {
		headers = append(headers, "Overview")
		align = append(align, AlignLeft)
	}

	rows := make([][]string, len(list))
	for i, m := range list {
		row := []string{strconv.Itoa(m.ID), m.Title, m.YearText(), m.RatingText()}
		if wide {
			row = append(row, truncate(m.OverviewText(), 60))
		}
		rows[i] = row
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// FavoritesTable lays out a favorites list with its heart marker.
func FavoritesTable(list []movies.Movie) Data {
	d := MoviesTable(list, false)
	d.Headers = append([]string{""}, d.Headers...)
	d.ColumnAlignment = append([]Align{AlignCenter}, d.ColumnAlignment...)
	for i := range d.Rows {
		d.Rows[i] = append([]string{emoji.Favorite}, d.Rows[i]...)
	}
	return d
}

// DetailsTable lays out one extended movie record as property rows.
func DetailsTable(d *movies.Details) Data {
	rows := [][]string{
		{"Title", d.Title},
		{"Year", d.YearText()},
		{"Rating", d.RatingText()},
		{"Runtime", d.RuntimeText()},
		{"Genres", d.GenreText()},
		{"Director", d.DirectorText()},
		{"Cast", d.CastText()},
		{"Overview", d.OverviewText()},
	}
	if url := d.TrailerURL(); url != "" {
		rows = append(rows, []string{"Trailer", url})
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// Movies writes list in format.
func Movies(w io.Writer, format Format, list []movies.Movie) error {
	return NewFormatter(format).Format(w, pick(format, MoviesTable(list, format == FormatWide), list))
}

// Favorites writes a favorites list in format.
func Favorites(w io.Writer, format Format, list []movies.Movie) error {
	return NewFormatter(format).Format(w, pick(format, FavoritesTable(list), list))
}

// Details writes d in format.
func Details(w io.Writer, format Format, d *movies.Details) error {
	return NewFormatter(format).Format(w, pick(format, DetailsTable(d), d))
}

func pick(format Format, table Data, raw any) any {
	switch format {
	case FormatJSON, FormatYAML:
		return raw
	default:
		return table
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
