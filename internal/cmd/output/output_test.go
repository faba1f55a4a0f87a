package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cinemap/pkg/movies"
)

func ptr[T any](v T) *T { return &v }

var sample = []movies.Movie{
	{ID: 1, Title: "기생충", ReleaseDate: ptr("2019-05-30"), VoteAverage: ptr(8.5)},
	{ID: 2, Title: "Untitled"},
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml", "wide", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestMoviesTable(t *testing.T) {
	d := MoviesTable(sample, false)
	assert.Equal(t, []string{"ID", "Title", "Year", "Rating"}, d.Headers)
	assert.Equal(t, []string{"1", "기생충", "2019", "8.5"}, d.Rows[0])
	assert.Equal(t, []string{"2", "Untitled", movies.UnknownYear, movies.NoRating}, d.Rows[1])

	wide := MoviesTable(sample, true)
	assert.Len(t, wide.Headers, 5)
	assert.Equal(t, movies.NoOverview, wide.Rows[1][4])
}

func TestFavoritesTable(t *testing.T) {
	d := FavoritesTable(sample[:1])
	assert.Equal(t, "❤️", d.Rows[0][0])
	assert.Len(t, d.ColumnAlignment, len(d.Headers))
}

func TestMoviesWritesEachFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Movies(&buf, FormatTable, sample))
	assert.Contains(t, buf.String(), "기생충")
	assert.Contains(t, strings.ToUpper(buf.String()), "RATING")

	buf.Reset()
	require.NoError(t, Movies(&buf, FormatJSON, sample))
	var decoded []movies.Movie
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sample[0].Title, decoded[0].Title)

	buf.Reset()
	require.NoError(t, Movies(&buf, FormatYAML, sample))
	assert.Contains(t, buf.String(), "id: 1")
	assert.Contains(t, buf.String(), "title:")
}

func TestDetailsTable(t *testing.T) {
	d := &movies.Details{
		Movie:   movies.Movie{ID: 1, Title: "Up"},
		Runtime: ptr(96),
		Videos:  movies.Videos{Results: []movies.Video{{Key: "abc", Site: "YouTube", Type: "Trailer"}}},
	}
	data := DetailsTable(d)
	last := data.Rows[len(data.Rows)-1]
	assert.Equal(t, "Trailer", last[0])
	assert.Contains(t, last[1], "abc")
	assert.Contains(t, data.Rows, []string{"Runtime", "96분"})
}

func TestTableFallsBackToReflection(t *testing.T) {
	type row struct {
		Name  string `json:"movie_name"`
		Count int
	}
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, []row{{Name: "a", Count: 1}}))
	assert.Contains(t, strings.ToUpper(buf.String()), "MOVIE NAME")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, 42))
	assert.Equal(t, "42\n", buf.String())
}
