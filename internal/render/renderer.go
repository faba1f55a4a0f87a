package render

import (
	"embed"
	"html/template"
	"io"
	"io/fs"

	"github.com/agentstation/cinemap/internal/carousel"
	"github.com/agentstation/cinemap/pkg/errors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed templates/static
var staticFS embed.FS

// Fragment names accepted by Renderer.Fragment.
const (
	FragmentTrending  = "trending"
	FragmentSearch    = "search"
	FragmentFavorites = "favorites"
	FragmentOverlay   = "overlay"
	FragmentToast     = "toast"
)

// Renderer writes pages and page fragments as HTML.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"neg":   func(n int) int { return -n },
		"strip": newStrip,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.WrapParse("template", "templates", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page writes the full document.
func (r *Renderer) Page(w io.Writer, p Page) error {
	return r.tmpl.ExecuteTemplate(w, "page.html.tmpl", p)
}

// Fragment writes one named area of p.
func (r *Renderer) Fragment(w io.Writer, name string, p Page) error {
	var data any
	switch name {
	case FragmentTrending:
		data = p.Trending
	case FragmentSearch:
		data = p.Search
	case FragmentFavorites:
		data = p.Favorites
	case FragmentOverlay:
		data = p.Overlay
	case FragmentToast:
		data = p.Toast
	default:
		return errors.NewNotFoundError("fragment", name)
	}
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// Static returns the embedded stylesheet and script.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "templates/static")
	if err != nil {
		panic(err)
	}
	return sub
}

// strip is the data for the carousel template.
type strip struct {
	Name  string
	Cards []Card
	State carousel.State
}

func newStrip(name string, cards []Card, state *carousel.State) strip {
	s := strip{Name: name, Cards: cards}
	if state != nil {
		s.State = *state
	}
	return s
}
