package render

import (
	"github.com/agentstation/cinemap/internal/carousel"
)

// Section messages.
const (
	NoMoviesMessage       = "표시할 영화가 없습니다."
	LoadingMoviesMessage  = "영화를 불러오는 중..."
	EmptyFavoritesMessage = "아직 찜한 영화가 없습니다."
	EmptyFavoritesHint    = "마음에 드는 영화를 찜해보세요!"
	OverlayLoadingMessage = "영화 상세 정보를 불러오는 중..."
	OverlayErrorMessage   = "영화 상세 정보를 불러오는 중 오류가 발생했습니다."
)

// Section is a titled strip or grid of cards. When Cards is empty,
// Message explains why and MessageClass styles it.
type Section struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Cards        []Card          `json:"cards"`
	Carousel     *carousel.State `json:"carousel,omitempty"`
	Message      string          `json:"message,omitempty"`
	Hint         string          `json:"hint,omitempty"`
	MessageClass string          `json:"message_class,omitempty"`
}

// SearchPanel is the search results area.
type SearchPanel struct {
	Status   string          `json:"status"`
	Query    string          `json:"query,omitempty"`
	Message  string          `json:"message,omitempty"`
	Cards    []Card          `json:"cards,omitempty"`
	Carousel *carousel.State `json:"carousel,omitempty"`
}

// Visible reports whether the panel is shown.
func (s SearchPanel) Visible() bool { return s.Status != "" && s.Status != "hidden" }

// Overlay is the detail overlay area.
type Overlay struct {
	State   string  `json:"state"`
	MovieID int     `json:"movie_id,omitempty"`
	Detail  *Detail `json:"detail,omitempty"`
	Message string  `json:"message,omitempty"`
}

// Open reports whether the overlay is displayed.
func (o Overlay) Open() bool { return o.State != "" && o.State != "closed" }

// Toast is a transient notice.
type Toast struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

// Page is everything shown on the discovery page.
type Page struct {
	Language  string      `json:"language"`
	Trending  Section     `json:"trending"`
	Search    SearchPanel `json:"search"`
	Favorites Section     `json:"favorites"`
	Overlay   Overlay     `json:"overlay"`
	Toast     *Toast      `json:"toast,omitempty"`
}
