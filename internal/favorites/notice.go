package favorites

import "fmt"

// Notice is the user-visible message for a toggle.
type Notice struct {
	Action  Action `json:"action"`
	MovieID int    `json:"movie_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier presents notices, typically as a short-lived toast.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f.
func (f NotifierFunc) Notify(n Notice) { f(n) }

// NewNotice builds the notice text for action on a movie titled title.
func NewNotice(action Action, id int, title string) Notice {
	var msg string
	switch action {
	case Added:
		msg = fmt.Sprintf("\"%s\" 영화를 찜했습니다!", title)
	default:
		msg = fmt.Sprintf("\"%s\" 영화를 찜 목록에서 제거했습니다.", title)
	}
	return Notice{Action: action, MovieID: id, Title: title, Message: msg}
}
