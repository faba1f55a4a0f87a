// Package events fans page events out to every connected transport.
//
// The page publishes through a Broker, which hands each event to all
// registered subscribers (SSE, WebSocket) concurrently.
package events

import "time"

// EventType names a page event.
type EventType string

// Event types published by the page and the transports.
const (
	FavoritesChanged EventType = "favorites.changed"
	SearchUpdated    EventType = "search.updated"
	OverlayUpdated   EventType = "overlay.updated"
	CarouselMoved    EventType = "carousel.moved"
	ToastShown       EventType = "toast.shown"
	ToastExpired     EventType = "toast.expired"

	ClientConnected EventType = "client.connected"
)

// Event is a page event with its publish time.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
