package sse

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Event is a named payload pushed to a connected device.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	userID string
	ch     chan Event
}

type userEvent struct {
	userID string
	event  Event
}

// Manager fans events out to all SSE connections of a user. A user may be
// connected from several devices at once; each gets every event.
type Manager struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	events     chan userEvent
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan userEvent, 64),
	}
}

// Run owns the client set; all mutation goes through channels.
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			m.clients[c] = struct{}{}
		case c := <-m.unregister:
			if _, ok := m.clients[c]; ok {
				delete(m.clients, c)
				close(c.ch)
			}
		case ue := <-m.events:
			for c := range m.clients {
				if c.userID != ue.userID {
					continue
				}
				select {
				case c.ch <- ue.event:
				default:
					// Slow consumer; drop rather than block the hub.
					log.Printf("[SSE] Dropping event for slow client (user %s)", ue.userID)
				}
			}
		}
	}
}

// Publish delivers an event to every connection of the given user.
func (m *Manager) Publish(userID string, event Event) {
	m.events <- userEvent{userID: userID, event: event}
}

// ServeHTTP streams events to a single connection until the client goes away.
func (m *Manager) ServeHTTP(c *gin.Context, userID string) {
	cl := &client{userID: userID, ch: make(chan Event, 16)}
	m.register <- cl
	defer func() { m.unregister <- cl }()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	notify := c.Request.Context().Done()
	for {
		select {
		case <-notify:
			return
		case ev, ok := <-cl.ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev.Data)
			if err != nil {
				log.Printf("[SSE] Failed to marshal event %q: %v", ev.Type, err)
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Type, payload)
			c.Writer.Flush()
		}
	}
}
