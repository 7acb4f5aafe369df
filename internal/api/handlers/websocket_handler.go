package handlers

import (
	"net/http"
	"sync"

	ws "github.com/abhinav-rajesh/BOOKSHELF/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades HTTP connections to WebSocket connections for
// the live review activity feed.
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles the WebSocket connection request. A book ID in the URL
// subscribes the client to that book's review activity; without one the
// client receives the global feed.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	bookID := chi.URLParam(r, "id")

	client := ws.NewClient(h.hub, conn, bookID)
	h.hub.Register <- client

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		client.WritePump()
	}()
	go func() {
		defer wg.Done()
		// The feed is one-way; inbound frames only keep the connection
		// alive, so unknown actions are answered with an error message.
		client.ReadPump(func(c *ws.Client, message []byte) {
			c.Send <- ws.NewErrorMessage("The activity feed does not accept commands")
		})
	}()

	// Cleanup on disconnect.
	go func() {
		wg.Wait()
		h.hub.Unregister <- client
	}()
}
