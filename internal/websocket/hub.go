package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of active clients and broadcasts activity messages
// to them. Clients may subscribe to a single book to receive only that
// book's review activity.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// A map of book IDs to the set of clients subscribed to each.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
			// If the client connected for a specific book, subscribe them.
			if client.BookID != "" {
				h.addSubscription(client, client.BookID)
			}
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
		}
	}
}

// BroadcastTo sends a message to all clients subscribed to a specific book.
func (h *Hub) BroadcastTo(bookID string, message []byte) {
	if subs, ok := h.subscriptions[bookID]; ok {
		for client := range subs {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
				delete(h.subscriptions[bookID], client)
			}
		}
	}
}

func (h *Hub) addSubscription(client *Client, bookID string) {
	if h.subscriptions[bookID] == nil {
		h.subscriptions[bookID] = make(map[*Client]bool)
	}
	h.subscriptions[bookID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for bookID, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, bookID)
			}
		}
	}
}
