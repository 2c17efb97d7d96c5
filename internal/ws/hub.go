package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/priya/course-platform/internal/domain"
)

// Hub fans newly created notifications out to connected admin clients.
// Delivery is fire-and-forget: a slow client gets dropped, the store stays
// the source of truth.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stop       chan struct{}
	done       chan struct{}
	stopped    bool
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client can't keep up; drop it.
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop shuts the hub down and waits for Run to exit.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

// Broadcast implements service.Notifier.
func (h *Hub) Broadcast(n *domain.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		log.Printf("ERROR [ws.Broadcast] failed to marshal notification: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		log.Printf("ERROR [ws.Broadcast] broadcast queue full, dropping notification %s", n.ID)
	}
}
