package ws

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

type outbound struct {
	payload []byte
	// userID limits delivery to one user's connections when set.
	userID uuid.UUID
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger

	// done is closed when Run returns; later Register/Unregister calls must not block.
	done     chan struct{}
	stopOnce sync.Once

	onCount func(int)
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// OnClientCount is called with the connection total after every change.
func (h *Hub) OnClientCount(fn func(int)) {
	h.onCount = fn
}

// Run serves hub traffic until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stopOnce.Do(func() { close(h.done) })
			h.mutex.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mutex.Unlock()
			h.reportCount(0)
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.reportCount(total)
			h.logf("[WS] connected user=%s total_clients=%d", client.label(), total)

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				if msg.userID != uuid.Nil && c.userID != msg.userID {
					continue
				}
				targets = append(targets, c)
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- msg.payload:
				default:
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	if ok {
		h.reportCount(total)
		h.logf("[WS] disconnected user=%s total_clients=%d", client.label(), total)
	}
}

// Register adds a client. After the hub stopped the client's send channel is closed instead.
func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case <-h.done:
		close(client.send)
		return
	default:
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a message for every client.
func (h *Hub) Broadcast(message []byte) {
	h.enqueue(outbound{payload: message})
}

// SendToUser queues a message for the connections opened by userID.
func (h *Hub) SendToUser(userID uuid.UUID, message []byte) {
	if userID == uuid.Nil {
		return
	}
	h.enqueue(outbound{payload: message, userID: userID})
}

func (h *Hub) enqueue(msg outbound) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logf("[WS] broadcast dropped reason=buffer_full")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) reportCount(n int) {
	if h.onCount != nil {
		h.onCount(n)
	}
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
