package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const EventSignedOut = "auth.signed_out"

type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data,omitempty"`
	At   time.Time `json:"at"`
}

// Notifier turns domain events into websocket frames.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

// Publish broadcasts an event to every connected client.
func (n *Notifier) Publish(eventType string, payload any) {
	if n == nil || n.hub == nil {
		return
	}
	b, err := n.encode(eventType, payload)
	if err != nil {
		n.hub.logf("[WS] encode failed type=%s err=%v", eventType, err)
		return
	}
	n.hub.Broadcast(b)
}

// NotifySignedOut tells the user's open connections that their session ended.
func (n *Notifier) NotifySignedOut(userID uuid.UUID) {
	if n == nil || n.hub == nil {
		return
	}
	b, err := n.encode(EventSignedOut, map[string]string{"user_id": userID.String()})
	if err != nil {
		return
	}
	n.hub.SendToUser(userID, b)
}

func (n *Notifier) encode(eventType string, payload any) ([]byte, error) {
	return json.Marshal(Event{Type: eventType, Data: payload, At: n.now().UTC()})
}
