package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Lifor121/SketchBlade-sub002/internal/game"
)

// Publisher sends raw bytes to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// EventSubject is where change events for a session are published.
func EventSubject(sessionId string) string {
	return fmt.Sprintf("inventory.event.%s", sessionId)
}

// NatsBroadcaster publishes change events as JSON so UI clients can refresh
// only the slots that changed.
type NatsBroadcaster struct {
	pub Publisher
}

func NewNatsBroadcaster(pub Publisher) *NatsBroadcaster {
	return &NatsBroadcaster{pub: pub}
}

// Broadcast satisfies session.Broadcaster. Failures are logged; the change
// has already been committed.
func (b *NatsBroadcaster) Broadcast(sessionId string, ev game.ChangeEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("failed to encode change event", "session", sessionId, "event", ev.Id, "error", err)
		return
	}
	if err := b.pub.Publish(EventSubject(sessionId), data); err != nil {
		slog.Warn("failed to publish change event", "session", sessionId, "event", ev.Id, "error", err)
	}
}
