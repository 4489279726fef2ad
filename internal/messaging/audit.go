package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Lifor121/SketchBlade-sub002/internal/game"
)

// EventSubjects matches the change events of every session.
const EventSubjects = "inventory.event.>"

// Subscriber is the receiving side of the message bus.
type Subscriber interface {
	Ready() <-chan struct{}
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// EventAuditor logs every change event seen on the bus.
type EventAuditor struct {
	bus    Subscriber
	logger *slog.Logger
}

func NewEventAuditor(bus Subscriber, logger *slog.Logger) *EventAuditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventAuditor{bus: bus, logger: logger}
}

// Start subscribes once the bus is ready and blocks until ctx is done.
func (a *EventAuditor) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-a.bus.Ready():
	}

	unsub, err := a.bus.Subscribe(EventSubjects, a.record)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer unsub()

	<-ctx.Done()
	return nil
}

func (a *EventAuditor) record(data []byte) {
	// Restore events carry no addresses, so only the header is decoded.
	var ev struct {
		Id    string            `json:"id"`
		Kind  game.ChangeKind   `json:"kind"`
		Slots []json.RawMessage `json:"slots"`
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		a.logger.Warn("unreadable change event", "error", err)
		return
	}
	a.logger.Info("inventory changed", "event", ev.Id, "kind", ev.Kind, "slots", len(ev.Slots))
}
