package messaging

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Lifor121/SketchBlade-sub002/internal/game"
	"github.com/pixil98/go-testutil"
)

type recordingPublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return p.err
}

func TestNatsBroadcaster_Broadcast(t *testing.T) {
	tests := map[string]struct {
		event   game.ChangeEvent
		pubErr  error
		expKind game.ChangeKind
	}{
		"relocate event": {
			event: game.ChangeEvent{
				Id:          "ev-1",
				Kind:        game.ChangeRelocate,
				Source:      game.At(game.CollectionInventory, 0),
				Destination: game.At(game.CollectionCraftGrid, 2),
				Slots: []game.SlotChange{
					{Address: game.At(game.CollectionInventory, 0)},
					{Address: game.At(game.CollectionCraftGrid, 2), Item: game.NewItem("Wood", game.CategoryMaterial, 5)},
				},
			},
			expKind: game.ChangeRelocate,
		},
		"restore event without addresses": {
			event:   game.ChangeEvent{Id: "ev-2", Kind: game.ChangeRestore},
			expKind: game.ChangeRestore,
		},
		"publish failure is swallowed": {
			event:   game.ChangeEvent{Id: "ev-3", Kind: game.ChangeSwap},
			pubErr:  errors.New("bus down"),
			expKind: game.ChangeSwap,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			pub := &recordingPublisher{err: tt.pubErr}
			NewNatsBroadcaster(pub).Broadcast("abc-123", tt.event)

			if len(pub.subjects) != 1 {
				t.Fatalf("expected one publish, got %d", len(pub.subjects))
			}
			testutil.AssertEqual(t, "subject", pub.subjects[0], "inventory.event.abc-123")

			var got struct {
				Id   string          `json:"id"`
				Kind game.ChangeKind `json:"kind"`
			}
			if err := json.Unmarshal(pub.payloads[0], &got); err != nil {
				t.Fatalf("decoding payload: %v", err)
			}
			testutil.AssertEqual(t, "id", got.Id, tt.event.Id)
			testutil.AssertEqual(t, "kind", got.Kind, tt.expKind)
		})
	}
}
