package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lifor121/SketchBlade-sub002/internal/game"
	"github.com/Lifor121/SketchBlade-sub002/internal/session"
)

const (
	requestPrefix = "inventory.request."
	// RequestSubjects matches every request the router answers.
	RequestSubjects = requestPrefix + ">"
	// NewGameSubject starts a new game.
	NewGameSubject = requestPrefix + "new"
)

// RequestSubject is where op requests for a session are sent.
func RequestSubject(sessionId, op string) string {
	return fmt.Sprintf("%s%s.%s", requestPrefix, sessionId, op)
}

// Responder is the request/reply side of the message bus.
type Responder interface {
	Ready() <-chan struct{}
	Respond(subject string, handler RequestHandler) (func(), error)
}

type moveRequest struct {
	Source      game.SlotAddress `json:"source"`
	Destination game.SlotAddress `json:"destination"`
}

type equipRequest struct {
	Index int `json:"index"`
}

type unequipRequest struct {
	Slot string `json:"slot"`
}

type giveRequest struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type spendRequest struct {
	Amount int `json:"amount"`
}

type countRequest struct {
	Name string `json:"name"`
}

type newGameRequest struct {
	Character string `json:"character"`
}

// Reply is the body of every response. Ok=false carries a Reason that can be
// shown to the player.
type Reply struct {
	Ok       bool                   `json:"ok"`
	Reason   string                 `json:"reason,omitempty"`
	Event    *game.ChangeEvent      `json:"event,omitempty"`
	Text     string                 `json:"text,omitempty"`
	Leftover int                    `json:"leftover,omitempty"`
	Count    int                    `json:"count,omitempty"`
	Gold     int                    `json:"gold,omitempty"`
	Session  string                 `json:"session,omitempty"`
	Result   *game.ValidationResult `json:"result,omitempty"`
}

// Router answers inventory requests arriving on the bus.
type Router struct {
	bus      Responder
	sessions *session.Manager
}

func NewRouter(bus Responder, sessions *session.Manager) *Router {
	return &Router{
		bus:      bus,
		sessions: sessions,
	}
}

// Start subscribes once the bus is ready and blocks until ctx is done.
func (r *Router) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-r.bus.Ready():
	}

	unsub, err := r.bus.Respond(RequestSubjects, r.Handle)
	if err != nil {
		return fmt.Errorf("subscribing to requests: %w", err)
	}
	defer unsub()

	slog.InfoContext(ctx, "answering inventory requests", "subject", RequestSubjects)
	<-ctx.Done()
	return nil
}

// Handle answers one request. It never fails; errors become a Reply with
// Ok=false.
func (r *Router) Handle(subject string, data []byte) []byte {
	reply := r.dispatch(subject, data)
	out, err := json.Marshal(reply)
	if err != nil {
		slog.Error("failed to encode reply", "subject", subject, "error", err)
		return []byte(`{"ok":false,"reason":"internal error"}`)
	}
	return out
}

func (r *Router) dispatch(subject string, data []byte) Reply {
	if subject == NewGameSubject {
		var req newGameRequest
		if err := decode(data, &req); err != nil {
			return failed(err)
		}
		s, err := r.sessions.Create(req.Character)
		if err != nil {
			return failed(err)
		}
		return Reply{Ok: true, Session: s.Id()}
	}

	rest, ok := strings.CutPrefix(subject, requestPrefix)
	if !ok {
		return Reply{Reason: fmt.Sprintf("unknown subject %q", subject)}
	}
	id, op, ok := strings.Cut(rest, ".")
	if !ok || id == "" || op == "" {
		return Reply{Reason: fmt.Sprintf("malformed subject %q", subject)}
	}

	// give loads the session itself.
	if op == "give" {
		var req giveRequest
		if err := decode(data, &req); err != nil {
			return failed(err)
		}
		left, err := r.sessions.Give(id, req.Item, req.Count)
		if err != nil {
			return failed(err)
		}
		return Reply{Ok: true, Session: id, Leftover: left}
	}

	s, err := r.sessions.Open(id)
	if err != nil {
		return failed(err)
	}

	switch op {
	case "move":
		var req moveRequest
		if err := decode(data, &req); err != nil {
			return failed(err)
		}
		return changed(s.Move(req.Source, req.Destination))

	case "validate":
		var req moveRequest
		if err := decode(data, &req); err != nil {
			return failed(err)
		}
		res := s.ValidateMove(req.Source, req.Destination)
		return Reply{Ok: res.Valid, Reason: res.Reason, Result: &res}

	case "drop-check":
		var req moveRequest
		if err := decode(data, &req); err != nil {
			return failed(err)
		}
		if !s.CanDropOn(req.Source, req.Destination) {
			return Reply{Reason: "That can't go there."}
		}
		return Reply{Ok: true}

	case "equip":
		var req equipRequest
		if err := decode(data, &req); err != nil {
			return failed(err)
		}
		return changed(s.Equip(req.Index))

	case "unequip":
		var req unequipRequest
		if err := decode(data, &req); err != nil {
			return failed(err)
		}
		slot, ok := game.ParseEquipSlot(req.Slot)
		if !ok {
			return Reply{Reason: fmt.Sprintf("There is no %q slot.", req.Slot)}
		}
		return changed(s.Unequip(slot))

	case "clear-craft":
		return Reply{Ok: true, Session: id, Leftover: s.ClearCraftGrid()}

	case "spend":
		var req spendRequest
		if err := decode(data, &req); err != nil {
			return failed(err)
		}
		if err := s.SpendGold(req.Amount); err != nil {
			if errors.Is(err, game.ErrNotEnoughGold) {
				return Reply{Reason: "You don't have enough gold.", Gold: s.Gold()}
			}
			return failed(err)
		}
		return Reply{Ok: true, Gold: s.Gold()}

	case "count":
		var req countRequest
		if err := decode(data, &req); err != nil {
			return failed(err)
		}
		return Reply{Ok: true, Count: s.Count(req.Name)}

	case "show":
		text, err := s.Show()
		if err != nil {
			return failed(err)
		}
		return Reply{Ok: true, Text: text}

	case "check":
		res := s.Check()
		return Reply{Ok: res.Valid, Reason: res.Reason, Result: &res}

	case "save":
		if err := r.sessions.Save(id); err != nil {
			return failed(err)
		}
		return Reply{Ok: true, Session: id}

	default:
		return Reply{Reason: fmt.Sprintf("unknown operation %q", op)}
	}
}

func decode(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("malformed request: %w", err)
	}
	return nil
}

func changed(ev game.ChangeEvent, err error) Reply {
	if err != nil {
		return failed(err)
	}
	return Reply{Ok: true, Event: &ev}
}

// failed turns err into a reply. Rule violations are shown as written;
// faults are logged and reported generically.
func failed(err error) Reply {
	var re *game.RuleError
	switch {
	case errors.As(err, &re):
		return Reply{Reason: re.Message}
	case errors.Is(err, game.ErrInternal):
		slog.Error("request failed", "error", err)
		return Reply{Reason: "Something went wrong. Nothing was changed."}
	default:
		return Reply{Reason: err.Error()}
	}
}
