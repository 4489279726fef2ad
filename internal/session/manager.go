package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Lifor121/SketchBlade-sub002/internal/game"
	"github.com/Lifor121/SketchBlade-sub002/internal/save"
	"github.com/Lifor121/SketchBlade-sub002/internal/storage"
	"github.com/google/uuid"
)

// Broadcaster forwards a session's change events to remote observers.
type Broadcaster interface {
	Broadcast(sessionId string, ev game.ChangeEvent)
}

// StartingItem is granted to every new game.
type StartingItem struct {
	Item  string
	Count int
}

// Manager owns every loaded session and persists them through the save
// store.
type Manager struct {
	saves   storage.Storer[*save.Game]
	catalog storage.Storer[*game.ItemDefinition]

	broadcaster   Broadcaster
	startingGold  int
	startingItems []StartingItem

	mu       sync.Mutex
	sessions map[string]*Session
}

type ManagerOpt func(*Manager)

// WithBroadcaster publishes every session's changes through b.
func WithBroadcaster(b Broadcaster) ManagerOpt {
	return func(m *Manager) {
		m.broadcaster = b
	}
}

// WithStartingKit sets what a new game begins with.
func WithStartingKit(gold int, items []StartingItem) ManagerOpt {
	return func(m *Manager) {
		m.startingGold = gold
		m.startingItems = items
	}
}

func NewManager(saves storage.Storer[*save.Game], catalog storage.Storer[*game.ItemDefinition], opts ...ManagerOpt) *Manager {
	m := &Manager{
		saves:    saves,
		catalog:  catalog,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new game for a character and saves it immediately.
func (m *Manager) Create(name string) (*Session, error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	inv := game.NewInventory()
	inv.AddGold(m.startingGold)
	for _, si := range m.startingItems {
		item, err := m.Spawn(si.Item, si.Count)
		if err != nil {
			return nil, fmt.Errorf("starting kit: %w", err)
		}
		if left := inv.AddItem(item); left > 0 {
			slog.Warn("starting kit does not fit", "item", si.Item, "leftover", left)
		}
	}

	s := m.track(uuid.New().String(), inv, game.NewCharacter(name))
	s.markDirty()
	if err := m.save(s, true); err != nil {
		m.forget(s.Id())
		return nil, err
	}
	return s, nil
}

// Open returns the loaded session for id, loading it from the save store if
// needed. Damaged slots are dropped with a warning rather than failing.
func (m *Manager) Open(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return s, nil
	}

	g := m.saves.Get(id)
	if g == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	if at, ok := g.SavedAt(); ok {
		slog.Debug("loading session", "session", id, "saved_at", at)
	}

	inv, ch, warnings := g.Decode()
	for _, w := range warnings {
		slog.Warn("damaged save entry", "session", id, "warning", w)
	}
	if res := game.ValidateInventory(inv); res.HasWarnings() {
		for _, w := range res.Warnings {
			slog.Warn("inconsistent save", "session", id, "warning", w)
		}
	}

	return m.track(id, inv, ch), nil
}

// Spawn creates count items from the catalog definition named id.
func (m *Manager) Spawn(id string, count int) (*game.Item, error) {
	if m.catalog == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	def := m.catalog.Get(id)
	if def == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	return def.Spawn(count), nil
}

// Give spawns count of the catalog item into a session and returns how
// many did not fit.
func (m *Manager) Give(id, item string, count int) (int, error) {
	s, err := m.Open(id)
	if err != nil {
		return 0, err
	}
	it, err := m.Spawn(item, count)
	if err != nil {
		return 0, err
	}
	return s.Give(it), nil
}

// Save writes a session to the store whether or not it changed.
func (m *Manager) Save(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return m.save(s, true)
}

// Tick writes every session that changed since it was last saved.
func (m *Manager) Tick(ctx context.Context) error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		if err := m.save(s, false); err != nil {
			// Keep going; the session stays dirty and is retried next tick.
			slog.ErrorContext(ctx, "autosave failed", "session", s.Id(), "error", err)
		}
	}
	return nil
}

func (m *Manager) save(s *Session, force bool) error {
	g, ok, err := s.snapshot(force)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := m.saves.Save(s.Id(), g); err != nil {
		s.markDirty()
		return fmt.Errorf("saving session %s: %w", s.Id(), err)
	}
	return nil
}

func (m *Manager) track(id string, inv *game.Inventory, ch *game.Character) *Session {
	s := newSession(id, inv, ch)
	if m.broadcaster != nil {
		b := m.broadcaster
		s.Subscribe(game.NotifierFunc(func(ev game.ChangeEvent) {
			b.Broadcast(id, ev)
		}))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing
	}
	m.sessions[id] = s
	return s
}

func (m *Manager) forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
