package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/Lifor121/SketchBlade-sub002/internal/display"
	"github.com/Lifor121/SketchBlade-sub002/internal/game"
	"github.com/Lifor121/SketchBlade-sub002/internal/save"
)

// Session is one loaded game. The engine itself is single-threaded, so every
// operation takes the session lock.
type Session struct {
	id string

	mu     sync.Mutex
	inv    *game.Inventory
	ch     *game.Character
	engine *game.Engine
	dirty  bool

	observers game.Observers
}

func newSession(id string, inv *game.Inventory, ch *game.Character) *Session {
	s := &Session{
		id:  id,
		inv: inv,
		ch:  ch,
	}
	s.engine = game.NewEngine(game.WithNotifier(&s.observers))
	return s
}

// Id returns the session (and save file) identifier.
func (s *Session) Id() string {
	return s.id
}

// Subscribe registers n for every change to this session.
func (s *Session) Subscribe(n game.Notifier) func() {
	return s.observers.Subscribe(n)
}

// Move transfers an item between two slots.
func (s *Session) Move(src, dst game.SlotAddress) (game.ChangeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.engine.Transfer(src, dst, s.inv, s.ch)
	if err == nil {
		s.dirty = true
	}
	return ev, err
}

// ValidateMove previews Move without changing anything.
func (s *Session) ValidateMove(src, dst game.SlotAddress) game.ValidationResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return game.ValidateTransfer(src, dst, s.inv, s.ch)
}

// CanDropOn is the cheap drag-and-drop pre-check for the item at src.
func (s *Session) CanDropOn(src, dst game.SlotAddress) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.itemAt(src)
	if err != nil || item == nil {
		return false
	}
	return game.CanDropOn(src.Kind, dst.Kind, item)
}

// Equip wears the main-inventory item at index.
func (s *Session) Equip(index int) (game.ChangeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.engine.Equip(s.inv, s.ch, index)
	if err == nil {
		s.dirty = true
	}
	return ev, err
}

// Unequip returns the item in slot to the main inventory.
func (s *Session) Unequip(slot game.EquipSlot) (game.ChangeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.engine.Unequip(s.inv, s.ch, slot)
	if err == nil {
		s.dirty = true
	}
	return ev, err
}

// Give adds item to the main inventory and returns how many did not fit.
func (s *Session) Give(item *game.Item) int {
	if item.IsEmpty() {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	left := s.inv.AddItem(item)
	if left < item.StackSize {
		s.dirty = true
		s.engine.Restored()
	}
	return left
}

// ClearCraftGrid returns the crafting grid to the main inventory and reports
// how many items stayed behind for lack of room.
func (s *Session) ClearCraftGrid() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := craftTotal(s.inv)
	left := 0
	for _, it := range s.inv.ClearCraftGrid() {
		left += it.StackSize
	}
	if left < before {
		s.dirty = true
		s.engine.Restored()
	}
	return left
}

// SpendGold deducts amount from the gold counter.
func (s *Session) SpendGold(amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inv.SpendGold(amount); err != nil {
		return err
	}
	if amount > 0 {
		s.dirty = true
	}
	return nil
}

// Count totals the stacks named name outside equipment and trash.
func (s *Session) Count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inv.Count(name)
}

// Check runs the consistency scans over inventory and equipment.
func (s *Session) Check() game.ValidationResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := game.ValidateInventory(s.inv)
	eq := game.ValidateEquipment(s.ch)
	res.Warnings = append(res.Warnings, eq.Warnings...)
	return res
}

// Show renders the current state as text.
func (s *Session) Show() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return display.RenderInventory(s.inv, s.ch)
}

// Item returns a copy of the item at addr, or nil.
func (s *Session) Item(addr game.SlotAddress) (*game.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.itemAt(addr)
	return it.Clone(), err
}

// Gold returns the current gold counter.
func (s *Session) Gold() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inv.Gold
}

// snapshot encodes the session and clears the dirty flag. The flag is
// restored by the caller if writing fails.
func (s *Session) snapshot(force bool) (*save.Game, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty && !force {
		return nil, false, nil
	}

	g, err := save.Encode(s.inv, s.ch)
	if err != nil {
		return nil, false, fmt.Errorf("encoding session %s: %w", s.id, err)
	}
	if err := g.Stamp(time.Now()); err != nil {
		return nil, false, err
	}
	s.dirty = false
	return g, true, nil
}

func (s *Session) markDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
}

func craftTotal(inv *game.Inventory) int {
	total := 0
	for _, it := range inv.Craft.Items() {
		if it != nil {
			total += it.StackSize
		}
	}
	return total
}

// itemAt must be called with the lock held.
func (s *Session) itemAt(addr game.SlotAddress) (*game.Item, error) {
	if addr.Kind == game.CollectionEquipment {
		slot, ok := game.EquipSlotFromIndex(addr.Index)
		if !ok {
			return nil, fmt.Errorf("there is no equipment slot %d", addr.Index)
		}
		return s.ch.Equipped(slot), nil
	}
	c := s.inv.Collection(addr.Kind)
	if c == nil {
		return nil, fmt.Errorf("unknown collection %q", addr.Kind)
	}
	if !game.IsValidIndex(addr.Kind, addr.Index) {
		return nil, fmt.Errorf("slot %d does not exist in %s", addr.Index, addr.Kind)
	}
	return c.GetAt(addr.Index), nil
}
