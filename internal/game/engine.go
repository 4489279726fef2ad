package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ErrInternal is returned when a transfer aborted on an unexpected fault.
var ErrInternal = errors.New("internal error during transfer")

// Engine moves items between slots. It is not safe for concurrent use on the
// same Inventory; callers serialize access.
type Engine struct {
	notifier Notifier
	logger   *slog.Logger
}

// EngineOpt configures an Engine.
type EngineOpt func(*Engine)

// WithNotifier sets who is told about committed changes.
func WithNotifier(n Notifier) EngineOpt {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) EngineOpt {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates a transfer engine.
func NewEngine(opts ...EngineOpt) *Engine {
	e := &Engine{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Move transfers the item at src to dst and reports whether anything changed.
// On false the inventory and character are untouched.
func (e *Engine) Move(src, dst SlotAddress, inv *Inventory, ch *Character) bool {
	_, err := e.Transfer(src, dst, inv, ch)
	return err == nil
}

// Transfer is Move with the reason for a rejection. A *RuleError means the
// request broke a placement rule; anything else is a fault.
func (e *Engine) Transfer(src, dst SlotAddress, inv *Inventory, ch *Character) (ev ChangeEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("transfer aborted", "source", src.String(), "destination", dst.String(), "panic", r)
			ev, err = ChangeEvent{}, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	p, err := planTransfer(src, dst, inv, ch)
	if err != nil {
		e.logger.Debug("transfer rejected", "source", src.String(), "destination", dst.String(), "error", err)
		return ChangeEvent{}, err
	}

	// Both new slot values are computed; write them together.
	p.from.set(p.newSource)
	p.to.set(p.newDest)

	ev = newChangeEvent(p.kind, src, dst, p.newSource, p.newDest)
	e.notify(ev)
	return ev, nil
}

// Equip moves the main-inventory item at index into its natural equipment
// slot. A previously equipped piece swaps back into the vacated slot.
func (e *Engine) Equip(inv *Inventory, ch *Character, index int) (ChangeEvent, error) {
	if inv == nil {
		return ChangeEvent{}, ErrNoInventory
	}
	item := inv.Main.GetAt(index)
	if item == nil {
		return ChangeEvent{}, NewRuleError("There is nothing there to equip.")
	}
	slot, ok := EquipSlotFor(item.Category)
	if !ok {
		return ChangeEvent{}, NewRuleError(fmt.Sprintf("You can't equip %s.", item.Name))
	}
	return e.Transfer(At(CollectionInventory, index), EquipAt(slot), inv, ch)
}

// Unequip moves the item in slot into the first empty main-inventory slot.
func (e *Engine) Unequip(inv *Inventory, ch *Character, slot EquipSlot) (ChangeEvent, error) {
	if inv == nil {
		return ChangeEvent{}, ErrNoInventory
	}
	if ch == nil {
		return ChangeEvent{}, ErrNoCharacter
	}
	item := ch.Equipped(slot)
	if item == nil {
		return ChangeEvent{}, NewRuleError(fmt.Sprintf("Nothing is equipped in your %s slot.", slot))
	}
	idx := inv.Main.FirstEmpty()
	if idx < 0 {
		return ChangeEvent{}, NewRuleError(fmt.Sprintf("You have no room to unequip %s.", item.Name))
	}
	return e.Transfer(EquipAt(slot), At(CollectionInventory, idx), inv, ch)
}

// Restored announces that the whole aggregate changed, e.g. after loading.
func (e *Engine) Restored() {
	e.notify(ChangeEvent{Id: uuid.New().String(), Kind: ChangeRestore})
}

// notify delivers ev. The change is already committed, so a failing
// observer is logged and otherwise ignored.
func (e *Engine) notify(ev ChangeEvent) {
	if e.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("change notification failed", "event", ev.Id, "panic", r)
		}
	}()
	e.notifier.Notify(ev)
}

// slotRef reads and writes one resolved slot.
type slotRef struct {
	get func() *Item
	set func(*Item)
}

type transferPlan struct {
	kind      ChangeKind
	from, to  slotRef
	newSource *Item
	newDest   *Item
}

// planTransfer runs every precondition and computes the resulting slot
// contents on copies. Nothing is written.
func planTransfer(src, dst SlotAddress, inv *Inventory, ch *Character) (*transferPlan, error) {
	if inv == nil {
		return nil, ErrNoInventory
	}
	if src.Index < 0 || dst.Index < 0 {
		return nil, NewRuleError("Slot indices must not be negative.")
	}
	if src == dst {
		return nil, NewRuleError("The item is already there.")
	}

	from, err := resolveSlot(src, inv, ch)
	if err != nil {
		return nil, err
	}
	item := from.get()
	if item.IsEmpty() {
		return nil, NewRuleError("There is nothing to move.")
	}

	if err := checkDestination(item, dst.Kind, dst.Index); err != nil {
		return nil, err
	}
	to, err := resolveSlot(dst, inv, ch)
	if err != nil {
		return nil, err
	}
	current := normalize(to.get())

	p := &transferPlan{from: from, to: to}
	switch {
	case dst.Kind == CollectionTrash:
		p.kind = ChangeDiscard
		p.newDest = item.Clone()

	case current != nil && CanStack(item, current):
		s, t := item.Clone(), current.Clone()
		Merge(s, t)
		p.kind = ChangeMerge
		p.newSource = normalize(s)
		p.newDest = t

	default:
		if current != nil && !CanPlace(current, src.Kind) {
			return nil, NewRuleError(fmt.Sprintf("%s can't be swapped into %s.", current.Name, describeKind(src.Kind)))
		}
		p.kind = ChangeRelocate
		if current != nil {
			p.kind = ChangeSwap
		}
		p.newSource = current.Clone()
		p.newDest = item.Clone()
	}

	return p, nil
}

// checkDestination applies the placement rules for putting item at
// (kind, index).
func checkDestination(item *Item, kind CollectionKind, index int) error {
	if item.IsEmpty() {
		return NewRuleError("There is nothing to move.")
	}
	if _, known := placementRules[kind]; !known {
		return NewRuleError(fmt.Sprintf("Unknown destination %q.", kind))
	}
	if !CanPlace(item, kind) {
		return NewRuleError(fmt.Sprintf("%s can't be placed in %s.", item.Name, describeKind(kind)))
	}
	if !IsValidIndex(kind, index) {
		return NewRuleError(fmt.Sprintf("Slot %d does not exist in %s.", index, describeKind(kind)))
	}
	if kind == CollectionEquipment {
		if _, ok := EquipSlotFromIndex(index); !ok {
			return NewRuleError(fmt.Sprintf("There is no equipment slot %d.", index))
		}
	}
	return nil
}

func resolveSlot(addr SlotAddress, inv *Inventory, ch *Character) (slotRef, error) {
	if addr.Kind == CollectionEquipment {
		if ch == nil {
			return slotRef{}, ErrNoCharacter
		}
		slot, ok := EquipSlotFromIndex(addr.Index)
		if !ok {
			return slotRef{}, NewRuleError(fmt.Sprintf("There is no equipment slot %d.", addr.Index))
		}
		return slotRef{
			get: func() *Item { return ch.Equipped(slot) },
			set: func(it *Item) { ch.SetEquipped(slot, it) },
		}, nil
	}

	c := inv.Collection(addr.Kind)
	if c == nil {
		return slotRef{}, NewRuleError(fmt.Sprintf("Unknown collection %q.", addr.Kind))
	}
	if !IsValidIndex(addr.Kind, addr.Index) {
		return slotRef{}, NewRuleError(fmt.Sprintf("Slot %d does not exist in %s.", addr.Index, describeKind(addr.Kind)))
	}
	return slotRef{
		get: func() *Item { return c.GetAt(addr.Index) },
		set: func(it *Item) { c.SetAt(addr.Index, it) },
	}, nil
}

func describeKind(k CollectionKind) string {
	switch k {
	case CollectionInventory:
		return "your inventory"
	case CollectionQuickAccess:
		return "the quick-access bar"
	case CollectionCraftGrid:
		return "the crafting grid"
	case CollectionEquipment:
		return "an equipment slot"
	case CollectionTrash:
		return "the trash"
	default:
		return k.String()
	}
}
