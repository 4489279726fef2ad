package game

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pixil98/go-testutil"
)

type placed struct {
	addr SlotAddress
	item *Item
}

func newTestState(items ...placed) (*Inventory, *Character) {
	inv := NewInventory()
	ch := NewCharacter("Tester")
	for _, p := range items {
		if p.addr.Kind == CollectionEquipment {
			ch.SetEquipped(EquipSlot(p.addr.Index), p.item)
			continue
		}
		inv.Collection(p.addr.Kind).SetAt(p.addr.Index, p.item)
	}
	return inv, ch
}

func itemAt(inv *Inventory, ch *Character, addr SlotAddress) *Item {
	if addr.Kind == CollectionEquipment {
		return ch.Equipped(EquipSlot(addr.Index))
	}
	return inv.Collection(addr.Kind).GetAt(addr.Index)
}

func quietEngine(opts ...EngineOpt) *Engine {
	opts = append([]EngineOpt{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewEngine(opts...)
}

type recordingNotifier struct {
	events []ChangeEvent
}

func (r *recordingNotifier) Notify(ev ChangeEvent) {
	r.events = append(r.events, ev)
}

type expSlot struct {
	name  string
	count int
}

func TestEngine_Move(t *testing.T) {
	inv0 := At(CollectionInventory, 0)
	inv1 := At(CollectionInventory, 1)
	quick0 := At(CollectionQuickAccess, 0)
	craft4 := At(CollectionCraftGrid, 4)
	trash := At(CollectionTrash, 0)
	weapon := EquipAt(EquipWeapon)
	head := EquipAt(EquipHead)

	tests := map[string]struct {
		items   []placed
		src     SlotAddress
		dst     SlotAddress
		expOk   bool
		expKind ChangeKind
		exp     map[SlotAddress]expSlot
	}{
		"relocate into empty slot": {
			items:   []placed{{inv0, material("Wood", 5)}},
			src:     inv0,
			dst:     inv1,
			expOk:   true,
			expKind: ChangeRelocate,
			exp:     map[SlotAddress]expSlot{inv0: {}, inv1: {"Wood", 5}},
		},
		"merge with overflow": {
			items:   []placed{{inv0, material("Wood", 5)}, {inv1, material("Wood", 97)}},
			src:     inv0,
			dst:     inv1,
			expOk:   true,
			expKind: ChangeMerge,
			exp:     map[SlotAddress]expSlot{inv0: {"Wood", 3}, inv1: {"Wood", 99}},
		},
		"merge caps at limit": {
			items:   []placed{{inv0, material("Wood", 80)}, {inv1, material("Wood", 30)}},
			src:     inv0,
			dst:     inv1,
			expOk:   true,
			expKind: ChangeMerge,
			exp:     map[SlotAddress]expSlot{inv0: {"Wood", 11}, inv1: {"Wood", 99}},
		},
		"merge completely": {
			items:   []placed{{inv0, material("Wood", 5)}, {craft4, material("Wood", 10)}},
			src:     inv0,
			dst:     craft4,
			expOk:   true,
			expKind: ChangeMerge,
			exp:     map[SlotAddress]expSlot{inv0: {}, craft4: {"Wood", 15}},
		},
		"swap different items": {
			items:   []placed{{inv0, NewItem("Sword", CategoryWeapon, 1)}, {inv1, NewItem("Axe", CategoryWeapon, 1)}},
			src:     inv0,
			dst:     inv1,
			expOk:   true,
			expKind: ChangeSwap,
			exp:     map[SlotAddress]expSlot{inv0: {"Axe", 1}, inv1: {"Sword", 1}},
		},
		"consumable to quick access": {
			items:   []placed{{inv0, NewItem("Potion", CategoryConsumable, 3)}},
			src:     inv0,
			dst:     quick0,
			expOk:   true,
			expKind: ChangeRelocate,
			exp:     map[SlotAddress]expSlot{inv0: {}, quick0: {"Potion", 3}},
		},
		"material to equipment is rejected": {
			items: []placed{{inv0, material("Wood", 5)}},
			src:   inv0,
			dst:   weapon,
			exp:   map[SlotAddress]expSlot{inv0: {"Wood", 5}, weapon: {}},
		},
		"material to quick access is rejected": {
			items: []placed{{inv0, material("Wood", 5)}},
			src:   inv0,
			dst:   quick0,
			exp:   map[SlotAddress]expSlot{inv0: {"Wood", 5}, quick0: {}},
		},
		"equip weapon": {
			items:   []placed{{inv0, NewItem("Sword", CategoryWeapon, 1)}},
			src:     inv0,
			dst:     weapon,
			expOk:   true,
			expKind: ChangeRelocate,
			exp:     map[SlotAddress]expSlot{inv0: {}, weapon: {"Sword", 1}},
		},
		"unequip into inventory": {
			items:   []placed{{head, NewItem("Cap", CategoryHelmet, 1)}},
			src:     head,
			dst:     inv1,
			expOk:   true,
			expKind: ChangeRelocate,
			exp:     map[SlotAddress]expSlot{head: {}, inv1: {"Cap", 1}},
		},
		"swap that would put equipment in quick access is rejected": {
			items: []placed{{quick0, NewItem("Potion", CategoryConsumable, 1)}, {inv0, NewItem("Sword", CategoryWeapon, 1)}},
			src:   quick0,
			dst:   inv0,
			exp:   map[SlotAddress]expSlot{quick0: {"Potion", 1}, inv0: {"Sword", 1}},
		},
		"trash overwrites previous item": {
			items:   []placed{{inv0, material("Wood", 5)}, {trash, material("Stone", 2)}},
			src:     inv0,
			dst:     trash,
			expOk:   true,
			expKind: ChangeDiscard,
			exp:     map[SlotAddress]expSlot{inv0: {}, trash: {"Wood", 5}},
		},
		"trash never stacks": {
			items:   []placed{{inv0, material("Wood", 5)}, {trash, material("Wood", 2)}},
			src:     inv0,
			dst:     trash,
			expOk:   true,
			expKind: ChangeDiscard,
			exp:     map[SlotAddress]expSlot{inv0: {}, trash: {"Wood", 5}},
		},
		"empty source": {
			src: inv0,
			dst: inv1,
			exp: map[SlotAddress]expSlot{inv0: {}, inv1: {}},
		},
		"same slot": {
			items: []placed{{inv0, material("Wood", 5)}},
			src:   inv0,
			dst:   inv0,
			exp:   map[SlotAddress]expSlot{inv0: {"Wood", 5}},
		},
		"negative index": {
			items: []placed{{inv0, material("Wood", 5)}},
			src:   inv0,
			dst:   At(CollectionInventory, -1),
			exp:   map[SlotAddress]expSlot{inv0: {"Wood", 5}},
		},
		"index past capacity": {
			items: []placed{{inv0, material("Wood", 5)}},
			src:   inv0,
			dst:   At(CollectionCraftGrid, 9),
			exp:   map[SlotAddress]expSlot{inv0: {"Wood", 5}},
		},
		"unknown equipment slot": {
			items: []placed{{inv0, NewItem("Sword", CategoryWeapon, 1)}},
			src:   inv0,
			dst:   At(CollectionEquipment, 5),
			exp:   map[SlotAddress]expSlot{inv0: {"Sword", 1}},
		},
		"unknown collection": {
			items: []placed{{inv0, material("Wood", 5)}},
			src:   inv0,
			dst:   At(CollectionUnknown, 0),
			exp:   map[SlotAddress]expSlot{inv0: {"Wood", 5}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			inv, ch := newTestState(tt.items...)
			rec := &recordingNotifier{}
			e := quietEngine(WithNotifier(rec))

			ev, err := e.Transfer(tt.src, tt.dst, inv, ch)
			testutil.AssertEqual(t, "ok", err == nil, tt.expOk)

			for addr, want := range tt.exp {
				got := itemAt(inv, ch, addr)
				if want.name == "" {
					if got != nil {
						t.Errorf("%s: expected empty, got %s", addr, got)
					}
					continue
				}
				if got == nil {
					t.Errorf("%s: expected %s x%d, got empty", addr, want.name, want.count)
					continue
				}
				testutil.AssertEqual(t, addr.String()+" name", got.Name, want.name)
				testutil.AssertEqual(t, addr.String()+" count", got.StackSize, want.count)
			}

			if !tt.expOk {
				var re *RuleError
				if !errors.As(err, &re) {
					t.Errorf("expected a rule error, got %v", err)
				}
				testutil.AssertEqual(t, "events", len(rec.events), 0)
				return
			}

			testutil.AssertEqual(t, "kind", ev.Kind, tt.expKind)
			testutil.AssertEqual(t, "events", len(rec.events), 1)
			testutil.AssertEqual(t, "event id", rec.events[0].Id, ev.Id)
			testutil.AssertEqual(t, "touched slots", len(ev.Slots), 2)
			testutil.AssertEqual(t, "source slot", ev.Slots[0].Address, tt.src)
			testutil.AssertEqual(t, "destination slot", ev.Slots[1].Address, tt.dst)
		})
	}
}

func TestEngine_Move_Bool(t *testing.T) {
	inv, ch := newTestState(placed{At(CollectionInventory, 0), material("Wood", 5)})
	e := quietEngine()

	testutil.AssertEqual(t, "valid move", e.Move(At(CollectionInventory, 0), At(CollectionInventory, 1), inv, ch), true)
	testutil.AssertEqual(t, "empty source", e.Move(At(CollectionInventory, 0), At(CollectionInventory, 2), inv, ch), false)
}

func TestEngine_Move_MissingState(t *testing.T) {
	e := quietEngine()

	_, err := e.Transfer(At(CollectionInventory, 0), At(CollectionInventory, 1), nil, nil)
	testutil.AssertEqual(t, "no inventory", errors.Is(err, ErrNoInventory), true)

	inv, _ := newTestState(placed{At(CollectionInventory, 0), NewItem("Sword", CategoryWeapon, 1)})
	_, err = e.Transfer(At(CollectionInventory, 0), EquipAt(EquipWeapon), inv, nil)
	testutil.AssertEqual(t, "no character", errors.Is(err, ErrNoCharacter), true)
	testutil.AssertEqual(t, "sword kept", inv.Main.GetAt(0).Name, "Sword")
}

func TestEngine_Move_UnequipRemovesKey(t *testing.T) {
	inv, ch := newTestState(placed{EquipAt(EquipChest), NewItem("Mail", CategoryChestplate, 1)})
	e := quietEngine()

	_, hasChest := ch.Equipment()[EquipChest]
	testutil.AssertEqual(t, "equipped before", hasChest, true)

	ok := e.Move(EquipAt(EquipChest), At(CollectionInventory, 0), inv, ch)
	testutil.AssertEqual(t, "ok", ok, true)

	_, hasChest = ch.Equipment()[EquipChest]
	testutil.AssertEqual(t, "equipped after", hasChest, false)
	testutil.AssertEqual(t, "equipment size", len(ch.Equipment()), 0)
}

func TestEngine_Move_PanickingNotifier(t *testing.T) {
	inv, ch := newTestState(placed{At(CollectionInventory, 0), material("Wood", 5)})
	e := quietEngine(WithNotifier(NotifierFunc(func(ChangeEvent) {
		panic("observer exploded")
	})))

	ok := e.Move(At(CollectionInventory, 0), At(CollectionInventory, 1), inv, ch)
	testutil.AssertEqual(t, "ok", ok, true)
	testutil.AssertEqual(t, "moved", inv.Main.GetAt(1).StackSize, 5)
	if inv.Main.GetAt(0) != nil {
		t.Error("expected source to be empty")
	}
}

func TestEngine_Equip(t *testing.T) {
	tests := map[string]struct {
		items     []placed
		index     int
		expOk     bool
		expSlot   EquipSlot
		expName   string
		expInSlot string
	}{
		"equip into natural slot": {
			items:   []placed{{At(CollectionInventory, 2), NewItem("Cap", CategoryHelmet, 1)}},
			index:   2,
			expOk:   true,
			expSlot: EquipHead,
			expName: "Cap",
		},
		"swap with worn piece": {
			items: []placed{
				{At(CollectionInventory, 0), NewItem("Axe", CategoryWeapon, 1)},
				{EquipAt(EquipWeapon), NewItem("Sword", CategoryWeapon, 1)},
			},
			index:     0,
			expOk:     true,
			expSlot:   EquipWeapon,
			expName:   "Axe",
			expInSlot: "Sword",
		},
		"not equipment": {
			items: []placed{{At(CollectionInventory, 0), material("Wood", 1)}},
			index: 0,
		},
		"empty slot": {
			index: 4,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			inv, ch := newTestState(tt.items...)
			_, err := quietEngine().Equip(inv, ch, tt.index)
			testutil.AssertEqual(t, "ok", err == nil, tt.expOk)
			if !tt.expOk {
				return
			}
			testutil.AssertEqual(t, "equipped", ch.Equipped(tt.expSlot).Name, tt.expName)
			left := inv.Main.GetAt(tt.index)
			if tt.expInSlot == "" {
				if left != nil {
					t.Errorf("expected empty inventory slot, got %s", left)
				}
				return
			}
			testutil.AssertEqual(t, "returned", left.Name, tt.expInSlot)
		})
	}
}

func TestEngine_Unequip(t *testing.T) {
	t.Run("moves to first empty slot", func(t *testing.T) {
		inv, ch := newTestState(
			placed{At(CollectionInventory, 0), material("Wood", 1)},
			placed{EquipAt(EquipShield), NewItem("Buckler", CategoryShield, 1)},
		)
		_, err := quietEngine().Unequip(inv, ch, EquipShield)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "inventory slot", inv.Main.GetAt(1).Name, "Buckler")
		if ch.Equipped(EquipShield) != nil {
			t.Error("expected shield slot to be empty")
		}
	})

	t.Run("nothing equipped", func(t *testing.T) {
		inv, ch := newTestState()
		_, err := quietEngine().Unequip(inv, ch, EquipLegs)
		testutil.AssertErrorContains(t, err, "Nothing is equipped")
	})

	t.Run("inventory full", func(t *testing.T) {
		inv, ch := newTestState(placed{EquipAt(EquipLegs), NewItem("Greaves", CategoryLeggings, 1)})
		for i := 0; i < InventoryCapacity; i++ {
			inv.Main.SetAt(i, NewItem("Sword", CategoryWeapon, 1))
		}
		_, err := quietEngine().Unequip(inv, ch, EquipLegs)
		testutil.AssertErrorContains(t, err, "no room")
		testutil.AssertEqual(t, "still worn", ch.Equipped(EquipLegs).Name, "Greaves")
	})
}

func TestEngine_Restored(t *testing.T) {
	rec := &recordingNotifier{}
	quietEngine(WithNotifier(rec)).Restored()

	testutil.AssertEqual(t, "events", len(rec.events), 1)
	testutil.AssertEqual(t, "kind", rec.events[0].Kind, ChangeRestore)
}
