package game

import (
	"fmt"
	"strings"
)

// CollectionKind identifies one of the addressable slot containers.
type CollectionKind int

const (
	CollectionUnknown CollectionKind = iota
	CollectionInventory
	CollectionQuickAccess
	CollectionCraftGrid
	CollectionEquipment
	CollectionTrash
)

// Fixed capacities of the index-addressed collections.
const (
	InventoryCapacity   = 15
	QuickAccessCapacity = 2
	CraftGridCapacity   = 9
	TrashCapacity       = 1
)

var collectionNames = map[CollectionKind]string{
	CollectionInventory:   "inventory",
	CollectionQuickAccess: "quick_access",
	CollectionCraftGrid:   "craft_grid",
	CollectionEquipment:   "equipment",
	CollectionTrash:       "trash",
}

// ParseCollectionKind returns the kind named by s, or CollectionUnknown.
func ParseCollectionKind(s string) CollectionKind {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range collectionNames {
		if name == s {
			return k
		}
	}
	return CollectionUnknown
}

func (k CollectionKind) String() string {
	if name, ok := collectionNames[k]; ok {
		return name
	}
	return "unknown"
}

// Capacity returns the number of slots of an index-addressed collection.
// Equipment reports the number of equipment slots; unknown kinds report 0.
func (k CollectionKind) Capacity() int {
	switch k {
	case CollectionInventory:
		return InventoryCapacity
	case CollectionQuickAccess:
		return QuickAccessCapacity
	case CollectionCraftGrid:
		return CraftGridCapacity
	case CollectionTrash:
		return TrashCapacity
	case CollectionEquipment:
		return int(equipSlotCount)
	default:
		return 0
	}
}

func (k CollectionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *CollectionKind) UnmarshalText(text []byte) error {
	parsed := ParseCollectionKind(string(text))
	if parsed == CollectionUnknown {
		return fmt.Errorf("unknown collection: %s", text)
	}
	*k = parsed
	return nil
}

// SlotAddress locates a single slot. For equipment the index is the
// EquipSlot ordinal; trash is always index 0.
type SlotAddress struct {
	Kind  CollectionKind `json:"kind"`
	Index int            `json:"index"`
}

// At is shorthand for building a SlotAddress.
func At(kind CollectionKind, index int) SlotAddress {
	return SlotAddress{Kind: kind, Index: index}
}

// EquipAt addresses an equipment slot.
func EquipAt(slot EquipSlot) SlotAddress {
	return SlotAddress{Kind: CollectionEquipment, Index: int(slot)}
}

func (a SlotAddress) String() string {
	if a.Kind == CollectionEquipment {
		if s, ok := EquipSlotFromIndex(a.Index); ok {
			return fmt.Sprintf("equipment[%s]", s)
		}
	}
	return fmt.Sprintf("%s[%d]", a.Kind, a.Index)
}

// EquipSlot is a body location on a Character.
type EquipSlot int

const (
	EquipHead EquipSlot = iota
	EquipChest
	EquipLegs
	EquipWeapon
	EquipShield

	equipSlotCount
)

var equipSlotNames = [equipSlotCount]string{"head", "chest", "legs", "weapon", "shield"}

// EquipSlots lists every equipment slot in display order.
func EquipSlots() []EquipSlot {
	slots := make([]EquipSlot, equipSlotCount)
	for i := range slots {
		slots[i] = EquipSlot(i)
	}
	return slots
}

// EquipSlotFromIndex converts a slot-address index into an EquipSlot.
func EquipSlotFromIndex(i int) (EquipSlot, bool) {
	if i < 0 || i >= int(equipSlotCount) {
		return 0, false
	}
	return EquipSlot(i), true
}

// ParseEquipSlot returns the slot named by s.
func ParseEquipSlot(s string) (EquipSlot, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range equipSlotNames {
		if name == s {
			return EquipSlot(i), true
		}
	}
	return 0, false
}

// EquipSlotFor returns the natural slot for an equipment category.
func EquipSlotFor(c Category) (EquipSlot, bool) {
	switch c {
	case CategoryHelmet:
		return EquipHead, true
	case CategoryChestplate:
		return EquipChest, true
	case CategoryLeggings:
		return EquipLegs, true
	case CategoryWeapon:
		return EquipWeapon, true
	case CategoryShield:
		return EquipShield, true
	default:
		return 0, false
	}
}

func (s EquipSlot) String() string {
	if s < 0 || s >= equipSlotCount {
		return "unknown"
	}
	return equipSlotNames[s]
}
