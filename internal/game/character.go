package game

// Character is the owner of equipment. A nil entry means the slot is
// unequipped; there is no separate "empty item" representation.
type Character struct {
	// Name is the character's display name
	Name string

	equipped [equipSlotCount]*Item
}

// NewCharacter creates a character with nothing equipped.
func NewCharacter(name string) *Character {
	return &Character{Name: name}
}

// Equipped returns the item in slot, or nil if unequipped.
func (c *Character) Equipped(slot EquipSlot) *Item {
	if slot < 0 || slot >= equipSlotCount {
		return nil
	}
	return c.equipped[slot]
}

// SetEquipped places item in slot. An empty item unequips the slot.
// Returns false for an unknown slot.
func (c *Character) SetEquipped(slot EquipSlot, item *Item) bool {
	if slot < 0 || slot >= equipSlotCount {
		return false
	}
	c.equipped[slot] = normalize(item)
	return true
}

// Equipment returns the occupied slots. Unequipped slots have no key.
func (c *Character) Equipment() map[EquipSlot]*Item {
	out := make(map[EquipSlot]*Item)
	for i, it := range c.equipped {
		if it != nil {
			out[EquipSlot(i)] = it
		}
	}
	return out
}

// Stats is the combat contribution of everything equipped.
type Stats struct {
	Damage  int
	Defense int
	Weight  float64
}

// Stats sums damage, defense and weight over equipped items.
func (c *Character) Stats() Stats {
	var s Stats
	for _, it := range c.equipped {
		if it == nil {
			continue
		}
		s.Damage += it.Damage
		s.Defense += it.Defense
		s.Weight += it.Weight
	}
	return s
}
