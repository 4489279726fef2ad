package game

import "fmt"

// Inventory owns every index-addressed slot collection plus the gold counter.
// It is created once per game session and mutated in place.
type Inventory struct {
	Main  *Collection
	Quick *Collection
	Craft *Collection
	Trash *Collection

	Gold int
}

// NewInventory creates an inventory with every slot empty.
func NewInventory() *Inventory {
	return &Inventory{
		Main:  NewCollection(CollectionInventory),
		Quick: NewCollection(CollectionQuickAccess),
		Craft: NewCollection(CollectionCraftGrid),
		Trash: NewCollection(CollectionTrash),
	}
}

// Collection returns the collection for kind. Equipment is owned by the
// Character, so it (and unknown kinds) return nil.
func (inv *Inventory) Collection(kind CollectionKind) *Collection {
	switch kind {
	case CollectionInventory:
		return inv.Main
	case CollectionQuickAccess:
		return inv.Quick
	case CollectionCraftGrid:
		return inv.Craft
	case CollectionTrash:
		return inv.Trash
	default:
		return nil
	}
}

// AddItem stores item in the main inventory, topping up existing stacks of
// the same kind before claiming the first empty slot. It returns how many
// items did not fit. The caller's item is not retained.
func (inv *Inventory) AddItem(item *Item) int {
	if item.IsEmpty() {
		return 0
	}
	left := item.StackSize

	if item.Stackable {
		for i := 0; i < inv.Main.Capacity() && left > 0; i++ {
			cur := inv.Main.GetAt(i)
			if !CanStack(item, cur) {
				continue
			}
			n := min(left, cur.SpaceLeft())
			if n == 0 {
				continue
			}
			next := cur.Clone()
			next.StackSize += n
			inv.Main.SetAt(i, next)
			left -= n
		}
	}

	for left > 0 {
		idx := inv.Main.FirstEmpty()
		if idx < 0 {
			break
		}
		placed := item.Clone()
		limit := 1
		if placed.Stackable {
			limit = max(1, placed.MaxStackSize)
		}
		placed.StackSize = min(left, limit)
		inv.Main.SetAt(idx, placed)
		left -= placed.StackSize
	}

	return left
}

// Count returns the total stack size of items named name across the main
// inventory, quick-access bar and crafting grid.
func (inv *Inventory) Count(name string) int {
	total := 0
	for _, c := range []*Collection{inv.Main, inv.Quick, inv.Craft} {
		for i := 0; i < c.Capacity(); i++ {
			if it := c.GetAt(i); it != nil && it.Name == name {
				total += it.StackSize
			}
		}
	}
	return total
}

// ClearCraftGrid moves every crafting-grid item back into the main inventory.
// Items that do not fit stay in the grid and are returned.
func (inv *Inventory) ClearCraftGrid() []*Item {
	var stuck []*Item
	for i := 0; i < inv.Craft.Capacity(); i++ {
		it := inv.Craft.GetAt(i)
		if it == nil {
			continue
		}
		left := inv.AddItem(it)
		if left == 0 {
			inv.Craft.SetAt(i, nil)
			continue
		}
		rest := it.Clone()
		rest.StackSize = left
		inv.Craft.SetAt(i, rest)
		stuck = append(stuck, rest)
	}
	return stuck
}

// AddGold increases the gold counter. Negative amounts are ignored.
func (inv *Inventory) AddGold(amount int) {
	if amount > 0 {
		inv.Gold += amount
	}
}

// SpendGold deducts amount, refusing to go below zero.
func (inv *Inventory) SpendGold(amount int) error {
	if amount < 0 {
		return fmt.Errorf("cannot spend negative gold: %d", amount)
	}
	if amount > inv.Gold {
		return fmt.Errorf("%w: have %d, need %d", ErrNotEnoughGold, inv.Gold, amount)
	}
	inv.Gold -= amount
	return nil
}
