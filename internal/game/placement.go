package game

// placementRules lists, per destination, the categories it accepts.
// A nil entry accepts every known category.
var placementRules = map[CollectionKind]map[Category]bool{
	CollectionInventory:   nil,
	CollectionCraftGrid:   nil,
	CollectionTrash:       nil,
	CollectionQuickAccess: {CategoryConsumable: true},
	CollectionEquipment: {
		CategoryWeapon:     true,
		CategoryHelmet:     true,
		CategoryChestplate: true,
		CategoryLeggings:   true,
		CategoryShield:     true,
	},
}

// CanPlace reports whether item may be stored in a collection of kind dest.
func CanPlace(item *Item, dest CollectionKind) bool {
	if item == nil {
		return false
	}
	allowed, known := placementRules[dest]
	if !known {
		return false
	}
	if allowed == nil {
		return true
	}
	return allowed[item.Category]
}

// IsValidIndex reports whether index addresses a slot of kind. Equipment only
// requires a non-negative index; converting it to an EquipSlot is left to the
// caller.
func IsValidIndex(kind CollectionKind, index int) bool {
	if index < 0 {
		return false
	}
	switch kind {
	case CollectionInventory, CollectionQuickAccess, CollectionCraftGrid:
		return index < kind.Capacity()
	case CollectionTrash:
		return index == 0
	case CollectionEquipment:
		return true
	default:
		return false
	}
}

// CanDropOn is a cheap drag-and-drop pre-check. Reordering within one
// collection is always allowed; crossing collections defers to CanPlace.
func CanDropOn(source, dest CollectionKind, item *Item) bool {
	if source == dest && source != CollectionUnknown {
		return true
	}
	return CanPlace(item, dest)
}
