package game

// CanStack reports whether b can absorb a: both present, both stackable and
// sharing name, category and rarity.
func CanStack(a, b *Item) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return false
	}
	return a.Stackable && b.Stackable && a.SameKind(b)
}

// Merge moves as much of source onto target as target's limit allows.
// Items that do not fit stay on source; nothing is ever discarded. The
// returned remainder is source's new stack size. ok is false, and neither
// item is touched, when the two cannot stack.
func Merge(source, target *Item) (remainder int, ok bool) {
	if !CanStack(source, target) {
		return 0, false
	}

	total := source.StackSize + target.StackSize
	if total <= target.MaxStackSize {
		target.StackSize = total
		source.StackSize = 0
		return 0, true
	}

	target.StackSize = target.MaxStackSize
	source.StackSize = total - target.MaxStackSize
	return source.StackSize, true
}
