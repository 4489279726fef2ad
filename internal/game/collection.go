package game

// Collection is an index-addressed run of slots. Each slot holds at most one
// Item; a nil entry is an empty slot.
type Collection struct {
	kind     CollectionKind
	capacity int
	slots    []*Item
}

// NewCollection creates an empty collection sized to the kind's capacity.
func NewCollection(kind CollectionKind) *Collection {
	return &Collection{
		kind:     kind,
		capacity: kind.Capacity(),
		slots:    make([]*Item, kind.Capacity()),
	}
}

// RestoreCollection rebuilds a collection from stored slots. Entries beyond
// the declared capacity are kept so that consistency scans can report them;
// they are not addressable through GetAt or SetAt.
func RestoreCollection(kind CollectionKind, items []*Item) *Collection {
	c := NewCollection(kind)
	for i, it := range items {
		it = normalize(it)
		if i < len(c.slots) {
			c.slots[i] = it
			continue
		}
		c.slots = append(c.slots, it)
	}
	return c
}

// Kind returns which collection this is.
func (c *Collection) Kind() CollectionKind {
	return c.kind
}

// Capacity is the number of addressable slots.
func (c *Collection) Capacity() int {
	return c.capacity
}

// Len is the number of stored entries, which exceeds Capacity only for
// collections restored from corrupted data.
func (c *Collection) Len() int {
	return len(c.slots)
}

// GetAt returns the item at index, or nil if the slot is empty or the index
// is out of range.
func (c *Collection) GetAt(index int) *Item {
	if index < 0 || index >= c.capacity || index >= len(c.slots) {
		return nil
	}
	return c.slots[index]
}

// SetAt places item at index. Zero-sized stacks are stored as empty.
// Returns false if index is out of range.
func (c *Collection) SetAt(index int, item *Item) bool {
	if index < 0 || index >= c.capacity || index >= len(c.slots) {
		return false
	}
	c.slots[index] = normalize(item)
	return true
}

// Items returns a copy of the slot contents, including any overflow entries.
func (c *Collection) Items() []*Item {
	out := make([]*Item, len(c.slots))
	copy(out, c.slots)
	return out
}

// FirstEmpty returns the index of the first empty slot, or -1.
func (c *Collection) FirstEmpty() int {
	for i := 0; i < c.capacity && i < len(c.slots); i++ {
		if c.slots[i] == nil {
			return i
		}
	}
	return -1
}

// Used returns the number of occupied addressable slots.
func (c *Collection) Used() int {
	n := 0
	for i := 0; i < c.capacity && i < len(c.slots); i++ {
		if c.slots[i] != nil {
			n++
		}
	}
	return n
}
