package game

import (
	"fmt"
	"strings"
)

// Category defines what kind of thing an item is and, through the placement
// rules, where it may be stored.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryWeapon
	CategoryHelmet
	CategoryChestplate
	CategoryLeggings
	CategoryShield
	CategoryConsumable
	CategoryMaterial
)

var categoryNames = map[Category]string{
	CategoryWeapon:     "weapon",
	CategoryHelmet:     "helmet",
	CategoryChestplate: "chestplate",
	CategoryLeggings:   "leggings",
	CategoryShield:     "shield",
	CategoryConsumable: "consumable",
	CategoryMaterial:   "material",
}

// ParseCategory returns the Category named by s, or CategoryUnknown.
func ParseCategory(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range categoryNames {
		if name == s {
			return c
		}
	}
	return CategoryUnknown
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// IsEquipment returns true for the categories that can be worn or wielded.
func (c Category) IsEquipment() bool {
	switch c {
	case CategoryWeapon, CategoryHelmet, CategoryChestplate, CategoryLeggings, CategoryShield:
		return true
	default:
		return false
	}
}

// DefaultMaxStack is the stack limit applied when an item record does not
// carry one.
func (c Category) DefaultMaxStack() int {
	switch c {
	case CategoryMaterial:
		return 99
	case CategoryConsumable:
		return 20
	default:
		return 1
	}
}

func (c Category) MarshalText() ([]byte, error) {
	if c == CategoryUnknown {
		return nil, fmt.Errorf("cannot marshal unknown category")
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed := ParseCategory(string(text))
	if parsed == CategoryUnknown {
		return fmt.Errorf("unknown category: %s", text)
	}
	*c = parsed
	return nil
}

// Rarity is ordered: Common < Uncommon < Rare < Epic < Legendary.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = []string{"common", "uncommon", "rare", "epic", "legendary"}

// ParseRarity returns the Rarity named by s. Unknown names are reported with
// ok=false.
func ParseRarity(s string) (Rarity, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range rarityNames {
		if name == s {
			return Rarity(i), true
		}
	}
	return RarityCommon, false
}

func (r Rarity) String() string {
	if r < 0 || int(r) >= len(rarityNames) {
		return "unknown"
	}
	return rarityNames[r]
}

func (r Rarity) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(rarityNames) {
		return nil, fmt.Errorf("cannot marshal rarity %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rarity) UnmarshalText(text []byte) error {
	parsed, ok := ParseRarity(string(text))
	if !ok {
		return fmt.Errorf("unknown rarity: %s", text)
	}
	*r = parsed
	return nil
}

// Material is the substance an item is made from (e.g. "wood", "iron").
// It is free-form; the empty string means none.
type Material string

// Item is a single stack of a game object occupying one slot.
// A slot owns its Item exclusively; use Clone when copying between slots.
type Item struct {
	// Name is the stacking identity together with Category and Rarity
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Rarity   Rarity   `json:"rarity"`

	Stackable    bool `json:"stackable"`
	StackSize    int  `json:"stack_size"`
	MaxStackSize int  `json:"max_stack_size"`

	Value       int      `json:"value,omitempty"`
	Damage      int      `json:"damage,omitempty"`
	Defense     int      `json:"defense,omitempty"`
	EffectPower int      `json:"effect_power,omitempty"`
	Material    Material `json:"material,omitempty"`
	Weight      float64  `json:"weight,omitempty"`
}

// NewItem creates a stack of count items using the category's default stack
// limit. Items whose limit is 1 are not stackable.
func NewItem(name string, category Category, count int) *Item {
	limit := category.DefaultMaxStack()
	return &Item{
		Name:         name,
		Category:     category,
		Rarity:       RarityCommon,
		Stackable:    limit > 1,
		StackSize:    clamp(count, 0, limit),
		MaxStackSize: limit,
	}
}

// IsEmpty returns true when the item represents no item at all.
func (i *Item) IsEmpty() bool {
	return i == nil || i.StackSize <= 0
}

// Clone returns an independent copy of the item.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// SameKind reports whether two items share the stacking identity
// (name, category, rarity).
func (i *Item) SameKind(o *Item) bool {
	if i == nil || o == nil {
		return false
	}
	return i.Name == o.Name && i.Category == o.Category && i.Rarity == o.Rarity
}

// SpaceLeft is how many more items fit on top of this stack.
func (i *Item) SpaceLeft() int {
	if i == nil || !i.Stackable {
		return 0
	}
	return max(0, i.MaxStackSize-i.StackSize)
}

func (i *Item) String() string {
	if i.IsEmpty() {
		return "(empty)"
	}
	if i.StackSize > 1 {
		return fmt.Sprintf("%s x%d", i.Name, i.StackSize)
	}
	return i.Name
}

// normalize returns nil for empty items so that a slot never holds a
// zero-sized stack.
func normalize(i *Item) *Item {
	if i.IsEmpty() {
		return nil
	}
	return i
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
