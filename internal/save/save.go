package save

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/Lifor121/SketchBlade-sub002/internal/game"
	"github.com/pixil98/go-errors"
)

// Game is a saved session: one inventory plus the character wearing the
// equipment. Slots are kept raw so a single bad entry can be skipped without
// losing the rest of the file.
type Game struct {
	Character string                     `json:"character"`
	Inventory InventoryRecord            `json:"inventory"`
	Equipment map[string]json.RawMessage `json:"equipment,omitempty"`
	Meta      Meta                       `json:"meta,omitempty"`
}

// InventoryRecord holds every index-addressed collection in slot order.
type InventoryRecord struct {
	Slots []json.RawMessage `json:"inventory_slots"`
	Quick []json.RawMessage `json:"quick_slots"`
	Craft []json.RawMessage `json:"craft_slots"`
	Trash json.RawMessage   `json:"trash,omitempty"`
	Gold  int               `json:"gold"`
}

// ItemRecord is the stored form of an item. Stack sizes are optional.
type ItemRecord struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Rarity       string  `json:"rarity,omitempty"`
	Value        int     `json:"value,omitempty"`
	Damage       int     `json:"damage,omitempty"`
	Defense      int     `json:"defense,omitempty"`
	StackSize    *int    `json:"stack_size,omitempty"`
	MaxStackSize *int    `json:"max_stack_size,omitempty"`
	EffectPower  int     `json:"effect_power,omitempty"`
	Material     string  `json:"material,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
}

// Validate satisfies storage.ValidatingSpec. Individual slots are checked
// while decoding, not here.
func (g *Game) Validate() error {
	el := errors.NewErrorList()
	if g.Character == "" {
		el.Add(fmt.Errorf("character name is required"))
	}
	return el.Err()
}

// Encode captures inv and ch.
func Encode(inv *game.Inventory, ch *game.Character) (*Game, error) {
	if inv == nil {
		return nil, game.ErrNoInventory
	}
	if ch == nil {
		return nil, game.ErrNoCharacter
	}

	g := &Game{
		Character: ch.Name,
		Inventory: InventoryRecord{Gold: inv.Gold},
		Equipment: map[string]json.RawMessage{},
	}

	var err error
	if g.Inventory.Slots, err = encodeCollection(inv.Main); err != nil {
		return nil, fmt.Errorf("encoding inventory: %w", err)
	}
	if g.Inventory.Quick, err = encodeCollection(inv.Quick); err != nil {
		return nil, fmt.Errorf("encoding quick slots: %w", err)
	}
	if g.Inventory.Craft, err = encodeCollection(inv.Craft); err != nil {
		return nil, fmt.Errorf("encoding craft grid: %w", err)
	}
	if g.Inventory.Trash, err = encodeItem(inv.Trash.GetAt(0)); err != nil {
		return nil, fmt.Errorf("encoding trash: %w", err)
	}

	for slot, it := range ch.Equipment() {
		raw, err := encodeItem(it)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", slot, err)
		}
		g.Equipment[slot.String()] = raw
	}

	return g, nil
}

// Decode rebuilds the inventory and character. Malformed entries are
// dropped and described in warnings; Decode itself does not fail.
func (g *Game) Decode() (*game.Inventory, *game.Character, []string) {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	decodeAll := func(kind game.CollectionKind, raws []json.RawMessage) *game.Collection {
		items := make([]*game.Item, len(raws))
		for i, raw := range raws {
			it, err := decodeItem(raw)
			if err != nil {
				warn("skipping %s[%d]: %v", kind, i, err)
				continue
			}
			items[i] = it
		}
		return game.RestoreCollection(kind, items)
	}

	inv := &game.Inventory{
		Main:  decodeAll(game.CollectionInventory, g.Inventory.Slots),
		Quick: decodeAll(game.CollectionQuickAccess, g.Inventory.Quick),
		Craft: decodeAll(game.CollectionCraftGrid, g.Inventory.Craft),
		Gold:  g.Inventory.Gold,
	}

	trash, err := decodeItem(g.Inventory.Trash)
	if err != nil {
		warn("skipping trash: %v", err)
		trash = nil
	}
	inv.Trash = game.RestoreCollection(game.CollectionTrash, []*game.Item{trash})

	ch := game.NewCharacter(g.Character)
	for _, key := range slices.Sorted(maps.Keys(g.Equipment)) {
		raw := g.Equipment[key]
		slot, ok := game.ParseEquipSlot(key)
		if !ok {
			warn("skipping equipment %q: unknown slot", key)
			continue
		}
		it, err := decodeItem(raw)
		if err != nil {
			warn("skipping equipment %q: %v", key, err)
			continue
		}
		ch.SetEquipped(slot, it)
	}

	return inv, ch, warnings
}

func encodeCollection(c *game.Collection) ([]json.RawMessage, error) {
	items := c.Items()
	out := make([]json.RawMessage, len(items))
	for i, it := range items {
		raw, err := encodeItem(it)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		out[i] = raw
	}
	return out, nil
}

func encodeItem(it *game.Item) (json.RawMessage, error) {
	if it.IsEmpty() {
		return json.RawMessage("null"), nil
	}
	stack, limit := it.StackSize, it.MaxStackSize
	rec := ItemRecord{
		Name:         it.Name,
		Category:     it.Category.String(),
		Rarity:       it.Rarity.String(),
		Value:        it.Value,
		Damage:       it.Damage,
		Defense:      it.Defense,
		StackSize:    &stack,
		MaxStackSize: &limit,
		EffectPower:  it.EffectPower,
		Material:     string(it.Material),
		Weight:       it.Weight,
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// decodeItem returns nil for an empty slot.
func decodeItem(raw json.RawMessage) (*game.Item, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var rec ItemRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("malformed item: %w", err)
	}
	if rec.Name == "" {
		return nil, fmt.Errorf("item has no name")
	}

	category := game.ParseCategory(rec.Category)
	if category == game.CategoryUnknown {
		return nil, fmt.Errorf("item %q has unknown category %q", rec.Name, rec.Category)
	}

	rarity := game.RarityCommon
	if rec.Rarity != "" {
		r, ok := game.ParseRarity(rec.Rarity)
		if !ok {
			return nil, fmt.Errorf("item %q has unknown rarity %q", rec.Name, rec.Rarity)
		}
		rarity = r
	}

	limit := category.DefaultMaxStack()
	if rec.MaxStackSize != nil && *rec.MaxStackSize >= 1 {
		limit = *rec.MaxStackSize
	}
	stack := 1
	if rec.StackSize != nil {
		stack = *rec.StackSize
	}
	if stack < 0 {
		return nil, fmt.Errorf("item %q has negative stack size %d", rec.Name, stack)
	}

	it := &game.Item{
		Name:         rec.Name,
		Category:     category,
		Rarity:       rarity,
		Stackable:    limit > 1,
		StackSize:    stack,
		MaxStackSize: limit,
		Value:        rec.Value,
		Damage:       rec.Damage,
		Defense:      rec.Defense,
		EffectPower:  rec.EffectPower,
		Material:     game.Material(rec.Material),
		Weight:       rec.Weight,
	}
	if it.IsEmpty() {
		return nil, nil
	}
	return it, nil
}
