package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// ItemDefinition is an item template loaded from asset files. Items placed
// in slots are spawned from it.
type ItemDefinition struct {
	Name         string   `json:"name"`
	CategoryStr  string   `json:"category"`
	RarityStr    string   `json:"rarity,omitempty"`
	MaxStackSize int      `json:"max_stack_size,omitempty"`
	Value        int      `json:"value,omitempty"`
	Damage       int      `json:"damage,omitempty"`
	Defense      int      `json:"defense,omitempty"`
	EffectPower  int      `json:"effect_power,omitempty"`
	Material     Material `json:"material,omitempty"`
	Weight       float64  `json:"weight,omitempty"`
}

// Category returns the parsed category.
func (d *ItemDefinition) Category() Category {
	return ParseCategory(d.CategoryStr)
}

// Rarity returns the parsed rarity, defaulting to common.
func (d *ItemDefinition) Rarity() Rarity {
	r, _ := ParseRarity(d.RarityStr)
	return r
}

// StackLimit is MaxStackSize, or the category default when unset.
func (d *ItemDefinition) StackLimit() int {
	if d.MaxStackSize > 0 {
		return d.MaxStackSize
	}
	return d.Category().DefaultMaxStack()
}

// Validate satisfies storage.ValidatingSpec
func (d *ItemDefinition) Validate() error {
	el := errors.NewErrorList()
	if d.Name == "" {
		el.Add(fmt.Errorf("item name is required"))
	}
	if d.CategoryStr == "" {
		el.Add(fmt.Errorf("item category is required"))
	} else if d.Category() == CategoryUnknown {
		el.Add(fmt.Errorf("item category %q is invalid", d.CategoryStr))
	}
	if d.RarityStr != "" {
		if _, ok := ParseRarity(d.RarityStr); !ok {
			el.Add(fmt.Errorf("item rarity %q is invalid", d.RarityStr))
		}
	}
	if d.MaxStackSize < 0 {
		el.Add(fmt.Errorf("max_stack_size must not be negative"))
	}
	if d.Category().IsEquipment() && d.MaxStackSize > 1 {
		el.Add(fmt.Errorf("equipment cannot stack"))
	}
	return el.Err()
}

// Spawn creates a stack of count items, clamped to the stack limit.
func (d *ItemDefinition) Spawn(count int) *Item {
	limit := d.StackLimit()
	return &Item{
		Name:         d.Name,
		Category:     d.Category(),
		Rarity:       d.Rarity(),
		Stackable:    limit > 1,
		StackSize:    clamp(count, 0, limit),
		MaxStackSize: limit,
		Value:        d.Value,
		Damage:       d.Damage,
		Defense:      d.Defense,
		EffectPower:  d.EffectPower,
		Material:     d.Material,
		Weight:       d.Weight,
	}
}
