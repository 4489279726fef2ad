package game

import (
	"errors"
	"fmt"
)

// ValidationResult reports whether an operation would be allowed, and why
// not. Consistency scans collect Warnings instead of failing.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Reason   string   `json:"reason,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Success is a passing result.
func Success() ValidationResult {
	return ValidationResult{Valid: true}
}

// Failure is a failing result carrying reason.
func Failure(reason string) ValidationResult {
	return ValidationResult{Valid: false, Reason: reason}
}

// HasWarnings reports whether a scan found anything suspicious.
func (r ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateItemMove previews whether item could be dropped at
// (destKind, destIndex) under the placement rules. It never changes inv.
// ValidateTransfer also checks the source slot and what a swap displaces.
func ValidateItemMove(item *Item, destKind CollectionKind, destIndex int, inv *Inventory) ValidationResult {
	if inv == nil {
		return Failure(ErrNoInventory.Error())
	}
	if destIndex < 0 {
		return Failure("Slot indices must not be negative.")
	}
	if err := checkDestination(item, destKind, destIndex); err != nil {
		return failureFrom(err)
	}
	return Success()
}

// ValidateTransfer previews Engine.Transfer from src to dst and reports the
// reason Move would give. Nothing is written.
func ValidateTransfer(src, dst SlotAddress, inv *Inventory, ch *Character) (res ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			res = Failure(ErrInternal.Error())
		}
	}()

	if _, err := planTransfer(src, dst, inv, ch); err != nil {
		return failureFrom(err)
	}
	return Success()
}

// ValidateInventory scans inv for states the engine would never produce,
// such as an oversized collection or a material on the quick-access bar.
// Findings are warnings; the result stays Valid unless inv is missing.
func ValidateInventory(inv *Inventory) ValidationResult {
	if inv == nil {
		return Failure(ErrNoInventory.Error())
	}

	res := Success()
	for _, c := range []*Collection{inv.Main, inv.Quick, inv.Craft, inv.Trash} {
		if c == nil {
			continue
		}
		if c.Len() > c.Capacity() {
			res.warn("%s holds %d entries but has only %d slots", c.Kind(), c.Len(), c.Capacity())
		}
		for i, it := range c.Items() {
			if it == nil {
				continue
			}
			scanItem(&res, fmt.Sprintf("%s[%d]", c.Kind(), i), it)
			if c.Kind() == CollectionQuickAccess && it.Category != CategoryConsumable {
				res.warn("%s[%d] holds %s which is not a consumable", c.Kind(), i, it.Name)
			}
		}
	}
	if inv.Gold < 0 {
		res.warn("gold is negative: %d", inv.Gold)
	}
	return res
}

// ValidateEquipment scans equipped items for pieces that could not have been
// equipped through the engine.
func ValidateEquipment(ch *Character) ValidationResult {
	if ch == nil {
		return Failure(ErrNoCharacter.Error())
	}

	res := Success()
	for _, slot := range EquipSlots() {
		it := ch.Equipped(slot)
		if it == nil {
			continue
		}
		scanItem(&res, EquipAt(slot).String(), it)
		if !CanPlace(it, CollectionEquipment) {
			res.warn("%s holds %s which cannot be equipped", EquipAt(slot), it.Name)
		}
	}
	return res
}

func scanItem(res *ValidationResult, where string, it *Item) {
	if it.MaxStackSize < 1 {
		res.warn("%s: %s has max stack size %d", where, it.Name, it.MaxStackSize)
	}
	if it.StackSize > it.MaxStackSize {
		res.warn("%s: %s stack of %d exceeds its limit of %d", where, it.Name, it.StackSize, it.MaxStackSize)
	}
	if !it.Stackable && it.StackSize > 1 {
		res.warn("%s: %s is not stackable but has a stack of %d", where, it.Name, it.StackSize)
	}
}

func failureFrom(err error) ValidationResult {
	var re *RuleError
	if errors.As(err, &re) {
		return Failure(re.Message)
	}
	return Failure(err.Error())
}
