package game

import "errors"

var (
	ErrNoInventory   = errors.New("no inventory")
	ErrNoCharacter   = errors.New("no character to hold equipment")
	ErrNotEnoughGold = errors.New("not enough gold")
)

// RuleError is a rejected transfer. The message is suitable for showing to
// the player; nothing was changed.
type RuleError struct {
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

// NewRuleError creates a player-facing rejection.
func NewRuleError(msg string) *RuleError {
	return &RuleError{Message: msg}
}
