package session

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownItem     = errors.New("unknown item")
	ErrInvalidName     = errors.New("character name is required")
)
