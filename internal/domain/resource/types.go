package resource

import (
	"errors"
	"strings"
)

const MaxIDLength = 100

var (
	ErrEmptyID   = errors.New("resource id cannot be empty")
	ErrIDTooLong = errors.New("resource id is too long (max 100 characters)")
)

// ID is the externally supplied identifier of a capacity pool. Boundary code
// constructs it once via NewID; internal code never re-validates.
type ID string

func NewID(raw string) (ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyID
	}
	if len(trimmed) > MaxIDLength {
		return "", ErrIDTooLong
	}
	return ID(trimmed), nil
}

func (id ID) String() string {
	return string(id)
}

type State string

const (
	StateOpen   State = "OPEN"
	StateClosed State = "CLOSED"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	switch s {
	case StateOpen, StateClosed:
		return true
	default:
		return false
	}
}
