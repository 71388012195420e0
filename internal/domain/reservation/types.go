package reservation

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const MaxClientIDLength = 100

var (
	ErrInvalidReservationID = errors.New("reservation id must be a valid UUID")
	ErrEmptyClientID        = errors.New("client id cannot be empty")
	ErrClientIDTooLong      = errors.New("client id is too long (max 100 characters)")
	ErrClientIDCharset      = errors.New("client id contains invalid characters")
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
)

// ID is a server-generated reservation identifier.
type ID uuid.UUID

func NewID() ID {
	return ID(uuid.New())
}

func ParseID(raw string) (ID, error) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return ID(uuid.Nil), ErrInvalidReservationID
	}
	return ID(parsed), nil
}

func (id ID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// ClientID is the caller-supplied identity tag. Allowed characters are
// alphanumerics plus dot, underscore, hyphen and at-sign.
type ClientID string

func NewClientID(raw string) (ClientID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyClientID
	}
	if len(trimmed) > MaxClientIDLength {
		return "", ErrClientIDTooLong
	}
	for _, r := range trimmed {
		if !isClientIDRune(r) {
			return "", ErrClientIDCharset
		}
	}
	return ClientID(trimmed), nil
}

func isClientIDRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-', r == '@':
		return true
	default:
		return false
	}
}

func (c ClientID) String() string {
	return string(c)
}

type Quantity int

func NewQuantity(n int) (Quantity, error) {
	if n < 1 {
		return 0, ErrInvalidQuantity
	}
	return Quantity(n), nil
}

func (q Quantity) Int() int {
	return int(q)
}

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusRejected  Status = "REJECTED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

type RejectionReason string

const (
	ReasonResourceFull   RejectionReason = "RESOURCE_FULL"
	ReasonResourceClosed RejectionReason = "RESOURCE_CLOSED"
)

func (r RejectionReason) String() string {
	return string(r)
}

func (r RejectionReason) IsValid() bool {
	switch r {
	case ReasonResourceFull, ReasonResourceClosed:
		return true
	default:
		return false
	}
}
