package resource

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyType          = errors.New("resource type cannot be empty")
	ErrNegativeCapacity   = errors.New("capacity cannot be negative")
	ErrNegativeBookings   = errors.New("current bookings cannot be negative")
	ErrBookingsOverflow   = errors.New("current bookings cannot exceed capacity")
	ErrInvalidState       = errors.New("invalid resource state")
	ErrAlreadyInState     = errors.New("resource already in requested state")
	ErrInsufficientRemain = errors.New("requested quantity exceeds remaining capacity")
)

// Resource is a bookable capacity pool. The version field increments on every
// mutation and backs the optimistic update that sits behind the row lock.
type Resource struct {
	id              ID
	resourceType    string
	capacity        int
	currentBookings int
	state           State
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
}

func NewResource(id ID, resourceType string, capacity int, now time.Time) (*Resource, error) {
	resourceType = strings.TrimSpace(resourceType)
	if resourceType == "" {
		return nil, ErrEmptyType
	}
	if capacity < 0 {
		return nil, ErrNegativeCapacity
	}

	return &Resource{
		id:              id,
		resourceType:    resourceType,
		capacity:        capacity,
		currentBookings: 0,
		state:           StateOpen,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func ReconstructResource(
	id ID,
	resourceType string,
	capacity, currentBookings int,
	state State,
	version int64,
	createdAt, updatedAt time.Time,
) (*Resource, error) {
	if currentBookings < 0 {
		return nil, ErrNegativeBookings
	}
	if currentBookings > capacity {
		return nil, ErrBookingsOverflow
	}
	if !state.IsValid() {
		return nil, ErrInvalidState
	}

	return &Resource{
		id:              id,
		resourceType:    resourceType,
		capacity:        capacity,
		currentBookings: currentBookings,
		state:           state,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (r *Resource) IsOpen() bool {
	return r.state == StateOpen
}

func (r *Resource) Remaining() int {
	remaining := r.capacity - r.currentBookings
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ApplyBooking returns a copy with the booking counter advanced and the
// version bumped. effectiveBookings is the drift-guarded baseline computed by
// the commit service, not necessarily the stored counter.
func (r *Resource) ApplyBooking(quantity, effectiveBookings int, now time.Time) (*Resource, error) {
	if quantity > r.capacity-effectiveBookings {
		return nil, ErrInsufficientRemain
	}

	next := *r
	next.currentBookings = effectiveBookings + quantity
	next.version++
	next.updatedAt = now
	return &next, nil
}

// ReleaseBooking decrements the counter, clamped at zero. A drifted counter
// can therefore undershoot reality; the commit side's aggregate guard
// compensates.
func (r *Resource) ReleaseBooking(quantity int, now time.Time) *Resource {
	next := *r
	next.currentBookings -= quantity
	if next.currentBookings < 0 {
		next.currentBookings = 0
	}
	next.version++
	next.updatedAt = now
	return &next
}

func (r *Resource) Open(now time.Time) (*Resource, error) {
	if r.state == StateOpen {
		return nil, ErrAlreadyInState
	}
	next := *r
	next.state = StateOpen
	next.version++
	next.updatedAt = now
	return &next, nil
}

func (r *Resource) Close(now time.Time) (*Resource, error) {
	if r.state == StateClosed {
		return nil, ErrAlreadyInState
	}
	next := *r
	next.state = StateClosed
	next.version++
	next.updatedAt = now
	return &next, nil
}

func (r *Resource) ID() ID               { return r.id }
func (r *Resource) Type() string         { return r.resourceType }
func (r *Resource) Capacity() int        { return r.capacity }
func (r *Resource) CurrentBookings() int { return r.currentBookings }
func (r *Resource) State() State         { return r.state }
func (r *Resource) Version() int64       { return r.version }
func (r *Resource) CreatedAt() time.Time { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time { return r.updatedAt }
