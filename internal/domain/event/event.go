// Package event defines the closed set of domain events emitted by the
// commit, cancel and admin paths. The sum is sealed: consumers switch on the
// concrete type (or Kind) and the unexported marker method keeps external
// packages from adding variants.
package event

import (
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/resource"
)

type Kind string

const (
	KindConfirmed       Kind = "CONFIRMED"
	KindRejected        Kind = "REJECTED"
	KindCancelled       Kind = "CANCELLED"
	KindResourceCreated Kind = "RESOURCE_CREATED"
	KindResourceOpened  Kind = "RESOURCE_OPENED"
	KindResourceClosed  Kind = "RESOURCE_CLOSED"
)

type Event interface {
	Kind() Kind
	OccurredAt() time.Time
	isEvent()
}

type Confirmed struct {
	ReservationID reservation.ID
	ResourceID    resource.ID
	ClientID      reservation.ClientID
	Quantity      int
	At            time.Time
}

func (Confirmed) Kind() Kind              { return KindConfirmed }
func (e Confirmed) OccurredAt() time.Time { return e.At }
func (Confirmed) isEvent()                {}

type Rejected struct {
	ReservationID reservation.ID
	ResourceID    resource.ID
	ClientID      reservation.ClientID
	Quantity      int
	Reason        reservation.RejectionReason
	At            time.Time
}

func (Rejected) Kind() Kind              { return KindRejected }
func (e Rejected) OccurredAt() time.Time { return e.At }
func (Rejected) isEvent()                {}

type Cancelled struct {
	ReservationID    reservation.ID
	ResourceID       resource.ID
	CapacityReleased int
	At               time.Time
}

func (Cancelled) Kind() Kind              { return KindCancelled }
func (e Cancelled) OccurredAt() time.Time { return e.At }
func (Cancelled) isEvent()                {}

type ResourceCreated struct {
	ResourceID resource.ID
	Capacity   int
	At         time.Time
}

func (ResourceCreated) Kind() Kind              { return KindResourceCreated }
func (e ResourceCreated) OccurredAt() time.Time { return e.At }
func (ResourceCreated) isEvent()                {}

type ResourceOpened struct {
	ResourceID resource.ID
	At         time.Time
}

func (ResourceOpened) Kind() Kind              { return KindResourceOpened }
func (e ResourceOpened) OccurredAt() time.Time { return e.At }
func (ResourceOpened) isEvent()                {}

type ResourceClosed struct {
	ResourceID resource.ID
	At         time.Time
}

func (ResourceClosed) Kind() Kind              { return KindResourceClosed }
func (e ResourceClosed) OccurredAt() time.Time { return e.At }
func (ResourceClosed) isEvent()                {}
