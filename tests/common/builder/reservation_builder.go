//go:build unit || e2e

package builder

import (
	"time"

	domreservation "reservation-engine/internal/domain/reservation"
	domresource "reservation-engine/internal/domain/resource"
)

type ReservationBuilder struct {
	ResourceID      string
	ClientID        string
	Quantity        int
	ServerTimestamp time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		ResourceID:      "room-101",
		ClientID:        "client-001",
		Quantity:        1,
		ServerTimestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *ReservationBuilder) WithResourceID(id string) *ReservationBuilder {
	b.ResourceID = id
	return b
}

func (b *ReservationBuilder) WithClientID(id string) *ReservationBuilder {
	b.ClientID = id
	return b
}

func (b *ReservationBuilder) WithQuantity(q int) *ReservationBuilder {
	b.Quantity = q
	return b
}

func (b *ReservationBuilder) WithServerTimestamp(t time.Time) *ReservationBuilder {
	b.ServerTimestamp = t
	return b
}

func (b *ReservationBuilder) BuildConfirmed() (*domreservation.Reservation, error) {
	resourceID, clientID, quantity, err := b.parts()
	if err != nil {
		return nil, err
	}
	return domreservation.NewConfirmed(resourceID, clientID, quantity, b.ServerTimestamp)
}

func (b *ReservationBuilder) BuildRejected(reason domreservation.RejectionReason) (*domreservation.Reservation, error) {
	resourceID, clientID, quantity, err := b.parts()
	if err != nil {
		return nil, err
	}
	return domreservation.NewRejected(resourceID, clientID, quantity, reason, b.ServerTimestamp)
}

func (b *ReservationBuilder) parts() (domresource.ID, domreservation.ClientID, domreservation.Quantity, error) {
	resourceID, err := domresource.NewID(b.ResourceID)
	if err != nil {
		return "", "", 0, err
	}
	clientID, err := domreservation.NewClientID(b.ClientID)
	if err != nil {
		return "", "", 0, err
	}
	quantity, err := domreservation.NewQuantity(b.Quantity)
	if err != nil {
		return "", "", 0, err
	}
	return resourceID, clientID, quantity, nil
}
