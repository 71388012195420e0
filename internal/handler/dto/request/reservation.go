package request

import (
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/resource"
)

type CreateReservationRequest struct {
	ResourceID string `json:"resourceId" binding:"required"`
	ClientID   string `json:"clientId" binding:"required"`
	// Quantity is validated by the domain constructor so a zero or negative
	// value maps to the INVALID_QUANTITY error code, not a generic bind error.
	Quantity int `json:"quantity"`
}

// ToDomain validates the raw payload into branded identifiers. Binding catches
// the structural problems; the domain constructors catch the semantic ones
// (charset, length, bounds).
func (r CreateReservationRequest) ToDomain() (resource.ID, reservation.ClientID, reservation.Quantity, error) {
	resourceID, err := resource.NewID(r.ResourceID)
	if err != nil {
		return "", "", 0, err
	}
	clientID, err := reservation.NewClientID(r.ClientID)
	if err != nil {
		return "", "", 0, err
	}
	quantity, err := reservation.NewQuantity(r.Quantity)
	if err != nil {
		return "", "", 0, err
	}
	return resourceID, clientID, quantity, nil
}
