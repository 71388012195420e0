package response

import (
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/usecase"

	"github.com/google/uuid"
)

// Timestamps on the wire are epoch milliseconds, matching the millisecond
// precision the engine records.
type ReservationResponse struct {
	ReservationID   uuid.UUID `json:"reservationId"`
	ResourceID      string    `json:"resourceId"`
	ClientID        string    `json:"clientId"`
	Quantity        int       `json:"quantity"`
	Status          string    `json:"status"`
	RejectionReason *string   `json:"rejectionReason,omitempty"`
	ServerTimestamp int64     `json:"serverTimestamp"`
	CreatedAt       int64     `json:"createdAt"`
}

// RejectionResponse is the body of a 409 on a rejected commit. A rejection is
// a recorded business outcome, so it carries the persisted reservation id
// rather than an error envelope.
type RejectionResponse struct {
	ReservationID   uuid.UUID `json:"reservationId"`
	Status          string    `json:"status"`
	Reason          string    `json:"reason"`
	ServerTimestamp int64     `json:"serverTimestamp"`
}

// MaintenanceRejectionResponse is the 503 body when the maintenance gate
// turns a commit away. Nothing is persisted, so there is no reservation id.
type MaintenanceRejectionResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func FromMaintenanceRejection() *MaintenanceRejectionResponse {
	return &MaintenanceRejectionResponse{
		Status: reservation.StatusRejected.String(),
		Reason: "MAINTENANCE_MODE",
	}
}

type CancelResponse struct {
	ReservationID    uuid.UUID `json:"reservationId"`
	ResourceID       string    `json:"resourceId"`
	Status           string    `json:"status"`
	CapacityReleased int       `json:"capacityReleased"`
	ServerTimestamp  int64     `json:"serverTimestamp"`
}

func FromReservation(rsv *reservation.Reservation) *ReservationResponse {
	var reason *string
	if r := rsv.RejectionReason(); r != nil {
		s := r.String()
		reason = &s
	}
	return &ReservationResponse{
		ReservationID:   rsv.ID().UUID(),
		ResourceID:      rsv.ResourceID().String(),
		ClientID:        rsv.ClientID().String(),
		Quantity:        rsv.Quantity().Int(),
		Status:          rsv.Status().String(),
		RejectionReason: reason,
		ServerTimestamp: rsv.ServerTimestamp().UnixMilli(),
		CreatedAt:       rsv.CreatedAt().UnixMilli(),
	}
}

func FromRejection(result *usecase.CommitResult) *RejectionResponse {
	rsv := result.Reservation
	reason := ""
	if r := rsv.RejectionReason(); r != nil {
		reason = r.String()
	}
	return &RejectionResponse{
		ReservationID:   rsv.ID().UUID(),
		Status:          rsv.Status().String(),
		Reason:          reason,
		ServerTimestamp: result.ServerTimestamp.UnixMilli(),
	}
}

func FromCancel(result *usecase.CancelResult) *CancelResponse {
	rsv := result.Reservation
	return &CancelResponse{
		ReservationID:    rsv.ID().UUID(),
		ResourceID:       rsv.ResourceID().String(),
		Status:           rsv.Status().String(),
		CapacityReleased: result.CapacityReleased,
		ServerTimestamp:  result.ServerTimestamp.UnixMilli(),
	}
}
