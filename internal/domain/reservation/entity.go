package reservation

import (
	"errors"
	"time"

	"reservation-engine/internal/domain/resource"
)

var (
	ErrNotConfirmed     = errors.New("reservation is not in confirmed state")
	ErrReasonRequired   = errors.New("rejected reservation requires a rejection reason")
	ErrReasonNotAllowed = errors.New("only rejected reservations may carry a rejection reason")
	ErrInvalidStatusTag = errors.New("invalid reservation status")
	ErrInvalidReasonTag = errors.New("invalid rejection reason")
	ErrZeroTimestamp    = errors.New("server timestamp must be set")
)

// Reservation records a commit decision. Both CONFIRMED and REJECTED outcomes
// persist; the only mutation afterwards is CONFIRMED -> CANCELLED.
type Reservation struct {
	id              ID
	resourceID      resource.ID
	clientID        ClientID
	quantity        Quantity
	status          Status
	rejectionReason *RejectionReason
	serverTimestamp time.Time
	createdAt       time.Time
}

// NewConfirmed builds a confirmed reservation. serverTimestamp is the
// authoritative instant recorded before the commit transaction opened;
// client-supplied timestamps never reach this constructor.
func NewConfirmed(resourceID resource.ID, clientID ClientID, quantity Quantity, serverTimestamp time.Time) (*Reservation, error) {
	if serverTimestamp.IsZero() {
		return nil, ErrZeroTimestamp
	}
	return &Reservation{
		id:              NewID(),
		resourceID:      resourceID,
		clientID:        clientID,
		quantity:        quantity,
		status:          StatusConfirmed,
		serverTimestamp: serverTimestamp,
		createdAt:       serverTimestamp,
	}, nil
}

// NewRejected builds the audit row for a rejected commit.
func NewRejected(resourceID resource.ID, clientID ClientID, quantity Quantity, reason RejectionReason, serverTimestamp time.Time) (*Reservation, error) {
	if serverTimestamp.IsZero() {
		return nil, ErrZeroTimestamp
	}
	if !reason.IsValid() {
		return nil, ErrInvalidReasonTag
	}
	return &Reservation{
		id:              NewID(),
		resourceID:      resourceID,
		clientID:        clientID,
		quantity:        quantity,
		status:          StatusRejected,
		rejectionReason: &reason,
		serverTimestamp: serverTimestamp,
		createdAt:       serverTimestamp,
	}, nil
}

func ReconstructReservation(
	id ID,
	resourceID resource.ID,
	clientID ClientID,
	quantity Quantity,
	status Status,
	rejectionReason *RejectionReason,
	serverTimestamp, createdAt time.Time,
) (*Reservation, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatusTag
	}
	if status == StatusRejected {
		if rejectionReason == nil || !rejectionReason.IsValid() {
			return nil, ErrReasonRequired
		}
	} else if rejectionReason != nil {
		return nil, ErrReasonNotAllowed
	}

	return &Reservation{
		id:              id,
		resourceID:      resourceID,
		clientID:        clientID,
		quantity:        quantity,
		status:          status,
		rejectionReason: rejectionReason,
		serverTimestamp: serverTimestamp,
		createdAt:       createdAt,
	}, nil
}

// Cancel transitions CONFIRMED -> CANCELLED. Double-cancel is an error, not
// an idempotent no-op.
func (r *Reservation) Cancel() (*Reservation, error) {
	if r.status != StatusConfirmed {
		return nil, ErrNotConfirmed
	}
	next := *r
	next.status = StatusCancelled
	return &next, nil
}

func (r *Reservation) IsConfirmed() bool {
	return r.status == StatusConfirmed
}

func (r *Reservation) ID() ID                            { return r.id }
func (r *Reservation) ResourceID() resource.ID           { return r.resourceID }
func (r *Reservation) ClientID() ClientID                { return r.clientID }
func (r *Reservation) Quantity() Quantity                { return r.quantity }
func (r *Reservation) Status() Status                    { return r.status }
func (r *Reservation) RejectionReason() *RejectionReason { return r.rejectionReason }
func (r *Reservation) ServerTimestamp() time.Time        { return r.serverTimestamp }
func (r *Reservation) CreatedAt() time.Time              { return r.createdAt }
