package response

import (
	"reservation-engine/internal/domain/resource"
)

type ResourceResponse struct {
	ResourceID        string `json:"resourceId"`
	Type              string `json:"type"`
	State             string `json:"state"`
	Capacity          int    `json:"capacity"`
	CurrentBookings   int    `json:"currentBookings"`
	RemainingCapacity int    `json:"remainingCapacity"`
	Version           int64  `json:"version"`
	CreatedAt         int64  `json:"createdAt"`
	UpdatedAt         int64  `json:"updatedAt"`
}

type MaintenanceResponse struct {
	Active bool `json:"active"`
}

func FromResource(res *resource.Resource) *ResourceResponse {
	return &ResourceResponse{
		ResourceID:        res.ID().String(),
		Type:              res.Type(),
		State:             string(res.State()),
		Capacity:          res.Capacity(),
		CurrentBookings:   res.CurrentBookings(),
		RemainingCapacity: res.Remaining(),
		Version:           res.Version(),
		CreatedAt:         res.CreatedAt().UnixMilli(),
		UpdatedAt:         res.UpdatedAt().UnixMilli(),
	}
}
