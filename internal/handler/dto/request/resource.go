package request

type CreateResourceRequest struct {
	ResourceID string `json:"resourceId" binding:"required"`
	Type       string `json:"type" binding:"required"`
	Capacity   int    `json:"capacity" binding:"required,min=1"`
}

// Active is a pointer so that an explicit {"active": false} binds, while a
// missing field fails validation.
type MaintenanceRequest struct {
	Active *bool `json:"active" binding:"required"`
}
