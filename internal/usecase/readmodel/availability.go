package readmodel

import (
	"time"

	"reservation-engine/internal/domain/resource"
)

// AvailabilityView is the cacheable projection of a resource served to read
// traffic. It may be stale by up to the cache TTL; the commit path never
// consults it.
type AvailabilityView struct {
	ResourceID        resource.ID    `json:"resourceId"`
	Type              string         `json:"type"`
	State             resource.State `json:"state"`
	Capacity          int            `json:"capacity"`
	CurrentBookings   int            `json:"currentBookings"`
	RemainingCapacity int            `json:"remainingCapacity"`
	IsAvailable       bool           `json:"isAvailable"`
	CachedAt          time.Time      `json:"cachedAt"`
	IsCached          bool           `json:"isCached"`
}

func NewAvailabilityView(res *resource.Resource, now time.Time) *AvailabilityView {
	remaining := res.Remaining()
	return &AvailabilityView{
		ResourceID:        res.ID(),
		Type:              res.Type(),
		State:             res.State(),
		Capacity:          res.Capacity(),
		CurrentBookings:   res.CurrentBookings(),
		RemainingCapacity: remaining,
		IsAvailable:       res.IsOpen() && remaining > 0,
		CachedAt:          now,
		IsCached:          false,
	}
}

type CacheStats struct {
	Size    int           `json:"size"`
	MaxSize int           `json:"maxSize"`
	TTL     time.Duration `json:"ttlMs"`
	Hits    uint64        `json:"hits"`
	Misses  uint64        `json:"misses"`
	HitRate float64       `json:"hitRate"`
}
