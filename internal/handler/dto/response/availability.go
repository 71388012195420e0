package response

import (
	"reservation-engine/internal/usecase/readmodel"
)

type AvailabilityResponse struct {
	ResourceID        string `json:"resourceId"`
	Type              string `json:"type"`
	State             string `json:"state"`
	Capacity          int    `json:"capacity"`
	CurrentBookings   int    `json:"currentBookings"`
	RemainingCapacity int    `json:"remainingCapacity"`
	IsAvailable       bool   `json:"isAvailable"`
	CachedAt          int64  `json:"cachedAt"`
	IsCached          bool   `json:"isCached"`
}

type CacheStatsResponse struct {
	Size    int     `json:"size"`
	MaxSize int     `json:"maxSize"`
	TTLMs   int64   `json:"ttlMs"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hitRate"`
}

func FromAvailabilityView(view *readmodel.AvailabilityView) *AvailabilityResponse {
	return &AvailabilityResponse{
		ResourceID:        view.ResourceID.String(),
		Type:              view.Type,
		State:             string(view.State),
		Capacity:          view.Capacity,
		CurrentBookings:   view.CurrentBookings,
		RemainingCapacity: view.RemainingCapacity,
		IsAvailable:       view.IsAvailable,
		CachedAt:          view.CachedAt.UnixMilli(),
		IsCached:          view.IsCached,
	}
}

func FromCacheStats(stats readmodel.CacheStats) *CacheStatsResponse {
	return &CacheStatsResponse{
		Size:    stats.Size,
		MaxSize: stats.MaxSize,
		TTLMs:   stats.TTL.Milliseconds(),
		Hits:    stats.Hits,
		Misses:  stats.Misses,
		HitRate: stats.HitRate,
	}
}
