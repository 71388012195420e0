//go:build unit || e2e

package builder

import (
	"time"

	domresource "reservation-engine/internal/domain/resource"
)

type ResourceBuilder struct {
	ID       string
	Type     string
	Capacity int
	Now      time.Time
}

func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		ID:       "room-101",
		Type:     "meeting-room",
		Capacity: 10,
		Now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *ResourceBuilder) WithID(id string) *ResourceBuilder {
	b.ID = id
	return b
}

func (b *ResourceBuilder) WithType(t string) *ResourceBuilder {
	b.Type = t
	return b
}

func (b *ResourceBuilder) WithCapacity(capacity int) *ResourceBuilder {
	b.Capacity = capacity
	return b
}

func (b *ResourceBuilder) BuildDomain() (*domresource.Resource, error) {
	id, err := domresource.NewID(b.ID)
	if err != nil {
		return nil, err
	}
	return domresource.NewResource(id, b.Type, b.Capacity, b.Now)
}
