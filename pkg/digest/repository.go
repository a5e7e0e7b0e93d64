package digest

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
)

// Repository persists digest items. It only ever appends.
type Repository interface {
	Append(ctx context.Context, item Item) (Item, error)
}

// MemoryRepository keeps items in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []Item
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Append(ctx context.Context, item Item) (Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.Payload = notifications.ClonePayload(item.Payload)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
	return item, nil
}

// Items returns a copy of every queued item.
func (r *MemoryRepository) Items() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items)
}
