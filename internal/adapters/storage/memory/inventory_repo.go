package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/inventory"
)

type inventoryRepo struct {
	mu   sync.RWMutex
	byID map[string]inventory.Item
}

func NewInventoryRepo() inventory.ItemRepository {
	return &inventoryRepo{
		byID: make(map[string]inventory.Item),
	}
}

func (r *inventoryRepo) Upsert(ctx context.Context, it inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(it.ID) == "" {
		return errors.New("inventory id required")
	}
	r.byID[it.ID] = it
	return nil
}

func (r *inventoryRepo) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.byID[id]
	if !ok {
		return inventory.Item{}, ErrNotFound
	}
	return it, nil
}

func (r *inventoryRepo) ListAll(ctx context.Context) ([]inventory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inventory.Item, 0, len(r.byID))
	for _, it := range r.byID {
		out = append(out, it)
	}
	return out, nil
}

func (r *inventoryRepo) AdjustQuantity(ctx context.Context, id string, delta int) (inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.byID[id]
	if !ok {
		return inventory.Item{}, ErrNotFound
	}
	// Relativo y sin clamp: puede quedar negativa.
	it.Quantity += delta
	r.byID[id] = it
	return it, nil
}

func (r *inventoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type inventoryLogRepo struct {
	mu   sync.RWMutex
	logs []inventory.Log
}

func NewInventoryLogRepo() inventory.LogRepository {
	return &inventoryLogRepo{logs: make([]inventory.Log, 0)}
}

func (r *inventoryLogRepo) Append(ctx context.Context, l inventory.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, l)
	return nil
}

func (r *inventoryLogRepo) ListAll(ctx context.Context) ([]inventory.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inventory.Log, len(r.logs))
	copy(out, r.logs)
	return out, nil
}
