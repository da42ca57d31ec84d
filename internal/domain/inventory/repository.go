package inventory

import "context"

type ItemRepository interface {
	Upsert(ctx context.Context, it Item) error
	GetByID(ctx context.Context, id string) (Item, error)
	ListAll(ctx context.Context) ([]Item, error)
	// AdjustQuantity aplica un delta relativo sobre la cantidad autoritativa.
	AdjustQuantity(ctx context.Context, id string, delta int) (Item, error)
	Delete(ctx context.Context, id string) error
}

// LogRepository es append-only desde la perspectiva del core.
type LogRepository interface {
	Append(ctx context.Context, l Log) error
	ListAll(ctx context.Context) ([]Log, error)
}
