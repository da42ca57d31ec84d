package notify

import "context"

// Notifier es el colaborador de avisos de stock bajo. El core solo decide
// cuándo avisar; la entrega (push, webhook, lo que sea) es cosa del adapter.
type Notifier interface {
	LowStock(ctx context.Context, medicationName string, remaining int) error
}

// Noop descarta los avisos. Útil en dev y tests.
type Noop struct{}

func (Noop) LowStock(ctx context.Context, medicationName string, remaining int) error {
	return nil
}
