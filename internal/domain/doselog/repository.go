package doselog

import "context"

type Repository interface {
	// Set inserta el hecho si no existe (idempotente).
	Set(ctx context.Context, date, medicationID string) error
	// Delete borra el hecho; borrar lo que no existe no es error.
	Delete(ctx context.Context, date, medicationID string) error
	Exists(ctx context.Context, date, medicationID string) (bool, error)
	ListAll(ctx context.Context) ([]Entry, error)
	DeleteByMedication(ctx context.Context, medicationID string) error
}
