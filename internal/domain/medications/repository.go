package medications

import (
	"context"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/household"
)

type Repository interface {
	Upsert(ctx context.Context, m Medication) error
	GetByID(ctx context.Context, id string) (Medication, error)
	ListAll(ctx context.Context) ([]Medication, error)
	ListByUser(ctx context.Context, userID household.UserID) ([]Medication, error)
	ListBySharedID(ctx context.Context, sharedID string) ([]Medication, error)
	Delete(ctx context.Context, id string) error
}
