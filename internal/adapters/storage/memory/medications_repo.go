package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/household"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/medications"
)

var (
	ErrNotFound = errors.New("not found")
)

type medicationsRepo struct {
	mu   sync.RWMutex
	byID map[string]medications.Medication
	// Orden de inserción, para listar estable como hace el almacén real
	// (order by created_at).
	seq map[string]int
	n   int
}

func NewMedicationsRepo() medications.Repository {
	return &medicationsRepo{
		byID: make(map[string]medications.Medication),
		seq:  make(map[string]int),
	}
}

func (r *medicationsRepo) Upsert(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medication id required")
	}
	if _, exists := r.byID[m.ID]; !exists {
		r.seq[m.ID] = r.n
		r.n++
	}
	r.byID[m.ID] = m
	return nil
}

func (r *medicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medications.Medication{}, ErrNotFound
	}
	return m, nil
}

func (r *medicationsRepo) ListAll(ctx context.Context) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	r.sortBySeq(out)
	return out, nil
}

func (r *medicationsRepo) ListByUser(ctx context.Context, userID household.UserID) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0)
	for _, m := range r.byID {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	r.sortBySeq(out)
	return out, nil
}

func (r *medicationsRepo) ListBySharedID(ctx context.Context, sharedID string) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0)
	for _, m := range r.byID {
		if m.SharedID == sharedID {
			out = append(out, m)
		}
	}
	r.sortBySeq(out)
	return out, nil
}

func (r *medicationsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.seq, id)
	return nil
}

func (r *medicationsRepo) sortBySeq(out []medications.Medication) {
	sort.Slice(out, func(i, j int) bool {
		return r.seq[out[i].ID] < r.seq[out[j].ID]
	})
}
