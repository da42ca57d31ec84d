package memory

import (
	"context"
	"sync"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/doselog"
)

type doseLogRepo struct {
	mu   sync.RWMutex
	keys map[string]struct{} // día|medicamento
}

func NewDoseLogRepo() doselog.Repository {
	return &doseLogRepo{
		keys: make(map[string]struct{}),
	}
}

func key(date, medicationID string) string {
	return date + "|" + medicationID
}

func (r *doseLogRepo) Set(ctx context.Context, date, medicationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keys[key(date, medicationID)] = struct{}{}
	return nil
}

func (r *doseLogRepo) Delete(ctx context.Context, date, medicationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.keys, key(date, medicationID))
	return nil
}

func (r *doseLogRepo) Exists(ctx context.Context, date, medicationID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.keys[key(date, medicationID)]
	return ok, nil
}

func (r *doseLogRepo) ListAll(ctx context.Context) ([]doselog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doselog.Entry, 0, len(r.keys))
	for k := range r.keys {
		// k = YYYY-MM-DD|medID; la fecha tiene largo fijo.
		out = append(out, doselog.Entry{Date: k[:10], MedicationID: k[11:]})
	}
	return out, nil
}

func (r *doseLogRepo) DeleteByMedication(ctx context.Context, medicationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	suffix := "|" + medicationID
	for k := range r.keys {
		if len(k) > 11 && k[10:] == suffix {
			delete(r.keys, k)
		}
	}
	return nil
}
