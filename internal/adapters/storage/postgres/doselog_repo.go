package postgres

import (
	"context"
	"database/sql"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/doselog"
)

type DoseLogRepo struct {
	db *sql.DB
}

func NewDoseLogRepo(db *sql.DB) *DoseLogRepo {
	return &DoseLogRepo{db: db}
}

// Set es idempotente: si el hecho ya existe, no pasa nada.
func (r *DoseLogRepo) Set(ctx context.Context, date, medicationID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO logs (date, medication_id, taken)
		VALUES ($1, $2, true)
		ON CONFLICT (date, medication_id) DO NOTHING
	`, date, medicationID)
	return err
}

// Delete borra el hecho por completo: des-marcar no deja tombstone.
func (r *DoseLogRepo) Delete(ctx context.Context, date, medicationID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM logs WHERE date = $1 AND medication_id = $2
	`, date, medicationID)
	return err
}

func (r *DoseLogRepo) Exists(ctx context.Context, date, medicationID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM logs WHERE date = $1 AND medication_id = $2
	`, date, medicationID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *DoseLogRepo) ListAll(ctx context.Context) ([]doselog.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, medication_id FROM logs WHERE taken = true
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]doselog.Entry, 0)
	for rows.Next() {
		var e doselog.Entry
		if err := rows.Scan(&e.Date, &e.MedicationID); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *DoseLogRepo) DeleteByMedication(ctx context.Context, medicationID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM logs WHERE medication_id = $1
	`, medicationID)
	return err
}
