package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/household"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

const medicationColumns = `
	id, user_id, name, dosage, timing, frequency, notes, icon,
	is_archived, stock_quantity, stock_threshold, shared_id, product_id
`

// isMissingColumn detecta el error de esquema viejo (columnas de stock y
// archivado aún no migradas) para degradar la operación en vez de fallar.
func isMissingColumn(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, col := range []string{"stock_quantity", "stock_threshold", "is_archived", "shared_id", "product_id"} {
		if strings.Contains(msg, col) {
			return true
		}
	}
	return false
}

func (r *MedicationsRepo) Upsert(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (`+medicationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			name = EXCLUDED.name,
			dosage = EXCLUDED.dosage,
			timing = EXCLUDED.timing,
			frequency = EXCLUDED.frequency,
			notes = EXCLUDED.notes,
			icon = EXCLUDED.icon,
			is_archived = EXCLUDED.is_archived,
			stock_quantity = EXCLUDED.stock_quantity,
			stock_threshold = EXCLUDED.stock_threshold,
			shared_id = EXCLUDED.shared_id,
			product_id = EXCLUDED.product_id
	`,
		m.ID,
		string(m.UserID),
		m.Name,
		m.Dosage,
		m.Timing,
		string(m.Frequency),
		m.Notes,
		string(m.Icon),
		m.IsArchived,
		toNullInt(m.StockQuantity),
		toNullInt(m.StockThreshold),
		toNullString(m.SharedID),
		toNullString(m.ProductID),
	)
	if isMissingColumn(err) {
		// Esquema sin migrar: se guarda el set reducido de campos en vez
		// de fallar la escritura completa.
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO medications (id, user_id, name, dosage, timing, frequency, notes, icon)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (id) DO UPDATE SET
				user_id = EXCLUDED.user_id,
				name = EXCLUDED.name,
				dosage = EXCLUDED.dosage,
				timing = EXCLUDED.timing,
				frequency = EXCLUDED.frequency,
				notes = EXCLUDED.notes,
				icon = EXCLUDED.icon
		`,
			m.ID, string(m.UserID), m.Name, m.Dosage, m.Timing, string(m.Frequency), m.Notes, string(m.Icon),
		)
	}
	return err
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE id = $1
	`, id)

	m, err := scanMedication(row)
	if err == sql.ErrNoRows {
		return medications.Medication{}, ErrNotFound
	}
	return m, err
}

func (r *MedicationsRepo) ListAll(ctx context.Context) ([]medications.Medication, error) {
	return r.list(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		ORDER BY created_at ASC
	`)
}

func (r *MedicationsRepo) ListByUser(ctx context.Context, userID household.UserID) ([]medications.Medication, error) {
	return r.list(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, string(userID))
}

func (r *MedicationsRepo) ListBySharedID(ctx context.Context, sharedID string) ([]medications.Medication, error) {
	return r.list(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE shared_id = $1
	`, sharedID)
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) list(ctx context.Context, query string, args ...any) ([]medications.Medication, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(row rowScanner) (medications.Medication, error) {
	var m medications.Medication
	var userID, freq string
	var notes, icon, sharedID, productID sql.NullString
	var archived sql.NullBool
	var stockQty, stockThr sql.NullInt64

	if err := row.Scan(
		&m.ID,
		&userID,
		&m.Name,
		&m.Dosage,
		&m.Timing,
		&freq,
		&notes,
		&icon,
		&archived,
		&stockQty,
		&stockThr,
		&sharedID,
		&productID,
	); err != nil {
		return medications.Medication{}, err
	}

	m.UserID = household.UserID(userID)
	m.Frequency = medications.Frequency(freq)
	m.Notes = notes.String
	m.Icon = medications.Icon(icon.String)
	// Filas sin los campos nuevos: sin enlace de stock y no archivado.
	m.IsArchived = archived.Valid && archived.Bool
	if stockQty.Valid {
		q := int(stockQty.Int64)
		m.StockQuantity = &q
	}
	if stockThr.Valid {
		t := int(stockThr.Int64)
		m.StockThreshold = &t
	}
	m.SharedID = sharedID.String
	m.ProductID = productID.String

	return m, nil
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
