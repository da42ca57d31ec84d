package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/inventory"
)

type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

func (r *InventoryRepo) Upsert(ctx context.Context, it inventory.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory (id, name, quantity, threshold, pack_size, unit)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			quantity = EXCLUDED.quantity,
			threshold = EXCLUDED.threshold,
			pack_size = EXCLUDED.pack_size,
			unit = EXCLUDED.unit
	`,
		it.ID, it.Name, it.Quantity, it.Threshold, it.PackSize, it.Unit,
	)
	return err
}

func (r *InventoryRepo) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return inventory.Item{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, quantity, threshold, pack_size, unit
		FROM inventory
		WHERE id = $1
	`, id)

	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return inventory.Item{}, ErrNotFound
	}
	return it, err
}

func (r *InventoryRepo) ListAll(ctx context.Context) ([]inventory.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, quantity, threshold, pack_size, unit
		FROM inventory
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inventory.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// AdjustQuantity es un update relativo en una sola sentencia: la cantidad
// autoritativa vive en esta fila y puede quedar negativa.
func (r *InventoryRepo) AdjustQuantity(ctx context.Context, id string, delta int) (inventory.Item, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE inventory
		SET quantity = quantity + $2
		WHERE id = $1
		RETURNING id, name, quantity, threshold, pack_size, unit
	`, id, delta)

	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return inventory.Item{}, ErrNotFound
	}
	return it, err
}

func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItem(row rowScanner) (inventory.Item, error) {
	var it inventory.Item
	var packSize sql.NullInt64
	var unit sql.NullString

	if err := row.Scan(&it.ID, &it.Name, &it.Quantity, &it.Threshold, &packSize, &unit); err != nil {
		return inventory.Item{}, err
	}
	it.PackSize = int(packSize.Int64)
	it.Unit = unit.String
	return it, nil
}

type InventoryLogRepo struct {
	db *sql.DB
}

func NewInventoryLogRepo(db *sql.DB) *InventoryLogRepo {
	return &InventoryLogRepo{db: db}
}

// Append solo inserta: el registro de recargas no se edita nunca.
func (r *InventoryLogRepo) Append(ctx context.Context, l inventory.Log) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory_logs (id, inventory_id, product_name, amount_added, packs_added, date)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		l.ID, l.InventoryID, l.ProductName, l.AmountAdded, l.PacksAdded, l.Date,
	)
	return err
}

func (r *InventoryLogRepo) ListAll(ctx context.Context) ([]inventory.Log, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, inventory_id, product_name, amount_added, packs_added, date
		FROM inventory_logs
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inventory.Log, 0)
	for rows.Next() {
		var l inventory.Log
		if err := rows.Scan(&l.ID, &l.InventoryID, &l.ProductName, &l.AmountAdded, &l.PacksAdded, &l.Date); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
