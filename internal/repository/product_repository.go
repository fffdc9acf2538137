package repository

import (
	"context"
	"database/sql"
)

// ProductRepo provides read access to the products table.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo returns a new ProductRepo bound to the given database.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

// DefaultForCampTx returns the id of the camp's default product: the most
// recently created product under the camp.  When the camp has no products
// yet, (nil, nil) is returned and the caller leaves purchases.product_id
// empty.
func (r *ProductRepo) DefaultForCampTx(ctx context.Context, tx *sql.Tx, campID uint64) (*uint64, error) {
	const q = `SELECT id FROM products WHERE camp_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`
	var id uint64
	err := tx.QueryRowContext(ctx, q, campID).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}
