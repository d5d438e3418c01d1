package repository

import (
	"context"
	"errors"

	"expo-ledger/internal/infra"
	"expo-ledger/internal/infra/db"
	"expo-ledger/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository struct {
	db db.DBTX
}

func NewProductRepository(dbtx db.DBTX) *ProductRepository {
	return &ProductRepository{db: dbtx}
}

func (r *ProductRepository) Find(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	const query = `SELECT id, booth_id, name, points_cost, stock
	               FROM products WHERE id = $1`

	var snap shared.ProductSnapshot
	err := r.db.QueryRow(ctx, query, id).
		Scan(&snap.ID, &snap.BoothID, &snap.Name, &snap.PointsCost, &snap.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product", err)
	}
	return &snap, nil
}

// DecrementStock is conditional on remaining stock so the never-negative
// invariant holds even when two terminals race for the last unit.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int32) error {
	const query = `UPDATE products SET stock = stock - $2
	               WHERE id = $1 AND stock >= $2`

	tag, err := r.db.Exec(ctx, query, id, quantity)
	if err != nil {
		return infra.WrapRepoErr("failed to decrement stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insufficient stock", nil, infra.KindConflict)
	}
	return nil
}
