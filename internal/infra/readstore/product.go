package readstore

import (
	"context"

	"expo-ledger/internal/infra"
	"expo-ledger/internal/infra/db"
	"expo-ledger/internal/usecase/queries"

	"github.com/google/uuid"
)

type ProductReadStore struct {
	db db.DBTX
}

func NewProductReadStore(dbtx db.DBTX) *ProductReadStore {
	return &ProductReadStore{db: dbtx}
}

func (r *ProductReadStore) ListByBooth(ctx context.Context, boothID uuid.UUID) ([]*queries.ProductView, error) {
	const query = `SELECT id, booth_id, name, points_cost, stock
	               FROM products WHERE booth_id = $1 ORDER BY name`

	rows, err := r.db.Query(ctx, query, boothID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}
	defer rows.Close()

	var result []*queries.ProductView
	for rows.Next() {
		var view queries.ProductView
		if err := rows.Scan(&view.ID, &view.BoothID, &view.Name, &view.PointsCost, &view.Stock); err != nil {
			return nil, infra.WrapRepoErr("failed to scan product", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read products", err)
	}
	return result, nil
}
