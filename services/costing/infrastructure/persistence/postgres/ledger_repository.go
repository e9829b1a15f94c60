package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/pkg/database"
	costingdomain "github.com/ghuser/kitchenledger/services/costing/domain"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
	"github.com/ghuser/kitchenledger/services/costing/domain/repositories"
)

// LedgerRepository implements repositories.LedgerRepository against PostgreSQL.
// Amounts are NUMERIC columns scanned into decimal.Decimal.
type LedgerRepository struct {
	db *database.Database
}

// NewLedgerRepository returns a LedgerRepository backed by the given pool.
func NewLedgerRepository(db *database.Database) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) AppendEntry(ctx context.Context, e *models.LedgerEntry) error {
	_, err := r.db.DB().ExecContext(ctx, `
		INSERT INTO costing.ledger_entries
		    (id, recipe_id, kind, quantity, unit_cost_snapshot, total_cost, reason, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.RecipeID, string(e.Kind), e.Quantity, e.UnitCostSnapshot, e.TotalCost, e.Reason, e.RecordedAt,
	)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return costingdomain.ErrRecipeNotFound
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepository) ListEntries(ctx context.Context, kind models.EntryKind, opts repositories.QueryOpts) ([]*models.LedgerEntry, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT id, recipe_id, kind, quantity, unit_cost_snapshot, total_cost, reason, recorded_at
		FROM costing.ledger_entries
		WHERE ($1 = '' OR kind = $1)
		ORDER BY recorded_at DESC, id
		LIMIT NULLIF($2, 0) OFFSET $3`,
		string(kind), opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	out := []*models.LedgerEntry{}
	for rows.Next() {
		var (
			e    models.LedgerEntry
			kind string
		)
		if err := rows.Scan(&e.ID, &e.RecipeID, &kind, &e.Quantity, &e.UnitCostSnapshot,
			&e.TotalCost, &e.Reason, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Kind = models.EntryKind(kind)
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *LedgerRepository) AppendMovement(ctx context.Context, m *models.StockMovement) error {
	_, err := r.db.DB().ExecContext(ctx, `
		INSERT INTO costing.stock_movements
		    (id, ingredient_id, kind, quantity, unit, unit_cost_snapshot, total_cost, reason, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.IngredientID, string(m.Kind), m.Quantity, m.Unit, m.UnitCostSnapshot, m.TotalCost, m.Reason, m.RecordedAt,
	)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return costingdomain.ErrIngredientNotFound
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

func (r *LedgerRepository) ListMovements(ctx context.Context, ingredientID *uuid.UUID, opts repositories.QueryOpts) ([]*models.StockMovement, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT id, ingredient_id, kind, quantity, unit, unit_cost_snapshot, total_cost, reason, recorded_at
		FROM costing.stock_movements
		WHERE ($1::uuid IS NULL OR ingredient_id = $1)
		ORDER BY recorded_at DESC, id
		LIMIT NULLIF($2, 0) OFFSET $3`,
		nullUUID(ingredientID), opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query stock movements: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	out := []*models.StockMovement{}
	for rows.Next() {
		var (
			m    models.StockMovement
			kind string
		)
		if err := rows.Scan(&m.ID, &m.IngredientID, &kind, &m.Quantity, &m.Unit, &m.UnitCostSnapshot,
			&m.TotalCost, &m.Reason, &m.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Kind = models.MovementKind(kind)
		out = append(out, &m)
	}
	return out, rows.Err()
}
