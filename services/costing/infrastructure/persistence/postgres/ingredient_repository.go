package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/pkg/database"
	"github.com/ghuser/kitchenledger/pkg/events"
	costingdomain "github.com/ghuser/kitchenledger/services/costing/domain"
	domainevents "github.com/ghuser/kitchenledger/services/costing/domain/events"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
)

const ingredientColumns = `id, name, category, purchase_unit, unit_cost, density, supplier, active, created_at, updated_at`

// IngredientRepository implements repositories.IngredientRepository against PostgreSQL.
type IngredientRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewIngredientRepository returns an IngredientRepository. The bus publishes
// IngredientUpdatedEvents inside each write transaction; nil disables publishing.
func NewIngredientRepository(db *database.Database, bus *events.EventBus) *IngredientRepository {
	return &IngredientRepository{db: db, bus: bus}
}

// Save inserts a new ingredient. Returns ErrIngredientAlreadyExists on a duplicate id or name.
func (r *IngredientRepository) Save(ctx context.Context, ing *models.Ingredient) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO costing.ingredients (`+ingredientColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			ing.ID, ing.Name.String(), ing.Category, ing.PurchaseUnit, ing.UnitCost,
			ing.Density, ing.Supplier, ing.Active, ing.CreatedAt, ing.UpdatedAt,
		)
		if err != nil {
			if pgCode(err) == pgUniqueViolation {
				return costingdomain.ErrIngredientAlreadyExists
			}
			return fmt.Errorf("insert ingredient: %w", err)
		}
		return r.publishUpdated(ctx, tx, ing)
	})
}

// Update overwrites the editable fields of an existing ingredient.
func (r *IngredientRepository) Update(ctx context.Context, ing *models.Ingredient) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE costing.ingredients
			SET name = $2, category = $3, purchase_unit = $4, unit_cost = $5,
			    density = $6, supplier = $7, active = $8, updated_at = $9
			WHERE id = $1`,
			ing.ID, ing.Name.String(), ing.Category, ing.PurchaseUnit, ing.UnitCost,
			ing.Density, ing.Supplier, ing.Active, ing.UpdatedAt,
		)
		if err != nil {
			if pgCode(err) == pgUniqueViolation {
				return costingdomain.ErrIngredientAlreadyExists
			}
			return fmt.Errorf("update ingredient: %w", err)
		}
		if err := requireRow(res, costingdomain.ErrIngredientNotFound); err != nil {
			return err
		}
		return r.publishUpdated(ctx, tx, ing)
	})
}

// UpdatePrices writes new unit costs in one transaction, one event per ingredient.
func (r *IngredientRepository) UpdatePrices(ctx context.Context, ings []*models.Ingredient) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, ing := range ings {
			res, err := tx.ExecContext(ctx,
				`UPDATE costing.ingredients SET unit_cost = $2, updated_at = $3 WHERE id = $1`,
				ing.ID, ing.UnitCost, ing.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("update price of %s: %w", ing.ID, err)
			}
			if err := requireRow(res, costingdomain.ErrIngredientNotFound); err != nil {
				return fmt.Errorf("%w: %s", err, ing.ID)
			}
			if err := r.publishUpdated(ctx, tx, ing); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID returns ErrIngredientNotFound if no row matches.
func (r *IngredientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM costing.ingredients WHERE id = $1`, id)
	ing, err := scanIngredient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, costingdomain.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("query ingredient: %w", err)
	}
	return ing, nil
}

// List returns all ingredients ordered by name.
func (r *IngredientRepository) List(ctx context.Context) ([]*models.Ingredient, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT `+ingredientColumns+` FROM costing.ingredients ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	out := []*models.Ingredient{}
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// Delete removes an ingredient. Recipe lines and stock movements hold
// restrictive foreign keys, so a referenced ingredient yields ErrIngredientInUse.
func (r *IngredientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.DB().ExecContext(ctx, `DELETE FROM costing.ingredients WHERE id = $1`, id)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return costingdomain.ErrIngredientInUse
		}
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return requireRow(res, costingdomain.ErrIngredientNotFound)
}

func (r *IngredientRepository) publishUpdated(ctx context.Context, tx *sql.Tx, ing *models.Ingredient) error {
	evt := domainevents.NewIngredientUpdated(ing.ID, ing.PurchaseUnit, ing.UnitCost, ing.UpdatedAt)
	if err := publish(ctx, r.bus, tx, domainevents.TopicIngredientUpdated, evt.EventID, evt); err != nil {
		return fmt.Errorf("publish ingredient updated: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIngredient(s scanner) (*models.Ingredient, error) {
	var (
		ing  models.Ingredient
		name string
	)
	if err := s.Scan(&ing.ID, &name, &ing.Category, &ing.PurchaseUnit, &ing.UnitCost,
		&ing.Density, &ing.Supplier, &ing.Active, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
		return nil, err
	}
	ing.Name = models.Name(name)
	return &ing, nil
}

// requireRow returns notFound when res affected no rows.
func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
