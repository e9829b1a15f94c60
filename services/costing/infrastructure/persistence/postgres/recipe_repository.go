package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/pkg/database"
	"github.com/ghuser/kitchenledger/pkg/events"
	costingdomain "github.com/ghuser/kitchenledger/services/costing/domain"
	domainevents "github.com/ghuser/kitchenledger/services/costing/domain/events"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
	"github.com/ghuser/kitchenledger/services/costing/domain/repositories"
)

const recipeColumns = `id, name, description, category, recipe_type, portions, sell_price, prep_minutes,
	steps, total_cost, margin_percent, active, version, created_at, updated_at`

// RecipeRepository implements repositories.RecipeRepository against PostgreSQL.
// Lines live in costing.recipe_lines and are rewritten with their recipe.
type RecipeRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewRecipeRepository returns a RecipeRepository. The bus publishes
// RecipeSavedEvents inside Save and Update; nil disables publishing.
func NewRecipeRepository(db *database.Database, bus *events.EventBus) *RecipeRepository {
	return &RecipeRepository{db: db, bus: bus}
}

type stepRow struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// Save inserts a new recipe with its lines and publishes RecipeSavedEvent.
func (r *RecipeRepository) Save(ctx context.Context, recipe *models.Recipe) error {
	steps, err := encodeSteps(recipe.Steps)
	if err != nil {
		return err
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO costing.recipes (`+recipeColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			recipe.ID, recipe.Name.String(), recipe.Description, recipe.Category, string(recipe.Type),
			recipe.Portions, recipe.SellPrice, recipe.PrepMinutes, string(steps), recipe.TotalCost,
			recipe.MarginPercent, recipe.Active, recipe.Version, recipe.CreatedAt, recipe.UpdatedAt,
		); err != nil {
			if pgCode(err) == pgUniqueViolation {
				return fmt.Errorf("%w: recipe %s already exists", costingdomain.ErrInvalidRecipe, recipe.ID)
			}
			return fmt.Errorf("insert recipe: %w", err)
		}
		if err := insertLines(ctx, tx, recipe); err != nil {
			return err
		}
		return r.publishSaved(ctx, tx, recipe, recipe.Version)
	})
}

// Update rewrites the recipe row and its lines when recipe.Version is current.
func (r *RecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	steps, err := encodeSteps(recipe.Steps)
	if err != nil {
		return err
	}
	var next int
	err = r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			UPDATE costing.recipes
			SET name = $3, description = $4, category = $5, recipe_type = $6, portions = $7,
			    sell_price = $8, prep_minutes = $9, steps = $10, total_cost = $11,
			    margin_percent = $12, active = $13, updated_at = $14, version = version + 1
			WHERE id = $1 AND version = $2
			RETURNING version`,
			recipe.ID, recipe.Version, recipe.Name.String(), recipe.Description, recipe.Category,
			string(recipe.Type), recipe.Portions, recipe.SellPrice, recipe.PrepMinutes, string(steps),
			recipe.TotalCost, recipe.MarginPercent, recipe.Active, recipe.UpdatedAt,
		).Scan(&next)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return r.missOrConflict(ctx, tx, recipe.ID)
			}
			return fmt.Errorf("update recipe: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM costing.recipe_lines WHERE recipe_id = $1`, recipe.ID); err != nil {
			return fmt.Errorf("clear recipe lines: %w", err)
		}
		if err := insertLines(ctx, tx, recipe); err != nil {
			return err
		}
		return r.publishSaved(ctx, tx, recipe, next)
	})
	if err != nil {
		return err
	}
	recipe.Version = next
	return nil
}

// SaveCosts writes cached totals and line snapshots without publishing.
func (r *RecipeRepository) SaveCosts(ctx context.Context, recipe *models.Recipe) error {
	var next int
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			UPDATE costing.recipes
			SET total_cost = $3, margin_percent = $4, version = version + 1
			WHERE id = $1 AND version = $2
			RETURNING version`,
			recipe.ID, recipe.Version, recipe.TotalCost, recipe.MarginPercent,
		).Scan(&next)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return r.missOrConflict(ctx, tx, recipe.ID)
			}
			return fmt.Errorf("update recipe costs: %w", err)
		}
		for _, l := range recipe.Lines {
			if _, err := tx.ExecContext(ctx, `
				UPDATE costing.recipe_lines SET computed_cost = $3, display_name = $4
				WHERE recipe_id = $1 AND id = $2`,
				recipe.ID, l.ID, l.ComputedCost, l.DisplayName,
			); err != nil {
				return fmt.Errorf("update line %s cost: %w", l.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	recipe.Version = next
	return nil
}

// GetByID returns ErrRecipeNotFound if no row matches.
func (r *RecipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	row := r.db.DB().QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM costing.recipes WHERE id = $1`, id)
	recipe, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, costingdomain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("query recipe: %w", err)
	}
	if err := loadLines(ctx, r.db.DB(), []*models.Recipe{recipe}); err != nil {
		return nil, err
	}
	return recipe, nil
}

// List returns matching recipes ordered by name, lines included.
func (r *RecipeRepository) List(ctx context.Context, f repositories.RecipeFilter) ([]*models.Recipe, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("lower(category) = lower($%d)", len(args)))
	}
	if f.Type != "" {
		args = append(args, string(f.Type))
		where = append(where, fmt.Sprintf("recipe_type = $%d", len(args)))
	}
	q := `SELECT ` + recipeColumns + ` FROM costing.recipes`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY name, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.DB().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	out := []*models.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		out = append(out, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	if err := loadLines(ctx, r.db.DB(), out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a recipe. A recipe still used as a sub-recipe or recorded in
// the ledger yields ErrRecipeInUse.
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.DB().ExecContext(ctx, `DELETE FROM costing.recipes WHERE id = $1`, id)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return costingdomain.ErrRecipeInUse
		}
		return fmt.Errorf("delete recipe: %w", err)
	}
	return requireRow(res, costingdomain.ErrRecipeNotFound)
}

// missOrConflict distinguishes a missing recipe from a stale version after a
// guarded UPDATE matched nothing.
func (r *RecipeRepository) missOrConflict(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM costing.recipes WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check recipe: %w", err)
	}
	if !exists {
		return costingdomain.ErrRecipeNotFound
	}
	return costingdomain.ErrRecipeVersionConflict
}

func (r *RecipeRepository) publishSaved(ctx context.Context, tx *sql.Tx, recipe *models.Recipe, version int) error {
	evt := domainevents.NewRecipeSaved(recipe.ID, version, recipe.TotalCost, recipe.Portions, recipe.UpdatedAt)
	if err := publish(ctx, r.bus, tx, domainevents.TopicRecipeSaved, evt.EventID, evt); err != nil {
		return fmt.Errorf("publish recipe saved: %w", err)
	}
	return nil
}

func insertLines(ctx context.Context, tx *sql.Tx, recipe *models.Recipe) error {
	for pos, l := range recipe.Lines {
		ingID, subID, unit := l.Refs()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO costing.recipe_lines
			    (id, recipe_id, position, ingredient_id, sub_recipe_id, unit, quantity, computed_cost, display_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.ID, recipe.ID, pos, nullUUID(ingID), nullUUID(subID), unit, l.Quantity, l.ComputedCost, l.DisplayName,
		)
		if err != nil {
			if pgCode(err) == pgForeignKeyViolation {
				return fmt.Errorf("%w: line %s references a missing ingredient or recipe", costingdomain.ErrInvalidRecipe, l.ID)
			}
			return fmt.Errorf("insert line %s: %w", l.ID, err)
		}
	}
	return nil
}

// loadLines fills Lines for every recipe with one query.
func loadLines(ctx context.Context, q execer, recipes []*models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.Recipe, len(recipes))
	ids := make([]string, 0, len(recipes))
	for _, rec := range recipes {
		byID[rec.ID] = rec
		ids = append(ids, rec.ID.String())
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, recipe_id, ingredient_id, sub_recipe_id, unit, quantity, computed_cost, display_name
		FROM costing.recipe_lines
		WHERE recipe_id = ANY($1::uuid[])
		ORDER BY recipe_id, position`, ids)
	if err != nil {
		return fmt.Errorf("query recipe lines: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var (
			id, recipeID uuid.UUID
			ingID, subID uuid.NullUUID
			unit, name   string
			qty, cost    float64
		)
		if err := rows.Scan(&id, &recipeID, &ingID, &subID, &unit, &qty, &cost, &name); err != nil {
			return fmt.Errorf("scan recipe line: %w", err)
		}
		line, err := models.NewLineItemFromRefs(id, uuidPtr(ingID), uuidPtr(subID), unit, qty)
		if err != nil {
			return err
		}
		line.ComputedCost = cost
		line.DisplayName = name
		rec := byID[recipeID]
		rec.Lines = append(rec.Lines, line)
	}
	return rows.Err()
}

func scanRecipe(s scanner) (*models.Recipe, error) {
	var (
		rec   models.Recipe
		name  string
		typ   string
		steps []byte
	)
	if err := s.Scan(&rec.ID, &name, &rec.Description, &rec.Category, &typ, &rec.Portions,
		&rec.SellPrice, &rec.PrepMinutes, &steps, &rec.TotalCost, &rec.MarginPercent,
		&rec.Active, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Name = models.Name(name)
	rec.Type = models.RecipeType(typ)

	var rows []stepRow
	if err := json.Unmarshal(steps, &rows); err != nil {
		return nil, fmt.Errorf("decode steps of %s: %w", rec.ID, err)
	}
	for _, s := range rows {
		rec.Steps = append(rec.Steps, models.Step{Title: s.Title, Description: s.Description, DurationMinutes: s.DurationMinutes})
	}
	return &rec, nil
}

func encodeSteps(steps []models.Step) ([]byte, error) {
	rows := make([]stepRow, len(steps))
	for i, s := range steps {
		rows[i] = stepRow{Title: s.Title, Description: s.Description, DurationMinutes: s.DurationMinutes}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode steps: %w", err)
	}
	return b, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}
