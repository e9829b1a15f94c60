package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// CostCacheTTL is the time-to-live for cached recipe costs.
	CostCacheTTL = 24 * time.Hour

	costCacheKeyPrefix = "recipe_cost"
)

// CachedLine is one line of a cached cost breakdown.
type CachedLine struct {
	LineID   uuid.UUID `msgpack:"id"`
	Name     string    `msgpack:"n"`
	Cost     float64   `msgpack:"c"`
	Degraded bool      `msgpack:"d,omitempty"`
}

// CachedCost is the live cost read model of one recipe at a given recipe version.
// Scalars are hash fields; the line breakdown is a msgpack blob in the "lines" field.
type CachedCost struct {
	RecipeID          uuid.UUID
	RecipeVersion     int
	TotalCost         float64
	CostPerPortion    float64
	MarginPercent     float64
	Profitability     string
	ThresholdsVersion string
	Degraded          bool
	Lines             []CachedLine
	ComputedAt        time.Time
}

// CostCache stores live recipe costs in Redis.
// Key format: "<namespace>:recipe_cost:{recipeID}"
type CostCache struct {
	client *RedisClient
}

// NewCostCache creates a new CostCache backed by the given RedisClient.
func NewCostCache(r *RedisClient) *CostCache {
	return &CostCache{client: r}
}

// Get retrieves a cached cost. Returns redis.Nil when the key does not exist or has expired.
func (c *CostCache) Get(ctx context.Context, recipeID uuid.UUID) (*CachedCost, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(recipeID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	return decodeCost(recipeID, vals)
}

// Set writes a cached cost as a Redis hash with CostCacheTTL.
// Uses a pipeline so the fields and the TTL land together.
func (c *CostCache) Set(ctx context.Context, cost *CachedCost) error {
	lines, err := msgpack.Marshal(cost.Lines)
	if err != nil {
		return fmt.Errorf("cache encode lines: %w", err)
	}
	key := c.key(cost.RecipeID)
	pipe := c.client.Client().TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		"recipe_version", cost.RecipeVersion,
		"total_cost", formatFloat(cost.TotalCost),
		"cost_per_portion", formatFloat(cost.CostPerPortion),
		"margin_percent", formatFloat(cost.MarginPercent),
		"profitability", cost.Profitability,
		"thresholds_version", cost.ThresholdsVersion,
		"degraded", strconv.FormatBool(cost.Degraded),
		"lines", lines,
		"computed_at", cost.ComputedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, CostCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes cached costs for the given recipes.
func (c *CostCache) Delete(ctx context.Context, recipeIDs ...uuid.UUID) error {
	if len(recipeIDs) == 0 {
		return nil
	}
	keys := make([]string, len(recipeIDs))
	for i, id := range recipeIDs {
		keys[i] = c.key(id)
	}
	if err := c.client.Client().Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "<namespace>:recipe_cost:{recipeID}"
func (c *CostCache) key(recipeID uuid.UUID) string {
	return c.client.Key(costCacheKeyPrefix, recipeID.String())
}

func decodeCost(recipeID uuid.UUID, vals map[string]string) (*CachedCost, error) {
	out := &CachedCost{
		RecipeID:          recipeID,
		Profitability:     vals["profitability"],
		ThresholdsVersion: vals["thresholds_version"],
	}
	var err error
	if out.RecipeVersion, err = strconv.Atoi(vals["recipe_version"]); err != nil {
		return nil, fmt.Errorf("cache parse recipe_version: %w", err)
	}
	for field, dst := range map[string]*float64{
		"total_cost":       &out.TotalCost,
		"cost_per_portion": &out.CostPerPortion,
		"margin_percent":   &out.MarginPercent,
	} {
		if *dst, err = strconv.ParseFloat(vals[field], 64); err != nil {
			return nil, fmt.Errorf("cache parse %s: %w", field, err)
		}
	}
	if out.Degraded, err = strconv.ParseBool(vals["degraded"]); err != nil {
		return nil, fmt.Errorf("cache parse degraded: %w", err)
	}
	if err := msgpack.Unmarshal([]byte(vals["lines"]), &out.Lines); err != nil {
		return nil, fmt.Errorf("cache decode lines: %w", err)
	}
	if out.ComputedAt, err = time.Parse(time.RFC3339Nano, vals["computed_at"]); err != nil {
		return nil, fmt.Errorf("cache parse computed_at: %w", err)
	}
	return out, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
