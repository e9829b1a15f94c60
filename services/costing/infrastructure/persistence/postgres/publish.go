package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/kitchenledger/pkg/events"
	domainevents "github.com/ghuser/kitchenledger/services/costing/domain/events"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// publish writes event to topic within tx, so the message commits or rolls
// back with the row change. No-op without a bus.
func publish(ctx context.Context, bus *events.EventBus, tx *sql.Tx, topic string, eventID uuid.UUID, event any) error {
	if bus == nil {
		return nil
	}
	msg, err := events.NewJSONMessage(eventID.String(), domainevents.SchemaVersion, event)
	if err != nil {
		return err
	}
	return bus.PublishTx(ctx, tx, topic, msg)
}

// pgCode returns the SQLSTATE of err, or "" when err is not a PostgreSQL error.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
