// Package events is the PostgreSQL-backed event bus carrying costing changes
// from the API to the recost worker, built on Watermill's SQL transport.
//
// Subscribers in one consumer group share the stream: each message reaches one
// instance. Handlers must be idempotent; a message is retried with exponential
// backoff and Nacked once retries run out.
//
// The W3C trace context travels in message metadata, so a recost span joins
// the trace of the edit that caused it.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/kitchenledger/pkg/config"
	"github.com/ghuser/kitchenledger/pkg/logger"
)

const (
	drainTimeout   = 30 * time.Second
	forwarderTopic = "_costing_outbox"
)

// RetryPolicy bounds handler retries for one message.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	return p
}

// EventBus publishes and consumes messages through PostgreSQL tables using
// FOR UPDATE SKIP LOCKED for concurrent-safe delivery.
type EventBus struct {
	db         *sql.DB
	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder
	outbox     bool
	retry      RetryPolicy
	log        logger.Logger
	wg         sync.WaitGroup
}

// NewEventBus publishes straight to topic tables. Use it in processes that
// only consume, like the worker.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return open(cfg, log, false)
}

// NewEventBusWithForwarder routes every publish through a durable outbox
// topic; StartForwarder moves them to their target topics. An event written
// in a transaction is delivered once the transaction commits, even if the
// process dies right after.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return open(cfg, log, true)
}

func open(cfg *config.Config, log logger.Logger, outbox bool) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DefinitionDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	wlog := newWatermillLogger(log)
	pub, err := newSQLPublisher(db, wlog)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	group := cfg.EventConsumerGroup
	if group == "" {
		group = cfg.ServiceName + "-consumer"
	}
	sub, err := newSQLSubscriber(db, group, wlog)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, err
	}

	b := &EventBus{
		db:         db,
		publisher:  pub,
		subscriber: sub,
		outbox:     outbox,
		retry:      RetryPolicy{Attempts: cfg.EventRetryAttempts, BaseDelay: cfg.EventRetryBaseDelay}.normalized(),
		log:        log,
	}
	if outbox {
		b.publisher = b.wrapOutbox(pub)
	}
	return b, nil
}

// DB returns the connection the bus stores messages on.
func (b *EventBus) DB() *sql.DB {
	return b.db
}

// Ping checks the bus database connection.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, waits up to drainTimeout for in-flight handlers,
// then releases the publisher and the database.
func (b *EventBus) Close() error {
	errs := []error{b.subscriber.Close()}
	if b.fwd != nil {
		errs = append(errs, b.fwd.Close())
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		b.log.Error("events: timed out waiting for in-flight handlers")
	}

	errs = append(errs, b.publisher.Close(), b.db.Close())
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("events: close: %w", err)
	}
	return nil
}

func newSQLPublisher(db *sql.DB, wlog *watermillLogger) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: true,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

func newSQLSubscriber(db *sql.DB, group string, wlog *watermillLogger) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}
	return sub, nil
}
