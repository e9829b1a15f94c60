package events

import (
	"context"
	"errors"
	"fmt"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
)

var (
	ErrNoOutbox         = errors.New("events: bus was opened without an outbox")
	ErrForwarderRunning = errors.New("events: forwarder already started")
)

func (b *EventBus) wrapOutbox(pub message.Publisher) message.Publisher {
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

// StartForwarder drains the outbox topic into the real topics in the
// background and returns once the forwarder is running.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if !b.outbox {
		return ErrNoOutbox
	}
	if b.fwd != nil {
		return ErrForwarderRunning
	}

	wlog := newWatermillLogger(b.log).With(map[string]any{"component": "forwarder"})
	sub, err := watermillsql.NewSubscriber(b.db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    "costing-outbox",
	}, wlog)
	if err != nil {
		return fmt.Errorf("events: outbox subscriber: %w", err)
	}
	target, err := watermillsql.NewPublisher(b.db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: true,
	}, wlog)
	if err != nil {
		_ = sub.Close()
		return fmt.Errorf("events: outbox target publisher: %w", err)
	}
	fwd, err := forwarder.NewForwarder(sub, target, wlog, forwarder.Config{ForwarderTopic: forwarderTopic})
	if err != nil {
		_ = target.Close()
		_ = sub.Close()
		return fmt.Errorf("events: new forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
			return
		}
		b.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		b.log.InfoContext(ctx, "events: forwarder running", "topic", forwarderTopic)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}
