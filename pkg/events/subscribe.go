package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/kitchenledger/pkg/logger"
)

const errBuffer = 100

// Handler processes one message. A nil return acks it.
type Handler func(ctx context.Context, msg *message.Message) error

// Subscriber is the consuming side of the bus.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error)
}

var _ Subscriber = (*EventBus)(nil)

// Subscribe consumes topic in the background. Each message runs through
// handler under the bus retry policy; a message that still fails is Nacked
// and its error sent on the returned channel, which callers must drain.
// Close waits for in-flight handlers.
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	msgs, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errBuffer)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)
		for msg := range msgs {
			msgCtx := extractTrace(ctx, msg)
			log := b.log.With("topic", topic, "event_id", msg.Metadata.Get(MetaEventID))
			if err := retryWithBackoff(msgCtx, msg, handler, b.retry, log); err != nil {
				msg.Nack()
				select {
				case errCh <- err:
				default:
					log.ErrorContext(msgCtx, "events: error channel full, dropping error", "error", err)
				}
				continue
			}
			msg.Ack()
		}
	}()
	return errCh, nil
}

// retryWithBackoff runs handler up to p.Attempts times, doubling the delay
// after each failure.
func retryWithBackoff(ctx context.Context, msg *message.Message, handler Handler, p RetryPolicy, log logger.Logger) error {
	p = p.normalized()
	delay := p.BaseDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == p.Attempts {
			return fmt.Errorf("events: handler failed after %d attempts: %w", attempt, err)
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt, "max_attempts", p.Attempts, "next_delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
