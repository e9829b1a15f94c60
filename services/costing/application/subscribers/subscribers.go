// Package subscribers consumes costing events and keeps dependent recipes
// costed. A pass runs in-process or, when a workflow starter is configured,
// as a durable Temporal workflow.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/pkg/events"
	"github.com/ghuser/kitchenledger/pkg/logger"
	"github.com/ghuser/kitchenledger/pkg/workflows"
	appsvcs "github.com/ghuser/kitchenledger/services/costing/application/services"
	domainevents "github.com/ghuser/kitchenledger/services/costing/domain/events"
)

// Recoster recomputes the recipes depending on what changed.
type Recoster interface {
	RecostDependents(ctx context.Context, changedRecipes, changedIngredients []uuid.UUID) (*appsvcs.RecostResult, error)
}

// WorkflowStarter hands a recost pass to a workflow engine.
type WorkflowStarter interface {
	StartRecost(ctx context.Context, taskQueue string, req workflows.RecostRequest) error
}

// Dispatcher routes recost requests.
type Dispatcher struct {
	recoster  Recoster
	starter   WorkflowStarter
	taskQueue string
	log       logger.Logger
}

// NewDispatcher runs recost passes through recoster.
func NewDispatcher(recoster Recoster, log logger.Logger) *Dispatcher {
	return &Dispatcher{recoster: recoster, log: log}
}

// WithWorkflows returns a copy of d that starts a workflow on taskQueue for
// each pass instead of running it in-process.
func (d *Dispatcher) WithWorkflows(starter WorkflowStarter, taskQueue string) *Dispatcher {
	cp := *d
	cp.starter = starter
	cp.taskQueue = taskQueue
	return &cp
}

// Dispatch runs or schedules one recost pass. Per-recipe failures are logged
// and do not fail the pass.
func (d *Dispatcher) Dispatch(ctx context.Context, req workflows.RecostRequest) error {
	if d.starter != nil {
		return d.starter.StartRecost(ctx, d.taskQueue, req)
	}
	res, err := d.recoster.RecostDependents(ctx, req.ChangedRecipes, req.ChangedIngredients)
	if err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		d.log.WarnContext(ctx, "recost pass finished with failures",
			"event_id", req.EventID, "recosted", len(res.Recosted), "failed", res.Failed)
		return nil
	}
	d.log.InfoContext(ctx, "recost pass finished",
		"event_id", req.EventID, "recosted", len(res.Recosted))
	return nil
}

// ActivityFunc adapts a Recoster to the workflow activity.
func ActivityFunc(r Recoster) workflows.RecostFunc {
	return func(ctx context.Context, recipes, ingredients []uuid.UUID) (workflows.RecostOutcome, error) {
		res, err := r.RecostDependents(ctx, recipes, ingredients)
		if err != nil {
			return workflows.RecostOutcome{}, err
		}
		return workflows.RecostOutcome{Recosted: res.Recosted, Failed: res.Failed}, nil
	}
}

// HandleIngredientUpdated recosts every recipe using the updated ingredient.
// Handlers must be idempotent; the bus retries on failure.
func HandleIngredientUpdated(d *Dispatcher) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		var evt domainevents.IngredientUpdatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", domainevents.TopicIngredientUpdated, err)
		}
		return d.Dispatch(ctx, workflows.RecostRequest{
			EventID:            evt.EventID.String(),
			ChangedIngredients: []uuid.UUID{evt.IngredientID},
		})
	}
}

// HandleRecipeSaved recosts every recipe using the saved recipe as a sub-recipe.
func HandleRecipeSaved(d *Dispatcher) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		var evt domainevents.RecipeSavedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", domainevents.TopicRecipeSaved, err)
		}
		return d.Dispatch(ctx, workflows.RecostRequest{
			EventID:        evt.EventID.String(),
			ChangedRecipes: []uuid.UUID{evt.RecipeID},
		})
	}
}

// Register subscribes the costing handlers and drains their error channels
// in the background.
func Register(ctx context.Context, sub events.Subscriber, d *Dispatcher, log logger.Logger) error {
	handlers := map[string]events.Handler{
		domainevents.TopicIngredientUpdated: HandleIngredientUpdated(d),
		domainevents.TopicRecipeSaved:       HandleRecipeSaved(d),
	}
	topics := make([]string, 0, len(handlers))
	for topic, h := range handlers {
		errCh, err := sub.Subscribe(ctx, topic, h)
		if err != nil {
			return err
		}
		go func() {
			for err := range errCh {
				log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}()
		topics = append(topics, topic)
	}
	log.Info("event subscribers registered", "topics", topics)
	return nil
}
