package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

// RecostActivityName is the registered name of RecostActivities.RecostDependents.
const RecostActivityName = "RecostDependents"

// RecostRequest names what changed. Dependents of both sets are recosted in
// dependency order.
type RecostRequest struct {
	EventID            string      `json:"event_id"`
	ChangedRecipes     []uuid.UUID `json:"changed_recipes"`
	ChangedIngredients []uuid.UUID `json:"changed_ingredients"`
}

// RecostOutcome summarises one recost pass.
type RecostOutcome struct {
	Recosted []uuid.UUID `json:"recosted"`
	Failed   []uuid.UUID `json:"failed"`
}

// RecostFunc recomputes the dependents of the changed recipes and ingredients.
type RecostFunc func(ctx context.Context, changedRecipes, changedIngredients []uuid.UUID) (RecostOutcome, error)

// RecostActivities hosts the recost activity. Register a pointer with a worker.
type RecostActivities struct {
	Recost RecostFunc
}

// RecostDependents runs one recost pass. Per-recipe failures are reported in
// the outcome; only a failure to load the catalog is returned as an error.
func (a *RecostActivities) RecostDependents(ctx context.Context, req RecostRequest) (RecostOutcome, error) {
	return a.Recost(ctx, req.ChangedRecipes, req.ChangedIngredients)
}

// RecostDependentsWorkflow wraps the recost activity with retries so a
// transient database outage does not drop the pass.
func RecostDependentsWorkflow(ctx workflow.Context, req RecostRequest) (RecostOutcome, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})

	var out RecostOutcome
	if err := workflow.ExecuteActivity(ctx, RecostActivityName, req).Get(ctx, &out); err != nil {
		return RecostOutcome{}, err
	}
	if len(out.Failed) > 0 {
		workflow.GetLogger(ctx).Warn("recost pass finished with failures",
			"recosted", len(out.Recosted), "failed", len(out.Failed))
	}
	return out, nil
}

// NewRecostWorker creates a worker on taskQueue serving the recost workflow.
// The client's tracing interceptor also applies to the worker.
func (tc *TemporalClient) NewRecostWorker(taskQueue string, acts *RecostActivities) worker.Worker {
	w := worker.New(tc.Client, taskQueue, worker.Options{})
	w.RegisterWorkflow(RecostDependentsWorkflow)
	w.RegisterActivity(acts)
	return w
}

// StartRecost starts a recost workflow. The workflow id derives from the
// event id, so a redelivered event joins the run already in flight.
func (tc *TemporalClient) StartRecost(ctx context.Context, taskQueue string, req RecostRequest) error {
	opts := client.StartWorkflowOptions{
		TaskQueue: taskQueue,
	}
	if req.EventID != "" {
		opts.ID = "recost-" + req.EventID
	}
	run, err := tc.Client.ExecuteWorkflow(ctx, opts, RecostDependentsWorkflow, req)
	if err != nil {
		return fmt.Errorf("start recost workflow: %w", err)
	}
	tc.log.InfoContext(ctx, "recost workflow started",
		"workflow_id", run.GetID(), "run_id", run.GetRunID())
	return nil
}
