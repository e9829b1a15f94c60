package subscribers_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/pkg/events"
	"github.com/ghuser/kitchenledger/pkg/logger"
	"github.com/ghuser/kitchenledger/pkg/workflows"
	"github.com/ghuser/kitchenledger/services/costing/application/services"
	"github.com/ghuser/kitchenledger/services/costing/application/subscribers"
	domainevents "github.com/ghuser/kitchenledger/services/costing/domain/events"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
)

type fakeSubscriber struct {
	mu       sync.Mutex
	handlers map[string]events.Handler
	errChs   []chan error
	failOn   string
}

func (f *fakeSubscriber) Subscribe(_ context.Context, topic string, h events.Handler) (<-chan error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if topic == f.failOn {
		return nil, errors.New("subscribe refused")
	}
	if f.handlers == nil {
		f.handlers = map[string]events.Handler{}
	}
	f.handlers[topic] = h
	ch := make(chan error)
	f.errChs = append(f.errChs, ch)
	return ch, nil
}

func (f *fakeSubscriber) close() {
	for _, ch := range f.errChs {
		close(ch)
	}
}

type fakeStarter struct {
	queue string
	reqs  []workflows.RecostRequest
}

func (f *fakeStarter) StartRecost(_ context.Context, taskQueue string, req workflows.RecostRequest) error {
	f.queue = taskQueue
	f.reqs = append(f.reqs, req)
	return nil
}

func payload(t *testing.T, v any) *message.Message {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return message.NewMessage(uuid.NewString(), data)
}

// bakery holds bread (1 kg flour, one portion) and toast (one portion of bread),
// with recompute of dependents left to the subscribers.
type bakery struct {
	svc          *services.Services
	flour        *models.Ingredient
	bread, toast *services.RecipeView
}

func newBakery(t *testing.T) *bakery {
	t.Helper()
	ctx := context.Background()
	svc := services.NewWithRepositories(services.MemoryRepositories(), services.DefaultEngine(), nil, logger.Discard(), false)
	b := &bakery{svc: svc}

	var err error
	b.flour, err = svc.Ingredients.Create(ctx, models.IngredientParams{Name: "Flour", PurchaseUnit: "kg", UnitCost: 2, Active: true})
	if err != nil {
		t.Fatalf("create flour: %v", err)
	}
	b.bread, err = svc.Recipes.Create(ctx, services.RecipeInput{
		RecipeParams: models.RecipeParams{Name: "Bread", Type: models.RecipeTypePreparation, Portions: 1, Active: true},
		Lines:        []services.LineInput{{IngredientID: &b.flour.ID, Unit: "kg", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create bread: %v", err)
	}
	b.toast, err = svc.Recipes.Create(ctx, services.RecipeInput{
		RecipeParams: models.RecipeParams{Name: "Toast", Portions: 1, SellPrice: 10, Active: true},
		Lines:        []services.LineInput{{SubRecipeID: &b.bread.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create toast: %v", err)
	}
	return b
}

func (b *bakery) total(t *testing.T, id uuid.UUID) float64 {
	t.Helper()
	v, err := b.svc.Recipes.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	return v.TotalCost
}

func TestHandleIngredientUpdated_RecostsDependents(t *testing.T) {
	b := newBakery(t)
	ctx := context.Background()

	if _, err := b.svc.Ingredients.UpdatePrices(ctx, []services.PriceChange{{IngredientID: b.flour.ID, UnitCost: 4}}); err != nil {
		t.Fatalf("update prices: %v", err)
	}
	if got := b.total(t, b.toast.ID); math.Abs(got-2) > 1e-9 {
		t.Fatalf("toast total before event = %v, want 2", got)
	}

	h := subscribers.HandleIngredientUpdated(subscribers.NewDispatcher(b.svc.Recipes, logger.Discard()))
	evt := domainevents.NewIngredientUpdated(b.flour.ID, "kg", 4, time.Now())
	if err := h(ctx, payload(t, evt)); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if got := b.total(t, b.bread.ID); math.Abs(got-4) > 1e-9 {
		t.Errorf("bread total = %v, want 4", got)
	}
	if got := b.total(t, b.toast.ID); math.Abs(got-4) > 1e-9 {
		t.Errorf("toast total = %v, want 4", got)
	}

	// Redelivery is harmless.
	if err := h(ctx, payload(t, evt)); err != nil {
		t.Fatalf("redelivered handler: %v", err)
	}
	if got := b.total(t, b.toast.ID); math.Abs(got-4) > 1e-9 {
		t.Errorf("toast total after redelivery = %v, want 4", got)
	}
}

func TestHandleRecipeSaved_RecostsParents(t *testing.T) {
	b := newBakery(t)
	ctx := context.Background()

	_, err := b.svc.Recipes.Update(ctx, b.bread.ID, b.bread.Version, services.RecipeInput{
		RecipeParams: models.RecipeParams{Name: "Bread", Type: models.RecipeTypePreparation, Portions: 1, Active: true},
		Lines:        []services.LineInput{{IngredientID: &b.flour.ID, Unit: "g", Quantity: 1500}},
	})
	if err != nil {
		t.Fatalf("update bread: %v", err)
	}

	h := subscribers.HandleRecipeSaved(subscribers.NewDispatcher(b.svc.Recipes, logger.Discard()))
	evt := domainevents.NewRecipeSaved(b.bread.ID, b.bread.Version+1, 3, 1, time.Now())
	if err := h(ctx, payload(t, evt)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := b.total(t, b.toast.ID); math.Abs(got-3) > 1e-9 {
		t.Errorf("toast total = %v, want 3", got)
	}
}

func TestHandlers_RejectMalformedPayloads(t *testing.T) {
	d := subscribers.NewDispatcher(newBakery(t).svc.Recipes, logger.Discard())
	bad := message.NewMessage(uuid.NewString(), []byte("{not json"))

	if err := subscribers.HandleIngredientUpdated(d)(context.Background(), bad); err == nil {
		t.Error("expected decode error for ingredient.updated")
	}
	if err := subscribers.HandleRecipeSaved(d)(context.Background(), bad); err == nil {
		t.Error("expected decode error for recipe.saved")
	}
}

func TestDispatcher_WithWorkflowsStartsWorkflow(t *testing.T) {
	b := newBakery(t)
	starter := &fakeStarter{}
	d := subscribers.NewDispatcher(b.svc.Recipes, logger.Discard()).WithWorkflows(starter, "costing-recost")

	evt := domainevents.NewIngredientUpdated(b.flour.ID, "kg", 4, time.Now())
	if err := subscribers.HandleIngredientUpdated(d)(context.Background(), payload(t, evt)); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if len(starter.reqs) != 1 {
		t.Fatalf("expected one workflow start, got %d", len(starter.reqs))
	}
	req := starter.reqs[0]
	if starter.queue != "costing-recost" || req.EventID != evt.EventID.String() {
		t.Errorf("unexpected start: queue=%q req=%+v", starter.queue, req)
	}
	if len(req.ChangedIngredients) != 1 || req.ChangedIngredients[0] != b.flour.ID {
		t.Errorf("changed ingredients = %v", req.ChangedIngredients)
	}
}

func TestActivityFunc_MapsResult(t *testing.T) {
	b := newBakery(t)
	if _, err := b.svc.Ingredients.UpdatePrices(context.Background(), []services.PriceChange{{IngredientID: b.flour.ID, UnitCost: 3}}); err != nil {
		t.Fatalf("update prices: %v", err)
	}

	out, err := subscribers.ActivityFunc(b.svc.Recipes)(context.Background(), nil, []uuid.UUID{b.flour.ID})
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if len(out.Recosted) != 2 || out.Recosted[0] != b.bread.ID || out.Recosted[1] != b.toast.ID {
		t.Errorf("recosted = %v, want bread then toast", out.Recosted)
	}
}

func TestRegister_SubscribesBothTopics(t *testing.T) {
	sub := &fakeSubscriber{}
	defer sub.close()
	d := subscribers.NewDispatcher(newBakery(t).svc.Recipes, logger.Discard())

	if err := subscribers.Register(context.Background(), sub, d, logger.Discard()); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, topic := range []string{domainevents.TopicIngredientUpdated, domainevents.TopicRecipeSaved} {
		if sub.handlers[topic] == nil {
			t.Errorf("no handler for %s", topic)
		}
	}
}

func TestRegister_PropagatesSubscribeError(t *testing.T) {
	sub := &fakeSubscriber{failOn: domainevents.TopicRecipeSaved}
	defer sub.close()
	d := subscribers.NewDispatcher(newBakery(t).svc.Recipes, logger.Discard())

	if err := subscribers.Register(context.Background(), sub, d, logger.Discard()); err == nil {
		t.Fatal("expected subscribe error")
	}
}
