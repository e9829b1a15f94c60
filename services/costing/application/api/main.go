package api

import (
	"fmt"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/kitchenledger/pkg/app"
	"github.com/ghuser/kitchenledger/services/costing/application/handlers"
	appsvcs "github.com/ghuser/kitchenledger/services/costing/application/services"
)

// CostingRoutes registers costing endpoints on the provided chi router.
func CostingRoutes(r chi.Router, a *app.Application) error {
	svcs, err := appsvcs.New(a)
	if err != nil {
		return fmt.Errorf("costing services: %w", err)
	}
	Mount(r, svcs)
	return nil
}

// Mount registers the costing endpoints backed by svcs.
func Mount(r chi.Router, svcs *appsvcs.Services) {
	r.Group(func(r chi.Router) {
		r.Route("/units", func(r chi.Router) {
			r.Get("/", handlers.NewListUnitsHandler(svcs).Execute)
			r.Post("/convert", handlers.NewConvertUnitsHandler(svcs).Execute)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", handlers.NewListIngredientsHandler(svcs).Execute)
			r.Post("/", handlers.NewPostIngredientHandler(svcs).Execute)
			r.Post("/prices", handlers.NewUpdatePricesHandler(svcs).Execute)
			r.Get("/{id}", handlers.NewGetIngredientHandler(svcs).Execute)
			r.Put("/{id}", handlers.NewPutIngredientHandler(svcs).Execute)
			r.Delete("/{id}", handlers.NewDeleteIngredientHandler(svcs).Execute)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", handlers.NewListRecipesHandler(svcs).Execute)
			r.Post("/", handlers.NewPostRecipeHandler(svcs).Execute)
			r.Get("/stats", handlers.NewRecipeStatsHandler(svcs).Execute)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handlers.NewGetRecipeHandler(svcs).Execute)
				r.Put("/", handlers.NewPutRecipeHandler(svcs).Execute)
				r.Delete("/", handlers.NewDeleteRecipeHandler(svcs).Execute)
				r.Get("/cost", handlers.NewGetRecipeCostHandler(svcs).Execute)
				r.Post("/recost", handlers.NewRecostRecipeHandler(svcs).Execute)
			})
		})

		r.Post("/pricing/suggest", handlers.NewSuggestPriceHandler(svcs).Execute)

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/entries", handlers.NewListEntriesHandler(svcs).Execute)
			r.Post("/entries", handlers.NewPostEntryHandler(svcs).Execute)
			r.Get("/movements", handlers.NewListMovementsHandler(svcs).Execute)
			r.Post("/movements", handlers.NewPostMovementHandler(svcs).Execute)
		})
	})
}
