package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/pkg/errhttp"
	"github.com/ghuser/kitchenledger/pkg/httpx"
	pkgvalidator "github.com/ghuser/kitchenledger/pkg/validator"
	appsvcs "github.com/ghuser/kitchenledger/services/costing/application/services"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
)

// IngredientRequest is the request body for creating or replacing an ingredient.
type IngredientRequest struct {
	Name         string  `json:"name"          validate:"required,min=1,max=255" example:"Flour"`
	Category     string  `json:"category"      validate:"max=100"                example:"dry goods"`
	PurchaseUnit string  `json:"purchase_unit" validate:"required"               example:"kg"`
	UnitCost     float64 `json:"unit_cost"     validate:"gte=0"                  example:"1.25"`
	Density      float64 `json:"density"       validate:"gte=0"                  example:"0.59"`
	Supplier     string  `json:"supplier"      validate:"max=255"                example:"Mill & Co"`
	Active       *bool   `json:"active"        example:"true"`
} // @name IngredientRequest

func (req *IngredientRequest) params() models.IngredientParams {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return models.IngredientParams{
		Name:         req.Name,
		Category:     req.Category,
		PurchaseUnit: req.PurchaseUnit,
		UnitCost:     req.UnitCost,
		Density:      req.Density,
		Supplier:     req.Supplier,
		Active:       active,
	}
}

// PriceChangeRequest is one entry of a bulk price update.
type PriceChangeRequest struct {
	IngredientID uuid.UUID `json:"ingredient_id" validate:"required"`
	UnitCost     float64   `json:"unit_cost"     validate:"gte=0" example:"1.4"`
} // @name PriceChangeRequest

// UpdatePricesRequest is the request body for POST /ingredients/prices.
type UpdatePricesRequest struct {
	Prices []PriceChangeRequest `json:"prices" validate:"required,min=1,dive"`
} // @name UpdatePricesRequest

// ListIngredientsHandler handles GET /ingredients.
type ListIngredientsHandler struct {
	svc *appsvcs.Services
}

// NewListIngredientsHandler returns a ListIngredientsHandler.
func NewListIngredientsHandler(svc *appsvcs.Services) *ListIngredientsHandler {
	return &ListIngredientsHandler{svc: svc}
}

// Execute lists ingredients.
//
//	@Summary	List ingredients
//	@Tags		ingredients
//	@Produce	json
//	@Success	200	{array}		IngredientResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/ingredients [get]
func (h *ListIngredientsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ings, err := h.svc.Ingredients.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]IngredientResponse, len(ings))
	for i, ing := range ings {
		out[i] = toIngredientResponse(ing)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// PostIngredientHandler handles POST /ingredients.
type PostIngredientHandler struct {
	svc *appsvcs.Services
}

// NewPostIngredientHandler returns a PostIngredientHandler.
func NewPostIngredientHandler(svc *appsvcs.Services) *PostIngredientHandler {
	return &PostIngredientHandler{svc: svc}
}

// Execute creates an ingredient.
//
//	@Summary		Create ingredient
//	@Description	The purchase unit must exist in the unit registry and is stored under its canonical id
//	@Tags			ingredients
//	@Accept			json
//	@Produce		json
//	@Param			request	body		IngredientRequest	true	"Ingredient"
//	@Success		201		{object}	IngredientResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/ingredients [post]
func (h *PostIngredientHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[IngredientRequest](w, r)
	if !ok {
		return
	}
	ing, err := h.svc.Ingredients.Create(r.Context(), req.params())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toIngredientResponse(ing))
}

// GetIngredientHandler handles GET /ingredients/{id}.
type GetIngredientHandler struct {
	svc *appsvcs.Services
}

// NewGetIngredientHandler returns a GetIngredientHandler.
func NewGetIngredientHandler(svc *appsvcs.Services) *GetIngredientHandler {
	return &GetIngredientHandler{svc: svc}
}

// Execute fetches one ingredient.
//
//	@Summary	Get ingredient
//	@Tags		ingredients
//	@Produce	json
//	@Param		id	path		string	true	"Ingredient ID"
//	@Success	200	{object}	IngredientResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/ingredients/{id} [get]
func (h *GetIngredientHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	ing, err := h.svc.Ingredients.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toIngredientResponse(ing))
}

// PutIngredientHandler handles PUT /ingredients/{id}.
type PutIngredientHandler struct {
	svc *appsvcs.Services
}

// NewPutIngredientHandler returns a PutIngredientHandler.
func NewPutIngredientHandler(svc *appsvcs.Services) *PutIngredientHandler {
	return &PutIngredientHandler{svc: svc}
}

// Execute replaces an ingredient's fields.
//
//	@Summary		Update ingredient
//	@Description	Recipes using the ingredient are recosted asynchronously
//	@Tags			ingredients
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Ingredient ID"
//	@Param			request	body		IngredientRequest	true	"Ingredient"
//	@Success		200		{object}	IngredientResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/ingredients/{id} [put]
func (h *PutIngredientHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[IngredientRequest](w, r)
	if !ok {
		return
	}
	ing, err := h.svc.Ingredients.Update(r.Context(), id, req.params())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toIngredientResponse(ing))
}

// DeleteIngredientHandler handles DELETE /ingredients/{id}.
type DeleteIngredientHandler struct {
	svc *appsvcs.Services
}

// NewDeleteIngredientHandler returns a DeleteIngredientHandler.
func NewDeleteIngredientHandler(svc *appsvcs.Services) *DeleteIngredientHandler {
	return &DeleteIngredientHandler{svc: svc}
}

// Execute deletes an unreferenced ingredient.
//
//	@Summary	Delete ingredient
//	@Tags		ingredients
//	@Param		id	path	string	true	"Ingredient ID"
//	@Success	204
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse	"still used by a recipe or stock movement"
//	@Router		/ingredients/{id} [delete]
func (h *DeleteIngredientHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Ingredients.Delete(r.Context(), id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.NoContent(w)
}

// UpdatePricesHandler handles POST /ingredients/prices.
type UpdatePricesHandler struct {
	svc *appsvcs.Services
}

// NewUpdatePricesHandler returns an UpdatePricesHandler.
func NewUpdatePricesHandler(svc *appsvcs.Services) *UpdatePricesHandler {
	return &UpdatePricesHandler{svc: svc}
}

// Execute applies several price changes atomically.
//
//	@Summary	Bulk price update
//	@Tags		ingredients
//	@Accept		json
//	@Produce	json
//	@Param		request	body		UpdatePricesRequest	true	"New unit costs"
//	@Success	200		{array}		IngredientResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/ingredients/prices [post]
func (h *UpdatePricesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[UpdatePricesRequest](w, r)
	if !ok {
		return
	}
	changes := make([]appsvcs.PriceChange, len(req.Prices))
	for i, p := range req.Prices {
		changes[i] = appsvcs.PriceChange{IngredientID: p.IngredientID, UnitCost: p.UnitCost}
	}
	ings, err := h.svc.Ingredients.UpdatePrices(r.Context(), changes)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]IngredientResponse, len(ings))
	for i, ing := range ings {
		out[i] = toIngredientResponse(ing)
	}
	httpx.JSON(w, http.StatusOK, out)
}
