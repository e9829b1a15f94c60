package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/pkg/errhttp"
	"github.com/ghuser/kitchenledger/pkg/httpx"
	pkgvalidator "github.com/ghuser/kitchenledger/pkg/validator"
	appsvcs "github.com/ghuser/kitchenledger/services/costing/application/services"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
)

// EntryRequest is the request body for POST /ledger/entries.
type EntryRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" validate:"required"`
	Kind     string    `json:"kind"      validate:"required,oneof=production waste sale" example:"production"`
	Quantity float64   `json:"quantity"  validate:"gt=0"                                 example:"12"`
	Reason   string    `json:"reason"    validate:"max=500"                              example:"dropped tray"`
} // @name EntryRequest

// EntryResponse is one ledger entry. Money amounts are decimal strings.
type EntryResponse struct {
	ID               uuid.UUID `json:"id"`
	RecipeID         uuid.UUID `json:"recipe_id"`
	Kind             string    `json:"kind"               example:"production"`
	Quantity         float64   `json:"quantity"           example:"12"`
	UnitCostSnapshot string    `json:"unit_cost_snapshot" example:"1.2"`
	TotalCost        string    `json:"total_cost"         example:"14.4"`
	Reason           string    `json:"reason,omitempty"`
	RecordedAt       time.Time `json:"recorded_at"`
} // @name EntryResponse

// MovementRequest is the request body for POST /ledger/movements. An empty
// unit means the ingredient's purchase unit.
type MovementRequest struct {
	IngredientID uuid.UUID `json:"ingredient_id" validate:"required"`
	Kind         string    `json:"kind"          validate:"required,oneof=purchase waste adjustment" example:"purchase"`
	Quantity     float64   `json:"quantity"      validate:"gt=0"                                     example:"25"`
	Unit         string    `json:"unit"          example:"kg"`
	Reason       string    `json:"reason"        validate:"max=500"`
} // @name MovementRequest

// MovementResponse is one stock movement.
type MovementResponse struct {
	ID               uuid.UUID `json:"id"`
	IngredientID     uuid.UUID `json:"ingredient_id"`
	Kind             string    `json:"kind"               example:"purchase"`
	Quantity         float64   `json:"quantity"           example:"25"`
	Unit             string    `json:"unit"               example:"kg"`
	UnitCostSnapshot string    `json:"unit_cost_snapshot" example:"1.25"`
	TotalCost        string    `json:"total_cost"         example:"31.25"`
	Reason           string    `json:"reason,omitempty"`
	RecordedAt       time.Time `json:"recorded_at"`
} // @name MovementResponse

func toEntryResponse(e *models.LedgerEntry) EntryResponse {
	return EntryResponse{
		ID:               e.ID,
		RecipeID:         e.RecipeID,
		Kind:             string(e.Kind),
		Quantity:         e.Quantity,
		UnitCostSnapshot: e.UnitCostSnapshot.String(),
		TotalCost:        e.TotalCost.String(),
		Reason:           e.Reason,
		RecordedAt:       e.RecordedAt,
	}
}

func toMovementResponse(m *models.StockMovement) MovementResponse {
	return MovementResponse{
		ID:               m.ID,
		IngredientID:     m.IngredientID,
		Kind:             string(m.Kind),
		Quantity:         m.Quantity,
		Unit:             m.Unit,
		UnitCostSnapshot: m.UnitCostSnapshot.String(),
		TotalCost:        m.TotalCost.String(),
		Reason:           m.Reason,
		RecordedAt:       m.RecordedAt,
	}
}

// ListEntriesHandler handles GET /ledger/entries.
type ListEntriesHandler struct {
	svc *appsvcs.Services
}

// NewListEntriesHandler returns a ListEntriesHandler.
func NewListEntriesHandler(svc *appsvcs.Services) *ListEntriesHandler {
	return &ListEntriesHandler{svc: svc}
}

// Execute lists ledger entries newest first.
//
//	@Summary	List ledger entries
//	@Tags		ledger
//	@Produce	json
//	@Param		kind	query		string	false	"production, waste or sale"
//	@Param		limit	query		int		false	"Page size"
//	@Param		offset	query		int		false	"Records to skip"
//	@Success	200		{array}		EntryResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/ledger/entries [get]
func (h *ListEntriesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	opts, ok := queryOpts(w, r)
	if !ok {
		return
	}
	kind := models.EntryKind(r.URL.Query().Get("kind"))
	switch kind {
	case "", models.EntryProduction, models.EntryWaste, models.EntrySale:
	default:
		httpx.JSONError(w, http.StatusBadRequest, "invalid kind")
		return
	}
	entries, err := h.svc.Ledger.ListEntries(r.Context(), kind, opts)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = toEntryResponse(e)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// PostEntryHandler handles POST /ledger/entries.
type PostEntryHandler struct {
	svc *appsvcs.Services
}

// NewPostEntryHandler returns a PostEntryHandler.
func NewPostEntryHandler(svc *appsvcs.Services) *PostEntryHandler {
	return &PostEntryHandler{svc: svc}
}

// Execute appends a ledger entry priced at the recipe's current cost per portion.
//
//	@Summary		Record ledger entry
//	@Description	Waste entries need a reason
//	@Tags			ledger
//	@Accept			json
//	@Produce		json
//	@Param			request	body		EntryRequest	true	"Entry"
//	@Success		201		{object}	EntryResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/ledger/entries [post]
func (h *PostEntryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[EntryRequest](w, r)
	if !ok {
		return
	}
	e, err := h.svc.Ledger.RecordEntry(r.Context(), appsvcs.EntryInput{
		RecipeID: req.RecipeID,
		Kind:     models.EntryKind(req.Kind),
		Quantity: req.Quantity,
		Reason:   req.Reason,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toEntryResponse(e))
}

// ListMovementsHandler handles GET /ledger/movements.
type ListMovementsHandler struct {
	svc *appsvcs.Services
}

// NewListMovementsHandler returns a ListMovementsHandler.
func NewListMovementsHandler(svc *appsvcs.Services) *ListMovementsHandler {
	return &ListMovementsHandler{svc: svc}
}

// Execute lists stock movements newest first.
//
//	@Summary	List stock movements
//	@Tags		ledger
//	@Produce	json
//	@Param		ingredient_id	query		string	false	"Ingredient ID"
//	@Param		limit			query		int		false	"Page size"
//	@Param		offset			query		int		false	"Records to skip"
//	@Success	200				{array}		MovementResponse
//	@Failure	400				{object}	ErrorResponse
//	@Router		/ledger/movements [get]
func (h *ListMovementsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	opts, ok := queryOpts(w, r)
	if !ok {
		return
	}
	var ingredientID *uuid.UUID
	if raw := r.URL.Query().Get("ingredient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid ingredient_id")
			return
		}
		ingredientID = &id
	}
	ms, err := h.svc.Ledger.ListMovements(r.Context(), ingredientID, opts)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]MovementResponse, len(ms))
	for i, m := range ms {
		out[i] = toMovementResponse(m)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// PostMovementHandler handles POST /ledger/movements.
type PostMovementHandler struct {
	svc *appsvcs.Services
}

// NewPostMovementHandler returns a PostMovementHandler.
func NewPostMovementHandler(svc *appsvcs.Services) *PostMovementHandler {
	return &PostMovementHandler{svc: svc}
}

// Execute appends a stock movement priced at the ingredient's current unit cost.
//
//	@Summary	Record stock movement
//	@Tags		ledger
//	@Accept		json
//	@Produce	json
//	@Param		request	body		MovementRequest	true	"Movement"
//	@Success	201		{object}	MovementResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/ledger/movements [post]
func (h *PostMovementHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[MovementRequest](w, r)
	if !ok {
		return
	}
	m, err := h.svc.Ledger.RecordMovement(r.Context(), appsvcs.MovementInput{
		IngredientID: req.IngredientID,
		Kind:         models.MovementKind(req.Kind),
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Reason:       req.Reason,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toMovementResponse(m))
}
