package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/pkg/errhttp"
	"github.com/ghuser/kitchenledger/pkg/httpx"
	pkgvalidator "github.com/ghuser/kitchenledger/pkg/validator"
	appsvcs "github.com/ghuser/kitchenledger/services/costing/application/services"
)

// SuggestPriceRequest prices a stored recipe or a bare cost per portion.
type SuggestPriceRequest struct {
	RecipeID       *uuid.UUID `json:"recipe_id,omitempty"        validate:"required_without=CostPerPortion"`
	CostPerPortion *float64   `json:"cost_per_portion,omitempty" validate:"omitempty,gte=0" example:"1.2"`
	TargetMargin   *float64   `json:"target_margin,omitempty"    example:"70"`
} // @name SuggestPriceRequest

// SuggestPriceResponse is a sell price achieving target_margin.
type SuggestPriceResponse struct {
	RecipeID       *uuid.UUID `json:"recipe_id,omitempty"`
	CostPerPortion float64    `json:"cost_per_portion" example:"1.2"`
	TargetMargin   float64    `json:"target_margin"    example:"70"`
	SuggestedPrice float64    `json:"suggested_price"  example:"4"`
	CurrentPrice   float64    `json:"current_price"    example:"3.5"`
	CurrentMargin  float64    `json:"current_margin"   example:"65.7"`
} // @name SuggestPriceResponse

// SuggestPriceHandler handles POST /pricing/suggest.
type SuggestPriceHandler struct {
	svc *appsvcs.Services
}

// NewSuggestPriceHandler returns a SuggestPriceHandler.
func NewSuggestPriceHandler(svc *appsvcs.Services) *SuggestPriceHandler {
	return &SuggestPriceHandler{svc: svc}
}

// Execute suggests a sell price.
//
//	@Summary		Suggest price
//	@Description	price = cost_per_portion / (1 - target_margin/100); target_margin defaults to 70 and must be in [0, 100)
//	@Tags			pricing
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SuggestPriceRequest	true	"Pricing input"
//	@Success		200		{object}	SuggestPriceResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/pricing/suggest [post]
func (h *SuggestPriceHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SuggestPriceRequest](w, r)
	if !ok {
		return
	}
	s, err := h.svc.Pricing.Suggest(r.Context(), appsvcs.SuggestInput{
		RecipeID:       req.RecipeID,
		CostPerPortion: req.CostPerPortion,
		TargetMargin:   req.TargetMargin,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, SuggestPriceResponse{
		RecipeID:       s.RecipeID,
		CostPerPortion: s.CostPerPortion,
		TargetMargin:   s.TargetMargin,
		SuggestedPrice: s.SuggestedPrice,
		CurrentPrice:   s.CurrentPrice,
		CurrentMargin:  s.CurrentMargin,
	})
}
