package handlers

import (
	"net/http"

	"github.com/ghuser/kitchenledger/pkg/errhttp"
	"github.com/ghuser/kitchenledger/pkg/httpx"
	pkgvalidator "github.com/ghuser/kitchenledger/pkg/validator"
	appsvcs "github.com/ghuser/kitchenledger/services/costing/application/services"
)

// UnitResponse is one registered unit.
type UnitResponse struct {
	ID         string   `json:"id"          example:"g"`
	Name       string   `json:"name"        example:"gram"`
	PluralName string   `json:"plural_name" example:"grams"`
	Aliases    []string `json:"aliases"`
	Dimension  string   `json:"dimension"   example:"mass"`
	Factor     float64  `json:"factor"      example:"0.001"`
} // @name UnitResponse

// ConvertRequest is the request body for POST /units/convert.
type ConvertRequest struct {
	Quantity float64 `json:"quantity" validate:"gte=0"    example:"2"`
	From     string  `json:"from"     validate:"required" example:"cup"`
	To       string  `json:"to"       validate:"required" example:"g"`
	Density  float64 `json:"density"  validate:"gte=0"    example:"0.59"`
} // @name ConvertRequest

// ConvertResponse is a converted quantity. degraded reports incompatible
// dimensions, in which case value equals the input quantity.
type ConvertResponse struct {
	Quantity float64 `json:"quantity" example:"2"`
	From     string  `json:"from"     example:"cup"`
	To       string  `json:"to"       example:"g"`
	Value    float64 `json:"value"    example:"283.2"`
	Degraded bool    `json:"degraded" example:"false"`
} // @name ConvertResponse

// ListUnitsHandler handles GET /units.
type ListUnitsHandler struct {
	svc *appsvcs.Services
}

// NewListUnitsHandler returns a ListUnitsHandler.
func NewListUnitsHandler(svc *appsvcs.Services) *ListUnitsHandler {
	return &ListUnitsHandler{svc: svc}
}

// Execute lists the unit registry.
//
//	@Summary	List units
//	@Tags		units
//	@Produce	json
//	@Success	200	{array}	UnitResponse
//	@Router		/units [get]
func (h *ListUnitsHandler) Execute(w http.ResponseWriter, _ *http.Request) {
	all := h.svc.Units.List()
	out := make([]UnitResponse, len(all))
	for i, u := range all {
		aliases := u.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		out[i] = UnitResponse{
			ID:         u.ID,
			Name:       u.Name,
			PluralName: u.PluralName,
			Aliases:    aliases,
			Dimension:  string(u.Dimension()),
			Factor:     u.Factor,
		}
	}
	httpx.JSON(w, http.StatusOK, out)
}

// ConvertUnitsHandler handles POST /units/convert.
type ConvertUnitsHandler struct {
	svc *appsvcs.Services
}

// NewConvertUnitsHandler returns a ConvertUnitsHandler.
func NewConvertUnitsHandler(svc *appsvcs.Services) *ConvertUnitsHandler {
	return &ConvertUnitsHandler{svc: svc}
}

// Execute converts a quantity between two units.
//
//	@Summary		Convert quantity
//	@Description	Mass and volume convert through density in g/ml (water when unset)
//	@Tags			units
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ConvertRequest	true	"Conversion"
//	@Success		200		{object}	ConvertResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/units/convert [post]
func (h *ConvertUnitsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[ConvertRequest](w, r)
	if !ok {
		return
	}
	res, err := h.svc.Units.Convert(req.Quantity, req.From, req.To, req.Density)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ConvertResponse{
		Quantity: res.Quantity,
		From:     res.From,
		To:       res.To,
		Value:    res.Value,
		Degraded: res.Degraded,
	})
}
