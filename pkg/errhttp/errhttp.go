// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/ghuser/kitchenledger/pkg/httpx"
	costingdomain "github.com/ghuser/kitchenledger/services/costing/domain"
)

var hideInternal atomic.Bool

// HideInternalErrors makes WriteError replace 5xx messages with the status
// text. Enabled in production.
func HideInternalErrors(hide bool) {
	hideInternal.Store(hide)
}

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel and typed errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status, hideInternal.Load()))
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, costingdomain.ErrIngredientNotFound),
		errors.Is(err, costingdomain.ErrRecipeNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, costingdomain.ErrIngredientAlreadyExists),
		errors.Is(err, costingdomain.ErrIngredientInUse),
		errors.Is(err, costingdomain.ErrRecipeInUse),
		errors.Is(err, costingdomain.ErrRecipeVersionConflict):
		return http.StatusConflict // 409
	case errors.Is(err, costingdomain.ErrUnknownUnit),
		errors.Is(err, costingdomain.ErrMalformedLineItem),
		errors.Is(err, costingdomain.ErrInvalidPortionCount),
		errors.Is(err, costingdomain.ErrCyclicRecipeReference),
		errors.Is(err, costingdomain.ErrSelfReference),
		errors.Is(err, costingdomain.ErrInvalidIngredient),
		errors.Is(err, costingdomain.ErrInvalidRecipe),
		errors.Is(err, costingdomain.ErrInvalidLedgerEntry),
		errors.Is(err, costingdomain.ErrInvalidTargetMargin),
		errors.Is(err, costingdomain.ErrInvalidThresholds):
		return http.StatusUnprocessableEntity // 422
	default:
		return http.StatusInternalServerError // 500
	}
}
