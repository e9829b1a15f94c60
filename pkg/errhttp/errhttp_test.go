package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	costingdomain "github.com/ghuser/kitchenledger/services/costing/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrRecipeNotFound", costingdomain.ErrRecipeNotFound, http.StatusNotFound},
		{"wrapped ErrIngredientNotFound", fmt.Errorf("get ingredient: %w", costingdomain.ErrIngredientNotFound), http.StatusNotFound},
		{"ErrIngredientAlreadyExists", costingdomain.ErrIngredientAlreadyExists, http.StatusConflict},
		{"ErrIngredientInUse", costingdomain.ErrIngredientInUse, http.StatusConflict},
		{"ErrRecipeInUse", costingdomain.ErrRecipeInUse, http.StatusConflict},
		{"ErrRecipeVersionConflict", costingdomain.ErrRecipeVersionConflict, http.StatusConflict},
		{"UnknownUnitError", &costingdomain.UnknownUnitError{UnitID: "furlong"}, http.StatusUnprocessableEntity},
		{"wrapped cycle", fmt.Errorf("save recipe: %w", &costingdomain.CyclicRecipeReferenceError{Path: []uuid.UUID{uuid.New()}}), http.StatusUnprocessableEntity},
		{"InvalidPortionCountError", &costingdomain.InvalidPortionCountError{RecipeID: uuid.New()}, http.StatusUnprocessableEntity},
		{"MalformedLineItemError", &costingdomain.MalformedLineItemError{Reason: "no source"}, http.StatusUnprocessableEntity},
		{"ErrSelfReference", costingdomain.ErrSelfReference, http.StatusUnprocessableEntity},
		{"wrapped ErrInvalidRecipe", fmt.Errorf("%w: portions must be at least 1", costingdomain.ErrInvalidRecipe), http.StatusUnprocessableEntity},
		{"ErrInvalidTargetMargin", costingdomain.ErrInvalidTargetMargin, http.StatusUnprocessableEntity},
		{"ErrInvalidLedgerEntry", costingdomain.ErrInvalidLedgerEntry, http.StatusUnprocessableEntity},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, &costingdomain.UnknownUnitError{UnitID: "furlong"})

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body["error"] != `unknown unit "furlong": select a compatible unit` {
		t.Fatalf("unexpected error body: %q", body["error"])
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, costingdomain.ErrRecipeNotFound)

	ct := w.Header().Get("Content-Type")
	if ct == "" {
		t.Fatal("Content-Type header not set")
	}
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	HideInternalErrors(true)
	defer HideInternalErrors(false)

	w := httptest.NewRecorder()
	WriteError(w, errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body["error"] != "Internal Server Error" {
		t.Errorf("internal detail leaked: %q", body["error"])
	}

	w = httptest.NewRecorder()
	WriteError(w, costingdomain.ErrRecipeNotFound)
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body["error"] != costingdomain.ErrRecipeNotFound.Error() {
		t.Errorf("client errors keep their message, got %q", body["error"])
	}
}
