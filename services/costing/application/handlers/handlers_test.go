package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ghuser/kitchenledger/pkg/logger"
	appsvcs "github.com/ghuser/kitchenledger/services/costing/application/services"
	"github.com/ghuser/kitchenledger/services/costing/domain/repositories"
)

func TestQueryOpts(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		want   repositories.QueryOpts
		wantOK bool
	}{
		{name: "none", query: "", want: repositories.QueryOpts{}, wantOK: true},
		{name: "limit and offset", query: "?limit=10&offset=5", want: repositories.QueryOpts{Limit: 10, Offset: 5}, wantOK: true},
		{name: "zero limit", query: "?limit=0", want: repositories.QueryOpts{}, wantOK: true},
		{name: "non-numeric limit", query: "?limit=ten", wantOK: false},
		{name: "negative offset", query: "?offset=-1", wantOK: false},
		{name: "fractional limit", query: "?limit=1.5", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/ledger/entries"+tt.query, nil)

			got, ok := queryOpts(w, r)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if w.Code != http.StatusBadRequest {
					t.Errorf("expected 400, got %d", w.Code)
				}
				return
			}
			if got != tt.want {
				t.Errorf("opts = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConvertUnitsHandler(t *testing.T) {
	svc := appsvcs.NewWithRepositories(appsvcs.MemoryRepositories(), appsvcs.DefaultEngine(), nil, logger.Discard(), true)
	h := NewConvertUnitsHandler(svc)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantValue  float64
	}{
		{name: "mass", body: `{"quantity":2,"from":"kilo","to":"g"}`, wantStatus: http.StatusOK, wantValue: 2000},
		{name: "zero quantity", body: `{"quantity":0,"from":"kg","to":"g"}`, wantStatus: http.StatusOK, wantValue: 0},
		{name: "malformed json", body: `{"quantity":`, wantStatus: http.StatusBadRequest},
		{name: "missing from", body: `{"quantity":1,"to":"g"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "missing to", body: `{"quantity":1,"from":"kg"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "negative quantity", body: `{"quantity":-1,"from":"kg","to":"g"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "negative density", body: `{"quantity":1,"from":"cup","to":"g","density":-0.5}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown unit", body: `{"quantity":1,"from":"furlong","to":"g"}`, wantStatus: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/units/convert", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")

			h.Execute(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp ConvertResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if math.Abs(resp.Value-tt.wantValue) > 1e-9 || resp.Degraded {
				t.Errorf("response = %+v, want value %v", resp, tt.wantValue)
			}
		})
	}
}
