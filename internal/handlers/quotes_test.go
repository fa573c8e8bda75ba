package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PortNumber53/agency-site/backend/internal/models"
)

type stubQuoteLister struct {
	quotes []models.QuoteRecord
	err    error
}

func (s stubQuoteLister) ListQuotes(context.Context, int) ([]models.QuoteRecord, error) {
	return s.quotes, s.err
}

func TestListQuotes(t *testing.T) {
	lister := stubQuoteLister{quotes: []models.QuoteRecord{{ID: "q-1", TypeID: "webapp", Total: 5000}}}
	rr := httptest.NewRecorder()
	ListQuotes(lister, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/quotes", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"id":"q-1"`) || !strings.Contains(rr.Body.String(), `"count":1`) {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestListQuotesError(t *testing.T) {
	rr := httptest.NewRecorder()
	ListQuotes(stubQuoteLister{err: errors.New("boom")}, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/quotes", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}
