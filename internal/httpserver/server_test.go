package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PortNumber53/agency-site/backend/internal/config"
	"github.com/PortNumber53/agency-site/backend/internal/estimator"
	"github.com/PortNumber53/agency-site/backend/internal/models"
	"github.com/PortNumber53/agency-site/backend/internal/sessions"
)

type stubContacts struct{}

func (stubContacts) CreateContact(_ context.Context, msg *models.ContactMessage, _ *models.Job) error {
	msg.ID = "c-1"
	return nil
}

func (stubContacts) ListContacts(context.Context, int) ([]models.ContactMessage, error) {
	return []models.ContactMessage{{ID: "c-1"}}, nil
}

func newTestServer(adminToken string) *Server {
	catalog := estimator.DefaultCatalog()
	cfg := config.Config{
		ServerAddress:    ":0",
		CORSOrigins:      []string{"*"},
		AdminToken:       adminToken,
		ContactRateLimit: 0.001,
		ContactRateBurst: 1,
	}
	return New(cfg, Deps{
		Catalog:  catalog,
		Sessions: sessions.New(catalog, 0),
		Submitter: estimator.SubmitterFunc(func(context.Context, estimator.Quote) (string, error) {
			return "q-1", nil
		}),
		Contacts: stubContacts{},
	})
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestHealthRoute(t *testing.T) {
	server := newTestServer("")
	defer server.limiter.Stop()

	for _, path := range []string{"/healthz", "/api/health"} {
		if rr := do(server, httptest.NewRequest(http.MethodGet, path, nil)); rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, rr.Code)
		}
	}
}

func TestEstimatorRoutes(t *testing.T) {
	server := newTestServer("")
	defer server.limiter.Stop()

	if rr := do(server, httptest.NewRequest(http.MethodGet, "/api/estimator/catalog", nil)); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if rr := do(server, httptest.NewRequest(http.MethodPost, "/api/estimator/sessions", nil)); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rr.Code)
	}
}

func TestContactRateLimited(t *testing.T) {
	server := newTestServer("")
	defer server.limiter.Stop()

	body := `{"name":"Anna","email":"anna@example.com","message":"hi"}`
	first := do(server, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body)))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", first.Code, first.Body.String())
	}
	second := do(server, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body)))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", second.Code)
	}
}

func TestAdminRoutes(t *testing.T) {
	disabled := newTestServer("")
	defer disabled.limiter.Stop()
	if rr := do(disabled, httptest.NewRequest(http.MethodGet, "/api/contacts", nil)); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without admin token configured, got %d", rr.Code)
	}

	server := newTestServer("s3cret")
	defer server.limiter.Stop()

	if rr := do(server, httptest.NewRequest(http.MethodGet, "/api/contacts", nil)); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rr := do(server, req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "c-1") {
		t.Fatalf("expected contacts listing, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer("")
	defer server.limiter.Stop()

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://agency.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := do(server, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatal("expected CORS allow origin header")
	}
}
