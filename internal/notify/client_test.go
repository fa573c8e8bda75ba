package notify

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestSendSignsBody(t *testing.T) {
	var (
		gotBody []byte
		gotSig  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get(SignatureHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "topsecret", zap.NewNop())
	err := c.Send(context.Background(), Event{Type: "quote_notification", ID: "q-1", Data: map[string]int{"total": 5000}})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if !verifySignature("topsecret", gotBody, gotSig) {
		t.Fatalf("signature %q does not match body", gotSig)
	}

	var event map[string]any
	if err := json.Unmarshal(gotBody, &event); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if event["type"] != "quote_notification" || event["id"] != "q-1" {
		t.Fatalf("unexpected event %v", event)
	}
	if event["occurred_at"] == "" {
		t.Fatal("expected occurred_at to be set")
	}
}

func TestSendWithoutSecretOmitsSignature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sig := r.Header.Get(SignatureHeader); sig != "" {
			t.Errorf("expected no signature, got %q", sig)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL, "", nil).Send(context.Background(), Event{Type: "contact_notification"}); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
}

func TestSendStatusErrors(t *testing.T) {
	cases := []struct {
		status    int
		permanent bool
	}{
		{http.StatusBadRequest, true},
		{http.StatusGone, true},
		{http.StatusTooManyRequests, false},
		{http.StatusServiceUnavailable, false},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tc.status)
			}))
			defer srv.Close()

			err := NewClient(srv.URL, "", zap.NewNop()).Send(context.Background(), Event{Type: "x"})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := IsPermanent(err); got != tc.permanent {
				t.Fatalf("IsPermanent = %v, want %v (%v)", got, tc.permanent, err)
			}
		})
	}
}

func TestSendDisabledIsNoop(t *testing.T) {
	c := NewClient("", "", zap.NewNop())
	if c.Enabled() {
		t.Fatal("expected disabled client")
	}
	if err := c.Send(context.Background(), Event{Type: "contact_notification", ID: "c-1"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	sig := Sign("k", []byte(`{"a":1}`))
	if verifySignature("k", []byte(`{"a":2}`), sig) {
		t.Fatal("expected tampered body to fail verification")
	}
}

func verifySignature(secret string, body []byte, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, body)), []byte(signature))
}
