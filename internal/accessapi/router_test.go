package accessapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cci-ingenieria/lectorqr/internal/validation"
)

func TestParseAllowList(t *testing.T) {
	st, err := ParseAllowList(" ABC123=A1, XYZ789= ,QWE456 ,")
	if err != nil {
		t.Fatalf("ParseAllowList: %v", err)
	}
	if st.Len() != 3 {
		t.Errorf("Len = %d, want 3", st.Len())
	}
	if loc, ok := st.Lookup("ABC123"); !ok || loc != "A1" {
		t.Errorf("ABC123 = (%q, %v)", loc, ok)
	}
	if loc, ok := st.Lookup("XYZ789"); !ok || loc != "" {
		t.Errorf("XYZ789 = (%q, %v)", loc, ok)
	}
	if _, ok := st.Lookup("QWE456"); !ok {
		t.Error("QWE456 should be registered")
	}
	if _, ok := st.Lookup("NOPE"); ok {
		t.Error("NOPE should not be registered")
	}

	if _, err := ParseAllowList("=A1"); err == nil {
		t.Error("expected error for entry without plate")
	}
}

func TestValidateHandler(t *testing.T) {
	st := NewStore()
	st.Register("ABC123", "A1")
	router := NewRouter(st)

	tests := []struct {
		name     string
		method   string
		body     string
		status   int
		allowed  bool
		message  string
		location *string
	}{
		{"registered", "POST", `{"placa":"ABC123"}`, http.StatusOK, true, AllowedMessage, strPtr("A1")},
		{"unknown", "POST", `{"placa":"ZZZ999"}`, http.StatusOK, false, UnknownMessage, nil},
		{"malformed", "POST", `{"placa":`, http.StatusBadRequest, false, BadRequestMessage, nil},
		{"empty plate", "POST", `{"placa":"  "}`, http.StatusBadRequest, false, BadRequestMessage, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, ValidatePath, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var resp validateResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Allowed != tt.allowed || resp.Message != tt.message {
				t.Errorf("resp = %+v", resp)
			}
			if (resp.Location == nil) != (tt.location == nil) || (resp.Location != nil && *resp.Location != *tt.location) {
				t.Errorf("location = %v, want %v", resp.Location, tt.location)
			}
		})
	}
}

func TestRouterMethods(t *testing.T) {
	router := NewRouter(NewStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", ValidatePath, nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET validate = %d, want 405", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "OK" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}
}

// The kiosk's validation client and this service agree on the wire format.
func TestValidationClientAgainstRouter(t *testing.T) {
	st := NewStore()
	st.Register("ABC123", "A1")
	st.Register("NOSPOT1", "")
	server := httptest.NewServer(NewRouter(st))
	defer server.Close()

	c := validation.NewClient(server.URL+ValidatePath, time.Second)
	ctx := context.Background()

	if got := c.Validate(ctx, "ABC123"); got != (validation.Result{Allowed: true, Message: AllowedMessage, Location: "A1"}) {
		t.Errorf("ABC123 = %+v", got)
	}
	if got := c.Validate(ctx, "NOSPOT1"); got != (validation.Result{Allowed: true, Message: AllowedMessage}) {
		t.Errorf("NOSPOT1 = %+v", got)
	}
	if got := c.Validate(ctx, "ZZZ999"); got != (validation.Result{Message: UnknownMessage}) {
		t.Errorf("ZZZ999 = %+v", got)
	}
	if got := c.Validate(ctx, ""); got != validation.Failure() {
		t.Errorf("empty plate = %+v, want failure", got)
	}
}

func strPtr(s string) *string { return &s }
