package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopforge/storefront/internal/apperr"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

// =============================================================================
// Construction
// =============================================================================

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New() with empty BaseURL should fail")
	}
	if _, err := New(Config{BaseURL: "ftp://example.com"}); err == nil {
		t.Fatal("New() with non-http scheme should fail")
	}
	if _, err := New(Config{BaseURL: "http://example.com/api/"}); err != nil {
		t.Fatalf("New() error = %v", err)
	}
}

func TestNew_DefaultTimeout(t *testing.T) {
	client, err := New(Config{BaseURL: "http://example.com"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}
}

// =============================================================================
// Credential handling
// =============================================================================

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := New(Config{BaseURL: server.URL, Tokens: staticToken("tok-123")})
	if err := client.Get(context.Background(), "/x", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
	}
}

func TestDo_NoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := New(Config{BaseURL: server.URL, Tokens: staticToken("")})
	if err := client.Get(context.Background(), "/x", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

// =============================================================================
// Session expiry policy
// =============================================================================

func TestDo_UnauthorizedFiresInvalidationOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"token expired"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	fired := 0
	client, _ := New(Config{
		BaseURL:              server.URL,
		OnSessionInvalidated: func() { fired++ },
	})

	err := client.Get(context.Background(), "/cart", nil)
	if !apperr.IsUnauthorized(err) {
		t.Fatalf("error kind = %v, want unauthorized", apperr.KindOf(err))
	}
	if fired != 1 {
		t.Errorf("invalidation fired %d times, want 1", fired)
	}
}

// =============================================================================
// Error classification
// =============================================================================

func TestDo_DomainErrorCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"insufficient stock for this product"}`))
	}))
	defer server.Close()

	client, _ := New(Config{BaseURL: server.URL})
	err := client.Post(context.Background(), "/cart/items", map[string]int{"quantity": 99}, nil)

	if !apperr.IsDomain(err) {
		t.Fatalf("error kind = %v, want domain", apperr.KindOf(err))
	}
	var e *apperr.Error
	if !errors.As(err, &e) {
		t.Fatal("error is not *apperr.Error")
	}
	if e.Status() != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", e.Status())
	}
	if e.Error() != "insufficient stock for this product" {
		t.Errorf("message = %q", e.Error())
	}
}

func TestDo_TimeoutIsNetworkErrorAndKeepsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	fired := 0
	client, _ := New(Config{
		BaseURL:              server.URL,
		Timeout:              20 * time.Millisecond,
		OnSessionInvalidated: func() { fired++ },
	})

	err := client.Get(context.Background(), "/slow", nil)
	if !apperr.IsNetwork(err) {
		t.Fatalf("error kind = %v, want network", apperr.KindOf(err))
	}
	if fired != 0 {
		t.Errorf("timeout must not invalidate the session, fired %d times", fired)
	}
}

// =============================================================================
// Decoding
// =============================================================================

func TestDo_DecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orderId": 1007}`))
	}))
	defer server.Close()

	client, _ := New(Config{BaseURL: server.URL})
	var out struct {
		OrderID int64 `json:"orderId"`
	}
	if err := client.Post(context.Background(), "/cart/checkout", struct{}{}, &out); err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if out.OrderID != 1007 {
		t.Errorf("orderId = %d, want 1007", out.OrderID)
	}
}

func TestWithHeader(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Idempotency-Key")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := New(Config{BaseURL: server.URL})
	err := client.Post(context.Background(), "/x", struct{}{}, nil, WithHeader("X-Idempotency-Key", "abc"))
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if got != "abc" {
		t.Errorf("X-Idempotency-Key = %q, want abc", got)
	}
}
