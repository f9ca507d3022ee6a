package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware_ValidKey(t *testing.T) {
	az := NewStaticAuthorizer()
	az.Register("sk_test_key", UserInfo{UserID: "u1", Username: "alice"})

	var seen *UserInfo
	h := Middleware(az)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/content", nil)
	req.Header.Set("Authorization", "Bearer sk_test_key")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if seen == nil || seen.UserID != "u1" {
		t.Fatalf("expected user u1 in context, got %+v", seen)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	h := Middleware(NewStaticAuthorizer())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest("GET", "/api/content", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMiddleware_UnknownKey(t *testing.T) {
	h := Middleware(NewStaticAuthorizer())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest("GET", "/api/content", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestExtractAPIKey_Format(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	if _, err := ExtractAPIKey(req); err == nil {
		t.Fatal("expected error for non-bearer scheme")
	}
}
