package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"feedgram/token"
)

func setupRouter(t *testing.T, tokens *token.Service, required bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	if required {
		r.Use(AuthRequired(tokens))
	} else {
		r.Use(AuthOptional(tokens))
	}
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId":   c.GetString(CtxUserID),
			"fullName": c.GetString(CtxFullName),
		})
	})
	return r
}

func issueToken(t *testing.T, tokens *token.Service) string {
	t.Helper()
	access, err := tokens.GenerateAccessToken(token.Payload{
		UserID:   "64f000000000000000000001",
		Email:    "jane@example.com",
		FullName: "Jane Doe",
	})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	return access
}

func TestAuthRequired_ValidToken(t *testing.T) {
	tokens := token.NewService("access-secret", "refresh-secret")
	r := setupRouter(t, tokens, true)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	tokens := token.NewService("access-secret", "refresh-secret")
	r := setupRouter(t, tokens, true)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequired_MalformedHeader(t *testing.T) {
	tokens := token.NewService("access-secret", "refresh-secret")
	r := setupRouter(t, tokens, true)

	for _, header := range []string{"Bearer", "Token abc", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, w.Code)
		}
	}
}

func TestAuthRequired_WrongSecret(t *testing.T) {
	tokens := token.NewService("access-secret", "refresh-secret")
	other := token.NewService("other-access-secret", "other-refresh-secret")
	r := setupRouter(t, tokens, true)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, other))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for a foreign-signed token", w.Code)
	}
}

func TestAuthOptional_AnonymousPassesThrough(t *testing.T) {
	tokens := token.NewService("access-secret", "refresh-secret")
	r := setupRouter(t, tokens, false)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for anonymous request", w.Code)
	}
}

func TestAuthOptional_SetsViewerIdentity(t *testing.T) {
	tokens := token.NewService("access-secret", "refresh-secret")
	r := setupRouter(t, tokens, false)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := w.Body.String()
	if want := `"userId":"64f000000000000000000001"`; !strings.Contains(body, want) {
		t.Errorf("body %s missing %s", body, want)
	}
	if want := `"fullName":"Jane Doe"`; !strings.Contains(body, want) {
		t.Errorf("body %s missing %s", body, want)
	}
}

func TestAuthOptional_InvalidTokenIsIgnored(t *testing.T) {
	tokens := token.NewService("access-secret", "refresh-secret")
	r := setupRouter(t, tokens, false)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, optional auth should not reject invalid tokens", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"userId":""`) {
		t.Errorf("body %s should carry no viewer identity", w.Body.String())
	}
}
