package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret")

type fakeUsers struct {
	roles map[string]string
}

func (f *fakeUsers) Role(_ context.Context, userID string) (string, error) {
	return f.roles[userID], nil
}

func signToken(t *testing.T, sub string, secret []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, authHeader string, users UserDirectory) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/import/status", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seenUserID string
	handler := AdminAuth(testSecret, users)(func(c echo.Context) error {
		seenUserID, _ = c.Get(UserIDKey).(string)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, seenUserID
}

func TestAdminAuthMissingToken(t *testing.T) {
	rec, _ := runAuth(t, "", &fakeUsers{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminAuthWrongSecret(t *testing.T) {
	token := signToken(t, "u1", []byte("other-secret"))
	rec, _ := runAuth(t, "Bearer "+token, &fakeUsers{roles: map[string]string{"u1": "admin"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminAuthNonAdminRejected(t *testing.T) {
	token := signToken(t, "u1", testSecret)
	rec, _ := runAuth(t, "Bearer "+token, &fakeUsers{roles: map[string]string{"u1": "viewer"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a non-admin, got %d", rec.Code)
	}
}

func TestAdminAuthAdminPasses(t *testing.T) {
	token := signToken(t, "u1", testSecret)
	rec, userID := runAuth(t, "Bearer "+token, &fakeUsers{roles: map[string]string{"u1": "admin"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if userID != "u1" {
		t.Fatalf("expected the subject stored on the context, got %q", userID)
	}
}
