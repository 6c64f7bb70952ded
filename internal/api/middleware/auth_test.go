package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"thesis_hub/internal/common/security"
	"thesis_hub/internal/platform/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(t *testing.T, requiredRoles ...string) http.Handler {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-signing-key"),
		JWTExp: time.Hour,
	}
	security.InitJWT()

	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.Use(Authenticator)
	if len(requiredRoles) > 0 {
		r.Use(RequireAnyRole(requiredRoles...))
	}
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		email, _ := GetUserEmailFromContext(r.Context())
		w.Write([]byte(email))
	})
	return r
}

func doRequest(router http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticatorRejectsMissingToken(t *testing.T) {
	router := newProtectedRouter(t)
	rec := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorRejectsGarbageToken(t *testing.T) {
	router := newProtectedRouter(t)
	rec := doRequest(router, "not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorPutsPrincipalInContext(t *testing.T) {
	router := newProtectedRouter(t)
	token, err := security.GenerateToken(7, "ada@uni.edu", []string{"STUDENT"})
	require.NoError(t, err)

	rec := doRequest(router, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada@uni.edu", rec.Body.String())
}

func TestRequireAnyRole(t *testing.T) {
	router := newProtectedRouter(t, "COORDINATOR", "ADMIN")

	token, err := security.GenerateToken(7, "ada@uni.edu", []string{"STUDENT"})
	require.NoError(t, err)
	rec := doRequest(router, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	token, err = security.GenerateToken(8, "boss@uni.edu", []string{"STUDENT", "ADMIN"})
	require.NoError(t, err)
	rec = doRequest(router, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}
