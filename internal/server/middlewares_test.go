package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService panics on any call the test does not expect.
type stubService struct {
	Service
}

func TestGetUID_MissingAuthorizationHeader(t *testing.T) {
	s := &Server{server: stubService{}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	uid, err := s.getUID(c)

	// no uid, a real error, and nothing written yet: the middleware
	// owns the single 401 response
	assert.Empty(t, uid)
	require.Error(t, err)
	assert.Zero(t, rec.Body.Len())
}

func TestAuthMiddleware_MissingAuthorizationHeader(t *testing.T) {
	s := &Server{server: stubService{}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(echo.Context) error {
		t.Fatal("next handler must not run without credentials")
		return nil
	}

	require.NoError(t, s.AuthMiddleware(next)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authorization header is required","message":"Invalid token"}`, rec.Body.String())
}
