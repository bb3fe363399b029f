package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/room-reservation/internal/utils"
)

func echoWithJWT(secret string, extra ...echo.MiddlewareFunc) *echo.Echo {
    e := echo.New()
    g := e.Group("/v1", append([]echo.MiddlewareFunc{JWTAuth(secret)}, extra...)...)
    g.GET("/whoami", func(c echo.Context) error {
        return c.JSON(http.StatusOK, echo.Map{
            "ssn":  c.Get("user_id"),
            "role": c.Get("role"),
        })
    })
    return e
}

func TestJWTAuthValidToken(t *testing.T) {
    at, err := utils.NewAccessToken("test-secret", "111-11-1111", "EMPLOYEE", 15)
    require.NoError(t, err)

    e := echoWithJWT("test-secret")
    req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
    req.Header.Set("Authorization", "Bearer "+at.Token)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), "111-11-1111")
    assert.Contains(t, rec.Body.String(), "EMPLOYEE")
}

func TestJWTAuthMissingOrBadToken(t *testing.T) {
    e := echoWithJWT("test-secret")

    req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code, "no header")

    at, err := utils.NewAccessToken("other-secret", "111-11-1111", "EMPLOYEE", 15)
    require.NoError(t, err)
    req = httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
    req.Header.Set("Authorization", "Bearer "+at.Token)
    rec = httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code, "wrong signing secret")
}

func TestRequireRole(t *testing.T) {
    at, err := utils.NewAccessToken("test-secret", "111-11-1111", "EMPLOYEE", 15)
    require.NoError(t, err)

    e := echoWithJWT("test-secret", RequireRole("ADMIN"))
    req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
    req.Header.Set("Authorization", "Bearer "+at.Token)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusForbidden, rec.Code)

    e = echoWithJWT("test-secret", RequireRole("ADMIN", "EMPLOYEE"))
    req = httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
    req.Header.Set("Authorization", "Bearer "+at.Token)
    rec = httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusOK, rec.Code)
}
