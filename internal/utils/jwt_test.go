package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewAccessTokenClaims(t *testing.T) {
    at, err := NewAccessToken("test-secret", "111-11-1111", "EMPLOYEE", 15)
    require.NoError(t, err)
    require.NotEmpty(t, at.Token)
    assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 2*time.Second)

    tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte("test-secret"), nil
    })
    require.NoError(t, err)
    require.True(t, tok.Valid)
    claims, ok := tok.Claims.(jwt.MapClaims)
    require.True(t, ok)
    assert.Equal(t, "111-11-1111", claims["sub"])
    assert.Equal(t, "EMPLOYEE", claims["role"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
    at, err := NewAccessToken("test-secret", "111-11-1111", "ADMIN", 15)
    require.NoError(t, err)

    _, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte("other-secret"), nil
    })
    assert.Error(t, err)
}
