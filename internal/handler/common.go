package handler

import (
    "errors"

    "github.com/labstack/echo/v4"
)

// errNoIdentity is returned when the JWT middleware did not leave a
// usable subject in the request context.
var errNoIdentity = errors.New("no authenticated identity in context")

// requesterSSN extracts the authenticated employee's SSN stored in the
// context by the JWTAuth middleware under "user_id".
func requesterSSN(c echo.Context) (string, error) {
    v := c.Get("user_id")
    ssn, ok := v.(string)
    if !ok || ssn == "" {
        return "", errNoIdentity
    }
    return ssn, nil
}
