package handler

import (
    "database/sql" // sentinel errors returned from the employee repository
    "errors"       // errors.Is comparisons
    "net/http"     // HTTP status codes

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/room-reservation/internal/config"     // app configuration
    "github.com/iliyamo/room-reservation/internal/model"      // employee status values
    "github.com/iliyamo/room-reservation/internal/repository" // DB repositories
    "github.com/iliyamo/room-reservation/internal/utils"      // token issuing and password hashing
)

// AuthHandler bundles dependencies for the login endpoint.  Employees
// are provisioned out of band; there is no self-registration.
type AuthHandler struct {
    Cfg       config.Config
    Employees *repository.EmployeeRepo
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(cfg config.Config, employees *repository.EmployeeRepo) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Employees: employees}
}

type loginReq struct {
    SSN      string `json:"ssn"`
    Password string `json:"password"`
}

type employeePart struct {
    SSN       string `json:"ssn"`
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
    Role      string `json:"role"`
}

// Login handles POST /v1/auth/login.  It verifies the employee's
// credentials and issues an HS256 access token.  Inactive employees
// (deactivated by the late check-in sweep) are refused with 403 even
// when the password matches.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil || req.SSN == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "ssn and password are required"})
    }
    emp, err := h.Employees.BySSN(c.Request().Context(), req.SSN)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !utils.VerifyPassword(emp.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }
    if emp.Status != model.EmployeeActive {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "account is inactive"})
    }
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, emp.SSN, emp.Role, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "employee": employeePart{
            SSN:       emp.SSN,
            FirstName: emp.FirstName,
            LastName:  emp.LastName,
            Role:      emp.Role,
        },
        "access_token": access.Token,
        "expires":      access.Exp,
    })
}
