package model

import (
	"errors"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blogcms-backend/internal/shared/response"
)

// User is an admin account. The CMS has no public registration; accounts
// are provisioned directly in the database.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"` // seconds
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// HandleAuthError maps an auth error to an HTTP response.
// Unknown email and wrong password answer identically.
func HandleAuthError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrUserNotFound) {
		response.ErrorResponse(c, http.StatusUnauthorized, "AUTH_001", "Invalid email or password")
		return true
	}

	response.ErrorResponse(c, http.StatusInternalServerError, "SYS_001", "Internal server error")
	return true
}
