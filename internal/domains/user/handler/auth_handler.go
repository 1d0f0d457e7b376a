package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"blogcms-backend/internal/domains/user/model"
	"blogcms-backend/internal/domains/user/service"
	"blogcms-backend/internal/shared/response"
)

type Handler struct {
	authService service.AuthServiceInterface
}

func NewHandler(authService service.AuthServiceInterface) *Handler {
	return &Handler{authService: authService}
}

// Login - POST /v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_001", "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		var vErrs validation.Errors
		if errors.As(err, &vErrs) {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_001", "Invalid request", vErrs)
			return
		}
		model.HandleAuthError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
