package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paymenu/grouppay/internal/auth"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/types"
)

type AuthHandler struct {
	auth *auth.Service
	log  *logger.Logger
}

func NewAuthHandler(authService *auth.Service, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, log: log}
}

// @Summary Exchange an API key for a session token
// @Description Issues a short-lived bearer token for the account owning the API key
// @Tags Auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} ierr.ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	apiKey := c.GetHeader(types.HeaderAPIKey)
	if apiKey == "" {
		c.Error(ierr.NewError("missing api key").
			WithHint("Provide the x-api-key header").
			Mark(ierr.ErrPermissionDenied))
		return
	}

	accountID, err := h.auth.AuthenticateAPIKey(c.Request.Context(), apiKey)
	if err != nil {
		c.Error(err)
		return
	}

	token, err := h.auth.IssueToken(c.Request.Context(), accountID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "account_id": accountID})
}
