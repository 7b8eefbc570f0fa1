package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mycoach-backend/internal/http/response"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
	"github.com/yungbote/mycoach-backend/internal/services"
)

type AuthHandler struct {
	log    *logger.Logger
	tokens services.TokenService
}

func NewAuthHandler(log *logger.Logger, tokens services.TokenService) *AuthHandler {
	return &AuthHandler{
		log:    log.With("handler", "AuthHandler"),
		tokens: tokens,
	}
}

type tokenExchangeRequest struct {
	APIToken string `json:"api_token" binding:"required"`
}

type tokenExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// POST /api/auth/token
func (h *AuthHandler) ExchangeToken(c *gin.Context) {
	var req tokenExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	access, expiresIn, err := h.tokens.Exchange(req.APIToken)
	if err != nil {
		h.log.Warn("Token exchange refused")
		response.RespondAppError(c, err)
		return
	}

	response.RespondOK(c, tokenExchangeResponse{AccessToken: access, ExpiresIn: expiresIn})
}
