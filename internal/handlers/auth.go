package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/services"
	"github.com/cuisinecraft/engine/pkg/models"
)

type AuthHandler struct {
	logger   *logrus.Logger
	auth     *services.AuthService
	validate *validator.Validate
}

func NewAuthHandler(logger *logrus.Logger, auth *services.AuthService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		auth:     auth,
		validate: validator.New(),
	}
}

// Token issues a session token for the supplied user id.
func (h *AuthHandler) Token(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Request body must be valid JSON",
			},
		})
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	token, err := h.auth.GenerateToken(req.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "TOKEN_GENERATION_FAILED",
				"message": "Failed to generate token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{
		Token:     token,
		ExpiresIn: int64(h.auth.TokenTTL().Seconds()),
	})
}
