package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuisinecraft/engine/pkg/models"
)

func setupIngredientRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	handler := NewIngredientHandler(logger, nil)

	router := gin.New()
	router.GET("/api/v1/ingredients/substitutions", handler.Substitutions)
	return router
}

func TestIngredientHandler_Substitutions(t *testing.T) {
	router := setupIngredientRouter()

	t.Run("known ingredient", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ingredients/substitutions?name=butter", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp models.SubstitutionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "butter", resp.Ingredient)
		assert.Contains(t, resp.Substitutions, "margarine")
	})

	t.Run("unknown ingredient returns empty list", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ingredients/substitutions?name=xylitol+crystals", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp models.SubstitutionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Substitutions)
	})

	t.Run("missing name is a bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ingredients/substitutions", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
