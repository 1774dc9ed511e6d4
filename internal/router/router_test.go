package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/receipt-chef/backend/internal/api"
	"github.com/pageza/receipt-chef/backend/internal/middleware"
	"github.com/pageza/receipt-chef/backend/internal/mocks"
	"github.com/pageza/receipt-chef/backend/internal/types"
)

func setupTestRouter(opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	recipes := new(mocks.MockRecipeService)
	recipes.On("SearchRecipes", mock.Anything, mock.Anything).Return([]types.RecipeRecord{}, nil)

	return SetupRouter(
		api.NewReceiptHandler(new(mocks.MockReceiptService)),
		api.NewRecipeHandler(recipes),
		opts,
	)
}

func searchFrom(router *gin.Engine, remoteAddr, forwardedFor string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search_recipe?ingredient=x", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	router.ServeHTTP(w, req)
	return w.Code
}

func TestSetupRouter_ClientIP(t *testing.T) {
	t.Run("should ignore X-Forwarded-For from untrusted peers", func(t *testing.T) {
		router := setupTestRouter(Options{Limiter: middleware.NewIPRateLimiter(1)})

		assert.Equal(t, http.StatusOK, searchFrom(router, "203.0.113.9:1234", "198.51.100.1"))
		assert.Equal(t, http.StatusTooManyRequests, searchFrom(router, "203.0.113.9:1234", "198.51.100.2"))
		assert.Equal(t, http.StatusTooManyRequests, searchFrom(router, "203.0.113.9:1234", ""))
	})

	t.Run("should use X-Forwarded-For from trusted proxies", func(t *testing.T) {
		router := setupTestRouter(Options{
			Limiter:        middleware.NewIPRateLimiter(1),
			TrustedProxies: []string{"203.0.113.0/24"},
		})

		assert.Equal(t, http.StatusOK, searchFrom(router, "203.0.113.9:1234", "198.51.100.1"))
		assert.Equal(t, http.StatusOK, searchFrom(router, "203.0.113.9:1234", "198.51.100.2"))
		assert.Equal(t, http.StatusTooManyRequests, searchFrom(router, "203.0.113.9:1234", "198.51.100.1"))
	})

	t.Run("should trust no proxy when the list is invalid", func(t *testing.T) {
		router := setupTestRouter(Options{
			Limiter:        middleware.NewIPRateLimiter(1),
			TrustedProxies: []string{"not-an-ip"},
		})

		assert.Equal(t, http.StatusOK, searchFrom(router, "203.0.113.9:1234", "198.51.100.1"))
		assert.Equal(t, http.StatusTooManyRequests, searchFrom(router, "203.0.113.9:1234", "198.51.100.2"))
	})
}

func TestSetupRouter_HealthIsNotLimited(t *testing.T) {
	router := setupTestRouter(Options{Limiter: middleware.NewIPRateLimiter(1)})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
