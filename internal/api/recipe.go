package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/receipt-chef/backend/internal/service"
)

// RecipeHandler handles recipe search requests
type RecipeHandler struct {
	recipeService service.IRecipeService
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipeService service.IRecipeService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
	}
}

// RegisterRoutes registers the recipe routes
func (h *RecipeHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/search_recipe", h.SearchRecipe)
}

// SearchRecipe returns the recipes matching the "ingredient" query parameter as a bare JSON array
func (h *RecipeHandler) SearchRecipe(c *gin.Context) {
	recipes, err := h.recipeService.SearchRecipes(c.Request.Context(), c.Query("ingredient"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}
