// internal/handlers/recipe.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sweetcake/sweetcake-backend/internal/services"
	"github.com/sweetcake/sweetcake-backend/internal/utils"
)

type RecipeHandler struct {
	recipeService *services.RecipeService
}

func NewRecipeHandler(recipeService *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// GET /recettes
func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListRecipes(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"recettes": recipes})
}

// GET /recettes/:id
// The id is either a document ObjectID or a product reference; a
// product reference may match several recipes.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipes, err := h.recipeService.GetRecipes(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"recettes": recipes})
}

// POST /recettes
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req services.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"recette": recipe})
}

// PUT /recettes/:id
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req services.UpdateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"recette": recipe})
}

// DELETE /recettes/:id
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
