package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/feastly/backend/internal/middleware"
	"github.com/feastly/backend/internal/service"
	"github.com/feastly/backend/internal/types"
)

type RecipeHandler struct {
	recipeService service.IRecipeService
	validator     middleware.TokenValidator
	createLimiter *middleware.RateLimiter
	toggleLimiter *middleware.RateLimiter
}

func NewRecipeHandler(recipeService service.IRecipeService, validator middleware.TokenValidator, createLimiter, toggleLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		validator:     validator,
		createLimiter: createLimiter,
		toggleLimiter: toggleLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		// Reads are public; a Bearer token adds viewer annotation.
		recipes.GET("", middleware.OptionalAuthMiddleware(h.validator), h.ListRecipes)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.validator), h.GetRecipe)

		auth := recipes.Group("", middleware.AuthMiddleware(h.validator))
		{
			create := auth.Group("")
			if h.createLimiter != nil {
				create.Use(h.createLimiter.RateLimitMiddleware())
			}
			create.POST("", h.CreateRecipe)

			auth.PUT("/:id", h.UpdateRecipe)
			auth.DELETE("/:id", h.DeleteRecipe)

			toggle := auth.Group("")
			if h.toggleLimiter != nil {
				toggle.Use(h.toggleLimiter.RateLimitMiddleware())
			}
			toggle.POST("/:id/like", h.ToggleLike)
			toggle.POST("/:id/favorite", h.ToggleFavorite)
		}
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filters := types.ListFilters{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		AuthorID: c.Query("author_id"),
	}

	if filters.AuthorID != "" {
		if _, err := uuid.Parse(filters.AuthorID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
	}

	recipes, err := h.recipeService.List(c.Request.Context(), filters, middleware.ViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	detail, err := h.recipeService.Get(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), *viewer, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), id, *viewer, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), id, *viewer); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted successfully", "id": id})
}

func (h *RecipeHandler) ToggleLike(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	result, err := h.recipeService.ToggleLike(c.Request.Context(), id, *viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_liked":    result.Active,
		"likes_count": result.LikesCount,
	})
}

func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	result, err := h.recipeService.ToggleFavorite(c.Request.Context(), id, *viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_favorited": result.Active})
}
