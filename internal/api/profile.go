package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feastly/backend/internal/middleware"
	"github.com/feastly/backend/internal/service"
	"github.com/feastly/backend/internal/types"
)

type ProfileHandler struct {
	profileService service.IProfileService
	recipeService  service.IRecipeService
	validator      middleware.TokenValidator
}

func NewProfileHandler(profileService service.IProfileService, recipeService service.IRecipeService, validator middleware.TokenValidator) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		recipeService:  recipeService,
		validator:      validator,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(h.validator))
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/recipes", h.GetOwnRecipes)
		profile.GET("/favorites", h.GetFavoriteRecipes)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), *viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), *viewer, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetOwnRecipes lists the caller's recipes, annotated with their own
// like/favorite flags.
func (h *ProfileHandler) GetOwnRecipes(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipes, err := h.recipeService.List(c.Request.Context(), types.ListFilters{
		AuthorID: viewer.String(),
	}, viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// GetFavoriteRecipes lists the recipes the caller has favorited,
// newest favorite first.
func (h *ProfileHandler) GetFavoriteRecipes(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipes, err := h.recipeService.ListFavorites(c.Request.Context(), *viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
