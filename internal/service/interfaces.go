package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/feastly/backend/internal/models"
	"github.com/feastly/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecipeService defines the interface for catalog, detail and
// mutation operations.
type IRecipeService interface {
	List(ctx context.Context, filters types.ListFilters, viewer *uuid.UUID) ([]types.AnnotatedRecipe, error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.AnnotatedRecipe, error)
	Get(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (*types.RecipeDetail, error)
	Create(ctx context.Context, owner uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	Update(ctx context.Context, id, caller uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	Delete(ctx context.Context, id, caller uuid.UUID) error
	ToggleLike(ctx context.Context, recipeID, userID uuid.UUID) (*types.ToggleResult, error)
	ToggleFavorite(ctx context.Context, recipeID, userID uuid.UUID) (*types.ToggleResult, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.Profile, error)
}

// IImageService stores uploaded recipe images and returns their
// public URLs.
type IImageService interface {
	Upload(ctx context.Context, data []byte, fileName, contentType string) (string, error)
}
