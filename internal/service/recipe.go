package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/feastly/backend/internal/models"
	"github.com/feastly/backend/internal/types"
)

// RecipeService implements the catalog, detail and mutation
// operations over recipes and their like/favorite membership rows.
type RecipeService struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ IRecipeService = (*RecipeService)(nil)

func NewRecipeService(db *gorm.DB, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		db:     db,
		logger: logger,
	}
}

// List fetches recipes matching the filters, newest first, with the
// author profile attached. For an authenticated viewer the two
// membership lookups run concurrently and the whole call fails if
// either does: a partially annotated catalog is worse than an error.
func (s *RecipeService) List(ctx context.Context, filters types.ListFilters, viewer *uuid.UUID) ([]types.AnnotatedRecipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Order("created_at DESC")

	if filters.Category != "" && filters.Category != "all" {
		query = query.Where("category = ?", filters.Category)
	}

	if filters.Search != "" {
		like := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(cooking_steps) LIKE ?", like, like)
	}

	if filters.AuthorID != "" {
		authorID, err := uuid.Parse(filters.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("invalid author id %q: %w", filters.AuthorID, err)
		}
		query = query.Where("user_id = ?", authorID)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	authors, err := s.authorProfiles(ctx, recipes)
	if err != nil {
		return nil, err
	}

	annotated := make([]types.AnnotatedRecipe, len(recipes))
	for i, r := range recipes {
		annotated[i] = types.AnnotatedRecipe{
			Recipe: r,
			Author: authors[r.UserID],
		}
	}

	if viewer == nil || len(recipes) == 0 {
		return annotated, nil
	}

	recipeIDs := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
	}

	var likedIDs, favoritedIDs []uuid.UUID
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.RecipeLike{}).
			Where("user_id = ? AND recipe_id IN ?", *viewer, recipeIDs).
			Pluck("recipe_id", &likedIDs).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.RecipeFavorite{}).
			Where("user_id = ? AND recipe_id IN ?", *viewer, recipeIDs).
			Pluck("recipe_id", &favoritedIDs).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	liked := idSet(likedIDs)
	favorited := idSet(favoritedIDs)
	for i := range annotated {
		annotated[i].IsLiked = liked[annotated[i].ID]
		annotated[i].IsFavorited = favorited[annotated[i].ID]
	}

	return annotated, nil
}

// ListFavorites returns the recipes the user has favorited, most
// recently favorited first, annotated for that user. A favorite row
// whose recipe is gone is skipped rather than surfaced.
func (s *RecipeService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.AnnotatedRecipe, error) {
	var favorites []models.RecipeFavorite
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		return nil, err
	}
	if len(favorites) == 0 {
		return []types.AnnotatedRecipe{}, nil
	}

	recipeIDs := make([]uuid.UUID, len(favorites))
	for i, f := range favorites {
		recipeIDs[i] = f.RecipeID
	}

	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Where("id IN ?", recipeIDs).Find(&recipes).Error; err != nil {
		return nil, err
	}

	authors, err := s.authorProfiles(ctx, recipes)
	if err != nil {
		return nil, err
	}

	var likedIDs []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.RecipeLike{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &likedIDs).Error; err != nil {
		return nil, err
	}
	liked := idSet(likedIDs)

	byID := make(map[uuid.UUID]models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	annotated := make([]types.AnnotatedRecipe, 0, len(favorites))
	for _, f := range favorites {
		r, ok := byID[f.RecipeID]
		if !ok {
			continue
		}
		annotated = append(annotated, types.AnnotatedRecipe{
			Recipe:      r,
			Author:      authors[r.UserID],
			IsLiked:     liked[r.ID],
			IsFavorited: true,
		})
	}
	return annotated, nil
}

// Get resolves a single recipe with the full author profile, the
// aggregate like count and the viewer's membership flags. The recipe
// itself is the primary subject: the count and flag lookups run
// concurrently and degrade to zero values on failure instead of
// failing the whole fetch.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (*types.RecipeDetail, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var author *models.Profile
	var profile models.Profile
	switch err := s.db.WithContext(ctx).First(&profile, "id = ?", recipe.UserID).Error; {
	case err == nil:
		author = &profile
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	detail := &types.RecipeDetail{
		AnnotatedRecipe: types.AnnotatedRecipe{
			Recipe: recipe,
			Author: author,
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var count int64
		err := s.db.WithContext(gctx).Model(&models.RecipeLike{}).
			Where("recipe_id = ?", id).Count(&count).Error
		if err != nil {
			s.logger.Warn("likes count lookup failed", zap.String("recipe_id", id.String()), zap.Error(err))
			return nil
		}
		detail.LikesCount = count
		return nil
	})
	if viewer != nil {
		g.Go(func() error {
			liked, err := s.hasMembership(gctx, &models.RecipeLike{}, id, *viewer)
			if err != nil {
				s.logger.Warn("like membership lookup failed", zap.String("recipe_id", id.String()), zap.Error(err))
				return nil
			}
			detail.IsLiked = liked
			return nil
		})
		g.Go(func() error {
			favorited, err := s.hasMembership(gctx, &models.RecipeFavorite{}, id, *viewer)
			if err != nil {
				s.logger.Warn("favorite membership lookup failed", zap.String("recipe_id", id.String()), zap.Error(err))
				return nil
			}
			detail.IsFavorited = favorited
			return nil
		})
	}
	_ = g.Wait()

	return detail, nil
}

// Create persists a new recipe owned by the caller. ID, owner and
// timestamps are server-assigned.
func (s *RecipeService) Create(ctx context.Context, owner uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	recipe := models.Recipe{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  models.JSONBStringArray(req.Ingredients),
		CookingSteps: req.CookingSteps,
		Category:     req.Category,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Difficulty:   req.Difficulty,
		ImageURL:     req.ImageURL,
		UserID:       owner,
	}

	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Update applies the non-nil fields of the request. Only the owner may
// update; the owner reference itself is immutable.
func (s *RecipeService) Update(ctx context.Context, id, caller uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if recipe.UserID != caller {
		return nil, ErrNotAuthorized
	}

	if req.Title != nil {
		recipe.Title = *req.Title
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Ingredients != nil {
		recipe.Ingredients = models.JSONBStringArray(*req.Ingredients)
	}
	if req.CookingSteps != nil {
		recipe.CookingSteps = *req.CookingSteps
	}
	if req.Category != nil {
		recipe.Category = *req.Category
	}
	if req.PrepTime != nil {
		recipe.PrepTime = *req.PrepTime
	}
	if req.CookTime != nil {
		recipe.CookTime = *req.CookTime
	}
	if req.Servings != nil {
		recipe.Servings = *req.Servings
	}
	if req.Difficulty != nil {
		recipe.Difficulty = *req.Difficulty
	}
	if req.ImageURL != nil {
		recipe.ImageURL = *req.ImageURL
	}

	if err := s.db.WithContext(ctx).Save(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Delete removes the recipe and its membership rows in one
// transaction, so later catalog queries never see orphaned likes or
// favorites. Owner only.
func (s *RecipeService) Delete(ctx context.Context, id, caller uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if recipe.UserID != caller {
		return ErrNotAuthorized
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeFavorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// ToggleLike flips the caller's like membership for the recipe and
// returns the resulting state with a fresh like count. Toggling a
// recipe that no longer exists is a silent no-op, matching how a
// stale catalog entry behaves for the client.
func (s *RecipeService) ToggleLike(ctx context.Context, recipeID, userID uuid.UUID) (*types.ToggleResult, error) {
	exists, err := s.recipeExists(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &types.ToggleResult{}, nil
	}

	liked, err := s.hasMembership(ctx, &models.RecipeLike{}, recipeID, userID)
	if err != nil {
		return nil, err
	}

	if liked {
		err = s.db.WithContext(ctx).
			Where("recipe_id = ? AND user_id = ?", recipeID, userID).
			Delete(&models.RecipeLike{}).Error
	} else {
		err = s.db.WithContext(ctx).Create(&models.RecipeLike{
			RecipeID: recipeID,
			UserID:   userID,
		}).Error
	}
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RecipeLike{}).
		Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
		return nil, err
	}

	return &types.ToggleResult{Active: !liked, LikesCount: count, Changed: true}, nil
}

// ToggleFavorite flips the caller's favorite membership for the
// recipe. Same no-op rule as ToggleLike for missing recipes.
func (s *RecipeService) ToggleFavorite(ctx context.Context, recipeID, userID uuid.UUID) (*types.ToggleResult, error) {
	exists, err := s.recipeExists(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &types.ToggleResult{}, nil
	}

	favorited, err := s.hasMembership(ctx, &models.RecipeFavorite{}, recipeID, userID)
	if err != nil {
		return nil, err
	}

	if favorited {
		err = s.db.WithContext(ctx).
			Where("recipe_id = ? AND user_id = ?", recipeID, userID).
			Delete(&models.RecipeFavorite{}).Error
	} else {
		err = s.db.WithContext(ctx).Create(&models.RecipeFavorite{
			RecipeID: recipeID,
			UserID:   userID,
		}).Error
	}
	if err != nil {
		return nil, err
	}

	return &types.ToggleResult{Active: !favorited, Changed: true}, nil
}

func (s *RecipeService) recipeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// hasMembership reports whether a (recipe, user) row exists in the
// given membership table. A missing row is not an error.
func (s *RecipeService) hasMembership(ctx context.Context, model interface{}, recipeID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(model).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *RecipeService) authorProfiles(ctx context.Context, recipes []models.Recipe) (map[uuid.UUID]*models.Profile, error) {
	if len(recipes) == 0 {
		return nil, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(recipes))
	ownerIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		ownerIDs = append(ownerIDs, r.UserID)
	}

	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Where("id IN ?", ownerIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*models.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}
	return byID, nil
}

func idSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
