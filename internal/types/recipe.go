package types

import (
	"github.com/feastly/backend/internal/models"
)

// AnnotatedRecipe is a recipe joined with its author's profile and
// decorated with the viewer's like/favorite flags. The flags live only
// in responses and are recomputed on every fetch; they are never
// written back.
type AnnotatedRecipe struct {
	models.Recipe
	Author      *models.Profile `json:"author,omitempty"`
	IsLiked     bool            `json:"is_liked"`
	IsFavorited bool            `json:"is_favorited"`
}

// RecipeDetail is the single-recipe view: the annotated recipe plus the
// aggregate like count.
type RecipeDetail struct {
	AnnotatedRecipe
	LikesCount int64 `json:"likes_count"`
}

// ToggleResult reports the membership state after a like/favorite
// toggle. Changed is false when the toggle was a no-op because the
// recipe no longer exists.
type ToggleResult struct {
	Active     bool  `json:"active"`
	LikesCount int64 `json:"likes_count,omitempty"`
	Changed    bool  `json:"-"`
}

// ListFilters narrows a catalog fetch. Zero values mean "no filter";
// Category "all" is treated the same as empty.
type ListFilters struct {
	Category string
	Search   string
	AuthorID string
}
