package testhelpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/feastly/backend/internal/models"
	"github.com/feastly/backend/internal/service"
	"github.com/feastly/backend/internal/types"
)

// TestJWTSecret signs tokens in tests.
const TestJWTSecret = "test-secret"

var userSeq int

// CreateTestUserAndToken registers a user through the auth service and
// returns it with a valid bearer token.
func CreateTestUserAndToken(t *testing.T, db *gorm.DB, auth *service.AuthService) (*models.User, string) {
	t.Helper()

	userSeq++
	user, token, err := auth.Register(context.Background(), &types.RegisterRequest{
		Email:    fmt.Sprintf("user%d-%s@example.com", userSeq, uuid.NewString()[:8]),
		Password: "password123",
		FullName: fmt.Sprintf("Test User %d", userSeq),
	})
	require.NoError(t, err)
	return user, token
}

// CreateTestRecipe inserts a recipe row with a fixed creation time so
// ordering assertions stay deterministic.
func CreateTestRecipe(t *testing.T, db *gorm.DB, owner uuid.UUID, title string, createdAt time.Time) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		Title:        title,
		Description:  "a test recipe",
		Ingredients:  models.JSONBStringArray{"1 cup flour", "2 eggs"},
		CookingSteps: "Mix everything and bake.",
		Category:     models.CategoryMainCourse,
		PrepTime:     10,
		CookTime:     20,
		Servings:     2,
		Difficulty:   models.DifficultyEasy,
		UserID:       owner,
		CreatedAt:    createdAt,
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}
