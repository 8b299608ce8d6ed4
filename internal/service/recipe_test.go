package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/feastly/backend/internal/models"
	"github.com/feastly/backend/internal/service"
	"github.com/feastly/backend/internal/testhelpers"
	"github.com/feastly/backend/internal/types"
)

func setupRecipeTest(t *testing.T) (*gorm.DB, *service.RecipeService, *service.AuthService) {
	db := testhelpers.SetupTestDatabase(t)
	recipeSvc := service.NewRecipeService(db, zap.NewNop())
	authSvc := service.NewAuthService(db, testhelpers.TestJWTSecret)
	return db, recipeSvc, authSvc
}

func TestListOrderedNewestFirst(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	user, _ := testhelpers.CreateTestUserAndToken(t, db, auth)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	testhelpers.CreateTestRecipe(t, db, user.ID, "oldest", base)
	testhelpers.CreateTestRecipe(t, db, user.ID, "middle", base.Add(time.Hour))
	testhelpers.CreateTestRecipe(t, db, user.ID, "newest", base.Add(2*time.Hour))

	recipes, err := svc.List(context.Background(), types.ListFilters{}, nil)
	require.NoError(t, err)
	require.Len(t, recipes, 3)

	assert.Equal(t, "newest", recipes[0].Title)
	assert.Equal(t, "middle", recipes[1].Title)
	assert.Equal(t, "oldest", recipes[2].Title)
	for i := 1; i < len(recipes); i++ {
		assert.False(t, recipes[i].CreatedAt.After(recipes[i-1].CreatedAt))
	}
}

func TestListFiltersCategoryAndSearch(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	user, _ := testhelpers.CreateTestUserAndToken(t, db, auth)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	choc := testhelpers.CreateTestRecipe(t, db, user.ID, "Chocolate Cake", base)
	choc.Category = models.CategoryDessert
	require.NoError(t, db.Save(choc).Error)

	// Match via cooking steps rather than title.
	steps := testhelpers.CreateTestRecipe(t, db, user.ID, "Mystery Pudding", base.Add(time.Hour))
	steps.Category = models.CategoryDessert
	steps.CookingSteps = "Melt the CHOCOLATE over low heat."
	require.NoError(t, db.Save(steps).Error)

	// Right text, wrong category.
	savory := testhelpers.CreateTestRecipe(t, db, user.ID, "Chocolate Chili", base.Add(2*time.Hour))
	savory.Category = models.CategoryMainCourse
	require.NoError(t, db.Save(savory).Error)

	// Right category, no match.
	testhelpers.CreateTestRecipe(t, db, user.ID, "Lemon Tart", base.Add(3*time.Hour))

	recipes, err := svc.List(context.Background(), types.ListFilters{
		Category: models.CategoryDessert,
		Search:   "choc",
	}, nil)
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	// Newest first among the matches.
	assert.Equal(t, "Mystery Pudding", recipes[0].Title)
	assert.Equal(t, "Chocolate Cake", recipes[1].Title)
}

func TestListCategoryAllMeansNoFilter(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	user, _ := testhelpers.CreateTestUserAndToken(t, db, auth)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	testhelpers.CreateTestRecipe(t, db, user.ID, "one", base)
	testhelpers.CreateTestRecipe(t, db, user.ID, "two", base.Add(time.Minute))

	recipes, err := svc.List(context.Background(), types.ListFilters{Category: "all"}, nil)
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
}

func TestListAuthorFilter(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	alice, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	bob, _ := testhelpers.CreateTestUserAndToken(t, db, auth)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	testhelpers.CreateTestRecipe(t, db, alice.ID, "alice's", base)
	testhelpers.CreateTestRecipe(t, db, bob.ID, "bob's", base.Add(time.Minute))

	recipes, err := svc.List(context.Background(), types.ListFilters{AuthorID: alice.ID.String()}, nil)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "alice's", recipes[0].Title)
	assert.Equal(t, alice.ID, recipes[0].UserID)
}

func TestListAnonymousFlagsFalse(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	user, _ := testhelpers.CreateTestUserAndToken(t, db, auth)

	recipe := testhelpers.CreateTestRecipe(t, db, user.ID, "liked by someone", time.Now())
	require.NoError(t, db.Create(&models.RecipeLike{RecipeID: recipe.ID, UserID: user.ID}).Error)
	require.NoError(t, db.Create(&models.RecipeFavorite{RecipeID: recipe.ID, UserID: user.ID}).Error)

	recipes, err := svc.List(context.Background(), types.ListFilters{}, nil)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.False(t, recipes[0].IsLiked)
	assert.False(t, recipes[0].IsFavorited)
}

func TestListAnnotationMatchesMembershipRows(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	owner, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	viewer, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	other, _ := testhelpers.CreateTestUserAndToken(t, db, auth)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	liked := testhelpers.CreateTestRecipe(t, db, owner.ID, "liked", base)
	favorited := testhelpers.CreateTestRecipe(t, db, owner.ID, "favorited", base.Add(time.Minute))
	both := testhelpers.CreateTestRecipe(t, db, owner.ID, "both", base.Add(2*time.Minute))
	neither := testhelpers.CreateTestRecipe(t, db, owner.ID, "neither", base.Add(3*time.Minute))

	for _, id := range []uuid.UUID{liked.ID, both.ID} {
		require.NoError(t, db.Create(&models.RecipeLike{RecipeID: id, UserID: viewer.ID}).Error)
	}
	for _, id := range []uuid.UUID{favorited.ID, both.ID} {
		require.NoError(t, db.Create(&models.RecipeFavorite{RecipeID: id, UserID: viewer.ID}).Error)
	}
	// Another user's rows must not leak into the viewer's flags.
	require.NoError(t, db.Create(&models.RecipeLike{RecipeID: neither.ID, UserID: other.ID}).Error)

	recipes, err := svc.List(context.Background(), types.ListFilters{}, &viewer.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 4)

	byTitle := make(map[string]types.AnnotatedRecipe)
	for _, r := range recipes {
		byTitle[r.Title] = r
	}

	assert.True(t, byTitle["liked"].IsLiked)
	assert.False(t, byTitle["liked"].IsFavorited)
	assert.False(t, byTitle["favorited"].IsLiked)
	assert.True(t, byTitle["favorited"].IsFavorited)
	assert.True(t, byTitle["both"].IsLiked)
	assert.True(t, byTitle["both"].IsFavorited)
	assert.False(t, byTitle["neither"].IsLiked)
	assert.False(t, byTitle["neither"].IsFavorited)
}

func TestListAttachesAuthorProfile(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	user, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	testhelpers.CreateTestRecipe(t, db, user.ID, "with author", time.Now())

	recipes, err := svc.List(context.Background(), types.ListFilters{}, nil)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	require.NotNil(t, recipes[0].Author)
	assert.Equal(t, user.ID, recipes[0].Author.ID)
}

func TestCreateAssignsOwnerAndTimestamps(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	user, _ := testhelpers.CreateTestUserAndToken(t, db, auth)

	created, err := svc.Create(context.Background(), user.ID, &types.CreateRecipeRequest{
		Title:        "Fresh Pasta",
		Ingredients:  []string{"flour", "eggs"},
		CookingSteps: "Knead, rest, roll, cut.",
		Category:     models.CategoryMainCourse,
		Servings:     4,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, user.ID, created.UserID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())

	fetched, err := svc.Get(context.Background(), created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.UserID)
	assert.Equal(t, "Fresh Pasta", fetched.Title)
}

func TestUpdatePartialFieldsKeepsOwner(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	user, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	recipe := testhelpers.CreateTestRecipe(t, db, user.ID, "before", time.Now())

	newTitle := "after"
	newServings := 6
	updated, err := svc.Update(context.Background(), recipe.ID, user.ID, &types.UpdateRecipeRequest{
		Title:    &newTitle,
		Servings: &newServings,
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, 6, updated.Servings)
	// Untouched fields survive a partial update.
	assert.Equal(t, recipe.CookingSteps, updated.CookingSteps)
	assert.Equal(t, user.ID, updated.UserID)
}

func TestUpdateByNonOwnerFails(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	owner, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	intruder, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	recipe := testhelpers.CreateTestRecipe(t, db, owner.ID, "mine", time.Now())

	newTitle := "stolen"
	_, err := svc.Update(context.Background(), recipe.ID, intruder.ID, &types.UpdateRecipeRequest{Title: &newTitle})
	assert.ErrorIs(t, err, service.ErrNotAuthorized)

	var unchanged models.Recipe
	require.NoError(t, db.First(&unchanged, "id = ?", recipe.ID).Error)
	assert.Equal(t, "mine", unchanged.Title)
}

func TestDeleteByNonOwnerLeavesRow(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	owner, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	intruder, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	recipe := testhelpers.CreateTestRecipe(t, db, owner.ID, "keep me", time.Now())

	err := svc.Delete(context.Background(), recipe.ID, intruder.ID)
	assert.ErrorIs(t, err, service.ErrNotAuthorized)

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteRemovesMembershipRows(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	owner, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	fan, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	recipe := testhelpers.CreateTestRecipe(t, db, owner.ID, "doomed", time.Now())

	require.NoError(t, db.Create(&models.RecipeLike{RecipeID: recipe.ID, UserID: fan.ID}).Error)
	require.NoError(t, db.Create(&models.RecipeFavorite{RecipeID: recipe.ID, UserID: fan.ID}).Error)

	require.NoError(t, svc.Delete(context.Background(), recipe.ID, owner.ID))

	var likes, favorites int64
	require.NoError(t, db.Model(&models.RecipeLike{}).Where("recipe_id = ?", recipe.ID).Count(&likes).Error)
	require.NoError(t, db.Model(&models.RecipeFavorite{}).Where("recipe_id = ?", recipe.ID).Count(&favorites).Error)
	assert.Zero(t, likes)
	assert.Zero(t, favorites)

	_, err := svc.Get(context.Background(), recipe.ID, nil)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestToggleLikeIsItsOwnInverse(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	owner, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	fan, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	recipe := testhelpers.CreateTestRecipe(t, db, owner.ID, "toggle me", time.Now())

	first, err := svc.ToggleLike(context.Background(), recipe.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, first.Active)
	assert.EqualValues(t, 1, first.LikesCount)

	second, err := svc.ToggleLike(context.Background(), recipe.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, second.Active)
	assert.EqualValues(t, 0, second.LikesCount)

	var rows int64
	require.NoError(t, db.Model(&models.RecipeLike{}).
		Where("recipe_id = ? AND user_id = ?", recipe.ID, fan.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestToggleFavoriteIsItsOwnInverse(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	owner, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	fan, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	recipe := testhelpers.CreateTestRecipe(t, db, owner.ID, "bookmark me", time.Now())

	first, err := svc.ToggleFavorite(context.Background(), recipe.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, first.Active)

	second, err := svc.ToggleFavorite(context.Background(), recipe.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, second.Active)

	var rows int64
	require.NoError(t, db.Model(&models.RecipeFavorite{}).
		Where("recipe_id = ? AND user_id = ?", recipe.ID, fan.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestToggleUnknownRecipeIsNoOp(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	fan, _ := testhelpers.CreateTestUserAndToken(t, db, auth)

	result, err := svc.ToggleLike(context.Background(), uuid.New(), fan.ID)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.False(t, result.Active)

	var rows int64
	require.NoError(t, db.Model(&models.RecipeLike{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestGetDetailAnonymousWithLikes(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	owner, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	recipe := testhelpers.CreateTestRecipe(t, db, owner.ID, "popular", time.Now())

	for i := 0; i < 3; i++ {
		fan, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
		require.NoError(t, db.Create(&models.RecipeLike{RecipeID: recipe.ID, UserID: fan.ID}).Error)
	}

	detail, err := svc.Get(context.Background(), recipe.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, detail.LikesCount)
	assert.False(t, detail.IsLiked)
	assert.False(t, detail.IsFavorited)
}

func TestGetDetailViewerFlags(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	owner, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	viewer, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	recipe := testhelpers.CreateTestRecipe(t, db, owner.ID, "seen", time.Now())

	require.NoError(t, db.Create(&models.RecipeLike{RecipeID: recipe.ID, UserID: viewer.ID}).Error)

	detail, err := svc.Get(context.Background(), recipe.ID, &viewer.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsLiked)
	assert.False(t, detail.IsFavorited)
	assert.EqualValues(t, 1, detail.LikesCount)
}

func TestGetDetailIncludesAuthorBio(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	owner, _ := testhelpers.CreateTestUserAndToken(t, db, auth)

	require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", owner.ID).
		Update("bio", "I cook things.").Error)
	recipe := testhelpers.CreateTestRecipe(t, db, owner.ID, "authored", time.Now())

	detail, err := svc.Get(context.Background(), recipe.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, detail.Author)
	assert.Equal(t, "I cook things.", detail.Author.Bio)
}

func TestGetUnknownRecipeNotFound(t *testing.T) {
	_, svc, _ := setupRecipeTest(t)

	_, err := svc.Get(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestGetDetailDegradesWhenMembershipTablesGone(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	owner, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	viewer, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	recipe := testhelpers.CreateTestRecipe(t, db, owner.ID, "resilient", time.Now())

	require.NoError(t, db.Migrator().DropTable(&models.RecipeLike{}))
	require.NoError(t, db.Migrator().DropTable(&models.RecipeFavorite{}))

	detail, err := svc.Get(context.Background(), recipe.ID, &viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, detail.ID)
	assert.Equal(t, "resilient", detail.Title)
	assert.EqualValues(t, 0, detail.LikesCount)
	assert.False(t, detail.IsLiked)
	assert.False(t, detail.IsFavorited)
}

func TestGetDetailOmitsMissingAuthor(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	owner, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	recipe := testhelpers.CreateTestRecipe(t, db, owner.ID, "orphaned", time.Now())

	require.NoError(t, db.Unscoped().Delete(&models.Profile{}, "id = ?", owner.ID).Error)

	detail, err := svc.Get(context.Background(), recipe.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, detail.Author)
}

func TestListFavoritesNewestFavoriteFirst(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	owner, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	fan, _ := testhelpers.CreateTestUserAndToken(t, db, auth)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first := testhelpers.CreateTestRecipe(t, db, owner.ID, "favorited first", base)
	second := testhelpers.CreateTestRecipe(t, db, owner.ID, "favorited second", base.Add(time.Hour))
	testhelpers.CreateTestRecipe(t, db, owner.ID, "never favorited", base.Add(2*time.Hour))

	require.NoError(t, db.Create(&models.RecipeFavorite{
		RecipeID: first.ID, UserID: fan.ID, CreatedAt: base,
	}).Error)
	require.NoError(t, db.Create(&models.RecipeFavorite{
		RecipeID: second.ID, UserID: fan.ID, CreatedAt: base.Add(time.Minute),
	}).Error)

	favorites, err := svc.ListFavorites(context.Background(), fan.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 2)

	assert.Equal(t, "favorited second", favorites[0].Title)
	assert.Equal(t, "favorited first", favorites[1].Title)
	for _, f := range favorites {
		assert.True(t, f.IsFavorited)
		require.NotNil(t, f.Author)
	}
}

func TestListFavoritesAnnotatesLikes(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	owner, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	fan, _ := testhelpers.CreateTestUserAndToken(t, db, auth)
	other, _ := testhelpers.CreateTestUserAndToken(t, db, auth)

	recipe := testhelpers.CreateTestRecipe(t, db, owner.ID, "loved", time.Now())
	require.NoError(t, db.Create(&models.RecipeFavorite{RecipeID: recipe.ID, UserID: fan.ID}).Error)
	require.NoError(t, db.Create(&models.RecipeLike{RecipeID: recipe.ID, UserID: fan.ID}).Error)
	// Another user's like must not leak into the fan's annotation.
	require.NoError(t, db.Create(&models.RecipeFavorite{RecipeID: recipe.ID, UserID: other.ID}).Error)

	favorites, err := svc.ListFavorites(context.Background(), fan.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.True(t, favorites[0].IsLiked)

	otherFavorites, err := svc.ListFavorites(context.Background(), other.ID)
	require.NoError(t, err)
	require.Len(t, otherFavorites, 1)
	assert.False(t, otherFavorites[0].IsLiked)
}

func TestListFavoritesEmptyForNewUser(t *testing.T) {
	db, svc, auth := setupRecipeTest(t)
	user, _ := testhelpers.CreateTestUserAndToken(t, db, auth)

	favorites, err := svc.ListFavorites(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}
