package types

// RegisterRequest is the payload for account creation. The profile
// fields are optional; a profile row is created either way.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
// The server assigns id, owner and timestamps.
type CreateRecipeRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients" binding:"required,min=1,dive,required"`
	CookingSteps string   `json:"cooking_steps" binding:"required"`
	Category     string   `json:"category" binding:"required,oneof=vegetarian non-vegetarian dessert appetizer main-course beverage"`
	PrepTime     int      `json:"prep_time" binding:"min=0"`
	CookTime     int      `json:"cook_time" binding:"min=0"`
	Servings     int      `json:"servings" binding:"required,min=1"`
	Difficulty   string   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	ImageURL     string   `json:"image_url"`
}

// UpdateRecipeRequest carries a partial update. Nil fields are left
// untouched; the owner reference can never be changed through it.
type UpdateRecipeRequest struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Ingredients  *[]string `json:"ingredients,omitempty" binding:"omitempty,min=1,dive,required"`
	CookingSteps *string   `json:"cooking_steps,omitempty"`
	Category     *string   `json:"category,omitempty" binding:"omitempty,oneof=vegetarian non-vegetarian dessert appetizer main-course beverage"`
	PrepTime     *int      `json:"prep_time,omitempty" binding:"omitempty,min=0"`
	CookTime     *int      `json:"cook_time,omitempty" binding:"omitempty,min=0"`
	Servings     *int      `json:"servings,omitempty" binding:"omitempty,min=1"`
	Difficulty   *string   `json:"difficulty,omitempty" binding:"omitempty,oneof=easy medium hard"`
	ImageURL     *string   `json:"image_url,omitempty"`
}

// UpdateProfileRequest carries a partial profile update.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}
