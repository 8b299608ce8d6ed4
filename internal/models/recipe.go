package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe categories accepted by the API.
const (
	CategoryVegetarian    = "vegetarian"
	CategoryNonVegetarian = "non-vegetarian"
	CategoryDessert       = "dessert"
	CategoryAppetizer     = "appetizer"
	CategoryMainCourse    = "main-course"
	CategoryBeverage      = "beverage"
)

// Difficulty levels. A recipe may also leave difficulty unset.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

type Recipe struct {
	ID           uuid.UUID        `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt    time.Time        `gorm:"index:idx_recipes_created_at,sort:desc" json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Description  string           `gorm:"type:text" json:"description"`
	Ingredients  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	CookingSteps string           `gorm:"type:text;not null" json:"cooking_steps"`
	Category     string           `gorm:"size:50;not null;index" json:"category"`
	PrepTime     int              `gorm:"not null;default:0" json:"prep_time"`
	CookTime     int              `gorm:"not null;default:0" json:"cook_time"`
	Servings     int              `gorm:"not null;default:1" json:"servings"`
	Difficulty   string           `gorm:"size:20" json:"difficulty,omitempty"`
	ImageURL     string           `gorm:"size:255" json:"image_url,omitempty"`
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
