package model

import "time"

// Recipe describes a dish with its ordered ingredients and steps.
type Recipe struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	ImageURL    *string   `json:"image_url" gorm:"size:255"`
	Ingredients Entries   `json:"ingredients" gorm:"not null"`
	Steps       Entries   `json:"steps" gorm:"not null"`
	Category    *string   `json:"category" gorm:"size:255"`
	CreatedBy   *string   `json:"created_by" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName pins the table name.
func (Recipe) TableName() string {
	return "recipes"
}
