package model

import "time"

// User is the single profile tracked by a deployment.
type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"size:255"`
	Email           string    `json:"email" gorm:"size:255"`
	ProfileImageURL *string   `json:"profile_image_url" gorm:"size:255"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName pins the table name.
func (User) TableName() string {
	return "users"
}
