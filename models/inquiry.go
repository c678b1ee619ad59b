package models

import "time"

// Inquiry is a free-text custom project request. Both the owning user and
// the referenced category are optional so anonymous or general inquiries
// remain representable.
type Inquiry struct {
	ID             uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	UserID         *uint     `json:"user_id,omitempty" db:"user_id" gorm:"index"`
	TechCategoryID *uint     `json:"tech_category_id,omitempty" db:"tech_category_id"`
	Details        string    `json:"details" db:"details" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}
