package models

import "strings"

// OtherCategoryName is the sentinel category: browsing it redirects to the
// free-form inquiry flow instead of a project listing.
const OtherCategoryName = "Other"

// TechCategory is a named technology grouping under which example projects
// are filed.
type TechCategory struct {
	ID          uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	Description string    `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	IsActive    bool      `json:"is_active" db:"is_active" gorm:"not null"`
	Projects    []Project `json:"projects,omitempty" gorm:"foreignKey:TechCategoryID;references:ID"`
}

// IsOther reports whether this category is the inquiry-redirect sentinel.
func (c TechCategory) IsOther() bool {
	return strings.EqualFold(c.Name, OtherCategoryName)
}
