package models

import "time"

// Project represents an example project shown under a tech category.
type Project struct {
	ID             uint           `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title          string         `json:"title" db:"title" gorm:"type:text;not null"`
	ShortDesc      string         `json:"short_desc" db:"short_desc" gorm:"type:text;not null;default:''"`
	LongDesc       string         `json:"long_desc" db:"long_desc" gorm:"type:text;not null;default:''"`
	PriceQuote     *int           `json:"price_quote,omitempty" db:"price_quote"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime"`
	TechCategoryID *uint          `json:"tech_category_id,omitempty" db:"tech_category_id" gorm:"index"`
	Images         []ProjectImage `json:"images,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}
