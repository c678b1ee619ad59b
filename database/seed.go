package database

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/akshay-builds/techkart/auth"
	"github.com/akshay-builds/techkart/models"
)

// defaultCategories is the fixed list created on first run. Existing rows
// are left untouched.
var defaultCategories = []models.TechCategory{
	{Name: "Python", Description: "APIs, data apps, automation"},
	{Name: "Java", Description: "Enterprise apps, Android backends"},
	{Name: "Web Development", Description: "Full-stack websites and PWAs"},
	{Name: "C", Description: "Embedded, systems programming"},
	{Name: "C++", Description: "Performance apps, games"},
	{Name: models.OtherCategoryName, Description: "Describe your requirement"},
}

// Seed runs once at process startup, after Migrate. It ensures the
// administrator account and the default category list exist. Concurrent
// first-time startups may race on the inserts; the unique indexes make the
// loser fail with gorm.ErrDuplicatedKey, which is treated as success.
func Seed(db *gorm.DB, adminEmail, adminPassword string) error {
	email := auth.NormalizeEmail(adminEmail)

	var admin models.User
	err := db.Where("email = ?", email).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, hashErr := auth.HashPassword(adminPassword)
		if hashErr != nil {
			return hashErr
		}
		admin = models.User{
			Name:         "Admin",
			Email:        email,
			PasswordHash: hash,
			IsAdmin:      true,
		}
		if err := db.Create(&admin).Error; err != nil {
			// A racing first start may have inserted it in the meantime.
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
		} else {
			log.Info().Str("email", email).Msg("seeded default admin account")
		}
	} else if err != nil {
		return err
	}

	for _, category := range defaultCategories {
		var existing models.TechCategory
		err := db.Where("name = ?", category.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		category.IsActive = true
		if err := db.Create(&category).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}

	return nil
}
