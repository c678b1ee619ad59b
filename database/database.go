package database

import (
	"gorm.io/gorm"

	"github.com/akshay-builds/techkart/models"
)

type Database struct {
	userRepo         *UserRepo
	techCategoryRepo *TechCategoryRepo
	projectRepo      *ProjectRepo
	projectImageRepo *ProjectImageRepo
	inquiryRepo      *InquiryRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:         NewUserRepo(db),
		techCategoryRepo: NewTechCategoryRepo(db),
		projectRepo:      NewProjectRepo(db),
		projectImageRepo: NewProjectImageRepo(db),
		inquiryRepo:      NewInquiryRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) TechCategoryRepo() *TechCategoryRepo {
	return d.techCategoryRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ProjectImageRepo() *ProjectImageRepo {
	return d.projectImageRepo
}

func (d Database) InquiryRepo() *InquiryRepo {
	return d.inquiryRepo
}

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.TechCategory{},
		&models.Project{},
		&models.ProjectImage{},
		&models.Inquiry{},
	)
}
