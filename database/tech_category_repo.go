package database

import (
	"gorm.io/gorm"

	"github.com/akshay-builds/techkart/models"
)

type TechCategoryRepo struct {
	db *gorm.DB
}

func NewTechCategoryRepo(db *gorm.DB) *TechCategoryRepo {
	return &TechCategoryRepo{db}
}

// FindAll returns every category ordered by name ascending
func (r *TechCategoryRepo) FindAll() ([]*models.TechCategory, error) {
	var categories []*models.TechCategory
	err := r.db.Order("name asc").Find(&categories).Error
	return categories, err
}

// FindActive returns the categories shown to visitors, ordered by name ascending
func (r *TechCategoryRepo) FindActive() ([]*models.TechCategory, error) {
	var categories []*models.TechCategory
	err := r.db.Where("is_active = ?", true).Order("name asc").Find(&categories).Error
	return categories, err
}

// FindByID returns a category by its ID, or gorm.ErrRecordNotFound.
func (r *TechCategoryRepo) FindByID(id uint) (*models.TechCategory, error) {
	var category models.TechCategory
	err := r.db.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName returns a category by its exact name.
func (r *TechCategoryRepo) FindByName(name string) (*models.TechCategory, error) {
	var category models.TechCategory
	err := r.db.Where("name = ?", name).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Add inserts a new category into the database
func (r *TechCategoryRepo) Add(category *models.TechCategory) error {
	return r.db.Create(category).Error
}

// Update persists changes to an existing category
func (r *TechCategoryRepo) Update(category *models.TechCategory) error {
	return r.db.Save(category).Error
}
