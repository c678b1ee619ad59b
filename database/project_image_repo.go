package database

import (
	"gorm.io/gorm"

	"github.com/akshay-builds/techkart/models"
)

type ProjectImageRepo struct {
	db *gorm.DB
}

func NewProjectImageRepo(db *gorm.DB) *ProjectImageRepo {
	return &ProjectImageRepo{db}
}

// FindByID returns an image row by its ID, or gorm.ErrRecordNotFound.
func (r *ProjectImageRepo) FindByID(id uint) (*models.ProjectImage, error) {
	var image models.ProjectImage
	err := r.db.First(&image, id).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// FindByProject returns all image rows linked to one project
func (r *ProjectImageRepo) FindByProject(projectID uint) ([]*models.ProjectImage, error) {
	var images []*models.ProjectImage
	err := r.db.Where("project_id = ?", projectID).Find(&images).Error
	return images, err
}

// Add inserts a new image row into the database
func (r *ProjectImageRepo) Add(image *models.ProjectImage) error {
	return r.db.Create(image).Error
}

// Delete removes an image row by id
func (r *ProjectImageRepo) Delete(id uint) error {
	return r.db.Delete(&models.ProjectImage{}, id).Error
}
