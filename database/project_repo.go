package database

import (
	"gorm.io/gorm"

	"github.com/akshay-builds/techkart/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects, newest first, with their images
func (r *ProjectRepo) FindAll() ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Preload("Images").Order("created_at desc").Find(&projects).Error
	return projects, err
}

// FindByCategory returns the projects of one category, newest first
func (r *ProjectRepo) FindByCategory(categoryID uint) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Preload("Images").
		Where("tech_category_id = ?", categoryID).
		Order("created_at desc").
		Find(&projects).Error
	return projects, err
}

// FindByID returns a project with its images, or gorm.ErrRecordNotFound.
func (r *ProjectRepo) FindByID(id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Images").First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// Update updates an existing project in the database
func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// DeleteWithImages removes a project and its image rows in one
// transaction. The underlying files are the caller's concern.
func (r *ProjectRepo) DeleteWithImages(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}

// Count returns the total number of projects
func (r *ProjectRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Count(&count).Error
	return count, err
}
