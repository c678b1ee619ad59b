package database

import (
	"gorm.io/gorm"

	"github.com/akshay-builds/techkart/models"
)

type InquiryRepo struct {
	db *gorm.DB
}

func NewInquiryRepo(db *gorm.DB) *InquiryRepo {
	return &InquiryRepo{db}
}

// Add inserts a new inquiry into the database
func (r *InquiryRepo) Add(inquiry *models.Inquiry) error {
	return r.db.Create(inquiry).Error
}

// FindAll returns every inquiry, newest first, with the submitting user
func (r *InquiryRepo) FindAll() ([]*models.Inquiry, error) {
	var inquiries []*models.Inquiry
	err := r.db.Preload("User").Order("created_at desc").Find(&inquiries).Error
	return inquiries, err
}

// Count returns the total number of inquiries
func (r *InquiryRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Inquiry{}).Count(&count).Error
	return count, err
}
