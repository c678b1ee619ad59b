package models

// ProjectImage links a stored upload to its owning project. The image
// cannot outlive the project.
type ProjectImage struct {
	ID        uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Filename  string `json:"filename" db:"filename" gorm:"type:text;not null"`
	ProjectID uint   `json:"project_id" db:"project_id" gorm:"not null;index;constraint:OnDelete:CASCADE"`

	Project Project `json:"project,omitempty" gorm:"foreignKey:ProjectID;references:ID"`
}
