package models

// User represents a registered account. Only the bcrypt hash of the
// password is ever persisted.
type User struct {
	ID           uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name         string `json:"name" db:"name" gorm:"type:text;not null"`
	Email        string `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string `json:"-" db:"password_hash" gorm:"type:text;not null"`
	IsAdmin      bool   `json:"is_admin" db:"is_admin" gorm:"not null;default:false"`
}
