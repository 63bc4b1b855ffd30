package models

type User struct {
	Base
	Username          string   `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email             string   `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	FirstName         string   `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName          string   `gorm:"type:varchar(50);not null" json:"last_name"`
	PasswordHash      string   `gorm:"type:varchar(128);not null" json:"-"`
	Role              UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsVerified        bool     `gorm:"not null;default:false" json:"is_verified"`
	VerificationToken *string  `gorm:"type:varchar(36)" json:"-"`

	// Relations
	Tasks []Task `gorm:"many2many:task_users" json:"-"`
}
