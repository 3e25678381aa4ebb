package ds

import (
	"time"

	"pipespec/internal/app/role"
)

type User struct {
	ID          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"type:varchar(100);not null"`
	Email       string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password    string     `gorm:"type:varchar(255);not null"`
	Role        role.Role  `gorm:"type:varchar(20);not null;default:'user'"`
	IsDeleted   bool       `gorm:"type:boolean;default:false;not null"`
	LastLoginAt *time.Time `gorm:"default:null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
