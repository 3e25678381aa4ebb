package ds

import "time"

type Project struct {
	ID          uint    `gorm:"primaryKey"`
	UserID      uint    `gorm:"not null;uniqueIndex:idx_project_owner_code"`
	ProjectCode string  `gorm:"type:varchar(50);not null;uniqueIndex:idx_project_owner_code"`
	Name        string  `gorm:"type:varchar(200);not null"`
	Company     string  `gorm:"type:varchar(200)"`
	Client      string  `gorm:"type:varchar(200)"`
	Location    string  `gorm:"type:varchar(200)"`
	LogoObject  *string `gorm:"type:varchar(255)"`
	IsDeleted   bool    `gorm:"type:boolean;default:false;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner User `gorm:"foreignKey:UserID"`
}
