package ds

import "time"

// Spec - спецификация трубопроводных материалов проекта.
type Spec struct {
	ID                 uint    `gorm:"primaryKey"`
	ProjectID          uint    `gorm:"not null;uniqueIndex:idx_spec_project_name"`
	SpecName           string  `gorm:"type:varchar(50);not null;uniqueIndex:idx_spec_project_name"`
	RatingCode         string  `gorm:"type:varchar(20)"`
	BaseMaterial       string  `gorm:"type:varchar(100)"`
	CorrosionAllowance float64 `gorm:"type:decimal(6,2);default:0"`
	Description        string  `gorm:"type:text"`
	IsDeleted          bool    `gorm:"type:boolean;default:false;not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Project Project `gorm:"foreignKey:ProjectID"`
}
