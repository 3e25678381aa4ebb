package ds

import (
	"time"

	"gorm.io/datatypes"
)

// Лимиты тарифа nullable: nil - без ограничений.
type Plan struct {
	ID           uint           `gorm:"primaryKey"`
	Name         string         `gorm:"type:varchar(100);uniqueIndex;not null"`
	Price        float64        `gorm:"type:decimal(10,2);not null;default:0"`
	Currency     string         `gorm:"type:varchar(3);not null;default:'USD'"`
	DurationDays int            `gorm:"not null;default:0"` // 0 - бессрочно
	MaxProjects  *int           `gorm:"default:null"`
	MaxSpecs     *int           `gorm:"default:null"`
	Features     datatypes.JSON `gorm:"type:jsonb"`
	IsActive     bool           `gorm:"type:boolean;default:true;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
