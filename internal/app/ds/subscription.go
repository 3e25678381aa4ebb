package ds

import "time"

const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// Счётчики подписки nullable: nil - без ограничений.
type Subscription struct {
	ID                uint       `gorm:"primaryKey"`
	UserID            uint       `gorm:"not null;index"`
	PlanID            uint       `gorm:"not null;index"`
	Status            string     `gorm:"type:varchar(20);not null;index"`
	RemainingProjects *int       `gorm:"default:null"`
	RemainingSpecs    *int       `gorm:"default:null"`
	StartsAt          time.Time  `gorm:"not null"`
	ExpiresAt         *time.Time `gorm:"default:null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Plan Plan `gorm:"foreignKey:PlanID"`
}
