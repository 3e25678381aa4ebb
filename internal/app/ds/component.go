package ds

// Component - глобальный тип компонента (труба, фланец, отвод, ...).
type Component struct {
	ID            uint   `gorm:"primaryKey" json:"id" yaml:"-"`
	Name          string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" yaml:"name"`
	ComponentType string `gorm:"type:varchar(50);not null" json:"component_type" yaml:"component_type"`
}
