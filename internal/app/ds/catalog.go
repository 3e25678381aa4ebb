package ds

import (
	"strings"
	"time"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/catalog"

	"gorm.io/gorm"
)

// Атрибуты каталогов. У каждого домена есть таблица по умолчанию (Default*)
// и таблица проекта с меткой удаления, обе встраивают одни и те же атрибуты.

// PairKey - натуральный ключ из двух кодов (sch1/sch2, size1/size2).
type PairKey struct {
	First  string
	Second string
}

type ComponentDescriptionKey struct {
	ComponentID uint
	Code        string
}

// ============ Рейтинги ============

type RatingAttrs struct {
	RatingCode  string `gorm:"column:rating_code;type:varchar(20);not null" json:"rating_code" yaml:"rating_code" binding:"required,pipecode,max=20"`
	RatingValue string `gorm:"column:rating_value;type:varchar(50)" json:"rating_value" yaml:"rating_value" binding:"max=50"`
	Description string `gorm:"column:description;type:text" json:"description" yaml:"description"`
}

func (a RatingAttrs) Key() string { return a.RatingCode }

func (a RatingAttrs) KeyFields() map[string]any {
	return map[string]any{"rating_code": a.RatingCode}
}

func (a RatingAttrs) Validate() error {
	return required("rating_code", a.RatingCode)
}

type DefaultRating struct {
	ID          uint `gorm:"primaryKey"`
	RatingAttrs `gorm:"embedded"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Rating struct {
	ID          uint `gorm:"primaryKey"`
	ProjectID   uint `gorm:"not null;index"`
	RatingAttrs `gorm:"embedded"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	Project Project `gorm:"foreignKey:ProjectID"`
}

// ============ Schedules ============

type ScheduleAttrs struct {
	Sch1         string `gorm:"column:sch1;type:varchar(20);not null" json:"sch1" yaml:"sch1" binding:"required,max=20"`
	Sch2         string `gorm:"column:sch2;type:varchar(20);not null;default:''" json:"sch2" yaml:"sch2" binding:"max=20"`
	Code         string `gorm:"column:code;type:varchar(20)" json:"code" yaml:"code" binding:"omitempty,pipecode,max=20"`
	ScheduleDesc string `gorm:"column:schedule_desc;type:varchar(100)" json:"schedule_desc" yaml:"schedule_desc" binding:"max=100"`
}

func (a ScheduleAttrs) Key() PairKey { return PairKey{First: a.Sch1, Second: a.Sch2} }

func (a ScheduleAttrs) KeyFields() map[string]any {
	return map[string]any{"sch1": a.Sch1, "sch2": a.Sch2}
}

func (a ScheduleAttrs) Validate() error {
	return required("sch1", a.Sch1)
}

type DefaultSchedule struct {
	ID            uint `gorm:"primaryKey"`
	ScheduleAttrs `gorm:"embedded"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Schedule struct {
	ID            uint `gorm:"primaryKey"`
	ProjectID     uint `gorm:"not null;index"`
	ScheduleAttrs `gorm:"embedded"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Project Project `gorm:"foreignKey:ProjectID"`
}

// ============ Размеры ============

type SizeAttrs struct {
	Size1 string  `gorm:"column:size1;type:varchar(20);not null" json:"size1" yaml:"size1" binding:"required,max=20"`
	Size2 string  `gorm:"column:size2;type:varchar(20);not null;default:''" json:"size2" yaml:"size2" binding:"max=20"`
	Code  string  `gorm:"column:code;type:varchar(20)" json:"code" yaml:"code" binding:"omitempty,pipecode,max=20"`
	CCode string  `gorm:"column:c_code;type:varchar(20)" json:"c_code" yaml:"c_code" binding:"max=20"`
	OD    float64 `gorm:"column:od;type:decimal(10,2);default:0" json:"od" yaml:"od" binding:"gte=0"`
}

func (a SizeAttrs) Key() PairKey { return PairKey{First: a.Size1, Second: a.Size2} }

func (a SizeAttrs) KeyFields() map[string]any {
	return map[string]any{"size1": a.Size1, "size2": a.Size2}
}

func (a SizeAttrs) Validate() error {
	if err := required("size1", a.Size1); err != nil {
		return err
	}
	if a.OD < 0 {
		return apperr.NewValidationError("od", "must not be negative")
	}
	return nil
}

type DefaultSize struct {
	ID        uint `gorm:"primaryKey"`
	SizeAttrs `gorm:"embedded"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Size struct {
	ID        uint `gorm:"primaryKey"`
	ProjectID uint `gorm:"not null;index"`
	SizeAttrs `gorm:"embedded"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Project Project `gorm:"foreignKey:ProjectID"`
}

// ============ Описания компонентов ============

type ComponentDescriptionAttrs struct {
	ComponentID     uint   `gorm:"column:component_id;not null;index" json:"component_id" yaml:"component_id" binding:"required"`
	Code            string `gorm:"column:code;type:varchar(30);not null" json:"code" yaml:"code" binding:"required,pipecode,max=30"`
	CCode           string `gorm:"column:c_code;type:varchar(30)" json:"c_code" yaml:"c_code" binding:"max=30"`
	ItemDescription string `gorm:"column:item_description;type:text" json:"item_description" yaml:"item_description"`
	ShortCode       string `gorm:"column:short_code;type:varchar(20)" json:"short_code" yaml:"short_code" binding:"max=20"`
	GType           string `gorm:"column:g_type;type:varchar(20)" json:"g_type" yaml:"g_type" binding:"max=20"`
	SType           string `gorm:"column:s_type;type:varchar(20)" json:"s_type" yaml:"s_type" binding:"max=20"`
	SKey            string `gorm:"column:skey;type:varchar(20)" json:"skey" yaml:"skey" binding:"max=20"`
}

func (a ComponentDescriptionAttrs) Key() ComponentDescriptionKey {
	return ComponentDescriptionKey{ComponentID: a.ComponentID, Code: a.Code}
}

func (a ComponentDescriptionAttrs) KeyFields() map[string]any {
	return map[string]any{"component_id": a.ComponentID, "code": a.Code}
}

func (a ComponentDescriptionAttrs) Validate() error {
	if a.ComponentID == 0 {
		return apperr.NewValidationError("component_id", "required")
	}
	return required("code", a.Code)
}

type DefaultComponentDescription struct {
	ID                        uint `gorm:"primaryKey"`
	ComponentDescriptionAttrs `gorm:"embedded"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

type ComponentDescription struct {
	ID                        uint `gorm:"primaryKey"`
	ProjectID                 uint `gorm:"not null;index"`
	ComponentDescriptionAttrs `gorm:"embedded"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
	DeletedAt                 gorm.DeletedAt `gorm:"index"`

	Project Project `gorm:"foreignKey:ProjectID"`
}

// ============ Строка <-> запись каталога ============

func (r *DefaultRating) CatalogEntry() catalog.Entry[RatingAttrs] {
	return defaultEntry(r.ID, r.RatingAttrs)
}

func (r *DefaultRating) SetAttrs(a RatingAttrs) { r.RatingAttrs = a }

func (r *Rating) CatalogEntry() catalog.Entry[RatingAttrs] {
	return projectEntry(r.ID, r.ProjectID, r.RatingAttrs)
}

func (r *Rating) SetAttrs(a RatingAttrs) { r.RatingAttrs = a }

func (r *Rating) SetProjectID(id uint) { r.ProjectID = id }

func (r *DefaultSchedule) CatalogEntry() catalog.Entry[ScheduleAttrs] {
	return defaultEntry(r.ID, r.ScheduleAttrs)
}

func (r *DefaultSchedule) SetAttrs(a ScheduleAttrs) { r.ScheduleAttrs = a }

func (r *Schedule) CatalogEntry() catalog.Entry[ScheduleAttrs] {
	return projectEntry(r.ID, r.ProjectID, r.ScheduleAttrs)
}

func (r *Schedule) SetAttrs(a ScheduleAttrs) { r.ScheduleAttrs = a }

func (r *Schedule) SetProjectID(id uint) { r.ProjectID = id }

func (r *DefaultSize) CatalogEntry() catalog.Entry[SizeAttrs] {
	return defaultEntry(r.ID, r.SizeAttrs)
}

func (r *DefaultSize) SetAttrs(a SizeAttrs) { r.SizeAttrs = a }

func (r *Size) CatalogEntry() catalog.Entry[SizeAttrs] {
	return projectEntry(r.ID, r.ProjectID, r.SizeAttrs)
}

func (r *Size) SetAttrs(a SizeAttrs) { r.SizeAttrs = a }

func (r *Size) SetProjectID(id uint) { r.ProjectID = id }

func (r *DefaultComponentDescription) CatalogEntry() catalog.Entry[ComponentDescriptionAttrs] {
	return defaultEntry(r.ID, r.ComponentDescriptionAttrs)
}

func (r *DefaultComponentDescription) SetAttrs(a ComponentDescriptionAttrs) {
	r.ComponentDescriptionAttrs = a
}

func (r *ComponentDescription) CatalogEntry() catalog.Entry[ComponentDescriptionAttrs] {
	return projectEntry(r.ID, r.ProjectID, r.ComponentDescriptionAttrs)
}

func (r *ComponentDescription) SetAttrs(a ComponentDescriptionAttrs) {
	r.ComponentDescriptionAttrs = a
}

func (r *ComponentDescription) SetProjectID(id uint) { r.ProjectID = id }

func defaultEntry[A any](id uint, a A) catalog.Entry[A] {
	return catalog.Entry[A]{ID: id, Scope: catalog.ScopeDefault, Attrs: a}
}

func projectEntry[A any](id, projectID uint, a A) catalog.Entry[A] {
	return catalog.Entry[A]{ID: id, Scope: catalog.ScopeProject, ProjectID: &projectID, Attrs: a}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.NewValidationError(field, "required")
	}
	return nil
}
