package dto

import (
	"encoding/json"
	"time"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/ds"
)

// ============ Общие структуры ============

// Response - единый конверт всех ответов API.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationErrorData - data для ответа 400 с ошибками полей.
type ValidationErrorData struct {
	Fields []apperr.FieldError `json:"fields"`
}

type ListData[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func NewList[T any](items []T) ListData[T] {
	if items == nil {
		items = []T{}
	}
	return ListData[T]{Items: items, Total: len(items)}
}

// ============ Аутентификация ============

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Password *string `json:"password" binding:"omitempty,min=6,max=72"`
}

type UserResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func NewUserResponse(u *ds.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ============ Тарифы и подписки ============

type CreatePlanRequest struct {
	Name         string          `json:"name" binding:"required,max=100"`
	Price        float64         `json:"price" binding:"gte=0"`
	Currency     string          `json:"currency" binding:"omitempty,len=3"`
	DurationDays int             `json:"duration_days" binding:"gte=0"`
	MaxProjects  *int            `json:"max_projects" binding:"omitempty,gte=0"`
	MaxSpecs     *int            `json:"max_specs" binding:"omitempty,gte=0"`
	Features     json.RawMessage `json:"features" swaggertype:"object"`
}

type PlanResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Price        float64         `json:"price"`
	Currency     string          `json:"currency"`
	DurationDays int             `json:"duration_days"`
	MaxProjects  *int            `json:"max_projects"`
	MaxSpecs     *int            `json:"max_specs"`
	Features     json.RawMessage `json:"features,omitempty" swaggertype:"object"`
}

func NewPlanResponse(p *ds.Plan) PlanResponse {
	resp := PlanResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		Currency:     p.Currency,
		DurationDays: p.DurationDays,
		MaxProjects:  p.MaxProjects,
		MaxSpecs:     p.MaxSpecs,
	}
	if len(p.Features) > 0 {
		resp.Features = json.RawMessage(p.Features)
	}
	return resp
}

type SubscribeRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

type SubscriptionResponse struct {
	ID                uint         `json:"id"`
	Status            string       `json:"status"`
	Plan              PlanResponse `json:"plan"`
	RemainingProjects *int         `json:"remaining_projects"`
	RemainingSpecs    *int         `json:"remaining_specs"`
	StartsAt          time.Time    `json:"starts_at"`
	ExpiresAt         *time.Time   `json:"expires_at,omitempty"`
}

func NewSubscriptionResponse(s *ds.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:                s.ID,
		Status:            s.Status,
		Plan:              NewPlanResponse(&s.Plan),
		RemainingProjects: s.RemainingProjects,
		RemainingSpecs:    s.RemainingSpecs,
		StartsAt:          s.StartsAt,
		ExpiresAt:         s.ExpiresAt,
	}
}

// ============ Проекты ============

type ProjectRequest struct {
	ProjectCode string `json:"project_code" binding:"required,pipecode,max=50"`
	Name        string `json:"name" binding:"required,max=200"`
	Company     string `json:"company" binding:"max=200"`
	Client      string `json:"client" binding:"max=200"`
	Location    string `json:"location" binding:"max=200"`
}

type ProjectResponse struct {
	ID          uint      `json:"id"`
	ProjectCode string    `json:"project_code"`
	Name        string    `json:"name"`
	Company     string    `json:"company"`
	Client      string    `json:"client"`
	Location    string    `json:"location"`
	HasLogo     bool      `json:"has_logo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewProjectResponse(p *ds.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		ProjectCode: p.ProjectCode,
		Name:        p.Name,
		Company:     p.Company,
		Client:      p.Client,
		Location:    p.Location,
		HasLogo:     p.LogoObject != nil && *p.LogoObject != "",
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type LogoResponse struct {
	URL string `json:"url"`
}

// ============ Спецификации ============

type SpecRequest struct {
	SpecName           string  `json:"spec_name" binding:"required,pipecode,max=50"`
	RatingCode         string  `json:"rating_code" binding:"omitempty,pipecode,max=20"`
	BaseMaterial       string  `json:"base_material" binding:"max=100"`
	CorrosionAllowance float64 `json:"corrosion_allowance" binding:"gte=0"`
	Description        string  `json:"description"`
}

type SpecResponse struct {
	ID                 uint      `json:"id"`
	ProjectID          uint      `json:"project_id"`
	SpecName           string    `json:"spec_name"`
	RatingCode         string    `json:"rating_code"`
	BaseMaterial       string    `json:"base_material"`
	CorrosionAllowance float64   `json:"corrosion_allowance"`
	Description        string    `json:"description"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewSpecResponse(s *ds.Spec) SpecResponse {
	return SpecResponse{
		ID:                 s.ID,
		ProjectID:          s.ProjectID,
		SpecName:           s.SpecName,
		RatingCode:         s.RatingCode,
		BaseMaterial:       s.BaseMaterial,
		CorrosionAllowance: s.CorrosionAllowance,
		Description:        s.Description,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// ============ Справочники ============

// Конвертер для списков: dto.Map(projects, dto.NewProjectResponse) и т.п.
func Map[T any, R any](items []T, convert func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = convert(&items[i])
	}
	return out
}
