// Package service - сценарии приложения: пользователи, подписки, проекты,
// спецификации и каталоги проекта.
package service

import (
	"context"

	"pipespec/internal/app/catalog"
	"pipespec/internal/app/ds"
	"pipespec/internal/app/quota"
)

// TxRunner выполняет fn в одной транзакции. Вложенные вызовы переиспользуют
// транзакцию из ctx. Ошибка fn откатывает все изменения.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store - всё хранилище приложения.
//
// Поиск по id или натуральному ключу возвращает строку независимо от флага
// IsDeleted: решение о мягко удалённых записях принимает сервис. Отсутствие
// строки - apperr.ErrNotFoundOrDenied, нарушение уникальности -
// apperr.ErrDuplicateKey.
type Store interface {
	TxRunner
	quota.Store

	UserByID(ctx context.Context, id uint) (*ds.User, error)
	UserByEmail(ctx context.Context, email string) (*ds.User, error)
	CreateUser(ctx context.Context, user *ds.User) error
	SaveUser(ctx context.Context, user *ds.User) error

	ListPlans(ctx context.Context, onlyActive bool) ([]ds.Plan, error)
	PlanByID(ctx context.Context, id uint) (*ds.Plan, error)
	PlanByName(ctx context.Context, name string) (*ds.Plan, error)
	CreatePlan(ctx context.Context, plan *ds.Plan) error

	CreateSubscription(ctx context.Context, sub *ds.Subscription) error
	SetSubscriptionStatus(ctx context.Context, id uint, status string) error

	ProjectByID(ctx context.Context, id uint) (*ds.Project, error)
	ProjectByCode(ctx context.Context, userID uint, code string) (*ds.Project, error)
	ListProjects(ctx context.Context, userID uint) ([]ds.Project, error)
	CreateProject(ctx context.Context, project *ds.Project) error
	SaveProject(ctx context.Context, project *ds.Project) error

	SpecByID(ctx context.Context, id uint) (*ds.Spec, error)
	SpecByName(ctx context.Context, projectID uint, name string) (*ds.Spec, error)
	ListSpecs(ctx context.Context, projectID uint) ([]ds.Spec, error)
	CreateSpec(ctx context.Context, spec *ds.Spec) error
	SaveSpec(ctx context.Context, spec *ds.Spec) error

	ListComponents(ctx context.Context) ([]ds.Component, error)
	ComponentByID(ctx context.Context, id uint) (*ds.Component, error)

	Ratings() catalog.Store[ds.RatingAttrs]
	Schedules() catalog.Store[ds.ScheduleAttrs]
	Sizes() catalog.Store[ds.SizeAttrs]
	ComponentDescriptions() catalog.Store[ds.ComponentDescriptionAttrs]
}
