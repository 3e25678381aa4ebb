package catalog

import "context"

// Store - хранилище одного домена каталога. Методы для записей проекта видят
// только неудалённые записи, кроме Deleted. Отсутствующая запись -
// apperr.ErrNotFoundOrDenied.
type Store[A any] interface {
	Defaults(ctx context.Context) ([]Entry[A], error)
	Overrides(ctx context.Context, projectID uint) ([]Entry[A], error)
	Deleted(ctx context.Context, projectID uint) ([]Entry[A], error)
	Override(ctx context.Context, projectID, id uint) (Entry[A], error)
	CreateOverride(ctx context.Context, projectID uint, attrs A) (Entry[A], error)
	UpdateOverride(ctx context.Context, projectID, id uint, attrs A) (Entry[A], error)
	DeleteOverride(ctx context.Context, projectID, id uint) error
}
