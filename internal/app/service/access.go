package service

import (
	"context"
	"errors"
	"fmt"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/ds"
)

// Access проверяет, что проект принадлежит пользователю и не удалён.
type Access struct {
	store Store
}

func NewAccess(store Store) *Access {
	return &Access{store: store}
}

// AuthorizeProjectAccess возвращает проект, если он принадлежит userID и не
// удалён. Несуществующий и чужой проект неразличимы для вызывающего.
func (a *Access) AuthorizeProjectAccess(ctx context.Context, projectID, userID uint) (*ds.Project, error) {
	project, err := a.store.ProjectByID(ctx, projectID)
	if err != nil {
		return nil, projectErr(projectID, err)
	}
	if !owns(project, userID) {
		return nil, projectErr(projectID, apperr.ErrNotFoundOrDenied)
	}
	return project, nil
}

// AuthorizeProjectCode - то же по коду проекта владельца.
func (a *Access) AuthorizeProjectCode(ctx context.Context, code string, userID uint) (*ds.Project, error) {
	project, err := a.store.ProjectByCode(ctx, userID, code)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", code, err)
	}
	if !owns(project, userID) {
		return nil, fmt.Errorf("project %q: %w", code, apperr.ErrNotFoundOrDenied)
	}
	return project, nil
}

func owns(p *ds.Project, userID uint) bool {
	return p.UserID == userID && !p.IsDeleted
}

func projectErr(id uint, err error) error {
	if errors.Is(err, apperr.ErrNotFoundOrDenied) {
		// одно и то же сообщение для чужого и отсутствующего проекта
		return fmt.Errorf("project %d: %w", id, apperr.ErrNotFoundOrDenied)
	}
	return fmt.Errorf("project %d: %w", id, err)
}
