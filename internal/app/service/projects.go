package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/ds"
	"pipespec/internal/app/quota"

	"github.com/sirupsen/logrus"
)

// ErrLogosDisabled - хранилище логотипов не настроено.
var ErrLogosDisabled = errors.New("logo storage is not configured")

// LogoStorage - объектное хранилище логотипов.
type LogoStorage interface {
	UploadLogo(ctx context.Context, projectID uint, filename string, r io.Reader, size int64) (string, error)
	DeleteObject(ctx context.Context, objectName string) error
	PresignedURL(ctx context.Context, objectName string) (string, error)
}

type Projects struct {
	store  Store
	access *Access
	guard  *quota.Guard
	logos  LogoStorage
	log    *logrus.Entry
}

type ProjectInput struct {
	ProjectCode string
	Name        string
	Company     string
	Client      string
	Location    string
}

func (in ProjectInput) validate() error {
	if strings.TrimSpace(in.ProjectCode) == "" {
		return apperr.NewValidationError("project_code", "required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return apperr.NewValidationError("name", "required")
	}
	return nil
}

func (in ProjectInput) apply(p *ds.Project) {
	p.ProjectCode = strings.TrimSpace(in.ProjectCode)
	p.Name = strings.TrimSpace(in.Name)
	p.Company = in.Company
	p.Client = in.Client
	p.Location = in.Location
}

// Create создаёт проект, списывая единицу remaining_projects. Мягко удалённый
// проект владельца с тем же кодом восстанавливается и перезаписывается.
func (p *Projects) Create(ctx context.Context, userID uint, in ProjectInput) (*ds.Project, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var (
		project *ds.Project
		orphan  *string
	)
	err := p.store.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := p.store.ProjectByCode(ctx, userID, strings.TrimSpace(in.ProjectCode))
		if err != nil && !errors.Is(err, apperr.ErrNotFoundOrDenied) {
			return fmt.Errorf("find project: %w", err)
		}
		if existing != nil && !existing.IsDeleted {
			return fmt.Errorf("project %q: %w", in.ProjectCode, apperr.ErrDuplicateKey)
		}

		if err := p.guard.Reserve(ctx, userID, quota.Projects); err != nil {
			return err
		}

		if existing != nil {
			in.apply(existing)
			existing.IsDeleted = false
			orphan, existing.LogoObject = existing.LogoObject, nil
			if err := p.store.SaveProject(ctx, existing); err != nil {
				return fmt.Errorf("restore project: %w", err)
			}
			project = existing
			p.log.WithField("project_id", project.ID).Info("deleted project restored")
			return nil
		}

		project = &ds.Project{UserID: userID}
		in.apply(project)
		if err := p.store.CreateProject(ctx, project); err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// логотип удалённого проекта больше не нужен
	if orphan != nil && *orphan != "" && p.logos != nil {
		if err := p.logos.DeleteObject(ctx, *orphan); err != nil {
			p.log.WithError(err).WithField("object", *orphan).Warn("failed to delete old logo")
		}
	}

	p.log.WithFields(logrus.Fields{"user_id": userID, "project_id": project.ID}).Info("project created")
	return project, nil
}

func (p *Projects) Get(ctx context.Context, userID, projectID uint) (*ds.Project, error) {
	return p.access.AuthorizeProjectAccess(ctx, projectID, userID)
}

func (p *Projects) GetByCode(ctx context.Context, userID uint, code string) (*ds.Project, error) {
	return p.access.AuthorizeProjectCode(ctx, code, userID)
}

func (p *Projects) List(ctx context.Context, userID uint) ([]ds.Project, error) {
	projects, err := p.store.ListProjects(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Update меняет поля проекта. Новый код не должен совпадать с кодом другого
// проекта владельца, в том числе удалённого.
func (p *Projects) Update(ctx context.Context, userID, projectID uint, in ProjectInput) (*ds.Project, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var project *ds.Project
	err := p.store.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		project, err = p.access.AuthorizeProjectAccess(ctx, projectID, userID)
		if err != nil {
			return err
		}

		code := strings.TrimSpace(in.ProjectCode)
		if code != project.ProjectCode {
			other, err := p.store.ProjectByCode(ctx, userID, code)
			if err != nil && !errors.Is(err, apperr.ErrNotFoundOrDenied) {
				return fmt.Errorf("find project: %w", err)
			}
			if other != nil {
				return fmt.Errorf("project %q: %w", code, apperr.ErrDuplicateKey)
			}
		}

		in.apply(project)
		if err := p.store.SaveProject(ctx, project); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Delete мягко удаляет проект и возвращает единицу remaining_projects.
func (p *Projects) Delete(ctx context.Context, userID, projectID uint) error {
	return p.store.RunInTx(ctx, func(ctx context.Context) error {
		project, err := p.access.AuthorizeProjectAccess(ctx, projectID, userID)
		if err != nil {
			return err
		}

		project.IsDeleted = true
		if err := p.store.SaveProject(ctx, project); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		if err := p.guard.Release(ctx, userID, quota.Projects); err != nil {
			return err
		}

		p.log.WithFields(logrus.Fields{"user_id": userID, "project_id": projectID}).Info("project deleted")
		return nil
	})
}

// UploadLogo сохраняет логотип проекта и удаляет предыдущий.
func (p *Projects) UploadLogo(ctx context.Context, userID, projectID uint, filename string, r io.Reader, size int64) (*ds.Project, error) {
	if p.logos == nil {
		return nil, ErrLogosDisabled
	}

	project, err := p.access.AuthorizeProjectAccess(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	object, err := p.logos.UploadLogo(ctx, projectID, filename, r, size)
	if err != nil {
		return nil, fmt.Errorf("upload logo: %w", err)
	}

	previous := project.LogoObject
	project.LogoObject = &object
	if err := p.store.SaveProject(ctx, project); err != nil {
		if delErr := p.logos.DeleteObject(ctx, object); delErr != nil {
			p.log.WithError(delErr).WithField("object", object).Warn("failed to remove orphan logo")
		}
		return nil, fmt.Errorf("save logo: %w", err)
	}

	if previous != nil && *previous != "" {
		if err := p.logos.DeleteObject(ctx, *previous); err != nil {
			p.log.WithError(err).WithField("object", *previous).Warn("failed to delete old logo")
		}
	}
	return project, nil
}

// LogoURL возвращает временную ссылку на логотип проекта.
func (p *Projects) LogoURL(ctx context.Context, userID, projectID uint) (string, error) {
	if p.logos == nil {
		return "", ErrLogosDisabled
	}

	project, err := p.access.AuthorizeProjectAccess(ctx, projectID, userID)
	if err != nil {
		return "", err
	}
	if project.LogoObject == nil || *project.LogoObject == "" {
		return "", fmt.Errorf("project %d logo: %w", projectID, apperr.ErrNotFoundOrDenied)
	}

	url, err := p.logos.PresignedURL(ctx, *project.LogoObject)
	if err != nil {
		return "", fmt.Errorf("logo url: %w", err)
	}
	return url, nil
}
