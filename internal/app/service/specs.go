package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/ds"
	"pipespec/internal/app/quota"

	"github.com/sirupsen/logrus"
)

type Specs struct {
	store   Store
	access  *Access
	guard   *quota.Guard
	ratings *Catalog[ds.RatingAttrs, string]
	log     *logrus.Entry
}

type SpecInput struct {
	SpecName           string
	RatingCode         string
	BaseMaterial       string
	CorrosionAllowance float64
	Description        string
}

func (in SpecInput) validate() error {
	if strings.TrimSpace(in.SpecName) == "" {
		return apperr.NewValidationError("spec_name", "required")
	}
	if in.CorrosionAllowance < 0 {
		return apperr.NewValidationError("corrosion_allowance", "must not be negative")
	}
	return nil
}

func (in SpecInput) apply(s *ds.Spec) {
	s.SpecName = strings.TrimSpace(in.SpecName)
	s.RatingCode = strings.TrimSpace(in.RatingCode)
	s.BaseMaterial = in.BaseMaterial
	s.CorrosionAllowance = in.CorrosionAllowance
	s.Description = in.Description
}

// checkRating - код рейтинга должен быть в объединённом каталоге проекта.
func (s *Specs) checkRating(ctx context.Context, projectID uint, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	ok, err := s.ratings.contains(ctx, projectID, code)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NewValidationError("rating_code", fmt.Sprintf("unknown rating %q", code))
	}
	return nil
}

// Create создаёт спецификацию, списывая единицу remaining_specs у владельца
// проекта. Удалённая спецификация с тем же именем восстанавливается.
func (s *Specs) Create(ctx context.Context, userID, projectID uint, in SpecInput) (*ds.Spec, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var spec *ds.Spec
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		project, err := s.access.AuthorizeProjectAccess(ctx, projectID, userID)
		if err != nil {
			return err
		}

		existing, err := s.store.SpecByName(ctx, projectID, strings.TrimSpace(in.SpecName))
		if err != nil && !errors.Is(err, apperr.ErrNotFoundOrDenied) {
			return fmt.Errorf("find spec: %w", err)
		}
		if existing != nil && !existing.IsDeleted {
			return fmt.Errorf("spec %q: %w", in.SpecName, apperr.ErrDuplicateKey)
		}

		if err := s.checkRating(ctx, projectID, in.RatingCode); err != nil {
			return err
		}

		if err := s.guard.Reserve(ctx, project.UserID, quota.Specs); err != nil {
			return err
		}

		if existing != nil {
			in.apply(existing)
			existing.IsDeleted = false
			if err := s.store.SaveSpec(ctx, existing); err != nil {
				return fmt.Errorf("restore spec: %w", err)
			}
			spec = existing
			return nil
		}

		spec = &ds.Spec{ProjectID: projectID}
		in.apply(spec)
		if err := s.store.CreateSpec(ctx, spec); err != nil {
			return fmt.Errorf("create spec: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"project_id": projectID, "spec_id": spec.ID}).Info("spec created")
	return spec, nil
}

func (s *Specs) List(ctx context.Context, userID, projectID uint) ([]ds.Spec, error) {
	if _, err := s.access.AuthorizeProjectAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}
	specs, err := s.store.ListSpecs(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list specs: %w", err)
	}
	return specs, nil
}

func (s *Specs) Get(ctx context.Context, userID, projectID, specID uint) (*ds.Spec, error) {
	if _, err := s.access.AuthorizeProjectAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.find(ctx, projectID, specID)
}

func (s *Specs) find(ctx context.Context, projectID, specID uint) (*ds.Spec, error) {
	spec, err := s.store.SpecByID(ctx, specID)
	if err != nil {
		return nil, fmt.Errorf("spec %d: %w", specID, err)
	}
	if spec.ProjectID != projectID || spec.IsDeleted {
		return nil, fmt.Errorf("spec %d: %w", specID, apperr.ErrNotFoundOrDenied)
	}
	return spec, nil
}

func (s *Specs) Update(ctx context.Context, userID, projectID, specID uint, in SpecInput) (*ds.Spec, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var spec *ds.Spec
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.access.AuthorizeProjectAccess(ctx, projectID, userID); err != nil {
			return err
		}

		var err error
		spec, err = s.find(ctx, projectID, specID)
		if err != nil {
			return err
		}

		name := strings.TrimSpace(in.SpecName)
		if name != spec.SpecName {
			other, err := s.store.SpecByName(ctx, projectID, name)
			if err != nil && !errors.Is(err, apperr.ErrNotFoundOrDenied) {
				return fmt.Errorf("find spec: %w", err)
			}
			if other != nil {
				return fmt.Errorf("spec %q: %w", name, apperr.ErrDuplicateKey)
			}
		}
		if strings.TrimSpace(in.RatingCode) != spec.RatingCode {
			if err := s.checkRating(ctx, projectID, in.RatingCode); err != nil {
				return err
			}
		}

		in.apply(spec)
		if err := s.store.SaveSpec(ctx, spec); err != nil {
			return fmt.Errorf("save spec: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return spec, nil
}

// Delete мягко удаляет спецификацию и возвращает единицу remaining_specs.
func (s *Specs) Delete(ctx context.Context, userID, projectID, specID uint) error {
	return s.store.RunInTx(ctx, func(ctx context.Context) error {
		project, err := s.access.AuthorizeProjectAccess(ctx, projectID, userID)
		if err != nil {
			return err
		}
		spec, err := s.find(ctx, projectID, specID)
		if err != nil {
			return err
		}

		spec.IsDeleted = true
		if err := s.store.SaveSpec(ctx, spec); err != nil {
			return fmt.Errorf("delete spec: %w", err)
		}
		if err := s.guard.Release(ctx, project.UserID, quota.Specs); err != nil {
			return err
		}

		s.log.WithFields(logrus.Fields{"project_id": projectID, "spec_id": specID}).Info("spec deleted")
		return nil
	})
}
