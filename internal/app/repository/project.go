package repository

import (
	"context"

	"pipespec/internal/app/ds"

	"gorm.io/gorm/clause"
)

// Проекты

func (r *Repository) ProjectByID(ctx context.Context, id uint) (*ds.Project, error) {
	var project ds.Project
	if err := r.conn(ctx).First(&project, id).Error; err != nil {
		return nil, mapErr("get project", err)
	}
	return &project, nil
}

func (r *Repository) ProjectByCode(ctx context.Context, userID uint, code string) (*ds.Project, error) {
	var project ds.Project
	err := r.conn(ctx).
		Where("user_id = ? AND project_code = ?", userID, code).
		Take(&project).Error
	if err != nil {
		return nil, mapErr("get project by code", err)
	}
	return &project, nil
}

func (r *Repository) ListProjects(ctx context.Context, userID uint) ([]ds.Project, error) {
	var projects []ds.Project
	err := r.conn(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC, id DESC").
		Find(&projects).Error
	if err != nil {
		return nil, mapErr("list projects", err)
	}
	return projects, nil
}

func (r *Repository) CreateProject(ctx context.Context, project *ds.Project) error {
	return mapErr("create project", r.conn(ctx).Omit(clause.Associations).Create(project).Error)
}

func (r *Repository) SaveProject(ctx context.Context, project *ds.Project) error {
	return mapErr("save project", r.conn(ctx).Omit(clause.Associations).Save(project).Error)
}

// Спецификации

func (r *Repository) SpecByID(ctx context.Context, id uint) (*ds.Spec, error) {
	var spec ds.Spec
	if err := r.conn(ctx).First(&spec, id).Error; err != nil {
		return nil, mapErr("get spec", err)
	}
	return &spec, nil
}

func (r *Repository) SpecByName(ctx context.Context, projectID uint, name string) (*ds.Spec, error) {
	var spec ds.Spec
	err := r.conn(ctx).
		Where("project_id = ? AND spec_name = ?", projectID, name).
		Take(&spec).Error
	if err != nil {
		return nil, mapErr("get spec by name", err)
	}
	return &spec, nil
}

func (r *Repository) ListSpecs(ctx context.Context, projectID uint) ([]ds.Spec, error) {
	var specs []ds.Spec
	err := r.conn(ctx).
		Where("project_id = ? AND is_deleted = ?", projectID, false).
		Order("spec_name ASC").
		Find(&specs).Error
	if err != nil {
		return nil, mapErr("list specs", err)
	}
	return specs, nil
}

func (r *Repository) CreateSpec(ctx context.Context, spec *ds.Spec) error {
	return mapErr("create spec", r.conn(ctx).Omit(clause.Associations).Create(spec).Error)
}

func (r *Repository) SaveSpec(ctx context.Context, spec *ds.Spec) error {
	return mapErr("save spec", r.conn(ctx).Omit(clause.Associations).Save(spec).Error)
}

// Компоненты

func (r *Repository) ListComponents(ctx context.Context) ([]ds.Component, error) {
	var components []ds.Component
	if err := r.conn(ctx).Order("id").Find(&components).Error; err != nil {
		return nil, mapErr("list components", err)
	}
	return components, nil
}

func (r *Repository) ComponentByID(ctx context.Context, id uint) (*ds.Component, error) {
	var component ds.Component
	if err := r.conn(ctx).First(&component, id).Error; err != nil {
		return nil, mapErr("get component", err)
	}
	return &component, nil
}
