package service

import (
	"context"

	"pipespec/internal/app/catalog"
	"pipespec/internal/app/ds"

	"golang.org/x/sync/errgroup"
)

// ProjectCatalog - все объединённые каталоги проекта.
type ProjectCatalog struct {
	Ratings               []catalog.Entry[ds.RatingAttrs]               `json:"ratings"`
	Schedules             []catalog.Entry[ds.ScheduleAttrs]             `json:"schedules"`
	Sizes                 []catalog.Entry[ds.SizeAttrs]                 `json:"sizes"`
	ComponentDescriptions []catalog.Entry[ds.ComponentDescriptionAttrs] `json:"component_descriptions"`
}

// CatalogOverview собирает четыре каталога проекта параллельно.
func (s *Services) CatalogOverview(ctx context.Context, userID, projectID uint) (*ProjectCatalog, error) {
	if _, err := s.Access.AuthorizeProjectAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}

	out := &ProjectCatalog{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		out.Ratings, err = s.Ratings.merged(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Schedules, err = s.Schedules.merged(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Sizes, err = s.Sizes.merged(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		out.ComponentDescriptions, err = s.ComponentDescriptions.merged(gctx, projectID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
