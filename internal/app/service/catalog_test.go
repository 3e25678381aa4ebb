package service

import (
	"context"
	"testing"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/catalog"
	"pipespec/internal/app/ds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratingCodes(entries []catalog.Entry[ds.RatingAttrs]) []string {
	return catalog.Keys(entries, ds.RatingAttrs.Key)
}

func TestMergedRatings(t *testing.T) {
	svc, store := newTestServices(t, Options{})
	ctx := context.Background()
	user := register(t, svc, "u@example.com")
	project, err := svc.Projects.Create(ctx, user.ID, newProject("P-1"))
	require.NoError(t, err)

	store.SeedRatings(
		ds.RatingAttrs{RatingCode: "150#", RatingValue: "150"},
		ds.RatingAttrs{RatingCode: "300#", RatingValue: "300"},
	)

	_, err = svc.Ratings.Create(ctx, user.ID, project.ID, ds.RatingAttrs{RatingCode: "300#", RatingValue: "300 custom"})
	require.NoError(t, err)
	_, err = svc.Ratings.Create(ctx, user.ID, project.ID, ds.RatingAttrs{RatingCode: "600#", RatingValue: "600"})
	require.NoError(t, err)

	merged, err := svc.Ratings.Merged(ctx, user.ID, project.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"150#", "300#", "600#"}, ratingCodes(merged))

	assert.Equal(t, catalog.ScopeDefault, merged[0].Scope)
	assert.Equal(t, catalog.ScopeProject, merged[1].Scope)
	assert.Equal(t, "300 custom", merged[1].Attrs.RatingValue)
	require.NotNil(t, merged[2].ProjectID)
	assert.Equal(t, project.ID, *merged[2].ProjectID)

	defaults, err := svc.Ratings.Defaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, "300", defaults[1].Attrs.RatingValue, "override must not touch the default")
}

func TestCatalogOverrideDuplicateKey(t *testing.T) {
	svc, store := newTestServices(t, Options{})
	ctx := context.Background()
	user := register(t, svc, "u@example.com")
	project, err := svc.Projects.Create(ctx, user.ID, newProject("P-1"))
	require.NoError(t, err)
	store.SeedSizes(ds.SizeAttrs{Size1: "2", Size2: "", OD: 60.3})

	// совпадение с общим каталогом разрешено
	shadow, err := svc.Sizes.Create(ctx, user.ID, project.ID, ds.SizeAttrs{Size1: "2", OD: 60.5})
	require.NoError(t, err)

	_, err = svc.Sizes.Create(ctx, user.ID, project.ID, ds.SizeAttrs{Size1: "2", OD: 61})
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)

	other, err := svc.Sizes.Create(ctx, user.ID, project.ID, ds.SizeAttrs{Size1: "3", OD: 88.9})
	require.NoError(t, err)
	_, err = svc.Sizes.Update(ctx, user.ID, project.ID, other.ID, ds.SizeAttrs{Size1: "2", OD: 1})
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)

	updated, err := svc.Sizes.Update(ctx, user.ID, project.ID, shadow.ID, ds.SizeAttrs{Size1: "2", OD: 60.4})
	require.NoError(t, err)
	assert.Equal(t, 60.4, updated.Attrs.OD)
}

func TestCatalogDeleteKeepsAuditTrail(t *testing.T) {
	svc, store := newTestServices(t, Options{})
	ctx := context.Background()
	user := register(t, svc, "u@example.com")
	project, err := svc.Projects.Create(ctx, user.ID, newProject("P-1"))
	require.NoError(t, err)
	store.SeedSchedules(ds.ScheduleAttrs{Sch1: "40", ScheduleDesc: "STD"})

	entry, err := svc.Schedules.Create(ctx, user.ID, project.ID, ds.ScheduleAttrs{Sch1: "40", ScheduleDesc: "custom"})
	require.NoError(t, err)
	require.NoError(t, svc.Schedules.Delete(ctx, user.ID, project.ID, entry.ID))

	merged, err := svc.Schedules.Merged(ctx, user.ID, project.ID)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "STD", merged[0].Attrs.ScheduleDesc)

	deleted, err := svc.Schedules.Deleted(ctx, user.ID, project.ID)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, entry.ID, deleted[0].ID)

	err = svc.Schedules.Delete(ctx, user.ID, project.ID, entry.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFoundOrDenied)

	// после удаления ключ снова свободен
	_, err = svc.Schedules.Create(ctx, user.ID, project.ID, ds.ScheduleAttrs{Sch1: "40", ScheduleDesc: "again"})
	assert.NoError(t, err)
}

func TestCatalogForeignProject(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()
	owner := register(t, svc, "owner@example.com")
	other := register(t, svc, "other@example.com")
	project, err := svc.Projects.Create(ctx, owner.ID, newProject("P-1"))
	require.NoError(t, err)

	entry, err := svc.Ratings.Create(ctx, owner.ID, project.ID, ds.RatingAttrs{RatingCode: "900#"})
	require.NoError(t, err)

	_, err = svc.Ratings.Merged(ctx, other.ID, project.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFoundOrDenied)
	_, err = svc.Ratings.Create(ctx, other.ID, project.ID, ds.RatingAttrs{RatingCode: "1500#"})
	assert.ErrorIs(t, err, apperr.ErrNotFoundOrDenied)
	err = svc.Ratings.Delete(ctx, other.ID, project.ID, entry.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFoundOrDenied)

	overrides, err := svc.Ratings.Overrides(ctx, owner.ID, project.ID)
	require.NoError(t, err)
	assert.Len(t, overrides, 1)
}

func TestCatalogValidation(t *testing.T) {
	svc, store := newTestServices(t, Options{})
	ctx := context.Background()
	user := register(t, svc, "u@example.com")
	project, err := svc.Projects.Create(ctx, user.ID, newProject("P-1"))
	require.NoError(t, err)

	_, err = svc.Ratings.Create(ctx, user.ID, project.ID, ds.RatingAttrs{RatingCode: "  "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.ComponentDescriptions.Create(ctx, user.ID, project.ID,
		ds.ComponentDescriptionAttrs{ComponentID: 4242, Code: "PIPE-SMLS"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	pipe := store.AddComponent("Pipe", "pipe")
	_, err = svc.ComponentDescriptions.Create(ctx, user.ID, project.ID,
		ds.ComponentDescriptionAttrs{ComponentID: pipe.ID, Code: "PIPE-SMLS"})
	assert.NoError(t, err)
}

func TestCatalogOverview(t *testing.T) {
	svc, store := newTestServices(t, Options{})
	ctx := context.Background()
	user := register(t, svc, "u@example.com")
	project, err := svc.Projects.Create(ctx, user.ID, newProject("P-1"))
	require.NoError(t, err)

	pipe := store.AddComponent("Pipe", "pipe")
	store.SeedRatings(ds.RatingAttrs{RatingCode: "150#"})
	store.SeedSchedules(ds.ScheduleAttrs{Sch1: "40"}, ds.ScheduleAttrs{Sch1: "80"})
	store.SeedSizes(ds.SizeAttrs{Size1: "1/2"})
	store.SeedComponentDescriptions(ds.ComponentDescriptionAttrs{ComponentID: pipe.ID, Code: "P1"})

	_, err = svc.Sizes.Create(ctx, user.ID, project.ID, ds.SizeAttrs{Size1: "3/4"})
	require.NoError(t, err)

	overview, err := svc.CatalogOverview(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.Len(t, overview.Ratings, 1)
	assert.Len(t, overview.Schedules, 2)
	assert.Len(t, overview.Sizes, 2)
	assert.Len(t, overview.ComponentDescriptions, 1)

	other := register(t, svc, "other@example.com")
	_, err = svc.CatalogOverview(ctx, other.ID, project.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFoundOrDenied)
}
