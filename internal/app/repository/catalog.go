package repository

import (
	"context"

	"pipespec/internal/app/catalog"
	"pipespec/internal/app/ds"

	"gorm.io/gorm/clause"
)

// keyed - атрибуты, умеющие описать свой натуральный ключ колонками.
type keyed interface {
	KeyFields() map[string]any
}

type defaultRow[A any, T any] interface {
	*T
	CatalogEntry() catalog.Entry[A]
	SetAttrs(A)
}

type projectRow[A any, T any] interface {
	defaultRow[A, T]
	SetProjectID(uint)
}

// CatalogTable - пара таблиц одного домена: Default* и таблица проекта с
// меткой удаления (gorm.DeletedAt).
type CatalogTable[A keyed, D any, P any, DP defaultRow[A, D], PP projectRow[A, P]] struct {
	r    *Repository
	name string
}

func newCatalogTable[A keyed, D any, P any, DP defaultRow[A, D], PP projectRow[A, P]](r *Repository, name string) *CatalogTable[A, D, P, DP, PP] {
	return &CatalogTable[A, D, P, DP, PP]{r: r, name: name}
}

type (
	ratingTable               = CatalogTable[ds.RatingAttrs, ds.DefaultRating, ds.Rating, *ds.DefaultRating, *ds.Rating]
	scheduleTable             = CatalogTable[ds.ScheduleAttrs, ds.DefaultSchedule, ds.Schedule, *ds.DefaultSchedule, *ds.Schedule]
	sizeTable                 = CatalogTable[ds.SizeAttrs, ds.DefaultSize, ds.Size, *ds.DefaultSize, *ds.Size]
	componentDescriptionTable = CatalogTable[ds.ComponentDescriptionAttrs, ds.DefaultComponentDescription, ds.ComponentDescription, *ds.DefaultComponentDescription, *ds.ComponentDescription]
)

func (r *Repository) ratingsTable() *ratingTable {
	return newCatalogTable[ds.RatingAttrs, ds.DefaultRating, ds.Rating](r, "ratings")
}

func (r *Repository) schedulesTable() *scheduleTable {
	return newCatalogTable[ds.ScheduleAttrs, ds.DefaultSchedule, ds.Schedule](r, "schedules")
}

func (r *Repository) sizesTable() *sizeTable {
	return newCatalogTable[ds.SizeAttrs, ds.DefaultSize, ds.Size](r, "sizes")
}

func (r *Repository) componentDescriptionsTable() *componentDescriptionTable {
	return newCatalogTable[ds.ComponentDescriptionAttrs, ds.DefaultComponentDescription, ds.ComponentDescription](r, "component descriptions")
}

func (r *Repository) Ratings() catalog.Store[ds.RatingAttrs] { return r.ratingsTable() }

func (r *Repository) Schedules() catalog.Store[ds.ScheduleAttrs] { return r.schedulesTable() }

func (r *Repository) Sizes() catalog.Store[ds.SizeAttrs] { return r.sizesTable() }

func (r *Repository) ComponentDescriptions() catalog.Store[ds.ComponentDescriptionAttrs] {
	return r.componentDescriptionsTable()
}

func defaultEntries[A any, D any, DP defaultRow[A, D]](rows []D) []catalog.Entry[A] {
	out := make([]catalog.Entry[A], len(rows))
	for i := range rows {
		out[i] = DP(&rows[i]).CatalogEntry()
	}
	return out
}

func (t *CatalogTable[A, D, P, DP, PP]) Defaults(ctx context.Context) ([]catalog.Entry[A], error) {
	var rows []D
	if err := t.r.conn(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, mapErr("list default "+t.name, err)
	}
	return defaultEntries[A, D, DP](rows), nil
}

func (t *CatalogTable[A, D, P, DP, PP]) Overrides(ctx context.Context, projectID uint) ([]catalog.Entry[A], error) {
	var rows []P
	err := t.r.conn(ctx).
		Where("project_id = ?", projectID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, mapErr("list project "+t.name, err)
	}
	return defaultEntries[A, P, PP](rows), nil
}

// Deleted - записи проекта с меткой удаления, последние удалённые первыми.
func (t *CatalogTable[A, D, P, DP, PP]) Deleted(ctx context.Context, projectID uint) ([]catalog.Entry[A], error) {
	var rows []P
	err := t.r.conn(ctx).Unscoped().
		Where("project_id = ? AND deleted_at IS NOT NULL", projectID).
		Order("deleted_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, mapErr("list deleted "+t.name, err)
	}
	return defaultEntries[A, P, PP](rows), nil
}

func (t *CatalogTable[A, D, P, DP, PP]) find(ctx context.Context, projectID, id uint) (*P, error) {
	var row P
	err := t.r.conn(ctx).
		Where("project_id = ? AND id = ?", projectID, id).
		Take(&row).Error
	if err != nil {
		return nil, mapErr("get "+t.name, err)
	}
	return &row, nil
}

func (t *CatalogTable[A, D, P, DP, PP]) Override(ctx context.Context, projectID, id uint) (catalog.Entry[A], error) {
	row, err := t.find(ctx, projectID, id)
	if err != nil {
		return catalog.Entry[A]{}, err
	}
	return PP(row).CatalogEntry(), nil
}

func (t *CatalogTable[A, D, P, DP, PP]) CreateOverride(ctx context.Context, projectID uint, attrs A) (catalog.Entry[A], error) {
	row := PP(new(P))
	row.SetProjectID(projectID)
	row.SetAttrs(attrs)

	if err := t.r.conn(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return catalog.Entry[A]{}, mapErr("create "+t.name, err)
	}
	return row.CatalogEntry(), nil
}

func (t *CatalogTable[A, D, P, DP, PP]) UpdateOverride(ctx context.Context, projectID, id uint, attrs A) (catalog.Entry[A], error) {
	found, err := t.find(ctx, projectID, id)
	if err != nil {
		return catalog.Entry[A]{}, err
	}

	row := PP(found)
	row.SetAttrs(attrs)
	if err := t.r.conn(ctx).Omit(clause.Associations).Save(row).Error; err != nil {
		return catalog.Entry[A]{}, mapErr("update "+t.name, err)
	}
	return row.CatalogEntry(), nil
}

// DeleteOverride ставит deleted_at, строка остаётся для аудита.
func (t *CatalogTable[A, D, P, DP, PP]) DeleteOverride(ctx context.Context, projectID, id uint) error {
	res := t.r.conn(ctx).
		Where("project_id = ? AND id = ?", projectID, id).
		Delete(PP(new(P)))
	return affected("delete "+t.name, res)
}

// SeedDefaults добавляет отсутствующие записи общего каталога, существующие
// (по натуральному ключу) не трогает. Возвращает число добавленных.
func (t *CatalogTable[A, D, P, DP, PP]) SeedDefaults(ctx context.Context, items []A) (int, error) {
	created := 0
	for _, attrs := range items {
		row := DP(new(D))
		row.SetAttrs(attrs)

		res := t.r.conn(ctx).Where(attrs.KeyFields()).FirstOrCreate(row)
		if res.Error != nil {
			return created, mapErr("seed default "+t.name, res.Error)
		}
		created += int(res.RowsAffected)
	}
	return created, nil
}
