package repository

import (
	"context"
	"fmt"

	"pipespec/internal/app/ds"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"
)

// Models - все таблицы приложения в порядке миграции.
func Models() []any {
	return []any{
		&ds.User{},
		&ds.Plan{},
		&ds.Subscription{},
		&ds.Project{},
		&ds.Spec{},
		&ds.Component{},
		&ds.DefaultRating{},
		&ds.Rating{},
		&ds.DefaultSchedule{},
		&ds.Schedule{},
		&ds.DefaultSize{},
		&ds.Size{},
		&ds.DefaultComponentDescription{},
		&ds.ComponentDescription{},
	}
}

// Уникальность ключа каталога: в общем каталоге - всегда, в проекте - только
// среди неудалённых записей.
var catalogIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_default_ratings_key ON default_ratings (rating_code)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_default_schedules_key ON default_schedules (sch1, sch2)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_default_sizes_key ON default_sizes (size1, size2)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_default_component_descriptions_key ON default_component_descriptions (component_id, code)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_ratings_key ON ratings (project_id, rating_code) WHERE deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_schedules_key ON schedules (project_id, sch1, sch2) WHERE deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sizes_key ON sizes (project_id, size1, size2) WHERE deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_component_descriptions_key ON component_descriptions (project_id, component_id, code) WHERE deleted_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_subscriptions_active ON subscriptions (user_id) WHERE status = 'active'`,
}

// Migrate создаёт таблицы и индексы.
func (r *Repository) Migrate(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	for _, stmt := range catalogIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// SeedComponentDescription - описание компонента в seed-файле ссылается на
// компонент по имени.
type SeedComponentDescription struct {
	Component                    string `yaml:"component"`
	ds.ComponentDescriptionAttrs `yaml:",inline"`
}

type SeedPlan struct {
	Name         string  `yaml:"name"`
	Price        float64 `yaml:"price"`
	Currency     string  `yaml:"currency"`
	DurationDays int     `yaml:"duration_days"`
	MaxProjects  *int    `yaml:"max_projects"`
	MaxSpecs     *int    `yaml:"max_specs"`
}

// SeedData - содержимое config/seed.yaml.
type SeedData struct {
	Plans                 []SeedPlan                 `yaml:"plans"`
	Components            []ds.Component             `yaml:"components"`
	Ratings               []ds.RatingAttrs           `yaml:"ratings"`
	Schedules             []ds.ScheduleAttrs         `yaml:"schedules"`
	Sizes                 []ds.SizeAttrs             `yaml:"sizes"`
	ComponentDescriptions []SeedComponentDescription `yaml:"component_descriptions"`
}

// Seed заполняет справочники. Повторный запуск ничего не дублирует.
func (r *Repository) Seed(ctx context.Context, data SeedData) error {
	return r.RunInTx(ctx, func(ctx context.Context) error {
		db := r.conn(ctx)

		for _, p := range data.Plans {
			plan := ds.Plan{
				Name:         p.Name,
				Price:        p.Price,
				Currency:     p.Currency,
				DurationDays: p.DurationDays,
				MaxProjects:  p.MaxProjects,
				MaxSpecs:     p.MaxSpecs,
				IsActive:     true,
			}
			if plan.Currency == "" {
				plan.Currency = "USD"
			}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&plan).Error; err != nil {
				return mapErr("seed plan "+p.Name, err)
			}
		}

		componentIDs := make(map[string]uint, len(data.Components))
		for _, c := range data.Components {
			component := ds.Component{Name: c.Name, ComponentType: c.ComponentType}
			if err := db.Where("name = ?", c.Name).FirstOrCreate(&component).Error; err != nil {
				return mapErr("seed component "+c.Name, err)
			}
			componentIDs[component.Name] = component.ID
		}

		counts := logrus.Fields{}
		var err error

		if counts["ratings"], err = r.ratingsTable().SeedDefaults(ctx, data.Ratings); err != nil {
			return err
		}
		if counts["schedules"], err = r.schedulesTable().SeedDefaults(ctx, data.Schedules); err != nil {
			return err
		}
		if counts["sizes"], err = r.sizesTable().SeedDefaults(ctx, data.Sizes); err != nil {
			return err
		}

		descriptions := make([]ds.ComponentDescriptionAttrs, 0, len(data.ComponentDescriptions))
		for _, d := range data.ComponentDescriptions {
			id, ok := componentIDs[d.Component]
			if !ok {
				return fmt.Errorf("component description %q: unknown component %q", d.Code, d.Component)
			}
			d.ComponentDescriptionAttrs.ComponentID = id
			descriptions = append(descriptions, d.ComponentDescriptionAttrs)
		}
		if counts["component_descriptions"], err = r.componentDescriptionsTable().SeedDefaults(ctx, descriptions); err != nil {
			return err
		}

		logrus.WithFields(counts).Info("default catalogs seeded")
		return nil
	})
}

// DefaultCounts - число записей в общих каталогах.
func (r *Repository) DefaultCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for name, model := range map[string]any{
		"ratings":                &ds.DefaultRating{},
		"schedules":              &ds.DefaultSchedule{},
		"sizes":                  &ds.DefaultSize{},
		"component_descriptions": &ds.DefaultComponentDescription{},
		"components":             &ds.Component{},
		"plans":                  &ds.Plan{},
	} {
		var n int64
		if err := r.conn(ctx).Model(model).Count(&n).Error; err != nil {
			return nil, mapErr("count "+name, err)
		}
		counts[name] = n
	}
	return counts, nil
}
