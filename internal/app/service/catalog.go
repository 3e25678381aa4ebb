package service

import (
	"context"
	"fmt"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/catalog"

	"github.com/sirupsen/logrus"
)

// Attrs - типизированная запись домена каталога.
type Attrs interface {
	Validate() error
}

// Catalog - сценарии одного домена каталога: общий каталог, записи проекта
// и их объединённое представление.
type Catalog[A Attrs, K comparable] struct {
	name   string
	tx     TxRunner
	store  catalog.Store[A]
	access *Access
	key    func(A) K
	check  func(ctx context.Context, attrs A) error
	log    *logrus.Entry
}

func NewCatalog[A Attrs, K comparable](
	name string,
	tx TxRunner,
	store catalog.Store[A],
	access *Access,
	key func(A) K,
	log *logrus.Entry,
) *Catalog[A, K] {
	return &Catalog[A, K]{
		name:   name,
		tx:     tx,
		store:  store,
		access: access,
		key:    key,
		log:    log.WithField("catalog", name),
	}
}

func (c *Catalog[A, K]) Name() string { return c.name }

// WithCheck добавляет проверку атрибутов, которой нужно хранилище
// (например, существование компонента).
func (c *Catalog[A, K]) WithCheck(check func(ctx context.Context, attrs A) error) *Catalog[A, K] {
	c.check = check
	return c
}

func (c *Catalog[A, K]) validate(ctx context.Context, attrs A) error {
	if err := attrs.Validate(); err != nil {
		return err
	}
	if c.check != nil {
		return c.check(ctx, attrs)
	}
	return nil
}

// Defaults - глобальный каталог, доступен всем аутентифицированным.
func (c *Catalog[A, K]) Defaults(ctx context.Context) ([]catalog.Entry[A], error) {
	entries, err := c.store.Defaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s defaults: %w", c.name, err)
	}
	return entries, nil
}

// Merged - каталог проекта: записи проекта поверх глобальных.
func (c *Catalog[A, K]) Merged(ctx context.Context, userID, projectID uint) ([]catalog.Entry[A], error) {
	if _, err := c.access.AuthorizeProjectAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return c.merged(ctx, projectID)
}

func (c *Catalog[A, K]) merged(ctx context.Context, projectID uint) ([]catalog.Entry[A], error) {
	defaults, err := c.store.Defaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s defaults: %w", c.name, err)
	}
	overrides, err := c.store.Overrides(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s overrides: %w", c.name, err)
	}

	merged := catalog.Merge(defaults, overrides, c.key)
	c.log.WithFields(logrus.Fields{
		"project_id": projectID,
		"defaults":   len(defaults),
		"overrides":  len(overrides),
		"merged":     len(merged),
	}).Debug("catalog merged")

	return merged, nil
}

// contains - есть ли ключ в объединённом каталоге проекта.
func (c *Catalog[A, K]) contains(ctx context.Context, projectID uint, key K) (bool, error) {
	merged, err := c.merged(ctx, projectID)
	if err != nil {
		return false, err
	}
	for _, e := range merged {
		if c.key(e.Attrs) == key {
			return true, nil
		}
	}
	return false, nil
}

// Overrides - только записи проекта.
func (c *Catalog[A, K]) Overrides(ctx context.Context, userID, projectID uint) ([]catalog.Entry[A], error) {
	if _, err := c.access.AuthorizeProjectAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}
	entries, err := c.store.Overrides(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s overrides: %w", c.name, err)
	}
	return entries, nil
}

// Deleted - удалённые записи проекта для аудита.
func (c *Catalog[A, K]) Deleted(ctx context.Context, userID, projectID uint) ([]catalog.Entry[A], error) {
	if _, err := c.access.AuthorizeProjectAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}
	entries, err := c.store.Deleted(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s deleted: %w", c.name, err)
	}
	return entries, nil
}

// Get - одна запись проекта.
func (c *Catalog[A, K]) Get(ctx context.Context, userID, projectID, id uint) (catalog.Entry[A], error) {
	if _, err := c.access.AuthorizeProjectAccess(ctx, projectID, userID); err != nil {
		return catalog.Entry[A]{}, err
	}
	entry, err := c.store.Override(ctx, projectID, id)
	if err != nil {
		return catalog.Entry[A]{}, fmt.Errorf("%s %d: %w", c.name, id, err)
	}
	return entry, nil
}

// Create добавляет запись проекта. Совпадение ключа с глобальной записью
// разрешено, с другой активной записью проекта - apperr.ErrDuplicateKey.
func (c *Catalog[A, K]) Create(ctx context.Context, userID, projectID uint, attrs A) (catalog.Entry[A], error) {
	var created catalog.Entry[A]
	err := c.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := c.access.AuthorizeProjectAccess(ctx, projectID, userID); err != nil {
			return err
		}
		if err := c.validate(ctx, attrs); err != nil {
			return err
		}
		if err := c.ensureUniqueKey(ctx, projectID, 0, attrs); err != nil {
			return err
		}

		var err error
		created, err = c.store.CreateOverride(ctx, projectID, attrs)
		if err != nil {
			return fmt.Errorf("create %s: %w", c.name, err)
		}
		return nil
	})
	if err != nil {
		return catalog.Entry[A]{}, err
	}

	c.log.WithFields(logrus.Fields{"project_id": projectID, "id": created.ID}).Info("override created")
	return created, nil
}

// Update заменяет атрибуты записи проекта.
func (c *Catalog[A, K]) Update(ctx context.Context, userID, projectID, id uint, attrs A) (catalog.Entry[A], error) {
	var updated catalog.Entry[A]
	err := c.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := c.access.AuthorizeProjectAccess(ctx, projectID, userID); err != nil {
			return err
		}
		if _, err := c.store.Override(ctx, projectID, id); err != nil {
			return fmt.Errorf("%s %d: %w", c.name, id, err)
		}
		if err := c.validate(ctx, attrs); err != nil {
			return err
		}
		if err := c.ensureUniqueKey(ctx, projectID, id, attrs); err != nil {
			return err
		}

		var err error
		updated, err = c.store.UpdateOverride(ctx, projectID, id, attrs)
		if err != nil {
			return fmt.Errorf("update %s %d: %w", c.name, id, err)
		}
		return nil
	})
	if err != nil {
		return catalog.Entry[A]{}, err
	}
	return updated, nil
}

// Delete ставит метку удаления. Запись остаётся доступна через Deleted.
func (c *Catalog[A, K]) Delete(ctx context.Context, userID, projectID, id uint) error {
	return c.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := c.access.AuthorizeProjectAccess(ctx, projectID, userID); err != nil {
			return err
		}
		if err := c.store.DeleteOverride(ctx, projectID, id); err != nil {
			return fmt.Errorf("delete %s %d: %w", c.name, id, err)
		}
		c.log.WithFields(logrus.Fields{"project_id": projectID, "id": id}).Info("override deleted")
		return nil
	})
}

func (c *Catalog[A, K]) ensureUniqueKey(ctx context.Context, projectID, selfID uint, attrs A) error {
	existing, err := c.store.Overrides(ctx, projectID)
	if err != nil {
		return fmt.Errorf("%s overrides: %w", c.name, err)
	}
	key := c.key(attrs)
	for _, e := range existing {
		if e.ID != selfID && c.key(e.Attrs) == key {
			return fmt.Errorf("%s %v in project %d: %w", c.name, key, projectID, apperr.ErrDuplicateKey)
		}
	}
	return nil
}
