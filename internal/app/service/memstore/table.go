package memstore

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"time"

	"pipespec/internal/app/catalog"
)

type keyed interface {
	KeyFields() map[string]any
}

type row[A any] struct {
	entry     catalog.Entry[A]
	deletedAt *time.Time
}

type tableState[A any] struct {
	defaults  map[uint]catalog.Entry[A]
	overrides map[uint]row[A]
}

func newTableState[A any]() tableState[A] {
	return tableState[A]{
		defaults:  map[uint]catalog.Entry[A]{},
		overrides: map[uint]row[A]{},
	}
}

func (t tableState[A]) clone() tableState[A] {
	return tableState[A]{
		defaults:  maps.Clone(t.defaults),
		overrides: maps.Clone(t.overrides),
	}
}

// keyOf - строковый натуральный ключ. fmt печатает map с отсортированными
// ключами, поэтому строка стабильна.
func keyOf[A keyed](a A) string {
	return fmt.Sprint(a.KeyFields())
}

func seed[A any](s *Store, get func(*state) *tableState[A], items []A) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := get(s.st)
	for _, a := range items {
		id := s.st.id()
		t.defaults[id] = catalog.Entry[A]{ID: id, Scope: catalog.ScopeDefault, Attrs: a}
	}
}

// table реализует catalog.Store поверх состояния Store.
type table[A keyed] struct {
	s    *Store
	name string
	st   func(*state) *tableState[A]
}

func (t *table[A]) op(name string) (*tableState[A], func(), error) {
	unlock, err := t.s.lock(t.name + "." + name)
	if err != nil {
		return nil, nil, err
	}
	return t.st(t.s.st), unlock, nil
}

func (t *table[A]) Defaults(_ context.Context) ([]catalog.Entry[A], error) {
	st, unlock, err := t.op("Defaults")
	if err != nil {
		return nil, err
	}
	defer unlock()

	return sortedByID(st.defaults, nil), nil
}

func (t *table[A]) overrides(st *tableState[A], projectID uint, deleted bool) []catalog.Entry[A] {
	rows := sortedByID(st.overrides, func(r row[A]) bool {
		return *r.entry.ProjectID == projectID && (r.deletedAt != nil) == deleted
	})
	if deleted {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].deletedAt.After(*rows[j].deletedAt) })
	}
	out := make([]catalog.Entry[A], len(rows))
	for i, r := range rows {
		out[i] = r.entry
	}
	return out
}

func (t *table[A]) Overrides(_ context.Context, projectID uint) ([]catalog.Entry[A], error) {
	st, unlock, err := t.op("Overrides")
	if err != nil {
		return nil, err
	}
	defer unlock()

	return t.overrides(st, projectID, false), nil
}

func (t *table[A]) Deleted(_ context.Context, projectID uint) ([]catalog.Entry[A], error) {
	st, unlock, err := t.op("Deleted")
	if err != nil {
		return nil, err
	}
	defer unlock()

	return t.overrides(st, projectID, true), nil
}

func (t *table[A]) active(st *tableState[A], projectID, id uint) (row[A], error) {
	r, ok := st.overrides[id]
	if !ok || *r.entry.ProjectID != projectID || r.deletedAt != nil {
		return row[A]{}, notFound(t.name, id)
	}
	return r, nil
}

func (t *table[A]) Override(_ context.Context, projectID, id uint) (catalog.Entry[A], error) {
	st, unlock, err := t.op("Override")
	if err != nil {
		return catalog.Entry[A]{}, err
	}
	defer unlock()

	r, err := t.active(st, projectID, id)
	if err != nil {
		return catalog.Entry[A]{}, err
	}
	return r.entry, nil
}

// keyTaken - аналог частичного уникального индекса WHERE deleted_at IS NULL.
func (t *table[A]) keyTaken(st *tableState[A], projectID, selfID uint, attrs A) bool {
	key := keyOf(attrs)
	for id, r := range st.overrides {
		if id != selfID && r.deletedAt == nil && *r.entry.ProjectID == projectID && keyOf(r.entry.Attrs) == key {
			return true
		}
	}
	return false
}

func (t *table[A]) CreateOverride(_ context.Context, projectID uint, attrs A) (catalog.Entry[A], error) {
	st, unlock, err := t.op("CreateOverride")
	if err != nil {
		return catalog.Entry[A]{}, err
	}
	defer unlock()

	if t.keyTaken(st, projectID, 0, attrs) {
		return catalog.Entry[A]{}, duplicate(t.name, keyOf(attrs))
	}

	pid := projectID
	e := catalog.Entry[A]{ID: t.s.st.id(), Scope: catalog.ScopeProject, ProjectID: &pid, Attrs: attrs}
	st.overrides[e.ID] = row[A]{entry: e}
	return e, nil
}

func (t *table[A]) UpdateOverride(_ context.Context, projectID, id uint, attrs A) (catalog.Entry[A], error) {
	st, unlock, err := t.op("UpdateOverride")
	if err != nil {
		return catalog.Entry[A]{}, err
	}
	defer unlock()

	r, err := t.active(st, projectID, id)
	if err != nil {
		return catalog.Entry[A]{}, err
	}
	if t.keyTaken(st, projectID, id, attrs) {
		return catalog.Entry[A]{}, duplicate(t.name, keyOf(attrs))
	}

	r.entry.Attrs = attrs
	st.overrides[id] = r
	return r.entry, nil
}

func (t *table[A]) DeleteOverride(_ context.Context, projectID, id uint) error {
	st, unlock, err := t.op("DeleteOverride")
	if err != nil {
		return err
	}
	defer unlock()

	r, err := t.active(st, projectID, id)
	if err != nil {
		return err
	}
	now := t.s.now()
	r.deletedAt = &now
	st.overrides[id] = r
	return nil
}
