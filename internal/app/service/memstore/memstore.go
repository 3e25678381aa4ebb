// Package memstore - хранилище приложения в памяти для тестов. Транзакции
// выполняются последовательно: снимок состояния перед fn, откат при ошибке.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/catalog"
	"pipespec/internal/app/ds"
	"pipespec/internal/app/quota"
)

type txKey struct{}

type state struct {
	nextID        uint
	users         map[uint]ds.User
	plans         map[uint]ds.Plan
	subscriptions map[uint]ds.Subscription
	projects      map[uint]ds.Project
	specs         map[uint]ds.Spec
	components    map[uint]ds.Component

	ratings      tableState[ds.RatingAttrs]
	schedules    tableState[ds.ScheduleAttrs]
	sizes        tableState[ds.SizeAttrs]
	descriptions tableState[ds.ComponentDescriptionAttrs]
}

func (s *state) clone() *state {
	c := *s
	c.users = maps.Clone(s.users)
	c.plans = maps.Clone(s.plans)
	c.subscriptions = maps.Clone(s.subscriptions)
	c.projects = maps.Clone(s.projects)
	c.specs = maps.Clone(s.specs)
	c.components = maps.Clone(s.components)
	c.ratings = s.ratings.clone()
	c.schedules = s.schedules.clone()
	c.sizes = s.sizes.clone()
	c.descriptions = s.descriptions.clone()
	return &c
}

func (s *state) id() uint {
	s.nextID++
	return s.nextID
}

type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   *state
	now  func() time.Time
	fail map[string]error
}

func New() *Store {
	return &Store{
		st: &state{
			users:         map[uint]ds.User{},
			plans:         map[uint]ds.Plan{},
			subscriptions: map[uint]ds.Subscription{},
			projects:      map[uint]ds.Project{},
			specs:         map[uint]ds.Spec{},
			components:    map[uint]ds.Component{},
			ratings:       newTableState[ds.RatingAttrs](),
			schedules:     newTableState[ds.ScheduleAttrs](),
			sizes:         newTableState[ds.SizeAttrs](),
			descriptions:  newTableState[ds.ComponentDescriptionAttrs](),
		},
		now:  time.Now,
		fail: map[string]error{},
	}
}

// FailOn заставляет операцию op возвращать err, пока не вызван FailOn(op, nil).
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

// lock берёт мьютекс и проверяет внедрённую ошибку op.
func (s *Store) lock(op string) (func(), error) {
	s.mu.Lock()
	if err, ok := s.fail[op]; ok {
		s.mu.Unlock()
		return nil, apperr.Storage(op, err)
	}
	return s.mu.Unlock, nil
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func notFound(what string, id any) error {
	return fmt.Errorf("%s %v: %w", what, id, apperr.ErrNotFoundOrDenied)
}

func duplicate(what string, key any) error {
	return fmt.Errorf("%s %v: %w", what, key, apperr.ErrDuplicateKey)
}

func sortedByID[T any](m map[uint]T, keep func(T) bool) []T {
	ids := make([]uint, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, len(ids))
	for i, id := range ids {
		out[i] = m[id]
	}
	return out
}

// ============ Пользователи ============

func (s *Store) UserByID(_ context.Context, id uint) (*ds.User, error) {
	unlock, err := s.lock("UserByID")
	if err != nil {
		return nil, err
	}
	defer unlock()

	u, ok := s.st.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &u, nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (*ds.User, error) {
	unlock, err := s.lock("UserByEmail")
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, u := range s.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, notFound("user", email)
}

func (s *Store) CreateUser(_ context.Context, user *ds.User) error {
	unlock, err := s.lock("CreateUser")
	if err != nil {
		return err
	}
	defer unlock()

	for _, u := range s.st.users {
		if u.Email == user.Email {
			return duplicate("user", user.Email)
		}
	}
	user.ID = s.st.id()
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	s.st.users[user.ID] = *user
	return nil
}

func (s *Store) SaveUser(_ context.Context, user *ds.User) error {
	unlock, err := s.lock("SaveUser")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.st.users[user.ID]; !ok {
		return notFound("user", user.ID)
	}
	user.UpdatedAt = s.now()
	s.st.users[user.ID] = *user
	return nil
}

// ============ Тарифы и подписки ============

func (s *Store) ListPlans(_ context.Context, onlyActive bool) ([]ds.Plan, error) {
	unlock, err := s.lock("ListPlans")
	if err != nil {
		return nil, err
	}
	defer unlock()

	return sortedByID(s.st.plans, func(p ds.Plan) bool { return !onlyActive || p.IsActive }), nil
}

func (s *Store) PlanByID(_ context.Context, id uint) (*ds.Plan, error) {
	unlock, err := s.lock("PlanByID")
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, ok := s.st.plans[id]
	if !ok {
		return nil, notFound("plan", id)
	}
	return &p, nil
}

func (s *Store) PlanByName(_ context.Context, name string) (*ds.Plan, error) {
	unlock, err := s.lock("PlanByName")
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, p := range s.st.plans {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, notFound("plan", name)
}

func (s *Store) CreatePlan(_ context.Context, plan *ds.Plan) error {
	unlock, err := s.lock("CreatePlan")
	if err != nil {
		return err
	}
	defer unlock()

	for _, p := range s.st.plans {
		if p.Name == plan.Name {
			return duplicate("plan", plan.Name)
		}
	}
	plan.ID = s.st.id()
	plan.CreatedAt = s.now()
	plan.UpdatedAt = plan.CreatedAt
	s.st.plans[plan.ID] = *plan
	return nil
}

func (s *Store) ActiveSubscription(_ context.Context, userID uint) (*ds.Subscription, error) {
	unlock, err := s.lock("ActiveSubscription")
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.now()
	var best *ds.Subscription
	for _, sub := range sortedByID(s.st.subscriptions, nil) {
		if sub.UserID != userID || sub.Status != ds.SubscriptionActive {
			continue
		}
		if sub.ExpiresAt != nil && !sub.ExpiresAt.After(now) {
			continue
		}
		if best == nil || !sub.CreatedAt.Before(best.CreatedAt) {
			found := sub
			best = &found
		}
	}
	if best != nil {
		best.Plan = s.st.plans[best.PlanID]
	}
	return best, nil
}

func (s *Store) CreateSubscription(_ context.Context, sub *ds.Subscription) error {
	unlock, err := s.lock("CreateSubscription")
	if err != nil {
		return err
	}
	defer unlock()

	sub.ID = s.st.id()
	sub.CreatedAt = s.now()
	sub.UpdatedAt = sub.CreatedAt
	stored := *sub
	stored.Plan = ds.Plan{}
	s.st.subscriptions[sub.ID] = stored
	return nil
}

func (s *Store) SetSubscriptionStatus(_ context.Context, id uint, status string) error {
	unlock, err := s.lock("SetSubscriptionStatus")
	if err != nil {
		return err
	}
	defer unlock()

	sub, ok := s.st.subscriptions[id]
	if !ok {
		return notFound("subscription", id)
	}
	sub.Status = status
	sub.UpdatedAt = s.now()
	s.st.subscriptions[id] = sub
	return nil
}

func counter(sub *ds.Subscription, c quota.Counter) **int {
	switch c {
	case quota.Projects:
		return &sub.RemainingProjects
	case quota.Specs:
		return &sub.RemainingSpecs
	}
	return nil
}

func (s *Store) DecrementCounter(_ context.Context, subscriptionID uint, c quota.Counter) (bool, error) {
	unlock, err := s.lock("DecrementCounter")
	if err != nil {
		return false, err
	}
	defer unlock()

	sub, ok := s.st.subscriptions[subscriptionID]
	if !ok {
		return false, nil
	}
	field := counter(&sub, c)
	if field == nil {
		return false, fmt.Errorf("unknown counter %q", c)
	}
	if *field == nil || **field <= 0 {
		return false, nil
	}
	v := **field - 1
	*field = &v
	s.st.subscriptions[subscriptionID] = sub
	return true, nil
}

func (s *Store) IncrementCounter(_ context.Context, subscriptionID uint, c quota.Counter, limit int) (bool, error) {
	unlock, err := s.lock("IncrementCounter")
	if err != nil {
		return false, err
	}
	defer unlock()

	sub, ok := s.st.subscriptions[subscriptionID]
	if !ok {
		return false, nil
	}
	field := counter(&sub, c)
	if field == nil {
		return false, fmt.Errorf("unknown counter %q", c)
	}
	if *field == nil || **field >= limit {
		return false, nil
	}
	v := **field + 1
	*field = &v
	s.st.subscriptions[subscriptionID] = sub
	return true, nil
}

// Subscription - подписка по id для проверок в тестах.
func (s *Store) Subscription(id uint) (ds.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.st.subscriptions[id]
	return sub, ok
}

// ============ Проекты и спецификации ============

func (s *Store) ProjectByID(_ context.Context, id uint) (*ds.Project, error) {
	unlock, err := s.lock("ProjectByID")
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, ok := s.st.projects[id]
	if !ok {
		return nil, notFound("project", id)
	}
	return &p, nil
}

func (s *Store) ProjectByCode(_ context.Context, userID uint, code string) (*ds.Project, error) {
	unlock, err := s.lock("ProjectByCode")
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, p := range s.st.projects {
		if p.UserID == userID && p.ProjectCode == code {
			return &p, nil
		}
	}
	return nil, notFound("project", code)
}

func (s *Store) ListProjects(_ context.Context, userID uint) ([]ds.Project, error) {
	unlock, err := s.lock("ListProjects")
	if err != nil {
		return nil, err
	}
	defer unlock()

	return sortedByID(s.st.projects, func(p ds.Project) bool {
		return p.UserID == userID && !p.IsDeleted
	}), nil
}

func (s *Store) projectCodeTaken(p *ds.Project) bool {
	for _, other := range s.st.projects {
		if other.ID != p.ID && other.UserID == p.UserID && other.ProjectCode == p.ProjectCode {
			return true
		}
	}
	return false
}

func (s *Store) CreateProject(_ context.Context, project *ds.Project) error {
	unlock, err := s.lock("CreateProject")
	if err != nil {
		return err
	}
	defer unlock()

	if s.projectCodeTaken(project) {
		return duplicate("project", project.ProjectCode)
	}
	project.ID = s.st.id()
	project.CreatedAt = s.now()
	project.UpdatedAt = project.CreatedAt
	s.st.projects[project.ID] = *project
	return nil
}

func (s *Store) SaveProject(_ context.Context, project *ds.Project) error {
	unlock, err := s.lock("SaveProject")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.st.projects[project.ID]; !ok {
		return notFound("project", project.ID)
	}
	if s.projectCodeTaken(project) {
		return duplicate("project", project.ProjectCode)
	}
	project.UpdatedAt = s.now()
	s.st.projects[project.ID] = *project
	return nil
}

func (s *Store) SpecByID(_ context.Context, id uint) (*ds.Spec, error) {
	unlock, err := s.lock("SpecByID")
	if err != nil {
		return nil, err
	}
	defer unlock()

	sp, ok := s.st.specs[id]
	if !ok {
		return nil, notFound("spec", id)
	}
	return &sp, nil
}

func (s *Store) SpecByName(_ context.Context, projectID uint, name string) (*ds.Spec, error) {
	unlock, err := s.lock("SpecByName")
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, sp := range s.st.specs {
		if sp.ProjectID == projectID && sp.SpecName == name {
			return &sp, nil
		}
	}
	return nil, notFound("spec", name)
}

func (s *Store) ListSpecs(_ context.Context, projectID uint) ([]ds.Spec, error) {
	unlock, err := s.lock("ListSpecs")
	if err != nil {
		return nil, err
	}
	defer unlock()

	specs := sortedByID(s.st.specs, func(sp ds.Spec) bool {
		return sp.ProjectID == projectID && !sp.IsDeleted
	})
	sort.SliceStable(specs, func(i, j int) bool { return specs[i].SpecName < specs[j].SpecName })
	return specs, nil
}

func (s *Store) specNameTaken(sp *ds.Spec) bool {
	for _, other := range s.st.specs {
		if other.ID != sp.ID && other.ProjectID == sp.ProjectID && other.SpecName == sp.SpecName {
			return true
		}
	}
	return false
}

func (s *Store) CreateSpec(_ context.Context, spec *ds.Spec) error {
	unlock, err := s.lock("CreateSpec")
	if err != nil {
		return err
	}
	defer unlock()

	if s.specNameTaken(spec) {
		return duplicate("spec", spec.SpecName)
	}
	spec.ID = s.st.id()
	spec.CreatedAt = s.now()
	spec.UpdatedAt = spec.CreatedAt
	s.st.specs[spec.ID] = *spec
	return nil
}

func (s *Store) SaveSpec(_ context.Context, spec *ds.Spec) error {
	unlock, err := s.lock("SaveSpec")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.st.specs[spec.ID]; !ok {
		return notFound("spec", spec.ID)
	}
	if s.specNameTaken(spec) {
		return duplicate("spec", spec.SpecName)
	}
	spec.UpdatedAt = s.now()
	s.st.specs[spec.ID] = *spec
	return nil
}

// ============ Компоненты ============

func (s *Store) ListComponents(_ context.Context) ([]ds.Component, error) {
	unlock, err := s.lock("ListComponents")
	if err != nil {
		return nil, err
	}
	defer unlock()

	return sortedByID(s.st.components, nil), nil
}

func (s *Store) ComponentByID(_ context.Context, id uint) (*ds.Component, error) {
	unlock, err := s.lock("ComponentByID")
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, ok := s.st.components[id]
	if !ok {
		return nil, notFound("component", id)
	}
	return &c, nil
}

// AddComponent добавляет компонент в справочник.
func (s *Store) AddComponent(name, componentType string) ds.Component {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := ds.Component{ID: s.st.id(), Name: name, ComponentType: componentType}
	s.st.components[c.ID] = c
	return c
}

// ============ Каталоги ============

func (s *Store) Ratings() catalog.Store[ds.RatingAttrs] {
	return &table[ds.RatingAttrs]{s: s, name: "ratings", st: func(st *state) *tableState[ds.RatingAttrs] { return &st.ratings }}
}

func (s *Store) Schedules() catalog.Store[ds.ScheduleAttrs] {
	return &table[ds.ScheduleAttrs]{s: s, name: "schedules", st: func(st *state) *tableState[ds.ScheduleAttrs] { return &st.schedules }}
}

func (s *Store) Sizes() catalog.Store[ds.SizeAttrs] {
	return &table[ds.SizeAttrs]{s: s, name: "sizes", st: func(st *state) *tableState[ds.SizeAttrs] { return &st.sizes }}
}

func (s *Store) ComponentDescriptions() catalog.Store[ds.ComponentDescriptionAttrs] {
	return &table[ds.ComponentDescriptionAttrs]{
		s:    s,
		name: "component descriptions",
		st:   func(st *state) *tableState[ds.ComponentDescriptionAttrs] { return &st.descriptions },
	}
}

// SeedRatings и прочие Seed* наполняют общий каталог.
func (s *Store) SeedRatings(items ...ds.RatingAttrs) {
	seed(s, func(st *state) *tableState[ds.RatingAttrs] { return &st.ratings }, items)
}

func (s *Store) SeedSchedules(items ...ds.ScheduleAttrs) {
	seed(s, func(st *state) *tableState[ds.ScheduleAttrs] { return &st.schedules }, items)
}

func (s *Store) SeedSizes(items ...ds.SizeAttrs) {
	seed(s, func(st *state) *tableState[ds.SizeAttrs] { return &st.sizes }, items)
}

func (s *Store) SeedComponentDescriptions(items ...ds.ComponentDescriptionAttrs) {
	seed(s, func(st *state) *tableState[ds.ComponentDescriptionAttrs] { return &st.descriptions }, items)
}
