package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/ds"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Subscriptions - тарифы и подписки пользователей.
type Subscriptions struct {
	store Store
	now   func() time.Time
	log   *logrus.Entry
}

type PlanInput struct {
	Name         string
	Price        float64
	Currency     string
	DurationDays int
	MaxProjects  *int
	MaxSpecs     *int
	Features     datatypes.JSON
}

func (s *Subscriptions) Plans(ctx context.Context) ([]ds.Plan, error) {
	plans, err := s.store.ListPlans(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (s *Subscriptions) CreatePlan(ctx context.Context, in PlanInput) (*ds.Plan, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.NewValidationError("name", "required")
	}
	if in.Price < 0 {
		return nil, apperr.NewValidationError("price", "must not be negative")
	}
	for field, limit := range map[string]*int{"max_projects": in.MaxProjects, "max_specs": in.MaxSpecs} {
		if limit != nil && *limit < 0 {
			return nil, apperr.NewValidationError(field, "must not be negative")
		}
	}

	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = "USD"
	}

	plan := &ds.Plan{
		Name:         name,
		Price:        in.Price,
		Currency:     currency,
		DurationDays: in.DurationDays,
		MaxProjects:  in.MaxProjects,
		MaxSpecs:     in.MaxSpecs,
		Features:     in.Features,
		IsActive:     true,
	}
	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	s.log.WithField("plan", plan.Name).Info("plan created")
	return plan, nil
}

// Active возвращает активную подписку пользователя.
func (s *Subscriptions) Active(ctx context.Context, userID uint) (*ds.Subscription, error) {
	sub, err := s.store.ActiveSubscription(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("active subscription: %w", apperr.ErrNotFoundOrDenied)
	}
	return sub, nil
}

// Subscribe подписывает пользователя на тариф. Пока есть активная подписка,
// новая не создаётся.
func (s *Subscriptions) Subscribe(ctx context.Context, userID, planID uint) (*ds.Subscription, error) {
	var sub *ds.Subscription
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		plan, err := s.store.PlanByID(ctx, planID)
		if err != nil {
			return fmt.Errorf("plan %d: %w", planID, err)
		}
		if !plan.IsActive {
			return fmt.Errorf("plan %d: %w", planID, apperr.ErrNotFoundOrDenied)
		}

		active, err := s.store.ActiveSubscription(ctx, userID)
		if err != nil {
			return fmt.Errorf("load subscription: %w", err)
		}
		if active != nil {
			return fmt.Errorf("subscription %d is still active: %w", active.ID, apperr.ErrConflict)
		}

		sub, err = s.create(ctx, userID, plan)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// create заводит подписку. Счётчики - лимиты тарифа за вычетом уже живых
// проектов и спецификаций пользователя.
func (s *Subscriptions) create(ctx context.Context, userID uint, plan *ds.Plan) (*ds.Subscription, error) {
	projects, specs, err := s.usage(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sub := &ds.Subscription{
		UserID:            userID,
		PlanID:            plan.ID,
		Status:            ds.SubscriptionActive,
		RemainingProjects: remainingLimit(plan.MaxProjects, projects),
		RemainingSpecs:    remainingLimit(plan.MaxSpecs, specs),
		StartsAt:          now,
	}
	if plan.DurationDays > 0 {
		expires := now.AddDate(0, 0, plan.DurationDays)
		sub.ExpiresAt = &expires
	}

	if err := s.store.CreateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	sub.Plan = *plan

	s.log.WithFields(logrus.Fields{"user_id": userID, "plan": plan.Name}).Info("subscribed")
	return sub, nil
}

// Cancel отменяет активную подписку. После отмены квоты не проверяются.
func (s *Subscriptions) Cancel(ctx context.Context, userID uint) error {
	return s.store.RunInTx(ctx, func(ctx context.Context) error {
		sub, err := s.Active(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.store.SetSubscriptionStatus(ctx, sub.ID, ds.SubscriptionCancelled); err != nil {
			return fmt.Errorf("cancel subscription: %w", err)
		}
		s.log.WithField("user_id", userID).Info("subscription cancelled")
		return nil
	})
}

// usage считает живые проекты и спецификации пользователя.
func (s *Subscriptions) usage(ctx context.Context, userID uint) (projects, specs int, err error) {
	list, err := s.store.ListProjects(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("list projects: %w", err)
	}
	for _, project := range list {
		projectSpecs, err := s.store.ListSpecs(ctx, project.ID)
		if err != nil {
			return 0, 0, fmt.Errorf("list specs: %w", err)
		}
		specs += len(projectSpecs)
	}
	return len(list), specs, nil
}

func remainingLimit(limit *int, used int) *int {
	if limit == nil {
		return nil
	}
	left := max(*limit-used, 0)
	return &left
}
