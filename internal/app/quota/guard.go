// Package quota ограничивает создание проектов и спецификаций счётчиками
// активной подписки пользователя.
package quota

import (
	"context"
	"fmt"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/ds"

	"github.com/sirupsen/logrus"
)

// Counter - счётчик подписки, значение совпадает с именем колонки.
type Counter string

const (
	Projects Counter = "remaining_projects"
	Specs    Counter = "remaining_specs"
)

// Decision - результат проверки квоты.
type Decision int

const (
	Allowed Decision = iota
	Denied
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

//go:generate mockgen -source=guard.go -destination=mocks/store.go -package=mocks

// Store - хранилище для Guard. Reserve и Release вызываются внутри той же
// транзакции, что и само создание/удаление.
type Store interface {
	// ActiveSubscription возвращает активную подписку или nil, если её нет.
	ActiveSubscription(ctx context.Context, userID uint) (*ds.Subscription, error)
	// DecrementCounter уменьшает счётчик, только если он больше нуля,
	// и сообщает, была ли изменена строка.
	DecrementCounter(ctx context.Context, subscriptionID uint, c Counter) (bool, error)
	// IncrementCounter увеличивает счётчик, только если он не NULL и меньше
	// limit, и сообщает, была ли изменена строка.
	IncrementCounter(ctx context.Context, subscriptionID uint, c Counter, limit int) (bool, error)
}

// Value возвращает счётчик подписки, nil - без ограничений.
func Value(sub *ds.Subscription, c Counter) *int {
	switch c {
	case Projects:
		return sub.RemainingProjects
	case Specs:
		return sub.RemainingSpecs
	}
	return nil
}

// Limit возвращает лимит тарифа для счётчика, nil - без ограничений.
func Limit(plan ds.Plan, c Counter) *int {
	switch c {
	case Projects:
		return plan.MaxProjects
	case Specs:
		return plan.MaxSpecs
	}
	return nil
}

// Check решает, можно ли создать ещё один ресурс. Нет подписки или счётчик
// NULL - ограничений нет.
func Check(sub *ds.Subscription, c Counter) Decision {
	if sub == nil {
		return Allowed
	}
	v := Value(sub, c)
	if v == nil || *v > 0 {
		return Allowed
	}
	return Denied
}

type Guard struct {
	store Store
	log   *logrus.Entry
}

func NewGuard(store Store, log *logrus.Entry) *Guard {
	return &Guard{store: store, log: log.WithField("component", "quota")}
}

// Reserve списывает единицу счётчика c. Если счётчик исчерпан, возвращает
// apperr.ErrQuotaExceeded и ничего не пишет.
func (g *Guard) Reserve(ctx context.Context, userID uint, c Counter) error {
	sub, err := g.store.ActiveSubscription(ctx, userID)
	if err != nil {
		return fmt.Errorf("load subscription: %w", err)
	}
	if sub == nil {
		g.log.WithField("user_id", userID).Debug("no active subscription, quota not enforced")
		return nil
	}

	if Check(sub, c) == Denied {
		g.log.WithFields(logrus.Fields{"user_id": userID, "counter": c}).Info("quota exhausted")
		return fmt.Errorf("%s: %w", c, apperr.ErrQuotaExceeded)
	}
	if Value(sub, c) == nil {
		return nil
	}

	ok, err := g.store.DecrementCounter(ctx, sub.ID, c)
	if err != nil {
		return fmt.Errorf("decrement %s: %w", c, err)
	}
	if !ok {
		// последнюю единицу забрал параллельный запрос
		return fmt.Errorf("%s: %w", c, apperr.ErrQuotaExceeded)
	}
	return nil
}

// Release возвращает единицу счётчика после мягкого удаления. Счётчик не
// поднимается выше лимита тарифа: ресурс мог быть создан до текущей подписки.
func (g *Guard) Release(ctx context.Context, userID uint, c Counter) error {
	sub, err := g.store.ActiveSubscription(ctx, userID)
	if err != nil {
		return fmt.Errorf("load subscription: %w", err)
	}
	if sub == nil || Value(sub, c) == nil {
		return nil
	}
	limit := Limit(sub.Plan, c)
	if limit == nil {
		return nil
	}

	ok, err := g.store.IncrementCounter(ctx, sub.ID, c, *limit)
	if err != nil {
		return fmt.Errorf("increment %s: %w", c, err)
	}
	if !ok {
		g.log.WithFields(logrus.Fields{"user_id": userID, "counter": c}).Debug("counter already at plan limit")
	}
	return nil
}
