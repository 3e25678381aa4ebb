package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pipespec/internal/app/ds"
	"pipespec/internal/app/quota"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Тарифы

func (r *Repository) ListPlans(ctx context.Context, onlyActive bool) ([]ds.Plan, error) {
	var plans []ds.Plan
	q := r.conn(ctx).Order("price ASC, id ASC")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&plans).Error; err != nil {
		return nil, mapErr("list plans", err)
	}
	return plans, nil
}

func (r *Repository) PlanByID(ctx context.Context, id uint) (*ds.Plan, error) {
	var plan ds.Plan
	if err := r.conn(ctx).First(&plan, id).Error; err != nil {
		return nil, mapErr("get plan", err)
	}
	return &plan, nil
}

func (r *Repository) PlanByName(ctx context.Context, name string) (*ds.Plan, error) {
	var plan ds.Plan
	if err := r.conn(ctx).Where("name = ?", name).Take(&plan).Error; err != nil {
		return nil, mapErr("get plan by name", err)
	}
	return &plan, nil
}

func (r *Repository) CreatePlan(ctx context.Context, plan *ds.Plan) error {
	return mapErr("create plan", r.conn(ctx).Create(plan).Error)
}

// Подписки

// ActiveSubscription возвращает самую свежую активную и не истёкшую подписку
// или nil.
func (r *Repository) ActiveSubscription(ctx context.Context, userID uint) (*ds.Subscription, error) {
	var sub ds.Subscription
	err := r.conn(ctx).
		Preload("Plan").
		Where("user_id = ? AND status = ?", userID, ds.SubscriptionActive).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("created_at DESC, id DESC").
		Take(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr("active subscription", err)
	}
	return &sub, nil
}

func (r *Repository) CreateSubscription(ctx context.Context, sub *ds.Subscription) error {
	return mapErr("create subscription", r.conn(ctx).Omit(clause.Associations).Create(sub).Error)
}

func (r *Repository) SetSubscriptionStatus(ctx context.Context, id uint, status string) error {
	res := r.conn(ctx).Model(&ds.Subscription{}).Where("id = ?", id).Update("status", status)
	return affected("set subscription status", res)
}

func counterColumn(c quota.Counter) (string, error) {
	switch c {
	case quota.Projects, quota.Specs:
		return string(c), nil
	}
	return "", fmt.Errorf("unknown counter %q", c)
}

// DecrementCounter - условное уменьшение: UPDATE ... SET c = c - 1 WHERE c > 0.
// Параллельные запросы не уведут счётчик ниже нуля.
func (r *Repository) DecrementCounter(ctx context.Context, subscriptionID uint, c quota.Counter) (bool, error) {
	col, err := counterColumn(c)
	if err != nil {
		return false, err
	}

	res := r.conn(ctx).Model(&ds.Subscription{}).
		Where("id = ? AND "+col+" IS NOT NULL AND "+col+" > 0", subscriptionID).
		UpdateColumns(map[string]any{
			col:          gorm.Expr(col + " - 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, mapErr("decrement "+col, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// IncrementCounter - условное увеличение: UPDATE ... SET c = c + 1 WHERE c < limit.
func (r *Repository) IncrementCounter(ctx context.Context, subscriptionID uint, c quota.Counter, limit int) (bool, error) {
	col, err := counterColumn(c)
	if err != nil {
		return false, err
	}

	res := r.conn(ctx).Model(&ds.Subscription{}).
		Where("id = ? AND "+col+" IS NOT NULL AND "+col+" < ?", subscriptionID, limit).
		UpdateColumns(map[string]any{
			col:          gorm.Expr(col + " + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, mapErr("increment "+col, res.Error)
	}
	return res.RowsAffected == 1, nil
}
