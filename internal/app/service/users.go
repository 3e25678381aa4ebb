package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/ds"
	"pipespec/internal/app/role"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Users struct {
	store       Store
	subs        *Subscriptions
	defaultPlan string
	hashCost    int
	now         func() time.Time
	log         *logrus.Entry
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type ProfileInput struct {
	Name     *string
	Password *string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *Users) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), u.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Register создаёт пользователя. Мягко удалённый пользователь с тем же email
// восстанавливается и перезаписывается. Если задан тариф по умолчанию,
// пользователь сразу на него подписывается.
func (u *Users) Register(ctx context.Context, in RegisterInput) (*ds.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, apperr.NewValidationError("email", "required")
	}
	if len(in.Password) < 6 {
		return nil, apperr.NewValidationError("password", "must be at least 6 characters")
	}

	hashed, err := u.hash(in.Password)
	if err != nil {
		return nil, err
	}

	var user *ds.User
	err = u.store.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := u.store.UserByEmail(ctx, email)
		switch {
		case err == nil && !existing.IsDeleted:
			return fmt.Errorf("user %s: %w", email, apperr.ErrDuplicateKey)
		case err == nil:
			existing.Name = in.Name
			existing.Password = hashed
			existing.Role = role.User
			existing.IsDeleted = false
			existing.LastLoginAt = nil
			if err := u.store.SaveUser(ctx, existing); err != nil {
				return fmt.Errorf("restore user: %w", err)
			}
			user = existing
			u.log.WithField("user_id", user.ID).Info("deleted user restored")
		case errors.Is(err, apperr.ErrNotFoundOrDenied):
			user = &ds.User{Name: in.Name, Email: email, Password: hashed, Role: role.User}
			if err := u.store.CreateUser(ctx, user); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
		default:
			return fmt.Errorf("find user: %w", err)
		}

		if u.defaultPlan == "" {
			return nil
		}
		return u.subscribeDefault(ctx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (u *Users) subscribeDefault(ctx context.Context, userID uint) error {
	plan, err := u.store.PlanByName(ctx, u.defaultPlan)
	if errors.Is(err, apperr.ErrNotFoundOrDenied) {
		u.log.WithField("plan", u.defaultPlan).Warn("default plan not found, user left without subscription")
		return nil
	}
	if err != nil {
		return fmt.Errorf("default plan: %w", err)
	}

	active, err := u.store.ActiveSubscription(ctx, userID)
	if err != nil {
		return fmt.Errorf("load subscription: %w", err)
	}
	if active != nil {
		return nil
	}

	_, err = u.subs.create(ctx, userID, plan)
	return err
}

// Authenticate проверяет пару email/пароль. Неизвестный email и неверный
// пароль дают одну и ту же ошибку.
func (u *Users) Authenticate(ctx context.Context, email, password string) (*ds.User, error) {
	user, err := u.store.UserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperr.ErrNotFoundOrDenied) {
		return nil, apperr.ErrInvalidCredential
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.IsDeleted {
		return nil, apperr.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredential
	}

	now := u.now()
	user.LastLoginAt = &now
	if err := u.store.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save last login: %w", err)
	}

	return user, nil
}

// Profile возвращает активного пользователя.
func (u *Users) Profile(ctx context.Context, userID uint) (*ds.User, error) {
	user, err := u.store.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, err)
	}
	if user.IsDeleted {
		return nil, fmt.Errorf("user %d: %w", userID, apperr.ErrNotFoundOrDenied)
	}
	return user, nil
}

func (u *Users) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*ds.User, error) {
	user, err := u.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return nil, apperr.NewValidationError("password", "must be at least 6 characters")
		}
		if user.Password, err = u.hash(*in.Password); err != nil {
			return nil, err
		}
	}

	if err := u.store.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// DeleteProfile мягко удаляет пользователя и отменяет его подписку.
func (u *Users) DeleteProfile(ctx context.Context, userID uint) error {
	return u.store.RunInTx(ctx, func(ctx context.Context) error {
		user, err := u.Profile(ctx, userID)
		if err != nil {
			return err
		}
		user.IsDeleted = true
		if err := u.store.SaveUser(ctx, user); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}

		sub, err := u.store.ActiveSubscription(ctx, userID)
		if err != nil {
			return fmt.Errorf("load subscription: %w", err)
		}
		if sub != nil {
			if err := u.store.SetSubscriptionStatus(ctx, sub.ID, ds.SubscriptionCancelled); err != nil {
				return fmt.Errorf("cancel subscription: %w", err)
			}
		}

		u.log.WithField("user_id", userID).Info("user deleted")
		return nil
	})
}
