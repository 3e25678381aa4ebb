package repository

import (
	"context"

	"pipespec/internal/app/ds"
)

// Методы для работы с пользователями

func (r *Repository) UserByID(ctx context.Context, id uint) (*ds.User, error) {
	var user ds.User
	if err := r.conn(ctx).First(&user, id).Error; err != nil {
		return nil, mapErr("get user", err)
	}
	return &user, nil
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (*ds.User, error) {
	var user ds.User
	if err := r.conn(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		return nil, mapErr("get user by email", err)
	}
	return &user, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *ds.User) error {
	return mapErr("create user", r.conn(ctx).Create(user).Error)
}

func (r *Repository) SaveUser(ctx context.Context, user *ds.User) error {
	return mapErr("save user", r.conn(ctx).Save(user).Error)
}
