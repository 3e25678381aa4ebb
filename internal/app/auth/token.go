// Package auth выпускает и проверяет JWT пользователей.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/config"
	"pipespec/internal/app/ds"
	"pipespec/internal/app/role"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

// Principal - аутентифицированный пользователь запроса.
type Principal struct {
	ID    uint
	Email string
	Role  role.Role
	// Token и ExpiresAt нужны для logout
	Token     string
	ExpiresAt time.Time
}

func (p Principal) IsAdmin() bool { return p.Role == role.Admin }

type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	method := cfg.SigningMethod
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	return &TokenManager{
		secret: []byte(cfg.Token),
		method: method,
		ttl:    cfg.ExpiresIn,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue подписывает токен для пользователя.
func (m *TokenManager) Issue(user *ds.User) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := &ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(), // у каждой сессии свой токен
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    m.issuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	token, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse проверяет подпись и срок токена.
func (m *TokenManager) Parse(tokenStr string) (Principal, error) {
	claims := &ds.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != m.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return Principal{}, fmt.Errorf("token expired: %w", apperr.ErrUnauthenticated)
		}
		return Principal{}, fmt.Errorf("parse token: %w", apperr.ErrUnauthenticated)
	}
	if !token.Valid || claims.UserID == 0 {
		return Principal{}, fmt.Errorf("invalid token: %w", apperr.ErrUnauthenticated)
	}

	return Principal{
		ID:        claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		Token:     tokenStr,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}
