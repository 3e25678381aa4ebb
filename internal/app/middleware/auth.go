package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/auth"
	"pipespec/internal/app/ds"
	"pipespec/internal/app/dto"
	"pipespec/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const principalKey = "principal"

type TokenParser interface {
	Parse(token string) (auth.Principal, error)
}

// Blacklist - отозванные (logout) токены.
type Blacklist interface {
	CheckJWTInBlacklist(ctx context.Context, token string) (bool, error)
}

// Accounts - проверка, что владелец токена не удалён. Для удалённого или
// несуществующего пользователя Profile возвращает apperr.ErrNotFoundOrDenied.
type Accounts interface {
	Profile(ctx context.Context, userID uint) (*ds.User, error)
}

type AuthMiddleware struct {
	tokens     TokenParser
	blacklist  Blacklist
	accounts   Accounts
	cookieName string
}

func NewAuthMiddleware(tokens TokenParser, blacklist Blacklist, accounts Accounts, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:     tokens,
		blacklist:  blacklist,
		accounts:   accounts,
		cookieName: cookieName,
	}
}

// WithAuthCheck middleware для проверки авторизации с ролями.
// Без ролей пускает любого аутентифицированного пользователя.
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		jwtStr := am.extractToken(gCtx)
		if jwtStr == "" {
			abort(gCtx, http.StatusUnauthorized, "требуется авторизация")
			return
		}

		// Проверяем токен в blacklist Redis
		if am.blacklist != nil {
			revoked, err := am.blacklist.CheckJWTInBlacklist(gCtx.Request.Context(), jwtStr)
			if err != nil {
				logrus.WithError(err).Error("blacklist check failed")
				abort(gCtx, http.StatusInternalServerError, "internal server error")
				return
			}
			if revoked {
				abort(gCtx, http.StatusUnauthorized, "сессия завершена")
				return
			}
		}

		principal, err := am.tokens.Parse(jwtStr)
		if err != nil {
			logrus.WithError(err).Debug("token rejected")
			abort(gCtx, http.StatusUnauthorized, "недействительный токен")
			return
		}

		// Токены удалённого пользователя больше не действуют
		if am.accounts != nil {
			_, err := am.accounts.Profile(gCtx.Request.Context(), principal.ID)
			if errors.Is(err, apperr.ErrNotFoundOrDenied) {
				abort(gCtx, http.StatusUnauthorized, "учётная запись удалена")
				return
			}
			if err != nil {
				logrus.WithError(err).WithField("user_id", principal.ID).Error("account check failed")
				abort(gCtx, http.StatusInternalServerError, "internal server error")
				return
			}
		}

		// Проверяем роли пользователя
		if len(assignedRoles) > 0 && !hasRequiredRole(principal.Role, assignedRoles) {
			abort(gCtx, http.StatusForbidden, "недостаточно прав")
			return
		}

		gCtx.Set(principalKey, principal)
		gCtx.Next()
	}
}

// extractToken берёт токен из Authorization: Bearer или из cookie.
func (am *AuthMiddleware) extractToken(gCtx *gin.Context) string {
	if header := gCtx.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return strings.TrimSpace(header)
	}
	if am.cookieName != "" {
		if cookie, err := gCtx.Cookie(am.cookieName); err == nil {
			return cookie
		}
	}
	return ""
}

func hasRequiredRole(userRole role.Role, requiredRoles []role.Role) bool {
	for _, requiredRole := range requiredRoles {
		if userRole == requiredRole {
			return true
		}
	}
	return false
}

// PrincipalFrom возвращает пользователя, установленный WithAuthCheck.
func PrincipalFrom(gCtx *gin.Context) (auth.Principal, bool) {
	v, ok := gCtx.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// SetPrincipal кладёт пользователя в контекст (нужен тестам обработчиков).
func SetPrincipal(gCtx *gin.Context, p auth.Principal) {
	gCtx.Set(principalKey, p)
}

func abort(gCtx *gin.Context, status int, message string) {
	gCtx.AbortWithStatusJSON(status, dto.Response{Success: false, Error: message})
}
