package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/auth"
	"pipespec/internal/app/config"
	"pipespec/internal/app/dto"
	"pipespec/internal/app/middleware"
	"pipespec/internal/app/service"
	"pipespec/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// TokenBlacklist - куда logout складывает отозванные токены.
type TokenBlacklist interface {
	WriteJWTToBlacklist(ctx context.Context, jwtStr string, ttl time.Duration) error
}

// Handler содержит обработчики REST API
type Handler struct {
	Services  *service.Services
	Tokens    *auth.TokenManager
	Blacklist TokenBlacklist
	JWT       config.JWTConfig
}

func NewHandler(s *service.Services, tokens *auth.TokenManager, blacklist TokenBlacklist, jwtCfg config.JWTConfig) *Handler {
	return &Handler{
		Services:  s,
		Tokens:    tokens,
		Blacklist: blacklist,
		JWT:       jwtCfg,
	}
}

// ============ Вспомогательные функции ============

func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.Response{
		Success: false,
		Error:   message,
	})
}

func (h *Handler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, dto.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// errorHandler переводит ошибку сервиса в HTTP-ответ
func (h *Handler) errorHandler(c *gin.Context, err error) {
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, dto.Response{
			Success: false,
			Error:   "ошибка валидации",
			Data:    dto.ValidationErrorData{Fields: verr.Errors},
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrLogosDisabled):
		h.errorResponse(c, http.StatusServiceUnavailable, "хранилище логотипов не настроено")
		return
	case errors.Is(err, storage.ErrUnsupportedImage):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	switch apperr.Kind(err) {
	case apperr.ErrNotFoundOrDenied:
		// чужое и несуществующее неразличимы
		h.errorResponse(c, http.StatusNotFound, "не найдено")
	case apperr.ErrQuotaExceeded:
		h.errorResponse(c, http.StatusForbidden, "лимит тарифа исчерпан")
	case apperr.ErrDuplicateKey:
		h.errorResponse(c, http.StatusConflict, "запись с таким ключом уже существует")
	case apperr.ErrConflict:
		h.errorResponse(c, http.StatusConflict, "операция конфликтует с текущим состоянием")
	case apperr.ErrInvalidCredential:
		h.errorResponse(c, http.StatusUnauthorized, "неверный email или пароль")
	case apperr.ErrUnauthenticated:
		h.errorResponse(c, http.StatusUnauthorized, "требуется авторизация")
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": middleware.RequestIDFrom(c),
		}).Error("request failed")
		h.errorResponse(c, http.StatusInternalServerError, "internal server error")
	}
}

// bindError отвечает 400 на невалидное тело запроса
func (h *Handler) bindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		h.errorResponse(c, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	fields := make([]apperr.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, apperr.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	h.errorHandler(c, &apperr.ValidationError{Errors: fields})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email"
	case pipeCodeTag:
		return "must contain only letters, digits and - _ . / #"
	case "min", "max", "len", "gte", "gt", "lte":
		return fe.Tag() + "=" + fe.Param()
	}
	return "invalid value"
}

// currentUser возвращает пользователя, установленного AuthMiddleware
func (h *Handler) currentUser(c *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "требуется авторизация")
	}
	return p, ok
}

// pathID читает числовой параметр пути
func (h *Handler) pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		h.errorHandler(c, apperr.NewValidationError(name, "must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}
