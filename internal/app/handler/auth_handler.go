package handler

import (
	"net/http"
	"time"

	"pipespec/internal/app/ds"
	"pipespec/internal/app/dto"
	"pipespec/internal/app/service"

	"github.com/gin-gonic/gin"
)

// issueSession выпускает токен и ставит cookie
func (h *Handler) issueSession(c *gin.Context, user *ds.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := h.Tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.JWT.CookieName, token, int(time.Until(expiresAt).Seconds()), "/", "", false, true)

	return &dto.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(user),
	}, nil
}

// Register регистрация нового пользователя
// @Summary Регистрация пользователя
// @Description Создание пользователя (или восстановление удалённого) и подписка на тариф по умолчанию
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные для регистрации"
// @Success 201 {object} dto.Response{data=dto.AuthResponse}
// @Failure 400 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var request dto.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.bindError(c, err)
		return
	}

	user, err := h.Services.Users.Register(c.Request.Context(), service.RegisterInput{
		Name:     request.Name,
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	resp, err := h.issueSession(c, user)
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusCreated, "пользователь зарегистрирован", resp)
}

// Login аутентификация пользователя
// @Summary Вход в систему
// @Description Проверка пароля, выдача JWT в теле ответа и в cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Данные для входа"
// @Success 200 {object} dto.Response{data=dto.AuthResponse}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var request dto.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.bindError(c, err)
		return
	}

	user, err := h.Services.Users.Authenticate(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	resp, err := h.issueSession(c, user)
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "пользователь авторизован", resp)
}

// Logout выход пользователя из системы
// @Summary Выход из системы
// @Description Токен попадает в blacklist Redis до истечения срока, cookie очищается
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /api/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}

	// Вычисление TTL до истечения токена
	ttl := time.Until(principal.ExpiresAt)
	if h.Blacklist != nil && ttl > 0 {
		if err := h.Blacklist.WriteJWTToBlacklist(c.Request.Context(), principal.Token, ttl); err != nil {
			h.errorHandler(c, err)
			return
		}
	}

	c.SetCookie(h.JWT.CookieName, "", -1, "/", "", false, true)
	h.successResponse(c, http.StatusOK, "пользователь вышел из системы", nil)
}

// GetProfile получение профиля пользователя
// @Summary Профиль пользователя
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=dto.UserResponse}
// @Failure 401 {object} dto.Response
// @Router /api/auth/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}

	user, err := h.Services.Users.Profile(c.Request.Context(), principal.ID)
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.NewUserResponse(user))
}

// UpdateProfile обновление профиля
// @Summary Обновление профиля
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Новое имя и/или пароль"
// @Success 200 {object} dto.Response{data=dto.UserResponse}
// @Failure 400 {object} dto.Response
// @Router /api/auth/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}

	var request dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.bindError(c, err)
		return
	}

	user, err := h.Services.Users.UpdateProfile(c.Request.Context(), principal.ID, service.ProfileInput{
		Name:     request.Name,
		Password: request.Password,
	})
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "профиль обновлён", dto.NewUserResponse(user))
}

// DeleteProfile удаление профиля
// @Summary Удаление профиля
// @Description Мягкое удаление пользователя, активная подписка отменяется
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response
// @Router /api/auth/profile [delete]
func (h *Handler) DeleteProfile(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.Services.Users.DeleteProfile(c.Request.Context(), principal.ID); err != nil {
		h.errorHandler(c, err)
		return
	}

	if h.Blacklist != nil {
		if ttl := time.Until(principal.ExpiresAt); ttl > 0 {
			if err := h.Blacklist.WriteJWTToBlacklist(c.Request.Context(), principal.Token, ttl); err != nil {
				h.errorHandler(c, err)
				return
			}
		}
	}

	c.SetCookie(h.JWT.CookieName, "", -1, "/", "", false, true)
	h.successResponse(c, http.StatusOK, "профиль удалён", nil)
}
