package handler

import (
	"net/http"

	"pipespec/internal/app/dto"
	"pipespec/internal/app/service"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// ============ ДОМЕН ТАРИФЫ ============

// GetPlans список активных тарифов
// @Summary Список тарифов
// @Tags Plans
// @Produce json
// @Success 200 {object} dto.Response{data=dto.ListData[dto.PlanResponse]}
// @Router /api/plans [get]
func (h *Handler) GetPlans(c *gin.Context) {
	plans, err := h.Services.Subscriptions.Plans(c.Request.Context())
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.NewList(dto.Map(plans, dto.NewPlanResponse)))
}

// CreatePlan создание тарифа
// @Summary Создание тарифа
// @Description Только для администратора. Пустой лимит означает отсутствие ограничения
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePlanRequest true "Тариф"
// @Success 201 {object} dto.Response{data=dto.PlanResponse}
// @Failure 400 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /api/plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	var request dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.bindError(c, err)
		return
	}

	plan, err := h.Services.Subscriptions.CreatePlan(c.Request.Context(), service.PlanInput{
		Name:         request.Name,
		Price:        request.Price,
		Currency:     request.Currency,
		DurationDays: request.DurationDays,
		MaxProjects:  request.MaxProjects,
		MaxSpecs:     request.MaxSpecs,
		Features:     datatypes.JSON(request.Features),
	})
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusCreated, "тариф создан", dto.NewPlanResponse(plan))
}

// ============ ДОМЕН ПОДПИСКА ============

// GetSubscription активная подписка пользователя
// @Summary Активная подписка
// @Tags Subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=dto.SubscriptionResponse}
// @Failure 404 {object} dto.Response
// @Router /api/subscription [get]
func (h *Handler) GetSubscription(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}

	sub, err := h.Services.Subscriptions.Active(c.Request.Context(), principal.ID)
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.NewSubscriptionResponse(sub))
}

// Subscribe оформление подписки
// @Summary Оформление подписки
// @Description Счётчики копируются из лимитов тарифа. Пока есть активная подписка, возвращается 409
// @Tags Subscription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubscribeRequest true "Тариф"
// @Success 201 {object} dto.Response{data=dto.SubscriptionResponse}
// @Failure 404 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /api/subscription [post]
func (h *Handler) Subscribe(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}

	var request dto.SubscribeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.bindError(c, err)
		return
	}

	sub, err := h.Services.Subscriptions.Subscribe(c.Request.Context(), principal.ID, request.PlanID)
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusCreated, "подписка оформлена", dto.NewSubscriptionResponse(sub))
}

// CancelSubscription отмена подписки
// @Summary Отмена подписки
// @Tags Subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/subscription/cancel [put]
func (h *Handler) CancelSubscription(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.Services.Subscriptions.Cancel(c.Request.Context(), principal.ID); err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "подписка отменена", nil)
}
