package handler

import (
	"net/http"

	"pipespec/internal/app/dto"
	"pipespec/internal/app/service"

	"github.com/gin-gonic/gin"
)

func specInput(r dto.SpecRequest) service.SpecInput {
	return service.SpecInput{
		SpecName:           r.SpecName,
		RatingCode:         r.RatingCode,
		BaseMaterial:       r.BaseMaterial,
		CorrosionAllowance: r.CorrosionAllowance,
		Description:        r.Description,
	}
}

// specPath читает ID проекта и спецификации из пути
func (h *Handler) specPath(c *gin.Context) (projectID, specID uint, ok bool) {
	if projectID, ok = h.pathID(c, "id"); !ok {
		return
	}
	specID, ok = h.pathID(c, "specId")
	return
}

// ============ ДОМЕН СПЕЦИФИКАЦИИ ============

// CreateSpec создание спецификации
// @Summary Создание спецификации
// @Description Код рейтинга должен быть в объединённом справочнике проекта. Списывает единицу remaining_specs
// @Tags Specs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param request body dto.SpecRequest true "Спецификация"
// @Success 201 {object} dto.Response{data=dto.SpecResponse}
// @Failure 400 {object} dto.Response
// @Failure 403 {object} dto.Response "Лимит тарифа исчерпан"
// @Failure 404 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /api/projects/{id}/specs [post]
func (h *Handler) CreateSpec(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var request dto.SpecRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.bindError(c, err)
		return
	}

	spec, err := h.Services.Specs.Create(c.Request.Context(), principal.ID, projectID, specInput(request))
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusCreated, "спецификация создана", dto.NewSpecResponse(spec))
}

// GetSpecs спецификации проекта
// @Summary Список спецификаций проекта
// @Tags Specs
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Success 200 {object} dto.Response{data=dto.ListData[dto.SpecResponse]}
// @Failure 404 {object} dto.Response
// @Router /api/projects/{id}/specs [get]
func (h *Handler) GetSpecs(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	specs, err := h.Services.Specs.List(c.Request.Context(), principal.ID, projectID)
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.NewList(dto.Map(specs, dto.NewSpecResponse)))
}

// GetSpec спецификация по ID
// @Summary Спецификация по ID
// @Tags Specs
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param specId path int true "ID спецификации"
// @Success 200 {object} dto.Response{data=dto.SpecResponse}
// @Failure 404 {object} dto.Response
// @Router /api/projects/{id}/specs/{specId} [get]
func (h *Handler) GetSpec(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}
	projectID, specID, ok := h.specPath(c)
	if !ok {
		return
	}

	spec, err := h.Services.Specs.Get(c.Request.Context(), principal.ID, projectID, specID)
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.NewSpecResponse(spec))
}

// UpdateSpec изменение спецификации
// @Summary Изменение спецификации
// @Tags Specs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param specId path int true "ID спецификации"
// @Param request body dto.SpecRequest true "Спецификация"
// @Success 200 {object} dto.Response{data=dto.SpecResponse}
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /api/projects/{id}/specs/{specId} [put]
func (h *Handler) UpdateSpec(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}
	projectID, specID, ok := h.specPath(c)
	if !ok {
		return
	}

	var request dto.SpecRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.bindError(c, err)
		return
	}

	spec, err := h.Services.Specs.Update(c.Request.Context(), principal.ID, projectID, specID, specInput(request))
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "спецификация обновлена", dto.NewSpecResponse(spec))
}

// DeleteSpec удаление спецификации
// @Summary Удаление спецификации
// @Description Мягкое удаление, единица remaining_specs возвращается
// @Tags Specs
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param specId path int true "ID спецификации"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/projects/{id}/specs/{specId} [delete]
func (h *Handler) DeleteSpec(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}
	projectID, specID, ok := h.specPath(c)
	if !ok {
		return
	}

	if err := h.Services.Specs.Delete(c.Request.Context(), principal.ID, projectID, specID); err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "спецификация удалена", nil)
}
