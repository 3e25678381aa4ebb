package handler

import (
	"net/http"
	"strconv"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/catalog"
	"pipespec/internal/app/ds"
	"pipespec/internal/app/dto"
	"pipespec/internal/app/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler - обработчики одного справочника (рейтинги, schedule, размеры,
// описания компонентов). Маршруты одинаковые, отличаются только атрибуты.
type CatalogHandler[A service.Attrs, K comparable] struct {
	h       *Handler
	catalog *service.Catalog[A, K]
	// filter строит фильтр объединённого списка по query-параметрам
	filter func(c *gin.Context) (func(A) bool, error)
}

func NewCatalogHandler[A service.Attrs, K comparable](h *Handler, c *service.Catalog[A, K]) *CatalogHandler[A, K] {
	return &CatalogHandler[A, K]{h: h, catalog: c}
}

// componentFilter - ?component_id= для описаний компонентов
func componentFilter(c *gin.Context) (func(ds.ComponentDescriptionAttrs) bool, error) {
	raw := c.Query("component_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, apperr.NewValidationError("component_id", "must be a positive integer")
	}
	return func(a ds.ComponentDescriptionAttrs) bool { return a.ComponentID == uint(id) }, nil
}

func (ch *CatalogHandler[A, K]) list(c *gin.Context, entries []catalog.Entry[A]) {
	ch.h.successResponse(c, http.StatusOK, "", dto.NewList(entries))
}

// Defaults справочник по умолчанию
// @Summary Справочник по умолчанию
// @Description domain: ratings, schedules, sizes, component-descriptions
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param domain path string true "Справочник"
// @Success 200 {object} dto.Response
// @Router /api/catalog/defaults/{domain} [get]
func (ch *CatalogHandler[A, K]) Defaults(c *gin.Context) {
	entries, err := ch.catalog.Defaults(c.Request.Context())
	if err != nil {
		ch.h.errorHandler(c, err)
		return
	}
	ch.list(c, entries)
}

// Merged справочник проекта
// @Summary Объединённый справочник проекта
// @Description Записи проекта заменяют записи по умолчанию с тем же ключом
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param domain path string true "Справочник"
// @Param component_id query int false "Только для component-descriptions"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/projects/{id}/{domain} [get]
func (ch *CatalogHandler[A, K]) Merged(c *gin.Context) {
	principal, ok := ch.h.currentUser(c)
	if !ok {
		return
	}
	projectID, ok := ch.h.pathID(c, "id")
	if !ok {
		return
	}

	var keep func(A) bool
	if ch.filter != nil {
		var err error
		if keep, err = ch.filter(c); err != nil {
			ch.h.errorHandler(c, err)
			return
		}
	}

	entries, err := ch.catalog.Merged(c.Request.Context(), principal.ID, projectID)
	if err != nil {
		ch.h.errorHandler(c, err)
		return
	}
	if keep != nil {
		entries = catalog.Filter(entries, keep)
	}
	ch.list(c, entries)
}

// Overrides записи проекта
// @Summary Записи проекта без записей по умолчанию
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param domain path string true "Справочник"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/projects/{id}/{domain}/overrides [get]
func (ch *CatalogHandler[A, K]) Overrides(c *gin.Context) {
	principal, ok := ch.h.currentUser(c)
	if !ok {
		return
	}
	projectID, ok := ch.h.pathID(c, "id")
	if !ok {
		return
	}

	entries, err := ch.catalog.Overrides(c.Request.Context(), principal.ID, projectID)
	if err != nil {
		ch.h.errorHandler(c, err)
		return
	}
	ch.list(c, entries)
}

// Deleted удалённые записи проекта
// @Summary Удалённые записи проекта
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param domain path string true "Справочник"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/projects/{id}/{domain}/deleted [get]
func (ch *CatalogHandler[A, K]) Deleted(c *gin.Context) {
	principal, ok := ch.h.currentUser(c)
	if !ok {
		return
	}
	projectID, ok := ch.h.pathID(c, "id")
	if !ok {
		return
	}

	entries, err := ch.catalog.Deleted(c.Request.Context(), principal.ID, projectID)
	if err != nil {
		ch.h.errorHandler(c, err)
		return
	}
	ch.list(c, entries)
}

// Get запись проекта по ID
// @Summary Запись проекта
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param domain path string true "Справочник"
// @Param entryId path int true "ID записи"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/projects/{id}/{domain}/{entryId} [get]
func (ch *CatalogHandler[A, K]) Get(c *gin.Context) {
	userID, projectID, entryID, ok := ch.entryPath(c)
	if !ok {
		return
	}

	entry, err := ch.catalog.Get(c.Request.Context(), userID, projectID, entryID)
	if err != nil {
		ch.h.errorHandler(c, err)
		return
	}
	ch.h.successResponse(c, http.StatusOK, "", entry)
}

// Create новая запись проекта
// @Summary Создание записи проекта
// @Description Ключ может совпадать с записью по умолчанию, но не с другой активной записью проекта
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param domain path string true "Справочник"
// @Success 201 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /api/projects/{id}/{domain} [post]
func (ch *CatalogHandler[A, K]) Create(c *gin.Context) {
	principal, ok := ch.h.currentUser(c)
	if !ok {
		return
	}
	projectID, ok := ch.h.pathID(c, "id")
	if !ok {
		return
	}

	var attrs A
	if err := c.ShouldBindJSON(&attrs); err != nil {
		ch.h.bindError(c, err)
		return
	}

	entry, err := ch.catalog.Create(c.Request.Context(), principal.ID, projectID, attrs)
	if err != nil {
		ch.h.errorHandler(c, err)
		return
	}
	ch.h.successResponse(c, http.StatusCreated, "запись создана", entry)
}

// Update изменение записи проекта
// @Summary Изменение записи проекта
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param domain path string true "Справочник"
// @Param entryId path int true "ID записи"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /api/projects/{id}/{domain}/{entryId} [put]
func (ch *CatalogHandler[A, K]) Update(c *gin.Context) {
	userID, projectID, entryID, ok := ch.entryPath(c)
	if !ok {
		return
	}

	var attrs A
	if err := c.ShouldBindJSON(&attrs); err != nil {
		ch.h.bindError(c, err)
		return
	}

	entry, err := ch.catalog.Update(c.Request.Context(), userID, projectID, entryID, attrs)
	if err != nil {
		ch.h.errorHandler(c, err)
		return
	}
	ch.h.successResponse(c, http.StatusOK, "запись обновлена", entry)
}

// Delete удаление записи проекта
// @Summary Удаление записи проекта
// @Description Запись получает отметку удаления и остаётся доступной через /deleted
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param domain path string true "Справочник"
// @Param entryId path int true "ID записи"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/projects/{id}/{domain}/{entryId} [delete]
func (ch *CatalogHandler[A, K]) Delete(c *gin.Context) {
	userID, projectID, entryID, ok := ch.entryPath(c)
	if !ok {
		return
	}

	if err := ch.catalog.Delete(c.Request.Context(), userID, projectID, entryID); err != nil {
		ch.h.errorHandler(c, err)
		return
	}
	ch.h.successResponse(c, http.StatusOK, "запись удалена", nil)
}

func (ch *CatalogHandler[A, K]) entryPath(c *gin.Context) (userID, projectID, entryID uint, ok bool) {
	p, ok := ch.h.currentUser(c)
	if !ok {
		return
	}
	if projectID, ok = ch.h.pathID(c, "id"); !ok {
		return
	}
	entryID, ok = ch.h.pathID(c, "entryId")
	return p.ID, projectID, entryID, ok
}

// register вешает маршруты справочника на группы
func (ch *CatalogHandler[A, K]) register(defaults, projects *gin.RouterGroup, path string) {
	defaults.GET("/"+path, ch.Defaults)

	domain := projects.Group("/:id/" + path)
	{
		domain.GET("", ch.Merged)
		domain.POST("", ch.Create)
		domain.GET("/overrides", ch.Overrides)
		domain.GET("/deleted", ch.Deleted)
		domain.GET("/:entryId", ch.Get)
		domain.PUT("/:entryId", ch.Update)
		domain.DELETE("/:entryId", ch.Delete)
	}
}
