package handler

import (
	"net/http"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/dto"
	"pipespec/internal/app/service"
	"pipespec/internal/app/storage"

	"github.com/gin-gonic/gin"
)

func projectInput(r dto.ProjectRequest) service.ProjectInput {
	return service.ProjectInput{
		ProjectCode: r.ProjectCode,
		Name:        r.Name,
		Company:     r.Company,
		Client:      r.Client,
		Location:    r.Location,
	}
}

// ============ ДОМЕН ПРОЕКТЫ ============

// CreateProject создание проекта
// @Summary Создание проекта
// @Description Списывает единицу remaining_projects. Удалённый проект с тем же кодом восстанавливается
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProjectRequest true "Проект"
// @Success 201 {object} dto.Response{data=dto.ProjectResponse}
// @Failure 400 {object} dto.Response
// @Failure 403 {object} dto.Response "Лимит тарифа исчерпан"
// @Failure 409 {object} dto.Response
// @Router /api/projects [post]
func (h *Handler) CreateProject(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}

	var request dto.ProjectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.bindError(c, err)
		return
	}

	project, err := h.Services.Projects.Create(c.Request.Context(), principal.ID, projectInput(request))
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusCreated, "проект создан", dto.NewProjectResponse(project))
}

// GetProjects проекты пользователя
// @Summary Список проектов
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=dto.ListData[dto.ProjectResponse]}
// @Router /api/projects [get]
func (h *Handler) GetProjects(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}

	projects, err := h.Services.Projects.List(c.Request.Context(), principal.ID)
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.NewList(dto.Map(projects, dto.NewProjectResponse)))
}

// GetProject проект по ID
// @Summary Проект по ID
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Success 200 {object} dto.Response{data=dto.ProjectResponse}
// @Failure 404 {object} dto.Response
// @Router /api/projects/{id} [get]
func (h *Handler) GetProject(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.Services.Projects.Get(c.Request.Context(), principal.ID, projectID)
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.NewProjectResponse(project))
}

// GetProjectByCode проект по коду
// @Summary Проект по коду
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param code path string true "Код проекта"
// @Success 200 {object} dto.Response{data=dto.ProjectResponse}
// @Failure 404 {object} dto.Response
// @Router /api/projects/code/{code} [get]
func (h *Handler) GetProjectByCode(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}

	project, err := h.Services.Projects.GetByCode(c.Request.Context(), principal.ID, c.Param("code"))
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.NewProjectResponse(project))
}

// UpdateProject изменение проекта
// @Summary Изменение проекта
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param request body dto.ProjectRequest true "Проект"
// @Success 200 {object} dto.Response{data=dto.ProjectResponse}
// @Failure 404 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /api/projects/{id} [put]
func (h *Handler) UpdateProject(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var request dto.ProjectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.bindError(c, err)
		return
	}

	project, err := h.Services.Projects.Update(c.Request.Context(), principal.ID, projectID, projectInput(request))
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "проект обновлён", dto.NewProjectResponse(project))
}

// DeleteProject удаление проекта
// @Summary Удаление проекта
// @Description Мягкое удаление, единица remaining_projects возвращается
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/projects/{id} [delete]
func (h *Handler) DeleteProject(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Services.Projects.Delete(c.Request.Context(), principal.ID, projectID); err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "проект удалён", nil)
}

// UploadProjectLogo загрузка логотипа
// @Summary Загрузка логотипа проекта
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param logo formData file true "Изображение (jpg, png, gif, webp, svg)"
// @Success 200 {object} dto.Response{data=dto.ProjectResponse}
// @Failure 400 {object} dto.Response
// @Failure 503 {object} dto.Response "Хранилище не настроено"
// @Router /api/projects/{id}/logo [post]
func (h *Handler) UploadProjectLogo(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("logo")
	if err != nil {
		h.errorHandler(c, apperr.NewValidationError("logo", "file is required"))
		return
	}
	if file.Size > storage.MaxLogoSize {
		h.errorHandler(c, apperr.NewValidationError("logo", "file is too large"))
		return
	}

	src, err := file.Open()
	if err != nil {
		h.errorHandler(c, err)
		return
	}
	defer src.Close()

	project, err := h.Services.Projects.UploadLogo(c.Request.Context(), principal.ID, projectID, file.Filename, src, file.Size)
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "логотип загружен", dto.NewProjectResponse(project))
}

// GetProjectLogo ссылка на логотип
// @Summary Временная ссылка на логотип проекта
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Success 200 {object} dto.Response{data=dto.LogoResponse}
// @Failure 404 {object} dto.Response
// @Failure 503 {object} dto.Response
// @Router /api/projects/{id}/logo [get]
func (h *Handler) GetProjectLogo(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	url, err := h.Services.Projects.LogoURL(c.Request.Context(), principal.ID, projectID)
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.LogoResponse{URL: url})
}

// GetProjectCatalog все справочники проекта
// @Summary Объединённые справочники проекта
// @Description Рейтинги, schedule, размеры и описания компонентов с учётом записей проекта
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Success 200 {object} dto.Response{data=service.ProjectCatalog}
// @Failure 404 {object} dto.Response
// @Router /api/projects/{id}/catalog [get]
func (h *Handler) GetProjectCatalog(c *gin.Context) {
	principal, ok := h.currentUser(c)
	if !ok {
		return
	}
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	overview, err := h.Services.CatalogOverview(c.Request.Context(), principal.ID, projectID)
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "", overview)
}

// GetComponents справочник компонентов
// @Summary Список компонентов
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=dto.ListData[ds.Component]}
// @Router /api/components [get]
func (h *Handler) GetComponents(c *gin.Context) {
	components, err := h.Services.Components.List(c.Request.Context())
	if err != nil {
		h.errorHandler(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.NewList(components))
}
