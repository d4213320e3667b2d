package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenda-academica/academic-service/internal/repositories"
	"github.com/agenda-academica/academic-service/internal/services"
	"github.com/agenda-academica/academic-service/internal/utils"
	"github.com/agenda-academica/academic-service/internal/validator"
)

// ===== INSTITUTIONS =====

type InstitutionHandler struct {
	BaseHandler
	service services.InstitutionService
}

func NewInstitutionHandler(service services.InstitutionService, logger utils.Logger) *InstitutionHandler {
	return &InstitutionHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Create registers an institution
// @Summary Create institution
// @Tags instituicoes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param institution body validator.InstitutionRequest true "Institution"
// @Success 201 {object} Response{data=models.Institution}
// @Failure 400 {object} ErrorResponse
// @Router /instituicoes [post]
func (h *InstitutionHandler) Create(c *gin.Context) {
	var req validator.InstitutionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	inst, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusCreated, inst, "Instituição cadastrada com sucesso")
}

// @Summary List institutions
// @Tags instituicoes
// @Router /instituicoes [get]
func (h *InstitutionHandler) List(c *gin.Context) {
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, "Instituições encontradas")
}

// @Summary Get institution
// @Tags instituicoes
// @Router /instituicoes/{id} [get]
func (h *InstitutionHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	inst, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, inst, "Instituição encontrada")
}

// @Summary Rename institution
// @Tags instituicoes
// @Router /instituicoes/{id} [put]
func (h *InstitutionHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req validator.InstitutionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	inst, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, inst, "Instituição atualizada com sucesso")
}

// @Summary Delete institution
// @Tags instituicoes
// @Failure 409 {object} ErrorResponse "Still referenced by courses or users"
// @Router /instituicoes/{id} [delete]
func (h *InstitutionHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.deleted(c, id, "Instituição removida com sucesso")
}

// ===== COURSES =====

type CourseHandler struct {
	BaseHandler
	service services.CourseService
}

func NewCourseHandler(service services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// @Summary Create course
// @Tags cursos
// @Router /cursos [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req validator.CourseCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusCreated, course, "Curso cadastrado com sucesso")
}

// List lists courses, optionally those of one institution
// @Summary List courses
// @Tags cursos
// @Param id_instituicao query int false "Institution filter"
// @Router /cursos [get]
func (h *CourseHandler) List(c *gin.Context) {
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}
	institutionID, ok := h.parseOptionalUintQuery(c, "id_instituicao")
	if !ok {
		return
	}

	filters := repositories.CourseFilters{InstitutionID: institutionID}
	result, err := h.service.List(c.Request.Context(), filters, page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, "Cursos encontrados")
}

// @Summary Get course
// @Tags cursos
// @Router /cursos/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, course, "Curso encontrado")
}

// @Summary Update course
// @Tags cursos
// @Router /cursos/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req validator.CourseUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, course, "Curso atualizado com sucesso")
}

// @Summary Delete course
// @Tags cursos
// @Router /cursos/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.deleted(c, id, "Curso removido com sucesso")
}

// ListDisciplines returns the curriculum of a course
// @Summary List course disciplines
// @Tags cursos
// @Router /cursos/{id}/disciplinas [get]
func (h *CourseHandler) ListDisciplines(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListDisciplines(c.Request.Context(), id, page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, "Disciplinas do curso encontradas")
}

// @Summary Add discipline to course
// @Tags cursos
// @Failure 409 {object} ErrorResponse "Already linked"
// @Router /cursos/{id}/disciplinas [post]
func (h *CourseHandler) AddDiscipline(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req validator.CourseDisciplineRequest
	if !h.bindJSON(c, &req) {
		return
	}

	link, err := h.service.AddDiscipline(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusCreated, link, "Disciplina vinculada ao curso")
}

// @Summary Change the module of a course discipline
// @Tags cursos
// @Router /cursos/{id}/disciplinas/{id_disciplina} [put]
func (h *CourseHandler) UpdateDiscipline(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	disciplineID, ok := h.parseIDParam(c, "id_disciplina")
	if !ok {
		return
	}
	var req validator.CourseDisciplineUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	link, err := h.service.UpdateDiscipline(c.Request.Context(), id, disciplineID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, link, "Vínculo atualizado com sucesso")
}

// @Summary Remove discipline from course
// @Tags cursos
// @Router /cursos/{id}/disciplinas/{id_disciplina} [delete]
func (h *CourseHandler) RemoveDiscipline(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	disciplineID, ok := h.parseIDParam(c, "id_disciplina")
	if !ok {
		return
	}

	if err := h.service.RemoveDiscipline(c.Request.Context(), id, disciplineID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.deleted(c, disciplineID, "Disciplina desvinculada do curso")
}

// ===== DISCIPLINES =====

type DisciplineHandler struct {
	BaseHandler
	service services.DisciplineService
}

func NewDisciplineHandler(service services.DisciplineService, logger utils.Logger) *DisciplineHandler {
	return &DisciplineHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

func (h *DisciplineHandler) Create(c *gin.Context) {
	var req validator.DisciplineCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	discipline, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusCreated, discipline, "Disciplina cadastrada com sucesso")
}

func (h *DisciplineHandler) List(c *gin.Context) {
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, "Disciplinas encontradas")
}

func (h *DisciplineHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	discipline, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, discipline, "Disciplina encontrada")
}

// Update serves both PUT and PATCH; the only field is the name
func (h *DisciplineHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req validator.DisciplineUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	discipline, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, discipline, "Disciplina atualizada com sucesso")
}

func (h *DisciplineHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.deleted(c, id, "Disciplina removida com sucesso")
}

func (h *DisciplineHandler) ListTeachers(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListTeachers(c.Request.Context(), id, page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, "Docentes da disciplina encontrados")
}

// AddTeacher links one of the caller's teachers to a discipline
func (h *DisciplineHandler) AddTeacher(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	teacherID, ok := h.parseIDParam(c, "id_docente")
	if !ok {
		return
	}

	if err := h.service.AddTeacher(c.Request.Context(), user, id, teacherID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusCreated, gin.H{"id_disciplina": id, "id_docente": teacherID}, "Docente vinculado à disciplina")
}

func (h *DisciplineHandler) RemoveTeacher(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	teacherID, ok := h.parseIDParam(c, "id_docente")
	if !ok {
		return
	}

	if err := h.service.RemoveTeacher(c.Request.Context(), user, id, teacherID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.deleted(c, teacherID, "Docente desvinculado da disciplina")
}

// ===== DATE TYPES =====

type DateTypeHandler struct {
	BaseHandler
	service services.DateTypeService
}

func NewDateTypeHandler(service services.DateTypeService, logger utils.Logger) *DateTypeHandler {
	return &DateTypeHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

func (h *DateTypeHandler) Create(c *gin.Context) {
	var req validator.DateTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	dateType, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusCreated, dateType, "Tipo de data cadastrado com sucesso")
}

func (h *DateTypeHandler) List(c *gin.Context) {
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, "Tipos de data encontrados")
}

func (h *DateTypeHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	dateType, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, dateType, "Tipo de data encontrado")
}

func (h *DateTypeHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req validator.DateTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	dateType, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, dateType, "Tipo de data atualizado com sucesso")
}

func (h *DateTypeHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.deleted(c, id, "Tipo de data removido com sucesso")
}
