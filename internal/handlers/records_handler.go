package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/repositories"
	"github.com/agenda-academica/academic-service/internal/services"
	"github.com/agenda-academica/academic-service/internal/utils"
	"github.com/agenda-academica/academic-service/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ===== TEACHERS =====

type TeacherHandler struct {
	ownedHandler[validator.TeacherCreateRequest, validator.TeacherUpdateRequest, *models.Teacher]
	service services.TeacherService
}

func NewTeacherHandler(service services.TeacherService, logger utils.Logger) *TeacherHandler {
	return &TeacherHandler{
		ownedHandler: newOwnedHandler[validator.TeacherCreateRequest, validator.TeacherUpdateRequest, *models.Teacher](service, ownedMessages{
			resource: "teacher",
			created:  "Docente cadastrado com sucesso",
			found:    "Docente encontrado",
			listed:   "Docentes encontrados",
			updated:  "Docente atualizado com sucesso",
			deleted:  "Docente removido com sucesso",
		}, logger),
		service: service,
	}
}

// List returns the caller's teachers
// @Summary List own teachers
// @Tags docentes
// @Security BearerAuth
// @Success 200 {object} ListResponse{data=[]models.Teacher}
// @Router /docentes [get]
func (h *TeacherHandler) List(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), user, page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, h.msgs.listed)
}

// ListDisciplines returns the disciplines one of the caller's teachers is linked to
// @Summary List teacher disciplines
// @Tags docentes
// @Security BearerAuth
// @Success 200 {object} ListResponse{data=[]models.Discipline}
// @Router /docentes/{id}/disciplinas [get]
func (h *TeacherHandler) ListDisciplines(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListDisciplines(c.Request.Context(), user, id, page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, "Disciplinas do docente encontradas")
}

// @Summary Get own teacher by email
// @Tags docentes
// @Router /docentes/email/{email} [get]
func (h *TeacherHandler) GetByEmail(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	teacher, err := h.service.GetByEmail(c.Request.Context(), user, c.Param("email"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, teacher, h.msgs.found)
}

// ===== STUDENTS =====

type StudentHandler struct {
	ownedHandler[validator.StudentCreateRequest, validator.StudentUpdateRequest, *models.Student]
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		ownedHandler: newOwnedHandler[validator.StudentCreateRequest, validator.StudentUpdateRequest, *models.Student](service, ownedMessages{
			resource: "student",
			created:  "Discente cadastrado com sucesso",
			found:    "Discente encontrado",
			listed:   "Discentes encontrados",
			updated:  "Discente atualizado com sucesso",
			deleted:  "Discente removido com sucesso",
		}, logger),
		service: service,
	}
}

// @Summary List own students
// @Tags discentes
// @Router /discentes [get]
func (h *StudentHandler) List(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), user, page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, h.msgs.listed)
}

// @Summary Get own student by email
// @Tags discentes
// @Router /discentes/email/{email} [get]
func (h *StudentHandler) GetByEmail(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	student, err := h.service.GetByEmail(c.Request.Context(), user, c.Param("email"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, student, h.msgs.found)
}

// ===== GRADES =====

type GradeHandler struct {
	ownedHandler[validator.GradeCreateRequest, validator.GradeUpdateRequest, *models.Grade]
	service services.GradeService
}

func NewGradeHandler(service services.GradeService, logger utils.Logger) *GradeHandler {
	return &GradeHandler{
		ownedHandler: newOwnedHandler[validator.GradeCreateRequest, validator.GradeUpdateRequest, *models.Grade](service, ownedMessages{
			resource: "grade",
			created:  "Nota cadastrada com sucesso",
			found:    "Nota encontrada",
			listed:   "Notas encontradas",
			updated:  "Nota atualizada com sucesso",
			deleted:  "Nota removida com sucesso",
		}, logger),
		service: service,
	}
}

// List returns the caller's grades, optionally of one discipline or bimester
// @Summary List own grades
// @Tags notas
// @Param id_disciplina query int false "Discipline filter"
// @Param bimestre query int false "Bimester filter (1-4)"
// @Router /notas [get]
func (h *GradeHandler) List(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}
	disciplineID, ok := h.parseOptionalUintQuery(c, "id_disciplina")
	if !ok {
		return
	}
	bimester, ok := h.parseOptionalIntQuery(c, "bimestre")
	if !ok {
		return
	}

	filters := repositories.GradeFilters{DisciplineID: disciplineID, Bimester: bimester}
	result, err := h.service.List(c.Request.Context(), user, filters, page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, h.msgs.listed)
}

// ExportReportCard downloads the caller's grades as a spreadsheet
// @Summary Export report card
// @Tags notas
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /notas/boletim.xlsx [get]
func (h *GradeHandler) ExportReportCard(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting report card", "ra", user.RA)

	data, err := h.service.ExportReportCard(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="boletim_%s.xlsx"`, user.RA))
	c.Data(http.StatusOK, xlsxContentType, data)
}
