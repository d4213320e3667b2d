package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/services"
	"github.com/agenda-academica/academic-service/internal/utils"
	"github.com/agenda-academica/academic-service/internal/validator"
)

// ===== NOTES =====

type NoteHandler struct {
	ownedHandler[validator.NoteCreateRequest, validator.NoteUpdateRequest, *services.NoteResponse]
	service services.NoteService
}

func NewNoteHandler(service services.NoteService, logger utils.Logger) *NoteHandler {
	return &NoteHandler{
		ownedHandler: newOwnedHandler[validator.NoteCreateRequest, validator.NoteUpdateRequest, *services.NoteResponse](service, ownedMessages{
			resource: "note",
			created:  "Anotação cadastrada com sucesso",
			found:    "Anotação encontrada",
			listed:   "Anotações encontradas",
			updated:  "Anotação atualizada com sucesso",
			deleted:  "Anotação removida com sucesso",
		}, logger),
		service: service,
	}
}

// @Summary List own notes
// @Tags anotacao
// @Router /anotacao [get]
func (h *NoteHandler) List(c *gin.Context) {
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

// ===== CALENDAR =====

type CalendarHandler struct {
	ownedHandler[validator.CalendarCreateRequest, validator.CalendarUpdateRequest, *services.CalendarEventResponse]
	service services.CalendarService
}

func NewCalendarHandler(service services.CalendarService, logger utils.Logger) *CalendarHandler {
	return &CalendarHandler{
		ownedHandler: newOwnedHandler[validator.CalendarCreateRequest, validator.CalendarUpdateRequest, *services.CalendarEventResponse](service, ownedMessages{
			resource: "calendar event",
			created:  "Evento cadastrado com sucesso",
			found:    "Evento encontrado",
			listed:   "Eventos encontrados",
			updated:  "Evento atualizado com sucesso",
			deleted:  "Evento removido com sucesso",
		}, logger),
		service: service,
	}
}

// @Summary List own calendar events
// @Tags calendario
// @Router /calendario [get]
func (h *CalendarHandler) List(c *gin.Context) {
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

// ListByDate returns the caller's events of one day
// @Summary List events by date
// @Tags calendario
// @Param data path string true "Date, YYYY-MM-DD"
// @Router /calendario/data/{data} [get]
func (h *CalendarHandler) ListByDate(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListByDate(c.Request.Context(), user, c.Param("data"), page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, h.msgs.listed)
}

// @Summary List events by date type
// @Tags calendario
// @Param id_tipo_data path int true "1 Falta, 2 Não Letivo, 3 Letivo"
// @Router /calendario/tipo/{id_tipo_data} [get]
func (h *CalendarHandler) ListByDateType(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	dateTypeID, ok := h.parseIDParam(c, "id_tipo_data")
	if !ok {
		return
	}
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListByDateType(c.Request.Context(), user, dateTypeID, page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, h.msgs.listed)
}

// ===== SCHEDULE =====

type ScheduleHandler struct {
	ownedHandler[validator.ScheduleCreateRequest, validator.ScheduleUpdateRequest, *models.Schedule]
	service services.ScheduleService
}

func NewScheduleHandler(service services.ScheduleService, logger utils.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		ownedHandler: newOwnedHandler[validator.ScheduleCreateRequest, validator.ScheduleUpdateRequest, *models.Schedule](service, ownedMessages{
			resource: "schedule",
			created:  "Horário cadastrado com sucesso",
			found:    "Horário encontrado",
			listed:   "Horários encontrados",
			updated:  "Horário atualizado com sucesso",
			deleted:  "Horário removido com sucesso",
		}, logger),
		service: service,
	}
}

func (h *ScheduleHandler) List(c *gin.Context) {
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

// ListByWeekday returns the caller's classes of one weekday (1 Monday to 6 Saturday)
func (h *ScheduleHandler) ListByWeekday(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	weekday, ok := h.parseIntParam(c, "dia_semana")
	if !ok {
		return
	}
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListByWeekday(c.Request.Context(), user, weekday, page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, h.msgs.listed)
}
