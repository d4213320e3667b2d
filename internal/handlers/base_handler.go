package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/repositories"
	"github.com/agenda-academica/academic-service/internal/services"
	"github.com/agenda-academica/academic-service/internal/utils"
)

const (
	msgInternalError = "Erro interno do servidor"
	msgInvalidBody   = "Corpo da requisição inválido"
	msgForbidden     = "Você não tem permissão para acessar este recurso"

	userContextKey = "user"
)

// Response is the envelope of every successful single-item reply
type Response struct {
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
}

// ListResponse adds the pagination window to Response
type ListResponse struct {
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Total   int64       `json:"total"`
	Skip    int         `json:"skip"`
	Limit   int         `json:"limit"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries the logger and the helpers shared by every handler
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Error(msg, append(args, "error", err)...)
}

func (h *BaseHandler) ok(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{Data: data, Success: true, Message: message})
}

func (h *BaseHandler) fail(c *gin.Context, status int, message string, details interface{}) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details})
}

func (h *BaseHandler) deleted(c *gin.Context, id uint, message string) {
	h.ok(c, http.StatusOK, gin.H{"id_deletado": id}, message)
}

func respondList[T any](c *gin.Context, result *services.ListResult[T], message string) {
	c.JSON(http.StatusOK, ListResponse{
		Data:    result.Items,
		Success: true,
		Message: message,
		Total:   result.Total,
		Skip:    result.Skip,
		Limit:   result.Limit,
	})
}

// bindJSON decodes the body into req. An empty body leaves req zeroed so
// the service reports the missing fields.
func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, http.StatusBadRequest, msgInvalidBody, err.Error())
		return false
	}
	return true
}

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		h.fail(c, http.StatusBadRequest, "Parâmetro "+param+" inválido", c.Param(param))
		return 0, false
	}
	return uint(id), true
}

func (h *BaseHandler) parseIntParam(c *gin.Context, param string) (int, bool) {
	n, err := strconv.Atoi(c.Param(param))
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Parâmetro "+param+" inválido", c.Param(param))
		return 0, false
	}
	return n, true
}

// parseOptionalUintQuery reads an optional positive id filter
func (h *BaseHandler) parseOptionalUintQuery(c *gin.Context, key string) (*uint, bool) {
	raw, present := c.GetQuery(key)
	if !present || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		h.fail(c, http.StatusBadRequest, "Parâmetro "+key+" inválido", raw)
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func (h *BaseHandler) parseOptionalIntQuery(c *gin.Context, key string) (*int, bool) {
	raw, present := c.GetQuery(key)
	if !present || raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Parâmetro "+key+" inválido", raw)
		return nil, false
	}
	return &v, true
}

// parsePagination reads skip (>= 0, default 0) and limit (1..1000, default 100)
func (h *BaseHandler) parsePagination(c *gin.Context) (repositories.Pagination, bool) {
	page := repositories.DefaultPagination()

	if raw, present := c.GetQuery("skip"); present {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			h.fail(c, http.StatusBadRequest, "skip deve ser um inteiro maior ou igual a 0", raw)
			return page, false
		}
		page.Skip = skip
	}

	if raw, present := c.GetQuery("limit"); present {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > repositories.MaxLimit {
			h.fail(c, http.StatusBadRequest, "limit deve ser um inteiro entre 1 e 1000", raw)
			return page, false
		}
		page.Limit = limit
	}

	return page, true
}

// currentUser returns the account loaded by the auth middleware
func (h *BaseHandler) currentUser(c *gin.Context) (*models.User, bool) {
	if v, exists := c.Get(userContextKey); exists {
		if user, ok := v.(*models.User); ok && user != nil {
			return user, true
		}
	}
	h.handleServiceError(c, services.ErrUnauthorized)
	return nil, false
}

// handleServiceError maps service errors onto status codes. Auth errors are
// matched first because they wrap ErrUserNotFound.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var authErr *services.AuthError
	if errors.As(err, &authErr) {
		c.Header("WWW-Authenticate", "Bearer")
		h.fail(c, http.StatusUnauthorized, authErr.Message, nil)
		return
	}

	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.fail(c, http.StatusBadRequest, validationErrors.First(), validationErrors)
		return
	}

	var duplicateErr *services.DuplicateError
	if errors.As(err, &duplicateErr) {
		h.fail(c, duplicateErr.Status, duplicateErr.Message, gin.H{"field": duplicateErr.Field})
		return
	}

	var permissionErr *services.PermissionError
	if errors.As(err, &permissionErr) {
		h.fail(c, http.StatusForbidden, msgForbidden, gin.H{
			"resource": permissionErr.Resource,
			"action":   permissionErr.Action,
		})
		return
	}

	if message, ok := services.NotFoundMessage(err); ok {
		h.fail(c, http.StatusNotFound, message, nil)
		return
	}

	switch {
	case errors.Is(err, services.ErrNoUpdateData):
		h.fail(c, http.StatusBadRequest, services.ErrNoUpdateData.Error(), nil)
	case errors.Is(err, services.ErrResourceInUse):
		h.fail(c, http.StatusConflict, services.ErrResourceInUse.Error(), nil)
	case errors.Is(err, services.ErrUnauthorized):
		c.Header("WWW-Authenticate", "Bearer")
		h.fail(c, http.StatusUnauthorized, services.ErrUnauthorized.Error(), nil)
	default:
		h.LogError(c, err, "Unexpected service error")
		h.fail(c, http.StatusInternalServerError, msgInternalError, nil)
	}
}
