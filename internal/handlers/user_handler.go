package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenda-academica/academic-service/internal/services"
	"github.com/agenda-academica/academic-service/internal/utils"
	"github.com/agenda-academica/academic-service/internal/validator"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(userService services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// Register creates an account
// @Summary Register user
// @Description Creates an account. The institution is matched by name and created when missing.
// @Tags usuario
// @Accept json
// @Produce json
// @Param user body validator.UserCreateRequest true "Account data"
// @Success 201 {object} Response{data=services.UserResponse}
// @Failure 400 {object} ErrorResponse
// @Router /usuario [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req validator.UserCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Registering user", "ra", req.RA)

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.ok(c, http.StatusCreated, user, "Usuário cadastrado com sucesso")
}

// Me returns the authenticated account
// @Summary Current user
// @Tags usuario
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=services.UserResponse}
// @Failure 401 {object} ErrorResponse
// @Router /usuario/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	h.ok(c, http.StatusOK, services.NewUserResponse(user), "Usuário encontrado")
}

// List lists accounts
// @Summary List users
// @Tags usuario
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Rows to skip (default 0)"
// @Param limit query int false "Page size, 1 to 1000 (default 100)"
// @Success 200 {object} ListResponse{data=[]services.UserResponse}
// @Failure 400 {object} ErrorResponse
// @Router /usuario [get]
func (h *UserHandler) List(c *gin.Context) {
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.userService.List(c.Request.Context(), page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, "Usuários encontrados")
}

// Get returns an account by id
// @Summary Get user
// @Tags usuario
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} Response{data=services.UserResponse}
// @Failure 404 {object} ErrorResponse
// @Router /usuario/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, user, "Usuário encontrado")
}

// GetByRA returns an account by academic id
// @Summary Get user by RA
// @Tags usuario
// @Produce json
// @Security BearerAuth
// @Param ra path string true "13 digit RA"
// @Success 200 {object} Response{data=services.UserResponse}
// @Failure 404 {object} ErrorResponse
// @Router /usuario/ra/{ra} [get]
func (h *UserHandler) GetByRA(c *gin.Context) {
	user, err := h.userService.GetByRA(c.Request.Context(), c.Param("ra"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, user, "Usuário encontrado")
}

// ListByInstitution lists the accounts of an institution
// @Summary List users by institution
// @Tags usuario
// @Produce json
// @Security BearerAuth
// @Param id path int true "Institution ID"
// @Success 200 {object} ListResponse{data=[]services.UserResponse}
// @Router /usuario/instituicao/{id} [get]
func (h *UserHandler) ListByInstitution(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.userService.ListByInstitution(c.Request.Context(), id, page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, "Usuários encontrados")
}

// ListByCourse lists the accounts enrolled in a course
// @Summary List users by course
// @Tags usuario
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} ListResponse{data=[]services.UserResponse}
// @Router /usuario/curso/{id} [get]
func (h *UserHandler) ListByCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	result, err := h.userService.ListByCourse(c.Request.Context(), id, page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	respondList(c, result, "Usuários encontrados")
}

// Update changes the authenticated account. PUT and PATCH share it.
// @Summary Update current user
// @Tags usuario
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body validator.UserUpdateRequest true "Fields to change"
// @Success 200 {object} Response{data=services.UserResponse}
// @Failure 400 {object} ErrorResponse
// @Router /usuario [put]
// @Router /usuario [patch]
func (h *UserHandler) Update(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req validator.UserUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating user", "user_id", user.ID)

	updated, err := h.userService.UpdateSelf(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, updated, "Usuário atualizado com sucesso")
}

// Delete removes the authenticated account and everything it owns
// @Summary Delete current user
// @Tags usuario
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Router /usuario [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting user", "user_id", user.ID)

	if err := h.userService.DeleteSelf(c.Request.Context(), user); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.deleted(c, user.ID, "Usuário removido com sucesso")
}
