package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/utils"
)

// ownedCRUD is the common surface of every service over RA-owned records.
// C is the create (and full replace) payload, U the partial update payload.
type ownedCRUD[C any, U any, R any] interface {
	Create(ctx context.Context, user *models.User, req *C) (R, error)
	Get(ctx context.Context, user *models.User, id uint) (R, error)
	Replace(ctx context.Context, user *models.User, id uint, req *C) (R, error)
	Update(ctx context.Context, user *models.User, id uint, req *U) (R, error)
	Delete(ctx context.Context, user *models.User, id uint) error
}

type ownedMessages struct {
	resource string
	created  string
	found    string
	listed   string
	updated  string
	deleted  string
}

// ownedHandler implements the per-id routes shared by owned resources
type ownedHandler[C any, U any, R any] struct {
	BaseHandler
	crud ownedCRUD[C, U, R]
	msgs ownedMessages
}

func newOwnedHandler[C any, U any, R any](crud ownedCRUD[C, U, R], msgs ownedMessages, logger utils.Logger) ownedHandler[C, U, R] {
	return ownedHandler[C, U, R]{
		BaseHandler: NewBaseHandler(logger),
		crud:        crud,
		msgs:        msgs,
	}
}

// Create stores a record owned by the caller; the RA comes from the token
func (h *ownedHandler[C, U, R]) Create(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req C
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating "+h.msgs.resource, "ra", user.RA)

	item, err := h.crud.Create(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusCreated, item, h.msgs.created)
}

func (h *ownedHandler[C, U, R]) Get(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.crud.Get(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, item, h.msgs.found)
}

// Replace is PUT: every required field must be sent again
func (h *ownedHandler[C, U, R]) Replace(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req C
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.crud.Replace(c.Request.Context(), user, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, item, h.msgs.updated)
}

// Update is PATCH: absent fields are kept, an empty body is rejected
func (h *ownedHandler[C, U, R]) Update(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req U
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.crud.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, http.StatusOK, item, h.msgs.updated)
}

func (h *ownedHandler[C, U, R]) Delete(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting "+h.msgs.resource, "ra", user.RA, "id", id)

	if err := h.crud.Delete(c.Request.Context(), user, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.deleted(c, id, h.msgs.deleted)
}
