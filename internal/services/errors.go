package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/agenda-academica/academic-service/internal/validator"
)

// ValidationErrors is returned for rejected input (400)
type ValidationErrors = validator.ValidationErrors

// Not found sentinels carry the message shown to the client (404)
var (
	ErrUserNotFound              = errors.New("Usuário não encontrado")
	ErrInstitutionNotFound       = errors.New("Instituição não encontrada")
	ErrCourseNotFound            = errors.New("Curso não encontrado")
	ErrDisciplineNotFound        = errors.New("Disciplina não encontrada")
	ErrCourseDisciplineNotFound  = errors.New("Disciplina não vinculada ao curso")
	ErrDisciplineTeacherNotFound = errors.New("Docente não vinculado à disciplina")
	ErrDateTypeNotFound          = errors.New("Tipo de data não encontrado")
	ErrTeacherNotFound           = errors.New("Docente não encontrado")
	ErrStudentNotFound           = errors.New("Discente não encontrado")
	ErrGradeNotFound             = errors.New("Nota não encontrada")
	ErrNoteNotFound              = errors.New("Anotação não encontrada")
	ErrCalendarEventNotFound     = errors.New("Evento não encontrado")
	ErrScheduleNotFound          = errors.New("Horário não encontrado")
)

var notFoundErrors = []error{
	ErrUserNotFound,
	ErrInstitutionNotFound,
	ErrCourseNotFound,
	ErrDisciplineNotFound,
	ErrCourseDisciplineNotFound,
	ErrDisciplineTeacherNotFound,
	ErrDateTypeNotFound,
	ErrTeacherNotFound,
	ErrStudentNotFound,
	ErrGradeNotFound,
	ErrNoteNotFound,
	ErrCalendarEventNotFound,
	ErrScheduleNotFound,
}

// NotFoundMessage reports whether err is one of the not found sentinels
func NotFoundMessage(err error) (string, bool) {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return target.Error(), true
		}
	}
	return "", false
}

var (
	ErrUnauthorized       = errors.New("Não autenticado")
	ErrInvalidCredentials = errors.New("Usuário ou senha inválidos")
	ErrRefreshTokenAbsent = errors.New("Refresh token ausente")
	ErrNoUpdateData       = errors.New("Nenhum dado fornecido para atualização")
	// ErrResourceInUse is returned when other rows still reference the target of a delete (409)
	ErrResourceInUse = errors.New("Registro em uso por outros cadastros")
)

// DuplicateError reports a unique value already taken
type DuplicateError struct {
	Field   string
	Message string
	Status  int
}

func (e *DuplicateError) Error() string {
	return e.Message
}

// NewDuplicateError builds the 400 variant used by user scoped resources
func NewDuplicateError(field, message string) *DuplicateError {
	return &DuplicateError{Field: field, Message: message, Status: http.StatusBadRequest}
}

// NewConflictError builds the 409 variant
func NewConflictError(field, message string) *DuplicateError {
	return &DuplicateError{Field: field, Message: message, Status: http.StatusConflict}
}

// PermissionError is returned when a user touches a resource owned by another RA (403)
type PermissionError struct {
	RA         string
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s cannot %s %s %d: %s", e.RA, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(ra string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		RA:         ra,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func validationError(field, message string, value interface{}) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message, Value: value, Rule: "business_logic"}}
}
