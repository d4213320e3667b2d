package services

import (
	"context"
	"time"

	"github.com/agenda-academica/academic-service/internal/auth"
	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/repositories"
	"github.com/agenda-academica/academic-service/internal/validator"
)

// ===== REQUEST DTOs =====

type (
	UserCreateRequest             = validator.UserCreateRequest
	UserUpdateRequest             = validator.UserUpdateRequest
	LoginRequest                  = validator.LoginRequest
	InstitutionRequest            = validator.InstitutionRequest
	CourseCreateRequest           = validator.CourseCreateRequest
	CourseUpdateRequest           = validator.CourseUpdateRequest
	DisciplineCreateRequest       = validator.DisciplineCreateRequest
	DisciplineUpdateRequest       = validator.DisciplineUpdateRequest
	CourseDisciplineRequest       = validator.CourseDisciplineRequest
	CourseDisciplineUpdateRequest = validator.CourseDisciplineUpdateRequest
	DateTypeRequest               = validator.DateTypeRequest
	TeacherCreateRequest          = validator.TeacherCreateRequest
	TeacherUpdateRequest          = validator.TeacherUpdateRequest
	StudentCreateRequest          = validator.StudentCreateRequest
	StudentUpdateRequest          = validator.StudentUpdateRequest
	GradeCreateRequest            = validator.GradeCreateRequest
	GradeUpdateRequest            = validator.GradeUpdateRequest
	NoteCreateRequest             = validator.NoteCreateRequest
	NoteUpdateRequest             = validator.NoteUpdateRequest
	CalendarCreateRequest         = validator.CalendarCreateRequest
	CalendarUpdateRequest         = validator.CalendarUpdateRequest
	ScheduleCreateRequest         = validator.ScheduleCreateRequest
	ScheduleUpdateRequest         = validator.ScheduleUpdateRequest
)

type TokenPair = auth.TokenPair

// ===== RESPONSE DTOs =====

// ListResult is one page of a listing plus the total row count
type ListResult[T any] struct {
	Items []T
	Total int64
	Skip  int
	Limit int
}

// UserResponse is the public view of an account, password hash excluded
type UserResponse struct {
	ID            uint    `json:"id_usuario"`
	RA            string  `json:"ra"`
	Name          string  `json:"nome"`
	Email         string  `json:"email"`
	Username      string  `json:"username"`
	InstitutionID uint    `json:"id_instituicao"`
	BirthDate     *string `json:"dt_nascimento"`
	Phone         *string `json:"tel_celular"`
	CourseID      *uint   `json:"id_curso"`
	Module        int     `json:"modulo"`
	Bimester      *int    `json:"bimestre"`
}

func NewUserResponse(u *models.User) *UserResponse {
	resp := &UserResponse{
		ID:            u.ID,
		RA:            u.RA,
		Name:          u.Name,
		Email:         u.Email,
		Username:      u.Username,
		InstitutionID: u.InstitutionID,
		Phone:         u.Phone,
		CourseID:      u.CourseID,
		Module:        u.Module,
		Bimester:      u.Bimester,
	}
	if u.BirthDate != nil {
		d := formatDate(time.Time(*u.BirthDate))
		resp.BirthDate = &d
	}
	return resp
}

type NoteResponse struct {
	ID    uint   `json:"id_anotacao"`
	RA    string `json:"ra"`
	Title string `json:"titulo"`
	Body  string `json:"anotacao"`
	Date  string `json:"dt_anotacao"`
}

func NewNoteResponse(n *models.Note) *NoteResponse {
	return &NoteResponse{
		ID:    n.ID,
		RA:    n.RA,
		Title: n.Title,
		Body:  n.Body,
		Date:  formatDate(time.Time(n.Date)),
	}
}

type CalendarEventResponse struct {
	ID         uint   `json:"id_data_evento"`
	RA         string `json:"ra"`
	Date       string `json:"data_evento"`
	DateTypeID uint   `json:"id_tipo_data"`
}

func NewCalendarEventResponse(e *models.CalendarEvent) *CalendarEventResponse {
	return &CalendarEventResponse{
		ID:         e.ID,
		RA:         e.RA,
		Date:       formatDate(time.Time(e.Date)),
		DateTypeID: e.DateTypeID,
	}
}

// CourseDisciplineResponse is one curriculum entry of a course
type CourseDisciplineResponse struct {
	CourseID     uint   `json:"id_curso"`
	DisciplineID uint   `json:"id_disciplina"`
	Name         string `json:"nome"`
	Module       *int   `json:"modulo"`
}

func NewCourseDisciplineResponse(link *models.CourseDiscipline) *CourseDisciplineResponse {
	resp := &CourseDisciplineResponse{
		CourseID:     link.CourseID,
		DisciplineID: link.DisciplineID,
		Module:       link.Module,
	}
	if link.Discipline != nil {
		resp.Name = link.Discipline.Name
	}
	return resp
}

func formatDate(t time.Time) string {
	return t.Format(models.DateFormat)
}

// ===== SERVICE INTERFACES =====

// AuthService issues and checks credentials
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Authenticate verifies an access token and loads the live user row
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
	RefreshTTL() time.Duration
}

type UserService interface {
	Register(ctx context.Context, req *UserCreateRequest) (*UserResponse, error)
	GetByID(ctx context.Context, id uint) (*UserResponse, error)
	GetByRA(ctx context.Context, ra string) (*UserResponse, error)
	List(ctx context.Context, page repositories.Pagination) (*ListResult[*UserResponse], error)
	ListByInstitution(ctx context.Context, institutionID uint, page repositories.Pagination) (*ListResult[*UserResponse], error)
	ListByCourse(ctx context.Context, courseID uint, page repositories.Pagination) (*ListResult[*UserResponse], error)
	UpdateSelf(ctx context.Context, user *models.User, req *UserUpdateRequest) (*UserResponse, error)
	DeleteSelf(ctx context.Context, user *models.User) error
}

type InstitutionService interface {
	Create(ctx context.Context, req *InstitutionRequest) (*models.Institution, error)
	Get(ctx context.Context, id uint) (*models.Institution, error)
	List(ctx context.Context, page repositories.Pagination) (*ListResult[*models.Institution], error)
	Update(ctx context.Context, id uint, req *InstitutionRequest) (*models.Institution, error)
	Delete(ctx context.Context, id uint) error
}

type CourseService interface {
	Create(ctx context.Context, req *CourseCreateRequest) (*models.Course, error)
	Get(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, filters repositories.CourseFilters, page repositories.Pagination) (*ListResult[*models.Course], error)
	Update(ctx context.Context, id uint, req *CourseUpdateRequest) (*models.Course, error)
	Delete(ctx context.Context, id uint) error

	ListDisciplines(ctx context.Context, courseID uint, page repositories.Pagination) (*ListResult[*CourseDisciplineResponse], error)
	AddDiscipline(ctx context.Context, courseID uint, req *CourseDisciplineRequest) (*CourseDisciplineResponse, error)
	UpdateDiscipline(ctx context.Context, courseID, disciplineID uint, req *CourseDisciplineUpdateRequest) (*CourseDisciplineResponse, error)
	RemoveDiscipline(ctx context.Context, courseID, disciplineID uint) error
}

type DisciplineService interface {
	Create(ctx context.Context, req *DisciplineCreateRequest) (*models.Discipline, error)
	Get(ctx context.Context, id uint) (*models.Discipline, error)
	List(ctx context.Context, page repositories.Pagination) (*ListResult[*models.Discipline], error)
	Update(ctx context.Context, id uint, req *DisciplineUpdateRequest) (*models.Discipline, error)
	Delete(ctx context.Context, id uint) error

	// Teacher links require the caller to own the teacher record
	ListTeachers(ctx context.Context, disciplineID uint, page repositories.Pagination) (*ListResult[*models.Teacher], error)
	AddTeacher(ctx context.Context, user *models.User, disciplineID, teacherID uint) error
	RemoveTeacher(ctx context.Context, user *models.User, disciplineID, teacherID uint) error
}

type DateTypeService interface {
	Create(ctx context.Context, req *DateTypeRequest) (*models.DateType, error)
	Get(ctx context.Context, id uint) (*models.DateType, error)
	List(ctx context.Context, page repositories.Pagination) (*ListResult[*models.DateType], error)
	Update(ctx context.Context, id uint, req *DateTypeRequest) (*models.DateType, error)
	Delete(ctx context.Context, id uint) error
}

// Owned record services. Create stamps the caller RA; every other call
// answers 404 for unknown ids and 403 for records of another RA.

type TeacherService interface {
	Create(ctx context.Context, user *models.User, req *TeacherCreateRequest) (*models.Teacher, error)
	Get(ctx context.Context, user *models.User, id uint) (*models.Teacher, error)
	GetByEmail(ctx context.Context, user *models.User, email string) (*models.Teacher, error)
	List(ctx context.Context, user *models.User, page repositories.Pagination) (*ListResult[*models.Teacher], error)
	ListDisciplines(ctx context.Context, user *models.User, id uint, page repositories.Pagination) (*ListResult[*models.Discipline], error)
	Replace(ctx context.Context, user *models.User, id uint, req *TeacherCreateRequest) (*models.Teacher, error)
	Update(ctx context.Context, user *models.User, id uint, req *TeacherUpdateRequest) (*models.Teacher, error)
	Delete(ctx context.Context, user *models.User, id uint) error
}

type StudentService interface {
	Create(ctx context.Context, user *models.User, req *StudentCreateRequest) (*models.Student, error)
	Get(ctx context.Context, user *models.User, id uint) (*models.Student, error)
	GetByEmail(ctx context.Context, user *models.User, email string) (*models.Student, error)
	List(ctx context.Context, user *models.User, page repositories.Pagination) (*ListResult[*models.Student], error)
	Replace(ctx context.Context, user *models.User, id uint, req *StudentCreateRequest) (*models.Student, error)
	Update(ctx context.Context, user *models.User, id uint, req *StudentUpdateRequest) (*models.Student, error)
	Delete(ctx context.Context, user *models.User, id uint) error
}

type GradeService interface {
	Create(ctx context.Context, user *models.User, req *GradeCreateRequest) (*models.Grade, error)
	Get(ctx context.Context, user *models.User, id uint) (*models.Grade, error)
	List(ctx context.Context, user *models.User, filters repositories.GradeFilters, page repositories.Pagination) (*ListResult[*models.Grade], error)
	Replace(ctx context.Context, user *models.User, id uint, req *GradeCreateRequest) (*models.Grade, error)
	Update(ctx context.Context, user *models.User, id uint, req *GradeUpdateRequest) (*models.Grade, error)
	Delete(ctx context.Context, user *models.User, id uint) error
	// ExportReportCard renders every grade of the caller as an xlsx workbook
	ExportReportCard(ctx context.Context, user *models.User) ([]byte, error)
}

type NoteService interface {
	Create(ctx context.Context, user *models.User, req *NoteCreateRequest) (*NoteResponse, error)
	Get(ctx context.Context, user *models.User, id uint) (*NoteResponse, error)
	List(ctx context.Context, user *models.User, page repositories.Pagination) (*ListResult[*NoteResponse], error)
	Replace(ctx context.Context, user *models.User, id uint, req *NoteCreateRequest) (*NoteResponse, error)
	Update(ctx context.Context, user *models.User, id uint, req *NoteUpdateRequest) (*NoteResponse, error)
	Delete(ctx context.Context, user *models.User, id uint) error
}

type CalendarService interface {
	Create(ctx context.Context, user *models.User, req *CalendarCreateRequest) (*CalendarEventResponse, error)
	Get(ctx context.Context, user *models.User, id uint) (*CalendarEventResponse, error)
	List(ctx context.Context, user *models.User, page repositories.Pagination) (*ListResult[*CalendarEventResponse], error)
	ListByDate(ctx context.Context, user *models.User, date string, page repositories.Pagination) (*ListResult[*CalendarEventResponse], error)
	ListByDateType(ctx context.Context, user *models.User, dateTypeID uint, page repositories.Pagination) (*ListResult[*CalendarEventResponse], error)
	Replace(ctx context.Context, user *models.User, id uint, req *CalendarCreateRequest) (*CalendarEventResponse, error)
	Update(ctx context.Context, user *models.User, id uint, req *CalendarUpdateRequest) (*CalendarEventResponse, error)
	Delete(ctx context.Context, user *models.User, id uint) error
}

type ScheduleService interface {
	Create(ctx context.Context, user *models.User, req *ScheduleCreateRequest) (*models.Schedule, error)
	Get(ctx context.Context, user *models.User, id uint) (*models.Schedule, error)
	List(ctx context.Context, user *models.User, page repositories.Pagination) (*ListResult[*models.Schedule], error)
	ListByWeekday(ctx context.Context, user *models.User, weekday int, page repositories.Pagination) (*ListResult[*models.Schedule], error)
	Replace(ctx context.Context, user *models.User, id uint, req *ScheduleCreateRequest) (*models.Schedule, error)
	Update(ctx context.Context, user *models.User, id uint, req *ScheduleUpdateRequest) (*models.Schedule, error)
	Delete(ctx context.Context, user *models.User, id uint) error
}

// ServiceManager owns the lifecycle of every service
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Institution() InstitutionService
	Course() CourseService
	Discipline() DisciplineService
	DateType() DateTypeService
	Teacher() TeacherService
	Student() StudentService
	Grade() GradeService
	Note() NoteService
	Calendar() CalendarService
	Schedule() ScheduleService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
