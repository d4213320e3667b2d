package validator

// Field names follow the public API, which predates this service.
// senha_hash carries the plain password on the way in.

// UserCreateRequest registers a new account
type UserCreateRequest struct {
	RA              string  `json:"ra" validate:"required,ra"`
	Name            string  `json:"nome" validate:"required,not_blank,max=50"`
	Email           string  `json:"email" validate:"required,email,max=40"`
	Username        string  `json:"username" validate:"required,not_blank,max=20"`
	Password        string  `json:"senha_hash" validate:"required,min=6,senha"`
	InstitutionName string  `json:"nome_instituicao" validate:"required,not_blank,max=80"`
	BirthDate       *string `json:"dt_nascimento" validate:"omitempty,data"`
	Phone           *string `json:"tel_celular" validate:"omitempty,telefone"`
	CourseID        *uint   `json:"id_curso" validate:"omitempty,min=1"`
	Module          *int    `json:"modulo" validate:"omitempty,min=1,max=12"`
	Bimester        *int    `json:"bimestre" validate:"omitempty,min=1,max=4"`
}

// UserUpdateRequest changes the authenticated user's profile. Nil fields are kept.
type UserUpdateRequest struct {
	Name      *string `json:"nome" validate:"omitempty,not_blank,max=50"`
	Email     *string `json:"email" validate:"omitempty,email,max=40"`
	Username  *string `json:"username" validate:"omitempty,not_blank,max=20"`
	Password  *string `json:"senha_hash" validate:"omitempty,min=6,senha"`
	BirthDate *string `json:"dt_nascimento" validate:"omitempty,data"`
	Phone     *string `json:"tel_celular" validate:"omitempty,telefone"`
	// Institution and course are matched by name and created when missing
	InstitutionName *string `json:"nome_instituicao" validate:"omitempty,not_blank,max=80"`
	CourseName      *string `json:"nome_curso" validate:"omitempty,not_blank,max=80"`
	Module          *int    `json:"modulo" validate:"omitempty,min=1,max=12"`
	Bimester        *int    `json:"bimestre" validate:"omitempty,min=1,max=4"`
}

func (r *UserUpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Username == nil && r.Password == nil &&
		r.BirthDate == nil && r.Phone == nil && r.InstitutionName == nil && r.CourseName == nil &&
		r.Module == nil && r.Bimester == nil
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,not_blank,max=20"`
	Password string `json:"senha_hash" validate:"required,min=6,senha"`
}

// RefreshRequest is optional on /refresh, the cookie is the fallback
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type InstitutionRequest struct {
	Name string `json:"nome" validate:"required,not_blank,max=80"`
}

type CourseCreateRequest struct {
	Name          string `json:"nome" validate:"required,not_blank,max=80"`
	InstitutionID uint   `json:"id_instituicao" validate:"required,min=1"`
}

type CourseUpdateRequest struct {
	Name          *string `json:"nome" validate:"omitempty,not_blank,max=80"`
	InstitutionID *uint   `json:"id_instituicao" validate:"omitempty,min=1"`
}

func (r *CourseUpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.InstitutionID == nil
}

type DisciplineCreateRequest struct {
	Name string `json:"nome" validate:"required,not_blank,max=100"`
}

type DisciplineUpdateRequest struct {
	Name *string `json:"nome" validate:"omitempty,not_blank,max=100"`
}

func (r *DisciplineUpdateRequest) IsEmpty() bool {
	return r.Name == nil
}

type CourseDisciplineRequest struct {
	DisciplineID uint `json:"id_disciplina" validate:"required,min=1"`
	Module       *int `json:"modulo" validate:"omitempty,min=1,max=12"`
}

type CourseDisciplineUpdateRequest struct {
	Module *int `json:"modulo" validate:"omitempty,min=1,max=12"`
}

type DateTypeRequest struct {
	Name string `json:"nome" validate:"required,not_blank,max=10"`
}

type TeacherCreateRequest struct {
	Name       string  `json:"nome" validate:"required,not_blank,max=50"`
	Email      string  `json:"email" validate:"required,email,max=40"`
	Discipline *string `json:"disciplina" validate:"omitempty,max=100"`
}

type TeacherUpdateRequest struct {
	Name       *string `json:"nome" validate:"omitempty,not_blank,max=50"`
	Email      *string `json:"email" validate:"omitempty,email,max=40"`
	Discipline *string `json:"disciplina" validate:"omitempty,max=100"`
}

func (r *TeacherUpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Discipline == nil
}

type StudentCreateRequest struct {
	Name     string  `json:"nome" validate:"required,not_blank,max=50"`
	Email    string  `json:"email" validate:"required,email,max=40"`
	Phone    *string `json:"tel_celular" validate:"omitempty,telefone"`
	CourseID *uint   `json:"id_curso" validate:"omitempty,min=1"`
}

type StudentUpdateRequest struct {
	Name     *string `json:"nome" validate:"omitempty,not_blank,max=50"`
	Email    *string `json:"email" validate:"omitempty,email,max=40"`
	Phone    *string `json:"tel_celular" validate:"omitempty,telefone"`
	CourseID *uint   `json:"id_curso" validate:"omitempty,min=1"`
}

func (r *StudentUpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil && r.CourseID == nil
}

type GradeCreateRequest struct {
	DisciplineID uint     `json:"id_disciplina" validate:"required,min=1"`
	Bimester     int      `json:"bimestre" validate:"required,min=1,max=4"`
	Value        *float64 `json:"nota" validate:"required,gte=0,lte=10"`
}

type GradeUpdateRequest struct {
	DisciplineID *uint    `json:"id_disciplina" validate:"omitempty,min=1"`
	Bimester     *int     `json:"bimestre" validate:"omitempty,min=1,max=4"`
	Value        *float64 `json:"nota" validate:"omitempty,gte=0,lte=10"`
}

func (r *GradeUpdateRequest) IsEmpty() bool {
	return r.DisciplineID == nil && r.Bimester == nil && r.Value == nil
}

type NoteCreateRequest struct {
	Title string  `json:"titulo" validate:"required,not_blank,max=50"`
	Body  string  `json:"anotacao" validate:"required,not_blank,max=255"`
	Date  *string `json:"dt_anotacao" validate:"omitempty,data"`
}

type NoteUpdateRequest struct {
	Title *string `json:"titulo" validate:"omitempty,not_blank,max=50"`
	Body  *string `json:"anotacao" validate:"omitempty,not_blank,max=255"`
	Date  *string `json:"dt_anotacao" validate:"omitempty,data"`
}

func (r *NoteUpdateRequest) IsEmpty() bool {
	return r.Title == nil && r.Body == nil && r.Date == nil
}

type CalendarCreateRequest struct {
	Date       string `json:"data_evento" validate:"required,data"`
	DateTypeID uint   `json:"id_tipo_data" validate:"required,min=1,max=3"`
}

type CalendarUpdateRequest struct {
	Date       *string `json:"data_evento" validate:"omitempty,data"`
	DateTypeID *uint   `json:"id_tipo_data" validate:"omitempty,min=1,max=3"`
}

func (r *CalendarUpdateRequest) IsEmpty() bool {
	return r.Date == nil && r.DateTypeID == nil
}

type ScheduleCreateRequest struct {
	Weekday     int    `json:"dia_semana" validate:"required,min=1,max=6"`
	ClassNumber *int   `json:"numero_aula" validate:"omitempty,min=1,max=4"`
	Discipline  string `json:"disciplina" validate:"required,not_blank,max=100"`
}

type ScheduleUpdateRequest struct {
	Weekday     *int    `json:"dia_semana" validate:"omitempty,min=1,max=6"`
	ClassNumber *int    `json:"numero_aula" validate:"omitempty,min=1,max=4"`
	Discipline  *string `json:"disciplina" validate:"omitempty,not_blank,max=100"`
}

func (r *ScheduleUpdateRequest) IsEmpty() bool {
	return r.Weekday == nil && r.ClassNumber == nil && r.Discipline == nil
}
