package repositories

import "time"

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Pagination is an offset window. A zero Limit returns every row.
type Pagination struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

func DefaultPagination() Pagination {
	return Pagination{Skip: 0, Limit: DefaultLimit}
}

type CourseFilters struct {
	InstitutionID *uint `json:"id_instituicao"`
}

type GradeFilters struct {
	DisciplineID *uint `json:"id_disciplina"`
	Bimester     *int  `json:"bimestre"`
}

type CalendarFilters struct {
	Date       *time.Time `json:"data_evento"`
	DateTypeID *uint      `json:"id_tipo_data"`
}

type ScheduleFilters struct {
	Weekday *int `json:"dia_semana"`
}
