package models

import (
	"gorm.io/datatypes"
)

// DateFormat is the wire format of every date field
const DateFormat = "2006-01-02"

const (
	DateTypeAbsence   uint = 1 // Falta
	DateTypeNonSchool uint = 2 // Não Letivo
	DateTypeSchoolDay uint = 3 // Letivo
	MinDateTypeID          = DateTypeAbsence
	MaxDateTypeID          = DateTypeSchoolDay
)

type DateType struct {
	ID   uint   `json:"id_tipo_data" gorm:"column:id_tipo_data;primaryKey"`
	Name string `json:"nome" gorm:"column:nome;size:10;not null"`
}

func (DateType) TableName() string {
	return "tipo_data"
}

// DefaultDateTypes is the catalog seeded on an empty database
func DefaultDateTypes() []DateType {
	return []DateType{
		{ID: DateTypeAbsence, Name: "Falta"},
		{ID: DateTypeNonSchool, Name: "Não Letivo"},
		{ID: DateTypeSchoolDay, Name: "Letivo"},
	}
}

// CalendarEvent marks a date for a user. A user has at most one event per date.
type CalendarEvent struct {
	ID         uint           `json:"id_data_evento" gorm:"column:id_data_evento;primaryKey"`
	RA         string         `json:"ra" gorm:"column:ra;size:13;not null;uniqueIndex:idx_calendario_ra_data"`
	Date       datatypes.Date `json:"data_evento" gorm:"column:data_evento;not null;uniqueIndex:idx_calendario_ra_data"`
	DateTypeID uint           `json:"id_tipo_data" gorm:"column:id_tipo_data;not null;index"`

	DateType *DateType `json:"-" gorm:"foreignKey:DateTypeID;references:ID"`
}

func (CalendarEvent) TableName() string {
	return "calendario"
}

func (e *CalendarEvent) OwnerRA() string { return e.RA }

// Schedule is one class slot in the weekly timetable
type Schedule struct {
	ID          uint   `json:"id_horario" gorm:"column:id_horario;primaryKey"`
	RA          string `json:"ra" gorm:"column:ra;size:13;not null;index"`
	Weekday     int    `json:"dia_semana" gorm:"column:dia_semana;not null;index"`
	ClassNumber *int   `json:"numero_aula" gorm:"column:numero_aula"`
	Discipline  string `json:"disciplina" gorm:"column:disciplina;size:100;not null"`
}

func (Schedule) TableName() string {
	return "horario"
}

func (s *Schedule) OwnerRA() string { return s.RA }

// AllModels lists every table for AutoMigrate, parents first
func AllModels() []interface{} {
	return []interface{}{
		&Institution{},
		&Course{},
		&Discipline{},
		&CourseDiscipline{},
		&User{},
		&Teacher{},
		&DisciplineTeacher{},
		&Student{},
		&Grade{},
		&Note{},
		&DateType{},
		&CalendarEvent{},
		&Schedule{},
	}
}
