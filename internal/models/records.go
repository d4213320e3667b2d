package models

import (
	"time"

	"gorm.io/datatypes"
)

// Grade is a bimester grade between 0 and 10 with two decimal places
type Grade struct {
	ID           uint    `json:"id_nota" gorm:"column:id_nota;primaryKey"`
	RA           string  `json:"ra" gorm:"column:ra;size:13;not null;index"`
	DisciplineID uint    `json:"id_disciplina" gorm:"column:id_disciplina;not null;index"`
	Bimester     int     `json:"bimestre" gorm:"column:bimestre;not null"`
	Value        float64 `json:"nota" gorm:"column:nota;type:decimal(4,2);not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Discipline *Discipline `json:"-" gorm:"foreignKey:DisciplineID;references:ID"`
}

func (Grade) TableName() string {
	return "nota"
}

func (g *Grade) OwnerRA() string { return g.RA }

// Note is a free text annotation (anotação)
type Note struct {
	ID    uint           `json:"id_anotacao" gorm:"column:id_anotacao;primaryKey"`
	RA    string         `json:"ra" gorm:"column:ra;size:13;not null;index"`
	Title string         `json:"titulo" gorm:"column:titulo;size:50;not null"`
	Body  string         `json:"anotacao" gorm:"column:anotacao;size:255;not null"`
	Date  datatypes.Date `json:"dt_anotacao" gorm:"column:dt_anotacao;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Note) TableName() string {
	return "anotacao"
}

func (n *Note) OwnerRA() string { return n.RA }
