package models

import (
	"time"

	"gorm.io/datatypes"
)

// RALength is the fixed size of an academic ID
const RALength = 13

// User is an account holder. RA is both the business identifier and the
// owner key of every per-user record.
type User struct {
	ID            uint            `json:"id_usuario" gorm:"column:id_usuario;primaryKey"`
	RA            string          `json:"ra" gorm:"column:ra;size:13;uniqueIndex;not null"`
	Name          string          `json:"nome" gorm:"column:nome;size:50;not null"`
	Email         string          `json:"email" gorm:"column:email;size:40;uniqueIndex;not null"`
	Username      string          `json:"username" gorm:"column:username;size:20;uniqueIndex;not null"`
	PasswordHash  string          `json:"-" gorm:"column:senha_hash;size:60;not null"`
	InstitutionID uint            `json:"id_instituicao" gorm:"column:id_instituicao;not null;index"`
	BirthDate     *datatypes.Date `json:"dt_nascimento" gorm:"column:dt_nascimento"`
	Phone         *string         `json:"tel_celular" gorm:"column:tel_celular;size:15"`
	CourseID      *uint           `json:"id_curso" gorm:"column:id_curso;index"`
	Module        int             `json:"modulo" gorm:"column:modulo;not null;default:1"`
	Bimester      *int            `json:"bimestre" gorm:"column:bimestre"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Institution *Institution `json:"-" gorm:"foreignKey:InstitutionID;references:ID"`
	Course      *Course      `json:"-" gorm:"foreignKey:CourseID;references:ID"`
}

func (User) TableName() string {
	return "usuario"
}
