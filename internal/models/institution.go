package models

type Institution struct {
	ID   uint   `json:"id_instituicao" gorm:"column:id_instituicao;primaryKey"`
	Name string `json:"nome" gorm:"column:nome;size:80;uniqueIndex;not null"`
}

func (Institution) TableName() string {
	return "instituicao"
}

// Course names are unique inside an institution
type Course struct {
	ID            uint   `json:"id_curso" gorm:"column:id_curso;primaryKey"`
	Name          string `json:"nome" gorm:"column:nome;size:80;not null;uniqueIndex:idx_curso_nome_instituicao"`
	InstitutionID uint   `json:"id_instituicao" gorm:"column:id_instituicao;not null;uniqueIndex:idx_curso_nome_instituicao"`

	Institution *Institution `json:"-" gorm:"foreignKey:InstitutionID;references:ID"`
}

func (Course) TableName() string {
	return "curso"
}

type Discipline struct {
	ID   uint   `json:"id_disciplina" gorm:"column:id_disciplina;primaryKey"`
	Name string `json:"nome" gorm:"column:nome;size:100;not null"`
}

func (Discipline) TableName() string {
	return "disciplina"
}

// CourseDiscipline links a discipline to a course, optionally pinned to a module
type CourseDiscipline struct {
	CourseID     uint `json:"id_curso" gorm:"column:id_curso;primaryKey;autoIncrement:false"`
	DisciplineID uint `json:"id_disciplina" gorm:"column:id_disciplina;primaryKey;autoIncrement:false"`
	Module       *int `json:"modulo" gorm:"column:modulo"`

	Course     *Course     `json:"-" gorm:"foreignKey:CourseID;references:ID"`
	Discipline *Discipline `json:"-" gorm:"foreignKey:DisciplineID;references:ID"`
}

func (CourseDiscipline) TableName() string {
	return "curso_disciplina"
}
