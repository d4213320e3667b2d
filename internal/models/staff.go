package models

// Teacher is a docente record kept by a user. RA is the owner.
type Teacher struct {
	ID         uint    `json:"id_docente" gorm:"column:id_docente;primaryKey"`
	Name       string  `json:"nome" gorm:"column:nome;size:50;not null"`
	Email      string  `json:"email" gorm:"column:email;size:40;uniqueIndex;not null"`
	RA         string  `json:"ra" gorm:"column:ra;size:13;not null;index"`
	Discipline *string `json:"disciplina" gorm:"column:disciplina;size:100"`
}

func (Teacher) TableName() string {
	return "docente"
}

func (t *Teacher) OwnerRA() string { return t.RA }

// Student is a discente record kept by a user. RA is the owner.
type Student struct {
	ID       uint    `json:"id_discente" gorm:"column:id_discente;primaryKey"`
	Name     string  `json:"nome" gorm:"column:nome;size:50;not null"`
	Email    string  `json:"email" gorm:"column:email;size:40;uniqueIndex;not null"`
	Phone    *string `json:"tel_celular" gorm:"column:tel_celular;size:15"`
	CourseID *uint   `json:"id_curso" gorm:"column:id_curso;index"`
	RA       string  `json:"ra" gorm:"column:ra;size:13;not null;index"`
}

func (Student) TableName() string {
	return "discente"
}

func (s *Student) OwnerRA() string { return s.RA }

type DisciplineTeacher struct {
	DisciplineID uint `json:"id_disciplina" gorm:"column:id_disciplina;primaryKey;autoIncrement:false"`
	TeacherID    uint `json:"id_docente" gorm:"column:id_docente;primaryKey;autoIncrement:false"`

	Discipline *Discipline `json:"-" gorm:"foreignKey:DisciplineID;references:ID"`
	Teacher    *Teacher    `json:"-" gorm:"foreignKey:TeacherID;references:ID"`
}

func (DisciplineTeacher) TableName() string {
	return "disciplina_docente"
}
