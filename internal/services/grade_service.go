package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/events"
	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/repositories"
	"github.com/agenda-academica/academic-service/internal/validator"
)

const reportCardSheet = "Boletim"

type gradeService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewGradeService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) GradeService {
	return &gradeService{repo: repo, db: db, logger: logger, validator: validator, publisher: publisher}
}

func (s *gradeService) Create(ctx context.Context, user *models.User, req *GradeCreateRequest) (*models.Grade, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	grade := &models.Grade{
		RA:           user.RA,
		DisciplineID: req.DisciplineID,
		Bimester:     req.Bimester,
		Value:        roundGrade(*req.Value),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireDiscipline(ctx, tx, req.DisciplineID); err != nil {
			return err
		}
		if err := s.repo.Grade().Create(ctx, tx, grade); err != nil {
			return fmt.Errorf("failed to create grade: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Grade recorded", "id_nota", grade.ID, "ra", user.RA)
	s.publishRecorded(ctx, grade)
	return grade, nil
}

func (s *gradeService) Get(ctx context.Context, user *models.User, id uint) (*models.Grade, error) {
	return loadOwned(ctx, nil, s.repo.Grade().GetByID, id, user, "grade", "read", ErrGradeNotFound)
}

func (s *gradeService) List(ctx context.Context, user *models.User, filters repositories.GradeFilters, page repositories.Pagination) (*ListResult[*models.Grade], error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	items, total, err := s.repo.Grade().ListByRA(ctx, nil, user.RA, filters, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return newListResult(items, total, page, identity[*models.Grade]), nil
}

func (s *gradeService) Replace(ctx context.Context, user *models.User, id uint, req *GradeCreateRequest) (*models.Grade, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return s.update(ctx, user, id, "replace", &req.DisciplineID, func(g *models.Grade) {
		g.DisciplineID = req.DisciplineID
		g.Bimester = req.Bimester
		g.Value = roundGrade(*req.Value)
	})
}

func (s *gradeService) Update(ctx context.Context, user *models.User, id uint, req *GradeUpdateRequest) (*models.Grade, error) {
	if req.IsEmpty() {
		return nil, ErrNoUpdateData
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return s.update(ctx, user, id, "update", req.DisciplineID, func(g *models.Grade) {
		if req.DisciplineID != nil {
			g.DisciplineID = *req.DisciplineID
		}
		if req.Bimester != nil {
			g.Bimester = *req.Bimester
		}
		if req.Value != nil {
			g.Value = roundGrade(*req.Value)
		}
	})
}

func (s *gradeService) update(ctx context.Context, user *models.User, id uint, action string, disciplineID *uint, apply func(*models.Grade)) (*models.Grade, error) {
	var grade *models.Grade
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		grade, err = loadOwned(ctx, tx, s.repo.Grade().GetByID, id, user, "grade", action, ErrGradeNotFound)
		if err != nil {
			return err
		}
		if disciplineID != nil {
			if err := s.requireDiscipline(ctx, tx, *disciplineID); err != nil {
				return err
			}
		}

		apply(grade)
		if err := s.repo.Grade().Update(ctx, tx, grade); err != nil {
			return fmt.Errorf("failed to %s grade: %w", action, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishRecorded(ctx, grade)
	return grade, nil
}

func (s *gradeService) Delete(ctx context.Context, user *models.User, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwned(ctx, tx, s.repo.Grade().GetByID, id, user, "grade", "delete", ErrGradeNotFound); err != nil {
			return err
		}
		if err := s.repo.Grade().Delete(ctx, tx, id); err != nil {
			return mapRepoError(err, ErrGradeNotFound, "delete grade")
		}
		return nil
	})
}

func (s *gradeService) requireDiscipline(ctx context.Context, tx *gorm.DB, id uint) error {
	if _, err := s.repo.Discipline().GetByID(ctx, tx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return fmt.Errorf("validation failed: %w", validationError("id_disciplina", "disciplina não encontrada", id))
		}
		return fmt.Errorf("failed to load discipline: %w", err)
	}
	return nil
}

func (s *gradeService) publishRecorded(ctx context.Context, grade *models.Grade) {
	publish(ctx, s.publisher, s.logger, events.GradeRecorded, map[string]interface{}{
		"id_nota":       grade.ID,
		"ra":            grade.RA,
		"id_disciplina": grade.DisciplineID,
		"bimestre":      grade.Bimester,
		"nota":          grade.Value,
	})
}

// ===== REPORT CARD =====

type reportCardRow struct {
	discipline string
	bimesters  [4]*float64
}

func (r *reportCardRow) average() *float64 {
	var sum float64
	var n int
	for _, v := range r.bimesters {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := roundGrade(sum / float64(n))
	return &avg
}

// ExportReportCard builds one row per discipline with a column per bimester
// and the mean of the bimesters present. A later grade for the same
// discipline and bimester replaces an earlier one.
func (s *gradeService) ExportReportCard(ctx context.Context, user *models.User) ([]byte, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}

	grades, _, err := s.repo.Grade().ListByRA(ctx, nil, user.RA, repositories.GradeFilters{}, repositories.Pagination{})
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}

	ids := make([]uint, 0, len(grades))
	seen := map[uint]bool{}
	for _, g := range grades {
		if !seen[g.DisciplineID] {
			seen[g.DisciplineID] = true
			ids = append(ids, g.DisciplineID)
		}
	}
	disciplines, err := s.repo.Discipline().GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load disciplines: %w", err)
	}
	names := make(map[uint]string, len(disciplines))
	for _, d := range disciplines {
		names[d.ID] = d.Name
	}

	rows := map[uint]*reportCardRow{}
	for _, g := range grades {
		row, ok := rows[g.DisciplineID]
		if !ok {
			row = &reportCardRow{discipline: names[g.DisciplineID]}
			rows[g.DisciplineID] = row
		}
		if g.Bimester >= 1 && g.Bimester <= 4 {
			v := g.Value
			row.bimesters[g.Bimester-1] = &v
		}
	}

	ordered := make([]*reportCardRow, 0, len(rows))
	for _, row := range rows {
		ordered = append(ordered, row)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].discipline < ordered[j].discipline })

	data, err := renderReportCard(ordered)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Report card exported", "ra", user.RA, "disciplines", len(ordered))
	return data, nil
}

func renderReportCard(rows []*reportCardRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportCardSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"Disciplina", "1º Bimestre", "2º Bimestre", "3º Bimestre", "4º Bimestre", "Média"}
	if err := f.SetSheetRow(reportCardSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(reportCardSheet, "A1", "F1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(reportCardSheet, "A", "A", 40); err != nil {
		return nil, fmt.Errorf("failed to size column: %w", err)
	}

	for i, row := range rows {
		values := []interface{}{row.discipline}
		for _, v := range row.bimesters {
			values = append(values, cellValue(v))
		}
		values = append(values, cellValue(row.average()))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(reportCardSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// roundGrade keeps two decimal places, the precision of the nota column
func roundGrade(v float64) float64 {
	return math.Round(v*100) / 100
}
