package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/auth"
	"github.com/agenda-academica/academic-service/internal/events"
	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/repositories"
	"github.com/agenda-academica/academic-service/internal/repositories/postgres"
	"github.com/agenda-academica/academic-service/internal/testutil"
	"github.com/agenda-academica/academic-service/internal/validator"
)

type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	sm        ServiceManager
	tokens    *auth.TokenManager
	publisher *events.MockEventPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newCachedTestEnv(t, nil)
}

// newCachedTestEnv backs the user and catalog lookups with redisClient when set
func newCachedTestEnv(t *testing.T, redisClient *redis.Client) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := testutil.NewTestDB(t)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db, RedisClient: redisClient})
	tokens := auth.NewTokenManager([]byte("test-secret"), 0, 0)
	publisher := events.NewMockEventPublisher(logger)

	sm := NewServiceManager(Dependencies{
		DB:        db,
		Repo:      repo,
		Logger:    logger,
		Validator: validator.New(),
		Tokens:    tokens,
		Hasher:    auth.NewPasswordHasher(4),
		Publisher: publisher,
	})
	require.NoError(t, sm.Initialize(context.Background()))

	return &testEnv{db: db, repo: repo, sm: sm, tokens: tokens, publisher: publisher}
}

func strPtr(s string) *string { return &s }

func registerRequest(ra, username, email string) *UserCreateRequest {
	return &UserCreateRequest{
		RA:              ra,
		Name:            "Aluno " + username,
		Email:           email,
		Username:        username,
		Password:        "segredo123",
		InstitutionName: "FATEC São Paulo",
		BirthDate:       strPtr("2001-05-17"),
	}
}

// register creates an account and returns the live row
func (e *testEnv) register(t *testing.T, ra, username string) *models.User {
	t.Helper()
	ctx := context.Background()

	resp, err := e.sm.User().Register(ctx, registerRequest(ra, username, username+"@example.com"))
	require.NoError(t, err)

	user, err := e.repo.User().GetByID(ctx, nil, resp.ID)
	require.NoError(t, err)
	return user
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestUserService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.sm.User().Register(ctx, registerRequest("1234567890123", "maria", "maria@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "1234567890123", resp.RA)
	assert.Equal(t, 1, resp.Module)
	require.NotNil(t, resp.BirthDate)
	assert.Equal(t, "2001-05-17", *resp.BirthDate)

	stored, err := env.repo.User().GetByID(ctx, nil, resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "segredo123", stored.PasswordHash)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.UserRegistered, published[0].Type)

	// A second account at the same institution reuses the row
	_, err = env.sm.User().Register(ctx, registerRequest("1234567890124", "joao", "joao@example.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRows(t, env.db, &models.Institution{}))
}

func TestUserService_RegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "1234567890123", "maria")

	tests := []struct {
		name  string
		req   *UserCreateRequest
		field string
	}{
		{"ra", registerRequest("1234567890123", "outra", "outra@example.com"), "ra"},
		{"email", registerRequest("9999999999999", "outra", "maria@example.com"), "email"},
		{"username", registerRequest("9999999999999", "maria", "outra@example.com"), "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.sm.User().Register(ctx, tt.req)

			var dup *DuplicateError
			require.ErrorAs(t, err, &dup)
			assert.Equal(t, tt.field, dup.Field)
			assert.Equal(t, http.StatusBadRequest, dup.Status)
			assert.Equal(t, int64(1), countRows(t, env.db, &models.User{}))
		})
	}
}

func TestUserService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	req := registerRequest("123", "maria", "maria@example.com")
	_, err := env.sm.User().Register(context.Background(), req)

	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "ra", ve[0].Field)

	missingCourse := registerRequest("1234567890123", "maria", "maria@example.com")
	courseID := uint(42)
	missingCourse.CourseID = &courseID
	_, err = env.sm.User().Register(context.Background(), missingCourse)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "id_curso", ve[0].Field)
	assert.Equal(t, int64(0), countRows(t, env.db, &models.User{}))
}

func TestFindOrCreate_RetriesLookupOnConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	lookups := 0
	err := env.db.Transaction(func(tx *gorm.DB) error {
		got, err := findOrCreate(ctx, tx, logger, "institution",
			func(*gorm.DB) (*models.Institution, error) {
				lookups++
				if lookups == 1 {
					return nil, repositories.ErrNotFound
				}
				return &models.Institution{ID: 7, Name: "FATEC"}, nil
			},
			func(*gorm.DB) (*models.Institution, error) {
				return nil, fmt.Errorf("insert: %w", repositories.ErrDuplicate)
			},
		)
		require.NoError(t, err)
		assert.Equal(t, uint(7), got.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, lookups)
}

func TestFindOrCreate_SavepointKeepsOuterTransaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, env.repo.Institution().Create(ctx, nil, &models.Institution{Name: "FATEC"}))

	err := env.db.Transaction(func(tx *gorm.DB) error {
		first := true
		inst, err := findOrCreate(ctx, tx, logger, "institution",
			func(db *gorm.DB) (*models.Institution, error) {
				// Simulate the race: the first lookup misses a committed row
				if first {
					first = false
					return nil, repositories.ErrNotFound
				}
				return env.repo.Institution().GetByName(ctx, db, "FATEC")
			},
			func(db *gorm.DB) (*models.Institution, error) {
				inst := &models.Institution{Name: "FATEC"}
				return inst, env.repo.Institution().Create(ctx, db, inst)
			},
		)
		if err != nil {
			return err
		}
		assert.Equal(t, "FATEC", inst.Name)
		return env.repo.Course().Create(ctx, tx, &models.Course{Name: "ADS", InstitutionID: inst.ID})
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRows(t, env.db, &models.Institution{}))
	assert.Equal(t, int64(1), countRows(t, env.db, &models.Course{}))
}

func TestAuthService_LoginAndRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "1234567890123", "maria")

	pair, err := env.sm.Auth().Login(ctx, &LoginRequest{Username: "maria", Password: "segredo123"})
	require.NoError(t, err)

	id, err := env.tokens.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	authed, err := env.sm.Auth().Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.RA, authed.RA)

	refreshed, err := env.sm.Auth().Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	id, err = env.tokens.VerifyAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	// Tokens are not interchangeable
	var authErr *AuthError
	_, err = env.sm.Auth().Refresh(ctx, pair.AccessToken)
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, auth.ErrWrongTokenType)

	_, err = env.sm.Auth().Authenticate(ctx, pair.RefreshToken)
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, auth.ErrWrongTokenType)
}

func TestAuthService_LoginRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "1234567890123", "maria")

	for _, req := range []*LoginRequest{
		{Username: "maria", Password: "errada123"},
		{Username: "ninguem", Password: "segredo123"},
	} {
		_, err := env.sm.Auth().Login(ctx, req)
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "Usuário ou senha inválidos", authErr.Message)
	}

	_, err := env.sm.Auth().Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrRefreshTokenAbsent)
}

func TestAuthService_DeletedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "1234567890123", "maria")

	pair, err := env.tokens.IssuePair(user.ID)
	require.NoError(t, err)
	require.NoError(t, env.sm.User().DeleteSelf(ctx, user))

	_, err = env.sm.Auth().Authenticate(ctx, pair.AccessToken)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_CachedAccountDroppedAfterCommit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	env := newCachedTestEnv(t, client)
	ctx := context.Background()
	user := env.register(t, "1234567890123", "maria")
	key := fmt.Sprintf("user:id:%d", user.ID)

	pair, err := env.tokens.IssuePair(user.ID)
	require.NoError(t, err)
	_, err = env.sm.Auth().Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.True(t, mr.Exists(key))

	_, err = env.sm.User().UpdateSelf(ctx, user, &UserUpdateRequest{Name: strPtr("Maria Souza")})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key))

	current, err := env.sm.Auth().Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", current.Name)
	require.True(t, mr.Exists(key))

	require.NoError(t, env.sm.User().DeleteSelf(ctx, current))
	assert.False(t, mr.Exists(key))

	_, err = env.sm.Auth().Authenticate(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateSelf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "1234567890123", "maria")
	env.register(t, "1234567890124", "joao")

	_, err := env.sm.User().UpdateSelf(ctx, user, &UserUpdateRequest{})
	assert.ErrorIs(t, err, ErrNoUpdateData)

	_, err = env.sm.User().UpdateSelf(ctx, user, &UserUpdateRequest{Username: strPtr("joao")})
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)

	resp, err := env.sm.User().UpdateSelf(ctx, user, &UserUpdateRequest{
		Name:            strPtr("Maria Souza"),
		Password:        strPtr("novasenha"),
		InstitutionName: strPtr("ETEC"),
		CourseName:      strPtr("Análise e Desenvolvimento de Sistemas"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", resp.Name)
	require.NotNil(t, resp.CourseID)

	course, err := env.repo.Course().GetByID(ctx, nil, *resp.CourseID)
	require.NoError(t, err)
	assert.Equal(t, resp.InstitutionID, course.InstitutionID)

	_, err = env.sm.Auth().Login(ctx, &LoginRequest{Username: "maria", Password: "novasenha"})
	require.NoError(t, err)
}

func TestUserService_DeleteSelfCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "1234567890123", "ana")
	bruno := env.register(t, "1234567890124", "bruno")

	discipline, err := env.sm.Discipline().Create(ctx, &DisciplineCreateRequest{Name: "Cálculo"})
	require.NoError(t, err)

	for _, u := range []*models.User{ana, bruno} {
		_, err := env.sm.Note().Create(ctx, u, &NoteCreateRequest{Title: "Prova", Body: "Estudar"})
		require.NoError(t, err)
		zero := 0.0
		_, err = env.sm.Grade().Create(ctx, u, &GradeCreateRequest{DisciplineID: discipline.ID, Bimester: 1, Value: &zero})
		require.NoError(t, err)
		_, err = env.sm.Calendar().Create(ctx, u, &CalendarCreateRequest{Date: "2024-03-10", DateTypeID: models.DateTypeAbsence})
		require.NoError(t, err)
		_, err = env.sm.Schedule().Create(ctx, u, &ScheduleCreateRequest{Weekday: 1, Discipline: "Cálculo"})
		require.NoError(t, err)
		teacher, err := env.sm.Teacher().Create(ctx, u, &TeacherCreateRequest{Name: "Prof", Email: u.Username + "@prof.edu"})
		require.NoError(t, err)
		require.NoError(t, env.sm.Discipline().AddTeacher(ctx, u, discipline.ID, teacher.ID))
		_, err = env.sm.Student().Create(ctx, u, &StudentCreateRequest{Name: "Colega", Email: u.Username + "@aluno.edu"})
		require.NoError(t, err)
	}
	env.publisher.ClearEvents()

	require.NoError(t, env.sm.User().DeleteSelf(ctx, ana))

	for _, model := range []interface{}{
		&models.Note{}, &models.Grade{}, &models.CalendarEvent{}, &models.Schedule{},
		&models.Teacher{}, &models.Student{}, &models.DisciplineTeacher{}, &models.User{},
	} {
		assert.Equal(t, int64(1), countRows(t, env.db, model), "%T", model)
	}

	_, err = env.sm.User().GetByID(ctx, ana.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.UserDeleted, published[0].Type)
	assert.Equal(t, ana.RA, published[0].Data["ra"])
}

func TestOwnedResources_NotFoundBeforeForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "1234567890123", "ana")
	bruno := env.register(t, "1234567890124", "bruno")

	note, err := env.sm.Note().Create(ctx, ana, &NoteCreateRequest{Title: "Lembrete", Body: "Entregar trabalho", Date: strPtr("2024-05-01")})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", note.Date)
	assert.Equal(t, ana.RA, note.RA)

	var permErr *PermissionError

	_, err = env.sm.Note().Get(ctx, bruno, note.ID)
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, note.ID, permErr.ResourceID)
	assert.Equal(t, "read", permErr.Action)

	_, err = env.sm.Note().Update(ctx, bruno, note.ID, &NoteUpdateRequest{Title: strPtr("x")})
	require.ErrorAs(t, err, &permErr)

	err = env.sm.Note().Delete(ctx, bruno, note.ID)
	require.ErrorAs(t, err, &permErr)

	_, err = env.sm.Note().Get(ctx, bruno, 9999)
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = env.sm.Note().Get(ctx, ana, 9999)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	got, err := env.sm.Note().Get(ctx, ana, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Entregar trabalho", got.Body)

	list, err := env.sm.Note().List(ctx, bruno, repositories.DefaultPagination())
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	require.NoError(t, env.sm.Note().Delete(ctx, ana, note.ID))
}

func TestNoteService_DefaultsToToday(t *testing.T) {
	env := newTestEnv(t)
	ana := env.register(t, "1234567890123", "ana")

	note, err := env.sm.Note().Create(context.Background(), ana, &NoteCreateRequest{Title: "Hoje", Body: "Sem data"})
	require.NoError(t, err)
	assert.Equal(t, formatDate(time.Time(today())), note.Date)
}

func TestCalendarService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "1234567890123", "ana")

	event, err := env.sm.Calendar().Create(ctx, ana, &CalendarCreateRequest{Date: "2024-03-10", DateTypeID: models.DateTypeSchoolDay})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", event.Date)

	_, err = env.sm.Calendar().Create(ctx, ana, &CalendarCreateRequest{Date: "2024-03-10", DateTypeID: models.DateTypeAbsence})
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, http.StatusConflict, dup.Status)

	other, err := env.sm.Calendar().Create(ctx, ana, &CalendarCreateRequest{Date: "2024-03-11", DateTypeID: models.DateTypeAbsence})
	require.NoError(t, err)

	_, err = env.sm.Calendar().Update(ctx, ana, other.ID, &CalendarUpdateRequest{Date: strPtr("2024-03-10")})
	require.ErrorAs(t, err, &dup)

	byDate, err := env.sm.Calendar().ListByDate(ctx, ana, "2024-03-10", repositories.DefaultPagination())
	require.NoError(t, err)
	require.Len(t, byDate.Items, 1)
	assert.Equal(t, event.ID, byDate.Items[0].ID)

	byType, err := env.sm.Calendar().ListByDateType(ctx, ana, models.DateTypeAbsence, repositories.DefaultPagination())
	require.NoError(t, err)
	require.Len(t, byType.Items, 1)
	assert.Equal(t, other.ID, byType.Items[0].ID)

	_, err = env.sm.Calendar().ListByDateType(ctx, ana, 4, repositories.DefaultPagination())
	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)

	_, err = env.sm.Calendar().ListByDate(ctx, ana, "10/03/2024", repositories.DefaultPagination())
	require.ErrorAs(t, err, &ve)

	var eventTypes []events.EventType
	for _, e := range env.publisher.GetPublishedEvents() {
		eventTypes = append(eventTypes, e.Type)
	}
	assert.Contains(t, eventTypes, events.CalendarEventCreated)
}

func TestScheduleService_ReplaceAndWeekday(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "1234567890123", "ana")

	slot, err := env.sm.Schedule().Create(ctx, ana, &ScheduleCreateRequest{Weekday: 2, Discipline: "Redes"})
	require.NoError(t, err)

	class := 3
	replaced, err := env.sm.Schedule().Replace(ctx, ana, slot.ID, &ScheduleCreateRequest{Weekday: 4, ClassNumber: &class, Discipline: "Banco de Dados"})
	require.NoError(t, err)
	assert.Equal(t, 4, replaced.Weekday)
	assert.Equal(t, "Banco de Dados", replaced.Discipline)

	_, err = env.sm.Schedule().Update(ctx, ana, slot.ID, &ScheduleUpdateRequest{})
	assert.ErrorIs(t, err, ErrNoUpdateData)

	thursday, err := env.sm.Schedule().ListByWeekday(ctx, ana, 4, repositories.DefaultPagination())
	require.NoError(t, err)
	assert.Equal(t, int64(1), thursday.Total)

	_, err = env.sm.Schedule().ListByWeekday(ctx, ana, 7, repositories.DefaultPagination())
	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
}

func TestTeacherService_EmailUniqueAndLinks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "1234567890123", "ana")
	bruno := env.register(t, "1234567890124", "bruno")

	teacher, err := env.sm.Teacher().Create(ctx, ana, &TeacherCreateRequest{Name: "Carla", Email: "carla@fatec.sp.gov.br"})
	require.NoError(t, err)

	_, err = env.sm.Teacher().Create(ctx, bruno, &TeacherCreateRequest{Name: "Carla", Email: "carla@fatec.sp.gov.br"})
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)

	_, err = env.sm.Teacher().GetByEmail(ctx, bruno, "carla@fatec.sp.gov.br")
	var permErr *PermissionError
	require.ErrorAs(t, err, &permErr)

	discipline, err := env.sm.Discipline().Create(ctx, &DisciplineCreateRequest{Name: "Engenharia de Software"})
	require.NoError(t, err)

	err = env.sm.Discipline().AddTeacher(ctx, bruno, discipline.ID, teacher.ID)
	require.ErrorAs(t, err, &permErr)

	require.NoError(t, env.sm.Discipline().AddTeacher(ctx, ana, discipline.ID, teacher.ID))
	err = env.sm.Discipline().AddTeacher(ctx, ana, discipline.ID, teacher.ID)
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, http.StatusConflict, dup.Status)

	teachers, err := env.sm.Discipline().ListTeachers(ctx, discipline.ID, repositories.DefaultPagination())
	require.NoError(t, err)
	require.Len(t, teachers.Items, 1)
	assert.Equal(t, teacher.ID, teachers.Items[0].ID)

	taught, err := env.sm.Teacher().ListDisciplines(ctx, ana, teacher.ID, repositories.DefaultPagination())
	require.NoError(t, err)
	require.Len(t, taught.Items, 1)
	assert.Equal(t, discipline.ID, taught.Items[0].ID)
	_, err = env.sm.Teacher().ListDisciplines(ctx, bruno, teacher.ID, repositories.DefaultPagination())
	require.ErrorAs(t, err, &permErr)

	require.NoError(t, env.sm.Discipline().RemoveTeacher(ctx, ana, discipline.ID, teacher.ID))
	err = env.sm.Discipline().RemoveTeacher(ctx, ana, discipline.ID, teacher.ID)
	assert.ErrorIs(t, err, ErrDisciplineTeacherNotFound)
}

func TestCatalogServices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inst, err := env.sm.Institution().Create(ctx, &InstitutionRequest{Name: "FATEC"})
	require.NoError(t, err)
	_, err = env.sm.Institution().Create(ctx, &InstitutionRequest{Name: "FATEC"})
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)

	_, err = env.sm.Course().Create(ctx, &CourseCreateRequest{Name: "ADS", InstitutionID: 999})
	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)

	course, err := env.sm.Course().Create(ctx, &CourseCreateRequest{Name: "ADS", InstitutionID: inst.ID})
	require.NoError(t, err)

	discipline, err := env.sm.Discipline().Create(ctx, &DisciplineCreateRequest{Name: "Algoritmos"})
	require.NoError(t, err)

	module := 1
	link, err := env.sm.Course().AddDiscipline(ctx, course.ID, &CourseDisciplineRequest{DisciplineID: discipline.ID, Module: &module})
	require.NoError(t, err)
	assert.Equal(t, "Algoritmos", link.Name)

	_, err = env.sm.Course().AddDiscipline(ctx, course.ID, &CourseDisciplineRequest{DisciplineID: discipline.ID})
	require.ErrorAs(t, err, &dup)

	module = 2
	link, err = env.sm.Course().UpdateDiscipline(ctx, course.ID, discipline.ID, &CourseDisciplineUpdateRequest{Module: &module})
	require.NoError(t, err)
	require.NotNil(t, link.Module)
	assert.Equal(t, 2, *link.Module)

	links, err := env.sm.Course().ListDisciplines(ctx, course.ID, repositories.DefaultPagination())
	require.NoError(t, err)
	require.Len(t, links.Items, 1)
	assert.EqualValues(t, 1, links.Total)

	// Referenced rows cannot be removed
	assert.ErrorIs(t, env.sm.Institution().Delete(ctx, inst.ID), ErrResourceInUse)

	require.NoError(t, env.sm.Course().RemoveDiscipline(ctx, course.ID, discipline.ID))
	assert.ErrorIs(t, env.sm.Course().RemoveDiscipline(ctx, course.ID, discipline.ID), ErrCourseDisciplineNotFound)
	require.NoError(t, env.sm.Course().Delete(ctx, course.ID))
	require.NoError(t, env.sm.Institution().Delete(ctx, inst.ID))
	assert.ErrorIs(t, env.sm.Institution().Delete(ctx, inst.ID), ErrInstitutionNotFound)

	dateTypes, err := env.sm.DateType().List(ctx, repositories.DefaultPagination())
	require.NoError(t, err)
	assert.Len(t, dateTypes.Items, 3)

	window, err := env.sm.DateType().List(ctx, repositories.Pagination{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, window.Items, 1)
	assert.EqualValues(t, 3, window.Total)
	assert.Equal(t, models.DateTypeNonSchool, window.Items[0].ID)

	beyond, err := env.sm.DateType().List(ctx, repositories.Pagination{Skip: 10, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
}

func TestGradeService_ExportReportCard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "1234567890123", "ana")

	calc, err := env.sm.Discipline().Create(ctx, &DisciplineCreateRequest{Name: "Cálculo"})
	require.NoError(t, err)
	algo, err := env.sm.Discipline().Create(ctx, &DisciplineCreateRequest{Name: "Algoritmos"})
	require.NoError(t, err)

	record := func(disciplineID uint, bimester int, value float64) {
		_, err := env.sm.Grade().Create(ctx, ana, &GradeCreateRequest{DisciplineID: disciplineID, Bimester: bimester, Value: &value})
		require.NoError(t, err)
	}
	record(calc.ID, 1, 6)
	record(calc.ID, 2, 8)
	record(algo.ID, 1, 9.5)

	_, err = env.sm.Grade().Create(ctx, ana, &GradeCreateRequest{DisciplineID: 999, Bimester: 1, Value: new(float64)})
	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)

	data, err := env.sm.Grade().ExportReportCard(ctx, ana)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportCardSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Disciplina", rows[0][0])
	assert.Equal(t, "Algoritmos", rows[1][0])
	assert.Equal(t, "Cálculo", rows[2][0])
	assert.Equal(t, "7", rows[2][5])

	recorded := 0
	for _, e := range env.publisher.GetPublishedEvents() {
		if e.Type == events.GradeRecorded {
			recorded++
		}
	}
	assert.Equal(t, 3, recorded)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.FailWith(errors.New("broker down"))

	_, err := env.sm.User().Register(context.Background(), registerRequest("1234567890123", "maria", "maria@example.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRows(t, env.db, &models.User{}))
}

func TestServiceManager_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.sm.HealthCheck(ctx))
	require.NoError(t, env.sm.Shutdown(ctx))
	assert.Error(t, env.sm.HealthCheck(ctx))
	assert.Panics(t, func() { env.sm.Note() })

	uninitialized := NewServiceManager(Dependencies{})
	assert.Error(t, uninitialized.Initialize(ctx))
	assert.Panics(t, func() { uninitialized.User() })
}
