package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenda-academica/academic-service/internal/auth"
	"github.com/agenda-academica/academic-service/internal/config"
	"github.com/agenda-academica/academic-service/internal/events"
	"github.com/agenda-academica/academic-service/internal/repositories/postgres"
	"github.com/agenda-academica/academic-service/internal/services"
	"github.com/agenda-academica/academic-service/internal/testutil"
	"github.com/agenda-academica/academic-service/internal/utils"
	"github.com/agenda-academica/academic-service/internal/validator"
)

const (
	raAna   = "1234567890123"
	raBruno = "9876543210987"
)

type testServer struct {
	router *gin.Engine
	tokens *auth.TokenManager
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Total   int64           `json:"total"`
	Skip    int             `json:"skip"`
	Limit   int             `json:"limit"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := testutil.NewTestDB(t)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	tokens := auth.NewTokenManager([]byte("handler-test-secret"), 0, 0)

	sm := services.NewServiceManager(services.Dependencies{
		DB:        db,
		Repo:      repo,
		Logger:    slogger,
		Validator: validator.New(),
		Tokens:    tokens,
		Hasher:    auth.NewPasswordHasher(4),
		Publisher: events.NewMockEventPublisher(slogger),
	})
	require.NoError(t, sm.Initialize(context.Background()))

	logger := utils.NewSlogLogger(slogger)
	router := gin.New()
	SetupMiddleware(router, logger)
	NewHandlerManager(sm, RouterConfig{
		APIVersion: "1.1.0",
		Auth:       config.AuthConfig{},
		DBCheck:    repo.Ping,
	}, logger).SetupRoutes(router)

	return &testServer{router: router, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) envelope {
	t.Helper()
	env := decode(t, w)
	require.NoError(t, json.Unmarshal(env.Data, dest))
	return env
}

func registerBody(ra, username string) gin.H {
	return gin.H{
		"ra":               ra,
		"nome":             "Aluno " + username,
		"email":            username + "@example.com",
		"username":         username,
		"senha_hash":       "segredo123",
		"nome_instituicao": "FATEC São Paulo",
	}
}

// signUp registers an account and logs it in, returning the access token
func (s *testServer) signUp(t *testing.T, ra, username string) string {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/v1/usuario", "", registerBody(ra, username))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/usuario/login", "", gin.H{"username": username, "senha_hash": "segredo123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	assert.Equal(t, "bearer", tokens.TokenType)
	return tokens.AccessToken
}

func refreshCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	return nil
}

func TestNoteOwnershipScenario(t *testing.T) {
	s := newTestServer(t)
	ana := s.signUp(t, raAna, "ana")
	bruno := s.signUp(t, raBruno, "bruno")

	w := s.do(t, http.MethodPost, "/api/v1/anotacao", ana, gin.H{
		"titulo":      "Prova de Cálculo",
		"anotacao":    "Estudar limites",
		"dt_anotacao": "2024-06-10",
		"ra":          raBruno,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var note services.NoteResponse
	env := decodeData(t, w, &note)
	assert.True(t, env.Success)
	assert.Equal(t, raAna, note.RA, "owner comes from the token")
	notePath := fmt.Sprintf("/api/v1/anotacao/%d", note.ID)

	w = s.do(t, http.MethodGet, notePath, bruno, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, decode(t, w).Success)

	w = s.do(t, http.MethodGet, notePath, ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got services.NoteResponse
	decodeData(t, w, &got)
	assert.Equal(t, "Prova de Cálculo", got.Title)
	assert.Equal(t, "Estudar limites", got.Body)
	assert.Equal(t, "2024-06-10", got.Date)

	w = s.do(t, http.MethodPatch, notePath, bruno, gin.H{"titulo": "invadido"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, notePath, bruno, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, notePath, ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted map[string]uint
	decodeData(t, w, &deleted)
	assert.Equal(t, note.ID, deleted["id_deletado"])

	w = s.do(t, http.MethodGet, notePath, ana, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Anotação não encontrada", decode(t, w).Message)
}

func TestUnknownAndInvalidIDs(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, raAna, "ana")

	w := s.do(t, http.MethodGet, "/api/v1/anotacao/424242", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/docentes/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/instituicoes/999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Instituição não encontrada", decode(t, w).Message)
}

func TestRegisterValidationAndDuplicates(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, raAna, "ana")

	w := s.do(t, http.MethodPost, "/api/v1/usuario", "", registerBody(raAna, "outra"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "RA já cadastrado", decode(t, w).Message)

	w = s.do(t, http.MethodPost, "/api/v1/usuario", "", registerBody("123", "curto"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/usuario", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/usuario", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode(t, w).Total)
}

func TestPagination(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, raAna, "ana")

	for i := 0; i < 5; i++ {
		w := s.do(t, http.MethodPost, "/api/v1/horario", token, gin.H{
			"dia_semana": i%6 + 1,
			"disciplina": fmt.Sprintf("Disciplina %d", i),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	var first, second []struct {
		ID uint `json:"id_horario"`
	}
	w := s.do(t, http.MethodGet, "/api/v1/horario?skip=0&limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeData(t, w, &first)
	assert.Equal(t, int64(5), env.Total)
	assert.Equal(t, 0, env.Skip)
	assert.Equal(t, 2, env.Limit)

	w = s.do(t, http.MethodGet, "/api/v1/horario?skip=2&limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &second)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	for _, a := range first {
		for _, b := range second {
			assert.NotEqual(t, a.ID, b.ID)
		}
	}

	w = s.do(t, http.MethodGet, "/api/v1/horario", token, nil)
	env = decode(t, w)
	assert.Equal(t, 100, env.Limit)

	for _, query := range []string{"limit=0", "limit=1001", "skip=-1", "limit=abc"} {
		w = s.do(t, http.MethodGet, "/api/v1/horario?"+query, token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestRefreshCookieRotation(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, raAna, "ana")

	w := s.do(t, http.MethodPost, "/api/v1/usuario/login", "", gin.H{"username": "ana", "senha_hash": "segredo123"})
	require.Equal(t, http.StatusOK, w.Code)

	cookie := refreshCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 604800, cookie.MaxAge)
	assert.Equal(t, "/", cookie.Path)

	var login TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	// Cookie only
	w = s.do(t, http.MethodPost, "/api/v1/usuario/refresh", "", nil, &http.Cookie{Name: refreshCookieName, Value: cookie.Value})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, refreshCookie(w))

	var refreshed TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	_, err := s.tokens.VerifyAccessToken(refreshed.AccessToken)
	require.NoError(t, err)

	w = s.do(t, http.MethodGet, "/api/v1/usuario/me", refreshed.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Body token, access token rejected
	w = s.do(t, http.MethodPost, "/api/v1/usuario/refresh", "", gin.H{"refresh_token": login.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Tipo de token inválido", decode(t, w).Message)

	w = s.do(t, http.MethodPost, "/api/v1/usuario/refresh", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Refresh token ausente", decode(t, w).Message)
}

func TestBearerRejections(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, raAna, "ana")

	w := s.do(t, http.MethodGet, "/api/v1/usuario/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = s.do(t, http.MethodGet, "/api/v1/usuario/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/usuario/login", "", gin.H{"username": "ana", "senha_hash": "errada123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Usuário ou senha inválidos", decode(t, w).Message)

	refresh, err := s.tokens.IssueRefreshToken(1)
	require.NoError(t, err)
	w = s.do(t, http.MethodGet, "/api/v1/usuario/me", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Token of an account that no longer exists
	orphan, err := s.tokens.IssueAccessToken(999)
	require.NoError(t, err)
	w = s.do(t, http.MethodGet, "/api/v1/usuario/me", orphan, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Usuário não encontrado", decode(t, w).Message)
}

func TestCalendarConflictAndPatch(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, raAna, "ana")

	body := gin.H{"data_evento": "2024-03-10", "id_tipo_data": 1}
	w := s.do(t, http.MethodPost, "/api/v1/calendario", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var event services.CalendarEventResponse
	decodeData(t, w, &event)

	w = s.do(t, http.MethodPost, "/api/v1/calendario", token, body)
	assert.Equal(t, http.StatusConflict, w.Code)

	path := fmt.Sprintf("/api/v1/calendario/%d", event.ID)
	w = s.do(t, http.MethodPatch, path, token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Nenhum dado fornecido para atualização", decode(t, w).Message)

	w = s.do(t, http.MethodPatch, path, token, gin.H{"id_tipo_data": 3})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &event)
	assert.Equal(t, uint(3), event.DateTypeID)

	w = s.do(t, http.MethodGet, "/api/v1/calendario/data/2024-03-10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode(t, w).Total)

	w = s.do(t, http.MethodGet, "/api/v1/calendario/tipo/9", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportCardExport(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, raAna, "ana")

	w := s.do(t, http.MethodPost, "/api/v1/disciplinas", token, gin.H{"nome": "Cálculo"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var discipline struct {
		ID uint `json:"id_disciplina"`
	}
	decodeData(t, w, &discipline)

	w = s.do(t, http.MethodPost, "/api/v1/notas", token, gin.H{"id_disciplina": discipline.ID, "bimestre": 1, "nota": 8.5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/notas/boletim.xlsx", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "boletim_"+raAna+".xlsx")
	assert.NotEmpty(t, w.Body.Bytes())

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/notas?id_disciplina=%d&bimestre=1", discipline.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode(t, w).Total)
}

func TestDeleteAccount(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, raAna, "ana")

	w := s.do(t, http.MethodPost, "/api/v1/anotacao", token, gin.H{"titulo": "x", "anotacao": "y"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/usuario", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/usuario/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "1.1.0", health.Version)
	assert.Equal(t, "ok", health.Database)
	assert.Equal(t, "disabled", health.Cache)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPasswordByteLimit(t *testing.T) {
	s := newTestServer(t)

	body := registerBody(raAna, "ana")
	body["senha_hash"] = strings.Repeat("é", 40)
	w := s.do(t, http.MethodPost, "/api/v1/usuario", "", body)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "senha_hash: senha deve ter no máximo 72 bytes", decode(t, w).Message)

	fits := strings.Repeat("é", 36)
	body["senha_hash"] = fits
	w = s.do(t, http.MethodPost, "/api/v1/usuario", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/usuario/login", "", gin.H{"username": "ana", "senha_hash": fits})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))

	w = s.do(t, http.MethodPatch, "/api/v1/usuario", tokens.AccessToken, gin.H{"senha_hash": strings.Repeat("ç", 50)})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestCatalogListsArePaginated(t *testing.T) {
	s := newTestServer(t)
	ana := s.signUp(t, raAna, "ana")
	bruno := s.signUp(t, raBruno, "bruno")

	w := s.do(t, http.MethodGet, "/api/v1/tipo-data?skip=1&limit=1", ana, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dateTypes []map[string]interface{}
	env := decodeData(t, w, &dateTypes)
	assert.Equal(t, int64(3), env.Total)
	assert.Equal(t, 1, env.Skip)
	assert.Equal(t, 1, env.Limit)
	require.Len(t, dateTypes, 1)
	assert.Equal(t, "Não Letivo", dateTypes[0]["nome"])

	w = s.do(t, http.MethodGet, "/api/v1/tipo-data?limit=5000", ana, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/instituicoes", ana, gin.H{"nome": "FATEC Zona Leste"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var inst struct {
		ID uint `json:"id_instituicao"`
	}
	decodeData(t, w, &inst)

	w = s.do(t, http.MethodPost, "/api/v1/cursos", ana, gin.H{"nome": "ADS", "id_instituicao": inst.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var course struct {
		ID uint `json:"id_curso"`
	}
	decodeData(t, w, &course)

	var disciplineIDs []uint
	for _, name := range []string{"Cálculo", "Algoritmos"} {
		w = s.do(t, http.MethodPost, "/api/v1/disciplinas", ana, gin.H{"nome": name})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var d struct {
			ID uint `json:"id_disciplina"`
		}
		decodeData(t, w, &d)
		disciplineIDs = append(disciplineIDs, d.ID)

		w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/cursos/%d/disciplinas", course.ID), ana, gin.H{"id_disciplina": d.ID})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/cursos/%d/disciplinas?limit=1", course.ID), ana, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var links []services.CourseDisciplineResponse
	env = decodeData(t, w, &links)
	assert.Equal(t, int64(2), env.Total)
	require.Len(t, links, 1)
	assert.Equal(t, disciplineIDs[0], links[0].DisciplineID)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/cursos/%d/disciplinas?skip=-1", course.ID), ana, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/docentes", ana, gin.H{"nome": "Carla", "email": "carla@fatec.br"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var teacher struct {
		ID uint `json:"id_docente"`
	}
	decodeData(t, w, &teacher)

	for _, id := range disciplineIDs {
		w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/disciplinas/%d/docentes/%d", id, teacher.ID), ana, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/disciplinas/%d/docentes?limit=1", disciplineIDs[1]), ana, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env = decode(t, w)
	assert.Equal(t, int64(1), env.Total)
	assert.Equal(t, 1, env.Limit)

	teacherDisciplines := fmt.Sprintf("/api/v1/docentes/%d/disciplinas", teacher.ID)
	w = s.do(t, http.MethodGet, teacherDisciplines+"?skip=1", ana, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var taught []map[string]interface{}
	env = decodeData(t, w, &taught)
	assert.Equal(t, int64(2), env.Total)
	require.Len(t, taught, 1)
	assert.Equal(t, "Algoritmos", taught[0]["nome"])

	w = s.do(t, http.MethodGet, teacherDisciplines, bruno, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/docentes/999999/disciplinas", ana, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOwnedResourcesRejectOtherAccounts(t *testing.T) {
	s := newTestServer(t)
	ana := s.signUp(t, raAna, "ana")
	bruno := s.signUp(t, raBruno, "bruno")

	w := s.do(t, http.MethodPost, "/api/v1/disciplinas", ana, gin.H{"nome": "Cálculo"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var discipline struct {
		ID uint `json:"id_disciplina"`
	}
	decodeData(t, w, &discipline)

	tests := []struct {
		name    string
		path    string
		idField string
		create  gin.H
		replace gin.H
		patch   gin.H
	}{
		{
			name:    "teacher",
			path:    "/api/v1/docentes",
			idField: "id_docente",
			create:  gin.H{"nome": "Carla", "email": "carla@fatec.br"},
			replace: gin.H{"nome": "Carla Souza", "email": "carla.souza@fatec.br"},
			patch:   gin.H{"disciplina": "Cálculo"},
		},
		{
			name:    "student",
			path:    "/api/v1/discentes",
			idField: "id_discente",
			create:  gin.H{"nome": "João", "email": "joao@fatec.br"},
			replace: gin.H{"nome": "João Lima", "email": "joao.lima@fatec.br"},
			patch:   gin.H{"tel_celular": "11987654321"},
		},
		{
			name:    "grade",
			path:    "/api/v1/notas",
			idField: "id_nota",
			create:  gin.H{"id_disciplina": discipline.ID, "bimestre": 1, "nota": 7.5},
			replace: gin.H{"id_disciplina": discipline.ID, "bimestre": 2, "nota": 8},
			patch:   gin.H{"nota": 9},
		},
		{
			name:    "note",
			path:    "/api/v1/anotacao",
			idField: "id_anotacao",
			create:  gin.H{"titulo": "Prova", "anotacao": "Estudar", "dt_anotacao": "2024-06-10"},
			replace: gin.H{"titulo": "Prova 2", "anotacao": "Revisar", "dt_anotacao": "2024-06-11"},
			patch:   gin.H{"titulo": "Prova final"},
		},
		{
			name:    "calendar",
			path:    "/api/v1/calendario",
			idField: "id_data_evento",
			create:  gin.H{"data_evento": "2024-06-10", "id_tipo_data": 3},
			replace: gin.H{"data_evento": "2024-06-11", "id_tipo_data": 1},
			patch:   gin.H{"id_tipo_data": 2},
		},
		{
			name:    "schedule",
			path:    "/api/v1/horario",
			idField: "id_horario",
			create:  gin.H{"dia_semana": 1, "numero_aula": 1, "disciplina": "Cálculo"},
			replace: gin.H{"dia_semana": 2, "numero_aula": 3, "disciplina": "Algoritmos"},
			patch:   gin.H{"numero_aula": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, tt.path, ana, tt.create)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			var created map[string]interface{}
			decodeData(t, w, &created)
			id, ok := created[tt.idField].(float64)
			require.True(t, ok, "missing %s in %v", tt.idField, created)
			itemPath := fmt.Sprintf("%s/%d", tt.path, uint(id))
			unknownPath := tt.path + "/999999"

			w = s.do(t, http.MethodGet, itemPath, bruno, nil)
			assert.Equal(t, http.StatusForbidden, w.Code, "GET by another account")
			w = s.do(t, http.MethodPut, itemPath, bruno, tt.replace)
			assert.Equal(t, http.StatusForbidden, w.Code, "PUT by another account")
			w = s.do(t, http.MethodPatch, itemPath, bruno, tt.patch)
			assert.Equal(t, http.StatusForbidden, w.Code, "PATCH by another account")
			w = s.do(t, http.MethodDelete, itemPath, bruno, nil)
			assert.Equal(t, http.StatusForbidden, w.Code, "DELETE by another account")

			w = s.do(t, http.MethodGet, unknownPath, bruno, nil)
			assert.Equal(t, http.StatusNotFound, w.Code, "GET unknown id")
			w = s.do(t, http.MethodPut, unknownPath, ana, tt.replace)
			assert.Equal(t, http.StatusNotFound, w.Code, "PUT unknown id")
			w = s.do(t, http.MethodPatch, unknownPath, ana, tt.patch)
			assert.Equal(t, http.StatusNotFound, w.Code, "PATCH unknown id")
			w = s.do(t, http.MethodDelete, unknownPath, ana, nil)
			assert.Equal(t, http.StatusNotFound, w.Code, "DELETE unknown id")

			w = s.do(t, http.MethodGet, itemPath, ana, nil)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
			w = s.do(t, http.MethodPut, itemPath, ana, tt.replace)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
			w = s.do(t, http.MethodPatch, itemPath, ana, tt.patch)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

			w = s.do(t, http.MethodGet, tt.path, bruno, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Zero(t, decode(t, w).Total, "lists are scoped to the caller")

			w = s.do(t, http.MethodDelete, itemPath, ana, nil)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
			w = s.do(t, http.MethodGet, itemPath, ana, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}
