package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"quizfit/internal/auth"
	"quizfit/internal/db"
	"quizfit/internal/handler"
	"quizfit/internal/logger"
	"quizfit/internal/model"
	"quizfit/internal/repository"
	"quizfit/internal/router"
	"quizfit/internal/service"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{256}$`)

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Code      string          `json:"code"`
	LoggedOut bool            `json:"loggedOut"`
	Response  json.RawMessage `json:"response"`
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	gormDB, err := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB, false))

	userRepo := repository.NewUserRepository(gormDB)
	memberRepo := repository.NewMemberRepository(gormDB)
	quizRepo := repository.NewQuizRepository(gormDB)

	authService := service.NewAuthService(userRepo, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewTokenIssuer(), auth.NewTokenStore(nil))
	memberService := service.NewMemberService(memberRepo, service.DefaultMembersLimit)
	quizService := service.NewQuizService(quizRepo, nil)

	e := echo.New()
	router.Register(
		e,
		logger.NewWithWriter(io.Discard, "error"),
		handler.NewGuard(authService),
		handler.NewAuthHandler(authService),
		handler.NewMemberHandler(memberService),
		handler.NewQuizHandler(quizService),
	)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func register(t *testing.T, e *echo.Echo, username, password string) handler.AuthPayload {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/register", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)
	var payload handler.AuthPayload
	require.NoError(t, json.Unmarshal(env.Response, &payload))
	return payload
}

func listMembers(t *testing.T, e *echo.Echo, token string) []model.Member {
	t.Helper()
	rec := doJSON(t, e, http.MethodGet, "/members", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var members []model.Member
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &members))
	return members
}

func TestScenario_RegisterPostList(t *testing.T) {
	e := newTestServer(t)

	payload := register(t, e, "ana", "secret1")
	assert.Equal(t, "ana", payload.Username)
	assert.Regexp(t, hexToken, payload.AccessToken)

	rec := doJSON(t, e, http.MethodPost, "/members", payload.AccessToken, map[string]string{"message": "Did 20 pushups"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	var created model.Member
	require.NoError(t, json.Unmarshal(env.Response, &created))
	assert.Equal(t, payload.ID, created.OwnerID)

	members := listMembers(t, e, payload.AccessToken)
	require.NotEmpty(t, members)
	assert.Equal(t, "Did 20 pushups", members[0].Message)
}

func TestRegister_ResponseNeverLeaksPassword(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/register", "", map[string]string{"username": "ana", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "secret1")
	assert.NotContains(t, body, "$2a$")
	assert.NotContains(t, body, "passwordHash")
}

func TestRegister_Rejections(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "ana", "secret1")

	tests := []struct {
		name string
		body map[string]string
	}{
		{"duplicate username", map[string]string{"username": "ana", "password": "another1"}},
		{"short password", map[string]string{"username": "bob", "password": "12345"}},
		{"short username", map[string]string{"username": "b", "password": "secret1"}},
		{"long username", map[string]string{"username": strings.Repeat("b", 31), "password": "secret1"}},
		{"multibyte password over 72 bytes", map[string]string{"username": "bob", "password": strings.Repeat("é", 40)}},
		{"missing fields", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, e, http.MethodPost, "/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
			if pw := tt.body["password"]; pw != "" {
				assert.NotContains(t, rec.Body.String(), pw)
			}
		})
	}
}

func TestRegister_InvalidJSON(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "invalid request body", env.Message)
}

func TestLogin(t *testing.T) {
	e := newTestServer(t)
	registered := register(t, e, "ana", "secret1")

	rec := doJSON(t, e, http.MethodPost, "/login", "", map[string]string{"username": "ana", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	var payload handler.AuthPayload
	require.NoError(t, json.Unmarshal(env.Response, &payload))
	assert.Equal(t, registered, payload)

	wrongPassword := doJSON(t, e, http.MethodPost, "/login", "", map[string]string{"username": "ana", "password": "secret2"})
	unknownUser := doJSON(t, e, http.MethodPost, "/login", "", map[string]string{"username": "nobody", "password": "secret1"})

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, http.StatusBadRequest, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
	assert.Equal(t, "credentials do not match", decodeEnvelope(t, wrongPassword).Message)
}

func TestMembers_RequireToken(t *testing.T) {
	e := newTestServer(t)
	registered := register(t, e, "ana", "secret1")

	tests := []struct {
		name   string
		method string
		token  string
	}{
		{"list without header", http.MethodGet, ""},
		{"list with unknown token", http.MethodGet, strings.Repeat("0", 256)},
		{"list with bearer prefix", http.MethodGet, "Bearer " + registered.AccessToken},
		{"list with upper-cased token", http.MethodGet, strings.ToUpper(registered.AccessToken)},
		{"post without header", http.MethodPost, ""},
		{"post with unknown token", http.MethodPost, "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, e, tt.method, "/members", tt.token, map[string]string{"message": "Did 20 pushups"})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.True(t, env.LoggedOut)
		})
	}

	assert.Empty(t, listMembers(t, e, registered.AccessToken), "rejected posts must not be stored")
}

func TestMembers_MessageLengthBoundaries(t *testing.T) {
	e := newTestServer(t)
	token := register(t, e, "ana", "secret1").AccessToken

	tests := []struct {
		length int
		status int
	}{
		{0, http.StatusBadRequest},
		{1, http.StatusBadRequest},
		{2, http.StatusCreated},
		{150, http.StatusCreated},
		{151, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("length %d", tt.length), func(t *testing.T) {
			rec := doJSON(t, e, http.MethodPost, "/members", token, map[string]string{"message": strings.Repeat("x", tt.length)})
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestMembers_ListsTwentyNewestFirst(t *testing.T) {
	e := newTestServer(t)
	ana := register(t, e, "ana", "secret1")
	bob := register(t, e, "bob", "secret1")

	for i := 0; i < 25; i++ {
		rec := doJSON(t, e, http.MethodPost, "/members", ana.AccessToken, map[string]string{"message": fmt.Sprintf("set %02d", i)})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := doJSON(t, e, http.MethodPost, "/members", bob.AccessToken, map[string]string{"message": "bob's set"})
	require.Equal(t, http.StatusCreated, rec.Code)

	members := listMembers(t, e, ana.AccessToken)
	require.Len(t, members, 20)
	assert.Equal(t, "set 24", members[0].Message)
	assert.Equal(t, "set 05", members[19].Message)
	for i := 1; i < len(members); i++ {
		assert.False(t, members[i].CreatedAt.After(members[i-1].CreatedAt))
		assert.Equal(t, ana.ID, members[i].OwnerID)
	}

	bobs := listMembers(t, e, bob.AccessToken)
	require.Len(t, bobs, 1)
	assert.Equal(t, "bob's set", bobs[0].Message)
}

func TestQuizzes_CreateListGet(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodGet, "/quizzes", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	quiz := map[string]interface{}{
		"title": "Warm-up",
		"level": "beginner",
		"questions": []map[string]interface{}{
			{"questionText": "How many squats?", "options": []string{"10", "20"}},
			{"questionText": "Rest time?", "options": []string{"30s", "60s"}},
		},
	}
	rec = doJSON(t, e, http.MethodPost, "/quizzes", "", quiz)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Created successfully", env.Message)
	var created model.Quiz
	require.NoError(t, json.Unmarshal(env.Response, &created))

	rec = doJSON(t, e, http.MethodGet, "/quizzes/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched model.Quiz
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "Warm-up", fetched.Title)
	require.Len(t, fetched.Questions, 2)
	assert.Equal(t, "How many squats?", fetched.Questions[0].QuestionText)

	rec = doJSON(t, e, http.MethodGet, "/quizzes", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []model.Quiz
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 1)
}

func TestQuizzes_Errors(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/quizzes", "", map[string]interface{}{"title": "No level"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "could not save quiz")

	rec = doJSON(t, e, http.MethodGet, "/quizzes/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_UUID", decodeEnvelope(t, rec).Code)

	rec = doJSON(t, e, http.MethodGet, "/quizzes/6f1c5a3e-8d2b-4c1a-9e7f-0a1b2c3d4e5f", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "QUIZ_NOT_FOUND", decodeEnvelope(t, rec).Code)
}

func TestRootAndHealth(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, router.Greeting, rec.Body.String())

	rec = doJSON(t, e, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "HTTP_404", env.Code)
}
