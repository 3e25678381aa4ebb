package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/auth"
	"pipespec/internal/app/catalog"
	"pipespec/internal/app/config"
	"pipespec/internal/app/ds"
	"pipespec/internal/app/dto"
	"pipespec/internal/app/middleware"
	"pipespec/internal/app/role"
	"pipespec/internal/app/service"
	"pipespec/internal/app/service/memstore"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memBlacklist struct {
	mu     sync.Mutex
	tokens map[string]time.Duration
}

func (b *memBlacklist) WriteJWTToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = ttl
	return nil
}

func (b *memBlacklist) CheckJWTInBlacklist(_ context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.tokens[token]
	return ok, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type testEnv struct {
	router    *gin.Engine
	store     *memstore.Store
	services  *service.Services
	blacklist *memBlacklist
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	require.NoError(t, RegisterValidators())

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	jwtCfg := config.JWTConfig{
		Token:      "test-secret",
		ExpiresIn:  time.Hour,
		Issuer:     "pipespec-test",
		CookieName: "auth_token",
	}
	store := memstore.New()
	services := service.New(store, service.Options{HashCost: bcrypt.MinCost}, logrus.NewEntry(logger))
	tokens := auth.NewTokenManager(jwtCfg)
	blacklist := &memBlacklist{tokens: map[string]time.Duration{}}

	router := gin.New()
	h := NewHandler(services, tokens, blacklist, jwtCfg)
	h.RegisterRoutes(router, middleware.NewAuthMiddleware(tokens, blacklist, h.Services.Users, jwtCfg.CookieName))

	return &testEnv{router: router, store: store, services: services, blacklist: blacklist}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), w.Body.String())
	}
	return env
}

// register регистрирует пользователя через API и возвращает токен и ID
func (e *testEnv) register(t *testing.T, email string) (string, uint) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Test",
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.AuthResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.AuthResponse
	decode(t, w, &resp)
	return resp.Token
}

func (e *testEnv) admin(t *testing.T, email string) string {
	t.Helper()
	ctx := context.Background()
	_, id := e.register(t, email)

	user, err := e.store.UserByID(ctx, id)
	require.NoError(t, err)
	user.Role = role.Admin
	require.NoError(t, e.store.SaveUser(ctx, user))

	return e.login(t, email)
}

func (e *testEnv) createProject(t *testing.T, token, code string) dto.ProjectResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/projects", token, gin.H{"project_code": code, "name": "Project " + code})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p dto.ProjectResponse
	decode(t, w, &p)
	return p
}

func projectPath(id uint, rest string) string {
	return "/api/projects/" + strconv.FormatUint(uint64(id), 10) + rest
}

func TestPing(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestRegisterLoginAndProfile(t *testing.T) {
	env := newTestEnv(t)
	token, id := env.register(t, "Alice@Example.com")

	w := env.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var user dto.UserResponse
	decode(t, w, &user)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "user", user.Role)

	// логин ставит cookie, по ней тоже пускает
	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "bob@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, decode(t, w, nil).Success)
}

func TestConflictMessagesHideStorageDetails(t *testing.T) {
	h := &Handler{}
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"duplicate", fmt.Errorf("create ratings: idx_ratings_key: %w", apperr.ErrDuplicateKey), "запись с таким ключом уже существует"},
		{"conflict", fmt.Errorf("subscription 7 is still active: %w", apperr.ErrConflict), "операция конфликтует с текущим состоянием"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

			h.errorHandler(c, tt.err)
			assert.Equal(t, http.StatusConflict, w.Code)
			resp := decode(t, w, nil)
			assert.Equal(t, tt.want, resp.Error)
			assert.NotContains(t, w.Body.String(), "idx_")
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "carol@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "carol@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "nobody@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "dave@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, env.blacklist.tokens, token)

	w = env.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutKeepsOtherSessions(t *testing.T) {
	env := newTestEnv(t)
	first, _ := env.register(t, "erin@example.com")
	second := env.login(t, "erin@example.com")
	require.NotEqual(t, first, second)

	w := env.do(t, http.MethodPost, "/api/auth/logout", first, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/auth/profile", second, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDeletedAccountRejectsOtherTokens(t *testing.T) {
	env := newTestEnv(t)
	first, id := env.register(t, "frank@example.com")
	second := env.login(t, "frank@example.com")

	w := env.do(t, http.MethodDelete, "/api/auth/profile", first, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/projects", second, gin.H{"project_code": "P-1", "name": "Ghost"})
	assert.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	w = env.do(t, http.MethodGet, "/api/auth/profile", second, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	projects, err := env.store.ListProjects(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjectsRequireAuthentication(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/projects", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestForeignProjectLooksMissing(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.register(t, "owner@example.com")
	other, _ := env.register(t, "other@example.com")
	project := env.createProject(t, owner, "P-100")

	w := env.do(t, http.MethodGet, projectPath(project.ID, ""), owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	foreign := env.do(t, http.MethodGet, projectPath(project.ID, ""), other, nil)
	missing := env.do(t, http.MethodGet, projectPath(project.ID+1000, ""), other, nil)
	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, decode(t, missing, nil).Error, decode(t, foreign, nil).Error)

	w = env.do(t, http.MethodGet, "/api/projects/code/P-100", other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, projectPath(project.ID, "/ratings"), other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProjectValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "val@example.com")

	w := env.do(t, http.MethodPost, "/api/projects", token, gin.H{"project_code": "bad code!", "name": "X"})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var data dto.ValidationErrorData
	decode(t, w, &data)
	require.Len(t, data.Fields, 1)
	assert.Equal(t, "project_code", data.Fields[0].Field)

	w = env.do(t, http.MethodGet, "/api/projects/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectQuotaAndDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token, userID := env.register(t, "quota@example.com")

	one := 1
	plan, err := env.services.Subscriptions.CreatePlan(ctx, service.PlanInput{Name: "Single", MaxProjects: &one})
	require.NoError(t, err)
	_, err = env.services.Subscriptions.Subscribe(ctx, userID, plan.ID)
	require.NoError(t, err)

	project := env.createProject(t, token, "Q-1")

	w := env.do(t, http.MethodPost, "/api/projects", token, gin.H{"project_code": "Q-1", "name": "again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/projects", token, gin.H{"project_code": "Q-2", "name": "second"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// удаление возвращает единицу квоты
	w = env.do(t, http.MethodDelete, projectPath(project.ID, ""), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	env.createProject(t, token, "Q-2")

	w = env.do(t, http.MethodGet, "/api/subscription", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sub dto.SubscriptionResponse
	decode(t, w, &sub)
	require.NotNil(t, sub.RemainingProjects)
	assert.Equal(t, 0, *sub.RemainingProjects)
	assert.Equal(t, "Single", sub.Plan.Name)
}

func TestCreatePlanRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.register(t, "plain@example.com")
	admin := env.admin(t, "admin@example.com")
	body := gin.H{"name": "Pro", "price": 49.5, "currency": "eur", "duration_days": 30, "max_projects": 10}

	w := env.do(t, http.MethodPost, "/api/plans", user, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/plans", admin, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var plan dto.PlanResponse
	decode(t, w, &plan)
	assert.Equal(t, "EUR", plan.Currency)
	assert.Nil(t, plan.MaxSpecs)

	w = env.do(t, http.MethodGet, "/api/plans", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plans dto.ListData[dto.PlanResponse]
	decode(t, w, &plans)
	assert.Equal(t, 1, plans.Total)
}

func TestSubscribeTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token, _ := env.register(t, "sub@example.com")
	plan, err := env.services.Subscriptions.CreatePlan(ctx, service.PlanInput{Name: "Basic"})
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/subscription", token, gin.H{"plan_id": plan.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/subscription", token, gin.H{"plan_id": plan.ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPut, "/api/subscription/cancel", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/subscription", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRatingsCatalogOverride(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedRatings(
		ds.RatingAttrs{RatingCode: "CL150", RatingValue: "150"},
		ds.RatingAttrs{RatingCode: "CL300", RatingValue: "300"},
	)
	token, _ := env.register(t, "cat@example.com")
	project := env.createProject(t, token, "C-1")

	w := env.do(t, http.MethodPost, projectPath(project.ID, "/ratings"), token, gin.H{
		"rating_code":  "CL150",
		"rating_value": "150 special",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created catalog.Entry[ds.RatingAttrs]
	decode(t, w, &created)
	assert.Equal(t, catalog.ScopeProject, created.Scope)

	w = env.do(t, http.MethodPost, projectPath(project.ID, "/ratings"), token, gin.H{"rating_code": "CL150"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, projectPath(project.ID, "/ratings"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var merged dto.ListData[catalog.Entry[ds.RatingAttrs]]
	decode(t, w, &merged)
	require.Equal(t, 2, merged.Total)
	assert.Equal(t, "150 special", merged.Items[0].Attrs.RatingValue)
	assert.Equal(t, catalog.ScopeDefault, merged.Items[1].Scope)

	w = env.do(t, http.MethodGet, "/api/catalog/defaults/ratings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var defaults dto.ListData[catalog.Entry[ds.RatingAttrs]]
	decode(t, w, &defaults)
	assert.Equal(t, "150", defaults.Items[0].Attrs.RatingValue)

	entry := projectPath(project.ID, "/ratings/"+strconv.FormatUint(uint64(created.ID), 10))
	w = env.do(t, http.MethodDelete, entry, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, entry, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, projectPath(project.ID, "/ratings/deleted"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted dto.ListData[catalog.Entry[ds.RatingAttrs]]
	decode(t, w, &deleted)
	require.Equal(t, 1, deleted.Total)
	assert.Equal(t, created.ID, deleted.Items[0].ID)
}

func TestComponentDescriptionsFilter(t *testing.T) {
	env := newTestEnv(t)
	pipe := env.store.AddComponent("Pipe", "PIPE")
	elbow := env.store.AddComponent("Elbow 90", "FITTING")
	env.store.SeedComponentDescriptions(
		ds.ComponentDescriptionAttrs{ComponentID: pipe.ID, Code: "PSL", ItemDescription: "Pipe seamless"},
		ds.ComponentDescriptionAttrs{ComponentID: elbow.ID, Code: "E90L", ItemDescription: "Elbow 90 LR"},
		ds.ComponentDescriptionAttrs{ComponentID: pipe.ID, Code: "PWD", ItemDescription: "Pipe welded"},
	)
	token, _ := env.register(t, "comp@example.com")
	project := env.createProject(t, token, "CD-1")

	path := projectPath(project.ID, "/component-descriptions?component_id="+strconv.FormatUint(uint64(pipe.ID), 10))
	w := env.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list dto.ListData[catalog.Entry[ds.ComponentDescriptionAttrs]]
	decode(t, w, &list)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "PSL", list.Items[0].Attrs.Code)
	assert.Equal(t, "PWD", list.Items[1].Attrs.Code)

	w = env.do(t, http.MethodGet, projectPath(project.ID, "/component-descriptions?component_id=x"), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, projectPath(project.ID, "/component-descriptions"), token, gin.H{
		"component_id": pipe.ID + elbow.ID + 100,
		"code":         "ZZZ",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/components", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var components dto.ListData[ds.Component]
	decode(t, w, &components)
	assert.Equal(t, 2, components.Total)
}

func TestSpecLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedRatings(ds.RatingAttrs{RatingCode: "CL150", RatingValue: "150"})
	token, _ := env.register(t, "spec@example.com")
	project := env.createProject(t, token, "S-1")

	w := env.do(t, http.MethodPost, projectPath(project.ID, "/specs"), token, gin.H{
		"spec_name":   "A1",
		"rating_code": "CL900",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	var fields dto.ValidationErrorData
	decode(t, w, &fields)
	require.NotEmpty(t, fields.Fields)
	assert.Equal(t, "rating_code", fields.Fields[0].Field)

	w = env.do(t, http.MethodPost, projectPath(project.ID, "/specs"), token, gin.H{
		"spec_name":     "A1",
		"rating_code":   "CL150",
		"base_material": "CS",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var spec dto.SpecResponse
	decode(t, w, &spec)
	assert.Equal(t, project.ID, spec.ProjectID)

	specPath := projectPath(project.ID, "/specs/"+strconv.FormatUint(uint64(spec.ID), 10))
	w = env.do(t, http.MethodPut, specPath, token, gin.H{"spec_name": "A1", "rating_code": "CL150", "base_material": "SS316"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &spec)
	assert.Equal(t, "SS316", spec.BaseMaterial)

	w = env.do(t, http.MethodGet, projectPath(project.ID, "/specs"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var specs dto.ListData[dto.SpecResponse]
	decode(t, w, &specs)
	assert.Equal(t, 1, specs.Total)

	w = env.do(t, http.MethodDelete, specPath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, specPath, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectCatalogOverview(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedRatings(ds.RatingAttrs{RatingCode: "CL150"})
	env.store.SeedSizes(ds.SizeAttrs{Size1: "2", Code: "2IN", OD: 60.3})
	token, _ := env.register(t, "overview@example.com")
	project := env.createProject(t, token, "O-1")

	w := env.do(t, http.MethodGet, projectPath(project.ID, "/catalog"), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var overview service.ProjectCatalog
	decode(t, w, &overview)
	assert.Len(t, overview.Ratings, 1)
	assert.Len(t, overview.Sizes, 1)
	assert.Empty(t, overview.Schedules)
}

func TestUploadLogoWithoutStorage(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "logo@example.com")
	project := env.createProject(t, token, "L-1")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("logo", "logo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, projectPath(project.ID, "/logo"), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, projectPath(project.ID, "/logo"), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
