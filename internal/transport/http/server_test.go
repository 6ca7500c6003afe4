package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"everafter/internal/domain/models"
	checklistservice "everafter/internal/services/checklist_service"
	userservice "everafter/internal/services/user_service"
	weddingservice "everafter/internal/services/wedding_service"
	"everafter/internal/transport/http/dto"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) RegisterNewUser(ctx context.Context, email, password string) (uuid.UUID, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserProvider) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockUserProvider) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

type MockTokenProvider struct {
	mock.Mock
}

func (m *MockTokenProvider) RefreshTokens(refreshToken string) (*models.TokenPair, error) {
	args := m.Called(refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockTokenProvider) SignOut(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockGalleryProvider struct {
	mock.Mock
}

func (m *MockGalleryProvider) LatestWeddings(ctx context.Context) ([]dto.WeddingResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.WeddingResponse), args.Error(1)
}

type MockWeddingRepository struct {
	mock.Mock
}

func (m *MockWeddingRepository) ListWeddings(ctx context.Context, ownerID uuid.UUID) ([]models.Wedding, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Wedding), args.Error(1)
}

func (m *MockWeddingRepository) LatestWeddings(ctx context.Context, limit int) ([]models.Wedding, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Wedding), args.Error(1)
}

func (m *MockWeddingRepository) GetWeddingByID(ctx context.Context, weddingID, ownerID uuid.UUID) (*models.Wedding, error) {
	args := m.Called(ctx, weddingID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wedding), args.Error(1)
}

func (m *MockWeddingRepository) InsertWedding(ctx context.Context, wedding models.Wedding) (*models.Wedding, error) {
	args := m.Called(ctx, wedding)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wedding), args.Error(1)
}

func (m *MockWeddingRepository) UpdateWeddingFields(ctx context.Context, weddingID, ownerID uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, weddingID, ownerID, updates)
	return args.Error(0)
}

func (m *MockWeddingRepository) DeleteWedding(ctx context.Context, weddingID, ownerID uuid.UUID) error {
	args := m.Called(ctx, weddingID, ownerID)
	return args.Error(0)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) ListTasks(ctx context.Context, weddingID, ownerID uuid.UUID) ([]models.ChecklistTask, error) {
	args := m.Called(ctx, weddingID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChecklistTask), args.Error(1)
}

func (m *MockTaskRepository) InsertTask(ctx context.Context, task models.ChecklistTask) (*models.ChecklistTask, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChecklistTask), args.Error(1)
}

func (m *MockTaskRepository) InsertTasks(ctx context.Context, tasks []models.ChecklistTask) ([]models.ChecklistTask, error) {
	args := m.Called(ctx, tasks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChecklistTask), args.Error(1)
}

func (m *MockTaskRepository) SetTaskCompleted(ctx context.Context, taskID, ownerID uuid.UUID, completed bool) error {
	args := m.Called(ctx, taskID, ownerID, completed)
	return args.Error(0)
}

func (m *MockTaskRepository) DeleteTask(ctx context.Context, taskID, ownerID uuid.UUID) error {
	args := m.Called(ctx, taskID, ownerID)
	return args.Error(0)
}

type routerFixture struct {
	routers  *Routers
	users    *MockUserProvider
	tokens   *MockTokenProvider
	gallery  *MockGalleryProvider
	weddings *MockWeddingRepository
	tasks    *MockTaskRepository
	echo     *echo.Echo
}

func newFixture() *routerFixture {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := new(MockUserProvider)
	tokens := new(MockTokenProvider)
	gallery := new(MockGalleryProvider)
	weddingRepo := new(MockWeddingRepository)
	taskRepo := new(MockTaskRepository)

	routers := NewRouters(
		log,
		users,
		tokens,
		gallery,
		weddingservice.NewWeddingService(log, weddingRepo),
		checklistservice.NewChecklistService(log, taskRepo),
	)

	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}

	return &routerFixture{
		routers:  routers,
		users:    users,
		tokens:   tokens,
		gallery:  gallery,
		weddings: weddingRepo,
		tasks:    taskRepo,
		echo:     e,
	}
}

func (f *routerFixture) request(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return f.echo.NewContext(req, rec), rec
}

func authenticate(c echo.Context, userID uuid.UUID) {
	c.Set("user", &jwt.Token{Claims: jwt.MapClaims{"uid": userID.String()}})
}

func TestRegister_Success(t *testing.T) {
	f := newFixture()

	id := uuid.New()
	f.users.On("RegisterNewUser", mock.Anything, "bride@example.com", "hunter2secret").
		Return(id, nil)

	c, rec := f.request(http.MethodPost, "/api/v1/auth/register",
		`{"email":"bride@example.com","password":"hunter2secret"}`)

	require.NoError(t, f.routers.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), id.String())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture()

	f.users.On("RegisterNewUser", mock.Anything, "bride@example.com", "hunter2secret").
		Return(uuid.Nil, userservice.ErrUserExist)

	c, rec := f.request(http.MethodPost, "/api/v1/auth/register",
		`{"email":"bride@example.com","password":"hunter2secret"}`)

	require.NoError(t, f.routers.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_ShortPasswordRejected(t *testing.T) {
	f := newFixture()

	c, rec := f.request(http.MethodPost, "/api/v1/auth/register",
		`{"email":"bride@example.com","password":"short"}`)

	require.NoError(t, f.routers.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.users.AssertNotCalled(t, "RegisterNewUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture()

	f.users.On("Login", mock.Anything, "bride@example.com", "wrong-password").
		Return(nil, userservice.ErrInvalidCredentials)

	c, rec := f.request(http.MethodPost, "/api/v1/auth/login",
		`{"email":"bride@example.com","password":"wrong-password"}`)

	require.NoError(t, f.routers.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboard_RequiresAuth(t *testing.T) {
	f := newFixture()

	c, rec := f.request(http.MethodGet, "/api/v1/weddings", "")

	require.NoError(t, f.routers.Dashboard(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboard_CapsUpcomingAtThree(t *testing.T) {
	f := newFixture()
	owner := uuid.New()

	rows := make([]models.Wedding, 5)
	for i := range rows {
		rows[i] = models.Wedding{
			ID:          uuid.New(),
			UserID:      owner,
			CoupleNames: "Couple",
			WeddingDate: time.Now().Add(time.Duration(i+1) * 24 * time.Hour),
			Status:      models.StatusPlanning,
		}
	}
	f.weddings.On("ListWeddings", mock.Anything, owner).Return(rows, nil)

	c, rec := f.request(http.MethodGet, "/api/v1/weddings?tab=upcoming", "")
	authenticate(c, owner)

	require.NoError(t, f.routers.Dashboard(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data dto.DashboardResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Data.TotalCount)
	assert.Equal(t, 2, body.Data.HiddenCount)
	assert.Len(t, body.Data.Weddings, 3)
	assert.False(t, body.Data.ShowingAll)
}

func TestDashboard_ShowAllQueryLiftsCap(t *testing.T) {
	f := newFixture()
	owner := uuid.New()

	rows := make([]models.Wedding, 5)
	for i := range rows {
		rows[i] = models.Wedding{
			ID:          uuid.New(),
			UserID:      owner,
			WeddingDate: time.Now().Add(time.Duration(i+1) * 24 * time.Hour),
			Status:      models.StatusPlanning,
		}
	}
	f.weddings.On("ListWeddings", mock.Anything, owner).Return(rows, nil)

	c, rec := f.request(http.MethodGet, "/api/v1/weddings?show_all=true", "")
	authenticate(c, owner)

	require.NoError(t, f.routers.Dashboard(c))

	var body struct {
		Data dto.DashboardResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data.Weddings, 5)
	assert.True(t, body.Data.ShowingAll)
	assert.Equal(t, 0, body.Data.HiddenCount)
}

func TestCreateWedding_BlankBudgetStoredAsNull(t *testing.T) {
	f := newFixture()
	owner := uuid.New()

	f.weddings.On("InsertWedding", mock.Anything, mock.MatchedBy(func(w models.Wedding) bool {
		return w.Budget == nil && w.UserID == owner && w.GuestCount == 0
	})).Return(&models.Wedding{
		ID:          uuid.New(),
		UserID:      owner,
		CoupleNames: "Alice & Bob",
		WeddingDate: time.Date(2027, 6, 12, 0, 0, 0, 0, time.UTC),
		Venue:       "Rose Garden",
		Status:      models.StatusPlanning,
	}, nil)

	c, rec := f.request(http.MethodPost, "/api/v1/weddings",
		`{"couple_names":"Alice & Bob","wedding_date":"2027-06-12","venue":"Rose Garden","budget":""}`)
	authenticate(c, owner)

	require.NoError(t, f.routers.CreateWedding(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	f.weddings.AssertExpectations(t)
}

func TestDeleteWedding_WithoutConfirmIsRejected(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	weddingID := uuid.New()

	c, rec := f.request(http.MethodDelete, "/api/v1/weddings/"+weddingID.String(), "")
	authenticate(c, owner)
	c.SetParamNames("id")
	c.SetParamValues(weddingID.String())

	require.NoError(t, f.routers.DeleteWedding(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	f.weddings.AssertNotCalled(t, "DeleteWedding", mock.Anything, mock.Anything, mock.Anything)
}

func TestChecklist_SeedsOnFirstOpen(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	weddingID := uuid.New()

	seeded := make([]models.ChecklistTask, 15)
	for i := range seeded {
		seeded[i] = models.ChecklistTask{ID: uuid.New(), WeddingID: weddingID, UserID: owner, Task: "task"}
	}

	f.tasks.On("ListTasks", mock.Anything, weddingID, owner).
		Return([]models.ChecklistTask{}, nil)
	f.tasks.On("InsertTasks", mock.Anything, mock.Anything).Return(seeded, nil)

	c, rec := f.request(http.MethodGet, "/api/v1/weddings/"+weddingID.String()+"/tasks", "")
	authenticate(c, owner)
	c.SetParamNames("id")
	c.SetParamValues(weddingID.String())

	require.NoError(t, f.routers.Checklist(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data dto.ChecklistResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data.Tasks, 15)
	assert.Equal(t, 0, body.Data.Progress.Percent)
}

func TestAddTask_BlankTextRejected(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	weddingID := uuid.New()

	c, rec := f.request(http.MethodPost, "/api/v1/weddings/"+weddingID.String()+"/tasks",
		`{"task":"   "}`)
	authenticate(c, owner)
	c.SetParamNames("id")
	c.SetParamValues(weddingID.String())

	require.NoError(t, f.routers.AddTask(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.tasks.AssertNotCalled(t, "InsertTask", mock.Anything, mock.Anything)
}

func TestCountdownStream_AdoptsEditedDate(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	weddingID := uuid.New()

	future := &models.Wedding{
		ID:          weddingID,
		UserID:      owner,
		CoupleNames: "Alice & Bob",
		WeddingDate: time.Now().Add(48 * time.Hour),
		Status:      models.StatusPlanning,
	}
	moved := &models.Wedding{
		ID:          weddingID,
		UserID:      owner,
		CoupleNames: "Alice & Bob",
		WeddingDate: time.Now().Add(-time.Hour),
		Status:      models.StatusPlanning,
	}

	// Initial resolve plus the first beat see the original date; every
	// later beat sees the edit.
	f.weddings.On("GetWeddingByID", mock.Anything, weddingID, owner).Return(future, nil).Times(2)
	f.weddings.On("GetWeddingByID", mock.Anything, weddingID, owner).Return(moved, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2300*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/weddings/"+weddingID.String()+"/countdown/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	authenticate(c, owner)
	c.SetParamNames("id")
	c.SetParamValues(weddingID.String())

	require.NoError(t, f.routers.CountdownStream(c))

	body := rec.Body.String()
	assert.Contains(t, body, `"passed":false`)
	assert.Contains(t, body, `"passed":true`, "a date edit during the stream must reach later beats")
}

func TestToggleTask_UnknownTaskIs404(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	weddingID := uuid.New()

	f.tasks.On("ListTasks", mock.Anything, weddingID, owner).
		Return([]models.ChecklistTask{{
			ID:        uuid.New(),
			WeddingID: weddingID,
			UserID:    owner,
			Task:      "Book venue",
		}}, nil)

	strayID := uuid.New()
	c, rec := f.request(http.MethodPatch,
		"/api/v1/weddings/"+weddingID.String()+"/tasks/"+strayID.String(), "")
	authenticate(c, owner)
	c.SetParamNames("id", "task_id")
	c.SetParamValues(weddingID.String(), strayID.String())

	require.NoError(t, f.routers.ToggleTask(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	f.tasks.AssertNotCalled(t, "SetTaskCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGallery_Public(t *testing.T) {
	f := newFixture()

	f.gallery.On("LatestWeddings", mock.Anything).
		Return([]dto.WeddingResponse{{CoupleNames: "Alice & Bob"}}, nil)

	c, rec := f.request(http.MethodGet, "/api/v1/gallery", "")

	require.NoError(t, f.routers.Gallery(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alice & Bob")
}
