package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"everafter/internal/domain/models"
	"everafter/internal/lib/countdown"
	"everafter/internal/lib/logger/sl"
	checklistservice "everafter/internal/services/checklist_service"
	tokenservice "everafter/internal/services/token_service"
	userservice "everafter/internal/services/user_service"
	weddingservice "everafter/internal/services/wedding_service"
	"everafter/internal/storage"
	"everafter/internal/transport/http/dto"
	"everafter/internal/transport/http/dto/request"
	"everafter/internal/transport/http/dto/response"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UserProvider interface {
	RegisterNewUser(ctx context.Context, email, password string) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type TokenProvider interface {
	RefreshTokens(refreshToken string) (*models.TokenPair, error)
	SignOut(ctx context.Context, userID uuid.UUID) error
}

type GalleryProvider interface {
	LatestWeddings(ctx context.Context) ([]dto.WeddingResponse, error)
}

// Routers bundles every HTTP handler with the services behind them.
type Routers struct {
	log        *slog.Logger
	users      UserProvider
	tokens     TokenProvider
	gallery    GalleryProvider
	weddings   *weddingservice.WeddingService
	checklists *checklistservice.ChecklistService
}

func NewRouters(
	log *slog.Logger,
	users UserProvider,
	tokens TokenProvider,
	gallery GalleryProvider,
	weddings *weddingservice.WeddingService,
	checklists *checklistservice.ChecklistService,
) *Routers {
	return &Routers{
		log:        log,
		users:      users,
		tokens:     tokens,
		gallery:    gallery,
		weddings:   weddings,
		checklists: checklists,
	}
}

// RegisterRoutes mounts the public and protected route groups; authMW is the
// JWT middleware applied to everything under /weddings, /me and /auth/logout.
func (r *Routers) RegisterRoutes(api *echo.Group, authMW echo.MiddlewareFunc) {
	auth := api.Group("/auth")
	auth.POST("/register", r.Register)
	auth.POST("/login", r.Login)
	auth.POST("/refresh", r.Refresh)
	auth.POST("/logout", r.Logout, authMW)

	api.GET("/gallery", r.Gallery)
	api.GET("/me", r.Me, authMW)

	weddings := api.Group("/weddings", authMW)
	weddings.GET("", r.Dashboard)
	weddings.POST("", r.CreateWedding)
	weddings.PUT("/:id", r.UpdateWedding)
	weddings.DELETE("/:id", r.DeleteWedding)
	weddings.GET("/:id/countdown", r.Countdown)
	weddings.GET("/:id/countdown/stream", r.CountdownStream)
	weddings.GET("/:id/tasks", r.Checklist)
	weddings.POST("/:id/tasks", r.AddTask)
	weddings.PATCH("/:id/tasks/:task_id", r.ToggleTask)
	weddings.DELETE("/:id/tasks/:task_id", r.DeleteTask)
}

func (r *Routers) Register(c echo.Context) error {
	var input dto.UserRegisterInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(&input); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	id, err := r.users.RegisterNewUser(c.Request().Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, userservice.ErrUserExist) {
			return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
		}
		r.log.Error("registration failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Could not register user"))
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]string{"id": id.String()}))
}

func (r *Routers) Login(c echo.Context) error {
	var req request.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	pair, err := r.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userservice.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}
		r.log.Error("login failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Could not sign in"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

func (r *Routers) Refresh(c echo.Context) error {
	var req request.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	pair, err := r.tokens.RefreshTokens(req.RefreshToken)
	if err != nil {
		if errors.Is(err, tokenservice.ErrInvalidToken) || errors.Is(err, tokenservice.ErrInvalidTokenClaims) {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}
		r.log.Error("token refresh failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Could not refresh tokens"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

func (r *Routers) Logout(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	if err := r.tokens.SignOut(c.Request().Context(), userID); err != nil {
		r.log.Error("logout failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Could not sign out"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

func (r *Routers) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	user, err := r.users.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}
		r.log.Error("failed to load current user", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Could not load profile"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		RegisteredAt: user.RegisteredAt,
	}))
}

func (r *Routers) Gallery(c echo.Context) error {
	weddings, err := r.gallery.LatestWeddings(c.Request().Context())
	if err != nil {
		r.log.Error("failed to load gallery", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Could not load gallery"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(weddings))
}

// Dashboard renders the wedding list for one tab. Query params drive the
// view: tab=upcoming|completed (anything else falls back to upcoming) and
// show_all=true to lift the three-card limit.
func (r *Routers) Dashboard(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	d := weddingservice.NewDashboard(r.weddings, userID)
	if err := d.Load(c.Request().Context()); err != nil {
		r.log.Error("failed to load dashboard", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Could not load weddings"))
	}

	d.SwitchTab(weddingservice.Tab(c.QueryParam("tab")))
	if c.QueryParam("show_all") == "true" {
		d.ShowAll()
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(d.View()))
}

func (r *Routers) CreateWedding(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	var req dto.WeddingFormRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	wedding, err := r.weddings.CreateWedding(c.Request().Context(), userID, req)
	if err != nil {
		return r.weddingError(c, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(weddingservice.MapWedding(*wedding, 0, time.Now())))
}

func (r *Routers) UpdateWedding(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}
	weddingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	var req dto.WeddingFormRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	wedding, err := r.weddings.UpdateWedding(c.Request().Context(), weddingID, userID, req)
	if err != nil {
		return r.weddingError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(weddingservice.MapWedding(*wedding, 0, time.Now())))
}

// DeleteWedding removes a wedding and its checklist. The caller must pass
// confirm=true; without it nothing is touched.
func (r *Routers) DeleteWedding(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}
	weddingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	confirmed := c.QueryParam("confirm") == "true"
	if err := r.weddings.DeleteWedding(c.Request().Context(), weddingID, userID, confirmed); err != nil {
		return r.weddingError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

func (r *Routers) Countdown(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}
	weddingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	wedding, err := r.weddings.GetWedding(c.Request().Context(), weddingID, userID)
	if err != nil {
		return r.weddingError(c, err)
	}

	breakdown, passed := countdown.Until(wedding.WeddingDate, time.Now())
	return c.JSON(http.StatusOK, response.SuccessResponse(dto.CountdownResponse{
		Breakdown: breakdown,
		Passed:    passed,
	}))
}

// CountdownStream pushes the countdown over server-sent events, one beat
// per second, until the client disconnects.
func (r *Routers) CountdownStream(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}
	weddingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	ctx := c.Request().Context()

	wedding, err := r.weddings.GetWedding(ctx, weddingID, userID)
	if err != nil {
		return r.weddingError(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	// Re-resolve the wedding on every beat so a date edit made during a
	// live stream shows up on the next tick, not on reconnect.
	lastDate := wedding.WeddingDate
	target := func() time.Time {
		if current, err := r.weddings.GetWedding(ctx, weddingID, userID); err == nil {
			lastDate = current.WeddingDate
		}
		return lastDate
	}

	countdown.Watch(ctx, target,
		func(b countdown.Breakdown, passed bool) {
			payload, err := json.Marshal(dto.CountdownResponse{Breakdown: b, Passed: passed})
			if err != nil {
				return
			}
			fmt.Fprintf(res, "data: %s\n\n", payload)
			res.Flush()
		})

	return nil
}

func (r *Routers) Checklist(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}
	weddingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	cl, err := r.checklists.OpenList(c.Request().Context(), weddingID, userID)
	if err != nil {
		r.log.Error("failed to open checklist", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Could not load checklist"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(mapChecklist(weddingID, cl)))
}

func (r *Routers) AddTask(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}
	weddingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	var req dto.AddTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	task, err := r.checklists.AddTask(c.Request().Context(), weddingID, userID, req.Task)
	if err != nil {
		if errors.Is(err, checklistservice.ErrEmptyTask) {
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_task", err.Error()))
		}
		r.log.Error("failed to add task", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Could not add task"))
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(mapTask(*task)))
}

// ToggleTask flips one task's completed flag based on its stored state.
func (r *Routers) ToggleTask(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}
	weddingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	cl, err := r.checklists.OpenList(c.Request().Context(), weddingID, userID)
	if err != nil {
		r.log.Error("failed to open checklist", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Could not load checklist"))
	}

	if err := cl.Toggle(c.Request().Context(), taskID); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrTaskNotFound)
		}
		r.log.Error("failed to toggle task", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Could not update task"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(mapChecklist(weddingID, cl)))
}

func (r *Routers) DeleteTask(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}
	if _, err := uuid.Parse(c.Param("id")); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := r.checklists.DeleteTask(c.Request().Context(), taskID, userID); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrTaskNotFound)
		}
		r.log.Error("failed to delete task", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Could not delete task"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

func (r *Routers) weddingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, storage.ErrWeddingNotFound):
		return c.JSON(http.StatusNotFound, response.ErrWeddingNotFound)
	case errors.Is(err, weddingservice.ErrDeleteNotConfirmed):
		return c.JSON(http.StatusConflict, response.ErrDeleteNotConfirmed)
	case errors.Is(err, weddingservice.ErrMissingRequiredField),
		errors.Is(err, weddingservice.ErrInvalidWeddingDate):
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_form", err.Error()))
	default:
		r.log.Error("wedding operation failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Something went wrong"))
	}
}

// currentUserID extracts the authenticated user's id from the JWT placed in
// context by the auth middleware.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("missing auth token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("unexpected claims type")
	}
	uid, ok := claims["uid"].(string)
	if !ok {
		return uuid.Nil, errors.New("uid claim missing")
	}
	return uuid.Parse(uid)
}

func mapTask(t models.ChecklistTask) dto.TaskResponse {
	return dto.TaskResponse{
		ID:        t.ID,
		Task:      t.Task,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
}

func mapChecklist(weddingID uuid.UUID, cl *checklistservice.Checklist) dto.ChecklistResponse {
	tasks := cl.Tasks()
	out := make([]dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, mapTask(t))
	}

	p := cl.Progress()
	return dto.ChecklistResponse{
		WeddingID: weddingID,
		Tasks:     out,
		Progress: dto.ProgressResponse{
			Completed: p.Completed,
			Total:     p.Total,
			Percent:   p.Percent,
			AllDone:   p.AllDone,
		},
	}
}
