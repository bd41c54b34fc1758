package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truckrecruit/internal/auth"
	"truckrecruit/internal/db"
	"truckrecruit/internal/handler"
	"truckrecruit/internal/health"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
	"truckrecruit/internal/service"
)

type healthy struct{}

func (healthy) Status() health.Status { return health.Status{Healthy: true} }

type server struct {
	e     *echo.Echo
	repos *repository.Repositories
	jwt   *auth.JWTService
}

func newServer(t *testing.T, limits Limits) *server {
	t.Helper()
	gormDB, err := db.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	repos := repository.New(gormDB)
	store := repository.NewContactStore(gormDB)
	jwtService := auth.NewJWTService("router-test-secret")
	tokens := auth.NewTokenStore(nil)

	authService := service.NewAuthService(repos, jwtService, tokens, nil, nil)
	contacts := service.NewContactService(store, nil, nil, nil, 3, time.Millisecond)
	subscriptions := service.NewSubscriptionService(store, contacts, nil)

	h := Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Profile:     handler.NewProfileHandler(service.NewProfileService(repos.Profiles)),
		Driver:      handler.NewDriverHandler(service.NewDriverService(repos.Drivers, store, nil)),
		Recruiter:   handler.NewRecruiterHandler(service.NewRecruiterService(repos.Recruiters)),
		Contact:     handler.NewContactHandler(contacts),
		Job:         handler.NewJobHandler(service.NewJobService(repos.Jobs, nil)),
		Application: handler.NewApplicationHandler(service.NewApplicationService(repos.Applications, repos.Jobs, nil)),
		Interview:   handler.NewInterviewHandler(service.NewInterviewService(repos.Interviews, repos.Applications, repos.Drivers)),
		Message:     handler.NewMessageHandler(service.NewMessageService(repos.Messages, repos.Profiles)),
		Dashboard:   handler.NewDashboardHandler(service.NewDashboardService(repos, contacts, store)),
		Analytics:   handler.NewAnalyticsHandler(nopTracker{}),
		Admin:       handler.NewAdminHandler(service.NewAdminService(repos, authService), subscriptions),
		Health:      handler.NewHealthHandler(healthy{}),
	}

	e := echo.New()
	Register(e, h, limits, jwtService, tokens)
	return &server{e: e, repos: repos, jwt: jwtService}
}

type nopTracker struct{}

func (nopTracker) Track(ctx context.Context, userID *uuid.UUID, eventType string, data map[string]interface{}) {
}

func (s *server) user(t *testing.T, role model.Role) (*model.Profile, string) {
	t.Helper()
	p := &model.Profile{
		Email:        uuid.NewString() + "@example.com",
		Name:         "Test User",
		Role:         role,
		PasswordHash: "x",
	}
	require.NoError(t, s.repos.Profiles.Create(context.Background(), p))
	token, err := s.jwt.GenerateAccessToken(p)
	require.NoError(t, err)
	return p, token
}

func (s *server) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func TestRegister_Access(t *testing.T) {
	s := newServer(t, DefaultLimits())
	_, driverToken := s.user(t, model.RoleDriver)
	_, adminToken := s.user(t, model.RoleAdmin)
	recruiter, recruiterToken := s.user(t, model.RoleRecruiter)
	require.NoError(t, s.repos.Subscriptions.Create(context.Background(), model.NewTrialSubscription(recruiter.ID, time.Now())))

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{name: "health is public", method: http.MethodGet, path: "/healthz", want: http.StatusOK},
		{name: "me needs a token", method: http.MethodGet, path: "/api/me", want: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, path: "/api/me", token: "not.a.jwt", want: http.StatusUnauthorized},
		{name: "me with token", method: http.MethodGet, path: "/api/me", token: driverToken, want: http.StatusOK},
		{name: "driver cannot list unlocks", method: http.MethodGet, path: "/api/contacts", token: driverToken, want: http.StatusForbidden},
		{name: "driver cannot search drivers", method: http.MethodGet, path: "/api/drivers", token: driverToken, want: http.StatusForbidden},
		{name: "recruiter reads quota", method: http.MethodGet, path: "/api/recruiter/subscription", token: recruiterToken, want: http.StatusOK},
		{name: "recruiter searches drivers", method: http.MethodGet, path: "/api/drivers", token: recruiterToken, want: http.StatusOK},
		{name: "recruiter cannot reach admin", method: http.MethodGet, path: "/api/admin/users", token: recruiterToken, want: http.StatusForbidden},
		{name: "admin lists users", method: http.MethodGet, path: "/api/admin/users?role=driver", token: adminToken, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.token, "")
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRegister_AuthRateLimit(t *testing.T) {
	limits := DefaultLimits()
	limits.Auth = Limit{Burst: 2, Window: time.Hour}
	s := newServer(t, limits)

	for i := 0; i < 2; i++ {
		rec := s.do(http.MethodPost, "/api/auth/login", "", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	rec := s.do(http.MethodPost, "/api/auth/login", "", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestRegister_LoginFlow(t *testing.T) {
	s := newServer(t, DefaultLimits())

	rec := s.do(http.MethodPost, "/api/auth/register", "",
		`{"email":"rae@example.com","password":"Password1!","name":"Rae Recruiter","role":"recruiter","company_name":"Fleet Co"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/auth/login", "", `{"email":"rae@example.com","password":"Password1!"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "access_token")

	rec = s.do(http.MethodPost, "/api/auth/login", "", `{"email":"rae@example.com","password":"Wrong1234"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
