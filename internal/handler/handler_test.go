package handler_test

import (
	"context"
	"encoding/json"
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
	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/handler"
	"truckrecruit/internal/health"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
	"truckrecruit/internal/router"
	"truckrecruit/internal/service"
)

type testEnv struct {
	e        *echo.Echo
	repos    *repository.Repositories
	store    repository.ContactStore
	contacts service.ContactService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gormDB, err := db.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	e := echo.New()
	e.Validator = router.NewValidator()
	repos := repository.New(gormDB)
	store := repository.NewContactStore(gormDB)
	return &testEnv{
		e:        e,
		repos:    repos,
		store:    store,
		contacts: service.NewContactService(store, nil, nil, nil, 3, time.Millisecond),
	}
}

// request builds a context for a direct handler call. A nil caller leaves it unauthenticated.
func (env *testEnv) request(method, target, body string, caller *model.Profile) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if caller != nil {
		auth.SetCurrentUser(c, &auth.Claims{UserID: caller.ID.String(), Email: caller.Email, Role: caller.Role})
	}
	return c, rec
}

func (env *testEnv) profile(t *testing.T, role model.Role, name string) *model.Profile {
	t.Helper()
	p := &model.Profile{
		Email:        uuid.NewString() + "@example.com",
		Name:         name,
		Role:         role,
		PasswordHash: "x",
		Phone:        "555-0100",
	}
	require.NoError(t, env.repos.Profiles.Create(context.Background(), p))
	return p
}

func (env *testEnv) driver(t *testing.T, name string) *model.Profile {
	t.Helper()
	p := env.profile(t, model.RoleDriver, name)
	require.NoError(t, env.repos.Drivers.Create(context.Background(), &model.Driver{
		ID:           p.ID,
		Availability: model.AvailabilityAvailable,
	}))
	return p
}

func (env *testEnv) recruiter(t *testing.T, limit int) *model.Profile {
	t.Helper()
	ctx := context.Background()
	p := env.profile(t, model.RoleRecruiter, "Rita Recruiter")
	require.NoError(t, env.repos.Recruiters.Create(ctx, &model.Recruiter{ID: p.ID, CompanyName: "Fleet Co"}))
	require.NoError(t, env.repos.Subscriptions.Create(ctx, &model.Subscription{
		RecruiterID:        p.ID,
		Type:               model.PlanStarter,
		Status:             model.SubscriptionActive,
		ContactsLimit:      &limit,
		CurrentPeriodStart: time.Now(),
	}))
	return p
}

func assertHTTPError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, status, he.Code)
	resp, ok := he.Message.(apperrors.ErrorResponse)
	require.True(t, ok, "message should be an ErrorResponse, got %T", he.Message)
	assert.Equal(t, code, resp.Code)
}

func TestContactHandler_Unlock(t *testing.T) {
	env := newTestEnv(t)
	h := handler.NewContactHandler(env.contacts)
	recruiter := env.recruiter(t, 1)
	first := env.driver(t, "Dana Driver")
	second := env.driver(t, "Sam Driver")

	unlock := func(caller *model.Profile, driverID string) (*httptest.ResponseRecorder, error) {
		c, rec := env.request(http.MethodPost, "/api/contacts/"+driverID+"/unlock", "", caller)
		c.SetParamNames("driverId")
		c.SetParamValues(driverID)
		return rec, h.Unlock(c)
	}

	t.Run("first unlock reveals the contact", func(t *testing.T) {
		rec, err := unlock(recruiter, first.ID.String())
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var result service.UnlockResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, first.Email, result.Email)
		assert.False(t, result.AlreadyUnlocked)
		assert.Equal(t, 1, result.ContactsUsed)
	})

	t.Run("repeat unlock is free", func(t *testing.T) {
		rec, err := unlock(recruiter, first.ID.String())
		require.NoError(t, err)

		var result service.UnlockResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.AlreadyUnlocked)
		assert.Equal(t, 1, result.ContactsUsed)
	})

	t.Run("exhausted quota is payment required", func(t *testing.T) {
		_, err := unlock(recruiter, second.ID.String())
		assertHTTPError(t, err, http.StatusPaymentRequired, "QUOTA_EXCEEDED")
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := unlock(recruiter, uuid.NewString())
		assertHTTPError(t, err, http.StatusNotFound, "DRIVER_NOT_FOUND")
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := unlock(recruiter, "not-a-uuid")
		assertHTTPError(t, err, http.StatusBadRequest, "INVALID_UUID")
	})

	t.Run("anonymous caller", func(t *testing.T) {
		_, err := unlock(nil, first.ID.String())
		assertHTTPError(t, err, http.StatusUnauthorized, "NOT_AUTHENTICATED")
	})
}

func TestDriverHandler(t *testing.T) {
	env := newTestEnv(t)
	h := handler.NewDriverHandler(service.NewDriverService(env.repos.Drivers, env.store, nil))
	recruiter := env.recruiter(t, 5)
	driver := env.driver(t, "Dana Driver")

	get := func(caller *model.Profile) model.Driver {
		t.Helper()
		c, rec := env.request(http.MethodGet, "/api/drivers/"+driver.ID.String(), "", caller)
		c.SetParamNames("id")
		c.SetParamValues(driver.ID.String())
		require.NoError(t, h.Get(c))
		var out model.Driver
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.NotNil(t, out.Profile)
		return out
	}

	t.Run("redacted before unlock", func(t *testing.T) {
		out := get(recruiter)
		assert.Empty(t, out.Profile.Email)
		assert.Empty(t, out.Profile.Phone)
		assert.Equal(t, "Dana Driver", out.Profile.Name)
	})

	t.Run("visible after unlock", func(t *testing.T) {
		_, err := env.contacts.UnlockContact(context.Background(), recruiter.ID, driver.ID)
		require.NoError(t, err)
		out := get(recruiter)
		assert.Equal(t, driver.Email, out.Profile.Email)
	})

	t.Run("search rejects unknown availability", func(t *testing.T) {
		c, _ := env.request(http.MethodGet, "/api/drivers?availability=retired", "", recruiter)
		assertHTTPError(t, h.Search(c), http.StatusBadRequest, "INVALID_QUERY")
	})

	t.Run("search rejects malformed numbers", func(t *testing.T) {
		c, _ := env.request(http.MethodGet, "/api/drivers?experience_min=ten", "", recruiter)
		assertHTTPError(t, h.Search(c), http.StatusBadRequest, "INVALID_QUERY")
	})

	t.Run("search filters", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/api/drivers?availability=available&experience_min=0", "", recruiter)
		require.NoError(t, h.Search(c))
		var out []model.Driver
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Len(t, out, 1)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	env := newTestEnv(t)
	authService := service.NewAuthService(env.repos, auth.NewJWTService("test-secret"), auth.NewTokenStore(nil), nil, nil)
	h := handler.NewAuthHandler(authService)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{
			name:   "malformed json",
			body:   `{"email":`,
			status: http.StatusBadRequest,
			code:   "INVALID_REQUEST",
		},
		{
			name:   "missing password",
			body:   `{"email":"a@example.com","name":"Al Driver","role":"driver"}`,
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name:   "admin role cannot self register",
			body:   `{"email":"a@example.com","password":"Password1!","name":"Al Admin","role":"admin"}`,
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name:   "recruiter without company",
			body:   `{"email":"r@example.com","password":"Password1!","name":"Rae Recruiter","role":"recruiter"}`,
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := env.request(http.MethodPost, "/api/auth/register", tt.body, nil)
			assertHTTPError(t, h.Register(c), tt.status, tt.code)
		})
	}

	t.Run("driver registers", func(t *testing.T) {
		body := `{"email":"Dana@Example.com","password":"Password1!","name":"Dana Driver","role":"driver","phone":"555-0100"}`
		c, rec := env.request(http.MethodPost, "/api/auth/register", body, nil)
		require.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"email":"dana@example.com"`)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		body := `{"email":"dana@example.com","password":"Password1!","name":"Dana Again","role":"driver"}`
		c, _ := env.request(http.MethodPost, "/api/auth/register", body, nil)
		assertHTTPError(t, h.Register(c), http.StatusConflict, "USER_ALREADY_EXISTS")
	})
}

func TestAdminHandler_UpdateSubscription(t *testing.T) {
	env := newTestEnv(t)
	subscriptions := service.NewSubscriptionService(env.store, env.contacts, nil)
	h := handler.NewAdminHandler(service.NewAdminService(env.repos, nil), subscriptions)
	admin := env.profile(t, model.RoleAdmin, "Ada Admin")
	recruiter := env.recruiter(t, 1)

	update := func(recruiterID, body string) (*httptest.ResponseRecorder, error) {
		c, rec := env.request(http.MethodPut, "/api/admin/subscriptions/"+recruiterID, body, admin)
		c.SetParamNames("recruiterId")
		c.SetParamValues(recruiterID)
		return rec, h.UpdateSubscription(c)
	}

	t.Run("upgrade to pro", func(t *testing.T) {
		rec, err := update(recruiter.ID.String(), `{"type":"pro"}`)
		require.NoError(t, err)
		var sub model.Subscription
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		assert.Equal(t, model.PlanPro, sub.Type)
		require.NotNil(t, sub.ContactsLimit)
		assert.Equal(t, 100, *sub.ContactsLimit)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := update(recruiter.ID.String(), `{"status":"paused"}`)
		assertHTTPError(t, err, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("negative limit", func(t *testing.T) {
		_, err := update(recruiter.ID.String(), `{"contacts_limit":-1}`)
		assertHTTPError(t, err, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("no subscription", func(t *testing.T) {
		_, err := update(uuid.NewString(), `{"type":"pro"}`)
		assertHTTPError(t, err, http.StatusNotFound, "SUBSCRIPTION_NOT_FOUND")
	})
}

func TestDashboardHandler_Get(t *testing.T) {
	env := newTestEnv(t)
	h := handler.NewDashboardHandler(service.NewDashboardService(env.repos, env.contacts, env.store))
	driver := env.driver(t, "Dana Driver")

	c, rec := env.request(http.MethodGet, "/api/dashboard", "", driver)
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var out service.DriverDashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Zero(t, out.TotalApplications)
	assert.Contains(t, rec.Body.String(), `"profile_completion"`)
}

type fixedStatus health.Status

func (s fixedStatus) Status() health.Status { return health.Status(s) }

func TestHealthHandler_Healthz(t *testing.T) {
	tests := []struct {
		name   string
		status health.Status
		want   int
	}{
		{name: "healthy", status: health.Status{Healthy: true}, want: http.StatusOK},
		{name: "database down", status: health.Status{Healthy: false}, want: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			h := handler.NewHealthHandler(fixedStatus(tt.status))
			c, rec := env.request(http.MethodGet, "/healthz", "", nil)
			require.NoError(t, h.Healthz(c))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
