package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"truckrecruit/internal/auth"
	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/handler"
	"truckrecruit/internal/logger"
	"truckrecruit/internal/model"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Profile     *handler.ProfileHandler
	Driver      *handler.DriverHandler
	Recruiter   *handler.RecruiterHandler
	Contact     *handler.ContactHandler
	Job         *handler.JobHandler
	Application *handler.ApplicationHandler
	Interview   *handler.InterviewHandler
	Message     *handler.MessageHandler
	Dashboard   *handler.DashboardHandler
	Analytics   *handler.AnalyticsHandler
	Admin       *handler.AdminHandler
	Health      *handler.HealthHandler
}

// Limits configures the per-group rate limiters.
type Limits struct {
	Auth   Limit
	API    Limit
	Search Limit
}

// Limit allows Burst requests per Window for one caller.
type Limit struct {
	Burst  int
	Window time.Duration
}

// DefaultLimits returns the production rate limits.
func DefaultLimits() Limits {
	return Limits{
		Auth:   Limit{Burst: 5, Window: 15 * time.Minute},
		API:    Limit{Burst: 100, Window: time.Minute},
		Search: Limit{Burst: 30, Window: time.Minute},
	}
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	h Handlers,
	limits Limits,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
) {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			ctx := logger.WithRequestID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	}))
	e.Use(requestLogger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", h.Health.Healthz)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	public := api.Group("/auth", rateLimit(limits.Auth, "too many authentication attempts, try again later"))
	public.POST("/register", h.Auth.Register)
	public.POST("/login", h.Auth.Login)
	public.POST("/refresh", h.Auth.Refresh)

	// Secured routes (require JWT authentication)
	secured := api.Group("",
		auth.JWTMiddleware(jwtService),
		auth.RejectRevoked(tokenStore),
		rateLimit(limits.API, apperrors.ErrRateLimited.Error()),
	)

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/me", h.Profile.GetMe)
	secured.PUT("/me", h.Profile.UpdateMe)
	secured.GET("/dashboard", h.Dashboard.Get)
	secured.POST("/analytics/events", h.Analytics.Track)

	secured.GET("/drivers", h.Driver.Search,
		auth.RequireRole(model.RoleRecruiter, model.RoleAdmin),
		rateLimit(limits.Search, "too many searches, slow down"),
	)
	secured.GET("/drivers/:id", h.Driver.Get)

	driverOnly := secured.Group("", auth.RequireRole(model.RoleDriver))
	driverOnly.PUT("/driver/profile", h.Driver.UpdateProfile)
	driverOnly.POST("/applications", h.Application.Apply)

	recruiterOnly := secured.Group("", auth.RequireRole(model.RoleRecruiter))
	recruiterOnly.GET("/recruiter/profile", h.Recruiter.GetProfile)
	recruiterOnly.PUT("/recruiter/profile", h.Recruiter.UpdateProfile)
	recruiterOnly.GET("/recruiter/subscription", h.Contact.Quota)
	recruiterOnly.POST("/contacts/:driverId/unlock", h.Contact.Unlock)
	recruiterOnly.GET("/contacts/:driverId/status", h.Contact.Status)
	recruiterOnly.GET("/contacts", h.Contact.List)
	recruiterOnly.POST("/jobs", h.Job.Create)
	recruiterOnly.PUT("/jobs/:id/active", h.Job.SetActive)
	recruiterOnly.PUT("/applications/:id/status", h.Application.UpdateStatus)
	recruiterOnly.POST("/interviews", h.Interview.Schedule)

	secured.GET("/jobs", h.Job.List)
	secured.GET("/applications", h.Application.List)
	secured.GET("/interviews", h.Interview.List)
	secured.PUT("/interviews/:id/status", h.Interview.UpdateStatus)

	secured.POST("/messages", h.Message.Send)
	secured.GET("/messages", h.Message.List)
	secured.PUT("/messages/:id/read", h.Message.MarkRead)

	admin := secured.Group("/admin", auth.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.Admin.ListUsers)
	admin.PUT("/subscriptions/:recruiterId", h.Admin.UpdateSubscription)
	admin.POST("/seed", h.Admin.Seed)
}

// rateLimit builds a limiter with its own in-memory store. Authenticated callers are keyed by
// user ID, everyone else by client IP.
func rateLimit(l Limit, message string) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(l.Burst) / l.Window.Seconds()),
		Burst:     l.Burst,
		ExpiresIn: l.Window,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if id, err := auth.CurrentUser(c); err == nil {
				return "user:" + id.ID.String(), nil
			}
			return "ip:" + c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: "unable to identify caller",
				Code:  "FORBIDDEN",
			})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Error: message,
				Code:  "RATE_LIMITED",
			})
		},
	})
}

// requestLogger emits one structured line per request.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log := logger.FromContext(c.Request().Context()).With(
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"remote_ip", v.RemoteIP,
			)
			switch {
			case v.Error != nil && v.Status >= http.StatusInternalServerError:
				log.Error("request failed", "error", v.Error)
			case v.Status >= http.StatusInternalServerError:
				log.Error("request failed")
			default:
				log.Info("request")
			}
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator installed on the echo instance.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
