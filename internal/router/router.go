package router

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"recipebook/internal/config"
	"recipebook/internal/errors"
	"recipebook/internal/handler"
	"recipebook/internal/upload"
)

// multipartOverhead is the allowance for form fields and part headers on top
// of the file size limit.
const multipartOverhead = 1 << 20

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *slog.Logger,
	store *upload.Store,
	recipeHandler *handler.RecipeHandler,
	profileHandler *handler.ProfileHandler,
	healthHandler *handler.HealthHandler,
) {
	if log == nil {
		log = slog.Default()
	}

	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
	}))
	if cfg.RateLimitRPS > 0 {
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimitRPS)),
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return echo.NewHTTPError(http.StatusTooManyRequests, errors.ErrorResponse{
					Error: "too many requests",
					Code:  "RATE_LIMITED",
				})
			},
		}))
	}

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errorHandler(e)

	e.GET("/healthz", healthHandler.Healthz)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static(upload.URLPrefix, store.Dir())

	bodyLimit := middleware.BodyLimit(strconv.FormatInt(store.MaxSize()+multipartOverhead, 10))

	api := e.Group("/api")

	api.POST("/recipes", recipeHandler.CreateRecipe, bodyLimit, upload.Single(store, "image", log))
	api.GET("/recipes", recipeHandler.ListRecipes)
	api.GET("/recipes/:id", recipeHandler.GetRecipe)

	api.GET("/profile", profileHandler.GetProfile)
	api.PUT("/profile", profileHandler.UpdateProfile)
	api.POST("/profile/upload", profileHandler.UploadProfileImage, bodyLimit, upload.Single(store, "profileImage", log))
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			log.LogAttrs(context.Background(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}

// errorHandler gives errors raised outside the handlers (body limit, unknown
// route, recovered panic) the same {error, code} body the handlers use.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !stderrors.As(err, &he) {
			e.DefaultHTTPErrorHandler(echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
				Error: "internal server error",
				Code:  "INTERNAL_ERROR",
			}).SetInternal(err), c)
			return
		}
		if msg, ok := he.Message.(string); ok {
			err = echo.NewHTTPError(he.Code, errors.ErrorResponse{
				Error: msg,
				Code:  statusCode(he.Code),
			})
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

// statusCode turns a status into an error code, e.g. 413 -> REQUEST_ENTITY_TOO_LARGE.
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
