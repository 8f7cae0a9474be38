// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/amirphl/spam-guard/app/dto"
	"github.com/amirphl/spam-guard/app/handlers"
	"github.com/amirphl/spam-guard/app/middleware"
	"github.com/amirphl/spam-guard/config"
	_ "github.com/amirphl/spam-guard/docs"
	"github.com/amirphl/spam-guard/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers groups every endpoint handler the router mounts
type Handlers struct {
	SpamNumber handlers.SpamNumberHandlerInterface
	CallEvent  handlers.CallEventHandlerInterface
	Decision   handlers.DecisionHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	cfg      *config.Config
	handlers Handlers
	logger   *zap.Logger
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(cfg *config.Config, h Handlers, logger *zap.Logger) Router {
	if logger == nil {
		logger = zap.L()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.Deployment.Name,
		ServerHeader: cfg.Deployment.Name,
		ErrorHandler: newErrorHandler(logger),
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  jsonCodec.Marshal,
		JSONDecoder:  jsonCodec.Unmarshal,
	})

	return &FiberRouter{
		app:      app,
		cfg:      cfg,
		handlers: h,
		logger:   logger,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	r.setupMiddleware()

	r.app.Get("/health", handlers.Health)

	if r.cfg.Metrics.Enabled {
		r.app.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	// API documentation route (development only)
	if r.cfg.IsDevelopment() {
		r.app.Get("/swagger.json", serveSwaggerJSON)
		r.logger.Info("API documentation enabled", zap.String("path", "/swagger.json"))
	}

	// Record store
	r.app.Get("/test-db", r.handlers.SpamNumber.List)
	r.app.Post("/agregar-numero", r.handlers.SpamNumber.Register)
	r.app.Delete("/eliminar-numero", r.handlers.SpamNumber.Unregister)
	r.app.Get("/exportar-numeros", r.handlers.SpamNumber.Export)

	// Event log
	r.app.Post("/registrar-evento", r.handlers.CallEvent.Record)

	// Decisions
	r.app.Get("/verificar-numero", r.handlers.Decision.Verify)
	r.app.Get("/issabel-hook", r.handlers.Decision.IssabelHook)

	r.app.Use(notFoundHandler)

	r.logger.Info("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	// Recovery middleware turns panics into 500s through the error handler
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			r.logger.Error("panic recovered",
				zap.String("request_id", requestid.FromContext(c)),
				zap.Any("panic", e),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("ip", c.IP()),
			)
		},
	}))

	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginResourcePolicy: "cross-origin",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.cfg.Security.CORSAllowedOrigins,
		AllowMethods: []string{
			fiber.MethodGet, fiber.MethodPost, fiber.MethodDelete, fiber.MethodHead, fiber.MethodOptions,
		},
		AllowHeaders: []string{
			fiber.HeaderOrigin,
			fiber.HeaderContentType,
			fiber.HeaderAccept,
			fiber.HeaderXRequestID,
		},
		ExposeHeaders: []string{
			fiber.HeaderXRequestID,
			fiber.HeaderContentDisposition,
		},
		MaxAge: utils.CORSMaxAge,
	}))

	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Spreadsheets are already zip compressed
			return strings.HasPrefix(c.Path(), "/exportar-numeros")
		},
	}))

	if r.cfg.Metrics.Enabled {
		r.app.Use(middleware.Metrics())
	}

	r.app.Use(middleware.AccessLog(r.logger, middleware.AccessLogConfig{
		Skip: func(c fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == r.cfg.Metrics.Path
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	r.logger.Info("Starting server", zap.String("address", address))
	return r.app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true})
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Serve the registered OpenAPI document
func serveSwaggerJSON(c fiber.Ctx) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Detail: "Failed to load Swagger documentation",
			Code:   "SWAGGER_LOAD_ERROR",
		})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(doc)
}

// Not found handler
func notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Detail: "Not Found",
		Code:   "NOT_FOUND",
	})
}

// Global error handler
func newErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		detail := "An internal server error occurred"
		errCode := "INTERNAL_ERROR"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			detail = fe.Message
			errCode = strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("request_id", requestid.FromContext(c)),
				zap.Int("status", code),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Detail: detail,
			Code:   errCode,
		})
	}
}
