// Package api exposes automations, the option catalog and both editing
// surfaces over HTTP.
package api

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/meikuraledutech/automation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server wires the store and catalog to a fiber app.
type Server struct {
	app     *fiber.App
	store   automation.Store
	catalog automation.Catalog
	log     *zap.Logger
	strict  bool
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the server logger. Editor and wizard sessions derive
// their loggers from it.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStrictValidation makes graph saves use the strict rule set.
func WithStrictValidation(enable bool) Option {
	return func(s *Server) {
		s.strict = enable
	}
}

// structValidator plugs go-playground/validator into fiber's binder.
type structValidator struct {
	v *validator.Validate
}

func (sv *structValidator) Validate(out any) error {
	return sv.v.Struct(out)
}

// New builds the server and registers every route.
func New(store automation.Store, catalog automation.Catalog, opts ...Option) *Server {
	s := &Server{
		store:   store,
		catalog: catalog,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:         "automation",
		StructValidator: &structValidator{v: validator.New(validator.WithRequiredStructEnabled())},
		JSONEncoder:     json.Marshal,
		JSONDecoder:     json.Unmarshal,
	})
	s.app.Use(recoverer.New())
	s.app.Use(s.requestLogger)
	s.routes()
	return s
}

func (s *Server) routes() {
	// ── Schema ────────────────────────────────────────────────────────
	s.app.Post("/schema", s.createSchema)
	s.app.Delete("/schema", s.dropSchema)

	// ── Automations ───────────────────────────────────────────────────
	s.app.Get("/automations", s.listAutomations)
	s.app.Post("/automations", s.createAutomation)
	s.app.Post("/automations/validate", s.validateAutomation)
	s.app.Get("/automations/:id", s.getAutomation)
	s.app.Put("/automations/:id", s.updateAutomation)
	s.app.Delete("/automations/:id", s.deleteAutomation)
	s.app.Patch("/automations/:id/status", s.setStatus)

	// ── Wizard ────────────────────────────────────────────────────────
	s.app.Post("/wizard/automations", s.wizardAutomation)

	// ── Catalog ───────────────────────────────────────────────────────
	s.app.Get("/options/:kind", s.listOptions)
	s.app.Put("/options/:kind", s.putOptions)
	s.app.Post("/pages/:id/posts/sync", s.syncPosts)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves HTTP on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info("listening", zap.String("addr", addr))
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requestLogger(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("took", time.Since(start)),
	)
	return err
}
