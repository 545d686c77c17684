// Package server exposes the knitting compiler over HTTP.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/piwi3910/KnitPlan/internal/engine"
	"github.com/piwi3910/KnitPlan/internal/instructions"
	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/piwi3910/KnitPlan/internal/project"
)

// Options wire a Server. A nil Library leaves the library routes out.
type Options struct {
	Config     Config
	Catalog    model.GarmentCatalog
	Library    *project.Library
	Settings   model.KnitSettings
	RequestLog bool
}

// Server holds the fiber app and what its handlers read from.
type Server struct {
	app       *fiber.App
	cfg       Config
	catalog   model.GarmentCatalog
	library   *project.Library
	settings  model.KnitSettings
	composer  *engine.Composer
	generator *instructions.Generator
}

// New builds the app and registers every route.
func New(opts Options) *Server {
	settings := opts.Settings
	if settings.Gauge.Validate() != nil {
		settings = model.DefaultSettings()
	}

	s := &Server{
		cfg:       opts.Config,
		catalog:   opts.Catalog,
		library:   opts.Library,
		settings:  settings,
		composer:  engine.NewComposer(),
		generator: instructions.NewGenerator(),
	}
	s.composer.DefaultStretchMode = settings.StretchMode
	s.composer.DefaultAlignment = settings.Alignment

	s.app = fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(opts.Config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(opts.Config.WriteTimeout) * time.Second,
		AppName:      "KnitPlan",
		ErrorHandler: errorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	s.app.Use(recover.New())
	if opts.RequestLog {
		s.app.Use(requestLogger())
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	// ============================================================
	// Health Check Routes
	// ============================================================

	s.app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	// ============================================================
	// Compiler Routes
	// ============================================================

	api := s.app.Group("/api")
	api.Post("/stitch-plan", s.StitchPlan)
	api.Post("/instructions", s.Instructions)
	api.Post("/combine", s.Combine)
	api.Post("/chart", s.Chart)
	api.Get("/garments", s.ListGarments)
	api.Get("/garments/:permalink/instructions", s.GarmentInstructions)

	// ============================================================
	// Library Routes
	// ============================================================

	if s.library != nil {
		api.Get("/library/patterns", s.ListPatterns)
		api.Get("/library/patterns/:name", s.GetPattern)
		api.Put("/library/patterns/:name", s.PutPattern)
		api.Delete("/library/patterns/:name", s.DeletePattern)
	}
}

// App returns the fiber app, for tests and embedding.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on the configured port until the app is shut down.
func (s *Server) Listen() error {
	addr := ":" + s.cfg.Port
	logging.Logger().Info("starting KnitPlan server", "addr", addr, "library", s.library != nil)
	return s.app.Listen(addr)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// errorHandler renders errors as {"error": message}.
func errorHandler(c fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= http.StatusInternalServerError {
		logging.Logger().Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
