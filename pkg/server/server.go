// Package server exposes the service over a JSON HTTP API. Every /api route
// requires a bearer token; the verified user id scopes the request.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/identity"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/store"
)

type Server struct {
	svc      *app.Service
	verifier identity.TokenVerifier
	logger   *log.Logger
	app      *fiber.App
}

// New wires routes over svc. The service identity is replaced so the user
// comes from each request.
func New(svc *app.Service, verifier identity.TokenVerifier, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	svc.Identity = identity.FromRequest{}
	s := &Server{svc: svc, verifier: verifier, logger: logger}
	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(s.requestLogger())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       300,
	}))
	s.routes()
	return s
}

// App returns the fiber app, for tests and embedding.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is done.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("server: listening on %s", addr)
		errCh <- s.app.Listen(addr)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := s.app.Shutdown(); err != nil {
			return err
		}
		return <-errCh
	}
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api", s.verify())
	api.Get("/agenda", s.getAgenda)
	api.Get("/report", s.getReport)

	tasks := api.Group("/tasks")
	tasks.Get("/", s.listTasks)
	tasks.Post("/", s.createTask)
	tasks.Get("/logbook", s.logbook)
	tasks.Post("/order", s.orderTasks)
	tasks.Get("/:id", s.getTask)
	tasks.Patch("/:id/status", s.setTaskStatus)
	tasks.Post("/:id/toggle", s.toggleTask)
	tasks.Delete("/:id", s.deleteTask)

	routines := api.Group("/routines")
	routines.Get("/", s.listRoutines)
	routines.Post("/", s.createRoutine)
	routines.Post("/:id/toggle", s.toggleRoutine)
	routines.Delete("/:id", s.deleteRoutine)

	meetings := api.Group("/meetings")
	meetings.Get("/", s.listMeetings)
	meetings.Post("/", s.createMeeting)
	meetings.Post("/:id/toggle", s.toggleMeeting)
	meetings.Post("/:id/checklist/:item/toggle", s.toggleMeetingItem)
	meetings.Delete("/:id", s.deleteMeeting)

	accounts := api.Group("/accounts")
	accounts.Get("/", s.listAccounts)
	accounts.Post("/", s.createAccount)
	accounts.Post("/:id/archive", s.archiveAccount)
	accounts.Delete("/:id", s.deleteAccount)

	notes := api.Group("/notes")
	notes.Get("/", s.listNotes)
	notes.Post("/", s.createNote)
	notes.Get("/:id", s.getNote)
	notes.Post("/:id/pin", s.pinNote)
	notes.Post("/:id/items/:item/toggle", s.toggleNoteItem)
	notes.Delete("/:id", s.deleteNote)
}

func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		s.logger.Println(c.Method(), c.Path(), c.Response().StatusCode())
		return err
	}
}

// verify checks the bearer token and puts the user on the request context.
func (s *Server) verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := identity.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not Logged In.",
			})
		}
		user, err := s.verifier.Verify(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}
		c.Locals("user", user)
		c.SetUserContext(identity.WithUser(c.UserContext(), user))
		return c.Next()
	}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	var ve *model.ValidationError
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, app.ErrNotFound), errors.Is(err, store.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.As(err, &ve), errors.Is(err, model.ErrSelfDependency), errors.Is(err, errBadRequest):
		code = fiber.StatusBadRequest
	case errors.Is(err, app.ErrNoUser):
		code = fiber.StatusUnauthorized
	}
	if code == fiber.StatusInternalServerError {
		s.logger.Printf("server: %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"message": err.Error()})
}

var errBadRequest = errors.New("bad request")

func badRequest(msg string) error {
	return fmt.Errorf("%w: %s", errBadRequest, msg)
}

func parse(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return badRequest("invalid request body: " + err.Error())
	}
	return nil
}

func (s *Server) now() time.Time {
	if s.svc.Clock == nil {
		return time.Now()
	}
	return s.svc.Clock.Now()
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}
