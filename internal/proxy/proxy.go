// Package proxy serves image search with server-held credentials, plus the
// habit tracker over HTTP for clients that keep no state of their own.
package proxy

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"muse/internal/session"
)

const (
	// ProxyResults is the number of images requested per proxied search.
	ProxyResults = 5

	// querySuffix is appended to the client's query.
	querySuffix = " inspo"

	// UserHeader identifies the caller for tracker routes.
	UserHeader = "X-Muse-User"
)

// ImageSearcher runs an image search.
type ImageSearcher interface {
	Search(ctx context.Context, query string, num int) ([]string, error)
}

// Config holds the server's collaborators.
type Config struct {
	Images ImageSearcher
	Store  *session.Store
	Logger *zap.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// ImagesResponse is the body of a successful image search.
type ImagesResponse struct {
	Images []string `json:"images"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

type server struct {
	images ImageSearcher
	store  *session.Store
	log    *zap.Logger
	now    func() time.Time
}

// New builds the fiber app with all routes registered.
func New(cfg Config) *fiber.App {
	s := &server{
		images: cfg.Images,
		store:  cfg.Store,
		log:    cfg.Logger,
		now:    cfg.Now,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.store == nil {
		s.store = session.NewStore()
	}

	// Immutable: habit names and user headers outlive the request as store keys.
	app := fiber.New(fiber.Config{
		Immutable:             true,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, " + UserHeader,
	}))
	app.Use(requestLogger(s.log))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/get-images", s.getImages)

	habits := app.Group("/habits")
	habits.Get("/:habit", s.getHabit)
	habits.Post("/:habit/log", s.logHabit)
	habits.Post("/:habit/reset", s.resetHabit)
	habits.Delete("/:habit", s.forgetHabit)

	return app
}

func (s *server) getImages(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "query parameter q is required"})
	}
	if s.images == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "image search is not configured"})
	}

	images, err := s.images.Search(c.UserContext(), q+querySuffix, ProxyResults)
	if err != nil {
		s.log.Error("image search failed", zap.String("q", q), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to fetch images"})
	}
	if images == nil {
		images = []string{}
	}
	return c.JSON(ImagesResponse{Images: images})
}

func (s *server) getHabit(c *fiber.Ctx) error {
	key, err := s.key(c)
	if err != nil {
		return err
	}
	return c.JSON(s.store.State(key, s.now()))
}

func (s *server) logHabit(c *fiber.Ctx) error {
	key, err := s.key(c)
	if err != nil {
		return err
	}
	st := s.store.LogToday(key, s.now())
	s.log.Debug("habit logged", zap.String("user", key.User), zap.String("habit", key.Habit), zap.Int("streak", st.Streak))
	return c.JSON(st)
}

func (s *server) resetHabit(c *fiber.Ctx) error {
	key, err := s.key(c)
	if err != nil {
		return err
	}
	st := s.store.Reset(key)
	s.log.Debug("habit reset", zap.String("user", key.User), zap.String("habit", key.Habit))
	return c.JSON(st)
}

func (s *server) forgetHabit(c *fiber.Ctx) error {
	key, err := s.key(c)
	if err != nil {
		return err
	}
	s.store.Forget(key)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *server) key(c *fiber.Ctx) (session.Key, error) {
	// Params are not unescaped by fiber.
	name, err := url.PathUnescape(c.Params("habit"))
	if err != nil {
		return session.Key{}, fiber.NewError(fiber.StatusBadRequest, "invalid habit name")
	}
	key, err := session.NormalizeKey(c.Get(UserHeader), name)
	if err != nil {
		return session.Key{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return key, nil
}

// handleError renders errors as ErrorResponse.
func (s *server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		s.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(ErrorResponse{Error: msg})
}
