package api

import (
	"context"
	"errors"
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"

	"github.com/sakshamg567/blockfall/internal/hub"
	"github.com/sakshamg567/blockfall/internal/results"
	"github.com/sakshamg567/blockfall/internal/room"
	"github.com/sakshamg567/blockfall/logger"
	"github.com/sakshamg567/blockfall/pkg/utils"
)

const (
	queryTimeout   = 2 * time.Second
	defaultResults = 20
	maxIDAttempts  = 8
)

var ErrResultsDisabled = errors.New("results store not configured")

// ResultsReader is the read side of the results store.
type ResultsReader interface {
	Recent(n int) ([]results.MatchResult, error)
}

type Server struct {
	hub       *hub.Hub
	results   ResultsReader
	jwtSecret string
	newID     func() string
}

type Option func(*Server)

func WithResults(r ResultsReader) Option {
	return func(s *Server) {
		s.results = r
	}
}

// WithAdminSecret guards the /api group with HS256 bearer tokens.
func WithAdminSecret(secret string) Option {
	return func(s *Server) {
		s.jwtSecret = secret
	}
}

func New(h *hub.Hub, opts ...Option) *Server {
	s := &Server{hub: h, newID: utils.GenShortID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Register(app *fiber.App) {
	app.Get("/health", s.health)
	app.Post("/room/create", s.createRoom)
	app.Get("/room/:id", s.roomState)

	admin := app.Group("/api")
	if s.jwtSecret != "" {
		admin.Use(jwtware.New(jwtware.Config{
			SigningKey: jwtware.SigningKey{Key: []byte(s.jwtSecret)},
		}))
	} else {
		logger.Warn("admin_jwt_secret unset, /api is open")
	}
	admin.Get("/rooms", s.listRooms)
	admin.Get("/results", s.recentResults)
}

func (s *Server) query(c *fiber.Ctx, fn func(*room.Directory)) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), queryTimeout)
	defer cancel()
	if err := s.hub.Query(ctx, fn); err != nil {
		logger.Error("hub query for %s: %v", c.Path(), err)
		return fiber.NewError(fiber.StatusServiceUnavailable, "server busy")
	}
	return nil
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// createRoom proposes an unused room id. The room itself is opened by the
// first create-room or join-room with that id.
func (s *Server) createRoom(c *fiber.Ctx) error {
	var id string
	if err := s.query(c, func(d *room.Directory) {
		for i := 0; i < maxIDAttempts; i++ {
			candidate := s.newID()
			if candidate != "" && !d.Has(candidate) {
				id = candidate
				return
			}
		}
	}); err != nil {
		return err
	}
	if id == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not allocate room id"})
	}
	return c.JSON(fiber.Map{"roomId": id})
}

func (s *Server) roomState(c *fiber.Ctx) error {
	var (
		st room.State
		ok bool
	)
	if err := s.query(c, func(d *room.Directory) {
		st, ok = d.State(c.Params("id"))
	}); err != nil {
		return err
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": room.ErrRoomNotFound.Error()})
	}
	return c.JSON(st)
}

func (s *Server) listRooms(c *fiber.Ctx) error {
	var rooms []room.Info
	if err := s.query(c, func(d *room.Directory) {
		rooms = d.Rooms()
	}); err != nil {
		return err
	}
	return c.JSON(rooms)
}

func (s *Server) recentResults(c *fiber.Ctx) error {
	if s.results == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": ErrResultsDisabled.Error()})
	}
	n := c.QueryInt("limit", defaultResults)
	list, err := s.results.Recent(n)
	if err != nil {
		logger.Error("recent results: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "results store unavailable"})
	}
	return c.JSON(list)
}
