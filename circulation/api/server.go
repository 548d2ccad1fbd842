package api

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"

	logMsgRequestHandled = "http request handled"
	logAttrMethod        = "method"
	logAttrPath          = "path"
	logAttrStatusCode    = "status_code"
	logAttrRequestID     = "request_id"
)

// ErrMissingActor is returned for requests without X-Actor-ID.
var ErrMissingActor = errors.New("missing " + HeaderActorID + " header")

// Server serves the circulation API.
type Server struct {
	app              *fiber.App
	handlers         Handlers
	clock            func() time.Time
	gatherer         prometheus.Gatherer
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock that stamps commands. Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithMetricsGatherer exposes the registry on GET /metrics.
func WithMetricsGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithLogger sets a logger for the access log.
func WithLogger(logger shell.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithContextualLogger sets a context-aware logger for the access log. It takes precedence over WithLogger.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(s *Server) {
		s.contextualLogger = logger
	}
}

// NewServer creates the fiber app with all routes.
func NewServer(handlers Handlers, opts ...Option) *Server {
	s := &Server{
		handlers: handlers,
		clock:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "circulation",
		ErrorHandler:          errorHandler,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		DisableStartupMessage: true,
		Immutable:             true,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.app.Use(s.correlate)

	s.routes()

	return s
}

// App returns the fiber app, e.g. for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return success(c, fiber.StatusOK, "healthy", fiber.Map{"service": "circulation", "status": "healthy"})
	})

	if s.gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.app.Group("/api/v1")

	v1.Post("/books", s.addBook)
	v1.Post("/books/:bookID/deactivate", s.deactivateBook)
	v1.Get("/books/:bookID/availability", s.bookAvailability)

	v1.Post("/requests", s.submitIssueRequest)
	v1.Post("/requests/:requestID/decision", s.decideIssueRequest)
	v1.Post("/requests/:requestID/fulfill", s.fulfillIssueRequest)
	v1.Post("/requests/:requestID/cancel", s.cancelIssueRequest)

	v1.Post("/loans/:loanID/return", s.returnLoan)

	v1.Post("/reservations", s.enqueueReservation)
	v1.Post("/reservations/:reservationID/cancel", s.cancelReservation)

	v1.Post("/sweeps/expire-reservations", s.expireStaleReservations)
	v1.Post("/sweeps/mark-overdue", s.markOverdueLoans)

	v1.Get("/members/:memberID/loans", s.memberLoanSummary)
}

// correlate puts the request id into the user context as correlation id and writes the access log.
func (s *Server) correlate(c *fiber.Ctx) error {
	id := requestID(c)
	c.SetUserContext(shell.WithCorrelationID(c.UserContext(), id))

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status, _ = StatusFor(err)
	}

	shell.LogInfo(c.UserContext(), s.logger, s.contextualLogger, logMsgRequestHandled,
		logAttrMethod, c.Method(),
		logAttrPath, c.Path(),
		logAttrStatusCode, strconv.Itoa(status),
		logAttrRequestID, id,
	)

	return err
}

// actor reads the identity the identity provider attached to the request.
func actor(c *fiber.Ctx) (core.Actor, error) {
	id := c.Get(HeaderActorID)
	if id == "" {
		return core.Actor{}, fiber.NewError(fiber.StatusUnauthorized, ErrMissingActor.Error())
	}

	role, err := core.ParseRole(c.Get(HeaderActorRole, string(core.RoleMember)))
	if err != nil {
		return core.Actor{}, err
	}

	return core.Actor{ID: id, Role: role}, nil
}

func parseBody(c *fiber.Ctx, body any) error {
	if len(c.Body()) == 0 {
		return nil
	}

	if err := c.BodyParser(body); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}

	return nil
}

// idOrNew returns id, or a new uuid v7 if the client did not choose one.
func idOrNew(id string) string {
	if id != "" {
		return id
	}

	return uuid.Must(uuid.NewV7()).String()
}

func (s *Server) respond(c *fiber.Ctx, status int, message, id string, result shell.HandlerResult, err error) error {
	if err != nil {
		return failure(c, err, commandResultFrom(id, result))
	}

	if result.Idempotent {
		status = fiber.StatusOK
	}

	return success(c, status, message, commandResultFrom(id, result))
}
