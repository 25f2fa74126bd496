package apistub

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Config holds the few knobs of the stub server.
//
// Fields:
//  JWTSecret  – secret used to sign and verify access tokens.
//  TokenTTL   – lifetime of issued tokens; defaults to 24h.
//  BcryptCost – bcrypt cost for password hashing; defaults to the
//               library default.  Tests lower it to keep hashing fast.
type Config struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// Server wires the in-memory store and the route handlers into one
// Echo instance.  It implements http.Handler so tests can wrap it
// directly in httptest.NewServer.
type Server struct {
	cfg   Config
	store *Store
	echo  *echo.Echo
}

// New builds a Server and registers all routes of the reservation API
// contract.  Unauthenticated routes: health check, register, login,
// the global reservation list and the filter endpoint.  Everything
// else requires a Bearer token.
func New(cfg Config) *Server {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}

	s := &Server{
		cfg:   cfg,
		store: NewStore(cfg.BcryptCost),
		echo:  echo.New(),
	}
	s.echo.HideBanner = true
	s.routes()
	return s
}

// routes registers every endpoint on the Echo instance.
func (s *Server) routes() {
	e := s.echo

	// Health check for load balancers and liveness probes.
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Account endpoints; no session required.
	e.POST("/users/register", s.register)
	e.POST("/users/login", s.login)

	// Public reservation reads.
	e.GET("/reservations", s.listAll)
	e.GET("/reservations/filter", s.filter)

	// Token-protected reservation operations.  The filter route above
	// must be registered before this group so it is not shadowed by
	// the parameterized paths.
	auth := e.Group("", requireToken(s.cfg.JWTSecret))
	auth.GET("/reservations/user/:id", s.listByUser)
	auth.POST("/reservations", s.create)
	auth.PUT("/reservations/:id", s.update)
	auth.DELETE("/reservations/:id", s.remove)
}

// Store exposes the in-memory store so tests can seed data directly.
func (s *Server) Store() *Store { return s.store }

// ServeHTTP makes the Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start runs the stub as a standalone HTTP server on addr.  Used by
// cmd/apistub for local development.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}
