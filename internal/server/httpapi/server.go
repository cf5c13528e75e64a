// Package httpapi exposes the JSON API and the browser redirect endpoints
// over Fiber.
package httpapi

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/dmitrijs2005/secretkeeper/internal/logging"
	"github.com/dmitrijs2005/secretkeeper/internal/server/services"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address     string
	app         *fiber.App
	auth        *services.AuthService
	secrets     *services.SecretService
	exports     *services.ExportService
	frontendURL string
	logger      logging.Logger
}

func NewHTTPServer(address string, l logging.Logger, as *services.AuthService, ss *services.SecretService,
	es *services.ExportService, frontendURL string) *HTTPServer {

	s := &HTTPServer{
		address:     address,
		auth:        as,
		secrets:     ss,
		exports:     es,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      l.With("module", "http_server"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "secretkeeper",
		ErrorHandler: s.handleError,
	})

	s.app.Use(requestid.New(requestid.Config{
		Header:    common.RequestIDHeaderName,
		Generator: uuid.NewString,
	}))
	s.app.Use(s.requestLogger)
	s.app.Use(recoverer.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{s.frontendURL},
		AllowHeaders:     []string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, common.AuthHeaderName},
		AllowCredentials: true,
	}))

	s.routes()

	return s
}

// App returns the underlying Fiber app, mainly for app.Test.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.app.ShutdownWithContext(sctx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	return s.app.Listener(listen, fiber.ListenConfig{DisableStartupMessage: true})
}
