// Package web implements the JSON API surface consumed by the console's
// presentation layer.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/zonekeeper/zonekeeper/internal/config"
	accesslog "github.com/zonekeeper/zonekeeper/internal/logger/adapter/fiber"
	"github.com/zonekeeper/zonekeeper/internal/store"
	"github.com/zonekeeper/zonekeeper/internal/web/handler"
	"github.com/zonekeeper/zonekeeper/internal/web/handler/exporting"
	"github.com/zonekeeper/zonekeeper/internal/web/handler/importing"
	"github.com/zonekeeper/zonekeeper/internal/web/handler/zones"
)

// Service represents the web service.
type Service struct {
	App   *fiber.App
	cfg   *config.Config
	alive atomic.Bool
}

// Start starts the web service on the configured port.
func (s *Service) Start() error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		addr := fmt.Sprintf(":%d", s.cfg.Webserver.Port)
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and shuts fiber down
// gracefully, giving load balancers time to drain this instance.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Let /checkalive fail first so reverse proxies remove this target.
	s.alive.Store(false)
	time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("fiber shutdown failed")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
}

// New creates the web service and registers all handlers.
func New(cfg *config.Config, zoneStore *store.Store) *Service {
	s := &Service{
		App: fiber.New(fiber.Config{
			AppName:               cfg.Title,
			DisableStartupMessage: !cfg.DevMode,
		}),
		cfg: cfg,
	}

	if !cfg.Webserver.DisableRecover {
		s.App.Use(recover.New())
	}

	// Long-running handlers read their context from UserContext; carry the
	// request context there so cancellation propagates.
	s.App.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(c.Context())

		return c.Next()
	})

	s.App.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: handler.CheckAlivePath,
	}))

	s.App.Get(handler.CheckAlivePath, func(c *fiber.Ctx) error {
		if !s.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("ok")
	})

	zones.Handler.Init(s.App, cfg, zoneStore)
	importing.Handler.Init(s.App, cfg, zoneStore)
	exporting.Handler.Init(s.App, cfg, zoneStore)

	return s
}
