package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "EquitySight/internal/domain/repository"
	"EquitySight/internal/usecase"
	"EquitySight/pkg/config"
	xhttp "EquitySight/pkg/http"
	xmw "EquitySight/pkg/http/middleware"
	applogger "EquitySight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	board      *usecase.QuoteBoard
	history    domrepo.FeatureHistory
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	board *usecase.QuoteBoard,
	history domrepo.FeatureHistory,
) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		handler: handler,
		board:   board,
		history: history,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.history != nil {
		initCtx, initCancel := context.WithTimeout(ctx, 10*time.Second)
		err := a.history.Init(initCtx)
		initCancel()
		if err != nil {
			return fmt.Errorf("history init: %w", err)
		}
		a.log.Info("history backend ready", applogger.String("backend", a.cfg.History.Backend))
	}

	if a.board != nil {
		if err := a.board.Start(ctx); err != nil {
			a.log.Warn("quote stream start error", applogger.Error(err))
		} else if a.cfg.Stream.Enabled {
			a.log.Info("quote stream started", applogger.Strings("symbols", a.cfg.Stream.Symbols))
		}
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	a.httpServer.Echo().Use(echo.WrapMiddleware(xmw.Metrics(a.log, time.Second)))
	a.httpServer.Echo().GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.board != nil {
		if err := a.board.Stop(); err != nil {
			a.log.Warn("quote board stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.log.Warn("history close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
