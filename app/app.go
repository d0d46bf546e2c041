// Package app wires configuration, storage, the data layer and the HTTP
// routers into runnable servers.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"time"

	"menuboard/client"
	"menuboard/config"
	"menuboard/controller"
	"menuboard/database"
	"menuboard/logging"
	"menuboard/route"
	"menuboard/utils"
	"menuboard/view"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

// SetGinMode applies GIN_MODE, defaulting to debug.
func SetGinMode(mode string) {
	if mode == gin.ReleaseMode || mode == gin.TestMode {
		gin.SetMode(mode)
		return
	}
	gin.SetMode(gin.DebugMode)
}

func newEngine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestID(), utils.Metrics(), utils.RequestLogger())
	route.SystemRoutes(router)
	return router
}

// NewUIRouter builds the page server around api.
func NewUIRouter(cfg *config.Config, api view.MenuAPI) (*gin.Engine, error) {
	tmpl, err := view.ParseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := newEngine()
	router.SetHTMLTemplate(tmpl)
	router.MaxMultipartMemory = cfg.API.MaxImageBytes + 1<<20

	sessions := view.NewSessions(api, cfg.UI.SessionTTL, cfg.UI.MaxSessions)
	vc := controller.NewViewController(sessions, cfg.UI.MenuAPIURL, cfg.API.MaxImageBytes, cfg.UI.SessionTTL)
	route.ViewRoutes(router, vc, newLimiter(cfg.UI.RateLimit))
	return router, nil
}

// NewAPIRouter builds the reference menu API around store.
func NewAPIRouter(cfg *config.Config, store database.MenuStore) *gin.Engine {
	router := newEngine()
	router.MaxMultipartMemory = cfg.API.MaxImageBytes + 1<<20

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.API.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", utils.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", utils.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	limiter := newLimiter(cfg.API.RateLimit)
	mc := controller.NewMenuController(store, cfg.API.UploadDir, cfg.API.MaxImageBytes)
	route.MenuAPIRoutes(router, mc, limiter)
	return router
}

// newLimiter allows perSecond requests with a burst of twice that, never less
// than one request. A non-positive rate disables limiting.
func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), max(1, int(math.Ceil(perSecond*2))))
}

// RunUI serves the page until ctx is done.
func RunUI(ctx context.Context, cfg *config.Config) error {
	api, err := client.New(cfg.UI.MenuAPIURL, client.WithTimeout(cfg.UI.RequestTimeout))
	if err != nil {
		return err
	}
	router, err := NewUIRouter(cfg, api)
	if err != nil {
		return err
	}

	slog.Info("starting menu page server",
		"port", cfg.UI.Port,
		"menuAPI", cfg.UI.MenuAPIURL,
		"requestTimeout", cfg.UI.RequestTimeout.String(),
		"maxSessions", cfg.UI.MaxSessions)
	return serve(ctx, "ui", fmt.Sprintf(":%d", cfg.UI.Port), router)
}

// RunAPI serves the reference menu API until ctx is done. Without a DSN the
// menus live in memory.
func RunAPI(ctx context.Context, cfg *config.Config) error {
	var store database.MenuStore
	if cfg.API.DSN != "" {
		db, err := database.Open(cfg.API.DSN, cfg.Log.Level)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(db); err != nil {
				slog.Warn("failed to close database", "error", err)
			}
		}()
		store = database.NewGormMenuStore(db)
	} else {
		slog.Warn("DATABASE_DSN not set, menus are kept in memory")
		store = database.NewMemoryMenuStore()
	}
	if err := os.MkdirAll(cfg.API.UploadDir, 0755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}

	router := NewAPIRouter(cfg, store)
	slog.Info("starting menu api server",
		"port", cfg.API.Port,
		"uploadDir", cfg.API.UploadDir,
		"allowedOrigins", cfg.API.AllowedOrigins)
	return serve(ctx, "api", fmt.Sprintf(":%d", cfg.API.Port), router)
}

// RunDev runs the reference API and the page server together. The first
// one to fail stops the other.
func RunDev(ctx context.Context, cfg *config.Config) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return RunAPI(gctx, cfg) })
	g.Go(func() error { return RunUI(gctx, cfg) })
	return g.Wait()
}

func serve(ctx context.Context, name, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          logging.NewLogLogger(slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server: %w", name, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("shutting down server", "server", name)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
