package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	"interior-design-backend/docs"
	"interior-design-backend/internal/config"
	"interior-design-backend/internal/generation"
	"interior-design-backend/internal/handlers"
	"interior-design-backend/internal/middleware"
	"interior-design-backend/internal/observability"
	"interior-design-backend/internal/services"
)

const shutdownTimeout = 30 * time.Second

type serveOptions struct {
	migrate bool
	sweep   bool
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	opts := serveOptions{}
	var skipMigrate, noSweep bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.migrate = !skipMigrate
			opts.sweep = !noSweep
			return runServe(cmd.Context(), ctx, opts)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not apply pending migrations on startup")
	cmd.Flags().BoolVar(&noSweep, "no-sweep", false, "Do not run the stale design sweeper in this process")
	return cmd
}

func runServe(ctx context.Context, cc *commandContext, opts serveOptions) error {
	// Load configuration
	cfg, log, err := cc.load()
	if err != nil {
		return err
	}

	// Initialize tracing
	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.Environment,
	})
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOtel(sctx)
	}()

	a, err := newApp(ctx, cfg, log, opts.migrate)
	if err != nil {
		return err
	}
	defer a.Close()

	// Setup router
	job := a.newJob()
	router := newRouter(cfg, a, job)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server, sweeper and the shutdown watcher
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "port", cfg.Port, "environment", cfg.Environment, "providers", a.providers.Names())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if opts.sweep && cfg.SweepInterval > 0 && cfg.StaleDesignAfter > 0 {
		sweeper := a.newSweeper()
		g.Go(func() error {
			return sweeper.Run(gctx, cfg.SweepInterval)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Warn("http shutdown incomplete", "error", err)
		}
		if err := job.Shutdown(sctx); err != nil {
			log.Warn("generation tasks still running at exit", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newRouter(cfg *config.Config, a *app, job *generation.Job) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	configureSwagger(cfg.BaseURL)

	router := gin.New()
	router.Use(
		otelgin.Middleware(cfg.OtelServiceName),
		middleware.RequestID(),
		middleware.RequestLogger(a.log),
		middleware.Recovery(a.log),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	deps := handlers.Deps{
		Config:    cfg,
		Log:       a.log,
		DB:        a.db,
		Projects:  services.NewProjectService(a.db, a.gate, a.store, a.log),
		Rooms:     services.NewRoomService(a.db, a.gate, a.store, a.log, cfg.MaxUploadBytes),
		Uploads:   services.NewUploadService(a.db, a.gate, a.store, a.log, cfg.MaxUploadBytes),
		Job:       job,
		Providers: a.providers,
	}
	if a.redis != nil {
		deps.Limiter = a.redis
	}
	handlers.RegisterRoutes(router, deps)
	return router
}

func configureSwagger(baseURL string) {
	if baseURL == "" {
		return
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return
	}
	docs.SwaggerInfo.Host = u.Host
	if u.Scheme == "https" {
		docs.SwaggerInfo.Schemes = []string{"https", "http"}
	} else {
		docs.SwaggerInfo.Schemes = []string{"http", "https"}
	}
}
