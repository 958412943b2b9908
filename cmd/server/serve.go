package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"wine-quality-service/internal/adapters/primary/http/handlers"
	"wine-quality-service/internal/adapters/primary/http/middleware"
	"wine-quality-service/internal/metrics"
	"wine-quality-service/internal/scheduler"
)

func runServer(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.cfg

	// Scheduled retraining (Optional - based on config)
	if cfg.Scheduler.TrainingSchedule != "" {
		sched, err := scheduler.New(cfg.Scheduler.TrainingSchedule, a.pipeline, cfg.Scheduler.TrainingTimeout)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(a.pipeline, a.predictor, a.runs)

	// Setup router
	if cfg.Logger.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())
	router.SetHTMLTemplate(handlers.Templates())

	h.RegisterRoutes(&router.RouterGroup)
	h.RegisterAPIRoutes(router.Group("/api/v1"))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		if a.pool != nil {
			if err := a.pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
