package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-relief-coordinator/internal/api"
	"github.com/mr1hm/go-relief-coordinator/internal/classifier"
	"github.com/mr1hm/go-relief-coordinator/internal/config"
	"github.com/mr1hm/go-relief-coordinator/internal/events"
	"github.com/mr1hm/go-relief-coordinator/internal/logging"
	"github.com/mr1hm/go-relief-coordinator/internal/metrics"
	"github.com/mr1hm/go-relief-coordinator/internal/optimizer"
	"github.com/mr1hm/go-relief-coordinator/internal/repository"
	"github.com/mr1hm/go-relief-coordinator/internal/site"
	"github.com/mr1hm/go-relief-coordinator/internal/tracking"
	"github.com/mr1hm/go-relief-coordinator/internal/volunteer"
	"github.com/mr1hm/go-relief-coordinator/internal/wizard"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, "relief-server")

	slog.Info("server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "store", cfg.Store.Driver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := repository.Open(ctx, cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	broadcaster := events.NewBroadcaster()

	opt := optimizer.New(store,
		optimizer.WithDelay(cfg.Optimizer.Delay),
		optimizer.WithPublisher(broadcaster),
		optimizer.WithMetrics(m),
	)

	classifiers := map[string]*classifier.Classifier{
		"request-analysis": classifier.New("request-analysis",
			classifier.WithStep(cfg.Classifier.Step),
			classifier.WithPeriod(cfg.Classifier.Period),
			classifier.WithPublisher(broadcaster),
			classifier.WithMetrics(m),
		),
		"sos-filter": classifier.New("sos-filter",
			classifier.WithStep(10),
			classifier.WithPeriod(300*time.Millisecond),
			classifier.WithPublisher(broadcaster),
			classifier.WithMetrics(m),
		),
	}

	ids := wizard.NewIDs()
	ids.Reserve(repository.SampleRequestID)
	procOpts := []wizard.ProcessorOption{
		wizard.WithWorkers(cfg.Worker.Count, cfg.Worker.BufferSize),
		wizard.WithIDs(ids),
		wizard.WithRecorder(wizard.ReliefRecorder{Repo: store}),
		wizard.WithPublisher(broadcaster),
		wizard.WithMetrics(m),
	}
	if cfg.Forms.SubmitDelay >= 0 {
		procOpts = append(procOpts, wizard.WithDelay(cfg.Forms.SubmitDelay))
	}
	proc := wizard.NewProcessor(procOpts...)

	handler := api.NewHandler(api.Deps{
		Store:       store,
		Classifiers: classifiers,
		Optimizer:   opt,
		Forms:       wizard.NewManager(m),
		Submitter:   proc,
		Tracker:     tracking.New(store, cfg.Forms.TrackDelay),
		Volunteers:  volunteer.NewService(store, store, store, broadcaster, m),
		Events:      broadcaster,
		Metrics:     m,
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(site.Recovery())
	router.Use(m.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	router.Use(api.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	handler.RegisterRoutes(router)
	site.Register(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	// Ends open event streams so Shutdown does not wait on them.
	broadcaster.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	proc.Close()
	opt.Close()
	for _, c := range classifiers {
		c.Close()
	}

	slog.Info("shutdown complete")
}
