package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/logger"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/metrics"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/middlewares"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/activation"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/authadmin"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/database"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/kafka"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/utils"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/vercel"
)

// Re-drives purchases stuck in dns_pending: owners can point their
// nameservers hours after buying, so activation has to be retried until the
// zone becomes authoritative.
func main() {
	_ = godotenv.Load()

	logr, err := logger.InitLogger()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	defer logr.Sync()

	db, err := database.InitDB(utils.GetEnv("DATABASE_URL"))
	if err != nil {
		panic("failed to initialize Database: " + err.Error())
	}

	metrics.InitAPIMetrics()
	metrics.InitKafkaMetrics()

	producer := kafka.NewProducerFromEnv()
	hosting := vercel.NewClient(vercel.Config{
		Token:     utils.GetEnv("VERCEL_TOKEN"),
		ProjectID: utils.GetEnv("VERCEL_PROJECT_ID"),
		TeamID:    utils.GetEnv("VERCEL_TEAM_ID"),
	}, logr)
	auth := authadmin.NewClient(authadmin.Config{
		BaseURL:    utils.GetEnv("AUTH_BASE_URL"),
		ServiceKey: utils.GetEnv("AUTH_SERVICE_KEY"),
	}, logr)

	service := activation.NewService(db, hosting, auth, producer, activation.DefaultConfig(), logr)

	interval := 15 * time.Minute
	if raw := utils.GetEnvOr("POLL_INTERVAL", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			logr.Fatal("invalid POLL_INTERVAL", zap.String("value", raw), zap.Error(err))
		}
		interval = parsed
	}
	logr.Info("Starting DNS poller", zap.Duration("interval", interval))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleShutdown(cancel, producer, logr)

	go poll(ctx, service, interval, logr)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	wrappedMux := middlewares.MetricsMiddleware(mux)

	if err := http.ListenAndServe(":"+utils.GetEnvOr("PORT", "3002"), wrappedMux); err != nil {
		logr.Fatal("metrics server failed", zap.Error(err))
	}
}

func poll(ctx context.Context, service *activation.Service, interval time.Duration, logr *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweep(ctx, service, logr)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx, service, logr)
		}
	}
}

func sweep(ctx context.Context, service *activation.Service, logr *zap.Logger) {
	pending, err := service.ListPending()
	if err != nil {
		logr.Error("failed to list dns_pending purchases", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}
	logr.Info("re-driving dns_pending purchases", zap.Int("count", len(pending)))

	for _, purchase := range pending {
		if ctx.Err() != nil {
			return
		}
		result, err := service.Run(ctx, purchase.ID, false)
		if err != nil {
			logr.Error("activation retry failed",
				zap.String("purchase_id", purchase.ID.String()),
				zap.Error(err),
			)
			continue
		}
		logr.Info("activation retried",
			zap.String("domain", result.Domain),
			zap.String("status", result.Status),
		)
	}
}

func handleShutdown(cancel context.CancelFunc, producer *kafka.Producer, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	cancel()

	if err := producer.Close(); err != nil {
		log.Error("Error closing Kafka producer", zap.Error(err))
	}
	os.Exit(0)
}
