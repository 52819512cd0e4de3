package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/cmd/store_notifier/handler"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/logger"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/metrics"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/middlewares"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/config"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/database"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/gosms"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/kafka"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/repositories"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/utils"
)

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
	tmplRepo := repositories.NewTemplateRepository(db)

	logr.Info("Starting store notifier service")

	metrics.InitWorkerMetrics()
	metrics.InitKafkaMetrics()

	cfg, err := config.LoadConfig(utils.GetEnvOr("CONFIG_PATH", "./config.yaml"))
	if err != nil {
		logr.Fatal(err.Error(), zap.Error(err))
	}
	mailer, err := config.BuildMailer(cfg)
	if err != nil {
		logr.Fatal(err.Error(), zap.Error(err))
	}
	logr.Info("Mail service initialized")

	var sender gosms.Sender
	if cfg.SMS.Provider != "" {
		sender, err = config.BuildSender(cfg)
		if err != nil {
			logr.Fatal(err.Error(), zap.Error(err))
		}
		logr.Info("SMS service initialized")
	}

	producer := kafka.NewProducerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleShutdown(cancel, producer, logr)

	go handler.HandleDomainEvents(ctx, mailer, sender, logr, tmplRepo, producer)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	wrappedMux := middlewares.MetricsMiddleware(mux)

	if err := http.ListenAndServe(":"+utils.GetEnvOr("PORT", "3001"), wrappedMux); err != nil {
		logr.Fatal("metrics server failed", zap.Error(err))
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
