package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/cmd/activation_api/app/routes"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/logger"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/metrics"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/middlewares"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/activation"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/authadmin"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/database"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/kafka"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/models"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/utils"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/vercel"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/tracing"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	db, err := database.InitDB(utils.GetEnv("DATABASE_URL"))
	if err != nil {
		panic("DB not init  " + err.Error())
	}
	err = database.MigrateDB(db,
		&models.Tenant{},
		&models.TenantSettings{},
		&models.DomainPurchase{},
		&models.Order{},
		&models.Category{},
		&models.Product{},
		&models.OnboardingProgress{},
		&models.Template{},
	)
	if err != nil {
		panic("DB migration failed  " + err.Error())
	}

	logr, err := logger.InitLogger()
	if err != nil {
		panic("Failed to initialize zap logger: " + err.Error())
	}
	logr.Info("Logger initialized")

	metrics.InitAPIMetrics()
	metrics.InitKafkaMetrics()

	redisClient := database.InitRedis(utils.GetEnvOr("REDIS_ADDR", "localhost:6379"))
	producer := kafka.NewProducerFromEnv()
	logr.Info("Kafka producer initialized")

	shutdownTracer := tracing.InitTracer("activation_api", logr)
	defer shutdownTracer()

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

	router := gin.Default()
	router.Use(middlewares.GinMetricsMiddleware())

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := middlewares.NewRateLimiter(5, 10)

	v1 := router.Group("/api")
	routes.Activation(v1.Group("/domains"), service, redisClient, utils.GetEnv("SERVICE_API_KEY"), logr)
	routes.Domains(v1.Group("/domains", limiter.Middleware()), db, logr)
	routes.Tenants(v1.Group("/tenants", limiter.Middleware()), db, logr)
	routes.Templates(v1.Group("/templates", limiter.Middleware()), db, logr)

	go handleShutdown(producer, logr)
	if err := router.Run(":" + utils.GetEnvOr("PORT", "3000")); err != nil {
		logr.Fatal("Failed to start server", zap.Error(err))
	}
}

func handleShutdown(producer *kafka.Producer, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Shutdown signal received", zap.String("signal", sig.String()))

	if err := producer.Close(); err != nil {
		log.Error("Error closing Kafka producer", zap.Error(err))
	} else {
		log.Info("Kafka producer closed cleanly")
	}

	os.Exit(0)
}
