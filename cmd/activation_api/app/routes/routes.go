package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/cmd/activation_api/app/internal/handler"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/middlewares"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/activation"
)

func Activation(router *gin.RouterGroup, service *activation.Service, redisClient *redis.Client, serviceKey string, log *zap.Logger) {
	activationHandler := handler.NewActivationHandler(service)
	guard := middlewares.MiddlewareConfig{
		RedisClient: redisClient,
		ServiceKey:  serviceKey,
	}

	router.POST("/activate", middlewares.ActivationMiddleware(&guard), activationHandler.Activate(log))
}

func Domains(router *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	domainHandler := handler.NewDomainHandler(db)

	router.POST("/", domainHandler.CreatePurchase)
	router.GET("/", domainHandler.ListPurchases)
	router.GET("/:id", domainHandler.GetPurchase)
}

func Tenants(router *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	tenantHandler := handler.NewTenantHandler(db)

	router.POST("/", tenantHandler.CreateTenant)
	router.GET("/", tenantHandler.ListTenants)
	router.GET("/:id", tenantHandler.GetTenant)
	router.GET("/:id/orders", tenantHandler.ListOrders)
	router.DELETE("/:id", tenantHandler.DeleteTenant)
}

func Templates(r *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	templateHandler := handler.NewTemplateHandler(db)

	r.POST("/", templateHandler.CreateTemplate)
	r.GET("/", templateHandler.ListTemplates)
	r.GET("/:id", templateHandler.GetTemplateByID)
	r.PUT("/:id", templateHandler.UpdateTemplate)
	r.DELETE("/:id", templateHandler.DeleteTemplate)
}
