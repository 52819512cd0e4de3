package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/activation"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/types"
)

type ActivationHandler struct {
	service *activation.Service
}

func NewActivationHandler(service *activation.Service) *ActivationHandler {
	return &ActivationHandler{service: service}
}

// Activate runs the activation workflow for one domain purchase. Partial
// failures are reported in the 200 body; only a record-load failure is a 500.
func (h *ActivationHandler) Activate(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ActivateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		purchaseID, err := uuid.Parse(req.DomainPurchaseID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid domain_purchase_id"})
			return
		}

		ctx, span := otel.Tracer("activation_api").Start(c.Request.Context(), "activate-domain")
		defer span.End()
		span.SetAttributes(attribute.String("domain_purchase_id", req.DomainPurchaseID))

		result, err := h.service.Run(ctx, purchaseID, req.ForceAll)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "activation run failed to start")
			log.Error("activation run failed to start",
				zap.String("domain_purchase_id", req.DomainPurchaseID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "activation failed",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
