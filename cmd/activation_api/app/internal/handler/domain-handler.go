package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/cmd/activation_api/app/internal/services"
)

type DomainHandler struct {
	service *services.DomainService
}

func NewDomainHandler(db *gorm.DB) *DomainHandler {
	return &DomainHandler{service: services.NewDomainService(db)}
}

func (h *DomainHandler) CreatePurchase(c *gin.Context) {
	var req struct {
		TenantID string `json:"tenant_id" binding:"required"`
		Domain   string `json:"domain" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant_id"})
		return
	}
	purchase, err := h.service.CreatePurchase(tenantID, req.Domain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

func (h *DomainHandler) GetPurchase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}
	purchase, err := h.service.GetPurchase(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "purchase not found"})
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func (h *DomainHandler) ListPurchases(c *gin.Context) {
	purchases, err := h.service.ListPurchases(c.Query("status"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, purchases)
}
