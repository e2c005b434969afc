package handler

import (
	"net/http"
	"strings"
	"time"

	"tavolo/internal/middleware"
	"tavolo/internal/models"
	"tavolo/internal/repository"
	"tavolo/internal/service"
	"tavolo/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PromoHandler struct {
	repo     *repository.PromoRepository
	svc      *service.PromoService
	auditSvc *service.AuditService
	log      *zap.Logger
}

func NewPromoHandler(repo *repository.PromoRepository, svc *service.PromoService, auditSvc *service.AuditService, log *zap.Logger) *PromoHandler {
	return &PromoHandler{repo: repo, svc: svc, auditSvc: auditSvc, log: log}
}

type ValidatePromoRequest struct {
	Code       string  `json:"code" binding:"required"`
	OrderTotal float64 `json:"order_total" binding:"required,gt=0"`
}

// Validate checks a code against the canonical definition without consuming
// a use. The response carries the discount that would apply.
func (h *PromoHandler) Validate(c *gin.Context) {
	var req ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.svc.Validate(req.Code, req.OrderTotal)
	if err != nil {
		c.JSON(promoStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type RedeemPromoRequest struct {
	Code       string  `json:"code" binding:"required"`
	OrderTotal float64 `json:"order_total" binding:"required,gt=0"`
	OrderID    *uint   `json:"order_id"`
}

// Redeem consumes one use of the code. The usage counter is reserved with a
// guarded increment, so two concurrent redemptions of the last slot cannot
// both succeed.
func (h *PromoHandler) Redeem(c *gin.Context) {
	var req RedeemPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var userID *uint
	if uid := middleware.GetUserID(c); uid != 0 {
		userID = &uid
	}
	red, err := h.svc.Redeem(req.Code, req.OrderTotal, userID, req.OrderID)
	if err != nil {
		metrics.PromoRedemptions.WithLabelValues("rejected").Inc()
		c.JSON(promoStatus(err), gin.H{"error": err.Error()})
		return
	}
	metrics.PromoRedemptions.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusOK, gin.H{"redemption": red})
}

// UsageStats is the admin rollup: per-code redemption counts, savings, and
// the top five codes by redemptions.
func (h *PromoHandler) UsageStats(c *gin.Context) {
	all, top, err := h.svc.UsageStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute usage stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"codes": all, "top_codes": top})
}

type PromoCodeRequest struct {
	Code           string     `json:"code" binding:"required,min=3,max=64"`
	Type           string     `json:"type" binding:"required,oneof=percentage fixed"`
	Value          float64    `json:"value" binding:"required,gt=0"`
	MaxDiscount    float64    `json:"max_discount"`
	MinOrderAmount float64    `json:"min_order_amount"`
	UsageLimit     int        `json:"usage_limit"`
	ExpiresAt      *time.Time `json:"expires_at"`
	Active         *bool      `json:"active"`
	FranchiseID    *uint      `json:"franchise_id"`
}

func (h *PromoHandler) Create(c *gin.Context) {
	var req PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	p := &models.PromoCode{
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:           req.Type,
		Value:          req.Value,
		MaxDiscount:    req.MaxDiscount,
		MinOrderAmount: req.MinOrderAmount,
		UsageLimit:     req.UsageLimit,
		ExpiresAt:      req.ExpiresAt,
		Active:         active,
		FranchiseID:    req.FranchiseID,
	}
	if err := h.repo.Create(p); err != nil {
		h.log.Error("promo create failed", zap.String("code", p.Code), zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": "promo code already exists"})
		return
	}
	h.auditSvc.Record("promo.created", "promo "+p.Code+" created", actorEmail(c), p.FranchiseID, nil)
	c.JSON(http.StatusCreated, gin.H{"promo": p})
}

func (h *PromoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "promo not found"})
		return
	}
	var req struct {
		Value          *float64   `json:"value"`
		MaxDiscount    *float64   `json:"max_discount"`
		MinOrderAmount *float64   `json:"min_order_amount"`
		UsageLimit     *int       `json:"usage_limit"`
		ExpiresAt      *time.Time `json:"expires_at"`
		Active         *bool      `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Value != nil {
		p.Value = *req.Value
	}
	if req.MaxDiscount != nil {
		p.MaxDiscount = *req.MaxDiscount
	}
	if req.MinOrderAmount != nil {
		p.MinOrderAmount = *req.MinOrderAmount
	}
	if req.UsageLimit != nil {
		p.UsageLimit = *req.UsageLimit
	}
	if req.ExpiresAt != nil {
		p.ExpiresAt = req.ExpiresAt
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if err := h.repo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.auditSvc.Record("promo.updated", "promo "+p.Code+" updated", actorEmail(c), p.FranchiseID, nil)
	c.JSON(http.StatusOK, gin.H{"promo": p})
}

func (h *PromoHandler) List(c *gin.Context) {
	out, err := h.repo.List(listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list promos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"promos": out})
}

func (h *PromoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.repo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.auditSvc.Record("promo.deleted", "promo deleted", actorEmail(c), nil, nil)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
