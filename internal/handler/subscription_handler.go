package handler

import (
	"net/http"
	"strconv"

	"tavolo/internal/middleware"
	"tavolo/internal/repository"
	"tavolo/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	repo       *repository.SubscriptionRepository
	paymentSvc *service.PaymentService
	log        *zap.Logger
}

func NewSubscriptionHandler(repo *repository.SubscriptionRepository, paymentSvc *service.PaymentService, log *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{repo: repo, paymentSvc: paymentSvc, log: log}
}

type SubscribeRequest struct {
	Plan    string `json:"plan" binding:"required"`
	PriceID string `json:"price_id" binding:"required"`
}

// Checkout opens a recurring Stripe checkout for the chosen plan. The local
// row stays pending until the webhook confirms payment.
func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	url, err := h.paymentSvc.CheckoutSubscription(userID, req.Plan, req.PriceID)
	if err != nil {
		h.log.Error("subscription checkout failed", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "checkout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout_url": url})
}

// Mine returns the caller's subscription.
func (h *SubscriptionHandler) Mine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sub, err := h.repo.GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no subscription"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// Invoices proxies the Stripe invoice history for the caller.
func (h *SubscriptionHandler) Invoices(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.Query("limit"))
	invoices, err := h.paymentSvc.ListInvoices(userID, limit)
	if err != nil {
		if err == service.ErrNoStripeCustomer {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("invoice listing failed", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list invoices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (h *SubscriptionHandler) List(c *gin.Context) {
	subs, err := h.repo.List(listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list subscriptions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}
