package handler

import (
	"io"
	"net/http"

	"tavolo/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBody = 65536

type StripeWebhookHandler struct {
	paymentSvc *service.PaymentService
	log        *zap.Logger
}

func NewStripeWebhookHandler(paymentSvc *service.PaymentService, log *zap.Logger) *StripeWebhookHandler {
	return &StripeWebhookHandler{paymentSvc: paymentSvc, log: log}
}

// Handle verifies the Stripe signature and applies the event. Processing
// errors return 500 so Stripe retries.
func (h *StripeWebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	if err := h.paymentSvc.HandleWebhook(payload, c.GetHeader("Stripe-Signature")); err != nil {
		h.log.Warn("stripe webhook rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
