package handler

import (
	"net/http"
	"time"

	"tavolo/internal/repository"
	"tavolo/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GiftCardHandler struct {
	repo       *repository.GiftCardRepository
	svc        *service.GiftCardService
	paymentSvc *service.PaymentService
	log        *zap.Logger
}

func NewGiftCardHandler(repo *repository.GiftCardRepository, svc *service.GiftCardService, paymentSvc *service.PaymentService, log *zap.Logger) *GiftCardHandler {
	return &GiftCardHandler{repo: repo, svc: svc, paymentSvc: paymentSvc, log: log}
}

type CreateGiftCardRequest struct {
	RecipientEmail string     `json:"recipient_email" binding:"required,email"`
	RecipientName  string     `json:"recipient_name"`
	Message        string     `json:"message"`
	Amount         float64    `json:"amount" binding:"required,gt=0,lte=1000"`
	ExpiresAt      *time.Time `json:"expires_at"`
	FranchiseID    *uint      `json:"franchise_id"`
	LocationID     *uint      `json:"location_id"`
	Checkout       bool       `json:"checkout"` // true: return a Stripe payment URL
}

// Create issues a gift card and emails the code to the recipient. With
// checkout set, the response also carries a Stripe URL to pay for it.
func (h *GiftCardHandler) Create(c *gin.Context) {
	var req CreateGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	card, err := h.svc.Create(service.CreateGiftCardInput{
		RecipientEmail: req.RecipientEmail,
		RecipientName:  req.RecipientName,
		Message:        req.Message,
		Amount:         req.Amount,
		ExpiresAt:      req.ExpiresAt,
		FranchiseID:    req.FranchiseID,
		LocationID:     req.LocationID,
	})
	if err != nil {
		h.log.Error("gift card create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create gift card"})
		return
	}
	resp := gin.H{"gift_card": card}
	if req.Checkout {
		url, err := h.paymentSvc.CheckoutGiftCard(card)
		if err != nil {
			h.log.Error("gift card checkout failed", zap.Uint("card_id", card.ID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "checkout failed"})
			return
		}
		resp["checkout_url"] = url
	}
	c.JSON(http.StatusCreated, resp)
}

type RedeemGiftCardRequest struct {
	Email   string  `json:"email" binding:"required,email"`
	Code    string  `json:"code" binding:"required,len=8"`
	Amount  float64 `json:"amount"` // 0 or absent: redeem full balance
	OrderID *uint   `json:"order_id"`
}

// Redeem debits the card balance. Amount zero means the full remaining
// balance.
func (h *GiftCardHandler) Redeem(c *gin.Context) {
	var req RedeemGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	card, applied, err := h.svc.Redeem(req.Email, req.Code, req.Amount, req.OrderID)
	if err != nil {
		c.JSON(giftCardStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"gift_card":       card,
		"amount_redeemed": applied,
		"remaining":       card.RemainingAmount,
	})
}

// Balance looks up a card by recipient email plus code.
func (h *GiftCardHandler) Balance(c *gin.Context) {
	email := c.Query("email")
	code := c.Query("code")
	if email == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and code are required"})
		return
	}
	card, err := h.svc.Balance(email, code)
	if err != nil {
		c.JSON(giftCardStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    card.Status,
		"remaining": card.RemainingAmount,
		"initial":   card.InitialAmount,
	})
}

func (h *GiftCardHandler) List(c *gin.Context) {
	cards, err := h.repo.List(listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list gift cards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gift_cards": cards})
}

func giftCardStatus(err error) int {
	switch err {
	case service.ErrGiftCardNotFound:
		return http.StatusNotFound
	case service.ErrGiftCardExpired, service.ErrGiftCardExhausted, service.ErrGiftCardAmount:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
