package handler

import (
	"net/http"

	"tavolo/internal/repository"
	"tavolo/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NewsletterHandler struct {
	repo *repository.NewsletterRepository
	svc  *service.NewsletterService
	log  *zap.Logger
}

func NewNewsletterHandler(repo *repository.NewsletterRepository, svc *service.NewsletterService, log *zap.Logger) *NewsletterHandler {
	return &NewsletterHandler{repo: repo, svc: svc, log: log}
}

type NewsletterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	FranchiseID *uint  `json:"franchise_id"`
}

func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, err := h.svc.Subscribe(c.Request.Context(), req.Email, req.FranchiseID)
	if err != nil {
		h.log.Error("newsletter subscribe failed", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscribe failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var req NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, err := h.svc.Unsubscribe(c.Request.Context(), req.Email)
	if err != nil {
		h.log.Error("newsletter unsubscribe failed", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unsubscribe failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

func (h *NewsletterHandler) List(c *gin.Context) {
	subs, err := h.repo.List(listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list subscriptions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}
