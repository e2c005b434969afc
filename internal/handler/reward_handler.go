package handler

import (
	"net/http"
	"strconv"

	"tavolo/internal/middleware"
	"tavolo/internal/models"
	"tavolo/internal/repository"
	"tavolo/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RewardHandler struct {
	repo       *repository.RewardRepository
	loyaltySvc *service.LoyaltyService
	auditSvc   *service.AuditService
	log        *zap.Logger
}

func NewRewardHandler(repo *repository.RewardRepository, loyaltySvc *service.LoyaltyService, auditSvc *service.AuditService, log *zap.Logger) *RewardHandler {
	return &RewardHandler{repo: repo, loyaltySvc: loyaltySvc, auditSvc: auditSvc, log: log}
}

func (h *RewardHandler) List(c *gin.Context) {
	rewards, err := h.repo.List(listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rewards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

type RewardRequest struct {
	Title       string `json:"title" binding:"required,min=2,max=255"`
	Description string `json:"description"`
	PointCost   int    `json:"point_cost" binding:"required,gt=0"`
	Active      *bool  `json:"active"`
	FranchiseID *uint  `json:"franchise_id"`
}

func (h *RewardHandler) Create(c *gin.Context) {
	var req RewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	rw := &models.Reward{
		Title:       req.Title,
		Description: req.Description,
		PointCost:   req.PointCost,
		Active:      active,
		FranchiseID: req.FranchiseID,
	}
	if err := h.repo.Create(rw); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reward"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reward": rw})
}

func (h *RewardHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rw, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reward not found"})
		return
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		PointCost   *int   `json:"point_cost"`
		Active      *bool  `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != "" {
		rw.Title = req.Title
	}
	if req.Description != "" {
		rw.Description = req.Description
	}
	if req.PointCost != nil {
		rw.PointCost = *req.PointCost
	}
	if req.Active != nil {
		rw.Active = *req.Active
	}
	if err := h.repo.Update(rw); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reward": rw})
}

func (h *RewardHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.repo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Redeem spends the caller's points on a reward.
func (h *RewardHandler) Redeem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)
	red, err := h.loyaltySvc.RedeemReward(userID, id, actorEmail(c))
	if err != nil {
		switch err {
		case service.ErrInsufficientPoints:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case service.ErrRewardInactive:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.Error("reward redemption failed", zap.Uint("reward_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "redemption failed"})
		}
		return
	}
	h.auditSvc.Record("reward.redeemed", "reward #"+strconv.Itoa(int(id))+" redeemed", actorEmail(c), nil, nil)
	c.JSON(http.StatusOK, gin.H{"redemption": red})
}

// MyRedemptions lists the caller's past reward redemptions.
func (h *RewardHandler) MyRedemptions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.Query("limit"))
	out, err := h.repo.ListRedemptions(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list redemptions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": out})
}
