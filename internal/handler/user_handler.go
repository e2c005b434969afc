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

type UserHandler struct {
	userRepo   *repository.UserRepository
	loyaltySvc *service.LoyaltyService
	auditSvc   *service.AuditService
	log        *zap.Logger
}

func NewUserHandler(userRepo *repository.UserRepository, loyaltySvc *service.LoyaltyService, auditSvc *service.AuditService, log *zap.Logger) *UserHandler {
	return &UserHandler{userRepo: userRepo, loyaltySvc: loyaltySvc, auditSvc: auditSvc, log: log}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userRepo.List(listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	u, err := h.userRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "tier": u.Tier()})
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	u, err := h.userRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name        string `json:"name"`
		Role        string `json:"role"`
		Status      string `json:"status"`
		FranchiseID *uint  `json:"franchise_id"`
		LocationID  *uint  `json:"location_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Role != "" {
		u.Role = req.Role
	}
	if req.Status != "" {
		u.Status = req.Status
	}
	if req.FranchiseID != nil {
		u.FranchiseID = req.FranchiseID
	}
	if req.LocationID != nil {
		u.LocationID = req.LocationID
	}
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.userRepo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type AdjustPointsRequest struct {
	Action string `json:"action" binding:"required,oneof=add subtract"`
	Points int    `json:"points" binding:"required,gt=0"`
	Reason string `json:"reason"`
}

// AdjustPoints lets staff add or subtract loyalty points. The ledger entry
// returned carries before/after balances for the admin UI.
func (h *UserHandler) AdjustPoints(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, _ := c.Get("email")
	actorEmail, _ := actor.(string)
	entry, err := h.loyaltySvc.AdjustPoints(id, req.Action, req.Points, req.Reason, actorEmail)
	if err != nil {
		if err == service.ErrUnknownPointsAction {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("points adjustment failed", zap.Uint("user_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "adjustment failed"})
		return
	}
	u, err := h.userRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "adjustment failed"})
		return
	}
	h.auditSvc.Record("loyalty.adjust",
		req.Action+" "+strconv.Itoa(req.Points)+" points for "+u.Email,
		actorEmail, u.FranchiseID, u.LocationID)
	c.JSON(http.StatusOK, gin.H{"transaction": entry, "balance": u.LoyaltyPoints, "tier": u.Tier()})
}

// PointsHistory returns the loyalty ledger for a user.
func (h *UserHandler) PointsHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	history, err := h.loyaltySvc.History(id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": history})
}

// Stats is the admin analytics rollup: totals, tier breakdown, top spenders.
func (h *UserHandler) Stats(c *gin.Context) {
	f := listFilter(c)
	stats, err := h.userRepo.Stats(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// MyPoints returns the caller's own ledger.
func (h *UserHandler) MyPoints(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.Query("limit"))
	history, err := h.loyaltySvc.History(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":      u.LoyaltyPoints,
		"tier":         u.Tier(),
		"transactions": history,
	})
}
