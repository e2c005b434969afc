package handler

import (
	"net/http"
	"strconv"
	"time"

	"tavolo/internal/domain"
	"tavolo/internal/models"
	"tavolo/internal/repository"
	"tavolo/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PrivateDiningHandler struct {
	repo     *repository.PrivateDiningRepository
	emails   *service.TemplateService
	mailer   service.Mailer
	auditSvc *service.AuditService
	log      *zap.Logger
}

func NewPrivateDiningHandler(repo *repository.PrivateDiningRepository, emails *service.TemplateService, mailer service.Mailer, auditSvc *service.AuditService, log *zap.Logger) *PrivateDiningHandler {
	return &PrivateDiningHandler{repo: repo, emails: emails, mailer: mailer, auditSvc: auditSvc, log: log}
}

type CreatePrivateDiningRequest struct {
	RequesterName string `json:"requester_name" binding:"required,min=2,max=255"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone"`
	Date          string `json:"date" binding:"required"` // YYYY-MM-DD
	PartySize     int    `json:"party_size" binding:"required,gt=0"`
	EventNature   string `json:"event_nature"`
	Notes         string `json:"notes"`
	FranchiseID   *uint  `json:"franchise_id"`
	LocationID    *uint  `json:"location_id"`
}

func (h *PrivateDiningHandler) Create(c *gin.Context) {
	var req CreatePrivateDiningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format (use YYYY-MM-DD)"})
		return
	}
	pd := &models.PrivateDiningRequest{
		RequesterName: req.RequesterName,
		Email:         req.Email,
		Phone:         req.Phone,
		Date:          date,
		PartySize:     req.PartySize,
		EventNature:   req.EventNature,
		Notes:         req.Notes,
		Status:        domain.PrivateDiningStatusPending,
		FranchiseID:   req.FranchiseID,
		LocationID:    req.LocationID,
	}
	if err := h.repo.Create(pd); err != nil {
		h.log.Error("private dining create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}

	msg, err := h.emails.Render(service.TemplatePrivateDiningReceived, pd.LocationID, map[string]string{
		"name":         pd.RequesterName,
		"event_nature": pd.EventNature,
		"party_size":   strconv.Itoa(pd.PartySize),
		"date":         pd.Date.Format("January 2, 2006"),
	})
	if err == nil {
		err = h.mailer.Send(pd.Email, msg.Subject, msg.Body)
	}
	if err != nil {
		h.log.Warn("private dining acknowledgement email failed", zap.Uint("request_id", pd.ID), zap.Error(err))
	}

	h.auditSvc.Record("private_dining.created", "request from "+pd.Email, pd.Email, pd.FranchiseID, pd.LocationID)
	c.JSON(http.StatusCreated, gin.H{"request": pd})
}

func (h *PrivateDiningHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pd, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": pd})
}

func (h *PrivateDiningHandler) List(c *gin.Context) {
	out, err := h.repo.List(listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": out})
}

func (h *PrivateDiningHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pd, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	if err := domain.ValidatePrivateDiningTransition(pd.Status, req.Status); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	pd.Status = req.Status
	if err := h.repo.Update(pd); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.auditSvc.Record("private_dining.status", "request moved to "+req.Status, actorEmail(c), pd.FranchiseID, pd.LocationID)
	c.JSON(http.StatusOK, gin.H{"request": pd})
}
