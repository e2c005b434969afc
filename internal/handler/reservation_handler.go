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

type ReservationHandler struct {
	repo     *repository.ReservationRepository
	emails   *service.TemplateService
	mailer   service.Mailer
	auditSvc *service.AuditService
	log      *zap.Logger
}

func NewReservationHandler(repo *repository.ReservationRepository, emails *service.TemplateService, mailer service.Mailer, auditSvc *service.AuditService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{repo: repo, emails: emails, mailer: mailer, auditSvc: auditSvc, log: log}
}

type CreateReservationRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Guests      int    `json:"guests" binding:"required,gt=0,lte=50"`
	FranchiseID *uint  `json:"franchise_id"`
	LocationID  *uint  `json:"location_id"`
}

// Create books a table and sends the confirmation email. A failed email is
// logged but never fails the booking.
func (h *ReservationHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format (use YYYY-MM-DD)"})
		return
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time format (use HH:MM)"})
		return
	}
	res := &models.Reservation{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Date:        date,
		Time:        req.Time,
		Guests:      req.Guests,
		Status:      domain.ReservationStatusPending,
		FranchiseID: req.FranchiseID,
		LocationID:  req.LocationID,
	}
	if err := h.repo.Create(res); err != nil {
		h.log.Error("reservation create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reservation"})
		return
	}

	msg, err := h.emails.Render(service.TemplateReservationConfirmation, res.LocationID, map[string]string{
		"name":   res.Name,
		"guests": strconv.Itoa(res.Guests),
		"date":   res.Date.Format("January 2, 2006"),
		"time":   res.Time,
	})
	if err == nil {
		err = h.mailer.Send(res.Email, msg.Subject, msg.Body)
	}
	if err != nil {
		h.log.Warn("reservation confirmation email failed", zap.Uint("reservation_id", res.ID), zap.Error(err))
	}

	h.auditSvc.Record("reservation.created", "reservation for "+res.Email, res.Email, res.FranchiseID, res.LocationID)
	c.JSON(http.StatusCreated, gin.H{"reservation": res})
}

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

func (h *ReservationHandler) List(c *gin.Context) {
	out, err := h.repo.List(listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reservations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": out})
}

// UpdateStatus confirms or cancels a reservation within the allowed
// transition table.
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
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
	res, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		return
	}
	if err := domain.ValidateReservationTransition(res.Status, req.Status); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	res.Status = req.Status
	if err := h.repo.Update(res); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.auditSvc.Record("reservation.status", "reservation moved to "+req.Status, actorEmail(c), res.FranchiseID, res.LocationID)
	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

func (h *ReservationHandler) Delete(c *gin.Context) {
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
