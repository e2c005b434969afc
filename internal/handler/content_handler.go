package handler

import (
	"net/http"
	"time"

	"tavolo/internal/models"
	"tavolo/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventHandler struct {
	repo *repository.EventRepository
	log  *zap.Logger
}

func NewEventHandler(repo *repository.EventRepository, log *zap.Logger) *EventHandler {
	return &EventHandler{repo: repo, log: log}
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.repo.List(listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ev, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev})
}

type EventRequest struct {
	Title       string `json:"title" binding:"required,min=2,max=255"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Capacity    int    `json:"capacity"`
	Status      string `json:"status"`
	FranchiseID *uint  `json:"franchise_id"`
	LocationID  *uint  `json:"location_id"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format (use YYYY-MM-DD)"})
		return
	}
	ev := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Capacity:    req.Capacity,
		FranchiseID: req.FranchiseID,
		LocationID:  req.LocationID,
	}
	if req.Status != "" {
		ev.Status = req.Status
	}
	if err := h.repo.Create(ev); err != nil {
		h.log.Error("event create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": ev})
}

func (h *EventHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ev, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Date        string `json:"date"`
		Capacity    *int   `json:"capacity"`
		Status      string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != "" {
		ev.Title = req.Title
	}
	if req.Description != "" {
		ev.Description = req.Description
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format (use YYYY-MM-DD)"})
			return
		}
		ev.Date = date
	}
	if req.Capacity != nil {
		ev.Capacity = *req.Capacity
	}
	if req.Status != "" {
		ev.Status = req.Status
	}
	if err := h.repo.Update(ev); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev})
}

func (h *EventHandler) Delete(c *gin.Context) {
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

type ReviewHandler struct {
	repo *repository.ReviewRepository
	log  *zap.Logger
}

func NewReviewHandler(repo *repository.ReviewRepository, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{repo: repo, log: log}
}

// List returns reviews; the public route pins status=approved, the admin
// route passes the filter through.
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.repo.List(listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *ReviewHandler) ListApproved(c *gin.Context) {
	f := listFilter(c)
	f.Status = "approved"
	reviews, err := h.repo.List(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

type ReviewRequest struct {
	AuthorName  string `json:"author_name" binding:"required,min=2,max=255"`
	Email       string `json:"email" binding:"omitempty,email"`
	Rating      int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment     string `json:"comment"`
	FranchiseID *uint  `json:"franchise_id"`
	LocationID  *uint  `json:"location_id"`
}

// Create takes a public review submission; it stays pending until moderated.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rv := &models.Review{
		AuthorName:  req.AuthorName,
		Email:       req.Email,
		Rating:      req.Rating,
		Comment:     req.Comment,
		Status:      "pending",
		FranchiseID: req.FranchiseID,
		LocationID:  req.LocationID,
	}
	if err := h.repo.Create(rv); err != nil {
		h.log.Error("review create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit review"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": rv})
}

// Moderate approves or rejects a pending review.
func (h *ReviewHandler) Moderate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required,oneof=approved rejected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rv, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	rv.Status = req.Status
	if err := h.repo.Update(rv); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": rv})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
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
