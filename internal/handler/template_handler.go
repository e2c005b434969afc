package handler

import (
	"net/http"

	"tavolo/internal/models"
	"tavolo/internal/repository"
	"tavolo/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TemplateHandler struct {
	repo *repository.TemplateRepository
	svc  *service.TemplateService
	log  *zap.Logger
}

func NewTemplateHandler(repo *repository.TemplateRepository, svc *service.TemplateService, log *zap.Logger) *TemplateHandler {
	return &TemplateHandler{repo: repo, svc: svc, log: log}
}

func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.repo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

type TemplateRequest struct {
	Key        string `json:"key" binding:"required"`
	LocationID *uint  `json:"location_id"`
	Subject    string `json:"subject" binding:"required"`
	Body       string `json:"body" binding:"required"`
}

// Create saves a DB override for a built-in template and drops the cached
// copy so the next render picks it up.
func (h *TemplateHandler) Create(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t := &models.EmailTemplate{
		Key:        req.Key,
		LocationID: req.LocationID,
		Subject:    req.Subject,
		Body:       req.Body,
	}
	if err := h.repo.Create(t); err != nil {
		h.log.Error("template create failed", zap.String("key", req.Key), zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": "template already exists for this key and location"})
		return
	}
	h.svc.Invalidate(t.Key, t.LocationID)
	c.JSON(http.StatusCreated, gin.H{"template": t})
}

func (h *TemplateHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}
	if req.Subject != "" {
		t.Subject = req.Subject
	}
	if req.Body != "" {
		t.Body = req.Body
	}
	if err := h.repo.Update(t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.svc.Invalidate(t.Key, t.LocationID)
	c.JSON(http.StatusOK, gin.H{"template": t})
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}
	if err := h.repo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.svc.Invalidate(t.Key, t.LocationID)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Preview renders a template with caller-supplied variables, without sending
// anything.
func (h *TemplateHandler) Preview(c *gin.Context) {
	var req struct {
		Key        string            `json:"key" binding:"required"`
		LocationID *uint             `json:"location_id"`
		Vars       map[string]string `json:"vars"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.svc.Render(req.Key, req.LocationID, req.Vars)
	if err != nil {
		if err == service.ErrUnknownTemplate {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.JSON(http.StatusOK, msg)
}
