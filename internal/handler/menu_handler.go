package handler

import (
	"net/http"

	"tavolo/internal/models"
	"tavolo/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MenuHandler struct {
	repo *repository.MenuRepository
	log  *zap.Logger
}

func NewMenuHandler(repo *repository.MenuRepository, log *zap.Logger) *MenuHandler {
	return &MenuHandler{repo: repo, log: log}
}

func (h *MenuHandler) List(c *gin.Context) {
	items, err := h.repo.List(listFilter(c), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list menu"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *MenuHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

type MenuItemRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	ImageURL    string  `json:"image_url"`
	Available   *bool   `json:"available"`
	FranchiseID *uint   `json:"franchise_id"`
	LocationID  *uint   `json:"location_id"`
}

func (h *MenuHandler) Create(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	item := &models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Available:   available,
		FranchiseID: req.FranchiseID,
		LocationID:  req.LocationID,
	}
	if err := h.repo.Create(item); err != nil {
		h.log.Error("menu item create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create menu item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *MenuHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}
	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Price       *float64 `json:"price"`
		ImageURL    string   `json:"image_url"`
		Available   *bool    `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Description != "" {
		item.Description = req.Description
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.ImageURL != "" {
		item.ImageURL = req.ImageURL
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if err := h.repo.Update(item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *MenuHandler) Delete(c *gin.Context) {
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
