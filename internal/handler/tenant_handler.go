package handler

import (
	"net/http"

	"tavolo/internal/models"
	"tavolo/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TenantHandler struct {
	repo *repository.TenantRepository
	log  *zap.Logger
}

func NewTenantHandler(repo *repository.TenantRepository, log *zap.Logger) *TenantHandler {
	return &TenantHandler{repo: repo, log: log}
}

func (h *TenantHandler) ListFranchises(c *gin.Context) {
	out, err := h.repo.ListFranchises()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list franchises"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"franchises": out})
}

func (h *TenantHandler) GetFranchise(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	f, err := h.repo.GetFranchise(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "franchise not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"franchise": f})
}

func (h *TenantHandler) CreateFranchise(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required,min=2,max=255"`
		OwnerName string `json:"owner_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f := &models.Franchise{Name: req.Name, OwnerName: req.OwnerName}
	if err := h.repo.CreateFranchise(f); err != nil {
		h.log.Error("franchise create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create franchise"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"franchise": f})
}

func (h *TenantHandler) ListLocations(c *gin.Context) {
	out, err := h.repo.ListLocations(queryUintPtr(c, "franchise_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list locations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": out})
}

func (h *TenantHandler) CreateLocation(c *gin.Context) {
	var req struct {
		FranchiseID uint   `json:"franchise_id" binding:"required"`
		Name        string `json:"name" binding:"required,min=2,max=255"`
		Address     string `json:"address"`
		Timezone    string `json:"timezone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.repo.GetFranchise(req.FranchiseID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "franchise not found"})
		return
	}
	l := &models.Location{
		FranchiseID: req.FranchiseID,
		Name:        req.Name,
		Address:     req.Address,
	}
	if req.Timezone != "" {
		l.Timezone = req.Timezone
	}
	if err := h.repo.CreateLocation(l); err != nil {
		h.log.Error("location create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create location"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"location": l})
}
