package handler

import (
	"net/http"
	"strconv"
	"time"

	"tavolo/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuditHandler struct {
	repo *repository.AuditLogRepository
	log  *zap.Logger
}

func NewAuditHandler(repo *repository.AuditLogRepository, log *zap.Logger) *AuditHandler {
	return &AuditHandler{repo: repo, log: log}
}

func (h *AuditHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	f := repository.AuditFilter{
		Action:      c.Query("action"),
		Actor:       c.Query("actor"),
		FranchiseID: queryUintPtr(c, "franchise_id"),
		LocationID:  queryUintPtr(c, "location_id"),
		Limit:       limit,
	}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.To = &t
		}
	}
	logs, err := h.repo.List(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list audit logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
