package handler

import (
	"net/http"
	"time"

	"tavolo/internal/domain"
	"tavolo/internal/repository"
	"tavolo/internal/service"
	"tavolo/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PosHandler struct {
	repo      *repository.PosRepository
	orderRepo *repository.OrderRepository
	svc       *service.PosSyncService
	log       *zap.Logger
}

func NewPosHandler(repo *repository.PosRepository, orderRepo *repository.OrderRepository, svc *service.PosSyncService, log *zap.Logger) *PosHandler {
	return &PosHandler{repo: repo, orderRepo: orderRepo, svc: svc, log: log}
}

type SyncOrderRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// SyncOrder pushes one order through the simulated POS integration and
// records the outcome.
func (h *PosHandler) SyncOrder(c *gin.Context) {
	var req SyncOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.orderRepo.GetByID(req.OrderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	entry, err := h.svc.SyncOrder(order.ID, order.Total)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
		return
	}
	metrics.PosSyncs.WithLabelValues(entry.Status).Inc()
	status := http.StatusOK
	if entry.Status == domain.PosSyncStatusFailed {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"sync": entry})
}

// RetrySync reruns a failed sync, updating the same log row, up to the
// configured retry cap.
func (h *PosHandler) RetrySync(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entry, err := h.svc.RetrySync(id)
	if err != nil {
		switch err {
		case service.ErrSyncAlreadySucceeded:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case service.ErrRetryLimitReached:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			h.log.Error("pos retry failed", zap.Uint("log_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "retry failed"})
		}
		return
	}
	metrics.PosSyncs.WithLabelValues(entry.Status).Inc()
	status := http.StatusOK
	if entry.Status == domain.PosSyncStatusFailed {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"sync": entry})
}

// Stats aggregates sync outcomes over a window (default: last 7 days).
func (h *PosHandler) Stats(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -7)
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			from = t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			to = t
		}
	}
	stats, err := h.svc.Stats(from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *PosHandler) List(c *gin.Context) {
	logs, err := h.repo.List(listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sync logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"syncs": logs})
}
