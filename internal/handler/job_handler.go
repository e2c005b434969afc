package handler

import (
	"net/http"
	"strconv"
	"time"

	"tavolo/internal/repository"
	"tavolo/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultRetentionDays = 90

// JobHandler exposes the cron-style maintenance endpoints. There is no
// internal scheduler; an external cron service calls these routes.
type JobHandler struct {
	reminderSvc *service.ReminderService
	auditRepo   *repository.AuditLogRepository
	posRepo     *repository.PosRepository
	rewardRepo  *repository.RewardRepository
	log         *zap.Logger
}

func NewJobHandler(
	reminderSvc *service.ReminderService,
	auditRepo *repository.AuditLogRepository,
	posRepo *repository.PosRepository,
	rewardRepo *repository.RewardRepository,
	log *zap.Logger,
) *JobHandler {
	return &JobHandler{
		reminderSvc: reminderSvc,
		auditRepo:   auditRepo,
		posRepo:     posRepo,
		rewardRepo:  rewardRepo,
		log:         log,
	}
}

// AbandonedCarts nudges carts idle for more than six hours.
func (h *JobHandler) AbandonedCarts(c *gin.Context) {
	res, err := h.reminderSvc.NudgeAbandonedCarts(time.Now())
	if err != nil {
		h.log.Error("abandoned cart job failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "job failed"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ReservationReminders emails confirmed reservations due today.
func (h *JobHandler) ReservationReminders(c *gin.Context) {
	res, err := h.reminderSvc.SendReservationReminders(time.Now())
	if err != nil {
		h.log.Error("reservation reminder job failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "job failed"})
		return
	}
	c.JSON(http.StatusOK, res)
}

func retentionCutoff(c *gin.Context) time.Time {
	days := defaultRetentionDays
	if raw := c.Query("days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			days = v
		}
	}
	return time.Now().AddDate(0, 0, -days)
}

// CleanupAuditLogs deletes audit rows older than the retention window in
// fixed-size batches.
func (h *JobHandler) CleanupAuditLogs(c *gin.Context) {
	deleted, err := h.auditRepo.DeleteOlderThan(retentionCutoff(c))
	if err != nil {
		h.log.Error("audit cleanup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *JobHandler) CleanupPosLogs(c *gin.Context) {
	deleted, err := h.posRepo.DeleteOlderThan(retentionCutoff(c))
	if err != nil {
		h.log.Error("pos log cleanup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *JobHandler) CleanupRewardRedemptions(c *gin.Context) {
	deleted, err := h.rewardRepo.DeleteOlderThan(retentionCutoff(c))
	if err != nil {
		h.log.Error("reward redemption cleanup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
