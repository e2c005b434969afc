package service

import (
	"time"

	"tavolo/internal/models"
	"tavolo/internal/repository"

	"go.uber.org/zap"
)

// AuditService is a thin write-side wrapper: audit failures are logged, never
// propagated, so a broken audit table cannot break a business flow.
type AuditService struct {
	repo *repository.AuditLogRepository
	log  *zap.Logger
}

func NewAuditService(repo *repository.AuditLogRepository, log *zap.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

func (s *AuditService) Record(action, description, actor string, franchiseID, locationID *uint) {
	entry := &models.AuditLog{
		Action:      action,
		Description: description,
		Actor:       actor,
		FranchiseID: franchiseID,
		LocationID:  locationID,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(entry); err != nil {
		s.log.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}
