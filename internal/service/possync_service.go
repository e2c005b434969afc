package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"tavolo/config"
	"tavolo/internal/domain"
	"tavolo/internal/models"
	"tavolo/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSyncAlreadySucceeded = errors.New("sync already succeeded")
	ErrRetryLimitReached    = errors.New("retry limit reached")
)

// PosSyncService simulates an external POS integration: each attempt waits a
// randomized delay and succeeds with a configured probability. There is no
// real POS behind it.
type PosSyncService struct {
	repo  *repository.PosRepository
	cfg   config.PosConfig
	rng   *rand.Rand
	sleep func(time.Duration)
	log   *zap.Logger
}

func NewPosSyncService(repo *repository.PosRepository, cfg config.PosConfig, log *zap.Logger) *PosSyncService {
	return &PosSyncService{
		repo:  repo,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep: time.Sleep,
		log:   log,
	}
}

// SyncOrder runs one simulated sync and records the outcome.
func (s *PosSyncService) SyncOrder(orderID uint, amount float64) (*models.PosSyncLog, error) {
	start := time.Now()
	ok := s.attempt()
	entry := &models.PosSyncLog{
		OrderID:    orderID,
		Amount:     amount,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if ok {
		entry.Status = domain.PosSyncStatusSuccess
		entry.PosTransactionID = "POS-" + uuid.NewString()[:8]
	} else {
		entry.Status = domain.PosSyncStatusFailed
		entry.ErrorMessage = "POS terminal did not acknowledge the order"
	}
	if err := s.repo.Create(entry); err != nil {
		return nil, err
	}
	s.log.Info("pos sync",
		zap.Uint("order_id", orderID),
		zap.String("status", entry.Status),
		zap.Int64("duration_ms", entry.DurationMs))
	return entry, nil
}

// RetrySync re-runs the simulation against an existing failed log row,
// updating it in place. Retries are capped.
func (s *PosSyncService) RetrySync(logID uint) (*models.PosSyncLog, error) {
	entry, err := s.repo.GetByID(logID)
	if err != nil {
		return nil, err
	}
	if entry.Status == domain.PosSyncStatusSuccess {
		return nil, ErrSyncAlreadySucceeded
	}
	if entry.RetryCount >= s.cfg.MaxRetries {
		return nil, ErrRetryLimitReached
	}

	start := time.Now()
	ok := s.attempt()
	entry.RetryCount++
	entry.DurationMs = time.Since(start).Milliseconds()
	if ok {
		entry.Status = domain.PosSyncStatusSuccess
		entry.PosTransactionID = "POS-" + uuid.NewString()[:8]
		entry.ErrorMessage = ""
	} else {
		entry.Status = domain.PosSyncStatusFailed
		entry.ErrorMessage = fmt.Sprintf("POS terminal did not acknowledge the order (retry %d)", entry.RetryCount)
	}
	if err := s.repo.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *PosSyncService) Stats(from, to time.Time) (*repository.PosStats, error) {
	return s.repo.Stats(from, to)
}

func (s *PosSyncService) attempt() bool {
	delay := s.cfg.MinDelay
	if spread := s.cfg.MaxDelay - s.cfg.MinDelay; spread > 0 {
		delay += time.Duration(s.rng.Int63n(int64(spread)))
	}
	if delay > 0 {
		s.sleep(delay)
	}
	return s.rng.Float64() < s.cfg.SuccessRate
}
