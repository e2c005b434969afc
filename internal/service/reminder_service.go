package service

import (
	"strconv"
	"time"

	"tavolo/internal/repository"

	"go.uber.org/zap"
)

// abandonedCartAge is how long a cart must sit untouched before it counts as
// abandoned.
const abandonedCartAge = 6 * time.Hour

// ReminderService backs the cron-style endpoints. There is no internal
// scheduler; an external cron service hits the job routes.
type ReminderService struct {
	cartRepo        *repository.CartRepository
	reservationRepo *repository.ReservationRepository
	emails          *TemplateService
	mailer          Mailer
	auditSvc        *AuditService
	log             *zap.Logger
}

func NewReminderService(
	cartRepo *repository.CartRepository,
	reservationRepo *repository.ReservationRepository,
	emails *TemplateService,
	mailer Mailer,
	auditSvc *AuditService,
	log *zap.Logger,
) *ReminderService {
	return &ReminderService{
		cartRepo:        cartRepo,
		reservationRepo: reservationRepo,
		emails:          emails,
		mailer:          mailer,
		auditSvc:        auditSvc,
		log:             log,
	}
}

// JobResult reports what one job invocation did.
type JobResult struct {
	Selected int `json:"selected"`
	Sent     int `json:"sent"`
	Failed   int `json:"failed"`
}

// NudgeAbandonedCarts emails every cart abandoned for longer than six hours.
// The reminder flag is only set after a successful send, so a failed send is
// retried on the next invocation; a crash between send and flag write can
// produce one duplicate email, which is an accepted trade-off for never
// silently dropping a nudge.
func (s *ReminderService) NudgeAbandonedCarts(now time.Time) (*JobResult, error) {
	carts, err := s.cartRepo.Abandoned(now.Add(-abandonedCartAge))
	if err != nil {
		return nil, err
	}
	res := &JobResult{Selected: len(carts)}
	for _, cart := range carts {
		msg, err := s.emails.Render(TemplateAbandonedCart, cart.LocationID, map[string]string{
			"item_count": strconv.Itoa(len(cart.Items)),
		})
		if err == nil {
			err = s.mailer.Send(cart.Email, msg.Subject, msg.Body)
		}
		if err != nil {
			res.Failed++
			s.log.Warn("abandoned cart nudge failed", zap.Uint("cart_id", cart.ID), zap.Error(err))
			continue
		}
		if err := s.cartRepo.MarkReminderSent(cart.ID); err != nil {
			res.Failed++
			s.log.Error("cart reminder flag write failed", zap.Uint("cart_id", cart.ID), zap.Error(err))
			continue
		}
		res.Sent++
		s.auditSvc.Record("cart.reminder", "abandoned cart nudge sent to "+cart.Email, "system", cart.FranchiseID, cart.LocationID)
	}
	return res, nil
}

// SendReservationReminders emails confirmed reservations due today or
// earlier that have not been reminded yet.
func (s *ReminderService) SendReservationReminders(now time.Time) (*JobResult, error) {
	due, err := s.reservationRepo.DueForReminder(now)
	if err != nil {
		return nil, err
	}
	res := &JobResult{Selected: len(due)}
	for _, r := range due {
		msg, err := s.emails.Render(TemplateReservationReminder, r.LocationID, map[string]string{
			"name":   r.Name,
			"guests": strconv.Itoa(r.Guests),
			"time":   r.Time,
		})
		if err == nil {
			err = s.mailer.Send(r.Email, msg.Subject, msg.Body)
		}
		if err != nil {
			res.Failed++
			s.log.Warn("reservation reminder failed", zap.Uint("reservation_id", r.ID), zap.Error(err))
			continue
		}
		if err := s.reservationRepo.MarkReminderSent(r.ID); err != nil {
			res.Failed++
			s.log.Error("reservation reminder flag write failed", zap.Uint("reservation_id", r.ID), zap.Error(err))
			continue
		}
		res.Sent++
		s.auditSvc.Record("reservation.reminder", "reservation reminder sent to "+r.Email, "system", r.FranchiseID, r.LocationID)
	}
	return res, nil
}
