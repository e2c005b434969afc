package service

import (
	"context"

	"tavolo/internal/domain"
	"tavolo/internal/models"
	"tavolo/internal/repository"
	"tavolo/pkg/mailchimp"

	"go.uber.org/zap"
)

type NewsletterService struct {
	repo      *repository.NewsletterRepository
	mailchimp *mailchimp.Client
	log       *zap.Logger
}

func NewNewsletterService(repo *repository.NewsletterRepository, mc *mailchimp.Client, log *zap.Logger) *NewsletterService {
	return &NewsletterService{repo: repo, mailchimp: mc, log: log}
}

// Subscribe records the subscription locally and mirrors it to the Mailchimp
// list. A Mailchimp failure is logged but does not fail the subscribe; the
// local row is the system of record.
func (s *NewsletterService) Subscribe(ctx context.Context, email string, franchiseID *uint) (*models.NewsletterSubscription, error) {
	sub := &models.NewsletterSubscription{
		Email:       email,
		Status:      domain.NewsletterStatusSubscribed,
		FranchiseID: franchiseID,
	}
	if s.mailchimp.Enabled() {
		memberID, err := s.mailchimp.UpsertMember(ctx, email, domain.NewsletterStatusSubscribed)
		if err != nil {
			s.log.Warn("mailchimp subscribe failed", zap.String("email", email), zap.Error(err))
		} else {
			sub.MailchimpMemberID = memberID
		}
	}
	if err := s.repo.Upsert(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	sub := &models.NewsletterSubscription{
		Email:  email,
		Status: domain.NewsletterStatusUnsubscribed,
	}
	if s.mailchimp.Enabled() {
		if _, err := s.mailchimp.UpsertMember(ctx, email, domain.NewsletterStatusUnsubscribed); err != nil {
			s.log.Warn("mailchimp unsubscribe failed", zap.String("email", email), zap.Error(err))
		}
	}
	if err := s.repo.Upsert(sub); err != nil {
		return nil, err
	}
	return sub, nil
}
