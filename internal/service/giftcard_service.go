package service

import (
	"crypto/rand"
	"errors"
	"math"
	"time"

	"tavolo/internal/domain"
	"tavolo/internal/models"
	"tavolo/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrGiftCardNotFound  = errors.New("gift card not found")
	ErrGiftCardExpired   = errors.New("gift card has expired")
	ErrGiftCardExhausted = errors.New("gift card has no remaining balance")
	ErrGiftCardAmount    = errors.New("amount exceeds remaining balance")
)

const giftCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type GiftCardService struct {
	repo     *repository.GiftCardRepository
	emails   *TemplateService
	mailer   Mailer
	auditSvc *AuditService
	log      *zap.Logger
}

func NewGiftCardService(repo *repository.GiftCardRepository, emails *TemplateService, mailer Mailer, auditSvc *AuditService, log *zap.Logger) *GiftCardService {
	return &GiftCardService{repo: repo, emails: emails, mailer: mailer, auditSvc: auditSvc, log: log}
}

// GenerateGiftCode returns an 8-character A-Z0-9 code from crypto/rand.
func GenerateGiftCode() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand failure is not recoverable
	}
	for i := range b {
		b[i] = giftCodeAlphabet[int(b[i])%len(giftCodeAlphabet)]
	}
	return string(b)
}

type CreateGiftCardInput struct {
	RecipientEmail string
	RecipientName  string
	Message        string
	Amount         float64
	ExpiresAt      *time.Time
	FranchiseID    *uint
	LocationID     *uint
}

// Create persists the card and emails the code to the recipient. A failed
// delivery email is logged and swallowed; the card still exists.
func (s *GiftCardService) Create(in CreateGiftCardInput) (*models.GiftCard, error) {
	card := &models.GiftCard{
		GiftCode:        GenerateGiftCode(),
		RecipientEmail:  in.RecipientEmail,
		RecipientName:   in.RecipientName,
		Message:         in.Message,
		InitialAmount:   in.Amount,
		RemainingAmount: in.Amount,
		Status:          domain.GiftCardStatusActive,
		ExpiresAt:       in.ExpiresAt,
		FranchiseID:     in.FranchiseID,
	}
	if err := s.repo.Create(card); err != nil {
		return nil, err
	}

	msg, err := s.emails.Render(TemplateGiftCardDelivery, in.LocationID, map[string]string{
		"name":    in.RecipientName,
		"code":    card.GiftCode,
		"amount":  formatAmount(card.InitialAmount),
		"message": in.Message,
	})
	if err == nil {
		err = s.mailer.Send(in.RecipientEmail, msg.Subject, msg.Body)
	}
	if err != nil {
		s.log.Warn("gift card delivery email failed",
			zap.String("email", in.RecipientEmail), zap.Error(err))
	}
	return card, nil
}

// Redeem debits the card inside a locked transaction. amount <= 0 redeems the
// full remaining balance.
func (s *GiftCardService) Redeem(email, code string, amount float64, orderID *uint) (*models.GiftCard, float64, error) {
	var card *models.GiftCard
	var debited float64
	err := s.repo.DB().Transaction(func(tx *gorm.DB) error {
		var err error
		card, debited, err = s.RedeemTx(tx, email, code, amount, orderID)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	s.auditSvc.Record("giftcard.redeem", "gift card "+card.GiftCode+" redeemed", email, card.FranchiseID, nil)
	return card, debited, nil
}

// RedeemTx debits the card inside the caller's transaction, so the debit and
// its transaction row commit or roll back with the order they pay for. Status
// follows the balance-derived transition function; remaining can never go
// negative. The audit write stays in Redeem because the caller's transaction
// may still roll back.
func (s *GiftCardService) RedeemTx(tx *gorm.DB, email, code string, amount float64, orderID *uint) (*models.GiftCard, float64, error) {
	c, err := s.repo.GetForUpdate(tx, email, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrGiftCardNotFound
		}
		return nil, 0, err
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(time.Now()) {
		return nil, 0, ErrGiftCardExpired
	}
	if c.RemainingAmount <= 0 {
		return nil, 0, ErrGiftCardExhausted
	}
	debited := amount
	if debited <= 0 {
		debited = c.RemainingAmount
	}
	if debited > c.RemainingAmount {
		return nil, 0, ErrGiftCardAmount
	}
	c.RemainingAmount = math.Round((c.RemainingAmount-debited)*100) / 100
	c.Status = domain.GiftCardStatus(c.RemainingAmount, c.InitialAmount)
	if err := s.repo.Update(tx, c); err != nil {
		return nil, 0, err
	}
	if err := s.repo.CreateTransaction(tx, &models.GiftCardTransaction{
		GiftCardID: c.ID,
		OrderID:    orderID,
		Amount:     debited,
		Balance:    c.RemainingAmount,
		CreatedAt:  time.Now(),
	}); err != nil {
		return nil, 0, err
	}
	return c, debited, nil
}

// Balance looks up a card by recipient email and code.
func (s *GiftCardService) Balance(email, code string) (*models.GiftCard, error) {
	card, err := s.repo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGiftCardNotFound
		}
		return nil, err
	}
	if card.RecipientEmail != email {
		return nil, ErrGiftCardNotFound
	}
	return card, nil
}
