package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tavolo/config"
	"tavolo/internal/domain"
	"tavolo/internal/models"
	"tavolo/internal/repository"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/invoice"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNoStripeCustomer = errors.New("no stripe customer for subscription")

// PaymentService wraps Stripe checkout and webhook-driven state sync for
// orders, gift cards and subscriptions.
type PaymentService struct {
	cfg       *config.Config
	orderRepo *repository.OrderRepository
	cardRepo  *repository.GiftCardRepository
	subRepo   *repository.SubscriptionRepository
	auditSvc  *AuditService
	log       *zap.Logger
}

func NewPaymentService(
	cfg *config.Config,
	orderRepo *repository.OrderRepository,
	cardRepo *repository.GiftCardRepository,
	subRepo *repository.SubscriptionRepository,
	auditSvc *AuditService,
	log *zap.Logger,
) *PaymentService {
	stripe.Key = cfg.Stripe.SecretKey
	return &PaymentService{
		cfg:       cfg,
		orderRepo: orderRepo,
		cardRepo:  cardRepo,
		subRepo:   subRepo,
		auditSvc:  auditSvc,
		log:       log,
	}
}

// CheckoutOrder creates a Stripe checkout session for an order and stores the
// session id on the order for webhook reconciliation.
func (s *PaymentService) CheckoutOrder(order *models.Order) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(order.Items))
	for _, item := range order.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(toCents(item.UnitPrice)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(s.cfg.Server.FrontendURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.cfg.Server.FrontendURL + "/checkout/cancel"),
		Metadata: map[string]string{
			"order_id": fmt.Sprintf("%d", order.ID),
			"kind":     "order",
		},
	}
	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	order.StripeRef = sess.ID
	if err := s.orderRepo.Update(order); err != nil {
		return "", err
	}
	return sess.URL, nil
}

// CheckoutGiftCard sells a gift card through a one-off checkout session.
func (s *PaymentService) CheckoutGiftCard(card *models.GiftCard) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Gift card"),
				},
				UnitAmount: stripe.Int64(toCents(card.InitialAmount)),
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(s.cfg.Server.FrontendURL + "/giftcards/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.cfg.Server.FrontendURL + "/giftcards/cancel"),
		Metadata: map[string]string{
			"gift_code": card.GiftCode,
			"kind":      "giftcard",
		},
	}
	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	card.StripeRef = sess.ID
	if err := s.cardRepo.DB().Save(card).Error; err != nil {
		return "", err
	}
	return sess.URL, nil
}

// CheckoutSubscription starts a recurring subscription checkout for a plan
// price id.
func (s *PaymentService) CheckoutSubscription(userID uint, plan, priceID string) (string, error) {
	sub := &models.Subscription{
		UserID: userID,
		Plan:   plan,
		Status: domain.SubscriptionStatusPending,
	}
	if err := s.subRepo.Create(sub); err != nil {
		return "", err
	}
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(priceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(s.cfg.Server.FrontendURL + "/subscription/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.cfg.Server.FrontendURL + "/subscription/cancel"),
		Metadata: map[string]string{
			"subscription_row": fmt.Sprintf("%d", sub.ID),
			"kind":             "subscription",
		},
	}
	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// ListInvoices returns the Stripe invoices for a user's subscription
// customer.
func (s *PaymentService) ListInvoices(userID uint, limit int) ([]*stripe.Invoice, error) {
	sub, err := s.subRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if sub.StripeCustomerID == "" {
		return nil, ErrNoStripeCustomer
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	params := &stripe.InvoiceListParams{Customer: stripe.String(sub.StripeCustomerID)}
	params.Limit = stripe.Int64(int64(limit))
	var out []*stripe.Invoice
	it := invoice.List(params)
	for it.Next() {
		out = append(out, it.Invoice())
	}
	return out, it.Err()
}

// HandleWebhook verifies the signature and syncs local state from Stripe
// events.
func (s *PaymentService) HandleWebhook(payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.Stripe.WebhookSecret)
	if err != nil {
		return err
	}
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return err
		}
		return s.completeCheckout(&sess)
	case "invoice.paid":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return err
		}
		return s.markSubscriptionActive(subscriptionIDFromInvoice(&inv))
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		return s.cancelSubscription(sub.ID)
	default:
		s.log.Debug("unhandled stripe event", zap.String("type", string(event.Type)))
		return nil
	}
}

func (s *PaymentService) completeCheckout(sess *stripe.CheckoutSession) error {
	switch sess.Metadata["kind"] {
	case "order":
		order, err := s.orderRepo.GetByStripeRef(sess.ID)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusPending {
			return nil // already reconciled
		}
		order.Status = domain.OrderStatusPreparing
		if err := s.orderRepo.Update(order); err != nil {
			return err
		}
		s.auditSvc.Record("order.paid", fmt.Sprintf("order #%d paid via stripe", order.ID), "stripe", order.FranchiseID, order.LocationID)
		return nil
	case "giftcard":
		card, err := s.cardRepo.GetByCode(sess.Metadata["gift_code"])
		if err != nil {
			return err
		}
		s.auditSvc.Record("giftcard.purchased", "gift card "+card.GiftCode+" paid via stripe", "stripe", card.FranchiseID, nil)
		return nil
	case "subscription":
		var rowID uint
		fmt.Sscanf(sess.Metadata["subscription_row"], "%d", &rowID)
		sub, err := s.subRepo.GetByID(rowID)
		if err != nil {
			return err
		}
		sub.Status = domain.SubscriptionStatusActive
		if sess.Customer != nil {
			sub.StripeCustomerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			sub.StripeSubscriptionID = sess.Subscription.ID
		}
		return s.subRepo.Update(sub)
	default:
		return nil
	}
}

func (s *PaymentService) markSubscriptionActive(stripeSubID string) error {
	if stripeSubID == "" {
		return nil
	}
	sub, err := s.subRepo.GetByStripeID(stripeSubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // invoice for a subscription we never created
		}
		return err
	}
	sub.Status = domain.SubscriptionStatusActive
	periodEnd := time.Now().AddDate(0, 1, 0)
	sub.CurrentPeriodEnd = &periodEnd
	return s.subRepo.Update(sub)
}

func (s *PaymentService) cancelSubscription(stripeSubID string) error {
	sub, err := s.subRepo.GetByStripeID(stripeSubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	sub.Status = domain.SubscriptionStatusCanceled
	return s.subRepo.Update(sub)
}

func subscriptionIDFromInvoice(inv *stripe.Invoice) string {
	if inv.Subscription != nil {
		return inv.Subscription.ID
	}
	return ""
}

func toCents(v float64) int64 {
	return int64(v*100 + 0.5)
}
