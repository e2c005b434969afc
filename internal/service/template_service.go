package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tavolo/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Template keys.
const (
	TemplateReservationConfirmation = "reservation_confirmation"
	TemplateReservationReminder     = "reservation_reminder"
	TemplatePrivateDiningReceived   = "private_dining_received"
	TemplateGiftCardDelivery        = "giftcard_delivery"
	TemplateAbandonedCart           = "abandoned_cart"
	TemplateOrderReceipt            = "order_receipt"
)

var ErrUnknownTemplate = errors.New("unknown email template")

// fallbackTemplates are the compiled-in defaults used when no DB override
// exists (or the lookup fails).
var fallbackTemplates = map[string]RenderedEmail{
	TemplateReservationConfirmation: {
		Subject: "Your reservation is confirmed",
		Body:    "<p>Hi {{name}},</p><p>Your table for {{guests}} on {{date}} at {{time}} is confirmed. See you soon!</p>",
	},
	TemplateReservationReminder: {
		Subject: "Reminder: your reservation today",
		Body:    "<p>Hi {{name}},</p><p>A quick reminder about your reservation for {{guests}} today at {{time}}.</p>",
	},
	TemplatePrivateDiningReceived: {
		Subject: "We received your private dining request",
		Body:    "<p>Hi {{name}},</p><p>Thanks for your {{event_nature}} request for {{party_size}} guests on {{date}}. Our events team will contact you shortly.</p>",
	},
	TemplateGiftCardDelivery: {
		Subject: "You've received a gift card!",
		Body:    "<p>Hi {{name}},</p><p>You've been sent a {{amount}} gift card. Your code is <strong>{{code}}</strong>.</p><p>{{message}}</p>",
	},
	TemplateAbandonedCart: {
		Subject: "You left something behind",
		Body:    "<p>Hi,</p><p>Your cart with {{item_count}} item(s) is still waiting. Complete your order any time.</p>",
	},
	TemplateOrderReceipt: {
		Subject: "Your order receipt",
		Body:    "<p>Hi {{name}},</p><p>Thanks for your order of {{total}}. Order number: {{order_id}}.</p>",
	},
}

type RenderedEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TemplateService resolves a template key + optional location to a rendered
// subject/body pair: DB override first, then the compiled-in fallback.
// Resolved (pre-substitution) templates are cached in Redis when available,
// since overrides change rarely and every transactional email resolves one.
type TemplateService struct {
	repo     *repository.TemplateRepository
	rdb      *redis.Client // nil disables caching
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewTemplateService(repo *repository.TemplateRepository, rdb *redis.Client, log *zap.Logger) *TemplateService {
	return &TemplateService{repo: repo, rdb: rdb, cacheTTL: 5 * time.Minute, log: log}
}

// Render resolves and substitutes {{key}} placeholders from vars. Unknown
// placeholders are left intact.
func (s *TemplateService) Render(key string, locationID *uint, vars map[string]string) (*RenderedEmail, error) {
	tpl, err := s.resolve(key, locationID)
	if err != nil {
		return nil, err
	}
	out := &RenderedEmail{
		Subject: Substitute(tpl.Subject, vars),
		Body:    Substitute(tpl.Body, vars),
	}
	return out, nil
}

func (s *TemplateService) resolve(key string, locationID *uint) (*RenderedEmail, error) {
	fallback, known := fallbackTemplates[key]
	if !known {
		return nil, ErrUnknownTemplate
	}

	cacheKey := templateCacheKey(key, locationID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(context.Background(), cacheKey).Result(); err == nil {
			var out RenderedEmail
			if json.Unmarshal([]byte(cached), &out) == nil {
				return &out, nil
			}
		}
	}

	resolved := fallback
	override, err := s.repo.Resolve(key, locationID)
	switch {
	case err == nil:
		if override.Subject != "" {
			resolved.Subject = override.Subject
		}
		if override.Body != "" {
			resolved.Body = override.Body
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fallback stands
	default:
		// DB trouble falls back to the built-in template rather than
		// failing the email
		s.log.Warn("template lookup failed, using fallback", zap.String("key", key), zap.Error(err))
	}

	if s.rdb != nil {
		if blob, err := json.Marshal(resolved); err == nil {
			_ = s.rdb.Set(context.Background(), cacheKey, blob, s.cacheTTL).Err()
		}
	}
	return &resolved, nil
}

// Invalidate drops the cached resolution for a key (all-location and
// location-specific entries are cached under distinct keys, so the caller
// passes the location the override targets).
func (s *TemplateService) Invalidate(key string, locationID *uint) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(context.Background(), templateCacheKey(key, locationID)).Err()
}

func templateCacheKey(key string, locationID *uint) string {
	if locationID != nil {
		return fmt.Sprintf("tpl:%s:loc:%d", key, *locationID)
	}
	return "tpl:" + key + ":global"
}

// Substitute replaces {{key}} placeholders with values from vars, leaving
// unknown placeholders untouched.
func Substitute(s string, vars map[string]string) string {
	if len(vars) == 0 {
		return s
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

func formatAmount(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}
