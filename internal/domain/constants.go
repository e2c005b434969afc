package domain

const (
	RoleAdmin    = "ADMIN"
	RoleStaff    = "STAFF"
	RoleCustomer = "CUSTOMER"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// Loyalty tiers, derived from accumulated points.
const (
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

const (
	PrivateDiningStatusPending   = "pending"
	PrivateDiningStatusContacted = "contacted"
	PrivateDiningStatusConfirmed = "confirmed"
	PrivateDiningStatusCancelled = "cancelled"
)

const (
	PromoTypePercentage = "percentage"
	PromoTypeFixed      = "fixed"
)

const (
	GiftCardStatusActive        = "active"
	GiftCardStatusPartiallyUsed = "partially_used"
	GiftCardStatusRedeemed      = "redeemed"
)

const (
	PosSyncStatusSuccess = "success"
	PosSyncStatusFailed  = "failed"
)

const (
	SubscriptionStatusPending  = "pending"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

const (
	NewsletterStatusSubscribed   = "subscribed"
	NewsletterStatusUnsubscribed = "unsubscribed"
)

// Tier returns the loyalty tier for a points balance.
// Bronze <250, Silver 250-499, Gold 500-999, Platinum >=1000.
func Tier(points int) string {
	switch {
	case points >= 1000:
		return TierPlatinum
	case points >= 500:
		return TierGold
	case points >= 250:
		return TierSilver
	default:
		return TierBronze
	}
}
