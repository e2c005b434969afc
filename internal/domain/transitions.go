package domain

import "errors"

var ErrInvalidTransition = errors.New("invalid status transition")

var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

var reservationTransitions = map[string][]string{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCancelled},
	ReservationStatusCancelled: {},
}

var privateDiningTransitions = map[string][]string{
	PrivateDiningStatusPending:   {PrivateDiningStatusContacted, PrivateDiningStatusConfirmed, PrivateDiningStatusCancelled},
	PrivateDiningStatusContacted: {PrivateDiningStatusConfirmed, PrivateDiningStatusCancelled},
	PrivateDiningStatusConfirmed: {PrivateDiningStatusCancelled},
	PrivateDiningStatusCancelled: {},
}

func canTransition(table map[string][]string, from, to string) error {
	next, ok := table[from]
	if !ok {
		return ErrInvalidTransition
	}
	for _, s := range next {
		if s == to {
			return nil
		}
	}
	return ErrInvalidTransition
}

func ValidateOrderTransition(from, to string) error {
	return canTransition(orderTransitions, from, to)
}

func ValidateReservationTransition(from, to string) error {
	return canTransition(reservationTransitions, from, to)
}

func ValidatePrivateDiningTransition(from, to string) error {
	return canTransition(privateDiningTransitions, from, to)
}

// GiftCardStatus derives the card status from its balance. The status is a
// function of remaining vs initial amount rather than a stored transition.
func GiftCardStatus(remaining, initial float64) string {
	switch {
	case remaining <= 0:
		return GiftCardStatusRedeemed
	case remaining < initial:
		return GiftCardStatusPartiallyUsed
	default:
		return GiftCardStatusActive
	}
}
