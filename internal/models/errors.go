package models

import "errors"

// Domain rule violations raised by model methods. Services translate them
// into API errors.
var (
	ErrCartItemNotFound = errors.New("item not found in cart")

	ErrOfferInactive      = errors.New("offer is not active")
	ErrOfferNotStarted    = errors.New("offer is not yet valid")
	ErrOfferExpired       = errors.New("offer has expired")
	ErrOfferExhausted     = errors.New("offer usage limit reached")
	ErrOfferUserLimit     = errors.New("you have already used this offer the maximum number of times")
	ErrOfferBelowMinimum  = errors.New("order amount is below the minimum for this offer")
	ErrOfferAboveMaximum  = errors.New("order amount exceeds the maximum for this offer")
	ErrOfferNotApplicable = errors.New("offer is not applicable to any item in this order")
)
