package services

import "errors"

// Domain errors returned by services and mapped to HTTP at the handler
// boundary.
var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponExists       = errors.New("coupon code already exists")
	ErrAlreadyUsed        = errors.New("coupon already used by user")
	ErrUsageExceeded      = errors.New("coupon usage limit reached")
	ErrBelowMinimumPayout = errors.New("earnings below minimum payout amount")
	ErrDuplicatePayout    = errors.New("payout request already exists for period")
	ErrInvalidTransition  = errors.New("invalid payout status transition")
	ErrPayoutNotFound     = errors.New("payout request not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrTransactionClosed  = errors.New("transaction already in terminal state")
	ErrSignatureMismatch  = errors.New("payment signature verification failed")
	ErrPlanNotFound       = errors.New("subscription plan not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotCourseOwner     = errors.New("course does not belong to instructor")
)
