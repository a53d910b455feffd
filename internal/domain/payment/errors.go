package payment

import "errors"

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrGuestNotFound    = errors.New("guest account not found")
	ErrNotBookingGuest  = errors.New("only the booking guest can pay")
	ErrBookingCanceled  = errors.New("canceled bookings cannot be paid")
	ErrAlreadyCompleted = errors.New("payment already completed")
	ErrGatewayRejected  = errors.New("payment gateway rejected the transaction")
)
