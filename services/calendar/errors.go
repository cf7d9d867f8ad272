package calendar

import "errors"

// ErrBookingFailed is a non-success booking response. The user may retry.
var ErrBookingFailed = errors.New("booking rejected by scheduling API")
