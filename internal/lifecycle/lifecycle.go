// Package lifecycle holds the closed transition tables for the two
// independent booking state axes. Anything outside these tables is rejected.
package lifecycle

import "github.com/hallhub/reservation-service/internal/models"

var nextStatus = map[models.BookingStatus]map[models.BookingStatus]bool{
	models.StatusPending:   {models.StatusConfirmed: true, models.StatusCancelled: true},
	models.StatusConfirmed: {models.StatusCompleted: true, models.StatusCancelled: true, models.StatusNoShow: true},
	models.StatusCancelled: {},
	models.StatusCompleted: {},
	models.StatusNoShow:    {},
}

var nextPayment = map[models.PaymentStatus]map[models.PaymentStatus]bool{
	models.PaymentPending:  {models.PaymentPartial: true, models.PaymentPaid: true, models.PaymentFailed: true},
	models.PaymentPartial:  {models.PaymentPaid: true, models.PaymentRefunded: true},
	models.PaymentPaid:     {models.PaymentRefunded: true},
	models.PaymentFailed:   {models.PaymentPending: true},
	models.PaymentRefunded: {},
}

func CanTransitionStatus(from, to models.BookingStatus) bool {
	return nextStatus[from][to]
}

func CanTransitionPayment(from, to models.PaymentStatus) bool {
	return nextPayment[from][to]
}

// StatusTerminal reports whether no further status transition is permitted.
func StatusTerminal(s models.BookingStatus) bool {
	next, known := nextStatus[s]
	return known && len(next) == 0
}

func PaymentTerminal(p models.PaymentStatus) bool {
	next, known := nextPayment[p]
	return known && len(next) == 0
}

// CompletionAllowed gates the transition to completed on the payment axis:
// never while payment is pending or failed, and while partial only when the
// deployment opts in.
func CompletionAllowed(p models.PaymentStatus, allowPartial bool) bool {
	switch p {
	case models.PaymentPending, models.PaymentFailed:
		return false
	case models.PaymentPartial:
		return allowPartial
	default:
		return true
	}
}
