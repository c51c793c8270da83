// Package billing holds the client-side money arithmetic for booking
// previews. The backend owns the authoritative charge.
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// EffectivePrice applies the patient's remaining demo minutes to a session
// booking: the free minutes come off the duration and the list price is
// charged for the billable fraction, rounded to cents. A fully covered
// session costs zero.
func EffectivePrice(listPrice decimal.Decimal, duration time.Duration, demoRemaining float64) decimal.Decimal {
	durationMinutes := duration.Minutes()
	if durationMinutes <= 0 || demoRemaining <= 0 {
		return listPrice.Round(2)
	}

	free := demoRemaining
	if free > durationMinutes {
		free = durationMinutes
	}

	billable := (durationMinutes - free) / durationMinutes
	return listPrice.Mul(decimal.NewFromFloat(billable)).Round(2)
}
