package pricing

import (
	"errors"
	"time"
)

// TaxRatePercent is the flat tax applied to every stay.
const TaxRatePercent = 18

var (
	ErrInvalidDateRange = errors.New("check-out must be after check-in")
	ErrInvalidDiscount  = errors.New("discount exceeds subtotal plus tax")
	ErrNegativeRate     = errors.New("nightly rate must not be negative")
)

// Quote is a full pricing breakdown for a stay. All amounts are integer
// currency cents so the arithmetic stays exact.
type Quote struct {
	Nights           int   `json:"nights"`
	RateCents        int64 `json:"rate_cents"`
	SubtotalCents    int64 `json:"subtotal_cents"`
	TaxCents         int64 `json:"tax_cents"`
	DiscountCents    int64 `json:"discount_cents"`
	FinalAmountCents int64 `json:"final_amount_cents"`
}

// Nights counts the nights of a stay as the ceiling of the span in whole
// days. A stay shorter than 24h that still crosses a day boundary counts
// as one night; equal or inverted timestamps count as zero.
func Nights(checkIn, checkOut time.Time) int {
	span := checkOut.Sub(checkIn)
	if span <= 0 {
		return 0
	}
	nights := int(span / (24 * time.Hour))
	if span%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) conflict. Checking out on the same date another stay
// checks in is not a conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Compute derives the pricing breakdown for a stay. Pure and
// deterministic: identical inputs always yield the identical quote, and
// nothing is read from storage or the clock.
func Compute(rateCents int64, checkIn, checkOut time.Time, discountCents int64) (*Quote, error) {
	if rateCents < 0 {
		return nil, ErrNegativeRate
	}
	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return nil, ErrInvalidDateRange
	}

	subtotal := rateCents * int64(nights)
	tax := roundHalfUpPercent(subtotal, TaxRatePercent)

	final := subtotal + tax - discountCents
	if discountCents < 0 || final < 0 {
		return nil, ErrInvalidDiscount
	}

	return &Quote{
		Nights:           nights,
		RateCents:        rateCents,
		SubtotalCents:    subtotal,
		TaxCents:         tax,
		DiscountCents:    discountCents,
		FinalAmountCents: final,
	}, nil
}

// roundHalfUpPercent computes amount*percent/100 rounded half-up, in
// integer arithmetic.
func roundHalfUpPercent(amount int64, percent int64) int64 {
	return (amount*percent + 50) / 100
}
