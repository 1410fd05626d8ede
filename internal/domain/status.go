package domain

import (
	"sort"
	"strings"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// legacyStatusTokens maps every spelling that ever reached storage onto the
// canonical set. The product shipped with French labels before the status
// column was anglicized, and both accented and unaccented variants exist in
// older rows.
var legacyStatusTokens = map[string]BookingStatus{
	"pending":    BookingStatusPending,
	"en_attente": BookingStatusPending,
	"approved":   BookingStatusApproved,
	"confirmée":  BookingStatusApproved,
	"confirmee":  BookingStatusApproved,
	"rejected":   BookingStatusRejected,
	"refusée":    BookingStatusRejected,
	"refusee":    BookingStatusRejected,
	"completed":  BookingStatusCompleted,
	"completée":  BookingStatusCompleted,
	"completee":  BookingStatusCompleted,
	"cancelled":  BookingStatusCancelled,
	"canceled":   BookingStatusCancelled,
	"annulée":    BookingStatusCancelled,
	"annulee":    BookingStatusCancelled,
}

// NormalizeBookingStatus maps a raw stored status token onto the canonical
// status set. It never fails: unrecognized tokens fall back to pending so a
// booking row can always be rendered. Canonical values map to themselves,
// which makes the function idempotent.
func NormalizeBookingStatus(raw string) BookingStatus {
	token := strings.ToLower(strings.TrimSpace(raw))
	if status, ok := legacyStatusTokens[token]; ok {
		return status
	}
	return BookingStatusPending
}

// StatusTokens returns every stored spelling that normalizes to the given
// status, sorted. Storage-side filters must match on this set rather than the
// canonical token alone, or rows written before the column was anglicized
// are silently skipped.
func StatusTokens(status BookingStatus) []string {
	tokens := make([]string, 0, 4)
	for token, canonical := range legacyStatusTokens {
		if canonical == status {
			tokens = append(tokens, token)
		}
	}
	sort.Strings(tokens)
	return tokens
}

// IsTerminal reports whether no further status transitions are expected.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCompleted || s == BookingStatusCancelled
}
