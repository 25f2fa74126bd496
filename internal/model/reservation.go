package model

import "time"

// dayLayout is the wire format for day-precision dates exchanged with the
// reservation API (e.g. "2025-03-01").
const dayLayout = "2006-01-02"

// Reservation is a booking as returned by the reservation API.  The
// client never mutates a Reservation in place; after every successful
// mutation the whole collection is replaced with the server's
// authoritative response, so local and remote copies never diverge.
//
// Fields:
//  ID                 – server-assigned identifier, immutable for the
//                       life of the entity.
//  User               – denormalized owner of the reservation.
//  ReservationDate    – ISO 8601 date string with day precision.  Kept
//                       as a string because the API has returned both
//                       bare dates and full timestamps; use Day() to
//                       normalize for display or editing.
//  ReservationDetails – free-form description of the booking.
//  ServiceTitle       – name of the booked service.
type Reservation struct {
	ID                 uint64 `json:"id"`                 // reservation identifier
	User               User   `json:"user"`               // owner as reported by the server
	ReservationDate    string `json:"reservationDate"`    // ISO 8601, day precision
	ReservationDetails string `json:"reservationDetails"` // booking details
	ServiceTitle       string `json:"serviceTitle"`       // booked service name
}

// Day returns the reservation date reduced to "YYYY-MM-DD".  The server
// may send either a bare date or a full RFC 3339 timestamp; both are
// accepted.  Unparseable values are returned unchanged so the caller can
// still display them.
func (r Reservation) Day() string {
	if t, err := ParseReservationDate(r.ReservationDate); err == nil {
		return t.Format(dayLayout)
	}
	return r.ReservationDate
}

// ParseReservationDate parses a reservation date in either of the two
// layouts the API uses: a bare "YYYY-MM-DD" date or a full RFC 3339
// timestamp.  Bare dates are interpreted in UTC.
func ParseReservationDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dayLayout, s, time.UTC); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// FormatDay renders a time as the bare "YYYY-MM-DD" wire format.
func FormatDay(t time.Time) string { return t.UTC().Format(dayLayout) }

// ReservationDraft is the mutable form state for a reservation being
// created or edited.  It exists only while a create/edit flow is open
// and maps directly onto the JSON body of POST and PUT requests.
//
// Fields:
//  UserID             – id of the viewer the draft is submitted as.  It
//                       always mirrors the authenticated viewer; editing
//                       a reservation owned by someone else still resets
//                       this to the viewer's own id.
//  ReservationDate    – "YYYY-MM-DD" while the draft is being edited.
//                       On update the controller expands it to a full
//                       RFC 3339 instant, matching the API contract.
//  ReservationDetails – free-form description.
//  ServiceTitle       – name of the service being booked.
type ReservationDraft struct {
	UserID             string `json:"userId"`             // viewer id the draft acts as
	ReservationDate    string `json:"reservationDate"`    // empty or "YYYY-MM-DD"
	ReservationDetails string `json:"reservationDetails"` // booking details
	ServiceTitle       string `json:"serviceTitle"`       // service name
}

// FilterCriteria holds the inputs of the public reservation filter.  All
// four fields are required; validation happens locally before any remote
// call is made.  Date bounds are inclusive.
//
// Fields:
//  Username     – owner username to match.
//  ServiceTitle – service title to match.
//  StartDate    – inclusive lower bound of the reservation date.
//  EndDate      – inclusive upper bound of the reservation date.
type FilterCriteria struct {
	Username     string    // owner username (must be non-blank)
	ServiceTitle string    // service title (must be non-blank)
	StartDate    time.Time // inclusive range start (zero means missing)
	EndDate      time.Time // inclusive range end (zero means missing)
}
