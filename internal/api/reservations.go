package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iliyamo/reservation-client/internal/model"
)

// ListAll fetches every reservation in the system via the public
// GET /reservations endpoint.  No authentication is required.
func (c *Client) ListAll(ctx context.Context) ([]model.Reservation, error) {
	var out []model.Reservation
	if err := c.do(ctx, http.MethodGet, "/reservations", nil, nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser fetches the reservations owned by the given user via
// GET /reservations/user/{userID}.  Requires a valid token.
func (c *Client) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	var out []model.Reservation
	path := "/reservations/user/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// Filter queries GET /reservations/filter with the given criteria.  The
// caller is responsible for validating the criteria first; this method
// only encodes them.  Dates are sent as bare "YYYY-MM-DD" values and the
// endpoint is public, so filtered results may include reservations of
// any user.
func (c *Client) Filter(ctx context.Context, criteria model.FilterCriteria) ([]model.Reservation, error) {
	q := url.Values{}
	q.Set("username", criteria.Username)
	q.Set("serviceTitle", criteria.ServiceTitle)
	q.Set("startDate", model.FormatDay(criteria.StartDate))
	q.Set("endDate", model.FormatDay(criteria.EndDate))

	var out []model.Reservation
	if err := c.do(ctx, http.MethodGet, "/reservations/filter", q, nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// Create submits a new reservation draft to POST /reservations.  The
// created entity in the response is discarded because callers re-fetch
// the full list after every successful mutation.
func (c *Client) Create(ctx context.Context, draft model.ReservationDraft) error {
	return c.do(ctx, http.MethodPost, "/reservations", nil, draft, nil, true)
}

// Update replaces the reservation with the given id via
// PUT /reservations/{id}.  The draft's ReservationDate is expected to
// already be in the full RFC 3339 form required by the update contract.
// As with Create, the response body is discarded.
func (c *Client) Update(ctx context.Context, id uint64, draft model.ReservationDraft) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/reservations/%d", id), nil, draft, nil, true)
}

// Delete removes the reservation with the given id via
// DELETE /reservations/{id}.
func (c *Client) Delete(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/reservations/%d", id), nil, nil, nil, true)
}
