package controller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/reservation-client/internal/model"
)

// staticCreds is a CredentialReader with a fixed viewer id.
type staticCreds struct {
	id string
}

func (c staticCreds) AccessToken() (string, bool) { return "test-token", c.id != "" }
func (c staticCreds) ViewerID() (string, bool)    { return c.id, c.id != "" }

// fakeTransport counts calls and delegates to optional function fields.
// Unset functions return empty results.
type fakeTransport struct {
	listAllCalls  atomic.Int64
	listUserCalls atomic.Int64
	filterCalls   atomic.Int64
	createCalls   atomic.Int64
	updateCalls   atomic.Int64
	deleteCalls   atomic.Int64

	listAllFn  func(ctx context.Context) ([]model.Reservation, error)
	listUserFn func(ctx context.Context, userID string) ([]model.Reservation, error)
	filterFn   func(ctx context.Context, criteria model.FilterCriteria) ([]model.Reservation, error)
	createFn   func(ctx context.Context, draft model.ReservationDraft) error
	updateFn   func(ctx context.Context, id uint64, draft model.ReservationDraft) error
	deleteFn   func(ctx context.Context, id uint64) error
}

func (f *fakeTransport) ListAll(ctx context.Context) ([]model.Reservation, error) {
	f.listAllCalls.Add(1)
	if f.listAllFn != nil {
		return f.listAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeTransport) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	f.listUserCalls.Add(1)
	if f.listUserFn != nil {
		return f.listUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeTransport) Filter(ctx context.Context, criteria model.FilterCriteria) ([]model.Reservation, error) {
	f.filterCalls.Add(1)
	if f.filterFn != nil {
		return f.filterFn(ctx, criteria)
	}
	return nil, nil
}

func (f *fakeTransport) Create(ctx context.Context, draft model.ReservationDraft) error {
	f.createCalls.Add(1)
	if f.createFn != nil {
		return f.createFn(ctx, draft)
	}
	return nil
}

func (f *fakeTransport) Update(ctx context.Context, id uint64, draft model.ReservationDraft) error {
	f.updateCalls.Add(1)
	if f.updateFn != nil {
		return f.updateFn(ctx, id, draft)
	}
	return nil
}

func (f *fakeTransport) Delete(ctx context.Context, id uint64) error {
	f.deleteCalls.Add(1)
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func newTestController(t *fakeTransport, viewer string) *Controller {
	return New(t, staticCreds{id: viewer}, zerolog.Nop())
}

func sample(id uint64, owner uint64, title string) model.Reservation {
	return model.Reservation{
		ID:                 id,
		User:               model.User{ID: owner, Username: "user"},
		ReservationDate:    "2025-03-01",
		ReservationDetails: "details",
		ServiceTitle:       title,
	}
}

func TestInitializeFetchesViewerList(t *testing.T) {
	list := []model.Reservation{sample(1, 7, "Haircut")}
	ft := &fakeTransport{
		listUserFn: func(_ context.Context, userID string) ([]model.Reservation, error) {
			assert.Equal(t, "7", userID)
			return list, nil
		},
	}
	c := newTestController(ft, "7")

	c.Initialize(context.Background())

	state := c.Snapshot()
	assert.Equal(t, list, state.Reservations)
	assert.Empty(t, state.Err)
	assert.Equal(t, int64(1), ft.listUserCalls.Load())
	assert.Equal(t, int64(0), ft.listAllCalls.Load())
}

func TestInitializeWithoutViewerFetchesGlobalList(t *testing.T) {
	list := []model.Reservation{sample(1, 3, "Massage")}
	ft := &fakeTransport{
		listAllFn: func(context.Context) ([]model.Reservation, error) { return list, nil },
	}
	c := New(ft, Guest{}, zerolog.Nop())

	c.Initialize(context.Background())

	assert.Equal(t, list, c.Snapshot().Reservations)
	assert.Equal(t, int64(1), ft.listAllCalls.Load())
	assert.Equal(t, int64(0), ft.listUserCalls.Load())
}

func TestInitializeIsIdempotent(t *testing.T) {
	list := []model.Reservation{sample(1, 7, "Haircut"), sample(2, 7, "Massage")}
	ft := &fakeTransport{
		listUserFn: func(context.Context, string) ([]model.Reservation, error) { return list, nil },
	}
	c := newTestController(ft, "7")

	c.Initialize(context.Background())
	first := c.Snapshot().Reservations
	c.Initialize(context.Background())
	second := c.Snapshot().Reservations

	assert.Equal(t, first, second)
	assert.Equal(t, int64(2), ft.listUserCalls.Load())
}

func TestInitializeFailureKeepsPreviousSnapshot(t *testing.T) {
	list := []model.Reservation{sample(1, 7, "Haircut")}
	fail := false
	ft := &fakeTransport{
		listUserFn: func(context.Context, string) ([]model.Reservation, error) {
			if fail {
				return nil, assert.AnError
			}
			return list, nil
		},
	}
	c := newTestController(ft, "7")

	c.Initialize(context.Background())
	require.Equal(t, list, c.Snapshot().Reservations)

	fail = true
	c.Initialize(context.Background())

	state := c.Snapshot()
	assert.Equal(t, list, state.Reservations)
	assert.Equal(t, MsgFetchFailed, state.Err)
}

func TestCreateRoundTrip(t *testing.T) {
	updated := []model.Reservation{sample(9, 7, "Haircut")}
	var sent model.ReservationDraft
	ft := &fakeTransport{
		createFn: func(_ context.Context, draft model.ReservationDraft) error {
			sent = draft
			return nil
		},
		listUserFn: func(context.Context, string) ([]model.Reservation, error) { return updated, nil },
	}
	c := newTestController(ft, "7")

	c.OpenCreate()
	c.UpdateDraftField("serviceTitle", "Haircut")
	c.UpdateDraftField("reservationDetails", "9am slot")
	c.UpdateDraftField("reservationDate", "2025-03-01")
	c.SubmitDraft(context.Background())

	assert.Equal(t, "7", sent.UserID)
	assert.Equal(t, "2025-03-01", sent.ReservationDate)
	assert.Equal(t, "Haircut", sent.ServiceTitle)

	state := c.Snapshot()
	assert.Equal(t, updated, state.Reservations)
	assert.Equal(t, DraftClosed, state.Mode)
	assert.Equal(t, model.ReservationDraft{UserID: "7"}, state.Draft)
	assert.Empty(t, state.Err)
}

func TestEditForcesViewerOwnership(t *testing.T) {
	foreign := model.Reservation{
		ID:                 5,
		User:               model.User{ID: 3, Username: "someoneelse"},
		ReservationDate:    "2025-03-01",
		ReservationDetails: "their slot",
		ServiceTitle:       "Massage",
	}
	var sentID uint64
	var sent model.ReservationDraft
	ft := &fakeTransport{
		updateFn: func(_ context.Context, id uint64, draft model.ReservationDraft) error {
			sentID = id
			sent = draft
			return nil
		},
	}
	c := newTestController(ft, "7")

	c.OpenEdit(foreign)

	state := c.Snapshot()
	assert.Equal(t, DraftEditing, state.Mode)
	assert.Equal(t, uint64(5), state.EditingID)
	assert.Equal(t, "7", state.Draft.UserID, "draft must be owned by the viewer, not the original owner")
	assert.Equal(t, "2025-03-01", state.Draft.ReservationDate)

	c.SubmitDraft(context.Background())

	assert.Equal(t, uint64(5), sentID)
	assert.Equal(t, "7", sent.UserID)
	// The update contract expands the date to a full instant.
	assert.Equal(t, "2025-03-01T00:00:00Z", sent.ReservationDate)
}

func TestSubmitWithoutOpenDraftIsNoOp(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestController(ft, "7")

	c.SubmitDraft(context.Background())

	assert.Equal(t, int64(0), ft.createCalls.Load())
	assert.Equal(t, int64(0), ft.updateCalls.Load())
}

func TestSubmitFailureKeepsFlowOpen(t *testing.T) {
	ft := &fakeTransport{
		createFn: func(context.Context, model.ReservationDraft) error { return assert.AnError },
	}
	c := newTestController(ft, "7")

	c.OpenCreate()
	c.UpdateDraftField("serviceTitle", "Haircut")
	c.SubmitDraft(context.Background())

	state := c.Snapshot()
	assert.Equal(t, DraftCreating, state.Mode, "the flow stays open for a retry")
	assert.Equal(t, "Haircut", state.Draft.ServiceTitle, "the draft is preserved")
	assert.Equal(t, MsgCreateFailed, state.Err)
	assert.Equal(t, int64(0), ft.listUserCalls.Load(), "no re-fetch after a failed mutation")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	var deleted uint64
	ft := &fakeTransport{
		deleteFn: func(_ context.Context, id uint64) error {
			deleted = id
			return nil
		},
	}
	c := newTestController(ft, "7")

	c.RequestDelete(42)

	state := c.Snapshot()
	assert.True(t, state.ConfirmOpen)
	assert.Equal(t, uint64(42), state.PendingDeleteID)
	assert.Equal(t, int64(0), ft.deleteCalls.Load(), "requesting must not call the API")

	c.ConfirmDelete(context.Background())

	assert.Equal(t, uint64(42), deleted)
	state = c.Snapshot()
	assert.False(t, state.ConfirmOpen)
	assert.Zero(t, state.PendingDeleteID)
}

func TestCancelDeleteMakesNoCall(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestController(ft, "7")

	c.RequestDelete(42)
	c.CancelDelete()

	assert.False(t, c.Snapshot().ConfirmOpen)
	assert.Equal(t, int64(0), ft.deleteCalls.Load())
}

func TestConfirmDeleteWithoutPendingIsNoOp(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestController(ft, "7")

	c.ConfirmDelete(context.Background())

	assert.Equal(t, int64(0), ft.deleteCalls.Load())
}

func TestDeleteFailurePreservesState(t *testing.T) {
	list := []model.Reservation{sample(42, 7, "Haircut"), sample(43, 7, "Massage")}
	ft := &fakeTransport{
		listUserFn: func(context.Context, string) ([]model.Reservation, error) { return list, nil },
		deleteFn:   func(context.Context, uint64) error { return assert.AnError },
	}
	c := newTestController(ft, "7")
	c.Initialize(context.Background())

	before := c.Snapshot().Reservations
	c.RequestDelete(42)
	c.ConfirmDelete(context.Background())

	state := c.Snapshot()
	assert.Equal(t, before, state.Reservations, "a failed delete must not touch the collection")
	assert.Equal(t, MsgDeleteFailed, state.Err)
	assert.True(t, state.ConfirmOpen, "the confirmation dialog stays open on failure")
}

func TestFilterValidationShortCircuits(t *testing.T) {
	d1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		criteria model.FilterCriteria
		wantMsg  string
	}{
		{
			name:     "blank username",
			criteria: model.FilterCriteria{Username: "  ", ServiceTitle: "x", StartDate: d1, EndDate: d2},
			wantMsg:  MsgFilterUsername,
		},
		{
			name:     "blank service title",
			criteria: model.FilterCriteria{Username: "ana", ServiceTitle: "", StartDate: d1, EndDate: d2},
			wantMsg:  MsgFilterService,
		},
		{
			name:     "missing dates",
			criteria: model.FilterCriteria{Username: "ana", ServiceTitle: "x"},
			wantMsg:  MsgFilterDateRange,
		},
		{
			name:     "start after end",
			criteria: model.FilterCriteria{Username: "ana", ServiceTitle: "x", StartDate: d2, EndDate: d1},
			wantMsg:  MsgFilterDateOrder,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ft := &fakeTransport{}
			c := newTestController(ft, "7")

			c.ApplyFilter(context.Background(), tc.criteria)

			assert.Equal(t, int64(0), ft.filterCalls.Load(), "validation failures must not reach the API")
			assert.Equal(t, tc.wantMsg, c.Err())
		})
	}
}

func TestApplyFilterReplacesCollection(t *testing.T) {
	filtered := []model.Reservation{sample(3, 9, "Haircut")}
	var got model.FilterCriteria
	ft := &fakeTransport{
		filterFn: func(_ context.Context, criteria model.FilterCriteria) ([]model.Reservation, error) {
			got = criteria
			return filtered, nil
		},
	}
	c := newTestController(ft, "7")

	criteria := model.FilterCriteria{
		Username:     "ana",
		ServiceTitle: "Haircut",
		StartDate:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	c.ApplyFilter(context.Background(), criteria)

	assert.Equal(t, criteria, got)
	state := c.Snapshot()
	assert.Equal(t, filtered, state.Reservations)
	assert.Empty(t, state.Err)
}

func TestApplyFilterFailureKeepsCollection(t *testing.T) {
	list := []model.Reservation{sample(1, 7, "Haircut")}
	ft := &fakeTransport{
		listUserFn: func(context.Context, string) ([]model.Reservation, error) { return list, nil },
		filterFn:   func(context.Context, model.FilterCriteria) ([]model.Reservation, error) { return nil, assert.AnError },
	}
	c := newTestController(ft, "7")
	c.Initialize(context.Background())

	c.ApplyFilter(context.Background(), model.FilterCriteria{
		Username:     "ana",
		ServiceTitle: "x",
		StartDate:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
	})

	state := c.Snapshot()
	assert.Equal(t, list, state.Reservations)
	assert.Equal(t, MsgFilterFailed, state.Err)
}

func TestStaleFetchResponseIsDiscarded(t *testing.T) {
	staleList := []model.Reservation{sample(1, 7, "old")}
	freshList := []model.Reservation{sample(2, 7, "new")}

	gate := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int64
	ft := &fakeTransport{}
	ft.listUserFn = func(context.Context, string) ([]model.Reservation, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-gate // hold the first response until the second has been applied
			return staleList, nil
		}
		return freshList, nil
	}
	c := newTestController(ft, "7")

	done := make(chan struct{})
	go func() {
		c.Initialize(context.Background())
		close(done)
	}()
	<-started

	c.Initialize(context.Background())
	require.Equal(t, freshList, c.Snapshot().Reservations)

	close(gate)
	<-done

	assert.Equal(t, freshList, c.Snapshot().Reservations,
		"the older response must not overwrite the newer one")
}

func TestClosedControllerDropsLateResponses(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	ft := &fakeTransport{
		listUserFn: func(context.Context, string) ([]model.Reservation, error) {
			close(started)
			<-gate
			return []model.Reservation{sample(1, 7, "late")}, nil
		},
	}
	c := newTestController(ft, "7")

	done := make(chan struct{})
	go func() {
		c.Initialize(context.Background())
		close(done)
	}()
	<-started

	c.Close()
	close(gate)
	<-done

	assert.Empty(t, c.Snapshot().Reservations, "a disposed controller must not apply responses")
}

func TestClosedControllerIgnoresOperations(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestController(ft, "7")
	c.Close()

	c.Initialize(context.Background())
	c.OpenCreate()
	c.RequestDelete(1)

	state := c.Snapshot()
	assert.Equal(t, DraftClosed, state.Mode)
	assert.False(t, state.ConfirmOpen)
	assert.Equal(t, int64(0), ft.listUserCalls.Load())
}

func TestOpenViewAndCloseView(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestController(ft, "7")
	target := sample(1, 7, "Haircut")

	c.OpenView(target)
	state := c.Snapshot()
	assert.True(t, state.ViewOpen)
	assert.Equal(t, target, state.Viewing)

	c.CloseView()
	assert.False(t, c.Snapshot().ViewOpen)
}

func TestUpdateDraftFieldIgnoresUnknownField(t *testing.T) {
	c := newTestController(&fakeTransport{}, "7")
	c.OpenCreate()

	c.UpdateDraftField("nonsense", "value")

	assert.Equal(t, model.ReservationDraft{UserID: "7"}, c.Snapshot().Draft)
}

func TestOpenCreateAfterEditResetsDraft(t *testing.T) {
	c := newTestController(&fakeTransport{}, "7")

	c.OpenEdit(sample(5, 3, "Massage"))
	c.OpenCreate()

	state := c.Snapshot()
	assert.Equal(t, DraftCreating, state.Mode)
	assert.Zero(t, state.EditingID)
	assert.Equal(t, model.ReservationDraft{UserID: "7"}, state.Draft)
}
