// Package controller implements the client-side reservation state
// machine.  A Controller keeps an in-memory reservation collection
// consistent with the remote store across create, update, delete and
// filter operations.  It owns the single shared form draft used for
// both creating and editing, the view and delete-confirmation state,
// and the last user-facing error message.  The collection is always a
// full authoritative snapshot from the last successful server response;
// it is never patched incrementally, so client and server copies can
// never drift apart.
package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/reservation-client/internal/model"
)

// Transport abstracts the reservation API consumed by the controller.
// The HTTP client in internal/api satisfies it; tests substitute an
// in-memory fake.  Mutating calls return only an error because the
// controller discards mutation responses and re-fetches the full list
// after every success.
type Transport interface {
	ListAll(ctx context.Context) ([]model.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]model.Reservation, error)
	Filter(ctx context.Context, criteria model.FilterCriteria) ([]model.Reservation, error)
	Create(ctx context.Context, draft model.ReservationDraft) error
	Update(ctx context.Context, id uint64, draft model.ReservationDraft) error
	Delete(ctx context.Context, id uint64) error
}

// CredentialReader is the read-only capability through which the
// controller learns who the viewer is.  The controller never writes
// credentials; the login and logout flows own them exclusively.  An
// absent viewer id means the unauthenticated "all reservations" view.
type CredentialReader interface {
	AccessToken() (string, bool)
	ViewerID() (string, bool)
}

// Guest is a CredentialReader with no credentials at all.  It backs the
// public home view, where every reservation is listed without a token.
type Guest struct{}

// AccessToken always reports that no token is available.
func (Guest) AccessToken() (string, bool) { return "", false }

// ViewerID always reports that no viewer is authenticated.
func (Guest) ViewerID() (string, bool) { return "", false }

// DraftMode says what the shared draft is currently used for.  Carrying
// the mode explicitly (rather than inferring it from an optional
// "editing target" reference) makes the create/edit distinction a
// first-class state.
type DraftMode int

const (
	// DraftClosed means no create/edit flow is open.
	DraftClosed DraftMode = iota
	// DraftCreating means the draft belongs to a new reservation.
	DraftCreating
	// DraftEditing means the draft edits an existing reservation; the
	// target id is held alongside the mode.
	DraftEditing
)

// User-facing messages.  Remote failures map to one static message per
// operation; the messages are part of the UI contract and tests assert
// on them.
const (
	MsgFetchFailed  = "Error fetching reservations"
	MsgCreateFailed = "Error creating reservation"
	MsgUpdateFailed = "Error updating reservation"
	MsgDeleteFailed = "Error deleting reservation"
	MsgFilterFailed = "Error filtering reservations"

	MsgFilterUsername  = "Please enter a username."
	MsgFilterService   = "Please enter the service title."
	MsgFilterDateRange = "Please select the date range."
	MsgFilterDateOrder = "Start date cannot be after end date."
)

// State is an immutable snapshot of the controller for rendering.  The
// reservations slice is copied so callers can hold on to it safely.
//
// Fields:
//  Reservations    – authoritative collection from the last successful
//                    fetch, in server order.
//  Draft           – current form values; meaningful while Mode is not
//                    DraftClosed.
//  Mode            – what the draft is being used for.
//  EditingID       – id of the reservation being edited; zero unless
//                    Mode is DraftEditing.
//  ViewOpen        – whether the read-only detail view is open.
//  Viewing         – reservation shown in the detail view.
//  ConfirmOpen     – whether the delete-confirmation dialog is open.
//  PendingDeleteID – id awaiting confirmation; zero iff ConfirmOpen is
//                    false.
//  Err             – last user-facing error message, empty when the
//                    previous operation succeeded.
type State struct {
	Reservations    []model.Reservation
	Draft           model.ReservationDraft
	Mode            DraftMode
	EditingID       uint64
	ViewOpen        bool
	Viewing         model.Reservation
	ConfirmOpen     bool
	PendingDeleteID uint64
	Err             string
}

// Controller is the single writer of the client-side reservation state.
// All methods are safe for concurrent use; state reads and writes are
// serialized by a mutex, while remote calls run outside the lock so a
// slow request never blocks local-only transitions.  Responses of
// overlapping fetches are fenced by a monotonically increasing sequence
// number: a response older than the last one applied is discarded, and
// nothing is applied once the controller has been closed.
type Controller struct {
	mu        sync.Mutex
	transport Transport
	creds     CredentialReader
	log       zerolog.Logger

	reservations  []model.Reservation
	draft         model.ReservationDraft
	draftMode     DraftMode
	editingID     uint64
	viewOpen      bool
	viewing       model.Reservation
	pendingDelete uint64 // reservation id awaiting confirmation; 0 = none
	errMsg        string

	fetchSeq   uint64 // sequence assigned to the most recently started fetch
	appliedSeq uint64 // sequence of the most recently applied (or discarded) fetch
	closed     bool
}

// New returns a Controller in its mount state: empty collection, empty
// draft owned by the viewer, no dialogs open.  The transport performs
// the remote calls and the credential reader supplies the viewer
// identity; both are required.
func New(transport Transport, creds CredentialReader, log zerolog.Logger) *Controller {
	c := &Controller{
		transport: transport,
		creds:     creds,
		log:       log.With().Str("component", "sync").Logger(),
	}
	c.draft = c.emptyDraft()
	return c
}

// emptyDraft returns the draft reset state: all fields blank except the
// user id, which always mirrors the viewer.
func (c *Controller) emptyDraft() model.ReservationDraft {
	viewer, _ := c.creds.ViewerID()
	return model.ReservationDraft{UserID: viewer}
}

// Snapshot returns a copy of the current state for rendering.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := make([]model.Reservation, len(c.reservations))
	copy(list, c.reservations)
	return State{
		Reservations:    list,
		Draft:           c.draft,
		Mode:            c.draftMode,
		EditingID:       c.editingID,
		ViewOpen:        c.viewOpen,
		Viewing:         c.viewing,
		ConfirmOpen:     c.pendingDelete != 0,
		PendingDeleteID: c.pendingDelete,
		Err:             c.errMsg,
	}
}

// Err returns the last user-facing error message, or "" after a
// successful operation.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Close marks the controller as torn down.  Responses of requests still
// in flight are dropped on arrival, and every later operation becomes a
// no-op.  Close is called when the owning view unmounts.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Initialize fetches the viewer's reservation list: the global list
// when no viewer is authenticated, the per-user list otherwise.
// Failures record a message and leave the current collection unchanged,
// so the first call leaves it empty and a re-call keeps the previous
// snapshot.  Initialize is idempotent and safe to call repeatedly; when
// calls overlap, the response fencing guarantees last-applied-wins
// without an older response clobbering a newer one.
func (c *Controller) Initialize(ctx context.Context) {
	c.fetchList(ctx)
}

// fetchList performs one authoritative list fetch and replaces the
// collection with the result.  Shared by Initialize and by the
// re-fetch that follows every successful mutation.
func (c *Controller) fetchList(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.fetchSeq++
	seq := c.fetchSeq
	viewer, authed := c.creds.ViewerID()
	c.mu.Unlock()

	var (
		list []model.Reservation
		err  error
	)
	if authed {
		list, err = c.transport.ListByUser(ctx, viewer)
	} else {
		list, err = c.transport.ListAll(ctx)
	}

	c.applyFetch(seq, list, err, MsgFetchFailed)
}

// applyFetch installs the outcome of a list-returning request under the
// fencing rules: nothing is applied after Close, and a response whose
// sequence is not newer than the last applied one is discarded.  Failed
// fetches still advance the applied sequence so that an older success
// arriving late cannot resurrect stale data over a newer outcome.
func (c *Controller) applyFetch(seq uint64, list []model.Reservation, err error, failMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq <= c.appliedSeq {
		c.log.Debug().Uint64("seq", seq).Msg("discarding stale fetch response")
		return
	}
	c.appliedSeq = seq
	if err != nil {
		c.errMsg = failMsg
		c.log.Warn().Err(err).Msg(failMsg)
		return
	}
	c.reservations = list
}

// OpenCreate opens the create flow: the draft is reset to its empty
// state owned by the viewer and any previous edit target is forgotten.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.draftMode = DraftCreating
	c.editingID = 0
	c.draft = c.emptyDraft()
}

// OpenEdit opens the edit flow for target.  The target's fields are
// copied into the draft with the date reduced to "YYYY-MM-DD", and the
// draft's user id is forced to the viewer regardless of who owns the
// reservation: a viewer can only act as themselves.
func (c *Controller) OpenEdit(target model.Reservation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	viewer, _ := c.creds.ViewerID()
	c.draftMode = DraftEditing
	c.editingID = target.ID
	c.draft = model.ReservationDraft{
		UserID:             viewer,
		ReservationDate:    target.Day(),
		ReservationDetails: target.ReservationDetails,
		ServiceTitle:       target.ServiceTitle,
	}
}

// CancelDraft closes the create/edit flow without submitting.  The
// draft is reset and the edit target forgotten.
func (c *Controller) CancelDraft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.draftMode = DraftClosed
	c.editingID = 0
	c.draft = c.emptyDraft()
}

// UpdateDraftField assigns a single draft field by its JSON name.  No
// validation is performed here; required fields are enforced by the
// remote API.  Unknown field names are ignored.
func (c *Controller) UpdateDraftField(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	switch field {
	case "userId":
		c.draft.UserID = value
	case "reservationDate":
		c.draft.ReservationDate = value
	case "reservationDetails":
		c.draft.ReservationDetails = value
	case "serviceTitle":
		c.draft.ServiceTitle = value
	}
}

// SubmitDraft submits the open draft: POST for a new reservation, PUT
// for an edit.  On success the flow is closed, the draft reset, the
// error cleared, and the list re-fetched for a fresh authoritative
// snapshot.  On failure only the error message changes and the flow
// stays open so the user can retry.  Calling with no open flow is a
// no-op.
//
// The user id sent is always the viewer's own, and the two branches
// deliberately differ in date format: create sends the bare
// "YYYY-MM-DD" the draft holds, while update expands it to a full
// RFC 3339 instant as the update endpoint expects.
func (c *Controller) SubmitDraft(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.draftMode == DraftClosed {
		c.mu.Unlock()
		return
	}
	mode := c.draftMode
	editingID := c.editingID
	draft := c.draft
	if viewer, ok := c.creds.ViewerID(); ok {
		draft.UserID = viewer
	}
	c.mu.Unlock()

	var (
		err     error
		failMsg string
	)
	switch mode {
	case DraftCreating:
		failMsg = MsgCreateFailed
		err = c.transport.Create(ctx, draft)
	case DraftEditing:
		failMsg = MsgUpdateFailed
		upd := draft
		if t, perr := model.ParseReservationDate(draft.ReservationDate); perr == nil {
			upd.ReservationDate = t.UTC().Format(time.RFC3339)
		}
		err = c.transport.Update(ctx, editingID, upd)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.errMsg = failMsg
		c.mu.Unlock()
		c.log.Warn().Err(err).Msg(failMsg)
		return
	}
	c.draftMode = DraftClosed
	c.editingID = 0
	c.draft = c.emptyDraft()
	c.errMsg = ""
	c.mu.Unlock()

	c.fetchList(ctx)
}

// RequestDelete records the reservation id awaiting deletion and opens
// the confirmation dialog.  No remote call happens until ConfirmDelete.
func (c *Controller) RequestDelete(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || id == 0 {
		return
	}
	c.pendingDelete = id
}

// CancelDelete closes the confirmation dialog without deleting.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.pendingDelete = 0
}

// ConfirmDelete issues the DELETE for the pending reservation.  Without
// a pending id it is a no-op.  On success the dialog closes, the error
// clears and the list is re-fetched; on failure the dialog stays open
// with an error message and the collection is left exactly as it was.
func (c *Controller) ConfirmDelete(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.pendingDelete == 0 {
		c.mu.Unlock()
		return
	}
	id := c.pendingDelete
	c.mu.Unlock()

	err := c.transport.Delete(ctx, id)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.errMsg = MsgDeleteFailed
		c.mu.Unlock()
		c.log.Warn().Err(err).Uint64("id", id).Msg(MsgDeleteFailed)
		return
	}
	c.pendingDelete = 0
	c.errMsg = ""
	c.mu.Unlock()

	c.fetchList(ctx)
}

// OpenView opens the read-only detail view for target.
func (c *Controller) OpenView(target model.Reservation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.viewOpen = true
	c.viewing = target
}

// CloseView closes the read-only detail view.
func (c *Controller) CloseView() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.viewOpen = false
	c.viewing = model.Reservation{}
}

// ApplyFilter validates the criteria locally and, when valid, replaces
// the collection with the filtered result of the public filter
// endpoint.  The filtered collection is deliberately not restricted to
// the viewer's own reservations.  Validation failures record their
// message and perform no remote call; remote failures record a message
// and leave the previous collection untouched.
func (c *Controller) ApplyFilter(ctx context.Context, criteria model.FilterCriteria) {
	if msg := validateFilter(criteria); msg != "" {
		c.mu.Lock()
		if !c.closed {
			c.errMsg = msg
		}
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.fetchSeq++
	seq := c.fetchSeq
	c.mu.Unlock()

	list, err := c.transport.Filter(ctx, criteria)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq <= c.appliedSeq {
		c.log.Debug().Uint64("seq", seq).Msg("discarding stale filter response")
		return
	}
	c.appliedSeq = seq
	if err != nil {
		c.errMsg = MsgFilterFailed
		c.log.Warn().Err(err).Msg(MsgFilterFailed)
		return
	}
	c.reservations = list
	c.errMsg = ""
}

// validateFilter checks the filter inputs in the order the user meets
// them and returns the first violation's message, or "" when valid.
func validateFilter(criteria model.FilterCriteria) string {
	if strings.TrimSpace(criteria.Username) == "" {
		return MsgFilterUsername
	}
	if strings.TrimSpace(criteria.ServiceTitle) == "" {
		return MsgFilterService
	}
	if criteria.StartDate.IsZero() || criteria.EndDate.IsZero() {
		return MsgFilterDateRange
	}
	if criteria.StartDate.After(criteria.EndDate) {
		return MsgFilterDateOrder
	}
	return ""
}
