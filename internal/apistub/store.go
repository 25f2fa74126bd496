package apistub

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/reservation-client/internal/model"
)

// userRecord is a stored user.  Only the bcrypt hash of the password is
// kept, never the plain text.
type userRecord struct {
	ID           uint64
	Username     string
	Email        string
	PasswordHash string
}

// reservationRecord is a stored reservation.  The date is held as a
// time.Time with day precision so range filtering compares instants
// rather than strings; responses render it back as "YYYY-MM-DD".
type reservationRecord struct {
	ID      uint64
	UserID  uint64
	Date    time.Time
	Details string
	Title   string
}

// Store holds all users and reservations in memory, guarded by one
// mutex.  Reservations keep their insertion order, which is the order
// every list endpoint returns.
type Store struct {
	mu           sync.Mutex
	users        map[uint64]*userRecord
	byEmail      map[string]uint64
	byUsername   map[string]uint64
	reservations []*reservationRecord
	nextUserID   uint64
	nextResID    uint64
	bcryptCost   int
}

// NewStore returns an empty store.  The bcrypt cost applies to every
// password hashed by CreateUser.
func NewStore(bcryptCost int) *Store {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Store{
		users:      map[uint64]*userRecord{},
		byEmail:    map[string]uint64{},
		byUsername: map[string]uint64{},
		bcryptCost: bcryptCost,
	}
}

// CreateUser registers a new user and returns its id.  Emails are
// normalized to lower case; duplicates of either email or username are
// rejected with the corresponding sentinel error.
func (s *Store) CreateUser(username, email, password string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return 0, ErrEmailExists
	}
	if _, ok := s.byUsername[username]; ok {
		return 0, ErrUsernameExists
	}
	s.nextUserID++
	u := &userRecord{
		ID:           s.nextUserID,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	s.users[u.ID] = u
	s.byEmail[email] = u.ID
	s.byUsername[username] = u.ID
	return u.ID, nil
}

// Authenticate verifies an email/password pair and returns the matching
// user.  Unknown emails and wrong passwords both yield
// ErrInvalidCredentials so the two cases cannot be told apart.
func (s *Store) Authenticate(email, password string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	id, ok := s.byEmail[email]
	var rec *userRecord
	if ok {
		rec = s.users[id]
	}
	s.mu.Unlock()

	if rec == nil {
		return model.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return model.User{}, ErrInvalidCredentials
	}
	return model.User{ID: rec.ID, Username: rec.Username, Email: rec.Email}, nil
}

// UserByID returns the public view of a user.
func (s *Store) UserByID(id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return model.User{ID: rec.ID, Username: rec.Username, Email: rec.Email}, nil
}

// CreateReservation stores a new reservation owned by userID and
// returns its public form.
func (s *Store) CreateReservation(userID uint64, date time.Time, details, title string) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return model.Reservation{}, ErrUserNotFound
	}
	s.nextResID++
	r := &reservationRecord{
		ID:      s.nextResID,
		UserID:  userID,
		Date:    date.UTC().Truncate(24 * time.Hour),
		Details: details,
		Title:   title,
	}
	s.reservations = append(s.reservations, r)
	return s.publicLocked(r, rec), nil
}

// UpdateReservation replaces the mutable fields of a reservation.  The
// caller must be its owner.
func (s *Store) UpdateReservation(id, callerID uint64, date time.Time, details, title string) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reservations {
		if r.ID != id {
			continue
		}
		if r.UserID != callerID {
			return model.Reservation{}, ErrForbidden
		}
		r.Date = date.UTC().Truncate(24 * time.Hour)
		r.Details = details
		r.Title = title
		return s.publicLocked(r, s.users[r.UserID]), nil
	}
	return model.Reservation{}, ErrReservationNotFound
}

// DeleteReservation removes a reservation.  The caller must be its
// owner.
func (s *Store) DeleteReservation(id, callerID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.reservations {
		if r.ID != id {
			continue
		}
		if r.UserID != callerID {
			return ErrForbidden
		}
		s.reservations = append(s.reservations[:i], s.reservations[i+1:]...)
		return nil
	}
	return ErrReservationNotFound
}

// ListReservations returns every reservation in insertion order.
func (s *Store) ListReservations() []model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		out = append(out, s.publicLocked(r, s.users[r.UserID]))
	}
	return out
}

// ListByUser returns the reservations owned by userID in insertion
// order.
func (s *Store) ListByUser(userID uint64) []model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Reservation, 0)
	for _, r := range s.reservations {
		if r.UserID == userID {
			out = append(out, s.publicLocked(r, s.users[r.UserID]))
		}
	}
	return out
}

// FilterReservations returns the reservations matching an owner
// username, a service title and an inclusive date range.  Username and
// title comparisons are case-insensitive, matching the behavior of the
// real backend's filter endpoint.
func (s *Store) FilterReservations(username, title string, start, end time.Time) []model.Reservation {
	start = start.UTC().Truncate(24 * time.Hour)
	end = end.UTC().Truncate(24 * time.Hour)

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Reservation, 0)
	for _, r := range s.reservations {
		owner := s.users[r.UserID]
		if owner == nil {
			continue
		}
		if !strings.EqualFold(owner.Username, username) {
			continue
		}
		if !strings.EqualFold(r.Title, title) {
			continue
		}
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		out = append(out, s.publicLocked(r, owner))
	}
	return out
}

// publicLocked materializes the API form of a stored reservation.  The
// caller must hold s.mu.
func (s *Store) publicLocked(r *reservationRecord, owner *userRecord) model.Reservation {
	res := model.Reservation{
		ID:                 r.ID,
		ReservationDate:    model.FormatDay(r.Date),
		ReservationDetails: r.Details,
		ServiceTitle:       r.Title,
	}
	if owner != nil {
		res.User = model.User{ID: owner.ID, Username: owner.Username, Email: owner.Email}
	}
	return res
}
