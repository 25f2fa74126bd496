// Package store persists the authenticated session on disk.  It is the
// client-side counterpart of the browser's localStorage in the original
// frontend: exactly four keys (token, userId, email, username), written
// on login, removed on logout, and read by every authenticated view.
// From the sync controller's perspective the store is strictly
// read-only; only the login and logout flows write to it.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotLoggedIn is returned by Load when no session file exists.
var ErrNotLoggedIn = errors.New("not logged in")

// Session is a snapshot of the stored credentials.  A zero Session
// represents an unauthenticated guest: AccessToken and ViewerID report
// absence and every authenticated call will be refused locally.
//
// Fields:
//  Token    – bearer token returned by POST /users/login.
//  UserID   – id of the authenticated user, as a string.
//  Email    – email of the authenticated user.
//  Username – display name of the authenticated user.
type Session struct {
	Token    string `json:"token"`    // bearer token for the session
	UserID   string `json:"userId"`   // authenticated user id
	Email    string `json:"email"`    // authenticated user email
	Username string `json:"username"` // authenticated user name
}

// AccessToken reports the stored bearer token.  It satisfies the token
// source expected by the API transport.
func (s Session) AccessToken() (string, bool) { return s.Token, s.Token != "" }

// ViewerID reports the stored user id.  It satisfies the read-only
// credential capability expected by the sync controller.
func (s Session) ViewerID() (string, bool) { return s.UserID, s.UserID != "" }

// Expired reports whether the stored token carries an exp claim in the
// past.  The token is parsed without signature verification: the client
// does not know the server's signing secret, and the goal here is only
// to warn the user before a request is rejected, not to validate the
// token.  Tokens without a parseable exp claim are treated as live so
// the server remains the final authority.
func (s Session) Expired(now time.Time) bool {
	if s.Token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// FileStore reads and writes a Session as a JSON file.  The file is
// created with mode 0600 because it holds a live bearer token.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore at the given path.  The parent
// directory is created lazily on the first Save.
func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

// Load reads the stored session.  A missing file yields ErrNotLoggedIn;
// a corrupt file is reported as-is so the user can remove it.
func (f *FileStore) Load() (Session, error) {
	buf, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNotLoggedIn
		}
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(buf, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Save writes the session atomically: the JSON is written to a
// temporary file in the same directory and renamed over the target so a
// crash mid-write never leaves a truncated session behind.
func (f *FileStore) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	buf, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Clear removes the session file.  Clearing an absent session is not an
// error; logout is idempotent.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
