package model

// User is an application user as reported by the reservation API.  The
// client treats users as read-only; they are never constructed locally
// except as the denormalized owner field of a Reservation.
//
// Fields:
//  ID       – server-assigned identifier.
//  Username – unique display name chosen at registration.
//  Email    – unique email address used to log in.
type User struct {
	ID       uint64 `json:"id"`       // user identifier
	Username string `json:"username"` // display name
	Email    string `json:"email"`    // login email
}

// LoginRequest is the JSON body of POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /users/login.  Every field
// is persisted in the credential store so authenticated views can read
// them back without another round-trip.
//
// Fields:
//  Token    – bearer token attached to authenticated requests.
//  UserID   – id of the authenticated user, as a string.
//  Email    – email of the authenticated user.
//  Username – display name of the authenticated user.
type LoginResponse struct {
	Token    string `json:"token"`    // bearer token for the session
	UserID   string `json:"userId"`   // authenticated user id
	Email    string `json:"email"`    // authenticated user email
	Username string `json:"username"` // authenticated user name
}

// RegisterRequest is the JSON body of POST /users/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
