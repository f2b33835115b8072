// Package model defines the core domain types for the event registration client.
package model

import "time"

// Role is the authorization level attached to a user account.
type Role string

// Roles recognised by the backend.
const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is one of the recognised roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents an account record as stored by the backend.
// The password field round-trips because the development backend does
// credential matching by query filter; real deployments would never return it.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// Event represents a bookable event created by an organizer.
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Capacity    int    `json:"capacity"`
	OrganizerID int64  `json:"organizerId"`
}

// RemainingSeats returns the seats left given the current registration count,
// clamped at zero so an over-booked event never reports a negative number.
func (e *Event) RemainingSeats(registered int) int {
	return Remaining(e.Capacity, registered)
}

// Remaining computes max(capacity - registered, 0).
func Remaining(capacity, registered int) int {
	if remaining := capacity - registered; remaining > 0 {
		return remaining
	}
	return 0
}

// Registration links a user to an event.
type Registration struct {
	ID        string `json:"id"`
	UserID    int64  `json:"userId"`
	EventID   int64  `json:"eventId"`
	CreatedAt string `json:"createdAt"`
}

// Session is the authenticated identity held by the client between logins.
// Absence of a session is always represented as a nil *Session, never as a
// partially filled value.
type Session struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Token  string `json:"token"`
}

// NotificationType classifies a transient user-facing notification.
type NotificationType string

// Notification types understood by the presentation layer.
const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
)

// Notification is a short-lived message shown to the user. At most one is
// visible at a time; nil means the slot is empty.
type Notification struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

// LoginRequest carries the credentials for an authentication attempt.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for creating a new account.
// New accounts always receive RoleUser.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Capacity    int    `json:"capacity"`
}

// UpdateEventRequest is a partial update; nil fields are left untouched.
type UpdateEventRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Timestamp formats t the way the backend stores createdAt fields.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
