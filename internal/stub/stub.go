// Package stub is an in-memory implementation of the REST backend the client
// core consumes (json-server style: query-filter lookups, server-assigned
// ids). It backs local development and the integration tests; production
// deployments point the client at a real backend instead.
package stub

import (
	"sync"

	"github.com/eventsphere/client-core/internal/model"
	"github.com/google/uuid"
)

// Server holds the in-memory datasets.
type Server struct {
	mu          sync.RWMutex
	users       map[int64]model.User
	events      map[int64]model.Event
	regs        map[string]model.Registration
	nextUserID  int64
	nextEventID int64
}

// NewServer creates an empty backend.
func NewServer() *Server {
	return &Server{
		users:  make(map[int64]model.User),
		events: make(map[int64]model.Event),
		regs:   make(map[string]model.Registration),
	}
}

// AddUser inserts a user, assigning an id, and returns the stored record.
func (s *Server) AddUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	u.ID = s.nextUserID
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	s.users[u.ID] = u
	return u
}

// AddEvent inserts an event, assigning an id, and returns the stored record.
func (s *Server) AddEvent(e model.Event) model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEventID++
	e.ID = s.nextEventID
	s.events[e.ID] = e
	return e
}

// AddRegistration inserts a registration, assigning a uuid, and returns the
// stored record. No (user, event) uniqueness is enforced, matching the
// behavior of the development backend the original client ran against.
func (s *Server) AddRegistration(r model.Registration) model.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = uuid.New().String()
	s.regs[r.ID] = r
	return r
}

// Seed fills the backend with a small demo dataset: one admin, one regular
// user, and a pair of events.
func (s *Server) Seed() {
	admin := s.AddUser(model.User{
		Email: "admin@example.com", Password: "admin123",
		FirstName: "Ada", LastName: "Admin", Role: model.RoleAdmin,
	})
	user := s.AddUser(model.User{
		Email: "user@example.com", Password: "user123",
		FirstName: "Uli", LastName: "User", Role: model.RoleUser,
	})
	goConf := s.AddEvent(model.Event{
		Title: "GopherConf", Description: "Two days of Go talks",
		Location: "Berlin", StartDate: "2026-10-01", EndDate: "2026-10-02",
		Capacity: 120, OrganizerID: admin.ID,
	})
	s.AddEvent(model.Event{
		Title: "DB Meetup", Description: "Evening meetup on storage engines",
		Location: "Amsterdam", StartDate: "2026-11-12", EndDate: "2026-11-12",
		Capacity: 40, OrganizerID: admin.ID,
	})
	s.AddRegistration(model.Registration{
		UserID: user.ID, EventID: goConf.ID, CreatedAt: "2026-08-01T10:00:00Z",
	})
}
