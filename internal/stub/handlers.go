package stub

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eventsphere/client-core/internal/model"
)

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	return json.NewDecoder(r.Body).Decode(dst)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// Router builds the chi router exposing the consumed REST surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.listUsers)
		r.Post("/", s.createUser)
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", s.listEvents)
		r.Post("/", s.createEvent)
		r.Get("/{id}", s.getEvent)
		r.Put("/{id}", s.updateEvent)
		r.Delete("/{id}", s.deleteEvent)
	})

	r.Route("/registrations", func(r chi.Router) {
		r.Get("/", s.listRegistrations)
		r.Post("/", s.createRegistration)
		r.Delete("/{id}", s.deleteRegistration)
	})

	return r
}

// ─── Users ────────────────────────────────────────────────────────────────────

// listUsers handles GET /users, optionally filtered by exact email and
// password match. This is how the client does credential lookups.
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	password := r.URL.Query().Get("password")

	s.mu.RLock()
	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		if email != "" && u.Email != email {
			continue
		}
		if password != "" && u.Password != password {
			continue
		}
		users = append(users, u)
	}
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	writeJSON(w, http.StatusOK, users)
}

// createUser handles POST /users.
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var u model.User
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if u.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	writeJSON(w, http.StatusCreated, s.AddUser(u))
}

// ─── Events ───────────────────────────────────────────────────────────────────

// listEvents handles GET /events.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	events := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		events = append(events, e)
	}
	s.mu.RUnlock()

	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	writeJSON(w, http.StatusOK, events)
}

// createEvent handles POST /events.
func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var e model.Event
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s.AddEvent(e))
}

// getEvent handles GET /events/{id}.
func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	s.mu.RLock()
	e, found := s.events[id]
	s.mu.RUnlock()
	if !found {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// updateEvent handles PUT /events/{id}. Only the fields present in the body
// are changed.
func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req model.UpdateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.mu.Lock()
	e, found := s.events[id]
	if found {
		if req.Title != nil {
			e.Title = *req.Title
		}
		if req.Description != nil {
			e.Description = *req.Description
		}
		if req.Location != nil {
			e.Location = *req.Location
		}
		if req.StartDate != nil {
			e.StartDate = *req.StartDate
		}
		if req.EndDate != nil {
			e.EndDate = *req.EndDate
		}
		if req.Capacity != nil {
			e.Capacity = *req.Capacity
		}
		s.events[id] = e
	}
	s.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// deleteEvent handles DELETE /events/{id}.
func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	s.mu.Lock()
	_, found := s.events[id]
	delete(s.events, id)
	s.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

// ─── Registrations ────────────────────────────────────────────────────────────

// listRegistrations handles GET /registrations with optional userId and
// eventId filters.
func (s *Server) listRegistrations(w http.ResponseWriter, r *http.Request) {
	var userID, eventID int64
	if v := r.URL.Query().Get("userId"); v != "" {
		userID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := r.URL.Query().Get("eventId"); v != "" {
		eventID, _ = strconv.ParseInt(v, 10, 64)
	}

	s.mu.RLock()
	regs := make([]model.Registration, 0, len(s.regs))
	for _, reg := range s.regs {
		if userID != 0 && reg.UserID != userID {
			continue
		}
		if eventID != 0 && reg.EventID != eventID {
			continue
		}
		regs = append(regs, reg)
	}
	s.mu.RUnlock()

	sort.Slice(regs, func(i, j int) bool { return regs[i].CreatedAt < regs[j].CreatedAt })
	writeJSON(w, http.StatusOK, regs)
}

// createRegistration handles POST /registrations.
func (s *Server) createRegistration(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	if err := decodeJSON(r, &reg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if reg.UserID == 0 || reg.EventID == 0 {
		writeError(w, http.StatusBadRequest, "userId and eventId are required")
		return
	}
	writeJSON(w, http.StatusCreated, s.AddRegistration(reg))
}

// deleteRegistration handles DELETE /registrations/{id}.
func (s *Server) deleteRegistration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	_, found := s.regs[id]
	delete(s.regs, id)
	s.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "registration not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}
