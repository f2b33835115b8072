// Package events implements the event catalog: CRUD over the remote REST
// resource, registration lifecycle, and the concurrent remaining-seat
// aggregation.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eventsphere/client-core/internal/api"
	"github.com/eventsphere/client-core/internal/model"
)

// ErrAggregate marks a failed seat aggregation: at least one per-event lookup
// failed, so no partial result is available.
var ErrAggregate = errors.New("seat aggregation failed")

// Catalog orchestrates event and registration operations. It holds no state
// of its own; every call is remote I/O plus pure computation.
type Catalog struct {
	res api.Resource
	now func() time.Time
}

// NewCatalog constructs a Catalog over the given resource.
func NewCatalog(res api.Resource) *Catalog {
	return &Catalog{res: res, now: time.Now}
}

// All returns every event.
func (c *Catalog) All(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := c.res.Get(ctx, "events", &events); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ByID returns a single event, or api.ErrNotFound.
func (c *Catalog) ByID(ctx context.Context, id int64) (*model.Event, error) {
	var event model.Event
	if err := c.res.Get(ctx, fmt.Sprintf("events/%d", id), &event); err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	return &event, nil
}

// newEvent is the creation payload: an event without an id, which the backend
// assigns.
type newEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Capacity    int    `json:"capacity"`
	OrganizerID int64  `json:"organizerId"`
}

// Create validates the request and creates the event on behalf of organizerID.
func (c *Catalog) Create(ctx context.Context, req model.CreateEventRequest, organizerID int64) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be a positive integer")
	}
	if req.StartDate != "" && req.EndDate != "" && req.EndDate < req.StartDate {
		return nil, fmt.Errorf("end date must not precede start date")
	}

	payload := newEvent{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Capacity:    req.Capacity,
		OrganizerID: organizerID,
	}

	var event model.Event
	if err := c.res.Post(ctx, "events", payload, &event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &event, nil
}

// Update applies a partial update to the event.
func (c *Catalog) Update(ctx context.Context, id int64, req model.UpdateEventRequest) (*model.Event, error) {
	if req.Capacity != nil && *req.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be a positive integer")
	}

	var event model.Event
	if err := c.res.Put(ctx, fmt.Sprintf("events/%d", id), req, &event); err != nil {
		return nil, fmt.Errorf("update event %d: %w", id, err)
	}
	return &event, nil
}

// Delete removes the event.
func (c *Catalog) Delete(ctx context.Context, id int64) error {
	if err := c.res.Delete(ctx, fmt.Sprintf("events/%d", id)); err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	return nil
}

// RegistrationsByUser returns all registrations held by a user.
func (c *Catalog) RegistrationsByUser(ctx context.Context, userID int64) ([]model.Registration, error) {
	var regs []model.Registration
	if err := c.res.Get(ctx, fmt.Sprintf("registrations?userId=%d", userID), &regs); err != nil {
		return nil, fmt.Errorf("list registrations for user %d: %w", userID, err)
	}
	return regs, nil
}

// RegistrationsByEvent returns all registrations for an event.
func (c *Catalog) RegistrationsByEvent(ctx context.Context, eventID int64) ([]model.Registration, error) {
	var regs []model.Registration
	if err := c.res.Get(ctx, fmt.Sprintf("registrations?eventId=%d", eventID), &regs); err != nil {
		return nil, fmt.Errorf("list registrations for event %d: %w", eventID, err)
	}
	return regs, nil
}

// newRegistration is the creation payload; the backend assigns the id.
type newRegistration struct {
	UserID    int64  `json:"userId"`
	EventID   int64  `json:"eventId"`
	CreatedAt string `json:"createdAt"`
}

// RegisterToEvent registers the user for the event, stamping the creation
// time at call issuance. Uniqueness of (user, event) is not enforced here;
// callers are expected to check IsRegistered first, and concurrent attempts
// can still produce duplicates.
func (c *Catalog) RegisterToEvent(ctx context.Context, userID, eventID int64) (*model.Registration, error) {
	payload := newRegistration{
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: model.Timestamp(c.now()),
	}

	var reg model.Registration
	if err := c.res.Post(ctx, "registrations", payload, &reg); err != nil {
		return nil, fmt.Errorf("register user %d to event %d: %w", userID, eventID, err)
	}
	return &reg, nil
}

// CancelRegistration deletes a registration by id.
func (c *Catalog) CancelRegistration(ctx context.Context, id string) error {
	if err := c.res.Delete(ctx, "registrations/"+id); err != nil {
		return fmt.Errorf("cancel registration %s: %w", id, err)
	}
	return nil
}

// IsRegistered reports whether regs contains a registration for eventID.
// This is the optimistic client-side duplicate check performed before
// RegisterToEvent.
func IsRegistered(regs []model.Registration, eventID int64) bool {
	for _, reg := range regs {
		if reg.EventID == eventID {
			return true
		}
	}
	return false
}

// RemainingSeatsForEvent fetches the event's registrations and returns the
// remaining capacity, clamped at zero.
func (c *Catalog) RemainingSeatsForEvent(ctx context.Context, ev *model.Event) (int, error) {
	regs, err := c.RegistrationsByEvent(ctx, ev.ID)
	if err != nil {
		return 0, err
	}
	return ev.RemainingSeats(len(regs)), nil
}

// RemainingSeatsByEvent computes the remaining seats for every event in one
// concurrent fan-out: one registration lookup per event, all started
// together. The result has an entry for every input event regardless of the
// order the lookups complete in. If any lookup fails, the whole call fails
// with ErrAggregate, outstanding lookups are cancelled, and no partial map is
// returned. An empty input yields an empty map without any remote call.
func (c *Catalog) RemainingSeatsByEvent(ctx context.Context, evs []model.Event) (map[int64]int, error) {
	seats := make(map[int64]int, len(evs))
	if len(evs) == 0 {
		return seats, nil
	}

	// One result slot per input index; the join below zips by index, not by
	// arrival order.
	counts := make([]int, len(evs))

	g, ctx := errgroup.WithContext(ctx)
	for i, ev := range evs {
		i, ev := i, ev
		g.Go(func() error {
			regs, err := c.RegistrationsByEvent(ctx, ev.ID)
			if err != nil {
				return err
			}
			counts[i] = len(regs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAggregate, err)
	}

	for i, ev := range evs {
		seats[ev.ID] = ev.RemainingSeats(counts[i])
	}
	return seats, nil
}
