// Package auth owns the authenticated identity: restoring it from local
// storage, establishing it at login, and exposing it to the rest of the
// client as snapshot reads and live streams.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/eventsphere/client-core/internal/api"
	"github.com/eventsphere/client-core/internal/model"
	"github.com/eventsphere/client-core/internal/storage"
	"github.com/eventsphere/client-core/internal/stream"
)

// StorageKey is the fixed key the persisted session lives under.
const StorageKey = "auth"

// SessionStore is the single writer of the client's identity state. All
// mutation goes through Login and Logout; everyone else reads snapshots or
// subscribes to the derived streams.
type SessionStore struct {
	store  storage.KeyValueStore
	res    api.Resource
	logger *slog.Logger

	session *stream.Value[*model.Session]

	isAuthenticated *stream.View[bool]
	role            *stream.View[model.Role]
	email           *stream.View[string]
}

// NewSessionStore builds the store and restores any persisted session before
// returning, so guards constructed afterwards always see settled state.
// Malformed or unreadable persisted data is discarded and treated as "no
// session" rather than failing construction.
func NewSessionStore(store storage.KeyValueStore, res api.Resource, logger *slog.Logger) *SessionStore {
	s := &SessionStore{
		store:   store,
		res:     res,
		logger:  logger,
		session: stream.New[*model.Session](nil),
	}
	s.isAuthenticated = stream.Map(s.session, func(sess *model.Session) bool {
		return sess != nil
	})
	s.role = stream.Map(s.session, func(sess *model.Session) model.Role {
		if sess == nil {
			return ""
		}
		return sess.Role
	})
	s.email = stream.Map(s.session, func(sess *model.Session) string {
		if sess == nil {
			return ""
		}
		return sess.Email
	})

	s.restore()
	return s
}

// restore loads the persisted session, if any. Runs exactly once, from the
// constructor.
func (s *SessionStore) restore() {
	raw, ok, err := s.store.Get(StorageKey)
	if err != nil {
		s.logger.Warn("session storage unreadable, starting unauthenticated", "error", err)
		return
	}
	if !ok {
		return
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.UserID == 0 || !sess.Role.Valid() {
		// Undecodable or structurally wrong data must not take the whole
		// client down; drop it and start unauthenticated.
		s.logger.Warn("discarding malformed persisted session", "error", err)
		if err := s.store.Delete(StorageKey); err != nil {
			s.logger.Warn("could not remove malformed session", "error", err)
		}
		return
	}

	s.session.Set(&sess)
}

// Login checks the credentials against the backend. Exactly one matching
// account establishes a session; zero or multiple matches return (nil, nil)
// and leave both memory and storage untouched. Transport failures propagate.
//
// The session is written to storage before it is published, so no subscriber
// can observe an authenticated state that is not yet durable.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*model.User, error) {
	query := url.Values{}
	query.Set("email", email)
	query.Set("password", password)

	var users []model.User
	if err := s.res.Get(ctx, "users?"+query.Encode(), &users); err != nil {
		return nil, fmt.Errorf("login lookup: %w", err)
	}
	if len(users) != 1 {
		return nil, nil
	}

	user := users[0]
	sess := &model.Session{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Token:  fmt.Sprintf("fake-token-%d", user.ID),
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(StorageKey, string(raw)); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.session.Set(sess)
	s.logger.Info("session established", "userId", user.ID, "role", user.Role)
	return &user, nil
}

// newAccount is the registration payload: a user without an id, which the
// backend assigns.
type newAccount struct {
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      model.Role `json:"role"`
}

// Register creates a new account. Every new account gets RoleUser. The
// current session, if any, is not affected.
func (s *SessionStore) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	payload := newAccount{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.RoleUser,
	}

	var user model.User
	if err := s.res.Post(ctx, "users", payload, &user); err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}
	return &user, nil
}

// Logout removes the persisted session and publishes "no session". It is
// unconditional: logging out while logged out is a no-op that still publishes.
func (s *SessionStore) Logout() {
	if err := s.store.Delete(StorageKey); err != nil {
		s.logger.Warn("could not clear persisted session", "error", err)
	}
	s.session.Set(nil)
	s.logger.Info("session cleared")
}

// CurrentUserID returns the id of the logged-in user, if any.
func (s *SessionStore) CurrentUserID() (int64, bool) {
	if sess := s.session.Get(); sess != nil {
		return sess.UserID, true
	}
	return 0, false
}

// CurrentRole returns the role of the logged-in user, if any.
func (s *SessionStore) CurrentRole() (model.Role, bool) {
	if sess := s.session.Get(); sess != nil {
		return sess.Role, true
	}
	return "", false
}

// AuthStorage reads the persisted session record straight from storage,
// bypassing the in-memory state.
func (s *SessionStore) AuthStorage() (*model.Session, error) {
	raw, ok, err := s.store.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read persisted session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var sess model.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode persisted session: %w", err)
	}
	return &sess, nil
}

// SubscribeSession registers fn for the raw session stream; fn receives the
// current value immediately, then every change until cancel is called.
func (s *SessionStore) SubscribeSession(fn func(*model.Session)) (cancel func()) {
	return s.session.Subscribe(fn)
}

// IsAuthenticated is the live boolean view of whether a session exists.
func (s *SessionStore) IsAuthenticated() *stream.View[bool] { return s.isAuthenticated }

// Role is the live view of the current role; empty string when logged out.
func (s *SessionStore) Role() *stream.View[model.Role] { return s.role }

// Email is the live view of the current email; empty string when logged out.
func (s *SessionStore) Email() *stream.View[string] { return s.email }
