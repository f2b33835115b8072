package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsphere/client-core/internal/model"
	"github.com/eventsphere/client-core/internal/storage"
)

// fakeResource serves canned user lists for Get and echoes created accounts
// for Post. Only the operations the session store uses are implemented.
type fakeResource struct {
	users    []model.User
	err      error
	getPaths []string
	posted   map[string]any
}

func (f *fakeResource) Get(_ context.Context, path string, out any) error {
	f.getPaths = append(f.getPaths, path)
	if f.err != nil {
		return f.err
	}
	raw, err := json.Marshal(f.users)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeResource) Post(_ context.Context, path string, body, out any) error {
	if f.err != nil {
		return f.err
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	f.posted = map[string]any{}
	if err := json.Unmarshal(raw, &f.posted); err != nil {
		return err
	}
	f.posted["path"] = path
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return err
		}
		if u, ok := out.(*model.User); ok {
			u.ID = 99
		}
	}
	return nil
}

func (f *fakeResource) Put(context.Context, string, any, any) error { return nil }
func (f *fakeResource) Delete(context.Context, string) error        { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func alice() model.User {
	return model.User{
		ID: 7, Email: "alice@example.com", Password: "s3cret",
		FirstName: "Alice", LastName: "Ampere", Role: model.RoleAdmin,
	}
}

func TestNewSessionStore_NoPersistedData(t *testing.T) {
	s := NewSessionStore(storage.NewMemory(), &fakeResource{}, testLogger())

	_, ok := s.CurrentUserID()
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated().Get())
	assert.Empty(t, s.Role().Get())
	assert.Empty(t, s.Email().Get())
}

func TestNewSessionStore_RestoresPersistedSession(t *testing.T) {
	store := storage.NewMemory()
	require.NoError(t, store.Set(StorageKey,
		`{"userId":7,"email":"alice@example.com","role":"ADMIN","token":"fake-token-7"}`))

	s := NewSessionStore(store, &fakeResource{}, testLogger())

	id, ok := s.CurrentUserID()
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
	role, ok := s.CurrentRole()
	require.True(t, ok)
	assert.Equal(t, model.RoleAdmin, role)
	assert.Equal(t, "alice@example.com", s.Email().Get())
	assert.True(t, s.IsAuthenticated().Get())
}

func TestNewSessionStore_MalformedDataTreatedAsNoSession(t *testing.T) {
	for name, raw := range map[string]string{
		"garbage":     `{not json`,
		"wrong shape": `{"userId":0,"email":"","role":"","token":""}`,
		"bad role":    `{"userId":3,"email":"x@y.z","role":"ROOT","token":"t"}`,
	} {
		t.Run(name, func(t *testing.T) {
			store := storage.NewMemory()
			require.NoError(t, store.Set(StorageKey, raw))

			s := NewSessionStore(store, &fakeResource{}, testLogger())

			assert.False(t, s.IsAuthenticated().Get())
			_, ok, err := store.Get(StorageKey)
			require.NoError(t, err)
			assert.False(t, ok, "malformed record should be discarded from storage")
		})
	}
}

func TestLogin_ExactlyOneMatchEstablishesSession(t *testing.T) {
	store := storage.NewMemory()
	res := &fakeResource{users: []model.User{alice()}}
	s := NewSessionStore(store, res, testLogger())

	user, err := s.Login(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)

	// Lookup must filter by exact email and password.
	require.Len(t, res.getPaths, 1)
	assert.Equal(t, "users?email=alice%40example.com&password=s3cret", res.getPaths[0])

	// In-memory state reflects the new identity.
	id, ok := s.CurrentUserID()
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
	assert.True(t, s.IsAuthenticated().Get())
	assert.Equal(t, model.RoleAdmin, s.Role().Get())

	// The persisted record carries the pseudo-token bound to the user id.
	sess, err := s.AuthStorage()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, &model.Session{
		UserID: 7,
		Email:  "alice@example.com",
		Role:   model.RoleAdmin,
		Token:  "fake-token-7",
	}, sess)
}

func TestLogin_PersistsBeforePublishing(t *testing.T) {
	store := storage.NewMemory()
	s := NewSessionStore(store, &fakeResource{users: []model.User{alice()}}, testLogger())

	durableAtPublish := false
	cancel := s.SubscribeSession(func(sess *model.Session) {
		if sess == nil {
			return
		}
		_, ok, err := store.Get(StorageKey)
		durableAtPublish = err == nil && ok
	})
	defer cancel()

	_, err := s.Login(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.True(t, durableAtPublish,
		"subscribers must never observe a session that is not yet durable")
}

func TestLogin_ZeroOrMultipleMatchesFails(t *testing.T) {
	for name, users := range map[string][]model.User{
		"zero":     {},
		"multiple": {alice(), {ID: 8, Email: "alice@example.com", Role: model.RoleUser}},
	} {
		t.Run(name, func(t *testing.T) {
			store := storage.NewMemory()
			s := NewSessionStore(store, &fakeResource{users: users}, testLogger())

			user, err := s.Login(context.Background(), "alice@example.com", "wrong")
			require.NoError(t, err)
			assert.Nil(t, user)

			assert.False(t, s.IsAuthenticated().Get())
			_, ok, err := store.Get(StorageKey)
			require.NoError(t, err)
			assert.False(t, ok, "failed login must not touch storage")
		})
	}
}

func TestLogin_TransportErrorPropagatesWithoutStateChange(t *testing.T) {
	boom := errors.New("connection refused")
	store := storage.NewMemory()
	s := NewSessionStore(store, &fakeResource{err: boom}, testLogger())

	_, err := s.Login(context.Background(), "alice@example.com", "s3cret")
	require.ErrorIs(t, err, boom)
	assert.False(t, s.IsAuthenticated().Get())
}

func TestRegister_AlwaysCreatesRegularUser(t *testing.T) {
	res := &fakeResource{}
	s := NewSessionStore(storage.NewMemory(), res, testLogger())

	user, err := s.Register(context.Background(), model.RegisterRequest{
		Email: "bob@example.com", Password: "pw",
		FirstName: "Bob", LastName: "Builder",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), user.ID)
	assert.Equal(t, model.RoleUser, user.Role)

	assert.Equal(t, "users", res.posted["path"])
	assert.Equal(t, string(model.RoleUser), res.posted["role"])
	_, hasID := res.posted["id"]
	assert.False(t, hasID, "the backend assigns ids")

	// Registration does not log anyone in.
	assert.False(t, s.IsAuthenticated().Get())
}

func TestLogout_ClearsStateAndStorageUnconditionally(t *testing.T) {
	store := storage.NewMemory()
	s := NewSessionStore(store, &fakeResource{users: []model.User{alice()}}, testLogger())

	_, err := s.Login(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)

	var published []*model.Session
	cancel := s.SubscribeSession(func(sess *model.Session) { published = append(published, sess) })
	defer cancel()

	s.Logout()

	assert.False(t, s.IsAuthenticated().Get())
	_, ok, err := store.Get(StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, published, 2) // current value, then the nil publish
	assert.Nil(t, published[1])

	// Logging out while logged out still publishes "no session".
	s.Logout()
	require.Len(t, published, 3)
	assert.Nil(t, published[2])
}

func TestTokenFromStore(t *testing.T) {
	store := storage.NewMemory()
	tokens := NewTokenFromStore(store)

	_, ok := tokens.Token()
	assert.False(t, ok, "no session, no token")

	require.NoError(t, store.Set(StorageKey, `{"userId":7,"token":"fake-token-7"}`))
	tok, ok := tokens.Token()
	require.True(t, ok)
	assert.Equal(t, "fake-token-7", tok)

	require.NoError(t, store.Set(StorageKey, `{broken`))
	_, ok = tokens.Token()
	assert.False(t, ok, "malformed record yields no token")
}
