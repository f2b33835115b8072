package auth

import (
	"encoding/json"

	"github.com/eventsphere/client-core/internal/model"
	"github.com/eventsphere/client-core/internal/storage"
)

// TokenFromStore supplies bearer tokens by reading the persisted session
// record directly from storage. Wiring the token source against storage
// instead of the SessionStore breaks the construction cycle between the
// resource client and the session store: storage exists before either.
type TokenFromStore struct {
	store storage.KeyValueStore
}

// NewTokenFromStore builds a token source over store.
func NewTokenFromStore(store storage.KeyValueStore) *TokenFromStore {
	return &TokenFromStore{store: store}
}

// Token returns the persisted session's token, if a session exists. Any read
// or decode problem is reported as "no token"; requests then simply go out
// unauthenticated.
func (t *TokenFromStore) Token() (string, bool) {
	raw, ok, err := t.store.Get(StorageKey)
	if err != nil || !ok {
		return "", false
	}
	var sess model.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.Token == "" {
		return "", false
	}
	return sess.Token, true
}
