package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TamilFM/core/gateway"
	"TamilFM/model"
)

func signedToken(t *testing.T, sub, email string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"exp":   exp.Unix(),
	})
	// The store never verifies the signature; any key works.
	s, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

// recorder collects session notifications in order.
type recorder struct {
	mu     sync.Mutex
	states []model.SessionState
}

func (r *recorder) record(s model.SessionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) all() []model.SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.SessionState(nil), r.states...)
}

func newTestStore(t *testing.T, backend http.Handler) (*Store, *CredentialStore) {
	t.Helper()
	var gw *gateway.Client
	if backend != nil {
		srv := httptest.NewServer(backend)
		t.Cleanup(srv.Close)
		gw = gateway.NewClient(srv.URL, "anon", nil)
	} else {
		gw = gateway.NewClient("http://127.0.0.1:0", "anon", nil)
	}
	creds := NewCredentialStore(filepath.Join(t.TempDir(), "credentials.json"))
	return NewStore(gw, creds), creds
}

func TestRestore_NoCredentialNotifiesExactlyOnce(t *testing.T) {
	store, _ := newTestStore(t, nil)
	rec := &recorder{}
	store.Subscribe(rec.record)

	store.Restore()

	states := rec.all()
	require.Len(t, states, 1)
	assert.Equal(t, model.Unauthenticated, states[0].Status)
	assert.False(t, states[0].Loading)
	assert.Nil(t, states[0].Identity)
}

func TestRestore_ValidTokenAuthenticates(t *testing.T) {
	store, creds := newTestStore(t, nil)
	token := signedToken(t, "u-1", "a@b.com", time.Now().Add(time.Hour))
	require.NoError(t, creds.Save(&Credentials{
		AccessToken: token,
		User:        model.Identity{ID: "u-1", Email: "a@b.com"},
	}))

	store.Restore()

	state := store.State()
	assert.Equal(t, model.Authenticated, state.Status)
	require.NotNil(t, state.Identity)
	assert.Equal(t, "a@b.com", state.Identity.Email)
	assert.Equal(t, token, store.Token())
}

func TestRestore_ExpiredTokenClearsCredential(t *testing.T) {
	store, creds := newTestStore(t, nil)
	require.NoError(t, creds.Save(&Credentials{
		AccessToken: signedToken(t, "u-1", "a@b.com", time.Now().Add(-time.Hour)),
	}))

	store.Restore()

	assert.Equal(t, model.Unauthenticated, store.State().Status)
	left, err := creds.Load()
	require.NoError(t, err)
	assert.Nil(t, left, "expired credential must be removed")
}

func TestRestore_GarbageTokenStaysUnauthenticated(t *testing.T) {
	store, creds := newTestStore(t, nil)
	require.NoError(t, creds.Save(&Credentials{AccessToken: "not-a-jwt"}))

	store.Restore()

	assert.Equal(t, model.Unauthenticated, store.State().Status)
}

// authBackend fakes the credential and table endpoints used by sign-in/up.
type authBackend struct {
	mu             sync.Mutex
	accounts       map[string]string // email -> password
	profileInserts []map[string]string
	failInsert     bool
	signIns        int
}

func newAuthBackend() *authBackend {
	return &authBackend{accounts: map[string]string{}}
}

func (b *authBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch r.URL.Path {
	case "/auth/v1/token":
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if b.accounts[req["email"]] != req["password"] || req["password"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
			return
		}
		b.signIns++
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-" + req["email"],
			"user":         map[string]string{"id": "id-" + req["email"], "email": req["email"]},
		})
	case "/auth/v1/signup":
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if _, exists := b.accounts[req["email"]]; exists {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
			return
		}
		b.accounts[req["email"]] = req["password"]
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{"id": "id-" + req["email"], "email": req["email"]},
		})
	case "/rest/v1/profiles":
		if b.failInsert {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "insert failed"})
			return
		}
		var row map[string]string
		json.NewDecoder(r.Body).Decode(&row)
		b.profileInserts = append(b.profileInserts, row)
		w.WriteHeader(http.StatusCreated)
	case "/auth/v1/logout":
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func TestSignIn_SuccessPersistsAndNotifies(t *testing.T) {
	backend := newAuthBackend()
	backend.accounts["a@b.com"] = "secret1"
	store, creds := newTestStore(t, backend)
	rec := &recorder{}
	store.Subscribe(rec.record)

	require.NoError(t, store.SignIn(context.Background(), "a@b.com", "secret1"))

	state := store.State()
	assert.Equal(t, model.Authenticated, state.Status)
	assert.Equal(t, "a@b.com", state.Identity.Email)

	saved, err := creds.Load()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "tok-a@b.com", saved.AccessToken)

	require.Len(t, rec.all(), 1)
}

func TestSignIn_FailureLeavesStateUntouched(t *testing.T) {
	backend := newAuthBackend()
	store, _ := newTestStore(t, backend)
	store.Restore()
	rec := &recorder{}
	store.Subscribe(rec.record)

	err := store.SignIn(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrAuth)

	assert.Equal(t, model.Unauthenticated, store.State().Status)
	assert.Empty(t, rec.all(), "failed sign-in must not notify")
}

func TestSignUp_FullScenario(t *testing.T) {
	backend := newAuthBackend()
	store, _ := newTestStore(t, backend)

	err := store.SignUp(context.Background(), "a@b.com", "secret1", "A B")
	require.NoError(t, err)

	state := store.State()
	assert.Equal(t, model.Authenticated, state.Status)
	require.NotNil(t, state.Identity)
	assert.Equal(t, "a@b.com", state.Identity.Email)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	require.Len(t, backend.profileInserts, 1)
	assert.Equal(t, "a@b.com", backend.profileInserts[0]["email"])
	assert.Equal(t, "A B", backend.profileInserts[0]["full_name"])
	assert.Equal(t, "id-a@b.com", backend.profileInserts[0]["id"])
	assert.Equal(t, 1, backend.signIns)
}

func TestSignUp_ProfileInsertFailureAbortsSignIn(t *testing.T) {
	backend := newAuthBackend()
	backend.failInsert = true
	store, _ := newTestStore(t, backend)

	err := store.SignUp(context.Background(), "a@b.com", "secret1", "A B")
	require.Error(t, err)

	// The account exists (not rolled back) but no sign-in was attempted.
	backend.mu.Lock()
	_, accountExists := backend.accounts["a@b.com"]
	signIns := backend.signIns
	backend.mu.Unlock()
	assert.True(t, accountExists)
	assert.Equal(t, 0, signIns)
	assert.Equal(t, model.Unauthenticated, store.State().Status)
}

func TestSignOut_ClearsCredentialAndResets(t *testing.T) {
	backend := newAuthBackend()
	backend.accounts["a@b.com"] = "secret1"
	store, creds := newTestStore(t, backend)
	require.NoError(t, store.SignIn(context.Background(), "a@b.com", "secret1"))

	rec := &recorder{}
	store.Subscribe(rec.record)
	require.NoError(t, store.SignOut(context.Background()))

	assert.Equal(t, model.Unauthenticated, store.State().Status)
	assert.Empty(t, store.Token())

	left, err := creds.Load()
	require.NoError(t, err)
	assert.Nil(t, left)

	states := rec.all()
	require.Len(t, states, 1)
	assert.Nil(t, states[0].Identity)
}

func TestSignOut_ResetsSessionEvenWhenClearFails(t *testing.T) {
	backend := newAuthBackend()
	backend.accounts["a@b.com"] = "secret1"
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	gw := gateway.NewClient(srv.URL, "anon", nil)

	// A non-empty directory at the credential path makes removal fail.
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.MkdirAll(path, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0600))

	store := NewStore(gw, NewCredentialStore(path))
	require.NoError(t, store.SignIn(context.Background(), "a@b.com", "secret1"))
	require.Equal(t, model.Authenticated, store.State().Status)

	// The token is revoked server-side either way, so the local session
	// must reset even though the file could not be removed.
	err := store.SignOut(context.Background())
	require.Error(t, err)
	assert.Equal(t, model.Unauthenticated, store.State().Status)
	assert.Empty(t, store.Token())
}

func TestWatchCredentials_ExternalRemovalResetsSession(t *testing.T) {
	store, creds := newTestStore(t, nil)
	require.NoError(t, creds.Save(&Credentials{
		AccessToken: signedToken(t, "u-1", "a@b.com", time.Now().Add(time.Hour)),
		User:        model.Identity{ID: "u-1", Email: "a@b.com"},
	}))
	store.Restore()
	require.Equal(t, model.Authenticated, store.State().Status)

	stop, err := store.WatchCredentials()
	require.NoError(t, err)
	defer stop()

	require.NoError(t, creds.Clear())

	require.Eventually(t, func() bool {
		return store.State().Status == model.Unauthenticated
	}, 3*time.Second, 20*time.Millisecond)
	assert.Empty(t, store.Token())
}
