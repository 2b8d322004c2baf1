// Package session owns the authenticated identity and the credential
// lifecycle. All transitions flow through Restore, SignIn, SignUp, SignOut or
// the external-invalidation watcher; subscribers see every transition once.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"TamilFM/core/gateway"
	"TamilFM/core/notify"
	"TamilFM/logger"
	"TamilFM/model"
)

// Store is the session state machine. Construct with NewStore and inject it;
// there is no package-level instance.
type Store struct {
	gw    *gateway.Client
	creds *CredentialStore

	notifier *notify.Notifier[model.SessionState]

	mu       sync.Mutex
	identity *model.Identity
	status   model.SessionStatus
	loading  bool
	token    string
}

// NewStore creates a store in the pre-restore state: authenticating until
// Restore settles the persisted credential one way or the other.
func NewStore(gw *gateway.Client, creds *CredentialStore) *Store {
	return &Store{
		gw:       gw,
		creds:    creds,
		notifier: notify.New[model.SessionState](),
		status:   model.Authenticating,
		loading:  true,
	}
}

// Subscribe registers fn for every session transition. The returned func
// unsubscribes; calling it more than once is harmless.
func (s *Store) Subscribe(fn func(model.SessionState)) func() {
	return s.notifier.Subscribe(fn)
}

// State returns the current session snapshot.
func (s *Store) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Token returns the current access token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) snapshotLocked() model.SessionState {
	var id *model.Identity
	if s.identity != nil {
		copied := *s.identity
		id = &copied
	}
	return model.SessionState{Identity: id, Status: s.status, Loading: s.loading}
}

// Restore populates the session from the persisted credential, if any.
// It always terminates and always ends by notifying subscribers exactly once
// with Loading=false. Invalid or expired tokens clear the persisted file.
func (s *Store) Restore() {
	creds, err := s.creds.Load()

	s.mu.Lock()
	s.loading = false
	s.status = model.Unauthenticated
	if err == nil && creds != nil {
		if id, ok := identityFromToken(creds.AccessToken); ok {
			s.identity = &id
			s.token = creds.AccessToken
			s.status = model.Authenticated
		} else {
			// Stale token; drop it so the next start skips the parse.
			if clearErr := s.creds.Clear(); clearErr != nil {
				logger.Warn("failed to clear stale credentials", logger.ErrorField(clearErr))
			}
		}
	} else if err != nil {
		logger.Warn("failed to load credentials", logger.ErrorField(err))
	}
	state := s.snapshotLocked()
	s.mu.Unlock()

	logger.Info("session restored", logger.String("status", state.Status.String()))
	s.notifier.Publish(state)
}

// identityFromToken decodes the token's claims without signature
// verification (the signing secret lives server-side) and rejects tokens
// that are expired or missing the identity claims.
func identityFromToken(token string) (model.Identity, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return model.Identity{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || (exp != nil && exp.Before(time.Now())) {
		return model.Identity{}, false
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return model.Identity{}, false
	}
	return model.Identity{ID: sub, Email: email}, true
}

// SignIn exchanges credentials with the backend. On success the credential
// is persisted, the session transitions to Authenticated and subscribers are
// notified. On failure nothing changes and no notification is sent; the
// caller surfaces the returned error.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	cred, err := s.gw.ExchangeCredentials(ctx, email, password)
	if err != nil {
		logger.Warn("sign-in failed", logger.String("email", email), logger.ErrorField(err))
		return err
	}

	if err := s.creds.Save(&Credentials{AccessToken: cred.AccessToken, User: cred.Identity}); err != nil {
		logger.Warn("failed to persist credentials", logger.ErrorField(err))
	}

	s.mu.Lock()
	id := cred.Identity
	s.identity = &id
	s.token = cred.AccessToken
	s.status = model.Authenticated
	s.loading = false
	state := s.snapshotLocked()
	s.mu.Unlock()

	logger.Info("signed in", logger.String("email", email))
	s.notifier.Publish(state)
	return nil
}

// SignUp creates the account, inserts its profile row, then signs in with
// the same credentials (the backend does not authenticate a fresh signup).
// A failing step aborts the remainder and its error is returned as-is. A
// created account whose profile insert failed is not rolled back; the
// account simply has no profile row yet.
func (s *Store) SignUp(ctx context.Context, email, password, fullName string) error {
	identity, err := s.gw.CreateAccount(ctx, email, password)
	if err != nil {
		logger.Warn("sign-up failed", logger.String("email", email), logger.ErrorField(err))
		return err
	}

	row := map[string]string{
		"id":        identity.ID,
		"email":     email,
		"full_name": fullName,
	}
	if err := s.gw.InsertRow(ctx, "", "profiles", row); err != nil {
		logger.Error("profile insert failed after signup", logger.String("email", email), logger.ErrorField(err))
		return fmt.Errorf("create profile: %w", err)
	}

	return s.SignIn(ctx, email, password)
}

// SignOut revokes the token (best effort), clears the persisted credential
// and resets the session, notifying subscribers.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token != "" {
		if err := s.gw.InvalidateCredentials(ctx, token); err != nil {
			logger.Warn("server-side sign-out failed", logger.ErrorField(err))
		}
	}
	// The in-memory session drops regardless: the server token is already
	// revoked, so a lingering Authenticated state would be a lie.
	err := s.creds.Clear()
	s.reset()
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// WatchCredentials starts the external-invalidation watcher: when another
// process removes or empties the credential file, the session resets as if
// signed out. Returns the stop func.
func (s *Store) WatchCredentials() (func(), error) {
	return s.creds.Watch(func() {
		logger.Info("credential invalidated externally")
		s.reset()
	})
}

// reset drops to Unauthenticated, notifying only if that is a transition.
func (s *Store) reset() {
	s.mu.Lock()
	if s.status == model.Unauthenticated && !s.loading {
		s.mu.Unlock()
		return
	}
	s.identity = nil
	s.token = ""
	s.status = model.Unauthenticated
	s.loading = false
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notifier.Publish(state)
}
