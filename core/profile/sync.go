// Package profile keeps the single profile record in sync with the backend:
// lazy load keyed by the session identity, explicit save of the editable
// field, and subscriber notifications on every loading transition.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"TamilFM/core/gateway"
	"TamilFM/core/notify"
	"TamilFM/logger"
	"TamilFM/model"
)

// State is the snapshot delivered to subscribers.
type State struct {
	Profile *model.Profile
	Loading bool
}

// TokenSource supplies the access token for table calls. The session store
// implements it; the synchronizer never persists a token of its own.
type TokenSource interface {
	Token() string
}

// Synchronizer loads and saves the profile row for the current identity.
type Synchronizer struct {
	gw       *gateway.Client
	tokens   TokenSource
	notifier *notify.Notifier[State]

	mu       sync.Mutex
	profile  *model.Profile
	loading  bool
	inflight string // identity id with a load in progress, "" if none
}

// NewSynchronizer creates a synchronizer reading tokens from tokens.
func NewSynchronizer(gw *gateway.Client, tokens TokenSource) *Synchronizer {
	return &Synchronizer{
		gw:       gw,
		tokens:   tokens,
		notifier: notify.New[State](),
	}
}

// Subscribe registers fn for every state transition.
func (s *Synchronizer) Subscribe(fn func(State)) func() {
	return s.notifier.Subscribe(fn)
}

// State returns the current snapshot.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Synchronizer) snapshotLocked() State {
	var p *model.Profile
	if s.profile != nil {
		copied := *s.profile
		p = &copied
	}
	return State{Profile: p, Loading: s.loading}
}

// profileRow is the wire shape of a profiles table row.
type profileRow struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Load fetches the profile row keyed by identity. A nil identity yields an
// immediate empty state. An absent row is not an error; it leaves the
// profile nil. At most one load runs per identity at a time; a duplicate
// call while one is in flight returns immediately.
func (s *Synchronizer) Load(ctx context.Context, identity *model.Identity) error {
	if identity == nil {
		s.mu.Lock()
		s.profile = nil
		s.loading = false
		state := s.snapshotLocked()
		s.mu.Unlock()
		s.notifier.Publish(state)
		return nil
	}

	s.mu.Lock()
	if s.inflight == identity.ID {
		s.mu.Unlock()
		return nil
	}
	s.inflight = identity.ID
	s.loading = true
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.notifier.Publish(state)

	var row profileRow
	err := s.gw.SelectOne(ctx, s.tokens.Token(), gateway.Query{
		Table:        "profiles",
		FilterColumn: "id",
		FilterValue:  identity.ID,
	}, &row)

	s.mu.Lock()
	s.inflight = ""
	s.loading = false
	switch {
	case err == nil:
		s.profile = &model.Profile{
			ID:        row.ID,
			Email:     row.Email,
			FullName:  row.FullName,
			CreatedAt: row.CreatedAt,
		}
	case errors.Is(err, model.ErrNotFound):
		s.profile = nil
		err = nil
	default:
		logger.Error("profile load failed", logger.String("id", identity.ID), logger.ErrorField(err))
	}
	state = s.snapshotLocked()
	s.mu.Unlock()

	s.notifier.Publish(state)
	return err
}

// Save updates the profile's full name. It requires a previously loaded
// profile; only full_name and the server-managed updated_at are sent. On
// failure the cached copy is left untouched.
func (s *Synchronizer) Save(ctx context.Context, fullName string) error {
	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return fmt.Errorf("no profile loaded: %w", model.ErrValidation)
	}
	id := s.profile.ID
	s.mu.Unlock()

	patch := map[string]string{
		"full_name":  fullName,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.gw.UpdateRow(ctx, s.tokens.Token(), "profiles", "id", id, patch); err != nil {
		logger.Error("profile save failed", logger.String("id", id), logger.ErrorField(err))
		return err
	}

	s.mu.Lock()
	if s.profile != nil && s.profile.ID == id {
		s.profile.FullName = fullName
	}
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notifier.Publish(state)
	return nil
}

// Reset discards the cached profile; wired to sign-out by the owner.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	if s.profile == nil && !s.loading {
		s.mu.Unlock()
		return
	}
	s.profile = nil
	s.loading = false
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.notifier.Publish(state)
}

// FormatDate renders a profile timestamp for display.
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
