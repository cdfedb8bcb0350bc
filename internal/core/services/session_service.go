package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"qube-panel/internal/core/domain"
	"qube-panel/internal/pkg/token"
)

// IdentityListener is notified whenever a session's resolved identity
// changes, including the change to no identity on logout.
type IdentityListener func(sessionID string, identity *domain.Identity)

// SessionService owns the credential and resolved identity of every panel
// session. The token itself lives in the durable store; the resolved identity
// is process-local cache. At most one credential is current per session, and
// an identity resolved against a token that has since been replaced is
// discarded rather than applied.
type SessionService struct {
	store    CredentialStore
	resolver IdentityResolver
	ttl      time.Duration

	mu        sync.Mutex
	sessions  map[string]*sessionState
	listeners []IdentityListener
}

type sessionState struct {
	token    string
	identity *domain.Identity
}

// NewSessionService creates a new session service
func NewSessionService(store CredentialStore, resolver IdentityResolver, ttl time.Duration) *SessionService {
	return &SessionService{
		store:    store,
		resolver: resolver,
		ttl:      ttl,
		sessions: make(map[string]*sessionState),
	}
}

// NewSessionID mints an opaque session identifier for the cookie.
func (s *SessionService) NewSessionID() string {
	return uuid.New().String()
}

// Subscribe registers a listener for identity changes. Listeners are invoked
// outside the service lock and must not call back into the service
// synchronously on the same session.
func (s *SessionService) Subscribe(l IdentityListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// SetCredential installs a fresh upstream token as the session's current
// credential. The previous identity is dropped immediately; resolution of the
// new identity starts in the background so the first gated request does not
// pay for it.
func (s *SessionService) SetCredential(ctx context.Context, sessionID, tok string) error {
	if err := s.store.Set(ctx, sessionID, tok, s.ttl); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}

	s.mu.Lock()
	st := s.state(sessionID)
	st.token = tok
	st.identity = nil
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_, _ = s.resolve(ctx, sessionID, tok)
	}()
	return nil
}

// ClearCredential removes the session's credential and identity. The change
// is synchronous: once it returns, no request on this session resolves to the
// old identity.
func (s *SessionService) ClearCredential(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	var changed bool
	if ok {
		changed = st.token != "" || st.identity != nil
		delete(s.sessions, sessionID)
	}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	if changed {
		for _, l := range listeners {
			l(sessionID, nil)
		}
	}
	return nil
}

// Token returns the session's current credential, recovering it from the
// durable store after a process restart. Expired tokens are cleared and
// reported as absent.
func (s *SessionService) Token(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	if ok && st.token != "" {
		tok := st.token
		s.mu.Unlock()
		return s.checkExpiry(ctx, sessionID, tok)
	}
	s.mu.Unlock()

	tok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	st = s.state(sessionID)
	if st.token == "" {
		st.token = tok
	}
	tok = st.token
	s.mu.Unlock()
	return s.checkExpiry(ctx, sessionID, tok)
}

func (s *SessionService) checkExpiry(ctx context.Context, sessionID, tok string) (string, error) {
	if token.ExpiringWithin(tok, 0) {
		_ = s.ClearCredential(ctx, sessionID)
		return "", domain.ErrNoCredential
	}
	return tok, nil
}

// Identity returns the resolved identity for the session, resolving it
// against the upstream on first use. Sessions without a credential get
// domain.ErrNoCredential; sessions whose credential the upstream rejects are
// cleared and get domain.ErrIdentityUnresolved.
func (s *SessionService) Identity(ctx context.Context, sessionID string) (*domain.Identity, error) {
	tok, err := s.Token(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	if ok && st.identity != nil && st.token == tok {
		ident := st.identity
		s.mu.Unlock()
		return ident, nil
	}
	s.mu.Unlock()

	return s.resolve(ctx, sessionID, tok)
}

// resolve fetches the identity for tok and applies the result only if tok is
// still the session's current credential when the response arrives. A stale
// result, success or failure, is discarded without touching session state.
func (s *SessionService) resolve(ctx context.Context, sessionID, tok string) (*domain.Identity, error) {
	ident, err := s.resolver.ResolveIdentity(ctx, tok)

	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	if !ok || st.token != tok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: credential changed during resolution", domain.ErrIdentityUnresolved)
	}

	if err != nil {
		// The current credential cannot be resolved, so it is useless.
		delete(s.sessions, sessionID)
		listeners := s.listenersLocked()
		s.mu.Unlock()

		_ = s.store.Delete(ctx, sessionID)
		for _, l := range listeners {
			l(sessionID, nil)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrIdentityUnresolved, err)
	}

	changed := st.identity == nil || st.identity.ID != ident.ID || st.identity.Role != ident.Role
	st.identity = ident
	listeners := s.listenersLocked()
	s.mu.Unlock()

	if changed {
		for _, l := range listeners {
			l(sessionID, ident)
		}
	}
	return ident, nil
}

// state returns the session's in-memory record, creating it if needed.
// Callers must hold s.mu.
func (s *SessionService) state(sessionID string) *sessionState {
	st, ok := s.sessions[sessionID]
	if !ok {
		st = &sessionState{}
		s.sessions[sessionID] = st
	}
	return st
}

func (s *SessionService) listenersLocked() []IdentityListener {
	out := make([]IdentityListener, len(s.listeners))
	copy(out, s.listeners)
	return out
}
