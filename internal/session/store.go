// Package session owns the authenticated-user context. The store is the
// single writer; everything else reads snapshots or subscribes to changes.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/urgent2kay/dashboard-core/internal/derive"
	"github.com/urgent2kay/dashboard-core/internal/localstore"
	"github.com/urgent2kay/dashboard-core/internal/model"
)

// Store holds the current Session and publishes changes to subscribers.
// Implements gateway.TokenSource and querycache.SessionGate.
type Store struct {
	mu  sync.RWMutex
	cur model.Session

	files *localstore.Store
	log   *zap.Logger

	subMu   sync.Mutex
	subs    map[int]func(model.Session)
	nextSub int
}

// NewStore constructs a session store backed by the given file store.
func NewStore(files *localstore.Store, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{files: files, log: log, subs: make(map[int]func(model.Session))}
}

// Restore loads a previously persisted credential, if any. An absent or
// expired credential leaves the store unauthenticated without error.
func (s *Store) Restore() {
	if s.files == nil {
		return
	}
	cred, err := s.files.LoadCredential()
	if err != nil {
		return
	}
	sess, err := sessionFromCredential(cred.AccessToken, s.log)
	if err != nil {
		s.log.Warn("stored credential unparseable, ignoring", zap.Error(err))
		return
	}
	s.set(sess)
}

// Login establishes the Session from a bearer credential issued by the
// backend and persists it for subsequent runs.
func (s *Store) Login(credential string) (model.Session, error) {
	sess, err := sessionFromCredential(credential, s.log)
	if err != nil {
		return model.Session{}, err
	}
	if s.files != nil {
		if err := s.files.SaveCredential(localstore.Credential{
			AccessToken: credential,
			ExpiresAt:   sess.ExpiresAt,
		}); err != nil {
			s.log.Warn("persist credential", zap.Error(err))
		}
	}
	s.set(sess)
	s.log.Info("session established",
		zap.String("userID", sess.UserID),
		zap.String("role", string(sess.Role)),
	)
	return sess, nil
}

// Logout clears the Session. Safe to call repeatedly; a second call is a
// no-op and never errors.
func (s *Store) Logout() {
	s.mu.Lock()
	wasEmpty := s.cur == (model.Session{})
	s.cur = model.Session{}
	s.mu.Unlock()

	if s.files != nil {
		_ = s.files.ClearCredential()
	}
	if !wasEmpty {
		s.log.Info("session cleared")
	}
	s.publish(model.Session{})
}

// Current returns a snapshot of the session.
func (s *Store) Current() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Authenticated reports whether protected queries may run.
func (s *Store) Authenticated() bool {
	return s.Current().IsAuthenticated()
}

// Token returns the bearer credential for gateway calls, "" when absent.
func (s *Store) Token() string {
	return s.Current().Credential
}

// Subscribe registers fn to be called on every session change and returns
// an unsubscribe func.
func (s *Store) Subscribe(fn func(model.Session)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) set(sess model.Session) {
	s.mu.Lock()
	s.cur = sess
	s.mu.Unlock()
	s.publish(sess)
}

func (s *Store) publish(sess model.Session) {
	s.subMu.Lock()
	for _, fn := range s.subs {
		fn(sess)
	}
	s.subMu.Unlock()
}

// sessionFromCredential extracts identity claims from the bearer token.
// The signature is not verified here; the server remains the authority and
// rejects bad tokens on every call.
func sessionFromCredential(credential string, log *zap.Logger) (model.Session, error) {
	if credential == "" {
		return model.Session{}, fmt.Errorf("empty credential")
	}

	var claims struct {
		jwt.RegisteredClaims
		Role string `json:"role"`
	}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, &claims); err != nil {
		return model.Session{}, fmt.Errorf("parse credential: %w", err)
	}
	if claims.Subject == "" {
		return model.Session{}, fmt.Errorf("credential missing subject")
	}

	if claims.Role != "" && !derive.KnownRole(claims.Role) {
		log.Warn("unexpected role token", zap.String("role", claims.Role))
	}

	exp := time.Time{}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return model.Session{
		UserID:     claims.Subject,
		Role:       model.Role(derive.MapRoleName(claims.Role)),
		Credential: credential,
		ExpiresAt:  exp,
	}, nil
}
