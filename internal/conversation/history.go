package conversation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"goodwish-chatbot/internal/model"
	"goodwish-chatbot/pkg/log"
)

type record struct {
	turns   []model.Turn
	version uint64
}

// HistoryConfig configures a HistoryStore.
type HistoryConfig struct {
	MaxTurns  int
	TTL       time.Duration
	Transport Transport // optional, nil keeps history in memory only
	Now       func() time.Time
}

// HistoryStore is the in-memory, length-bounded, expiring chat history per session.
//
// records and expiries are guarded by mu. mu is never held across transport I/O.
type HistoryStore struct {
	mu       sync.Mutex
	records  map[string]*record
	expiries map[string]time.Time

	maxTurns  int
	ttl       time.Duration
	transport Transport
	now       func() time.Time
	l         log.Logger
}

// NewHistoryStore creates a HistoryStore. Zero values in cfg fall back to the defaults.
func NewHistoryStore(l log.Logger, cfg HistoryConfig) *HistoryStore {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultHistoryTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &HistoryStore{
		records:   make(map[string]*record),
		expiries:  make(map[string]time.Time),
		maxTurns:  cfg.MaxTurns,
		ttl:       cfg.TTL,
		transport: cfg.Transport,
		now:       cfg.Now,
		l:         l,
	}
}

// Get returns a copy of the session's turns and extends its expiry.
// Expired sessions of every caller are swept first. An unknown session is created empty,
// or hydrated from the transport when one is configured.
func (s *HistoryStore) Get(ctx context.Context, sessionID string) []model.Turn {
	s.mu.Lock()
	now := s.now()
	s.sweepLocked(now)
	if rec, ok := s.records[sessionID]; ok || s.transport == nil {
		if !ok {
			rec = &record{}
			s.records[sessionID] = rec
		}
		s.expiries[sessionID] = now.Add(s.ttl)
		out := cloneTurns(rec.turns)
		s.mu.Unlock()
		if len(out) > 0 {
			s.touch(ctx, sessionID)
		}
		return out
	}
	s.mu.Unlock()

	loaded := s.hydrate(ctx, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[sessionID]
	if !ok {
		rec = &record{turns: s.bound(loaded)}
		s.records[sessionID] = rec
	}
	s.expiries[sessionID] = s.now().Add(s.ttl)
	return cloneTurns(rec.turns)
}

// AppendPair appends (user, assistant) to the current history, keeps the last MaxTurns entries
// and writes the result through to the transport.
// A transport failure is returned wrapped in ErrTransportUnavailable; the in-memory append has already happened.
func (s *HistoryStore) AppendPair(ctx context.Context, sessionID string, user, assistant model.Turn) error {
	if user.Role != model.RoleUser || assistant.Role != model.RoleAssistant {
		return ErrInvalidTurnPair
	}

	s.mu.Lock()
	rec, ok := s.records[sessionID]
	if !ok {
		rec = &record{}
		s.records[sessionID] = rec
	}
	next := make([]model.Turn, 0, len(rec.turns)+2)
	next = append(next, rec.turns...)
	next = append(next, user, assistant)
	rec.turns = s.bound(next)
	rec.version++
	s.expiries[sessionID] = s.now().Add(s.ttl)
	s.mu.Unlock()

	return s.mirror(ctx, sessionID)
}

// Clear drops the session from memory and from the transport. Clearing an unknown session is a no-op.
func (s *HistoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.records, sessionID)
	delete(s.expiries, sessionID)
	s.mu.Unlock()

	if s.transport == nil {
		return nil
	}
	if err := s.transport.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
	}
	return nil
}

// SweepExpired removes every session whose expiry has passed and returns how many were removed.
func (s *HistoryStore) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

// ExpiresAt reports the session's current expiry.
func (s *HistoryStore) ExpiresAt(sessionID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expiries[sessionID]
	return exp, ok
}

// Len returns the number of live sessions.
func (s *HistoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *HistoryStore) sweepLocked(now time.Time) int {
	removed := 0
	for id, exp := range s.expiries {
		if now.After(exp) {
			delete(s.expiries, id)
			delete(s.records, id)
			removed++
		}
	}
	return removed
}

// bound keeps the newest maxTurns entries and never starts a history with a dangling assistant turn.
func (s *HistoryStore) bound(turns []model.Turn) []model.Turn {
	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	if len(turns)%2 == 1 {
		turns = turns[1:]
	}
	return turns
}

func (s *HistoryStore) hydrate(ctx context.Context, sessionID string) []model.Turn {
	turns, err := s.transport.Load(ctx, sessionID)
	if err != nil {
		s.l.Warnf(ctx, "%s.hydrate: transport load failed, continuing in memory: %v", LogPrefix, err)
		return nil
	}
	return turns
}

// touch keeps the mirrored copy alive as long as the in-memory record.
func (s *HistoryStore) touch(ctx context.Context, sessionID string) {
	if s.transport == nil {
		return
	}
	if err := s.transport.Touch(ctx, sessionID, s.ttl); err != nil {
		s.l.Warnf(ctx, "%s.touch: transport expiry refresh failed: %v", LogPrefix, err)
	}
}

// mirror writes the newest snapshot of the session to the transport. When another append lands
// while a write is in flight the loop writes again, so the mirror converges on the in-memory state.
func (s *HistoryStore) mirror(ctx context.Context, sessionID string) error {
	if s.transport == nil {
		return nil
	}

	written := false
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
		}

		s.mu.Lock()
		rec, ok := s.records[sessionID]
		var (
			snapshot []model.Turn
			version  uint64
		)
		if ok {
			snapshot, version = cloneTurns(rec.turns), rec.version
		}
		s.mu.Unlock()

		if !ok {
			// Cleared or expired while writing: do not resurrect it in the transport.
			if written {
				if err := s.transport.Delete(ctx, sessionID); err != nil {
					return fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
				}
			}
			return nil
		}

		if err := s.transport.Save(ctx, sessionID, snapshot, s.ttl); err != nil {
			return fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
		}
		written = true

		s.mu.Lock()
		rec, ok = s.records[sessionID]
		stale := !ok || rec.version != version
		s.mu.Unlock()
		if !stale {
			return nil
		}
	}
}

func cloneTurns(turns []model.Turn) []model.Turn {
	out := make([]model.Turn, len(turns))
	copy(out, turns)
	return out
}
