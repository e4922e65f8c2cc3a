package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/ledger"
	"github.com/cloud-ru/mcp-mortgage-go/internal/metrics"
)

// ErrSessionNotFound возвращается для неизвестной сессии
var ErrSessionNotFound = errors.New("session not found")

// Store хранит по одному ledger на сессию
type Store struct {
	mu       sync.RWMutex
	defaults calculations.LoanParameters
	opts     []ledger.Option
	sessions map[uuid.UUID]*ledger.Ledger
}

// NewStore создает хранилище, сессии которого начинают с defaults
func NewStore(defaults calculations.LoanParameters, opts ...ledger.Option) *Store {
	return &Store{
		defaults: defaults,
		opts:     opts,
		sessions: make(map[uuid.UUID]*ledger.Ledger),
	}
}

// Open открывает сессию: сценарий по умолчанию уже рассчитан как текущий
// план, история пуста.
func (s *Store) Open() (uuid.UUID, *ledger.Ledger) {
	l := ledger.New(s.opts...)
	l.ApplyParameters(s.defaults)

	id := uuid.New()

	s.mu.Lock()
	s.sessions[id] = l
	s.mu.Unlock()

	metrics.ActiveSessions.Inc()
	return id, l
}

// Get возвращает ledger сессии
func (s *Store) Get(id uuid.UUID) (*ledger.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return l, nil
}

// Close закрывает сессию
func (s *Store) Close(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)

	metrics.ActiveSessions.Dec()
	return nil
}

// Len возвращает число открытых сессий
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
