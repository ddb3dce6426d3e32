// Package cache реализует короткоживущий кэш снимков для списочных экранов.
// Снимок показывается сразу, даже если устарел, а свежие данные всегда
// запрашиваются заново и перезаписывают его (stale-while-revalidate на
// стороне вызывающего; сам кэш обновлений не инициирует).
package cache

import (
	"sync"
	"time"
)

// DefaultTTL — максимальный возраст снимка, после которого Get считает его
// отсутствующим.
const DefaultTTL = 5 * time.Minute

// Store хранит один снимок значений типа T с моментом захвата.
// Часы инъецируются для детерминированных тестов.
type Store[T any] struct {
	mu         sync.Mutex
	ttl        time.Duration
	now        func() time.Time
	snapshot   []T
	capturedAt time.Time
	has        bool
}

// New создает кэш с указанным TTL и настоящими часами.
func New[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{ttl: ttl, now: time.Now}
}

// Get возвращает снимок, только если его возраст в пределах TTL.
// Просроченный снимок считается отсутствующим, но не удаляется —
// его вытеснит следующий Set.
func (s *Store[T]) Get() ([]T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.has || s.now().Sub(s.capturedAt) > s.ttl {
		return nil, false
	}
	return s.snapshot, true
}

// Set сохраняет снимок целиком, безусловно перезаписывая предыдущий,
// и фиксирует текущий момент как время захвата. Слияния нет.
func (s *Store[T]) Set(snapshot []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	s.capturedAt = s.now()
	s.has = true
}

// Invalidate очищает кэш.
func (s *Store[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.has = false
}
