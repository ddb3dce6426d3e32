//nolint:testpackage // Тесты в том же пакете для доступа к непубличным полям
package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock — управляемые часы для детерминированных тестов TTL.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(ttl time.Duration) (*Store[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)}
	s := New[string](ttl)
	s.now = clock.Now
	return s, clock
}

// TestStoreGetSet проверяет базовый контракт: последний Set возвращается в
// пределах TTL.
func TestStoreGetSet(t *testing.T) {
	s, clock := newTestStore(DefaultTTL)

	_, ok := s.Get()
	assert.False(t, ok, "пустой кэш — absent")

	s.Set([]string{"a", "b"})
	got, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	// Перезапись целиком, без слияния.
	clock.Advance(time.Minute)
	s.Set([]string{"c"})
	got, ok = s.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"c"}, got, "Set перезаписывает снимок целиком")
}

// TestStoreTTLExpiry проверяет, что просроченный снимок становится absent
// даже без явной инвалидации.
func TestStoreTTLExpiry(t *testing.T) {
	s, clock := newTestStore(DefaultTTL)
	s.Set([]string{"a"})

	// Ровно на границе TTL снимок еще валиден.
	clock.Advance(DefaultTTL)
	_, ok := s.Get()
	assert.True(t, ok, "возраст, равный TTL, еще валиден")

	// За границей — absent.
	clock.Advance(time.Second)
	_, ok = s.Get()
	assert.False(t, ok, "возраст больше TTL — absent без явной инвалидации")

	// Просроченный снимок не удален: новый Set его вытесняет и кэш снова живой.
	s.Set([]string{"fresh"})
	got, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"fresh"}, got)
}

// TestStoreInvalidate проверяет явную очистку.
func TestStoreInvalidate(t *testing.T) {
	s, _ := newTestStore(DefaultTTL)
	s.Set([]string{"a"})

	s.Invalidate()
	_, ok := s.Get()
	assert.False(t, ok)
}
