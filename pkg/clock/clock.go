package clock

import (
	"sync"
	"time"
)

// Clock fuente de tiempo inyectable; los casos de uso nunca llaman time.Now directamente.
type Clock interface {
	Now() time.Time
}

// RealClock reloj del sistema en UTC.
type RealClock struct{}

// NewRealClock construye el reloj de producción.
func NewRealClock() Clock { return RealClock{} }

func (RealClock) Now() time.Time { return time.Now().UTC() }

// MockClock reloj manual para tests. Seguro para uso concurrente.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewMockClock crea un reloj detenido en start.
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{current: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Set fija la hora actual.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	m.current = t
	m.mu.Unlock()
}

// Advance avanza el reloj d.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.current = m.current.Add(d)
	m.mu.Unlock()
}
