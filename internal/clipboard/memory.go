package clipboard

import (
	"context"
	"sync"
)

// Memory is an in-process clipboard that records every write.
type Memory struct {
	mu     sync.Mutex
	writes [][]string
	err    error
}

// NewMemory returns an empty in-process clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Name() string { return BackendMemory }

func (m *Memory) WriteFiles(_ context.Context, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.writes = append(m.writes, append([]string(nil), paths...))
	return nil
}

// FailWith makes subsequent writes return err; nil restores normal behavior.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Contents returns the file list from the latest write.
func (m *Memory) Contents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.writes) == 0 {
		return nil
	}
	return append([]string(nil), m.writes[len(m.writes)-1]...)
}

// Writes reports how many times the clipboard was written.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}
