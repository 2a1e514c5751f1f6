package db

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/balkashynov/todo/internal/models"
)

// Memory is an in-process store with the same encoding and load rules as
// Store. Values are kept as JSON so a LoadAll behaves like a restart.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	order  []string
	policy LoadPolicy
	logger *log.Logger

	// Err, when set, makes every write fail with it.
	Err error
}

// NewMemory creates an empty in-memory store
func NewMemory(opts ...Option) *Memory {
	o := buildOptions(opts)
	return &Memory{
		values: make(map[string]string),
		policy: o.policy,
		logger: o.logger,
	}
}

// Put stores task under id, replacing any existing value
func (m *Memory) Put(_ context.Context, id string, task models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return &StorageError{Op: "put", Key: id, Err: m.Err}
	}
	value, err := encodeEntry(task)
	if err != nil {
		return &StorageError{Op: "put", Key: id, Err: err}
	}
	m.setLocked(id, value)
	return nil
}

// Remove deletes the entry for id. A missing key is not an error.
func (m *Memory) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return &StorageError{Op: "remove", Key: id, Err: m.Err}
	}
	if _, ok := m.values[id]; !ok {
		return nil
	}
	delete(m.values, id)
	for i, k := range m.order {
		if k == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// LoadAll decodes every entry in insertion order
func (m *Memory) LoadAll(_ context.Context) ([]models.Task, error) {
	m.mu.Lock()
	raw := make([]rawEntry, 0, len(m.order))
	for _, k := range m.order {
		raw = append(raw, rawEntry{key: k, value: m.values[k]})
	}
	m.mu.Unlock()

	tasks, _, err := decodeAll(raw, m.policy, m.logger)
	return tasks, err
}

// SetRaw stores value verbatim under key, bypassing encoding.
func (m *Memory) SetRaw(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(key, value)
}

// Raw returns the stored value for key.
func (m *Memory) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the stored keys in insertion order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

func (m *Memory) setLocked(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.order = append(m.order, key)
	}
	m.values[key] = value
}
