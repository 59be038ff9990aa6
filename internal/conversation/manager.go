package conversation

import (
	"sync"

	"go.uber.org/zap"
)

// Manager fronts the store with an in-memory cache of active conversations.
// The store is optional; without one the manager is purely in-memory.
type Manager struct {
	mu     sync.RWMutex
	active map[string]*Conversation
	store  *Store
	logger *zap.Logger
}

// NewManager builds a manager over an optional store.
func NewManager(store *Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		active: make(map[string]*Conversation),
		store:  store,
		logger: logger,
	}
}

// Create starts a new conversation and registers it as active.
func (m *Manager) Create() *Conversation {
	c := New()
	m.mu.Lock()
	m.active[c.ID] = c
	m.mu.Unlock()
	m.logger.Debug("conversation created", zap.String("id", c.ID))
	return c
}

// Get returns an active conversation, falling back to the store for
// previously persisted ones.
func (m *Manager) Get(id string) (*Conversation, bool) {
	m.mu.RLock()
	c, ok := m.active[id]
	m.mu.RUnlock()
	if ok {
		return c, true
	}
	if m.store == nil {
		return nil, false
	}

	c, err := m.store.Load(id)
	if err != nil {
		m.logger.Debug("conversation not found in store", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	m.mu.Lock()
	m.active[id] = c
	m.mu.Unlock()
	return c, true
}

// Save persists one conversation when a store is configured.
func (m *Manager) Save(c *Conversation) error {
	if m.store == nil {
		return nil
	}
	return m.store.Save(c)
}

// SaveAll persists every active conversation. The first error aborts the
// sweep.
func (m *Manager) SaveAll() error {
	if m.store == nil {
		return nil
	}
	m.mu.RLock()
	convs := make([]*Conversation, 0, len(m.active))
	for _, c := range m.active {
		convs = append(convs, c)
	}
	m.mu.RUnlock()

	for _, c := range convs {
		if err := m.store.Save(c); err != nil {
			return err
		}
	}
	return nil
}
