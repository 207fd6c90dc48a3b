package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/motor-tycoon-game/game/engine"
	"github.com/wricardo/motor-tycoon-game/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// Manager handles game session lifecycle
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	mu          sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// NewManagerWithPersistence creates a new session manager with persistence
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
	}
}

// Create creates a new session with the given ID and balance configuration
func (m *Manager) Create(id string, config *engine.BalanceConfig, configName string) (*service.Session, error) {
	if id == "" {
		id = m.generateSessionID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		ConfigName:     configName,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[strings.ToLower(id)] = session

	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			log.Printf("Warning: failed to persist session %s: %v", id, err)
		}
	}
	return session, nil
}

// Get retrieves a session by ID (case-insensitive), falling back to the
// persisted save when the session is not in memory.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()
	if exists {
		return session, nil
	}

	if m.persistence != nil && m.persistence.Exists(id) {
		session, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted session: %w", err)
		}
		m.mu.Lock()
		m.sessions[strings.ToLower(id)] = session
		m.mu.Unlock()
		return session, nil
	}

	return nil, ErrSessionNotFound
}

// List returns all in-memory sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// Delete removes a session from memory and storage
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)

	if m.persistence != nil {
		if err := m.persistence.Delete(id); err != nil {
			log.Printf("Warning: failed to delete persisted session %s: %v", id, err)
		}
	}
	return nil
}

// UpdateLastAccessed touches a session's access time
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}
	session.LastAccessedAt = time.Now()
	return nil
}

// Save persists a session immediately
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return ErrSessionNotFound
	}
	return m.persistence.Save(session)
}

// Reset replaces a session's game with a fresh one on the same config
func (m *Manager) Reset(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}

	eng, err := engine.NewEngine(session.Engine.Config())
	if err != nil {
		return nil, fmt.Errorf("failed to reset engine: %w", err)
	}
	session.Engine = eng
	session.LastAccessedAt = time.Now()
	return session, nil
}

// ExportState returns the raw save document for a session
func (m *Manager) ExportState(id string) ([]byte, error) {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()

	if exists {
		return EncodeSave(session)
	}
	if m.persistence != nil && m.persistence.Exists(id) {
		return m.persistence.LoadRaw(id)
	}
	return nil, ErrSessionNotFound
}

// ImportState validates an imported save payload and writes it to storage.
// The in-memory session is left untouched; the imported state takes effect
// on the next load. The staged session is evicted so that load happens.
func (m *Manager) ImportState(id string, payload []byte) error {
	if m.persistence == nil {
		return fmt.Errorf("imports require persistence to be enabled")
	}

	doc, err := ParseImport(payload)
	if err != nil {
		return err
	}
	doc.ID = id
	doc.LastAccessedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	if err := m.persistence.SaveRaw(id, data); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.sessions, strings.ToLower(id))
	m.mu.Unlock()
	return nil
}

// LoadPersistedSessions loads every persisted save into memory. Sessions that
// fail to load are skipped with a warning so one corrupt file cannot block
// startup.
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	loaded := 0
	for _, id := range ids {
		session, err := m.persistence.Load(id)
		if err != nil {
			log.Printf("Warning: skipping persisted session %s: %v", id, err)
			continue
		}
		m.mu.Lock()
		m.sessions[strings.ToLower(id)] = session
		m.mu.Unlock()
		loaded++
	}

	if loaded > 0 {
		log.Printf("Loaded %d persisted sessions", loaded)
	}
	return nil
}

// DeleteFromMemory evicts a session from memory without touching storage.
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	return nil
}

// CleanupExpiredSessions removes sessions idle for longer than maxAge and
// returns how many were removed.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for key, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, key)
			removed++
		}
	}
	return removed
}

// sessionExists checks existence case-insensitively. Caller holds the lock.
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}

// generateSessionID produces a 4-character hex ID, retrying on collision.
func (m *Manager) generateSessionID() string {
	for {
		b := make([]byte, 2)
		if _, err := rand.Read(b); err != nil {
			continue
		}
		id := hex.EncodeToString(b)

		m.mu.RLock()
		exists := m.sessionExists(id)
		m.mu.RUnlock()
		if !exists {
			return id
		}
	}
}

func encodeDocument(doc *SaveDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal save document: %w", err)
	}
	return data, nil
}
