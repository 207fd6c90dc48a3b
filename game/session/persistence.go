package session

import (
	"github.com/wricardo/motor-tycoon-game/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// SaveRaw persists a pre-validated save document under the given id
	SaveRaw(id string, doc []byte) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// LoadRaw returns the raw save document for a session
	LoadRaw(id string) ([]byte, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}
