package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wricardo/motor-tycoon-game/game/engine"
	"github.com/wricardo/motor-tycoon-game/game/service"
)

// FilePersistence implements SessionPersistence using file system storage,
// one JSON save document per session.
type FilePersistence struct {
	savesDir      string
	configManager service.ConfigManager
}

// NewFilePersistence creates a new file-based session persistence layer
func NewFilePersistence(savesDir string, configManager service.ConfigManager) (*FilePersistence, error) {
	if err := os.MkdirAll(savesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create saves directory: %w", err)
	}
	return &FilePersistence{
		savesDir:      savesDir,
		configManager: configManager,
	}, nil
}

// Save persists a session as a versioned JSON save document
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}
	data, err := EncodeSave(session)
	if err != nil {
		return err
	}
	if err := os.WriteFile(fp.getFilePath(session.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}
	return nil
}

// SaveRaw persists a pre-validated save document under the given id
func (fp *FilePersistence) SaveRaw(id string, doc []byte) error {
	if err := os.WriteFile(fp.getFilePath(id), doc, 0644); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}
	return nil
}

// Load restores a session from its save document, applying migrations
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	data, err := fp.LoadRaw(id)
	if err != nil {
		return nil, err
	}

	var doc SaveDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal save document: %w", err)
	}

	state, err := DecodeGameState(doc.GameState)
	if err != nil {
		return nil, err
	}

	config, cfgErr := fp.configManager.LoadConfig(doc.ConfigName)
	if cfgErr != nil {
		config = fp.configManager.GetDefault()
	}

	gameEngine, err := engine.NewEngineFromState(config, state, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game engine: %w", err)
	}

	session := &service.Session{
		ID:             id,
		Engine:         gameEngine,
		ConfigName:     doc.ConfigName,
		CreatedAt:      doc.CreatedAt,
		LastAccessedAt: time.Now(),
	}
	if doc.ID != "" {
		session.ID = doc.ID
	}
	if session.ConfigName == "" {
		session.ConfigName = config.Name
	}
	return session, nil
}

// LoadRaw returns the raw save document bytes
func (fp *FilePersistence) LoadRaw(id string) ([]byte, error) {
	filePath := fp.getFilePath(id)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, ErrSessionNotFound
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}
	return data, nil
}

// Delete removes a session's save file
func (fp *FilePersistence) Delete(id string) error {
	filePath := fp.getFilePath(id)
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete save file: %w", err)
	}
	return nil
}

// ListAll returns all persisted session IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.savesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read saves directory: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return ids, nil
}

// Exists checks whether a session has a save file
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.savesDir, strings.ToLower(id)+".json")
}
