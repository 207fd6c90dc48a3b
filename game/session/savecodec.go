package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/motor-tycoon-game/game/engine"
	"github.com/wricardo/motor-tycoon-game/game/service"
)

// SaveVersion is the current save document version.
const SaveVersion = "1.0"

// ErrInvalidSave marks a save payload that fails structural validation.
var ErrInvalidSave = errors.New("invalid save data")

// SaveDocument is the versioned on-disk shape of one session.
type SaveDocument struct {
	Version        string          `json:"version"`
	ID             string          `json:"id"`
	ConfigName     string          `json:"config_name"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	GameState      json.RawMessage `json:"game_state"`
}

// EncodeSave wraps a session's snapshot into a versioned save document.
func EncodeSave(session *service.Session) ([]byte, error) {
	stateJSON, err := json.Marshal(session.Engine.GetState())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game state: %w", err)
	}
	doc := SaveDocument{
		Version:        SaveVersion,
		ID:             session.ID,
		ConfigName:     session.ConfigName,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      stateJSON,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal save document: %w", err)
	}
	return data, nil
}

// legacyFields captures save shapes from older versions that need migration.
type legacyFields struct {
	CurrentDebt *float64 `json:"current_debt"`
	RacingTeam  struct {
		Driver *engine.Driver `json:"driver"`
	} `json:"racing_team"`
	Tutorial *json.RawMessage `json:"tutorial"`
}

// DecodeGameState parses a persisted snapshot, applying legacy migrations:
// a scalar debt becomes a synthetic loan, a single team driver becomes the
// drivers array, and a missing tutorial block is inferred from whether any
// cars exist. A non-numeric money field rejects the whole document.
func DecodeGameState(raw json.RawMessage) (*engine.GameState, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	moneyRaw, ok := probe["money"]
	if !ok {
		return nil, fmt.Errorf("%w: money field is missing", ErrInvalidSave)
	}
	var money float64
	if err := json.Unmarshal(moneyRaw, &money); err != nil {
		return nil, fmt.Errorf("%w: money is not numeric", ErrInvalidSave)
	}

	var state engine.GameState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}

	var legacy legacyFields
	if err := json.Unmarshal(raw, &legacy); err == nil {
		if legacy.CurrentDebt != nil && *legacy.CurrentDebt > 0 && len(state.ActiveLoans) == 0 {
			state.ActiveLoans = append(state.ActiveLoans, engine.Loan{
				ID:           uuid.NewString(),
				OfferID:      "loan_legacy",
				Name:         "Legacy Debt",
				Principal:    int64(*legacy.CurrentDebt),
				InterestRate: 0.10,
				DateTaken:    state.Date,
			})
		}
		if legacy.RacingTeam.Driver != nil && len(state.RacingTeam.Drivers) == 0 {
			state.RacingTeam.Drivers = []engine.Driver{*legacy.RacingTeam.Driver}
		}
		if legacy.Tutorial == nil {
			done := len(state.DevelopedCars) > 0
			state.Tutorial = engine.TutorialState{IsCompleted: done, IsActive: !done}
			if done {
				state.Tutorial.CurrentStep = 5
			}
		}
	}

	if state.Year == 0 {
		state.Year = engine.YearForDay(state.Date)
	}
	if state.GameSpeed != 1 && state.GameSpeed != 2 {
		state.GameSpeed = 1
	}
	if len(state.Notifications) > engine.MaxNotifications {
		state.Notifications = state.Notifications[:engine.MaxNotifications]
	}
	if len(state.HistoryLog) > engine.MaxHistoryLog {
		state.HistoryLog = state.HistoryLog[len(state.HistoryLog)-engine.MaxHistoryLog:]
	}

	return &state, nil
}

// ParseImport accepts a save payload from the player: either a raw JSON save
// document, a bare game-state object, or a base64-wrapped legacy export.
// It validates that money and date are numbers and that a factory object is
// present, and returns a normalized save document ready to persist.
func ParseImport(payload []byte) (*SaveDocument, error) {
	data := payload
	if !json.Valid(data) {
		decoded, err := base64.StdEncoding.DecodeString(string(payload))
		if err != nil || !json.Valid(decoded) {
			return nil, fmt.Errorf("%w: payload is neither JSON nor base64-wrapped JSON", ErrInvalidSave)
		}
		data = decoded
	}

	var doc SaveDocument
	if err := json.Unmarshal(data, &doc); err == nil && len(doc.GameState) > 0 {
		if err := validateImportState(doc.GameState); err != nil {
			return nil, err
		}
		doc.Version = SaveVersion
		return &doc, nil
	}

	// Bare game-state object.
	if err := validateImportState(data); err != nil {
		return nil, err
	}
	return &SaveDocument{
		Version:   SaveVersion,
		GameState: json.RawMessage(data),
	}, nil
}

func validateImportState(raw json.RawMessage) error {
	var probe struct {
		Money   *json.RawMessage `json:"money"`
		Date    *json.RawMessage `json:"date"`
		Factory *json.RawMessage `json:"factory"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	var number float64
	if probe.Money == nil || json.Unmarshal(*probe.Money, &number) != nil {
		return fmt.Errorf("%w: money must be a number", ErrInvalidSave)
	}
	if probe.Date == nil || json.Unmarshal(*probe.Date, &number) != nil {
		return fmt.Errorf("%w: date must be a number", ErrInvalidSave)
	}
	var factory map[string]json.RawMessage
	if probe.Factory == nil || json.Unmarshal(*probe.Factory, &factory) != nil {
		return fmt.Errorf("%w: factory must be an object", ErrInvalidSave)
	}
	return nil
}
