package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/wricardo/motor-tycoon-game/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.BalanceConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			available, listErr := s.configs.ListConfigs()
			if listErr == nil && len(available) > 0 {
				var ids []string
				for _, cfg := range available {
					ids = append(ids, cfg.ConfigID)
				}
				return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, ids)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configName = config.Name
	}

	session, err := s.sessions.Create("", config, configName)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sessionInfo(session), nil
}

// GetSession returns a session summary
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(session), nil
}

// ListSessions returns summaries for every active session
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	infos := make([]*SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, sessionInfo(session))
	}
	return infos, nil
}

// DeleteSession removes a session and its persisted state
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Delete(sessionID)
}

// AdvanceWeek runs one tick for the session and reports what happened.
// Ticks always run under the write lock so a tick and a command can never
// interleave.
func (s *gameServiceImpl) AdvanceWeek(ctx context.Context, sessionID string) (*TickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	fresh := session.Engine.AdvanceWeek()
	state := session.Engine.GetState()
	if fresh == nil {
		fresh = []engine.Notification{}
	}
	result := &TickResult{
		State:            state,
		WeeklyProfit:     state.LastWeeklyProfit,
		NewNotifications: fresh,
	}

	s.autoSave(sessionID)
	return result, nil
}

// SetPaused flips the session's pause flag
func (s *gameServiceImpl) SetPaused(ctx context.Context, sessionID string, paused bool) error {
	return s.withSession(sessionID, func(session *Session) error {
		session.Engine.SetPaused(paused)
		return nil
	})
}

// SetGameSpeed sets the tick speed (1 or 2)
func (s *gameServiceImpl) SetGameSpeed(ctx context.Context, sessionID string, speed int) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.SetGameSpeed(speed)
	})
}

// ForceAdvanceYear jumps the session to the next year (debug)
func (s *gameServiceImpl) ForceAdvanceYear(ctx context.Context, sessionID string) error {
	return s.withSession(sessionID, func(session *Session) error {
		session.Engine.ForceAdvanceYear()
		return nil
	})
}

// ContinuePlaying resumes a won game
func (s *gameServiceImpl) ContinuePlaying(ctx context.Context, sessionID string) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.ContinuePlaying()
	})
}

// Reset discards the session's state and starts over on the same config
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Reset(sessionID)
	if err != nil {
		return nil, err
	}
	s.autoSave(sessionID)
	return session.Engine.GetState(), nil
}

// GetGameState returns the live world snapshot
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		log.Printf("Warning: failed to touch session %s: %v", sessionID, err)
	}
	return session.Engine.GetState(), nil
}

// GetCapacity reports factory load for the session
func (s *gameServiceImpl) GetCapacity(ctx context.Context, sessionID string) (*engine.CapacityUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	usage := session.Engine.Capacity()
	return &usage, nil
}

// GetNotifications returns the bounded notification log, newest first
func (s *gameServiceImpl) GetNotifications(ctx context.Context, sessionID string) ([]engine.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Engine.GetState().Notifications, nil
}

// GetAnalytics returns the rolling company history
func (s *gameServiceImpl) GetAnalytics(ctx context.Context, sessionID string) ([]engine.AnalyticsEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Engine.GetState().HistoryLog, nil
}

// DevelopEngine designs a new engine in the session
func (s *gameServiceImpl) DevelopEngine(ctx context.Context, sessionID string, design engine.EngineDesign) (*engine.EngineSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	spec, err := session.Engine.DevelopEngine(design)
	if err != nil {
		return nil, err
	}
	s.autoSave(sessionID)
	return spec, nil
}

// DevelopCar registers a new car design in the session
func (s *gameServiceImpl) DevelopCar(ctx context.Context, sessionID string, design engine.CarDesign) (*engine.CarModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	car, err := session.Engine.DevelopCar(design)
	if err != nil {
		return nil, err
	}
	s.autoSave(sessionID)
	return car, nil
}

// StartProduction commits a manufacturing batch
func (s *gameServiceImpl) StartProduction(ctx context.Context, sessionID, carID string, batchSize int) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.StartProduction(carID, batchSize)
	})
}

// LiquidateStock clears a car's inventory at a discount
func (s *gameServiceImpl) LiquidateStock(ctx context.Context, sessionID, carID string) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.LiquidateStock(carID)
	})
}

// UpgradeFactory advances the factory one tier
func (s *gameServiceImpl) UpgradeFactory(ctx context.Context, sessionID string) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.UpgradeFactory()
	})
}

// AcceptContract activates a pending offer
func (s *gameServiceImpl) AcceptContract(ctx context.Context, sessionID, contractID string) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.AcceptContract(contractID)
	})
}

// RejectContract declines a pending offer
func (s *gameServiceImpl) RejectContract(ctx context.Context, sessionID, contractID string) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.RejectContract(contractID)
	})
}

// TakeLoan borrows against an offer tier
func (s *gameServiceImpl) TakeLoan(ctx context.Context, sessionID, offerID string) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.TakeLoan(offerID)
	})
}

// RepayLoan settles a loan in full
func (s *gameServiceImpl) RepayLoan(ctx context.Context, sessionID, loanID string) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.RepayLoan(loanID)
	})
}

// ResearchTech buys a technology
func (s *gameServiceImpl) ResearchTech(ctx context.Context, sessionID, techID string) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.ResearchTech(techID)
	})
}

// JoinRacingCategory enters a racing series
func (s *gameServiceImpl) JoinRacingCategory(ctx context.Context, sessionID, categoryID string, confirmed bool) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.JoinRacingCategory(categoryID, confirmed)
	})
}

// SetRacingBudget sets the monthly racing development budget
func (s *gameServiceImpl) SetRacingBudget(ctx context.Context, sessionID string, budget int64) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.SetRacingBudget(budget)
	})
}

// SelectRaceEngine homologates an engine for the current category
func (s *gameServiceImpl) SelectRaceEngine(ctx context.Context, sessionID, engineID string) (*engine.HomologationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	result, err := session.Engine.SelectRaceEngine(engineID)
	if err != nil {
		return &result, err
	}
	s.autoSave(sessionID)
	return &result, nil
}

// HireDriver signs a free agent
func (s *gameServiceImpl) HireDriver(ctx context.Context, sessionID, driverID string) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.HireDriver(driverID)
	})
}

// FireDriver terminates a driver's contract
func (s *gameServiceImpl) FireDriver(ctx context.Context, sessionID, driverID string) error {
	return s.withSession(sessionID, func(session *Session) error {
		return session.Engine.FireDriver(driverID)
	})
}

// CompleteTutorialStep acknowledges tutorial progress
func (s *gameServiceImpl) CompleteTutorialStep(ctx context.Context, sessionID string, step int) error {
	return s.withSession(sessionID, func(session *Session) error {
		session.Engine.CompleteTutorialStep(step)
		return nil
	})
}

// Save persists the session immediately
func (s *gameServiceImpl) Save(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Save(sessionID)
}

// ExportSave returns the session's save document as a raw JSON string
func (s *gameServiceImpl) ExportSave(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.sessions.ExportState(sessionID)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ImportSave validates and persists a save payload. The in-memory session is
// not touched; the imported state applies on the next load.
func (s *gameServiceImpl) ImportSave(ctx context.Context, sessionID string, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.ImportState(sessionID, []byte(payload))
}

// ListConfigs returns the available balance presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// withSession runs a mutating engine operation under the write lock and
// auto-saves on success.
func (s *gameServiceImpl) withSession(sessionID string, fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		return err
	}
	s.autoSave(sessionID)
	return nil
}

// autoSave persists after a mutation; failures are logged, not fatal.
func (s *gameServiceImpl) autoSave(sessionID string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: failed to persist session %s: %v", sessionID, err)
	}
}

func sessionInfo(session *Session) *SessionInfo {
	state := session.Engine.GetState()
	return &SessionInfo{
		SessionID:    session.ID,
		ConfigName:   session.ConfigName,
		CreatedAt:    session.CreatedAt,
		LastAccessed: session.LastAccessedAt,
		Year:         state.Year,
		Week:         engine.WeekOfYear(state.Date),
		Money:        state.Money,
		Prestige:     state.BrandPrestige,
		EndGameState: state.EndGameState,
		IsPaused:     state.IsPaused,
	}
}
