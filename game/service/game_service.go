package service

import (
	"context"
	"time"

	"github.com/wricardo/motor-tycoon-game/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Simulation control
	AdvanceWeek(ctx context.Context, sessionID string) (*TickResult, error)
	SetPaused(ctx context.Context, sessionID string, paused bool) error
	SetGameSpeed(ctx context.Context, sessionID string, speed int) error
	ForceAdvanceYear(ctx context.Context, sessionID string) error
	ContinuePlaying(ctx context.Context, sessionID string) error
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetCapacity(ctx context.Context, sessionID string) (*engine.CapacityUsage, error)
	GetNotifications(ctx context.Context, sessionID string) ([]engine.Notification, error)
	GetAnalytics(ctx context.Context, sessionID string) ([]engine.AnalyticsEntry, error)

	// Design & production
	DevelopEngine(ctx context.Context, sessionID string, design engine.EngineDesign) (*engine.EngineSpec, error)
	DevelopCar(ctx context.Context, sessionID string, design engine.CarDesign) (*engine.CarModel, error)
	StartProduction(ctx context.Context, sessionID, carID string, batchSize int) error
	LiquidateStock(ctx context.Context, sessionID, carID string) error
	UpgradeFactory(ctx context.Context, sessionID string) error

	// Contracts & finance
	AcceptContract(ctx context.Context, sessionID, contractID string) error
	RejectContract(ctx context.Context, sessionID, contractID string) error
	TakeLoan(ctx context.Context, sessionID, offerID string) error
	RepayLoan(ctx context.Context, sessionID, loanID string) error
	ResearchTech(ctx context.Context, sessionID, techID string) error

	// Racing
	JoinRacingCategory(ctx context.Context, sessionID, categoryID string, confirmed bool) error
	SetRacingBudget(ctx context.Context, sessionID string, budget int64) error
	SelectRaceEngine(ctx context.Context, sessionID, engineID string) (*engine.HomologationResult, error)
	HireDriver(ctx context.Context, sessionID, driverID string) error
	FireDriver(ctx context.Context, sessionID, driverID string) error

	// Tutorial
	CompleteTutorialStep(ctx context.Context, sessionID string, step int) error

	// Persistence
	Save(ctx context.Context, sessionID string) error
	ExportSave(ctx context.Context, sessionID string) (string, error)
	ImportSave(ctx context.Context, sessionID string, payload string) error

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.BalanceConfig, configName string) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
	ImportState(id string, payload []byte) error
	ExportState(id string) ([]byte, error)
	Reset(id string) (*Session, error)
}

// ConfigManager handles balance configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.BalanceConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.BalanceConfig
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	ConfigName     string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
