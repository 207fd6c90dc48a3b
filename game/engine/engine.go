package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Engine is the contract for one game's simulation: the weekly tick plus
// every player command. All methods are synchronous and single-threaded;
// callers serialize access.
type Engine interface {
	GetState() *GameState
	AdvanceWeek() []Notification
	Capacity() CapacityUsage

	DevelopEngine(design EngineDesign) (*EngineSpec, error)
	DevelopCar(design CarDesign) (*CarModel, error)
	StartProduction(carID string, batchSize int) error
	LiquidateStock(carID string) error
	UpgradeFactory() error
	AcceptContract(contractID string) error
	RejectContract(contractID string) error
	TakeLoan(offerID string) error
	RepayLoan(loanID string) error
	ResearchTech(techID string) error
	GainResearchPoints(points int, reason string)
	JoinRacingCategory(categoryID string, confirmed bool) error
	SetRacingBudget(budget int64) error
	SelectRaceEngine(engineID string) (HomologationResult, error)
	HireDriver(driverID string) error
	FireDriver(driverID string) error
	SetPaused(paused bool)
	SetGameSpeed(speed int) error
	ForceAdvanceYear()
	ContinuePlaying() error
	CompleteTutorialStep(step int)
}

// GameEngine implements Engine for a single game.
type GameEngine struct {
	cfg   *BalanceConfig
	cat   *Catalog
	rng   Rand
	state *GameState
}

// NewEngine validates the balance config and creates a fresh game.
func NewEngine(cfg *BalanceConfig) (*GameEngine, error) {
	return NewEngineWithRand(cfg, NewRand(time.Now().UnixNano()))
}

// NewEngineWithRand creates a fresh game with an injected random source.
func NewEngineWithRand(cfg *BalanceConfig, rng Rand) (*GameEngine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := ValidateBalanceConfig(cfg); err != nil {
		return nil, err
	}
	cat, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	e := &GameEngine{cfg: cfg, cat: cat, rng: rng}
	e.state = NewGameState(cfg, cat, rng)
	return e, nil
}

// NewEngineFromState wraps a loaded snapshot, for restoring saved games.
func NewEngineFromState(cfg *BalanceConfig, state *GameState, rng Rand) (*GameEngine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if state == nil {
		return nil, fmt.Errorf("state cannot be nil")
	}
	if err := ValidateBalanceConfig(cfg); err != nil {
		return nil, err
	}
	cat, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(time.Now().UnixNano())
	}
	return &GameEngine{cfg: cfg, cat: cat, rng: rng, state: state}, nil
}

// GetState returns the live snapshot. Callers must not retain it across
// commands without the owning service's lock.
func (e *GameEngine) GetState() *GameState { return e.state }

// Config returns the balance configuration the game runs under.
func (e *GameEngine) Config() *BalanceConfig { return e.cfg }

// Catalog returns the static content catalog.
func (e *GameEngine) Catalog() *Catalog { return e.cat }

// Capacity reports current factory load.
func (e *GameEngine) Capacity() CapacityUsage {
	return ComputeCapacity(e.cat, e.cfg, e.state)
}

// NewGameState builds the initial world snapshot: starting funds, an empty
// factory, two supplier engines to outsource from, and a small free-agent
// pool.
func NewGameState(cfg *BalanceConfig, cat *Catalog, rng Rand) *GameState {
	s := &GameState{
		Money:          cfg.InitialMoney,
		ResearchPoints: cfg.InitialResearchPoints,
		Date:           0,
		Year:           EpochYear,
		BrandPrestige:  cfg.InitialPrestige,
		GameSpeed:      1,
		Factory:        FactoryState{Level: 1},
		RacingTeam: RacingTeam{
			Name:           "Works Team",
			Drivers:        []Driver{},
			CarPerformance: 10,
			CarReliability: 50,
		},
		UnlockedEngines: []EngineSpec{},
		DevelopedCars:   []CarModel{},
		FreeAgents:      []Driver{},
		UnlockedTechIDs: []string{},
		ContractOffers:  []Contract{},
		ActiveContracts: []Contract{},
		ActiveLoans:     []Loan{},
		HistoryLog:      []AnalyticsEntry{},
		Notifications:   []Notification{},
		Tutorial:        TutorialState{IsActive: true},
	}

	for _, d := range []EngineDesign{
		{Name: "Brampton 1.2 OHV", Layout: LayoutI3, Block: MaterialSteel, Fuel: FuelGasoline,
			Valvetrain: ValvetrainOHV, Induction: InductionNA, BoreMM: 72, StrokeMM: 78, Quality: 40},
		{Name: "Vesta 2.0 SOHC", Layout: LayoutI4, Block: MaterialSteel, Fuel: FuelGasoline,
			Valvetrain: ValvetrainSOHC, Induction: InductionNA, BoreMM: 86, StrokeMM: 86, Quality: 50},
	} {
		spec := CalculateEngineStats(cat, d)
		spec.ID = uuid.NewString()
		spec.IsSupplier = true
		spec.UnlockYear = EpochYear
		s.UnlockedEngines = append(s.UnlockedEngines, spec)
	}

	for i := 0; i < 4; i++ {
		s.FreeAgents = append(s.FreeAgents, GenerateRandomDriver(cat, s.Year, rng))
	}

	s.Notify("Welcome to the company. The board expects great things.", SeverityInfo)
	return s
}
