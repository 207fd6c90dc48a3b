package engine

// CylinderLayout identifies an engine block configuration.
type CylinderLayout string

const (
	LayoutI3  CylinderLayout = "I3"
	LayoutI4  CylinderLayout = "I4"
	LayoutI6  CylinderLayout = "I6"
	LayoutV6  CylinderLayout = "V6"
	LayoutV8  CylinderLayout = "V8"
	LayoutV10 CylinderLayout = "V10"
	LayoutV12 CylinderLayout = "V12"
)

// LayoutProfile holds the fixed physical characteristics of a cylinder layout.
type LayoutProfile struct {
	Cylinders         int     `json:"cylinders" yaml:"cylinders"`
	MaxDisplacementCC int     `json:"max_displacement_cc" yaml:"max_displacement_cc"`
	BaseWeightKG      float64 `json:"base_weight_kg" yaml:"base_weight_kg"`
	Smoothness        float64 `json:"smoothness" yaml:"smoothness"`
}

// Block materials, fuel types, valvetrains and induction types accepted by the
// engine designer. Values outside these sets are tolerated by the formulas but
// rejected by command validation.
const (
	MaterialSteel    = "steel"
	MaterialAluminum = "aluminum"

	FuelGasoline = "gasoline"
	FuelDiesel   = "diesel"
	FuelFlex     = "flex"

	ValvetrainOHV  = "OHV"
	ValvetrainSOHC = "SOHC"
	ValvetrainDOHC = "DOHC"

	InductionNA    = "na"
	InductionTurbo = "turbo"
)

// EngineDesign is the player-chosen input to the engine stat calculator.
type EngineDesign struct {
	Name       string         `json:"name"`
	Layout     CylinderLayout `json:"layout"`
	Block      string         `json:"block"`
	Fuel       string         `json:"fuel"`
	Valvetrain string         `json:"valvetrain"`
	Induction  string         `json:"induction"`
	BoreMM     float64        `json:"bore_mm"`
	StrokeMM   float64        `json:"stroke_mm"`
	Quality    float64        `json:"quality"`
}

// EngineSpec is a finished engine: the design plus every derived stat.
// Specs are immutable once created and live in the unlocked-engine
// collection for the rest of the game.
type EngineSpec struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Layout         CylinderLayout `json:"layout"`
	Block          string         `json:"block"`
	Fuel           string         `json:"fuel"`
	Valvetrain     string         `json:"valvetrain"`
	Induction      string         `json:"induction"`
	BoreMM         float64        `json:"bore_mm"`
	StrokeMM       float64        `json:"stroke_mm"`
	Quality        float64        `json:"quality"`
	DisplacementCC int            `json:"displacement_cc"`
	Horsepower     float64        `json:"horsepower"`
	Torque         float64        `json:"torque"`
	RedlineRPM     int            `json:"redline_rpm"`
	WeightKG       float64        `json:"weight_kg"`
	Reliability    float64        `json:"reliability"`
	FuelEfficiency float64        `json:"fuel_efficiency"`
	ProductionCost int64          `json:"production_cost"`
	IsSupplier     bool           `json:"is_supplier,omitempty"`
	UnlockYear     int            `json:"unlock_year,omitempty"`
}

// DynoPoint is one sample of a synthetic dyno curve.
type DynoPoint struct {
	RPM        int     `json:"rpm"`
	Torque     float64 `json:"torque"`
	Horsepower float64 `json:"horsepower"`
}

// Market segments for car models.
const (
	CategoryPopular      = "Popular"
	CategoryIntermediate = "Intermediate"
	CategoryLuxury       = "Luxury"
	CategorySupercar     = "Supercar"
)

// Frame types.
const (
	FrameMonocoque = "monocoque"
	FrameLadder    = "ladder"
)

// CarDesign is the full player-chosen configuration for a car model.
type CarDesign struct {
	Name               string            `json:"name"`
	Category           string            `json:"category"`
	EngineID           string            `json:"engine_id"`
	BodyTypeID         string            `json:"body_type_id"`
	FrameType          string            `json:"frame_type"`
	FrameMaterial      string            `json:"frame_material"`
	WheelbaseCM        float64           `json:"wheelbase_cm"`
	EngineBaySize      float64           `json:"engine_bay_size"`
	DrivetrainID       string            `json:"drivetrain_id"`
	SuspensionID       string            `json:"suspension_id"`
	TireID             string            `json:"tire_id"`
	RideHeight         float64           `json:"ride_height"`
	Cosmetics          map[string]string `json:"cosmetics"`
	Features           map[string]string `json:"features"`
	InteriorQuality    float64           `json:"interior_quality"`
	SuspensionStiffness float64          `json:"suspension_stiffness"`
	Price              int64             `json:"price"`
}

// CarStats bundles every derived stat for a car design.
type CarStats struct {
	WeightKG       float64 `json:"weight_kg"`
	ProductionCost int64   `json:"production_cost"`
	Drag           float64 `json:"drag"`
	AeroScore      float64 `json:"aero_score"`
	AccelSec       float64 `json:"accel_sec"`
	TopSpeedKPH    float64 `json:"top_speed_kph"`
	Handling       float64 `json:"handling"`
	Comfort        float64 `json:"comfort"`
	Safety         float64 `json:"safety"`
	Adaptability   float64 `json:"adaptability"`
	MarketAppeal   float64 `json:"market_appeal"`
}

// CarStatResult is either a stat bundle or an incompatibility notice when the
// engine does not fit the configured bay.
type CarStatResult struct {
	Compatible bool     `json:"compatible"`
	Message    string   `json:"message,omitempty"`
	Stats      CarStats `json:"stats"`
}

// Review is one reviewer's take on a released car.
type Review struct {
	Reviewer string  `json:"reviewer"`
	Score    float64 `json:"score"`
	Comment  string  `json:"comment"`
}

// ProductionState tracks an in-progress manufacturing batch on a car model.
type ProductionState struct {
	IsActive      bool    `json:"is_active"`
	TotalBatch    int     `json:"total_batch"`
	UnitsProduced int     `json:"units_produced"`
	WeeklyRate    int     `json:"weekly_rate"`
	EffortPerUnit float64 `json:"effort_per_unit"`
}

// CarModel is a developed car: immutable design plus mutable market state.
type CarModel struct {
	ID                string           `json:"id"`
	Design            CarDesign        `json:"design"`
	IsOutsourcedEngine bool            `json:"is_outsourced_engine"`
	Stats             CarStats         `json:"stats"`
	Reviews           []Review         `json:"reviews,omitempty"`
	ReviewScore       int              `json:"review_score"`
	IsReleased        bool             `json:"is_released"`
	LaunchDay         int              `json:"launch_day"`
	Inventory         int              `json:"inventory"`
	TotalSold         int              `json:"total_sold"`
	Production        *ProductionState `json:"production,omitempty"`
}

// DriverStats holds a driver's ability scores. Skill never exceeds Talent.
type DriverStats struct {
	Skill      float64 `json:"skill"`
	Talent     float64 `json:"talent"`
	Experience float64 `json:"experience"`
	Aggression float64 `json:"aggression"`
}

// Driver is a racing driver, either in the free-agent pool or on the team.
type Driver struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Age             int         `json:"age"`
	Salary          int64       `json:"salary"`
	ContractEndYear int         `json:"contract_end_year"`
	Stats           DriverStats `json:"stats"`
	MarketValue     int64       `json:"market_value"`
}

// RaceResult records the outcome of one simulated race.
type RaceResult struct {
	Week      int            `json:"week"`
	Positions map[string]int `json:"positions"`
	BestPos   int            `json:"best_pos"`
	Prize     int64          `json:"prize"`
	Prestige  int            `json:"prestige"`
	Crashed   bool           `json:"crashed"`
	Failure   bool           `json:"failure"`
}

// RacingTeam is the singleton racing operation.
type RacingTeam struct {
	Name           string      `json:"name"`
	CategoryID     string      `json:"category_id,omitempty"`
	EngineID       string      `json:"engine_id,omitempty"`
	Drivers        []Driver    `json:"drivers"`
	MonthlyBudget  int64       `json:"monthly_budget"`
	CarPerformance float64     `json:"car_performance"`
	CarReliability float64     `json:"car_reliability"`
	LastResult     *RaceResult `json:"last_result,omitempty"`
	History        []int       `json:"history,omitempty"`
}

// Contract statuses.
const (
	ContractPending   = "pending"
	ContractActive    = "active"
	ContractCompleted = "completed"
)

// Contract is a B2B engine supply agreement.
type Contract struct {
	ID            string `json:"id"`
	ClientID      string `json:"client_id"`
	ClientName    string `json:"client_name"`
	EngineID      string `json:"engine_id"`
	TotalQuantity int    `json:"total_quantity"`
	Delivered     int    `json:"delivered"`
	UnitPrice     int64  `json:"unit_price"`
	DurationWeeks int    `json:"duration_weeks"`
	Status        string `json:"status"`
	CreatedDay    int    `json:"created_day"`
}

// Loan is an outstanding debt. Principal only changes via full repayment.
type Loan struct {
	ID           string  `json:"id"`
	OfferID      string  `json:"offer_id"`
	Name         string  `json:"name"`
	Principal    int64   `json:"principal"`
	InterestRate float64 `json:"interest_rate"`
	DateTaken    int     `json:"date_taken"`
}

// FactoryState holds the current factory tier. Tiers only advance.
type FactoryState struct {
	Level int `json:"level"`
}

// EventModifiers is the sparse modifier set a world event applies.
type EventModifiers struct {
	DemandMultiplier         float64 `json:"demand_multiplier,omitempty" yaml:"demand_multiplier,omitempty"`
	ProductionCostMultiplier float64 `json:"production_cost_multiplier,omitempty" yaml:"production_cost_multiplier,omitempty"`
	InterestRateOffset       float64 `json:"interest_rate_offset,omitempty" yaml:"interest_rate_offset,omitempty"`
	PreferredEngineType      string  `json:"preferred_engine_type,omitempty" yaml:"preferred_engine_type,omitempty"`
}

// WorldEvent is a live (or template) market-wide event.
type WorldEvent struct {
	ID            string         `json:"id" yaml:"id"`
	Title         string         `json:"title" yaml:"title"`
	Description   string         `json:"description" yaml:"description"`
	Type          string         `json:"type" yaml:"type"`
	StartDay      int            `json:"start_day" yaml:"-"`
	DurationWeeks int            `json:"duration_weeks" yaml:"duration_weeks"`
	Modifiers     EventModifiers `json:"modifiers" yaml:"modifiers"`
}

// Notification severities.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Notification is a user-visible log entry. The log is most-recent-first and
// capped at MaxNotifications.
type Notification struct {
	Text     string `json:"text"`
	Severity string `json:"severity"`
	Day      int    `json:"day"`
}

// AnalyticsEntry is one point of the rolling company history chart.
type AnalyticsEntry struct {
	Label       string `json:"label"`
	Money       int64  `json:"money"`
	SalesVolume int    `json:"sales_volume"`
	Prestige    int    `json:"prestige"`
	Headline    string `json:"headline,omitempty"`
}

// TutorialState tracks onboarding progress.
type TutorialState struct {
	IsActive    bool `json:"is_active"`
	CurrentStep int  `json:"current_step"`
	IsCompleted bool `json:"is_completed"`
}

// End-game states. Empty string means the game is still running.
const (
	EndGameNone    = ""
	EndGameVictory = "victory"
	EndGameDefeat  = "defeat"
)

// GameState is the complete world snapshot. The tick engine and command
// handlers are the only writers; everything else reads.
type GameState struct {
	Money            int64           `json:"money"`
	ResearchPoints   int             `json:"research_points"`
	Date             int             `json:"date"`
	Year             int             `json:"year"`
	BrandPrestige    int             `json:"brand_prestige"`
	IsPaused         bool            `json:"is_paused"`
	GameSpeed        int             `json:"game_speed"`
	LastWeeklyProfit int64           `json:"last_weekly_profit"`
	EndGameState     string          `json:"end_game_state,omitempty"`
	HasWon           bool            `json:"has_won"`
	Factory          FactoryState    `json:"factory"`
	UnlockedEngines  []EngineSpec    `json:"unlocked_engines"`
	DevelopedCars    []CarModel      `json:"developed_cars"`
	RacingTeam       RacingTeam      `json:"racing_team"`
	FreeAgents       []Driver        `json:"free_agents"`
	UnlockedTechIDs  []string        `json:"unlocked_tech_ids"`
	ContractOffers   []Contract      `json:"contract_offers"`
	ActiveContracts  []Contract      `json:"active_contracts"`
	ActiveLoans      []Loan          `json:"active_loans"`
	TotalInterest    int64           `json:"total_interest_paid"`
	ActiveEvent      *WorldEvent     `json:"active_event,omitempty"`
	HistoryLog       []AnalyticsEntry `json:"history_log"`
	Notifications    []Notification  `json:"notifications"`
	Tutorial         TutorialState   `json:"tutorial"`

	// recent buffers notifications since the last tick started, newest
	// first, so a tick can report what it produced even when the bounded
	// log is already full. Transient; never persisted.
	recent []Notification
}

// EngineByID returns the unlocked engine with the given id.
func (s *GameState) EngineByID(id string) (*EngineSpec, bool) {
	for i := range s.UnlockedEngines {
		if s.UnlockedEngines[i].ID == id {
			return &s.UnlockedEngines[i], true
		}
	}
	return nil, false
}

// CarByID returns the developed car with the given id.
func (s *GameState) CarByID(id string) (*CarModel, bool) {
	for i := range s.DevelopedCars {
		if s.DevelopedCars[i].ID == id {
			return &s.DevelopedCars[i], true
		}
	}
	return nil, false
}

// Notify prepends a notification and truncates the log to MaxNotifications.
func (s *GameState) Notify(text, severity string) {
	n := Notification{Text: text, Severity: severity, Day: s.Date}
	s.Notifications = append([]Notification{n}, s.Notifications...)
	if len(s.Notifications) > MaxNotifications {
		s.Notifications = s.Notifications[:MaxNotifications]
	}
	s.recent = append([]Notification{n}, s.recent...)
}

// takeRecent drains the per-tick notification buffer.
func (s *GameState) takeRecent() []Notification {
	fresh := s.recent
	s.recent = nil
	if fresh == nil {
		fresh = []Notification{}
	}
	return fresh
}
