package engine

import (
	"encoding/json"
	"fmt"
	"os"
)

// Hard limits that are part of the rules rather than tunable balance.
const (
	MaxNotifications = 20
	MaxHistoryLog    = 60
	MaxTeamDrivers   = 2
	MaxRaceHistory   = 10

	DaysPerWeek  = 7
	DaysPerMonth = 28
	DaysPerYear  = 365
	EpochYear    = 1970
)

// FactoryTier describes one factory level: its weekly capacity and the cost
// to upgrade into it from the previous level.
type FactoryTier struct {
	Level       int     `json:"level"`
	Name        string  `json:"name"`
	CapacityPU  float64 `json:"capacity_pu"`
	UpgradeCost int64   `json:"upgrade_cost"`
}

// LoanOffer is a standing offer tier the player can borrow against.
type LoanOffer struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Amount      int64   `json:"amount"`
	Rate        float64 `json:"rate"`
	MinPrestige int     `json:"min_prestige"`
}

// EngineRegulations constrain which engines a racing category accepts.
// MaxPowerHP of zero means unrestricted power.
type EngineRegulations struct {
	MaxDisplacementCC int              `json:"max_displacement_cc"`
	AllowedLayouts    []CylinderLayout `json:"allowed_layouts"`
	AllowTurbo        bool             `json:"allow_turbo"`
	MaxPowerHP        float64          `json:"max_power_hp"`
	// MinWeightKG is the category's minimum car weight. Lighter series
	// punish engine mass harder. Zero means the 1000kg default.
	MinWeightKG float64 `json:"min_weight_kg"`
}

// RacingCategory is one joinable racing series.
type RacingCategory struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	EntryFee       int64             `json:"entry_fee"`
	MinPrestige    int               `json:"min_prestige"`
	WeeklyCost     int64             `json:"weekly_cost"`
	PrestigeReward int               `json:"prestige_reward"`
	Difficulty     float64           `json:"difficulty"`
	RiskFactor     float64           `json:"risk_factor"`
	Regulations    EngineRegulations `json:"regulations"`
}

// BalanceConfig is a tunable rule set for one game. Presets are loaded from
// JSON files; DefaultBalanceConfig returns the standard rules.
type BalanceConfig struct {
	Name                  string           `json:"name"`
	Description           string           `json:"description"`
	InitialMoney          int64            `json:"initial_money"`
	InitialPrestige       int              `json:"initial_prestige"`
	InitialResearchPoints int              `json:"initial_research_points"`
	WeeklyOpex            int64            `json:"weekly_opex"`
	BankruptcyFloor       int64            `json:"bankruptcy_floor"`
	VictoryMoney          int64            `json:"victory_money"`
	VictoryPrestige       int              `json:"victory_prestige"`
	MaxLoansPerTier       int              `json:"max_loans_per_tier"`
	FreeAgentPoolSize     int              `json:"free_agent_pool_size"`
	MaxContractOffers     int              `json:"max_contract_offers"`
	EventChance           float64          `json:"event_chance"`
	FactoryTiers          []FactoryTier    `json:"factory_tiers"`
	LoanOffers            []LoanOffer      `json:"loan_offers"`
	EventTemplates        []WorldEvent     `json:"event_templates"`
	RacingCategories      []RacingCategory `json:"racing_categories"`
}

// TierByLevel returns the factory tier for a level, or false when the level
// is out of range.
func (c *BalanceConfig) TierByLevel(level int) (FactoryTier, bool) {
	for _, t := range c.FactoryTiers {
		if t.Level == level {
			return t, true
		}
	}
	return FactoryTier{}, false
}

// LoanOfferByID returns the offer tier with the given id.
func (c *BalanceConfig) LoanOfferByID(id string) (LoanOffer, bool) {
	for _, o := range c.LoanOffers {
		if o.ID == id {
			return o, true
		}
	}
	return LoanOffer{}, false
}

// CategoryByID returns the racing category with the given id.
func (c *BalanceConfig) CategoryByID(id string) (RacingCategory, bool) {
	for _, rc := range c.RacingCategories {
		if rc.ID == id {
			return rc, true
		}
	}
	return RacingCategory{}, false
}

// ValidateBalanceConfig validates a balance configuration for correctness and
// playability.
func ValidateBalanceConfig(config *BalanceConfig) error {
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.InitialMoney <= 0 {
		return fmt.Errorf("config validation: initial_money must be positive, got %d", config.InitialMoney)
	}
	if config.WeeklyOpex < 0 {
		return fmt.Errorf("config validation: weekly_opex must not be negative, got %d", config.WeeklyOpex)
	}
	if config.BankruptcyFloor >= 0 {
		return fmt.Errorf("config validation: bankruptcy_floor must be negative, got %d", config.BankruptcyFloor)
	}
	if config.VictoryMoney <= config.InitialMoney {
		return fmt.Errorf("config validation: victory_money must exceed initial_money")
	}
	if config.VictoryPrestige <= config.InitialPrestige {
		return fmt.Errorf("config validation: victory_prestige must exceed initial_prestige")
	}
	if config.MaxLoansPerTier < 1 {
		return fmt.Errorf("config validation: max_loans_per_tier must be at least 1, got %d", config.MaxLoansPerTier)
	}
	if config.EventChance < 0 || config.EventChance > 1 {
		return fmt.Errorf("config validation: event_chance must be in [0,1], got %g", config.EventChance)
	}

	if len(config.FactoryTiers) == 0 {
		return fmt.Errorf("config validation: at least one factory tier is required")
	}
	for i, tier := range config.FactoryTiers {
		if tier.Level != i+1 {
			return fmt.Errorf("config validation: factory tier %d has level %d, tiers must be sequential from 1", i, tier.Level)
		}
		if tier.CapacityPU <= 0 {
			return fmt.Errorf("config validation: factory tier %d capacity must be positive, got %g", tier.Level, tier.CapacityPU)
		}
		if i > 0 {
			prev := config.FactoryTiers[i-1]
			if tier.CapacityPU <= prev.CapacityPU {
				return fmt.Errorf("config validation: factory tier %d capacity (%g) must exceed tier %d (%g)",
					tier.Level, tier.CapacityPU, prev.Level, prev.CapacityPU)
			}
			if tier.UpgradeCost <= 0 {
				return fmt.Errorf("config validation: factory tier %d upgrade cost must be positive", tier.Level)
			}
		}
	}

	for _, offer := range config.LoanOffers {
		if offer.ID == "" {
			return fmt.Errorf("config validation: loan offer id is required")
		}
		if offer.Amount <= 0 {
			return fmt.Errorf("config validation: loan offer %s amount must be positive, got %d", offer.ID, offer.Amount)
		}
		if offer.Rate <= 0 || offer.Rate >= 1 {
			return fmt.Errorf("config validation: loan offer %s rate must be in (0,1), got %g", offer.ID, offer.Rate)
		}
	}

	for _, tpl := range config.EventTemplates {
		if tpl.ID == "" {
			return fmt.Errorf("config validation: event template id is required")
		}
		if tpl.DurationWeeks <= 0 {
			return fmt.Errorf("config validation: event %s duration must be positive, got %d", tpl.ID, tpl.DurationWeeks)
		}
		m := tpl.Modifiers
		if m.DemandMultiplier < 0 || m.ProductionCostMultiplier < 0 {
			return fmt.Errorf("config validation: event %s multipliers must not be negative", tpl.ID)
		}
	}

	for _, rc := range config.RacingCategories {
		if rc.ID == "" {
			return fmt.Errorf("config validation: racing category id is required")
		}
		if rc.EntryFee < 0 || rc.WeeklyCost < 0 {
			return fmt.Errorf("config validation: racing category %s costs must not be negative", rc.ID)
		}
		if len(rc.Regulations.AllowedLayouts) == 0 {
			return fmt.Errorf("config validation: racing category %s must allow at least one layout", rc.ID)
		}
		if rc.RiskFactor <= 0 {
			return fmt.Errorf("config validation: racing category %s risk_factor must be positive, got %g", rc.ID, rc.RiskFactor)
		}
	}

	return nil
}

// LoadBalanceConfig reads and validates a balance configuration from a JSON
// file.
func LoadBalanceConfig(path string) (*BalanceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config BalanceConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := ValidateBalanceConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &config, nil
}

// DefaultBalanceConfig returns the standard rule set.
func DefaultBalanceConfig() *BalanceConfig {
	return &BalanceConfig{
		Name:                  "standard",
		Description:           "Standard campaign rules",
		InitialMoney:          5_000_000,
		InitialPrestige:       10,
		InitialResearchPoints: 200,
		WeeklyOpex:            15_000,
		BankruptcyFloor:       -10_000_000,
		VictoryMoney:          1_000_000_000,
		VictoryPrestige:       1000,
		MaxLoansPerTier:       2,
		FreeAgentPoolSize:     12,
		MaxContractOffers:     3,
		EventChance:           0.01,
		FactoryTiers: []FactoryTier{
			{Level: 1, Name: "Backyard Garage", CapacityPU: 500, UpgradeCost: 0},
			{Level: 2, Name: "Small Workshop", CapacityPU: 2_000, UpgradeCost: 500_000},
			{Level: 3, Name: "Assembly Plant", CapacityPU: 10_000, UpgradeCost: 2_000_000},
			{Level: 4, Name: "Industrial Complex", CapacityPU: 50_000, UpgradeCost: 10_000_000},
			{Level: 5, Name: "Giga Factory", CapacityPU: 200_000, UpgradeCost: 50_000_000},
		},
		LoanOffers: []LoanOffer{
			{ID: "loan_venture", Name: "Venture Capital", Amount: 10_000_000, Rate: 0.05, MinPrestige: 10},
			{ID: "loan_investment", Name: "Investment Bank", Amount: 100_000_000, Rate: 0.035, MinPrestige: 70},
			{ID: "loan_global", Name: "Global Finance Group", Amount: 500_000_000, Rate: 0.02, MinPrestige: 200},
		},
		EventTemplates: []WorldEvent{
			{
				ID: "evt_boom", Title: "Economic Boom", Type: "economy",
				Description:   "Consumer confidence surges and showrooms fill up.",
				DurationWeeks: 8,
				Modifiers:     EventModifiers{DemandMultiplier: 1.3},
			},
			{
				ID: "evt_recession", Title: "Recession", Type: "economy",
				Description:   "Markets contract and credit tightens.",
				DurationWeeks: 12,
				Modifiers:     EventModifiers{DemandMultiplier: 0.6, InterestRateOffset: 0.005},
			},
			{
				ID: "evt_fuel_crisis", Title: "Fuel Crisis", Type: "market",
				Description:   "Pump prices spike. Buyers flock to efficient cars.",
				DurationWeeks: 10,
				Modifiers:     EventModifiers{DemandMultiplier: 0.85, PreferredEngineType: "eco"},
			},
			{
				ID: "evt_steel_shortage", Title: "Steel Shortage", Type: "supply",
				Description:   "Raw material costs climb across the industry.",
				DurationWeeks: 6,
				Modifiers:     EventModifiers{ProductionCostMultiplier: 1.4},
			},
			{
				ID: "evt_tech_bubble", Title: "Tech Bubble", Type: "market",
				Description:   "Speculative money chases anything fast.",
				DurationWeeks: 8,
				Modifiers:     EventModifiers{DemandMultiplier: 1.1, PreferredEngineType: "performance"},
			},
		},
		RacingCategories: []RacingCategory{
			{
				ID: "rc_amateur", Name: "Amateur Cup",
				EntryFee: 50_000, MinPrestige: 0, WeeklyCost: 5_000,
				PrestigeReward: 2, Difficulty: 20, RiskFactor: 1.0,
				Regulations: EngineRegulations{
					MaxDisplacementCC: 2000,
					AllowedLayouts:    []CylinderLayout{LayoutI3, LayoutI4},
					AllowTurbo:        false,
					MaxPowerHP:        150,
					MinWeightKG:       1000,
				},
			},
			{
				ID: "rc_touring", Name: "Touring Championship",
				EntryFee: 500_000, MinPrestige: 50, WeeklyCost: 25_000,
				PrestigeReward: 8, Difficulty: 50, RiskFactor: 1.2,
				Regulations: EngineRegulations{
					MaxDisplacementCC: 3500,
					AllowedLayouts:    []CylinderLayout{LayoutI4, LayoutI6, LayoutV6},
					AllowTurbo:        true,
					MaxPowerHP:        400,
					MinWeightKG:       1200,
				},
			},
			{
				ID: "rc_grand", Name: "Grand Series",
				EntryFee: 5_000_000, MinPrestige: 300, WeeklyCost: 120_000,
				PrestigeReward: 25, Difficulty: 80, RiskFactor: 1.5,
				Regulations: EngineRegulations{
					MaxDisplacementCC: 6000,
					AllowedLayouts:    []CylinderLayout{LayoutV6, LayoutV8, LayoutV10, LayoutV12},
					AllowTurbo:        true,
					MaxPowerHP:        0,
					MinWeightKG:       750,
				},
			},
		},
	}
}
