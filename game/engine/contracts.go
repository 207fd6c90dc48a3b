package engine

import (
	"math"

	"github.com/google/uuid"
)

// IsHighTechEngine reports whether an engine carries at least two premium
// technologies, which commands a better contract markup.
func IsHighTechEngine(eng EngineSpec) bool {
	count := 0
	if eng.Induction == InductionTurbo {
		count++
	}
	if eng.Block == MaterialAluminum {
		count++
	}
	if eng.Valvetrain == ValvetrainDOHC {
		count++
	}
	return count >= 2
}

// GenerateContractOffer draws a random client and a random unlocked engine
// and prices a supply deal. Returns nil when the player has no engines to
// offer. Offers are not checked against factory capacity here: capacity is
// enforced at accept time.
func GenerateContractOffer(cat *Catalog, state *GameState, rng Rand) *Contract {
	if len(state.UnlockedEngines) == 0 || len(cat.ClientCompanies) == 0 {
		return nil
	}

	client := cat.ClientCompanies[rng.Intn(len(cat.ClientCompanies))]
	eng := state.UnlockedEngines[rng.Intn(len(state.UnlockedEngines))]

	duration := 10 + rng.Intn(31)

	baseVolume := 300.0
	switch {
	case eng.ProductionCost > 5000:
		baseVolume = 30
	case eng.ProductionCost > 2000:
		baseVolume = 100
	}
	variation := 0.5 + rng.Float64()
	weeklyVolume := math.Round(baseVolume * variation)
	if weeklyVolume < 1 {
		weeklyVolume = 1
	}
	total := int(weeklyVolume) * duration

	markup := 1.1 + rng.Float64()*0.25
	if IsHighTechEngine(eng) {
		markup += 0.15
	}
	switch client.Preference {
	case "performance":
		if eng.Horsepower > 200 {
			markup += 0.05
		}
	case "eco":
		if eng.FuelEfficiency > 60 {
			markup += 0.05
		}
	}

	return &Contract{
		ID:            uuid.NewString(),
		ClientID:      client.ID,
		ClientName:    client.Name,
		EngineID:      eng.ID,
		TotalQuantity: total,
		UnitPrice:     int64(math.Round(float64(eng.ProductionCost) * markup)),
		DurationWeeks: duration,
		Status:        ContractPending,
		CreatedDay:    state.Date,
	}
}
