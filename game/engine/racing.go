package engine

import (
	"fmt"
	"math"
)

// Homologation statuses.
const (
	HomologationValid      = "VALID"
	HomologationRestricted = "RESTRICTED"
	HomologationBanned     = "BANNED"
)

// HomologationResult is the scrutineering verdict for an engine in a
// category. Restricted engines race with their power capped.
type HomologationResult struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	EffectiveHP float64 `json:"effective_hp"`
}

// ValidateEngineForCategory checks an engine against a category's
// regulations. A 5% displacement tolerance is granted before an outright ban.
func ValidateEngineForCategory(eng EngineSpec, category RacingCategory) HomologationResult {
	regs := category.Regulations

	if float64(eng.DisplacementCC) > float64(regs.MaxDisplacementCC)*1.05 {
		return HomologationResult{
			Status:  HomologationBanned,
			Message: fmt.Sprintf("displacement %dcc exceeds the %dcc limit", eng.DisplacementCC, regs.MaxDisplacementCC),
		}
	}
	layoutAllowed := false
	for _, l := range regs.AllowedLayouts {
		if l == eng.Layout {
			layoutAllowed = true
			break
		}
	}
	if !layoutAllowed {
		return HomologationResult{
			Status:  HomologationBanned,
			Message: fmt.Sprintf("%s layout is not permitted in %s", eng.Layout, category.Name),
		}
	}
	if !regs.AllowTurbo && eng.Induction == InductionTurbo {
		return HomologationResult{
			Status:  HomologationBanned,
			Message: fmt.Sprintf("forced induction is banned in %s", category.Name),
		}
	}
	if regs.MaxPowerHP > 0 && eng.Horsepower > regs.MaxPowerHP {
		return HomologationResult{
			Status:      HomologationRestricted,
			Message:     fmt.Sprintf("power capped at %.0f hp by restrictor", regs.MaxPowerHP),
			EffectiveHP: regs.MaxPowerHP,
		}
	}
	return HomologationResult{Status: HomologationValid, Message: "Homologated", EffectiveHP: eng.Horsepower}
}

// FallbackRaceEngine is the weak customer engine used when the team has not
// selected one.
func FallbackRaceEngine() EngineSpec {
	return EngineSpec{
		ID:             "eng_customer_unit",
		Name:           "Customer Unit",
		Layout:         LayoutI4,
		Fuel:           FuelGasoline,
		Valvetrain:     ValvetrainSOHC,
		Induction:      InductionNA,
		Horsepower:     80,
		WeightKG:       150,
		Reliability:    50,
		FuelEfficiency: 50,
	}
}

// SimulateRace runs one race weekend for the team in the given category.
// The returned result carries per-driver finishing positions keyed by driver
// id; position 20 marks a crash or mechanical retirement.
func SimulateRace(team *RacingTeam, category RacingCategory, eng EngineSpec, currentWeek int, rng Rand) RaceResult {
	result := RaceResult{Week: currentWeek, Positions: map[string]int{}, BestPos: 20}

	if len(team.Drivers) == 0 {
		result.Prestige = -2
		return result
	}

	homologation := ValidateEngineForCategory(eng, category)
	if homologation.Status == HomologationBanned {
		for _, d := range team.Drivers {
			result.Positions[d.ID] = 20
		}
		result.Crashed = true
		result.Prestige = -5
		return result
	}
	effectiveHP := homologation.EffectiveHP

	// Each kilo over the 100kg reference hurts more in lighter categories.
	minWeight := category.Regulations.MinWeightKG
	if minWeight <= 0 {
		minWeight = 1000
	}
	weightPenalty := math.Max(0, eng.WeightKG-100) * (100 / minWeight)
	strategyMod := (eng.FuelEfficiency - 50) * 0.1
	avgReliability := (eng.Reliability + team.CarReliability) / 2

	// Rewards accrue per entry: every finisher earns their position's payout
	// and every retirement costs a point of prestige.
	taken := map[int]bool{}
	for _, d := range team.Drivers {
		if rng.Float64()*100 > avgReliability+20 && rng.Float64() < 0.2 {
			result.Positions[d.ID] = 20
			result.Failure = true
			result.Prestige--
			continue
		}

		skill := math.Max(1, d.Stats.Skill)
		crashChance := (d.Stats.Aggression/skill)*category.RiskFactor*0.01 - d.Stats.Experience*0.002
		if crashChance < 0.01 {
			crashChance = 0.01
		}
		if rng.Float64() < crashChance {
			result.Positions[d.ID] = 20
			result.Crashed = true
			result.Prestige--
			continue
		}

		score := team.CarPerformance*0.5 +
			(effectiveHP/10)*0.8 - weightPenalty + strategyMod +
			d.Stats.Skill*0.3 + d.Stats.Aggression*0.1 +
			rng.Float64()*10

		pos := 10 - int(math.Round((score-category.Difficulty)/2.5))
		if pos < 1 {
			pos = 1
		}
		if pos > 19 {
			pos = 19
		}
		for taken[pos] && pos < 19 {
			pos++
		}
		taken[pos] = true
		result.Positions[d.ID] = pos
		if pos < result.BestPos {
			result.BestPos = pos
		}

		switch {
		case pos == 1:
			result.Prestige += category.PrestigeReward
			result.Prize += category.WeeklyCost * 6
		case pos <= 3:
			result.Prestige += category.PrestigeReward / 2
			result.Prize += int64(float64(category.WeeklyCost) * 2.5)
		case pos <= 10:
			result.Prestige++
			result.Prize += int64(math.Floor(float64(category.WeeklyCost) * 0.8))
		default:
			result.Prestige--
		}
	}
	return result
}
