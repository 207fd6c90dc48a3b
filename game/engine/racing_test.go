package engine

import "testing"

func amateurCategory() RacingCategory {
	return RacingCategory{
		ID: "rc_amateur", Name: "Amateur Cup",
		WeeklyCost: 5_000, PrestigeReward: 2, Difficulty: 20, RiskFactor: 1.0,
		Regulations: EngineRegulations{
			MaxDisplacementCC: 2000,
			AllowedLayouts:    []CylinderLayout{LayoutI3, LayoutI4},
			AllowTurbo:        false,
			MaxPowerHP:        150,
			MinWeightKG:       1000,
		},
	}
}

func TestValidateEngineForCategory(t *testing.T) {
	category := amateurCategory()

	tests := []struct {
		name string
		eng  EngineSpec
		want string
	}{
		{
			name: "compliant",
			eng:  EngineSpec{Layout: LayoutI4, DisplacementCC: 1998, Induction: InductionNA, Horsepower: 120},
			want: HomologationValid,
		},
		{
			name: "within displacement tolerance",
			eng:  EngineSpec{Layout: LayoutI4, DisplacementCC: 2100, Induction: InductionNA, Horsepower: 120},
			want: HomologationValid,
		},
		{
			name: "over displacement tolerance",
			eng:  EngineSpec{Layout: LayoutI4, DisplacementCC: 2101, Induction: InductionNA, Horsepower: 120},
			want: HomologationBanned,
		},
		{
			name: "disallowed layout",
			eng:  EngineSpec{Layout: LayoutV8, DisplacementCC: 1900, Induction: InductionNA, Horsepower: 120},
			want: HomologationBanned,
		},
		{
			name: "turbo where banned",
			eng:  EngineSpec{Layout: LayoutI4, DisplacementCC: 1500, Induction: InductionTurbo, Horsepower: 120},
			want: HomologationBanned,
		},
		{
			name: "over power cap",
			eng:  EngineSpec{Layout: LayoutI4, DisplacementCC: 1998, Induction: InductionNA, Horsepower: 200},
			want: HomologationRestricted,
		},
	}
	for _, tt := range tests {
		result := ValidateEngineForCategory(tt.eng, category)
		if result.Status != tt.want {
			t.Errorf("%s: got %s, want %s (%s)", tt.name, result.Status, tt.want, result.Message)
		}
	}
}

func TestValidateEngineForCategory_RestrictorCapsPower(t *testing.T) {
	eng := EngineSpec{Layout: LayoutI4, DisplacementCC: 1998, Induction: InductionNA, Horsepower: 220}
	result := ValidateEngineForCategory(eng, amateurCategory())
	if result.Status != HomologationRestricted {
		t.Fatalf("expected restricted, got %s", result.Status)
	}
	if result.EffectiveHP != 150 {
		t.Errorf("expected effective power 150, got %g", result.EffectiveHP)
	}
}

func TestValidateEngineForCategory_NoPowerCap(t *testing.T) {
	category := amateurCategory()
	category.Regulations.MaxPowerHP = 0
	eng := EngineSpec{Layout: LayoutI4, DisplacementCC: 1998, Induction: InductionNA, Horsepower: 900}
	result := ValidateEngineForCategory(eng, category)
	if result.Status != HomologationValid {
		t.Errorf("zero cap means unrestricted, got %s", result.Status)
	}
	if result.EffectiveHP != 900 {
		t.Errorf("expected full power, got %g", result.EffectiveHP)
	}
}

func TestSimulateRace_NoDrivers(t *testing.T) {
	team := &RacingTeam{CarPerformance: 50, CarReliability: 100}
	result := SimulateRace(team, amateurCategory(), FallbackRaceEngine(), 1, unitRand())
	if result.Prestige != -2 {
		t.Errorf("an empty garage should embarrass the brand: prestige %d", result.Prestige)
	}
	if len(result.Positions) != 0 {
		t.Errorf("no drivers should post no positions, got %v", result.Positions)
	}
}

func TestSimulateRace_BannedEngineDisqualifies(t *testing.T) {
	team := &RacingTeam{
		CarPerformance: 50, CarReliability: 100,
		Drivers: []Driver{
			{ID: "d1", Stats: DriverStats{Skill: 80, Talent: 90}},
			{ID: "d2", Stats: DriverStats{Skill: 70, Talent: 80}},
		},
	}
	banned := EngineSpec{Layout: LayoutV12, DisplacementCC: 6000, Horsepower: 500}
	result := SimulateRace(team, amateurCategory(), banned, 1, unitRand())
	if !result.Crashed {
		t.Error("disqualification should read as a crashed weekend")
	}
	if result.Prestige != -5 {
		t.Errorf("expected prestige -5, got %d", result.Prestige)
	}
	for id, pos := range result.Positions {
		if pos != 20 {
			t.Errorf("driver %s: expected position 20, got %d", id, pos)
		}
	}
}

func TestSimulateRace_DominantCarWins(t *testing.T) {
	team := &RacingTeam{
		CarPerformance: 50, CarReliability: 100,
		Drivers: []Driver{{
			ID:    "d1",
			Stats: DriverStats{Skill: 100, Talent: 100, Experience: 100, Aggression: 0},
		}},
	}
	eng := EngineSpec{
		Layout: LayoutI4, DisplacementCC: 1500, Induction: InductionNA,
		Horsepower: 100, WeightKG: 100, Reliability: 100, FuelEfficiency: 50,
	}
	// Three rolls per driver: mechanical check, crash check, pace jitter.
	rng := &SequenceRand{Values: []float64{0.5, 0.5, 0.9}}

	result := SimulateRace(team, amateurCategory(), eng, 1, rng)
	if result.BestPos != 1 {
		t.Fatalf("expected a win, got P%d", result.BestPos)
	}
	if result.Prestige != amateurCategory().PrestigeReward {
		t.Errorf("a win pays the full prestige reward, got %d", result.Prestige)
	}
	if result.Prize != 30_000 {
		t.Errorf("expected prize 30000, got %d", result.Prize)
	}
}

func TestSimulateRace_LightCategoriesPunishHeavyEngines(t *testing.T) {
	team := func() *RacingTeam {
		return &RacingTeam{
			CarPerformance: 50, CarReliability: 100,
			Drivers: []Driver{{
				ID:    "d1",
				Stats: DriverStats{Skill: 50, Talent: 60, Experience: 100, Aggression: 0},
			}},
		}
	}
	// 100kg over the reference engine weight.
	eng := EngineSpec{
		Layout: LayoutI4, DisplacementCC: 1500, Induction: InductionNA,
		Horsepower: 100, WeightKG: 200, Reliability: 100, FuelEfficiency: 50,
	}
	rng := func() Rand { return &SequenceRand{Values: []float64{0.5, 0.5, 0.5}} }

	touring := amateurCategory()
	touring.Regulations.MinWeightKG = 1200
	grand := amateurCategory()
	grand.Regulations.MinWeightKG = 750

	heavySeries := SimulateRace(team(), touring, eng, 1, rng())
	lightSeries := SimulateRace(team(), grand, eng, 1, rng())
	if heavySeries.BestPos != 1 {
		t.Errorf("a heavy series should shrug off engine mass: got P%d", heavySeries.BestPos)
	}
	if lightSeries.BestPos != 2 {
		t.Errorf("an ultralight series should punish the same engine: got P%d", lightSeries.BestPos)
	}
}

func TestSimulateRace_PodiumPaysEveryDriver(t *testing.T) {
	category := amateurCategory()
	team := &RacingTeam{
		CarPerformance: 50, CarReliability: 100,
		Drivers: []Driver{
			{ID: "d1", Stats: DriverStats{Skill: 100, Talent: 100, Experience: 100, Aggression: 0}},
			{ID: "d2", Stats: DriverStats{Skill: 10, Talent: 60, Experience: 100, Aggression: 0}},
		},
	}
	eng := EngineSpec{
		Layout: LayoutI4, DisplacementCC: 1500, Induction: InductionNA,
		Horsepower: 100, WeightKG: 100, Reliability: 100, FuelEfficiency: 50,
	}
	// Three rolls per driver. The jitter values land d1 on P1 and d2 on P2.
	rng := &SequenceRand{Values: []float64{0.5, 0.5, 0.9, 0.5, 0.5, 0.3}}

	result := SimulateRace(team, category, eng, 1, rng)
	if result.Positions["d1"] != 1 || result.Positions["d2"] != 2 {
		t.Fatalf("expected P1/P2, got %v", result.Positions)
	}
	// Both cars score: the win pays 6x the weekly cost, the podium 2.5x.
	if want := category.WeeklyCost*6 + int64(float64(category.WeeklyCost)*2.5); result.Prize != want {
		t.Errorf("expected combined prize %d, got %d", want, result.Prize)
	}
	if want := category.PrestigeReward + category.PrestigeReward/2; result.Prestige != want {
		t.Errorf("expected combined prestige %d, got %d", want, result.Prestige)
	}
}

func TestSimulateRace_EachRetirementCostsPrestige(t *testing.T) {
	category := amateurCategory()
	team := &RacingTeam{
		CarPerformance: 50, CarReliability: 0,
		Drivers: []Driver{
			{ID: "d1", Stats: DriverStats{Skill: 80, Talent: 90, Experience: 0, Aggression: 0}},
			{ID: "d2", Stats: DriverStats{Skill: 80, Talent: 90, Experience: 0, Aggression: 0}},
		},
	}
	eng := EngineSpec{
		Layout: LayoutI4, DisplacementCC: 1500, Induction: InductionNA,
		Horsepower: 100, WeightKG: 100, Reliability: 0, FuelEfficiency: 50,
	}
	// d1 blows up (reliability roll then failure roll); d2 survives the
	// reliability roll but spins on the crash roll.
	rng := &SequenceRand{Values: []float64{0.9, 0.1, 0.1, 0.005}}

	result := SimulateRace(team, category, eng, 1, rng)
	if result.Positions["d1"] != 20 || result.Positions["d2"] != 20 {
		t.Fatalf("expected a double retirement, got %v", result.Positions)
	}
	if !result.Failure || !result.Crashed {
		t.Errorf("expected both retirement kinds flagged: failure=%v crashed=%v", result.Failure, result.Crashed)
	}
	if result.Prestige != -2 {
		t.Errorf("each retirement costs a prestige point, got %d", result.Prestige)
	}
	if result.Prize != 0 {
		t.Errorf("retirements pay nothing, got %d", result.Prize)
	}
}

func TestSimulateRace_PodiumAndMidfieldPayouts(t *testing.T) {
	category := amateurCategory()

	team := func(performance float64) *RacingTeam {
		return &RacingTeam{
			CarPerformance: performance, CarReliability: 100,
			Drivers: []Driver{{
				ID:    "d1",
				Stats: DriverStats{Skill: 50, Talent: 60, Experience: 100, Aggression: 0},
			}},
		}
	}
	eng := EngineSpec{
		Layout: LayoutI4, DisplacementCC: 1500, Induction: InductionNA,
		Horsepower: 50, WeightKG: 100, Reliability: 100, FuelEfficiency: 50,
	}
	rng := func() Rand { return &SequenceRand{Values: []float64{0.5, 0.5, 0.5}} }

	// Weak car lands midfield, stronger ones climb. Exact positions follow
	// from the deterministic pace formula.
	weak := SimulateRace(team(10), category, eng, 1, rng())
	if weak.BestPos <= 3 {
		t.Errorf("a bare chassis should not podium, got P%d", weak.BestPos)
	}
	strong := SimulateRace(team(90), category, eng, 1, rng())
	if strong.BestPos >= weak.BestPos {
		t.Errorf("car development should gain positions: P%d vs P%d", strong.BestPos, weak.BestPos)
	}
}
