package engine

import "testing"

func TestIsHighTechEngine(t *testing.T) {
	tests := []struct {
		name string
		eng  EngineSpec
		want bool
	}{
		{"plain iron", EngineSpec{Block: MaterialSteel, Valvetrain: ValvetrainOHV, Induction: InductionNA}, false},
		{"one premium tech", EngineSpec{Block: MaterialSteel, Valvetrain: ValvetrainDOHC, Induction: InductionNA}, false},
		{"turbo DOHC", EngineSpec{Block: MaterialSteel, Valvetrain: ValvetrainDOHC, Induction: InductionTurbo}, true},
		{"all three", EngineSpec{Block: MaterialAluminum, Valvetrain: ValvetrainDOHC, Induction: InductionTurbo}, true},
	}
	for _, tt := range tests {
		if got := IsHighTechEngine(tt.eng); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGenerateContractOffer_NoEngines(t *testing.T) {
	state := &GameState{}
	if offer := GenerateContractOffer(MustCatalog(), state, NewRand(1)); offer != nil {
		t.Errorf("no engines should mean no offer, got %+v", offer)
	}
}

func TestGenerateContractOffer(t *testing.T) {
	cat := MustCatalog()
	state := NewGameState(DefaultBalanceConfig(), cat, NewRand(7))
	state.Date = 42

	for seed := int64(0); seed < 20; seed++ {
		offer := GenerateContractOffer(cat, state, NewRand(seed))
		if offer == nil {
			t.Fatalf("seed %d: expected an offer", seed)
		}
		if offer.Status != ContractPending {
			t.Errorf("seed %d: new offers start pending, got %q", seed, offer.Status)
		}
		if offer.CreatedDay != 42 {
			t.Errorf("seed %d: created day %d", seed, offer.CreatedDay)
		}
		if offer.DurationWeeks < 10 || offer.DurationWeeks > 40 {
			t.Errorf("seed %d: duration %d outside 10-40", seed, offer.DurationWeeks)
		}
		if offer.TotalQuantity < offer.DurationWeeks {
			t.Errorf("seed %d: quantity %d below one unit a week", seed, offer.TotalQuantity)
		}

		eng, ok := state.EngineByID(offer.EngineID)
		if !ok {
			t.Fatalf("seed %d: offer references unknown engine %q", seed, offer.EngineID)
		}
		// Clients always pay above production cost.
		if offer.UnitPrice <= eng.ProductionCost {
			t.Errorf("seed %d: unit price %d not above cost %d", seed, offer.UnitPrice, eng.ProductionCost)
		}
		if _, ok := cat.ClientByID(offer.ClientID); !ok {
			t.Errorf("seed %d: unknown client %q", seed, offer.ClientID)
		}
	}
}
