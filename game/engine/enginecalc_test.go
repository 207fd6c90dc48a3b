package engine

import (
	"math"
	"testing"
)

func TestCalculateEngineStats_Displacement(t *testing.T) {
	cat := MustCatalog()

	// A square 86x86 inline-four is just shy of two liters.
	spec := CalculateEngineStats(cat, EngineDesign{
		Name: "Test Four", Layout: LayoutI4, Block: MaterialSteel,
		Fuel: FuelGasoline, Valvetrain: ValvetrainSOHC, Induction: InductionNA,
		BoreMM: 86, StrokeMM: 86, Quality: 50,
	})
	if spec.DisplacementCC != 1998 {
		t.Errorf("expected 1998cc, got %d", spec.DisplacementCC)
	}
	if spec.Name != "Test Four" {
		t.Errorf("expected name to carry over, got %q", spec.Name)
	}
	if spec.Horsepower <= 0 || spec.Torque <= 0 || spec.RedlineRPM <= 0 {
		t.Errorf("expected positive outputs, got hp=%g tq=%g rpm=%d",
			spec.Horsepower, spec.Torque, spec.RedlineRPM)
	}

	// Twelve cylinders at the same bore and stroke triple the swept volume.
	v12 := CalculateEngineStats(cat, EngineDesign{
		Name: "Test Twelve", Layout: LayoutV12, Block: MaterialSteel,
		Fuel: FuelGasoline, Valvetrain: ValvetrainSOHC, Induction: InductionNA,
		BoreMM: 86, StrokeMM: 86, Quality: 50,
	})
	if v12.DisplacementCC != 3*spec.DisplacementCC {
		t.Errorf("expected V12 displacement %d, got %d", 3*spec.DisplacementCC, v12.DisplacementCC)
	}
}

func TestCalculateEngineStats_Modifiers(t *testing.T) {
	cat := MustCatalog()
	base := EngineDesign{
		Name: "Base", Layout: LayoutI4, Block: MaterialSteel,
		Fuel: FuelGasoline, Valvetrain: ValvetrainSOHC, Induction: InductionNA,
		BoreMM: 86, StrokeMM: 86, Quality: 50,
	}
	baseline := CalculateEngineStats(cat, base)

	turbo := base
	turbo.Induction = InductionTurbo
	turboSpec := CalculateEngineStats(cat, turbo)
	if turboSpec.Torque <= baseline.Torque {
		t.Errorf("turbo should raise torque: %g vs %g", turboSpec.Torque, baseline.Torque)
	}
	if turboSpec.Reliability >= baseline.Reliability {
		t.Errorf("turbo should cost reliability: %g vs %g", turboSpec.Reliability, baseline.Reliability)
	}
	if turboSpec.WeightKG <= baseline.WeightKG {
		t.Errorf("turbo plumbing should add weight: %g vs %g", turboSpec.WeightKG, baseline.WeightKG)
	}

	dohc := base
	dohc.Valvetrain = ValvetrainDOHC
	dohcSpec := CalculateEngineStats(cat, dohc)
	if dohcSpec.Horsepower <= baseline.Horsepower {
		t.Errorf("DOHC should raise horsepower: %g vs %g", dohcSpec.Horsepower, baseline.Horsepower)
	}
	if dohcSpec.RedlineRPM <= baseline.RedlineRPM {
		t.Errorf("DOHC should raise redline: %d vs %d", dohcSpec.RedlineRPM, baseline.RedlineRPM)
	}

	ohv := base
	ohv.Valvetrain = ValvetrainOHV
	ohvSpec := CalculateEngineStats(cat, ohv)
	if ohvSpec.RedlineRPM >= baseline.RedlineRPM {
		t.Errorf("OHV should lower redline: %d vs %d", ohvSpec.RedlineRPM, baseline.RedlineRPM)
	}

	diesel := base
	diesel.Fuel = FuelDiesel
	dieselSpec := CalculateEngineStats(cat, diesel)
	if dieselSpec.RedlineRPM >= baseline.RedlineRPM {
		t.Errorf("diesel should lower redline: %d vs %d", dieselSpec.RedlineRPM, baseline.RedlineRPM)
	}
	if dieselSpec.Torque <= baseline.Torque {
		t.Errorf("diesel should raise torque: %g vs %g", dieselSpec.Torque, baseline.Torque)
	}
	if dieselSpec.FuelEfficiency <= baseline.FuelEfficiency {
		t.Errorf("diesel should raise efficiency: %g vs %g", dieselSpec.FuelEfficiency, baseline.FuelEfficiency)
	}

	aluminum := base
	aluminum.Block = MaterialAluminum
	aluminumSpec := CalculateEngineStats(cat, aluminum)
	if aluminumSpec.WeightKG >= baseline.WeightKG {
		t.Errorf("aluminum block should be lighter: %g vs %g", aluminumSpec.WeightKG, baseline.WeightKG)
	}
	if aluminumSpec.ProductionCost <= baseline.ProductionCost {
		t.Errorf("aluminum block should cost more: %d vs %d", aluminumSpec.ProductionCost, baseline.ProductionCost)
	}
}

func TestCalculateEngineStats_ReliabilityClamped(t *testing.T) {
	cat := MustCatalog()
	worst := CalculateEngineStats(cat, EngineDesign{
		Name: "Fragile", Layout: LayoutV12, Block: MaterialAluminum,
		Fuel: FuelGasoline, Valvetrain: ValvetrainDOHC, Induction: InductionTurbo,
		BoreMM: 80, StrokeMM: 75, Quality: 0,
	})
	if worst.Reliability < 10 || worst.Reliability > 100 {
		t.Errorf("reliability out of bounds: %g", worst.Reliability)
	}
	best := CalculateEngineStats(cat, EngineDesign{
		Name: "Granite", Layout: LayoutI4, Block: MaterialSteel,
		Fuel: FuelDiesel, Valvetrain: ValvetrainOHV, Induction: InductionNA,
		BoreMM: 86, StrokeMM: 86, Quality: 100,
	})
	if best.Reliability < 10 || best.Reliability > 100 {
		t.Errorf("reliability out of bounds: %g", best.Reliability)
	}
}

func TestCalculateDevelopmentCost(t *testing.T) {
	spec := EngineSpec{ProductionCost: 1000, Horsepower: 120.4}
	cost := CalculateDevelopmentCost(spec)
	want := int64(50_000 + 1000*100 + 120*100)
	if cost != want {
		t.Errorf("expected development cost %d, got %d", want, cost)
	}
}

func TestGenerateDynoCurve(t *testing.T) {
	spec := EngineSpec{
		Torque: 200, RedlineRPM: 7000,
		Valvetrain: ValvetrainSOHC, Induction: InductionNA,
	}
	points := GenerateDynoCurve(spec)
	if len(points) != 11 {
		t.Fatalf("expected 11 samples, got %d", len(points))
	}
	if points[0].RPM != 1000 {
		t.Errorf("curve should start at 1000 rpm, got %d", points[0].RPM)
	}
	if points[len(points)-1].RPM != spec.RedlineRPM {
		t.Errorf("curve should end at redline, got %d", points[len(points)-1].RPM)
	}
	for _, p := range points {
		if p.Torque <= 0 || p.Torque > spec.Torque {
			t.Errorf("torque sample out of range at %d rpm: %g", p.RPM, p.Torque)
		}
		wantHP := math.Round(p.Torque*float64(p.RPM)/7121*10) / 10
		if p.Horsepower != wantHP {
			t.Errorf("horsepower at %d rpm: got %g, want %g", p.RPM, p.Horsepower, wantHP)
		}
	}
}

func TestGenerateDynoCurve_TurboPeaksEarly(t *testing.T) {
	turbo := EngineSpec{Torque: 300, RedlineRPM: 6000, Induction: InductionTurbo}
	na := EngineSpec{Torque: 300, RedlineRPM: 6000, Induction: InductionNA}

	turboPoints := GenerateDynoCurve(turbo)
	naPoints := GenerateDynoCurve(na)

	turboPeak, naPeak := 0, 0
	for i := range turboPoints {
		if turboPoints[i].Torque > turboPoints[turboPeak].Torque {
			turboPeak = i
		}
		if naPoints[i].Torque > naPoints[naPeak].Torque {
			naPeak = i
		}
	}
	if turboPeak > naPeak {
		t.Errorf("turbo curve should peak earlier: turbo index %d, na index %d", turboPeak, naPeak)
	}
}
