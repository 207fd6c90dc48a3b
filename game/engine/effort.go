package engine

import "math"

// Work item kinds for the effort calculator.
const (
	WorkEngine = "engine"
	WorkCar    = "car"
)

// WorkItem is the tagged input to EffortPerUnit: exactly one of Engine or
// Car is set, selected by Kind.
type WorkItem struct {
	Kind   string
	Engine *EngineSpec
	Car    *CarModel
}

// EngineWorkItem wraps an engine spec for effort accounting.
func EngineWorkItem(spec *EngineSpec) WorkItem {
	return WorkItem{Kind: WorkEngine, Engine: spec}
}

// CarWorkItem wraps a car model for effort accounting.
func CarWorkItem(car *CarModel) WorkItem {
	return WorkItem{Kind: WorkCar, Car: car}
}

// EffortPerUnit prices one unit of work in production units (PU).
// Engines start at 2 PU; big blocks and forced induction add overhead.
// Cars start at 10 PU, adjusted for in-house engines, body class, and the
// interior quality level, rounded to one decimal.
func EffortPerUnit(cat *Catalog, item WorkItem) float64 {
	switch item.Kind {
	case WorkEngine:
		if item.Engine == nil {
			return 0
		}
		effort := 2.0
		if item.Engine.Layout == LayoutV10 || item.Engine.Layout == LayoutV12 {
			effort += 1
		}
		if item.Engine.Induction == InductionTurbo {
			effort += 0.5
		}
		return effort
	case WorkCar:
		if item.Car == nil {
			return 0
		}
		effort := 10.0
		if !item.Car.IsOutsourcedEngine {
			effort += 2
		}
		body, _ := cat.BodyTypeByID(item.Car.Design.BodyTypeID)
		switch body.Class {
		case ClassUtility:
			effort += 2
		}
		if item.Car.Design.Category == CategoryLuxury {
			effort += 2
		}
		if body.ID == "bt_hatchback" {
			effort -= 1
		}
		effort *= 1 + item.Car.Design.InteriorQuality/100*0.5
		return round1(effort)
	default:
		return 0
	}
}

// ContractWeeklyTarget is the units a contract must ship per week to finish
// inside its duration.
func ContractWeeklyTarget(c *Contract) int {
	if c.DurationWeeks <= 0 {
		return c.TotalQuantity
	}
	return int(math.Ceil(float64(c.TotalQuantity) / float64(c.DurationWeeks)))
}

// CapacityUsage reports current factory load against capacity, split by
// consumer.
type CapacityUsage struct {
	Used     float64 `json:"used"`
	Capacity float64 `json:"capacity"`
	Cars     float64 `json:"cars"`
	B2B      float64 `json:"b2b"`
}

// Free returns the uncommitted capacity.
func (u CapacityUsage) Free() float64 {
	free := u.Capacity - u.Used
	if free < 0 {
		return 0
	}
	return free
}

// ComputeCapacity sums weekly PU commitments from active car batches and
// active contracts against the current factory tier. This is the single
// global resource gate: commands that add throughput check it before
// mutating.
func ComputeCapacity(cat *Catalog, cfg *BalanceConfig, state *GameState) CapacityUsage {
	usage := CapacityUsage{}
	if tier, ok := cfg.TierByLevel(state.Factory.Level); ok {
		usage.Capacity = tier.CapacityPU
	}

	for i := range state.DevelopedCars {
		car := &state.DevelopedCars[i]
		if car.Production == nil || !car.Production.IsActive {
			continue
		}
		usage.Cars += float64(car.Production.WeeklyRate) * car.Production.EffortPerUnit
	}

	for i := range state.ActiveContracts {
		c := &state.ActiveContracts[i]
		if c.Status != ContractActive {
			continue
		}
		eng, ok := state.EngineByID(c.EngineID)
		if !ok {
			continue
		}
		usage.B2B += float64(ContractWeeklyTarget(c)) * EffortPerUnit(cat, EngineWorkItem(eng))
	}

	usage.Used = usage.Cars + usage.B2B
	return usage
}
