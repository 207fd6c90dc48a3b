package engine

import "math"

// Category price margins over production cost used for fair market value.
var categoryMargins = map[string]float64{
	CategoryPopular:      1.20,
	CategoryIntermediate: 1.35,
	CategoryLuxury:       1.60,
	CategorySupercar:     2.00,
}

// Weekly volume shaping per category: a demand multiplier and a soft ceiling.
var categoryVolumes = map[string]struct {
	Multiplier float64
	Cap        float64
}{
	CategoryPopular:      {Multiplier: 4, Cap: 5000},
	CategoryIntermediate: {Multiplier: 2, Cap: 2000},
	CategoryLuxury:       {Multiplier: 0.5, Cap: 300},
	CategorySupercar:     {Multiplier: 0.1, Cap: 40},
}

// SalesResult is the outcome of one car model's sales week.
type SalesResult struct {
	UnitsSold int   `json:"units_sold"`
	Revenue   int64 `json:"revenue"`
	Profit    int64 `json:"profit"`
}

// FairMarketValue computes the reference price for a car: production cost
// times the segment margin, discounted as the model ages.
func FairMarketValue(car *CarModel, currentYear int) float64 {
	margin, ok := categoryMargins[car.Design.Category]
	if !ok {
		margin = 1.35
	}
	fmv := float64(car.Stats.ProductionCost) * margin

	carYear := EpochYear + car.LaunchDay/DaysPerYear
	age := currentYear - carYear
	// The discounts stack: a model past ten years carries both the ageing
	// and the obsolescence penalty.
	if age > 5 {
		fmv *= 0.85
	}
	if age > 10 {
		fmv *= 0.70
	}
	return fmv
}

// CalculateWeeklySales runs the demand curve for one car model. Unreleased or
// out-of-stock cars sell nothing. Pricing above twice fair value zeroes
// demand outright regardless of review score or prestige.
func CalculateWeeklySales(car *CarModel, eng EngineSpec, prestige, currentYear int, event *WorldEvent, rng Rand) SalesResult {
	if !car.IsReleased || car.Inventory <= 0 {
		return SalesResult{}
	}

	fmv := FairMarketValue(car, currentYear)
	if fmv <= 0 {
		return SalesResult{}
	}
	priceRatio := float64(car.Design.Price) / fmv
	if priceRatio > 2.0 {
		return SalesResult{}
	}

	score := float64(car.ReviewScore)
	baseDemand := 50 * (score / 50)
	if score < 30 {
		baseDemand /= 10
	}

	prestigeFactor := 1 + math.Min(0.5, float64(prestige)/2000)

	var priceMult float64
	switch {
	case priceRatio < 0.95:
		priceMult = 1.5 + (1-priceRatio)*2
	case priceRatio <= 1.2:
		priceMult = 1.0
	case priceRatio <= 1.5:
		priceMult = 0.5
	default:
		priceMult = 0.1
	}

	demand := baseDemand * prestigeFactor * priceMult
	if score > 80 {
		demand *= 2
	}

	volume, ok := categoryVolumes[car.Design.Category]
	if !ok {
		volume = categoryVolumes[CategoryIntermediate]
	}
	demand *= volume.Multiplier
	if demand > volume.Cap {
		demand = volume.Cap + math.Sqrt(demand-volume.Cap)*5
	}

	if event != nil {
		if event.Modifiers.DemandMultiplier > 0 {
			demand *= event.Modifiers.DemandMultiplier
		}
		switch event.Modifiers.PreferredEngineType {
		case "eco":
			if eng.FuelEfficiency >= 30 {
				demand *= 1.5
			} else {
				demand *= 0.5
			}
		case "performance":
			if car.Stats.AccelSec <= 7 {
				demand *= 1.3
			} else {
				demand *= 0.8
			}
		}
	}

	demand *= 0.9 + rng.Float64()*0.2

	sold := int(math.Floor(demand))
	if sold > car.Inventory {
		sold = car.Inventory
	}
	if sold < 0 {
		sold = 0
	}

	revenue := int64(sold) * car.Design.Price
	profit := int64(sold) * (car.Design.Price - car.Stats.ProductionCost)
	return SalesResult{UnitsSold: sold, Revenue: revenue, Profit: profit}
}
