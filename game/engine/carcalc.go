package engine

import (
	"fmt"
	"math"
)

// EngineBayVolume returns the bay space an engine needs, by layout bucket
// plus an allowance for forced-induction plumbing.
func EngineBayVolume(spec EngineSpec) float64 {
	var volume float64
	switch spec.Layout {
	case LayoutI3:
		volume = 30
	case LayoutI4:
		volume = 35
	case LayoutI6:
		volume = 50
	case LayoutV6:
		volume = 55
	case LayoutV8:
		volume = 75
	case LayoutV10:
		volume = 85
	case LayoutV12:
		volume = 95
	default:
		volume = 50
	}
	if spec.Induction != InductionNA {
		volume += 15
	}
	return volume
}

// CalculateCarStats derives the full stat bundle for a car design around a
// given engine. When the engine does not fit the configured bay the result
// carries Compatible=false and a shortfall message instead of stats.
// Deterministic, no randomness.
func CalculateCarStats(cat *Catalog, design CarDesign, eng EngineSpec) CarStatResult {
	required := EngineBayVolume(eng)
	if design.EngineBaySize < required {
		return CarStatResult{
			Compatible: false,
			Message: fmt.Sprintf("engine needs %.0f bay volume, design provides %.0f",
				required, design.EngineBaySize),
		}
	}

	body, _ := cat.BodyTypeByID(design.BodyTypeID)
	material, ok := cat.FrameMaterialByID(design.FrameMaterial)
	if !ok {
		material = FrameMaterial{ID: MaterialSteel, Density: 1.0, CostMultiplier: 1.0}
	}

	var gearWeight, cosmeticWeight, featureWeight float64
	var gearCost, cosmeticCost, featureCost int64
	var gearHandling, gearComfort, gearAdapt float64
	var cosmeticDrag, cosmeticHandling, cosmeticAppeal float64
	var featureHandling, featureComfort, featureSafety float64
	tractionEff := 0.85
	hasLeather, hasAutomatic := false, false

	for _, id := range []string{design.DrivetrainID, design.SuspensionID, design.TireID} {
		g, found := cat.GearByID(id)
		if !found {
			continue
		}
		gearWeight += g.Weight
		gearCost += g.Cost
		gearHandling += g.HandlingMod
		gearComfort += g.ComfortMod
		gearAdapt += g.AdaptMod
		if g.TractionEff > 0 {
			tractionEff = g.TractionEff
		}
	}
	for _, id := range design.Cosmetics {
		p, found := cat.CosmeticPartByID(id)
		if !found {
			continue
		}
		cosmeticDrag += p.DragMod
		cosmeticWeight += p.WeightMod
		cosmeticCost += p.Cost
		cosmeticHandling += p.HandlingMod
		cosmeticAppeal += p.AppealMod
	}
	for _, id := range design.Features {
		f, found := cat.FeatureOptionByID(id)
		if !found {
			continue
		}
		featureWeight += f.WeightMod
		featureCost += f.Cost
		featureHandling += f.HandlingMod
		featureComfort += f.ComfortMod
		featureSafety += f.SafetyMod
		if f.ID == "ft_leather_seats" {
			hasLeather = true
		}
		if f.ID == "ft_automatic" {
			hasAutomatic = true
		}
	}

	frameWeight := (400 + design.WheelbaseCM*1.5) * material.Density
	bodyWeight := (body.BaseWeight + design.EngineBaySize*2) * material.Density
	interiorWeight := 50 + design.InteriorQuality
	weight := frameWeight + bodyWeight + interiorWeight + eng.WeightKG +
		gearWeight + cosmeticWeight + featureWeight

	frameCost := (500 + design.WheelbaseCM*2) * material.CostMultiplier
	bodyCost := (float64(body.BaseCost) + design.EngineBaySize*5) * material.CostMultiplier
	interiorCost := 500 + design.InteriorQuality*20
	suspensionCost := 200 + design.SuspensionStiffness*5
	cost := int64(math.Round(frameCost+bodyCost+interiorCost+suspensionCost)) +
		gearCost + cosmeticCost + featureCost + eng.ProductionCost

	drag := body.BaseDrag
	switch body.EraStyle {
	case "box":
		drag += 0.05
	case "aero":
		drag -= 0.03
	}
	drag += cosmeticDrag
	rhRatio := design.RideHeight / 100
	if rhRatio > 0.5 {
		drag += 0.15 * (rhRatio - 0.5)
	} else {
		drag -= 0.05 * (0.5 - rhRatio)
	}
	if drag < 0.20 {
		drag = 0.20
	}
	aeroScore := clamp((0.6-drag)*200, 0, 100)

	effectiveTraction := tractionEff
	if design.DrivetrainID == "dt_fwd" && eng.Horsepower > 200 {
		effectiveTraction -= 0.1
	}
	powerToWeight := eng.Horsepower / (weight / 1000)
	accel := (1200 / (powerToWeight + 10)) * (1.1 - (effectiveTraction - 0.75))
	accel = clamp(accel, 2.5, 25)

	topSpeed := 100 + math.Sqrt(eng.Horsepower)*9*(aeroScore/50)

	handling := aeroScore*0.2 +
		design.SuspensionStiffness*0.3 +
		60*(1-weight/2000) +
		gearHandling + cosmeticHandling + featureHandling
	handling -= math.Max(0, (design.RideHeight-40)*0.5)
	handling += math.Max(0, (40-design.RideHeight)*0.2)
	handling -= math.Abs(270-design.WheelbaseCM) * 0.2
	handling = clamp(handling, 10, 100)

	comfort := design.InteriorQuality - design.SuspensionStiffness*0.3 +
		featureComfort + gearComfort
	if design.RideHeight < 20 {
		comfort -= 20 - design.RideHeight
	}
	comfort += (design.WheelbaseCM - 250) * 0.2
	comfort = clamp(comfort, 5, 100)

	safety := 10 + (weight/3000)*30 + featureSafety
	if material.ID == MaterialAluminum {
		safety -= 5
	}
	if design.FrameType == FrameLadder && safety > 60 {
		safety = 60 + (safety-60)/2
	}
	safety = clamp(safety, 10, 100)

	adaptability := 10 + gearAdapt
	if design.RideHeight < 30 {
		adaptability -= (30 - design.RideHeight) * 1.5
	}
	if design.RideHeight > 60 {
		adaptability += (design.RideHeight - 60) * 0.5
	}
	adaptability = clamp(adaptability, 0, 100)

	appeal := 50 + comfort*0.25 + handling*0.2 + safety*0.2 +
		aeroScore*0.1 + adaptability*0.1 + cosmeticAppeal
	if design.Category == CategoryLuxury {
		if !hasLeather {
			appeal -= 20
		}
		if !hasAutomatic {
			appeal -= 10
		}
	}
	switch body.Class {
	case ClassUtility, ClassSUV:
		if adaptability < 60 {
			appeal -= 30
		}
	case ClassSport:
		if design.RideHeight > 40 {
			appeal -= design.RideHeight - 40
		}
	case ClassPassenger:
		if cost > 18_000 {
			appeal -= 10
		}
	}
	appeal = clamp(appeal, 0, 100)

	return CarStatResult{
		Compatible: true,
		Stats: CarStats{
			WeightKG:       math.Round(weight),
			ProductionCost: cost,
			Drag:           math.Round(drag*1000) / 1000,
			AeroScore:      math.Round(aeroScore),
			AccelSec:       round1(accel),
			TopSpeedKPH:    math.Round(topSpeed),
			Handling:       math.Round(handling),
			Comfort:        math.Round(comfort),
			Safety:         math.Round(safety),
			Adaptability:   math.Round(adaptability),
			MarketAppeal:   math.Round(appeal),
		},
	}
}
