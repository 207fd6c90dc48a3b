package engine

import "math"

// CalculateEngineStats derives every performance figure for an engine design.
// Pure function: it tolerates any numeric input and never fails. Callers are
// responsible for rejecting designs whose displacement exceeds the layout cap.
func CalculateEngineStats(cat *Catalog, d EngineDesign) EngineSpec {
	profile := cat.LayoutProfileFor(d.Layout)
	cyl := float64(profile.Cylinders)

	// Swept volume in cc: bore/20 is the radius in cm, stroke/10 the travel.
	raw := math.Pi * math.Pow(d.BoreMM/20, 2) * (d.StrokeMM / 10) * cyl
	cc := math.Round(math.Round(raw*1000) / 1000)

	maxPistonSpeed := 20.0
	if d.Block == MaterialAluminum {
		maxPistonSpeed += 2
	}
	if d.Quality > 70 {
		maxPistonSpeed += (d.Quality - 70) * 0.1
	}
	redline := (maxPistonSpeed * 60) / (2 * d.StrokeMM / 1000)
	switch d.Valvetrain {
	case ValvetrainOHV:
		redline -= 1500
	case ValvetrainDOHC:
		redline += 1000
	}
	if d.Fuel == FuelDiesel {
		redline *= 0.65
	}
	redline = math.Round(redline/100) * 100

	torquePerLiter := 75.0
	switch d.Fuel {
	case FuelDiesel:
		torquePerLiter = 140
	case FuelFlex:
		torquePerLiter = 78
	}
	switch d.Valvetrain {
	case ValvetrainOHV:
		torquePerLiter -= 5
	case ValvetrainDOHC:
		torquePerLiter += 8
	}
	if d.Induction == InductionTurbo {
		if d.Fuel == FuelDiesel {
			torquePerLiter *= 1.6
		} else {
			torquePerLiter *= 1.45
		}
	}
	torque := (cc / 1000) * torquePerLiter

	efficiencyFactor := 0.9
	switch d.Valvetrain {
	case ValvetrainOHV:
		efficiencyFactor = 0.75
	case ValvetrainDOHC:
		efficiencyFactor = 0.95
	}
	horsepower := torque * (redline * 0.85) / 7120 * efficiencyFactor

	weight := profile.BaseWeightKG + cc*0.04
	if d.Block == MaterialAluminum {
		weight *= 0.7
	}
	if d.Valvetrain == ValvetrainDOHC {
		weight += 15
	}
	if d.Induction == InductionTurbo {
		weight += 25
	}
	if d.Fuel == FuelDiesel {
		weight *= 1.2
	}

	reliability := 100.0
	if d.Induction == InductionTurbo {
		reliability -= 15
	}
	if d.Valvetrain == ValvetrainDOHC {
		reliability -= 5
	}
	if d.Layout == LayoutV10 || d.Layout == LayoutV12 {
		reliability -= 10
	}
	if d.Block == MaterialAluminum {
		reliability -= 5
	}
	if d.Fuel == FuelDiesel {
		reliability += 15
	}
	reliability += (d.Quality - 50) * 0.4
	reliability = clamp(reliability, 10, 100)

	efficiency := 50.0
	efficiency -= (cc - 2000) / 100
	efficiency -= (cyl - 4) * 2
	switch d.Fuel {
	case FuelDiesel:
		efficiency += 25
	case FuelFlex:
		efficiency -= 5
	}
	if d.Induction == InductionTurbo {
		efficiency += 5
	}
	switch d.Valvetrain {
	case ValvetrainOHV:
		efficiency -= 5
	case ValvetrainDOHC:
		efficiency += 5
	}
	efficiency = clamp(efficiency, 10, 100)

	cost := 500 + cyl*150 + cc*0.2
	if d.Block == MaterialAluminum {
		cost *= 1.5
	}
	if d.Valvetrain == ValvetrainDOHC {
		cost += 400
	}
	if d.Induction == InductionTurbo {
		cost += 800
	}
	if d.Fuel == FuelDiesel {
		cost += 300
	}
	cost *= 1 + d.Quality/100

	return EngineSpec{
		Name:           d.Name,
		Layout:         d.Layout,
		Block:          d.Block,
		Fuel:           d.Fuel,
		Valvetrain:     d.Valvetrain,
		Induction:      d.Induction,
		BoreMM:         d.BoreMM,
		StrokeMM:       d.StrokeMM,
		Quality:        d.Quality,
		DisplacementCC: int(cc),
		Horsepower:     math.Round(horsepower*10) / 10,
		Torque:         math.Round(torque*10) / 10,
		RedlineRPM:     int(redline),
		WeightKG:       math.Round(weight),
		Reliability:    math.Round(reliability),
		FuelEfficiency: math.Round(efficiency),
		ProductionCost: int64(math.Round(cost)),
	}
}

// CalculateDevelopmentCost prices the R&D program for a finished engine spec.
func CalculateDevelopmentCost(spec EngineSpec) int64 {
	return 50_000 + spec.ProductionCost*100 + int64(math.Round(spec.Horsepower))*100
}

// GenerateDynoCurve produces a synthetic dyno plot for a spec: eleven samples
// from 1000 RPM to redline. Turbo engines peak early and plateau with a cubic
// fall-off; OHV peaks mid-range; everything else peaks at 60% of the rev
// range with a linear fall-off.
func GenerateDynoCurve(spec EngineSpec) []DynoPoint {
	const steps = 10
	redline := float64(spec.RedlineRPM)
	if redline <= 1000 {
		redline = 1100
	}

	peakRatio := 0.6
	switch {
	case spec.Induction == InductionTurbo:
		peakRatio = 0.35
	case spec.Valvetrain == ValvetrainOHV:
		peakRatio = 0.45
	}

	points := make([]DynoPoint, 0, steps+1)
	for i := 0; i <= steps; i++ {
		rpm := 1000 + float64(i)*(redline-1000)/steps
		progress := (rpm - 1000) / (redline - 1000)

		var torque float64
		if progress <= peakRatio {
			ramp := 0.7 + 0.3*math.Sin(progress/peakRatio*math.Pi/2)
			torque = spec.Torque * ramp
		} else {
			fall := (progress - peakRatio) / (1 - peakRatio)
			if spec.Induction == InductionTurbo {
				torque = spec.Torque * (1 - 0.4*math.Pow(fall, 3))
			} else {
				torque = spec.Torque * (1 - 0.25*fall)
			}
		}

		points = append(points, DynoPoint{
			RPM:        int(math.Round(rpm)),
			Torque:     math.Round(torque*10) / 10,
			Horsepower: math.Round(torque*rpm/7121*10) / 10,
		})
	}
	return points
}
