package engine

import "math"

// categoryTargets are multipliers applied to the year-relative baseline to
// get the ideal stat line for a segment.
type categoryTargets struct {
	HP, Price, Eco, Comfort float64
}

// categoryWeights set how much each stat matters to a segment's buyers.
// Reliability is judged against the era baseline directly, so it carries a
// weight but no target multiplier.
type categoryWeights struct {
	HP, Price, Eco, Reliability, Comfort float64
}

var segmentTargets = map[string]categoryTargets{
	CategoryPopular:      {HP: 0.6, Price: 0.6, Eco: 1.5, Comfort: 0.6},
	CategoryIntermediate: {HP: 1.0, Price: 1.2, Eco: 1.0, Comfort: 1.0},
	CategoryLuxury:       {HP: 1.5, Price: 3.0, Eco: 0.7, Comfort: 2.0},
	CategorySupercar:     {HP: 3.5, Price: 6.0, Eco: 0.4, Comfort: 0.5},
}

var segmentWeights = map[string]categoryWeights{
	CategoryPopular:      {HP: 0.2, Price: 3.0, Eco: 2.5, Reliability: 2.0, Comfort: 0.8},
	CategoryIntermediate: {HP: 1.0, Price: 1.5, Eco: 1.0, Reliability: 1.5, Comfort: 1.5},
	CategoryLuxury:       {HP: 1.2, Price: 0.2, Eco: 0.2, Reliability: 1.0, Comfort: 3.0},
	CategorySupercar:     {HP: 4.0, Price: 0.1, Eco: 0.0, Reliability: 0.5, Comfort: 0.2},
}

// YearlyBaseline is the expected stat line of a generic car for a given year.
type YearlyBaseline struct {
	HP      float64
	Price   float64
	Eco     float64
	Comfort float64
	Safety  float64
}

// BaselineForYear computes the generic-car expectation via linear-in-age
// formulas anchored at 1900.
func BaselineForYear(year int) YearlyBaseline {
	age := float64(year - 1900)
	return YearlyBaseline{
		HP:      40 + 1.5*age,
		Price:   2000 + 300*age,
		Eco:     10 + 0.2*age,
		Comfort: 10 + 0.8*age,
		Safety:  5 + 0.9*age,
	}
}

// scoreHigherBetter rates an actual value against a target on a 0-10 scale.
// Meeting the target scores 8 with a bonus above it.
func scoreHigherBetter(actual, target float64) float64 {
	if target <= 0 {
		return 8
	}
	ratio := actual / target
	if ratio >= 1 {
		return math.Min(10, 8+(ratio-1)*10)
	}
	return math.Max(0, 8-(1-ratio)*10)
}

// scorePrice rates a price against a target; under-target is rewarded from a
// base of 7, over-target penalized.
func scorePrice(actual, target float64) float64 {
	if target <= 0 {
		return 7
	}
	ratio := actual / target
	if ratio <= 1 {
		return math.Min(10, 7+(1-ratio)*5)
	}
	return math.Max(0, 7-(ratio-1)*10)
}

// CalculateReviews scores a released car: a category-fit aggregate 0-100 plus
// four personality reviews used only for flavor. Deterministic.
func CalculateReviews(cat *Catalog, car *CarModel, eng EngineSpec, launchYear int) ([]Review, int) {
	base := BaselineForYear(launchYear)
	targets, ok := segmentTargets[car.Design.Category]
	if !ok {
		targets = segmentTargets[CategoryIntermediate]
	}
	weights, ok := segmentWeights[car.Design.Category]
	if !ok {
		weights = segmentWeights[CategoryIntermediate]
	}

	hpScore := scoreHigherBetter(eng.Horsepower, base.HP*targets.HP)
	ecoScore := scoreHigherBetter(eng.FuelEfficiency, base.Eco*targets.Eco)
	comfortScore := scoreHigherBetter(car.Stats.Comfort, base.Comfort*targets.Comfort)
	// Build quality is judged off the safety stat against the era baseline.
	reliabilityScore := scoreHigherBetter(car.Stats.Safety, base.Safety)
	priceScore := scorePrice(float64(car.Design.Price), base.Price*targets.Price)

	totalWeight := weights.HP + weights.Price + weights.Eco + weights.Reliability + weights.Comfort
	weighted := hpScore*weights.HP + priceScore*weights.Price + ecoScore*weights.Eco +
		reliabilityScore*weights.Reliability + comfortScore*weights.Comfort
	aggregate := weighted / totalWeight * 10

	body, _ := cat.BodyTypeByID(car.Design.BodyTypeID)
	switch body.Class {
	case ClassSport:
		if car.Stats.Handling > 60 {
			aggregate += 5
		}
		if car.Stats.AccelSec < 6 {
			aggregate += 5
		}
	case ClassSUV, ClassUtility:
		if car.Stats.Adaptability > 60 {
			aggregate += 5
		}
		if car.Stats.Adaptability > 80 {
			aggregate += 5
		}
	}
	aggregate = clamp(aggregate, 0, 100)

	reviews := []Review{
		personalityReview("Penny the Pragmatist", (priceScore+ecoScore)/2,
			"A sensible purchase that respects your wallet.",
			"Reasonable running costs, unremarkable otherwise.",
			"An extravagance most households cannot justify."),
		personalityReview("Gus the Gearhead", (hpScore+car.Stats.Handling/10)/2,
			"Finally, a machine with a pulse.",
			"Competent, but it will not raise your heart rate.",
			"An appliance. Next."),
		personalityReview("Fiona the Family Critic", (reliabilityScore+comfortScore)/2,
			"The school run never felt this composed.",
			"Adequate for the family, with compromises.",
			"I would not put my kids in this."),
		personalityReview("Avery the Adventurer", car.Stats.Adaptability/10,
			"Point it anywhere, it will get there.",
			"Fine on pavement, hesitant beyond it.",
			"Strictly a boulevard cruiser."),
	}

	return reviews, int(math.Round(aggregate))
}

func personalityReview(name string, score float64, high, mid, low string) Review {
	score = clamp(score, 0, 10)
	comment := mid
	if score >= 7 {
		comment = high
	} else if score < 4 {
		comment = low
	}
	return Review{Reviewer: name, Score: round1(score), Comment: comment}
}
