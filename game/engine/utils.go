package engine

import "math"

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// YearForDay converts a day count into a calendar year. Day 0 is the first
// day of EpochYear.
func YearForDay(day int) int {
	return EpochYear + day/DaysPerYear
}

// WeekOfYear returns the 1-based week within the simulated year.
func WeekOfYear(day int) int {
	return (day%DaysPerYear)/DaysPerWeek + 1
}

// Era buckets a year into a decade, used to price research ahead of its time.
func Era(year int) int {
	return year / 10
}

// CountActiveCars counts car models with a running production batch.
func CountActiveCars(cars []CarModel) int {
	count := 0
	for i := range cars {
		if cars[i].Production != nil && cars[i].Production.IsActive {
			count++
		}
	}
	return count
}

// CountReleasedCars counts car models that have reached the market.
func CountReleasedCars(cars []CarModel) int {
	count := 0
	for i := range cars {
		if cars[i].IsReleased {
			count++
		}
	}
	return count
}
