package engine

import (
	"math"

	"github.com/google/uuid"
)

// GenerateRandomDriver creates a free agent. Talent uses a long-tail roll:
// genuine prodigies are rare, journeymen common. Skill starts below talent
// and converges with age.
func GenerateRandomDriver(cat *Catalog, currentYear int, rng Rand) Driver {
	first := "Driver"
	last := uuid.NewString()[:4]
	if len(cat.DriverFirstNames) > 0 {
		first = cat.DriverFirstNames[rng.Intn(len(cat.DriverFirstNames))]
	}
	if len(cat.DriverLastNames) > 0 {
		last = cat.DriverLastNames[rng.Intn(len(cat.DriverLastNames))]
	}

	age := 18 + rng.Intn(13)

	var talent float64
	switch roll := rng.Float64(); {
	case roll > 0.95:
		talent = 95 + rng.Float64()*4
	case roll > 0.8:
		talent = 80 + rng.Float64()*14
	default:
		talent = 40 + rng.Float64()*39
	}

	maturity := math.Min(1, float64(age-16)/10)
	skill := clamp(talent*maturity*(0.8+rng.Float64()*0.4), 10, talent)

	aggression := rng.Float64() * 100
	experience := math.Min(100, float64(age-18)*5+rng.Float64()*10)

	salary := int64(5000 + skill*1000 + aggression*200 + talent*500)

	return Driver{
		ID:              uuid.NewString(),
		Name:            first + " " + last,
		Age:             age,
		Salary:          salary,
		ContractEndYear: currentYear + 1 + rng.Intn(3),
		Stats: DriverStats{
			Skill:      math.Round(skill),
			Talent:     math.Round(talent),
			Experience: math.Round(experience),
			Aggression: math.Round(aggression),
		},
		MarketValue: salary * 12,
	}
}

// AgeDriverOneYear applies the yearly development curve in place: growth
// before 25, a plateau through 32, then stochastic decline. Skill never
// exceeds talent and never drops below 10.
func AgeDriverOneYear(d *Driver, rng Rand) {
	d.Age++
	d.Stats.Experience = math.Min(100, d.Stats.Experience+5)

	switch {
	case d.Age < 25:
		d.Stats.Skill += 1 + rng.Float64()*4
	case d.Age <= 32:
		if rng.Float64() < 0.3 {
			d.Stats.Skill++
		}
	default:
		decayChance := float64(d.Age-32) * 0.1
		if rng.Float64() < decayChance {
			d.Stats.Skill -= 1 + rng.Float64()*2
		}
	}

	d.Stats.Skill = clamp(d.Stats.Skill, 10, d.Stats.Talent)
}
