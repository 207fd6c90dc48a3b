package engine

import (
	"fmt"
	"math"
)

// AdvanceWeek runs one simulated week and returns the notifications the week
// produced, newest first. The end-game gate runs before any mutation and
// latches defeat or victory; a latched game never ticks again until the
// player resets or continues. Every sub-step reads the pre-tick snapshot and
// applies its writes as one coherent batch.
func (e *GameEngine) AdvanceWeek() []Notification {
	s := e.state
	s.recent = nil
	if s.EndGameState != EndGameNone {
		return nil
	}

	if s.Money < e.cfg.BankruptcyFloor {
		s.EndGameState = EndGameDefeat
		s.IsPaused = true
		s.Notify("The board has declared bankruptcy. The company is finished.", SeverityError)
		return s.takeRecent()
	}
	if !s.HasWon && s.Money >= e.cfg.VictoryMoney && s.BrandPrestige >= e.cfg.VictoryPrestige {
		s.EndGameState = EndGameVictory
		s.HasWon = true
		s.IsPaused = true
		s.Notify("An automotive empire. History will remember this company.", SeveritySuccess)
		return s.takeRecent()
	}

	oldYear := s.Year
	s.Date += DaysPerWeek
	s.Year = YearForDay(s.Date)
	monthly := s.Date%DaysPerMonth == 0

	e.tickWorldEvent()

	var interest int64
	if monthly {
		interest = e.tickLoanInterest()
	}

	if s.Year > oldYear {
		e.tickYearEnd()
	}

	carRevenue, soldUnits := e.tickProductionAndSales()
	b2bRevenue, b2bCost, penalty := e.tickContracts()
	if monthly {
		e.maybeSpawnContractOffer()
	}
	racingExpense, prize, racePrestige := e.tickRacing()

	net := carRevenue + b2bRevenue + prize -
		e.cfg.WeeklyOpex - racingExpense - b2bCost - penalty - interest
	s.Money += net
	s.LastWeeklyProfit = net

	prestige := s.BrandPrestige + racePrestige
	if soldUnits > 10 && s.BrandPrestige < 1000 && e.rng.Float64() > 0.8 {
		prestige++
	}
	if prestige < 0 {
		prestige = 0
	}
	s.BrandPrestige = prestige

	if monthly {
		e.appendAnalytics(soldUnits)
	}

	e.tickTutorial()
	return s.takeRecent()
}

// tickWorldEvent expires a finished event or rolls for a new one. At most one
// event is live at a time.
func (e *GameEngine) tickWorldEvent() {
	s := e.state
	if s.ActiveEvent != nil {
		if s.Date >= s.ActiveEvent.StartDay+s.ActiveEvent.DurationWeeks*DaysPerWeek {
			s.Notify(fmt.Sprintf("%s has ended.", s.ActiveEvent.Title), SeverityInfo)
			s.ActiveEvent = nil
		}
		return
	}
	if len(e.cfg.EventTemplates) == 0 || e.rng.Float64() >= e.cfg.EventChance {
		return
	}
	tpl := e.cfg.EventTemplates[e.rng.Intn(len(e.cfg.EventTemplates))]
	tpl.StartDay = s.Date
	s.ActiveEvent = &tpl
	s.Notify(fmt.Sprintf("%s: %s", tpl.Title, tpl.Description), SeverityWarning)
}

// tickLoanInterest charges the 4-weekly interest lump on every loan. The
// charge comes out of cash, never principal.
func (e *GameEngine) tickLoanInterest() int64 {
	s := e.state
	var offset float64
	if s.ActiveEvent != nil {
		offset = s.ActiveEvent.Modifiers.InterestRateOffset
	}
	var total int64
	for i := range s.ActiveLoans {
		loan := &s.ActiveLoans[i]
		rate := math.Max(0.001, loan.InterestRate+offset)
		total += int64(math.Floor(float64(loan.Principal) * rate))
	}
	if total > 0 {
		s.TotalInterest += total
	}
	return total
}

// tickYearEnd ages the team and refreshes the free-agent market.
func (e *GameEngine) tickYearEnd() {
	s := e.state

	for i := range s.RacingTeam.Drivers {
		d := &s.RacingTeam.Drivers[i]
		AgeDriverOneYear(d, e.rng)
		if d.ContractEndYear <= s.Year {
			s.Notify(fmt.Sprintf("%s's contract is up for renewal.", d.Name), SeverityWarning)
			d.ContractEndYear = s.Year + 1
		}
	}

	kept := s.FreeAgents[:0]
	for i := range s.FreeAgents {
		d := s.FreeAgents[i]
		AgeDriverOneYear(&d, e.rng)
		if d.Age <= 40 {
			kept = append(kept, d)
		}
	}
	s.FreeAgents = kept
	for i := 0; i < 3; i++ {
		s.FreeAgents = append(s.FreeAgents, GenerateRandomDriver(e.cat, s.Year, e.rng))
	}
	if len(s.FreeAgents) > e.cfg.FreeAgentPoolSize {
		s.FreeAgents = s.FreeAgents[:e.cfg.FreeAgentPoolSize]
	}
}

// tickProductionAndSales drips active batches into inventory, auto-releases
// cars on their first stocked week, and sells from released inventory.
func (e *GameEngine) tickProductionAndSales() (revenue int64, unitsSold int) {
	s := e.state

	for i := range s.DevelopedCars {
		car := &s.DevelopedCars[i]

		if p := car.Production; p != nil && p.IsActive {
			remaining := p.TotalBatch - p.UnitsProduced
			produced := p.WeeklyRate
			if produced > remaining {
				produced = remaining
			}
			if produced > 0 {
				p.UnitsProduced += produced
				car.Inventory += produced
			}

			if !car.IsReleased && car.Inventory > 0 {
				car.IsReleased = true
				car.LaunchDay = s.Date
				if eng, ok := s.EngineByID(car.Design.EngineID); ok {
					car.Reviews, car.ReviewScore = CalculateReviews(e.cat, car, *eng, s.Year)
				}
				s.Notify(fmt.Sprintf("%s has reached dealerships. Critics score it %d/100.",
					car.Design.Name, car.ReviewScore), SeveritySuccess)
			}

			if p.UnitsProduced >= p.TotalBatch {
				p.IsActive = false
				s.Notify(fmt.Sprintf("Production batch for %s is complete.", car.Design.Name), SeverityInfo)
			}
		}

		if car.IsReleased && car.Inventory > 0 {
			eng, ok := s.EngineByID(car.Design.EngineID)
			if !ok {
				continue
			}
			sales := CalculateWeeklySales(car, *eng, s.BrandPrestige, s.Year, s.ActiveEvent, e.rng)
			car.Inventory -= sales.UnitsSold
			car.TotalSold += sales.UnitsSold
			revenue += sales.Revenue
			unitsSold += sales.UnitsSold
		}
	}
	return revenue, unitsSold
}

// tickContracts delivers against active contracts and settles breaches.
// Delivery revenue books at contract price, cost at engine production cost.
func (e *GameEngine) tickContracts() (revenue, cost, penalty int64) {
	s := e.state
	remaining := s.ActiveContracts[:0]

	for i := range s.ActiveContracts {
		c := s.ActiveContracts[i]
		deadline := c.CreatedDay + c.DurationWeeks*DaysPerWeek

		if s.Date > deadline && c.Delivered < c.TotalQuantity {
			undelivered := c.TotalQuantity - c.Delivered
			fine := int64(math.Round(1.5 * float64(undelivered) * float64(c.UnitPrice)))
			penalty += fine
			s.Notify(fmt.Sprintf("Contract with %s breached. Penalty: $%d.", c.ClientName, fine), SeverityError)
			continue
		}

		target := ContractWeeklyTarget(&c)
		left := c.TotalQuantity - c.Delivered
		if target > left {
			target = left
		}
		if target > 0 {
			c.Delivered += target
			revenue += int64(target) * c.UnitPrice
			if eng, ok := s.EngineByID(c.EngineID); ok {
				cost += int64(target) * eng.ProductionCost
			}
		}

		if c.Delivered >= c.TotalQuantity {
			c.Status = ContractCompleted
			s.Notify(fmt.Sprintf("Contract with %s completed in full.", c.ClientName), SeveritySuccess)
			continue
		}
		remaining = append(remaining, c)
	}

	s.ActiveContracts = remaining
	return revenue, cost, penalty
}

// maybeSpawnContractOffer rolls the monthly chance of a new B2B inquiry.
func (e *GameEngine) maybeSpawnContractOffer() {
	s := e.state
	if len(s.ContractOffers) >= e.cfg.MaxContractOffers {
		return
	}
	chance := 0.05 + float64(s.BrandPrestige)/5000
	if e.rng.Float64() >= chance {
		return
	}
	offer := GenerateContractOffer(e.cat, s, e.rng)
	if offer == nil {
		return
	}
	s.ContractOffers = append(s.ContractOffers, *offer)
	s.Notify(fmt.Sprintf("%s is asking about an engine supply deal.", offer.ClientName), SeverityInfo)
}

// tickRacing runs the weekly race program: costs, development, one race, and
// driver progression.
func (e *GameEngine) tickRacing() (expense, prize int64, prestige int) {
	s := e.state
	team := &s.RacingTeam
	if team.CategoryID == "" {
		return 0, 0, 0
	}
	category, ok := e.cfg.CategoryByID(team.CategoryID)
	if !ok {
		return 0, 0, 0
	}

	if len(team.Drivers) > 0 {
		expense += category.WeeklyCost * int64(len(team.Drivers))
	} else {
		expense += category.WeeklyCost / 2
	}
	for i := range team.Drivers {
		expense += team.Drivers[i].Salary / 4
	}

	devSpend := team.MonthlyBudget / 4
	if devSpend > 0 {
		expense += devSpend
		team.CarPerformance = math.Min(100, team.CarPerformance+float64(devSpend)/1_000_000)
	}

	eng := FallbackRaceEngine()
	if team.EngineID != "" {
		if selected, found := s.EngineByID(team.EngineID); found {
			eng = *selected
		}
	}

	result := SimulateRace(team, category, eng, WeekOfYear(s.Date), e.rng)
	team.LastResult = &result
	prize = result.Prize
	prestige = result.Prestige

	for i := range team.Drivers {
		d := &team.Drivers[i]
		d.Stats.Experience = math.Min(100, d.Stats.Experience+0.1)
		pos, raced := result.Positions[d.ID]
		if raced && pos <= 3 && d.Age <= 26 {
			d.Stats.Skill = math.Min(d.Stats.Talent, d.Stats.Skill+float64(4-pos)*0.5)
		}
	}
	// A no-show weekend still goes on the record as a P20.
	team.History = append([]int{result.BestPos}, team.History...)
	if len(team.History) > MaxRaceHistory {
		team.History = team.History[:MaxRaceHistory]
	}
	return expense, prize, prestige
}

// appendAnalytics records the 4-weekly company history point, bounded at
// MaxHistoryLog entries.
func (e *GameEngine) appendAnalytics(weeklySales int) {
	s := e.state
	entry := AnalyticsEntry{
		Label:       fmt.Sprintf("%d W%d", s.Year, WeekOfYear(s.Date)),
		Money:       s.Money,
		SalesVolume: weeklySales * 4,
		Prestige:    s.BrandPrestige,
	}
	if len(e.cat.FlavorNews) > 0 {
		entry.Headline = e.cat.FlavorNews[(s.Date/DaysPerMonth)%len(e.cat.FlavorNews)]
	}
	s.HistoryLog = append(s.HistoryLog, entry)
	if len(s.HistoryLog) > MaxHistoryLog {
		s.HistoryLog = s.HistoryLog[len(s.HistoryLog)-MaxHistoryLog:]
	}
}

// tickTutorial advances onboarding when its milestone is observed in the
// world state rather than requiring explicit acknowledgement.
func (e *GameEngine) tickTutorial() {
	s := e.state
	t := &s.Tutorial
	if !t.IsActive || t.IsCompleted {
		return
	}

	ownEngines := 0
	for i := range s.UnlockedEngines {
		if !s.UnlockedEngines[i].IsSupplier {
			ownEngines++
		}
	}
	totalSold := 0
	for i := range s.DevelopedCars {
		totalSold += s.DevelopedCars[i].TotalSold
	}

	milestones := []bool{
		ownEngines > 0,
		len(s.DevelopedCars) > 0,
		CountActiveCars(s.DevelopedCars) > 0 || CountReleasedCars(s.DevelopedCars) > 0,
		CountReleasedCars(s.DevelopedCars) > 0,
		totalSold > 0,
	}
	for t.CurrentStep < len(milestones) && milestones[t.CurrentStep] {
		t.CurrentStep++
	}
	if t.CurrentStep >= len(milestones) {
		t.IsCompleted = true
		t.IsActive = false
		s.BrandPrestige += 10
		s.Notify("Onboarding complete. The press is starting to take notice.", SeveritySuccess)
	}
}
