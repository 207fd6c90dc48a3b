package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// CommandError is a validation rejection: the command was refused before any
// mutation and the message is fit to show the player.
type CommandError struct {
	Message string
}

func (e *CommandError) Error() string { return e.Message }

// rejectf builds a CommandError.
func rejectf(format string, args ...interface{}) error {
	return &CommandError{Message: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a player-facing validation rejection as
// opposed to an internal failure.
func IsRejection(err error) bool {
	_, ok := err.(*CommandError)
	return ok
}

// techUnlocked reports whether any researched technology grants the given
// effect. Effects no technology provides are considered available from the
// start.
func (e *GameEngine) techUnlocked(effectType, value string) bool {
	gated := false
	for _, t := range e.cat.TechTree {
		if t.Effect.Type != effectType || t.Effect.Value != value {
			continue
		}
		gated = true
		for _, id := range e.state.UnlockedTechIDs {
			if id == t.ID {
				return true
			}
		}
	}
	return !gated
}

// DevelopEngine runs the designer, charges the development cost, and adds
// the engine to the unlocked collection. Grants +5 prestige.
func (e *GameEngine) DevelopEngine(design EngineDesign) (*EngineSpec, error) {
	s := e.state
	if design.Name == "" {
		return nil, rejectf("the engine needs a name")
	}
	profile, ok := e.cat.Layouts[design.Layout]
	if !ok {
		return nil, rejectf("unknown cylinder layout %q", design.Layout)
	}
	if design.Block == MaterialAluminum && !e.techUnlocked("block_material", MaterialAluminum) {
		return nil, rejectf("aluminum casting has not been researched")
	}
	if design.Induction == InductionTurbo && !e.techUnlocked("induction", InductionTurbo) {
		return nil, rejectf("turbocharging has not been researched")
	}
	if design.Valvetrain == ValvetrainDOHC && !e.techUnlocked("valvetrain", ValvetrainDOHC) {
		return nil, rejectf("DOHC valvetrains have not been researched")
	}

	spec := CalculateEngineStats(e.cat, design)
	if spec.DisplacementCC > profile.MaxDisplacementCC {
		return nil, rejectf("%dcc exceeds the %s block limit of %dcc",
			spec.DisplacementCC, design.Layout, profile.MaxDisplacementCC)
	}

	devCost := CalculateDevelopmentCost(spec)
	if s.Money < devCost {
		return nil, rejectf("developing this engine costs $%d, which you cannot afford", devCost)
	}

	s.Money -= devCost
	spec.ID = uuid.NewString()
	s.UnlockedEngines = append(s.UnlockedEngines, spec)
	s.BrandPrestige += 5
	s.Notify(fmt.Sprintf("%s development complete: %.0f hp at %d rpm.",
		spec.Name, spec.Horsepower, spec.RedlineRPM), SeveritySuccess)
	return &s.UnlockedEngines[len(s.UnlockedEngines)-1], nil
}

// DevelopCar registers a car design around an unlocked engine. Using parts
// that became available only recently earns research points.
func (e *GameEngine) DevelopCar(design CarDesign) (*CarModel, error) {
	s := e.state
	if design.Name == "" {
		return nil, rejectf("the car needs a name")
	}
	eng, ok := s.EngineByID(design.EngineID)
	if !ok {
		return nil, rejectf("unknown engine for this design")
	}
	body, ok := e.cat.BodyTypeByID(design.BodyTypeID)
	if !ok {
		return nil, rejectf("unknown body type %q", design.BodyTypeID)
	}
	if body.UnlockYear > s.Year {
		return nil, rejectf("the %s body style is not available until %d", body.Name, body.UnlockYear)
	}
	if material, found := e.cat.FrameMaterialByID(design.FrameMaterial); found && material.TechRequired != "" {
		if !e.hasTech(material.TechRequired) {
			return nil, rejectf("%s construction has not been researched", material.Name)
		}
	}
	for _, id := range design.Features {
		if f, found := e.cat.FeatureOptionByID(id); found && f.TechRequired != "" && !e.hasTech(f.TechRequired) {
			return nil, rejectf("%s requires research you have not completed", f.Name)
		}
	}
	for _, id := range design.Cosmetics {
		if p, found := e.cat.CosmeticPartByID(id); found && p.TechRequired != "" && !e.hasTech(p.TechRequired) {
			return nil, rejectf("%s requires research you have not completed", p.Name)
		}
	}
	if design.Price <= 0 {
		return nil, rejectf("the car needs a positive asking price")
	}

	result := CalculateCarStats(e.cat, design, *eng)
	if !result.Compatible {
		return nil, rejectf("%s", result.Message)
	}

	car := CarModel{
		ID:                 uuid.NewString(),
		Design:             design,
		IsOutsourcedEngine: eng.IsSupplier,
		Stats:              result.Stats,
	}
	s.DevelopedCars = append(s.DevelopedCars, car)

	if rp := e.designNoveltyPoints(design); rp > 0 {
		e.GainResearchPoints(rp, fmt.Sprintf("Engineering insights from the %s program", design.Name))
	}
	s.Notify(fmt.Sprintf("%s design finalized. Unit cost $%d.", design.Name, result.Stats.ProductionCost), SeverityInfo)
	return &s.DevelopedCars[len(s.DevelopedCars)-1], nil
}

// designNoveltyPoints awards 10 RP for each part on the design that became
// available within the last five years.
func (e *GameEngine) designNoveltyPoints(design CarDesign) int {
	recent := func(unlockYear int) bool {
		return unlockYear > 0 && e.state.Year-unlockYear < 5
	}
	points := 0
	if body, ok := e.cat.BodyTypeByID(design.BodyTypeID); ok && recent(body.UnlockYear) {
		points += 10
	}
	for _, id := range design.Cosmetics {
		if p, ok := e.cat.CosmeticPartByID(id); ok && recent(p.UnlockYear) {
			points += 10
		}
	}
	for _, id := range design.Features {
		if f, ok := e.cat.FeatureOptionByID(id); ok && recent(f.UnlockYear) {
			points += 10
		}
	}
	return points
}

func (e *GameEngine) hasTech(techID string) bool {
	for _, id := range e.state.UnlockedTechIDs {
		if id == techID {
			return true
		}
	}
	return false
}

// StartProduction commits a batch to the factory. The weekly rate is the
// largest the free capacity sustains; the full batch cost is charged up
// front, inflated by an active supply event.
func (e *GameEngine) StartProduction(carID string, batchSize int) error {
	s := e.state
	car, ok := s.CarByID(carID)
	if !ok {
		return rejectf("unknown car model")
	}
	if batchSize < 1 {
		return rejectf("batch size must be at least 1")
	}
	if car.Production != nil && car.Production.IsActive {
		return rejectf("%s is already in production", car.Design.Name)
	}

	effort := EffortPerUnit(e.cat, CarWorkItem(car))
	free := e.Capacity().Free()
	maxRate := int(math.Floor(free / effort))
	if maxRate < 1 {
		return rejectf("the factory has no capacity for %s right now", car.Design.Name)
	}

	cost := car.Stats.ProductionCost * int64(batchSize)
	if s.ActiveEvent != nil && s.ActiveEvent.Modifiers.ProductionCostMultiplier > 0 {
		cost = int64(math.Round(float64(cost) * s.ActiveEvent.Modifiers.ProductionCostMultiplier))
		s.Notify(fmt.Sprintf("%s is inflating production costs.", s.ActiveEvent.Title), SeverityWarning)
	}
	if s.Money < cost {
		return rejectf("producing %d units costs $%d, which you cannot afford", batchSize, cost)
	}

	s.Money -= cost
	car.Production = &ProductionState{
		IsActive:      true,
		TotalBatch:    batchSize,
		WeeklyRate:    maxRate,
		EffortPerUnit: effort,
	}
	s.Notify(fmt.Sprintf("Production of %s started: %d units at %d per week.",
		car.Design.Name, batchSize, maxRate), SeveritySuccess)
	return nil
}

// LiquidateStock clears a car's inventory at half production cost.
func (e *GameEngine) LiquidateStock(carID string) error {
	s := e.state
	car, ok := s.CarByID(carID)
	if !ok {
		return rejectf("unknown car model")
	}
	if car.Inventory <= 0 {
		return rejectf("%s has no stock to liquidate", car.Design.Name)
	}
	proceeds := int64(car.Inventory) * car.Stats.ProductionCost / 2
	s.Money += proceeds
	s.Notify(fmt.Sprintf("Liquidated %d units of %s for $%d.",
		car.Inventory, car.Design.Name, proceeds), SeverityWarning)
	car.Inventory = 0
	return nil
}

// UpgradeFactory advances exactly one tier.
func (e *GameEngine) UpgradeFactory() error {
	s := e.state
	next, ok := e.cfg.TierByLevel(s.Factory.Level + 1)
	if !ok {
		return rejectf("the factory is already at its highest tier")
	}
	if s.Money < next.UpgradeCost {
		return rejectf("upgrading to %s costs $%d, which you cannot afford", next.Name, next.UpgradeCost)
	}
	s.Money -= next.UpgradeCost
	s.Factory.Level = next.Level
	s.Notify(fmt.Sprintf("Factory upgraded to %s: %.0f PU per week.", next.Name, next.CapacityPU), SeveritySuccess)
	return nil
}

// AcceptContract moves a pending offer into the active set, provided the
// weekly effort fits the remaining factory capacity.
func (e *GameEngine) AcceptContract(contractID string) error {
	s := e.state
	idx := -1
	for i := range s.ContractOffers {
		if s.ContractOffers[i].ID == contractID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return rejectf("that offer is no longer on the table")
	}
	offer := s.ContractOffers[idx]

	eng, ok := s.EngineByID(offer.EngineID)
	if !ok {
		return rejectf("the requested engine is no longer available")
	}
	needed := float64(ContractWeeklyTarget(&offer)) * EffortPerUnit(e.cat, EngineWorkItem(eng))
	if needed > e.Capacity().Free() {
		return rejectf("fulfilling this contract needs %.1f PU per week, more than the factory has free", needed)
	}

	offer.Status = ContractActive
	s.ContractOffers = append(s.ContractOffers[:idx], s.ContractOffers[idx+1:]...)
	s.ActiveContracts = append(s.ActiveContracts, offer)
	s.Notify(fmt.Sprintf("Signed with %s: %d units over %d weeks.",
		offer.ClientName, offer.TotalQuantity, offer.DurationWeeks), SeveritySuccess)
	return nil
}

// RejectContract declines a pending offer.
func (e *GameEngine) RejectContract(contractID string) error {
	s := e.state
	for i := range s.ContractOffers {
		if s.ContractOffers[i].ID == contractID {
			s.ContractOffers = append(s.ContractOffers[:i], s.ContractOffers[i+1:]...)
			return nil
		}
	}
	return rejectf("that offer is no longer on the table")
}

// TakeLoan draws a loan from an offer tier, capped per tier and gated on
// prestige.
func (e *GameEngine) TakeLoan(offerID string) error {
	s := e.state
	offer, ok := e.cfg.LoanOfferByID(offerID)
	if !ok {
		return rejectf("unknown loan offer")
	}
	if s.BrandPrestige < offer.MinPrestige {
		return rejectf("%s requires brand prestige of %d", offer.Name, offer.MinPrestige)
	}
	existing := 0
	for i := range s.ActiveLoans {
		if s.ActiveLoans[i].OfferID == offer.ID {
			existing++
		}
	}
	if existing >= e.cfg.MaxLoansPerTier {
		return rejectf("%s will not extend more than %d concurrent loans", offer.Name, e.cfg.MaxLoansPerTier)
	}

	s.ActiveLoans = append(s.ActiveLoans, Loan{
		ID:           uuid.NewString(),
		OfferID:      offer.ID,
		Name:         offer.Name,
		Principal:    offer.Amount,
		InterestRate: offer.Rate,
		DateTaken:    s.Date,
	})
	s.Money += offer.Amount
	s.Notify(fmt.Sprintf("Borrowed $%d from %s.", offer.Amount, offer.Name), SeverityInfo)
	return nil
}

// RepayLoan settles a loan in full. Partial repayment is not offered.
func (e *GameEngine) RepayLoan(loanID string) error {
	s := e.state
	for i := range s.ActiveLoans {
		loan := s.ActiveLoans[i]
		if loan.ID != loanID {
			continue
		}
		if s.Money < loan.Principal {
			return rejectf("repaying %s requires the full $%d principal", loan.Name, loan.Principal)
		}
		s.Money -= loan.Principal
		s.ActiveLoans = append(s.ActiveLoans[:i], s.ActiveLoans[i+1:]...)
		s.Notify(fmt.Sprintf("Repaid %s in full.", loan.Name), SeveritySuccess)
		return nil
	}
	return rejectf("unknown loan")
}

// ResearchTech buys a technology with money and research points. Techs ahead
// of the current decade cost more the further ahead they are.
func (e *GameEngine) ResearchTech(techID string) error {
	s := e.state
	tech, ok := e.cat.TechnologyByID(techID)
	if !ok {
		return rejectf("unknown technology")
	}
	if e.hasTech(tech.ID) {
		return rejectf("%s has already been researched", tech.Name)
	}

	tax := 1.0
	if gap := Era(tech.UnlockYear) - Era(s.Year); gap > 0 {
		tax = 1 + float64(gap)*0.5
	}
	moneyCost := int64(math.Round(float64(tech.Cost) * tax))
	rpCost := int(math.Round(float64(tech.BaseRPCost) * tax))

	if s.Money < moneyCost {
		return rejectf("researching %s costs $%d, which you cannot afford", tech.Name, moneyCost)
	}
	if s.ResearchPoints < rpCost {
		return rejectf("researching %s needs %d research points, you have %d", tech.Name, rpCost, s.ResearchPoints)
	}

	s.Money -= moneyCost
	s.ResearchPoints -= rpCost
	s.UnlockedTechIDs = append(s.UnlockedTechIDs, tech.ID)
	s.BrandPrestige += 2
	s.Notify(fmt.Sprintf("%s researched.", tech.Name), SeveritySuccess)
	return nil
}

// GainResearchPoints credits RP, with an optional notification.
func (e *GameEngine) GainResearchPoints(points int, reason string) {
	if points <= 0 {
		return
	}
	e.state.ResearchPoints += points
	if reason != "" {
		e.state.Notify(fmt.Sprintf("%s (+%d RP).", reason, points), SeverityInfo)
	}
}

// JoinRacingCategory enters (or switches to) a racing series. Switching away
// from an active category discards car development and requires the caller
// to confirm.
func (e *GameEngine) JoinRacingCategory(categoryID string, confirmed bool) error {
	s := e.state
	category, ok := e.cfg.CategoryByID(categoryID)
	if !ok {
		return rejectf("unknown racing category")
	}
	if s.RacingTeam.CategoryID == categoryID {
		return rejectf("the team already races in %s", category.Name)
	}
	if s.BrandPrestige < category.MinPrestige {
		return rejectf("%s requires brand prestige of %d", category.Name, category.MinPrestige)
	}
	if s.Money < category.EntryFee {
		return rejectf("the %s entry fee is $%d, which you cannot afford", category.Name, category.EntryFee)
	}
	if s.RacingTeam.CategoryID != "" && !confirmed {
		return rejectf("switching categories resets race car development; confirm to proceed")
	}

	s.Money -= category.EntryFee
	firstJoin := s.RacingTeam.CategoryID == ""
	s.RacingTeam.CategoryID = category.ID
	s.RacingTeam.EngineID = ""
	s.RacingTeam.CarPerformance = 10
	s.RacingTeam.CarReliability = 50
	s.RacingTeam.History = nil
	s.RacingTeam.LastResult = nil
	if firstJoin && s.RacingTeam.MonthlyBudget == 0 {
		s.RacingTeam.MonthlyBudget = 50_000
	}
	s.Notify(fmt.Sprintf("The team has entered %s.", category.Name), SeveritySuccess)
	return nil
}

// SetRacingBudget sets the monthly development budget.
func (e *GameEngine) SetRacingBudget(budget int64) error {
	if budget < 0 {
		return rejectf("the racing budget cannot be negative")
	}
	e.state.RacingTeam.MonthlyBudget = budget
	return nil
}

// SelectRaceEngine homologates and selects an engine for the current
// category. Banned engines are refused outright; restricted ones are
// accepted with their power cap reported.
func (e *GameEngine) SelectRaceEngine(engineID string) (HomologationResult, error) {
	s := e.state
	if s.RacingTeam.CategoryID == "" {
		return HomologationResult{}, rejectf("join a racing category first")
	}
	category, _ := e.cfg.CategoryByID(s.RacingTeam.CategoryID)
	eng, ok := s.EngineByID(engineID)
	if !ok {
		return HomologationResult{}, rejectf("unknown engine")
	}

	result := ValidateEngineForCategory(*eng, category)
	if result.Status == HomologationBanned {
		return result, rejectf("%s failed scrutineering: %s", eng.Name, result.Message)
	}
	s.RacingTeam.EngineID = eng.ID
	s.Notify(fmt.Sprintf("%s homologated for %s (%s).", eng.Name, category.Name, result.Status), SeverityInfo)
	return result, nil
}

// HireDriver signs a free agent into one of the two team slots for their
// market value.
func (e *GameEngine) HireDriver(driverID string) error {
	s := e.state
	if len(s.RacingTeam.Drivers) >= MaxTeamDrivers {
		return rejectf("the team already has %d drivers under contract", MaxTeamDrivers)
	}
	for i := range s.FreeAgents {
		d := s.FreeAgents[i]
		if d.ID != driverID {
			continue
		}
		if s.Money < d.MarketValue {
			return rejectf("signing %s costs $%d, which you cannot afford", d.Name, d.MarketValue)
		}
		s.Money -= d.MarketValue
		s.FreeAgents = append(s.FreeAgents[:i], s.FreeAgents[i+1:]...)
		s.RacingTeam.Drivers = append(s.RacingTeam.Drivers, d)
		s.Notify(fmt.Sprintf("%s has joined the team.", d.Name), SeveritySuccess)
		return nil
	}
	return rejectf("that driver is no longer a free agent")
}

// FireDriver terminates a driver's contract. Severance is the greater of
// three months' salary and a fixed floor, and must be affordable.
func (e *GameEngine) FireDriver(driverID string) error {
	s := e.state
	for i := range s.RacingTeam.Drivers {
		d := s.RacingTeam.Drivers[i]
		if d.ID != driverID {
			continue
		}
		severance := d.Salary * 3
		if severance < 500_000 {
			severance = 500_000
		}
		if s.Money < severance {
			return rejectf("terminating %s's contract costs $%d in severance, which you cannot afford", d.Name, severance)
		}
		s.Money -= severance
		s.RacingTeam.Drivers = append(s.RacingTeam.Drivers[:i], s.RacingTeam.Drivers[i+1:]...)
		s.Notify(fmt.Sprintf("%s has left the team. Severance: $%d.", d.Name, severance), SeverityWarning)
		return nil
	}
	return rejectf("that driver is not on the team")
}

// SetPaused flips the pause flag. The scheduler consults it before starting
// a tick; a tick in flight always completes.
func (e *GameEngine) SetPaused(paused bool) {
	e.state.IsPaused = paused
}

// SetGameSpeed selects the tick interval: 1 is normal, 2 is fast.
func (e *GameEngine) SetGameSpeed(speed int) error {
	if speed != 1 && speed != 2 {
		return rejectf("game speed must be 1 or 2")
	}
	e.state.GameSpeed = speed
	return nil
}

// ForceAdvanceYear jumps to the start of the next simulated year and runs
// the year-end pass. Debug helper.
func (e *GameEngine) ForceAdvanceYear() {
	s := e.state
	s.Date += DaysPerYear - s.Date%DaysPerYear
	s.Year = YearForDay(s.Date)
	e.tickYearEnd()
	s.Notify(fmt.Sprintf("Time skipped to %d.", s.Year), SeverityInfo)
}

// ContinuePlaying resumes a won game in sandbox fashion. HasWon stays
// latched so the victory cannot re-trigger.
func (e *GameEngine) ContinuePlaying() error {
	s := e.state
	if s.EndGameState != EndGameVictory {
		return rejectf("there is nothing to continue from")
	}
	s.EndGameState = EndGameNone
	s.IsPaused = false
	s.Notify("The empire rolls on.", SeverityInfo)
	return nil
}

// CompleteTutorialStep acknowledges tutorial progress from the player side.
// Steps beyond the last mark the tutorial complete.
func (e *GameEngine) CompleteTutorialStep(step int) {
	s := e.state
	t := &s.Tutorial
	if t.IsCompleted {
		return
	}
	if step > t.CurrentStep {
		t.CurrentStep = step
	}
	if t.CurrentStep >= 5 {
		t.IsCompleted = true
		t.IsActive = false
		s.BrandPrestige += 10
		s.Notify("Onboarding complete. The press is starting to take notice.", SeveritySuccess)
	}
}
