// Command analyze prints quick, human-readable heuristics about save files
// and balance presets. For saves it summarizes the company and flags common
// trouble: cars priced past the demand wall, an overcommitted factory,
// contracts behind delivery pace, and interest eating the weekly profit.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/motor-tycoon-game/game/config"
	"github.com/wricardo/motor-tycoon-game/game/engine"
	"github.com/wricardo/motor-tycoon-game/game/session"
)

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Inspect Motor Tycoon save files and balance presets",
		Commands: []*cli.Command{
			{
				Name:      "save",
				Usage:     "Analyze one or more save files",
				ArgsUsage: "<save.json> [...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config-dir",
						Aliases: []string{"c"},
						Value:   "configs",
						Usage:   "Directory holding balance presets (used to resolve the save's config)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() == 0 {
						return fmt.Errorf("no save files given")
					}
					configs := config.NewManager(cmd.String("config-dir"))
					for _, path := range cmd.Args().Slice() {
						fmt.Printf("\n=== Analyzing %s ===\n", path)
						analyzeSave(path, configs)
					}
					return nil
				},
			},
			{
				Name:      "config",
				Usage:     "Validate and summarize balance presets",
				ArgsUsage: "<preset.json> [...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() == 0 {
						return fmt.Errorf("no preset files given")
					}
					for _, path := range cmd.Args().Slice() {
						fmt.Printf("\n=== Analyzing %s ===\n", path)
						analyzeBalanceConfig(path)
					}
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// analyzeSave decodes a save document and prints a company health report.
func analyzeSave(path string, configs *config.Manager) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var doc session.SaveDocument
	if err := json.Unmarshal(data, &doc); err != nil || len(doc.GameState) == 0 {
		fmt.Printf("Error: not a save document\n")
		return
	}

	state, err := session.DecodeGameState(doc.GameState)
	if err != nil {
		fmt.Printf("Error decoding game state: %v\n", err)
		return
	}

	cfg, err := configs.LoadConfig(doc.ConfigName)
	if err != nil {
		fmt.Printf("Note: preset %q not found, using standard rules\n", doc.ConfigName)
		cfg = configs.GetDefault()
	}
	cat := engine.MustCatalog()

	fmt.Printf("Session: %s (config: %s)\n", doc.ID, doc.ConfigName)
	fmt.Printf("Year %d, Week %d | Money: $%d | Prestige: %d\n",
		state.Year, engine.WeekOfYear(state.Date), state.Money, state.BrandPrestige)
	fmt.Printf("Engines: %d | Cars: %d (%d released) | Factory level: %d\n",
		len(state.UnlockedEngines), len(state.DevelopedCars),
		engine.CountReleasedCars(state.DevelopedCars), state.Factory.Level)

	warnings := 0

	// Pricing: demand zeroes out above twice fair market value.
	for i := range state.DevelopedCars {
		car := &state.DevelopedCars[i]
		if !car.IsReleased {
			continue
		}
		fmv := engine.FairMarketValue(car, state.Year)
		ratio := float64(car.Design.Price) / fmv
		if ratio > 2.0 {
			fmt.Printf("⚠️  %s is priced at %.1fx fair value ($%.0f); it will not sell at all\n",
				car.Design.Name, ratio, fmv)
			warnings++
		} else if ratio > 1.5 {
			fmt.Printf("⚠️  %s is priced at %.1fx fair value; expect weak demand\n",
				car.Design.Name, ratio)
			warnings++
		}
	}

	// Capacity.
	usage := engine.ComputeCapacity(cat, cfg, state)
	fmt.Printf("Capacity: %.1f / %.1f PU (cars %.1f, contracts %.1f)\n",
		usage.Used, usage.Capacity, usage.Cars, usage.B2B)
	if usage.Used > usage.Capacity {
		fmt.Printf("⚠️  Factory is overcommitted by %.1f PU; production will stall\n",
			usage.Used-usage.Capacity)
		warnings++
	}

	// Contract delivery pace.
	for _, ct := range state.ActiveContracts {
		weeksElapsed := (state.Date - ct.CreatedDay) / engine.DaysPerWeek
		if weeksElapsed <= 0 || ct.TotalQuantity == 0 {
			continue
		}
		expected := float64(ct.TotalQuantity) * float64(weeksElapsed) / float64(ct.DurationWeeks)
		if float64(ct.Delivered) < expected*0.8 {
			fmt.Printf("⚠️  Contract with %s is behind pace: %d/%d delivered with %d of %d weeks gone\n",
				ct.ClientName, ct.Delivered, ct.TotalQuantity, weeksElapsed, ct.DurationWeeks)
			warnings++
		}
	}

	// Interest burden vs. weekly profit.
	var monthlyInterest int64
	for _, loan := range state.ActiveLoans {
		monthlyInterest += int64(float64(loan.Principal) * loan.InterestRate)
	}
	if monthlyInterest > 0 {
		fmt.Printf("Loans: %d active, $%d interest per month (lifetime paid: $%d)\n",
			len(state.ActiveLoans), monthlyInterest, state.TotalInterest)
		monthlyProfit := state.LastWeeklyProfit * 4
		if monthlyProfit > 0 && monthlyInterest > monthlyProfit {
			fmt.Printf("⚠️  Monthly interest exceeds recent monthly profit; debt is compounding\n")
			warnings++
		}
	}

	if warnings == 0 {
		fmt.Printf("✅ No problems detected\n")
	}
}

// analyzeBalanceConfig loads a preset through the same validation path the
// server uses, then prints its headline numbers.
func analyzeBalanceConfig(path string) {
	cfg, err := engine.LoadBalanceConfig(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Name: %s\n", cfg.Name)
	fmt.Printf("Starting money: $%d | Weekly opex: $%d | Bankruptcy floor: $%d\n",
		cfg.InitialMoney, cfg.WeeklyOpex, cfg.BankruptcyFloor)
	fmt.Printf("Victory: $%d and %d prestige\n", cfg.VictoryMoney, cfg.VictoryPrestige)

	fmt.Printf("Factory tiers (%d):\n", len(cfg.FactoryTiers))
	for _, tier := range cfg.FactoryTiers {
		fmt.Printf("  L%d %s: %.0f PU, upgrade $%d\n",
			tier.Level, tier.Name, tier.CapacityPU, tier.UpgradeCost)
	}

	fmt.Printf("Loan offers (%d):\n", len(cfg.LoanOffers))
	for _, offer := range cfg.LoanOffers {
		fmt.Printf("  %s: $%d at %.1f%%/month, needs %d prestige\n",
			offer.Name, offer.Amount, offer.Rate*100, offer.MinPrestige)
	}

	fmt.Printf("Racing categories (%d):\n", len(cfg.RacingCategories))
	for _, rc := range cfg.RacingCategories {
		fmt.Printf("  %s: entry $%d, weekly $%d, needs %d prestige\n",
			rc.Name, rc.EntryFee, rc.WeeklyCost, rc.MinPrestige)
	}

	fmt.Printf("✅ Preset is valid\n")
}
