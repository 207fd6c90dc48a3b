// Command validate provides a small CLI that validates balance preset JSON
// files in the configs directory. It checks:
//   - JSON structure and required fields
//   - Economy bounds (money, opex, bankruptcy floor, victory targets)
//   - Factory tier ladder consistency
//   - Loan offers, event templates, and racing categories
//   - Playability heuristics: cash runway, loan ladder ordering, and racing
//     prestige gates that stay within reach of the victory target
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/motor-tycoon-game/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validatePreset loads and validates a single balance preset JSON file.
// It runs the same structural validation the server uses on load, then adds
// playability checks on top.
func validatePreset(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var cfg engine.BalanceConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := engine.ValidateBalanceConfig(&cfg); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	playability := validatePlayability(&cfg)
	result.Errors = append(result.Errors, playability.Errors...)
	if !playability.Valid {
		result.Valid = false
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", cfg.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Economy: $%d start, $%d/week opex, floor $%d", cfg.InitialMoney, cfg.WeeklyOpex, cfg.BankruptcyFloor))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Victory: $%d and %d prestige", cfg.VictoryMoney, cfg.VictoryPrestige))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Factory tiers: %d (%.0f to %.0f PU)", len(cfg.FactoryTiers), cfg.FactoryTiers[0].CapacityPU, cfg.FactoryTiers[len(cfg.FactoryTiers)-1].CapacityPU))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Loan offers: %d", len(cfg.LoanOffers)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Event templates: %d", len(cfg.EventTemplates)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Racing categories: %d", len(cfg.RacingCategories)))
	}

	return result
}

// validatePlayability applies heuristics that a structurally valid preset can
// still fail: a game that bankrupts before the player can act, loan or racing
// ladders in the wrong order, or gates no run can ever pass.
func validatePlayability(cfg *engine.BalanceConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	// Cash runway before any income.
	if cfg.WeeklyOpex > 0 {
		runwayWeeks := cfg.InitialMoney / cfg.WeeklyOpex
		if runwayWeeks < 26 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Runway too short: only %d weeks of opex before starting money runs out", runwayWeeks))
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Runway: %d weeks of opex covered at start", runwayWeeks))
		}
	}

	// Loan ladder: higher prestige gates should unlock bigger money.
	for i := 1; i < len(cfg.LoanOffers); i++ {
		prev, cur := cfg.LoanOffers[i-1], cfg.LoanOffers[i]
		if cur.MinPrestige < prev.MinPrestige {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Loan offers out of order: %s gates at %d prestige after %s at %d", cur.ID, cur.MinPrestige, prev.ID, prev.MinPrestige))
		}
		if cur.MinPrestige > prev.MinPrestige && cur.Amount <= prev.Amount {
			result.Errors = append(result.Errors, fmt.Sprintf("Note: loan %s requires more prestige than %s but offers no more money", cur.ID, prev.ID))
		}
	}
	for _, offer := range cfg.LoanOffers {
		if offer.MinPrestige > cfg.VictoryPrestige {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Loan %s gates at %d prestige, past the victory target of %d; no run can reach it", offer.ID, offer.MinPrestige, cfg.VictoryPrestige))
		}
	}

	// Racing gates must stay reachable.
	for _, rc := range cfg.RacingCategories {
		if rc.MinPrestige > cfg.VictoryPrestige {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Racing category %s gates at %d prestige, past the victory target of %d", rc.ID, rc.MinPrestige, cfg.VictoryPrestige))
		}
		if rc.EntryFee >= cfg.InitialMoney && rc.MinPrestige <= cfg.InitialPrestige {
			result.Errors = append(result.Errors, fmt.Sprintf("Note: category %s is open from the start but its entry fee ($%d) exceeds starting money", rc.ID, rc.EntryFee))
		}
	}

	// First factory upgrade should not cost more than the victory target.
	if len(cfg.FactoryTiers) > 1 {
		first := cfg.FactoryTiers[1]
		if first.UpgradeCost >= cfg.VictoryMoney {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("First factory upgrade costs $%d, at or past the victory target", first.UpgradeCost))
		}
	}

	// Event modifiers that would break the economy outright.
	for _, tpl := range cfg.EventTemplates {
		m := tpl.Modifiers
		if m.InterestRateOffset < -0.5 || m.InterestRateOffset > 0.5 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Event %s interest offset %.2f is outside [-0.5, 0.5]", tpl.ID, m.InterestRateOffset))
		}
		if m.DemandMultiplier > 10 || m.ProductionCostMultiplier > 10 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Event %s multipliers exceed 10x", tpl.ID))
		}
	}

	return result
}

// main scans the configs directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid. The directory defaults to "configs" and can be overridden with the
// first argument.
func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding preset files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No preset files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validatePreset(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All presets are valid!")
	} else {
		fmt.Println("❌ Some presets have errors")
		os.Exit(1)
	}
}
