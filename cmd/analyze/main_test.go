package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wricardo/motor-tycoon-game/game/config"
	"github.com/wricardo/motor-tycoon-game/game/engine"
	"github.com/wricardo/motor-tycoon-game/game/session"
)

func writeSaveFile(t *testing.T, dir string, state *engine.GameState) string {
	t.Helper()

	stateJSON, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Failed to marshal state: %v", err)
	}
	doc := session.SaveDocument{
		Version:        session.SaveVersion,
		ID:             "test",
		ConfigName:     "standard",
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
		GameState:      stateJSON,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document: %v", err)
	}

	path := filepath.Join(dir, "test.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write save file: %v", err)
	}
	return path
}

func TestAnalyzeSave_FreshGame(t *testing.T) {
	cfg := engine.DefaultBalanceConfig()
	state := engine.NewGameState(cfg, engine.MustCatalog(), engine.NewRand(1))
	path := writeSaveFile(t, t.TempDir(), state)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeSave panicked: %v", r)
		}
	}()

	analyzeSave(path, config.NewManager(t.TempDir()))
}

func TestAnalyzeSave_WithWarnings(t *testing.T) {
	cfg := engine.DefaultBalanceConfig()
	state := engine.NewGameState(cfg, engine.MustCatalog(), engine.NewRand(1))

	// A released car priced far past the demand wall.
	state.DevelopedCars = append(state.DevelopedCars, engine.CarModel{
		ID: "car-1",
		Design: engine.CarDesign{
			Name:     "Goldplate GT",
			Category: engine.CategoryLuxury,
			Price:    10_000_000,
		},
		Stats:      engine.CarStats{ProductionCost: 50_000},
		IsReleased: true,
	})

	// A loan whose monthly interest dwarfs recent profit.
	state.ActiveLoans = append(state.ActiveLoans, engine.Loan{
		ID:           "loan-1",
		Name:         "Big Loan",
		Principal:    100_000_000,
		InterestRate: 0.05,
	})
	state.LastWeeklyProfit = 1000

	path := writeSaveFile(t, t.TempDir(), state)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeSave panicked: %v", r)
		}
	}()

	analyzeSave(path, config.NewManager(t.TempDir()))
}

func TestAnalyzeSave_InvalidFile(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeSave panicked with missing file: %v", r)
		}
	}()

	analyzeSave("/non/existent/save.json", config.NewManager(t.TempDir()))
}

func TestAnalyzeSave_NotASaveDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bogus.json")
	if err := os.WriteFile(path, []byte(`{"hello": "world"}`), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeSave panicked with non-save JSON: %v", r)
		}
	}()

	analyzeSave(path, config.NewManager(dir))
}

func TestAnalyzeBalanceConfig_Valid(t *testing.T) {
	cfg := engine.DefaultBalanceConfig()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	path := filepath.Join(t.TempDir(), "standard.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeBalanceConfig panicked: %v", r)
		}
	}()

	analyzeBalanceConfig(path)
}

func TestAnalyzeBalanceConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"name": "broken"}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeBalanceConfig panicked with invalid preset: %v", r)
		}
	}()

	analyzeBalanceConfig(path)
}
