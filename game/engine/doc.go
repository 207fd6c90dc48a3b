// Package engine provides the core simulation for the Motor Tycoon Game.
//
// The engine package implements the business rules including:
//   - Engine and car design with fully derived performance stats
//   - The weekly tick: production, sales, contracts, racing, financing
//   - Factory capacity accounting in production units (PU)
//   - Player commands with validate-before-mutate semantics
//   - World events, loans, research, and the driver market
//
// Core Types:
//
// The Engine interface defines the contract for one game's simulation,
// implemented by GameEngine. GameState is the complete world snapshot.
// BalanceConfig holds the tunable rules loaded from JSON presets, while the
// embedded Catalog carries the static content: body types, parts, features,
// the tech tree, client companies, and name pools.
//
// Usage:
//
//	cfg := engine.DefaultBalanceConfig()
//	game, err := engine.NewEngine(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	spec, err := game.DevelopEngine(design)
//	game.AdvanceWeek()
//	state := game.GetState()
//
// Determinism:
//
// Every formula is a pure function of its inputs. All randomness (event
// spawns, sales fluctuation, race rolls, driver generation) goes through the
// injectable Rand interface, so tests drive the simulation with fixed
// sequences. GameEngine methods are not goroutine safe; the owning service
// serializes access.
package engine
