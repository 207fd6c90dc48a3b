// Package mcp exposes the game over the Model Context Protocol by proxying
// every tool call to the REST API.
//
// The client holds no game state of its own: each tool handler issues an HTTP
// request against the running API server and formats the JSON response as
// plain text. This keeps a single source of truth (the service layer behind
// the API) no matter how many MCP clients are attached.
//
// Tool surface:
//   - Sessions: create_session, get_session, list_sessions, list_configs
//   - Views: game_state, capacity, notifications, analytics
//   - Simulation: advance_week, set_paused, set_speed, reset_game
//   - Design: develop_engine, develop_car
//   - Production: start_production, liquidate_stock, upgrade_factory
//   - Economy: accept_contract, reject_contract, take_loan, repay_loan,
//     research_tech
//   - Racing: join_racing, set_racing_budget, select_race_engine,
//     hire_driver, fire_driver
//   - game_instructions: the full rulebook as text
//
// Transport:
//
// The underlying mcp-go server can be driven over stdio for local agents or
// mounted as an HTTP handler for remote ones; main.go wires both modes.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
