// Package service provides the application facade for the Motor Tycoon Game.
//
// GameService wraps the simulation engine behind a session-addressed,
// context-aware API used by the REST, WebSocket, and MCP transports. All
// mutating operations run under a single write lock and auto-save through
// the session manager, so a command and a tick can never interleave on the
// same snapshot.
//
// Scheduler drives the weekly tick per session at the speed-selected
// interval, checking the pause flag before each tick.
package service
