// Package websocket provides real-time push transport for game sessions.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State broadcasts after every simulated week
//   - Notification delivery alongside state updates
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine that manages reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded. After each week the hub pushes a
// "week_advanced" message carrying the full GameState, the week's net
// profit, and any notifications the week produced. Command handlers push
// "state_update" messages. The socket is one-way: incoming client frames
// only keep the connection alive.
//
// Session Integration:
//
// WebSocket connections are session-aware. Clients specify their session ID
// via query parameter (?session=ab12) when establishing the connection.
// Broadcasts reach only clients attached to the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	hub.BroadcastTick(sessionID, state, profit, notes)
//
// Concurrency:
//
// All broadcast methods hand messages to the hub's event loop, so they are
// safe to call from multiple goroutines. Clients can connect and disconnect
// while broadcasts are in flight.
package websocket
