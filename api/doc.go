// Package api provides the HTTP REST surface for the car-company
// simulation.
//
// The api package implements:
//   - RESTful endpoints for every player command
//   - Session management endpoints
//   - Configuration listing
//   - Save export/import
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session (optional config_id)
//   - GET /api/sessions - List sessions (sort/order/limit)
//   - GET /api/sessions/{id} - Session summary
//   - DELETE /api/sessions/{id} - Delete session and its save
//
// Views:
//   - GET /api/sessions/{id}/state - Full world snapshot
//   - GET /api/sessions/{id}/capacity - Factory load breakdown
//   - GET /api/sessions/{id}/notifications - Notification log
//   - GET /api/sessions/{id}/analytics - Rolling company history
//
// Simulation Control:
//   - POST /api/sessions/{id}/tick - Advance one week
//   - POST /api/sessions/{id}/pause - {paused: bool}
//   - POST /api/sessions/{id}/speed - {speed: 1|2}
//   - POST /api/sessions/{id}/advance-year - Jump to next year
//   - POST /api/sessions/{id}/continue - Keep playing after victory
//   - POST /api/sessions/{id}/reset - Start over on the same config
//
// Design and Production:
//   - POST /api/sessions/{id}/engines - Develop an engine
//   - POST /api/sessions/{id}/cars - Develop a car
//   - POST /api/sessions/{id}/cars/{carId}/production - {batch_size}
//   - POST /api/sessions/{id}/cars/{carId}/liquidate
//   - POST /api/sessions/{id}/factory/upgrade
//
// Contracts and Finance:
//   - POST /api/sessions/{id}/contracts/{contractId}/accept
//   - POST /api/sessions/{id}/contracts/{contractId}/reject
//   - POST /api/sessions/{id}/loans - {offer_id}
//   - POST /api/sessions/{id}/loans/{loanId}/repay
//   - POST /api/sessions/{id}/research - {tech_id}
//
// Racing:
//   - POST /api/sessions/{id}/racing/join - {category_id, confirmed}
//   - POST /api/sessions/{id}/racing/budget - {budget}
//   - POST /api/sessions/{id}/racing/engine - {engine_id}
//   - POST /api/sessions/{id}/racing/drivers/{driverId}/hire
//   - POST /api/sessions/{id}/racing/drivers/{driverId}/fire
//
// Persistence:
//   - POST /api/sessions/{id}/save - Persist immediately
//   - GET /api/sessions/{id}/export - Save document as a string
//   - POST /api/sessions/{id}/import - {save: "..."} or raw payload
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes. Rule
// rejections (not enough money, capacity exceeded, prestige too low) come
// back as 422 so clients can surface them to the player; unknown sessions
// are 404 and internal failures 500:
//
//	{
//	  "error": "insufficient funds: need 500000, have 120000"
//	}
//
// Successful commands answer with the fresh GameState so clients never need
// a follow-up fetch, and the same snapshot is pushed to any WebSocket
// clients attached to the session.
package api
