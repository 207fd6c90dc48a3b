package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/motor-tycoon-game/game/engine"
	"github.com/wricardo/motor-tycoon-game/game/service"
	"github.com/wricardo/motor-tycoon-game/game/session"
	"github.com/wricardo/motor-tycoon-game/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Read-only views
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/capacity", s.handleGetCapacity).Methods("GET")
	api.HandleFunc("/sessions/{id}/notifications", s.handleGetNotifications).Methods("GET")
	api.HandleFunc("/sessions/{id}/analytics", s.handleGetAnalytics).Methods("GET")

	// Simulation control
	api.HandleFunc("/sessions/{id}/tick", s.handleAdvanceWeek).Methods("POST")
	api.HandleFunc("/sessions/{id}/pause", s.handleSetPaused).Methods("POST")
	api.HandleFunc("/sessions/{id}/speed", s.handleSetGameSpeed).Methods("POST")
	api.HandleFunc("/sessions/{id}/advance-year", s.handleForceAdvanceYear).Methods("POST")
	api.HandleFunc("/sessions/{id}/continue", s.handleContinuePlaying).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")

	// Design and production
	api.HandleFunc("/sessions/{id}/engines", s.handleDevelopEngine).Methods("POST")
	api.HandleFunc("/sessions/{id}/cars", s.handleDevelopCar).Methods("POST")
	api.HandleFunc("/sessions/{id}/cars/{carId}/production", s.handleStartProduction).Methods("POST")
	api.HandleFunc("/sessions/{id}/cars/{carId}/liquidate", s.handleLiquidateStock).Methods("POST")
	api.HandleFunc("/sessions/{id}/factory/upgrade", s.handleUpgradeFactory).Methods("POST")

	// Contracts and finance
	api.HandleFunc("/sessions/{id}/contracts/{contractId}/accept", s.handleAcceptContract).Methods("POST")
	api.HandleFunc("/sessions/{id}/contracts/{contractId}/reject", s.handleRejectContract).Methods("POST")
	api.HandleFunc("/sessions/{id}/loans", s.handleTakeLoan).Methods("POST")
	api.HandleFunc("/sessions/{id}/loans/{loanId}/repay", s.handleRepayLoan).Methods("POST")
	api.HandleFunc("/sessions/{id}/research", s.handleResearchTech).Methods("POST")

	// Racing
	api.HandleFunc("/sessions/{id}/racing/join", s.handleJoinRacing).Methods("POST")
	api.HandleFunc("/sessions/{id}/racing/budget", s.handleSetRacingBudget).Methods("POST")
	api.HandleFunc("/sessions/{id}/racing/engine", s.handleSelectRaceEngine).Methods("POST")
	api.HandleFunc("/sessions/{id}/racing/drivers/{driverId}/hire", s.handleHireDriver).Methods("POST")
	api.HandleFunc("/sessions/{id}/racing/drivers/{driverId}/fire", s.handleFireDriver).Methods("POST")

	// Tutorial
	api.HandleFunc("/sessions/{id}/tutorial", s.handleCompleteTutorialStep).Methods("POST")

	// Persistence
	api.HandleFunc("/sessions/{id}/save", s.handleSave).Methods("POST")
	api.HandleFunc("/sessions/{id}/export", s.handleExportSave).Methods("GET")
	api.HandleFunc("/sessions/{id}/import", s.handleImportSave).Methods("POST")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")

	// Health
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Static files (if needed)
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondCommandError maps service errors onto HTTP statuses: rule
// rejections are 422, missing sessions 404, anything else 500.
func respondCommandError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsRejection(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	configID := req.ConfigID
	if configID == "" && req.ConfigName != "" {
		configID = req.ConfigName
	}

	info, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else { // "accessed"
			ti, tj = sessions[i].LastAccessed, sessions[j].LastAccessed
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj) // desc
	})

	limit := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Read-only view handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetCapacity(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	usage, err := s.service.GetCapacity(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, usage)
}

func (s *Server) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	notes, err := s.service.GetNotifications(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":         len(notes),
		"notifications": notes,
	})
}

func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	history, err := s.service.GetAnalytics(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(history),
		"history": history,
	})
}

// Simulation control handlers

func (s *Server) handleAdvanceWeek(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.AdvanceWeek(r.Context(), sessionID)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastTick(sessionID, result.State, result.WeeklyProfit, result.NewNotifications)
	}

	fmt.Printf("[TICK] session=%s year=%d week=%d money=%d profit=%d\n",
		sessionID, result.State.Year, engine.WeekOfYear(result.State.Date),
		result.State.Money, result.WeeklyProfit)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSetPaused(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Paused bool `json:"paused"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.service.SetPaused(r.Context(), sessionID, req.Paused); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"paused": req.Paused})
}

func (s *Server) handleSetGameSpeed(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Speed int `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.service.SetGameSpeed(r.Context(), sessionID, req.Speed); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"speed": req.Speed})
}

func (s *Server) handleForceAdvanceYear(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.ForceAdvanceYear(r.Context(), sessionID); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

func (s *Server) handleContinuePlaying(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.ContinuePlaying(r.Context(), sessionID); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	if s.hub != nil {
		s.hub.BroadcastState(sessionID, state)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game reset successfully",
		"state":   state,
	})
}

// Design and production handlers

func (s *Server) handleDevelopEngine(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var design engine.EngineDesign
	if err := json.NewDecoder(r.Body).Decode(&design); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	spec, err := s.service.DevelopEngine(r.Context(), sessionID, design)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	s.broadcastState(r.Context(), sessionID)
	respondJSON(w, http.StatusCreated, spec)
}

func (s *Server) handleDevelopCar(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var design engine.CarDesign
	if err := json.NewDecoder(r.Body).Decode(&design); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	car, err := s.service.DevelopCar(r.Context(), sessionID, design)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	s.broadcastState(r.Context(), sessionID)
	respondJSON(w, http.StatusCreated, car)
}

func (s *Server) handleStartProduction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, carID := vars["id"], vars["carId"]

	var req struct {
		BatchSize int `json:"batch_size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.service.StartProduction(r.Context(), sessionID, carID, req.BatchSize); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

func (s *Server) handleLiquidateStock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, carID := vars["id"], vars["carId"]

	if err := s.service.LiquidateStock(r.Context(), sessionID, carID); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

func (s *Server) handleUpgradeFactory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.UpgradeFactory(r.Context(), sessionID); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

// Contract and finance handlers

func (s *Server) handleAcceptContract(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, contractID := vars["id"], vars["contractId"]

	if err := s.service.AcceptContract(r.Context(), sessionID, contractID); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

func (s *Server) handleRejectContract(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, contractID := vars["id"], vars["contractId"]

	if err := s.service.RejectContract(r.Context(), sessionID, contractID); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

func (s *Server) handleTakeLoan(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		OfferID string `json:"offer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.service.TakeLoan(r.Context(), sessionID, req.OfferID); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

func (s *Server) handleRepayLoan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, loanID := vars["id"], vars["loanId"]

	if err := s.service.RepayLoan(r.Context(), sessionID, loanID); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

func (s *Server) handleResearchTech(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		TechID string `json:"tech_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.service.ResearchTech(r.Context(), sessionID, req.TechID); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

// Racing handlers

func (s *Server) handleJoinRacing(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		CategoryID string `json:"category_id"`
		Confirmed  bool   `json:"confirmed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.service.JoinRacingCategory(r.Context(), sessionID, req.CategoryID, req.Confirmed); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

func (s *Server) handleSetRacingBudget(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Budget int64 `json:"budget"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.service.SetRacingBudget(r.Context(), sessionID, req.Budget); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

func (s *Server) handleSelectRaceEngine(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		EngineID string `json:"engine_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.SelectRaceEngine(r.Context(), sessionID, req.EngineID)
	if err != nil {
		if engine.IsRejection(err) && result != nil {
			// A failed homologation still carries the verdict.
			respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":        err.Error(),
				"homologation": result,
			})
			return
		}
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHireDriver(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, driverID := vars["id"], vars["driverId"]

	if err := s.service.HireDriver(r.Context(), sessionID, driverID); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

func (s *Server) handleFireDriver(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, driverID := vars["id"], vars["driverId"]

	if err := s.service.FireDriver(r.Context(), sessionID, driverID); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

// Tutorial handler

func (s *Server) handleCompleteTutorialStep(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Step int `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.service.CompleteTutorialStep(r.Context(), sessionID, req.Step); err != nil {
		respondCommandError(w, err)
		return
	}
	s.respondWithState(w, r, sessionID)
}

// Persistence handlers

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.Save(r.Context(), sessionID); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Session saved"})
}

func (s *Server) handleExportSave(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	payload, err := s.service.ExportSave(r.Context(), sessionID)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"save": payload})
}

func (s *Server) handleImportSave(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Save string `json:"save"`
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// Accept either a JSON envelope or a raw save payload.
	if err := json.Unmarshal(body, &req); err != nil || req.Save == "" {
		req.Save = string(body)
	}

	if err := s.service.ImportSave(r.Context(), sessionID, req.Save); err != nil {
		if errors.Is(err, session.ErrInvalidSave) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Save imported. It will apply on next load."})
}

// Configuration handler

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	// Verify session exists
	if _, err := s.service.GetSession(context.Background(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// respondWithState answers a successful command with the fresh snapshot and
// pushes it to attached WebSocket clients.
func (s *Server) respondWithState(w http.ResponseWriter, r *http.Request, sessionID string) {
	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.hub != nil {
		s.hub.BroadcastState(sessionID, state)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "OK",
		"state":   state,
	})
}

// broadcastState pushes the current snapshot to WebSocket clients without
// writing a response.
func (s *Server) broadcastState(ctx context.Context, sessionID string) {
	if s.hub == nil {
		return
	}
	state, err := s.service.GetGameState(ctx, sessionID)
	if err != nil {
		return
	}
	s.hub.BroadcastState(sessionID, state)
}
