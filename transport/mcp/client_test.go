package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/motor-tycoon-game/game/engine"
	"github.com/wricardo/motor-tycoon-game/game/service"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	// Create a test server that returns a known response
	expectedResponse := map[string]interface{}{
		"session_id":  "test-session",
		"config_name": "standard",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	err := client.apiCall("GET", "/api", nil, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	// Check that we got the expected response
	if response["session_id"] != expectedResponse["session_id"] {
		t.Errorf("Expected session_id %v, got %v", expectedResponse["session_id"], response["session_id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_JSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "insufficient funds"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("POST", "/api/sessions/abc/factory/upgrade", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 422 response")
	}

	if err.Error() != "insufficient funds" {
		t.Errorf("Expected API error message to surface, got: %v", err)
	}
}

func TestClient_createSession(t *testing.T) {
	// Mock server that responds to session creation
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		resp := service.SessionInfo{
			SessionID:  "test-session-123",
			ConfigName: "standard",
			Year:       1970,
			Money:      5_000_000,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	// Test create session without config
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "create_session",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleCreateSession(ctx, request)
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	// Check that the result contains the session ID
	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	if !strings.Contains(resultStr.Text, "test-session-123") {
		t.Errorf("Expected session ID in result, got: %s", resultStr.Text)
	}
}

func TestClient_handleAdvanceWeek(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/abcd/tick" {
			t.Errorf("Expected POST /api/sessions/abcd/tick, got %s %s", r.Method, r.URL.Path)
		}

		resp := service.TickResult{
			State: &engine.GameState{
				Money:         5_085_000,
				Year:          1970,
				Date:          7,
				BrandPrestige: 10,
				GameSpeed:     1,
			},
			WeeklyProfit: 85_000,
			NewNotifications: []engine.Notification{
				{Text: "Weekly operating costs: $15000", Severity: engine.SeverityInfo, Day: 7},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "advance_week",
			Arguments: map[string]interface{}{"session_id": "abcd"},
		},
	}

	result, err := client.handleAdvanceWeek(context.Background(), request)
	if err != nil {
		t.Fatalf("handleAdvanceWeek failed: %v", err)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(text.Text, "Net profit: $85000") {
		t.Errorf("Expected profit in result, got: %s", text.Text)
	}
	if !strings.Contains(text.Text, "Weekly operating costs") {
		t.Errorf("Expected notification in result, got: %s", text.Text)
	}
}

func TestClient_handleSelectRaceEngine_Restricted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := engine.HomologationResult{
			Status:      engine.HomologationRestricted,
			Message:     "Power exceeds the category limit; a restrictor will be fitted",
			EffectiveHP: 150,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "select_race_engine",
			Arguments: map[string]interface{}{"session_id": "abcd", "engine_id": "eng-1"},
		},
	}

	result, err := client.handleSelectRaceEngine(context.Background(), request)
	if err != nil {
		t.Fatalf("handleSelectRaceEngine failed: %v", err)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(text.Text, "RESTRICTED") {
		t.Errorf("Expected RESTRICTED verdict, got: %s", text.Text)
	}
	if !strings.Contains(text.Text, "150 hp") {
		t.Errorf("Expected effective power cap, got: %s", text.Text)
	}
}

func TestFormatGameState(t *testing.T) {
	gameState := &engine.GameState{
		Money:          4_750_000,
		ResearchPoints: 180,
		Date:           21,
		Year:           1970,
		BrandPrestige:  12,
		Factory:        engine.FactoryState{Level: 1},
		UnlockedEngines: []engine.EngineSpec{
			{ID: "eng-1", Name: "Vesta 2.0", Layout: engine.LayoutI4, DisplacementCC: 1998, Horsepower: 95, RedlineRPM: 5600},
		},
		DevelopedCars: []engine.CarModel{
			{
				ID:          "car-1",
				Design:      engine.CarDesign{Name: "Vesta Sedan", Category: engine.CategoryPopular, Price: 12_000},
				ReviewScore: 68,
				Inventory:   40,
				TotalSold:   12,
			},
		},
	}

	result := formatGameState(gameState)

	expectedFields := []string{
		"Year 1970",
		"Money: $4750000",
		"Prestige: 12",
		"Vesta 2.0",
		"1998cc",
		"Vesta Sedan",
		"score 68",
		"inventory 40",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatGameState_Victory(t *testing.T) {
	gameState := &engine.GameState{
		Money:        1_000_000_001,
		Year:         1998,
		EndGameState: engine.EndGameVictory,
	}

	result := formatGameState(gameState)

	if !strings.Contains(result, "VICTORY") {
		t.Errorf("Expected VICTORY in result, got: %s", result)
	}
}

func TestFormatGameState_Defeat(t *testing.T) {
	gameState := &engine.GameState{
		Money:        -10_000_001,
		Year:         1974,
		EndGameState: engine.EndGameDefeat,
	}

	result := formatGameState(gameState)

	if !strings.Contains(result, "BANKRUPT") {
		t.Errorf("Expected BANKRUPT in result, got: %s", result)
	}
}

func TestFormatGameState_Nil(t *testing.T) {
	result := formatGameState(nil)
	if !strings.Contains(result, "No game state") {
		t.Errorf("Expected nil-state message, got: %s", result)
	}
}

func TestFormatEngineSpec(t *testing.T) {
	spec := &engine.EngineSpec{
		ID:             "eng-1",
		Name:           "Falcon V8",
		Layout:         engine.LayoutV8,
		Block:          engine.MaterialAluminum,
		Valvetrain:     engine.ValvetrainDOHC,
		Induction:      engine.InductionTurbo,
		DisplacementCC: 4998,
		Horsepower:     420,
		Torque:         540,
		RedlineRPM:     6800,
		WeightKG:       210,
		Reliability:    72,
		FuelEfficiency: 35,
		ProductionCost: 9_500,
	}

	result := formatEngineSpec(spec)

	expectedFields := []string{
		"Falcon V8",
		"4998 cc",
		"420 hp @ 6800 rpm",
		"540 Nm",
		"$9500",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "game_instructions",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleGameInstructions(ctx, request)
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	// Check that the result contains game instructions
	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	expectedContent := []string{
		"Motor Tycoon - Complete Rules",
		"OBJECTIVE:",
		"TIME:",
		"ENGINES:",
		"CARS:",
		"PRODUCTION AND SALES:",
		"CONTRACTS:",
		"FINANCE:",
		"RACING:",
		"EVENTS:",
		"TIPS:",
	}

	for _, content := range expectedContent {
		if !strings.Contains(resultStr.Text, content) {
			t.Errorf("Expected '%s' in instructions, got: %s", content, resultStr.Text)
		}
	}
}

func TestClient_Integration(t *testing.T) {
	// Integration test that verifies the client can be created and initialized without errors
	client := NewClient("http://localhost:8080")

	if client == nil {
		t.Fatal("Failed to create client")
	}

	// Test that the MCP server has been properly configured with tools
	if client.mcpServer == nil {
		t.Fatal("MCP server not initialized")
	}

	if client.baseURL == "" {
		t.Error("Base URL not set")
	}

	if client.httpClient == nil {
		t.Error("HTTP client not initialized")
	}
}
