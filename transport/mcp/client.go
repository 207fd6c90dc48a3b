package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/motor-tycoon-game/game/engine"
	"github.com/wricardo/motor-tycoon-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Motor Tycoon",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Motor Tycoon - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Run a car company from 1970 onward. Design engines and cars, produce and
sell them, sign B2B engine contracts, manage loans and research, and field
a racing team. Reach $1B cash and 1000 prestige to win; fall below -$10M
and the company goes bankrupt.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions / list_configs
- game_state / capacity / notifications / analytics
- advance_week: simulate one week
- set_paused / set_speed / reset_game
- develop_engine / develop_car / start_production / liquidate_stock
- upgrade_factory / research_tech
- accept_contract / reject_contract / take_loan / repay_loan
- join_racing / set_racing_budget / select_race_engine
- hire_driver / fire_driver
- game_instructions: get the complete rules

Time only moves when advance_week is called (or the server scheduler runs
a session unpaused). Commands apply instantly between weeks.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	sessionProp := map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Balance preset to use (optional, e.g. standard, sandbox)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get a summary of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available balance presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	// Views
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the full company snapshot: money, date, engines, cars, contracts, loans, racing team",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "capacity",
		Description: "Get the factory load breakdown: used vs total production units per week",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp},
			Required:   []string{"session_id"},
		},
	}, c.handleCapacity)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "notifications",
		Description: "Get the recent notification log, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp},
			Required:   []string{"session_id"},
		},
	}, c.handleNotifications)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "analytics",
		Description: "Get the rolling monthly company history (money, sales, prestige)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp},
			Required:   []string{"session_id"},
		},
	}, c.handleAnalytics)

	// Simulation control
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "advance_week",
		Description: "Simulate one week: production, sales, contracts, racing, finances",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp},
			Required:   []string{"session_id"},
		},
	}, c.handleAdvanceWeek)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_paused",
		Description: "Pause or resume the server-side week scheduler for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"paused": map[string]interface{}{
					"type":        "boolean",
					"description": "true to pause, false to resume",
				},
			},
			Required: []string{"session_id", "paused"},
		},
	}, c.handleSetPaused)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_speed",
		Description: "Set the simulation speed (1 = normal, 2 = fast)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"speed": map[string]interface{}{
					"type":        "integer",
					"enum":        []int{1, 2},
					"description": "Tick speed",
				},
			},
			Required: []string{"session_id", "speed"},
		},
	}, c.handleSetSpeed)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Discard all progress and start over on the same preset",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	// Design and production
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "develop_engine",
		Description: "Design a new engine. Costs money up front; the finished spec joins your catalog.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"name":       map[string]interface{}{"type": "string", "description": "Engine name"},
				"layout": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"I3", "I4", "I6", "V6", "V8", "V10", "V12"},
					"description": "Cylinder layout",
				},
				"block": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"steel", "aluminum"},
					"description": "Block material (aluminum needs research)",
				},
				"fuel": map[string]interface{}{
					"type": "string",
					"enum": []string{"gasoline", "diesel", "flex"},
				},
				"valvetrain": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"OHV", "SOHC", "DOHC"},
					"description": "Valvetrain (DOHC needs research)",
				},
				"induction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"na", "turbo"},
					"description": "Induction (turbo needs research)",
				},
				"bore_mm":   map[string]interface{}{"type": "number", "description": "Cylinder bore in mm"},
				"stroke_mm": map[string]interface{}{"type": "number", "description": "Piston stroke in mm"},
				"quality":   map[string]interface{}{"type": "number", "description": "Build quality slider 0-100"},
			},
			Required: []string{"session_id", "name", "layout", "bore_mm", "stroke_mm"},
		},
	}, c.handleDevelopEngine)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "develop_car",
		Description: "Design a new car around an engine. Pass the full design as a JSON object in 'design'.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"design": map[string]interface{}{
					"type":        "object",
					"description": "Car design: name, category (Popular/Intermediate/Luxury/Supercar), engine_id, body_type_id, frame_type, frame_material, wheelbase_cm, engine_bay_size, drivetrain_id, suspension_id, tire_id, ride_height, cosmetics, features, interior_quality, suspension_stiffness, price",
				},
			},
			Required: []string{"session_id", "design"},
		},
	}, c.handleDevelopCar)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_production",
		Description: "Start a manufacturing batch for a developed car. Charges the full batch cost up front.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"car_id":     map[string]interface{}{"type": "string", "description": "Car model ID"},
				"batch_size": map[string]interface{}{"type": "integer", "description": "Units to build"},
			},
			Required: []string{"session_id", "car_id", "batch_size"},
		},
	}, c.handleStartProduction)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "liquidate_stock",
		Description: "Sell a car's entire inventory at half production cost",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"car_id":     map[string]interface{}{"type": "string", "description": "Car model ID"},
			},
			Required: []string{"session_id", "car_id"},
		},
	}, c.handleLiquidateStock)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "upgrade_factory",
		Description: "Buy the next factory tier for more weekly production capacity",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp},
			Required:   []string{"session_id"},
		},
	}, c.handleUpgradeFactory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "research_tech",
		Description: "Buy a technology with money and research points. Late research costs extra.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"tech_id":    map[string]interface{}{"type": "string", "description": "Technology ID"},
			},
			Required: []string{"session_id", "tech_id"},
		},
	}, c.handleResearchTech)

	// Contracts and finance
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "accept_contract",
		Description: "Accept a pending B2B engine supply offer. Requires free factory capacity.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id":  sessionProp,
				"contract_id": map[string]interface{}{"type": "string", "description": "Offer ID"},
			},
			Required: []string{"session_id", "contract_id"},
		},
	}, c.handleAcceptContract)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reject_contract",
		Description: "Decline a pending B2B offer",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id":  sessionProp,
				"contract_id": map[string]interface{}{"type": "string", "description": "Offer ID"},
			},
			Required: []string{"session_id", "contract_id"},
		},
	}, c.handleRejectContract)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "take_loan",
		Description: "Borrow against a loan tier. Interest accrues monthly on the principal.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"offer_id":   map[string]interface{}{"type": "string", "description": "Loan offer ID (loan_venture, loan_investment, loan_global)"},
			},
			Required: []string{"session_id", "offer_id"},
		},
	}, c.handleTakeLoan)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "repay_loan",
		Description: "Repay a loan in full (principal only; no partial payments)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"loan_id":    map[string]interface{}{"type": "string", "description": "Active loan ID"},
			},
			Required: []string{"session_id", "loan_id"},
		},
	}, c.handleRepayLoan)

	// Racing
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_racing",
		Description: "Enter a racing category. Switching categories resets race car development.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id":  sessionProp,
				"category_id": map[string]interface{}{"type": "string", "description": "Category ID (rc_amateur, rc_touring, rc_grand)"},
				"confirmed":   map[string]interface{}{"type": "boolean", "description": "Must be true when switching away from a current category"},
			},
			Required: []string{"session_id", "category_id"},
		},
	}, c.handleJoinRacing)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_racing_budget",
		Description: "Set the monthly racing development budget",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"budget":     map[string]interface{}{"type": "integer", "description": "Monthly budget in dollars"},
			},
			Required: []string{"session_id", "budget"},
		},
	}, c.handleSetRacingBudget)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_race_engine",
		Description: "Homologate one of your engines for the current racing category",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"engine_id":  map[string]interface{}{"type": "string", "description": "Engine spec ID"},
			},
			Required: []string{"session_id", "engine_id"},
		},
	}, c.handleSelectRaceEngine)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hire_driver",
		Description: "Sign a free agent to the racing team (max 2 drivers)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"driver_id":  map[string]interface{}{"type": "string", "description": "Free agent ID"},
			},
			Required: []string{"session_id", "driver_id"},
		},
	}, c.handleHireDriver)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "fire_driver",
		Description: "Terminate a driver's contract (severance applies)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"driver_id":  map[string]interface{}{"type": "string", "description": "Team driver ID"},
			},
			Required: []string{"session_id", "driver_id"},
		},
	}, c.handleFireDriver)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete game rules and strategy notes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// commandCall runs a POST command endpoint and formats the returned state.
func (c *Client) commandCall(path string, body interface{}) (*mcp.CallToolResult, error) {
	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall("POST", path, body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(response.State)), nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var info service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nYear: %d, Money: $%d\n",
		info.SessionID, info.ConfigName, info.Year, info.Money)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Year %d W%d, $%d, prestige %d)\n",
			s.SessionID, s.ConfigName, s.Year, s.Week, s.Money, s.Prestige)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var info service.SessionInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall("GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("- %s: %s\n", config.ConfigID, config.Description)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleCapacity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var usage engine.CapacityUsage
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/capacity", sessionID), nil, &usage); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Factory capacity: %.1f / %.1f PU per week (free: %.1f)\nCar production: %.1f PU\nB2B contracts: %.1f PU\n",
		usage.Used, usage.Capacity, usage.Free(), usage.Cars, usage.B2B)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleNotifications(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Count         int                   `json:"count"`
		Notifications []engine.Notification `json:"notifications"`
	}
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/notifications", sessionID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Notifications (%d, newest first):\n\n", response.Count)
	for _, n := range response.Notifications {
		fmt.Fprintf(&b, "[day %d] %s: %s\n", n.Day, strings.ToUpper(n.Severity), n.Text)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleAnalytics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Count   int                     `json:"count"`
		History []engine.AnalyticsEntry `json:"history"`
	}
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/analytics", sessionID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Company History (%d months):\n\n", response.Count)
	for _, e := range response.History {
		fmt.Fprintf(&b, "%s: $%d, %d cars sold, prestige %d", e.Label, e.Money, e.SalesVolume, e.Prestige)
		if e.Headline != "" {
			fmt.Fprintf(&b, " | %s", e.Headline)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleAdvanceWeek(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.TickResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/tick", sessionID), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Week advanced. Net profit: $%d\n", result.WeeklyProfit)
	if len(result.NewNotifications) > 0 {
		b.WriteString("\nThis week:\n")
		for _, n := range result.NewNotifications {
			fmt.Fprintf(&b, "- %s\n", n.Text)
		}
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.State))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleSetPaused(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	paused, _ := args["paused"].(bool)

	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/pause", sessionID),
		map[string]bool{"paused": paused}, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if paused {
		return mcp.NewToolResultText("Simulation paused"), nil
	}
	return mcp.NewToolResultText("Simulation resumed"), nil
}

func (c *Client) handleSetSpeed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	speed, _ := args["speed"].(float64)

	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/speed", sessionID),
		map[string]int{"speed": int(speed)}, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Game speed set to %d", int(speed))), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDevelopEngine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{
		"name":       args["name"],
		"layout":     args["layout"],
		"block":      args["block"],
		"fuel":       args["fuel"],
		"valvetrain": args["valvetrain"],
		"induction":  args["induction"],
		"bore_mm":    args["bore_mm"],
		"stroke_mm":  args["stroke_mm"],
		"quality":    args["quality"],
	}

	var spec engine.EngineSpec
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/engines", sessionID), body, &spec); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatEngineSpec(&spec)), nil
}

func (c *Client) handleDevelopCar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	design, _ := args["design"].(map[string]interface{})

	var car engine.CarModel
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/cars", sessionID), design, &car); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCarModel(&car)), nil
}

func (c *Client) handleStartProduction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	carID, _ := args["car_id"].(string)
	batch, _ := args["batch_size"].(float64)

	return c.commandCall(fmt.Sprintf("/api/sessions/%s/cars/%s/production", sessionID, carID),
		map[string]int{"batch_size": int(batch)})
}

func (c *Client) handleLiquidateStock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	carID, _ := args["car_id"].(string)

	return c.commandCall(fmt.Sprintf("/api/sessions/%s/cars/%s/liquidate", sessionID, carID), nil)
}

func (c *Client) handleUpgradeFactory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	return c.commandCall(fmt.Sprintf("/api/sessions/%s/factory/upgrade", sessionID), nil)
}

func (c *Client) handleResearchTech(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	techID, _ := args["tech_id"].(string)

	return c.commandCall(fmt.Sprintf("/api/sessions/%s/research", sessionID),
		map[string]string{"tech_id": techID})
}

func (c *Client) handleAcceptContract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	contractID, _ := args["contract_id"].(string)

	return c.commandCall(fmt.Sprintf("/api/sessions/%s/contracts/%s/accept", sessionID, contractID), nil)
}

func (c *Client) handleRejectContract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	contractID, _ := args["contract_id"].(string)

	return c.commandCall(fmt.Sprintf("/api/sessions/%s/contracts/%s/reject", sessionID, contractID), nil)
}

func (c *Client) handleTakeLoan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	offerID, _ := args["offer_id"].(string)

	return c.commandCall(fmt.Sprintf("/api/sessions/%s/loans", sessionID),
		map[string]string{"offer_id": offerID})
}

func (c *Client) handleRepayLoan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	loanID, _ := args["loan_id"].(string)

	return c.commandCall(fmt.Sprintf("/api/sessions/%s/loans/%s/repay", sessionID, loanID), nil)
}

func (c *Client) handleJoinRacing(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	categoryID, _ := args["category_id"].(string)
	confirmed, _ := args["confirmed"].(bool)

	return c.commandCall(fmt.Sprintf("/api/sessions/%s/racing/join", sessionID),
		map[string]interface{}{"category_id": categoryID, "confirmed": confirmed})
}

func (c *Client) handleSetRacingBudget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	budget, _ := args["budget"].(float64)

	return c.commandCall(fmt.Sprintf("/api/sessions/%s/racing/budget", sessionID),
		map[string]int64{"budget": int64(budget)})
}

func (c *Client) handleSelectRaceEngine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	engineID, _ := args["engine_id"].(string)

	var verdict engine.HomologationResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/racing/engine", sessionID),
		map[string]string{"engine_id": engineID}, &verdict); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Homologation: %s\n%s\n", verdict.Status, verdict.Message)
	if verdict.Status == engine.HomologationRestricted {
		result += fmt.Sprintf("Effective power capped at %.0f hp\n", verdict.EffectiveHP)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleHireDriver(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	driverID, _ := args["driver_id"].(string)

	return c.commandCall(fmt.Sprintf("/api/sessions/%s/racing/drivers/%s/hire", sessionID, driverID), nil)
}

func (c *Client) handleFireDriver(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	driverID, _ := args["driver_id"].(string)

	return c.commandCall(fmt.Sprintf("/api/sessions/%s/racing/drivers/%s/fire", sessionID, driverID), nil)
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Motor Tycoon - Complete Rules

OBJECTIVE:
Grow a car company from $5M in 1970 to $1B cash with 1000 brand prestige.
Dropping below -$10M means bankruptcy and the end of the run.

TIME:
One tick = one week (7 days). A month is 28 days, a year 365. Weekly
operating costs are charged every tick. Interest on loans accrues monthly.
Driver aging, contract renewals and free-agent refreshes happen at year
end.

ENGINES:
Design engines by picking a layout (I3 through V12), bore, stroke, block
material, fuel, valvetrain, induction and a quality slider. Displacement,
power, torque, redline, weight, reliability, efficiency and cost are all
derived from those choices. Aluminum blocks, turbocharging and DOHC need
research first. Development is paid up front; engines are reusable forever.

CARS:
A car pairs an engine with a body, frame, drivetrain, suspension, tires,
cosmetics, features and sliders for interior quality, stiffness and ride
height. The engine must physically fit the bay. Stats (acceleration, top
speed, handling, comfort, safety, adaptability, appeal) are derived, then
reviewers score the car against year-adjusted expectations for its market
category: Popular, Intermediate, Luxury or Supercar.

PRODUCTION AND SALES:
The factory has a weekly capacity in production units (PU). Cars and B2B
contracts compete for PU. Batches are paid up front and drip into
inventory weekly; the first finished unit releases the car and triggers
reviews. Weekly sales depend on the review score, price versus fair market
value (price above twice FMV sells nothing), brand prestige, category
volume ceilings and active world events.

CONTRACTS:
Client companies offer fixed-quantity engine supply deals. Accepting
reserves capacity; missing final delivery costs a penalty of 1.5x the
undelivered value.

FINANCE:
Three standing loan tiers gated by prestige, at most two loans per tier.
Interest is charged monthly on the full principal; repayment is all at
once. Research costs both money and research points, with a surcharge for
technologies older than the current era.

RACING:
Join one category at a time (Amateur Cup, Touring Championship, Grand
Series). Each category regulates displacement, layouts, turbo and power.
Hire up to two drivers, set a monthly budget to develop the race car, and
pick a homologated engine. Races run weekly: results feed prestige, and
crashes or mechanical failures are always possible. Drivers age, improve
and decline over the years.

EVENTS:
Market-wide events (booms, recessions, fuel crises, shortages) start at
random and temporarily change demand, production costs or interest rates.

TIPS:
- Keep enough cash for several weeks of fixed costs before big batches.
- Prestige compounds: reviews, races and research all feed it.
- Watch capacity before accepting contracts; breach penalties hurt.
- Liquidation recovers only half of production cost. Price carefully
  instead.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	status := "running"
	if info.IsPaused {
		status = "paused"
	}
	if info.EndGameState != "" {
		status = info.EndGameState
	}
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nYear %d, Week %d\nMoney: $%d | Prestige: %d\nStatus: %s\n",
		info.SessionID, info.ConfigName,
		info.CreatedAt.Format("2006-01-02 15:04:05"),
		info.Year, info.Week, info.Money, info.Prestige, status)
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Year %d, Week %d (day %d) | Money: $%d | RP: %d | Prestige: %d\n",
		state.Year, engine.WeekOfYear(state.Date), state.Date,
		state.Money, state.ResearchPoints, state.BrandPrestige)
	fmt.Fprintf(&b, "Factory level %d | Last weekly profit: $%d\n",
		state.Factory.Level, state.LastWeeklyProfit)

	if state.ActiveEvent != nil {
		fmt.Fprintf(&b, "Active event: %s - %s\n", state.ActiveEvent.Title, state.ActiveEvent.Description)
	}

	fmt.Fprintf(&b, "\nEngines (%d):\n", len(state.UnlockedEngines))
	for _, e := range state.UnlockedEngines {
		tag := ""
		if e.IsSupplier {
			tag = " [supplier]"
		}
		fmt.Fprintf(&b, "- %s: %s %dcc, %.0fhp @ %drpm%s (id %s)\n",
			e.Name, e.Layout, e.DisplacementCC, e.Horsepower, e.RedlineRPM, tag, e.ID)
	}

	fmt.Fprintf(&b, "\nCars (%d):\n", len(state.DevelopedCars))
	for _, car := range state.DevelopedCars {
		line := fmt.Sprintf("- %s [%s] $%d, score %d, inventory %d, sold %d",
			car.Design.Name, car.Design.Category, car.Design.Price,
			car.ReviewScore, car.Inventory, car.TotalSold)
		if car.Production != nil && car.Production.IsActive {
			line += fmt.Sprintf(", producing %d/%d", car.Production.UnitsProduced, car.Production.TotalBatch)
		}
		b.WriteString(line + fmt.Sprintf(" (id %s)\n", car.ID))
	}

	if len(state.ContractOffers) > 0 {
		fmt.Fprintf(&b, "\nContract offers (%d):\n", len(state.ContractOffers))
		for _, ct := range state.ContractOffers {
			fmt.Fprintf(&b, "- %s wants %d engines @ $%d over %d weeks (id %s)\n",
				ct.ClientName, ct.TotalQuantity, ct.UnitPrice, ct.DurationWeeks, ct.ID)
		}
	}
	if len(state.ActiveContracts) > 0 {
		fmt.Fprintf(&b, "\nActive contracts (%d):\n", len(state.ActiveContracts))
		for _, ct := range state.ActiveContracts {
			fmt.Fprintf(&b, "- %s: %d/%d delivered (id %s)\n",
				ct.ClientName, ct.Delivered, ct.TotalQuantity, ct.ID)
		}
	}

	if len(state.ActiveLoans) > 0 {
		fmt.Fprintf(&b, "\nLoans (%d):\n", len(state.ActiveLoans))
		for _, loan := range state.ActiveLoans {
			fmt.Fprintf(&b, "- %s: $%d at %.1f%% (id %s)\n",
				loan.Name, loan.Principal, loan.InterestRate*100, loan.ID)
		}
	}

	team := state.RacingTeam
	if team.CategoryID != "" {
		fmt.Fprintf(&b, "\nRacing: category %s, car perf %.1f, budget $%d/month, %d driver(s)\n",
			team.CategoryID, team.CarPerformance, team.MonthlyBudget, len(team.Drivers))
		if team.LastResult != nil {
			fmt.Fprintf(&b, "Last race: P%d, prize $%d\n", team.LastResult.BestPos, team.LastResult.Prize)
		}
	}

	switch state.EndGameState {
	case engine.EndGameVictory:
		b.WriteString("\nVICTORY! The company reached its goal.\n")
	case engine.EndGameDefeat:
		b.WriteString("\nBANKRUPT. The company is out of money.\n")
	}

	return b.String()
}

func formatEngineSpec(spec *engine.EngineSpec) string {
	return fmt.Sprintf(`Engine developed: %s (id %s)
Layout: %s %s %s %s
Displacement: %d cc
Power: %.0f hp @ %d rpm | Torque: %.0f Nm
Weight: %.0f kg | Reliability: %.0f | Efficiency: %.0f
Unit production cost: $%d
`,
		spec.Name, spec.ID,
		spec.Layout, spec.Block, spec.Valvetrain, spec.Induction,
		spec.DisplacementCC,
		spec.Horsepower, spec.RedlineRPM, spec.Torque,
		spec.WeightKG, spec.Reliability, spec.FuelEfficiency,
		spec.ProductionCost)
}

func formatCarModel(car *engine.CarModel) string {
	s := car.Stats
	return fmt.Sprintf(`Car developed: %s (id %s)
Category: %s | Price: $%d
Weight: %.0f kg | Unit cost: $%d
0-100: %.1fs | Top speed: %.0f km/h
Handling: %.0f | Comfort: %.0f | Safety: %.0f | Appeal: %.0f
Start production to build inventory; the first finished unit releases the car.
`,
		car.Design.Name, car.ID,
		car.Design.Category, car.Design.Price,
		s.WeightKG, s.ProductionCost,
		s.AccelSec, s.TopSpeedKPH,
		s.Handling, s.Comfort, s.Safety, s.MarketAppeal)
}
