package service

import (
	"time"

	"github.com/wricardo/motor-tycoon-game/game/engine"
)

// SessionInfo is the session summary returned to API clients.
type SessionInfo struct {
	SessionID    string    `json:"session_id"`
	ConfigName   string    `json:"config_name"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
	Year         int       `json:"year"`
	Week         int       `json:"week"`
	Money        int64     `json:"money"`
	Prestige     int       `json:"prestige"`
	EndGameState string    `json:"end_game_state,omitempty"`
	IsPaused     bool      `json:"is_paused"`
}

// TickResult reports one advanced week: the fresh snapshot plus the
// notifications the week produced, newest first.
type TickResult struct {
	State            *engine.GameState     `json:"state"`
	WeeklyProfit     int64                 `json:"weekly_profit"`
	NewNotifications []engine.Notification `json:"new_notifications"`
}

// ConfigInfo describes one available balance preset.
type ConfigInfo struct {
	ConfigID    string `json:"config_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
