package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/wricardo/motor-tycoon-game/game/engine"
	"github.com/wricardo/motor-tycoon-game/game/service"
)

func newTestSession(t *testing.T) *service.Session {
	t.Helper()
	eng, err := engine.NewEngine(engine.DefaultBalanceConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return &service.Session{
		ID:             "ab12",
		Engine:         eng,
		ConfigName:     "standard",
		CreatedAt:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		LastAccessedAt: time.Date(2024, 1, 2, 4, 0, 0, 0, time.UTC),
	}
}

func TestEncodeSave(t *testing.T) {
	session := newTestSession(t)
	session.Engine.GetState().Money = 1234567

	data, err := EncodeSave(session)
	if err != nil {
		t.Fatalf("EncodeSave: %v", err)
	}

	var doc SaveDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	if doc.Version != SaveVersion {
		t.Errorf("version = %q, want %q", doc.Version, SaveVersion)
	}
	if doc.ID != "ab12" {
		t.Errorf("id = %q, want ab12", doc.ID)
	}
	if doc.ConfigName != "standard" {
		t.Errorf("config_name = %q, want standard", doc.ConfigName)
	}
	if !doc.CreatedAt.Equal(session.CreatedAt) {
		t.Errorf("created_at = %v, want %v", doc.CreatedAt, session.CreatedAt)
	}

	state, err := DecodeGameState(doc.GameState)
	if err != nil {
		t.Fatalf("DecodeGameState: %v", err)
	}
	if state.Money != 1234567 {
		t.Errorf("money = %d, want 1234567", state.Money)
	}
}

func TestDecodeGameState_RoundTrip(t *testing.T) {
	session := newTestSession(t)
	orig := session.Engine.GetState()
	orig.Money = 42000
	orig.Date = 91
	orig.BrandPrestige = 77

	raw, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	state, err := DecodeGameState(raw)
	if err != nil {
		t.Fatalf("DecodeGameState: %v", err)
	}
	if state.Money != 42000 || state.Date != 91 || state.BrandPrestige != 77 {
		t.Errorf("round trip lost fields: money=%d date=%d prestige=%d",
			state.Money, state.Date, state.BrandPrestige)
	}
	if len(state.UnlockedEngines) != len(orig.UnlockedEngines) {
		t.Errorf("engines = %d, want %d", len(state.UnlockedEngines), len(orig.UnlockedEngines))
	}
}

func TestDecodeGameState_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not an object", `[1, 2, 3]`},
		{"missing money", `{"date": 0, "factory": {"level": 1}}`},
		{"non-numeric money", `{"money": "lots", "date": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeGameState(json.RawMessage(tt.raw))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidSave) {
				t.Errorf("error = %v, want ErrInvalidSave", err)
			}
		})
	}
}

func TestDecodeGameState_LegacyDebtBecomesLoan(t *testing.T) {
	raw := json.RawMessage(`{
		"money": 100000,
		"date": 140,
		"current_debt": 250000,
		"factory": {"level": 1}
	}`)

	state, err := DecodeGameState(raw)
	if err != nil {
		t.Fatalf("DecodeGameState: %v", err)
	}
	if len(state.ActiveLoans) != 1 {
		t.Fatalf("loans = %d, want 1", len(state.ActiveLoans))
	}
	loan := state.ActiveLoans[0]
	if loan.OfferID != "loan_legacy" {
		t.Errorf("offer id = %q, want loan_legacy", loan.OfferID)
	}
	if loan.Name != "Legacy Debt" {
		t.Errorf("name = %q, want Legacy Debt", loan.Name)
	}
	if loan.Principal != 250000 {
		t.Errorf("principal = %d, want 250000", loan.Principal)
	}
	if loan.InterestRate != 0.10 {
		t.Errorf("rate = %v, want 0.10", loan.InterestRate)
	}
	if loan.DateTaken != 140 {
		t.Errorf("date taken = %d, want 140", loan.DateTaken)
	}
	if loan.ID == "" {
		t.Error("loan got no id")
	}
}

func TestDecodeGameState_LegacyDebtSkippedWhenLoansExist(t *testing.T) {
	raw := json.RawMessage(`{
		"money": 100000,
		"date": 0,
		"current_debt": 250000,
		"active_loans": [{"id": "ln1", "offer_id": "loan_venture", "principal": 10000000, "interest_rate": 0.05}]
	}`)

	state, err := DecodeGameState(raw)
	if err != nil {
		t.Fatalf("DecodeGameState: %v", err)
	}
	if len(state.ActiveLoans) != 1 {
		t.Fatalf("loans = %d, want 1", len(state.ActiveLoans))
	}
	if state.ActiveLoans[0].OfferID != "loan_venture" {
		t.Errorf("offer id = %q, migration should not have added a loan", state.ActiveLoans[0].OfferID)
	}
}

func TestDecodeGameState_LegacySingleDriver(t *testing.T) {
	raw := json.RawMessage(`{
		"money": 100000,
		"date": 0,
		"racing_team": {
			"name": "Works Team",
			"driver": {"id": "drv1", "name": "Rui Costa", "age": 24, "stats": {"skill": 60, "talent": 80}}
		}
	}`)

	state, err := DecodeGameState(raw)
	if err != nil {
		t.Fatalf("DecodeGameState: %v", err)
	}
	if len(state.RacingTeam.Drivers) != 1 {
		t.Fatalf("drivers = %d, want 1", len(state.RacingTeam.Drivers))
	}
	if state.RacingTeam.Drivers[0].ID != "drv1" {
		t.Errorf("driver id = %q, want drv1", state.RacingTeam.Drivers[0].ID)
	}
	if state.RacingTeam.Drivers[0].Stats.Skill != 60 {
		t.Errorf("skill = %v, want 60", state.RacingTeam.Drivers[0].Stats.Skill)
	}
}

func TestDecodeGameState_MissingTutorialInferred(t *testing.T) {
	t.Run("no cars means active tutorial", func(t *testing.T) {
		raw := json.RawMessage(`{"money": 100000, "date": 0}`)
		state, err := DecodeGameState(raw)
		if err != nil {
			t.Fatalf("DecodeGameState: %v", err)
		}
		if !state.Tutorial.IsActive || state.Tutorial.IsCompleted {
			t.Errorf("tutorial = %+v, want active and not completed", state.Tutorial)
		}
	})

	t.Run("existing cars mean completed tutorial", func(t *testing.T) {
		raw := json.RawMessage(`{
			"money": 100000,
			"date": 0,
			"developed_cars": [{"id": "car1", "design": {"name": "Vanguard"}}]
		}`)
		state, err := DecodeGameState(raw)
		if err != nil {
			t.Fatalf("DecodeGameState: %v", err)
		}
		if state.Tutorial.IsActive || !state.Tutorial.IsCompleted {
			t.Errorf("tutorial = %+v, want completed and inactive", state.Tutorial)
		}
		if state.Tutorial.CurrentStep != 5 {
			t.Errorf("step = %d, want 5", state.Tutorial.CurrentStep)
		}
	})

	t.Run("present tutorial is kept", func(t *testing.T) {
		raw := json.RawMessage(`{
			"money": 100000,
			"date": 0,
			"tutorial": {"is_active": true, "current_step": 3}
		}`)
		state, err := DecodeGameState(raw)
		if err != nil {
			t.Fatalf("DecodeGameState: %v", err)
		}
		if state.Tutorial.CurrentStep != 3 {
			t.Errorf("step = %d, want 3", state.Tutorial.CurrentStep)
		}
	})
}

func TestDecodeGameState_Normalizes(t *testing.T) {
	raw := json.RawMessage(`{"money": 100000, "date": 800, "game_speed": 7}`)
	state, err := DecodeGameState(raw)
	if err != nil {
		t.Fatalf("DecodeGameState: %v", err)
	}
	if state.Year != 1972 {
		t.Errorf("year = %d, want 1972 derived from day 800", state.Year)
	}
	if state.GameSpeed != 1 {
		t.Errorf("speed = %d, want 1", state.GameSpeed)
	}

	raw = json.RawMessage(`{"money": 100000, "date": 0, "year": 1985, "game_speed": 2}`)
	state, err = DecodeGameState(raw)
	if err != nil {
		t.Fatalf("DecodeGameState: %v", err)
	}
	if state.Year != 1985 {
		t.Errorf("year = %d, explicit year should win", state.Year)
	}
	if state.GameSpeed != 2 {
		t.Errorf("speed = %d, want 2", state.GameSpeed)
	}
}

func TestDecodeGameState_BoundsLogs(t *testing.T) {
	var notifications []engine.Notification
	for i := 0; i < 25; i++ {
		notifications = append(notifications, engine.Notification{Text: fmt.Sprintf("note %d", i)})
	}
	var history []engine.AnalyticsEntry
	for i := 0; i < 70; i++ {
		history = append(history, engine.AnalyticsEntry{Label: fmt.Sprintf("month %d", i)})
	}
	payload := map[string]interface{}{
		"money":         100000,
		"date":          0,
		"notifications": notifications,
		"history_log":   history,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	state, err := DecodeGameState(raw)
	if err != nil {
		t.Fatalf("DecodeGameState: %v", err)
	}
	if len(state.Notifications) != engine.MaxNotifications {
		t.Errorf("notifications = %d, want %d", len(state.Notifications), engine.MaxNotifications)
	}
	if state.Notifications[0].Text != "note 0" {
		t.Errorf("notifications should keep the newest entries, got %q first", state.Notifications[0].Text)
	}
	if len(state.HistoryLog) != engine.MaxHistoryLog {
		t.Errorf("history = %d, want %d", len(state.HistoryLog), engine.MaxHistoryLog)
	}
	if state.HistoryLog[0].Label != "month 10" {
		t.Errorf("history should drop the oldest entries, got %q first", state.HistoryLog[0].Label)
	}
}

func TestParseImport_SaveDocument(t *testing.T) {
	session := newTestSession(t)
	data, err := EncodeSave(session)
	if err != nil {
		t.Fatalf("EncodeSave: %v", err)
	}

	doc, err := ParseImport(data)
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}
	if doc.Version != SaveVersion {
		t.Errorf("version = %q, want %q", doc.Version, SaveVersion)
	}
	if len(doc.GameState) == 0 {
		t.Fatal("game state missing from parsed document")
	}
}

func TestParseImport_StampsVersion(t *testing.T) {
	session := newTestSession(t)
	data, err := EncodeSave(session)
	if err != nil {
		t.Fatalf("EncodeSave: %v", err)
	}
	var doc SaveDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	doc.Version = "0.3"
	stale, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	parsed, err := ParseImport(stale)
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}
	if parsed.Version != SaveVersion {
		t.Errorf("version = %q, want %q", parsed.Version, SaveVersion)
	}
}

func TestParseImport_BareState(t *testing.T) {
	session := newTestSession(t)
	raw, err := json.Marshal(session.Engine.GetState())
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}

	doc, err := ParseImport(raw)
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}
	if doc.Version != SaveVersion {
		t.Errorf("version = %q, want %q", doc.Version, SaveVersion)
	}
	state, err := DecodeGameState(doc.GameState)
	if err != nil {
		t.Fatalf("DecodeGameState: %v", err)
	}
	if state.Money != session.Engine.GetState().Money {
		t.Errorf("money = %d, want %d", state.Money, session.Engine.GetState().Money)
	}
}

func TestParseImport_Base64Wrapped(t *testing.T) {
	session := newTestSession(t)
	raw, err := json.Marshal(session.Engine.GetState())
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	wrapped := []byte(base64.StdEncoding.EncodeToString(raw))

	doc, err := ParseImport(wrapped)
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}
	if len(doc.GameState) == 0 {
		t.Fatal("game state missing from parsed document")
	}
}

func TestParseImport_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"garbage", "definitely not a save"},
		{"base64 of garbage", base64.StdEncoding.EncodeToString([]byte("still not a save"))},
		{"missing money", `{"date": 0, "factory": {"level": 1}}`},
		{"non-numeric date", `{"money": 100, "date": "monday", "factory": {"level": 1}}`},
		{"missing factory", `{"money": 100, "date": 0}`},
		{"factory not an object", `{"money": 100, "date": 0, "factory": 3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseImport([]byte(tt.payload))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidSave) {
				t.Errorf("error = %v, want ErrInvalidSave", err)
			}
		})
	}
}
