package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/motor-tycoon-game/game/engine"
)

var errNoSuchSession = errors.New("session not found")

// MockSessionManager implements SessionManager over an in-memory map
type MockSessionManager struct {
	Sessions  map[string]*Session
	SaveCalls int
	Touches   int

	ImportFunc func(id string, payload []byte) error
	ExportFunc func(id string) ([]byte, error)
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{Sessions: make(map[string]*Session)}
}

func (m *MockSessionManager) Create(id string, config *engine.BalanceConfig, configName string) (*Session, error) {
	if id == "" {
		id = "ab12"
	}
	if _, exists := m.Sessions[id]; exists {
		return nil, errors.New("session already exists")
	}
	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}
	session := &Session{
		ID:             id,
		Engine:         eng,
		ConfigName:     configName,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.Sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*Session, error) {
	session, exists := m.Sessions[id]
	if !exists {
		return nil, errNoSuchSession
	}
	return session, nil
}

func (m *MockSessionManager) List() []*Session {
	sessions := make([]*Session, 0, len(m.Sessions))
	for _, session := range m.Sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.Sessions[id]; !exists {
		return errNoSuchSession
	}
	delete(m.Sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if _, exists := m.Sessions[id]; !exists {
		return errNoSuchSession
	}
	m.Touches++
	return nil
}

func (m *MockSessionManager) Save(id string) error {
	m.SaveCalls++
	return nil
}

func (m *MockSessionManager) ImportState(id string, payload []byte) error {
	if m.ImportFunc != nil {
		return m.ImportFunc(id, payload)
	}
	return nil
}

func (m *MockSessionManager) ExportState(id string) ([]byte, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(id)
	}
	return []byte("{}"), nil
}

func (m *MockSessionManager) Reset(id string) (*Session, error) {
	session, exists := m.Sessions[id]
	if !exists {
		return nil, errNoSuchSession
	}
	eng, err := engine.NewEngine(session.Engine.Config())
	if err != nil {
		return nil, err
	}
	session.Engine = eng
	return session, nil
}

// MockConfigManager implements ConfigManager for testing
type MockConfigManager struct {
	LoadConfigFunc  func(name string) (*engine.BalanceConfig, error)
	ListConfigsFunc func() ([]*ConfigInfo, error)
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.BalanceConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(name)
	}
	return engine.DefaultBalanceConfig(), nil
}

func (m *MockConfigManager) ListConfigs() ([]*ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc()
	}
	return []*ConfigInfo{{ConfigID: "standard", Name: "Standard"}}, nil
}

func (m *MockConfigManager) GetDefault() *engine.BalanceConfig {
	return engine.DefaultBalanceConfig()
}

// newTestService wires a service around one deterministic running session.
func newTestService(t *testing.T) (GameService, *MockSessionManager, *Session) {
	t.Helper()
	sessions := NewMockSessionManager()
	svc := NewGameService(sessions, &MockConfigManager{})

	cfg := engine.DefaultBalanceConfig()
	cfg.EventChance = 0
	eng, err := engine.NewEngineWithRand(cfg, &engine.SequenceRand{Values: []float64{0.9}})
	if err != nil {
		t.Fatalf("NewEngineWithRand: %v", err)
	}
	session := &Session{
		ID:             "ab12",
		Engine:         eng,
		ConfigName:     "standard",
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	sessions.Sessions["ab12"] = session
	return svc, sessions, session
}

func TestCreateSession_UsesDefaultConfig(t *testing.T) {
	sessions := NewMockSessionManager()
	svc := NewGameService(sessions, &MockConfigManager{})

	info, err := svc.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if info.ConfigName != "standard" {
		t.Errorf("config name = %q, want standard", info.ConfigName)
	}
	if info.Year != 1970 || info.Week != 1 {
		t.Errorf("calendar = year %d week %d, want 1970 week 1", info.Year, info.Week)
	}
	if info.Money != engine.DefaultBalanceConfig().InitialMoney {
		t.Errorf("money = %d, want %d", info.Money, engine.DefaultBalanceConfig().InitialMoney)
	}
	if info.EndGameState != "" || info.IsPaused {
		t.Errorf("fresh session should be running, got end=%q paused=%v", info.EndGameState, info.IsPaused)
	}
}

func TestCreateSession_UnknownConfigListsAvailable(t *testing.T) {
	sessions := NewMockSessionManager()
	configs := &MockConfigManager{
		LoadConfigFunc: func(name string) (*engine.BalanceConfig, error) {
			return nil, errors.New("no such preset")
		},
		ListConfigsFunc: func() ([]*ConfigInfo, error) {
			return []*ConfigInfo{{ConfigID: "standard"}, {ConfigID: "sandbox"}}, nil
		},
	}
	svc := NewGameService(sessions, configs)

	_, err := svc.CreateSession(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error for unknown config")
	}
	if !strings.Contains(err.Error(), "standard") || !strings.Contains(err.Error(), "sandbox") {
		t.Errorf("error should name the available configs, got: %v", err)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	svc := NewGameService(NewMockSessionManager(), &MockConfigManager{})
	if _, err := svc.GetSession(context.Background(), "nope"); !errors.Is(err, errNoSuchSession) {
		t.Errorf("error = %v, want the manager's not-found error unchanged", err)
	}
}

func TestListSessions(t *testing.T) {
	sessions := NewMockSessionManager()
	svc := NewGameService(sessions, &MockConfigManager{})
	if _, err := svc.CreateSession(context.Background(), ""); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	infos, err := svc.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("sessions = %d, want 1", len(infos))
	}
	if infos[0].SessionID != "ab12" {
		t.Errorf("session id = %q, want ab12", infos[0].SessionID)
	}
}

func TestAdvanceWeek(t *testing.T) {
	svc, sessions, session := newTestService(t)

	result, err := svc.AdvanceWeek(context.Background(), "ab12")
	if err != nil {
		t.Fatalf("AdvanceWeek: %v", err)
	}
	if result.State.Date != 7 {
		t.Errorf("date = %d, want 7", result.State.Date)
	}
	if result.WeeklyProfit != session.Engine.GetState().LastWeeklyProfit {
		t.Errorf("weekly profit = %d, want %d", result.WeeklyProfit, session.Engine.GetState().LastWeeklyProfit)
	}
	// A quiet first week produces no notifications beyond the welcome one.
	if len(result.NewNotifications) != 0 {
		t.Errorf("new notifications = %d, want 0", len(result.NewNotifications))
	}
	if sessions.SaveCalls != 1 {
		t.Errorf("saves = %d, want 1 after a tick", sessions.SaveCalls)
	}
}

func TestAdvanceWeek_ReportsFreshNotifications(t *testing.T) {
	svc, _, session := newTestService(t)
	state := session.Engine.GetState()
	// A full log must not mask the notifications the tick itself produces.
	for i := 0; i < engine.MaxNotifications; i++ {
		state.Notify("backlog", engine.SeverityInfo)
	}
	state.Money = session.Engine.Config().BankruptcyFloor - 1

	result, err := svc.AdvanceWeek(context.Background(), "ab12")
	if err != nil {
		t.Fatalf("AdvanceWeek: %v", err)
	}
	if len(result.NewNotifications) != 1 {
		t.Fatalf("new notifications = %d, want 1", len(result.NewNotifications))
	}
	if result.NewNotifications[0].Severity != engine.SeverityError {
		t.Errorf("severity = %q, want error", result.NewNotifications[0].Severity)
	}
	if result.State.EndGameState != engine.EndGameDefeat {
		t.Errorf("end state = %q, want defeat", result.State.EndGameState)
	}
}

func TestMutatingCommandsAutoSave(t *testing.T) {
	svc, sessions, session := newTestService(t)

	if err := svc.SetPaused(context.Background(), "ab12", true); err != nil {
		t.Fatalf("SetPaused: %v", err)
	}
	if !session.Engine.GetState().IsPaused {
		t.Error("session should be paused")
	}
	if sessions.SaveCalls != 1 {
		t.Errorf("saves = %d, want 1", sessions.SaveCalls)
	}

	if err := svc.SetGameSpeed(context.Background(), "ab12", 2); err != nil {
		t.Fatalf("SetGameSpeed: %v", err)
	}
	if sessions.SaveCalls != 2 {
		t.Errorf("saves = %d, want 2", sessions.SaveCalls)
	}
}

func TestRejectionsPropagateUnwrapped(t *testing.T) {
	svc, sessions, _ := newTestService(t)

	err := svc.StartProduction(context.Background(), "ab12", "car_ghost", 10)
	if err == nil {
		t.Fatal("expected a rejection")
	}
	if !engine.IsRejection(err) {
		t.Errorf("error %v should still be recognizable as a player-facing rejection", err)
	}
	if sessions.SaveCalls != 0 {
		t.Errorf("saves = %d, rejected commands must not persist", sessions.SaveCalls)
	}
}

func TestGetGameState_TouchesSession(t *testing.T) {
	svc, sessions, _ := newTestService(t)

	state, err := svc.GetGameState(context.Background(), "ab12")
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	if state.Money != engine.DefaultBalanceConfig().InitialMoney {
		t.Errorf("money = %d, want %d", state.Money, engine.DefaultBalanceConfig().InitialMoney)
	}
	if sessions.Touches != 1 {
		t.Errorf("touches = %d, want 1", sessions.Touches)
	}
	if sessions.SaveCalls != 0 {
		t.Errorf("saves = %d, reads must not persist", sessions.SaveCalls)
	}
}

func TestGetCapacity(t *testing.T) {
	svc, _, _ := newTestService(t)

	usage, err := svc.GetCapacity(context.Background(), "ab12")
	if err != nil {
		t.Fatalf("GetCapacity: %v", err)
	}
	if usage.Capacity != 500 {
		t.Errorf("capacity = %v, want 500 for a tier 1 factory", usage.Capacity)
	}
	if usage.Used != 0 {
		t.Errorf("used = %v, want 0 with nothing in production", usage.Used)
	}
}

func TestDevelopEngine(t *testing.T) {
	svc, sessions, session := newTestService(t)

	spec, err := svc.DevelopEngine(context.Background(), "ab12", engine.EngineDesign{
		Name:       "Meridian 2.0",
		Layout:     engine.LayoutI4,
		Block:      engine.MaterialSteel,
		Fuel:       engine.FuelGasoline,
		Valvetrain: engine.ValvetrainSOHC,
		Induction:  engine.InductionNA,
		BoreMM:     86,
		StrokeMM:   86,
		Quality:    50,
	})
	if err != nil {
		t.Fatalf("DevelopEngine: %v", err)
	}
	if spec.DisplacementCC != 1998 {
		t.Errorf("displacement = %d, want 1998", spec.DisplacementCC)
	}
	if _, ok := session.Engine.GetState().EngineByID(spec.ID); !ok {
		t.Error("developed engine missing from state")
	}
	if sessions.SaveCalls != 1 {
		t.Errorf("saves = %d, want 1", sessions.SaveCalls)
	}
}

func TestSelectRaceEngine_BannedVerdictSurvivesRejection(t *testing.T) {
	svc, _, session := newTestService(t)
	ctx := context.Background()

	if err := svc.JoinRacingCategory(ctx, "ab12", "rc_amateur", false); err != nil {
		t.Fatalf("JoinRacingCategory: %v", err)
	}
	state := session.Engine.GetState()
	state.UnlockedEngines = append(state.UnlockedEngines, engine.EngineSpec{
		ID:             "eng_goliath",
		Name:           "Goliath V8",
		Layout:         engine.LayoutV8,
		DisplacementCC: 5000,
		Horsepower:     400,
	})

	result, err := svc.SelectRaceEngine(ctx, "ab12", "eng_goliath")
	if err == nil {
		t.Fatal("expected a rejection for a banned engine")
	}
	if !engine.IsRejection(err) {
		t.Errorf("error %v should be a player-facing rejection", err)
	}
	if result == nil {
		t.Fatal("the scrutineering verdict should accompany the rejection")
	}
	if result.Status != engine.HomologationBanned {
		t.Errorf("status = %q, want %q", result.Status, engine.HomologationBanned)
	}
}

func TestReset(t *testing.T) {
	svc, sessions, session := newTestService(t)
	session.Engine.GetState().Money = 1

	state, err := svc.Reset(context.Background(), "ab12")
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if state.Money != engine.DefaultBalanceConfig().InitialMoney {
		t.Errorf("money = %d, want a fresh game", state.Money)
	}
	if sessions.SaveCalls != 1 {
		t.Errorf("saves = %d, want 1", sessions.SaveCalls)
	}
}

func TestExportAndImportSave(t *testing.T) {
	svc, sessions, _ := newTestService(t)
	ctx := context.Background()

	sessions.ExportFunc = func(id string) ([]byte, error) {
		if id != "ab12" {
			t.Errorf("export id = %q, want ab12", id)
		}
		return []byte(`{"version": "1.0"}`), nil
	}
	data, err := svc.ExportSave(ctx, "ab12")
	if err != nil {
		t.Fatalf("ExportSave: %v", err)
	}
	if data != `{"version": "1.0"}` {
		t.Errorf("export = %s", data)
	}

	var imported []byte
	sessions.ImportFunc = func(id string, payload []byte) error {
		imported = payload
		return nil
	}
	if err := svc.ImportSave(ctx, "ab12", `{"money": 1}`); err != nil {
		t.Fatalf("ImportSave: %v", err)
	}
	if string(imported) != `{"money": 1}` {
		t.Errorf("imported payload = %s", imported)
	}
}

func TestListConfigs(t *testing.T) {
	svc := NewGameService(NewMockSessionManager(), &MockConfigManager{
		ListConfigsFunc: func() ([]*ConfigInfo, error) {
			return []*ConfigInfo{{ConfigID: "standard"}, {ConfigID: "sandbox"}}, nil
		},
	})

	infos, err := svc.ListConfigs(context.Background())
	if err != nil {
		t.Fatalf("ListConfigs: %v", err)
	}
	if len(infos) != 2 {
		t.Errorf("configs = %d, want 2", len(infos))
	}
}
