package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wricardo/motor-tycoon-game/game/engine"
)

// schedulerServiceStub overrides only the methods the scheduler calls.
type schedulerServiceStub struct {
	GameService
	getState func(sessionID string) (*engine.GameState, error)
	advance  func(sessionID string) (*TickResult, error)
}

func (s *schedulerServiceStub) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	return s.getState(sessionID)
}

func (s *schedulerServiceStub) AdvanceWeek(ctx context.Context, sessionID string) (*TickResult, error) {
	return s.advance(sessionID)
}

func (s *Scheduler) running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cancels)
}

func TestScheduler_StartIsIdempotent(t *testing.T) {
	stub := &schedulerServiceStub{
		getState: func(string) (*engine.GameState, error) {
			return &engine.GameState{IsPaused: true, GameSpeed: 1}, nil
		},
	}
	sched := NewScheduler(stub, nil)
	defer sched.StopAll()

	sched.Start("ab12")
	sched.Start("ab12")
	if sched.running() != 1 {
		t.Errorf("loops = %d, want 1", sched.running())
	}

	sched.Stop("ab12")
	if sched.running() != 0 {
		t.Errorf("loops after stop = %d, want 0", sched.running())
	}
	// Stopping a stopped session is harmless.
	sched.Stop("ab12")
}

func TestScheduler_TicksRunningSession(t *testing.T) {
	var ticks int64
	stub := &schedulerServiceStub{
		getState: func(string) (*engine.GameState, error) {
			return &engine.GameState{GameSpeed: 2}, nil
		},
		advance: func(string) (*TickResult, error) {
			atomic.AddInt64(&ticks, 1)
			return &TickResult{State: &engine.GameState{}}, nil
		},
	}
	var delivered int64
	sched := NewScheduler(stub, func(sessionID string, result *TickResult) {
		atomic.AddInt64(&delivered, 1)
	})

	sched.Start("ab12")
	time.Sleep(NormalTickInterval + FastTickInterval + 200*time.Millisecond)
	sched.StopAll()

	if n := atomic.LoadInt64(&ticks); n < 1 {
		t.Errorf("ticks = %d, want at least 1", n)
	}
	if atomic.LoadInt64(&delivered) != atomic.LoadInt64(&ticks) {
		t.Errorf("delivered %d results for %d ticks", delivered, ticks)
	}
}

func TestScheduler_SkipsPausedAndEndedSessions(t *testing.T) {
	var ticks int64
	states := []*engine.GameState{
		{IsPaused: true, GameSpeed: 2},
		{EndGameState: engine.EndGameDefeat, GameSpeed: 2},
	}
	var polls int64
	stub := &schedulerServiceStub{
		getState: func(string) (*engine.GameState, error) {
			n := atomic.AddInt64(&polls, 1)
			return states[int(n)%len(states)], nil
		},
		advance: func(string) (*TickResult, error) {
			atomic.AddInt64(&ticks, 1)
			return &TickResult{State: &engine.GameState{}}, nil
		},
	}
	sched := NewScheduler(stub, nil)

	sched.Start("ab12")
	time.Sleep(NormalTickInterval + 2*FastTickInterval + 200*time.Millisecond)
	sched.StopAll()

	if atomic.LoadInt64(&polls) < 1 {
		t.Fatal("scheduler never polled the session")
	}
	if n := atomic.LoadInt64(&ticks); n != 0 {
		t.Errorf("ticks = %d, paused and ended sessions must not advance", n)
	}
}

func TestScheduler_StopsWhenSessionVanishes(t *testing.T) {
	stub := &schedulerServiceStub{
		getState: func(string) (*engine.GameState, error) {
			return nil, errors.New("session not found")
		},
	}
	sched := NewScheduler(stub, nil)

	sched.Start("ab12")
	time.Sleep(NormalTickInterval + 500*time.Millisecond)

	if sched.running() != 0 {
		t.Errorf("loops = %d, the loop should stop itself when the session is gone", sched.running())
	}
	sched.StopAll()
}
