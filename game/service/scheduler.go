package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/wricardo/motor-tycoon-game/game/engine"
)

// Tick intervals per game speed.
const (
	NormalTickInterval = 2000 * time.Millisecond
	FastTickInterval   = 500 * time.Millisecond
)

// TickFunc receives the result of each scheduler-driven tick.
type TickFunc func(sessionID string, result *TickResult)

// Scheduler drives the weekly tick for running sessions. One goroutine per
// session; ticks are issued only from here, and AdvanceWeek serializes under
// the service lock, so a tick can never overlap another tick or a command.
// The pause flag is consulted before a tick starts, never mid-tick.
type Scheduler struct {
	svc    GameService
	onTick TickFunc

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler over the given service. onTick may be nil.
func NewScheduler(svc GameService, onTick TickFunc) *Scheduler {
	return &Scheduler{
		svc:     svc,
		onTick:  onTick,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Start begins ticking a session. Starting an already-running session is a
// no-op.
func (s *Scheduler) Start(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.cancels[sessionID]; running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancels[sessionID] = cancel
	s.wg.Add(1)
	go s.run(ctx, sessionID)
}

// Stop halts ticking for a session.
func (s *Scheduler) Stop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, running := s.cancels[sessionID]; running {
		cancel()
		delete(s.cancels, sessionID)
	}
}

// StopAll halts every session loop and waits for them to finish.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	for id, cancel := range s.cancels {
		cancel()
		delete(s.cancels, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// run is the per-session tick loop.
func (s *Scheduler) run(ctx context.Context, sessionID string) {
	defer s.wg.Done()

	timer := time.NewTimer(NormalTickInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		state, err := s.svc.GetGameState(ctx, sessionID)
		if err != nil {
			log.Printf("Scheduler: stopping session %s: %v", sessionID, err)
			s.Stop(sessionID)
			return
		}

		interval := NormalTickInterval
		if state.GameSpeed == 2 {
			interval = FastTickInterval
		}

		if state.IsPaused || state.EndGameState != engine.EndGameNone {
			timer.Reset(interval)
			continue
		}

		result, err := s.svc.AdvanceWeek(ctx, sessionID)
		if err != nil {
			log.Printf("Scheduler: tick failed for session %s: %v", sessionID, err)
		} else if s.onTick != nil {
			s.onTick(sessionID, result)
		}

		timer.Reset(interval)
	}
}
