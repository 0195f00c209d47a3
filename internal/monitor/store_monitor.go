package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/axellelanca/happythoughts/internal/repository"
)

// StoreMonitor periodically checks that the thoughts store answers.
// It remembers the last observed state and logs every transition.
type StoreMonitor struct {
	thoughtRepo  repository.ThoughtRepository
	interval     time.Duration
	checkTimeout time.Duration

	mu         sync.Mutex
	checked    bool  // at least one check has completed
	accessible bool  // result of the last check
	lastCount  int64 // thought count seen by the last successful check
}

// NewStoreMonitor creates and returns a new instance of StoreMonitor.
// interval parameter determines how frequently the store will be checked.
func NewStoreMonitor(thoughtRepo repository.ThoughtRepository, interval time.Duration) *StoreMonitor {
	return &StoreMonitor{
		thoughtRepo:  thoughtRepo,
		interval:     interval,
		checkTimeout: 5 * time.Second,
	}
}

// Start launches the periodic monitoring loop and blocks until ctx is cancelled.
func (m *StoreMonitor) Start(ctx context.Context) {
	log.Printf("[MONITOR] Starting store monitor with interval of %v...", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Immediate check on startup before waiting for the first tick
	m.CheckStore(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("[MONITOR] Store monitor stopped.")
			return
		case <-ticker.C:
			m.CheckStore(ctx)
		}
	}
}

// CheckStore pings the store, refreshes the thought count and logs state changes.
// It returns the state observed by this check.
func (m *StoreMonitor) CheckStore(ctx context.Context) bool {
	checkCtx, cancel := context.WithTimeout(ctx, m.checkTimeout)
	defer cancel()

	currentState := true
	if err := m.thoughtRepo.Ping(checkCtx); err != nil {
		log.Printf("[MONITOR] Error reaching store: %v", err)
		currentState = false
	}

	var count int64
	if currentState {
		var err error
		count, err = m.thoughtRepo.CountThoughts(checkCtx)
		if err != nil {
			log.Printf("[MONITOR] Error counting thoughts: %v", err)
			currentState = false
		}
	}

	m.mu.Lock()
	previousState, seen := m.accessible, m.checked
	m.checked = true
	m.accessible = currentState
	if currentState {
		m.lastCount = count
	}
	m.mu.Unlock()

	if !seen {
		log.Printf("[MONITOR] Initial store state: %s (%d thoughts)", formatState(currentState), count)
		return currentState
	}
	if currentState != previousState {
		log.Printf("[NOTIFICATION] Store changed from %s to %s!", formatState(previousState), formatState(currentState))
	}
	return currentState
}

// Snapshot returns the last observed state and thought count.
// ok is false until the first check has completed.
func (m *StoreMonitor) Snapshot() (accessible bool, thoughts int64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessible, m.lastCount, m.checked
}

// formatState makes the state more readable in logs.
func formatState(accessible bool) string {
	if accessible {
		return "ACCESSIBLE"
	}
	return "INACCESSIBLE"
}
