package services

import (
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// ErrOperationInProgress is returned when the same operation is already loading for a session.
var ErrOperationInProgress = errors.New("operation already in progress")

// Operation names a user-triggered AI operation.
type Operation string

const (
	OpRebalancing     Operation = "rebalancing"
	OpValuation       Operation = "valuation"
	OpPortfolioUpdate Operation = "portfolioUpdate"
)

var trackedOperations = []Operation{OpRebalancing, OpValuation, OpPortfolioUpdate}

// OperationStatus is the tag of OperationState.
type OperationStatus string

const (
	StatusIdle    OperationStatus = "idle"
	StatusLoading OperationStatus = "loading"
	StatusSuccess OperationStatus = "success"
	StatusFailure OperationStatus = "failure"
)

// OperationState is one of idle, loading, success(payload) or failure(reason).
// Payload is set only on success and Reason only on failure.
type OperationState struct {
	Status    OperationStatus `json:"status"`
	Payload   any             `json:"payload,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt,omitempty"`
}

// OperationTracker keeps the state of each operation per session. States
// expire with the session TTL.
type OperationTracker struct {
	mu     sync.Mutex
	states *cache.Cache
	now    func() time.Time
}

func NewOperationTracker(ttl time.Duration) *OperationTracker {
	return &OperationTracker{
		states: cache.New(ttl, ttl),
		now:    time.Now,
	}
}

func trackerKey(sessionID string, op Operation) string {
	return sessionID + "|" + string(op)
}

// Begin moves op to loading. It fails when op is already loading.
func (t *OperationTracker) Begin(sessionID string, op Operation) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stateLocked(sessionID, op).Status == StatusLoading {
		return ErrOperationInProgress
	}
	t.states.SetDefault(trackerKey(sessionID, op), OperationState{Status: StatusLoading, UpdatedAt: t.now()})
	return nil
}

// Succeed moves op to success with payload.
func (t *OperationTracker) Succeed(sessionID string, op Operation, payload any) {
	t.set(sessionID, op, OperationState{Status: StatusSuccess, Payload: payload})
}

// Fail moves op to failure with a user-facing reason.
func (t *OperationTracker) Fail(sessionID string, op Operation, reason string) {
	t.set(sessionID, op, OperationState{Status: StatusFailure, Reason: reason})
}

// FailIfLoading moves op to failure only when it is still loading. Callers
// defer it right after Begin so a panic cannot leave op stuck.
func (t *OperationTracker) FailIfLoading(sessionID string, op Operation, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stateLocked(sessionID, op).Status != StatusLoading {
		return
	}
	t.states.SetDefault(trackerKey(sessionID, op), OperationState{Status: StatusFailure, Reason: reason, UpdatedAt: t.now()})
}

func (t *OperationTracker) set(sessionID string, op Operation, st OperationState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st.UpdatedAt = t.now()
	t.states.SetDefault(trackerKey(sessionID, op), st)
}

// State returns the current state of op; unknown operations are idle.
func (t *OperationTracker) State(sessionID string, op Operation) OperationState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked(sessionID, op)
}

func (t *OperationTracker) stateLocked(sessionID string, op Operation) OperationState {
	if v, ok := t.states.Get(trackerKey(sessionID, op)); ok {
		return v.(OperationState)
	}
	return OperationState{Status: StatusIdle}
}

// States returns the state of every tracked operation of a session.
func (t *OperationTracker) States(sessionID string) map[Operation]OperationState {
	out := make(map[Operation]OperationState, len(trackedOperations))
	for _, op := range trackedOperations {
		out[op] = t.State(sessionID, op)
	}
	return out
}

// Forget drops every state of a session.
func (t *OperationTracker) Forget(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, op := range trackedOperations {
		t.states.Delete(trackerKey(sessionID, op))
	}
}
