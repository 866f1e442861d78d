package focus

import (
	"sync"
	"time"

	"github.com/sajda-app/sajda/internal/model"
)

// Manager owns one Machine per user and serializes all access to it, so
// each machine stays single-owner as far as its own logic is concerned.
type Manager struct {
	mu       sync.Mutex
	cfg      Config
	machines map[int]*Machine
	onChange func(userID int, session model.BlockingSession)
}

// NewManager builds a manager. onChange, if non-nil, observes every state
// transition of every user's machine (fed to the enforcement publisher).
func NewManager(cfg Config, onChange func(userID int, session model.BlockingSession)) *Manager {
	return &Manager{
		cfg:      cfg,
		machines: make(map[int]*Machine),
		onChange: onChange,
	}
}

func (mgr *Manager) machine(userID int) *Machine {
	m, ok := mgr.machines[userID]
	if !ok {
		var hook func(model.BlockingSession)
		if mgr.onChange != nil {
			hook = func(s model.BlockingSession) { mgr.onChange(userID, s) }
		}
		m = NewMachine(mgr.cfg, hook)
		mgr.machines[userID] = m
	}
	return m
}

// SetEnabled flips strict mode for the user.
func (mgr *Manager) SetEnabled(userID int, on bool) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.machine(userID).SetEnabled(on)
}

// Tick advances the user's machine.
func (mgr *Manager) Tick(userID int, now time.Time, today, tomorrow *model.DailySchedule, completed bool) model.FocusState {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	return mgr.machine(userID).Tick(now, today, tomorrow, completed)
}

// SubmitTranscript delivers a transcript to the user's machine.
func (mgr *Manager) SubmitTranscript(userID int, transcript string, now time.Time) (model.VoiceAttempt, error) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	return mgr.machine(userID).SubmitTranscript(transcript, now)
}

// Snapshot returns the user's state and a copy of the active session.
func (mgr *Manager) Snapshot(userID int) (model.FocusState, *model.BlockingSession) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	m := mgr.machine(userID)
	return m.State(), m.Session()
}

// Invalidate discards the user's active session after a settings change.
func (mgr *Manager) Invalidate(userID int) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.machine(userID).Invalidate()
}

// ClearBlocking drops the user's session. Privileged unlock path only.
func (mgr *Manager) ClearBlocking(userID int) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.machine(userID).ClearBlocking()
}
