// Package focus implements the strict-mode blocking state machine and the
// voice phrase matcher that lifts a window. The machine is tick-driven: it
// owns no timers and is advanced by the caller with the current instant and
// the day's schedule.
package focus

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sajda-app/sajda/internal/model"
)

// ErrInvalidStateTransition is returned for unlock attempts outside the
// WaitingConfirmation state. Rejected at the boundary, logged, never fatal.
var ErrInvalidStateTransition = errors.New("invalid focus state transition")

// WindowPolicy names how a blocking window ends.
type WindowPolicy string

const (
	// WindowPolicyFixedDuration ends the window a fixed duration after the
	// prayer's instant, clamped to the next prayer.
	WindowPolicyFixedDuration WindowPolicy = "fixed_duration"
	// WindowPolicyUntilNextPrayer extends the window to the next prayer's
	// instant.
	WindowPolicyUntilNextPrayer WindowPolicy = "until_next_prayer"
)

// DefaultWindowDuration is the fixed-duration window length.
const DefaultWindowDuration = 20 * time.Minute

type Config struct {
	Policy         WindowPolicy
	WindowDuration time.Duration
	Phrase         string
}

func DefaultConfig() Config {
	return Config{
		Policy:         WindowPolicyFixedDuration,
		WindowDuration: DefaultWindowDuration,
		Phrase:         DefaultPhrase,
	}
}

// Machine is the per-user blocking state machine. It is not safe for
// concurrent use; the Manager serializes access.
type Machine struct {
	cfg     Config
	enabled bool
	session *model.BlockingSession

	// last lifted window, so an unlocked prayer does not re-arm on the
	// next tick while still inside its window
	doneDay    string
	donePrayer model.PrayerName

	onTransition func(model.BlockingSession)
}

// NewMachine builds a machine. onTransition, if non-nil, observes every
// committed state change (the enforcement export path).
func NewMachine(cfg Config, onTransition func(model.BlockingSession)) *Machine {
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = DefaultWindowDuration
	}
	if cfg.Phrase == "" {
		cfg.Phrase = DefaultPhrase
	}
	return &Machine{cfg: cfg, onTransition: onTransition}
}

// SetEnabled flips strict mode. Disabling discards any active session; all
// transitions into Armed are suppressed while disabled.
func (m *Machine) SetEnabled(on bool) {
	if !on {
		m.session = nil
	}
	m.enabled = on
}

// Enabled reports whether strict mode is on.
func (m *Machine) Enabled() bool { return m.enabled }

// State returns the machine's current position.
func (m *Machine) State() model.FocusState {
	if !m.enabled {
		return model.FocusDisabled
	}
	if m.session == nil {
		return model.FocusIdle
	}
	return m.session.State
}

// Session returns a copy of the active blocking session, if any.
func (m *Machine) Session() *model.BlockingSession {
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Invalidate discards the active session. Called when a settings change or
// schedule recomputation makes the window bounds stale; a fresh session is
// derived from the new schedule on the next tick. In-progress voice attempts
// are lost, which is the defined behavior.
func (m *Machine) Invalidate() {
	m.session = nil
}

// ClearBlocking drops the session unconditionally. Privileged: only the
// successful-unlock path invokes it.
func (m *Machine) ClearBlocking() {
	m.session = nil
}

// Tick advances the machine to now. today and tomorrow supply window
// boundaries; completed reports whether the currently active prayer is
// already marked complete (a completed prayer never arms a new window).
// Tick is idempotent for a fixed now.
func (m *Machine) Tick(now time.Time, today, tomorrow *model.DailySchedule, completed bool) model.FocusState {
	if !m.enabled {
		m.session = nil
		return model.FocusDisabled
	}

	prayerName, start, end := m.activeWindow(now, today, tomorrow)

	// session superseded by the next prayer's window, or left over from
	// another day
	if m.session != nil && (m.session.Prayer != prayerName || m.session.Day != today.Date) {
		m.session = nil
	}

	if m.session == nil {
		if prayerName == "" || completed || (m.doneDay == today.Date && m.donePrayer == prayerName) {
			return model.FocusIdle
		}
		m.session = &model.BlockingSession{
			Prayer:      prayerName,
			Day:         today.Date,
			WindowStart: start,
			WindowEnd:   end,
			State:       model.FocusArmed,
		}
		m.emit()
		// the window start is the blocking start; Armed exists only as a
		// committed transition
		m.session.State = model.FocusBlocking
		m.emit()
	}

	if m.session.State == model.FocusBlocking && !now.Before(m.session.WindowEnd) {
		m.session.State = model.FocusWaitingConfirmation
		m.emit()
	}

	return m.session.State
}

// SubmitTranscript feeds a delivered transcript to the machine. Only valid
// in WaitingConfirmation; the window-end instant itself is eligible. On a
// match the machine passes through Unlocked, discards the session and
// settles in Idle.
func (m *Machine) SubmitTranscript(transcript string, now time.Time) (model.VoiceAttempt, error) {
	if !m.enabled || m.session == nil {
		return model.VoiceAttempt{}, ErrInvalidStateTransition
	}
	// a transcript arriving exactly at window end is accepted even if no
	// tick has promoted the state yet
	if m.session.State == model.FocusBlocking && !now.Before(m.session.WindowEnd) {
		m.session.State = model.FocusWaitingConfirmation
		m.emit()
	}
	if m.session.State != model.FocusWaitingConfirmation {
		log.Warn().Str("state", string(m.session.State)).
			Msg("transcript rejected outside waiting_confirmation")
		return model.VoiceAttempt{}, ErrInvalidStateTransition
	}

	attempt := model.VoiceAttempt{
		Transcript: transcript,
		Matched:    MatchPhrase(transcript, m.cfg.Phrase),
		At:         now,
	}
	m.session.Attempts = append(m.session.Attempts, attempt)

	if attempt.Matched {
		m.session.State = model.FocusUnlocked
		m.emit()
		m.doneDay = m.session.Day
		m.donePrayer = m.session.Prayer
		m.ClearBlocking()
	}
	return attempt, nil
}

// currentSpan locates the schedule entry whose span covers now and the
// instant the span ends. The pre-Fajr span has no entry.
func currentSpan(now time.Time, today, tomorrow *model.DailySchedule) (model.PrayerName, time.Time) {
	if now.Before(today.At(model.Fajr)) {
		return "", time.Time{}
	}
	current := model.Isha
	nextAt := tomorrow.At(model.Fajr)
	for i, name := range model.PrayerNames {
		if now.Before(today.At(name)) {
			current = model.PrayerNames[i-1]
			nextAt = today.At(name)
			break
		}
	}
	return current, nextAt
}

// ActivePrayer returns the eligible prayer whose span covers now, or "" in
// the pre-Fajr and sunrise spans. Callers use it to look up the completion
// flag a tick needs before any session exists.
func ActivePrayer(now time.Time, today, tomorrow *model.DailySchedule) model.PrayerName {
	current, _ := currentSpan(now, today, tomorrow)
	if !current.Eligible() {
		return ""
	}
	return current
}

// activeWindow finds the eligible prayer whose window covers now, if any.
// Sunrise never opens a window; during the sunrise-to-dhuhr span the
// previous Fajr window may still be waiting on confirmation.
func (m *Machine) activeWindow(now time.Time, today, tomorrow *model.DailySchedule) (model.PrayerName, time.Time, time.Time) {
	current, nextAt := currentSpan(now, today, tomorrow)
	if current == "" {
		return "", time.Time{}, time.Time{}
	}
	if !current.Eligible() {
		// informational entry (Sunrise): the waiting Fajr session is kept
		// alive by the supersession check matching on prayer name
		if m.session != nil && m.session.Prayer == model.Fajr && m.session.Day == today.Date {
			return model.Fajr, m.session.WindowStart, m.session.WindowEnd
		}
		return "", time.Time{}, time.Time{}
	}

	start := today.At(current)
	end := nextAt
	if m.cfg.Policy == WindowPolicyFixedDuration {
		end = start.Add(m.cfg.WindowDuration)
		if end.After(nextAt) {
			end = nextAt
		}
	}
	return current, start, end
}

func (m *Machine) emit() {
	if m.onTransition == nil || m.session == nil {
		return
	}
	m.onTransition(*m.session)
}
