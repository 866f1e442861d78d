package focus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajda-app/sajda/internal/model"
)

func focusDays() (*model.DailySchedule, *model.DailySchedule, time.Time) {
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	mk := func(day string, b time.Time) *model.DailySchedule {
		return &model.DailySchedule{
			Date: day,
			Times: map[model.PrayerName]time.Time{
				model.Fajr:    b.Add(5 * time.Hour),
				model.Sunrise: b.Add(6*time.Hour + 30*time.Minute),
				model.Dhuhr:   b.Add(12 * time.Hour),
				model.Asr:     b.Add(15*time.Hour + 30*time.Minute),
				model.Maghrib: b.Add(18 * time.Hour),
				model.Isha:    b.Add(19*time.Hour + 30*time.Minute),
			},
		}
	}
	return mk("2025-08-01", base), mk("2025-08-02", base.AddDate(0, 0, 1)), base
}

func newTestMachine(transitions *[]model.FocusState) *Machine {
	m := NewMachine(DefaultConfig(), func(s model.BlockingSession) {
		if transitions != nil {
			*transitions = append(*transitions, s.State)
		}
	})
	m.SetEnabled(true)
	return m
}

func TestFullUnlockWalk(t *testing.T) {
	var transitions []model.FocusState
	m := newTestMachine(&transitions)
	today, tomorrow, base := focusDays()

	// before the window
	assert.Equal(t, model.FocusIdle, m.Tick(base.Add(11*time.Hour), today, tomorrow, false))

	// window start arms and immediately blocks
	state := m.Tick(today.At(model.Dhuhr), today, tomorrow, false)
	assert.Equal(t, model.FocusBlocking, state)

	// early transcript is rejected, state unchanged
	_, err := m.SubmitTranscript("I have prayed", today.At(model.Dhuhr).Add(5*time.Minute))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Equal(t, model.FocusBlocking, m.State())

	// window end switches to waiting confirmation
	state = m.Tick(today.At(model.Dhuhr).Add(25*time.Minute), today, tomorrow, false)
	assert.Equal(t, model.FocusWaitingConfirmation, state)

	// non-matching transcript is recorded but does not unlock
	attempt, err := m.SubmitTranscript("hello there", today.At(model.Dhuhr).Add(26*time.Minute))
	require.NoError(t, err)
	assert.False(t, attempt.Matched)
	assert.Equal(t, model.FocusWaitingConfirmation, m.State())
	require.NotNil(t, m.Session())
	assert.Len(t, m.Session().Attempts, 1)

	// matching transcript unlocks and discards the session
	attempt, err = m.SubmitTranscript("ok, I have prayed.", today.At(model.Dhuhr).Add(27*time.Minute))
	require.NoError(t, err)
	assert.True(t, attempt.Matched)
	assert.Equal(t, model.FocusIdle, m.State())
	assert.Nil(t, m.Session())

	assert.Equal(t, []model.FocusState{
		model.FocusArmed,
		model.FocusBlocking,
		model.FocusWaitingConfirmation,
		model.FocusUnlocked,
	}, transitions)
}

func TestUnlockedPrayerDoesNotRearm(t *testing.T) {
	m := newTestMachine(nil)
	today, tomorrow, _ := focusDays()

	m.Tick(today.At(model.Dhuhr).Add(21*time.Minute), today, tomorrow, false)
	_, err := m.SubmitTranscript("I have prayed", today.At(model.Dhuhr).Add(22*time.Minute))
	require.NoError(t, err)

	// still inside dhuhr's span; no new session appears
	state := m.Tick(today.At(model.Dhuhr).Add(30*time.Minute), today, tomorrow, false)
	assert.Equal(t, model.FocusIdle, state)

	// the next prayer arms normally
	state = m.Tick(today.At(model.Asr).Add(time.Minute), today, tomorrow, false)
	assert.Equal(t, model.FocusBlocking, state)
}

func TestWindowEndBoundaryAcceptsTranscript(t *testing.T) {
	m := newTestMachine(nil)
	today, tomorrow, _ := focusDays()

	m.Tick(today.At(model.Dhuhr), today, tomorrow, false)
	end := today.At(model.Dhuhr).Add(DefaultWindowDuration)

	// exactly at window end, even before any tick promoted the state
	attempt, err := m.SubmitTranscript("I have prayed", end)
	require.NoError(t, err)
	assert.True(t, attempt.Matched)
	assert.Equal(t, model.FocusIdle, m.State())
}

func TestDisabledSuppressesArming(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)
	today, tomorrow, _ := focusDays()

	state := m.Tick(today.At(model.Dhuhr).Add(time.Minute), today, tomorrow, false)
	assert.Equal(t, model.FocusDisabled, state)

	_, err := m.SubmitTranscript("I have prayed", today.At(model.Dhuhr).Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestDisableMidWindowDiscardsSession(t *testing.T) {
	m := newTestMachine(nil)
	today, tomorrow, _ := focusDays()

	m.Tick(today.At(model.Asr).Add(time.Minute), today, tomorrow, false)
	require.NotNil(t, m.Session())

	m.SetEnabled(false)
	assert.Nil(t, m.Session())
	assert.Equal(t, model.FocusDisabled, m.State())
}

func TestSunriseNeverArms(t *testing.T) {
	m := newTestMachine(nil)
	today, tomorrow, _ := focusDays()

	state := m.Tick(today.At(model.Sunrise).Add(time.Minute), today, tomorrow, false)
	assert.Equal(t, model.FocusIdle, state)
}

func TestFajrSessionSurvivesSunrise(t *testing.T) {
	m := newTestMachine(nil)
	today, tomorrow, _ := focusDays()

	// fajr window passed without confirmation
	m.Tick(today.At(model.Fajr).Add(time.Minute), today, tomorrow, false)
	state := m.Tick(today.At(model.Sunrise).Add(10*time.Minute), today, tomorrow, false)
	assert.Equal(t, model.FocusWaitingConfirmation, state)
	require.NotNil(t, m.Session())
	assert.Equal(t, model.Fajr, m.Session().Prayer)
}

func TestInvalidateDiscardsInProgressAttempts(t *testing.T) {
	m := newTestMachine(nil)
	today, tomorrow, _ := focusDays()

	m.Tick(today.At(model.Maghrib).Add(25*time.Minute), today, tomorrow, false)
	_, err := m.SubmitTranscript("not the phrase", today.At(model.Maghrib).Add(26*time.Minute))
	require.NoError(t, err)

	m.Invalidate()
	assert.Nil(t, m.Session())

	// a fresh session is derived from the schedule on the next tick
	state := m.Tick(today.At(model.Maghrib).Add(27*time.Minute), today, tomorrow, false)
	assert.Equal(t, model.FocusWaitingConfirmation, state)
	require.NotNil(t, m.Session())
	assert.Empty(t, m.Session().Attempts)
}

func TestCompletedPrayerDoesNotArm(t *testing.T) {
	m := newTestMachine(nil)
	today, tomorrow, _ := focusDays()

	state := m.Tick(today.At(model.Isha).Add(time.Minute), today, tomorrow, true)
	assert.Equal(t, model.FocusIdle, state)
}

func TestActivePrayerSelection(t *testing.T) {
	today, tomorrow, base := focusDays()

	cases := []struct {
		name string
		now  time.Time
		want model.PrayerName
	}{
		{"before fajr", base.Add(4 * time.Hour), ""},
		{"fajr span", today.At(model.Fajr).Add(time.Minute), model.Fajr},
		{"sunrise span", today.At(model.Sunrise).Add(time.Minute), ""},
		{"dhuhr span", today.At(model.Dhuhr).Add(2 * time.Hour), model.Dhuhr},
		{"after isha", today.At(model.Isha).Add(3 * time.Hour), model.Isha},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ActivePrayer(tc.now, today, tomorrow))
		})
	}
}

func TestWindowClampedToNextPrayer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowDuration = 4 * time.Hour
	m := NewMachine(cfg, nil)
	m.SetEnabled(true)
	today, tomorrow, _ := focusDays()

	m.Tick(today.At(model.Fajr).Add(time.Minute), today, tomorrow, false)
	require.NotNil(t, m.Session())
	// fajr + 4h would pass sunrise; the window ends at sunrise instead
	assert.Equal(t, today.At(model.Sunrise), m.Session().WindowEnd)
}

func TestUntilNextPrayerPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy = WindowPolicyUntilNextPrayer
	m := NewMachine(cfg, nil)
	m.SetEnabled(true)
	today, tomorrow, _ := focusDays()

	m.Tick(today.At(model.Dhuhr).Add(time.Minute), today, tomorrow, false)
	require.NotNil(t, m.Session())
	assert.Equal(t, today.At(model.Asr), m.Session().WindowEnd)
}

func TestManagerIsolatesUsers(t *testing.T) {
	mgr := NewManager(DefaultConfig(), nil)
	today, tomorrow, _ := focusDays()

	mgr.SetEnabled(1, true)
	mgr.Tick(1, today.At(model.Dhuhr).Add(time.Minute), today, tomorrow, false)

	stateOne, sessionOne := mgr.Snapshot(1)
	assert.Equal(t, model.FocusBlocking, stateOne)
	require.NotNil(t, sessionOne)

	stateTwo, sessionTwo := mgr.Snapshot(2)
	assert.Equal(t, model.FocusDisabled, stateTwo)
	assert.Nil(t, sessionTwo)
}
