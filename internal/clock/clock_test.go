package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajda-app/sajda/internal/model"
)

func daySchedule(day string, base time.Time) *model.DailySchedule {
	return &model.DailySchedule{
		Date: day,
		Times: map[model.PrayerName]time.Time{
			model.Fajr:    base.Add(5 * time.Hour),
			model.Sunrise: base.Add(6*time.Hour + 30*time.Minute),
			model.Dhuhr:   base.Add(12 * time.Hour),
			model.Asr:     base.Add(15*time.Hour + 30*time.Minute),
			model.Maghrib: base.Add(18 * time.Hour),
			model.Isha:    base.Add(19*time.Hour + 30*time.Minute),
		},
	}
}

func testDays() (*model.DailySchedule, *model.DailySchedule, time.Time) {
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	today := daySchedule("2025-08-01", base)
	tomorrow := daySchedule("2025-08-02", base.AddDate(0, 0, 1))
	return today, tomorrow, base
}

func TestBeforeFirstPrayer(t *testing.T) {
	today, tomorrow, base := testDays()

	state := Tick(today, tomorrow, base.Add(3*time.Hour), 20*time.Minute)
	assert.Nil(t, state.Current)
	assert.Equal(t, model.Fajr, state.Next)
	assert.Equal(t, BeforeFirstPrayer, state.Display)
	assert.Equal(t, 2*time.Hour, state.TimeUntilNext)
}

func TestWithinCurrentPrayerWindow(t *testing.T) {
	today, tomorrow, base := testDays()

	// ten minutes into dhuhr
	state := Tick(today, tomorrow, base.Add(12*time.Hour+10*time.Minute), 20*time.Minute)
	require.NotNil(t, state.Current)
	assert.Equal(t, model.Dhuhr, *state.Current)
	assert.Equal(t, model.Asr, state.Next)
	assert.Equal(t, WithinCurrentPrayerWindow, state.Display)
}

func TestBetweenPrayersAfterWindow(t *testing.T) {
	today, tomorrow, base := testDays()

	// an hour into dhuhr, past the 20-minute window
	state := Tick(today, tomorrow, base.Add(13*time.Hour), 20*time.Minute)
	require.NotNil(t, state.Current)
	assert.Equal(t, model.Dhuhr, *state.Current)
	assert.Equal(t, BetweenPrayers, state.Display)
}

func TestWindowEndIsInclusive(t *testing.T) {
	today, tomorrow, base := testDays()

	state := Tick(today, tomorrow, base.Add(12*time.Hour+20*time.Minute), 20*time.Minute)
	assert.Equal(t, WithinCurrentPrayerWindow, state.Display)
}

func TestSunriseIsCurrentButInformational(t *testing.T) {
	today, tomorrow, base := testDays()

	state := Tick(today, tomorrow, base.Add(7*time.Hour), 20*time.Minute)
	require.NotNil(t, state.Current)
	assert.Equal(t, model.Sunrise, *state.Current)
	assert.Equal(t, model.Dhuhr, state.Next)
}

func TestAfterIshaRollsToTomorrow(t *testing.T) {
	today, tomorrow, base := testDays()

	state := Tick(today, tomorrow, base.Add(22*time.Hour), 20*time.Minute)
	require.NotNil(t, state.Current)
	assert.Equal(t, model.Isha, *state.Current)
	assert.Equal(t, model.Fajr, state.Next)
	// tomorrow's fajr is at 05:00, seven hours away
	assert.Equal(t, 7*time.Hour, state.TimeUntilNext)
	assert.Equal(t, BetweenPrayers, state.Display)
}

func TestTickIsPure(t *testing.T) {
	today, tomorrow, base := testDays()
	now := base.Add(16 * time.Hour)

	first := Tick(today, tomorrow, now, 20*time.Minute)
	second := Tick(today, tomorrow, now, 20*time.Minute)
	assert.Equal(t, first, second)
}
