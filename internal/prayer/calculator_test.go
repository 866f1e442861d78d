package prayer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajda-app/sajda/internal/model"
)

var mecca = model.GeoLocation{
	Latitude:  21.4225,
	Longitude: 39.8262,
	Timezone:  "Asia/Riyadh",
	City:      "Mecca",
	Country:   "Saudi Arabia",
}

func mustMethod(t *testing.T, id string) model.CalculationMethod {
	t.Helper()
	m, err := model.MethodByID(id)
	require.NoError(t, err)
	return m
}

func TestMeccaDhuhrNearSolarNoon(t *testing.T) {
	sched, err := Compute(mecca, "2025-06-21", mustMethod(t, "makkah"), model.AsrStandard)
	require.NoError(t, err)
	assert.False(t, sched.FallbackUsed)

	tz, err := time.LoadLocation("Asia/Riyadh")
	require.NoError(t, err)

	// local solar noon in Mecca sits around 12:22 on the June solstice
	// (zone meridian 45E, longitude correction ~21 minutes)
	dhuhr := sched.At(model.Dhuhr).In(tz)
	earliest := time.Date(2025, 6, 21, 12, 17, 0, 0, tz)
	latest := time.Date(2025, 6, 21, 12, 27, 0, 0, tz)
	assert.True(t, dhuhr.After(earliest) && dhuhr.Before(latest),
		"dhuhr %s outside expected solar noon band", dhuhr)
}

func TestMakkahIshaFixedMinutes(t *testing.T) {
	sched, err := Compute(mecca, "2025-06-21", mustMethod(t, "makkah"), model.AsrStandard)
	require.NoError(t, err)

	// Umm al-Qura defines Isha as 90 minutes after Maghrib
	assert.Equal(t, 90*time.Minute, sched.At(model.Isha).Sub(sched.At(model.Maghrib)))
}

func TestOrderingAcrossLatitudesAndMethods(t *testing.T) {
	lats := []float64{-60, -45, -30, 0, 30, 45, 60}
	lons := []float64{-120, 0, 120}
	days := []string{"2025-03-20", "2025-06-21", "2025-12-21"}

	for _, m := range model.Methods() {
		for _, lat := range lats {
			for _, lon := range lons {
				for _, day := range days {
					name := fmt.Sprintf("%s/%v/%v/%s", m.ID, lat, lon, day)
					loc := model.GeoLocation{Latitude: lat, Longitude: lon}
					sched, err := Compute(loc, day, m, model.AsrStandard)
					require.NoError(t, err, name)

					entries := sched.Ordered()
					for i := 1; i < len(entries); i++ {
						assert.True(t, entries[i-1].Time.Before(entries[i].Time),
							"%s: %s not before %s", name, entries[i-1].Name, entries[i].Name)
					}
				}
			}
		}
	}
}

func TestHighLatitudeFallback(t *testing.T) {
	loc := model.GeoLocation{Latitude: 70, Longitude: 0}
	// mid-April at 70N: the sun rises and sets, but never dips 18 degrees
	// below the horizon
	sched, err := Compute(loc, "2025-04-15", mustMethod(t, "mwl"), model.AsrStandard)
	require.NoError(t, err)
	assert.True(t, sched.FallbackUsed)

	assert.True(t, sched.At(model.Fajr).Before(sched.At(model.Sunrise)))
	assert.True(t, sched.At(model.Isha).After(sched.At(model.Maghrib)))
}

func TestComputeIdempotent(t *testing.T) {
	first, err := Compute(mecca, "2025-02-03", mustMethod(t, "isna"), model.AsrHanafi)
	require.NoError(t, err)
	second, err := Compute(mecca, "2025-02-03", mustMethod(t, "isna"), model.AsrHanafi)
	require.NoError(t, err)

	for _, p := range model.PrayerNames {
		assert.True(t, first.At(p).Equal(second.At(p)), "%s differs between runs", p)
	}
}

func TestInvalidLocation(t *testing.T) {
	_, err := Compute(model.GeoLocation{Latitude: 95, Longitude: 0}, "2025-06-21", mustMethod(t, "mwl"), model.AsrStandard)
	assert.ErrorIs(t, err, ErrInvalidLocation)

	_, err = Compute(model.GeoLocation{Latitude: 0, Longitude: -181}, "2025-06-21", mustMethod(t, "mwl"), model.AsrStandard)
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestInvalidDate(t *testing.T) {
	_, err := Compute(mecca, "21-06-2025", mustMethod(t, "mwl"), model.AsrStandard)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestHanafiAsrIsLater(t *testing.T) {
	std, err := Compute(mecca, "2025-06-21", mustMethod(t, "mwl"), model.AsrStandard)
	require.NoError(t, err)
	hanafi, err := Compute(mecca, "2025-06-21", mustMethod(t, "mwl"), model.AsrHanafi)
	require.NoError(t, err)

	// the double-shadow rule always pushes Asr later in the afternoon
	assert.True(t, hanafi.At(model.Asr).After(std.At(model.Asr)))
}
