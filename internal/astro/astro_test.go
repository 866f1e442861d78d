package astro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJulianDateEpoch(t *testing.T) {
	// J2000.0 reference: 2000-01-01 00:00 UT
	assert.InDelta(t, 2451544.5, JulianDate(2000, 1, 1), 1e-9)
}

func TestJulianDateMonthRollover(t *testing.T) {
	// one day apart across a month boundary
	jan31 := JulianDate(2025, 1, 31)
	feb1 := JulianDate(2025, 2, 1)
	assert.InDelta(t, 1.0, feb1-jan31, 1e-9)
}

func TestDeclinationStaysWithinObliquity(t *testing.T) {
	for day := 0; day < 366; day++ {
		jd := JulianDate(2025, 1, 1) + float64(day)
		decl := Declination(jd)
		assert.LessOrEqual(t, math.Abs(decl), 23.45, "day %d", day)
	}
}

func TestDeclinationSolstices(t *testing.T) {
	assert.InDelta(t, 23.44, Declination(JulianDate(2025, 6, 21)), 0.1)
	assert.InDelta(t, -23.44, Declination(JulianDate(2025, 12, 21)), 0.1)
}

func TestEquationOfTimeBounds(t *testing.T) {
	// the analemma never exceeds about 17 minutes
	for day := 0; day < 366; day++ {
		jd := JulianDate(2025, 1, 1) + float64(day)
		_, eqt := SunPosition(jd)
		assert.LessOrEqual(t, math.Abs(eqt), 17.0/60, "day %d", day)
	}
}

func TestHourAngleEquatorSunset(t *testing.T) {
	// at the equator on an equinox the sun sets almost exactly six hours
	// after noon
	h, err := HourAngle(-0.833, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 6.06, h, 0.02)
}

func TestHourAngleUnreachable(t *testing.T) {
	// deep twilight never happens in midsummer at 70N
	_, err := HourAngle(-18, 70, 20)
	assert.ErrorIs(t, err, ErrSunNeverReaches)
}

func TestAsrAltitudeShadowRatios(t *testing.T) {
	std := AsrAltitude(1, 21.4225, 10)
	hanafi := AsrAltitude(2, 21.4225, 10)
	// a longer shadow means a lower sun
	assert.Less(t, hanafi, std)
	assert.Greater(t, std, 0.0)
}

func TestHoursToDurationRounding(t *testing.T) {
	assert.Equal(t, "1h30m0s", HoursToDuration(1.5).String())
	assert.Equal(t, "-45m0s", HoursToDuration(-0.75).String())
}
