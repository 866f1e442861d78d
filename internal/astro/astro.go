// Package astro holds the pure solar-position math behind the prayer time
// calculator: Julian dates, solar declination, the equation of time, and the
// hour-angle inversion for a target sun altitude.
package astro

import (
	"errors"
	"math"
	"time"
)

// ErrSunNeverReaches is returned by HourAngle when the sun never reaches the
// requested altitude on the given day (high-latitude condition).
var ErrSunNeverReaches = errors.New("sun never reaches requested altitude")

const degToRad = math.Pi / 180

func sinDeg(d float64) float64 { return math.Sin(d * degToRad) }
func cosDeg(d float64) float64 { return math.Cos(d * degToRad) }
func tanDeg(d float64) float64 { return math.Tan(d * degToRad) }

func asinDeg(x float64) float64 { return math.Asin(x) / degToRad }
func acosDeg(x float64) float64 { return math.Acos(x) / degToRad }
func acotDeg(x float64) float64 { return math.Atan(1/x) / degToRad }

// JulianDate converts a calendar date to the Julian day number at 00:00 UT.
func JulianDate(year, month, day int) float64 {
	if month <= 2 {
		year--
		month += 12
	}
	a := math.Floor(float64(year) / 100)
	b := 2 - a + math.Floor(a/4)
	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		float64(day) + b - 1524.5
}

// SunPosition returns the solar declination in degrees and the equation of
// time in hours for the given Julian date. Low-precision series, good to
// well under a minute, which is ample for prayer times.
func SunPosition(jd float64) (declination, eqTime float64) {
	d := jd - 2451545.0

	g := normalizeDeg(357.529 + 0.98560028*d) // mean anomaly
	q := normalizeDeg(280.459 + 0.98564736*d) // mean longitude
	l := normalizeDeg(q + 1.915*sinDeg(g) + 0.020*sinDeg(2*g))

	e := 23.439 - 0.00000036*d // obliquity of the ecliptic

	ra := math.Atan2(cosDeg(e)*sinDeg(l), cosDeg(l)) / degToRad / 15
	ra = normalizeHours(ra)

	declination = asinDeg(sinDeg(e) * sinDeg(l))
	eqTime = q/15 - ra
	// keep the correction in the +/- 12h band
	if eqTime > 12 {
		eqTime -= 24
	} else if eqTime < -12 {
		eqTime += 24
	}
	return declination, eqTime
}

// HourAngle returns, in hours, the time offset from solar noon at which the
// sun stands at the given altitude (degrees; negative means below the
// horizon) for an observer at latitude lat with solar declination decl.
func HourAngle(altitude, lat, decl float64) (float64, error) {
	cosH := (sinDeg(altitude) - sinDeg(lat)*sinDeg(decl)) /
		(cosDeg(lat) * cosDeg(decl))
	if cosH < -1 || cosH > 1 {
		return 0, ErrSunNeverReaches
	}
	return acosDeg(cosH) / 15, nil
}

// AsrAltitude returns the sun altitude in degrees at which the shadow of an
// object equals shadowRatio times its length plus the noon shadow, for the
// given latitude and declination.
func AsrAltitude(shadowRatio, lat, decl float64) float64 {
	return acotDeg(shadowRatio + tanDeg(math.Abs(lat-decl)))
}

// SolarNoonUTC returns true solar noon as fractional UTC hours for the given
// Julian date and longitude.
func SolarNoonUTC(jd, longitude float64) float64 {
	_, eqt := SunPosition(jd)
	return 12 - longitude/15 - eqt
}

// Declination returns the solar declination for the Julian date.
func Declination(jd float64) float64 {
	decl, _ := SunPosition(jd)
	return decl
}

// HoursToDuration converts fractional hours into a time.Duration rounded to
// the nearest second so repeated computations stay bit-identical.
func HoursToDuration(h float64) time.Duration {
	return time.Duration(math.Round(h*3600)) * time.Second
}

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func normalizeHours(h float64) float64 {
	h = math.Mod(h, 24)
	if h < 0 {
		h += 24
	}
	return h
}
