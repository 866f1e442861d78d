// Package prayer computes daily prayer schedules from a location, a date and
// a calculation convention using the solar-position math in internal/astro.
package prayer

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sajda-app/sajda/internal/astro"
	"github.com/sajda-app/sajda/internal/model"
)

// DayFormat is the canonical wire format for calendar dates.
const DayFormat = "2006-01-02"

var (
	// ErrInvalidLocation means out-of-range coordinates; the caller must
	// prompt for a new location.
	ErrInvalidLocation = errors.New("invalid location")
	// ErrInvalidDate means the date string is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)

const sunriseSunsetAngle = 0.833

// Compute produces the DailySchedule for one calendar date. The six instants
// are guaranteed strictly increasing in the order Fajr, Sunrise, Dhuhr, Asr,
// Maghrib, Isha. When a depression angle is unreachable at the location's
// latitude the one-seventh-of-night rule substitutes for it and the schedule
// is flagged with FallbackUsed rather than failing.
func Compute(loc model.GeoLocation, day string, method model.CalculationMethod, asr model.AsrJuristicMethod) (*model.DailySchedule, error) {
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	date, err := time.Parse(DayFormat, day)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, day)
	}
	tz := time.UTC
	if loc.Timezone != "" {
		tz, err = time.LoadLocation(loc.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidLocation, loc.Timezone)
		}
	}

	year, month, dayOfMonth := date.Date()
	// Julian date near local solar noon so declination and the equation of
	// time are sampled mid-day at this longitude.
	jd := astro.JulianDate(year, int(month), dayOfMonth) + 0.5 - loc.Longitude/360

	decl := astro.Declination(jd)
	noonUTC := astro.SolarNoonUTC(jd, loc.Longitude)

	base := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
	dhuhr := base.Add(astro.HoursToDuration(noonUTC)).In(tz)

	fallback := false

	// Sunrise and sunset anchor the night-fraction fallback, so compute
	// them first. In polar day/night even these fail; an equinoctial
	// six-hour half-arc stands in so a schedule is still produced.
	riseH, err := astro.HourAngle(-sunriseSunsetAngle, loc.Latitude, decl)
	if err != nil {
		riseH = 6
		fallback = true
	}
	sunrise := dhuhr.Add(-astro.HoursToDuration(riseH))
	sunset := dhuhr.Add(astro.HoursToDuration(riseH))

	night := 24*time.Hour - sunset.Sub(sunrise)

	fajr, ok := angleBefore(dhuhr, method.FajrAngle, loc.Latitude, decl)
	if !ok {
		fajr = sunrise.Add(-night / 7)
		fallback = true
	}

	maghrib := sunset
	if method.MaghribAngle != sunriseSunsetAngle {
		maghrib, ok = angleAfter(dhuhr, method.MaghribAngle, loc.Latitude, decl)
		if !ok {
			maghrib = sunset
			fallback = true
		}
	}

	var isha time.Time
	if method.IshaMinutes > 0 {
		isha = maghrib.Add(time.Duration(method.IshaMinutes) * time.Minute)
	} else {
		isha, ok = angleAfter(dhuhr, method.IshaAngle, loc.Latitude, decl)
		if !ok || !isha.After(maghrib) {
			// night-fraction substitute, anchored on maghrib so the
			// order holds for conventions with a late maghrib angle
			isha = maghrib.Add(night / 7)
			fallback = true
		}
	}

	asrAlt := astro.AsrAltitude(asr.ShadowRatio(), loc.Latitude, decl)
	asrH, err := astro.HourAngle(asrAlt, loc.Latitude, decl)
	var asrTime time.Time
	if err != nil {
		asrTime = dhuhr.Add(sunset.Sub(dhuhr) / 2)
		fallback = true
	} else {
		asrTime = dhuhr.Add(astro.HoursToDuration(asrH))
	}

	sched := &model.DailySchedule{
		Date:      day,
		Location:  loc,
		Method:    method,
		AsrMethod: asr,
		Times: map[model.PrayerName]time.Time{
			model.Fajr:    fajr,
			model.Sunrise: sunrise,
			model.Dhuhr:   dhuhr,
			model.Asr:     asrTime,
			model.Maghrib: maghrib,
			model.Isha:    isha,
		},
		FallbackUsed: fallback,
	}

	if err := checkOrder(sched); err != nil {
		log.Error().Str("day", day).Float64("lat", loc.Latitude).Err(err).
			Msg("computed schedule violates chronological order")
		return nil, err
	}
	if fallback {
		log.Debug().Str("day", day).Float64("lat", loc.Latitude).
			Msg("high latitude fallback used")
	}
	return sched, nil
}

// angleBefore solves the morning time for a depression angle.
func angleBefore(dhuhr time.Time, angle, lat, decl float64) (time.Time, bool) {
	h, err := astro.HourAngle(-angle, lat, decl)
	if err != nil {
		return time.Time{}, false
	}
	return dhuhr.Add(-astro.HoursToDuration(h)), true
}

// angleAfter solves the symmetric evening time for a depression angle.
func angleAfter(dhuhr time.Time, angle, lat, decl float64) (time.Time, bool) {
	h, err := astro.HourAngle(-angle, lat, decl)
	if err != nil {
		return time.Time{}, false
	}
	return dhuhr.Add(astro.HoursToDuration(h)), true
}

func checkOrder(s *model.DailySchedule) error {
	for i := 1; i < len(model.PrayerNames); i++ {
		prev, cur := model.PrayerNames[i-1], model.PrayerNames[i]
		if !s.Times[prev].Before(s.Times[cur]) {
			return fmt.Errorf("schedule order violated: %s (%s) not before %s (%s)",
				prev, s.Times[prev], cur, s.Times[cur])
		}
	}
	return nil
}
