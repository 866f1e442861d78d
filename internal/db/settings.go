package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sajda-app/sajda/internal/model"
)

type settingsRow struct {
	UserID     int             `db:"user_id"`
	Latitude   sql.NullFloat64 `db:"latitude"`
	Longitude  sql.NullFloat64 `db:"longitude"`
	Timezone   sql.NullString  `db:"timezone"`
	City       sql.NullString  `db:"city"`
	Country    sql.NullString  `db:"country"`
	MethodID   string          `db:"method_id"`
	AsrMethod  string          `db:"asr_method"`
	StrictMode bool            `db:"strict_mode"`
	Reminders  []byte          `db:"reminders"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

// fetches the settings row for a user; a user with no row yet gets the
// defaults.
func (s *pgStore) GetSettings(userID int) (model.UserSettings, error) {
	var row settingsRow
	query := `
	SELECT user_id, latitude, longitude, timezone, city, country,
	       method_id, asr_method, strict_mode, reminders, updated_at
	FROM user_settings
	WHERE user_id = $1;
	`
	err := s.db.Get(&row, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultSettings(userID), nil
	}
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("failed to get settings")
		return model.UserSettings{}, err
	}

	out := model.UserSettings{
		UserID:     row.UserID,
		MethodID:   row.MethodID,
		AsrMethod:  model.AsrJuristicMethod(row.AsrMethod),
		StrictMode: row.StrictMode,
		Reminders:  make(map[model.PrayerName]bool),
		UpdatedAt:  row.UpdatedAt,
	}
	if row.Latitude.Valid && row.Longitude.Valid {
		out.Location = &model.GeoLocation{
			Latitude:  row.Latitude.Float64,
			Longitude: row.Longitude.Float64,
			Timezone:  row.Timezone.String,
			City:      row.City.String,
			Country:   row.Country.String,
		}
	}
	if len(row.Reminders) > 0 {
		if err := json.Unmarshal(row.Reminders, &out.Reminders); err != nil {
			log.Error().Err(err).Int("user_id", userID).Msg("failed to decode reminders")
		}
	}
	return out, nil
}

// upserts the full settings row.
func (s *pgStore) SaveSettings(settings model.UserSettings) error {
	reminders, err := json.Marshal(settings.Reminders)
	if err != nil {
		return err
	}

	var lat, lon sql.NullFloat64
	var tz, city, country sql.NullString
	if loc := settings.Location; loc != nil {
		lat = sql.NullFloat64{Float64: loc.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: loc.Longitude, Valid: true}
		tz = sql.NullString{String: loc.Timezone, Valid: true}
		city = sql.NullString{String: loc.City, Valid: true}
		country = sql.NullString{String: loc.Country, Valid: true}
	}

	query := `
	INSERT INTO user_settings
	       (user_id, latitude, longitude, timezone, city, country,
	        method_id, asr_method, strict_mode, reminders, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	ON CONFLICT (user_id) DO UPDATE SET
	       latitude = EXCLUDED.latitude,
	       longitude = EXCLUDED.longitude,
	       timezone = EXCLUDED.timezone,
	       city = EXCLUDED.city,
	       country = EXCLUDED.country,
	       method_id = EXCLUDED.method_id,
	       asr_method = EXCLUDED.asr_method,
	       strict_mode = EXCLUDED.strict_mode,
	       reminders = EXCLUDED.reminders,
	       updated_at = now();
	`
	if _, err := s.db.Exec(query,
		settings.UserID, lat, lon, tz, city, country,
		settings.MethodID, string(settings.AsrMethod), settings.StrictMode, reminders,
	); err != nil {
		log.Error().Err(err).Int("user_id", settings.UserID).Msg("failed to save settings")
		return err
	}
	return nil
}
