package db

import (
	"github.com/rs/zerolog/log"

	"github.com/sajda-app/sajda/internal/model"
)

// upserts one (day, prayer) completion flag. Rows are created lazily on
// first toggle and never pruned.
func (s *pgStore) UpsertCompletion(userID int, day string, p model.PrayerName, completed bool) error {
	query := `
	INSERT INTO completion_records (user_id, day, prayer, completed, updated_at)
	VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (user_id, day, prayer) DO UPDATE SET
	       completed = EXCLUDED.completed,
	       updated_at = now();
	`
	if _, err := s.db.Exec(query, userID, day, string(p), completed); err != nil {
		log.Error().Err(err).Int("user_id", userID).Str("day", day).Str("prayer", string(p)).
			Msg("failed to upsert completion")
		return err
	}
	return nil
}

// fetches the completion flags for one day.
func (s *pgStore) CompletionsForDay(userID int, day string) (map[model.PrayerName]bool, error) {
	var rows []model.CompletionRecord
	query := `
	SELECT user_id, to_char(day, 'YYYY-MM-DD') AS day, prayer, completed, updated_at
	FROM completion_records
	WHERE user_id = $1 AND day = $2;
	`
	if err := s.db.Select(&rows, query, userID, day); err != nil {
		log.Error().Err(err).Int("user_id", userID).Str("day", day).
			Msg("failed to list completions for day")
		return nil, err
	}
	out := make(map[model.PrayerName]bool, len(rows))
	for _, r := range rows {
		out[r.Prayer] = r.Completed
	}
	return out, nil
}

// fetches the full completion history for streak derivation.
func (s *pgStore) CompletionHistory(userID int) ([]model.CompletionRecord, error) {
	var rows []model.CompletionRecord
	query := `
	SELECT user_id, to_char(day, 'YYYY-MM-DD') AS day, prayer, completed, updated_at
	FROM completion_records
	WHERE user_id = $1
	ORDER BY day;
	`
	if err := s.db.Select(&rows, query, userID); err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("failed to load completion history")
		return nil, err
	}
	return rows, nil
}
