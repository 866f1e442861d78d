// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/sajda-app/sajda/internal/model"
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// settings functions
	GetSettings(userID int) (model.UserSettings, error)
	SaveSettings(s model.UserSettings) error

	// completion functions
	UpsertCompletion(userID int, day string, p model.PrayerName, completed bool) error
	CompletionsForDay(userID int, day string) (map[model.PrayerName]bool, error)
	CompletionHistory(userID int) ([]model.CompletionRecord, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
// required so linter doesn't complain
var _ Store = (*pgStore)(nil)

func NewStore() Store {
	return &pgStore{db: DB}
}
