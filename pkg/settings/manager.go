package settings

import (
	"database/sql"
	"log"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const DbName = "./rally-bot.db"

// TelegramUser is a chat that asked to be told when the rally leader changes.
type TelegramUser struct {
	ID     int64
	Name   string
	ChatID int64
}

func symbolStatus(enabled bool) string {
	if enabled {
		return "🔔"
	}
	return "🔕"
}

// Status is the line shown to a user for their leader notification setting.
func Status(enabled bool) string {
	if enabled {
		return symbolStatus(true) + " Avisos de nuevo líder activados"
	}
	return symbolStatus(false) + " Avisos de nuevo líder desactivados"
}

type Manager struct {
	db *sql.DB
	mu sync.Mutex
}

func NewManager(path string) (*Manager, error) {
	if path == "" {
		path = DbName
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		log.Printf("error opening database: %s\n", err)
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	_, err = db.Exec(buildCreateSubscriptionsTable())
	if err != nil {
		log.Printf("error init database: %s\n", err)
		db.Close()
		return nil, errors.Wrap(err, "creating subscriptions table")
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.Close()
}

// ToggleLeaderNotification flips the subscription of user and returns the new state.
func (m *Manager) ToggleLeaderNotification(user TelegramUser) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	enabled, err := m.isSubscribed(user.ID)
	if err != nil {
		return false, err
	}

	enabled = !enabled
	stmt, args := buildUpsertUserCommand(user, enabled)
	if _, err := m.db.Exec(stmt, args...); err != nil {
		log.Printf("error updating database: %s\n", err)
		return false, errors.Wrapf(err, "updating subscription of %d", user.ID)
	}
	return enabled, nil
}

func (m *Manager) IsSubscribed(userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.isSubscribed(userID)
}

// ListUsersForLeaderChange returns every user with leader notifications enabled.
func (m *Manager) ListUsersForLeaderChange() ([]TelegramUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stmt, read := buildSelectSubscribedCommand()
	rows, err := m.db.Query(stmt)
	if err != nil {
		return []TelegramUser{}, errors.Wrap(err, "listing subscribers")
	}
	return read(rows)
}

func (m *Manager) isSubscribed(userID int64) (bool, error) {
	stmt, args, read := buildSelectUserCommand(userID)
	rows, err := m.db.Query(stmt, args...)
	if err != nil {
		return false, errors.Wrapf(err, "reading subscription of %d", userID)
	}
	return read(rows)
}
