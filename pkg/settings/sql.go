package settings

import (
	"database/sql"
)

func buildCreateSubscriptionsTable() string {
	return `CREATE TABLE IF NOT EXISTS subscriptions (
		userid INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		chatid INTEGER NOT NULL,
		leader INTEGER NOT NULL DEFAULT 0);`
}

func buildSelectUserCommand(userID int64) (string, []any, func(*sql.Rows) (bool, error)) {
	return `SELECT leader FROM subscriptions WHERE userid = ?`, []any{userID}, processSelectUserRows
}

func processSelectUserRows(rows *sql.Rows) (bool, error) {
	defer rows.Close()

	// only can be one row
	if rows.Next() {
		var leader int
		if err := rows.Scan(&leader); err != nil {
			return false, err
		}
		return leader == 1, nil
	}
	return false, rows.Err()
}

func buildSelectSubscribedCommand() (string, func(rows *sql.Rows) ([]TelegramUser, error)) {
	return `SELECT userid, name, chatid FROM subscriptions WHERE leader = 1 ORDER BY userid`, processSelectSubscribedRows
}

func processSelectSubscribedRows(rows *sql.Rows) ([]TelegramUser, error) {
	defer rows.Close()

	users := make([]TelegramUser, 0)
	for rows.Next() {
		var u TelegramUser
		if err := rows.Scan(&u.ID, &u.Name, &u.ChatID); err != nil {
			return users, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func buildUpsertUserCommand(user TelegramUser, enabled bool) (string, []any) {
	leader := 0
	if enabled {
		leader = 1
	}
	return `INSERT OR REPLACE INTO subscriptions (userid, name, chatid, leader) VALUES (?, ?, ?, ?)`,
		[]any{user.ID, user.Name, user.ChatID, leader}
}
