package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

func CreateToken(db *sql.DB, userID int, ttl time.Duration) (*Token, error) {
	t := Token{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}
	_, err := db.Exec(`INSERT INTO tokens (id, user_id, expires_at) VALUES (?, ?, ?)`, t.ID, t.UserID, t.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func GetToken(db *sql.DB, id string) (*Token, error) {
	row := db.QueryRow(`SELECT id, user_id, created_at, expires_at FROM tokens WHERE id = ?`, id)
	var t Token
	err := row.Scan(&t.ID, &t.UserID, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// RevokeUserTokens deletes every token of the user, logging them out everywhere.
func RevokeUserTokens(db *sql.DB, userID int) error {
	_, err := db.Exec(`DELETE FROM tokens WHERE user_id = ?`, userID)
	return err
}
