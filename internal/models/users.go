package models

import (
	"database/sql"
	"strings"
)

const userColumns = `id, name, email, password_hash, profile_photo_path, is_admin, created_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	var photo sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &photo, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if photo.Valid {
		u.ProfilePhotoPath = &photo.String
	}
	return &u, nil
}

func CreateUser(db *sql.DB, name, email, passwordHash string, photoPath *string, isAdmin bool) (*User, error) {
	res, err := db.Exec(`INSERT INTO users (name, email, password_hash, profile_photo_path, is_admin) VALUES (?, ?, ?, ?, ?)`,
		name, email, passwordHash, photoPath, isAdmin)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetUser(db, int(id))
}

func GetUser(db *sql.DB, id int) (*User, error) {
	return scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func GetUserByEmail(db *sql.DB, email string) (*User, error) {
	return scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func ListUsers(db *sql.DB) ([]User, error) {
	rows, err := db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UserUpdate carries the fields of a partial user update; nil means untouched.
type UserUpdate struct {
	Name             *string
	Email            *string
	PasswordHash     *string
	ProfilePhotoPath *string
}

func UpdateUser(db *sql.DB, id int, upd UserUpdate) error {
	sets := []string{}
	args := []any{}
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *upd.PasswordHash)
	}
	if upd.ProfilePhotoPath != nil {
		sets = append(sets, "profile_photo_path = ?")
		args = append(args, *upd.ProfilePhotoPath)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := db.Exec(`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if isUniqueViolation(err, "users.email") {
		return ErrDuplicateEmail
	}
	return err
}

func DeleteUser(db *sql.DB, id int) error {
	res, err := db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
