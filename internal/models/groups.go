package models

import (
	"database/sql"
	"strings"
)

const groupColumns = `g.id, g.name, g.description, g.is_public, g.access_key, g.created_by, g.created_at,
	(SELECT COUNT(*) FROM group_members gm WHERE gm.group_id = g.id)`

func scanGroup(row interface{ Scan(...any) error }) (*Group, error) {
	var g Group
	var desc, key sql.NullString
	err := row.Scan(&g.ID, &g.Name, &desc, &g.IsPublic, &key, &g.CreatedBy, &g.CreatedAt, &g.MembersCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if desc.Valid {
		g.Description = &desc.String
	}
	if key.Valid {
		g.AccessKey = &key.String
	}
	return &g, nil
}

func collectGroups(rows *sql.Rows) ([]Group, error) {
	defer rows.Close()
	groups := []Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

// ListGroups returns every group when all is true, otherwise only public ones.
func ListGroups(db *sql.DB, all bool) ([]Group, error) {
	q := `SELECT ` + groupColumns + ` FROM groups g`
	if !all {
		q += ` WHERE g.is_public = 1`
	}
	rows, err := db.Query(q + ` ORDER BY g.id`)
	if err != nil {
		return nil, err
	}
	return collectGroups(rows)
}

// ListGroupsForUser returns the groups the user is a member of.
func ListGroupsForUser(db *sql.DB, userID int, privateOnly bool) ([]Group, error) {
	q := `SELECT ` + groupColumns + ` FROM groups g
		JOIN group_members m ON m.group_id = g.id WHERE m.user_id = ?`
	if privateOnly {
		q += ` AND g.is_public = 0`
	}
	rows, err := db.Query(q+` ORDER BY g.id`, userID)
	if err != nil {
		return nil, err
	}
	return collectGroups(rows)
}

func GetGroup(db *sql.DB, id int) (*Group, error) {
	g, err := scanGroup(db.QueryRow(`SELECT `+groupColumns+` FROM groups g WHERE g.id = ?`, id))
	if err != nil {
		return nil, err
	}
	if creator, err := GetUser(db, g.CreatedBy); err == nil {
		g.Creator = creator
	}
	return g, nil
}

func GetGroupByAccessKey(db *sql.DB, key string) (*Group, error) {
	return scanGroup(db.QueryRow(`SELECT `+groupColumns+` FROM groups g WHERE g.access_key = ?`, key))
}

// CreateGroup inserts the group and joins the creator as its first member.
func CreateGroup(db *sql.DB, name string, description *string, isPublic bool, accessKey *string, createdBy int) (*Group, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	res, err := tx.Exec(`INSERT INTO groups (name, description, is_public, access_key, created_by) VALUES (?, ?, ?, ?, ?)`,
		name, description, isPublic, accessKey, createdBy)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	groupID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := tx.Exec(`INSERT INTO group_members (group_id, user_id) VALUES (?, ?)`, groupID, createdBy); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return GetGroup(db, int(groupID))
}

// GroupUpdate carries the fields of a partial group update; nil means untouched.
type GroupUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
	AccessKey   *string
}

func UpdateGroup(db *sql.DB, id int, upd GroupUpdate) error {
	sets := []string{}
	args := []any{}
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.IsPublic != nil {
		sets = append(sets, "is_public = ?")
		args = append(args, *upd.IsPublic)
	}
	if upd.AccessKey != nil {
		sets = append(sets, "access_key = ?")
		args = append(args, *upd.AccessKey)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := db.Exec(`UPDATE groups SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	return err
}

func DeleteGroup(db *sql.DB, id int) error {
	res, err := db.Exec(`DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func IsMember(db *sql.DB, groupID, userID int) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM group_members WHERE group_id = ? AND user_id = ?`, groupID, userID).Scan(&n)
	return n > 0, err
}

func JoinGroup(db *sql.DB, groupID, userID int) error {
	_, err := db.Exec(`INSERT INTO group_members (group_id, user_id) VALUES (?, ?)`, groupID, userID)
	if isUniqueViolation(err, "group_members.group_id") {
		return ErrAlreadyMember
	}
	return err
}

// LeaveResult describes what happened to the group after a member left.
type LeaveResult struct {
	GroupDeleted bool
	NewCreator   int // non-zero when ownership was transferred
}

// LeaveGroup removes the membership and, in the same transaction, either
// deletes the emptied group or hands ownership to the most senior remaining
// member (earliest join, ties broken by lowest user id).
func LeaveGroup(db *sql.DB, groupID, userID int) (*LeaveResult, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	var createdBy int
	if err := tx.QueryRow(`SELECT created_by FROM groups WHERE id = ?`, groupID).Scan(&createdBy); err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	res, err := tx.Exec(`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`, groupID, userID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return nil, ErrNotMember
	}

	var remaining int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM group_members WHERE group_id = ?`, groupID).Scan(&remaining); err != nil {
		tx.Rollback()
		return nil, err
	}

	result := &LeaveResult{}
	if remaining == 0 {
		if _, err := tx.Exec(`DELETE FROM groups WHERE id = ?`, groupID); err != nil {
			tx.Rollback()
			return nil, err
		}
		result.GroupDeleted = true
	} else if createdBy == userID {
		var senior int
		err := tx.QueryRow(`SELECT user_id FROM group_members WHERE group_id = ?
			ORDER BY created_at ASC, user_id ASC LIMIT 1`, groupID).Scan(&senior)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if _, err := tx.Exec(`UPDATE groups SET created_by = ? WHERE id = ?`, senior, groupID); err != nil {
			tx.Rollback()
			return nil, err
		}
		result.NewCreator = senior
	}
	return result, tx.Commit()
}
