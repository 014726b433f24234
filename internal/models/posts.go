package models

import (
	"database/sql"
	"strings"
)

const postColumns = `p.id, p.content, p.image_path, p.group_id, p.created_by, p.created_at,
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id),
	u.id, u.name, u.email, u.profile_photo_path, u.is_admin, u.created_at,
	g.id, g.name, g.description, g.is_public, g.created_by, g.created_at`

const postJoins = ` FROM posts p
	JOIN users u ON u.id = p.created_by
	JOIN groups g ON g.id = p.group_id`

// visibilityClause restricts rows to groups the viewer may see. The admin sees
// everything; members see their groups; everyone sees public groups.
func visibilityClause(viewer *User) (string, []any) {
	if viewer != nil && viewer.IsAdmin {
		return "1 = 1", nil
	}
	if viewer == nil {
		return "g.is_public = 1", nil
	}
	return `(g.is_public = 1 OR EXISTS (
		SELECT 1 FROM group_members gm WHERE gm.group_id = g.id AND gm.user_id = ?))`, []any{viewer.ID}
}

func scanPost(row interface{ Scan(...any) error }) (*Post, error) {
	var p Post
	var author User
	var group Group
	var imagePath, authorPhoto, groupDesc sql.NullString
	err := row.Scan(
		&p.ID, &p.Content, &imagePath, &p.GroupID, &p.CreatedBy, &p.CreatedAt, &p.Likes,
		&author.ID, &author.Name, &author.Email, &authorPhoto, &author.IsAdmin, &author.CreatedAt,
		&group.ID, &group.Name, &groupDesc, &group.IsPublic, &group.CreatedBy, &group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if imagePath.Valid {
		p.ImagePath = &imagePath.String
	}
	if authorPhoto.Valid {
		author.ProfilePhotoPath = &authorPhoto.String
	}
	if groupDesc.Valid {
		group.Description = &groupDesc.String
	}
	p.Author = &author
	p.Group = &group
	p.Comments = []Comment{}
	return &p, nil
}

// ListPosts returns the posts the viewer may see, newest first, optionally
// restricted to one group, each with author, group, comments and like count.
func ListPosts(db *sql.DB, viewer *User, groupID *int) ([]Post, error) {
	where, args := visibilityClause(viewer)
	q := `SELECT ` + postColumns + postJoins + ` WHERE ` + where
	if groupID != nil {
		q += ` AND p.group_id = ?`
		args = append(args, *groupID)
	}
	rows, err := db.Query(q+` ORDER BY p.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range posts {
		if err := attachComments(db, &posts[i]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func GetPost(db *sql.DB, id int) (*Post, error) {
	p, err := scanPost(db.QueryRow(`SELECT `+postColumns+postJoins+` WHERE p.id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := attachComments(db, p); err != nil {
		return nil, err
	}
	return p, nil
}

func attachComments(db *sql.DB, p *Post) error {
	rows, err := db.Query(`SELECT c.id, c.content, c.post_id, c.created_by, c.created_at,
		u.id, u.name, u.email, u.profile_photo_path, u.is_admin, u.created_at
		FROM comments c JOIN users u ON u.id = c.created_by
		WHERE c.post_id = ? ORDER BY c.id`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c Comment
		var author User
		var photo sql.NullString
		if err := rows.Scan(&c.ID, &c.Content, &c.PostID, &c.CreatedBy, &c.CreatedAt,
			&author.ID, &author.Name, &author.Email, &photo, &author.IsAdmin, &author.CreatedAt); err != nil {
			return err
		}
		if photo.Valid {
			author.ProfilePhotoPath = &photo.String
		}
		c.Author = &author
		p.Comments = append(p.Comments, c)
	}
	return rows.Err()
}

func CreatePost(db *sql.DB, content string, imagePath *string, groupID, createdBy int) (*Post, error) {
	res, err := db.Exec(`INSERT INTO posts (content, image_path, group_id, created_by) VALUES (?, ?, ?, ?)`,
		content, imagePath, groupID, createdBy)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetPost(db, int(id))
}

// PostUpdate carries the fields of a partial post update; nil means untouched.
type PostUpdate struct {
	Content   *string
	ImagePath *string
}

func UpdatePost(db *sql.DB, id int, upd PostUpdate) error {
	sets := []string{}
	args := []any{}
	if upd.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *upd.Content)
	}
	if upd.ImagePath != nil {
		sets = append(sets, "image_path = ?")
		args = append(args, *upd.ImagePath)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := db.Exec(`UPDATE posts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	return err
}

func DeletePost(db *sql.DB, id int) error {
	res, err := db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListLikedPosts returns the posts the user has liked, with author and group.
func ListLikedPosts(db *sql.DB, userID int) ([]Post, error) {
	rows, err := db.Query(`SELECT `+postColumns+postJoins+`
		JOIN post_likes l ON l.post_id = p.id
		WHERE l.user_id = ? ORDER BY p.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}
