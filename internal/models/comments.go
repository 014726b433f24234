package models

import "database/sql"

const commentColumns = `c.id, c.content, c.post_id, c.created_by, c.created_at,
	u.id, u.name, u.email, u.profile_photo_path, u.is_admin, u.created_at,
	p.id, p.content, p.image_path, p.group_id, p.created_by, p.created_at,
	g.id, g.name, g.description, g.is_public, g.created_by, g.created_at`

const commentJoins = ` FROM comments c
	JOIN users u ON u.id = c.created_by
	JOIN posts p ON p.id = c.post_id
	JOIN groups g ON g.id = p.group_id`

func scanComment(row interface{ Scan(...any) error }) (*Comment, error) {
	var c Comment
	var author User
	var post Post
	var group Group
	var authorPhoto, postImage, groupDesc sql.NullString
	err := row.Scan(
		&c.ID, &c.Content, &c.PostID, &c.CreatedBy, &c.CreatedAt,
		&author.ID, &author.Name, &author.Email, &authorPhoto, &author.IsAdmin, &author.CreatedAt,
		&post.ID, &post.Content, &postImage, &post.GroupID, &post.CreatedBy, &post.CreatedAt,
		&group.ID, &group.Name, &groupDesc, &group.IsPublic, &group.CreatedBy, &group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if authorPhoto.Valid {
		author.ProfilePhotoPath = &authorPhoto.String
	}
	if postImage.Valid {
		post.ImagePath = &postImage.String
	}
	if groupDesc.Valid {
		group.Description = &groupDesc.String
	}
	post.Group = &group
	c.Author = &author
	c.Post = &post
	return &c, nil
}

// ListComments returns the comments on posts the viewer may see, with their
// author and the post (and its group) they belong to.
func ListComments(db *sql.DB, viewer *User) ([]Comment, error) {
	where, args := visibilityClause(viewer)
	rows, err := db.Query(`SELECT `+commentColumns+commentJoins+` WHERE `+where+` ORDER BY c.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := []Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func GetComment(db *sql.DB, id int) (*Comment, error) {
	return scanComment(db.QueryRow(`SELECT `+commentColumns+commentJoins+` WHERE c.id = ?`, id))
}

func CreateComment(db *sql.DB, postID, createdBy int, content string) (*Comment, error) {
	res, err := db.Exec(`INSERT INTO comments (content, post_id, created_by) VALUES (?, ?, ?)`,
		content, postID, createdBy)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetComment(db, int(id))
}

func UpdateComment(db *sql.DB, id int, content string) error {
	res, err := db.Exec(`UPDATE comments SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func DeleteComment(db *sql.DB, id int) error {
	res, err := db.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
