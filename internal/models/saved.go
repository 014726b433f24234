package models

import "database/sql"

// SavePost bookmarks the post for the user. Saving an already saved post is a
// no-op, unlike likes which reject duplicates.
func SavePost(db *sql.DB, userID, postID int) error {
	_, err := db.Exec(`INSERT OR IGNORE INTO saved_posts (user_id, post_id) VALUES (?, ?)`, userID, postID)
	return err
}

// UnsavePost removes the bookmark; removing an absent one is a no-op.
func UnsavePost(db *sql.DB, userID, postID int) error {
	_, err := db.Exec(`DELETE FROM saved_posts WHERE user_id = ? AND post_id = ?`, userID, postID)
	return err
}

// ListSavedPosts returns the user's bookmarks with each post eagerly attached.
func ListSavedPosts(db *sql.DB, userID int) ([]SavedPost, error) {
	rows, err := db.Query(`SELECT s.user_id, s.post_id, s.created_at, `+postColumns+`
		FROM saved_posts s
		JOIN posts p ON p.id = s.post_id
		JOIN users u ON u.id = p.created_by
		JOIN groups g ON g.id = p.group_id
		WHERE s.user_id = ? ORDER BY s.created_at DESC, s.post_id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	saved := []SavedPost{}
	for rows.Next() {
		var sp SavedPost
		var p Post
		var author User
		var group Group
		var imagePath, authorPhoto, groupDesc sql.NullString
		err := rows.Scan(&sp.UserID, &sp.PostID, &sp.CreatedAt,
			&p.ID, &p.Content, &imagePath, &p.GroupID, &p.CreatedBy, &p.CreatedAt, &p.Likes,
			&author.ID, &author.Name, &author.Email, &authorPhoto, &author.IsAdmin, &author.CreatedAt,
			&group.ID, &group.Name, &groupDesc, &group.IsPublic, &group.CreatedBy, &group.CreatedAt)
		if err != nil {
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
		sp.Post = &p
		saved = append(saved, sp)
	}
	return saved, rows.Err()
}
