package models

import "database/sql"

// LikePost records the like; the primary key on (post_id, user_id) is the
// source of truth for "at most one like per user per post".
func LikePost(db *sql.DB, postID, userID int) error {
	_, err := db.Exec(`INSERT INTO post_likes (post_id, user_id) VALUES (?, ?)`, postID, userID)
	if isUniqueViolation(err, "post_likes.post_id") {
		return ErrAlreadyLiked
	}
	return err
}

func UnlikePost(db *sql.DB, postID, userID int) error {
	res, err := db.Exec(`DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`, postID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotLiked
	}
	return nil
}

// CountLikes derives the like count by counting rows; it is never stored.
func CountLikes(db *sql.DB, postID int) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM post_likes WHERE post_id = ?`, postID).Scan(&n)
	return n, err
}
