package models

import "time"

type User struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	ProfilePhotoPath *string   `json:"profile_photo_path"`
	IsAdmin          bool      `json:"is_admin"`
	CreatedAt        time.Time `json:"created_at"`
}

type Token struct {
	ID        string
	UserID    int
	CreatedAt time.Time
	ExpiresAt time.Time
}

type Group struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	IsPublic     bool      `json:"is_public"`
	AccessKey    *string   `json:"access_key,omitempty"`
	CreatedBy    int       `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	MembersCount int       `json:"members_count"`
	Creator      *User     `json:"creator,omitempty"`
}

type Post struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	ImagePath *string   `json:"image_path"`
	GroupID   int       `json:"group_id"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Likes     int       `json:"likes"`
	Author    *User     `json:"author,omitempty"`
	Group     *Group    `json:"group,omitempty"`
	Comments  []Comment `json:"comments"`
}

type Comment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	PostID    int       `json:"post_id"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Author    *User     `json:"author,omitempty"`
	Post      *Post     `json:"post,omitempty"`
}

type SavedPost struct {
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	Post      *Post     `json:"post,omitempty"`
}
