package models

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyMember      = errors.New("already a member of this group")
	ErrNotMember          = errors.New("not a member of this group")
	ErrAlreadyLiked       = errors.New("post already liked")
	ErrNotLiked           = errors.New("post not liked")
	ErrWrongAccessKey     = errors.New("invalid access key")
)

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure
// on the given column (e.g. "users.email").
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}
