package server

import "socialnet/internal/models"

// Authorization predicates. Every mutating handler evaluates one of these
// before touching storage; listing handlers filter by visibility instead.

func isAdmin(u *models.User) bool {
	return u != nil && u.IsAdmin
}

func canView(u *models.User, g *models.Group, member bool) bool {
	return g.IsPublic || member || isAdmin(u)
}

func canModify(u *models.User, ownerID int) bool {
	return isAdmin(u) || (u != nil && u.ID == ownerID)
}

// canDeleteInGroup allows the admin, the item's author and the creator of the
// containing group to delete a post or comment.
func canDeleteInGroup(u *models.User, authorID, groupCreatorID int) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin || u.ID == authorID || u.ID == groupCreatorID
}
