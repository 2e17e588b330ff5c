package auth

import "gameclub/backend/internal/models"

// Capability predicates. Every role check in the application goes through
// these instead of comparing role strings in handlers.

// CanEditCatalogue reports whether the user may create, edit, or delete
// catalogue games.
func CanEditCatalogue(user *models.User) bool {
	return user != nil && (user.Role == models.RoleOrganizer || user.Role == models.RoleAdmin)
}

// CanCreateSession reports whether the user may schedule play sessions.
func CanCreateSession(user *models.User) bool {
	return user != nil && (user.Role == models.RoleOrganizer || user.Role == models.RoleAdmin)
}

// CanManageSession reports whether the user may reschedule or delete the
// given session and record its results.
func CanManageSession(user *models.User, session *models.Session) bool {
	if user == nil || session == nil {
		return false
	}
	return user.Role == models.RoleAdmin || session.OrganizerID == user.ID
}

// CanManageRoles reports whether the user may change other members' roles.
func CanManageRoles(user *models.User) bool {
	return user != nil && user.Role == models.RoleAdmin
}
