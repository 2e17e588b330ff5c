package auth

import (
	"testing"

	"gameclub/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanEditCatalogue(t *testing.T) {
	assert.False(t, CanEditCatalogue(nil))
	assert.False(t, CanEditCatalogue(&models.User{Role: models.RoleMember}))
	assert.True(t, CanEditCatalogue(&models.User{Role: models.RoleOrganizer}))
	assert.True(t, CanEditCatalogue(&models.User{Role: models.RoleAdmin}))
}

func TestCanManageSession(t *testing.T) {
	organizer := &models.User{Role: models.RoleOrganizer}
	organizer.ID = 7
	other := &models.User{Role: models.RoleOrganizer}
	other.ID = 8
	admin := &models.User{Role: models.RoleAdmin}
	admin.ID = 9

	session := &models.Session{OrganizerID: 7}

	assert.True(t, CanManageSession(organizer, session))
	assert.False(t, CanManageSession(other, session))
	assert.True(t, CanManageSession(admin, session))
	assert.False(t, CanManageSession(nil, session))
	assert.False(t, CanManageSession(organizer, nil))
}
