package clubsession

import (
	"fmt"
	"testing"
	"time"

	"gameclub/backend/internal/models"
	"gameclub/backend/internal/ranking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Game{}, &models.Session{}, &models.Registration{},
	))
	return db
}

func seedUsers(t *testing.T, db *gorm.DB, n int) []models.User {
	t.Helper()

	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{
			Nickname:     fmt.Sprintf("player%d", i+1),
			Email:        fmt.Sprintf("player%d@club.test", i+1),
			PasswordHash: "x",
		}
	}
	require.NoError(t, db.Create(&users).Error)
	return users
}

func seedSession(t *testing.T, db *gorm.DB, organizer models.User, capacity int, at time.Time) models.Session {
	t.Helper()

	game := models.Game{Name: "Terraforming Mars", MinPlayers: 1, MaxPlayers: capacity}
	require.NoError(t, db.Create(&game).Error)

	session := models.Session{
		GameID:      game.ID,
		OrganizerID: organizer.ID,
		ScheduledAt: at,
		Location:    "club house",
		Capacity:    capacity,
	}
	require.NoError(t, db.Create(&session).Error)
	return session
}

func registrantCount(t *testing.T, db *gorm.DB, sessionID uint) int {
	t.Helper()

	var session models.Session
	require.NoError(t, db.First(&session, sessionID).Error)
	return session.RegistrantCount
}

func TestRegister_DuplicateFails(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, 2)
	session := seedSession(t, db, users[0], 4, time.Now().Add(24*time.Hour))
	svc := NewService(db)

	require.NoError(t, svc.Register(session.ID, users[1].ID, false))
	err := svc.Register(session.ID, users[1].ID, false)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	// Count unchanged by the failed call.
	assert.Equal(t, 1, registrantCount(t, db, session.ID))
}

func TestRegister_CapacityExceeded(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, 5)
	session := seedSession(t, db, users[0], 4, time.Now().Add(24*time.Hour))
	svc := NewService(db)

	for _, u := range users[:4] {
		require.NoError(t, svc.Register(session.ID, u.ID, false))
	}

	err := svc.Register(session.ID, users[4].ID, false)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 4, registrantCount(t, db, session.ID))
}

func TestRegister_OverrideBypassesCapacity(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, 3)
	session := seedSession(t, db, users[0], 2, time.Now().Add(24*time.Hour))
	svc := NewService(db)

	require.NoError(t, svc.Register(session.ID, users[0].ID, false))
	require.NoError(t, svc.Register(session.ID, users[1].ID, false))
	require.NoError(t, svc.Register(session.ID, users[2].ID, true))

	assert.Equal(t, 3, registrantCount(t, db, session.ID))
}

func TestRegister_UnknownSession(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, 1)
	svc := NewService(db)

	err := svc.Register(99, users[0].ID, false)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUnregister(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, 2)
	session := seedSession(t, db, users[0], 4, time.Now().Add(24*time.Hour))
	svc := NewService(db)

	assert.ErrorIs(t, svc.Unregister(session.ID, users[1].ID), ErrNotRegistered)

	require.NoError(t, svc.Register(session.ID, users[1].ID, false))
	require.NoError(t, svc.Unregister(session.ID, users[1].ID))
	assert.Equal(t, 0, registrantCount(t, db, session.ID))

	assert.ErrorIs(t, svc.Unregister(session.ID, users[1].ID), ErrNotRegistered)
}

func TestRecordResults_PersistsRanksAndScores(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, 3)
	session := seedSession(t, db, users[0], 4, time.Now().Add(24*time.Hour))
	svc := NewService(db)

	for _, u := range users {
		require.NoError(t, svc.Register(session.ID, u.ID, false))
	}

	ranked, err := svc.RecordResults(session.ID, []ranking.Entry{
		{PlayerID: users[0].ID, Score: 10},
		{PlayerID: users[1].ID, Score: 10},
		{PlayerID: users[2].ID, Score: 5},
	})
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	regs, err := svc.Registrants(session.ID)
	require.NoError(t, err)
	require.Len(t, regs, 3)

	got := make(map[uint][2]int)
	for _, reg := range regs {
		require.NotNil(t, reg.Rank)
		require.NotNil(t, reg.Score)
		got[reg.UserID] = [2]int{*reg.Rank, *reg.Score}
	}
	assert.Equal(t, [2]int{1, 10}, got[users[0].ID])
	assert.Equal(t, [2]int{1, 10}, got[users[1].ID])
	assert.Equal(t, [2]int{3, 5}, got[users[2].ID])
}

func TestRecordResults_AddsMissingRegistrantPastCapacity(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, 3)
	session := seedSession(t, db, users[0], 2, time.Now().Add(24*time.Hour))
	svc := NewService(db)

	require.NoError(t, svc.Register(session.ID, users[0].ID, false))
	require.NoError(t, svc.Register(session.ID, users[1].ID, false))

	// users[2] never signed up but played; the ranking tool adds them.
	_, err := svc.RecordResults(session.ID, []ranking.Entry{
		{PlayerID: users[0].ID, Score: 4},
		{PlayerID: users[1].ID, Score: 7},
		{PlayerID: users[2].ID, Score: 9},
	})
	require.NoError(t, err)

	regs, err := svc.Registrants(session.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 3)
	assert.Equal(t, 3, registrantCount(t, db, session.ID))
}

func TestListUpcoming(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, 3)
	svc := NewService(db)

	past := seedSession(t, db, users[0], 4, time.Now().Add(-2*time.Hour))
	later := seedSession(t, db, users[0], 4, time.Now().Add(48*time.Hour))
	soon := seedSession(t, db, users[0], 1, time.Now().Add(24*time.Hour))

	// Fill the one-seat session with somebody else.
	require.NoError(t, svc.Register(soon.ID, users[1].ID, false))

	sessions, err := svc.ListUpcoming(users[2].ID)
	require.NoError(t, err)

	// Past session never shows; the full session is hidden from a viewer
	// who is not registered.
	ids := make([]uint, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []uint{later.ID}, ids)
	assert.NotContains(t, ids, past.ID)

	// The registered viewer still sees the full session, sorted soonest
	// first.
	sessions, err = svc.ListUpcoming(users[1].ID)
	require.NoError(t, err)
	ids = ids[:0]
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []uint{soon.ID, later.ID}, ids)
}

func TestHistoricalScores(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, 2)
	session := seedSession(t, db, users[0], 4, time.Now().Add(24*time.Hour))
	svc := NewService(db)

	for _, u := range users {
		require.NoError(t, svc.Register(session.ID, u.ID, false))
	}
	_, err := svc.RecordResults(session.ID, []ranking.Entry{
		{PlayerID: users[0].ID, Score: 12},
		{PlayerID: users[1].ID, Score: 8},
	})
	require.NoError(t, err)

	var game models.Game
	require.NoError(t, db.First(&game, session.GameID).Error)

	records, err := svc.HistoricalScores(game.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	res := ranking.BestScores(records)
	require.NotNil(t, res.BestScore)
	assert.Equal(t, 12, *res.BestScore)
	assert.Equal(t, []uint{users[0].ID}, res.Players)
}
