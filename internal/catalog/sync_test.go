package catalog

import (
	"fmt"
	"testing"
	"time"

	"gameclub/backend/internal/models"

	"github.com/sirupsen/logrus"
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

func seedResults(t *testing.T, db *gorm.DB, scores map[string]*int) models.Game {
	t.Helper()

	game := models.Game{Name: "Cascadia", MinPlayers: 1, MaxPlayers: 4}
	require.NoError(t, db.Create(&game).Error)

	organizer := models.User{
		Nickname:     fmt.Sprintf("organizer%d", game.ID),
		Email:        fmt.Sprintf("organizer%d@club.test", game.ID),
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&organizer).Error)

	session := models.Session{
		GameID:      game.ID,
		OrganizerID: organizer.ID,
		ScheduledAt: time.Now().Add(-24 * time.Hour),
		Capacity:    4,
	}
	require.NoError(t, db.Create(&session).Error)

	i := 0
	for nickname, score := range scores {
		i++
		user := models.User{
			Nickname:     nickname,
			Email:        fmt.Sprintf("%s@club.test", nickname),
			PasswordHash: "x",
		}
		require.NoError(t, db.Create(&user).Error)
		reg := models.Registration{SessionID: session.ID, UserID: user.ID, Score: score}
		require.NoError(t, db.Create(&reg).Error)
	}

	return game
}

func intPtr(v int) *int { return &v }

func TestSyncGame_WritesBestScoreAndScorers(t *testing.T) {
	db := newTestDB(t)
	game := seedResults(t, db, map[string]*int{
		"alice": intPtr(31),
		"bob":   intPtr(12),
	})

	syncer := NewBestScoreSyncer(db, logrus.New())
	require.NoError(t, syncer.SyncGame(game.ID))

	var got models.Game
	require.NoError(t, db.First(&got, game.ID).Error)
	require.NotNil(t, got.BestScore)
	assert.Equal(t, 31, *got.BestScore)
	assert.Equal(t, "alice", got.BestScorers)
}

func TestSyncGame_NoPositiveScoresLeavesNil(t *testing.T) {
	db := newTestDB(t)
	game := seedResults(t, db, map[string]*int{
		"alice": nil,
		"bob":   intPtr(0),
	})

	syncer := NewBestScoreSyncer(db, logrus.New())
	require.NoError(t, syncer.SyncGame(game.ID))

	var got models.Game
	require.NoError(t, db.First(&got, game.ID).Error)
	assert.Nil(t, got.BestScore)
	assert.Empty(t, got.BestScorers)
}

func TestSyncGame_RunsOncePerCycle(t *testing.T) {
	db := newTestDB(t)
	game := seedResults(t, db, map[string]*int{"alice": intPtr(10)})

	syncer := NewBestScoreSyncer(db, logrus.New())
	require.NoError(t, syncer.SyncGame(game.ID))

	// A better score lands, but within the same cycle the sync is a no-op.
	var reg models.Registration
	require.NoError(t, db.First(&reg).Error)
	require.NoError(t, db.Model(&reg).Update("score", 99).Error)

	require.NoError(t, syncer.SyncGame(game.ID))
	var got models.Game
	require.NoError(t, db.First(&got, game.ID).Error)
	require.NotNil(t, got.BestScore)
	assert.Equal(t, 10, *got.BestScore)

	// After a fresh load the new maximum is picked up.
	syncer.Reset()
	require.NoError(t, syncer.SyncGame(game.ID))
	require.NoError(t, db.First(&got, game.ID).Error)
	require.NotNil(t, got.BestScore)
	assert.Equal(t, 99, *got.BestScore)
}

func TestSyncAll_ContinuesPastGames(t *testing.T) {
	db := newTestDB(t)
	first := seedResults(t, db, map[string]*int{"alice": intPtr(7)})
	second := seedResults(t, db, map[string]*int{"carol": intPtr(15)})

	syncer := NewBestScoreSyncer(db, logrus.New())
	syncer.SyncAll()

	var got models.Game
	require.NoError(t, db.First(&got, first.ID).Error)
	require.NotNil(t, got.BestScore)
	assert.Equal(t, 7, *got.BestScore)

	require.NoError(t, db.First(&got, second.ID).Error)
	require.NotNil(t, got.BestScore)
	assert.Equal(t, 15, *got.BestScore)
}
