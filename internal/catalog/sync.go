// Package catalog maintains the derived best-score fields on catalogue
// games from the recorded session results.
package catalog

import (
	"strings"
	"sync"

	"gameclub/backend/internal/models"
	"gameclub/backend/internal/ranking"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Per-game sync state. A game moves idle -> computing -> synced within one
// data-load cycle; Reset puts every game back to idle so the next load can
// recompute. This keeps a load-triggered recompute from triggering itself
// again.
type syncState int

const (
	stateIdle syncState = iota
	stateComputing
	stateSynced
)

// BestScoreSyncer recomputes and persists each game's best score and the
// players who achieved it.
type BestScoreSyncer struct {
	db  *gorm.DB
	log logrus.FieldLogger

	mu     sync.Mutex
	states map[uint]syncState
}

// NewBestScoreSyncer creates a syncer over the shared store.
func NewBestScoreSyncer(db *gorm.DB, log logrus.FieldLogger) *BestScoreSyncer {
	return &BestScoreSyncer{
		db:     db,
		log:    log,
		states: make(map[uint]syncState),
	}
}

// Reset marks every game idle again. Called on a fresh data load.
func (s *BestScoreSyncer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[uint]syncState)
}

// SyncGame recomputes one game's best-score fields and writes them back
// only when they changed. At most one sync runs per game per load cycle;
// later calls in the same cycle are no-ops.
func (s *BestScoreSyncer) SyncGame(gameID uint) error {
	if !s.begin(gameID) {
		return nil
	}

	err := s.sync(gameID)
	if err != nil {
		// Back to idle so the next cycle can retry.
		s.finish(gameID, stateIdle)
		return err
	}
	s.finish(gameID, stateSynced)
	return nil
}

// Refresh starts a new data-load cycle and syncs the whole catalogue.
func (s *BestScoreSyncer) Refresh() {
	s.Reset()
	s.SyncAll()
}

// RefreshGame starts a new cycle for one game and syncs it.
func (s *BestScoreSyncer) RefreshGame(gameID uint) error {
	s.mu.Lock()
	s.states[gameID] = stateIdle
	s.mu.Unlock()
	return s.SyncGame(gameID)
}

// SyncAll runs SyncGame over the whole catalogue. A failure for one game is
// logged and does not abort the rest.
func (s *BestScoreSyncer) SyncAll() {
	var ids []uint
	if err := s.db.Model(&models.Game{}).Pluck("id", &ids).Error; err != nil {
		s.log.WithError(err).Error("best-score sync: listing games failed")
		return
	}

	for _, id := range ids {
		if err := s.SyncGame(id); err != nil {
			s.log.WithError(err).WithField("game_id", id).Error("best-score sync failed")
		}
	}
}

func (s *BestScoreSyncer) begin(gameID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.states[gameID] != stateIdle {
		return false
	}
	s.states[gameID] = stateComputing
	return true
}

func (s *BestScoreSyncer) finish(gameID uint, state syncState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[gameID] = state
}

func (s *BestScoreSyncer) sync(gameID uint) error {
	var game models.Game
	if err := s.db.First(&game, gameID).Error; err != nil {
		return err
	}

	var regs []models.Registration
	err := s.db.
		Joins("JOIN sessions ON sessions.id = registrations.session_id").
		Where("sessions.game_id = ?", gameID).
		Order("registrations.created_at asc").
		Find(&regs).Error
	if err != nil {
		return err
	}

	records := make([]ranking.ScoreRecord, 0, len(regs))
	for _, reg := range regs {
		records = append(records, ranking.ScoreRecord{PlayerID: reg.UserID, Score: reg.Score})
	}
	result := ranking.BestScores(records)

	scorers, err := s.nicknames(result.Players)
	if err != nil {
		return err
	}

	if !changed(game, result, scorers) {
		return nil
	}

	return s.db.Model(&game).Updates(map[string]interface{}{
		"best_score":   result.BestScore,
		"best_scorers": scorers,
	}).Error
}

// nicknames resolves player ids to nicknames, keeping aggregation order.
func (s *BestScoreSyncer) nicknames(playerIDs []uint) (string, error) {
	if len(playerIDs) == 0 {
		return "", nil
	}

	var users []models.User
	if err := s.db.Find(&users, playerIDs).Error; err != nil {
		return "", err
	}
	byID := make(map[uint]string, len(users))
	for _, u := range users {
		byID[u.ID] = u.Nickname
	}

	names := make([]string, 0, len(playerIDs))
	for _, id := range playerIDs {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", "), nil
}

func changed(game models.Game, result ranking.BestResult, scorers string) bool {
	if game.BestScorers != scorers {
		return true
	}
	switch {
	case game.BestScore == nil && result.BestScore == nil:
		return false
	case game.BestScore == nil || result.BestScore == nil:
		return true
	default:
		return *game.BestScore != *result.BestScore
	}
}
