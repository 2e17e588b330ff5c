// Package clubsession mediates registration state changes for scheduled
// play sessions: capacity checks, signup/withdrawal, and recording ranked
// results after a session.
package clubsession

import (
	"errors"
	"fmt"
	"time"

	"gameclub/backend/internal/models"
	"gameclub/backend/internal/ranking"

	"gorm.io/gorm"
)

// Service implements the session and registration operations on top of the
// shared store.
type Service struct {
	db *gorm.DB
}

// NewService creates a new session service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListUpcoming returns sessions scheduled at or after now, soonest first.
// A full session is included only when the viewer is already registered
// for it.
func (s *Service) ListUpcoming(viewerID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.
		Preload("Game").
		Preload("Organizer").
		Where("scheduled_at >= ?", time.Now()).
		Where("(registrant_count < capacity OR id IN (?))",
			s.db.Model(&models.Registration{}).Select("session_id").Where("user_id = ?", viewerID)).
		Order("scheduled_at asc").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// Register signs a player up for a session. With override set (ranking tool
// used by an organizer or admin after the fact) the capacity gate is
// skipped, so the registrant count may exceed capacity.
func (s *Service) Register(sessionID, userID uint, override bool) error {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	var existing models.Registration
	err := s.db.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&existing).Error
	if err == nil {
		return ErrAlreadyRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if !override && session.RegistrantCount >= session.Capacity {
		return ErrCapacityExceeded
	}

	reg := models.Registration{SessionID: sessionID, UserID: userID}
	if err := s.db.Create(&reg).Error; err != nil {
		return err
	}
	return s.db.Model(&session).Update("registrant_count", session.RegistrantCount+1).Error
}

// Unregister withdraws a player from a session.
func (s *Service) Unregister(sessionID, userID uint) error {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	res := s.db.Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&models.Registration{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotRegistered
	}
	return s.db.Model(&session).Update("registrant_count", session.RegistrantCount-1).Error
}

// Registrants returns a session's registrations with their users loaded.
func (s *Service) Registrants(sessionID uint) ([]models.Registration, error) {
	var regs []models.Registration
	err := s.db.Preload("User").
		Where("session_id = ?", sessionID).
		Order("rank asc nulls last").
		Find(&regs).Error
	return regs, err
}

// RecordResults computes ranks for the given entries and persists
// (rank, score) on each registration. Entries for players without a
// registration are added through the override path first. Writes are
// best-effort per record: one failure does not block the others, the
// collected errors are returned at the end.
func (s *Service) RecordResults(sessionID uint, entries []ranking.Entry) ([]ranking.Ranked, error) {
	if _, err := s.session(sessionID); err != nil {
		return nil, err
	}

	ranked := ranking.Compute(entries)

	var errs []error
	for _, r := range ranked {
		if err := s.Register(sessionID, r.PlayerID, true); err != nil && !errors.Is(err, ErrAlreadyRegistered) {
			errs = append(errs, fmt.Errorf("add player %d: %w", r.PlayerID, err))
			continue
		}

		rank, score := r.Rank, r.Score
		err := s.db.Model(&models.Registration{}).
			Where("session_id = ? AND user_id = ?", sessionID, r.PlayerID).
			Updates(map[string]interface{}{"rank": rank, "score": score}).Error
		if err != nil {
			errs = append(errs, fmt.Errorf("persist result for player %d: %w", r.PlayerID, err))
		}
	}

	return ranked, errors.Join(errs...)
}

// HistoricalScores returns every registration of a game across all of its
// sessions, in the shape the best-score aggregator consumes.
func (s *Service) HistoricalScores(gameID uint) ([]ranking.ScoreRecord, error) {
	var regs []models.Registration
	err := s.db.
		Joins("JOIN sessions ON sessions.id = registrations.session_id").
		Where("sessions.game_id = ?", gameID).
		Order("registrations.created_at asc").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}

	records := make([]ranking.ScoreRecord, 0, len(regs))
	for _, reg := range regs {
		records = append(records, ranking.ScoreRecord{PlayerID: reg.UserID, Score: reg.Score})
	}
	return records, nil
}

func (s *Service) session(id uint) (*models.Session, error) {
	var session models.Session
	if err := s.db.First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}
