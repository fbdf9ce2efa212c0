package storage

import (
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dispatchgo/backend/internal/models"
)

// SaveSubscriber creates or updates an alert subscription in PostgreSQL.
func (s *Service) SaveSubscriber(subscriber *models.Subscriber) error {
	result := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"locations"}),
	}).Create(subscriber)
	if result.Error != nil {
		log.Printf("ERROR: Failed to save subscriber %d: %v", subscriber.ChatID, result.Error)
		return result.Error
	}
	return nil
}

// DeleteSubscriber removes an alert subscription.
func (s *Service) DeleteSubscriber(chatID int64) error {
	return s.DB.Delete(&models.Subscriber{}, "chat_id = ?", chatID).Error
}

// GetSubscribers returns every alert subscription.
func (s *Service) GetSubscribers() ([]models.Subscriber, error) {
	var subscribers []models.Subscriber
	if err := s.DB.Find(&subscribers).Error; err != nil {
		log.Printf("ERROR: Failed to load subscribers: %v", err)
		return nil, err
	}
	return subscribers, nil
}

// SaveTranscript persists one transcription result.
func (s *Service) SaveTranscript(transcript *models.Transcript) error {
	if err := s.DB.Create(transcript).Error; err != nil {
		log.Printf("ERROR: Failed to save transcript for call %s: %v", transcript.CallSID, err)
		return err
	}
	return nil
}

// GetTranscriptByCallSID returns the most recent transcript for a call,
// or nil when none has been stored yet.
func (s *Service) GetTranscriptByCallSID(callSID string) (*models.Transcript, error) {
	var transcript models.Transcript
	err := s.DB.Where("call_sid = ?", callSID).Last(&transcript).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &transcript, nil
}
