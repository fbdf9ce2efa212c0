package models

import "gorm.io/gorm"

// Transcript is the stored result of one transcription run.
// The embedded gorm.Model provides ID, CreatedAt, UpdatedAt, and DeletedAt fields.
type Transcript struct {
	gorm.Model

	// CallSID identifies the call the recording belongs to.
	CallSID string `gorm:"index" json:"call_sid"`
	// RecordingSID identifies the recording within the call.
	RecordingSID string `json:"recording_sid"`
	// Language is the source language detected by the speech model.
	Language string `json:"original_language"`
	// Duration is the length of the trimmed audio in seconds.
	Duration float64 `json:"duration"`
	// SkippedSeconds is how much leading audio was discarded before transcription.
	SkippedSeconds int `json:"skipped_seconds"`
	// Text is the translated transcription.
	Text string `gorm:"type:text" json:"transcription"`
}
