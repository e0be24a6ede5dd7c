package models

import (
	"gorm.io/datatypes"
)

const (
	SynthesisStatusPending   = "pending"
	SynthesisStatusSucceeded = "succeeded"
	SynthesisStatusFailed    = "failed"
	SynthesisStatusTimeout   = "timeout"
)

// SynthesisJob records one audio synthesis attempt against an external
// provider. Rows are bookkeeping only; the BGM row's AudioURL is the
// source of truth for whether audio exists.
type SynthesisJob struct {
	BaseModel
	BGMID           int            `gorm:"not null;index"    json:"bgmId"`
	BGM             BGM            `gorm:"foreignKey:BGMID"  json:"-"`
	Provider        string         `gorm:"type:varchar(32);not null" json:"provider"`
	Status          string         `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	Attempts        int            `gorm:"not null;default:0" json:"attempts"`
	DurationSeconds int            `gorm:"not null"           json:"durationSeconds"`
	FileName        string         `                          json:"fileName,omitempty"`
	Error           string         `gorm:"type:text"          json:"error,omitempty"`
	ProviderPayload datatypes.JSON `                          json:"providerPayload,omitempty"`
}
