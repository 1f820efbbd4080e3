package model

import (
	"time"

	"gorm.io/gorm"
)

type History struct {
	gorm.Model
	RunID       string    `gorm:"index;not null" json:"run_id"`
	Outcome     Outcome   `gorm:"not null" json:"outcome"`
	SrcPath     string    `gorm:"not null" json:"src_path"`
	DstPath     string    `json:"dst_path"`
	Modified    bool      `json:"modified"`
	ErrMsg      string    `json:"err_msg,omitempty"`
	ProcessedAt time.Time `gorm:"not null;index" json:"processed_at"`
}
