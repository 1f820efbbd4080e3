package repository

import (
	"dropfix/internal/db"
	"dropfix/internal/model"
	"time"
)

type HistoryRepository struct{}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Save(runID string, result model.IntakeResult) error {
	errMsg := ""
	if result.Err != nil {
		errMsg = result.Err.Error()
	}

	history := model.History{
		RunID:       runID,
		Outcome:     result.Outcome,
		SrcPath:     result.SrcPath,
		DstPath:     result.DstPath,
		Modified:    result.Modified,
		ErrMsg:      errMsg,
		ProcessedAt: time.Now(),
	}

	return db.DB.Create(&history).Error
}

type Stats struct {
	Total    int64 `json:"total"`
	Done     int64 `json:"done"`
	Modified int64 `json:"modified"`
	Failed   int64 `json:"failed"`
}

func (r *HistoryRepository) GetStats() (Stats, error) {
	var stats Stats
	if err := db.DB.Model(&model.History{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	if err := db.DB.Model(&model.History{}).
		Where("outcome = ?", model.OutcomeDone).
		Count(&stats.Done).Error; err != nil {
		return stats, err
	}

	if err := db.DB.Model(&model.History{}).
		Where("outcome = ? AND modified = ?", model.OutcomeDone, true).
		Count(&stats.Modified).Error; err != nil {
		return stats, err
	}

	if err := db.DB.Model(&model.History{}).
		Where("outcome = ?", model.OutcomeFailed).
		Count(&stats.Failed).Error; err != nil {
		return stats, err
	}

	return stats, nil
}

func (r *HistoryRepository) GetRecent(limit int) ([]model.History, error) {
	var histories []model.History
	result := db.DB.
		Order("processed_at desc").
		Order("id desc").
		Limit(limit).
		Find(&histories)

	return histories, result.Error
}

func (r *HistoryRepository) GetFailed() ([]model.History, error) {
	var histories []model.History
	result := db.DB.
		Where("outcome = ?", model.OutcomeFailed).
		Order("processed_at desc").
		Find(&histories)

	return histories, result.Error
}
