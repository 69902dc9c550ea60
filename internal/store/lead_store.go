// Package store persists pipeline leads in Postgres through GORM.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prophunter_backend/internal/model"
)

var ErrLeadExists = errors.New("lead already stored")

// LeadStore is the remote lead store backing the pipeline board.
type LeadStore struct {
	db *gorm.DB
}

func NewLeadStore(db *gorm.DB) *LeadStore {
	return &LeadStore{db: db}
}

// SelectAll returns every stored lead, oldest first.
func (s *LeadStore) SelectAll(ctx context.Context) ([]model.Listing, error) {
	var records []model.LeadRecord
	if err := s.db.WithContext(ctx).Order("created_at asc, id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("select leads: %w", err)
	}

	leads := make([]model.Listing, 0, len(records))
	for _, r := range records {
		leads = append(leads, r.Listing())
	}
	return leads, nil
}

func (s *LeadStore) Insert(ctx context.Context, lead model.Listing) error {
	record, err := model.NewLeadRecord(lead)
	if err != nil {
		return fmt.Errorf("encode lead %s: %w", lead.ID, err)
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if result.Error != nil {
		return fmt.Errorf("insert lead %s: %w", lead.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("insert lead %s: %w", lead.ID, ErrLeadExists)
	}
	return nil
}

// Update writes a new status. A missing row is not an error.
func (s *LeadStore) Update(ctx context.Context, id string, status model.LeadStatus) error {
	err := s.db.WithContext(ctx).
		Model(&model.LeadRecord{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("update lead %s: %w", id, err)
	}
	return nil
}

func (s *LeadStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.LeadRecord{}).Error; err != nil {
		return fmt.Errorf("delete lead %s: %w", id, err)
	}
	return nil
}

// CountByStatus is used by the pipeline digest.
func (s *LeadStore) CountByStatus(ctx context.Context) (map[model.LeadStatus]int64, error) {
	var rows []struct {
		Status model.LeadStatus
		Count  int64
	}
	err := s.db.WithContext(ctx).
		Model(&model.LeadRecord{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}

	counts := make(map[model.LeadStatus]int64, len(model.LeadStatuses))
	for _, s := range model.LeadStatuses {
		counts[s] = 0
	}
	for _, r := range rows {
		counts[r.Status.Effective()] += r.Count
	}
	return counts, nil
}
