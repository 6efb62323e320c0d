package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookwithbea/internal/domain"
)

type BlockedDateRepository struct {
	db *gorm.DB
}

func NewBlockedDateRepository(db *gorm.DB) *BlockedDateRepository {
	return &BlockedDateRepository{db: db}
}

func toDomainBlockedDate(m blockedDateModel) domain.BlockedDate {
	return domain.BlockedDate{Date: m.BlockedDate, Reason: m.Reason, CreatedAt: m.CreatedAt}
}

// Upsert inserts the date or replaces the reason of an existing block.
func (r *BlockedDateRepository) Upsert(ctx context.Context, d domain.BlockedDate) error {
	m := blockedDateModel{BlockedDate: d.Date, Reason: d.Reason, CreatedAt: d.CreatedAt}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "blocked_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"reason"}),
		}).
		Create(&m).Error
	return mapErr("block date", err)
}

func (r *BlockedDateRepository) Delete(ctx context.Context, date string) (bool, error) {
	tx := r.db.WithContext(ctx).Where("blocked_date = ?", date).Delete(&blockedDateModel{})
	if tx.Error != nil {
		return false, mapErr("unblock date", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (r *BlockedDateRepository) IsBlocked(ctx context.Context, date string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&blockedDateModel{}).Where("blocked_date = ?", date).Count(&cnt).Error
	if err != nil {
		return false, mapErr("check blocked date", err)
	}
	return cnt > 0, nil
}

func (r *BlockedDateRepository) List(ctx context.Context) ([]domain.BlockedDate, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *BlockedDateRepository) ListBetween(ctx context.Context, from, to string) ([]domain.BlockedDate, error) {
	return r.find(r.db.WithContext(ctx).Where("blocked_date >= ? AND blocked_date <= ?", from, to))
}

func (r *BlockedDateRepository) find(q *gorm.DB) ([]domain.BlockedDate, error) {
	var rows []blockedDateModel
	if err := q.Order("blocked_date ASC").Find(&rows).Error; err != nil {
		return nil, mapErr("list blocked dates", err)
	}
	out := make([]domain.BlockedDate, len(rows))
	for i, m := range rows {
		out[i] = toDomainBlockedDate(m)
	}
	return out, nil
}
