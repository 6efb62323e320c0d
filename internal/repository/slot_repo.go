package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookwithbea/internal/domain"
)

const slotBatchSize = 500

type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

func toDomainSlot(m slotModel) *domain.Slot {
	return &domain.Slot{
		ID:          m.ID,
		Date:        m.SlotDate,
		Time:        m.SlotTime,
		IsAvailable: m.IsAvailable,
		BookingID:   m.BookingID,
	}
}

func (r *SlotRepository) Get(ctx context.Context, date, tm string) (*domain.Slot, error) {
	return r.get(r.db.WithContext(ctx), date, tm)
}

// GetForUpdate row-locks the slot on PostgreSQL. SQLite has no row locks and
// serializes writers instead.
func (r *SlotRepository) GetForUpdate(ctx context.Context, date, tm string) (*domain.Slot, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), date, tm)
}

func (r *SlotRepository) get(q *gorm.DB, date, tm string) (*domain.Slot, error) {
	var m slotModel
	if err := q.Where("slot_date = ? AND slot_time = ?", date, tm).First(&m).Error; err != nil {
		return nil, mapErr("get slot", err)
	}
	return toDomainSlot(m), nil
}

func (r *SlotRepository) ListAvailable(ctx context.Context, date, after string) ([]string, error) {
	q := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("slot_date = ? AND is_available = ?", date, true)
	if after != "" {
		q = q.Where("slot_time > ?", after)
	}

	var times []string
	if err := q.Order("slot_time ASC").Pluck("slot_time", &times).Error; err != nil {
		return nil, mapErr("list available slots", err)
	}
	return times, nil
}

// Claim is the race guard of booking creation: only an available slot is
// flipped, so of two concurrent claims at most one affects a row.
func (r *SlotRepository) Claim(ctx context.Context, date, tm, bookingID string) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("slot_date = ? AND slot_time = ? AND is_available = ?", date, tm, true).
		Updates(map[string]any{"is_available": false, "booking_id": bookingID})
	if tx.Error != nil {
		return 0, mapErr("claim slot", tx.Error)
	}
	return tx.RowsAffected, nil
}

func (r *SlotRepository) Assign(ctx context.Context, date, tm, bookingID string) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("slot_date = ? AND slot_time = ?", date, tm).
		Updates(map[string]any{"is_available": false, "booking_id": bookingID})
	if tx.Error != nil {
		return 0, mapErr("assign slot", tx.Error)
	}
	return tx.RowsAffected, nil
}

func (r *SlotRepository) Release(ctx context.Context, date, tm string) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("slot_date = ? AND slot_time = ?", date, tm).
		Updates(map[string]any{"is_available": true, "booking_id": nil})
	if tx.Error != nil {
		return 0, mapErr("release slot", tx.Error)
	}
	return tx.RowsAffected, nil
}

func (r *SlotRepository) BlockDate(ctx context.Context, date string) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("slot_date = ?", date).
		Update("is_available", false)
	if tx.Error != nil {
		return 0, mapErr("block slots", tx.Error)
	}
	return tx.RowsAffected, nil
}

func (r *SlotRepository) RestoreUnbooked(ctx context.Context, date string) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("slot_date = ? AND booking_id IS NULL", date).
		Update("is_available", true)
	if tx.Error != nil {
		return 0, mapErr("restore slots", tx.Error)
	}
	return tx.RowsAffected, nil
}

func (r *SlotRepository) ResetFrom(ctx context.Context, from string) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("slot_date >= ?", from).
		Updates(map[string]any{"is_available": true, "booking_id": nil})
	if tx.Error != nil {
		return 0, mapErr("reset slots", tx.Error)
	}
	return tx.RowsAffected, nil
}

// CreateIfAbsent inserts slots, skipping (date, time) pairs that already exist.
func (r *SlotRepository) CreateIfAbsent(ctx context.Context, slots []domain.Slot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	models := make([]slotModel, len(slots))
	for i, s := range slots {
		models[i] = slotModel{
			SlotDate:    s.Date,
			SlotTime:    s.Time,
			IsAvailable: s.IsAvailable,
			BookingID:   s.BookingID,
		}
	}

	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_date"}, {Name: "slot_time"}},
			DoNothing: true,
		}).
		CreateInBatches(&models, slotBatchSize)
	if tx.Error != nil {
		return 0, mapErr("create slots", tx.Error)
	}
	return tx.RowsAffected, nil
}
