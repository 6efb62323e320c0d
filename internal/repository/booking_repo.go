package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookwithbea/internal/domain"
	"bookwithbea/internal/modules/ledger"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func toDomainBooking(m bookingModel) *domain.Booking {
	services := []domain.ServiceSnapshot(m.ServicesData)
	if services == nil {
		services = []domain.ServiceSnapshot{}
	}
	return &domain.Booking{
		ID:                   m.ID,
		CustomerID:           m.CustomerID,
		CustomerName:         m.CustomerName,
		CustomerEmail:        m.CustomerEmail,
		CustomerPhone:        m.CustomerPhone,
		Date:                 m.BookingDate,
		Time:                 m.BookingTime,
		ServiceName:          m.ServiceName,
		Services:             services,
		TotalPrice:           m.TotalPrice,
		TotalDurationMinutes: m.TotalDuration,
		IsMultipleServices:   m.IsMultipleServices,
		TargetAudience:       m.TargetAudience,
		BookingType:          domain.BookingType(m.BookingType),
		Status:               domain.BookingStatus(m.Status),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
		CancelledAt:          m.CancelledAt,
		CompletedAt:          m.CompletedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	services := b.Services
	if services == nil {
		services = []domain.ServiceSnapshot{}
	}
	return bookingModel{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		BookingDate:        b.Date,
		BookingTime:        b.Time,
		ServiceName:        b.ServiceName,
		ServicesData:       datatypes.JSONSlice[domain.ServiceSnapshot](services),
		TotalPrice:         b.TotalPrice,
		TotalDuration:      b.TotalDurationMinutes,
		IsMultipleServices: b.IsMultipleServices,
		TargetAudience:     b.TargetAudience,
		BookingType:        string(b.BookingType),
		Status:             string(b.Status),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		CancelledAt:        b.CancelledAt,
		CompletedAt:        b.CompletedAt,
	}
}

func toDomainIndividual(m individualServiceModel) domain.IndividualServiceBooking {
	return domain.IndividualServiceBooking{
		ID:              m.ID,
		MainBookingID:   m.MainBookingID,
		ServiceName:     m.ServiceName,
		ServicePrice:    m.ServicePrice,
		ServiceDuration: m.ServiceDuration,
		Date:            m.BookingDate,
		Time:            m.BookingTime,
		ServiceOrder:    m.ServiceOrder,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %s", ledger.ErrSlotConflict, b.Date, b.Time)
		}
		return mapErr("create booking", err)
	}
	b.CreatedAt = m.CreatedAt
	b.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *BookingRepository) CreateIndividual(ctx context.Context, items []domain.IndividualServiceBooking) error {
	if len(items) == 0 {
		return nil
	}
	models := make([]individualServiceModel, len(items))
	for i, it := range items {
		models[i] = individualServiceModel{
			MainBookingID:   it.MainBookingID,
			ServiceName:     it.ServiceName,
			ServicePrice:    it.ServicePrice,
			ServiceDuration: it.ServiceDuration,
			BookingDate:     it.Date,
			BookingTime:     it.Time,
			ServiceOrder:    it.ServiceOrder,
		}
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return mapErr("create individual bookings", err)
	}
	for i := range items {
		items[i].ID = models[i].ID
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.getByID(ctx, r.db.WithContext(ctx), id)
}

func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	return r.getByID(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *BookingRepository) getByID(ctx context.Context, q *gorm.DB, id string) (*domain.Booking, error) {
	var m bookingModel
	if err := q.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapErr("get booking", err)
	}
	out := []*domain.Booking{toDomainBooking(m)}
	if err := r.attachIndividual(ctx, out); err != nil {
		return nil, err
	}
	return out[0], nil
}

// List returns every booking ordered by date and time descending, or the
// bookings of one date ordered by time.
func (r *BookingRepository) List(ctx context.Context, date string) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&bookingModel{})
	if date != "" {
		q = q.Where("booking_date = ?", date).Order("booking_time ASC")
	} else {
		q = q.Order("booking_date DESC").Order("booking_time DESC")
	}

	var rows []bookingModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, mapErr("list bookings", err)
	}

	ptrs := make([]*domain.Booking, len(rows))
	for i, m := range rows {
		ptrs[i] = toDomainBooking(m)
	}
	if err := r.attachIndividual(ctx, ptrs); err != nil {
		return nil, err
	}

	out := make([]domain.Booking, len(ptrs))
	for i, b := range ptrs {
		out[i] = *b
	}
	return out, nil
}

func (r *BookingRepository) attachIndividual(ctx context.Context, bookings []*domain.Booking) error {
	byID := make(map[string]*domain.Booking)
	var ids []string
	for _, b := range bookings {
		if b.BookingType == domain.BookingIndividual {
			byID[b.ID] = b
			ids = append(ids, b.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var rows []individualServiceModel
	err := r.db.WithContext(ctx).
		Where("main_booking_id IN ?", ids).
		Order("main_booking_id").Order("service_order").
		Find(&rows).Error
	if err != nil {
		return mapErr("list individual bookings", err)
	}
	for _, m := range rows {
		b := byID[m.MainBookingID]
		b.IndividualServices = append(b.IndividualServices, toDomainIndividual(m))
	}
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, at time.Time) error {
	updates := map[string]any{
		"status":     string(status),
		"updated_at": at,
	}
	switch status {
	case domain.BookingCancelled:
		updates["cancelled_at"] = at
	case domain.BookingCompleted:
		updates["completed_at"] = at
	}

	tx := r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return mapErr("update booking status", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("update booking status: %w", ledger.ErrNotFound)
	}
	return nil
}

// ListClaims returns the slots held by bookings and sub-bookings on or after from.
// A sub-booking claim carries its parent's status and creation time; the result
// is ordered oldest booking first.
func (r *BookingRepository) ListClaims(ctx context.Context, from string) ([]ledger.SlotClaim, error) {
	var main []bookingModel
	err := r.db.WithContext(ctx).
		Select("id", "booking_date", "booking_time", "status", "created_at").
		Where("booking_date >= ?", from).
		Find(&main).Error
	if err != nil {
		return nil, mapErr("list booking claims", err)
	}

	var subs []individualServiceModel
	err = r.db.WithContext(ctx).
		Select("main_booking_id", "booking_date", "booking_time").
		Where("booking_date >= ?", from).
		Order("id ASC").
		Find(&subs).Error
	if err != nil {
		return nil, mapErr("list individual claims", err)
	}

	parents := make(map[string]bookingModel, len(main))
	for _, m := range main {
		parents[m.ID] = m
	}
	var missing []string
	for _, m := range subs {
		if _, ok := parents[m.MainBookingID]; !ok {
			missing = append(missing, m.MainBookingID)
		}
	}
	if len(missing) > 0 {
		var older []bookingModel
		err = r.db.WithContext(ctx).
			Select("id", "status", "created_at").
			Where("id IN ?", missing).
			Find(&older).Error
		if err != nil {
			return nil, mapErr("list claim parents", err)
		}
		for _, m := range older {
			parents[m.ID] = m
		}
	}

	claims := make([]ledger.SlotClaim, 0, len(main)+len(subs))
	for _, m := range main {
		claims = append(claims, ledger.SlotClaim{
			Date:      m.BookingDate,
			Time:      m.BookingTime,
			BookingID: m.ID,
			Status:    domain.BookingStatus(m.Status),
			CreatedAt: m.CreatedAt,
		})
	}
	for _, m := range subs {
		parent, ok := parents[m.MainBookingID]
		if !ok {
			continue
		}
		claims = append(claims, ledger.SlotClaim{
			Date:      m.BookingDate,
			Time:      m.BookingTime,
			BookingID: m.MainBookingID,
			Status:    domain.BookingStatus(parent.Status),
			CreatedAt: parent.CreatedAt,
		})
	}

	// booking ids are time-ordered, so they break ties between equal timestamps
	sort.SliceStable(claims, func(i, j int) bool {
		if !claims[i].CreatedAt.Equal(claims[j].CreatedAt) {
			return claims[i].CreatedAt.Before(claims[j].CreatedAt)
		}
		return claims[i].BookingID < claims[j].BookingID
	})
	return claims, nil
}
