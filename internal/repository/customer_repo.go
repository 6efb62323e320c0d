package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookwithbea/internal/domain"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func toDomainCustomer(m customerModel) *domain.Customer {
	favs := []string(m.FavoriteServices)
	if favs == nil {
		favs = []string{}
	}
	return &domain.Customer{
		ID:               m.ID,
		Email:            m.Email,
		Name:             m.Name,
		Phone:            m.Phone,
		FavoriteServices: favs,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toCustomerModel(c *domain.Customer) customerModel {
	favs := c.FavoriteServices
	if favs == nil {
		favs = []string{}
	}
	return customerModel{
		ID:               c.ID,
		Email:            c.Email,
		Name:             c.Name,
		Phone:            c.Phone,
		FavoriteServices: datatypes.JSONSlice[string](favs),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var m customerModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, mapErr("get customer", err)
	}
	return toDomainCustomer(m), nil
}

// FindOrCreate keeps an existing record untouched; name and phone of later
// bookings are stored on the booking row only.
func (r *CustomerRepository) FindOrCreate(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	m := toCustomerModel(c)
	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&m)
	if tx.Error != nil {
		return nil, mapErr("create customer", tx.Error)
	}
	if tx.RowsAffected == 1 && m.ID != 0 {
		return toDomainCustomer(m), nil
	}
	return r.GetByEmail(ctx, c.Email)
}

type customerStatsRow struct {
	TotalBookings int64
	TotalSpent    float64
	FirstVisit    *string
	LastVisit     *string
}

// GetStats aggregates the customer's confirmed bookings.
func (r *CustomerRepository) GetStats(ctx context.Context, email string) (*domain.CustomerStats, error) {
	c, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var row customerStatsRow
	err = r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Select(`COUNT(*) AS total_bookings,
			COALESCE(SUM(total_price), 0) AS total_spent,
			MIN(booking_date) AS first_visit,
			MAX(booking_date) AS last_visit`).
		Where("customer_id = ? AND status = ?", c.ID, string(domain.BookingConfirmed)).
		Scan(&row).Error
	if err != nil {
		return nil, mapErr("customer stats", err)
	}

	stats := &domain.CustomerStats{
		Customer:      *c,
		TotalBookings: row.TotalBookings,
		TotalSpent:    row.TotalSpent,
	}
	if row.FirstVisit != nil {
		stats.FirstVisit = *row.FirstVisit
	}
	if row.LastVisit != nil {
		stats.LastVisit = *row.LastVisit
	}
	return stats, nil
}
