package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookwithbea/internal/modules/ledger"
)

type repos struct {
	customers    *CustomerRepository
	bookings     *BookingRepository
	slots        *SlotRepository
	blockedDates *BlockedDateRepository
}

func newRepos(db *gorm.DB) repos {
	return repos{
		customers:    NewCustomerRepository(db),
		bookings:     NewBookingRepository(db),
		slots:        NewSlotRepository(db),
		blockedDates: NewBlockedDateRepository(db),
	}
}

func (r repos) Customers() ledger.CustomerRepository       { return r.customers }
func (r repos) Bookings() ledger.BookingRepository         { return r.bookings }
func (r repos) Slots() ledger.SlotRepository               { return r.slots }
func (r repos) BlockedDates() ledger.BlockedDateRepository { return r.blockedDates }

// Store is the GORM implementation of ledger.Store.
type Store struct {
	repos
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{repos: newRepos(db), db: db}
}

// WithinTx runs fn in a transaction. Inside fn only the given repositories may
// be used: SQLite runs on a single connection.
func (s *Store) WithinTx(ctx context.Context, fn func(r ledger.Repositories) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(newRepos(tx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		zap.L().Error("transaction failed", zap.Error(err))
		return mapErr("transaction", err)
	}
	return err
}
