package admin

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bookwithbea/internal/domain"
	"bookwithbea/internal/modules/ledger"
)

// RoleAdmin is the role claim carried by admin tokens.
const RoleAdmin = "admin"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginDisabled is returned when no admin password hash is configured.
	ErrLoginDisabled = errors.New("admin login disabled")
)

type Service struct {
	ledger       Ledger
	tokens       TokenIssuer
	passwordHash []byte
	log          *zap.Logger
}

func NewService(l Ledger, tokens TokenIssuer, passwordHash string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		ledger:       l,
		tokens:       tokens,
		passwordHash: []byte(passwordHash),
		log:          log,
	}
}

// Login checks password against the configured bcrypt hash and issues an admin token.
func (s *Service) Login(_ context.Context, password string) (*LoginResponse, error) {
	if len(s.passwordHash) == 0 {
		return nil, ErrLoginDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.log.Warn("admin login rejected")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}

	token, err := s.tokens.GenerateToken(RoleAdmin, RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *Service) BlockDate(ctx context.Context, req BlockDateRequest) error {
	return s.ledger.BlockDate(ctx, req.Date, req.Reason)
}

// UnblockDate returns ledger.ErrNotFound if date was not blocked. Slots are
// restored either way.
func (s *Service) UnblockDate(ctx context.Context, date string) error {
	existed, err := s.ledger.UnblockDate(ctx, date)
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("blocked date %s: %w", date, ledger.ErrNotFound)
	}
	return nil
}

func (s *Service) ListBlockedDates(ctx context.Context) ([]domain.BlockedDate, error) {
	return s.ledger.ListBlockedDates(ctx)
}

func (s *Service) GenerateSlots(ctx context.Context, req GenerateSlotsRequest) (int64, error) {
	return s.ledger.GenerateSlots(ctx, req.StartDate, req.EndDate)
}

func (s *Service) ReleaseSlot(ctx context.Context, req ReleaseSlotRequest) error {
	return s.ledger.ReleaseSlot(ctx, req.Date, req.Time)
}

func (s *Service) ResyncSlots(ctx context.Context, from string) (ledger.ResyncReport, error) {
	return s.ledger.ResyncSlots(ctx, from)
}
