package account

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^09\d{8}$`)

// ValidPhone reports whether phone is a local mobile number.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetByChatID(ctx context.Context, chatID int64) (*Account, error)
	GetByPhone(ctx context.Context, phone string) (*Account, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterParams struct {
	ChatID      int64
	PhoneNumber string
	FirstName   string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*Account, error) {
	phone := strings.TrimSpace(params.PhoneNumber)
	if !ValidPhone(phone) {
		return nil, ErrInvalidPhone
	}

	a := &Account{
		ChatID:      params.ChatID,
		PhoneNumber: phone,
		FirstName:   strings.TrimSpace(params.FirstName),
	}
	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, fmt.Errorf("registering account: %w", err)
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, chatID int64) (*Account, error) {
	return s.repo.GetByChatID(ctx, chatID)
}

func (s *Service) GetByPhone(ctx context.Context, phone string) (*Account, error) {
	return s.repo.GetByPhone(ctx, strings.TrimSpace(phone))
}
