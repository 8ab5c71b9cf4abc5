package accounts

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Terence890/Nebula-Stream/internal/database"
	"github.com/Terence890/Nebula-Stream/models"
)

var (
	ErrRepositoryRequired = errors.New("account repository not provided")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidEmail       = errors.New("email address is invalid")
	ErrPasswordRequired   = errors.New("password is required")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Store is the persistence the accounts service needs.
type Store interface {
	Create(account *models.Account) error
	GetByID(id string) (*models.Account, error)
	GetByEmail(email string) (*models.Account, error)
}

var _ Store = (*database.AccountRepository)(nil)

// Service manages registration and credential checks for accounts.
type Service struct {
	store Store
	cost  int
}

// NewService creates an accounts service backed by the given store.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, ErrRepositoryRequired
	}
	return &Service{store: store, cost: bcrypt.DefaultCost}, nil
}

// normalizeEmail lower-cases and validates an email address.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmailRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Register creates a new account with the default subscription plan.
func (s *Service) Register(email, password string) (models.Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return models.Account{}, err
	}
	if strings.TrimSpace(password) == "" {
		return models.Account{}, ErrPasswordRequired
	}

	existing, err := s.store.GetByEmail(email)
	if err != nil {
		return models.Account{}, fmt.Errorf("lookup account: %w", err)
	}
	if existing != nil {
		return models.Account{}, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := models.Account{
		ID:               uuid.NewString(),
		Email:            email,
		PasswordHash:     string(hash),
		SubscriptionPlan: models.DefaultSubscriptionPlan,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.Create(&account); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return models.Account{}, ErrEmailExists
		}
		return models.Account{}, err
	}
	return account, nil
}

// Authenticate verifies the email and password, returning the account if valid.
func (s *Service) Authenticate(email, password string) (models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.Account{}, ErrInvalidCredentials
	}

	account, err := s.store.GetByEmail(email)
	if err != nil {
		return models.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	if account == nil {
		// Use bcrypt comparison anyway to prevent timing attacks
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$dummy"), []byte(password))
		return models.Account{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return models.Account{}, ErrInvalidCredentials
	}
	return *account, nil
}

// Get returns the account with the given ID.
func (s *Service) Get(id string) (models.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Account{}, ErrAccountNotFound
	}
	account, err := s.store.GetByID(id)
	if err != nil {
		return models.Account{}, fmt.Errorf("lookup account: %w", err)
	}
	if account == nil {
		return models.Account{}, ErrAccountNotFound
	}
	return *account, nil
}
