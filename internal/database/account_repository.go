package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Terence890/Nebula-Stream/models"
)

// AccountRepository handles account database operations.
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, email, password_hash, subscription_plan, created_at, updated_at`

// Create inserts a new account. Returns ErrConflict when the email is taken.
func (r *AccountRepository) Create(account *models.Account) error {
	_, err := r.db.exec(`
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		account.ID, account.Email, account.PasswordHash, account.SubscriptionPlan,
		account.CreatedAt.UTC(), account.UpdatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID returns the account or nil when it does not exist.
func (r *AccountRepository) GetByID(id string) (*models.Account, error) {
	return r.scanOne(r.db.queryRow(`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
}

// GetByEmail looks an account up by its lower-cased email.
func (r *AccountRepository) GetByEmail(email string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.db.queryRow(`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email))
}

func (r *AccountRepository) scanOne(row *sql.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.SubscriptionPlan, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}
