package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Terence890/Nebula-Stream/models"
)

// SessionRepository persists login sessions.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a new session.
func (r *SessionRepository) Create(s *models.Session) error {
	_, err := r.db.exec(`
		INSERT INTO sessions (id, account_id, expires_at, created_at, user_agent, ip_address)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.AccountID, s.ExpiresAt.UTC(), s.CreatedAt.UTC(), s.UserAgent, s.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Get returns the session or nil when it does not exist.
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	var s models.Session
	err := r.db.queryRow(`
		SELECT id, account_id, expires_at, created_at, user_agent, ip_address
		FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.AccountID, &s.ExpiresAt, &s.CreatedAt, &s.UserAgent, &s.IPAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return &s, nil
}

// UpdateExpiry moves a session's expiry.
func (r *SessionRepository) UpdateExpiry(id string, expiresAt time.Time) error {
	if _, err := r.db.exec(`UPDATE sessions SET expires_at = ? WHERE id = ?`, expiresAt.UTC(), id); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (r *SessionRepository) Delete(id string) error {
	if _, err := r.db.exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteForAccount removes every session owned by an account.
func (r *SessionRepository) DeleteForAccount(accountID string) error {
	if _, err := r.db.exec(`DELETE FROM sessions WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("delete account sessions: %w", err)
	}
	return nil
}

// DeleteExpired purges sessions that expired before now and reports how many went.
func (r *SessionRepository) DeleteExpired(now time.Time) (int64, error) {
	res, err := r.db.exec(`DELETE FROM sessions WHERE expires_at < ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
