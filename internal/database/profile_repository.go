package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Terence890/Nebula-Stream/models"
)

// ProfileRepository persists viewing profiles.
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a profile.
func (r *ProfileRepository) Create(p *models.Profile) error {
	_, err := r.db.exec(`
		INSERT INTO profiles (id, account_id, name, avatar_url, is_kids, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.AccountID, p.Name, p.AvatarURL, p.IsKids, p.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// ListByAccount returns an account's profiles in creation order.
func (r *ProfileRepository) ListByAccount(accountID string) ([]models.Profile, error) {
	rows, err := r.db.query(`
		SELECT id, account_id, name, avatar_url, is_kids, created_at
		FROM profiles WHERE account_id = ?
		ORDER BY created_at ASC, id ASC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Name, &p.AvatarURL, &p.IsKids, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// GetByID returns the profile or nil when it does not exist.
func (r *ProfileRepository) GetByID(id string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.queryRow(`
		SELECT id, account_id, name, avatar_url, is_kids, created_at
		FROM profiles WHERE id = ?`, id,
	).Scan(&p.ID, &p.AccountID, &p.Name, &p.AvatarURL, &p.IsKids, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &p, nil
}
