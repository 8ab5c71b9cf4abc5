package models

import "time"

// Profile models a named viewing identity under one account.
type Profile struct {
	ID        string    `json:"id"`
	AccountID string    `json:"user_id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	IsKids    bool      `json:"is_kids"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileCreate captures the data required to create a profile.
type ProfileCreate struct {
	Name   string `json:"name"`
	IsKids bool   `json:"is_kids"`
}
