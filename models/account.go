package models

import (
	"encoding/json"
	"time"
)

// DefaultSubscriptionPlan is assigned to newly registered accounts.
const DefaultSubscriptionPlan = "free"

// Account represents a registered user that can own multiple viewing profiles.
type Account struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"` // bcrypt hash, never serialised
	SubscriptionPlan string    `json:"subscription_plan"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MarshalJSON implements custom JSON marshaling to ensure password hash is never exposed in API responses.
func (a Account) MarshalJSON() ([]byte, error) {
	type AccountAlias Account // prevent recursion
	return json.Marshal(&struct {
		AccountAlias
	}{
		AccountAlias: AccountAlias(a),
	})
}

// Me is the public view of the authenticated account returned by /api/auth/me.
type Me struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	SubscriptionPlan string `json:"subscription_plan"`
}

// ToMe strips an account down to the fields a client may see about itself.
func (a Account) ToMe() Me {
	return Me{ID: a.ID, Email: a.Email, SubscriptionPlan: a.SubscriptionPlan}
}

// Credentials is the body of register and login requests.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is returned by register and login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
