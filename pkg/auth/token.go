// Package auth implements the OAuth token lifecycle: load, proactive and
// on-demand refresh, and atomic persistence.
package auth

import (
	"encoding/json"
	"time"
)

// expirySlack is the window before absolute expiry at which a token is
// treated as expired outright.
const expirySlack = 5 * time.Minute

// proactiveWindow is the window before absolute expiry at which a valid
// token is proactively refreshed.
const proactiveWindow = 1 * time.Hour

// Token is the persisted OAuth credential set.
type Token struct {
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"-"`
	TokenType    string    `json:"-"`
	Scope        string    `json:"-"`
}

// tokenWire is the on-disk JSON shape from spec.md §6: expires_at is epoch
// milliseconds, not an ISO-8601 string.
type tokenWire struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

// MarshalJSON encodes the token in the persisted wire shape.
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(tokenWire{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.ExpiresAt.UnixMilli(),
		TokenType:    t.TokenType,
		Scope:        t.Scope,
	})
}

// UnmarshalJSON decodes the token from the persisted wire shape.
func (t *Token) UnmarshalJSON(data []byte) error {
	var w tokenWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.AccessToken = w.AccessToken
	t.RefreshToken = w.RefreshToken
	t.ExpiresAt = time.UnixMilli(w.ExpiresAt)
	t.TokenType = w.TokenType
	t.Scope = w.Scope
	return nil
}

// IsExpired reports whether the token should be treated as expired: expiry
// minus now is at most 5 minutes.
func (t *Token) IsExpired(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return true
	}
	return t.ExpiresAt.Sub(now) <= expirySlack
}

// NeedsProactiveRefresh reports whether the token should be refreshed
// ahead of expiry: expiry minus now is at most 1 hour.
func (t *Token) NeedsProactiveRefresh(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return true
	}
	return t.ExpiresAt.Sub(now) <= proactiveWindow
}
