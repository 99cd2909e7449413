package domain

import "time"

// RefreshToken is a stored, hashed long-lived credential. The raw token is
// never persisted; lookups go through the SHA-256 hash. A successful
// refresh deletes the row and stores a replacement (rotation), so no two
// valid tokens of one rotation chain coexist.
type RefreshToken struct {
	TokenHash string    `json:"-"` // unique
	UserID    string    `json:"userID"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsExpired reports whether the token is past its expiry at the given instant.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
