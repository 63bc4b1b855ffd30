package models

import "time"

// RevokedToken is a blacklist entry. A row's existence makes the token
// unusable even while it is still cryptographically valid. ExpiresAt captures
// the token's own expiry so the sweeper can drop rows that no longer matter.
type RevokedToken struct {
	Base
	Token     string    `gorm:"type:varchar(500);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
