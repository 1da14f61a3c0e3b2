package model

import "time"

// RefreshTokenRecord is the server-side trace of an issued refresh token.
// Only a SHA-256 hash of the raw secret is ever stored; the raw secret lives
// in the client's cookie and nowhere else.
type RefreshTokenRecord struct {
	TokenHash string
	UserID    string
	UserAgent string
	IP        string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// DeviceMeta carries the request metadata stored alongside a refresh token
// for session auditing.
type DeviceMeta struct {
	UserAgent string
	IP        string
}
