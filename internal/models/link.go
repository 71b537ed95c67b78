package models

import (
	"time"
)

// StatusActive is the only record status currently issued. The column
// is kept for future soft-delete/suspend states.
const StatusActive = "active"

// ShortLinkRecord is the persisted entity behind a short URL. Once
// written, only Clicks and LastAccessed ever change.
type ShortLinkRecord struct {
	ShortID      string `json:"short_id"`
	CreatedAt    int64  `json:"created_at"`
	OriginalURL  string `json:"original_url"`
	ExpiresAt    int64  `json:"expires_at"`
	Status       string `json:"status"`
	Clicks       int64  `json:"clicks"`
	LastAccessed int64  `json:"last_accessed"`
	RequestID    string `json:"request_id"`
	OwnerID      string `json:"owner_id,omitempty"`
	ExpiryDays   int    `json:"expiry_days"`
}

// Expired reports whether the record's expiry timestamp has passed.
func (r *ShortLinkRecord) Expired(now time.Time) bool {
	return r.ExpiresAt < now.Unix()
}

// CreateLinkInput carries the parameters of one create request.
// ExpiresInDays is deliberately untyped: callers may send a number, a
// numeric string, or nothing, and normalization decides what it means.
type CreateLinkInput struct {
	OriginalURL   string
	ExpiresInDays any
	OwnerID       string
	RequestID     string
}

// CreateLinkResponse is the payload returned on successful creation.
type CreateLinkResponse struct {
	ShortURL       string `json:"short_url"`
	OriginalURL    string `json:"original_url"`
	ExpirationDate string `json:"expiration_date"`
	ExpiresInDays  int    `json:"expires_in_days"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	RequestID      string `json:"request_id"`
}

// FormatTimestamp renders an epoch-seconds timestamp as ISO-8601 UTC
// with millisecond precision and a Z suffix.
func FormatTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02T15:04:05.000Z")
}
