package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Role values for User.Role.
const (
	RoleEditor = "editor"
	RoleClient = "client"
)

// Video status values. Every transition between them is allowed.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type User struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	Name         string         `db:"name" json:"name"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         string         `db:"role" json:"role"`
	Active       bool           `db:"active" json:"active"`
	WebsiteURL   *string        `db:"website_url" json:"website_url,omitempty"`
	Location     *string        `db:"location" json:"location,omitempty"`
	Keywords     pq.StringArray `db:"keywords" json:"keywords,omitempty"`

	// Password-reset token, stored as a sha256 hex digest. Never serialized.
	ResetTokenHash    *string    `db:"reset_token_hash" json:"-"`
	ResetTokenExpires *time.Time `db:"reset_token_expires" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Month is a global calendar bucket shared by all clients. At most one row
// exists per (month, year) pair, enforced by a unique index.
type Month struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Month     int       `db:"month" json:"month"`
	Year      int       `db:"year" json:"year"`
	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Video struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	Title           string        `db:"title" json:"title"`
	Description     *string       `db:"description" json:"description,omitempty"`
	StoragePath     string        `db:"storage_path" json:"storage_path"`
	FileSize        *int64        `db:"file_size" json:"file_size,omitempty"`
	ContentType     *string       `db:"content_type" json:"content_type,omitempty"`
	MonthID         uuid.UUID     `db:"month_id" json:"month_id"`
	ClientID        uuid.UUID     `db:"client_id" json:"client_id"`
	CreatedBy       uuid.UUID     `db:"created_by" json:"created_by"`
	Status          string        `db:"status" json:"status"`
	StatusUpdatedAt *time.Time    `db:"status_updated_at" json:"status_updated_at,omitempty"`
	StatusUpdatedBy uuid.NullUUID `db:"status_updated_by" json:"status_updated_by,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

type Comment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	VideoID   uuid.UUID `db:"video_id" json:"video_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	Resolved  bool      `db:"resolved" json:"resolved"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type SocialMediaAccount struct {
	ID              uuid.UUID `db:"id" json:"id"`
	ClientID        uuid.UUID `db:"client_id" json:"client_id"`
	Platform        string    `db:"platform" json:"platform"`
	Username        string    `db:"username" json:"username"`
	DisplayName     *string   `db:"display_name" json:"display_name,omitempty"`
	ProfileURL      *string   `db:"profile_url" json:"profile_url,omitempty"`
	ProfileImageURL *string   `db:"profile_image_url" json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// SocialMediaMetrics is one time-series sample for an account. The natural
// key is (account_id, record_date); writing the same key twice updates the
// existing row.
type SocialMediaMetrics struct {
	ID             uuid.UUID `db:"id" json:"id"`
	AccountID      uuid.UUID `db:"account_id" json:"account_id"`
	RecordDate     time.Time `db:"record_date" json:"record_date"`
	Followers      int64     `db:"followers" json:"followers"`
	Following      *int64    `db:"following" json:"following,omitempty"`
	PostsCount     *int64    `db:"posts_count" json:"posts_count,omitempty"`
	Reach          *int64    `db:"reach" json:"reach,omitempty"`
	Impressions    *int64    `db:"impressions" json:"impressions,omitempty"`
	ProfileViews   *int64    `db:"profile_views" json:"profile_views,omitempty"`
	EngagementRate *float64  `db:"engagement_rate" json:"engagement_rate,omitempty"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
