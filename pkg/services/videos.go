package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

// ValidStatus reports whether s is one of the three allowed video statuses.
func ValidStatus(s string) bool {
	switch s {
	case db.StatusPending, db.StatusApproved, db.StatusRejected:
		return true
	}
	return false
}

// PreviewIDPrefix marks synthesized placeholder videos. They are never
// persisted and status transitions against them are rejected.
const PreviewIDPrefix = "preview-"

// VideoStore is the persistence surface the video lifecycle service needs.
type VideoStore interface {
	CreateVideo(v *db.Video) (*db.Video, error)
	FindVideoByID(id uuid.UUID) (*db.Video, error)
	FindVideosByClientID(clientID uuid.UUID) ([]db.Video, error)
	FindAllVideos() ([]db.Video, error)
	FindVideosByMonthID(monthID uuid.UUID) ([]db.Video, error)
	UpdateVideoStatus(id uuid.UUID, status string, at time.Time, by uuid.UUID) error
	DeleteVideo(id uuid.UUID) error
	DeleteCommentsByVideoID(videoID uuid.UUID) error
	DeleteMonth(id uuid.UUID) error
	FindUserByID(id uuid.UUID) (*db.User, error)
}

// BlobDeleter removes an object from the video bucket.
type BlobDeleter interface {
	Delete(ctx context.Context, objectPath string) error
}

// VideoService orchestrates video creation, status transitions, and the
// delete cascade.
type VideoService struct {
	store  VideoStore
	months *MonthService
	blobs  BlobDeleter
}

func NewVideoService(store VideoStore, months *MonthService, blobs BlobDeleter) *VideoService {
	return &VideoService{store: store, months: months, blobs: blobs}
}

// CreateVideoInput carries everything needed to persist a video. Exactly one
// of MonthID or the (Month, Year) pair selects the month bucket.
type CreateVideoInput struct {
	Title       string
	Description *string
	StoragePath string
	FileSize    *int64
	ContentType *string
	ClientID    uuid.UUID
	CreatedBy   uuid.UUID
	MonthID     uuid.NullUUID
	Month       int
	Year        int
}

// Create validates required fields, resolves the month bucket, and persists
// the video with status pending. Field validation happens before any insert
// so callers get a named field back instead of an opaque constraint error.
//
// If this request created the month row and the video insert then fails, the
// orphan month is removed best-effort.
func (s *VideoService) Create(in CreateVideoInput) (*db.Video, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, Validationf("title is required")
	}
	if in.ClientID == uuid.Nil {
		return nil, Validationf("client_id is required")
	}
	if strings.TrimSpace(in.StoragePath) == "" {
		return nil, Validationf("storage_path is required")
	}
	if in.CreatedBy == uuid.Nil {
		return nil, Validationf("created_by is required")
	}

	client, err := s.store.FindUserByID(in.ClientID)
	if err != nil {
		return nil, Upstream("Failed to look up client", err)
	}
	if client == nil {
		return nil, Validationf("client_id does not reference an existing user")
	}
	if client.Role != db.RoleClient {
		return nil, Validationf("client_id must reference a client-role user")
	}

	var monthID uuid.UUID
	createdMonth := false
	if in.MonthID.Valid {
		month, err := s.months.Get(in.MonthID.UUID)
		if err != nil {
			if KindOf(err) == KindNotFound {
				return nil, Validationf("month_id does not reference an existing month")
			}
			return nil, err
		}
		monthID = month.ID
	} else {
		month, created, err := s.months.Resolve(in.Month, in.Year, in.CreatedBy)
		if err != nil {
			return nil, err
		}
		monthID = month.ID
		createdMonth = created
	}

	video := &db.Video{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		StoragePath: in.StoragePath,
		FileSize:    in.FileSize,
		ContentType: in.ContentType,
		MonthID:     monthID,
		ClientID:    in.ClientID,
		CreatedBy:   in.CreatedBy,
		Status:      db.StatusPending,
	}

	created, err := s.store.CreateVideo(video)
	if err != nil {
		if createdMonth {
			if derr := s.store.DeleteMonth(monthID); derr != nil {
				log.Warnf("Failed to clean up orphan month %s after video insert failure: %v", monthID.String(), derr)
			}
		}
		return nil, Upstream("Failed to create video", err)
	}
	return created, nil
}

// SetStatus applies a status transition. Every transition between the three
// statuses is allowed; authorization is editor, or the client who owns the
// video.
func (s *VideoService) SetStatus(videoID string, newStatus string, actorID uuid.UUID, actorRole string) (*db.Video, error) {
	if strings.HasPrefix(videoID, PreviewIDPrefix) {
		return nil, Validationf("preview videos do not support status changes")
	}
	id, err := uuid.Parse(videoID)
	if err != nil {
		return nil, Validationf("invalid video id")
	}
	if !ValidStatus(newStatus) {
		return nil, Validationf("status must be one of pending, approved, rejected")
	}

	video, err := s.store.FindVideoByID(id)
	if err != nil {
		return nil, Upstream("Failed to look up video", err)
	}
	if video == nil {
		return nil, NotFoundf("Video not found")
	}

	if actorRole != db.RoleEditor && actorID != video.ClientID {
		return nil, Forbiddenf("Only editors or the owning client may change video status")
	}

	now := time.Now().UTC()
	if err := s.store.UpdateVideoStatus(id, newStatus, now, actorID); err != nil {
		return nil, Upstream("Failed to update video status", err)
	}

	video.Status = newStatus
	video.StatusUpdatedAt = &now
	video.StatusUpdatedBy = uuid.NullUUID{UUID: actorID, Valid: true}
	return video, nil
}

// Delete removes a video: the backing storage object best-effort, then the
// row, then its comments. A storage failure is logged and tolerated; orphaned
// blobs beat a blocked delete.
func (s *VideoService) Delete(ctx context.Context, id uuid.UUID) error {
	video, err := s.store.FindVideoByID(id)
	if err != nil {
		return Upstream("Failed to look up video", err)
	}
	if video == nil {
		return NotFoundf("Video not found")
	}

	if s.blobs != nil && video.StoragePath != "" {
		if err := s.blobs.Delete(ctx, video.StoragePath); err != nil {
			log.Warnf("Failed to delete storage object '%s' for video %s: %v", video.StoragePath, id.String(), err)
		}
	}

	if err := s.store.DeleteVideo(id); err != nil {
		return Upstream("Failed to delete video", err)
	}
	if err := s.store.DeleteCommentsByVideoID(id); err != nil {
		return Upstream("Failed to delete video comments", err)
	}
	return nil
}

// Get returns a video by ID.
func (s *VideoService) Get(id uuid.UUID) (*db.Video, error) {
	video, err := s.store.FindVideoByID(id)
	if err != nil {
		return nil, Upstream("Failed to look up video", err)
	}
	if video == nil {
		return nil, NotFoundf("Video not found")
	}
	return video, nil
}

// VideoItem is the listing shape returned to clients. Preview entries carry a
// synthetic string ID and are never backed by rows or storage objects.
type VideoItem struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     *string       `json:"description,omitempty"`
	StoragePath     string        `json:"storage_path,omitempty"`
	FileSize        *int64        `json:"file_size,omitempty"`
	ContentType     *string       `json:"content_type,omitempty"`
	MonthID         string        `json:"month_id,omitempty"`
	ClientID        string        `json:"client_id,omitempty"`
	Status          string        `json:"status"`
	StatusUpdatedAt *time.Time    `json:"status_updated_at,omitempty"`
	StatusUpdatedBy uuid.NullUUID `json:"status_updated_by,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	Preview         bool          `json:"preview"`
}

func itemFromVideo(v db.Video) VideoItem {
	return VideoItem{
		ID:              v.ID.String(),
		Title:           v.Title,
		Description:     v.Description,
		StoragePath:     v.StoragePath,
		FileSize:        v.FileSize,
		ContentType:     v.ContentType,
		MonthID:         v.MonthID.String(),
		ClientID:        v.ClientID.String(),
		Status:          v.Status,
		StatusUpdatedAt: v.StatusUpdatedAt,
		StatusUpdatedBy: v.StatusUpdatedBy,
		CreatedAt:       v.CreatedAt,
	}
}

// previewTitles seeds the placeholder list shown to clients with no uploads
// yet.
var previewTitles = []string{
	"Example: product launch teaser",
	"Example: monthly recap edit",
	"Example: behind the scenes cut",
}

// PreviewVideos synthesizes the placeholder entries for a client.
func PreviewVideos(clientID uuid.UUID) []VideoItem {
	now := time.Now().UTC()
	items := make([]VideoItem, 0, len(previewTitles))
	for i, title := range previewTitles {
		items = append(items, VideoItem{
			ID:        fmt.Sprintf("%s%d", PreviewIDPrefix, i+1),
			Title:     title,
			ClientID:  clientID.String(),
			Status:    db.StatusPending,
			CreatedAt: now,
			Preview:   true,
		})
	}
	return items
}

// ListForClient lists a client's videos. With includePreviews set and no real
// videos persisted, it returns the synthesized placeholder set instead.
func (s *VideoService) ListForClient(clientID uuid.UUID, includePreviews bool) ([]VideoItem, error) {
	videos, err := s.store.FindVideosByClientID(clientID)
	if err != nil {
		return nil, Upstream("Failed to list videos", err)
	}
	if len(videos) == 0 && includePreviews {
		return PreviewVideos(clientID), nil
	}
	items := make([]VideoItem, 0, len(videos))
	for _, v := range videos {
		items = append(items, itemFromVideo(v))
	}
	return items, nil
}

// ListAll lists every video.
func (s *VideoService) ListAll() ([]VideoItem, error) {
	videos, err := s.store.FindAllVideos()
	if err != nil {
		return nil, Upstream("Failed to list videos", err)
	}
	items := make([]VideoItem, 0, len(videos))
	for _, v := range videos {
		items = append(items, itemFromVideo(v))
	}
	return items, nil
}

// ListByMonth lists videos grouped under a month bucket.
func (s *VideoService) ListByMonth(monthID uuid.UUID) ([]VideoItem, error) {
	videos, err := s.store.FindVideosByMonthID(monthID)
	if err != nil {
		return nil, Upstream("Failed to list videos", err)
	}
	items := make([]VideoItem, 0, len(videos))
	for _, v := range videos {
		items = append(items, itemFromVideo(v))
	}
	return items, nil
}
