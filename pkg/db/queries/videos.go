package queries

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

const videoColumns = `id, title, description, storage_path, file_size, content_type, month_id, client_id, created_by, status, status_updated_at, status_updated_by, created_at, updated_at`

// CreateVideo inserts a video row. Status defaults to pending when unset.
func CreateVideo(video *db.Video) (*db.Video, error) {
	if video.Status == "" {
		video.Status = db.StatusPending
	}

	query := `
		INSERT INTO videos (title, description, storage_path, file_size, content_type, month_id, client_id, created_by, status)
		VALUES (:title, :description, :storage_path, :file_size, :content_type, :month_id, :client_id, :created_by, :status)
		RETURNING id, created_at, updated_at`

	rows, err := db.DB.NamedQuery(query, video)
	if err != nil {
		log.Errorf("Error creating video: %v", err)
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.StructScan(video); err != nil {
			log.Errorf("Error scanning video data after creation: %v", err)
			return nil, fmt.Errorf("error scanning video after creation: %w", err)
		}
	} else {
		log.Error("No rows returned after video creation.")
		return nil, fmt.Errorf("no rows returned after video creation")
	}

	log.Infof("Video '%s' created for client %s (ID: %s)", video.Title, video.ClientID.String(), video.ID.String())
	return video, nil
}

// FindVideoByID retrieves a video by ID. Returns (nil, nil) when no row
// matches.
func FindVideoByID(id uuid.UUID) (*db.Video, error) {
	video := &db.Video{}
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	err := db.DB.Get(video, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("Video with ID '%s' not found.", id.String())
			return nil, nil
		}
		log.Errorf("Error finding video by ID '%s': %v", id.String(), err)
		return nil, fmt.Errorf("error finding video by ID: %w", err)
	}
	return video, nil
}

// FindVideosByClientID lists a client's videos, newest first.
func FindVideosByClientID(clientID uuid.UUID) ([]db.Video, error) {
	var videos []db.Video
	query := `SELECT ` + videoColumns + ` FROM videos WHERE client_id = $1 ORDER BY created_at DESC`
	if err := db.DB.Select(&videos, query, clientID); err != nil {
		log.Errorf("Error finding videos for client '%s': %v", clientID.String(), err)
		return nil, fmt.Errorf("error finding videos by client ID: %w", err)
	}
	return videos, nil
}

// FindAllVideos lists every video, newest first.
func FindAllVideos() ([]db.Video, error) {
	var videos []db.Video
	query := `SELECT ` + videoColumns + ` FROM videos ORDER BY created_at DESC`
	if err := db.DB.Select(&videos, query); err != nil {
		log.Errorf("Error listing videos: %v", err)
		return nil, fmt.Errorf("error listing videos: %w", err)
	}
	return videos, nil
}

// FindVideosByMonthID lists videos grouped under a month bucket.
func FindVideosByMonthID(monthID uuid.UUID) ([]db.Video, error) {
	var videos []db.Video
	query := `SELECT ` + videoColumns + ` FROM videos WHERE month_id = $1 ORDER BY created_at DESC`
	if err := db.DB.Select(&videos, query, monthID); err != nil {
		log.Errorf("Error finding videos for month '%s': %v", monthID.String(), err)
		return nil, fmt.Errorf("error finding videos by month ID: %w", err)
	}
	return videos, nil
}

// FindVideoByStoragePath retrieves the video row backing a storage object.
// Returns (nil, nil) when no row matches; the storage sync endpoint uses that
// to detect orphaned objects.
func FindVideoByStoragePath(storagePath string) (*db.Video, error) {
	video := &db.Video{}
	query := `SELECT ` + videoColumns + ` FROM videos WHERE storage_path = $1`
	err := db.DB.Get(video, query, storagePath)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Errorf("Error finding video by storage path '%s': %v", storagePath, err)
		return nil, fmt.Errorf("error finding video by storage path: %w", err)
	}
	return video, nil
}

// UpdateVideoStatus records a status transition together with who made it and
// when.
func UpdateVideoStatus(id uuid.UUID, status string, at time.Time, by uuid.UUID) error {
	query := `
		UPDATE videos
		SET status = $2, status_updated_at = $3, status_updated_by = $4, updated_at = $3
		WHERE id = $1`
	result, err := db.DB.Exec(query, id, status, at, by)
	if err != nil {
		log.Errorf("Error updating status of video '%s': %v", id.String(), err)
		return fmt.Errorf("failed to update video status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		log.Warnf("No video found with ID '%s' for status update.", id.String())
		return sql.ErrNoRows
	}
	log.Infof("Video '%s' status set to '%s'.", id.String(), status)
	return nil
}

// DeleteVideo removes a video row.
func DeleteVideo(id uuid.UUID) error {
	result, err := db.DB.Exec(`DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		log.Errorf("Error deleting video with ID '%s': %v", id.String(), err)
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		log.Warnf("No video found with ID '%s' for deletion.", id.String())
		return sql.ErrNoRows
	}
	log.Infof("Video with ID '%s' deleted.", id.String())
	return nil
}
