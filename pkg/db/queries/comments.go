package queries

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

const commentColumns = `id, video_id, user_id, content, resolved, created_at`

// CreateComment inserts a comment row.
func CreateComment(comment *db.Comment) (*db.Comment, error) {
	query := `
		INSERT INTO comments (video_id, user_id, content)
		VALUES (:video_id, :user_id, :content)
		RETURNING id, resolved, created_at`

	rows, err := db.DB.NamedQuery(query, comment)
	if err != nil {
		log.Errorf("Error creating comment: %v", err)
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.StructScan(comment); err != nil {
			log.Errorf("Error scanning comment data after creation: %v", err)
			return nil, fmt.Errorf("error scanning comment after creation: %w", err)
		}
	} else {
		log.Error("No rows returned after comment creation.")
		return nil, fmt.Errorf("no rows returned after comment creation")
	}

	log.Infof("Comment created on video %s by user %s.", comment.VideoID.String(), comment.UserID.String())
	return comment, nil
}

// FindCommentByID retrieves a comment by ID. Returns (nil, nil) when no row
// matches.
func FindCommentByID(id uuid.UUID) (*db.Comment, error) {
	comment := &db.Comment{}
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	err := db.DB.Get(comment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("Comment with ID '%s' not found.", id.String())
			return nil, nil
		}
		log.Errorf("Error finding comment by ID '%s': %v", id.String(), err)
		return nil, err
	}
	return comment, nil
}

// FindCommentsByVideoID lists a video's comments, newest first.
func FindCommentsByVideoID(videoID uuid.UUID) ([]db.Comment, error) {
	var comments []db.Comment
	query := `SELECT ` + commentColumns + ` FROM comments WHERE video_id = $1 ORDER BY created_at DESC`
	if err := db.DB.Select(&comments, query, videoID); err != nil {
		log.Errorf("Error finding comments for video '%s': %v", videoID.String(), err)
		return nil, fmt.Errorf("error finding comments by video ID: %w", err)
	}
	return comments, nil
}

// UpdateCommentResolved flips the resolved flag on a comment.
func UpdateCommentResolved(id uuid.UUID, resolved bool) error {
	result, err := db.DB.Exec(`UPDATE comments SET resolved = $2 WHERE id = $1`, id, resolved)
	if err != nil {
		log.Errorf("Error resolving comment '%s': %v", id.String(), err)
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		log.Warnf("No comment found with ID '%s' for resolve update.", id.String())
		return sql.ErrNoRows
	}
	return nil
}

// DeleteComment removes a single comment.
func DeleteComment(id uuid.UUID) error {
	result, err := db.DB.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		log.Errorf("Error deleting comment with ID '%s': %v", id.String(), err)
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		log.Warnf("No comment found with ID '%s' for deletion.", id.String())
		return sql.ErrNoRows
	}
	log.Infof("Comment with ID '%s' deleted.", id.String())
	return nil
}

// DeleteCommentsByVideoID removes every comment attached to a video. Part of
// the video delete cascade; deleting zero rows is not an error.
func DeleteCommentsByVideoID(videoID uuid.UUID) error {
	result, err := db.DB.Exec(`DELETE FROM comments WHERE video_id = $1`, videoID)
	if err != nil {
		log.Errorf("Error deleting comments for video '%s': %v", videoID.String(), err)
		return err
	}
	n, _ := result.RowsAffected()
	log.Infof("Deleted %d comment(s) for video '%s'.", n, videoID.String())
	return nil
}
