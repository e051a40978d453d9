package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

// CommentStore is the persistence surface the comment service needs.
type CommentStore interface {
	CreateComment(c *db.Comment) (*db.Comment, error)
	FindCommentByID(id uuid.UUID) (*db.Comment, error)
	FindCommentsByVideoID(videoID uuid.UUID) ([]db.Comment, error)
	UpdateCommentResolved(id uuid.UUID, resolved bool) error
	DeleteComment(id uuid.UUID) error
	FindVideoByID(id uuid.UUID) (*db.Video, error)
	FindUserByID(id uuid.UUID) (*db.User, error)
}

// CommentService manages threaded review comments on videos.
type CommentService struct {
	store CommentStore
}

func NewCommentService(store CommentStore) *CommentService {
	return &CommentService{store: store}
}

// CommentAuthor is the resolved author summary attached to listed comments.
type CommentAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// CommentView is a comment annotated with its author.
type CommentView struct {
	ID        string        `json:"id"`
	VideoID   string        `json:"video_id"`
	Content   string        `json:"content"`
	Resolved  bool          `json:"resolved"`
	CreatedAt time.Time     `json:"created_at"`
	Author    CommentAuthor `json:"author"`
}

// canView reports whether a user may see or comment on a video: editors
// always, clients only on their own videos.
func canView(video *db.Video, userID uuid.UUID, role string) bool {
	return role == db.RoleEditor || video.ClientID == userID
}

// Add attaches a comment to a video on behalf of its client or an editor.
func (s *CommentService) Add(videoID, userID uuid.UUID, role, content string) (*db.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, Validationf("content must not be empty")
	}

	video, err := s.store.FindVideoByID(videoID)
	if err != nil {
		return nil, Upstream("Failed to look up video", err)
	}
	if video == nil {
		return nil, NotFoundf("Video not found")
	}
	if !canView(video, userID, role) {
		return nil, Forbiddenf("You do not have access to this video")
	}

	comment := &db.Comment{
		VideoID: videoID,
		UserID:  userID,
		Content: strings.TrimSpace(content),
	}
	created, err := s.store.CreateComment(comment)
	if err != nil {
		return nil, Upstream("Failed to create comment", err)
	}
	return created, nil
}

// List returns a video's comments newest-first, each annotated with its
// author. Author resolution is a per-comment secondary lookup; fine at the
// comment volumes this tool sees.
func (s *CommentService) List(videoID, requesterID uuid.UUID, requesterRole string) ([]CommentView, error) {
	video, err := s.store.FindVideoByID(videoID)
	if err != nil {
		return nil, Upstream("Failed to look up video", err)
	}
	if video == nil {
		return nil, NotFoundf("Video not found")
	}
	if !canView(video, requesterID, requesterRole) {
		return nil, Forbiddenf("You do not have access to this video")
	}

	comments, err := s.store.FindCommentsByVideoID(videoID)
	if err != nil {
		return nil, Upstream("Failed to list comments", err)
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		view := CommentView{
			ID:        c.ID.String(),
			VideoID:   c.VideoID.String(),
			Content:   c.Content,
			Resolved:  c.Resolved,
			CreatedAt: c.CreatedAt,
			Author:    CommentAuthor{ID: c.UserID.String()},
		}
		author, err := s.store.FindUserByID(c.UserID)
		if err != nil {
			return nil, Upstream("Failed to resolve comment author", err)
		}
		if author != nil {
			view.Author.Name = author.Name
			view.Author.Role = author.Role
		} else {
			log.Debugf("Comment %s references missing author %s.", c.ID.String(), c.UserID.String())
		}
		views = append(views, view)
	}
	return views, nil
}

// Delete removes a comment; allowed for its author or any editor.
func (s *CommentService) Delete(commentID, requesterID uuid.UUID, requesterRole string) error {
	comment, err := s.store.FindCommentByID(commentID)
	if err != nil {
		return Upstream("Failed to look up comment", err)
	}
	if comment == nil {
		return NotFoundf("Comment not found")
	}
	if requesterRole != db.RoleEditor && comment.UserID != requesterID {
		return Forbiddenf("Only the comment author or an editor may delete a comment")
	}
	if err := s.store.DeleteComment(commentID); err != nil {
		return Upstream("Failed to delete comment", err)
	}
	return nil
}

// SetResolved flips a comment's resolved flag. Editor-only, and idempotent:
// setting the current value again succeeds without a write.
func (s *CommentService) SetResolved(commentID uuid.UUID, resolved bool, requesterRole string) (*db.Comment, error) {
	if requesterRole != db.RoleEditor {
		return nil, Forbiddenf("Only editors may resolve comments")
	}
	comment, err := s.store.FindCommentByID(commentID)
	if err != nil {
		return nil, Upstream("Failed to look up comment", err)
	}
	if comment == nil {
		return nil, NotFoundf("Comment not found")
	}
	if comment.Resolved == resolved {
		return comment, nil
	}
	if err := s.store.UpdateCommentResolved(commentID, resolved); err != nil {
		return nil, Upstream("Failed to update comment", err)
	}
	comment.Resolved = resolved
	return comment, nil
}
