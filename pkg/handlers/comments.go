package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/utils"
	log "github.com/sirupsen/logrus"
)

type AddCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

type ResolveCommentRequest struct {
	Resolved *bool `json:"resolved" binding:"required"`
}

// AddComment attaches a comment to a video.
func (a *API) AddComment(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid video id", nil)
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("AddComment: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Comment content must not be empty", err.Error())
		return
	}

	comment, err := a.comments.Add(videoID, claims.UserID, claims.Role, req.Content)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusCreated, "Comment added", comment)
}

// ListComments returns a video's comments, newest first, with author info.
func (a *API) ListComments(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid video id", nil)
		return
	}

	views, err := a.comments.List(videoID, claims.UserID, claims.Role)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Comments loaded", views)
}

// DeleteComment removes a comment; allowed for its author or any editor.
func (a *API) DeleteComment(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid comment id", nil)
		return
	}

	if err := a.comments.Delete(commentID, claims.UserID, claims.Role); err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Comment deleted", nil)
}

// ResolveComment flips a comment's resolved flag. Editor-only.
func (a *API) ResolveComment(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid comment id", nil)
		return
	}

	var req ResolveCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "resolved flag is required", err.Error())
		return
	}

	comment, err := a.comments.SetResolved(commentID, *req.Resolved, claims.Role)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Comment updated", comment)
}
