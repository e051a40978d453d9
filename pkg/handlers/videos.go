package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	"github.com/reelproof/reelproof-api/pkg/services"
	"github.com/reelproof/reelproof-api/pkg/utils"
	log "github.com/sirupsen/logrus"
)

// MonthInfo selects a month bucket by calendar pair when no explicit month_id
// is supplied.
type MonthInfo struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=1970,max=9999"`
}

type CreateVideoRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description *string    `json:"description"`
	StoragePath string     `json:"storage_path" binding:"required"`
	FileSize    *int64     `json:"file_size"`
	ContentType *string    `json:"content_type"`
	ClientID    string     `json:"client_id" binding:"required,uuid"`
	MonthID     *string    `json:"month_id" binding:"omitempty,uuid"`
	MonthInfo   *MonthInfo `json:"month_info"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,videostatus"`
}

// CreateVideo persists a new video for a client, resolving the month bucket
// on the way. Editor-only.
func (a *API) CreateVideo(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("CreateVideo: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.MonthID == nil && req.MonthInfo == nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Either month_id or month_info is required", nil)
		return
	}

	clientID, _ := uuid.Parse(req.ClientID)
	in := services.CreateVideoInput{
		Title:       req.Title,
		Description: req.Description,
		StoragePath: req.StoragePath,
		FileSize:    req.FileSize,
		ContentType: req.ContentType,
		ClientID:    clientID,
		CreatedBy:   claims.UserID,
	}
	if req.MonthID != nil {
		monthID, _ := uuid.Parse(*req.MonthID)
		in.MonthID = uuid.NullUUID{UUID: monthID, Valid: true}
	} else {
		in.Month = req.MonthInfo.Month
		in.Year = req.MonthInfo.Year
	}

	video, err := a.videos.Create(in)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusCreated, "Video created successfully", video)
}

// ListVideos returns every video. Editor-only.
func (a *API) ListVideos(c *gin.Context) {
	items, err := a.videos.ListAll()
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Videos loaded", items)
}

// ListClientVideos returns one client's videos. Editors may query anyone;
// clients only themselves. With ?preview=true and no persisted videos the
// placeholder set comes back instead.
func (a *API) ListClientVideos(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	clientID, err := uuid.Parse(c.Param("clientId"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid client id", nil)
		return
	}
	if claims.Role != db.RoleEditor && claims.UserID != clientID {
		utils.ResponseWithError(c, http.StatusForbidden, "You may only view your own videos", nil)
		return
	}

	includePreviews := c.Query("preview") == "true"
	items, err := a.videos.ListForClient(clientID, includePreviews)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Videos loaded", items)
}

// ListMonthVideos returns the videos grouped under a month bucket.
func (a *API) ListMonthVideos(c *gin.Context) {
	monthID, err := uuid.Parse(c.Param("monthId"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid month id", nil)
		return
	}
	items, err := a.videos.ListByMonth(monthID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Videos loaded", items)
}

// GetVideo returns a single video. Clients may only fetch their own.
func (a *API) GetVideo(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid video id", nil)
		return
	}

	video, err := a.videos.Get(id)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	if claims.Role != db.RoleEditor && claims.UserID != video.ClientID {
		utils.ResponseWithError(c, http.StatusForbidden, "You do not have access to this video", nil)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Video loaded", video)
}

// SetVideoStatus applies a status transition on behalf of the caller.
func (a *API) SetVideoStatus(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("SetVideoStatus: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Status must be one of pending, approved, rejected", err.Error())
		return
	}

	video, err := a.videos.SetStatus(c.Param("id"), req.Status, claims.UserID, claims.Role)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Video status updated", video)
}

// DeleteVideo removes a video, its storage object best-effort, and its
// comments. Editor-only.
func (a *API) DeleteVideo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid video id", nil)
		return
	}

	if err := a.videos.Delete(c.Request.Context(), id); err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Video deleted successfully", nil)
}
