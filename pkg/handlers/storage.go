package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	"github.com/reelproof/reelproof-api/pkg/services"
	"github.com/reelproof/reelproof-api/pkg/storage"
	"github.com/reelproof/reelproof-api/pkg/utils"
	log "github.com/sirupsen/logrus"
)

// signedURLTTL bounds how long playback links stay valid.
const signedURLTTL = 15 * time.Minute

// UploadVideo streams a multipart upload into the video bucket and returns
// the storage path for the subsequent video-creation call. Uploads beyond the
// configured ceiling are rejected before buffering. Editor-only.
func (a *API) UploadVideo(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.cfg.MaxUploadBytes)

	clientID, err := uuid.Parse(c.PostForm("client_id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "client_id form field is required", nil)
		return
	}
	month, err := strconv.Atoi(c.PostForm("month"))
	if err != nil || month < 1 || month > 12 {
		utils.ResponseWithError(c, http.StatusBadRequest, "month form field must be 1-12", nil)
		return
	}
	year, err := strconv.Atoi(c.PostForm("year"))
	if err != nil || year < 1970 || year > 9999 {
		utils.ResponseWithError(c, http.StatusBadRequest, "year form field is invalid", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Debugf("UploadVideo: missing or oversized file: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "A file up to the upload limit is required", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to read upload", nil)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	objectPath := storage.ObjectPath(clientID, month, year, fileHeader.Filename)

	size, err := a.blobs.Upload(c.Request.Context(), objectPath, contentType, file)
	if err != nil {
		log.Errorf("UploadVideo: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to store upload", nil)
		return
	}

	utils.ResponseWithSuccess(c, http.StatusCreated, "Upload stored", gin.H{
		"storage_path": objectPath,
		"file_size":    size,
		"content_type": contentType,
	})
}

// SignedURL returns a short-lived playback URL for a storage object. Clients
// may only sign paths under their own prefix.
func (a *API) SignedURL(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	objectPath := c.Query("path")
	if objectPath == "" {
		utils.ResponseWithError(c, http.StatusBadRequest, "path query parameter is required", nil)
		return
	}
	if claims.Role != db.RoleEditor {
		prefix := fmt.Sprintf("clients/%s/", claims.UserID.String())
		if !strings.HasPrefix(objectPath, prefix) {
			utils.ResponseWithError(c, http.StatusForbidden, "You do not have access to this object", nil)
			return
		}
	}

	url, err := a.blobs.SignedURL(objectPath, signedURLTTL)
	if err != nil {
		log.Errorf("SignedURL: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to sign URL", nil)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Signed URL issued", gin.H{
		"url":        url,
		"expires_in": int(signedURLTTL.Seconds()),
	})
}

type SyncStorageRequest struct {
	ClientID string `json:"client_id" binding:"required,uuid"`
}

// SyncStorage walks a client's bucket prefix and creates pending video rows
// for objects that have none, resolving the month bucket from the path
// segment. Editor-only.
func (a *API) SyncStorage(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req SyncStorageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	clientID, _ := uuid.Parse(req.ClientID)

	prefix := fmt.Sprintf("clients/%s/", clientID.String())
	objects, err := a.blobs.List(c.Request.Context(), prefix)
	if err != nil {
		log.Errorf("SyncStorage: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to list storage objects", nil)
		return
	}

	var created []db.Video
	var skipped []string
	for _, obj := range objects {
		existing, err := a.store.FindVideoByStoragePath(obj.Path)
		if err != nil {
			log.Errorf("SyncStorage: lookup failed for '%s': %v", obj.Path, err)
			utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to check storage object", nil)
			return
		}
		if existing != nil {
			continue
		}

		month, year, filename, perr := parseObjectPath(obj.Path)
		if perr != nil {
			log.Warnf("SyncStorage: skipping unparseable object path '%s': %v", obj.Path, perr)
			skipped = append(skipped, obj.Path)
			continue
		}

		size := obj.Size
		contentType := obj.ContentType
		in := services.CreateVideoInput{
			Title:       filename,
			StoragePath: obj.Path,
			FileSize:    &size,
			ClientID:    clientID,
			CreatedBy:   claims.UserID,
			Month:       month,
			Year:        year,
		}
		if contentType != "" {
			in.ContentType = &contentType
		}

		video, err := a.videos.Create(in)
		if err != nil {
			log.Warnf("SyncStorage: could not create video for '%s': %v", obj.Path, err)
			skipped = append(skipped, obj.Path)
			continue
		}
		created = append(created, *video)
	}

	utils.ResponseWithSuccess(c, http.StatusOK, "Storage sync complete", gin.H{
		"created": created,
		"skipped": skipped,
	})
}

// parseObjectPath extracts the month, year, and filename from the key
// convention clients/{clientId}/{month}-{year}/{filename}.
func parseObjectPath(path string) (month, year int, filename string, err error) {
	parts := strings.Split(path, "/")
	if len(parts) != 4 || parts[0] != "clients" {
		return 0, 0, "", fmt.Errorf("unexpected key layout")
	}
	bucket := strings.SplitN(parts[2], "-", 2)
	if len(bucket) != 2 {
		return 0, 0, "", fmt.Errorf("missing month-year segment")
	}
	month, err = strconv.Atoi(bucket[0])
	if err != nil {
		return 0, 0, "", fmt.Errorf("bad month segment: %w", err)
	}
	year, err = strconv.Atoi(bucket[1])
	if err != nil {
		return 0, 0, "", fmt.Errorf("bad year segment: %w", err)
	}
	return month, year, parts[3], nil
}
