package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/utils"
	log "github.com/sirupsen/logrus"
)

type CreateMonthRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=1970,max=9999"`
}

type RenameMonthRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// ListMonths returns every month bucket, most recent first.
func (a *API) ListMonths(c *gin.Context) {
	months, err := a.store.FindAllMonths()
	if err != nil {
		log.Errorf("ListMonths: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to list months", nil)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Months loaded", months)
}

// GetMonth returns one month bucket.
func (a *API) GetMonth(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid month id", nil)
		return
	}
	month, err := a.months.Get(id)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Month loaded", month)
}

// CreateMonth resolves (and creates if necessary) the canonical month row for
// a calendar pair. Resolving an existing pair returns the existing row.
// Editor-only.
func (a *API) CreateMonth(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req CreateMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	month, created, err := a.months.Resolve(req.Month, req.Year, claims.UserID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	status := http.StatusOK
	message := "Month already exists"
	if created {
		status = http.StatusCreated
		message = "Month created successfully"
	}
	utils.ResponseWithSuccess(c, status, message, month)
}

// RenameMonth changes a month's display label. Editor-only.
func (a *API) RenameMonth(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid month id", nil)
		return
	}

	var req RenameMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if _, err := a.months.Get(id); err != nil {
		a.respondServiceError(c, err)
		return
	}
	if err := a.store.UpdateMonthName(id, req.Name); err != nil {
		log.Errorf("RenameMonth: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to rename month", nil)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Month renamed successfully", nil)
}

// DeleteMonth removes a month bucket. Refused while videos still reference
// it. Editor-only.
func (a *API) DeleteMonth(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid month id", nil)
		return
	}

	if _, err := a.months.Get(id); err != nil {
		a.respondServiceError(c, err)
		return
	}

	videos, err := a.store.FindVideosByMonthID(id)
	if err != nil {
		log.Errorf("DeleteMonth: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to check month usage", nil)
		return
	}
	if len(videos) > 0 {
		utils.ResponseWithError(c, http.StatusBadRequest, "Month still has videos attached", nil)
		return
	}

	if err := a.store.DeleteMonth(id); err != nil {
		log.Errorf("DeleteMonth: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to delete month", nil)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Month deleted successfully", nil)
}
