package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	"github.com/reelproof/reelproof-api/pkg/services"
	"github.com/reelproof/reelproof-api/pkg/utils"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type CreateAccountRequest struct {
	ClientID        string  `json:"client_id" binding:"required,uuid"`
	Platform        string  `json:"platform" binding:"required,socialplatform"`
	Username        string  `json:"username" binding:"required,min=1,max=100"`
	DisplayName     *string `json:"display_name"`
	ProfileURL      *string `json:"profile_url" binding:"omitempty,url"`
	ProfileImageURL *string `json:"profile_image_url" binding:"omitempty,url"`
}

type UpdateAccountRequest struct {
	Platform        *string `json:"platform" binding:"omitempty,socialplatform"`
	Username        *string `json:"username" binding:"omitempty,min=1,max=100"`
	DisplayName     *string `json:"display_name"`
	ProfileURL      *string `json:"profile_url" binding:"omitempty,url"`
	ProfileImageURL *string `json:"profile_image_url" binding:"omitempty,url"`
}

type UpsertMetricsRequest struct {
	AccountID      string   `json:"account_id" binding:"required,uuid"`
	RecordDate     string   `json:"record_date" binding:"required"`
	Followers      *int64   `json:"followers" binding:"required,min=0"`
	Following      *int64   `json:"following"`
	PostsCount     *int64   `json:"posts_count"`
	Reach          *int64   `json:"reach"`
	Impressions    *int64   `json:"impressions"`
	ProfileViews   *int64   `json:"profile_views"`
	EngagementRate *float64 `json:"engagement_rate"`
	Notes          *string  `json:"notes"`
}

// CreateSocialAccount registers a social account for a client.
func (a *API) CreateSocialAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("CreateSocialAccount: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	clientID, _ := uuid.Parse(req.ClientID)

	account := &db.SocialMediaAccount{
		ClientID:        clientID,
		Platform:        req.Platform,
		Username:        req.Username,
		DisplayName:     req.DisplayName,
		ProfileURL:      req.ProfileURL,
		ProfileImageURL: req.ProfileImageURL,
	}
	created, err := a.metrics.CreateAccount(account)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusCreated, "Social account created", created)
}

// ListClientAccounts returns a client's social accounts.
func (a *API) ListClientAccounts(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("clientId"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid client id", nil)
		return
	}
	accounts, err := a.metrics.ListAccounts(clientID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Accounts loaded", accounts)
}

// UpdateSocialAccount applies partial changes to an account.
func (a *API) UpdateSocialAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid account id", nil)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	account, err := a.metrics.GetAccount(id)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	if req.Platform != nil {
		account.Platform = *req.Platform
	}
	if req.Username != nil {
		account.Username = *req.Username
	}
	if req.DisplayName != nil {
		account.DisplayName = req.DisplayName
	}
	if req.ProfileURL != nil {
		account.ProfileURL = req.ProfileURL
	}
	if req.ProfileImageURL != nil {
		account.ProfileImageURL = req.ProfileImageURL
	}

	if err := a.metrics.UpdateAccount(account); err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Social account updated", account)
}

// DeleteSocialAccount removes an account and its metrics history.
func (a *API) DeleteSocialAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid account id", nil)
		return
	}
	if err := a.metrics.DeleteAccount(id); err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Social account deleted", nil)
}

// UpsertMetrics records a metrics sample, updating the existing row when one
// already exists for (account, record_date).
func (a *API) UpsertMetrics(c *gin.Context) {
	var req UpsertMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("UpsertMetrics: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	accountID, _ := uuid.Parse(req.AccountID)
	recordDate, err := time.Parse(dateLayout, req.RecordDate)
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "record_date must be YYYY-MM-DD", nil)
		return
	}

	result, err := a.metrics.UpsertMetrics(services.UpsertMetricsInput{
		AccountID:      accountID,
		RecordDate:     recordDate,
		Followers:      *req.Followers,
		Following:      req.Following,
		PostsCount:     req.PostsCount,
		Reach:          req.Reach,
		Impressions:    req.Impressions,
		ProfileViews:   req.ProfileViews,
		EngagementRate: req.EngagementRate,
		Notes:          req.Notes,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Metrics recorded", result)
}

// ListAccountMetrics returns every sample for an account, newest first.
func (a *API) ListAccountMetrics(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid account id", nil)
		return
	}
	metrics, err := a.metrics.ListByAccount(accountID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Metrics loaded", metrics)
}

// ListAccountMetricsRange returns samples between ?from and ?to, inclusive.
func (a *API) ListAccountMetricsRange(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid account id", nil)
		return
	}
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "from must be YYYY-MM-DD", nil)
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "to must be YYYY-MM-DD", nil)
		return
	}

	metrics, err := a.metrics.ListInRange(accountID, from, to)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Metrics loaded", metrics)
}

// ListAccountMetricsByMonth returns samples bucketed under a month record.
func (a *API) ListAccountMetricsByMonth(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid account id", nil)
		return
	}
	monthID, err := uuid.Parse(c.Param("monthId"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid month id", nil)
		return
	}

	metrics, err := a.metrics.ListByMonth(accountID, monthID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Metrics loaded", metrics)
}

// LatestAccountMetrics returns the most recent sample, or null when the
// account has no data yet.
func (a *API) LatestAccountMetrics(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid account id", nil)
		return
	}
	latest, err := a.metrics.Latest(accountID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Latest metrics loaded", latest)
}

// AccountGrowth reports the change in one metric between ?from and ?to.
// Returns null data when either endpoint lacks samples or the start value is
// zero.
func (a *API) AccountGrowth(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid account id", nil)
		return
	}
	metric := c.DefaultQuery("metric", "followers")
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "from must be YYYY-MM-DD", nil)
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "to must be YYYY-MM-DD", nil)
		return
	}

	growth, err := a.metrics.Growth(accountID, metric, from, to)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Growth computed", growth)
}

// ClientMetricsSummary returns each of a client's accounts with its latest
// sample.
func (a *API) ClientMetricsSummary(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("clientId"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid client id", nil)
		return
	}
	summaries, err := a.metrics.SummaryForClient(clientID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Client metrics loaded", summaries)
}

// DeleteMetricsRow removes one metrics sample.
func (a *API) DeleteMetricsRow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid metrics id", nil)
		return
	}
	if err := a.metrics.DeleteMetricsRow(id); err != nil {
		a.respondServiceError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Metrics deleted", nil)
}
