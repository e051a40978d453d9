package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/config"
	"github.com/reelproof/reelproof-api/pkg/db"
	"github.com/reelproof/reelproof-api/pkg/mailer"
	"github.com/reelproof/reelproof-api/pkg/middleware"
	"github.com/reelproof/reelproof-api/pkg/services"
	"github.com/reelproof/reelproof-api/pkg/storage"
	"github.com/reelproof/reelproof-api/pkg/utils"
	log "github.com/sirupsen/logrus"
)

// Store is the persistence surface the handlers and their services share.
// *queries.Store is the production implementation.
type Store interface {
	services.MonthStore
	services.VideoStore
	services.CommentStore
	services.MetricsStore

	CreateUser(u *db.User) (*db.User, error)
	FindUserByEmail(email string) (*db.User, error)
	FindUserByResetTokenHash(hash string) (*db.User, error)
	FindAllUsers() ([]db.User, error)
	FindUsersByRole(role string) ([]db.User, error)
	CountUsersByRole(role string) (int, error)
	UpdateUser(u *db.User) error
	SetUserResetToken(id uuid.UUID, hash string, expires time.Time) error
	SetUserPassword(id uuid.UUID, hash string, activate bool) error
	DeleteUser(id uuid.UUID) error

	FindVideoByStoragePath(path string) (*db.Video, error)
	FindAllMonths() ([]db.Month, error)
	UpdateMonthName(id uuid.UUID, name string) error
}

// API bundles the route handlers with the services they call.
type API struct {
	cfg      *config.Config
	store    Store
	months   *services.MonthService
	videos   *services.VideoService
	comments *services.CommentService
	metrics  *services.MetricsService
	blobs    *storage.Client
	mail     *mailer.Mailer
}

// NewHandlers wires the service layer onto a shared store.
func NewHandlers(cfg *config.Config, store Store, blobs *storage.Client, mail *mailer.Mailer) *API {
	months := services.NewMonthService(store)
	var deleter services.BlobDeleter
	if blobs != nil {
		deleter = blobs
	}
	return &API{
		cfg:      cfg,
		store:    store,
		months:   months,
		videos:   services.NewVideoService(store, months, deleter),
		comments: services.NewCommentService(store),
		metrics:  services.NewMetricsService(store),
		blobs:    blobs,
		mail:     mail,
	}
}

// statusForKind maps the service error taxonomy onto HTTP statuses.
func statusForKind(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondServiceError renders a service failure. Outside production the error
// field carries the full chain for debugging.
func (a *API) respondServiceError(c *gin.Context, err error) {
	var detail interface{}
	if !a.cfg.IsProduction() {
		detail = err.Error()
	}
	utils.ResponseWithError(c, statusForKind(services.KindOf(err)), services.MessageOf(err), detail)
}

// mustClaims pulls the authenticated claims out of the request context,
// responding 500 if the middleware was not applied.
func mustClaims(c *gin.Context) (*services.Claims, bool) {
	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("User claims not found in context; auth middleware missing on route.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error: user session data missing", nil)
		return nil, false
	}
	return claims, true
}
