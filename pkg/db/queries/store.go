package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
)

// Store adapts the package-level query functions to the store interfaces the
// service layer accepts, so services can be exercised against fakes in tests
// while production wiring stays on the shared sqlx pool.
type Store struct{}

func NewStore() *Store { return &Store{} }

func (s *Store) CreateUser(u *db.User) (*db.User, error)          { return CreateUser(u) }
func (s *Store) FindUserByEmail(email string) (*db.User, error)   { return FindUserByEmail(email) }
func (s *Store) FindUserByID(id uuid.UUID) (*db.User, error)      { return FindUserByID(id) }
func (s *Store) FindUserByResetTokenHash(h string) (*db.User, error) {
	return FindUserByResetTokenHash(h)
}
func (s *Store) FindAllUsers() ([]db.User, error)                 { return FindAllUsers() }
func (s *Store) FindUsersByRole(role string) ([]db.User, error)   { return FindUsersByRole(role) }
func (s *Store) CountUsersByRole(role string) (int, error)        { return CountUsersByRole(role) }
func (s *Store) UpdateUser(u *db.User) error                      { return UpdateUser(u) }
func (s *Store) SetUserResetToken(id uuid.UUID, hash string, expires time.Time) error {
	return SetUserResetToken(id, hash, expires)
}
func (s *Store) SetUserPassword(id uuid.UUID, hash string, activate bool) error {
	return SetUserPassword(id, hash, activate)
}
func (s *Store) DeleteUser(id uuid.UUID) error { return DeleteUser(id) }

func (s *Store) CreateMonth(m *db.Month) (*db.Month, error)        { return CreateMonth(m) }
func (s *Store) FindMonthByPair(month, year int) (*db.Month, error) { return FindMonthByPair(month, year) }
func (s *Store) FindMonthByID(id uuid.UUID) (*db.Month, error)     { return FindMonthByID(id) }
func (s *Store) FindAllMonths() ([]db.Month, error)                { return FindAllMonths() }
func (s *Store) UpdateMonthName(id uuid.UUID, name string) error   { return UpdateMonthName(id, name) }
func (s *Store) DeleteMonth(id uuid.UUID) error                    { return DeleteMonth(id) }

func (s *Store) CreateVideo(v *db.Video) (*db.Video, error)    { return CreateVideo(v) }
func (s *Store) FindVideoByID(id uuid.UUID) (*db.Video, error) { return FindVideoByID(id) }
func (s *Store) FindVideosByClientID(clientID uuid.UUID) ([]db.Video, error) {
	return FindVideosByClientID(clientID)
}
func (s *Store) FindAllVideos() ([]db.Video, error) { return FindAllVideos() }
func (s *Store) FindVideosByMonthID(monthID uuid.UUID) ([]db.Video, error) {
	return FindVideosByMonthID(monthID)
}
func (s *Store) FindVideoByStoragePath(path string) (*db.Video, error) {
	return FindVideoByStoragePath(path)
}
func (s *Store) UpdateVideoStatus(id uuid.UUID, status string, at time.Time, by uuid.UUID) error {
	return UpdateVideoStatus(id, status, at, by)
}
func (s *Store) DeleteVideo(id uuid.UUID) error { return DeleteVideo(id) }

func (s *Store) CreateComment(c *db.Comment) (*db.Comment, error)  { return CreateComment(c) }
func (s *Store) FindCommentByID(id uuid.UUID) (*db.Comment, error) { return FindCommentByID(id) }
func (s *Store) FindCommentsByVideoID(videoID uuid.UUID) ([]db.Comment, error) {
	return FindCommentsByVideoID(videoID)
}
func (s *Store) UpdateCommentResolved(id uuid.UUID, resolved bool) error {
	return UpdateCommentResolved(id, resolved)
}
func (s *Store) DeleteComment(id uuid.UUID) error               { return DeleteComment(id) }
func (s *Store) DeleteCommentsByVideoID(videoID uuid.UUID) error { return DeleteCommentsByVideoID(videoID) }

func (s *Store) CreateSocialAccount(a *db.SocialMediaAccount) (*db.SocialMediaAccount, error) {
	return CreateSocialAccount(a)
}
func (s *Store) FindSocialAccountByID(id uuid.UUID) (*db.SocialMediaAccount, error) {
	return FindSocialAccountByID(id)
}
func (s *Store) FindSocialAccountsByClientID(clientID uuid.UUID) ([]db.SocialMediaAccount, error) {
	return FindSocialAccountsByClientID(clientID)
}
func (s *Store) UpdateSocialAccount(a *db.SocialMediaAccount) error { return UpdateSocialAccount(a) }
func (s *Store) DeleteSocialAccount(id uuid.UUID) error             { return DeleteSocialAccount(id) }

func (s *Store) CreateMetrics(m *db.SocialMediaMetrics) (*db.SocialMediaMetrics, error) {
	return CreateMetrics(m)
}
func (s *Store) UpdateMetrics(m *db.SocialMediaMetrics) error { return UpdateMetrics(m) }
func (s *Store) FindMetricsByAccountAndDate(accountID uuid.UUID, date time.Time) (*db.SocialMediaMetrics, error) {
	return FindMetricsByAccountAndDate(accountID, date)
}
func (s *Store) FindMetricsByAccountID(accountID uuid.UUID) ([]db.SocialMediaMetrics, error) {
	return FindMetricsByAccountID(accountID)
}
func (s *Store) FindMetricsInRange(accountID uuid.UUID, from, to time.Time) ([]db.SocialMediaMetrics, error) {
	return FindMetricsInRange(accountID, from, to)
}
func (s *Store) FindMetricsAtOrBefore(accountID uuid.UUID, date time.Time) (*db.SocialMediaMetrics, error) {
	return FindMetricsAtOrBefore(accountID, date)
}
func (s *Store) FindLatestMetrics(accountID uuid.UUID) (*db.SocialMediaMetrics, error) {
	return FindLatestMetrics(accountID)
}
func (s *Store) DeleteMetrics(id uuid.UUID) error { return DeleteMetrics(id) }
