package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
)

// fakeStore is an in-memory Store for handler tests. The auth and user flows
// are modeled for real; the remaining methods are inert placeholders for
// routes a test does not touch.
type fakeStore struct {
	users map[uuid.UUID]*db.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[uuid.UUID]*db.User)}
}

// --- users ---

func (f *fakeStore) CreateUser(u *db.User) (*db.User, error) {
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) FindUserByEmail(email string) (*db.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindUserByID(id uuid.UUID) (*db.User, error) {
	return f.users[id], nil
}

func (f *fakeStore) FindUserByResetTokenHash(hash string) (*db.User, error) {
	for _, u := range f.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == hash {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindAllUsers() ([]db.User, error) {
	var out []db.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeStore) FindUsersByRole(role string) ([]db.User, error) {
	var out []db.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeStore) CountUsersByRole(role string) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) UpdateUser(u *db.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) SetUserResetToken(id uuid.UUID, hash string, expires time.Time) error {
	u := f.users[id]
	u.ResetTokenHash = &hash
	u.ResetTokenExpires = &expires
	return nil
}

func (f *fakeStore) SetUserPassword(id uuid.UUID, hash string, activate bool) error {
	u := f.users[id]
	u.PasswordHash = hash
	u.Active = u.Active || activate
	u.ResetTokenHash = nil
	u.ResetTokenExpires = nil
	return nil
}

func (f *fakeStore) DeleteUser(id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

// --- months ---

func (f *fakeStore) FindMonthByPair(month, year int) (*db.Month, error) { return nil, nil }
func (f *fakeStore) FindMonthByID(id uuid.UUID) (*db.Month, error)     { return nil, nil }
func (f *fakeStore) CreateMonth(m *db.Month) (*db.Month, error) {
	m.ID = uuid.New()
	return m, nil
}
func (f *fakeStore) FindAllMonths() ([]db.Month, error)              { return nil, nil }
func (f *fakeStore) UpdateMonthName(id uuid.UUID, name string) error { return nil }
func (f *fakeStore) DeleteMonth(id uuid.UUID) error                  { return nil }

// --- videos ---

func (f *fakeStore) CreateVideo(v *db.Video) (*db.Video, error) {
	v.ID = uuid.New()
	return v, nil
}
func (f *fakeStore) FindVideoByID(id uuid.UUID) (*db.Video, error)               { return nil, nil }
func (f *fakeStore) FindVideosByClientID(clientID uuid.UUID) ([]db.Video, error) { return nil, nil }
func (f *fakeStore) FindAllVideos() ([]db.Video, error)                          { return nil, nil }
func (f *fakeStore) FindVideosByMonthID(monthID uuid.UUID) ([]db.Video, error)   { return nil, nil }
func (f *fakeStore) FindVideoByStoragePath(path string) (*db.Video, error)       { return nil, nil }
func (f *fakeStore) UpdateVideoStatus(id uuid.UUID, status string, at time.Time, by uuid.UUID) error {
	return nil
}
func (f *fakeStore) DeleteVideo(id uuid.UUID) error { return nil }

// --- comments ---

func (f *fakeStore) CreateComment(c *db.Comment) (*db.Comment, error) {
	c.ID = uuid.New()
	return c, nil
}
func (f *fakeStore) FindCommentByID(id uuid.UUID) (*db.Comment, error)             { return nil, nil }
func (f *fakeStore) FindCommentsByVideoID(videoID uuid.UUID) ([]db.Comment, error) { return nil, nil }
func (f *fakeStore) UpdateCommentResolved(id uuid.UUID, resolved bool) error       { return nil }
func (f *fakeStore) DeleteComment(id uuid.UUID) error                              { return nil }
func (f *fakeStore) DeleteCommentsByVideoID(videoID uuid.UUID) error               { return nil }

// --- social accounts and metrics ---

func (f *fakeStore) CreateSocialAccount(a *db.SocialMediaAccount) (*db.SocialMediaAccount, error) {
	a.ID = uuid.New()
	return a, nil
}
func (f *fakeStore) FindSocialAccountByID(id uuid.UUID) (*db.SocialMediaAccount, error) {
	return nil, nil
}
func (f *fakeStore) FindSocialAccountsByClientID(clientID uuid.UUID) ([]db.SocialMediaAccount, error) {
	return nil, nil
}
func (f *fakeStore) UpdateSocialAccount(a *db.SocialMediaAccount) error { return nil }
func (f *fakeStore) DeleteSocialAccount(id uuid.UUID) error             { return nil }

func (f *fakeStore) CreateMetrics(m *db.SocialMediaMetrics) (*db.SocialMediaMetrics, error) {
	m.ID = uuid.New()
	return m, nil
}
func (f *fakeStore) UpdateMetrics(m *db.SocialMediaMetrics) error { return nil }
func (f *fakeStore) FindMetricsByAccountAndDate(accountID uuid.UUID, date time.Time) (*db.SocialMediaMetrics, error) {
	return nil, nil
}
func (f *fakeStore) FindMetricsByAccountID(accountID uuid.UUID) ([]db.SocialMediaMetrics, error) {
	return nil, nil
}
func (f *fakeStore) FindMetricsInRange(accountID uuid.UUID, from, to time.Time) ([]db.SocialMediaMetrics, error) {
	return nil, nil
}
func (f *fakeStore) FindMetricsAtOrBefore(accountID uuid.UUID, date time.Time) (*db.SocialMediaMetrics, error) {
	return nil, nil
}
func (f *fakeStore) FindLatestMetrics(accountID uuid.UUID) (*db.SocialMediaMetrics, error) {
	return nil, nil
}
func (f *fakeStore) DeleteMetrics(id uuid.UUID) error { return nil }
