package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/reelproof/reelproof-api/pkg/db"
)

// fakeStore is an in-memory stand-in for the sqlx-backed query store. It
// implements every store interface the services accept.
type fakeStore struct {
	users    map[uuid.UUID]*db.User
	months   []*db.Month
	videos   map[uuid.UUID]*db.Video
	comments map[uuid.UUID]*db.Comment
	accounts map[uuid.UUID]*db.SocialMediaAccount
	metrics  []*db.SocialMediaMetrics

	// createVideoErr makes the next CreateVideo fail, for compensation tests.
	createVideoErr error
	// monthConflict simulates a concurrent month insert: CreateMonth stores a
	// competing row and reports a unique violation.
	monthConflict bool

	deletedMonths   []uuid.UUID
	deletedVideos   []uuid.UUID
	deletedComments []uuid.UUID
	commentsCascade []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*db.User),
		videos:   make(map[uuid.UUID]*db.Video),
		comments: make(map[uuid.UUID]*db.Comment),
		accounts: make(map[uuid.UUID]*db.SocialMediaAccount),
	}
}

func (f *fakeStore) addUser(role string) *db.User {
	u := &db.User{ID: uuid.New(), Role: role, Name: "user " + role, Email: uuid.NewString() + "@example.com", Active: true}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) addVideo(clientID uuid.UUID) *db.Video {
	v := &db.Video{
		ID:          uuid.New(),
		Title:       "clip",
		StoragePath: "clients/" + clientID.String() + "/3-2025/clip.mp4",
		MonthID:     uuid.New(),
		ClientID:    clientID,
		CreatedBy:   uuid.New(),
		Status:      db.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	f.videos[v.ID] = v
	return v
}

func (f *fakeStore) addAccount(clientID uuid.UUID) *db.SocialMediaAccount {
	a := &db.SocialMediaAccount{ID: uuid.New(), ClientID: clientID, Platform: "instagram", Username: "handle"}
	f.accounts[a.ID] = a
	return a
}

// --- users ---

func (f *fakeStore) FindUserByID(id uuid.UUID) (*db.User, error) {
	return f.users[id], nil
}

// --- months ---

func (f *fakeStore) FindMonthByPair(month, year int) (*db.Month, error) {
	for _, m := range f.months {
		if m.Month == month && m.Year == year {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindMonthByID(id uuid.UUID) (*db.Month, error) {
	for _, m := range f.months {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateMonth(m *db.Month) (*db.Month, error) {
	if f.monthConflict {
		f.monthConflict = false
		winner := &db.Month{
			ID:        uuid.New(),
			Name:      m.Name,
			Month:     m.Month,
			Year:      m.Year,
			CreatedBy: uuid.New(),
			CreatedAt: time.Now().UTC(),
		}
		f.months = append(f.months, winner)
		return nil, &pq.Error{Code: "23505"}
	}
	m.ID = uuid.New()
	m.CreatedAt = time.Now().UTC()
	f.months = append(f.months, m)
	return m, nil
}

func (f *fakeStore) DeleteMonth(id uuid.UUID) error {
	f.deletedMonths = append(f.deletedMonths, id)
	for i, m := range f.months {
		if m.ID == id {
			f.months = append(f.months[:i], f.months[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// --- videos ---

func (f *fakeStore) CreateVideo(v *db.Video) (*db.Video, error) {
	if f.createVideoErr != nil {
		err := f.createVideoErr
		f.createVideoErr = nil
		return nil, err
	}
	v.ID = uuid.New()
	v.CreatedAt = time.Now().UTC()
	v.UpdatedAt = v.CreatedAt
	f.videos[v.ID] = v
	return v, nil
}

func (f *fakeStore) FindVideoByID(id uuid.UUID) (*db.Video, error) {
	return f.videos[id], nil
}

func (f *fakeStore) FindVideosByClientID(clientID uuid.UUID) ([]db.Video, error) {
	var out []db.Video
	for _, v := range f.videos {
		if v.ClientID == clientID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeStore) FindAllVideos() ([]db.Video, error) {
	var out []db.Video
	for _, v := range f.videos {
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeStore) FindVideosByMonthID(monthID uuid.UUID) ([]db.Video, error) {
	var out []db.Video
	for _, v := range f.videos {
		if v.MonthID == monthID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateVideoStatus(id uuid.UUID, status string, at time.Time, by uuid.UUID) error {
	v, ok := f.videos[id]
	if !ok {
		return sql.ErrNoRows
	}
	v.Status = status
	v.StatusUpdatedAt = &at
	v.StatusUpdatedBy = uuid.NullUUID{UUID: by, Valid: true}
	return nil
}

func (f *fakeStore) DeleteVideo(id uuid.UUID) error {
	if _, ok := f.videos[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.videos, id)
	f.deletedVideos = append(f.deletedVideos, id)
	return nil
}

// --- comments ---

func (f *fakeStore) CreateComment(c *db.Comment) (*db.Comment, error) {
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	f.comments[c.ID] = c
	return c, nil
}

func (f *fakeStore) FindCommentByID(id uuid.UUID) (*db.Comment, error) {
	return f.comments[id], nil
}

func (f *fakeStore) FindCommentsByVideoID(videoID uuid.UUID) ([]db.Comment, error) {
	var out []db.Comment
	for _, c := range f.comments {
		if c.VideoID == videoID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateCommentResolved(id uuid.UUID, resolved bool) error {
	c, ok := f.comments[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.Resolved = resolved
	return nil
}

func (f *fakeStore) DeleteComment(id uuid.UUID) error {
	if _, ok := f.comments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.comments, id)
	f.deletedComments = append(f.deletedComments, id)
	return nil
}

func (f *fakeStore) DeleteCommentsByVideoID(videoID uuid.UUID) error {
	for id, c := range f.comments {
		if c.VideoID == videoID {
			delete(f.comments, id)
		}
	}
	f.commentsCascade = append(f.commentsCascade, videoID)
	return nil
}

// --- social accounts ---

func (f *fakeStore) CreateSocialAccount(a *db.SocialMediaAccount) (*db.SocialMediaAccount, error) {
	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	f.accounts[a.ID] = a
	return a, nil
}

func (f *fakeStore) FindSocialAccountByID(id uuid.UUID) (*db.SocialMediaAccount, error) {
	return f.accounts[id], nil
}

func (f *fakeStore) FindSocialAccountsByClientID(clientID uuid.UUID) ([]db.SocialMediaAccount, error) {
	var out []db.SocialMediaAccount
	for _, a := range f.accounts {
		if a.ClientID == clientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateSocialAccount(a *db.SocialMediaAccount) error {
	if _, ok := f.accounts[a.ID]; !ok {
		return sql.ErrNoRows
	}
	f.accounts[a.ID] = a
	return nil
}

func (f *fakeStore) DeleteSocialAccount(id uuid.UUID) error {
	if _, ok := f.accounts[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.accounts, id)
	var kept []*db.SocialMediaMetrics
	for _, m := range f.metrics {
		if m.AccountID != id {
			kept = append(kept, m)
		}
	}
	f.metrics = kept
	return nil
}

// --- social metrics ---

func (f *fakeStore) CreateMetrics(m *db.SocialMediaMetrics) (*db.SocialMediaMetrics, error) {
	m.ID = uuid.New()
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt
	f.metrics = append(f.metrics, m)
	return m, nil
}

func (f *fakeStore) UpdateMetrics(m *db.SocialMediaMetrics) error {
	for i, existing := range f.metrics {
		if existing.ID == m.ID {
			f.metrics[i] = m
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeStore) FindMetricsByAccountAndDate(accountID uuid.UUID, date time.Time) (*db.SocialMediaMetrics, error) {
	for _, m := range f.metrics {
		if m.AccountID == accountID && m.RecordDate.Equal(date) {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindMetricsByAccountID(accountID uuid.UUID) ([]db.SocialMediaMetrics, error) {
	var out []db.SocialMediaMetrics
	for _, m := range f.metrics {
		if m.AccountID == accountID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordDate.After(out[j].RecordDate) })
	return out, nil
}

func (f *fakeStore) FindMetricsInRange(accountID uuid.UUID, from, to time.Time) ([]db.SocialMediaMetrics, error) {
	var out []db.SocialMediaMetrics
	for _, m := range f.metrics {
		if m.AccountID == accountID && !m.RecordDate.Before(from) && !m.RecordDate.After(to) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordDate.Before(out[j].RecordDate) })
	return out, nil
}

func (f *fakeStore) FindMetricsAtOrBefore(accountID uuid.UUID, date time.Time) (*db.SocialMediaMetrics, error) {
	var best *db.SocialMediaMetrics
	for _, m := range f.metrics {
		if m.AccountID != accountID || m.RecordDate.After(date) {
			continue
		}
		if best == nil || m.RecordDate.After(best.RecordDate) {
			best = m
		}
	}
	return best, nil
}

func (f *fakeStore) FindLatestMetrics(accountID uuid.UUID) (*db.SocialMediaMetrics, error) {
	var best *db.SocialMediaMetrics
	for _, m := range f.metrics {
		if m.AccountID != accountID {
			continue
		}
		if best == nil || m.RecordDate.After(best.RecordDate) {
			best = m
		}
	}
	return best, nil
}

func (f *fakeStore) DeleteMetrics(id uuid.UUID) error {
	for i, m := range f.metrics {
		if m.ID == id {
			f.metrics = append(f.metrics[:i], f.metrics[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// fakeBlobs records delete calls and can be told to fail.
type fakeBlobs struct {
	deleted []string
	err     error
}

func (f *fakeBlobs) Delete(_ context.Context, objectPath string) error {
	f.deleted = append(f.deleted, objectPath)
	return f.err
}
