package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
)

// Platforms supported for social media accounts.
var SupportedPlatforms = []string{"instagram", "tiktok", "youtube", "facebook", "twitter", "linkedin"}

// ValidPlatform reports whether p names a supported social network.
func ValidPlatform(p string) bool {
	for _, known := range SupportedPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// MetricsStore is the persistence surface the social metrics service needs.
type MetricsStore interface {
	CreateSocialAccount(a *db.SocialMediaAccount) (*db.SocialMediaAccount, error)
	FindSocialAccountByID(id uuid.UUID) (*db.SocialMediaAccount, error)
	FindSocialAccountsByClientID(clientID uuid.UUID) ([]db.SocialMediaAccount, error)
	UpdateSocialAccount(a *db.SocialMediaAccount) error
	DeleteSocialAccount(id uuid.UUID) error

	CreateMetrics(m *db.SocialMediaMetrics) (*db.SocialMediaMetrics, error)
	UpdateMetrics(m *db.SocialMediaMetrics) error
	FindMetricsByAccountAndDate(accountID uuid.UUID, date time.Time) (*db.SocialMediaMetrics, error)
	FindMetricsByAccountID(accountID uuid.UUID) ([]db.SocialMediaMetrics, error)
	FindMetricsInRange(accountID uuid.UUID, from, to time.Time) ([]db.SocialMediaMetrics, error)
	FindMetricsAtOrBefore(accountID uuid.UUID, date time.Time) (*db.SocialMediaMetrics, error)
	FindLatestMetrics(accountID uuid.UUID) (*db.SocialMediaMetrics, error)
	DeleteMetrics(id uuid.UUID) error

	FindUserByID(id uuid.UUID) (*db.User, error)
	FindMonthByID(id uuid.UUID) (*db.Month, error)
}

// MetricsService manages social media accounts and their time-series metrics.
type MetricsService struct {
	store MetricsStore
}

func NewMetricsService(store MetricsStore) *MetricsService {
	return &MetricsService{store: store}
}

// CreateAccount registers a social account for a client. One account per
// platform per client is the expected shape but is not enforced.
func (s *MetricsService) CreateAccount(a *db.SocialMediaAccount) (*db.SocialMediaAccount, error) {
	if !ValidPlatform(a.Platform) {
		return nil, Validationf("unsupported platform %q", a.Platform)
	}
	if a.Username == "" {
		return nil, Validationf("username is required")
	}
	client, err := s.store.FindUserByID(a.ClientID)
	if err != nil {
		return nil, Upstream("Failed to look up client", err)
	}
	if client == nil || client.Role != db.RoleClient {
		return nil, Validationf("client_id must reference a client-role user")
	}
	created, err := s.store.CreateSocialAccount(a)
	if err != nil {
		return nil, Upstream("Failed to create social account", err)
	}
	return created, nil
}

// GetAccount returns an account by ID.
func (s *MetricsService) GetAccount(id uuid.UUID) (*db.SocialMediaAccount, error) {
	account, err := s.store.FindSocialAccountByID(id)
	if err != nil {
		return nil, Upstream("Failed to look up social account", err)
	}
	if account == nil {
		return nil, NotFoundf("Social account not found")
	}
	return account, nil
}

// ListAccounts returns a client's accounts.
func (s *MetricsService) ListAccounts(clientID uuid.UUID) ([]db.SocialMediaAccount, error) {
	accounts, err := s.store.FindSocialAccountsByClientID(clientID)
	if err != nil {
		return nil, Upstream("Failed to list social accounts", err)
	}
	return accounts, nil
}

// UpdateAccount applies profile changes to an existing account.
func (s *MetricsService) UpdateAccount(a *db.SocialMediaAccount) error {
	if !ValidPlatform(a.Platform) {
		return Validationf("unsupported platform %q", a.Platform)
	}
	if _, err := s.GetAccount(a.ID); err != nil {
		return err
	}
	if err := s.store.UpdateSocialAccount(a); err != nil {
		return Upstream("Failed to update social account", err)
	}
	return nil
}

// DeleteAccount removes an account and its metrics.
func (s *MetricsService) DeleteAccount(id uuid.UUID) error {
	if _, err := s.GetAccount(id); err != nil {
		return err
	}
	if err := s.store.DeleteSocialAccount(id); err != nil {
		return Upstream("Failed to delete social account", err)
	}
	return nil
}

// UpsertMetricsInput carries one metrics sample. Followers is the only
// required measurement; the rest stay null when omitted.
type UpsertMetricsInput struct {
	AccountID      uuid.UUID
	RecordDate     time.Time
	Followers      int64
	Following      *int64
	PostsCount     *int64
	Reach          *int64
	Impressions    *int64
	ProfileViews   *int64
	EngagementRate *float64
	Notes          *string
}

// UpsertMetrics writes a sample keyed on (account, record_date): a second
// write for the same key updates the existing row instead of duplicating it.
func (s *MetricsService) UpsertMetrics(in UpsertMetricsInput) (*db.SocialMediaMetrics, error) {
	if in.Followers < 0 {
		return nil, Validationf("followers must be a non-negative integer")
	}
	if in.RecordDate.IsZero() {
		return nil, Validationf("record_date is required")
	}
	if _, err := s.GetAccount(in.AccountID); err != nil {
		return nil, err
	}

	date := truncateToDay(in.RecordDate)

	existing, err := s.store.FindMetricsByAccountAndDate(in.AccountID, date)
	if err != nil {
		return nil, Upstream("Failed to look up metrics", err)
	}

	if existing != nil {
		existing.Followers = in.Followers
		existing.Following = in.Following
		existing.PostsCount = in.PostsCount
		existing.Reach = in.Reach
		existing.Impressions = in.Impressions
		existing.ProfileViews = in.ProfileViews
		existing.EngagementRate = in.EngagementRate
		existing.Notes = in.Notes
		if err := s.store.UpdateMetrics(existing); err != nil {
			return nil, Upstream("Failed to update metrics", err)
		}
		return existing, nil
	}

	m := &db.SocialMediaMetrics{
		AccountID:      in.AccountID,
		RecordDate:     date,
		Followers:      in.Followers,
		Following:      in.Following,
		PostsCount:     in.PostsCount,
		Reach:          in.Reach,
		Impressions:    in.Impressions,
		ProfileViews:   in.ProfileViews,
		EngagementRate: in.EngagementRate,
		Notes:          in.Notes,
	}
	created, err := s.store.CreateMetrics(m)
	if err != nil {
		return nil, Upstream("Failed to create metrics", err)
	}
	return created, nil
}

// GrowthResult reports the change in one metric between two anchored samples.
type GrowthResult struct {
	Metric           string    `json:"metric"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	StartValue       float64   `json:"start_value"`
	EndValue         float64   `json:"end_value"`
	AbsoluteGrowth   float64   `json:"absolute_growth"`
	PercentageGrowth float64   `json:"percentage_growth"`
}

// metricValue extracts a named measurement from a sample. Missing optional
// measurements come back as absent rather than zero.
func metricValue(m *db.SocialMediaMetrics, metric string) (float64, bool, error) {
	switch metric {
	case "followers":
		return float64(m.Followers), true, nil
	case "following":
		if m.Following == nil {
			return 0, false, nil
		}
		return float64(*m.Following), true, nil
	case "posts_count":
		if m.PostsCount == nil {
			return 0, false, nil
		}
		return float64(*m.PostsCount), true, nil
	case "reach":
		if m.Reach == nil {
			return 0, false, nil
		}
		return float64(*m.Reach), true, nil
	case "impressions":
		if m.Impressions == nil {
			return 0, false, nil
		}
		return float64(*m.Impressions), true, nil
	case "profile_views":
		if m.ProfileViews == nil {
			return 0, false, nil
		}
		return float64(*m.ProfileViews), true, nil
	case "engagement_rate":
		if m.EngagementRate == nil {
			return 0, false, nil
		}
		return *m.EngagementRate, true, nil
	}
	return 0, false, Validationf("unknown metric %q", metric)
}

// Growth computes the delta of one metric between the closest samples at or
// before each endpoint. Returns (nil, nil) when either side lacks data or the
// start value is zero, so percentage growth never divides by zero.
func (s *MetricsService) Growth(accountID uuid.UUID, metric string, from, to time.Time) (*GrowthResult, error) {
	// Validate the metric name up front even if data is missing.
	if _, _, err := metricValue(&db.SocialMediaMetrics{}, metric); err != nil {
		return nil, err
	}

	start, err := s.store.FindMetricsAtOrBefore(accountID, truncateToDay(from))
	if err != nil {
		return nil, Upstream("Failed to look up start metrics", err)
	}
	end, err := s.store.FindMetricsAtOrBefore(accountID, truncateToDay(to))
	if err != nil {
		return nil, Upstream("Failed to look up end metrics", err)
	}
	if start == nil || end == nil {
		return nil, nil
	}

	startValue, ok, err := metricValue(start, metric)
	if err != nil || !ok {
		return nil, err
	}
	endValue, ok, err := metricValue(end, metric)
	if err != nil || !ok {
		return nil, err
	}
	if startValue == 0 {
		return nil, nil
	}

	return &GrowthResult{
		Metric:           metric,
		StartDate:        start.RecordDate,
		EndDate:          end.RecordDate,
		StartValue:       startValue,
		EndValue:         endValue,
		AbsoluteGrowth:   endValue - startValue,
		PercentageGrowth: (endValue - startValue) / startValue * 100,
	}, nil
}

// Latest returns the most recent sample for an account, or nil when the
// account has no data yet.
func (s *MetricsService) Latest(accountID uuid.UUID) (*db.SocialMediaMetrics, error) {
	if _, err := s.GetAccount(accountID); err != nil {
		return nil, err
	}
	m, err := s.store.FindLatestMetrics(accountID)
	if err != nil {
		return nil, Upstream("Failed to look up latest metrics", err)
	}
	return m, nil
}

// ListByAccount lists every sample for an account, newest first.
func (s *MetricsService) ListByAccount(accountID uuid.UUID) ([]db.SocialMediaMetrics, error) {
	if _, err := s.GetAccount(accountID); err != nil {
		return nil, err
	}
	metrics, err := s.store.FindMetricsByAccountID(accountID)
	if err != nil {
		return nil, Upstream("Failed to list metrics", err)
	}
	return metrics, nil
}

// ListInRange lists samples for an account between two dates, inclusive.
func (s *MetricsService) ListInRange(accountID uuid.UUID, from, to time.Time) ([]db.SocialMediaMetrics, error) {
	if to.Before(from) {
		return nil, Validationf("date range end precedes start")
	}
	if _, err := s.GetAccount(accountID); err != nil {
		return nil, err
	}
	metrics, err := s.store.FindMetricsInRange(accountID, truncateToDay(from), truncateToDay(to))
	if err != nil {
		return nil, Upstream("Failed to list metrics", err)
	}
	return metrics, nil
}

// ListByMonth lists samples bucketed under a calendar month record.
func (s *MetricsService) ListByMonth(accountID, monthID uuid.UUID) ([]db.SocialMediaMetrics, error) {
	month, err := s.store.FindMonthByID(monthID)
	if err != nil {
		return nil, Upstream("Failed to look up month", err)
	}
	if month == nil {
		return nil, NotFoundf("Month not found")
	}
	from := time.Date(month.Year, time.Month(month.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return s.ListInRange(accountID, from, to)
}

// AccountSummary pairs an account with its most recent sample for the
// per-client dashboard view.
type AccountSummary struct {
	Account db.SocialMediaAccount  `json:"account"`
	Latest  *db.SocialMediaMetrics `json:"latest,omitempty"`
}

// SummaryForClient returns every account of a client with its latest sample.
func (s *MetricsService) SummaryForClient(clientID uuid.UUID) ([]AccountSummary, error) {
	accounts, err := s.store.FindSocialAccountsByClientID(clientID)
	if err != nil {
		return nil, Upstream("Failed to list social accounts", err)
	}
	summaries := make([]AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		latest, err := s.store.FindLatestMetrics(account.ID)
		if err != nil {
			return nil, Upstream("Failed to look up latest metrics", err)
		}
		summaries = append(summaries, AccountSummary{Account: account, Latest: latest})
	}
	return summaries, nil
}

// DeleteMetricsRow removes a single sample.
func (s *MetricsService) DeleteMetricsRow(id uuid.UUID) error {
	if err := s.store.DeleteMetrics(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NotFoundf("Metrics row not found")
		}
		return Upstream("Failed to delete metrics", err)
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
