package queries

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

const metricsColumns = `id, account_id, record_date, followers, following, posts_count, reach, impressions, profile_views, engagement_rate, notes, created_at, updated_at`

// CreateMetrics inserts a metrics sample.
func CreateMetrics(m *db.SocialMediaMetrics) (*db.SocialMediaMetrics, error) {
	query := `
		INSERT INTO social_media_metrics (account_id, record_date, followers, following, posts_count, reach, impressions, profile_views, engagement_rate, notes)
		VALUES (:account_id, :record_date, :followers, :following, :posts_count, :reach, :impressions, :profile_views, :engagement_rate, :notes)
		RETURNING id, created_at, updated_at`

	rows, err := db.DB.NamedQuery(query, m)
	if err != nil {
		log.Errorf("Error creating metrics row: %v", err)
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.StructScan(m); err != nil {
			log.Errorf("Error scanning metrics after creation: %v", err)
			return nil, fmt.Errorf("error scanning metrics after creation: %w", err)
		}
	} else {
		log.Error("No rows returned after metrics creation.")
		return nil, fmt.Errorf("no rows returned after metrics creation")
	}

	log.Infof("Metrics recorded for account %s on %s.", m.AccountID.String(), m.RecordDate.Format("2006-01-02"))
	return m, nil
}

// UpdateMetrics overwrites the measured fields of an existing sample.
func UpdateMetrics(m *db.SocialMediaMetrics) error {
	m.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE social_media_metrics
		SET followers = :followers, following = :following, posts_count = :posts_count,
		    reach = :reach, impressions = :impressions, profile_views = :profile_views,
		    engagement_rate = :engagement_rate, notes = :notes, updated_at = :updated_at
		WHERE id = :id`

	result, err := db.DB.NamedExec(query, m)
	if err != nil {
		log.Errorf("Error updating metrics row '%s': %v", m.ID.String(), err)
		return fmt.Errorf("failed to update metrics: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		log.Warnf("No metrics row found with ID '%s' for update.", m.ID.String())
		return sql.ErrNoRows
	}
	return nil
}

// FindMetricsByAccountAndDate retrieves the sample for the natural key
// (account, record_date). Returns (nil, nil) when no row matches.
func FindMetricsByAccountAndDate(accountID uuid.UUID, date time.Time) (*db.SocialMediaMetrics, error) {
	m := &db.SocialMediaMetrics{}
	query := `SELECT ` + metricsColumns + ` FROM social_media_metrics WHERE account_id = $1 AND record_date = $2`
	err := db.DB.Get(m, query, accountID, date)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Errorf("Error finding metrics for account '%s' on %s: %v", accountID.String(), date.Format("2006-01-02"), err)
		return nil, err
	}
	return m, nil
}

// FindMetricsByAccountID lists every sample for an account, newest first.
func FindMetricsByAccountID(accountID uuid.UUID) ([]db.SocialMediaMetrics, error) {
	var metrics []db.SocialMediaMetrics
	query := `SELECT ` + metricsColumns + ` FROM social_media_metrics WHERE account_id = $1 ORDER BY record_date DESC`
	if err := db.DB.Select(&metrics, query, accountID); err != nil {
		log.Errorf("Error listing metrics for account '%s': %v", accountID.String(), err)
		return nil, fmt.Errorf("error listing metrics by account ID: %w", err)
	}
	return metrics, nil
}

// FindMetricsInRange lists samples for an account between two dates,
// inclusive, oldest first.
func FindMetricsInRange(accountID uuid.UUID, from, to time.Time) ([]db.SocialMediaMetrics, error) {
	var metrics []db.SocialMediaMetrics
	query := `SELECT ` + metricsColumns + ` FROM social_media_metrics WHERE account_id = $1 AND record_date BETWEEN $2 AND $3 ORDER BY record_date ASC`
	if err := db.DB.Select(&metrics, query, accountID, from, to); err != nil {
		log.Errorf("Error listing metrics in range for account '%s': %v", accountID.String(), err)
		return nil, fmt.Errorf("error listing metrics in range: %w", err)
	}
	return metrics, nil
}

// FindMetricsAtOrBefore returns the most recent sample recorded at or before
// the given date, or (nil, nil) when the account has no data that early.
// Growth computations anchor both ends of the window with this.
func FindMetricsAtOrBefore(accountID uuid.UUID, date time.Time) (*db.SocialMediaMetrics, error) {
	m := &db.SocialMediaMetrics{}
	query := `SELECT ` + metricsColumns + ` FROM social_media_metrics WHERE account_id = $1 AND record_date <= $2 ORDER BY record_date DESC LIMIT 1`
	err := db.DB.Get(m, query, accountID, date)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Errorf("Error finding metrics at or before %s for account '%s': %v", date.Format("2006-01-02"), accountID.String(), err)
		return nil, err
	}
	return m, nil
}

// FindLatestMetrics returns the most recent sample for an account, or
// (nil, nil) when none exist.
func FindLatestMetrics(accountID uuid.UUID) (*db.SocialMediaMetrics, error) {
	m := &db.SocialMediaMetrics{}
	query := `SELECT ` + metricsColumns + ` FROM social_media_metrics WHERE account_id = $1 ORDER BY record_date DESC LIMIT 1`
	err := db.DB.Get(m, query, accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Errorf("Error finding latest metrics for account '%s': %v", accountID.String(), err)
		return nil, err
	}
	return m, nil
}

// DeleteMetrics removes a single metrics row.
func DeleteMetrics(id uuid.UUID) error {
	result, err := db.DB.Exec(`DELETE FROM social_media_metrics WHERE id = $1`, id)
	if err != nil {
		log.Errorf("Error deleting metrics row '%s': %v", id.String(), err)
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		log.Warnf("No metrics row found with ID '%s' for deletion.", id.String())
		return sql.ErrNoRows
	}
	log.Infof("Metrics row '%s' deleted.", id.String())
	return nil
}
