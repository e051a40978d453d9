package queries

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

const monthColumns = `id, name, month, year, created_by, created_at`

// CreateMonth inserts a month row. The months table carries a unique index on
// (month, year); callers should check db.IsUniqueViolation on failure and
// re-fetch instead of treating a concurrent insert as an error.
func CreateMonth(month *db.Month) (*db.Month, error) {
	query := `
		INSERT INTO months (name, month, year, created_by)
		VALUES (:name, :month, :year, :created_by)
		RETURNING id, created_at`

	rows, err := db.DB.NamedQuery(query, month)
	if err != nil {
		if db.IsUniqueViolation(err) {
			log.Debugf("Month %d/%d already exists (unique violation).", month.Month, month.Year)
			return nil, err
		}
		log.Errorf("Error creating month: %v", err)
		return nil, fmt.Errorf("failed to create month: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.StructScan(month); err != nil {
			log.Errorf("Error scanning month data after creation: %v", err)
			return nil, fmt.Errorf("error scanning month after creation: %w", err)
		}
	} else {
		log.Error("No rows returned after month creation.")
		return nil, fmt.Errorf("no rows returned after month creation")
	}

	log.Infof("Month '%s' created (ID: %s)", month.Name, month.ID.String())
	return month, nil
}

// FindMonthByPair retrieves the canonical month row for a (month, year) pair.
// Returns (nil, nil) when no row matches.
func FindMonthByPair(month, year int) (*db.Month, error) {
	m := &db.Month{}
	query := `SELECT ` + monthColumns + ` FROM months WHERE month = $1 AND year = $2`
	err := db.DB.Get(m, query, month, year)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("Month %d/%d not found.", month, year)
			return nil, nil
		}
		log.Errorf("Error finding month %d/%d: %v", month, year, err)
		return nil, err
	}
	return m, nil
}

// FindMonthByID retrieves a month by ID. Returns (nil, nil) when no row
// matches.
func FindMonthByID(id uuid.UUID) (*db.Month, error) {
	m := &db.Month{}
	query := `SELECT ` + monthColumns + ` FROM months WHERE id = $1`
	err := db.DB.Get(m, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("Month with ID '%s' not found.", id.String())
			return nil, nil
		}
		log.Errorf("Error finding month by ID '%s': %v", id.String(), err)
		return nil, err
	}
	return m, nil
}

// FindAllMonths lists months, most recent calendar bucket first.
func FindAllMonths() ([]db.Month, error) {
	var months []db.Month
	query := `SELECT ` + monthColumns + ` FROM months ORDER BY year DESC, month DESC`
	if err := db.DB.Select(&months, query); err != nil {
		log.Errorf("Error listing months: %v", err)
		return nil, fmt.Errorf("error listing months: %w", err)
	}
	return months, nil
}

// UpdateMonthName changes the display label of a month. The (month, year)
// pair itself is immutable.
func UpdateMonthName(id uuid.UUID, name string) error {
	result, err := db.DB.Exec(`UPDATE months SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		log.Errorf("Error renaming month '%s': %v", id.String(), err)
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		log.Warnf("No month found with ID '%s' for rename.", id.String())
		return sql.ErrNoRows
	}
	return nil
}

// DeleteMonth removes a month row.
func DeleteMonth(id uuid.UUID) error {
	result, err := db.DB.Exec(`DELETE FROM months WHERE id = $1`, id)
	if err != nil {
		log.Errorf("Error deleting month with ID '%s': %v", id.String(), err)
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		log.Warnf("No month found with ID '%s' for deletion.", id.String())
		return sql.ErrNoRows
	}
	log.Infof("Month with ID '%s' deleted.", id.String())
	return nil
}
