package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

// MonthStore is the persistence surface the month resolution service needs.
type MonthStore interface {
	FindMonthByPair(month, year int) (*db.Month, error)
	FindMonthByID(id uuid.UUID) (*db.Month, error)
	CreateMonth(m *db.Month) (*db.Month, error)
}

// MonthService maps (month, year) pairs to the canonical global month row,
// creating it on first use.
type MonthService struct {
	store MonthStore
}

func NewMonthService(store MonthStore) *MonthService {
	return &MonthService{store: store}
}

// MonthName builds the display label for a month bucket, e.g. "March 2025".
func MonthName(month, year int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}

// Resolve returns the canonical month row for a (month, year) pair, inserting
// it if absent. The second return value reports whether this call created the
// row, so multi-step callers can compensate if a later step fails.
//
// The insert races with concurrent resolutions of the same unseen pair; the
// unique index on (month, year) decides the winner and the loser re-fetches.
func (s *MonthService) Resolve(month, year int, createdBy uuid.UUID) (*db.Month, bool, error) {
	if month < 1 || month > 12 {
		return nil, false, Validationf("month must be between 1 and 12, got %d", month)
	}
	if year < 1970 || year > 9999 {
		return nil, false, Validationf("year %d is out of range", year)
	}

	existing, err := s.store.FindMonthByPair(month, year)
	if err != nil {
		return nil, false, Upstream("Failed to look up month", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	m := &db.Month{
		Name:      MonthName(month, year),
		Month:     month,
		Year:      year,
		CreatedBy: createdBy,
	}
	created, err := s.store.CreateMonth(m)
	if err != nil {
		if db.IsUniqueViolation(err) {
			log.Debugf("Month %d/%d created concurrently, re-fetching.", month, year)
			winner, ferr := s.store.FindMonthByPair(month, year)
			if ferr != nil {
				return nil, false, Upstream("Failed to re-fetch month after conflict", ferr)
			}
			if winner == nil {
				return nil, false, Upstream("Month vanished after unique conflict", err)
			}
			return winner, false, nil
		}
		return nil, false, Upstream("Failed to create month", err)
	}
	return created, true, nil
}

// Get returns a month by ID.
func (s *MonthService) Get(id uuid.UUID) (*db.Month, error) {
	m, err := s.store.FindMonthByID(id)
	if err != nil {
		return nil, Upstream("Failed to look up month", err)
	}
	if m == nil {
		return nil, NotFoundf("Month not found")
	}
	return m, nil
}
