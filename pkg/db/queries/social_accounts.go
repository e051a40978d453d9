package queries

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

const accountColumns = `id, client_id, platform, username, display_name, profile_url, profile_image_url, created_at, updated_at`

// CreateSocialAccount inserts a social media account row.
func CreateSocialAccount(account *db.SocialMediaAccount) (*db.SocialMediaAccount, error) {
	query := `
		INSERT INTO social_media_accounts (client_id, platform, username, display_name, profile_url, profile_image_url)
		VALUES (:client_id, :platform, :username, :display_name, :profile_url, :profile_image_url)
		RETURNING id, created_at, updated_at`

	rows, err := db.DB.NamedQuery(query, account)
	if err != nil {
		log.Errorf("Error creating social account: %v", err)
		return nil, fmt.Errorf("failed to create social account: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.StructScan(account); err != nil {
			log.Errorf("Error scanning social account after creation: %v", err)
			return nil, fmt.Errorf("error scanning social account after creation: %w", err)
		}
	} else {
		log.Error("No rows returned after social account creation.")
		return nil, fmt.Errorf("no rows returned after social account creation")
	}

	log.Infof("Social account @%s (%s) created for client %s.", account.Username, account.Platform, account.ClientID.String())
	return account, nil
}

// FindSocialAccountByID retrieves an account by ID. Returns (nil, nil) when
// no row matches.
func FindSocialAccountByID(id uuid.UUID) (*db.SocialMediaAccount, error) {
	account := &db.SocialMediaAccount{}
	query := `SELECT ` + accountColumns + ` FROM social_media_accounts WHERE id = $1`
	err := db.DB.Get(account, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("Social account with ID '%s' not found.", id.String())
			return nil, nil
		}
		log.Errorf("Error finding social account by ID '%s': %v", id.String(), err)
		return nil, err
	}
	return account, nil
}

// FindSocialAccountsByClientID lists a client's accounts, oldest first.
func FindSocialAccountsByClientID(clientID uuid.UUID) ([]db.SocialMediaAccount, error) {
	var accounts []db.SocialMediaAccount
	query := `SELECT ` + accountColumns + ` FROM social_media_accounts WHERE client_id = $1 ORDER BY created_at ASC`
	if err := db.DB.Select(&accounts, query, clientID); err != nil {
		log.Errorf("Error listing social accounts for client '%s': %v", clientID.String(), err)
		return nil, fmt.Errorf("error listing social accounts by client ID: %w", err)
	}
	return accounts, nil
}

// UpdateSocialAccount updates the mutable profile fields of an account.
func UpdateSocialAccount(account *db.SocialMediaAccount) error {
	account.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE social_media_accounts
		SET platform = :platform, username = :username, display_name = :display_name,
		    profile_url = :profile_url, profile_image_url = :profile_image_url,
		    updated_at = :updated_at
		WHERE id = :id`

	result, err := db.DB.NamedExec(query, account)
	if err != nil {
		log.Errorf("Error updating social account '%s': %v", account.ID.String(), err)
		return fmt.Errorf("failed to update social account: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		log.Warnf("No social account found with ID '%s' for update.", account.ID.String())
		return sql.ErrNoRows
	}
	return nil
}

// DeleteSocialAccount removes an account and its metrics rows.
func DeleteSocialAccount(id uuid.UUID) error {
	if _, err := db.DB.Exec(`DELETE FROM social_media_metrics WHERE account_id = $1`, id); err != nil {
		log.Errorf("Error deleting metrics for social account '%s': %v", id.String(), err)
		return err
	}
	result, err := db.DB.Exec(`DELETE FROM social_media_accounts WHERE id = $1`, id)
	if err != nil {
		log.Errorf("Error deleting social account '%s': %v", id.String(), err)
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		log.Warnf("No social account found with ID '%s' for deletion.", id.String())
		return sql.ErrNoRows
	}
	log.Infof("Social account '%s' deleted.", id.String())
	return nil
}
