package queries

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

const userColumns = `id, email, name, password_hash, role, active, website_url, location, keywords, reset_token_hash, reset_token_expires, created_at, updated_at`

// CreateUser inserts a new user and fills in the generated fields.
func CreateUser(user *db.User) (*db.User, error) {
	query := `
		INSERT INTO users (email, name, password_hash, role, active, website_url, location, keywords)
		VALUES (:email, :name, :password_hash, :role, :active, :website_url, :location, :keywords)
		RETURNING id, created_at, updated_at`

	rows, err := db.DB.NamedQuery(query, user)
	if err != nil {
		log.Errorf("Error creating user: %v", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.StructScan(user); err != nil {
			log.Errorf("Error scanning user data after creation: %v", err)
			return nil, fmt.Errorf("error scanning user after creation: %w", err)
		}
	} else {
		log.Error("No rows returned after user creation.")
		return nil, fmt.Errorf("no rows returned after user creation")
	}

	log.Infof("User %s created with ID: %s", user.Email, user.ID.String())
	return user, nil
}

// FindUserByEmail retrieves a user by email. Returns (nil, nil) when no row
// matches.
func FindUserByEmail(email string) (*db.User, error) {
	user := &db.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := db.DB.Get(user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("User with email '%s' not found.", email)
			return nil, nil
		}
		log.Errorf("Error finding user by email '%s': %v", email, err)
		return nil, err
	}
	return user, nil
}

// FindUserByID retrieves a user by ID. Returns (nil, nil) when no row matches.
func FindUserByID(id uuid.UUID) (*db.User, error) {
	user := &db.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := db.DB.Get(user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("User with ID '%s' not found.", id.String())
			return nil, nil
		}
		log.Errorf("Error finding user by ID '%s': %v", id.String(), err)
		return nil, err
	}
	return user, nil
}

// FindUserByResetTokenHash looks up a user by the sha256 digest of an
// outstanding setup/reset token.
func FindUserByResetTokenHash(hash string) (*db.User, error) {
	user := &db.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token_hash = $1`
	err := db.DB.Get(user, query, hash)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debug("No user found for reset token hash.")
			return nil, nil
		}
		log.Errorf("Error finding user by reset token: %v", err)
		return nil, err
	}
	return user, nil
}

// FindAllUsers lists every user, newest first.
func FindAllUsers() ([]db.User, error) {
	var users []db.User
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	if err := db.DB.Select(&users, query); err != nil {
		log.Errorf("Error listing users: %v", err)
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// FindUsersByRole lists users with the given role, newest first.
func FindUsersByRole(role string) ([]db.User, error) {
	var users []db.User
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at DESC`
	if err := db.DB.Select(&users, query, role); err != nil {
		log.Errorf("Error listing users with role '%s': %v", role, err)
		return nil, fmt.Errorf("error listing users by role: %w", err)
	}
	return users, nil
}

// CountUsersByRole returns the number of users carrying a role. Used for the
// last-remaining-editor delete guard.
func CountUsersByRole(role string) (int, error) {
	var count int
	if err := db.DB.Get(&count, `SELECT COUNT(*) FROM users WHERE role = $1`, role); err != nil {
		log.Errorf("Error counting users with role '%s': %v", role, err)
		return 0, err
	}
	return count, nil
}

// UpdateUser updates a user's profile fields.
func UpdateUser(user *db.User) error {
	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = :email, name = :name, role = :role, active = :active,
		    website_url = :website_url, location = :location, keywords = :keywords,
		    updated_at = :updated_at
		WHERE id = :id`

	result, err := db.DB.NamedExec(query, user)
	if err != nil {
		log.Errorf("Error updating user with ID '%s': %v", user.ID.String(), err)
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warnf("No user found with ID '%s' for update.", user.ID.String())
		return sql.ErrNoRows
	}

	log.Infof("User with ID '%s' updated.", user.ID.String())
	return nil
}

// SetUserResetToken stores a hashed setup/reset token and its expiry.
func SetUserResetToken(id uuid.UUID, hash string, expires time.Time) error {
	query := `UPDATE users SET reset_token_hash = $2, reset_token_expires = $3, updated_at = NOW() WHERE id = $1`
	result, err := db.DB.Exec(query, id, hash, expires)
	if err != nil {
		log.Errorf("Error storing reset token for user '%s': %v", id.String(), err)
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetUserPassword stores a new password hash, clears any outstanding reset
// token, and optionally activates the account (invite setup flow).
func SetUserPassword(id uuid.UUID, passwordHash string, activate bool) error {
	query := `
		UPDATE users
		SET password_hash = $2,
		    active = active OR $3,
		    reset_token_hash = NULL,
		    reset_token_expires = NULL,
		    updated_at = NOW()
		WHERE id = $1`
	result, err := db.DB.Exec(query, id, passwordHash, activate)
	if err != nil {
		log.Errorf("Error setting password for user '%s': %v", id.String(), err)
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		log.Warnf("No user found with ID '%s' for password update.", id.String())
		return sql.ErrNoRows
	}
	log.Infof("Password updated for user '%s'.", id.String())
	return nil
}

// DeleteUser deletes a user by ID.
func DeleteUser(id uuid.UUID) error {
	result, err := db.DB.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Errorf("Error deleting user with ID '%s': %v", id.String(), err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warnf("No user found with ID '%s' for deletion.", id.String())
		return sql.ErrNoRows
	}

	log.Infof("User with ID '%s' deleted.", id.String())
	return nil
}
