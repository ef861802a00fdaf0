package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vrsandeep/animelist/internal/models"
)

const sessionTTL = 7 * 24 * time.Hour

// CreateUser registers a new account and creates its empty profile document
// in the same transaction.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash, displayName string) (*models.User, error) {
	email = strings.TrimSpace(email)
	user := &models.User{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   s.now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, display_name, verified, created_at) VALUES (?, ?, ?, ?, 0, ?)",
		user.ID, user.Email, passwordHash, user.DisplayName, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if err := insertProfile(ctx, tx, user, s.now()); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	user.PasswordHash = passwordHash
	return user, nil
}

// GetUserByEmail retrieves a user by their unique email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, display_name, verified, created_at FROM users WHERE email = ?",
		strings.TrimSpace(email)))
}

// GetUserByID retrieves a user by their primary key.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, display_name, verified, created_at FROM users WHERE id = ?", id))
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.Verified, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserVerified flags a user's email as verified.
func (s *Store) SetUserVerified(ctx context.Context, id string, verified bool) error {
	_, err := s.db.ExecContext(ctx, "UPDATE users SET verified = ? WHERE id = ?", verified, id)
	return err
}

// DeleteUser removes a user. Cascading deletes handle sessions and the profile document.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	return err
}

// CreateSession creates a new session for a user and returns the session token.
func (s *Store) CreateSession(ctx context.Context, userID string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)
	expiry := s.now().Add(sessionTTL)
	_, err := s.db.ExecContext(ctx, "INSERT INTO sessions (token, user_id, expiry) VALUES (?, ?, ?)", token, userID, expiry)
	return token, err
}

// GetUserFromSession retrieves a user based on a session token.
func (s *Store) GetUserFromSession(ctx context.Context, token string) (*models.User, error) {
	var userID string
	var expiry time.Time
	err := s.db.QueryRowContext(ctx, "SELECT user_id, expiry FROM sessions WHERE token = ?", token).Scan(&userID, &expiry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("invalid session token")
		}
		return nil, err
	}

	if s.now().After(expiry) {
		s.DeleteSession(ctx, token) // Clean up expired session
		return nil, errors.New("session expired")
	}

	return s.GetUserByID(ctx, userID)
}

// DeleteSession removes a session from the database (used for logout).
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

// DeleteExpiredSessions purges every session past its expiry and returns how many were removed.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expiry < ?", s.now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
