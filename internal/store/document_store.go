package store

// The per-user document: a profile row plus one watchlist row per catalog id.
// Watchlist writes touch a single key so concurrent edits to different ids
// never overwrite each other.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vrsandeep/animelist/internal/models"
)

func insertProfile(ctx context.Context, tx *sql.Tx, user *models.User, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, email, display_name, photo_url, interests, favorite_animes, onboarded, updated_at)
		VALUES (?, ?, ?, '', '[]', '[]', 0, ?)
		ON CONFLICT(user_id) DO NOTHING`,
		user.ID, user.Email, user.DisplayName, now)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// EnsureDocument creates an empty document for user if none exists yet.
func (s *Store) EnsureDocument(ctx context.Context, user *models.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := insertProfile(ctx, tx, user, s.now()); err != nil {
		return err
	}
	return tx.Commit()
}

// Get loads the full document for uid. It returns ErrNotFound when the user
// has no document.
func (s *Store) Get(ctx context.Context, uid string) (*models.UserDocument, error) {
	var doc models.UserDocument
	var interests, favorites string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, email, display_name, photo_url, interests, favorite_animes, onboarded
		FROM profiles WHERE user_id = ?`, uid).Scan(
		&doc.UID, &doc.Email, &doc.DisplayName, &doc.PhotoURL, &interests, &favorites, &doc.Onboarded,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(interests), &doc.Interests); err != nil {
		return nil, fmt.Errorf("decode interests: %w", err)
	}
	if err := json.Unmarshal([]byte(favorites), &doc.FavoriteAnimes); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}

	doc.Watchlist, err = s.GetWatchlist(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MergeSet writes the non-nil fields of update into the profile of uid.
func (s *Store) MergeSet(ctx context.Context, uid string, update models.ProfileUpdate) error {
	var sets []string
	var args []interface{}

	if update.DisplayName != nil {
		sets = append(sets, "display_name = ?")
		args = append(args, *update.DisplayName)
	}
	if update.PhotoURL != nil {
		sets = append(sets, "photo_url = ?")
		args = append(args, *update.PhotoURL)
	}
	if update.Interests != nil {
		raw, err := json.Marshal(update.Interests)
		if err != nil {
			return err
		}
		sets = append(sets, "interests = ?")
		args = append(args, string(raw))
	}
	if update.FavoriteAnimes != nil {
		raw, err := json.Marshal(update.FavoriteAnimes)
		if err != nil {
			return err
		}
		sets = append(sets, "favorite_animes = ?")
		args = append(args, string(raw))
	}
	if update.Onboarded != nil {
		sets = append(sets, "onboarded = ?")
		args = append(args, *update.Onboarded)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, s.now(), uid)

	query := fmt.Sprintf("UPDATE profiles SET %s WHERE user_id = ?", strings.Join(sets, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetWatchlist loads every watchlist entry of uid.
func (s *Store) GetWatchlist(ctx context.Context, uid string) (models.Watchlist, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT mal_id, payload FROM watchlist_entries WHERE user_id = ?", uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	watchlist := models.Watchlist{}
	for rows.Next() {
		var malID int
		var payload string
		if err := rows.Scan(&malID, &payload); err != nil {
			return nil, err
		}
		var entry models.WatchlistEntry
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			return nil, fmt.Errorf("decode watchlist entry %d: %w", malID, err)
		}
		watchlist[models.WatchlistKey(malID)] = entry
	}
	return watchlist, rows.Err()
}

// UpdateWatchlistEntry writes entry at its catalog id key, replacing any previous
// entry there.
func (s *Store) UpdateWatchlistEntry(ctx context.Context, uid string, entry models.WatchlistEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO watchlist_entries (user_id, mal_id, status, added_at, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, mal_id) DO UPDATE SET
			status = excluded.status,
			added_at = excluded.added_at,
			payload = excluded.payload`,
		uid, entry.MalID, string(entry.Status), entry.AddedAt, string(payload))
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return ErrNotFound
		}
		return fmt.Errorf("write watchlist entry: %w", err)
	}
	return nil
}

// DeleteWatchlistEntry removes the entry at malID. Deleting an absent key is not an error.
func (s *Store) DeleteWatchlistEntry(ctx context.Context, uid string, malID int) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM watchlist_entries WHERE user_id = ? AND mal_id = ?", uid, malID)
	if err != nil {
		return fmt.Errorf("delete watchlist entry: %w", err)
	}
	return nil
}
