package database

import (
	"database/sql"
	"fmt"
	"time"
)

// FeedRepository handles database operations for feeds.
type FeedRepository struct {
	db *DB
}

func NewFeedRepository(db *DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// UpsertFeed registers a feed source, updating the URL when it changed.
func (r *FeedRepository) UpsertFeed(name, url string) error {
	_, err := r.db.Exec(`
		INSERT INTO feeds (name, url)
		VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET url = excluded.url
	`, name, url)
	if err != nil {
		return fmt.Errorf("failed to upsert feed: %w", err)
	}
	return nil
}

// TouchFetched records a successful fetch time for a feed.
func (r *FeedRepository) TouchFetched(name string, at time.Time) error {
	_, err := r.db.Exec(`
		UPDATE feeds SET last_fetched_at = ? WHERE name = ?
	`, at.UTC(), name)
	if err != nil {
		return fmt.Errorf("failed to update fetch time: %w", err)
	}
	return nil
}

// GetFeed returns one feed by name, nil when absent.
func (r *FeedRepository) GetFeed(name string) (*Feed, error) {
	var feed Feed
	var lastFetched sql.NullTime
	err := r.db.QueryRow(`
		SELECT name, url, last_fetched_at, created_at
		FROM feeds WHERE name = ?
	`, name).Scan(&feed.Name, &feed.URL, &lastFetched, &feed.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	if lastFetched.Valid {
		feed.LastFetchedAt = &lastFetched.Time
	}
	return &feed, nil
}

// GetFeeds returns all registered feeds ordered by name.
func (r *FeedRepository) GetFeeds() ([]Feed, error) {
	rows, err := r.db.Query(`
		SELECT name, url, last_fetched_at, created_at
		FROM feeds ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get feeds: %w", err)
	}
	defer rows.Close()

	var feeds []Feed
	for rows.Next() {
		var feed Feed
		var lastFetched sql.NullTime
		if err := rows.Scan(&feed.Name, &feed.URL, &lastFetched, &feed.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		if lastFetched.Valid {
			feed.LastFetchedAt = &lastFetched.Time
		}
		feeds = append(feeds, feed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return feeds, nil
}

// GetFeedCount returns the number of registered feeds.
func (r *FeedRepository) GetFeedCount() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM feeds").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get feed count: %w", err)
	}
	return count, nil
}
