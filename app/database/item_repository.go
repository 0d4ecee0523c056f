package database

import (
	"encoding/json"
	"fmt"

	"github.com/feedmill/feedmill/app/feed"
)

// ItemRepository handles database operations for normalized items.
type ItemRepository struct {
	db *DB
}

func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// ReplaceItems swaps a feed's archived items for a freshly normalized
// list, preserving document order through the position column.
func (r *ItemRepository) ReplaceItems(feedName string, items []feed.Item) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM feed_items WHERE feed_name = ?", feedName); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO feed_items (
			feed_name, position, title, summary, content, link,
			image, category, author, date, date_string, extra
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range items {
		extra, err := json.Marshal(item.Extra)
		if err != nil {
			return fmt.Errorf("failed to serialize extra fields: %w", err)
		}
		_, err = stmt.Exec(feedName, i, item.Title, item.Summary, item.Content,
			item.Link, item.Image, item.Category, item.Author,
			item.Date, item.DateString, string(extra))
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetItems returns a feed's archived items in document order. A limit
// of 0 returns everything.
func (r *ItemRepository) GetItems(feedName string, limit int) ([]feed.Item, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(`
		SELECT title, summary, content, link, image, category, author,
		       date, date_string, extra
		FROM feed_items
		WHERE feed_name = ?
		ORDER BY position
		LIMIT ?
	`, feedName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []feed.Item
	for rows.Next() {
		var item feed.Item
		var extra string
		err := rows.Scan(&item.Title, &item.Summary, &item.Content, &item.Link,
			&item.Image, &item.Category, &item.Author,
			&item.Date, &item.DateString, &extra)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		if err := json.Unmarshal([]byte(extra), &item.Extra); err != nil {
			return nil, fmt.Errorf("failed to decode extra fields: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

// GetItemCount returns the number of archived items for a feed.
func (r *ItemRepository) GetItemCount(feedName string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM feed_items WHERE feed_name = ?", feedName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}

// GetTotalItemCount returns the number of archived items across feeds.
func (r *ItemRepository) GetTotalItemCount() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM feed_items").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get total item count: %w", err)
	}
	return count, nil
}
