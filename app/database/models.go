package database

import "time"

// Feed represents a feed record in the database.
type Feed struct {
	Name          string     `json:"name"`
	URL           string     `json:"url"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
