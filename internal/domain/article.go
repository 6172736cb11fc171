package domain

import "time"

// Article is a core entity describing a news item fetched from providers.
type Article struct {
	ID          string
	Title       string
	Source      string
	URL         string
	RawText     string
	Summary     string
	PublishedAt time.Time
	CreatedAt   time.Time
}
