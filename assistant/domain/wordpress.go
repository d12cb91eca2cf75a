package domain

import "context"

// Category is a taxonomy term on the target site.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PublishStatus string

const (
	StatusPublish PublishStatus = "publish"
	StatusDraft   PublishStatus = "draft"
)

// PublishRequest is built fresh for every publish action and never persisted.
type PublishRequest struct {
	Post               GeneratedPost
	Status             PublishStatus
	SelectedCategoryID *int
}

type CategoryResult struct {
	Success    bool       `json:"success"`
	Categories []Category `json:"categories,omitempty"`
	Message    string     `json:"message"`
}

type PublishResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// CategorySource lists the categories of a site.
type CategorySource interface {
	FetchCategories(ctx context.Context, creds Credentials) CategoryResult
}

// Publisher sends a post to a site. Outcomes are reported in the result, never as errors.
type Publisher interface {
	Publish(ctx context.Context, creds Credentials, req PublishRequest) PublishResult
}
