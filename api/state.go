package api

import "time"

type Post struct {
	Title           string   `json:"title"`
	Body            string   `json:"body"`
	BodyHTML        string   `json:"bodyHtml"`
	SEOTitle        string   `json:"seoTitle,omitempty"`
	MetaDescription string   `json:"metaDescription"`
	FocusKeyword    string   `json:"focusKeyword,omitempty"`
	Tags            []string `json:"tags"`
	Categories      []string `json:"categories"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	ImageAltText    string   `json:"imageAltText"`
	Snippet         string   `json:"snippet"`
}

// Credentials never carries the secret itself, only whether one is stored.
type Credentials struct {
	SiteURL   string `json:"siteUrl"`
	Username  string `json:"username"`
	HasSecret bool   `json:"hasSecret"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Alert struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Loading struct {
	Generating         bool `json:"generating"`
	SavingSettings     bool `json:"savingSettings"`
	FetchingCategories bool `json:"fetchingCategories"`
	Publishing         bool `json:"publishing"`
}

type State struct {
	Topic         string       `json:"topic"`
	Post          *Post        `json:"post"`
	Credentials   *Credentials `json:"credentials"`
	Categories    []Category   `json:"categories"`
	Alerts        []Alert      `json:"alerts"`
	PublishedURL  string       `json:"publishedUrl,omitempty"`
	APIKeyMissing bool         `json:"apiKeyMissing"`
	Loading       Loading      `json:"loading"`
}

type GenerateRequest struct {
	Topic string `json:"topic" binding:"required"`
}

type SettingsRequest struct {
	SiteURL  string `json:"siteUrl" binding:"required,url"`
	Username string `json:"username" binding:"required"`
	Secret   string `json:"secret" binding:"required"`
}

type PublishRequest struct {
	CategoryID *int `json:"categoryId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
