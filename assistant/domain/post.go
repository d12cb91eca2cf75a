package domain

import "context"

// GeneratedPost is the structured article produced by one generation call.
// Title, Body and MetaDescription are always set; the image fields are optional.
type GeneratedPost struct {
	Title           string   `json:"title"`
	Body            string   `json:"body"`
	SEOTitle        string   `json:"seoTitle,omitempty"`
	MetaDescription string   `json:"metaDescription"`
	FocusKeyword    string   `json:"focusKeyword,omitempty"`
	Tags            []string `json:"tags"`
	// Categories are suggestions from the model and are advisory only.
	Categories   []string `json:"categories"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	ImageAltText string   `json:"imageAltText,omitempty"`
}

// TextModel produces raw text for a prompt.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageModel produces at most one image for a prompt.
// A nil slice with a nil error means the model returned nothing.
type ImageModel interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}
