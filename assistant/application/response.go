package application

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/dfryer1193/wpgen/assistant/domain"
)

var fencePattern = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// stripFence removes an optional leading/trailing fenced code block around the model output.
func stripFence(text string) string {
	trimmed := strings.TrimSpace(text)
	matches := fencePattern.FindStringSubmatch(trimmed)
	if len(matches) == 3 && matches[2] != "" {
		return strings.TrimSpace(matches[2])
	}
	return trimmed
}

// postPayload mirrors the JSON object the prompt asks for. Pointer fields
// distinguish a missing key from an empty value.
type postPayload struct {
	Title           *string   `json:"title"`
	Body            *string   `json:"body"`
	SEOTitle        *string   `json:"seoTitle"`
	MetaDescription *string   `json:"metaDescription"`
	FocusKeyword    *string   `json:"focusKeyword"`
	Tags            *[]string `json:"tags"`
	Categories      *[]string `json:"categories"`
	ImageAltText    *string   `json:"imageAltText"`
}

// parsePost decodes and validates the model output. Any violation is ErrMalformedResponse.
func parsePost(text string) (*domain.GeneratedPost, error) {
	var payload postPayload
	if err := json.Unmarshal([]byte(stripFence(text)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	var missing []string
	if payload.Title == nil {
		missing = append(missing, "title")
	}
	if payload.Body == nil {
		missing = append(missing, "body")
	}
	if payload.MetaDescription == nil {
		missing = append(missing, "metaDescription")
	}
	if payload.ImageAltText == nil {
		missing = append(missing, "imageAltText")
	}
	if payload.Tags == nil {
		missing = append(missing, "tags")
	}
	if payload.Categories == nil {
		missing = append(missing, "categories")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields %s", domain.ErrMalformedResponse, strings.Join(missing, ", "))
	}

	return &domain.GeneratedPost{
		Title:           *payload.Title,
		Body:            *payload.Body,
		SEOTitle:        deref(payload.SEOTitle),
		MetaDescription: *payload.MetaDescription,
		FocusKeyword:    deref(payload.FocusKeyword),
		Tags:            *payload.Tags,
		Categories:      *payload.Categories,
		ImageAltText:    *payload.ImageAltText,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
