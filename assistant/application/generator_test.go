package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dfryer1193/wpgen/assistant/domain"
)

func TestContentGenerator_Generate(t *testing.T) {
	text := &fakeTextModel{response: "```json\n" + validPostJSON + "\n```"}
	img := &fakeImageModel{data: pngBytes(t, 32, 32)}
	g := NewContentGenerator(text, img, GeneratorConfig{})

	post, err := g.Generate(context.Background(), "  Best SEO Plugins  ")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if post.Title != "Best SEO Plugins" {
		t.Errorf("Title = %q", post.Title)
	}
	if !strings.HasPrefix(post.ImageURL, "data:image/jpeg;base64,") {
		t.Errorf("ImageURL = %q, want a jpeg data URI", post.ImageURL)
	}

	if len(text.prompts) != 1 {
		t.Fatalf("text model calls = %d, want 1", len(text.prompts))
	}
	if !strings.Contains(text.prompts[0], `"Best SEO Plugins"`) || !strings.Contains(text.prompts[0], "Italian") {
		t.Errorf("Prompt should carry the trimmed topic and language, got %q", text.prompts[0])
	}
	if len(img.prompts) != 1 || !strings.Contains(img.prompts[0], "best seo plugins") {
		t.Errorf("Image prompt should be seeded by the focus keyword, got %v", img.prompts)
	}
}

func TestContentGenerator_ImageSeedFallsBackToTitle(t *testing.T) {
	text := &fakeTextModel{response: `{"title":"Giardinaggio","body":"<p>b</p>","metaDescription":"m","tags":[],"categories":[],"imageAltText":"a"}`}
	img := &fakeImageModel{data: pngBytes(t, 8, 8)}
	g := NewContentGenerator(text, img, GeneratorConfig{Language: "English"})

	if _, err := g.Generate(context.Background(), "gardening"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(img.prompts) != 1 || !strings.Contains(img.prompts[0], "Giardinaggio") {
		t.Errorf("Image prompt = %v, want it seeded by the title", img.prompts)
	}
	if !strings.Contains(text.prompts[0], "English") {
		t.Error("Expected configured language in prompt")
	}
}

func TestContentGenerator_ImageFailureKeepsPost(t *testing.T) {
	tests := []struct {
		name string
		img  *fakeImageModel
	}{
		{name: "Model error", img: &fakeImageModel{err: errors.New("quota exceeded")}},
		{name: "No image data", img: &fakeImageModel{}},
		{name: "Undecodable image", img: &fakeImageModel{data: []byte("junk")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewContentGenerator(&fakeTextModel{response: validPostJSON}, tt.img, GeneratorConfig{})

			post, err := g.Generate(context.Background(), "topic")
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if post.ImageURL != "" {
				t.Errorf("ImageURL = %q, want empty", post.ImageURL)
			}
		})
	}
}

func TestContentGenerator_BodyIsReturnedAsParsed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "Plain text", body: "Plain body text"},
		{name: "Markdown", body: "## Intro\n\nTesto"},
		{name: "HTML", body: "<p>Corpo</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := json.Marshal(map[string]any{
				"title":           "T",
				"body":            tt.body,
				"metaDescription": "m",
				"tags":            []string{},
				"categories":      []string{},
				"imageAltText":    "a",
			})
			if err != nil {
				t.Fatalf("Failed to build response: %v", err)
			}
			g := NewContentGenerator(&fakeTextModel{response: string(payload)}, nil, GeneratorConfig{})

			post, err := g.Generate(context.Background(), "topic")
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if post.Body != tt.body {
				t.Errorf("Body = %q, want parsed value %q", post.Body, tt.body)
			}
		})
	}
}

func TestContentGenerator_Errors(t *testing.T) {
	tests := []struct {
		name        string
		text        domain.TextModel
		topic       string
		expected    error
		userMessage string
	}{
		{
			name:        "No API key",
			text:        nil,
			topic:       "topic",
			expected:    domain.ErrCapabilityUnavailable,
			userMessage: "Impossibile generare contenuto: API key mancante.",
		},
		{
			name:     "Blank topic",
			text:     &fakeTextModel{response: validPostJSON},
			topic:    "   ",
			expected: domain.ErrInvalidInput,
		},
		{
			name:     "Malformed response",
			text:     &fakeTextModel{response: "Sure! Here is your post."},
			topic:    "topic",
			expected: domain.ErrMalformedResponse,
		},
		{
			name:        "Rejected key",
			text:        &fakeTextModel{err: errors.New("Error 400, Message: API key not valid. Please pass a valid API key.")},
			topic:       "topic",
			expected:    domain.ErrInvalidAPIKey,
			userMessage: "La chiave API di Gemini non è valida. Controlla la configurazione.",
		},
		{
			name:     "Service error",
			text:     &fakeTextModel{err: errors.New("503 overloaded")},
			topic:    "topic",
			expected: domain.ErrGenerationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &fakeImageModel{data: pngBytes(t, 8, 8)}
			g := NewContentGenerator(tt.text, img, GeneratorConfig{})

			post, err := g.Generate(context.Background(), tt.topic)
			if !errors.Is(err, tt.expected) {
				t.Fatalf("Generate error = %v, want %v", err, tt.expected)
			}
			if post != nil {
				t.Errorf("Expected no post, got %+v", post)
			}
			if img.calls() != 0 {
				t.Errorf("image model calls = %d, want 0", img.calls())
			}
			if tt.userMessage != "" && domain.UserMessage(err) != tt.userMessage {
				t.Errorf("UserMessage = %q, want %q", domain.UserMessage(err), tt.userMessage)
			}
		})
	}
}

func TestContentGenerator_Available(t *testing.T) {
	if NewContentGenerator(nil, nil, GeneratorConfig{}).Available() {
		t.Error("Expected generator without text model to be unavailable")
	}
	if !NewContentGenerator(&fakeTextModel{}, nil, GeneratorConfig{}).Available() {
		t.Error("Expected generator with text model to be available")
	}
}
