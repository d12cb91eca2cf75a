package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dfryer1193/wpgen/assistant/domain"
	"github.com/rs/zerolog/log"
)

const (
	defaultLanguage = "Italian"

	// invalidKeyMarker is the text the AI service puts in errors for a rejected key.
	invalidKeyMarker = "API key not valid"
)

const postPromptTemplate = `You are an expert content writer and SEO specialist. Write a blog post in %[1]s about the topic: %[2]q.
The post must be SEO-optimised. Reply ONLY with a JSON object with this exact structure:
{
  "title": "A catchy, SEO-optimised title for the post (max 70 characters)",
  "body": "<p>The post content written in HTML. Informative, engaging and well structured, with at least 3-4 paragraphs.</p>",
  "seoTitle": "A title for search engines (max 60 characters; repeat the title if it would be the same)",
  "metaDescription": "A concise, persuasive meta description (max 160 characters)",
  "focusKeyword": "The main keyword the post focuses on",
  "tags": ["3-5", "relevant", "tags"],
  "categories": ["One main category for the post, e.g. 'Digital Marketing' or 'Technology'"],
  "imageAltText": "A descriptive, SEO-optimised alt text for a representative image (max 125 characters)"
}

The 'body' field must contain valid HTML and the whole output must be a single valid JSON object with no surrounding text or markdown.
Do not include comments in the JSON.
Respect the maximum lengths given for the title, meta description and imageAltText.
All text values must be written in %[1]s.
`

const imagePromptTemplate = `A high-quality, SEO-friendly blog post image related to the topic: %q. Visually appealing, suitable for web, and illustrative. Focus on a clean and modern aesthetic.`

type GeneratorConfig struct {
	// Language the post is written in. Defaults to Italian.
	Language string
}

// ContentGenerator turns a topic into a structured post using a text model
// and, optionally, an image model.
type ContentGenerator struct {
	text     domain.TextModel
	image    domain.ImageModel
	language string
}

// NewContentGenerator builds a generator. A nil text model means no API key is
// configured and every Generate call fails with ErrCapabilityUnavailable.
func NewContentGenerator(text domain.TextModel, img domain.ImageModel, cfg GeneratorConfig) *ContentGenerator {
	language := cfg.Language
	if language == "" {
		language = defaultLanguage
	}
	return &ContentGenerator{
		text:     text,
		image:    img,
		language: language,
	}
}

// Available reports whether generation can be attempted at all.
func (g *ContentGenerator) Available() bool {
	return g.text != nil
}

// Generate produces a post for topic. Parsed fields are returned as the model
// wrote them. Image failures never fail the post.
func (g *ContentGenerator) Generate(ctx context.Context, topic string) (*domain.GeneratedPost, error) {
	if !g.Available() {
		return nil, domain.ErrCapabilityUnavailable
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic cannot be empty", domain.ErrInvalidInput)
	}

	raw, err := g.text.GenerateText(ctx, fmt.Sprintf(postPromptTemplate, g.language, topic))
	if err != nil {
		return nil, classifyModelError(err)
	}

	post, err := parsePost(raw)
	if err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("Rejected AI response")
		return nil, err
	}

	seed := post.FocusKeyword
	if seed == "" {
		seed = post.Title
	}
	post.ImageURL = g.generateImage(ctx, seed)

	return post, nil
}

// generateImage returns a data URI, or "" when anything goes wrong.
func (g *ContentGenerator) generateImage(ctx context.Context, seed string) string {
	if g.image == nil || seed == "" {
		return ""
	}

	raw, err := g.image.GenerateImage(ctx, fmt.Sprintf(imagePromptTemplate, seed))
	if err != nil {
		log.Warn().Err(err).Str("seed", seed).Msg("Image generation failed, continuing without image")
		return ""
	}

	uri, err := encodeImageDataURI(raw)
	if err != nil {
		log.Warn().Err(err).Str("seed", seed).Msg("Discarding unusable generated image")
		return ""
	}
	return uri
}

func classifyModelError(err error) error {
	if errors.Is(err, domain.ErrInvalidAPIKey) || strings.Contains(err.Error(), invalidKeyMarker) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidAPIKey, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
}
