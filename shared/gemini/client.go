package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dfryer1193/wpgen/assistant/domain"
	"google.golang.org/genai"
)

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-3.0-generate-002"

	textTemperature = 0.7
)

var (
	_ domain.TextModel  = (*TextModel)(nil)
	_ domain.ImageModel = (*ImageModel)(nil)
)

// NewClient creates a Gemini API client for apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, domain.ErrCapabilityUnavailable
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client failed: %w", err)
	}
	return client, nil
}

// TextModel asks a Gemini model for a JSON document.
type TextModel struct {
	client *genai.Client
	model  string
}

func NewTextModel(client *genai.Client, model string) *TextModel {
	if model == "" {
		model = DefaultTextModel
	}
	return &TextModel{client: client, model: model}
}

func (m *TextModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	op := fmt.Sprintf("generating content with %s", m.model)
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](textTemperature),
	})
	if err != nil {
		return "", handleGeminiError(op, err)
	}
	return responseText(op, resp)
}

// ImageModel asks an Imagen model for one JPEG.
type ImageModel struct {
	client *genai.Client
	model  string
}

func NewImageModel(client *genai.Client, model string) *ImageModel {
	if model == "" {
		model = DefaultImageModel
	}
	return &ImageModel{client: client, model: model}
}

func (m *ImageModel) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	op := fmt.Sprintf("generating image with %s", m.model)
	resp, err := m.client.Models.GenerateImages(ctx, m.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
	})
	if err != nil {
		return nil, handleGeminiError(op, err)
	}
	return firstImage(op, resp)
}

func responseText(op string, resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("gemini: %s returned no response", op)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini: %s returned empty text", op)
	}
	return text, nil
}

func firstImage(op string, resp *genai.GenerateImagesResponse) ([]byte, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("gemini: %s returned no images", op)
	}
	generated := resp.GeneratedImages[0]
	if generated == nil || generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
		return nil, fmt.Errorf("gemini: %s returned an image without data", op)
	}
	return generated.Image.ImageBytes, nil
}

// handleGeminiError inspects an error from the genai client and returns a more informative, structured error.
func handleGeminiError(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if isInvalidKey(apiErr) {
			return fmt.Errorf("gemini: %s failed: %w: %s", op, domain.ErrInvalidAPIKey, apiErr.Message)
		}
		return fmt.Errorf("gemini: %s failed with status %d: %s", op, apiErr.Code, apiErr.Message)
	}

	return fmt.Errorf("gemini: %s failed: %w", op, err)
}

func isInvalidKey(apiErr genai.APIError) bool {
	if strings.Contains(apiErr.Message, "API key not valid") {
		return true
	}
	// 403 also covers billing and region denials, so only 401 counts
	return apiErr.Code == http.StatusUnauthorized
}
