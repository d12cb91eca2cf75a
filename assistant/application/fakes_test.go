package application

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/dfryer1193/wpgen/assistant/domain"
)

const validPostJSON = `{
  "title": "Best SEO Plugins",
  "body": "<p>Body</p>",
  "seoTitle": "Best SEO Plugins 2026",
  "metaDescription": "The plugins that matter.",
  "focusKeyword": "best seo plugins",
  "tags": ["seo", "wordpress"],
  "categories": ["Digital Marketing"],
  "imageAltText": "A laptop with an SEO dashboard"
}`

type fakeTextModel struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (f *fakeTextModel) GenerateText(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

type fakeImageModel struct {
	mu      sync.Mutex
	data    []byte
	err     error
	prompts []string
}

func (f *fakeImageModel) GenerateImage(_ context.Context, prompt string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.data, f.err
}

func (f *fakeImageModel) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

type memorySettings struct {
	mu      sync.Mutex
	creds   *domain.Credentials
	loadErr error
	saveErr error
	saves   int
}

func (m *memorySettings) Load(context.Context) (*domain.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.creds == nil {
		return nil, nil
	}
	c := *m.creds
	return &c, nil
}

func (m *memorySettings) Save(_ context.Context, creds *domain.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	c := *creds
	m.creds = &c
	return nil
}

type fakeGenerator struct {
	available bool
	generate  func(ctx context.Context, topic string) (*domain.GeneratedPost, error)
}

func (f *fakeGenerator) Available() bool { return f.available }

func (f *fakeGenerator) Generate(ctx context.Context, topic string) (*domain.GeneratedPost, error) {
	return f.generate(ctx, topic)
}

type categorySourceFunc func(ctx context.Context, creds domain.Credentials) domain.CategoryResult

func (f categorySourceFunc) FetchCategories(ctx context.Context, creds domain.Credentials) domain.CategoryResult {
	return f(ctx, creds)
}

type publisherFunc func(ctx context.Context, creds domain.Credentials, req domain.PublishRequest) domain.PublishResult

func (f publisherFunc) Publish(ctx context.Context, creds domain.Credentials, req domain.PublishRequest) domain.PublishResult {
	return f(ctx, creds, req)
}
