package simulator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dfryer1193/wpgen/assistant/domain"
	"github.com/rs/zerolog/log"
)

const (
	msgPublishMissingCreds = "URL WordPress, username e password sono obbligatori."
	msgPublishMissingPost  = "Titolo e contenuto del post sono obbligatori."
)

// Clock supplies the publication date.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

type PublisherConfig struct {
	Latency Latency
	Clock   Clock
}

var _ domain.Publisher = (*PublishSimulator)(nil)

// PublishSimulator emulates creating a post through the WordPress REST API.
type PublishSimulator struct {
	latency Latency
	clock   Clock
}

func NewPublishSimulator(cfg PublisherConfig) *PublishSimulator {
	clock := cfg.Clock
	if clock == nil {
		clock = RealClock{}
	}
	return &PublishSimulator{
		latency: cfg.Latency,
		clock:   clock,
	}
}

// Publish validates up front, then waits out the simulated latency and
// reports the post URL it would have been given.
func (s *PublishSimulator) Publish(ctx context.Context, creds domain.Credentials, req domain.PublishRequest) domain.PublishResult {
	if !creds.Complete() {
		return domain.PublishResult{Success: false, Message: msgPublishMissingCreds}
	}
	if req.Post.Title == "" || req.Post.Body == "" {
		return domain.PublishResult{Success: false, Message: msgPublishMissingPost}
	}

	seo := seoFieldsFor(req.Post)
	logEvent := log.Info().
		Str("site", creds.SiteURL).
		Str("username", creds.Username).
		Str("title", req.Post.Title).
		Str("seoTitle", seo.title).
		Str("focusKeyword", seo.focusKeyword)
	if req.SelectedCategoryID != nil {
		logEvent = logEvent.Int("categoryID", *req.SelectedCategoryID)
	}
	logEvent.Msg("Simulating WordPress publish")

	if err := s.latency.wait(ctx); err != nil {
		return domain.PublishResult{Success: false, Message: "Pubblicazione interrotta: " + err.Error()}
	}

	postURL := BuildPostURL(creds.SiteURL, slugSource(req.Post), s.clock.Now())

	return domain.PublishResult{
		Success: true,
		Message: composeMessage(creds, req, seo, postURL),
		URL:     postURL,
	}
}

// BuildPostURL composes {site}/{YYYY}/{MM}/{slug}/ with one trailing slash
// removed from site.
func BuildPostURL(siteURL, slugSource string, at time.Time) string {
	site := strings.TrimSuffix(siteURL, "/")
	return fmt.Sprintf("%s/%d/%02d/%s/", site, at.Year(), int(at.Month()), Slugify(slugSource))
}

func slugSource(p domain.GeneratedPost) string {
	if p.FocusKeyword != "" {
		return p.FocusKeyword
	}
	return p.Title
}

// seoFields are the values an SEO plugin (AIOSEO) would receive.
type seoFields struct {
	title           string
	metaDescription string
	focusKeyword    string
	tags            string
}

func seoFieldsFor(p domain.GeneratedPost) seoFields {
	f := seoFields{
		title:           p.SEOTitle,
		metaDescription: p.MetaDescription,
		focusKeyword:    p.FocusKeyword,
		tags:            strings.Join(p.Tags, ", "),
	}
	if f.title == "" {
		f.title = p.Title
	}
	if f.focusKeyword == "" {
		f.focusKeyword = "Non specificata"
	}
	if f.tags == "" {
		f.tags = "Nessuno"
	}
	return f
}

func composeMessage(creds domain.Credentials, req domain.PublishRequest, seo seoFields, postURL string) string {
	verb := "PUBBLICATO"
	if req.Status == domain.StatusDraft {
		verb = "SALVATO COME BOZZA"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Post \"%s\" %s (SIMULATO) con successo su %s!", req.Post.Title, verb, creds.SiteURL)
	if req.SelectedCategoryID != nil {
		fmt.Fprintf(&b, " Nella categoria ID: %d.", *req.SelectedCategoryID)
	}
	b.WriteString("\nCampi AIOSEO (simulati):")
	fmt.Fprintf(&b, "\n- Titolo Articolo: \"%s\"", seo.title)
	fmt.Fprintf(&b, "\n- Meta Description: \"%s\"", seo.metaDescription)
	fmt.Fprintf(&b, "\n- Focus Keyphrase: \"%s\"", seo.focusKeyword)
	fmt.Fprintf(&b, "\n- Tags: %s.", seo.tags)
	fmt.Fprintf(&b, "\n(Questa è una simulazione). URL Simulata: %s", postURL)
	return b.String()
}
