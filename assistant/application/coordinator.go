package application

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dfryer1193/wpgen/assistant/domain"
	"github.com/dfryer1193/wpgen/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	FlowStartup         = "startup"
	FlowGenerate        = "generate"
	FlowSaveSettings    = "save_settings"
	FlowFetchCategories = "fetch_categories"
	FlowPublish         = "publish"
)

const (
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	outcomeRejected = "rejected"
	outcomeStale    = "stale"
	outcomePanic    = "panic"
)

const (
	msgAPIKeyMissing        = "La chiave API di Gemini non è configurata. Le funzionalità AI sono disabilitate."
	msgSettingsLoadFailed   = "Errore nel caricamento delle impostazioni WordPress salvate."
	msgGenerated            = "Contenuto generato con successo!"
	msgCredentialsRequired  = "URL WordPress, username e password sono obbligatori."
	msgSettingsSaved        = "Impostazioni WordPress salvate. Caricamento categorie..."
	msgSettingsSaveFailed   = "Errore durante il salvataggio delle impostazioni WordPress."
	msgCategoriesLoaded     = "Categorie caricate con successo."
	msgNoCategories         = "Nessuna categoria trovata."
	msgCategoriesFailed     = "Impossibile caricare le categorie."
	msgCredentialsMissing   = "Credenziali WordPress non configurate. Vai su Impostazioni."
	msgNothingToPublish     = "Nessun contenuto da pubblicare. Genera prima il contenuto."
	msgPublishNeedsSettings = "Credenziali WordPress non configurate. Vai su Impostazioni per impostarle."
	msgUnknownFailure       = "Si è verificato un errore imprevisto. Riprova."
)

// Generator is the content generation capability the coordinator drives.
type Generator interface {
	Available() bool
	Generate(ctx context.Context, topic string) (*domain.GeneratedPost, error)
}

// Loading holds one advisory flag per flow.
type Loading struct {
	Generating         bool `json:"generating"`
	SavingSettings     bool `json:"savingSettings"`
	FetchingCategories bool `json:"fetchingCategories"`
	Publishing         bool `json:"publishing"`
}

// State is a point-in-time copy of everything a UI would render.
type State struct {
	Topic         string
	Post          *domain.GeneratedPost
	Credentials   *domain.Credentials
	Categories    []domain.Category
	Alerts        []domain.Alert
	PublishedURL  string
	APIKeyMissing bool
	Loading       Loading
}

type CoordinatorDeps struct {
	Generator  Generator
	Settings   domain.SettingsRepository
	Categories domain.CategorySource
	Publisher  domain.Publisher
	Alerts     *AlertQueue
	Metrics    *metrics.Metrics
}

// Coordinator sequences the generation, settings, category and publish flows
// and owns the state they update. Flows may interleave; each touches its own
// slice of state. Remote calls are made without holding the lock.
type Coordinator struct {
	generator  Generator
	settings   domain.SettingsRepository
	categories domain.CategorySource
	publisher  domain.Publisher
	alerts     *AlertQueue
	metrics    *metrics.Metrics

	// Flows run on the coordinator's lifecycle context, never the caller's,
	// so an issued remote call always runs to completion. Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
	state  State

	// Sequence numbers fence out results of superseded requests.
	generateSeq uint64
	categorySeq uint64
	publishSeq  uint64
}

func NewCoordinator(deps CoordinatorDeps) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	alerts := deps.Alerts
	if alerts == nil {
		alerts = NewAlertQueue(RealClock{})
	}
	return &Coordinator{
		generator:  deps.Generator,
		settings:   deps.Settings,
		categories: deps.Categories,
		publisher:  deps.Publisher,
		alerts:     alerts,
		metrics:    deps.Metrics,
		ctx:        ctx,
		cancel:     cancel,
		state: State{
			APIKeyMissing: deps.Generator == nil || !deps.Generator.Available(),
		},
	}
}

// Close stops accepting flows, cancels the lifecycle context and waits for
// in-flight flows to return.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return nil
}

// begin registers a flow. It returns false once Close has been called.
func (c *Coordinator) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.wg.Add(1)
	return true
}

// finish must be deferred directly by each flow: it recovers panics, releases
// the flow's loading flag and records metrics on every exit path.
func (c *Coordinator) finish(flow string, start time.Time, outcome *string, release func()) {
	if r := recover(); r != nil {
		log.Error().Interface("panic", r).Str("flow", flow).Msg("Flow panicked")
		c.alerts.Add(domain.AlertError, msgUnknownFailure)
		*outcome = outcomePanic
	}

	if release != nil {
		c.mu.Lock()
		release()
		c.mu.Unlock()
	}

	c.metrics.ObserveFlow(flow, *outcome, time.Since(start))
}

// Startup runs once before the surface becomes interactive: it flags a
// missing AI key, loads saved credentials and fetches their categories.
func (c *Coordinator) Startup() {
	if !c.begin() {
		return
	}
	defer c.wg.Done()

	outcome := outcomeSuccess
	defer c.finish(FlowStartup, time.Now(), &outcome, nil)

	c.mu.Lock()
	missing := c.state.APIKeyMissing
	c.mu.Unlock()
	if missing {
		log.Warn().Msg("AI API key is not configured, generation disabled")
		c.alerts.Add(domain.AlertError, msgAPIKeyMissing)
	}

	creds, err := c.settings.Load(c.ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load saved WordPress credentials")
		c.alerts.Add(domain.AlertWarning, msgSettingsLoadFailed)
		outcome = outcomeFailure
		return
	}
	if !creds.Complete() {
		return
	}

	c.mu.Lock()
	c.state.Credentials = creds
	c.mu.Unlock()

	log.Info().Str("site", creds.SiteURL).Msg("Loaded saved WordPress credentials")
	c.fetchCategories(creds)
}

// Generate runs the content generation flow for topic.
func (c *Coordinator) Generate(topic string) {
	if !c.begin() {
		return
	}
	defer c.wg.Done()

	outcome := outcomeFailure
	start := time.Now()

	c.mu.Lock()
	if c.state.APIKeyMissing {
		c.mu.Unlock()
		c.alerts.Add(domain.AlertError, domain.UserMessage(domain.ErrCapabilityUnavailable))
		c.metrics.ObserveFlow(FlowGenerate, outcomeRejected, time.Since(start))
		return
	}
	c.state.Topic = topic
	c.state.Loading.Generating = true
	c.state.Post = nil
	c.state.PublishedURL = ""
	c.generateSeq++
	seq := c.generateSeq
	c.mu.Unlock()

	defer c.finish(FlowGenerate, start, &outcome, func() {
		if seq == c.generateSeq {
			c.state.Loading.Generating = false
		}
	})

	post, err := c.generator.Generate(c.ctx, topic)

	c.mu.Lock()
	stale := seq != c.generateSeq
	if !stale && err == nil {
		c.state.Post = post
	}
	c.mu.Unlock()

	if stale {
		log.Debug().Str("topic", topic).Msg("Discarding superseded generation result")
		outcome = outcomeStale
		return
	}
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Content generation failed")
		c.alerts.Add(domain.AlertError, domain.UserMessage(err))
		return
	}

	c.alerts.Add(domain.AlertSuccess, msgGenerated)
	outcome = outcomeSuccess
}

// SaveSettings persists creds and immediately refetches categories with them.
// The save is reported as successful even when the category fetch fails;
// the fetch reports its own failure.
func (c *Coordinator) SaveSettings(creds domain.Credentials) bool {
	if !c.begin() {
		return false
	}
	defer c.wg.Done()

	outcome := outcomeFailure
	start := time.Now()

	if !creds.Complete() {
		c.alerts.Add(domain.AlertError, msgCredentialsRequired)
		c.metrics.ObserveFlow(FlowSaveSettings, outcomeRejected, time.Since(start))
		return false
	}

	c.mu.Lock()
	c.state.Loading.SavingSettings = true
	c.mu.Unlock()

	defer c.finish(FlowSaveSettings, start, &outcome, func() {
		c.state.Loading.SavingSettings = false
	})

	if err := c.settings.Save(c.ctx, &creds); err != nil {
		log.Error().Err(err).Str("site", creds.SiteURL).Msg("Failed to save WordPress credentials")
		c.alerts.Add(domain.AlertError, msgSettingsSaveFailed)
		return false
	}

	c.mu.Lock()
	saved := creds
	c.state.Credentials = &saved
	c.state.Categories = nil
	c.mu.Unlock()

	c.alerts.Add(domain.AlertInfo, msgSettingsSaved)

	res := c.fetchCategories(&creds)
	if res.Success {
		c.alerts.Add(domain.AlertSuccess, categorySuccessMessage(res))
	}

	outcome = outcomeSuccess
	return true
}

// FetchCategories refreshes the category list. A nil creds falls back to
// the stored credentials.
func (c *Coordinator) FetchCategories(creds *domain.Credentials) domain.CategoryResult {
	if !c.begin() {
		return domain.CategoryResult{Success: false, Message: msgCategoriesFailed}
	}
	defer c.wg.Done()

	return c.fetchCategories(creds)
}

// RefreshCategories is the manual refresh: it uses the stored credentials and
// confirms a successful fetch with an info alert.
func (c *Coordinator) RefreshCategories() domain.CategoryResult {
	res := c.FetchCategories(nil)
	if res.Success {
		c.alerts.Add(domain.AlertInfo, categorySuccessMessage(res))
	}
	return res
}

func (c *Coordinator) fetchCategories(creds *domain.Credentials) (res domain.CategoryResult) {
	outcome := outcomeFailure
	start := time.Now()

	c.mu.Lock()
	if creds == nil && c.state.Credentials != nil {
		stored := *c.state.Credentials
		creds = &stored
	}
	if creds == nil {
		c.mu.Unlock()
		c.alerts.Add(domain.AlertWarning, msgCredentialsMissing)
		c.metrics.ObserveFlow(FlowFetchCategories, outcomeRejected, time.Since(start))
		return domain.CategoryResult{Success: false, Message: msgCredentialsMissing}
	}
	c.state.Categories = nil
	c.state.Loading.FetchingCategories = true
	c.categorySeq++
	seq := c.categorySeq
	c.mu.Unlock()

	// a panic leaves res zero-valued, which callers read as a failure
	defer c.finish(FlowFetchCategories, start, &outcome, func() {
		if seq == c.categorySeq {
			c.state.Loading.FetchingCategories = false
			if c.state.Categories == nil {
				c.state.Categories = []domain.Category{}
			}
		}
	})

	res = c.categories.FetchCategories(c.ctx, *creds)

	c.mu.Lock()
	stale := seq != c.categorySeq
	if !stale {
		if res.Success && res.Categories != nil {
			c.state.Categories = res.Categories
		} else {
			c.state.Categories = []domain.Category{}
		}
	}
	c.mu.Unlock()

	if stale {
		log.Debug().Str("site", creds.SiteURL).Msg("Discarding superseded category result")
		outcome = outcomeStale
		return res
	}

	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = msgCategoriesFailed
		}
		log.Warn().Str("site", creds.SiteURL).Str("message", msg).Msg("Category fetch failed")
		c.alerts.Add(domain.AlertWarning, msg)
		return res
	}

	outcome = outcomeSuccess
	return res
}

// Publish sends the current post to the configured site, filed under
// categoryID when one is given.
func (c *Coordinator) Publish(categoryID *int) {
	if !c.begin() {
		return
	}
	defer c.wg.Done()

	outcome := outcomeFailure
	start := time.Now()

	c.mu.Lock()
	post := c.state.Post
	creds := c.state.Credentials
	c.mu.Unlock()

	if post == nil {
		c.alerts.Add(domain.AlertWarning, msgNothingToPublish)
		c.metrics.ObserveFlow(FlowPublish, outcomeRejected, time.Since(start))
		return
	}
	if creds == nil {
		c.alerts.Add(domain.AlertError, msgPublishNeedsSettings)
		c.metrics.ObserveFlow(FlowPublish, outcomeRejected, time.Since(start))
		return
	}

	c.mu.Lock()
	c.state.Loading.Publishing = true
	c.state.PublishedURL = ""
	genSeq := c.generateSeq
	c.publishSeq++
	seq := c.publishSeq
	c.mu.Unlock()

	defer c.finish(FlowPublish, start, &outcome, func() {
		if seq == c.publishSeq {
			c.state.Loading.Publishing = false
		}
	})

	req := domain.PublishRequest{
		Post:               *post,
		Status:             domain.StatusPublish,
		SelectedCategoryID: categoryID,
	}

	res := c.publisher.Publish(c.ctx, *creds, req)
	if !res.Success {
		c.alerts.Add(domain.AlertError, res.Message)
		return
	}

	c.alerts.Add(domain.AlertSuccess, res.Message)
	outcome = outcomeSuccess

	c.mu.Lock()
	// a newer publish owns the URL, and a generation started meanwhile has
	// replaced the post this URL belongs to
	if res.URL != "" && seq == c.publishSeq && genSeq == c.generateSeq {
		c.state.PublishedURL = res.URL
	}
	c.mu.Unlock()
}

// DismissAlert removes an alert before it expires.
func (c *Coordinator) DismissAlert(id string) bool {
	return c.alerts.Dismiss(id)
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	s := c.state
	if s.Post != nil {
		post := *s.Post
		s.Post = &post
	}
	if s.Credentials != nil {
		creds := *s.Credentials
		s.Credentials = &creds
	}
	if s.Categories != nil {
		s.Categories = slices.Clone(s.Categories)
	}
	c.mu.Unlock()

	s.Alerts = c.alerts.List()
	return s
}

func categorySuccessMessage(res domain.CategoryResult) string {
	if res.Message != "" {
		return res.Message
	}
	if len(res.Categories) > 0 {
		return msgCategoriesLoaded
	}
	return msgNoCategories
}
