package simulator

import (
	"context"

	"github.com/dfryer1193/wpgen/assistant/domain"
	"github.com/rs/zerolog/log"
)

// Scenario forces a category fetch outcome for a given username.
type Scenario int

const (
	ScenarioNormal Scenario = iota
	ScenarioEmpty
	ScenarioError
)

// DefaultCatalog is what every simulated site returns.
var DefaultCatalog = []domain.Category{
	{ID: 1, Name: "Tecnologia", Slug: "tecnologia"},
	{ID: 2, Name: "Marketing Digitale", Slug: "marketing-digitale"},
	{ID: 3, Name: "Senza categoria", Slug: "senza-categoria"},
	{ID: 15, Name: "Recensioni Prodotti", Slug: "recensioni-prodotti"},
	{ID: 22, Name: "Guide e Tutorial", Slug: "guide-tutorial"},
}

const (
	msgCategoriesMissingCreds = "URL WordPress, username e password sono obbligatori per recuperare le categorie."
	msgCategoriesEmpty        = "Nessuna categoria trovata (simulato)."
	msgCategoriesError        = "Errore simulato durante il recupero delle categorie."
	msgCategoriesOK           = "Categorie recuperate con successo (simulato)."
)

type CategoryConfig struct {
	Latency Latency
	Catalog []domain.Category
	// Scenarios maps usernames to a forced outcome.
	Scenarios map[string]Scenario
}

var _ domain.CategorySource = (*CategorySimulator)(nil)

// CategorySimulator emulates the WordPress categories endpoint.
type CategorySimulator struct {
	latency   Latency
	catalog   []domain.Category
	scenarios map[string]Scenario
}

func NewCategorySimulator(cfg CategoryConfig) *CategorySimulator {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = DefaultCatalog
	}
	return &CategorySimulator{
		latency:   cfg.Latency,
		catalog:   catalog,
		scenarios: cfg.Scenarios,
	}
}

func (s *CategorySimulator) FetchCategories(ctx context.Context, creds domain.Credentials) domain.CategoryResult {
	if !creds.Complete() {
		return domain.CategoryResult{Success: false, Message: msgCategoriesMissingCreds}
	}

	log.Debug().Str("site", creds.SiteURL).Msg("Simulating category fetch")

	if err := s.latency.wait(ctx); err != nil {
		return domain.CategoryResult{Success: false, Message: "Recupero categorie interrotto: " + err.Error()}
	}

	switch s.scenarios[creds.Username] {
	case ScenarioEmpty:
		return domain.CategoryResult{Success: true, Categories: []domain.Category{}, Message: msgCategoriesEmpty}
	case ScenarioError:
		return domain.CategoryResult{Success: false, Message: msgCategoriesError}
	}

	categories := make([]domain.Category, len(s.catalog))
	copy(categories, s.catalog)

	return domain.CategoryResult{
		Success:    true,
		Categories: categories,
		Message:    msgCategoriesOK,
	}
}
