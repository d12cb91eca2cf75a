package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/dfryer1193/wpgen/api"
	"github.com/dfryer1193/wpgen/assistant/application"
	"github.com/dfryer1193/wpgen/assistant/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const msgFlowBusy = "operation already in progress"

type handler struct {
	coord Coordinator
	body  *application.BodyNormalizer
}

func (h *handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.toAPIState(h.coord.Snapshot()))
}

func (h *handler) Generate(c *gin.Context) {
	var req api.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if h.busy(c, func(l application.Loading) bool { return l.Generating }) {
		return
	}

	h.coord.Generate(req.Topic)
	c.JSON(http.StatusOK, h.toAPIState(h.coord.Snapshot()))
}

func (h *handler) SaveSettings(c *gin.Context) {
	var req api.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if h.busy(c, func(l application.Loading) bool { return l.SavingSettings }) {
		return
	}

	status := http.StatusOK
	if !h.coord.SaveSettings(domain.Credentials{SiteURL: req.SiteURL, Username: req.Username, Secret: req.Secret}) {
		status = http.StatusInternalServerError
	}
	c.JSON(status, h.toAPIState(h.coord.Snapshot()))
}

func (h *handler) RefreshCategories(c *gin.Context) {
	if h.busy(c, func(l application.Loading) bool { return l.FetchingCategories }) {
		return
	}

	h.coord.RefreshCategories()
	c.JSON(http.StatusOK, h.toAPIState(h.coord.Snapshot()))
}

func (h *handler) Publish(c *gin.Context) {
	var req api.PublishRequest
	// the body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if h.busy(c, func(l application.Loading) bool { return l.Publishing }) {
		return
	}

	h.coord.Publish(req.CategoryID)
	c.JSON(http.StatusOK, h.toAPIState(h.coord.Snapshot()))
}

func (h *handler) DismissAlert(c *gin.Context) {
	if !h.coord.DismissAlert(c.Param("alertId")) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "alert not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// busy answers 409 when the flow's loading flag is already set.
func (h *handler) busy(c *gin.Context, flag func(application.Loading) bool) bool {
	if !flag(h.coord.Snapshot().Loading) {
		return false
	}
	c.JSON(http.StatusConflict, api.ErrorResponse{Error: msgFlowBusy})
	return true
}

func (h *handler) toAPIState(s application.State) api.State {
	out := api.State{
		Topic:         s.Topic,
		Categories:    make([]api.Category, 0, len(s.Categories)),
		Alerts:        make([]api.Alert, 0, len(s.Alerts)),
		PublishedURL:  s.PublishedURL,
		APIKeyMissing: s.APIKeyMissing,
		Loading:       api.Loading(s.Loading),
	}

	if s.Post != nil {
		bodyHTML := h.renderBody(s.Post.Body)
		out.Post = &api.Post{
			Title:           s.Post.Title,
			Body:            s.Post.Body,
			BodyHTML:        bodyHTML,
			SEOTitle:        s.Post.SEOTitle,
			MetaDescription: s.Post.MetaDescription,
			FocusKeyword:    s.Post.FocusKeyword,
			Tags:            s.Post.Tags,
			Categories:      s.Post.Categories,
			ImageURL:        s.Post.ImageURL,
			ImageAltText:    s.Post.ImageAltText,
			Snippet:         application.Snippet(bodyHTML),
		}
	}

	if s.Credentials != nil {
		out.Credentials = &api.Credentials{
			SiteURL:   s.Credentials.SiteURL,
			Username:  s.Credentials.Username,
			HasSecret: s.Credentials.Secret != "",
		}
	}

	for _, cat := range s.Categories {
		out.Categories = append(out.Categories, api.Category{ID: cat.ID, Name: cat.Name, Slug: cat.Slug})
	}

	for _, a := range s.Alerts {
		out.Alerts = append(out.Alerts, api.Alert{
			ID:        a.ID,
			Kind:      string(a.Kind),
			Message:   a.Message,
			CreatedAt: a.CreatedAt,
			ExpiresAt: a.ExpiresAt,
		})
	}

	return out
}

// renderBody returns the post body as HTML, rendering Markdown when needed.
func (h *handler) renderBody(body string) string {
	rendered, err := h.body.Normalize(body)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to render post body, serving it as-is")
		return body
	}
	return rendered
}
