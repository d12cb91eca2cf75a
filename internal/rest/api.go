package rest

import (
	"github.com/dfryer1193/wpgen/assistant/application"
	"github.com/dfryer1193/wpgen/assistant/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Coordinator is the part of the workflow coordinator the HTTP surface drives.
type Coordinator interface {
	Snapshot() application.State
	Generate(topic string)
	SaveSettings(creds domain.Credentials) bool
	RefreshCategories() domain.CategoryResult
	Publish(categoryID *int)
	DismissAlert(id string) bool
}

var _ Coordinator = (*application.Coordinator)(nil)

func NewApi(router *gin.Engine, coord Coordinator, gatherer prometheus.Gatherer) {
	h := &handler{coord: coord, body: application.NewBodyNormalizer()}

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("api/v1")
	{
		v1.GET("/state", h.GetState)
		v1.POST("/generate", h.Generate)
		v1.PUT("/settings", h.SaveSettings)
		v1.POST("/categories/refresh", h.RefreshCategories)
		v1.POST("/publish", h.Publish)
		v1.DELETE("/alerts/:alertId", h.DismissAlert)
	}
}
