package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-bookshelf/analytics"
	"github.com/supakorn-kn/go-bookshelf/apis"
)

// AnalyticsAPI serves reading preference reports. Every route takes an optional limit query,
// a limit below one returns every entry.
type AnalyticsAPI struct {
	engine       *analytics.Engine
	defaultLimit int
}

func NewAnalyticsAPI(engine *analytics.Engine, defaultLimit int) *AnalyticsAPI {
	return &AnalyticsAPI{engine: engine, defaultLimit: defaultLimit}
}

func RegisterAnalyticsAPI(api *AnalyticsAPI, group *gin.RouterGroup) {

	group.GET("authors", api.authors)
	group.GET("genres", api.genres)
	group.GET("summary", api.summary)
}

func (api AnalyticsAPI) authors(ctx *gin.Context) {

	authors, err := api.engine.TopAuthors(ctx.Request.Context(), apis.QueryLimit(ctx, api.defaultLimit))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: authors})
}

func (api AnalyticsAPI) genres(ctx *gin.Context) {

	genres, err := api.engine.GenreDistribution(ctx.Request.Context(), apis.QueryLimit(ctx, api.defaultLimit))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: genres})
}

func (api AnalyticsAPI) summary(ctx *gin.Context) {

	summary, err := api.engine.Summary(ctx.Request.Context(), apis.QueryLimit(ctx, api.defaultLimit))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: summary})
}
