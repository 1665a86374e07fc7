package imports

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-bookshelf/apis"
	"github.com/supakorn-kn/go-bookshelf/models/imports"
)

const defaultRecentLimit = 20

type ImportsAPI struct {
	journal imports.Journal
}

func NewImportsAPI(journal imports.Journal) *ImportsAPI {
	return &ImportsAPI{journal: journal}
}

func RegisterImportsAPI(api *ImportsAPI, group *gin.RouterGroup) {
	group.GET("", api.recent)
}

func (api ImportsAPI) recent(ctx *gin.Context) {

	reports, err := api.journal.Recent(ctx.Request.Context(), apis.QueryLimit(ctx, defaultRecentLimit))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: reports})
}
