package genres

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-bookshelf/apis"
	"github.com/supakorn-kn/go-bookshelf/objects"
)

type Registry interface {
	ListAll(ctx context.Context) ([]objects.Genre, error)
}

type GenresAPI struct {
	model Registry
}

func NewGenresAPI(model Registry) *GenresAPI {
	return &GenresAPI{model: model}
}

func RegisterGenresAPI(api *GenresAPI, group *gin.RouterGroup) {
	group.GET("", api.list)
}

func (api GenresAPI) list(ctx *gin.Context) {

	genres, err := api.model.ListAll(ctx.Request.Context())
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: genres})
}
