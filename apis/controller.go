package apis

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-bookshelf/errors"
)

func RegisterCrudAPI[Item any](api CrudAPI[Item], group *gin.RouterGroup) {

	group.POST("", func(ctx *gin.Context) {

		item, err := api.Insert(ctx)
		if err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		ctx.JSON(http.StatusCreated, CRUDResponse{Result: item})
	})

	group.GET(":id", func(ctx *gin.Context) {

		itemID, err := ParseID(ctx)
		if err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		item, err := api.ReadOne(itemID, ctx)
		if err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, CRUDResponse{Result: item})
	})

	group.GET("", func(ctx *gin.Context) {

		items, err := api.Read(ctx)
		if err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, CRUDResponse{Result: items})
	})

	group.PUT(":id", func(ctx *gin.Context) {

		itemID, err := ParseID(ctx)
		if err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		item, err := api.Update(itemID, ctx)
		if err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, CRUDResponse{Result: item})
	})

	group.DELETE(":id", func(ctx *gin.Context) {

		itemID, err := ParseID(ctx)
		if err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		if err := api.Delete(itemID, ctx); err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		ctx.Status(http.StatusNoContent)
	})
}

func WriteErrorJSON(ctx *gin.Context, err error) {

	assertedError, ok := errors.TryAssertError(err)
	if !ok {
		slog.Error("Unexpected error", "path", ctx.FullPath(), "error", err.Error())
		ctx.JSON(http.StatusInternalServerError, CRUDResponse{Error: errors.UnknownError.New(err)})
		return
	}

	ctx.JSON(StatusCode(assertedError), CRUDResponse{Error: assertedError})
}

func StatusCode(err errors.BaseError) int {

	switch err.Code {
	case errors.BookNotFoundErrorCode:
		return http.StatusNotFound
	case errors.DuplicatedTitleErrorCode:
		return http.StatusConflict
	case errors.StorageErrorCode, errors.UnknownErrorCode:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
