package apis

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-bookshelf/errors"
)

type CRUDResponse struct {
	Result any              `json:"result,omitempty"`
	Error  errors.BaseError `json:"error,omitempty"`
}

type CrudAPI[Item any] interface {
	Insert(ctx *gin.Context) (*Item, error)
	ReadOne(itemID int64, ctx *gin.Context) (*Item, error)
	Read(ctx *gin.Context) ([]Item, error)
	Update(itemID int64, ctx *gin.Context) (*Item, error)
	Delete(itemID int64, ctx *gin.Context) error
}

// ParseID reads the :id path parameter.
func ParseID(ctx *gin.Context) (int64, error) {

	raw := ctx.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.InvalidBookDataError.New("invalid book id " + strconv.Quote(raw))
	}

	return id, nil
}

// QueryLimit reads the limit query parameter, falling back to defaultLimit when it is absent or malformed.
func QueryLimit(ctx *gin.Context, defaultLimit int) int {

	limit, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil {
		return defaultLimit
	}

	return limit
}
