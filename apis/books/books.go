package books

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-bookshelf/apis"
	"github.com/supakorn-kn/go-bookshelf/bookfile"
	"github.com/supakorn-kn/go-bookshelf/env"
	"github.com/supakorn-kn/go-bookshelf/errors"
	"github.com/supakorn-kn/go-bookshelf/models"
	"github.com/supakorn-kn/go-bookshelf/models/books"
	"github.com/supakorn-kn/go-bookshelf/models/imports"
	"github.com/supakorn-kn/go-bookshelf/objects"
)

const exportFileName = "books.txt"

type Catalog interface {
	AddBook(ctx context.Context, book objects.NewBook) (objects.Book, error)
	GetByID(ctx context.Context, bookID int64) (objects.Book, error)
	ListAll(ctx context.Context) ([]objects.Book, error)
	Search(ctx context.Context, opt books.SearchOption) ([]objects.Book, error)
	UpdateBook(ctx context.Context, bookID int64, update objects.BookUpdate) (objects.Book, error)
	DeleteBook(ctx context.Context, bookID int64) error
	FindSimilarBooks(ctx context.Context, bookID int64) ([]objects.Book, error)
}

type SearchQuery struct {
	Title       string   `form:"title"`
	TitleMatch  uint8    `form:"title_match"`
	Author      string   `form:"author"`
	AuthorMatch uint8    `form:"author_match"`
	Genres      []string `form:"genre"`
}

func (q SearchQuery) Option() books.SearchOption {

	opt := books.SearchOption{Genres: q.Genres}

	if q.Title != "" {
		opt.Title = models.MatchOption{MatchType: models.MatchType(q.TitleMatch), Value: q.Title}
	}

	if q.Author != "" {
		opt.Author = models.MatchOption{MatchType: models.MatchType(q.AuthorMatch), Value: q.Author}
	}

	return opt
}

type BooksCrudAPI struct {
	model    Catalog
	importer *bookfile.Importer
	exporter *bookfile.Exporter
	journal  imports.Journal
	upload   env.UploadConfig
}

func NewBooksAPI(model Catalog, journal imports.Journal, upload env.UploadConfig) *BooksCrudAPI {

	if journal == nil {
		journal = imports.NoopJournal{}
	}

	return &BooksCrudAPI{
		model:    model,
		importer: bookfile.NewImporter(model),
		exporter: bookfile.NewExporter(model),
		journal:  journal,
		upload:   upload,
	}
}

func (api BooksCrudAPI) Insert(ctx *gin.Context) (*objects.Book, error) {

	var newBook objects.NewBook
	if err := ctx.ShouldBindJSON(&newBook); err != nil {
		return nil, errors.InvalidBookDataError.New(err.Error())
	}

	book, err := api.model.AddBook(ctx.Request.Context(), newBook)
	if err != nil {
		return nil, err
	}

	return &book, nil
}

func (api BooksCrudAPI) ReadOne(itemID int64, ctx *gin.Context) (*objects.Book, error) {

	book, err := api.model.GetByID(ctx.Request.Context(), itemID)
	if err != nil {
		return nil, err
	}

	return &book, nil
}

func (api BooksCrudAPI) Read(ctx *gin.Context) ([]objects.Book, error) {

	var query SearchQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, errors.InvalidBookDataError.New(err.Error())
	}

	return api.model.Search(ctx.Request.Context(), query.Option())
}

func (api BooksCrudAPI) Update(itemID int64, ctx *gin.Context) (*objects.Book, error) {

	var update objects.BookUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		return nil, errors.InvalidBookDataError.New(err.Error())
	}

	book, err := api.model.UpdateBook(ctx.Request.Context(), itemID, update)
	if err != nil {
		return nil, err
	}

	return &book, nil
}

func (api BooksCrudAPI) Delete(itemID int64, ctx *gin.Context) error {
	return api.model.DeleteBook(ctx.Request.Context(), itemID)
}

// RegisterBooksAPI registers the CRUD routes plus similar books, import and export.
func RegisterBooksAPI(api *BooksCrudAPI, group *gin.RouterGroup) {

	group.GET("export", api.export)
	group.POST("import", api.importFile)
	group.GET(":id/similar", api.similar)

	apis.RegisterCrudAPI[objects.Book](api, group)
}

func (api BooksCrudAPI) similar(ctx *gin.Context) {

	bookID, err := apis.ParseID(ctx)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	similar, err := api.model.FindSimilarBooks(ctx.Request.Context(), bookID)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: similar})
}

func (api BooksCrudAPI) importFile(ctx *gin.Context) {

	if api.upload.MaxBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, api.upload.MaxBytes)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {

		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			ctx.JSON(http.StatusRequestEntityTooLarge, apis.CRUDResponse{Error: errors.InvalidBookDataError.New("upload is too large")})
			return
		}

		apis.WriteErrorJSON(ctx, errors.MissingFileError.New())
		return
	}

	if !bookfile.AllowedFile(fileHeader.Filename, api.upload.AllowedExtensions) {
		apis.WriteErrorJSON(ctx, errors.UnsupportedFileTypeError.New(fileHeader.Filename))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}
	defer file.Close()

	report, err := api.importer.ImportAll(ctx.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	if err := api.journal.Record(ctx.Request.Context(), report); err != nil {
		slog.Warn("Recording import report failed", "report_id", report.ReportID, "error", err.Error())
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: report})
}

func (api BooksCrudAPI) export(ctx *gin.Context) {

	var buf bytes.Buffer
	if _, err := api.exporter.ExportAll(ctx.Request.Context(), &buf); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+exportFileName+`"`)
	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}
