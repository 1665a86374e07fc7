package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-bookshelf/analytics"
	analyticsAPI "github.com/supakorn-kn/go-bookshelf/apis/analytics"
	booksAPI "github.com/supakorn-kn/go-bookshelf/apis/books"
	genresAPI "github.com/supakorn-kn/go-bookshelf/apis/genres"
	importsAPI "github.com/supakorn-kn/go-bookshelf/apis/imports"
	"github.com/supakorn-kn/go-bookshelf/env"
	"github.com/supakorn-kn/go-bookshelf/models/books"
	"github.com/supakorn-kn/go-bookshelf/models/imports"
)

const shutdownTimeout = 10 * time.Second

type Dependencies struct {
	Books          *books.BooksModel
	Journal        imports.Journal
	Upload         env.UploadConfig
	AnalyticsLimit int
}

// New builds the router with every API mounted under /api.
func New(deps Dependencies) *gin.Engine {

	if deps.Journal == nil {
		deps.Journal = imports.NoopJournal{}
	}

	g := gin.New()
	g.Use(gin.Recovery(), requestLogger())

	api := g.Group("api")

	booksAPI.RegisterBooksAPI(booksAPI.NewBooksAPI(deps.Books, deps.Journal, deps.Upload), api.Group("books"))
	genresAPI.RegisterGenresAPI(genresAPI.NewGenresAPI(deps.Books.Genres()), api.Group("genres"))
	analyticsAPI.RegisterAnalyticsAPI(
		analyticsAPI.NewAnalyticsAPI(analytics.NewEngine(deps.Books, deps.Books.Genres()), deps.AnalyticsLimit),
		api.Group("analytics"),
	)
	importsAPI.RegisterImportsAPI(importsAPI.NewImportsAPI(deps.Journal), api.Group("imports"))

	return g
}

// Run serves handler on port until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, handler http.Handler, port int) error {

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func requestLogger() gin.HandlerFunc {

	return func(ctx *gin.Context) {

		start := time.Now()
		ctx.Next()

		slog.Info("Request handled",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
