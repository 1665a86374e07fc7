package books

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
	serverError "github.com/supakorn-kn/go-bookshelf/errors"
	"github.com/supakorn-kn/go-bookshelf/models"
	"github.com/supakorn-kn/go-bookshelf/models/genres"
	"github.com/supakorn-kn/go-bookshelf/objects"
	"github.com/supakorn-kn/go-bookshelf/sqlite"
)

const (
	tableName            = "books"
	associationTableName = "book_genres"

	minYear = 0
	maxYear = 9999
)

var bookColumns = []string{"books.id", "books.title", "books.author", "books.year"}

var scanBook models.RowScan[objects.Book] = func(b *objects.Book) models.Ptrs {
	return models.Ptrs{&b.ID, &b.Title, &b.Author, &b.Year}
}

type SearchOption struct {
	Title  models.MatchOption `json:"title,omitempty"`
	Author models.MatchOption `json:"author,omitempty"`
	Genres []string           `json:"genres,omitempty"`
}

// BooksModel is the book catalog. It owns books, genres and their associations.
type BooksModel struct {
	models.BaseModel

	conn   *sqlite.SQLiteConn
	genres *genres.GenresModel
	inTx   bool
}

func NewBooksModel(conn *sqlite.SQLiteConn) *BooksModel {

	return &BooksModel{
		BaseModel: models.NewBaseModel(conn.DB),
		conn:      conn,
		genres:    genres.NewGenresModel(conn.DB),
	}
}

func (m BooksModel) Genres() *genres.GenresModel {
	return m.genres
}

func (m BooksModel) withTx(tx *sql.Tx) BooksModel {

	return BooksModel{
		BaseModel: models.NewBaseModel(tx),
		conn:      m.conn,
		genres:    m.genres.WithRunner(tx),
		inTx:      true,
	}
}

// mutate runs fn in a new transaction, so fn either fully applies or leaves nothing behind.
func (m BooksModel) mutate(ctx context.Context, op string, fn func(tx BooksModel) error) error {

	err := m.conn.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(m.withTx(tx))
	})

	return models.StorageFailure(op, err)
}

// snapshot runs multi-statement reads in one transaction unless m is already bound to one.
func (m BooksModel) snapshot(ctx context.Context, op string, fn func(tx BooksModel) error) error {

	if m.inTx {
		return models.StorageFailure(op, fn(m))
	}

	return m.mutate(ctx, op, fn)
}

func (m BooksModel) AddBook(ctx context.Context, book objects.NewBook) (objects.Book, error) {

	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)

	if err := validate(book.Title, book.Author, book.Year); err != nil {
		return objects.Book{}, err
	}

	var created objects.Book
	err := m.mutate(ctx, "add book", func(tx BooksModel) error {

		existing, err := tx.findOne(ctx, squirrel.Eq{"books.title": book.Title})
		if err != nil {
			return err
		}

		if existing != nil {
			return serverError.DuplicatedTitleError.New(book.Title)
		}

		resolved, err := tx.genres.Resolve(ctx, book.Genres)
		if err != nil {
			return err
		}

		result, err := tx.Insert(tableName).
			Columns("title", "author", "year").
			Values(book.Title, book.Author, book.Year).
			ExecContext(ctx)
		if err != nil {
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}

		if err := tx.attachGenres(ctx, id, resolved); err != nil {
			return err
		}

		created = objects.Book{ID: id, Title: book.Title, Author: book.Author, Year: book.Year, Genres: resolved}

		return nil
	})
	if err != nil {
		return objects.Book{}, err
	}

	return created, nil
}

// FindByTitle returns nil when no book has exactly this title.
func (m BooksModel) FindByTitle(ctx context.Context, title string) (*objects.Book, error) {

	var book *objects.Book
	err := m.snapshot(ctx, "find book by title", func(tx BooksModel) (err error) {
		book, err = tx.findOne(ctx, squirrel.Eq{"books.title": title})
		return err
	})

	return book, err
}

// FindByID returns nil when the book does not exist.
func (m BooksModel) FindByID(ctx context.Context, bookID int64) (*objects.Book, error) {

	var book *objects.Book
	err := m.snapshot(ctx, "find book by id", func(tx BooksModel) (err error) {
		book, err = tx.findOne(ctx, squirrel.Eq{"books.id": bookID})
		return err
	})

	return book, err
}

func (m BooksModel) GetByID(ctx context.Context, bookID int64) (objects.Book, error) {

	book, err := m.FindByID(ctx, bookID)
	if err != nil {
		return objects.Book{}, err
	}

	if book == nil {
		return objects.Book{}, serverError.BookNotFoundError.New(bookID)
	}

	return *book, nil
}

func (m BooksModel) ListAll(ctx context.Context) ([]objects.Book, error) {
	return m.Search(ctx, SearchOption{})
}

// Search lists the books matching every given option, sorted by title.
// Genres matches books that carry at least one of the names.
func (m BooksModel) Search(ctx context.Context, opt SearchOption) ([]objects.Book, error) {

	q := m.Select(bookColumns...).From(tableName).OrderBy("books.title ASC")

	if !opt.Title.IsNil() {

		pred, err := models.CreateMatchPredicate("books.title", opt.Title.Value, opt.Title.MatchType)
		if err != nil {
			return nil, err
		}

		q = q.Where(pred)
	}

	if !opt.Author.IsNil() {

		pred, err := models.CreateMatchPredicate("books.author", opt.Author.Value, opt.Author.MatchType)
		if err != nil {
			return nil, err
		}

		q = q.Where(pred)
	}

	if len(opt.Genres) > 0 {

		sub, args, err := squirrel.Select("book_genres.book_id").
			From(associationTableName).
			Join("genres ON genres.id = book_genres.genre_id").
			Where(squirrel.Eq{"genres.name": opt.Genres}).
			ToSql()
		if err != nil {
			return nil, err
		}

		q = q.Where("books.id IN ("+sub+")", args...)
	}

	var found []objects.Book
	err := m.snapshot(ctx, "search books", func(tx BooksModel) (err error) {
		found, err = tx.collect(ctx, q.RunWith(tx.Runner))
		return err
	})

	return found, err
}

// UpdateBook changes the provided fields of a book and keeps the others. See objects.BookUpdate.
func (m BooksModel) UpdateBook(ctx context.Context, bookID int64, update objects.BookUpdate) (objects.Book, error) {

	var updated objects.Book
	err := m.mutate(ctx, "update book", func(tx BooksModel) error {

		current, err := tx.findOne(ctx, squirrel.Eq{"books.id": bookID})
		if err != nil {
			return err
		}

		if current == nil {
			return serverError.BookNotFoundError.New(bookID)
		}

		changes := map[string]any{}

		if title := trimmed(update.Title); title != "" && title != current.Title {

			other, err := tx.findOne(ctx, squirrel.Eq{"books.title": title})
			if err != nil {
				return err
			}

			if other != nil {
				return serverError.DuplicatedTitleError.New(title)
			}

			current.Title = title
			changes["title"] = current.Title
		}

		if author := trimmed(update.Author); author != "" {
			current.Author = author
			changes["author"] = current.Author
		}

		if update.Year != nil && *update.Year != 0 {
			current.Year = *update.Year
			changes["year"] = current.Year
		}

		if err := validate(current.Title, current.Author, current.Year); err != nil {
			return err
		}

		if len(changes) > 0 {

			_, err := tx.Update(tableName).SetMap(changes).Where(squirrel.Eq{"id": bookID}).ExecContext(ctx)
			if err != nil {
				return err
			}
		}

		if update.Genres != nil {

			if _, err := tx.Delete(associationTableName).Where(squirrel.Eq{"book_id": bookID}).ExecContext(ctx); err != nil {
				return err
			}

			resolved, err := tx.genres.Resolve(ctx, *update.Genres)
			if err != nil {
				return err
			}

			if err := tx.attachGenres(ctx, bookID, resolved); err != nil {
				return err
			}

			current.Genres = resolved
		}

		updated = *current

		return nil
	})
	if err != nil {
		return objects.Book{}, err
	}

	return updated, nil
}

// DeleteBook removes the book and its associations. Its genres stay in the registry.
func (m BooksModel) DeleteBook(ctx context.Context, bookID int64) error {

	return m.mutate(ctx, "delete book", func(tx BooksModel) error {

		if _, err := tx.Delete(associationTableName).Where(squirrel.Eq{"book_id": bookID}).ExecContext(ctx); err != nil {
			return err
		}

		result, err := tx.Delete(tableName).Where(squirrel.Eq{"id": bookID}).ExecContext(ctx)
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if affected == 0 {
			return serverError.BookNotFoundError.New(bookID)
		}

		return nil
	})
}

// TopAuthors counts books per exact author string, most books first. A limit below one returns every author.
func (m BooksModel) TopAuthors(ctx context.Context, limit int) ([]objects.AuthorCount, error) {

	q := m.Select("author", "COUNT(*) AS book_count").
		From(tableName).
		GroupBy("author").
		OrderBy("book_count DESC", "author ASC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	counts, err := models.Collect(ctx, q, func(c *objects.AuthorCount) models.Ptrs {
		return models.Ptrs{&c.Author, &c.BookCount}
	})
	if err != nil {
		return nil, models.StorageFailure("top authors", err)
	}

	return counts, nil
}

func (m BooksModel) findOne(ctx context.Context, where squirrel.Sqlizer) (*objects.Book, error) {

	q := m.Select(bookColumns...).From(tableName).Where(where)

	book, err := models.CollectOne(ctx, q, scanBook)
	if err != nil || book == nil {
		return nil, err
	}

	withGenres := []objects.Book{*book}
	if err := m.loadGenres(ctx, withGenres); err != nil {
		return nil, err
	}

	return &withGenres[0], nil
}

func (m BooksModel) collect(ctx context.Context, q squirrel.SelectBuilder) ([]objects.Book, error) {

	found, err := models.Collect(ctx, q, scanBook)
	if err != nil {
		return nil, err
	}

	if err := m.loadGenres(ctx, found); err != nil {
		return nil, err
	}

	if found == nil {
		found = []objects.Book{}
	}

	return found, nil
}

type association struct {
	BookID int64
	Genre  objects.Genre
}

// loadGenres attaches genres to every book with a single query, in association order.
func (m BooksModel) loadGenres(ctx context.Context, books []objects.Book) error {

	if len(books) == 0 {
		return nil
	}

	ids := lo.Map(books, func(b objects.Book, _ int) int64 { return b.ID })

	q := m.Select("book_genres.book_id", "genres.id", "genres.name").
		From(associationTableName).
		Join("genres ON genres.id = book_genres.genre_id").
		Where(squirrel.Eq{"book_genres.book_id": ids}).
		OrderBy("book_genres.book_id ASC", "book_genres.position ASC")

	associations, err := models.Collect(ctx, q, func(a *association) models.Ptrs {
		return models.Ptrs{&a.BookID, &a.Genre.ID, &a.Genre.Name}
	})
	if err != nil {
		return err
	}

	byBook := lo.GroupBy(associations, func(a association) int64 { return a.BookID })

	for ix := range books {
		books[ix].Genres = lo.Map(byBook[books[ix].ID], func(a association, _ int) objects.Genre { return a.Genre })
	}

	return nil
}

func (m BooksModel) attachGenres(ctx context.Context, bookID int64, resolved []objects.Genre) error {

	if len(resolved) == 0 {
		return nil
	}

	q := m.Insert(associationTableName).Columns("book_id", "genre_id", "position")
	for position, genre := range resolved {
		q = q.Values(bookID, genre.ID, position)
	}

	_, err := q.ExecContext(ctx)
	return err
}

// validate keeps stored books expressible as export lines.
func validate(title, author string, year int) error {

	if title == "" {
		return serverError.InvalidBookDataError.New("title must not be empty")
	}

	if author == "" {
		return serverError.InvalidBookDataError.New("author must not be empty")
	}

	if models.HasReservedChars(title) {
		return serverError.InvalidBookDataError.New("title must not contain commas, brackets or line breaks")
	}

	if models.HasReservedChars(author) {
		return serverError.InvalidBookDataError.New("author must not contain commas, brackets or line breaks")
	}

	if year < minYear || year > maxYear {
		return serverError.InvalidBookDataError.New(fmt.Sprintf("year %d must be between %d and %d", year, minYear, maxYear))
	}

	return nil
}

func trimmed(value *string) string {

	if value == nil {
		return ""
	}

	return strings.TrimSpace(*value)
}
