package genres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
	serverError "github.com/supakorn-kn/go-bookshelf/errors"
	"github.com/supakorn-kn/go-bookshelf/models"
	"github.com/supakorn-kn/go-bookshelf/objects"
)

const (
	tableName            = "genres"
	associationTableName = "book_genres"
)

var scanGenre models.RowScan[objects.Genre] = func(g *objects.Genre) models.Ptrs {
	return models.Ptrs{&g.ID, &g.Name}
}

// GenresModel is the genre registry. Names are unique and compared exactly.
type GenresModel struct {
	models.BaseModel
}

func NewGenresModel(db *sql.DB) *GenresModel {
	return &GenresModel{BaseModel: models.NewBaseModel(db)}
}

// WithRunner returns a copy of the registry that runs its statements on runner, usually an open transaction.
func (m GenresModel) WithRunner(runner squirrel.BaseRunner) *GenresModel {
	return &GenresModel{BaseModel: models.NewBaseModel(runner)}
}

func (m GenresModel) FindByName(ctx context.Context, name string) (*objects.Genre, error) {

	q := m.Select("id", "name").From(tableName).Where(squirrel.Eq{"name": name})

	genre, err := models.CollectOne(ctx, q, scanGenre)
	if err != nil {
		return nil, models.StorageFailure("find genre by name", err)
	}

	return genre, nil
}

// FindByNames looks up every name in one query. Names that do not exist are absent from the result.
func (m GenresModel) FindByNames(ctx context.Context, names []string) (map[string]objects.Genre, error) {

	if len(names) == 0 {
		return map[string]objects.Genre{}, nil
	}

	q := m.Select("id", "name").From(tableName).Where(squirrel.Eq{"name": lo.Uniq(names)})

	found, err := models.Collect(ctx, q, scanGenre)
	if err != nil {
		return nil, models.StorageFailure("find genres by names", err)
	}

	return lo.KeyBy(found, func(g objects.Genre) string { return g.Name }), nil
}

func (m GenresModel) Add(ctx context.Context, name string) (objects.Genre, error) {

	result, err := m.Insert(tableName).Columns("name").Values(name).ExecContext(ctx)
	if err != nil {
		return objects.Genre{}, models.StorageFailure("add genre", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return objects.Genre{}, models.StorageFailure("add genre", err)
	}

	return objects.Genre{ID: id, Name: name}, nil
}

// Resolve returns one genre per distinct non-empty name in request order,
// creating the names that are not registered yet. Names are trimmed first.
func (m GenresModel) Resolve(ctx context.Context, names []string) ([]objects.Genre, error) {

	names = lo.Uniq(lo.Compact(lo.Map(names, func(name string, _ int) string { return strings.TrimSpace(name) })))

	if invalid, found := lo.Find(names, models.HasReservedChars); found {
		return nil, serverError.InvalidBookDataError.New("genre " + strconv.Quote(invalid) + " must not contain commas, brackets or line breaks")
	}

	existing, err := m.FindByNames(ctx, names)
	if err != nil {
		return nil, err
	}

	resolved := make([]objects.Genre, 0, len(names))
	for _, name := range names {

		if genre, ok := existing[name]; ok {
			resolved = append(resolved, genre)
			continue
		}

		genre, err := m.Add(ctx, name)
		if err != nil {
			return nil, err
		}

		resolved = append(resolved, genre)
	}

	return resolved, nil
}

func (m GenresModel) ListAll(ctx context.Context) ([]objects.Genre, error) {

	q := m.Select("id", "name").From(tableName).OrderBy("name ASC")

	genres, err := models.Collect(ctx, q, scanGenre)
	if err != nil {
		return nil, models.StorageFailure("list genres", err)
	}

	return genres, nil
}

// Distribution ranks genres by the number of books referencing them, ties keep creation order.
// Genres no book references are left out. A limit below one returns every genre.
func (m GenresModel) Distribution(ctx context.Context, limit int) ([]objects.GenreCount, error) {

	q := m.Select("genres.name", "COUNT(book_genres.book_id) AS usage_count").
		From(tableName).
		Join(associationTableName + " ON book_genres.genre_id = genres.id").
		GroupBy("genres.id", "genres.name").
		OrderBy("usage_count DESC", "genres.id ASC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	counts, err := models.Collect(ctx, q, func(c *objects.GenreCount) models.Ptrs {
		return models.Ptrs{&c.Genre, &c.UsageCount}
	})
	if err != nil {
		return nil, models.StorageFailure("genre distribution", err)
	}

	return counts, nil
}
