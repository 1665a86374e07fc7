package books

import (
	"cmp"
	"context"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
	"github.com/supakorn-kn/go-bookshelf/objects"
)

// SimilarLimit is the maximum number of books FindSimilarBooks returns.
const SimilarLimit = 5

// maxGenreScore is the score of a candidate sharing no genre with the target.
const maxGenreScore = 2.0

// FindSimilarBooks returns up to SimilarLimit books that share the target's author or at least one of its genres,
// most similar first.
func (m BooksModel) FindSimilarBooks(ctx context.Context, bookID int64) ([]objects.Book, error) {

	var similar []objects.Book
	err := m.snapshot(ctx, "find similar books", func(tx BooksModel) error {

		target, err := tx.GetByID(ctx, bookID)
		if err != nil {
			return err
		}

		candidates, err := tx.similarCandidates(ctx, target)
		if err != nil {
			return err
		}

		similar = RankSimilar(target, candidates, SimilarLimit)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return similar, nil
}

// similarCandidates selects every other book with the same author or a shared genre, ordered by title.
func (m BooksModel) similarCandidates(ctx context.Context, target objects.Book) ([]objects.Book, error) {

	match := squirrel.Or{squirrel.Eq{"books.author": target.Author}}

	if len(target.Genres) > 0 {

		genreIDs := lo.Map(target.Genres, func(g objects.Genre, _ int) int64 { return g.ID })

		sub, args, err := squirrel.Select("book_genres.book_id").
			From(associationTableName).
			Where(squirrel.Eq{"book_genres.genre_id": genreIDs}).
			ToSql()
		if err != nil {
			return nil, err
		}

		match = append(match, squirrel.Expr("books.id IN ("+sub+")", args...))
	}

	q := m.Select(bookColumns...).
		From(tableName).
		Where(squirrel.NotEq{"books.id": target.ID}).
		Where(match).
		OrderBy("books.title ASC")

	return m.collect(ctx, q)
}

type scoredBook struct {
	book  objects.Book
	score float64
}

// RankSimilar scores candidates against target, sorts them ascending by score keeping input order on ties,
// and returns at most limit books.
func RankSimilar(target objects.Book, candidates []objects.Book, limit int) []objects.Book {

	scored := lo.Map(candidates, func(c objects.Book, _ int) scoredBook {
		return scoredBook{book: c, score: Score(target, c)}
	})

	slices.SortStableFunc(scored, func(a, b scoredBook) int {
		return cmp.Compare(a.score, b.score)
	})

	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	return lo.Map(scored, func(s scoredBook, _ int) objects.Book { return s.book })
}

// Score is 0 for a candidate by the target's author. Otherwise it is
// 1 + (|T| - |T ∩ C|) / |T| over the genre sets T of target and C of candidate,
// so more shared genres means a lower score. Lower is more similar.
func Score(target, candidate objects.Book) float64 {

	if candidate.Author == target.Author {
		return 0
	}

	targetGenres := lo.Uniq(target.GenreNames())
	if len(targetGenres) == 0 {
		return maxGenreScore
	}

	shared := len(lo.Intersect(targetGenres, lo.Uniq(candidate.GenreNames())))

	return 1 + float64(len(targetGenres)-shared)/float64(len(targetGenres))
}
