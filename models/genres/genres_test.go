package genres

import (
	"context"
	"fmt"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/supakorn-kn/go-bookshelf/errors"
	"github.com/supakorn-kn/go-bookshelf/objects"
	"github.com/supakorn-kn/go-bookshelf/sqlite"
)

type GenresModelTestSuite struct {
	suite.Suite
	conn  *sqlite.SQLiteConn
	model *GenresModel
}

func (s *GenresModelTestSuite) SetupSuite() {

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := sqlite.InitConnection(context.Background(), dsn)
	if err != nil {
		s.FailNow("Create SQLite connection failed", err)
	}

	s.model = NewGenresModel(conn.DB)
	s.conn = conn
}

func (s *GenresModelTestSuite) AfterTest(suiteName, testName string) {

	_, err := s.conn.DB.Exec("delete from book_genres; delete from books; delete from genres;")
	s.Require().NoError(err)
}

func (s *GenresModelTestSuite) TearDownSuite() {
	s.conn.Disconnect()
}

func (s *GenresModelTestSuite) TestAdd() {

	ctx := context.Background()

	s.Run("Should add and find genre by exact name", func() {

		created, err := s.model.Add(ctx, "sci-fi")
		s.Require().NoError(err)
		s.Require().NotZero(created.ID)

		actual, err := s.model.FindByName(ctx, "sci-fi")
		s.Require().NoError(err)
		s.Require().Equal(&created, actual)

		missing, err := s.model.FindByName(ctx, "Sci-Fi")
		s.Require().NoError(err)
		s.Require().Nil(missing, "Lookup should be case-sensitive")
	})

	s.Run("Should throw storage error when add existing name", func() {

		_, err := s.model.Add(ctx, "sci-fi")
		s.Require().True(errors.HasCode(err, errors.StorageErrorCode))
	})
}

func (s *GenresModelTestSuite) TestFindByNames() {

	ctx := context.Background()

	drama, err := s.model.Add(ctx, "drama")
	s.Require().NoError(err)
	comedy, err := s.model.Add(ctx, "comedy")
	s.Require().NoError(err)

	found, err := s.model.FindByNames(ctx, []string{"drama", "comedy", "horror", "drama"})
	s.Require().NoError(err)
	s.Require().Equal(map[string]objects.Genre{"drama": drama, "comedy": comedy}, found)

	empty, err := s.model.FindByNames(ctx, nil)
	s.Require().NoError(err)
	s.Require().Empty(empty)
}

func (s *GenresModelTestSuite) TestResolve() {

	ctx := context.Background()

	existing, err := s.model.Add(ctx, "drama")
	s.Require().NoError(err)

	resolved, err := s.model.Resolve(ctx, []string{"poetry", "drama", "", "poetry"})
	s.Require().NoError(err)
	s.Require().Len(resolved, 2)
	s.Require().Equal("poetry", resolved[0].Name)
	s.Require().Equal(existing, resolved[1])

	all, err := s.model.ListAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
}

func (s *GenresModelTestSuite) TestResolveShouldTrimAndRejectReservedNames() {

	ctx := context.Background()

	resolved, err := s.model.Resolve(ctx, []string{"  horror ", "horror", "   "})
	s.Require().NoError(err)
	s.Require().Len(resolved, 1)
	s.Require().Equal("horror", resolved[0].Name)

	for _, name := range []string{"sci, fi", "[folk]", "line\nbreak"} {

		_, err := s.model.Resolve(ctx, []string{"western", name})
		s.Require().True(errors.HasCode(err, errors.InvalidBookDataErrorCode), name)
	}

	western, err := s.model.FindByName(ctx, "western")
	s.Require().NoError(err)
	s.Require().Nil(western, "Names before a rejected name should not be created")
}

func (s *GenresModelTestSuite) TestListAll() {

	ctx := context.Background()

	for _, name := range []string{"thriller", "biography", "mystery"} {
		_, err := s.model.Add(ctx, name)
		s.Require().NoError(err)
	}

	all, err := s.model.ListAll(ctx)
	s.Require().NoError(err)

	var names []string
	for _, genre := range all {
		names = append(names, genre.Name)
	}

	s.Require().Equal([]string{"biography", "mystery", "thriller"}, names)
}

func (s *GenresModelTestSuite) TestDistribution() {

	ctx := context.Background()

	// sci-fi: 3 books, drama: 2, comedy: 1, poetry: orphan
	tags := map[string][]string{
		"Book 1": {"sci-fi", "drama"},
		"Book 2": {"sci-fi", "drama"},
		"Book 3": {"sci-fi", "comedy"},
	}

	for _, name := range []string{"sci-fi", "drama", "comedy", "poetry"} {
		_, err := s.model.Add(ctx, name)
		s.Require().NoError(err)
	}

	for title, names := range tags {
		s.insertBook(title, names...)
	}

	s.Run("Should rank genres by usage and truncate to limit", func() {

		counts, err := s.model.Distribution(ctx, 2)
		s.Require().NoError(err)
		s.Require().Equal([]objects.GenreCount{
			{Genre: "sci-fi", UsageCount: 3},
			{Genre: "drama", UsageCount: 2},
		}, counts)
	})

	s.Run("Should return every used genre when limit is not positive", func() {

		counts, err := s.model.Distribution(ctx, 0)
		s.Require().NoError(err)
		s.Require().Equal([]objects.GenreCount{
			{Genre: "sci-fi", UsageCount: 3},
			{Genre: "drama", UsageCount: 2},
			{Genre: "comedy", UsageCount: 1},
		}, counts)
	})
}

func (s *GenresModelTestSuite) insertBook(title string, genreNames ...string) {

	ctx := context.Background()
	sq := squirrel.StatementBuilder.RunWith(s.conn.DB)

	result, err := sq.Insert("books").Columns("title", "author", "year").Values(title, "Author", 2000).ExecContext(ctx)
	s.Require().NoError(err)

	bookID, err := result.LastInsertId()
	s.Require().NoError(err)

	found, err := s.model.FindByNames(ctx, genreNames)
	s.Require().NoError(err)

	for position, name := range genreNames {
		_, err := sq.Insert("book_genres").
			Columns("book_id", "genre_id", "position").
			Values(bookID, found[name].ID, position).
			ExecContext(ctx)
		s.Require().NoError(err)
	}
}

func TestGenresModel(t *testing.T) {
	suite.Run(t, new(GenresModelTestSuite))
}
