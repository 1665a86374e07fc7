package imports

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/supakorn-kn/go-bookshelf/errors"
	"github.com/supakorn-kn/go-bookshelf/mongodb"
	"github.com/supakorn-kn/go-bookshelf/objects"
	"go.mongodb.org/mongo-driver/bson"
)

type ImportsModelTestSuite struct {
	suite.Suite
	conn  *mongodb.MongoDBConn
	model *ImportsModel
}

func (s *ImportsModelTestSuite) SetupSuite() {

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		s.T().Skip("MONGODB_URI is not set")
	}

	ctx := context.Background()

	conn, err := mongodb.InitConnection(ctx, uri, fmt.Sprintf("bookshelf_test_%s", uuid.NewString()[:8]))
	if err != nil {
		s.FailNow("Create MongoDB connection failed", err)
	}

	model, err := NewImportsModel(ctx, conn)
	if err != nil {
		conn.Disconnect(ctx)
		s.FailNow("Setup imports model failed", err)
	}

	s.conn = conn
	s.model = model
}

func (s *ImportsModelTestSuite) AfterTest(suiteName, testName string) {

	_, err := s.model.Coll.DeleteMany(context.Background(), bson.D{})
	s.Require().NoError(err)
}

func (s *ImportsModelTestSuite) TearDownSuite() {

	if s.conn == nil {
		return
	}

	ctx := context.Background()
	s.conn.GetDatabase().Drop(ctx)
	s.conn.Disconnect(ctx)
}

func (s *ImportsModelTestSuite) TestRecordAndRecent() {

	ctx := context.Background()
	startedAt := time.Now().UTC().Truncate(time.Millisecond)

	older := fakeReport(startedAt.Add(-time.Hour))
	newer := fakeReport(startedAt)
	newer.Failures = []objects.LineFailure{{Line: 2, Text: "bad line", Error: errors.InvalidLineFormatError.New("bad line")}}

	s.Require().NoError(s.model.Record(ctx, older))
	s.Require().NoError(s.model.Record(ctx, newer))

	s.Run("Should return newest report first", func() {

		reports, err := s.model.Recent(ctx, 0)
		s.Require().NoError(err)
		s.Require().Len(reports, 2)
		s.Require().Equal(newer.ReportID, reports[0].ReportID)
		s.Require().Equal(older.ReportID, reports[1].ReportID)
		s.Require().True(newer.StartedAt.Equal(reports[0].StartedAt))
		s.Require().Len(reports[0].Failures, 1)
		s.Require().True(errors.IsError(reports[0].Failures[0].Error, newer.Failures[0].Error))
	})

	s.Run("Should truncate to limit", func() {

		reports, err := s.model.Recent(ctx, 1)
		s.Require().NoError(err)
		s.Require().Len(reports, 1)
	})

	s.Run("Should reject report with existing report ID", func() {

		err := s.model.Record(ctx, older)
		s.Require().True(errors.HasCode(err, errors.StorageErrorCode))
	})
}

func TestImportsModel(t *testing.T) {
	suite.Run(t, new(ImportsModelTestSuite))
}

func TestNoopJournal(t *testing.T) {

	var journal Journal = NoopJournal{}

	if err := journal.Record(context.Background(), fakeReport(time.Now())); err != nil {
		t.Fatal(err)
	}

	reports, err := journal.Recent(context.Background(), 5)
	if err != nil || reports == nil || len(reports) != 0 {
		t.Fatalf("expected empty reports, got %v, %v", reports, err)
	}
}

func fakeReport(startedAt time.Time) objects.ImportReport {

	return objects.ImportReport{
		ReportID:  uuid.NewString(),
		FileName:  "books.txt",
		StartedAt: startedAt,
		Total:     3,
		Imported:  3,
		Failures:  []objects.LineFailure{},
	}
}
