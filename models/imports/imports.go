package imports

import (
	"context"
	"slices"

	"github.com/supakorn-kn/go-bookshelf/models"
	"github.com/supakorn-kn/go-bookshelf/mongodb"
	"github.com/supakorn-kn/go-bookshelf/objects"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionName = "import_reports"
	reportIDIndex  = "report_id_1"
	startedAtIndex = "started_at_-1"
)

// Journal records the outcome of batch imports.
type Journal interface {
	Record(ctx context.Context, report objects.ImportReport) error
	Recent(ctx context.Context, limit int) ([]objects.ImportReport, error)
}

// ImportsModel keeps import reports in MongoDB.
type ImportsModel struct {
	Coll *mongo.Collection
}

func NewImportsModel(ctx context.Context, conn *mongodb.MongoDBConn) (*ImportsModel, error) {

	model := &ImportsModel{Coll: conn.GetCollection(collectionName)}
	if err := model.initIndexes(ctx); err != nil {
		return nil, err
	}

	return model, nil
}

func (m ImportsModel) initIndexes(ctx context.Context) error {

	cur, err := m.Coll.Indexes().List(ctx)
	if err != nil {
		return err
	}

	var indexes []bson.M
	if err := cur.All(ctx, &indexes); err != nil {
		return err
	}

	contains := func(name string) bool {
		return slices.ContainsFunc(indexes, func(m primitive.M) bool { return m["name"] == name })
	}

	var toCreate []mongo.IndexModel

	if !contains(reportIDIndex) {
		toCreate = append(toCreate, mongo.IndexModel{
			Keys:    bson.D{{Key: "report_id", Value: 1}},
			Options: options.Index().SetName(reportIDIndex).SetUnique(true),
		})
	}

	if !contains(startedAtIndex) {
		toCreate = append(toCreate, mongo.IndexModel{
			Keys:    bson.D{{Key: "started_at", Value: -1}},
			Options: options.Index().SetName(startedAtIndex),
		})
	}

	if len(toCreate) == 0 {
		return nil
	}

	_, err = m.Coll.Indexes().CreateMany(ctx, toCreate)
	return err
}

func (m ImportsModel) Record(ctx context.Context, report objects.ImportReport) error {

	if _, err := m.Coll.InsertOne(ctx, report); err != nil {
		return models.StorageFailure("record import report", err)
	}

	return nil
}

// Recent returns the newest reports first. A limit below one returns every report.
func (m ImportsModel) Recent(ctx context.Context, limit int) ([]objects.ImportReport, error) {

	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := m.Coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, models.StorageFailure("list import reports", err)
	}

	reports := []objects.ImportReport{}
	if err := cur.All(ctx, &reports); err != nil {
		return nil, models.StorageFailure("list import reports", err)
	}

	return reports, nil
}

// NoopJournal is used when no MongoDB is configured. It keeps nothing.
type NoopJournal struct{}

func (NoopJournal) Record(ctx context.Context, report objects.ImportReport) error {
	return nil
}

func (NoopJournal) Recent(ctx context.Context, limit int) ([]objects.ImportReport, error) {
	return []objects.ImportReport{}, nil
}
