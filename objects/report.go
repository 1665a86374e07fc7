package objects

import (
	"time"

	serverError "github.com/supakorn-kn/go-bookshelf/errors"
)

// ImportReport summarises one batch import, failed lines do not stop the batch.
type ImportReport struct {
	ReportID  string        `json:"report_id" bson:"report_id"`
	FileName  string        `json:"file_name" bson:"file_name"`
	StartedAt time.Time     `json:"started_at" bson:"started_at"`
	Total     int           `json:"total" bson:"total"`
	Imported  int           `json:"imported" bson:"imported"`
	Failures  []LineFailure `json:"failures" bson:"failures"`
}

type LineFailure struct {
	Line  int                   `json:"line" bson:"line"`
	Text  string                `json:"text" bson:"text"`
	Error serverError.BaseError `json:"error" bson:"error"`
}

func (r ImportReport) Failed() int {
	return len(r.Failures)
}
