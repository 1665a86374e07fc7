package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supakorn-kn/go-bookshelf/objects"
)

type stubCounts struct {
	authors   []objects.AuthorCount
	genres    []objects.GenreCount
	err       error
	lastLimit int
}

func (s *stubCounts) TopAuthors(ctx context.Context, limit int) ([]objects.AuthorCount, error) {
	s.lastLimit = limit
	return s.authors, s.err
}

func (s *stubCounts) Distribution(ctx context.Context, limit int) ([]objects.GenreCount, error) {
	s.lastLimit = limit
	return s.genres, s.err
}

func TestRadar(t *testing.T) {

	chart := Radar([]objects.GenreCount{{Genre: "sci-fi", UsageCount: 3}, {Genre: "drama", UsageCount: 2}})

	assert.Equal(t, RadarChart{Labels: []string{"sci-fi", "drama"}, Values: []int{3, 2}, RangeMax: 4}, chart)
	assert.Equal(t, RadarChart{Labels: []string{}, Values: []int{}, RangeMax: 1}, Radar(nil))
}

func TestSummary(t *testing.T) {

	stub := &stubCounts{
		authors: []objects.AuthorCount{{Author: "Herbert", BookCount: 2}},
		genres:  []objects.GenreCount{{Genre: "sci-fi", UsageCount: 2}},
	}

	engine := NewEngine(stub, stub)

	summary, err := engine.Summary(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, stub.lastLimit)
	assert.Equal(t, stub.authors, summary.TopAuthors)
	assert.Equal(t, stub.genres, summary.TopGenres)
	assert.Equal(t, 3, summary.Radar.RangeMax)
}

func TestSummaryShouldReturnEmptyListsWithoutData(t *testing.T) {

	engine := NewEngine(&stubCounts{}, &stubCounts{})

	summary, err := engine.Summary(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, summary.TopAuthors)
	assert.NotNil(t, summary.TopGenres)
	assert.Equal(t, 1, summary.Radar.RangeMax)
}

func TestSummaryShouldForwardErrors(t *testing.T) {

	failure := errors.New("store down")
	engine := NewEngine(&stubCounts{err: failure}, &stubCounts{})

	_, err := engine.Summary(context.Background(), 5)
	assert.ErrorIs(t, err, failure)
}
