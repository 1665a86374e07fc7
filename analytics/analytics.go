package analytics

import (
	"context"

	"github.com/samber/lo"
	"github.com/supakorn-kn/go-bookshelf/objects"
)

type AuthorCounter interface {
	TopAuthors(ctx context.Context, limit int) ([]objects.AuthorCount, error)
}

type GenreDistributor interface {
	Distribution(ctx context.Context, limit int) ([]objects.GenreCount, error)
}

// RadarChart is the data of a radar chart over genre usage, the radial axis runs from 0 to RangeMax.
type RadarChart struct {
	Labels   []string `json:"labels"`
	Values   []int    `json:"values"`
	RangeMax int      `json:"range_max"`
}

type Summary struct {
	TopAuthors []objects.AuthorCount `json:"top_authors"`
	TopGenres  []objects.GenreCount  `json:"top_genres"`
	Radar      RadarChart            `json:"radar"`
}

// Engine aggregates reading preferences. It holds no state of its own.
type Engine struct {
	authors AuthorCounter
	genres  GenreDistributor
}

func NewEngine(authors AuthorCounter, genres GenreDistributor) *Engine {
	return &Engine{authors: authors, genres: genres}
}

func (e Engine) TopAuthors(ctx context.Context, limit int) ([]objects.AuthorCount, error) {
	return e.authors.TopAuthors(ctx, limit)
}

func (e Engine) GenreDistribution(ctx context.Context, limit int) ([]objects.GenreCount, error) {
	return e.genres.Distribution(ctx, limit)
}

func (e Engine) Summary(ctx context.Context, limit int) (Summary, error) {

	authors, err := e.TopAuthors(ctx, limit)
	if err != nil {
		return Summary{}, err
	}

	genres, err := e.GenreDistribution(ctx, limit)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		TopAuthors: lo.Ternary(authors == nil, []objects.AuthorCount{}, authors),
		TopGenres:  lo.Ternary(genres == nil, []objects.GenreCount{}, genres),
		Radar:      Radar(genres),
	}, nil
}

// Radar builds chart data from genre counts. RangeMax leaves one unit above the largest value,
// or is 1 when there is no data.
func Radar(counts []objects.GenreCount) RadarChart {

	values := lo.Map(counts, func(c objects.GenreCount, _ int) int { return c.UsageCount })

	rangeMax := 1
	if len(values) > 0 {
		rangeMax = lo.Max(values) + 1
	}

	return RadarChart{
		Labels:   lo.Map(counts, func(c objects.GenreCount, _ int) string { return c.Genre }),
		Values:   values,
		RangeMax: rangeMax,
	}
}
