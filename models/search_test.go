package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supakorn-kn/go-bookshelf/errors"
)

func TestCreateMatchPredicate(t *testing.T) {

	testCases := map[string]struct {
		MatchType    MatchType
		Value        string
		ExpectedSQL  string
		ExpectedArgs []any
	}{
		"Equal": {
			MatchType:    EqualMatchType,
			Value:        "100%",
			ExpectedSQL:  "title = ?",
			ExpectedArgs: []any{"100%"},
		},
		"Partial": {
			MatchType:    PartialMatchType,
			Value:        "a_b",
			ExpectedSQL:  `title LIKE ? ESCAPE '\'`,
			ExpectedArgs: []any{`%a\_b%`},
		},
		"Start with": {
			MatchType:    StartWithMatchType,
			Value:        "100%",
			ExpectedSQL:  `title LIKE ? ESCAPE '\'`,
			ExpectedArgs: []any{`100\%%`},
		},
		"End with": {
			MatchType:    EndWithMatchType,
			Value:        `back\slash`,
			ExpectedSQL:  `title LIKE ? ESCAPE '\'`,
			ExpectedArgs: []any{`%back\\slash`},
		},
	}

	for name, testCase := range testCases {

		pred, err := CreateMatchPredicate("title", testCase.Value, testCase.MatchType)
		require.NoError(t, err, name)

		sql, args, err := pred.ToSql()
		require.NoError(t, err, name)
		assert.Equal(t, testCase.ExpectedSQL, sql, name)
		assert.Equal(t, testCase.ExpectedArgs, args, name)
	}

	_, err := CreateMatchPredicate("title", "x", MatchType(42))
	assert.True(t, errors.HasCode(err, errors.MatchTypeInvalidErrorCode))
}
