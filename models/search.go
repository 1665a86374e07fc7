package models

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/supakorn-kn/go-bookshelf/errors"
)

type MatchType uint8

const (
	EqualMatchType     = 0
	PartialMatchType   = 1
	StartWithMatchType = 2
	EndWithMatchType   = 3
)

type MatchOption struct {
	MatchType MatchType `json:"match_type"`
	Value     string    `json:"value"`
}

func (opt MatchOption) IsNil() bool {
	return reflect.ValueOf(opt).IsZero()
}

func CreateMatchPredicate(column string, value any, matchType MatchType) (squirrel.Sqlizer, error) {

	switch matchType {

	case EqualMatchType:
		return EqualMatch(column, value), nil

	case PartialMatchType:
		return PartialMatch(column, value), nil

	case StartWithMatchType:
		return StartWithMatch(column, value), nil

	case EndWithMatchType:
		return EndWithMatch(column, value), nil

	default:
		return nil, errors.MatchTypeInvalidError.New(matchType)
	}
}

// EqualMatch creates predicate for equal search (Case-sensitive)
func EqualMatch(column string, value any) squirrel.Sqlizer {
	return squirrel.Eq{column: value}
}

// likeEscaper escapes LIKE wildcards so the value matches literally, the patterns use '\' as the escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likeMatch(column, pattern string) squirrel.Sqlizer {
	return squirrel.Expr(column+` LIKE ? ESCAPE '\'`, pattern)
}

// PartialMatch creates predicate for partial search (Case-insensitive for ASCII)
func PartialMatch(column string, value any) squirrel.Sqlizer {
	return likeMatch(column, "%"+likeEscaper.Replace(fmt.Sprint(value))+"%")
}

// StartWithMatch creates predicate for start with keyword search (Case-insensitive for ASCII)
func StartWithMatch(column string, value any) squirrel.Sqlizer {
	return likeMatch(column, likeEscaper.Replace(fmt.Sprint(value))+"%")
}

// EndWithMatch creates predicate for end with keyword search (Case-insensitive for ASCII)
func EndWithMatch(column string, value any) squirrel.Sqlizer {
	return likeMatch(column, "%"+likeEscaper.Replace(fmt.Sprint(value)))
}
