package models

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	serverError "github.com/supakorn-kn/go-bookshelf/errors"
)

// reservedChars separate the fields of an exported book line, no stored value may hold them.
const reservedChars = ",[]\r\n"

func HasReservedChars(value string) bool {
	return strings.ContainsAny(value, reservedChars)
}

type (
	Ptrs           []any
	RowScan[T any] func(*T) Ptrs
)

// BaseModel builds every statement against Runner, which is either the database or an open transaction.
type BaseModel struct {
	Runner squirrel.BaseRunner
}

func NewBaseModel(runner squirrel.BaseRunner) BaseModel {
	return BaseModel{Runner: runner}
}

func (m BaseModel) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.RunWith(m.Runner)
}

func (m BaseModel) Select(columns ...string) squirrel.SelectBuilder {
	return m.Builder().Select(columns...)
}

func (m BaseModel) Insert(table string) squirrel.InsertBuilder {
	return m.Builder().Insert(table)
}

func (m BaseModel) Update(table string) squirrel.UpdateBuilder {
	return m.Builder().Update(table)
}

func (m BaseModel) Delete(table string) squirrel.DeleteBuilder {
	return m.Builder().Delete(table)
}

// Collect runs q and scans every row into a new T.
func Collect[T any](ctx context.Context, q squirrel.SelectBuilder, scan RowScan[T]) ([]T, error) {

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("Collect: failed to close rows", "error", err.Error())
		}
	}()

	var collection []T
	for rows.Next() {
		var t T
		if err := rows.Scan(scan(&t)...); err != nil {
			return nil, err
		}
		collection = append(collection, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return collection, nil
}

// CollectOne scans the first row of q. It returns nil without error when q matches nothing.
func CollectOne[T any](ctx context.Context, q squirrel.SelectBuilder, scan RowScan[T]) (*T, error) {

	var t T
	err := q.Limit(1).QueryRowContext(ctx).Scan(scan(&t)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// StorageFailure logs err and converts it to StorageError. Coded errors pass through unchanged.
func StorageFailure(op string, err error) error {

	if err == nil {
		return nil
	}

	if _, ok := serverError.TryAssertError(err); ok {
		return err
	}

	slog.Error("Storage operation failed", "op", op, "error", err.Error())
	return serverError.StorageError.New(err)
}
