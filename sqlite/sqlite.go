package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
	create table if not exists books (
		id integer primary key autoincrement,
		title text not null unique,
		author text not null,
		year integer not null
	);
	create table if not exists genres (
		id integer primary key autoincrement,
		name text not null unique
	);
	create table if not exists book_genres (
		book_id integer not null references books(id) on delete cascade,
		genre_id integer not null references genres(id),
		position integer not null,
		primary key (book_id, genre_id)
	);
	create index if not exists books_author_idx on books(author);
	create index if not exists book_genres_genre_id_idx on book_genres(genre_id);
	`

type SQLiteConn struct {
	DB  *sql.DB
	dsn string
}

func New(dsn string) SQLiteConn {
	return SQLiteConn{dsn: dsn}
}

// Connect opens the database, runs the schema migration and keeps a single connection,
// all writes go through that one connection.
func (conn *SQLiteConn) Connect(ctx context.Context) error {

	db, err := sql.Open("sqlite3", conn.dsn)
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return fmt.Errorf("migrate schema: %w", err)
	}

	conn.DB = db

	return nil
}

func (conn *SQLiteConn) Disconnect() error {

	if conn.DB == nil {
		return nil
	}

	return conn.DB.Close()
}

// WithTx runs fn inside one transaction. It commits when fn returns nil and rolls back otherwise.
func (conn *SQLiteConn) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {

	tx, err := conn.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(tx)
			panic(p)
		}

		if err != nil {
			rollback(tx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func rollback(tx *sql.Tx) {

	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		slog.Error("Rollback transaction failed", "error", err.Error())
	}
}

func InitConnection(ctx context.Context, dsn string) (*SQLiteConn, error) {

	conn := New(dsn)
	if err := conn.Connect(ctx); err != nil {
		return nil, err
	}

	return &conn, nil
}
