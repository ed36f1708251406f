package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"mangasearch/pkg/database"
	"mangasearch/pkg/models"
)

const table = "search_history"

// Repo is the append-only search log. Every call takes a connection from
// the pool and returns it before the call ends.
type Repo struct {
	DB *sql.DB
	sb sq.StatementBuilderType
}

func NewRepo(db *sql.DB, dialect database.Dialect) *Repo {
	var ph sq.PlaceholderFormat = sq.Question
	if dialect == database.DialectPostgres {
		ph = sq.Dollar
	}
	return &Repo{DB: db, sb: sq.StatementBuilder.PlaceholderFormat(ph)}
}

func (r *Repo) withConn(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := r.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

func (r *Repo) Insert(ctx context.Context, e models.HistoryEntry) error {
	query, args, err := r.sb.Insert(table).
		Columns("id", "search_query", "searched_at").
		Values(e.ID, e.SearchQuery, e.Timestamp.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert history: %w", err)
	}

	return r.withConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
		return nil
	})
}

// List returns every entry, most recent first.
func (r *Repo) List(ctx context.Context) ([]models.HistoryEntry, error) {
	query, args, err := r.sb.Select("id", "search_query", "searched_at").
		From(table).
		OrderBy("searched_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list history: %w", err)
	}

	var out []models.HistoryEntry
	err = r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}
		defer rows.Close()

		out = make([]models.HistoryEntry, 0)
		for rows.Next() {
			var e models.HistoryEntry
			var ts time.Time
			if err := rows.Scan(&e.ID, &e.SearchQuery, &ts); err != nil {
				return fmt.Errorf("scan history row: %w", err)
			}
			e.Timestamp = ts.UTC()
			out = append(out, e)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	query, args, err := r.sb.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count history: %w", err)
	}

	var total int
	err = r.withConn(ctx, func(conn *sql.Conn) error {
		if err := conn.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
			return fmt.Errorf("count history: %w", err)
		}
		return nil
	})
	return total, err
}
