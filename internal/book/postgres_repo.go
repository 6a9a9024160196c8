package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepo stores books in the books table. The *sql.DB is expected to
// be backed by the pgx stdlib driver.
type PostgresRepo struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresRepo(db *sql.DB, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) FindByISBN(ctx context.Context, isbn string) (Record, error) {
	const query = `SELECT isbn, title, author, volume FROM books WHERE isbn = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var b Record
	err := r.db.QueryRowContext(timeoutCtx, query, isbn).Scan(&b.ISBN, &b.Title, &b.Author, &b.Volume)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return b, nil
}

func (r *PostgresRepo) FindAll(ctx context.Context, p PageRequest) ([]Record, int, error) {
	orderBy, err := orderByClause(p.Sort)
	if err != nil {
		return nil, 0, err
	}

	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRowContext(timeoutCtx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`SELECT isbn, title, author, volume FROM books ORDER BY %s LIMIT $1 OFFSET $2`, orderBy)

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.QueryContext(timeoutCtx2, dataSQL, p.Size, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var b Record
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Author, &b.Volume); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Save(ctx context.Context, b Record) error {
	const query = `
		INSERT INTO books (isbn, title, author, volume)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (isbn) DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			volume = EXCLUDED.volume`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.ExecContext(timeoutCtx, query, b.ISBN, b.Title, b.Author, b.Volume)
	return mapPGError(err)
}

func (r *PostgresRepo) Delete(ctx context.Context, isbn string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(timeoutCtx, `DELETE FROM books WHERE isbn = $1`, isbn)
	if err != nil {
		return mapPGError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// orderByClause builds the ORDER BY list from whitelisted columns only. isbn
// is appended as a tie breaker so pages are stable.
func orderByClause(orders []Order) (string, error) {
	parts := make([]string, 0, len(orders)+1)
	seenISBN := false
	for _, o := range orders {
		col, ok := sortColumns[o.Property]
		if !ok {
			return "", fmt.Errorf("unsupported sort property %q", o.Property)
		}
		dir := "ASC"
		if o.Direction == Desc {
			dir = "DESC"
		}
		if col == "isbn" {
			seenISBN = true
		}
		parts = append(parts, col+" "+dir)
	}
	if !seenISBN {
		parts = append(parts, "isbn ASC")
	}
	return strings.Join(parts, ", "), nil
}

func mapPGError(err error) error {
	var pg *pgconn.PgError
	if errors.As(err, &pg) && pg.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pg.ConstraintName)
	}
	return err
}
