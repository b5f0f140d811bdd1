package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Table identifies a queryable table. Values are package-level constants in the
// domain packages; nothing request-supplied ever becomes a Table.
type Table struct {
	name  string
	label string
}

func NewTable(name, label string) Table { return Table{name: name, label: label} }

func (t Table) Name() string  { return t.name }
func (t Table) Label() string { return t.label }

// Sentinels for handler-level status mapping.
var (
	// ErrRefNotFound: a referential guard failed before a write.
	ErrRefNotFound = errors.New("referenced entity not found")
	// ErrForeignKey: the database rejected an insert/update with a FK violation.
	ErrForeignKey = errors.New("foreign key violation")
	// ErrRestricted: a delete was blocked because other rows still reference the row.
	ErrRestricted = errors.New("row still referenced")
	// ErrInvalid: a field value failed a model-level range check.
	ErrInvalid = errors.New("invalid field value")
)

// RefError carries the failing table and id for the guard's error message.
type RefError struct {
	Table Table
	ID    int64
}

func (e *RefError) Error() string {
	return fmt.Sprintf("%s with ID %d not found.", e.Table.label, e.ID)
}

func (e *RefError) Is(target error) bool { return target == ErrRefNotFound }

// RestrictedError names the relation that still references the row.
type RestrictedError struct {
	Table      Table
	Referencer string
}

func (e *RestrictedError) Error() string {
	if e.Referencer == "" {
		return fmt.Sprintf("%s is still referenced by other records", e.Table.label)
	}
	return fmt.Sprintf("%s is still referenced by %s", e.Table.label, e.Referencer)
}

func (e *RestrictedError) Is(target error) bool { return target == ErrRestricted }

const fkViolation = "23503"

// TranslateWriteErr maps a FK violation raised by an insert/update to ErrForeignKey.
func TranslateWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
		return fmt.Errorf("%w: %s", ErrForeignKey, pgErr.ConstraintName)
	}
	return err
}

type Store struct {
	DB *pgxpool.Pool
}

// FetchAll returns every row of the table as raw column maps.
func (s *Store) FetchAll(ctx context.Context, t Table) ([]map[string]any, error) {
	rows, err := s.DB.Query(ctx, `SELECT * FROM `+t.name+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToMap)
}

// FetchByID returns the row as a column map, or nil when absent.
func (s *Store) FetchByID(ctx context.Context, t Table, id int64) (map[string]any, error) {
	rows, err := s.DB.Query(ctx, `SELECT * FROM `+t.name+` WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteByID removes the row and reports how many rows went away. A RESTRICT
// violation becomes ErrRestricted naming the referencing relation.
func (s *Store) DeleteByID(ctx context.Context, t Table, id int64) (int64, error) {
	ct, err := s.DB.Exec(ctx, `DELETE FROM `+t.name+` WHERE id=$1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return 0, &RestrictedError{Table: t, Referencer: pgErr.TableName}
		}
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// Exists reports whether exactly one row with the id exists.
func (s *Store) Exists(ctx context.Context, t Table, id int64) (bool, error) {
	var one int
	err := s.DB.QueryRow(ctx, `SELECT 1 FROM `+t.name+` WHERE id=$1 LIMIT 1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Guard aborts a write early when a referenced row is missing, so the caller
// reports "<Entity> with ID <n> not found." instead of a raw constraint error.
func (s *Store) Guard(ctx context.Context, t Table, id int64) error {
	ok, err := s.Exists(ctx, t, id)
	if err != nil {
		return err
	}
	if !ok {
		return &RefError{Table: t, ID: id}
	}
	return nil
}
