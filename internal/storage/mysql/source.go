// Package mysql reads the reviews and countries tables from MySQL. It never
// writes: the tables are maintained outside this service. Input order is the
// primary key order of each table; primary key columns of ba_reviews pass
// through like any other extra column.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ba_dashboard/internal/domain"
	"ba_dashboard/internal/storage"
)

type Source struct{ db *sql.DB }

func New(db *sql.DB) *Source { return &Source{db: db} }

// Identity is derived from the live checksums of both tables.
func (s *Source) Identity(ctx context.Context) (string, error) {
	rows, err := s.db.QueryContext(ctx, checksumSQL)
	if err != nil {
		return "", &domain.LoadError{Source: "mysql", Err: err}
	}
	defer rows.Close()

	var parts []string
	for rows.Next() {
		var table string
		var sum sql.NullInt64
		if err := rows.Scan(&table, &sum); err != nil {
			return "", &domain.LoadError{Source: "mysql", Err: err}
		}
		if !sum.Valid {
			return "", &domain.LoadError{Source: table, Err: fmt.Errorf("table does not exist")}
		}
		parts = append(parts, fmt.Sprintf("%s:%d", table, sum.Int64))
	}
	if err := rows.Err(); err != nil {
		return "", &domain.LoadError{Source: "mysql", Err: err}
	}
	return "mysql:" + strings.Join(parts, ","), nil
}

func (s *Source) Load(ctx context.Context) (domain.RawTables, error) {
	var (
		revCols, ctyCols []string
		revRows, ctyRows []storage.Row
		id               string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		revCols, revRows, err = s.selectAll(gctx, reviewsTable)
		return err
	})
	g.Go(func() (err error) {
		ctyCols, ctyRows, err = s.selectAll(gctx, countriesTable)
		return err
	})
	g.Go(func() (err error) {
		id, err = s.Identity(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.RawTables{}, err
	}

	if err := storage.RequireColumns(reviewsTable, revCols, domain.ReviewColumns); err != nil {
		return domain.RawTables{}, err
	}
	if err := storage.RequireColumns(countriesTable, ctyCols, domain.CountryColumns); err != nil {
		return domain.RawTables{}, err
	}

	extra := storage.Passthrough(revCols)
	out := domain.RawTables{Identity: id, ReviewColumns: extra}
	for _, r := range revRows {
		out.Reviews = append(out.Reviews, storage.ReviewFromRow(r, extra))
	}
	for _, r := range ctyRows {
		out.Countries = append(out.Countries, storage.CountryFromRow(r))
	}
	return out, nil
}

// primaryKey returns the table's primary key columns, empty when it has none.
func (s *Source) primaryKey(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, primaryKeySQL, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// selectAll scans every column as nullable text, in primary key order.
func (s *Source) selectAll(ctx context.Context, table string) ([]string, []storage.Row, error) {
	pk, err := s.primaryKey(ctx, table)
	if err != nil {
		return nil, nil, &domain.LoadError{Source: table, Err: err}
	}
	if len(pk) == 0 {
		log.Warn().Str("table", table).Msg("table has no primary key, row order is not guaranteed")
	}
	rows, err := s.db.QueryContext(ctx, selectAllSQL(table, pk))
	if err != nil {
		return nil, nil, &domain.LoadError{Source: table, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, &domain.LoadError{Source: table, Err: err}
	}
	vals := make([]sql.NullString, len(cols))
	dst := make([]any, len(cols))
	for i := range vals {
		dst[i] = &vals[i]
	}

	var out []storage.Row
	for rows.Next() {
		if err := rows.Scan(dst...); err != nil {
			return nil, nil, &domain.LoadError{Source: table, Err: err}
		}
		row := make(storage.Row, len(cols))
		for i, c := range cols {
			if vals[i].Valid {
				v := vals[i].String
				row[c] = &v
			} else {
				row[c] = nil
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, &domain.LoadError{Source: table, Err: err}
	}
	return cols, out, nil
}
