// Package file loads the reviews and countries tables from CSV or xlsx
// documents, either local paths or http(s) URLs.
package file

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"ba_dashboard/internal/domain"
	"ba_dashboard/internal/storage"
)

// naValues are the cell spellings read as missing.
var naValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

type Source struct {
	reviews   string
	countries string
	fetch     domain.Fetcher
}

// New returns a Source for the two locations. fetch serves http(s) locations
// and may be nil when both are local paths.
func New(reviewsPath, countriesPath string, fetch domain.Fetcher) *Source {
	return &Source{reviews: reviewsPath, countries: countriesPath, fetch: fetch}
}

// Identity combines path, size and mtime of local files; remote documents are
// identified by a hash of their content.
func (s *Source) Identity(ctx context.Context) (string, error) {
	var parts [2]string
	for i, loc := range []string{s.reviews, s.countries} {
		if isRemote(loc) {
			b, err := s.read(ctx, loc)
			if err != nil {
				return "", err
			}
			parts[i] = contentID(b)
			continue
		}
		id, err := statID(loc)
		if err != nil {
			return "", err
		}
		parts[i] = id
	}
	return combine(parts[:]), nil
}

func (s *Source) Load(ctx context.Context) (domain.RawTables, error) {
	var (
		rev, cty     table
		revID, ctyID string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rev, revID, err = s.loadTable(gctx, s.reviews)
		return err
	})
	g.Go(func() (err error) {
		cty, ctyID, err = s.loadTable(gctx, s.countries)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.RawTables{}, err
	}

	if err := storage.RequireColumns(s.reviews, rev.names, domain.ReviewColumns); err != nil {
		return domain.RawTables{}, err
	}
	if err := storage.RequireColumns(s.countries, cty.names, domain.CountryColumns); err != nil {
		return domain.RawTables{}, err
	}

	extra := storage.Passthrough(rev.names)
	out := domain.RawTables{
		Identity:      combine([]string{revID, ctyID}),
		ReviewColumns: extra,
	}
	for _, r := range rev.rows {
		out.Reviews = append(out.Reviews, storage.ReviewFromRow(r, extra))
	}
	for _, r := range cty.rows {
		out.Countries = append(out.Countries, storage.CountryFromRow(r))
	}
	return out, nil
}

// table is one loaded document: its header and data rows.
type table struct {
	names []string
	rows  []storage.Row
}

// loadTable reads one document and returns it with its identity part. A
// document holding only a header loads as an empty table.
func (s *Source) loadTable(ctx context.Context, loc string) (table, string, error) {
	var id string
	if !isRemote(loc) {
		var err error
		if id, err = statID(loc); err != nil {
			return table{}, "", err
		}
	}
	b, err := s.read(ctx, loc)
	if err != nil {
		return table{}, "", err
	}
	if id == "" {
		id = contentID(b)
	}

	var records [][]string
	if isXLSX(loc) {
		records, err = xlsxRecords(b)
	} else {
		records, err = csvRecords(b)
	}
	if err != nil {
		return table{}, "", &domain.LoadError{Source: loc, Err: err}
	}
	if len(records) == 0 {
		return table{}, "", &domain.LoadError{Source: loc, Err: errors.New("no header row")}
	}
	if len(records) == 1 {
		return table{names: records[0]}, id, nil
	}

	df := dataframe.LoadRecords(records, loadOptions()...)
	if df.Err != nil {
		return table{}, "", &domain.LoadError{Source: loc, Err: df.Err}
	}
	return table{names: df.Names(), rows: frameRows(df)}, id, nil
}

func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	}
}

func (s *Source) read(ctx context.Context, loc string) ([]byte, error) {
	if isRemote(loc) {
		if s.fetch == nil {
			return nil, &domain.LoadError{Source: loc, Err: errors.New("remote inputs are not configured")}
		}
		b, err := s.fetch.Fetch(ctx, loc)
		if err != nil {
			return nil, &domain.LoadError{Source: loc, Err: err}
		}
		return b, nil
	}
	b, err := os.ReadFile(loc)
	if err != nil {
		return nil, &domain.LoadError{Source: loc, Err: err}
	}
	return b, nil
}

// csvRecords reads the whole document the way dataframe.ReadCSV does, so a
// header-only file can be told apart before building a DataFrame.
func csvRecords(b []byte) ([][]string, error) {
	return csv.NewReader(bytes.NewReader(b)).ReadAll()
}

// xlsxRecords returns the first sheet as rectangular records, header first.
func xlsxRecords(b []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	width := len(rows[0])
	for i, r := range rows {
		// GetRows drops trailing empty cells
		if len(r) < width {
			rows[i] = append(r, make([]string, width-len(r))...)
		} else if len(r) > width {
			rows[i] = r[:width]
		}
	}
	return rows, nil
}

func frameRows(df dataframe.DataFrame) []storage.Row {
	names := df.Names()
	cols := make([]series.Series, len(names))
	for i, n := range names {
		cols[i] = df.Col(n)
	}
	out := make([]storage.Row, df.Nrow())
	for r := range out {
		row := make(storage.Row, len(names))
		for i, n := range names {
			e := cols[i].Elem(r)
			if e.IsNA() {
				row[n] = nil
				continue
			}
			v := e.String()
			row[n] = &v
		}
		out[r] = row
	}
	return out
}

func statID(loc string) (string, error) {
	fi, err := os.Stat(loc)
	if err != nil {
		return "", &domain.LoadError{Source: loc, Err: err}
	}
	if fi.IsDir() {
		return "", &domain.LoadError{Source: loc, Err: errors.New("is a directory")}
	}
	return fmt.Sprintf("%s:%d:%d", loc, fi.Size(), fi.ModTime().UnixNano()), nil
}

func contentID(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func combine(parts []string) string {
	return contentID([]byte(strings.Join(parts, "|")))
}

func isRemote(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

func isXLSX(loc string) bool {
	p := loc
	if isRemote(loc) {
		if u, err := url.Parse(loc); err == nil {
			p = u.Path
		}
	}
	return strings.EqualFold(path.Ext(p), ".xlsx")
}
