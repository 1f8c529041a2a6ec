package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"ba_dashboard/internal/domain"
	"ba_dashboard/internal/storage/file"
)

const reviewsCSV = `header,date,date_flown,place,traveller_type,recommended,aircraft,seat_type,rating
"Great flight",05/03/2020,01/02/2020, london ,Solo Leisure,yes,A380,Economy Class,9
"Meh",06/03/2020,,paris,,no,,Business Class,
`

const countriesCSV = `Country,Code,Continent
London,,Europe
Paris,FR,Europe
Sark,NA,Europe
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestSource_LoadCSV(t *testing.T) {
	dir := t.TempDir()
	src := file.New(writeFile(t, dir, "ba_reviews.csv", reviewsCSV), writeFile(t, dir, "countries.csv", countriesCSV), nil)

	raw, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(raw.Reviews) != 2 || len(raw.Countries) != 3 {
		t.Fatalf("unexpected sizes: %d reviews, %d countries", len(raw.Reviews), len(raw.Countries))
	}

	r0 := raw.Reviews[0]
	if deref(r0.Place) != " london " || deref(r0.Aircraft) != "A380" || deref(r0.Date) != "05/03/2020" {
		t.Fatalf("unexpected first review: %+v", r0)
	}
	r1 := raw.Reviews[1]
	if r1.DateFlown != nil || r1.TravellerType != nil || r1.Aircraft != nil {
		t.Fatalf("expected empty cells to load as nil: %+v", r1)
	}

	if len(raw.ReviewColumns) != 2 || raw.ReviewColumns[0] != "header" || raw.ReviewColumns[1] != "rating" {
		t.Fatalf("unexpected passthrough columns: %v", raw.ReviewColumns)
	}
	if deref(r0.Extra["header"]) != "Great flight" || deref(r0.Extra["rating"]) != "9" {
		t.Fatalf("passthrough values not preserved: %+v", r0.Extra)
	}
	if r1.Extra["rating"] != nil {
		t.Fatalf("expected nil passthrough rating on second row")
	}

	if raw.Countries[0].Code != nil || raw.Countries[2].Code != nil {
		t.Fatalf("expected missing codes to load as nil: %+v", raw.Countries)
	}

	id, err := src.Identity(context.Background())
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if id == "" || id != raw.Identity {
		t.Fatalf("identity mismatch: Identity()=%q Load()=%q", id, raw.Identity)
	}
}

func TestSource_LoadXLSX(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	rows := [][]any{
		{"date", "date_flown", "place", "traveller_type", "recommended", "aircraft", "seat_type"},
		{"05/03/2020", "01/02/2020", "france", "Couple Leisure", "yes", "Boeing 777"}, // trailing seat_type left empty
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := r
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	xlsxPath := filepath.Join(dir, "ba_reviews.xlsx")
	if err := f.SaveAs(xlsxPath); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	_ = f.Close()

	src := file.New(xlsxPath, writeFile(t, dir, "countries.csv", countriesCSV), nil)
	raw, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(raw.Reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(raw.Reviews))
	}
	r := raw.Reviews[0]
	if deref(r.Place) != "france" || deref(r.Aircraft) != "Boeing 777" || r.SeatType != nil {
		t.Fatalf("unexpected review: %+v", r)
	}
}

func TestSource_HeaderOnlyInputs(t *testing.T) {
	dir := t.TempDir()
	emptyReviews := writeFile(t, dir, "empty_reviews.csv", "date,date_flown,place,traveller_type,recommended,aircraft,seat_type,rating\n")
	emptyCountries := writeFile(t, dir, "empty_countries.csv", "Country,Code,Continent\n")
	reviews := writeFile(t, dir, "ba_reviews.csv", reviewsCSV)
	countries := writeFile(t, dir, "countries.csv", countriesCSV)

	raw, err := file.New(emptyReviews, countries, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("header-only reviews: %v", err)
	}
	if len(raw.Reviews) != 0 || len(raw.Countries) != 3 || len(raw.ReviewColumns) != 1 || raw.ReviewColumns[0] != "rating" {
		t.Fatalf("unexpected tables: %d reviews, %d countries, columns %v", len(raw.Reviews), len(raw.Countries), raw.ReviewColumns)
	}

	raw, err = file.New(reviews, emptyCountries, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("header-only countries: %v", err)
	}
	if len(raw.Reviews) != 2 || len(raw.Countries) != 0 {
		t.Fatalf("unexpected tables: %d reviews, %d countries", len(raw.Reviews), len(raw.Countries))
	}

	// the header is still checked
	short := writeFile(t, dir, "short_countries.csv", "Country,Code\n")
	_, err = file.New(reviews, short, nil).Load(context.Background())
	var le *domain.LoadError
	if !errors.As(err, &le) || le.Column != domain.ColContinent {
		t.Fatalf("expected missing Continent, got %v", err)
	}

	// nothing at all is still unreadable
	blank := writeFile(t, dir, "blank.csv", "")
	if _, err := file.New(reviews, blank, nil).Load(context.Background()); !errors.Is(err, domain.ErrLoad) {
		t.Fatalf("expected load error for an empty file, got %v", err)
	}
}

func TestSource_HeaderOnlyXLSX(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	header := []any{"Country", "Code", "Continent"}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	p := filepath.Join(dir, "countries.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	_ = f.Close()

	raw, err := file.New(writeFile(t, dir, "ba_reviews.csv", reviewsCSV), p, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(raw.Countries) != 0 || len(raw.Reviews) != 2 {
		t.Fatalf("unexpected tables: %d reviews, %d countries", len(raw.Reviews), len(raw.Countries))
	}
}

func TestSource_MissingFile(t *testing.T) {
	dir := t.TempDir()
	src := file.New(filepath.Join(dir, "nope.csv"), writeFile(t, dir, "countries.csv", countriesCSV), nil)

	_, err := src.Load(context.Background())
	if !errors.Is(err, domain.ErrLoad) {
		t.Fatalf("expected load error, got %v", err)
	}
	if _, err := src.Identity(context.Background()); !errors.Is(err, domain.ErrLoad) {
		t.Fatalf("expected load error from Identity, got %v", err)
	}
}

func TestSource_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	body := "date,date_flown,place,traveller_type,recommended,aircraft\n01/01/2020,,x,,yes,\n"
	src := file.New(writeFile(t, dir, "ba_reviews.csv", body), writeFile(t, dir, "countries.csv", countriesCSV), nil)

	_, err := src.Load(context.Background())
	var le *domain.LoadError
	if !errors.As(err, &le) || le.Column != domain.ColSeatType {
		t.Fatalf("expected missing seat_type LoadError, got %v", err)
	}
}

func TestSource_IdentityTracksChanges(t *testing.T) {
	dir := t.TempDir()
	rp := writeFile(t, dir, "ba_reviews.csv", reviewsCSV)
	cp := writeFile(t, dir, "countries.csv", countriesCSV)
	src := file.New(rp, cp, nil)

	id1, err := src.Identity(context.Background())
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	id2, _ := src.Identity(context.Background())
	if id1 != id2 {
		t.Fatalf("identity should be stable for unchanged inputs")
	}

	writeFile(t, dir, "countries.csv", countriesCSV+"Japan,JP,Asia\n")
	id3, _ := src.Identity(context.Background())
	if id3 == id1 {
		t.Fatalf("identity should change when an input changes")
	}
}

type fakeFetcher map[string]string

func (f fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	b, ok := f[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(b), nil
}

func TestSource_Remote(t *testing.T) {
	fetch := fakeFetcher{
		"https://example.test/ba_reviews.csv": reviewsCSV,
		"https://example.test/countries.csv":  countriesCSV,
	}
	src := file.New("https://example.test/ba_reviews.csv", "https://example.test/countries.csv", fetch)

	raw, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	id, _ := src.Identity(context.Background())
	if len(raw.Reviews) != 2 || raw.Identity != id {
		t.Fatalf("unexpected remote load: %d rows, identity %q vs %q", len(raw.Reviews), raw.Identity, id)
	}

	noFetch := file.New("https://example.test/ba_reviews.csv", "https://example.test/countries.csv", nil)
	if _, err := noFetch.Load(context.Background()); !errors.Is(err, domain.ErrLoad) {
		t.Fatalf("expected load error without fetcher, got %v", err)
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
