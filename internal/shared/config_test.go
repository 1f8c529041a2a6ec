package shared_test

import (
	"testing"
	"time"

	"ba_dashboard/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "HTTP_ADDR", "METRICS_ADDR", "SOURCE", "REVIEWS_PATH", "COUNTRIES_PATH",
		"REDIS_ADDR", "REDIS_DB", "CACHE_TTL_SECONDS", "REVALIDATE_SECONDS", "WATCH_INPUTS",
		"ALLOW_DUPLICATE_COUNTRIES", "HTTP_RPS", "FETCH_RPS",
	} {
		t.Setenv(k, "")
	}

	c := shared.Load()
	if c.AppEnv != "prod" || c.HTTPAddr != ":8080" || c.MetricsAddr != "" {
		t.Fatalf("unexpected server defaults: %+v", c)
	}
	if c.Source != shared.SourceFile || c.ReviewsPath != "ba_reviews.csv" || c.CountriesPath != "countries.csv" {
		t.Fatalf("unexpected input defaults: %+v", c)
	}
	if c.RedisAddr != "" || c.CacheTTL != 900*time.Second || c.Revalidate != 0 {
		t.Fatalf("unexpected cache defaults: %+v", c)
	}
	if !c.WatchInputs || c.AllowDuplicateCountries || c.HTTPRPS != 50 || c.FetchRPS != 5 {
		t.Fatalf("unexpected misc defaults: %+v", c)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SOURCE", "MySQL")
	t.Setenv("REVIEWS_PATH", "https://example.test/ba_reviews.xlsx")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("REVALIDATE_SECONDS", "5")
	t.Setenv("WATCH_INPUTS", "false")
	t.Setenv("ALLOW_DUPLICATE_COUNTRIES", "true")
	t.Setenv("HTTP_RPS", "not-a-number")

	c := shared.Load()
	if c.Source != shared.SourceMySQL || c.ReviewsPath != "https://example.test/ba_reviews.xlsx" {
		t.Fatalf("unexpected inputs: %+v", c)
	}
	if c.RedisAddr != "localhost:6379" || c.RedisDB != 2 || c.CacheTTL != time.Minute || c.Revalidate != 5*time.Second {
		t.Fatalf("unexpected cache settings: %+v", c)
	}
	if c.WatchInputs || !c.AllowDuplicateCountries {
		t.Fatalf("unexpected flags: %+v", c)
	}
	if c.HTTPRPS != 50 {
		t.Fatalf("bad integer should keep default, got %d", c.HTTPRPS)
	}
}

func TestLoad_UnknownSourceFallsBack(t *testing.T) {
	t.Setenv("SOURCE", "parquet")
	if c := shared.Load(); c.Source != shared.SourceFile {
		t.Fatalf("expected file source, got %q", c.Source)
	}
}
