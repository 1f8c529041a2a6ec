package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	SourceFile  = "file"
	SourceMySQL = "mysql"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	Source        string
	ReviewsPath   string
	CountriesPath string
	MySQLDSN      string

	RedisAddr string
	RedisDB   int
	RedisPass string

	CacheTTL                time.Duration
	Revalidate              time.Duration
	WatchInputs             bool
	AllowDuplicateCountries bool
	HTTPRPS                 int
	FetchRPS                int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer setting")
		}
		return def
	}
	c := Config{
		AppEnv:                  env("APP_ENV", "prod"),
		HTTPAddr:                env("HTTP_ADDR", ":8080"),
		MetricsAddr:             os.Getenv("METRICS_ADDR"),
		Source:                  strings.ToLower(env("SOURCE", SourceFile)),
		ReviewsPath:             env("REVIEWS_PATH", "ba_reviews.csv"),
		CountriesPath:           env("COUNTRIES_PATH", "countries.csv"),
		MySQLDSN:                env("MYSQL_DSN", "root:root@tcp(localhost:3306)/ba?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		RedisPass:               env("REDIS_PASSWORD", ""),
		RedisDB:                 atoi("REDIS_DB", 0),
		CacheTTL:                time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		Revalidate:              time.Duration(atoi("REVALIDATE_SECONDS", 0)) * time.Second,
		WatchInputs:             boolEnv("WATCH_INPUTS", true),
		AllowDuplicateCountries: boolEnv("ALLOW_DUPLICATE_COUNTRIES", false),
		HTTPRPS:                 atoi("HTTP_RPS", 50),
		FetchRPS:                atoi("FETCH_RPS", 5),
	}
	if c.Source != SourceFile && c.Source != SourceMySQL {
		log.Warn().Str("source", c.Source).Msg("unknown SOURCE, falling back to file")
		c.Source = SourceFile
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func boolEnv(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-boolean setting")
		return def
	}
	return b
}
