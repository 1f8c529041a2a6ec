//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"ba_dashboard/internal/domain"
	mysqlsrc "ba_dashboard/internal/storage/mysql"
)

const schema = `
CREATE TABLE ba_reviews (
  id             INT          NOT NULL PRIMARY KEY,
  header         VARCHAR(255) NULL,
  date           VARCHAR(32)  NULL,
  date_flown     VARCHAR(32)  NULL,
  place          VARCHAR(128) NULL,
  traveller_type VARCHAR(64)  NULL,
  recommended    VARCHAR(8)   NULL,
  aircraft       VARCHAR(128) NULL,
  seat_type      VARCHAR(64)  NULL
);
CREATE TABLE countries (
  Country   VARCHAR(128) NULL,
  Code      VARCHAR(8)   NULL,
  Continent VARCHAR(64)  NULL
);
-- inserted out of key order; reads follow the primary key
INSERT INTO ba_reviews VALUES
  (2, 'Late',   '06/03/2020', NULL,         ' sark ', NULL,           'no',  NULL,   'Business Class'),
  (1, 'Smooth', '05/03/2020', '01/02/2020', 'france', 'Solo Leisure', 'yes', 'A380', 'Economy Class');
INSERT INTO countries VALUES
  ('France', 'FR', 'Europe'),
  ('Sark',   NULL, 'Europe');
`

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=ba",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/ba?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSource_MySQL_LoadAndIdentity(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()
	src := mysqlsrc.New(db)

	// tables missing yet
	if _, err := src.Identity(ctx); !errors.Is(err, domain.ErrLoad) {
		t.Fatalf("expected load error before schema, got %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		t.Fatalf("schema: %v", err)
	}

	raw, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(raw.Reviews) != 2 || len(raw.Countries) != 2 {
		t.Fatalf("unexpected sizes: %d reviews, %d countries", len(raw.Reviews), len(raw.Countries))
	}
	if len(raw.ReviewColumns) != 2 || raw.ReviewColumns[0] != "id" || raw.ReviewColumns[1] != "header" {
		t.Fatalf("unexpected passthrough columns: %v", raw.ReviewColumns)
	}
	if raw.Reviews[1].DateFlown != nil || raw.Countries[1].Code != nil {
		t.Fatalf("expected NULL cells to load as nil")
	}
	if got := *raw.Reviews[0].Extra["header"]; got != "Smooth" {
		t.Fatalf("rows must follow the primary key, first header %q", got)
	}

	id1, err := src.Identity(ctx)
	if err != nil || id1 != raw.Identity {
		t.Fatalf("identity mismatch: %q vs %q (%v)", id1, raw.Identity, err)
	}

	if _, err := db.ExecContext(ctx, "INSERT INTO countries VALUES ('Japan','JP','Asia')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	id2, _ := src.Identity(ctx)
	if id2 == id1 {
		t.Fatalf("identity should change after a write")
	}
}

func TestSource_MySQL_MissingColumn(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `
CREATE TABLE ba_reviews (date VARCHAR(32), date_flown VARCHAR(32), place VARCHAR(64));
CREATE TABLE countries (Country VARCHAR(64), Code VARCHAR(8), Continent VARCHAR(64));`); err != nil {
		t.Fatalf("schema: %v", err)
	}

	_, err := mysqlsrc.New(db).Load(ctx)
	var le *domain.LoadError
	if !errors.As(err, &le) || le.Column != domain.ColTravellerType {
		t.Fatalf("expected missing traveller_type, got %v", err)
	}
}
