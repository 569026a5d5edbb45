//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"flavor_sentiment/internal/domain"
	mysqlrepo "flavor_sentiment/internal/storage/mysql"
)

func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations", "mysql")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

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
			"MYSQL_DATABASE=flavors",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/flavors?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
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

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_SyncIsIdempotent(t *testing.T) {
	db := startMySQL(t)
	if _, err := db.Exec(`INSERT INTO flavors (name) VALUES ('Lime'), ('Mango')`); err != nil {
		t.Fatalf("seed flavors: %v", err)
	}

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	id, err := repo.FlavorID(ctx, "Lime")
	if err != nil {
		t.Fatalf("FlavorID: %v", err)
	}
	if _, err := repo.FlavorID(ctx, "Cherry Limeade"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	row := domain.SentimentRow{
		FlavorID: id, Score: 0.6, Label: domain.LabelPositive, Summary: "tart, like real limes",
		CommentCount: 12, AvgRating: 4.25, LastUpdated: time.Now().UTC(),
	}
	comments := []domain.CommentRow{
		{FlavorID: id, CommentText: "so good", ReviewTitle: "yes", Rating: 5, ReviewDate: "January 1, 2024", IsNotable: true},
		{FlavorID: id, CommentText: "fine", ReviewTitle: "ok", Rating: 3, ReviewDate: "", IsNotable: true},
	}

	// run the replace sequence twice
	for i := 0; i < 2; i++ {
		if err := repo.UpsertSentiment(ctx, row); err != nil {
			t.Fatalf("UpsertSentiment: %v", err)
		}
		if err := repo.DeleteComments(ctx, id); err != nil {
			t.Fatalf("DeleteComments: %v", err)
		}
		if err := repo.InsertComments(ctx, comments); err != nil {
			t.Fatalf("InsertComments: %v", err)
		}
	}

	counts, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.Sentiments != 1 || counts.Comments != 2 {
		t.Fatalf("unexpected counts after rerun: %+v", counts)
	}

	views, err := repo.ListSentiments(ctx)
	if err != nil {
		t.Fatalf("ListSentiments: %v", err)
	}
	if len(views) != 1 || views[0].Flavor != "Lime" || views[0].Label != domain.LabelPositive || views[0].AvgRating != 4.25 {
		t.Fatalf("unexpected views: %+v", views)
	}

	cs, err := repo.ListComments(ctx, "Lime", 10)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(cs) != 2 || cs[0].Text != "so good" {
		t.Fatalf("unexpected comments: %+v", cs)
	}
}
