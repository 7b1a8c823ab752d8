package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "cards.db") + "?_pragma=foreign_keys(1)"
	db, err := Open(context.Background(), Config{Driver: "sqlite", DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(db.Close)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func card(name, company, email string, at time.Time) *entity.BusinessCard {
	front := "http://localhost/storage/Cards_images/a_1.jpg"
	return entity.NewBusinessCard(entity.ContactRecord{
		FullName: name, Company: company, Email: email, Notes: "n",
	}, &front, nil, at)
}

func TestInsertGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(openTestDB(t), nil)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c := card("Jane Smith", "Acme Inc", "jane@acme.com", at)

	if err := repo.Insert(ctx, c); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, err := repo.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != c.ID || got.FullName != "Jane Smith" || got.Notes != "n" {
		t.Fatalf("unexpected card %+v", got)
	}
	if got.FrontImageURL == nil || *got.FrontImageURL != *c.FrontImageURL {
		t.Fatalf("front url = %v", got.FrontImageURL)
	}
	if got.BackImageURL != nil {
		t.Fatalf("back url should be NULL, got %q", *got.BackImageURL)
	}
	if !got.CreatedAt.Equal(at) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, at)
	}
}

func TestGetMissing(t *testing.T) {
	repo := NewCardRepository(openTestDB(t), nil)
	if _, err := repo.Get(context.Background(), uuid.New()); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirstAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(openTestDB(t), nil)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range []*entity.BusinessCard{
		card("Jane Smith", "Acme Inc", "jane@acme.com", base),
		card("Bob Stone", "Globex Group", "bob@globex.io", base.Add(time.Hour)),
		card("Ann Lee", "Initech LLC", "ann@initech.com", base.Add(2*time.Hour)),
	} {
		if err := repo.Insert(ctx, c); err != nil {
			t.Fatalf("Insert #%d: %v", i, err)
		}
	}

	all, err := repo.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].FullName != "Ann Lee" || all[2].FullName != "Jane Smith" {
		t.Fatalf("unexpected order: %v", names(all))
	}

	for q, want := range map[string]string{
		"ACME":    "Jane Smith",
		"globex":  "Bob Stone",
		"initech": "Ann Lee",
		"ann":     "Ann Lee",
	} {
		got, err := repo.List(ctx, ListFilter{Query: q})
		if err != nil {
			t.Fatalf("List(%q): %v", q, err)
		}
		if len(got) != 1 || got[0].FullName != want {
			t.Errorf("List(%q) = %v, want [%s]", q, names(got), want)
		}
	}

	limited, err := repo.List(ctx, ListFilter{Limit: 2})
	if err != nil || len(limited) != 2 {
		t.Fatalf("limit: %v %v", names(limited), err)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Count = %d, %v", n, err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(openTestDB(t), nil)
	c := card("Jane Smith", "", "", time.Now())
	if err := repo.Insert(ctx, c); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, c.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	if err := openTestDB(t).HealthCheck(context.Background(), time.Second); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "oracle"}, nil); err == nil {
		t.Fatal("expected error")
	}
}

func names(cs []*entity.BusinessCard) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.FullName
	}
	return out
}
