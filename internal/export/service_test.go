package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

type staticLister struct {
	cards []*entity.BusinessCard
	query string
	err   error
}

func (l *staticLister) List(_ context.Context, query string, _ int) ([]*entity.BusinessCard, error) {
	l.query = query
	return l.cards, l.err
}

func TestCardsXLSX(t *testing.T) {
	front := "http://localhost/storage/Cards_images/a.jpg"
	lister := &staticLister{cards: []*entity.BusinessCard{
		entity.NewBusinessCard(entity.ContactRecord{FullName: "Jane Doe", Company: "Acme", Email: "jane@acme.com"}, &front, nil, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)),
		entity.NewBusinessCard(entity.ContactRecord{FullName: "John Roe", Notes: "follow up"}, nil, nil, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
	}}

	b, err := NewService(lister, nil).CardsXLSX(context.Background(), "acme")
	if err != nil {
		t.Fatalf("CardsXLSX: %v", err)
	}
	if lister.query != "acme" {
		t.Errorf("query = %q", lister.query)
	}

	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][0] != "Full Name" || rows[1][0] != "Jane Doe" || rows[1][8] != front || rows[1][10] != "2024-03-01 09:30" {
		t.Errorf("first data row = %v", rows[1])
	}
	if rows[2][7] != "follow up" {
		t.Errorf("notes = %q", rows[2][7])
	}
}

func TestCardsXLSXListError(t *testing.T) {
	_, err := NewService(&staticLister{err: errors.New("db down")}, nil).CardsXLSX(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("héllo", 3); got != "hé…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 3); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
}
