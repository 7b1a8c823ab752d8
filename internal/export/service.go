package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// CardLister is the read side of the cards service.
type CardLister interface {
	List(ctx context.Context, query string, limit int) ([]*entity.BusinessCard, error)
}

// Service produces XLSX bytes for card exports.
type Service struct {
	cards  CardLister
	logger *slog.Logger
}

func NewService(cards CardLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cards: cards, logger: logger}
}

const sheet = "Cards"

var headers = []string{
	"Full Name",
	"Company",
	"Job Title",
	"Email",
	"Phone",
	"Website",
	"Address",
	"Notes",
	"Front Image",
	"Back Image",
	"Added",
}

// CardsXLSX returns a workbook with one row per card matching query (all
// cards when query is empty), newest first.
func (s *Service) CardsXLSX(ctx context.Context, query string) ([]byte, error) {
	start := time.Now()

	cards, err := s.cards.List(ctx, query, 0)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("xlsx close failed", "error", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, style)
	}

	for i, c := range cards {
		row := i + 2
		values := []any{
			c.FullName,
			c.Company,
			c.JobTitle,
			c.Email,
			c.Phone,
			c.Website,
			c.Address,
			truncate(c.Notes, 500),
			deref(c.FrontImageURL),
			deref(c.BackImageURL),
			c.CreatedAt.UTC().Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "C", 24)
	_ = f.SetColWidth(sheet, "D", "F", 30)
	_ = f.SetColWidth(sheet, "G", "H", 48)
	_ = f.SetColWidth(sheet, "I", "J", 60)
	_ = f.SetColWidth(sheet, "K", "K", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"query", query,
		"rows", len(cards),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
