package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// ListFilter narrows List. Query matches full name, company or email,
// case-insensitively.
type ListFilter struct {
	Query string
	Limit int
}

type CardRepository interface {
	Insert(ctx context.Context, card *entity.BusinessCard) error
	Get(ctx context.Context, id uuid.UUID) (*entity.BusinessCard, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.BusinessCard, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type cardRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewCardRepository(db *DB, logger *slog.Logger) CardRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &cardRepository{
		db:     db,
		logger: logger,
	}
}

func (r *cardRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.dialect)
}

func (r *cardRepository) Insert(ctx context.Context, c *entity.BusinessCard) error {
	q, args := r.builder().Insert(CardsTable.Name).
		Columns(cardColumnNames()...).
		Values(
			c.ID, c.FullName, c.Company, c.JobTitle, c.Email, c.Phone, c.Website, c.Address,
			nullable(c.FrontImageURL), nullable(c.BackImageURL), c.Notes, c.CreatedAt,
		).
		Query()
	if err := r.db.drv.Exec(ctx, q, args, nil); err != nil {
		r.logger.Error("failed to insert card", "card_id", c.ID, "error", err)
		return fmt.Errorf("%w: insert card: %v", common.ErrDatabase, err)
	}
	r.logger.Debug("card inserted", "card_id", c.ID)
	return nil
}

func (r *cardRepository) Get(ctx context.Context, id uuid.UUID) (*entity.BusinessCard, error) {
	b := r.builder()
	q, args := b.Select(cardColumnNames()...).
		From(b.Table(CardsTable.Name)).
		Where(entsql.EQ("id", id)).
		Limit(1).
		Query()
	cards, err := r.query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("card %s: %w", id, common.ErrNotFound)
	}
	return cards[0], nil
}

func (r *cardRepository) List(ctx context.Context, f ListFilter) ([]*entity.BusinessCard, error) {
	b := r.builder()
	sel := b.Select(cardColumnNames()...).
		From(b.Table(CardsTable.Name)).
		OrderBy(entsql.Desc("created_at"))
	if s := strings.TrimSpace(f.Query); s != "" {
		sel = sel.Where(entsql.Or(
			entsql.ContainsFold("full_name", s),
			entsql.ContainsFold("company", s),
			entsql.ContainsFold("email", s),
		))
	}
	if f.Limit > 0 {
		sel = sel.Limit(f.Limit)
	}
	q, args := sel.Query()
	return r.query(ctx, q, args)
}

func (r *cardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q, args := r.builder().Delete(CardsTable.Name).Where(entsql.EQ("id", id)).Query()
	var res sql.Result
	if err := r.db.drv.Exec(ctx, q, args, &res); err != nil {
		r.logger.Error("failed to delete card", "card_id", id, "error", err)
		return fmt.Errorf("%w: delete card: %v", common.ErrDatabase, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("card %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *cardRepository) Count(ctx context.Context) (int, error) {
	b := r.builder()
	q, args := b.Select(entsql.Count("*")).From(b.Table(CardsTable.Name)).Query()
	rows := &entsql.Rows{}
	if err := r.db.drv.Query(ctx, q, args, rows); err != nil {
		return 0, fmt.Errorf("%w: count cards: %v", common.ErrDatabase, err)
	}
	defer rows.Close()
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}

func (r *cardRepository) query(ctx context.Context, q string, args []any) ([]*entity.BusinessCard, error) {
	rows := &entsql.Rows{}
	if err := r.db.drv.Query(ctx, q, args, rows); err != nil {
		r.logger.Error("failed to query cards", "error", err)
		return nil, fmt.Errorf("%w: query cards: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.BusinessCard
	for rows.Next() {
		var (
			c           entity.BusinessCard
			front, back sql.NullString
		)
		if err := rows.Scan(
			&c.ID, &c.FullName, &c.Company, &c.JobTitle, &c.Email, &c.Phone, &c.Website, &c.Address,
			&front, &back, &c.Notes, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		c.FrontImageURL = stringPtr(front)
		c.BackImageURL = stringPtr(back)
		out = append(out, &c)
	}
	return out, rows.Err()
}

func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
