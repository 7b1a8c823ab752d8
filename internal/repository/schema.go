package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	cardsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "full_name", Type: field.TypeString, Default: ""},
		{Name: "company", Type: field.TypeString, Default: ""},
		{Name: "job_title", Type: field.TypeString, Default: ""},
		{Name: "email", Type: field.TypeString, Default: ""},
		{Name: "phone", Type: field.TypeString, Default: ""},
		{Name: "website", Type: field.TypeString, Default: ""},
		{Name: "address", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "front_image_url", Type: field.TypeString, Nullable: true},
		{Name: "back_image_url", Type: field.TypeString, Nullable: true},
		{Name: "notes", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	// CardsTable holds the schema information for the "business_cards" table.
	CardsTable = &schema.Table{
		Name:       "business_cards",
		Columns:    cardsColumns,
		PrimaryKey: []*schema.Column{cardsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "businesscard_created_at",
				Unique:  false,
				Columns: []*schema.Column{cardsColumns[11]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{CardsTable}
)

// cardColumnNames in scan order.
func cardColumnNames() []string {
	names := make([]string, len(cardsColumns))
	for i, c := range cardsColumns {
		names[i] = c.Name
	}
	return names
}

// Migrate creates or updates the tables.
func (db *DB) Migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(db.drv)
	if err != nil {
		return fmt.Errorf("ent/migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		db.logger.Error("schema migration failed", "error", err)
		return fmt.Errorf("ent/migrate: %w", err)
	}
	db.logger.Info("schema up to date", "tables", len(Tables))
	return nil
}
