package entity

import (
	"time"

	"github.com/google/uuid"
)

// BusinessCard is a persisted card row for data transfer between layers.
type BusinessCard struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	Company       string    `json:"company"`
	JobTitle      string    `json:"job_title"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Website       string    `json:"website"`
	Address       string    `json:"address"`
	FrontImageURL *string   `json:"front_image_url,omitempty"`
	BackImageURL  *string   `json:"back_image_url,omitempty"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewBusinessCard copies a submitted record into a new row.
func NewBusinessCard(rec ContactRecord, frontURL, backURL *string, now time.Time) *BusinessCard {
	return &BusinessCard{
		ID:            uuid.New(),
		FullName:      rec.FullName,
		Company:       rec.Company,
		JobTitle:      rec.JobTitle,
		Email:         rec.Email,
		Phone:         rec.Phone,
		Website:       rec.Website,
		Address:       rec.Address,
		FrontImageURL: frontURL,
		BackImageURL:  backURL,
		Notes:         rec.Notes,
		CreatedAt:     now.UTC(),
	}
}

// Record returns the contact fields of the card.
func (c *BusinessCard) Record() ContactRecord {
	return ContactRecord{
		FullName: c.FullName,
		Company:  c.Company,
		JobTitle: c.JobTitle,
		Email:    c.Email,
		Phone:    c.Phone,
		Website:  c.Website,
		Address:  c.Address,
		Notes:    c.Notes,
	}
}

// Submission is what a session hands to persistence: the record and each
// side's original (uncropped) image, when present.
type Submission struct {
	Record ContactRecord
	Front  *Image
	Back   *Image
}
