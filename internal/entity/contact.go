package entity

import "fmt"

// Field names one slot of a contact record.
type Field string

const (
	FieldFullName Field = "full_name"
	FieldCompany  Field = "company"
	FieldJobTitle Field = "job_title"
	FieldEmail    Field = "email"
	FieldPhone    Field = "phone"
	FieldWebsite  Field = "website"
	FieldAddress  Field = "address"
	FieldNotes    Field = "notes"
)

// ExtractedFields are the seven fields a card side can contribute, in display order.
var ExtractedFields = []Field{
	FieldFullName,
	FieldCompany,
	FieldJobTitle,
	FieldEmail,
	FieldPhone,
	FieldWebsite,
	FieldAddress,
}

// AllFields adds the session-scoped notes field.
var AllFields = append(append([]Field(nil), ExtractedFields...), FieldNotes)

// ParseField accepts the snake_case storage names.
func ParseField(s string) (Field, error) {
	for _, f := range AllFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown contact field %q", s)
}

// ContactCandidate is one side's extraction result. Empty means "not found".
type ContactCandidate struct {
	FullName string `json:"full_name"`
	Company  string `json:"company"`
	JobTitle string `json:"job_title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
	Address  string `json:"address"`

	// RawText is the recognized text the candidate came from.
	RawText string `json:"raw_text,omitempty"`
}

// Get returns the value of an extracted field; notes and unknown fields are "".
func (c ContactCandidate) Get(f Field) string {
	switch f {
	case FieldFullName:
		return c.FullName
	case FieldCompany:
		return c.Company
	case FieldJobTitle:
		return c.JobTitle
	case FieldEmail:
		return c.Email
	case FieldPhone:
		return c.Phone
	case FieldWebsite:
		return c.Website
	case FieldAddress:
		return c.Address
	}
	return ""
}

// IsEmpty reports whether extraction found nothing at all.
func (c ContactCandidate) IsEmpty() bool {
	for _, f := range ExtractedFields {
		if c.Get(f) != "" {
			return false
		}
	}
	return true
}

// ContactRecord is the user-visible record a session edits and submits.
type ContactRecord struct {
	FullName string `json:"full_name"`
	Company  string `json:"company"`
	JobTitle string `json:"job_title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

func (r *ContactRecord) ptr(f Field) *string {
	switch f {
	case FieldFullName:
		return &r.FullName
	case FieldCompany:
		return &r.Company
	case FieldJobTitle:
		return &r.JobTitle
	case FieldEmail:
		return &r.Email
	case FieldPhone:
		return &r.Phone
	case FieldWebsite:
		return &r.Website
	case FieldAddress:
		return &r.Address
	case FieldNotes:
		return &r.Notes
	}
	return nil
}

// Get returns the value of f, "" for unknown fields.
func (r ContactRecord) Get(f Field) string {
	if p := r.ptr(f); p != nil {
		return *p
	}
	return ""
}

// Set assigns f and reports whether f is a known field.
func (r *ContactRecord) Set(f Field, v string) bool {
	p := r.ptr(f)
	if p == nil {
		return false
	}
	*p = v
	return true
}

// IsEmpty reports whether every extracted field is blank. Notes do not count.
func (r ContactRecord) IsEmpty() bool {
	for _, f := range ExtractedFields {
		if r.Get(f) != "" {
			return false
		}
	}
	return true
}
