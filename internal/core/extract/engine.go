// Package extract turns recognized card text into a contact candidate.
//
// The pass is a single, order-dependent heuristic: pattern fields (email,
// phone, website) take their first match in the whole text, and each line is
// then classified top to bottom as job title, address part, name, or company.
// Results are best-effort and always meant to be reviewed by a person.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

const (
	nameLineWindow = 3 // names are only looked for near the top of the card
	minNameRunes   = 3
	maxNameRunes   = 49
)

// Engine runs extraction with a fixed set of vocabularies.
type Engine struct {
	vocab Vocabularies
}

// NewEngine builds an engine; nil tables fall back to the defaults.
func NewEngine(v Vocabularies) *Engine {
	def := DefaultVocabularies()
	if v.JobTitles == nil {
		v.JobTitles = def.JobTitles
	}
	if v.Address == nil {
		v.Address = def.Address
	}
	if v.Company == nil {
		v.Company = def.Company
	}
	return &Engine{vocab: v}
}

var defaultEngine = NewEngine(Vocabularies{})

// Extract runs the default engine.
func Extract(text string) entity.ContactCandidate {
	return defaultEngine.Extract(text)
}

// Extract never fails; missing fields are empty strings.
func (e *Engine) Extract(text string) entity.ContactCandidate {
	c := entity.ContactCandidate{
		RawText: text,
		Email:   firstEmail(text),
		Phone:   firstPhone(text),
		Website: firstWebsite(text),
	}

	var names, companies, addressParts []string
	for i, line := range splitLines(text) {
		if (c.Email != "" && line == c.Email) || isPhoneLine(line) {
			continue
		}

		if c.JobTitle == "" && e.vocab.JobTitles.Matches(line) {
			c.JobTitle = line
			continue
		}

		if e.vocab.Address.Matches(line) || rePostalCode.MatchString(line) {
			addressParts = append(addressParts, line)
			continue
		}

		if i < nameLineWindow && isNameLike(line) {
			names = append(names, line)
		}
		if e.vocab.Company.Matches(line) {
			companies = append(companies, line)
		}
	}

	if len(names) > 0 {
		c.FullName = names[0]
	}
	if len(companies) > 0 {
		c.Company = companies[0]
	}
	c.Address = strings.Join(addressParts, ", ")
	return c
}

func isNameLike(line string) bool {
	n := utf8.RuneCountInString(line)
	return n >= minNameRunes && n <= maxNameRunes && reNameLine.MatchString(line)
}
