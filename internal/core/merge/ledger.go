// Package merge applies side candidates and user edits to the one contact
// record a session owns.
//
// Priority, lowest first: front merge, back merge (gap fill only), user edit.
// A field the user edited is never changed by a merge.
package merge

import (
	"fmt"

	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// Ledger is the record plus the set of user-edited fields. Not safe for
// concurrent use.
type Ledger struct {
	record entity.ContactRecord
	edited map[entity.Field]bool
}

func NewLedger() *Ledger {
	return &Ledger{edited: make(map[entity.Field]bool)}
}

// Record returns a copy of the current record.
func (l *Ledger) Record() entity.ContactRecord { return l.record }

// Edited reports whether the user has set f directly.
func (l *Ledger) Edited(f entity.Field) bool { return l.edited[f] }

// MergeFront overwrites every extracted field not edited by the user,
// including with empty values, and returns the fields that changed.
func (l *Ledger) MergeFront(c entity.ContactCandidate) []entity.Field {
	var changed []entity.Field
	for _, f := range entity.ExtractedFields {
		if l.edited[f] {
			continue
		}
		v := c.Get(f)
		if l.record.Get(f) != v {
			l.record.Set(f, v)
			changed = append(changed, f)
		}
	}
	return changed
}

// MergeBack writes a field only when the record's value is empty and the
// user has not edited it.
func (l *Ledger) MergeBack(c entity.ContactCandidate) []entity.Field {
	var changed []entity.Field
	for _, f := range entity.ExtractedFields {
		if l.edited[f] || l.record.Get(f) != "" {
			continue
		}
		if v := c.Get(f); v != "" {
			l.record.Set(f, v)
			changed = append(changed, f)
		}
	}
	return changed
}

// Edit applies a direct user edit. The field is then protected from merges,
// even when v is empty.
func (l *Ledger) Edit(f entity.Field, v string) error {
	if !l.record.Set(f, v) {
		return fmt.Errorf("unknown field %q", f)
	}
	l.edited[f] = true
	return nil
}

// ResetFront empties every field but notes and forgets their edit marks.
func (l *Ledger) ResetFront() {
	notes, notesEdited := l.record.Notes, l.edited[entity.FieldNotes]
	l.record = entity.ContactRecord{Notes: notes}
	l.edited = make(map[entity.Field]bool)
	if notesEdited {
		l.edited[entity.FieldNotes] = true
	}
}
