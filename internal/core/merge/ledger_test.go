package merge

import (
	"math/rand"
	"testing"

	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

func TestFrontThenBack(t *testing.T) {
	l := NewLedger()
	l.MergeFront(entity.ContactCandidate{Company: "Acme"})
	l.MergeBack(entity.ContactCandidate{Company: "OtherCo", Email: "b@other.co"})

	rec := l.Record()
	if rec.Company != "Acme" {
		t.Fatalf("company = %q, want Acme", rec.Company)
	}
	if rec.Email != "b@other.co" {
		t.Fatalf("email = %q, back should fill the gap", rec.Email)
	}
}

func TestBackIntoEmptyRecord(t *testing.T) {
	l := NewLedger()
	l.MergeBack(entity.ContactCandidate{Email: "x@y.com"})
	if l.Record().Email != "x@y.com" {
		t.Fatalf("email = %q", l.Record().Email)
	}
}

func TestFrontOverwritesIncludingEmpty(t *testing.T) {
	l := NewLedger()
	l.MergeFront(entity.ContactCandidate{FullName: "Jane", Phone: "555 0100 200"})
	changed := l.MergeFront(entity.ContactCandidate{FullName: "Janet"})

	rec := l.Record()
	if rec.FullName != "Janet" || rec.Phone != "" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if len(changed) != 2 {
		t.Fatalf("changed = %v", changed)
	}
}

func TestEditsSurviveMerges(t *testing.T) {
	l := NewLedger()
	if err := l.Edit(entity.FieldEmail, "me@mine.io"); err != nil {
		t.Fatal(err)
	}
	if err := l.Edit(entity.FieldCompany, ""); err != nil {
		t.Fatal(err)
	}
	l.MergeFront(entity.ContactCandidate{Email: "front@acme.com", Company: "Acme"})
	l.MergeBack(entity.ContactCandidate{Company: "Back Inc"})

	rec := l.Record()
	if rec.Email != "me@mine.io" {
		t.Fatalf("email = %q", rec.Email)
	}
	if rec.Company != "" {
		t.Fatalf("company = %q, an edit to empty must stick", rec.Company)
	}
	if !l.Edited(entity.FieldEmail) || l.Edited(entity.FieldPhone) {
		t.Fatal("edit flags wrong")
	}
}

func TestEditUnknownField(t *testing.T) {
	if err := NewLedger().Edit(entity.Field("fax"), "1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestResetFrontKeepsNotes(t *testing.T) {
	l := NewLedger()
	l.MergeFront(entity.ContactCandidate{FullName: "Jane", Email: "j@a.co"})
	_ = l.Edit(entity.FieldNotes, "met at expo")
	_ = l.Edit(entity.FieldPhone, "123 4567")

	l.ResetFront()
	rec := l.Record()
	if !rec.IsEmpty() || rec.Notes != "met at expo" {
		t.Fatalf("unexpected record after reset: %+v", rec)
	}
	if l.Edited(entity.FieldPhone) || !l.Edited(entity.FieldNotes) {
		t.Fatal("reset should forget field edits but keep the notes edit")
	}
}

func TestFrontMergeIdempotent(t *testing.T) {
	c := entity.ContactCandidate{FullName: "Jane Smith", Company: "Acme Corp LLC", Email: "jane@acme.com"}
	once := NewLedger()
	once.MergeFront(c)
	twice := NewLedger()
	twice.MergeFront(c)
	if changed := twice.MergeFront(c); len(changed) != 0 {
		t.Fatalf("second merge changed %v", changed)
	}
	if once.Record() != twice.Record() {
		t.Fatalf("records differ: %+v vs %+v", once.Record(), twice.Record())
	}
}

func randomCandidate(r *rand.Rand) entity.ContactCandidate {
	pick := func() string {
		vals := []string{"", "", "a", "b", "c"}
		return vals[r.Intn(len(vals))]
	}
	return entity.ContactCandidate{
		FullName: pick(), Company: pick(), JobTitle: pick(), Email: pick(),
		Phone: pick(), Website: pick(), Address: pick(),
	}
}

// Random sequences of merges and edits: edited fields never change after the
// edit, and a back merge never touches a non-empty field.
func TestMergeProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		l := NewLedger()
		want := map[entity.Field]string{}
		for step := 0; step < 12; step++ {
			before := l.Record()
			switch r.Intn(3) {
			case 0:
				l.MergeFront(randomCandidate(r))
			case 1:
				l.MergeBack(randomCandidate(r))
				after := l.Record()
				for _, f := range entity.ExtractedFields {
					if before.Get(f) != "" && after.Get(f) != before.Get(f) {
						t.Fatalf("back merge overwrote %s: %q -> %q", f, before.Get(f), after.Get(f))
					}
				}
			case 2:
				f := entity.ExtractedFields[r.Intn(len(entity.ExtractedFields))]
				v := randomCandidate(r).FullName
				_ = l.Edit(f, v)
				want[f] = v
			}
			for f, v := range want {
				if got := l.Record().Get(f); got != v {
					t.Fatalf("edited field %s changed: %q -> %q", f, v, got)
				}
			}
		}
	}
}
