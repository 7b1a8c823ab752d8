package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/joseph-ayodele/cards-tracker/constants"
)

var (
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// optional +country code, optional area code, then two digit groups.
	// A match starts at '+', '(' or a word boundary and ends on one, so a
	// postal code or ZIP+4 is never split into phone digits. Separators
	// never cross a line break.
	rePhone = regexp.MustCompile(`(?:\+\d{1,3}[ \t.\-]?\(?|\(|\b)(?:\d{2,4}\b\)?[ \t.\-]?)?\d{3,4}[ \t.\-]?\d{3,4}\b`)

	// any dotted token ending in a TLD-ish suffix; tokens with '@' are filtered later
	reWebsite = regexp.MustCompile(`(?i)(?:https?://)?[^\s,;()<>]+\.[a-z]{2,}(?:/[^\s,;]*)?`)

	rePostalCode = regexp.MustCompile(`\b\d{5,6}\b`)
	rePhoneLine  = regexp.MustCompile(`^[\d\s+().\-/]+$`)
	reNameLine   = regexp.MustCompile(`^[\p{L}\s.'\-]+$`)
	reLineBreak  = regexp.MustCompile(`\r\n?|\n`)
)

// minPhoneDigits separates phone numbers from postal codes and short numbers.
const minPhoneDigits = 7

// Vocabulary is a keyword table compiled for case-insensitive, boundary-aware
// containment checks.
type Vocabulary struct {
	words []string
	re    *regexp.Regexp
}

// NewVocabulary compiles words; an empty list never matches.
func NewVocabulary(words []string) *Vocabulary {
	v := &Vocabulary{words: append([]string(nil), words...)}
	if len(words) == 0 {
		return v
	}
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(strings.ToLower(w))
		if w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	// longest first so "vice president" wins over "president" in reports
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	v.re = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(?:` + strings.Join(quoted, "|") + `)(?:$|[^\p{L}\p{N}])`)
	return v
}

// Matches reports whether line contains any word of the vocabulary.
func (v *Vocabulary) Matches(line string) bool {
	if v == nil || v.re == nil {
		return false
	}
	return v.re.MatchString(line)
}

// Words returns a copy of the source table.
func (v *Vocabulary) Words() []string {
	return append([]string(nil), v.words...)
}

// Vocabularies groups the three classification tables.
type Vocabularies struct {
	JobTitles *Vocabulary
	Address   *Vocabulary
	Company   *Vocabulary
}

// DefaultVocabularies is built from the constants tables.
func DefaultVocabularies() Vocabularies {
	return Vocabularies{
		JobTitles: NewVocabulary(constants.JobTitleTokens),
		Address:   NewVocabulary(constants.AddressKeywords),
		Company:   NewVocabulary(constants.CompanySuffixes),
	}
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func firstEmail(text string) string {
	return reEmail.FindString(text)
}

func firstPhone(text string) string {
	for _, m := range rePhone.FindAllString(text, -1) {
		if countDigits(m) >= minPhoneDigits {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func firstWebsite(text string) string {
	for _, m := range reWebsite.FindAllString(text, -1) {
		if strings.Contains(m, "@") {
			continue
		}
		return m
	}
	return ""
}

func isPhoneLine(line string) bool {
	return rePhoneLine.MatchString(line) && countDigits(line) >= minPhoneDigits
}

func splitLines(text string) []string {
	raw := reLineBreak.Split(text, -1)
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
