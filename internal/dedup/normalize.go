// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"regexp"
	"strings"
	"unicode"
)

// doiPrefix matches resolver prefixes that some sources keep on DOIs.
var doiPrefix = regexp.MustCompile(`(?i)^(https?://(dx\.)?doi\.org/|doi:)`)

// NormalizeTitle lowercases the title, replaces punctuation with spaces, and
// collapses runs of whitespace.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeDOI strips resolver prefixes and lowercases the DOI.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = doiPrefix.ReplaceAllString(doi, "")
	return strings.ToLower(doi)
}

// TokenSetRatio compares two normalized titles as sets of words and returns
// |A∩B| / |A∪B|. Identical titles score 1; an empty title scores 0.
func TokenSetRatio(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for t := range ta {
		if tb[t] {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, f := range strings.Fields(s) {
		set[f] = true
	}
	return set
}

// Surname extracts a comparable family name from an author string. It
// handles "Given Family" and "Family, Given" forms.
func Surname(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if idx := strings.Index(name, ","); idx > 0 {
		name = name[:idx]
	} else {
		fields := strings.Fields(name)
		name = fields[len(fields)-1]
	}
	return NormalizeTitle(name)
}

// AuthorOverlap returns the fraction of the shorter surname set that also
// appears in the other set. Either list being empty yields 0.
func AuthorOverlap(a, b []string) float64 {
	sa := surnameSet(a)
	sb := surnameSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	shorter, longer := sa, sb
	if len(sb) < len(sa) {
		shorter, longer = sb, sa
	}
	shared := 0
	for s := range shorter {
		if longer[s] {
			shared++
		}
	}
	return float64(shared) / float64(len(shorter))
}

func surnameSet(authors []string) map[string]bool {
	set := make(map[string]bool)
	for _, a := range authors {
		if s := Surname(a); s != "" {
			set[s] = true
		}
	}
	return set
}
